package nn

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yonderakyol/pyradox/internal/backend/cpu"
	"github.com/yonderakyol/pyradox/internal/tensor"
)

func TestLinearForward(t *testing.T) {
	backend := cpu.New()
	layer := NewLinear(4, 3, backend)

	input := tensor.Zeros[float32](tensor.Shape{2, 4}, backend)
	output := layer.Forward(input)

	assert.Equal(t, tensor.Shape{2, 3}, output.Shape())
	assert.Len(t, layer.Parameters(), 2)
}

func TestLinearKnownValues(t *testing.T) {
	backend := cpu.New()
	layer := NewLinear(2, 2, backend)

	// Overwrite initialization with known weights.
	copy(layer.weight.Tensor().Data(), []float32{1, 2, 3, 4}) // [[1,2],[3,4]]
	copy(layer.bias.Tensor().Data(), []float32{10, 20})

	input, err := tensor.FromSlice([]float32{1, 1}, tensor.Shape{1, 2}, backend)
	require.NoError(t, err)

	output := layer.Forward(input)
	// y = x @ W.T + b = [1+2, 3+4] + [10, 20]
	assert.Equal(t, []float32{13, 27}, output.Data())
}

func TestLinearShapeMismatchPanics(t *testing.T) {
	backend := cpu.New()
	layer := NewLinear(4, 3, backend)

	input := tensor.Zeros[float32](tensor.Shape{2, 5}, backend)
	assert.Panics(t, func() { layer.Forward(input) })
}

func TestConv2DForwardShape(t *testing.T) {
	backend := cpu.New()
	// Same-padding 3x3 conv.
	conv := NewConv2D(3, 8, 3, 3, 1, 1, false, backend)

	input := tensor.Zeros[float32](tensor.Shape{2, 3, 16, 16}, backend)
	output := conv.Forward(input)

	assert.Equal(t, tensor.Shape{2, 8, 16, 16}, output.Shape())
	assert.Len(t, conv.Parameters(), 1)
}

func TestConv2DBias(t *testing.T) {
	backend := cpu.New()
	conv := NewConv2D(1, 2, 1, 1, 1, 0, true, backend)

	// Zero weights, known bias: output is the broadcast bias.
	for i := range conv.weight.Tensor().Data() {
		conv.weight.Tensor().Data()[i] = 0
	}
	copy(conv.bias.Tensor().Data(), []float32{1, 2})

	input := tensor.Ones[float32](tensor.Shape{1, 1, 2, 2}, backend)
	output := conv.Forward(input)

	assert.Equal(t, tensor.Shape{1, 2, 2, 2}, output.Shape())
	assert.Equal(t, []float32{1, 1, 1, 1, 2, 2, 2, 2}, output.Data())
}

func TestConv2DComputeOutputSize(t *testing.T) {
	backend := cpu.New()

	// DenseNet stem conv: 7x7, stride 2, on a padded 230x230 input.
	conv := NewConv2D(3, 64, 7, 7, 2, 0, false, backend)
	assert.Equal(t, [2]int{112, 112}, conv.ComputeOutputSize(230, 230))
}

func TestBatchNorm2DNormalizes(t *testing.T) {
	backend := cpu.New()
	bn := NewBatchNorm2D(1, 1e-5, backend)

	input, err := tensor.FromSlice([]float32{1, 2, 3, 4}, tensor.Shape{1, 1, 2, 2}, backend)
	require.NoError(t, err)

	output := bn.Forward(input)
	data := output.Data()

	// With gamma=1, beta=0 the output has zero mean and unit variance.
	var mean float64
	for _, v := range data {
		mean += float64(v)
	}
	mean /= float64(len(data))
	assert.InDelta(t, 0, mean, 1e-5)

	var variance float64
	for _, v := range data {
		variance += (float64(v) - mean) * (float64(v) - mean)
	}
	variance /= float64(len(data))
	assert.InDelta(t, 1, variance, 1e-2)
}

func TestBatchNorm2DGammaBeta(t *testing.T) {
	backend := cpu.New()
	bn := NewBatchNorm2D(1, 1e-5, backend)

	copy(bn.gamma.Tensor().Data(), []float32{2})
	copy(bn.beta.Tensor().Data(), []float32{5})

	// Constant input normalizes to zero, so output is beta.
	input := tensor.Ones[float32](tensor.Shape{1, 1, 2, 2}, backend)
	output := bn.Forward(input)

	for _, v := range output.Data() {
		assert.InDelta(t, 5, v, 1e-2)
	}
}

func TestBatchNorm1DNormalizes(t *testing.T) {
	backend := cpu.New()
	bn := NewBatchNorm1D(2, 1e-5, backend)

	input, err := tensor.FromSlice([]float32{1, 10, 3, 20}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)

	output := bn.Forward(input)
	data := output.Data()

	// Each feature column has zero mean.
	assert.InDelta(t, 0, float64(data[0]+data[2]), 1e-4)
	assert.InDelta(t, 0, float64(data[1]+data[3]), 1e-4)
}

func TestDropoutInference(t *testing.T) {
	backend := cpu.New()
	dropout := NewDropout[*cpu.CPUBackend](0.5)

	input := tensor.Ones[float32](tensor.Shape{4, 4}, backend)
	output := dropout.Forward(input)

	// Identity in inference mode.
	assert.Equal(t, input.Data(), output.Data())
}

func TestDropoutTraining(t *testing.T) {
	backend := cpu.New()
	dropout := NewDropout[*cpu.CPUBackend](0.5)
	dropout.SetTraining(true)

	input := tensor.Ones[float32](tensor.Shape{100, 100}, backend)
	output := dropout.Forward(input)

	// Survivors are scaled by 1/(1-p); everything else is zero.
	zeros := 0
	for _, v := range output.Data() {
		if v == 0 {
			zeros++
		} else {
			assert.InDelta(t, 2.0, v, 1e-6)
		}
	}
	assert.Greater(t, zeros, 3000)
	assert.Less(t, zeros, 7000)

	// Input is untouched.
	assert.Equal(t, float32(1), input.Data()[0])
}

func TestFlatten(t *testing.T) {
	backend := cpu.New()
	flatten := NewFlatten[*cpu.CPUBackend]()

	input := tensor.Zeros[float32](tensor.Shape{2, 3, 4, 5}, backend)
	output := flatten.Forward(input)

	assert.Equal(t, tensor.Shape{2, 60}, output.Shape())
}

func TestZeroPad2D(t *testing.T) {
	backend := cpu.New()
	pad := NewZeroPad2D[*cpu.CPUBackend](3, 3, 3, 3)

	input := tensor.Ones[float32](tensor.Shape{1, 3, 224, 224}, backend)
	output := pad.Forward(input)

	assert.Equal(t, tensor.Shape{1, 3, 230, 230}, output.Shape())
}

func TestGlobalAvgPool2D(t *testing.T) {
	backend := cpu.New()
	pool := NewGlobalAvgPool2D[*cpu.CPUBackend]()

	input, err := tensor.FromSlice([]float32{1, 2, 3, 4, 10, 20, 30, 40}, tensor.Shape{1, 2, 2, 2}, backend)
	require.NoError(t, err)

	output := pool.Forward(input)
	assert.Equal(t, tensor.Shape{1, 2}, output.Shape())
	assert.InDelta(t, 2.5, output.Data()[0], 1e-6)
	assert.InDelta(t, 25, output.Data()[1], 1e-6)
}

func TestMaxPool2DLayer(t *testing.T) {
	backend := cpu.New()
	pool := NewMaxPool2D(2, 2, backend)

	input, err := tensor.FromSlice([]float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	}, tensor.Shape{1, 1, 4, 4}, backend)
	require.NoError(t, err)

	output := pool.Forward(input)
	assert.Equal(t, []float32{6, 8, 14, 16}, output.Data())
}

func TestReLUActivation(t *testing.T) {
	backend := cpu.New()
	relu := NewReLU[*cpu.CPUBackend]()

	input, err := tensor.FromSlice([]float32{-1, 0, 1, -2}, tensor.Shape{2, 2}, backend)
	require.NoError(t, err)

	output := relu.Forward(input)
	assert.Equal(t, []float32{0, 0, 1, 0}, output.Data())
	assert.Nil(t, relu.Parameters())
}

func TestTanhActivation(t *testing.T) {
	backend := cpu.New()
	tanh := NewTanh[*cpu.CPUBackend]()

	input, err := tensor.FromSlice([]float32{0, 1}, tensor.Shape{2}, backend)
	require.NoError(t, err)

	output := tanh.Forward(input)
	assert.InDelta(t, 0, output.Data()[0], 1e-6)
	assert.InDelta(t, math.Tanh(1), float64(output.Data()[1]), 1e-6)
}

func TestSequentialForward(t *testing.T) {
	backend := cpu.New()
	model := NewSequential[*cpu.CPUBackend](
		NewLinear(4, 8, backend),
		NewReLU[*cpu.CPUBackend](),
		NewLinear(8, 2, backend),
	)

	input := tensor.Zeros[float32](tensor.Shape{3, 4}, backend)
	output := model.Forward(input)

	assert.Equal(t, tensor.Shape{3, 2}, output.Shape())
	assert.Len(t, model.Parameters(), 4)
	assert.Equal(t, 3, model.Len())
}

func TestSequentialStateDictRoundTrip(t *testing.T) {
	backend := cpu.New()
	model := NewSequential[*cpu.CPUBackend](
		NewLinear(2, 2, backend),
		NewReLU[*cpu.CPUBackend](),
	)

	stateDict := model.StateDict()
	require.Contains(t, stateDict, "0.weight")
	require.Contains(t, stateDict, "0.bias")

	// A fresh model loads the exported weights.
	restored := NewSequential[*cpu.CPUBackend](
		NewLinear(2, 2, backend),
		NewReLU[*cpu.CPUBackend](),
	)
	require.NoError(t, restored.LoadStateDict(stateDict))

	original := model.Module(0).(*Linear[*cpu.CPUBackend]).weight.Tensor().Data()
	loaded := restored.Module(0).(*Linear[*cpu.CPUBackend]).weight.Tensor().Data()
	assert.Equal(t, original, loaded)
}

func TestSequentialSetTraining(t *testing.T) {
	backend := cpu.New()
	dropout := NewDropout[*cpu.CPUBackend](0.5)
	model := NewSequential[*cpu.CPUBackend](
		NewLinear(2, 2, backend),
		dropout,
	)

	model.SetTraining(true)
	assert.True(t, dropout.training)

	model.SetTraining(false)
	assert.False(t, dropout.training)
}
