package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yonderakyol/pyradox/internal/tensor"
)

func newFloat32(t *testing.T, shape tensor.Shape, data []float32) *tensor.RawTensor {
	t.Helper()
	raw, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(raw.AsFloat32(), data)
	return raw
}

func TestAdd(t *testing.T) {
	cpu := New()
	a := newFloat32(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 4})
	b := newFloat32(t, tensor.Shape{2, 2}, []float32{10, 20, 30, 40})

	out := cpu.Add(a, b)
	assert.Equal(t, []float32{11, 22, 33, 44}, out.AsFloat32())
}

func TestAddBroadcast(t *testing.T) {
	cpu := New()
	a := newFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	b := newFloat32(t, tensor.Shape{1, 3}, []float32{10, 20, 30})

	out := cpu.Add(a, b)
	assert.Equal(t, tensor.Shape{2, 3}, out.Shape())
	assert.Equal(t, []float32{11, 22, 33, 14, 25, 36}, out.AsFloat32())
}

func TestMatMul(t *testing.T) {
	cpu := New()
	a := newFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})
	b := newFloat32(t, tensor.Shape{3, 2}, []float32{7, 8, 9, 10, 11, 12})

	out := cpu.MatMul(a, b)
	assert.Equal(t, tensor.Shape{2, 2}, out.Shape())
	assert.Equal(t, []float32{58, 64, 139, 154}, out.AsFloat32())
}

func TestConv2DIdentityKernel(t *testing.T) {
	cpu := New()
	// 1x1 kernel with weight 1 is the identity.
	input := newFloat32(t, tensor.Shape{1, 1, 2, 2}, []float32{1, 2, 3, 4})
	kernel := newFloat32(t, tensor.Shape{1, 1, 1, 1}, []float32{1})

	out := cpu.Conv2D(input, kernel, 1, 0)
	assert.Equal(t, tensor.Shape{1, 1, 2, 2}, out.Shape())
	assert.Equal(t, []float32{1, 2, 3, 4}, out.AsFloat32())
}

func TestConv2DKnownValues(t *testing.T) {
	cpu := New()
	// 3x3 input, 2x2 all-ones kernel, stride 1, no padding.
	input := newFloat32(t, tensor.Shape{1, 1, 3, 3}, []float32{
		1, 2, 3,
		4, 5, 6,
		7, 8, 9,
	})
	kernel := newFloat32(t, tensor.Shape{1, 1, 2, 2}, []float32{1, 1, 1, 1})

	out := cpu.Conv2D(input, kernel, 1, 0)
	assert.Equal(t, tensor.Shape{1, 1, 2, 2}, out.Shape())
	assert.Equal(t, []float32{12, 16, 24, 28}, out.AsFloat32())
}

func TestConv2DPadding(t *testing.T) {
	cpu := New()
	// Same-padding 3x3 conv preserves spatial dims.
	input := newFloat32(t, tensor.Shape{1, 1, 4, 4}, make([]float32, 16))
	kernel := newFloat32(t, tensor.Shape{2, 1, 3, 3}, make([]float32, 18))

	out := cpu.Conv2D(input, kernel, 1, 1)
	assert.Equal(t, tensor.Shape{1, 2, 4, 4}, out.Shape())
}

func TestConv2DStride(t *testing.T) {
	cpu := New()
	input := newFloat32(t, tensor.Shape{1, 1, 4, 4}, []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	})
	kernel := newFloat32(t, tensor.Shape{1, 1, 2, 2}, []float32{1, 0, 0, 0})

	out := cpu.Conv2D(input, kernel, 2, 0)
	assert.Equal(t, tensor.Shape{1, 1, 2, 2}, out.Shape())
	assert.Equal(t, []float32{1, 3, 9, 11}, out.AsFloat32())
}

func TestMaxPool2D(t *testing.T) {
	cpu := New()
	input := newFloat32(t, tensor.Shape{1, 1, 4, 4}, []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	})

	out := cpu.MaxPool2D(input, 2, 2)
	assert.Equal(t, tensor.Shape{1, 1, 2, 2}, out.Shape())
	assert.Equal(t, []float32{6, 8, 14, 16}, out.AsFloat32())
}

func TestMaxPool2DOverlapping(t *testing.T) {
	cpu := New()
	input := newFloat32(t, tensor.Shape{1, 1, 4, 4}, []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	})

	// 3x3 window with stride 2, the DenseNet stem pool shape.
	out := cpu.MaxPool2D(input, 3, 2)
	assert.Equal(t, tensor.Shape{1, 1, 1, 1}, out.Shape())
	assert.Equal(t, []float32{11}, out.AsFloat32())
}

func TestAvgPool2D(t *testing.T) {
	cpu := New()
	input := newFloat32(t, tensor.Shape{1, 1, 4, 4}, []float32{
		1, 2, 3, 4,
		5, 6, 7, 8,
		9, 10, 11, 12,
		13, 14, 15, 16,
	})

	out := cpu.AvgPool2D(input, 2, 2)
	assert.Equal(t, tensor.Shape{1, 1, 2, 2}, out.Shape())
	assert.Equal(t, []float32{3.5, 5.5, 11.5, 13.5}, out.AsFloat32())
}

func TestPad2D(t *testing.T) {
	cpu := New()
	input := newFloat32(t, tensor.Shape{1, 1, 2, 2}, []float32{1, 2, 3, 4})

	out := cpu.Pad2D(input, 1, 1, 1, 1)
	assert.Equal(t, tensor.Shape{1, 1, 4, 4}, out.Shape())
	assert.Equal(t, []float32{
		0, 0, 0, 0,
		0, 1, 2, 0,
		0, 3, 4, 0,
		0, 0, 0, 0,
	}, out.AsFloat32())
}

func TestPad2DAsymmetric(t *testing.T) {
	cpu := New()
	input := newFloat32(t, tensor.Shape{1, 1, 1, 2}, []float32{1, 2})

	out := cpu.Pad2D(input, 0, 1, 2, 0)
	assert.Equal(t, tensor.Shape{1, 1, 2, 4}, out.Shape())
	assert.Equal(t, []float32{
		0, 0, 1, 2,
		0, 0, 0, 0,
	}, out.AsFloat32())
}

func TestSumDim(t *testing.T) {
	cpu := New()
	x := newFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})

	out := cpu.SumDim(x, 0, false)
	assert.Equal(t, tensor.Shape{3}, out.Shape())
	assert.Equal(t, []float32{5, 7, 9}, out.AsFloat32())

	out = cpu.SumDim(x, 1, true)
	assert.Equal(t, tensor.Shape{2, 1}, out.Shape())
	assert.Equal(t, []float32{6, 15}, out.AsFloat32())
}

func TestMeanDimNegative(t *testing.T) {
	cpu := New()
	x := newFloat32(t, tensor.Shape{2, 2}, []float32{1, 3, 5, 7})

	out := cpu.MeanDim(x, -1, true)
	assert.Equal(t, tensor.Shape{2, 1}, out.Shape())
	assert.Equal(t, []float32{2, 6}, out.AsFloat32())
}

func TestCat(t *testing.T) {
	cpu := New()
	a := newFloat32(t, tensor.Shape{1, 2, 2, 2}, []float32{1, 2, 3, 4, 5, 6, 7, 8})
	b := newFloat32(t, tensor.Shape{1, 1, 2, 2}, []float32{9, 10, 11, 12})

	// Channel concat, the dense-block merge.
	out := cpu.Cat([]*tensor.RawTensor{a, b}, 1)
	assert.Equal(t, tensor.Shape{1, 3, 2, 2}, out.Shape())
	assert.Equal(t, []float32{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12}, out.AsFloat32())
}

func TestCatShapeMismatch(t *testing.T) {
	cpu := New()
	a := newFloat32(t, tensor.Shape{1, 2, 2, 2}, make([]float32, 8))
	b := newFloat32(t, tensor.Shape{1, 1, 3, 2}, make([]float32, 6))

	assert.Panics(t, func() {
		cpu.Cat([]*tensor.RawTensor{a, b}, 1)
	})
}

func TestUnsqueezeSqueeze(t *testing.T) {
	cpu := New()
	x := newFloat32(t, tensor.Shape{2, 3}, make([]float32, 6))

	u := cpu.Unsqueeze(x, 0)
	assert.Equal(t, tensor.Shape{1, 2, 3}, u.Shape())

	s := cpu.Squeeze(u, 0)
	assert.Equal(t, tensor.Shape{2, 3}, s.Shape())
}

func TestTranspose2D(t *testing.T) {
	cpu := New()
	x := newFloat32(t, tensor.Shape{2, 3}, []float32{1, 2, 3, 4, 5, 6})

	out := cpu.Transpose(x)
	assert.Equal(t, tensor.Shape{3, 2}, out.Shape())
	assert.Equal(t, []float32{1, 4, 2, 5, 3, 6}, out.AsFloat32())
}

func TestReLU(t *testing.T) {
	cpu := New()
	x := newFloat32(t, tensor.Shape{4}, []float32{-1, 0, 2, -3})

	out := cpu.ReLU(x)
	assert.Equal(t, []float32{0, 0, 2, 0}, out.AsFloat32())
}

func TestSigmoid(t *testing.T) {
	cpu := New()
	x := newFloat32(t, tensor.Shape{1}, []float32{0})

	out := cpu.Sigmoid(x)
	assert.InDelta(t, 0.5, out.AsFloat32()[0], 1e-6)
}

func TestScalarOps(t *testing.T) {
	cpu := New()
	x := newFloat32(t, tensor.Shape{3}, []float32{1, 2, 3})

	out := cpu.MulScalar(x, float32(2))
	assert.Equal(t, []float32{2, 4, 6}, out.AsFloat32())

	out = cpu.AddScalar(x, 1)
	assert.Equal(t, []float32{2, 3, 4}, out.AsFloat32())
}

func TestRsqrt(t *testing.T) {
	cpu := New()
	x := newFloat32(t, tensor.Shape{2}, []float32{4, 16})

	out := cpu.Rsqrt(x)
	assert.InDelta(t, 0.5, out.AsFloat32()[0], 1e-6)
	assert.InDelta(t, 0.25, out.AsFloat32()[1], 1e-6)
}
