package convnets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yonderakyol/pyradox/backend/cpu"
	"github.com/yonderakyol/pyradox/tensor"
)

func TestDenseNetBlockAndTransitionCounts(t *testing.T) {
	backend := cpu.New()

	tests := []struct {
		name        string
		blocks      []int
		growth      int
		transitions int
	}{
		{"two stages", []int{2, 3}, 5, 2},
		{"single stage", []int{4}, 4, 1},
		{"empty stage still transitions", []int{0, 2}, 2, 2},
		{"empty blocks", []int{}, 0, 0},
		{"nil blocks", nil, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			net, err := NewGeneralizedDenseNet(DefaultDenseNetConfig(tt.blocks), 3, backend)
			require.NoError(t, err)
			assert.Equal(t, tt.growth, net.GrowthBlocks())
			assert.Equal(t, tt.transitions, net.TransitionBlocks())
		})
	}
}

func TestDenseNetChannelArithmetic(t *testing.T) {
	backend := cpu.New()

	// stem 64 -> +2*32=128 -> transition 64 -> +3*32=160 -> transition 80
	net, err := NewGeneralizedDenseNet(DefaultDenseNetConfig([]int{2, 3}), 3, backend)
	require.NoError(t, err)
	assert.Equal(t, 80, net.OutChannels())
}

func TestDenseNetEmptyBlocksIsStemAndTail(t *testing.T) {
	backend := cpu.New()

	net, err := NewGeneralizedDenseNet(DefaultDenseNetConfig(nil), 3, backend)
	require.NoError(t, err)

	// Stem (6 layers) + tail (BN, act), nothing in between.
	assert.Equal(t, 8, net.Model().Len())
	assert.Equal(t, StemChannels, net.OutChannels())

	input := tensor.Randn[float32](tensor.Shape{1, 3, 32, 32}, backend)
	output := net.Forward(input)
	assert.Equal(t, tensor.Shape{1, 64, 8, 8}, output.Shape())
}

func TestDenseNetForwardShape(t *testing.T) {
	backend := cpu.New()

	cfg := DefaultDenseNetConfig([]int{1})
	cfg.GrowthRate = 8
	net, err := NewGeneralizedDenseNet(cfg, 3, backend)
	require.NoError(t, err)

	// stem: 32 -> 8 spatial, 64 channels; growth: 72; transition: 36
	// channels, 4 spatial.
	assert.Equal(t, 36, net.OutChannels())

	input := tensor.Randn[float32](tensor.Shape{2, 3, 32, 32}, backend)
	output := net.Forward(input)
	assert.Equal(t, tensor.Shape{2, 36, 4, 4}, output.Shape())
}

func TestDenseNetValidationFailsBeforeBuild(t *testing.T) {
	backend := cpu.New()

	_, err := NewGeneralizedDenseNet(DefaultDenseNetConfig([]int{6, -1}), 3, backend)
	assert.ErrorIs(t, err, ErrNegativeBlockCount)

	cfg := DefaultDenseNetConfig([]int{2})
	cfg.GrowthRate = 0
	_, err = NewGeneralizedDenseNet(cfg, 3, backend)
	assert.ErrorIs(t, err, ErrNonPositiveWidth)

	cfg = DefaultDenseNetConfig([]int{2})
	cfg.Reduction = 1.5
	_, err = NewGeneralizedDenseNet(cfg, 3, backend)
	assert.ErrorIs(t, err, ErrInvalidReduction)

	cfg = DefaultDenseNetConfig([]int{2})
	cfg.Activation = "swish"
	_, err = NewGeneralizedDenseNet(cfg, 3, backend)
	assert.ErrorIs(t, err, ErrUnknownActivation)

	_, err = NewGeneralizedDenseNet(DefaultDenseNetConfig([]int{2}), 0, backend)
	assert.ErrorIs(t, err, ErrNonPositiveWidth)
}

func TestDenseNetConvolutionBlockGrowsChannels(t *testing.T) {
	backend := cpu.New()

	block, err := NewDenseNetConvolutionBlock(16, 8, DefaultEpsilon, "relu", false, backend)
	require.NoError(t, err)
	assert.Equal(t, 24, block.OutChannels())

	input := tensor.Randn[float32](tensor.Shape{1, 16, 8, 8}, backend)
	output := block.Forward(input)
	assert.Equal(t, tensor.Shape{1, 24, 8, 8}, output.Shape())
}

func TestDenseNetConvolutionBlockPreservesInput(t *testing.T) {
	backend := cpu.New()

	block, err := NewDenseNetConvolutionBlock(2, 4, DefaultEpsilon, "relu", false, backend)
	require.NoError(t, err)

	input := tensor.Randn[float32](tensor.Shape{1, 2, 4, 4}, backend)
	output := block.Forward(input)

	// The first inChannels of the output are the input, untouched.
	assert.Equal(t, input.Data(), output.Data()[:input.NumElements()])
}

func TestDenseNetTransitionBlockCompresses(t *testing.T) {
	backend := cpu.New()

	block, err := NewDenseNetTransitionBlock(32, 0.5, DefaultEpsilon, "relu", false, backend)
	require.NoError(t, err)
	assert.Equal(t, 16, block.OutChannels())

	input := tensor.Randn[float32](tensor.Shape{1, 32, 8, 8}, backend)
	output := block.Forward(input)
	assert.Equal(t, tensor.Shape{1, 16, 4, 4}, output.Shape())
}

func TestDenseNetTransitionBlockRejectsCollapse(t *testing.T) {
	backend := cpu.New()

	// int(1 * 0.5) == 0 channels.
	_, err := NewDenseNetTransitionBlock(1, 0.5, DefaultEpsilon, "relu", false, backend)
	assert.ErrorIs(t, err, ErrNonPositiveWidth)
}

func TestDenseNet121PresetMatchesGenericBuilder(t *testing.T) {
	backend := cpu.New()

	preset, err := NewDenseNet121(3, backend)
	require.NoError(t, err)

	generic, err := NewGeneralizedDenseNet(DefaultDenseNetConfig([]int{6, 12, 24, 16}), 3, backend)
	require.NoError(t, err)

	assert.Equal(t, generic.Summary(), preset.Summary())
	assert.Equal(t, generic.NumParameters(), preset.NumParameters())
	assert.Equal(t, generic.OutChannels(), preset.OutChannels())
	assert.Equal(t, 6+12+24+16, preset.GrowthBlocks())
	assert.Equal(t, 4, preset.TransitionBlocks())
}

func TestDenseNetPresetVariants(t *testing.T) {
	backend := cpu.New()

	net169, err := NewDenseNet169(3, backend)
	require.NoError(t, err)
	assert.Equal(t, 6+12+32+32, net169.GrowthBlocks())

	net201, err := NewDenseNet201(3, backend)
	require.NoError(t, err)
	assert.Equal(t, 6+12+48+32, net201.GrowthBlocks())
}

func TestDenseNetUnknownPreset(t *testing.T) {
	backend := cpu.New()

	_, err := NewDenseNetFromPreset("DenseNet-999", 3, backend)
	assert.ErrorIs(t, err, ErrUnknownPreset)
}
