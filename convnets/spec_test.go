package convnets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yonderakyol/pyradox/backend/cpu"
)

func TestParseSpecDenseNet(t *testing.T) {
	data := []byte(`
architecture: densenet
densenet:
  blocks: [6, 12, 24, 16]
  growth_rate: 16
  use_bias: true
`)

	spec, err := ParseSpec(data)
	require.NoError(t, err)
	require.Equal(t, "densenet", spec.Architecture)

	cfg := spec.DenseNet.Config()
	assert.Equal(t, []int{6, 12, 24, 16}, cfg.Blocks)
	assert.Equal(t, 16, cfg.GrowthRate)
	assert.True(t, cfg.UseBias)

	// Omitted fields fall back to defaults.
	assert.Equal(t, DefaultReduction, cfg.Reduction)
	assert.Equal(t, float32(DefaultEpsilon), cfg.Epsilon)
	assert.Equal(t, DefaultActivation, cfg.Activation)
}

func TestParseSpecVGG(t *testing.T) {
	data := []byte(`
architecture: vgg
vgg:
  stages:
    - {repeats: 2, width: 64}
    - {repeats: 2, width: 128}
  dense: [256]
  conv_batch_norm: true
  dense_dropout: 0.5
`)

	spec, err := ParseSpec(data)
	require.NoError(t, err)

	cfg := spec.VGG.Config()
	assert.Equal(t, []ConvStage{{2, 64}, {2, 128}}, cfg.ConvStages)
	assert.Equal(t, []int{256}, cfg.DenseWidths)
	assert.True(t, cfg.ConvBatchNorm)
	assert.Equal(t, float32(0.5), cfg.DenseDropout)
	assert.Equal(t, DefaultActivation, cfg.ConvActivation)
}

func TestParseSpecErrors(t *testing.T) {
	_, err := ParseSpec([]byte("architecture: resnet"))
	assert.ErrorIs(t, err, ErrUnknownArchitecture)

	_, err = ParseSpec([]byte("architecture: densenet"))
	assert.Error(t, err)

	_, err = ParseSpec([]byte("architecture: [not scalar"))
	assert.Error(t, err)
}

func TestLoadSpecBuildsNetwork(t *testing.T) {
	backend := cpu.New()

	path := filepath.Join(t.TempDir(), "arch.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
architecture: densenet
densenet:
  blocks: [1, 1]
  growth_rate: 8
`), 0o600))

	spec, err := LoadSpec(path)
	require.NoError(t, err)

	net, err := NewGeneralizedDenseNet(spec.DenseNet.Config(), 3, backend)
	require.NoError(t, err)
	assert.Equal(t, 2, net.GrowthBlocks())
	assert.Equal(t, 2, net.TransitionBlocks())
}

func TestLoadSpecMissingFile(t *testing.T) {
	_, err := LoadSpec(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestActivationLookup(t *testing.T) {
	for _, name := range []string{"relu", "sigmoid", "tanh"} {
		act, err := newActivation[*cpu.Backend](name)
		require.NoError(t, err)
		assert.NotNil(t, act)
	}

	_, err := newActivation[*cpu.Backend]("mish")
	assert.ErrorIs(t, err, ErrUnknownActivation)
}
