// Copyright 2025 The Pyradox Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package convnets

import "fmt"

// Default hyperparameters shared by the DenseNet-style builders.
const (
	// DefaultGrowthRate is the number of channels each convolution
	// block contributes to the running concatenation.
	DefaultGrowthRate = 32

	// DefaultReduction is the channel compression factor applied by
	// each transition block.
	DefaultReduction = 0.5

	// DefaultEpsilon is the batch normalization epsilon.
	DefaultEpsilon = 1.001e-5

	// DefaultActivation is used wherever a config leaves the activation
	// empty.
	DefaultActivation = "relu"

	// StemChannels is the output width of the DenseNet stem convolution.
	StemChannels = 64
)

// DenseNetConfig configures a block-repeating (DenseNet-style) network.
// The zero value is not usable; start from DefaultDenseNetConfig and
// override fields as needed. Builders treat the config as immutable.
type DenseNetConfig struct {
	// Blocks holds the number of convolution blocks per stage. Each
	// stage is followed by exactly one transition block.
	Blocks []int

	// GrowthRate is the channel increment per convolution block.
	GrowthRate int

	// Reduction is the transition compression factor in (0, 1].
	Reduction float64

	// Epsilon is the batch normalization epsilon.
	Epsilon float32

	// Activation names the activation used throughout ("relu",
	// "sigmoid", or "tanh").
	Activation string

	// UseBias toggles bias terms on the convolutions.
	UseBias bool
}

// DefaultDenseNetConfig returns the reference configuration for the
// given per-stage block counts.
func DefaultDenseNetConfig(blocks []int) DenseNetConfig {
	return DenseNetConfig{
		Blocks:     blocks,
		GrowthRate: DefaultGrowthRate,
		Reduction:  DefaultReduction,
		Epsilon:    DefaultEpsilon,
		Activation: DefaultActivation,
	}
}

// Validate checks the configuration without constructing any layer.
func (c DenseNetConfig) Validate() error {
	for i, n := range c.Blocks {
		if n < 0 {
			return fmt.Errorf("%w: blocks[%d] = %d", ErrNegativeBlockCount, i, n)
		}
	}
	if c.GrowthRate <= 0 {
		return fmt.Errorf("%w: growth rate %d", ErrNonPositiveWidth, c.GrowthRate)
	}
	if c.Reduction <= 0 || c.Reduction > 1 {
		return fmt.Errorf("%w: got %g", ErrInvalidReduction, c.Reduction)
	}
	if c.Epsilon <= 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidEpsilon, c.Epsilon)
	}
	if !validActivation(c.Activation) {
		return fmt.Errorf("%w: %q", ErrUnknownActivation, c.Activation)
	}
	return nil
}

// ConvStage describes one stage of a stage-sequential (VGG-style)
// network: Repeats convolutions of Width channels followed by a pool.
type ConvStage struct {
	Repeats int
	Width   int
}

// VGGConfig configures a stage-sequential (VGG-style) network. Start
// from DefaultVGGConfig and override fields as needed. Builders treat
// the config as immutable.
type VGGConfig struct {
	// ConvStages lists the convolutional stages in order.
	ConvStages []ConvStage

	// DenseWidths lists the fully connected layer widths appended
	// after the conv stages. Empty means no dense phase and no flatten.
	DenseWidths []int

	// Epsilon is the batch normalization epsilon for both phases.
	Epsilon float32

	// Conv phase toggles.
	ConvBatchNorm  bool
	ConvDropout    float32
	ConvActivation string

	// Dense phase toggles.
	DenseBatchNorm  bool
	DenseDropout    float32
	DenseActivation string
}

// DefaultVGGConfig returns the reference configuration for the given
// stages and dense widths.
func DefaultVGGConfig(convStages []ConvStage, denseWidths []int) VGGConfig {
	return VGGConfig{
		ConvStages:      convStages,
		DenseWidths:     denseWidths,
		Epsilon:         DefaultEpsilon,
		ConvActivation:  DefaultActivation,
		DenseActivation: DefaultActivation,
	}
}

// Validate checks the configuration without constructing any layer.
func (c VGGConfig) Validate() error {
	for i, stage := range c.ConvStages {
		if stage.Repeats <= 0 {
			return fmt.Errorf("%w: conv stage %d repeats = %d", ErrNonPositiveRepeat, i, stage.Repeats)
		}
		if stage.Width <= 0 {
			return fmt.Errorf("%w: conv stage %d width = %d", ErrNonPositiveWidth, i, stage.Width)
		}
	}
	for i, width := range c.DenseWidths {
		if width <= 0 {
			return fmt.Errorf("%w: dense stage %d width = %d", ErrNonPositiveWidth, i, width)
		}
	}
	if c.Epsilon <= 0 {
		return fmt.Errorf("%w: got %g", ErrInvalidEpsilon, c.Epsilon)
	}
	if c.ConvDropout < 0 || c.ConvDropout >= 1 {
		return fmt.Errorf("%w: conv dropout %g", ErrInvalidDropout, c.ConvDropout)
	}
	if c.DenseDropout < 0 || c.DenseDropout >= 1 {
		return fmt.Errorf("%w: dense dropout %g", ErrInvalidDropout, c.DenseDropout)
	}
	if !validActivation(c.ConvActivation) {
		return fmt.Errorf("%w: %q", ErrUnknownActivation, c.ConvActivation)
	}
	if len(c.DenseWidths) > 0 && !validActivation(c.DenseActivation) {
		return fmt.Errorf("%w: %q", ErrUnknownActivation, c.DenseActivation)
	}
	return nil
}
