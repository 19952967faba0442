// Copyright 2025 The Pyradox Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package convnets

import (
	"fmt"

	"github.com/yonderakyol/pyradox/nn"
	"github.com/yonderakyol/pyradox/tensor"
)

// GeneralizedVGG is the stage-sequential builder: a VGG-style network
// assembled from an ordered list of conv stages optionally followed by
// a dense phase.
//
// Topology:
//
//	for each ConvStage: Repeats × [Conv2D(Width, 3×3, pad 1) →
//	    optional BN → act] → MaxPool2D(2, stride 2) → optional Dropout
//	if DenseWidths non-empty: Flatten (exactly once), then for each
//	    width: Linear → optional BN → act → optional Dropout
//
// Linear layers are sized eagerly, so the builder takes the input
// spatial dimensions and tracks them through the pooling layers. The
// builder is immutable after construction.
type GeneralizedVGG[B tensor.Backend] struct {
	config      VGGConfig
	model       *nn.Sequential[B]
	inChannels  int
	outFeatures int
	hasFlatten  bool

	convStages  int
	denseStages int
}

// NewGeneralizedVGG builds a VGG-style network for [inChannels, inputH,
// inputW] inputs. The configuration is validated before any layer is
// constructed; the spatial size must not collapse to zero before a
// requested dense phase.
func NewGeneralizedVGG[B tensor.Backend](config VGGConfig, inChannels, inputH, inputW int, backend B) (*GeneralizedVGG[B], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if inChannels <= 0 {
		return nil, fmt.Errorf("%w: input channels = %d", ErrNonPositiveWidth, inChannels)
	}
	if inputH <= 0 || inputW <= 0 {
		return nil, fmt.Errorf("%w: input size %dx%d", ErrZeroSpatial, inputH, inputW)
	}

	// Channel and spatial arithmetic up front: 3×3 pad-1 convs preserve
	// the spatial size, each stage pool halves it.
	h, w := inputH, inputW
	for range config.ConvStages {
		h /= 2
		w /= 2
	}
	if len(config.DenseWidths) > 0 && (h == 0 || w == 0) {
		return nil, fmt.Errorf("%w: %dx%d input leaves no features for the dense phase after %d stages",
			ErrZeroSpatial, inputH, inputW, len(config.ConvStages))
	}

	model := nn.NewSequential[B]()
	net := &GeneralizedVGG[B]{
		config:     config,
		inChannels: inChannels,
	}

	channels := inChannels
	for _, stage := range config.ConvStages {
		module, err := NewVGGModule(
			channels, stage.Repeats, stage.Width,
			config.ConvBatchNorm, config.ConvDropout,
			config.Epsilon, config.ConvActivation, backend)
		if err != nil {
			return nil, err
		}
		model.Add(module)
		channels = module.OutChannels()
		net.convStages++
	}

	features := channels * h * w
	if len(config.DenseWidths) > 0 {
		model.Add(nn.NewFlatten[B]())
		net.hasFlatten = true

		for _, width := range config.DenseWidths {
			stage, err := NewDenselyConnected(
				features, width,
				config.DenseBatchNorm, config.DenseDropout,
				config.Epsilon, config.DenseActivation, backend)
			if err != nil {
				return nil, err
			}
			model.Add(stage)
			features = stage.Width()
			net.denseStages++
		}
		net.outFeatures = features
	} else {
		net.outFeatures = channels
	}

	net.model = model
	return net, nil
}

// Forward runs the network.
//
// Input shape: [batch, in_channels, height, width]. Output shape is
// [batch, OutFeatures()] when a dense phase is configured, otherwise
// [batch, OutFeatures(), height', width'].
func (g *GeneralizedVGG[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return g.model.Forward(input)
}

// Parameters returns all trainable parameters.
func (g *GeneralizedVGG[B]) Parameters() []*nn.Parameter[B] {
	return g.model.Parameters()
}

// Config returns the builder configuration.
func (g *GeneralizedVGG[B]) Config() VGGConfig {
	return g.config
}

// Model returns the underlying layer sequence.
func (g *GeneralizedVGG[B]) Model() *nn.Sequential[B] {
	return g.model
}

// ConvStages returns the number of conv stage modules built.
func (g *GeneralizedVGG[B]) ConvStages() int {
	return g.convStages
}

// DenseStages returns the number of dense stage modules built.
func (g *GeneralizedVGG[B]) DenseStages() int {
	return g.denseStages
}

// HasFlatten reports whether the flatten boundary was inserted.
func (g *GeneralizedVGG[B]) HasFlatten() bool {
	return g.hasFlatten
}

// OutFeatures returns the dense output width, or the final channel
// count when no dense phase is configured.
func (g *GeneralizedVGG[B]) OutFeatures() int {
	return g.outFeatures
}

// SetTraining toggles training behavior (dropout) for all stages.
func (g *GeneralizedVGG[B]) SetTraining(training bool) {
	for i := 0; i < g.model.Len(); i++ {
		switch m := g.model.Module(i).(type) {
		case *VGGModule[B]:
			m.layers.SetTraining(training)
		case *DenselyConnected[B]:
			m.layers.SetTraining(training)
		}
	}
}

// NumParameters returns the total number of scalar parameters.
func (g *GeneralizedVGG[B]) NumParameters() int {
	total := 0
	for _, p := range g.model.Parameters() {
		total += p.NumElements()
	}
	return total
}

// Summary returns one description line per layer, in order.
func (g *GeneralizedVGG[B]) Summary() []string {
	return summarize(g.model)
}

// String describes the builder configuration.
func (g *GeneralizedVGG[B]) String() string {
	return fmt.Sprintf("GeneralizedVGG(conv_stages=%v, dense=%v, conv_activation=%s)",
		g.config.ConvStages, g.config.DenseWidths, g.config.ConvActivation)
}
