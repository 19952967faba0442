// Copyright 2025 The Pyradox Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package convnets

import (
	"fmt"

	"github.com/yonderakyol/pyradox/nn"
	"github.com/yonderakyol/pyradox/tensor"
)

// GeneralizedDenseNet is the block-repeating builder: a DenseNet-style
// feature extractor assembled from a blocks list.
//
// Topology:
//
//	stem:   ZeroPad2D(3,3,3,3) → Conv2D(64, 7×7, stride 2) → BN → act →
//	        ZeroPad2D(1,1,1,1) → MaxPool2D(3, stride 2)
//	stages: for each entry in Blocks: that many convolution (growth)
//	        blocks, then exactly one transition block
//	tail:   BN → act
//
// Channel bookkeeping is deterministic: the stem emits 64 channels,
// every growth block adds GrowthRate channels, and every transition
// compresses to int(channels * Reduction). The builder is immutable
// after construction.
type GeneralizedDenseNet[B tensor.Backend] struct {
	config      DenseNetConfig
	model       *nn.Sequential[B]
	inChannels  int
	outChannels int

	growthBlocks     int
	transitionBlocks int
}

// NewGeneralizedDenseNet builds a DenseNet-style network for inChannels
// input planes. The configuration is validated before any layer is
// constructed.
func NewGeneralizedDenseNet[B tensor.Backend](config DenseNetConfig, inChannels int, backend B) (*GeneralizedDenseNet[B], error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if inChannels <= 0 {
		return nil, fmt.Errorf("%w: input channels = %d", ErrNonPositiveWidth, inChannels)
	}

	model := nn.NewSequential[B]()

	// Stem.
	stemAct, err := newActivation[B](config.Activation)
	if err != nil {
		return nil, err
	}
	model.Add(nn.NewZeroPad2D[B](3, 3, 3, 3))
	model.Add(nn.NewConv2D(inChannels, StemChannels, 7, 7, 2, 0, config.UseBias, backend))
	model.Add(nn.NewBatchNorm2D(StemChannels, config.Epsilon, backend))
	model.Add(stemAct)
	model.Add(nn.NewZeroPad2D[B](1, 1, 1, 1))
	model.Add(nn.NewMaxPool2D(3, 2, backend))

	net := &GeneralizedDenseNet[B]{
		config:     config,
		inChannels: inChannels,
	}

	// Stages. Every stage ends with a transition, including the last.
	channels := StemChannels
	for _, blockCount := range config.Blocks {
		for i := 0; i < blockCount; i++ {
			block, err := NewDenseNetConvolutionBlock(
				channels, config.GrowthRate, config.Epsilon, config.Activation, config.UseBias, backend)
			if err != nil {
				return nil, err
			}
			model.Add(block)
			channels = block.OutChannels()
			net.growthBlocks++
		}

		transition, err := NewDenseNetTransitionBlock(
			channels, config.Reduction, config.Epsilon, config.Activation, config.UseBias, backend)
		if err != nil {
			return nil, err
		}
		model.Add(transition)
		channels = transition.OutChannels()
		net.transitionBlocks++
	}

	// Tail.
	tailAct, err := newActivation[B](config.Activation)
	if err != nil {
		return nil, err
	}
	model.Add(nn.NewBatchNorm2D(channels, config.Epsilon, backend))
	model.Add(tailAct)

	net.model = model
	net.outChannels = channels
	return net, nil
}

// Forward runs the network.
//
// Input shape:  [batch, in_channels, height, width]
// Output shape: [batch, OutChannels(), height', width']
func (g *GeneralizedDenseNet[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return g.model.Forward(input)
}

// Parameters returns all trainable parameters.
func (g *GeneralizedDenseNet[B]) Parameters() []*nn.Parameter[B] {
	return g.model.Parameters()
}

// Config returns the builder configuration.
func (g *GeneralizedDenseNet[B]) Config() DenseNetConfig {
	return g.config
}

// Model returns the underlying layer sequence.
func (g *GeneralizedDenseNet[B]) Model() *nn.Sequential[B] {
	return g.model
}

// OutChannels returns the channel count after the tail.
func (g *GeneralizedDenseNet[B]) OutChannels() int {
	return g.outChannels
}

// GrowthBlocks returns the number of convolution blocks built.
func (g *GeneralizedDenseNet[B]) GrowthBlocks() int {
	return g.growthBlocks
}

// TransitionBlocks returns the number of transition blocks built.
func (g *GeneralizedDenseNet[B]) TransitionBlocks() int {
	return g.transitionBlocks
}

// NumParameters returns the total number of scalar parameters.
func (g *GeneralizedDenseNet[B]) NumParameters() int {
	total := 0
	for _, p := range g.model.Parameters() {
		total += p.NumElements()
	}
	return total
}

// Summary returns one description line per layer, in order.
func (g *GeneralizedDenseNet[B]) Summary() []string {
	return summarize(g.model)
}

// String describes the builder configuration.
func (g *GeneralizedDenseNet[B]) String() string {
	return fmt.Sprintf("GeneralizedDenseNet(blocks=%v, growth_rate=%d, reduction=%g, activation=%s)",
		g.config.Blocks, g.config.GrowthRate, g.config.Reduction, g.config.Activation)
}

// summarize collects per-module descriptions from a layer sequence.
func summarize[B tensor.Backend](model *nn.Sequential[B]) []string {
	lines := make([]string, 0, model.Len())
	for i := 0; i < model.Len(); i++ {
		if s, ok := model.Module(i).(fmt.Stringer); ok {
			lines = append(lines, s.String())
			continue
		}
		lines = append(lines, fmt.Sprintf("%T", model.Module(i)))
	}
	return lines
}
