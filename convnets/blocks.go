// Copyright 2025 The Pyradox Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package convnets

import (
	"fmt"

	"github.com/yonderakyol/pyradox/nn"
	"github.com/yonderakyol/pyradox/tensor"
)

// DenseNetConvolutionBlock is the growth block of the block-repeating
// builder: a bottleneck pair of convolutions whose output is
// concatenated with the block input on the channel dimension.
//
//	BN → act → Conv2D(4*growth, 1×1) → BN → act → Conv2D(growth, 3×3, pad 1)
//	output = Cat(input, branch)
//
// The block adds exactly growthRate channels.
type DenseNetConvolutionBlock[B tensor.Backend] struct {
	inChannels int
	growthRate int
	branch     *nn.Sequential[B]
}

// NewDenseNetConvolutionBlock creates a growth block for inChannels
// inputs.
func NewDenseNetConvolutionBlock[B tensor.Backend](
	inChannels, growthRate int,
	epsilon float32,
	activation string,
	useBias bool,
	backend B,
) (*DenseNetConvolutionBlock[B], error) {
	if inChannels <= 0 || growthRate <= 0 {
		return nil, fmt.Errorf("%w: in=%d, growth=%d", ErrNonPositiveWidth, inChannels, growthRate)
	}

	act1, err := newActivation[B](activation)
	if err != nil {
		return nil, err
	}
	act2, err := newActivation[B](activation)
	if err != nil {
		return nil, err
	}

	branch := nn.NewSequential[B](
		nn.NewBatchNorm2D(inChannels, epsilon, backend),
		act1,
		nn.NewConv2D(inChannels, 4*growthRate, 1, 1, 1, 0, useBias, backend),
		nn.NewBatchNorm2D(4*growthRate, epsilon, backend),
		act2,
		nn.NewConv2D(4*growthRate, growthRate, 3, 3, 1, 1, useBias, backend),
	)

	return &DenseNetConvolutionBlock[B]{
		inChannels: inChannels,
		growthRate: growthRate,
		branch:     branch,
	}, nil
}

// Forward concatenates the bottleneck branch onto the input channels.
func (b *DenseNetConvolutionBlock[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	branch := b.branch.Forward(input)
	return tensor.Cat([]*tensor.Tensor[float32, B]{input, branch}, 1)
}

// Parameters returns the branch parameters.
func (b *DenseNetConvolutionBlock[B]) Parameters() []*nn.Parameter[B] {
	return b.branch.Parameters()
}

// OutChannels returns inChannels + growthRate.
func (b *DenseNetConvolutionBlock[B]) OutChannels() int {
	return b.inChannels + b.growthRate
}

// String describes the block configuration.
func (b *DenseNetConvolutionBlock[B]) String() string {
	return fmt.Sprintf("DenseNetConvolutionBlock(in_channels=%d, growth_rate=%d)", b.inChannels, b.growthRate)
}

// DenseNetTransitionBlock compresses the channel count between stages
// and halves the spatial resolution:
//
//	BN → act → Conv2D(int(in*reduction), 1×1) → AvgPool2D(2, stride 2)
type DenseNetTransitionBlock[B tensor.Backend] struct {
	inChannels  int
	outChannels int
	layers      *nn.Sequential[B]
}

// NewDenseNetTransitionBlock creates a transition block for inChannels
// inputs. The output width is int(inChannels * reduction).
func NewDenseNetTransitionBlock[B tensor.Backend](
	inChannels int,
	reduction float64,
	epsilon float32,
	activation string,
	useBias bool,
	backend B,
) (*DenseNetTransitionBlock[B], error) {
	if inChannels <= 0 {
		return nil, fmt.Errorf("%w: in=%d", ErrNonPositiveWidth, inChannels)
	}
	outChannels := int(float64(inChannels) * reduction)
	if outChannels <= 0 {
		return nil, fmt.Errorf("%w: %d channels * reduction %g", ErrNonPositiveWidth, inChannels, reduction)
	}

	act, err := newActivation[B](activation)
	if err != nil {
		return nil, err
	}

	layers := nn.NewSequential[B](
		nn.NewBatchNorm2D(inChannels, epsilon, backend),
		act,
		nn.NewConv2D(inChannels, outChannels, 1, 1, 1, 0, useBias, backend),
		nn.NewAvgPool2D(2, 2, backend),
	)

	return &DenseNetTransitionBlock[B]{
		inChannels:  inChannels,
		outChannels: outChannels,
		layers:      layers,
	}, nil
}

// Forward applies the transition.
func (b *DenseNetTransitionBlock[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return b.layers.Forward(input)
}

// Parameters returns the block parameters.
func (b *DenseNetTransitionBlock[B]) Parameters() []*nn.Parameter[B] {
	return b.layers.Parameters()
}

// OutChannels returns the compressed channel count.
func (b *DenseNetTransitionBlock[B]) OutChannels() int {
	return b.outChannels
}

// String describes the block configuration.
func (b *DenseNetTransitionBlock[B]) String() string {
	return fmt.Sprintf("DenseNetTransitionBlock(in_channels=%d, out_channels=%d)", b.inChannels, b.outChannels)
}

// VGGModule is one stage of the stage-sequential builder: a run of
// same-padded 3×3 convolutions followed by a halving max pool.
//
//	repeats × [Conv2D(width, 3×3, pad 1) → optional BN → act] →
//	MaxPool2D(2, stride 2) → optional Dropout
type VGGModule[B tensor.Backend] struct {
	repeats    int
	width      int
	inChannels int
	layers     *nn.Sequential[B]
}

// NewVGGModule creates one conv stage for inChannels inputs.
func NewVGGModule[B tensor.Backend](
	inChannels, repeats, width int,
	batchNorm bool,
	dropout float32,
	epsilon float32,
	activation string,
	backend B,
) (*VGGModule[B], error) {
	if repeats <= 0 {
		return nil, fmt.Errorf("%w: repeats = %d", ErrNonPositiveRepeat, repeats)
	}
	if inChannels <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: in=%d, width=%d", ErrNonPositiveWidth, inChannels, width)
	}

	layers := nn.NewSequential[B]()
	channels := inChannels
	for i := 0; i < repeats; i++ {
		layers.Add(nn.NewConv2D(channels, width, 3, 3, 1, 1, true, backend))
		if batchNorm {
			layers.Add(nn.NewBatchNorm2D(width, epsilon, backend))
		}
		act, err := newActivation[B](activation)
		if err != nil {
			return nil, err
		}
		layers.Add(act)
		channels = width
	}
	layers.Add(nn.NewMaxPool2D(2, 2, backend))
	if dropout > 0 {
		layers.Add(nn.NewDropout[B](dropout))
	}

	return &VGGModule[B]{
		repeats:    repeats,
		width:      width,
		inChannels: inChannels,
		layers:     layers,
	}, nil
}

// Forward applies the stage.
func (m *VGGModule[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return m.layers.Forward(input)
}

// Parameters returns the stage parameters.
func (m *VGGModule[B]) Parameters() []*nn.Parameter[B] {
	return m.layers.Parameters()
}

// Repeats returns the number of convolutions in the stage.
func (m *VGGModule[B]) Repeats() int {
	return m.repeats
}

// Width returns the stage channel width.
func (m *VGGModule[B]) Width() int {
	return m.width
}

// OutChannels returns the stage output width.
func (m *VGGModule[B]) OutChannels() int {
	return m.width
}

// String describes the stage configuration.
func (m *VGGModule[B]) String() string {
	return fmt.Sprintf("VGGModule(in_channels=%d, repeats=%d, width=%d)", m.inChannels, m.repeats, m.width)
}

// DenselyConnected is one dense stage of the stage-sequential builder:
//
//	Linear(width) → optional BN → act → optional Dropout
type DenselyConnected[B tensor.Backend] struct {
	inFeatures int
	width      int
	layers     *nn.Sequential[B]
}

// NewDenselyConnected creates one dense stage for inFeatures inputs.
func NewDenselyConnected[B tensor.Backend](
	inFeatures, width int,
	batchNorm bool,
	dropout float32,
	epsilon float32,
	activation string,
	backend B,
) (*DenselyConnected[B], error) {
	if inFeatures <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: in=%d, width=%d", ErrNonPositiveWidth, inFeatures, width)
	}

	act, err := newActivation[B](activation)
	if err != nil {
		return nil, err
	}

	layers := nn.NewSequential[B](nn.NewLinear(inFeatures, width, backend))
	if batchNorm {
		layers.Add(nn.NewBatchNorm1D(width, epsilon, backend))
	}
	layers.Add(act)
	if dropout > 0 {
		layers.Add(nn.NewDropout[B](dropout))
	}

	return &DenselyConnected[B]{
		inFeatures: inFeatures,
		width:      width,
		layers:     layers,
	}, nil
}

// Forward applies the dense stage.
func (d *DenselyConnected[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return d.layers.Forward(input)
}

// Parameters returns the stage parameters.
func (d *DenselyConnected[B]) Parameters() []*nn.Parameter[B] {
	return d.layers.Parameters()
}

// Width returns the stage output width.
func (d *DenselyConnected[B]) Width() int {
	return d.width
}

// String describes the stage configuration.
func (d *DenselyConnected[B]) String() string {
	return fmt.Sprintf("DenselyConnected(in_features=%d, width=%d)", d.inFeatures, d.width)
}
