// Copyright 2025 The Pyradox Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package nn provides the neural network layers used by the pyradox
// architecture builders.
//
// # Overview
//
// This package contains:
//   - Layers: Linear, Conv2D, BatchNorm1D/2D, pooling, padding, Dropout, Flatten
//   - Activations: ReLU, Sigmoid, Tanh
//   - Utilities: Sequential, Module interface, Parameter
//   - Initialization: Xavier, Zeros, Ones
//
// # Basic Usage
//
//	import (
//	    "github.com/yonderakyol/pyradox/nn"
//	    "github.com/yonderakyol/pyradox/backend/cpu"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    model := nn.NewSequential(
//	        nn.NewConv2D(3, 64, 3, 3, 1, 1, false, backend),
//	        nn.NewReLU[*cpu.Backend](),
//	        nn.NewMaxPool2D(2, 2, backend),
//	    )
//
//	    output := model.Forward(input)
//	}
package nn

import (
	"github.com/yonderakyol/pyradox/internal/nn"
	"github.com/yonderakyol/pyradox/internal/tensor"
)

// Module is the common interface for all neural network modules.
type Module[B tensor.Backend] = nn.Module[B]

// Stateful is implemented by modules whose parameters can be exported
// and restored by name.
type Stateful = nn.Stateful

// Trainable is implemented by modules whose behavior differs between
// training and inference.
type Trainable = nn.Trainable

// Parameter is a named tensor belonging to a layer.
type Parameter[B tensor.Backend] = nn.Parameter[B]

// NewParameter creates a new parameter with the given name and tensor.
func NewParameter[B tensor.Backend](name string, t *tensor.Tensor[float32, B]) *Parameter[B] {
	return nn.NewParameter(name, t)
}

// Layers

// Linear is a fully connected (dense) layer.
type Linear[B tensor.Backend] = nn.Linear[B]

// NewLinear creates a new linear layer with Xavier initialization.
//
// Example:
//
//	layer := nn.NewLinear(4096, 1000, backend)
func NewLinear[B tensor.Backend](inFeatures, outFeatures int, backend B) *Linear[B] {
	return nn.NewLinear(inFeatures, outFeatures, backend)
}

// Conv2D is a 2D convolutional layer.
type Conv2D[B tensor.Backend] = nn.Conv2D[B]

// NewConv2D creates a new 2D convolutional layer.
//
// Example:
//
//	conv := nn.NewConv2D(3, 64, 3, 3, 1, 1, false, backend)
func NewConv2D[B tensor.Backend](
	inChannels, outChannels int,
	kernelH, kernelW int,
	stride, padding int,
	useBias bool,
	backend B,
) *Conv2D[B] {
	return nn.NewConv2D(inChannels, outChannels, kernelH, kernelW, stride, padding, useBias, backend)
}

// MaxPool2D is a 2D max pooling layer.
type MaxPool2D[B tensor.Backend] = nn.MaxPool2D[B]

// NewMaxPool2D creates a new 2D max pooling layer.
func NewMaxPool2D[B tensor.Backend](kernelSize, stride int, backend B) *MaxPool2D[B] {
	return nn.NewMaxPool2D(kernelSize, stride, backend)
}

// AvgPool2D is a 2D average pooling layer.
type AvgPool2D[B tensor.Backend] = nn.AvgPool2D[B]

// NewAvgPool2D creates a new 2D average pooling layer.
func NewAvgPool2D[B tensor.Backend](kernelSize, stride int, backend B) *AvgPool2D[B] {
	return nn.NewAvgPool2D(kernelSize, stride, backend)
}

// GlobalAvgPool2D averages each channel plane to a single value.
type GlobalAvgPool2D[B tensor.Backend] = nn.GlobalAvgPool2D[B]

// NewGlobalAvgPool2D creates a new global average pooling layer.
func NewGlobalAvgPool2D[B tensor.Backend]() *GlobalAvgPool2D[B] {
	return nn.NewGlobalAvgPool2D[B]()
}

// ZeroPad2D pads the spatial dimensions of a 4D tensor with zeros.
type ZeroPad2D[B tensor.Backend] = nn.ZeroPad2D[B]

// NewZeroPad2D creates a new zero padding layer.
func NewZeroPad2D[B tensor.Backend](top, bottom, left, right int) *ZeroPad2D[B] {
	return nn.NewZeroPad2D[B](top, bottom, left, right)
}

// BatchNorm2D normalizes each channel over batch and spatial dimensions.
type BatchNorm2D[B tensor.Backend] = nn.BatchNorm2D[B]

// NewBatchNorm2D creates a new 2D batch normalization layer.
//
// Example:
//
//	bn := nn.NewBatchNorm2D(64, 1.001e-5, backend)
func NewBatchNorm2D[B tensor.Backend](numFeatures int, epsilon float32, backend B) *BatchNorm2D[B] {
	return nn.NewBatchNorm2D(numFeatures, epsilon, backend)
}

// BatchNorm1D normalizes each feature over the batch dimension.
type BatchNorm1D[B tensor.Backend] = nn.BatchNorm1D[B]

// NewBatchNorm1D creates a new 1D batch normalization layer.
func NewBatchNorm1D[B tensor.Backend](numFeatures int, epsilon float32, backend B) *BatchNorm1D[B] {
	return nn.NewBatchNorm1D(numFeatures, epsilon, backend)
}

// Dropout randomly zeroes elements during training.
type Dropout[B tensor.Backend] = nn.Dropout[B]

// NewDropout creates a new dropout layer with drop probability p.
func NewDropout[B tensor.Backend](p float32) *Dropout[B] {
	return nn.NewDropout[B](p)
}

// Flatten collapses all dimensions after the batch dimension.
type Flatten[B tensor.Backend] = nn.Flatten[B]

// NewFlatten creates a new Flatten layer.
func NewFlatten[B tensor.Backend]() *Flatten[B] {
	return nn.NewFlatten[B]()
}

// Activations

// ReLU is the Rectified Linear Unit activation function.
type ReLU[B tensor.Backend] = nn.ReLU[B]

// NewReLU creates a new ReLU activation layer.
func NewReLU[B tensor.Backend]() *ReLU[B] {
	return nn.NewReLU[B]()
}

// Sigmoid is the sigmoid activation function.
type Sigmoid[B tensor.Backend] = nn.Sigmoid[B]

// NewSigmoid creates a new Sigmoid activation layer.
func NewSigmoid[B tensor.Backend]() *Sigmoid[B] {
	return nn.NewSigmoid[B]()
}

// Tanh is the hyperbolic tangent activation function.
type Tanh[B tensor.Backend] = nn.Tanh[B]

// NewTanh creates a new Tanh activation layer.
func NewTanh[B tensor.Backend]() *Tanh[B] {
	return nn.NewTanh[B]()
}

// Sequential

// Sequential is a sequential container of modules.
type Sequential[B tensor.Backend] = nn.Sequential[B]

// NewSequential creates a new sequential model.
//
// Example:
//
//	model := nn.NewSequential(
//	    nn.NewLinear(784, 128, backend),
//	    nn.NewReLU[*cpu.Backend](),
//	    nn.NewLinear(128, 10, backend),
//	)
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return nn.NewSequential(modules...)
}

// Initialization functions

// Xavier initializes a tensor using Xavier/Glorot initialization.
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Xavier(fanIn, fanOut, shape, backend)
}

// Zeros initializes a tensor with zeros (for biases).
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Zeros(shape, backend)
}

// Ones initializes a tensor with ones (for norm scales).
func Ones[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return nn.Ones(shape, backend)
}
