package nn

import (
	"fmt"

	"github.com/yonderakyol/pyradox/internal/tensor"
)

// BatchNorm2D normalizes each channel over the batch and spatial
// dimensions, then applies a learned per-channel scale and shift:
//
//	y = gamma * (x - mean) / sqrt(var + eps) + beta
//
// Input and output shape: [batch, channels, height, width].
// Gamma starts at one, beta at zero.
type BatchNorm2D[B tensor.Backend] struct {
	numFeatures int
	epsilon     float32

	gamma *Parameter[B] // [channels]
	beta  *Parameter[B] // [channels]

	backend B
}

// NewBatchNorm2D creates a batch normalization layer over numFeatures
// channels.
func NewBatchNorm2D[B tensor.Backend](numFeatures int, epsilon float32, backend B) *BatchNorm2D[B] {
	if numFeatures <= 0 {
		panic(fmt.Sprintf("batchnorm2d: invalid num features %d", numFeatures))
	}
	if epsilon <= 0 {
		panic(fmt.Sprintf("batchnorm2d: invalid epsilon %g", epsilon))
	}

	return &BatchNorm2D[B]{
		numFeatures: numFeatures,
		epsilon:     epsilon,
		gamma:       NewParameter("gamma", Ones(tensor.Shape{numFeatures}, backend)),
		beta:        NewParameter("beta", Zeros(tensor.Shape{numFeatures}, backend)),
		backend:     backend,
	}
}

// Forward normalizes the input using batch statistics.
func (bn *BatchNorm2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	inputShape := input.Shape()
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("batchnorm2d: expected 4D input [N,C,H,W], got shape %v", inputShape))
	}
	if inputShape[1] != bn.numFeatures {
		panic(fmt.Sprintf("batchnorm2d: input channels %d != expected %d", inputShape[1], bn.numFeatures))
	}

	// Per-channel mean and variance over N, H, W. The reductions keep
	// dims so the results broadcast back against the input.
	mean := input.MeanDim(3, true).MeanDim(2, true).MeanDim(0, true) // [1,C,1,1]
	centered := input.Sub(mean)
	variance := centered.Mul(centered).MeanDim(3, true).MeanDim(2, true).MeanDim(0, true) // [1,C,1,1]

	invStd := variance.AddScalar(bn.epsilon).Rsqrt()
	normalized := centered.Mul(invStd)

	gamma := bn.gamma.Tensor().Reshape(1, bn.numFeatures, 1, 1)
	beta := bn.beta.Tensor().Reshape(1, bn.numFeatures, 1, 1)
	return normalized.Mul(gamma).Add(beta)
}

// Parameters returns the scale and shift parameters.
func (bn *BatchNorm2D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{bn.gamma, bn.beta}
}

// NumFeatures returns the number of normalized channels.
func (bn *BatchNorm2D[B]) NumFeatures() int {
	return bn.numFeatures
}

// String describes the layer configuration.
func (bn *BatchNorm2D[B]) String() string {
	return fmt.Sprintf("BatchNorm2D(num_features=%d, eps=%g)", bn.numFeatures, bn.epsilon)
}

// StateDict returns a map of parameter names to raw tensors.
func (bn *BatchNorm2D[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"gamma": bn.gamma.Tensor().Raw(),
		"beta":  bn.beta.Tensor().Raw(),
	}
}

// LoadStateDict loads parameters from a state dictionary.
func (bn *BatchNorm2D[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	shape := tensor.Shape{bn.numFeatures}
	if err := loadParam(stateDict, "gamma", bn.gamma, shape); err != nil {
		return err
	}
	return loadParam(stateDict, "beta", bn.beta, shape)
}
