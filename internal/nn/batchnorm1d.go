package nn

import (
	"fmt"

	"github.com/yonderakyol/pyradox/internal/tensor"
)

// BatchNorm1D normalizes each feature over the batch dimension. Used
// after fully connected layers.
//
// Input and output shape: [batch, features].
type BatchNorm1D[B tensor.Backend] struct {
	numFeatures int
	epsilon     float32

	gamma *Parameter[B] // [features]
	beta  *Parameter[B] // [features]

	backend B
}

// NewBatchNorm1D creates a batch normalization layer over numFeatures
// features.
func NewBatchNorm1D[B tensor.Backend](numFeatures int, epsilon float32, backend B) *BatchNorm1D[B] {
	if numFeatures <= 0 {
		panic(fmt.Sprintf("batchnorm1d: invalid num features %d", numFeatures))
	}
	if epsilon <= 0 {
		panic(fmt.Sprintf("batchnorm1d: invalid epsilon %g", epsilon))
	}

	return &BatchNorm1D[B]{
		numFeatures: numFeatures,
		epsilon:     epsilon,
		gamma:       NewParameter("gamma", Ones(tensor.Shape{numFeatures}, backend)),
		beta:        NewParameter("beta", Zeros(tensor.Shape{numFeatures}, backend)),
		backend:     backend,
	}
}

// Forward normalizes the input using batch statistics.
func (bn *BatchNorm1D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	inputShape := input.Shape()
	if len(inputShape) != 2 {
		panic(fmt.Sprintf("batchnorm1d: expected 2D input [N,F], got shape %v", inputShape))
	}
	if inputShape[1] != bn.numFeatures {
		panic(fmt.Sprintf("batchnorm1d: input features %d != expected %d", inputShape[1], bn.numFeatures))
	}

	mean := input.MeanDim(0, true) // [1,F]
	centered := input.Sub(mean)
	variance := centered.Mul(centered).MeanDim(0, true) // [1,F]

	invStd := variance.AddScalar(bn.epsilon).Rsqrt()
	normalized := centered.Mul(invStd)

	gamma := bn.gamma.Tensor().Reshape(1, bn.numFeatures)
	beta := bn.beta.Tensor().Reshape(1, bn.numFeatures)
	return normalized.Mul(gamma).Add(beta)
}

// Parameters returns the scale and shift parameters.
func (bn *BatchNorm1D[B]) Parameters() []*Parameter[B] {
	return []*Parameter[B]{bn.gamma, bn.beta}
}

// NumFeatures returns the number of normalized features.
func (bn *BatchNorm1D[B]) NumFeatures() int {
	return bn.numFeatures
}

// String describes the layer configuration.
func (bn *BatchNorm1D[B]) String() string {
	return fmt.Sprintf("BatchNorm1D(num_features=%d, eps=%g)", bn.numFeatures, bn.epsilon)
}

// StateDict returns a map of parameter names to raw tensors.
func (bn *BatchNorm1D[B]) StateDict() map[string]*tensor.RawTensor {
	return map[string]*tensor.RawTensor{
		"gamma": bn.gamma.Tensor().Raw(),
		"beta":  bn.beta.Tensor().Raw(),
	}
}

// LoadStateDict loads parameters from a state dictionary.
func (bn *BatchNorm1D[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	shape := tensor.Shape{bn.numFeatures}
	if err := loadParam(stateDict, "gamma", bn.gamma, shape); err != nil {
		return err
	}
	return loadParam(stateDict, "beta", bn.beta, shape)
}
