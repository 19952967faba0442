// Package nn implements the neural network layers used by the pyradox
// architecture builders.
//
// Layers follow the PyTorch module convention adapted for Go generics:
// each layer implements Module[B], layers compose through Sequential,
// and parameters are exposed for inspection and weight loading.
package nn

import (
	"github.com/yonderakyol/pyradox/internal/tensor"
)

// Module is the base interface for all neural network components.
//
// Modules compose to build architectures:
//
//	model := nn.NewSequential[Backend](
//	    nn.NewConv2D(3, 64, 3, 3, 1, 1, false, backend),
//	    nn.NewReLU[Backend](),
//	)
type Module[B tensor.Backend] interface {
	// Forward computes the output of the module given an input tensor.
	Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B]

	// Parameters returns all trainable parameters of this module,
	// including nested module parameters. Modules without parameters
	// return nil.
	Parameters() []*Parameter[B]
}

// Stateful is implemented by modules whose parameters can be exported
// and restored by name. Containers probe for it via type assertion.
type Stateful interface {
	StateDict() map[string]*tensor.RawTensor
	LoadStateDict(stateDict map[string]*tensor.RawTensor) error
}

// Trainable is implemented by modules whose behavior differs between
// training and inference, such as Dropout.
type Trainable interface {
	SetTraining(training bool)
}
