package nn

import (
	"fmt"

	"github.com/yonderakyol/pyradox/internal/tensor"
)

// Flatten collapses all dimensions after the batch dimension.
//
// Input shape:  [batch, d1, d2, ...]
// Output shape: [batch, d1*d2*...]
type Flatten[B tensor.Backend] struct{}

// NewFlatten creates a new Flatten layer.
func NewFlatten[B tensor.Backend]() *Flatten[B] {
	return &Flatten[B]{}
}

// Forward reshapes the input to [batch, features].
func (f *Flatten[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	shape := input.Shape()
	if len(shape) < 2 {
		panic(fmt.Sprintf("flatten: expected at least 2D input, got shape %v", shape))
	}

	features := 1
	for _, d := range shape[1:] {
		features *= d
	}
	return input.Reshape(shape[0], features)
}

// Parameters returns nil (flatten has no trainable parameters).
func (f *Flatten[B]) Parameters() []*Parameter[B] {
	return nil
}

// String describes the layer configuration.
func (f *Flatten[B]) String() string {
	return "Flatten()"
}
