package nn

import (
	"fmt"
	"math/rand"

	"github.com/yonderakyol/pyradox/internal/tensor"
)

// Dropout randomly zeroes elements during training with probability p,
// scaling the survivors by 1/(1-p) so activations keep their expected
// value (inverted dropout). In inference mode it is the identity.
type Dropout[B tensor.Backend] struct {
	p        float32
	training bool
}

// NewDropout creates a dropout layer with drop probability p in [0, 1).
// Layers start in inference mode.
func NewDropout[B tensor.Backend](p float32) *Dropout[B] {
	if p < 0 || p >= 1 {
		panic(fmt.Sprintf("dropout: invalid probability %g", p))
	}
	return &Dropout[B]{p: p}
}

// SetTraining toggles between training and inference behavior.
func (d *Dropout[B]) SetTraining(training bool) {
	d.training = training
}

// Forward applies dropout in training mode, identity otherwise.
func (d *Dropout[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	if !d.training || d.p == 0 {
		return input
	}

	// Clone shares the buffer, so the mask needs a fresh allocation.
	raw, err := tensor.NewRaw(input.Shape(), input.DType(), input.Device())
	if err != nil {
		panic(fmt.Sprintf("dropout: %v", err))
	}
	output := tensor.New[float32, B](raw, input.Backend())

	src := input.Data()
	dst := output.Data()
	scale := 1 / (1 - d.p)
	for i, v := range src {
		//nolint:gosec // G404: math/rand is intentional for dropout masks
		if rand.Float32() < d.p {
			dst[i] = 0
		} else {
			dst[i] = v * scale
		}
	}
	return output
}

// Parameters returns nil (dropout has no trainable parameters).
func (d *Dropout[B]) Parameters() []*Parameter[B] {
	return nil
}

// String describes the layer configuration.
func (d *Dropout[B]) String() string {
	return fmt.Sprintf("Dropout(p=%g)", d.p)
}
