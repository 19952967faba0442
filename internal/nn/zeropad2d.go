package nn

import (
	"fmt"

	"github.com/yonderakyol/pyradox/internal/tensor"
)

// ZeroPad2D pads the spatial dimensions of a 4D tensor with zeros.
//
// Input shape:  [batch, channels, height, width]
// Output shape: [batch, channels, height+top+bottom, width+left+right]
type ZeroPad2D[B tensor.Backend] struct {
	top, bottom, left, right int
}

// NewZeroPad2D creates a new zero padding layer.
func NewZeroPad2D[B tensor.Backend](top, bottom, left, right int) *ZeroPad2D[B] {
	if top < 0 || bottom < 0 || left < 0 || right < 0 {
		panic(fmt.Sprintf("zeropad2d: negative padding (%d,%d,%d,%d)", top, bottom, left, right))
	}
	return &ZeroPad2D[B]{top: top, bottom: bottom, left: left, right: right}
}

// Forward applies zero padding.
func (z *ZeroPad2D[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	return input.Pad2D(z.top, z.bottom, z.left, z.right)
}

// Parameters returns nil (padding has no trainable parameters).
func (z *ZeroPad2D[B]) Parameters() []*Parameter[B] {
	return nil
}

// String describes the layer configuration.
func (z *ZeroPad2D[B]) String() string {
	return fmt.Sprintf("ZeroPad2D(top=%d, bottom=%d, left=%d, right=%d)", z.top, z.bottom, z.left, z.right)
}
