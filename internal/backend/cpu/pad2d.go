package cpu

import (
	"fmt"

	"github.com/yonderakyol/pyradox/internal/tensor"
)

// Pad2D pads the last two dimensions of a 4D tensor with zeros.
//
// Input shape:  [batch, channels, height, width]
// Output shape: [batch, channels, height+top+bottom, width+left+right]
func (cpu *CPUBackend) Pad2D(input *tensor.RawTensor, top, bottom, left, right int) *tensor.RawTensor {
	inputShape := input.Shape()
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("pad2d: expected 4D input [N,C,H,W], got %dD", len(inputShape)))
	}
	if top < 0 || bottom < 0 || left < 0 || right < 0 {
		panic(fmt.Sprintf("pad2d: negative padding (%d,%d,%d,%d)", top, bottom, left, right))
	}

	n := inputShape[0]
	c := inputShape[1]
	h := inputShape[2]
	w := inputShape[3]
	hOut := h + top + bottom
	wOut := w + left + right

	output, err := tensor.NewRaw(tensor.Shape{n, c, hOut, wOut}, input.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("pad2d: %v", err))
	}

	switch input.DType() {
	case tensor.Float32:
		padData(output.AsFloat32(), input.AsFloat32(), n, c, h, w, hOut, wOut, top, left)
	case tensor.Float64:
		padData(output.AsFloat64(), input.AsFloat64(), n, c, h, w, hOut, wOut, top, left)
	default:
		panic(fmt.Sprintf("pad2d: unsupported dtype %s", input.DType()))
	}

	return output
}

// padData copies each input row into its shifted position. The output
// buffer starts zeroed, so only interior rows need writing.
func padData[T float32 | float64](outputData, inputData []T, n, c, h, w, hOut, wOut, top, left int) {
	for plane := 0; plane < n*c; plane++ {
		srcBase := plane * h * w
		dstBase := plane * hOut * wOut
		for row := 0; row < h; row++ {
			src := inputData[srcBase+row*w : srcBase+(row+1)*w]
			dstStart := dstBase + (row+top)*wOut + left
			copy(outputData[dstStart:dstStart+w], src)
		}
	}
}
