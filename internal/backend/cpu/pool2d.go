package cpu

import (
	"fmt"
	"math"

	"github.com/yonderakyol/pyradox/internal/tensor"
)

// MaxPool2D performs 2D max pooling.
//
// Input shape:  [batch, channels, height, width]
// Output shape: [batch, channels, out_height, out_width]
//
// Where:
//
//	out_height = (height - kernelSize) / stride + 1
//	out_width = (width - kernelSize) / stride + 1
func (cpu *CPUBackend) MaxPool2D(input *tensor.RawTensor, kernelSize, stride int) *tensor.RawTensor {
	return cpu.pool2d("maxpool2d", input, kernelSize, stride, maxPoolWindow[float32], maxPoolWindow[float64])
}

// AvgPool2D performs 2D average pooling.
//
// Same shape rules as MaxPool2D; each output element is the arithmetic
// mean of its pooling window.
func (cpu *CPUBackend) AvgPool2D(input *tensor.RawTensor, kernelSize, stride int) *tensor.RawTensor {
	return cpu.pool2d("avgpool2d", input, kernelSize, stride, avgPoolWindow[float32], avgPoolWindow[float64])
}

// pool2d validates arguments and dispatches to the per-window reducer.
func (cpu *CPUBackend) pool2d(
	name string,
	input *tensor.RawTensor,
	kernelSize, stride int,
	f32 func(channel []float32, w, hStart, wStart, kernelSize int) float32,
	f64 func(channel []float64, w, hStart, wStart, kernelSize int) float64,
) *tensor.RawTensor {
	inputShape := input.Shape()
	if len(inputShape) != 4 {
		panic(fmt.Sprintf("%s: expected 4D input [N,C,H,W], got %dD", name, len(inputShape)))
	}

	n := inputShape[0]
	c := inputShape[1]
	h := inputShape[2]
	w := inputShape[3]

	if kernelSize <= 0 {
		panic(fmt.Sprintf("%s: invalid kernel size %d", name, kernelSize))
	}
	if stride <= 0 {
		panic(fmt.Sprintf("%s: invalid stride %d", name, stride))
	}
	if kernelSize > h || kernelSize > w {
		panic(fmt.Sprintf("%s: kernel size %d too large for input %dx%d", name, kernelSize, h, w))
	}

	hOut := (h-kernelSize)/stride + 1
	wOut := (w-kernelSize)/stride + 1

	output, err := tensor.NewRaw(tensor.Shape{n, c, hOut, wOut}, input.DType(), cpu.Device())
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create output: %v", name, err))
	}

	switch input.DType() {
	case tensor.Float32:
		poolData(output.AsFloat32(), input.AsFloat32(), n, c, h, w, hOut, wOut, kernelSize, stride, f32)
	case tensor.Float64:
		poolData(output.AsFloat64(), input.AsFloat64(), n, c, h, w, hOut, wOut, kernelSize, stride, f64)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %v", name, input.DType()))
	}

	return output
}

// poolData slides the pooling window over every channel plane.
func poolData[T float32 | float64](
	outputData, inputData []T,
	n, c, h, w, hOut, wOut, kernelSize, stride int,
	window func(channel []T, w, hStart, wStart, kernelSize int) T,
) {
	for batch := 0; batch < n; batch++ {
		for ch := 0; ch < c; ch++ {
			channelOffset := (batch*c + ch) * h * w
			channelData := inputData[channelOffset : channelOffset+h*w]

			for outH := 0; outH < hOut; outH++ {
				hStart := outH * stride
				for outW := 0; outW < wOut; outW++ {
					wStart := outW * stride
					outputIdx := ((batch*c+ch)*hOut+outH)*wOut + outW
					outputData[outputIdx] = window(channelData, w, hStart, wStart, kernelSize)
				}
			}
		}
	}
}

// maxPoolWindow returns the maximum value in the pooling window.
func maxPoolWindow[T float32 | float64](channel []T, w, hStart, wStart, kernelSize int) T {
	maxVal := T(math.Inf(-1))
	for kh := 0; kh < kernelSize; kh++ {
		rowStart := (hStart + kh) * w
		rowData := channel[rowStart+wStart : rowStart+wStart+kernelSize]
		for _, val := range rowData {
			if val > maxVal {
				maxVal = val
			}
		}
	}
	return maxVal
}

// avgPoolWindow returns the mean value of the pooling window.
func avgPoolWindow[T float32 | float64](channel []T, w, hStart, wStart, kernelSize int) T {
	var sum T
	for kh := 0; kh < kernelSize; kh++ {
		rowStart := (hStart + kh) * w
		rowData := channel[rowStart+wStart : rowStart+wStart+kernelSize]
		for _, val := range rowData {
			sum += val
		}
	}
	return sum / T(kernelSize*kernelSize)
}
