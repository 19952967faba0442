package cpu

import (
	"fmt"

	"github.com/yonderakyol/pyradox/internal/tensor"
)

// Conv2D performs 2D convolution using the im2col algorithm.
//
// Input shape: [batch, in_channels, height, width]
// Kernel shape: [out_channels, in_channels, kernel_h, kernel_w]
// Output shape: [batch, out_channels, out_h, out_w]
//
// Algorithm: Im2col
//  1. Transform input patches into columns (im2col)
//  2. Treat the kernel as a [C_out, C_in*K_h*K_w] matrix
//  3. Perform matrix multiplication
//  4. Rearrange output to [N, C_out, H_out, W_out]
//
// Im2col converts convolution to matmul, which is cache-friendly and
// reuses the matmul inner loop.
func (cpu *CPUBackend) Conv2D(input, kernel *tensor.RawTensor, stride, padding int) *tensor.RawTensor {
	inputShape := input.Shape()
	kernelShape := kernel.Shape()

	if len(inputShape) != 4 {
		panic(fmt.Sprintf("conv2d: input must be 4D [N,C,H,W], got %dD", len(inputShape)))
	}
	if len(kernelShape) != 4 {
		panic(fmt.Sprintf("conv2d: kernel must be 4D [C_out,C_in,K_h,K_w], got %dD", len(kernelShape)))
	}

	n := inputShape[0]
	cIn := inputShape[1]
	h := inputShape[2]
	w := inputShape[3]
	cOut := kernelShape[0]
	kh := kernelShape[2]
	kw := kernelShape[3]

	if cIn != kernelShape[1] {
		panic(fmt.Sprintf("conv2d: input channels %d != kernel channels %d", cIn, kernelShape[1]))
	}

	hOut := (h+2*padding-kh)/stride + 1
	wOut := (w+2*padding-kw)/stride + 1

	if hOut <= 0 || wOut <= 0 {
		panic(fmt.Sprintf("conv2d: invalid output dimensions: out_h=%d, out_w=%d (check stride/padding)", hOut, wOut))
	}

	output, err := tensor.NewRaw(tensor.Shape{n, cOut, hOut, wOut}, input.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("conv2d: failed to create output tensor: %v", err))
	}

	switch input.DType() {
	case tensor.Float32:
		conv2dData(output.AsFloat32(), input.AsFloat32(), kernel.AsFloat32(),
			n, cIn, h, w, cOut, kh, kw, hOut, wOut, stride, padding)
	case tensor.Float64:
		conv2dData(output.AsFloat64(), input.AsFloat64(), kernel.AsFloat64(),
			n, cIn, h, w, cOut, kh, kw, hOut, wOut, stride, padding)
	default:
		panic(fmt.Sprintf("conv2d: unsupported dtype %s", input.DType()))
	}

	return output
}

// conv2dData performs the im2col transform followed by a matmul.
func conv2dData[T float32 | float64](outputData, inputData, kernelData []T,
	n, cIn, h, w, cOut, kh, kw, hOut, wOut, stride, padding int,
) {
	// Step 1: im2col
	// colBuf: [N * H_out * W_out, C_in * K_h * K_w]
	colWidth := cIn * kh * kw
	colHeight := n * hOut * wOut
	colBuf := make([]T, colHeight*colWidth)
	im2col(colBuf, inputData, n, cIn, h, w, kh, kw, hOut, wOut, stride, padding)

	// Step 2+3: kernelData is already a [C_out, C_in*K_h*K_w] row-major matrix.
	// result[i, j] = sum_k kernel[i, k] * colBuf[j, k]
	// Written directly into NCHW order: colBuf row j corresponds to
	// (batch, out_h, out_w) = (j / (H_out*W_out), ...), so the output
	// index for (i, j) is [n, i, h, w].
	plane := hOut * wOut
	for i := 0; i < cOut; i++ {
		kRow := kernelData[i*colWidth : (i+1)*colWidth]
		for j := 0; j < colHeight; j++ {
			col := colBuf[j*colWidth : (j+1)*colWidth]
			var sum T
			for k := 0; k < colWidth; k++ {
				sum += kRow[k] * col[k]
			}
			batch := j / plane
			outputData[batch*cOut*plane+i*plane+j%plane] = sum
		}
	}
}

// im2col transforms input patches into a column matrix.
//
// Input: [N, C, H, W]
// Output: colBuf [N * H_out * W_out, C * K_h * K_w]
//
// Each row of colBuf corresponds to one output position; each column
// corresponds to one kernel weight. Out-of-bounds positions (padding)
// are left zero.
func im2col[T float32 | float64](colBuf, inputData []T, n, c, h, w, kh, kw, hOut, wOut, stride, padding int) {
	colWidth := c * kh * kw
	colIdx := 0

	for batch := 0; batch < n; batch++ {
		for outH := 0; outH < hOut; outH++ {
			for outW := 0; outW < wOut; outW++ {
				hStart := outH*stride - padding
				wStart := outW*stride - padding
				bufIdx := colIdx * colWidth

				for ch := 0; ch < c; ch++ {
					for kr := 0; kr < kh; kr++ {
						for kc := 0; kc < kw; kc++ {
							row := hStart + kr
							col := wStart + kc

							if row >= 0 && row < h && col >= 0 && col < w {
								colBuf[bufIdx] = inputData[batch*c*h*w+ch*h*w+row*w+col]
							}
							bufIdx++
						}
					}
				}

				colIdx++
			}
		}
	}
}
