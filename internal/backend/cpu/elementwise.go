package cpu

import (
	"fmt"

	"github.com/yonderakyol/pyradox/internal/tensor"
)

// Add performs element-wise addition with NumPy-style broadcasting.
func (cpu *CPUBackend) Add(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("add", a, b,
		func(x, y float32) float32 { return x + y },
		func(x, y float64) float64 { return x + y })
}

// Sub performs element-wise subtraction with broadcasting.
func (cpu *CPUBackend) Sub(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("sub", a, b,
		func(x, y float32) float32 { return x - y },
		func(x, y float64) float64 { return x - y })
}

// Mul performs element-wise multiplication with broadcasting.
func (cpu *CPUBackend) Mul(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("mul", a, b,
		func(x, y float32) float32 { return x * y },
		func(x, y float64) float64 { return x * y })
}

// Div performs element-wise division with broadcasting.
func (cpu *CPUBackend) Div(a, b *tensor.RawTensor) *tensor.RawTensor {
	return cpu.binaryOp("div", a, b,
		func(x, y float32) float32 { return x / y },
		func(x, y float64) float64 { return x / y })
}

// binaryOp applies an element-wise binary operation with broadcasting.
func (cpu *CPUBackend) binaryOp(
	name string,
	a, b *tensor.RawTensor,
	f32 func(x, y float32) float32,
	f64 func(x, y float64) float64,
) *tensor.RawTensor {
	if a.DType() != b.DType() {
		panic(fmt.Sprintf("%s: dtype mismatch: %s vs %s", name, a.DType(), b.DType()))
	}

	outShape, needsBroadcast, err := tensor.BroadcastShapes(a.Shape(), b.Shape())
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	result, err := tensor.NewRaw(outShape, a.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: failed to create result tensor: %v", name, err))
	}

	switch a.DType() {
	case tensor.Float32:
		if !needsBroadcast {
			applyVectorized(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), f32)
		} else {
			applyBroadcast(result.AsFloat32(), a.AsFloat32(), b.AsFloat32(), outShape, a.Shape(), b.Shape(), f32)
		}
	case tensor.Float64:
		if !needsBroadcast {
			applyVectorized(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), f64)
		} else {
			applyBroadcast(result.AsFloat64(), a.AsFloat64(), b.AsFloat64(), outShape, a.Shape(), b.Shape(), f64)
		}
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, a.DType()))
	}

	return result
}

// applyVectorized is the fast path for same-shape operands.
func applyVectorized[T float32 | float64](dst, a, b []T, op func(x, y T) T) {
	for i := range dst {
		dst[i] = op(a[i], b[i])
	}
}

// applyBroadcast is the slow path for broadcasting operands.
//
// Each operand gets an effective stride vector aligned to the output
// shape: size-1 (or missing) dimensions get stride 0 so the single
// element is reused across that dimension.
func applyBroadcast[T float32 | float64](dst, a, b []T, outShape, aShape, bShape tensor.Shape, op func(x, y T) T) {
	outStrides := outShape.ComputeStrides()
	aStrides := broadcastStrides(aShape, outShape)
	bStrides := broadcastStrides(bShape, outShape)

	n := outShape.NumElements()
	for i := 0; i < n; i++ {
		aIdx, bIdx := 0, 0
		remaining := i
		for d := 0; d < len(outShape); d++ {
			coord := remaining / outStrides[d]
			remaining %= outStrides[d]
			aIdx += coord * aStrides[d]
			bIdx += coord * bStrides[d]
		}
		dst[i] = op(a[aIdx], b[bIdx])
	}
}

// broadcastStrides computes effective strides for a shape broadcast to outShape.
func broadcastStrides(shape, outShape tensor.Shape) []int {
	strides := shape.ComputeStrides()
	result := make([]int, len(outShape))

	offset := len(outShape) - len(shape)
	for d := range outShape {
		srcDim := d - offset
		if srcDim < 0 || shape[srcDim] == 1 {
			result[d] = 0
		} else {
			result[d] = strides[srcDim]
		}
	}
	return result
}
