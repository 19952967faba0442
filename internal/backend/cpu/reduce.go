package cpu

import (
	"fmt"

	"github.com/yonderakyol/pyradox/internal/tensor"
)

// SumDim sums over a single dimension. Negative dims count from the end.
// With keepDim the reduced dimension stays as size 1, otherwise it is
// removed from the shape.
func (cpu *CPUBackend) SumDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduceDim("sumdim", x, dim, keepDim, false)
}

// MeanDim averages over a single dimension, with the same dim and
// keepDim semantics as SumDim.
func (cpu *CPUBackend) MeanDim(x *tensor.RawTensor, dim int, keepDim bool) *tensor.RawTensor {
	return cpu.reduceDim("meandim", x, dim, keepDim, true)
}

func (cpu *CPUBackend) reduceDim(name string, x *tensor.RawTensor, dim int, keepDim, mean bool) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)

	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("%s: dim %d out of range for %dD tensor", name, dim, ndim))
	}

	outShape := make(tensor.Shape, 0, ndim)
	for i, s := range shape {
		if i == dim {
			if keepDim {
				outShape = append(outShape, 1)
			}
			continue
		}
		outShape = append(outShape, s)
	}
	if len(outShape) == 0 {
		outShape = tensor.Shape{1}
	}

	result, err := tensor.NewRaw(outShape, x.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("%s: %v", name, err))
	}

	// View the tensor as [outer, reduce, inner]: outer iterates dims
	// before the reduced one, inner the dims after it.
	outer := 1
	for i := 0; i < dim; i++ {
		outer *= shape[i]
	}
	reduce := shape[dim]
	inner := 1
	for i := dim + 1; i < ndim; i++ {
		inner *= shape[i]
	}

	switch x.DType() {
	case tensor.Float32:
		reduceData(result.AsFloat32(), x.AsFloat32(), outer, reduce, inner, mean)
	case tensor.Float64:
		reduceData(result.AsFloat64(), x.AsFloat64(), outer, reduce, inner, mean)
	default:
		panic(fmt.Sprintf("%s: unsupported dtype %s", name, x.DType()))
	}

	return result
}

func reduceData[T float32 | float64](dst, src []T, outer, reduce, inner int, mean bool) {
	for o := 0; o < outer; o++ {
		srcBase := o * reduce * inner
		dstBase := o * inner
		for r := 0; r < reduce; r++ {
			row := src[srcBase+r*inner : srcBase+(r+1)*inner]
			out := dst[dstBase : dstBase+inner]
			for i, v := range row {
				out[i] += v
			}
		}
	}
	if mean {
		scale := T(1) / T(reduce)
		for i := range dst {
			dst[i] *= scale
		}
	}
}
