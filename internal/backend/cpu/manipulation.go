package cpu

import (
	"fmt"

	"github.com/yonderakyol/pyradox/internal/tensor"
)

// Cat concatenates tensors along the given dimension. All inputs must
// share dtype and agree on every dimension except dim.
func (cpu *CPUBackend) Cat(tensors []*tensor.RawTensor, dim int) *tensor.RawTensor {
	if len(tensors) == 0 {
		panic("cat: empty tensor list")
	}

	first := tensors[0]
	ndim := len(first.Shape())
	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("cat: dim %d out of range for %dD tensors", dim, ndim))
	}

	outShape := first.Shape().Clone()
	for _, t := range tensors[1:] {
		shape := t.Shape()
		if len(shape) != ndim {
			panic(fmt.Sprintf("cat: rank mismatch: %dD vs %dD", ndim, len(shape)))
		}
		if t.DType() != first.DType() {
			panic(fmt.Sprintf("cat: dtype mismatch: %s vs %s", first.DType(), t.DType()))
		}
		for i, s := range shape {
			if i == dim {
				continue
			}
			if s != outShape[i] {
				panic(fmt.Sprintf("cat: shape mismatch at dim %d: %v vs %v", i, first.Shape(), shape))
			}
		}
		outShape[dim] += shape[dim]
	}

	result, err := tensor.NewRaw(outShape, first.DType(), cpu.device)
	if err != nil {
		panic(fmt.Sprintf("cat: %v", err))
	}

	switch first.DType() {
	case tensor.Float32:
		srcs := make([][]float32, len(tensors))
		for i, t := range tensors {
			srcs[i] = t.AsFloat32()
		}
		catData(result.AsFloat32(), srcs, tensors, outShape, dim)
	case tensor.Float64:
		srcs := make([][]float64, len(tensors))
		for i, t := range tensors {
			srcs[i] = t.AsFloat64()
		}
		catData(result.AsFloat64(), srcs, tensors, outShape, dim)
	default:
		panic(fmt.Sprintf("cat: unsupported dtype %s", first.DType()))
	}

	return result
}

// catData copies source blocks into the output. Each source contributes
// a contiguous chunk of dim*inner elements per outer index.
func catData[T float32 | float64](dst []T, srcs [][]T, tensors []*tensor.RawTensor, outShape tensor.Shape, dim int) {
	outer := 1
	for i := 0; i < dim; i++ {
		outer *= outShape[i]
	}
	inner := 1
	for i := dim + 1; i < len(outShape); i++ {
		inner *= outShape[i]
	}
	outRow := outShape[dim] * inner

	for o := 0; o < outer; o++ {
		dstOffset := o * outRow
		for i, src := range srcs {
			chunk := tensors[i].Shape()[dim] * inner
			copy(dst[dstOffset:dstOffset+chunk], src[o*chunk:(o+1)*chunk])
			dstOffset += chunk
		}
	}
}

// Unsqueeze inserts a size-1 dimension at the given position.
func (cpu *CPUBackend) Unsqueeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if dim < 0 {
		dim += ndim + 1
	}
	if dim < 0 || dim > ndim {
		panic(fmt.Sprintf("unsqueeze: dim %d out of range for %dD tensor", dim, ndim))
	}

	newShape := make(tensor.Shape, 0, ndim+1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, 1)
	newShape = append(newShape, shape[dim:]...)

	return cpu.Reshape(x, newShape)
}

// Squeeze removes a size-1 dimension at the given position.
func (cpu *CPUBackend) Squeeze(x *tensor.RawTensor, dim int) *tensor.RawTensor {
	shape := x.Shape()
	ndim := len(shape)
	if dim < 0 {
		dim += ndim
	}
	if dim < 0 || dim >= ndim {
		panic(fmt.Sprintf("squeeze: dim %d out of range for %dD tensor", dim, ndim))
	}
	if shape[dim] != 1 {
		panic(fmt.Sprintf("squeeze: dim %d has size %d, expected 1", dim, shape[dim]))
	}

	newShape := make(tensor.Shape, 0, ndim-1)
	newShape = append(newShape, shape[:dim]...)
	newShape = append(newShape, shape[dim+1:]...)
	if len(newShape) == 0 {
		newShape = tensor.Shape{1}
	}

	return cpu.Reshape(x, newShape)
}
