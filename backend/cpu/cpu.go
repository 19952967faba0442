// Copyright 2025 The Pyradox Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package cpu provides the pure Go CPU compute backend.
package cpu

import (
	internalcpu "github.com/yonderakyol/pyradox/internal/backend/cpu"
	"github.com/yonderakyol/pyradox/tensor"
)

// Backend is the CPU backend implementation.
//
// It provides pure Go implementations of all tensor operations required
// by the pyradox layers and architecture builders.
type Backend = internalcpu.CPUBackend

// Compile-time check that Backend implements tensor.Backend.
var _ tensor.Backend = (*Backend)(nil)

// New creates a new CPU backend.
//
// Example:
//
//	import (
//	    "github.com/yonderakyol/pyradox/backend/cpu"
//	    "github.com/yonderakyol/pyradox/tensor"
//	)
//
//	func main() {
//	    backend := cpu.New()
//	    x := tensor.Zeros[float32](tensor.Shape{2, 3}, backend)
//	}
func New() *Backend {
	return internalcpu.New()
}
