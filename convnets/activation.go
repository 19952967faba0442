// Copyright 2025 The Pyradox Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package convnets

import (
	"fmt"

	"github.com/yonderakyol/pyradox/nn"
	"github.com/yonderakyol/pyradox/tensor"
)

// newActivation resolves an activation name to a fresh module instance.
// Names are the lowercase Keras-style identifiers.
func newActivation[B tensor.Backend](name string) (nn.Module[B], error) {
	switch name {
	case "relu":
		return nn.NewReLU[B](), nil
	case "sigmoid":
		return nn.NewSigmoid[B](), nil
	case "tanh":
		return nn.NewTanh[B](), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownActivation, name)
	}
}

// validActivation reports whether newActivation would succeed for name.
func validActivation(name string) bool {
	switch name {
	case "relu", "sigmoid", "tanh":
		return true
	}
	return false
}
