// Copyright 2025 The Pyradox Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package convnets

import "errors"

// Configuration errors. Builders validate their configuration before
// constructing any layer and return one of these sentinels (wrapped with
// context) on invalid input. Use errors.Is to test for them.
var (
	// ErrNegativeBlockCount reports a negative entry in a DenseNet
	// blocks list.
	ErrNegativeBlockCount = errors.New("convnets: negative block count")

	// ErrNonPositiveRepeat reports a zero or negative repeat count in a
	// VGG conv stage.
	ErrNonPositiveRepeat = errors.New("convnets: non-positive repeat count")

	// ErrNonPositiveWidth reports a zero or negative layer width
	// (channels, units, or growth rate).
	ErrNonPositiveWidth = errors.New("convnets: non-positive width")

	// ErrInvalidReduction reports a DenseNet compression factor outside
	// (0, 1].
	ErrInvalidReduction = errors.New("convnets: reduction must be in (0, 1]")

	// ErrInvalidEpsilon reports a non-positive batch norm epsilon.
	ErrInvalidEpsilon = errors.New("convnets: epsilon must be positive")

	// ErrInvalidDropout reports a dropout probability outside [0, 1).
	ErrInvalidDropout = errors.New("convnets: dropout must be in [0, 1)")

	// ErrUnknownActivation reports an activation name without a
	// registered module.
	ErrUnknownActivation = errors.New("convnets: unknown activation")

	// ErrUnknownPreset reports a preset name without a registry entry.
	ErrUnknownPreset = errors.New("convnets: unknown preset")

	// ErrZeroSpatial reports an input size whose spatial dimensions
	// collapse to zero before the dense phase.
	ErrZeroSpatial = errors.New("convnets: spatial dimensions collapse to zero")
)
