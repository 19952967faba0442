// Copyright 2025 The Pyradox Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package convnets provides parameterized builders for classic
// convolutional network families.
//
// # Overview
//
// Two builders cover the supported families:
//
//   - GeneralizedDenseNet: a block-repeating builder. A blocks list
//     gives the number of densely connected convolution blocks per
//     stage; every stage ends with a channel-compressing transition.
//   - GeneralizedVGG: a stage-sequential builder. An ordered list of
//     (repeats, width) conv stages, optionally followed by a flatten
//     boundary and a stack of dense stages.
//
// Well-known architectures are presets: plain stage specifications
// forwarded to the generic builders with the default configuration.
//
// # Basic Usage
//
//	import (
//	    "github.com/yonderakyol/pyradox/backend/cpu"
//	    "github.com/yonderakyol/pyradox/convnets"
//	)
//
//	func main() {
//	    backend := cpu.New()
//
//	    // A preset.
//	    model, err := convnets.NewDenseNet121(3, backend)
//
//	    // Or a custom configuration.
//	    cfg := convnets.DefaultDenseNetConfig([]int{4, 8, 8})
//	    cfg.GrowthRate = 16
//	    custom, err := convnets.NewGeneralizedDenseNet(cfg, 3, backend)
//	}
//
// # Configuration errors
//
// Builders validate their configuration eagerly and return wrapped
// sentinel errors (ErrNegativeBlockCount, ErrNonPositiveWidth, ...)
// before any layer is constructed. Shape errors during Forward follow
// the layer framework's panic convention.
//
// # Architecture specs
//
// ParseSpec and LoadSpec decode compact YAML descriptions into builder
// configurations, so architectures can live in config files next to
// deployment settings.
package convnets
