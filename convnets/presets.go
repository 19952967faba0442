// Copyright 2025 The Pyradox Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package convnets

import (
	"fmt"
	"sort"

	"github.com/yonderakyol/pyradox/tensor"
)

// Presets are plain data: a preset is a named stage specification
// forwarded to the generic builder with the default configuration.
// There is no preset-specific behavior anywhere else.

// densenetPresets maps canonical names to per-stage block counts.
var densenetPresets = map[string][]int{
	"DenseNet-121": {6, 12, 24, 16},
	"DenseNet-169": {6, 12, 32, 32},
	"DenseNet-201": {6, 12, 48, 32},
}

// vggPreset pairs per-stage repeat counts with the shared stage widths.
type vggPreset struct {
	repeats []int
	widths  []int
	dense   []int
}

var vggPresets = map[string]vggPreset{
	"VGG16": {
		repeats: []int{2, 2, 3, 3, 3},
		widths:  []int{64, 128, 256, 512, 512},
		dense:   []int{4096, 4096},
	},
	"VGG19": {
		repeats: []int{2, 2, 4, 4, 4},
		widths:  []int{64, 128, 256, 512, 512},
		dense:   []int{4096, 4096},
	},
}

// DenseNetPresetBlocks returns the block counts for a named DenseNet
// preset.
func DenseNetPresetBlocks(name string) ([]int, error) {
	blocks, ok := densenetPresets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	out := make([]int, len(blocks))
	copy(out, blocks)
	return out, nil
}

// VGGPresetConfig returns the default configuration for a named VGG
// preset. With useDense false the dense phase (and flatten) is omitted.
func VGGPresetConfig(name string, useDense bool) (VGGConfig, error) {
	preset, ok := vggPresets[name]
	if !ok {
		return VGGConfig{}, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}

	stages := make([]ConvStage, len(preset.repeats))
	for i, repeats := range preset.repeats {
		stages[i] = ConvStage{Repeats: repeats, Width: preset.widths[i]}
	}

	var dense []int
	if useDense {
		dense = make([]int, len(preset.dense))
		copy(dense, preset.dense)
	}
	return DefaultVGGConfig(stages, dense), nil
}

// PresetNames returns all registered preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(densenetPresets)+len(vggPresets))
	for name := range densenetPresets {
		names = append(names, name)
	}
	for name := range vggPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewDenseNetFromPreset builds a named DenseNet preset with the default
// configuration.
func NewDenseNetFromPreset[B tensor.Backend](name string, inChannels int, backend B) (*GeneralizedDenseNet[B], error) {
	blocks, err := DenseNetPresetBlocks(name)
	if err != nil {
		return nil, err
	}
	return NewGeneralizedDenseNet(DefaultDenseNetConfig(blocks), inChannels, backend)
}

// NewVGGFromPreset builds a named VGG preset with the default
// configuration for [inChannels, inputH, inputW] inputs.
func NewVGGFromPreset[B tensor.Backend](name string, inChannels, inputH, inputW int, useDense bool, backend B) (*GeneralizedVGG[B], error) {
	config, err := VGGPresetConfig(name, useDense)
	if err != nil {
		return nil, err
	}
	return NewGeneralizedVGG(config, inChannels, inputH, inputW, backend)
}

// NewDenseNet121 builds the DenseNet-121 preset.
func NewDenseNet121[B tensor.Backend](inChannels int, backend B) (*GeneralizedDenseNet[B], error) {
	return NewDenseNetFromPreset("DenseNet-121", inChannels, backend)
}

// NewDenseNet169 builds the DenseNet-169 preset.
func NewDenseNet169[B tensor.Backend](inChannels int, backend B) (*GeneralizedDenseNet[B], error) {
	return NewDenseNetFromPreset("DenseNet-169", inChannels, backend)
}

// NewDenseNet201 builds the DenseNet-201 preset.
func NewDenseNet201[B tensor.Backend](inChannels int, backend B) (*GeneralizedDenseNet[B], error) {
	return NewDenseNetFromPreset("DenseNet-201", inChannels, backend)
}

// NewVGG16 builds the VGG16 preset.
func NewVGG16[B tensor.Backend](inChannels, inputH, inputW int, useDense bool, backend B) (*GeneralizedVGG[B], error) {
	return NewVGGFromPreset("VGG16", inChannels, inputH, inputW, useDense, backend)
}

// NewVGG19 builds the VGG19 preset.
func NewVGG19[B tensor.Backend](inChannels, inputH, inputW int, useDense bool, backend B) (*GeneralizedVGG[B], error) {
	return NewVGGFromPreset("VGG19", inChannels, inputH, inputW, useDense, backend)
}
