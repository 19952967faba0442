// Copyright 2025 The Pyradox Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package convnets

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrUnknownArchitecture reports an architecture kind without a builder.
var ErrUnknownArchitecture = errors.New("convnets: unknown architecture")

// Spec is a YAML-serializable architecture description. Exactly one of
// the per-architecture sections must be set, matching Architecture.
//
// Example:
//
//	architecture: densenet
//	densenet:
//	  blocks: [6, 12, 24, 16]
//	  growth_rate: 32
//
// or:
//
//	architecture: vgg
//	vgg:
//	  stages:
//	    - {repeats: 2, width: 64}
//	    - {repeats: 2, width: 128}
//	  dense: [4096, 4096]
type Spec struct {
	Architecture string        `yaml:"architecture"`
	DenseNet     *DenseNetSpec `yaml:"densenet,omitempty"`
	VGG          *VGGSpec      `yaml:"vgg,omitempty"`
}

// DenseNetSpec is the YAML form of DenseNetConfig. Omitted fields fall
// back to the defaults.
type DenseNetSpec struct {
	Blocks     []int   `yaml:"blocks"`
	GrowthRate int     `yaml:"growth_rate,omitempty"`
	Reduction  float64 `yaml:"reduction,omitempty"`
	Epsilon    float32 `yaml:"epsilon,omitempty"`
	Activation string  `yaml:"activation,omitempty"`
	UseBias    bool    `yaml:"use_bias,omitempty"`
}

// Config converts the spec to a validated-ready DenseNetConfig,
// applying defaults for omitted fields.
func (s *DenseNetSpec) Config() DenseNetConfig {
	config := DefaultDenseNetConfig(s.Blocks)
	if s.GrowthRate != 0 {
		config.GrowthRate = s.GrowthRate
	}
	if s.Reduction != 0 {
		config.Reduction = s.Reduction
	}
	if s.Epsilon != 0 {
		config.Epsilon = s.Epsilon
	}
	if s.Activation != "" {
		config.Activation = s.Activation
	}
	config.UseBias = s.UseBias
	return config
}

// ConvStageSpec is the YAML form of ConvStage.
type ConvStageSpec struct {
	Repeats int `yaml:"repeats"`
	Width   int `yaml:"width"`
}

// VGGSpec is the YAML form of VGGConfig. Omitted fields fall back to
// the defaults.
type VGGSpec struct {
	Stages          []ConvStageSpec `yaml:"stages"`
	Dense           []int           `yaml:"dense,omitempty"`
	Epsilon         float32         `yaml:"epsilon,omitempty"`
	ConvBatchNorm   bool            `yaml:"conv_batch_norm,omitempty"`
	ConvDropout     float32         `yaml:"conv_dropout,omitempty"`
	ConvActivation  string          `yaml:"conv_activation,omitempty"`
	DenseBatchNorm  bool            `yaml:"dense_batch_norm,omitempty"`
	DenseDropout    float32         `yaml:"dense_dropout,omitempty"`
	DenseActivation string          `yaml:"dense_activation,omitempty"`
}

// Config converts the spec to a validated-ready VGGConfig, applying
// defaults for omitted fields.
func (s *VGGSpec) Config() VGGConfig {
	stages := make([]ConvStage, len(s.Stages))
	for i, stage := range s.Stages {
		stages[i] = ConvStage{Repeats: stage.Repeats, Width: stage.Width}
	}

	config := DefaultVGGConfig(stages, s.Dense)
	if s.Epsilon != 0 {
		config.Epsilon = s.Epsilon
	}
	config.ConvBatchNorm = s.ConvBatchNorm
	config.ConvDropout = s.ConvDropout
	if s.ConvActivation != "" {
		config.ConvActivation = s.ConvActivation
	}
	config.DenseBatchNorm = s.DenseBatchNorm
	config.DenseDropout = s.DenseDropout
	if s.DenseActivation != "" {
		config.DenseActivation = s.DenseActivation
	}
	return config
}

// ParseSpec decodes a YAML architecture description and checks that the
// section matching the declared architecture is present.
func ParseSpec(data []byte) (*Spec, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("convnets: parse spec: %w", err)
	}

	switch spec.Architecture {
	case "densenet":
		if spec.DenseNet == nil {
			return nil, fmt.Errorf("convnets: spec declares densenet but has no densenet section")
		}
	case "vgg":
		if spec.VGG == nil {
			return nil, fmt.Errorf("convnets: spec declares vgg but has no vgg section")
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownArchitecture, spec.Architecture)
	}

	return &spec, nil
}

// LoadSpec reads and decodes a YAML architecture description from a
// file.
func LoadSpec(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("convnets: load spec: %w", err)
	}
	return ParseSpec(data)
}
