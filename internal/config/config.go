// Package config loads run parameters from a JSON file. Fields are
// pointers so a partial file only overrides what it names; everything
// else keeps the CLI defaults.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// RunConfig mirrors the condense CLI tunables.
type RunConfig struct {
	// Data selection
	Data        *string  `json:"data,omitempty"`
	Samples     *int     `json:"n,omitempty"`
	Noise       *float64 `json:"noise,omitempty"`
	Seed        *int64   `json:"seed,omitempty"`
	InnerRadius *float64 `json:"inner_radius,omitempty"`
	OuterRadius *float64 `json:"outer_radius,omitempty"`

	// Engine params
	Epsilon              *float64 `json:"epsilon,omitempty"`
	Kernel               *string  `json:"kernel,omitempty"`
	Alpha                *float64 `json:"alpha,omitempty"`
	Decay                *float64 `json:"decay,omitempty"`
	MaxIterations        *int     `json:"max_iterations,omitempty"`
	ConvergenceThreshold *float64 `json:"convergence_threshold,omitempty"`

	// Observer params
	Callbacks      []string `json:"callbacks,omitempty"`
	MergeThreshold *float64 `json:"merge_threshold,omitempty"`
	MaxDimension   *int     `json:"max_dimension,omitempty"`
	MaxCardinality *int     `json:"max_cardinality,omitempty"`
	Ripser         *string  `json:"ripser,omitempty"`

	// Output
	Output *string `json:"output,omitempty"`
}

// Load reads and validates a RunConfig from a JSON file. Omitted fields
// stay nil, so partial configs are safe.
func Load(path string) (*RunConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &RunConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks the ranges of whatever values are set.
func (c *RunConfig) Validate() error {
	if c.Epsilon != nil && *c.Epsilon < 0 {
		return fmt.Errorf("epsilon must not be negative, got %v", *c.Epsilon)
	}
	if c.Alpha != nil && (*c.Alpha < 0 || *c.Alpha > 1) {
		return fmt.Errorf("alpha must be between 0 and 1, got %v", *c.Alpha)
	}
	if c.Samples != nil && *c.Samples <= 0 {
		return fmt.Errorf("n must be positive, got %d", *c.Samples)
	}
	if c.MaxIterations != nil && *c.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive, got %d", *c.MaxIterations)
	}
	if c.InnerRadius != nil && c.OuterRadius != nil && *c.InnerRadius >= *c.OuterRadius {
		return fmt.Errorf("inner_radius %v must be smaller than outer_radius %v",
			*c.InnerRadius, *c.OuterRadius)
	}
	return nil
}
