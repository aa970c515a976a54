// Package config loads optional tuning for the proximity scorer and the
// focus slicer from an HCL file. Every attribute is optional; absent values
// keep the package defaults.
package config

import (
	"fmt"

	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/focus"
	"github.com/dsmithnh3/grokicad-sub002/pkg/kicad/proximity"
)

// Config is the root of a grokicad configuration file, e.g.:
//
//	proximity {
//	  base_radius             = 25.0
//	  decoupling_radius_scale = 1.5
//	  weights = {
//	    "capacitor/ic" = 2.5
//	  }
//	}
//
//	focus {
//	  max_connected = 30
//	  min_score     = 0.1
//	}
type Config struct {
	Proximity *ProximityBlock `hcl:"proximity,block"`
	Focus     *FocusBlock     `hcl:"focus,block"`
}

// ProximityBlock tunes the proximity scorer.
type ProximityBlock struct {
	BaseRadius            *float64           `hcl:"base_radius,optional"`
	DecouplingRadiusScale *float64           `hcl:"decoupling_radius_scale,optional"`
	DecouplingBoost       *float64           `hcl:"decoupling_boost,optional"`
	Weights               map[string]float64 `hcl:"weights,optional"`
}

// FocusBlock tunes the context slicer.
type FocusBlock struct {
	MaxConnected *int     `hcl:"max_connected,optional"`
	MaxNearby    *int     `hcl:"max_nearby,optional"`
	MinScore     *float64 `hcl:"min_score,optional"`
}

// Load parses a configuration file. The file name must carry a .hcl or
// .json extension, per HCL convention.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("loading config %q: %w", path, err)
	}
	return &cfg, nil
}

// ProximityConfig materializes a scorer configuration: defaults overlaid
// with whatever the file sets.
func (c *Config) ProximityConfig() *proximity.Config {
	cfg := proximity.DefaultConfig()
	if c == nil || c.Proximity == nil {
		return cfg
	}
	p := c.Proximity
	if p.BaseRadius != nil {
		cfg.BaseRadius = *p.BaseRadius
	}
	if p.DecouplingRadiusScale != nil {
		cfg.DecouplingRadiusScale = *p.DecouplingRadiusScale
	}
	if p.DecouplingBoost != nil {
		cfg.DecouplingBoost = *p.DecouplingBoost
	}
	for key, w := range p.Weights {
		cfg.Weights[key] = w
	}
	return cfg
}

// FocusOptions materializes slicer options the same way.
func (c *Config) FocusOptions() *focus.Options {
	opts := focus.DefaultOptions()
	if c == nil || c.Focus == nil {
		return opts
	}
	f := c.Focus
	if f.MaxConnected != nil {
		opts.MaxConnected = *f.MaxConnected
	}
	if f.MaxNearby != nil {
		opts.MaxNearby = *f.MaxNearby
	}
	if f.MinScore != nil {
		opts.MinScore = *f.MinScore
	}
	return opts
}
