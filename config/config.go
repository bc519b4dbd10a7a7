// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package config holds the engine-wide configuration enumerated in the
// external-interfaces contract: the EOS blend factor, the QSS sub-phase
// density scale, the adaptive-activator tolerances, and the default binary
// interaction table. It follows the mdl/* Init/GetPrms contract so the same
// parameter-record plumbing a host uses for reaction and species data can
// configure the engine.
package config

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// DefaultBinaryKij is the default off-diagonal interaction coefficient (§4.2, §9).
const DefaultBinaryKij = 0.1

// Config bundles the configuration enumeration of spec.md §6.
type Config struct {
	// BlendFactor β ∈ [0,1]; weight of the PR departure (0=ideal, 1=full PR)
	BlendFactor float64

	// RelativeQSSDensity scales total density for the QSS sub-phase (default 1e-12)
	RelativeQSSDensity float64

	// RelTol, AbsTol: adaptive-activator error budget
	RelTol float64
	AbsTol float64

	// BinaryKij overrides of the default 0.1 off-diagonal interaction
	// coefficient, keyed by unordered species-name pair.
	BinaryKij map[[2]string]float64

	// SkipUndeclaredThirdBodies: if true, an unknown species referenced by a
	// third-body efficiency map is ignored instead of raising
	// UndeclaredSpecies.
	SkipUndeclaredThirdBodies bool

	// Verbose gates gosl/io diagnostic printing across the engine.
	Verbose bool
}

// Default returns the engine's default configuration.
func Default() *Config {
	return &Config{
		BlendFactor:        0,
		RelativeQSSDensity: 1e-12,
		RelTol:             1e-4,
		AbsTol:             1e-8,
		BinaryKij:          make(map[[2]string]float64),
	}
}

// Init initialises Config from a parameter record, mirroring mdl/*.Model.Init.
func (o *Config) Init(prms fun.Params) (err error) {
	if o.BinaryKij == nil {
		o.BinaryKij = make(map[[2]string]float64)
	}
	o.RelativeQSSDensity = 1e-12
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "beta", "blendfactor":
			if p.V < 0 || p.V > 1 {
				return chk.Err("config: beta must be in [0,1]; got %g", p.V)
			}
			o.BlendFactor = p.V
		case "relativeqssdensity":
			o.RelativeQSSDensity = p.V
		case "reltol":
			o.RelTol = p.V
		case "abstol":
			o.AbsTol = p.V
		case "skipundeclaredthirdbodies":
			o.SkipUndeclaredThirdBodies = p.V > 0
		case "verbose":
			o.Verbose = p.V > 0
		default:
			return chk.Err("config: parameter named %q is incorrect", p.N)
		}
	}
	return
}

// GetPrms gets (an example of) parameters, mirroring mdl/*.Model.GetPrms.
func (o Config) GetPrms(example bool) fun.Params {
	if example {
		return fun.Params{
			&fun.P{N: "beta", V: 0},
			&fun.P{N: "relativeqssdensity", V: 1e-12},
			&fun.P{N: "reltol", V: 1e-4},
			&fun.P{N: "abstol", V: 1e-8},
		}
	}
	return fun.Params{
		&fun.P{N: "beta", V: o.BlendFactor},
		&fun.P{N: "relativeqssdensity", V: o.RelativeQSSDensity},
		&fun.P{N: "reltol", V: o.RelTol},
		&fun.P{N: "abstol", V: o.AbsTol},
	}
}

// Kij returns the binary interaction coefficient for species pair (a, b).
// Returns 0 when a==b, the override when present, and DefaultBinaryKij
// otherwise (spec.md §4.2, §9).
func (o Config) Kij(a, b string) float64 {
	if a == b {
		return 0
	}
	key := [2]string{a, b}
	if a > b {
		key = [2]string{b, a}
	}
	if v, ok := o.BinaryKij[key]; ok {
		return v
	}
	return DefaultBinaryKij
}

// SetKij installs an override for species pair (a, b).
func (o *Config) SetKij(a, b string, v float64) {
	if o.BinaryKij == nil {
		o.BinaryKij = make(map[[2]string]float64)
	}
	key := [2]string{a, b}
	if a > b {
		key = [2]string{b, a}
	}
	o.BinaryKij[key] = v
}
