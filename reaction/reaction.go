// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package reaction defines the tagged reaction record shared by the rate,
// stoichiometry, third-body and kinetics packages. The host populates these
// in memory; no parser lives in this module (XML/phase parsing is an
// external collaborator, per spec.md §1). Arrhenius/Troe/SRI additionally
// carry a fun.Params Init/GetPrms pair, mirroring the mdl/*.Model contract,
// for hosts that configure rate expressions the same way they configure
// everything else in this engine.
package reaction

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// Kind is the closed set of reaction tags, per spec.md §3.
type Kind int

const (
	Elementary Kind = iota
	ThreeBody
	Falloff
	ChemicallyActivated
	PLOG
	Chebyshev
)

func (k Kind) String() string {
	switch k {
	case Elementary:
		return "Elementary"
	case ThreeBody:
		return "ThreeBody"
	case Falloff:
		return "Falloff"
	case ChemicallyActivated:
		return "ChemicallyActivated"
	case PLOG:
		return "PLOG"
	case Chebyshev:
		return "Chebyshev"
	}
	return "Unknown"
}

// Arrhenius is a single-rate-expression parameter set: k = A·T^n·exp(-Ea/RT).
type Arrhenius struct {
	A  float64 // pre-exponential factor
	N  float64 // temperature exponent
	Ea float64 // activation energy [J/kmol]
}

// ArrheniusFromParams builds an Arrhenius rate from a parameter record
// ("A", "n", "Ea"), mirroring mdl/*.Model.Init.
func ArrheniusFromParams(prms fun.Params) (Arrhenius, error) {
	var a Arrhenius
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "a":
			a.A = p.V
		case "n":
			a.N = p.V
		case "ea":
			a.Ea = p.V
		default:
			return a, chk.Err("reaction: Arrhenius parameter named %q is incorrect", p.N)
		}
	}
	return a, nil
}

// GetPrms returns a as a parameter record, mirroring mdl/*.Model.GetPrms.
func (a Arrhenius) GetPrms() fun.Params {
	return fun.Params{
		&fun.P{N: "A", V: a.A},
		&fun.P{N: "n", V: a.N},
		&fun.P{N: "Ea", V: a.Ea},
	}
}

// PlogEntry is one (P, Arrhenius) bracketing node of a PLOG reaction.
type PlogEntry struct {
	P float64 // pressure [Pa]
	Arrhenius
}

// Troe holds the Troe falloff-blending parameters.
type Troe struct {
	A, T3, T1, T2 float64 // T2/T*** optional: HasT2 false => 2-parameter reduction unused, T2 ignored
	HasT2         bool
}

// TroeFromParams builds a Troe record from a parameter record ("a", "t3",
// "t1", and optionally "t2" — its presence sets HasT2), mirroring
// mdl/*.Model.Init.
func TroeFromParams(prms fun.Params) (Troe, error) {
	var t Troe
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "a":
			t.A = p.V
		case "t3":
			t.T3 = p.V
		case "t1":
			t.T1 = p.V
		case "t2":
			t.T2 = p.V
			t.HasT2 = true
		default:
			return t, chk.Err("reaction: Troe parameter named %q is incorrect", p.N)
		}
	}
	return t, nil
}

// GetPrms returns t as a parameter record, mirroring mdl/*.Model.GetPrms.
func (t Troe) GetPrms() fun.Params {
	prms := fun.Params{
		&fun.P{N: "a", V: t.A},
		&fun.P{N: "t3", V: t.T3},
		&fun.P{N: "t1", V: t.T1},
	}
	if t.HasT2 {
		prms = append(prms, &fun.P{N: "t2", V: t.T2})
	}
	return prms
}

// SRI holds the SRI falloff-blending parameters.
type SRI struct {
	A, B, C, D, E float64
	HasDE         bool // when false, D=1, E=0 (3-parameter SRI)
}

// SRIFromParams builds an SRI record from a parameter record ("a", "b",
// "c", and optionally "d"/"e" — both must be given together and set HasDE),
// mirroring mdl/*.Model.Init.
func SRIFromParams(prms fun.Params) (SRI, error) {
	var s SRI
	var haveD, haveE bool
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "a":
			s.A = p.V
		case "b":
			s.B = p.V
		case "c":
			s.C = p.V
		case "d":
			s.D = p.V
			haveD = true
		case "e":
			s.E = p.V
			haveE = true
		default:
			return s, chk.Err("reaction: SRI parameter named %q is incorrect", p.N)
		}
	}
	if haveD != haveE {
		return s, chk.Err("reaction: SRI parameters d and e must be given together")
	}
	s.HasDE = haveD
	return s, nil
}

// GetPrms returns s as a parameter record, mirroring mdl/*.Model.GetPrms.
func (s SRI) GetPrms() fun.Params {
	prms := fun.Params{
		&fun.P{N: "a", V: s.A},
		&fun.P{N: "b", V: s.B},
		&fun.P{N: "c", V: s.C},
	}
	if s.HasDE {
		prms = append(prms, &fun.P{N: "d", V: s.D}, &fun.P{N: "e", V: s.E})
	}
	return prms
}

// FalloffKind selects which blending function a Falloff/ChemicallyActivated
// reaction uses.
type FalloffKind int

const (
	Lindemann FalloffKind = iota
	TroeBlend
	SRIBlend
)

// Stoich is one side's reactant or product multiset: species index to
// stoichiometric coefficient.
type Stoich map[int]float64

// ThirdBodyEff is a third-body efficiency map (species index -> efficiency)
// plus the default efficiency applied to species not present in the map.
type ThirdBodyEff struct {
	Eff     map[int]float64
	Default float64
}

// Reaction is the tagged-union reaction record, per spec.md §3. Exactly one
// of the kind-specific fields is meaningful, selected by Kind.
type Reaction struct {
	Kind       Kind
	Reversible bool

	Reactants Stoich
	Products  Stoich // reversible-product or irreversible-product per Reversible

	// Elementary / ThreeBody
	Rate Arrhenius

	// ThreeBody / Falloff / ChemicallyActivated
	ThirdBody ThirdBodyEff

	// Falloff / ChemicallyActivated
	LowRate, HighRate Arrhenius
	FalloffKind       FalloffKind
	Troe              Troe
	SRI               SRI

	// PLOG
	PlogTable []PlogEntry

	// Chebyshev
	ChebCoeffs [][]float64 // [nT][nP]
	ChebTmin, ChebTmax float64
	ChebPmin, ChebPmax float64
}

// DeltaN returns Δn = Σν_product − Σν_reactant for this reaction (spec.md §3).
func (r *Reaction) DeltaN() float64 {
	var n float64
	for _, v := range r.Products {
		n += v
	}
	for _, v := range r.Reactants {
		n -= v
	}
	return n
}
