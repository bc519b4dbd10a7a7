// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package species implements the NASA-7 polynomial evaluators (C1): given a
// temperature T, it produces h⁰/RT, s⁰/R, cp⁰/R and the derived g⁰/RT for
// every species in a phase. This is the lowest leaf of the engine, the
// analogue of mconduct/mreten's per-species constitutive data in gofem.
package species

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"

	"github.com/cpmech/gochem/internal/xerr"
)

// RefPressure is the standard-state reference pressure p0 [Pa] the NASA-7
// polynomials are defined against (Cantera/Chemkin convention, 1 atm).
const RefPressure = 101325.0

// NASA7 holds one NASA-7 polynomial piece (either the low- or high-T range).
//
//	cp⁰/R = a1 + a2·T + a3·T² + a4·T³ + a5·T⁴
//	h⁰/RT = a1 + a2·T/2 + a3·T²/3 + a4·T³/4 + a5·T⁴/5 + a6/T
//	s⁰/R  = a1·ln(T) + a2·T + a3·T²/2 + a4·T³/3 + a5·T⁴/4 + a7
type NASA7 struct {
	A [7]float64
}

// Cp returns cp⁰/R at T using this polynomial piece.
func (p NASA7) Cp(T float64) float64 {
	a := p.A
	return a[0] + T*(a[1]+T*(a[2]+T*(a[3]+T*a[4])))
}

// H returns h⁰/RT at T using this polynomial piece.
func (p NASA7) H(T float64) float64 {
	a := p.A
	return a[0] + T*(a[1]/2+T*(a[2]/3+T*(a[3]/4+T*a[4]/5))) + a[5]/T
}

// S returns s⁰/R at T using this polynomial piece.
func (p NASA7) S(T float64) float64 {
	a := p.A
	return a[0]*math.Log(T) + T*(a[1]+T*(a[2]/2+T*(a[3]/3+T*a[4]/4))) + a[6]
}

// Poly bundles the low/high NASA-7 pieces and their shared break temperature.
type Poly struct {
	Low, High NASA7
	Tmid      float64
}

// pick selects the applicable piece for T.
func (p Poly) pick(T float64) NASA7 {
	if T < p.Tmid {
		return p.Low
	}
	return p.High
}

// Species is one phase constituent: name, molecular weight, and its NASA-7
// thermodynamic polynomial.
type Species struct {
	Name string
	W    float64 // molecular weight [kg/kmol]
	Poly Poly
}

// FromParams builds a Species from a parameter record: "w" (molecular
// weight [kg/kmol]), "tmid" (the NASA-7 break temperature), and the
// low/high polynomial coefficients named "lowa1".."lowa7" and
// "higha1".."higha7", mirroring the mdl/*.Model.Init contract used for
// every other configuration surface in this engine.
func FromParams(name string, prms fun.Params) (Species, error) {
	sp := Species{Name: name}
	for _, p := range prms {
		n := strings.ToLower(p.N)
		switch {
		case n == "w":
			sp.W = p.V
		case n == "tmid":
			sp.Poly.Tmid = p.V
		case strings.HasPrefix(n, "lowa"):
			i, err := strconv.Atoi(n[4:])
			if err != nil || i < 1 || i > 7 {
				return sp, chk.Err("species: parameter named %q is incorrect", p.N)
			}
			sp.Poly.Low.A[i-1] = p.V
		case strings.HasPrefix(n, "higha"):
			i, err := strconv.Atoi(n[5:])
			if err != nil || i < 1 || i > 7 {
				return sp, chk.Err("species: parameter named %q is incorrect", p.N)
			}
			sp.Poly.High.A[i-1] = p.V
		default:
			return sp, chk.Err("species: parameter named %q is incorrect", p.N)
		}
	}
	return sp, nil
}

// GetPrms returns sp's coefficients as a parameter record, mirroring
// mdl/*.Model.GetPrms.
func (sp Species) GetPrms() fun.Params {
	prms := fun.Params{
		&fun.P{N: "w", V: sp.W},
		&fun.P{N: "tmid", V: sp.Poly.Tmid},
	}
	for i, a := range sp.Poly.Low.A {
		prms = append(prms, &fun.P{N: fmt.Sprintf("lowa%d", i+1), V: a})
	}
	for i, a := range sp.Poly.High.A {
		prms = append(prms, &fun.P{N: fmt.Sprintf("higha%d", i+1), V: a})
	}
	return prms
}

// Props bundles the four per-species dimensionless standard-state properties
// at a given T: h⁰/RT, s⁰/R, cp⁰/R, and the derived g⁰/RT = h⁰/RT − s⁰/R.
type Props struct {
	H, S, Cp, G float64
}

// Table holds an ordered, named list of species and caches their Props at
// the last-evaluated T (C1 cache, keyed by exact T equality per spec.md §4.1).
type Table struct {
	list     []Species
	index    map[string]int
	cachedT  float64
	cachedOK bool
	cache    []Props
}

// NewTable builds a species table from an ordered list. Order defines the
// species index used throughout the engine (row index into stoichiometry,
// etc).
func NewTable(list []Species) *Table {
	t := &Table{list: list, index: make(map[string]int, len(list))}
	for i, s := range list {
		t.index[s.Name] = i
	}
	t.cache = make([]Props, len(list))
	t.cachedT = math.NaN()
	return t
}

// Len returns the number of species.
func (t *Table) Len() int { return len(t.list) }

// Name returns the species name at index i.
func (t *Table) Name(i int) string { return t.list[i].Name }

// Index returns the species index for name, or (-1, false) if absent.
func (t *Table) Index(name string) (int, bool) {
	i, ok := t.index[name]
	if !ok {
		return -1, false
	}
	return i, true
}

// MolecularWeights returns the W vector (one entry per species), in index order.
func (t *Table) MolecularWeights() []float64 {
	w := make([]float64, len(t.list))
	for i, s := range t.list {
		w[i] = s.W
	}
	return w
}

// At returns the standard-state Props for every species at T, using the
// cache when T matches the last call exactly.
func (t *Table) At(T float64) ([]Props, error) {
	if T <= 0 {
		return nil, xerr.New(xerr.NonFinite, "species: T must be positive; got %g", T)
	}
	if t.cachedOK && t.cachedT == T {
		return t.cache, nil
	}
	for i, s := range t.list {
		piece := s.Poly.pick(T)
		h := piece.H(T)
		sEnt := piece.S(T)
		t.cache[i] = Props{H: h, S: sEnt, Cp: piece.Cp(T), G: h - sEnt}
	}
	t.cachedT = T
	t.cachedOK = true
	return t.cache, nil
}

// Invalidate clears the T cache; used when a species record is replaced.
func (t *Table) Invalidate() { t.cachedOK = false }
