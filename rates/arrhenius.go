// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rates implements the rate-expression library (C4): elementary
// Arrhenius, PLOG, Chebyshev, and the falloff blending functions
// (Lindemann/Troe/SRI) used by falloff and chemically-activated reactions.
// Each kind keeps its own parallel, densely-indexed array and fills a
// caller-provided rate vector in one pass, avoiding virtual dispatch in the
// hot per-reaction loop (spec.md §9 "Heterogeneous reaction tags").
package rates

import (
	"math"

	"github.com/cpmech/gochem/reaction"
)

// R is the universal gas constant [J/(kmol·K)], matching critprop.R.
const R = 8314.462618

// ArrheniusList evaluates k = A·T^n·exp(-Ea/RT) for a dense list of
// reactions, each installed at a global reaction index via Install;
// Replace addresses an entry by its install position (local index).
type ArrheniusList struct {
	globalIdx []int
	params    []reaction.Arrhenius
}

// NewArrheniusList returns an empty list.
func NewArrheniusList() *ArrheniusList { return &ArrheniusList{} }

// Install appends a new Arrhenius entry for reaction index gidx.
func (l *ArrheniusList) Install(gidx int, p reaction.Arrhenius) {
	l.globalIdx = append(l.globalIdx, gidx)
	l.params = append(l.params, p)
}

// Replace overwrites the local-index entry's parameters (modifyReaction path).
func (l *ArrheniusList) Replace(localIdx int, p reaction.Arrhenius) {
	l.params[localIdx] = p
}

// N returns the number of installed reactions.
func (l *ArrheniusList) N() int { return len(l.params) }

// GlobalIndex returns the global reaction index of local entry i.
func (l *ArrheniusList) GlobalIndex(i int) int { return l.globalIdx[i] }

// Update evaluates k for every installed entry and scatters the result into
// out at the entry's global reaction index (out must be sized Nr).
func (l *ArrheniusList) Update(T, lnT float64, out []float64) {
	for i, p := range l.params {
		out[l.globalIdx[i]] = evalArrhenius(p, T, lnT)
	}
}

// UpdateDense evaluates k for every installed entry into a dense local
// vector (out sized N()), used by the falloff low/high rate lists where
// global scattering happens later via the falloff index map.
func (l *ArrheniusList) UpdateDense(T, lnT float64, out []float64) {
	for i, p := range l.params {
		out[i] = evalArrhenius(p, T, lnT)
	}
}

func evalArrhenius(p reaction.Arrhenius, T, lnT float64) float64 {
	return p.A * math.Exp(p.N*lnT-p.Ea/(R*T))
}

// EvalArrhenius returns k = A·T^n·exp(-Ea/RT) for a single parameter set,
// exported for diagnostics/plotting callers that want one-off rate curves
// without building a list.
func EvalArrhenius(p reaction.Arrhenius, T float64) float64 {
	return evalArrhenius(p, T, math.Log(T))
}
