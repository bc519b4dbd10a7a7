// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package activator implements the adaptive reaction activator (C9): given
// the current state's net rate-of-progress and energy budget, it greedily
// picks which reactions can be dropped without exceeding a temperature/
// species-fraction error tolerance, producing the mask the reaction-set
// editor (C8) then applies.
package activator

import (
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/gochem/stoich"
)

// Mgr holds the working arrays for repeated Mask calls, resized lazily the
// way the engine this was distilled from keeps its species/reaction-sized
// scratch vectors alive across calls instead of reallocating every step.
type Mgr struct {
	relTol, absTol float64

	// Verbose gates a diagnostic line per deactivated reaction.
	Verbose bool

	nSpecs, nRxns int
	uScaled       []float64
	yScaled       []float64
	dYError       []float64
}

// New returns an activator using relTol/absTol for both the temperature and
// species-fraction error budgets.
func New(relTol, absTol float64) *Mgr {
	return &Mgr{relTol: relTol, absTol: absTol}
}

func (m *Mgr) resize(nSpecs, nRxns int) {
	if nSpecs == m.nSpecs && nRxns == m.nRxns {
		return
	}
	m.nSpecs, m.nRxns = nSpecs, nRxns
	m.uScaled = make([]float64, nSpecs)
	m.yScaled = make([]float64, nSpecs)
	m.dYError = make([]float64, nSpecs)
}

// Mask computes the activation mask (true = keep active) for the reaction
// set described by cols, the signed stoichiometry matrix in column-major
// (by-reaction) form — e.g. kinetics.Engine.SignedStoichColumns — given the
// current state (T, rho, cv, Y), net rate-of-progress netROP, partial molar
// internal energies u and molecular weights W (all species-indexed in the
// same order as cols' row indices), per spec.md §4.9.
//
// Reactions are scanned in index order and deactivated greedily: a reaction
// is dropped only if doing so keeps both the accumulated temperature error
// and every accumulated species error within ±1, matching the original's
// single forward pass (not a globally optimal selection).
func (m *Mgr) Mask(cols [][]stoich.Entry, netROP, Y, u, W []float64, T, rho, cv float64) []bool {
	nSpecs := len(Y)
	nRxns := len(cols)
	m.resize(nSpecs, nRxns)

	tDenom := rho * cv * (m.relTol*T + m.absTol)
	for i := range m.uScaled {
		m.uScaled[i] = -u[i] / tDenom
	}
	for i := range m.yScaled {
		m.yScaled[i] = W[i] / (rho * (m.relTol*Y[i] + m.absTol))
	}

	dTVec := make([]float64, nRxns)
	dYCol := make([][]stoich.Entry, nRxns)
	for j, col := range cols {
		q := netROP[j]
		var t float64
		yc := make([]stoich.Entry, 0, len(col))
		for _, e := range col {
			t += e.Coeff * m.uScaled[e.Idx]
			yc = append(yc, stoich.Entry{Idx: e.Idx, Coeff: m.yScaled[e.Idx] * e.Coeff * q})
		}
		dTVec[j] = q * t
		dYCol[j] = yc
	}

	active := make([]bool, nRxns)
	for i := range active {
		active[i] = true
	}
	for i := range m.dYError {
		m.dYError[i] = 0
	}
	dTError := 0.0

	for j := 0; j < nRxns; j++ {
		if abs(dTError+dTVec[j]) > 1 {
			continue
		}
		deactivate := true
		for _, e := range dYCol[j] {
			if abs(m.dYError[e.Idx]+e.Coeff) > 1 {
				deactivate = false
				break
			}
		}
		if deactivate {
			active[j] = false
			dTError += dTVec[j]
			for _, e := range dYCol[j] {
				m.dYError[e.Idx] += e.Coeff
			}
			if m.Verbose {
				io.Pf("activator: deactivated reaction %d (accumulated ΔT budget=%.3g)\n", j, dTError)
			}
		}
	}
	return active
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
