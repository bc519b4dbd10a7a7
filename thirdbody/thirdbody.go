// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package thirdbody implements the third-body concentration manager (C5):
// for each 3-body or falloff reaction, a sparse (species index, efficiency)
// override list plus a default efficiency produce the enhanced "[M]" term
// as a weighted sum over actual concentrations.
package thirdbody

import "github.com/cpmech/gochem/reaction"

// entry is one reaction's sparse efficiency override list.
type entry struct {
	globalIdx int
	species   []int
	eff       []float64
	def       float64
}

// Manager holds the third-body data for a set of reactions (either the
// 3-body set or the falloff set, each gets its own Manager instance).
type Manager struct {
	entries []entry
}

// NewManager returns an empty manager.
func NewManager() *Manager { return &Manager{} }

// Install appends a reaction's efficiency map (species index -> efficiency)
// and its default efficiency for species absent from the map.
func (m *Manager) Install(globalIdx int, eff reaction.ThirdBodyEff) {
	e := entry{globalIdx: globalIdx, def: eff.Default}
	for k, v := range eff.Eff {
		e.species = append(e.species, k)
		e.eff = append(e.eff, v)
	}
	m.entries = append(m.entries, e)
}

// Replace overwrites the local-index entry (modifyReaction path).
func (m *Manager) Replace(localIdx int, eff reaction.ThirdBodyEff) {
	e := entry{globalIdx: m.entries[localIdx].globalIdx, def: eff.Default}
	for k, v := range eff.Eff {
		e.species = append(e.species, k)
		e.eff = append(e.eff, v)
	}
	m.entries[localIdx] = e
}

// N returns the number of installed reactions.
func (m *Manager) N() int { return len(m.entries) }

// WorkSize returns the length of the per-reaction concentration-boost buffer.
func (m *Manager) WorkSize() int { return len(m.entries) }

// Update computes the enhanced [M] for every installed reaction into values
// (length WorkSize()), given the full species concentration vector conc and
// the total molar concentration ctot (used as the default-efficiency base).
func (m *Manager) Update(conc []float64, ctot float64, values []float64) {
	for i, e := range m.entries {
		boost := e.def * ctot
		for j, sp := range e.species {
			boost += (e.eff[j] - e.def) * conc[sp]
		}
		values[i] = boost
	}
}

// Multiply applies values[i] multiplicatively onto rate[globalIdx(i)] for
// every installed entry (spec.md §4.5's "multiplicative apply onto a rate
// vector").
func (m *Manager) Multiply(rate []float64, values []float64) {
	for i, e := range m.entries {
		rate[e.globalIdx] *= values[i]
	}
}
