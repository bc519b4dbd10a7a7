// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package stoich implements the sparse stoichiometry manager (C6): the
// reactant / reversible-product / irreversible-product slices, the
// concentration-product contraction onto a rate vector, and the signed
// Δ-property contraction Δf = Σ ν·f (the kinetics engine applies it to the
// species Gibbs energies; Δn comes from reaction.Reaction.DeltaN).
//
// Per spec.md §9, two physical layouts back the two access patterns: a
// compressed-sparse-column-by-reaction layout for the concentration-product
// multiply (iterate a reaction's few reactants/products), and a
// compressed-sparse-row-by-species layout for the signed Δ-property
// contraction (iterate a species' few reactions and scatter into the
// reaction-indexed result).
package stoich

import "math"

// entry is one (species, coefficient) pair.
type entry struct {
	idx   int
	coeff float64
}

// ConcMatrix is a CSC-by-reaction sparse matrix used to multiply a rate
// vector by the concentration-product Π c_i^ν_ij for each reaction j.
type ConcMatrix struct {
	cols [][]entry // cols[j] = list of (species, coeff) for reaction j
}

// NewConcMatrix returns an empty matrix sized for nr reactions.
func NewConcMatrix(nr int) *ConcMatrix {
	return &ConcMatrix{cols: make([][]entry, nr)}
}

// AddEntry records that reaction j has species i at stoichiometric
// coefficient coeff. Call Grow first if j is a new column beyond the
// initial size (reaction-set growth via addReaction).
func (m *ConcMatrix) AddEntry(species, rxn int, coeff float64) {
	m.cols[rxn] = append(m.cols[rxn], entry{idx: species, coeff: coeff})
}

// Grow appends n empty columns (used when addReaction extends the engine).
func (m *ConcMatrix) Grow(n int) {
	m.cols = append(m.cols, make([][]entry, n)...)
}

// Replace clears the column for reaction rxn; new entries are added with
// AddEntry or SetColumn.
func (m *ConcMatrix) Replace(rxn int) { m.cols[rxn] = nil }

// N returns the number of reaction columns.
func (m *ConcMatrix) N() int { return len(m.cols) }

// Multiply does rate[j] *= Π_i conc[i]^coeff for every column j, in place.
func (m *ConcMatrix) Multiply(conc []float64, rate []float64) {
	for j, col := range m.cols {
		if len(col) == 0 {
			continue
		}
		prod := 1.0
		for _, e := range col {
			if e.coeff == 1 {
				prod *= conc[e.idx]
			} else if e.coeff == 2 {
				prod *= conc[e.idx] * conc[e.idx]
			} else {
				prod *= math.Pow(conc[e.idx], e.coeff)
			}
		}
		rate[j] *= prod
	}
}

// Gather returns reaction rxn's (species, coeff) list as a defensive copy.
func (m *ConcMatrix) Gather(rxn int) []entry {
	src := m.cols[rxn]
	out := make([]entry, len(src))
	copy(out, src)
	return out
}

// SetColumn installs a full (species, coeff) column for reaction j,
// replacing whatever was there (used by kinetics.Engine.ModifyReaction).
func (m *ConcMatrix) SetColumn(rxn int, species []int, coeffs []float64) {
	col := make([]entry, len(species))
	for i := range species {
		col[i] = entry{idx: species[i], coeff: coeffs[i]}
	}
	m.cols[rxn] = col
}

// DeltaMatrix is a CSR-by-species signed stoichiometry matrix used for
// Δf[j] = Σ_i ν_ij·f_i contractions (Δg⁰, Δh, Δs, Δn).
type DeltaMatrix struct {
	rows [][]entry // rows[i] = list of (reaction, signed coeff) touching species i
	nr   int
}

// NewDeltaMatrix returns an empty matrix sized for ns species, nr reactions.
func NewDeltaMatrix(ns, nr int) *DeltaMatrix {
	return &DeltaMatrix{rows: make([][]entry, ns), nr: nr}
}

// AddEntry records that species i participates in reaction j with signed
// coefficient coeff (positive for products, negative for reactants).
func (m *DeltaMatrix) AddEntry(species, rxn int, coeff float64) {
	m.rows[species] = append(m.rows[species], entry{idx: rxn, coeff: coeff})
}

// GrowReactions extends the reaction-index range by n (addReaction path).
func (m *DeltaMatrix) GrowReactions(n int) { m.nr += n }

// NR returns the number of reaction columns.
func (m *DeltaMatrix) NR() int { return m.nr }

// ClearRxn removes reaction rxn's entries from every species row
// (modifyReaction rebuild path writes fresh entries afterward).
func (m *DeltaMatrix) ClearRxn(rxn int) {
	for i, row := range m.rows {
		filtered := row[:0]
		for _, e := range row {
			if e.idx != rxn {
				filtered = append(filtered, e)
			}
		}
		m.rows[i] = filtered
	}
}

// Delta computes Δf[j] = Σ_i ν_ij·f_i for every reaction this matrix knows
// about, writing into out (length NR(), zeroed by the caller beforehand if
// accumulation across multiple matrices is desired).
func (m *DeltaMatrix) Delta(f []float64, out []float64) {
	for i, row := range m.rows {
		if len(row) == 0 {
			continue
		}
		fi := f[i]
		for _, e := range row {
			out[e.idx] += e.coeff * fi
		}
	}
}

// Rows exposes the species-major row list (the matrix's own storage, not a
// copy).
func (m *DeltaMatrix) Rows() [][]entry { return m.rows }

// Entry is the exported (index, signed coefficient) pair used by consumers
// outside this package (the adaptive activator, C9).
type Entry struct {
	Idx   int
	Coeff float64
}

// Columns returns a column-major (by reaction) view of this matrix, built by
// transposing the species-major rows. The adaptive activator (C9) needs, for
// each reaction, the list of species it touches with signed coefficients —
// the opposite access pattern from the Δ-property contraction this matrix is
// otherwise built for.
func (m *DeltaMatrix) Columns() [][]Entry {
	cols := make([][]Entry, m.nr)
	for i, row := range m.rows {
		for _, e := range row {
			cols[e.idx] = append(cols[e.idx], Entry{Idx: i, Coeff: e.coeff})
		}
	}
	return cols
}
