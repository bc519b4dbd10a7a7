// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rates

import "math"

// chebyshevTable is one reaction's bivariate Chebyshev expansion, per
// reaction.Reaction.ChebCoeffs / bounds.
type chebyshevTable struct {
	coeffs             [][]float64 // [nT][nP]
	tMin, tMax         float64
	pMin, pMax         float64
}

// ChebyshevList evaluates Chebyshev-parameterized reactions:
//
//	k(T,P) = 10^( Σ_i Σ_j α_ij · φ_i(T̃) · φ_j(P̃) )
//
// with T̃, P̃ the standard reduced Chebyshev coordinates in (1/T, log10 P).
type ChebyshevList struct {
	globalIdx []int
	tables    []chebyshevTable
}

// NewChebyshevList returns an empty list.
func NewChebyshevList() *ChebyshevList { return &ChebyshevList{} }

// Install appends a Chebyshev table for reaction index gidx.
func (l *ChebyshevList) Install(gidx int, coeffs [][]float64, tMin, tMax, pMin, pMax float64) {
	l.globalIdx = append(l.globalIdx, gidx)
	l.tables = append(l.tables, chebyshevTable{coeffs: coeffs, tMin: tMin, tMax: tMax, pMin: pMin, pMax: pMax})
}

// Replace overwrites the local-index entry's table.
func (l *ChebyshevList) Replace(localIdx int, coeffs [][]float64, tMin, tMax, pMin, pMax float64) {
	l.tables[localIdx] = chebyshevTable{coeffs: coeffs, tMin: tMin, tMax: tMax, pMin: pMin, pMax: pMax}
}

// N returns the number of installed reactions.
func (l *ChebyshevList) N() int { return len(l.tables) }

// Update evaluates k(T, P) for every installed entry and scatters the
// result into out at the entry's global reaction index.
func (l *ChebyshevList) Update(T, lnT, P float64, out []float64) {
	log10P := math.Log10(P)
	for i, t := range l.tables {
		out[l.globalIdx[i]] = evalChebyshev(t, T, log10P)
	}
}

func evalChebyshev(t chebyshevTable, T, log10P float64) float64 {
	tTilde := (2/T - 1/t.tMin - 1/t.tMax) / (1/t.tMax - 1/t.tMin)
	log10Pmin, log10Pmax := math.Log10(t.pMin), math.Log10(t.pMax)
	pTilde := (2*log10P - log10Pmin - log10Pmax) / (log10Pmax - log10Pmin)

	nT := len(t.coeffs)
	if nT == 0 {
		return 0
	}
	nP := len(t.coeffs[0])
	phiT := chebyshevBasis(tTilde, nT)
	phiP := chebyshevBasis(pTilde, nP)

	var logK float64
	for i := 0; i < nT; i++ {
		for j := 0; j < nP; j++ {
			logK += t.coeffs[i][j] * phiT[i] * phiP[j]
		}
	}
	return math.Pow(10, logK)
}

// chebyshevBasis returns [T_0(x), T_1(x), ..., T_{n-1}(x)] via the standard
// recursion T_0=1, T_1=x, T_k = 2x·T_{k-1} - T_{k-2}.
func chebyshevBasis(x float64, n int) []float64 {
	phi := make([]float64, n)
	if n > 0 {
		phi[0] = 1
	}
	if n > 1 {
		phi[1] = x
	}
	for k := 2; k < n; k++ {
		phi[k] = 2*x*phi[k-1] - phi[k-2]
	}
	return phi
}
