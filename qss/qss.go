// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package qss implements the quasi-steady-state closure (C10): given a
// declared subset of species flagged QSS, it builds the sparse linear system
// relating their destruction/production rates and solves it each call for
// the QSS concentrations, then rescales the forward/reverse rate-of-progress
// entries those species participate in.
//
// This is a deliberate simplification of the engine this was distilled
// from: that engine tracks, per connected (source, destination) QSS species
// pair, separate forward/reverse reaction-index lists behind a bitflag
// (IROPF/IROPR) so it can avoid allocating when only one direction connects
// a pair. This port keeps the two lists directly instead of the bitflag,
// but still stores them at transposed indices (prodFwd[reactant][product]
// versus prodRev[reactant][product] of the *reverse* reaction, i.e.
// prodRev[product][reactant] of the forward one) since the forward and
// reverse rates land in different matrix entries, not the same one.
package qss

import (
	"math"

	"github.com/cpmech/gochem/internal/xerr"
	"github.com/cpmech/gochem/reaction"

	"github.com/cpmech/gosl/la"
)

// Closure holds the QSS species set, the per-species reaction-index lists
// that classify every reaction's relationship to them, and the cached
// sparse-LU symbolic pattern for the A·c = b solve.
type Closure struct {
	qssGlobal []int // local QSS index -> global species index
	localOf   map[int]int

	destrFwd [][]int // D(s), forward (s is reactant)
	destrRev [][]int // D(s), reverse (s is reversible product)

	prod0Fwd [][]int // P0(s), forward, no QSS reactant
	prod0Rev [][]int // P0(s), reverse, no QSS product (reversible only)

	prodFwd [][][]int // P(t->s) forward: prodFwd[t][s]
	prodRev [][][]int // P(t->s) reverse, roles swapped: stored at prodRev[s][t], read alongside prodFwd[t][s]

	entries [][2]int // (row, col) Put order for the cached sparsity pattern, diagonal first
	triplet *la.Triplet
	solver  la.LinSol
	ready   bool
}

// Build constructs a Closure for the QSS species named by qssGlobal (global
// species indices), classifying every reaction in records (in global index
// order) per spec.md §4.10. Reactions with more than one QSS species on one
// side are still installed (iterating over every combination, exactly as
// the engine this was distilled from does) but are reported back as
// warnings rather than failing the build, per spec.md §4.10's "issues a
// warning but is handled by iterating over the set."
func Build(qssGlobal []int, records []reaction.Reaction) (*Closure, []error) {
	n := len(qssGlobal)
	c := &Closure{
		qssGlobal: append([]int(nil), qssGlobal...),
		localOf:   make(map[int]int, n),
		destrFwd:  make([][]int, n),
		destrRev:  make([][]int, n),
		prod0Fwd:  make([][]int, n),
		prod0Rev:  make([][]int, n),
		prodFwd:   make([][][]int, n),
		prodRev:   make([][][]int, n),
	}
	for t, gsp := range qssGlobal {
		c.localOf[gsp] = t
	}
	for t := range c.prodFwd {
		c.prodFwd[t] = make([][]int, n)
		c.prodRev[t] = make([][]int, n)
	}

	var warnings []error
	for r, rec := range records {
		var qssReactants, qssProducts []int
		for t, gsp := range c.qssGlobal {
			if _, ok := rec.Reactants[gsp]; ok {
				qssReactants = append(qssReactants, t)
			}
			if _, ok := rec.Products[gsp]; ok {
				qssProducts = append(qssProducts, t)
			}
		}
		if len(qssReactants) == 0 && len(qssProducts) == 0 {
			continue
		}
		if len(qssReactants) > 1 || len(qssProducts) > 1 {
			warnings = append(warnings, xerr.New(xerr.AssumptionViolated,
				"qss: reaction %d has more than one QSS species on one side", r))
		}

		for _, t := range qssReactants {
			c.destrFwd[t] = append(c.destrFwd[t], r)
		}
		if rec.Reversible {
			for _, t := range qssProducts {
				c.destrRev[t] = append(c.destrRev[t], r)
			}
		}
		if len(qssReactants) == 0 {
			for _, s := range qssProducts {
				c.prod0Fwd[s] = append(c.prod0Fwd[s], r)
			}
		}
		if len(qssProducts) == 0 && rec.Reversible {
			for _, t := range qssReactants {
				c.prod0Rev[t] = append(c.prod0Rev[t], r)
			}
		}
		for _, t := range qssReactants {
			for _, s := range qssProducts {
				c.prodFwd[t][s] = append(c.prodFwd[t][s], r)
				if rec.Reversible {
					// Reverse direction has reactant/product roles swapped
					// (s destroys t), so its contribution belongs at the
					// transposed index: see buildPattern/Resolve, which
					// always read prodRev at the same [t][s] as prodFwd.
					c.prodRev[s][t] = append(c.prodRev[s][t], r)
				}
			}
		}
	}

	c.buildPattern()
	return c, warnings
}

// QSSSpecies returns the global species indices flagged QSS, in the same
// order as their local index.
func (c *Closure) QSSSpecies() []int { return c.qssGlobal }

// N returns the number of QSS species.
func (c *Closure) N() int { return len(c.qssGlobal) }

func (c *Closure) buildPattern() {
	n := len(c.qssGlobal)
	if n == 0 {
		return
	}
	c.entries = make([][2]int, 0, n*n)
	for s := 0; s < n; s++ {
		c.entries = append(c.entries, [2]int{s, s})
	}
	for t := 0; t < n; t++ {
		for s := 0; s < n; s++ {
			if t == s {
				continue
			}
			if len(c.prodFwd[t][s]) > 0 || len(c.prodRev[t][s]) > 0 {
				c.entries = append(c.entries, [2]int{s, t})
			}
		}
	}
	c.triplet = la.NewTriplet(n, n, len(c.entries))
	c.solver = la.GetSolver("umfpack")
}

// Resolve solves A·c = b for the QSS concentrations given the current
// forward/reverse rate-of-progress vectors (evaluated with every QSS
// species concentration held at 1, per spec.md §4.10), caching the sparse
// LU's symbolic analysis across calls and re-factoring numerically each
// time.
func (c *Closure) Resolve(ropf, ropr []float64) ([]float64, error) {
	n := len(c.qssGlobal)
	if n == 0 {
		return nil, nil
	}

	b := make([]float64, n)
	c.triplet.Start()
	for _, e := range c.entries {
		s, t := e[0], e[1]
		var v float64
		if s == t {
			for _, r := range c.destrFwd[s] {
				v += ropf[r]
			}
			for _, r := range c.destrRev[s] {
				v += ropr[r]
			}
		} else {
			for _, r := range c.prodFwd[t][s] {
				v -= ropf[r]
			}
			for _, r := range c.prodRev[t][s] {
				v -= ropr[r]
			}
		}
		c.triplet.Put(s, t, v)
	}
	for s := 0; s < n; s++ {
		for _, r := range c.prod0Fwd[s] {
			b[s] += ropf[r]
		}
		for _, r := range c.prod0Rev[s] {
			b[s] += ropr[r]
		}
	}

	if !c.ready {
		if err := c.solver.Init(c.triplet, nil, false, false, false); err != nil {
			return nil, err
		}
		c.ready = true
	}
	if err := c.solver.Fact(); err != nil {
		return nil, err
	}
	x := make([]float64, n)
	if err := c.solver.Solve(x, b, nil, nil, false); err != nil {
		return nil, err
	}
	for _, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, xerr.New(xerr.NonFinite, "qss: resolved concentration is not finite")
		}
	}
	return x, nil
}

// Rescale multiplies ropf[r] and ropr[r] by conc[s] for every reaction r
// that destroys QSS species s (forward if s is a reactant, reverse if s is
// a reversible product), per spec.md §4.10's final rescaling step.
func (c *Closure) Rescale(ropf, ropr []float64, conc []float64) {
	for s := range c.qssGlobal {
		for _, r := range c.destrFwd[s] {
			ropf[r] *= conc[s]
		}
		for _, r := range c.destrRev[s] {
			ropr[r] *= conc[s]
		}
	}
}
