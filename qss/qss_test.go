// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qss

import (
	"testing"

	"github.com/cpmech/gochem/reaction"
	"github.com/cpmech/gosl/chk"
)

// A -> X -> C, with X flagged QSS (global species index 1; A=0, X=1,
// C=2). Steady state requires X's destruction rate to equal its production
// rate, so Resolve/Rescale should leave the forward rate-of-progress through
// X's destruction reaction equal to the rate feeding it.
func twoStepQSSRecords() []reaction.Reaction {
	return []reaction.Reaction{
		{
			Kind:       reaction.Elementary,
			Reversible: false,
			Reactants:  reaction.Stoich{0: 1},
			Products:   reaction.Stoich{1: 1},
		},
		{
			Kind:       reaction.Elementary,
			Reversible: false,
			Reactants:  reaction.Stoich{1: 1},
			Products:   reaction.Stoich{2: 1},
		},
	}
}

func TestBuildClassifiesProductionAndDestruction(tst *testing.T) {
	chk.PrintTitle("qss Build classifies a two-step elimination")
	c, warnings := Build([]int{1}, twoStepQSSRecords())
	if len(warnings) != 0 {
		tst.Fatalf("expected no warnings, got %v", warnings)
	}
	chk.IntAssert(c.N(), 1)
	chk.IntAssert(len(c.QSSSpecies()), 1)
	chk.IntAssert(c.QSSSpecies()[0], 1)
}

// Property 8: the resolved QSS concentration, once rescaled back into ropf,
// leaves the destruction rate of the QSS species equal to its production
// rate (net production ~0).
func TestResolveAndRescaleBalancesProductionDestruction(tst *testing.T) {
	chk.PrintTitle("qss property 8: resolve/rescale zeroes net QSS production")
	c, _ := Build([]int{1}, twoStepQSSRecords())

	ropf := []float64{2.0, 5.0}
	ropr := []float64{0.0, 0.0}

	conc, err := c.Resolve(ropf, ropr)
	if err != nil {
		tst.Fatalf("Resolve failed: %v", err)
	}
	chk.IntAssert(len(conc), 1)
	chk.Float64(tst, "QSS concentration", 1e-9, conc[0], ropf[0]/ropf[1])

	c.Rescale(ropf, ropr, conc)
	chk.Float64(tst, "destruction rate rescaled to production rate", 1e-9, ropf[1], 2.0)
}

func TestResolveNoQSSSpeciesIsNoop(tst *testing.T) {
	chk.PrintTitle("qss Resolve with an empty QSS set is a no-op")
	c, _ := Build(nil, twoStepQSSRecords())
	chk.IntAssert(c.N(), 0)
	conc, err := c.Resolve([]float64{1, 1}, []float64{0, 0})
	if err != nil {
		tst.Fatalf("Resolve failed: %v", err)
	}
	if conc != nil {
		tst.Fatalf("expected nil concentration vector for an empty QSS set")
	}
}

// A -> X <-> Y -> P, with X and Y both flagged QSS (global indices 1, 2; A=0
// is the external source, P=3 the external sink). Reaction 1 is the
// reversible X<->Y link directly coupling the two QSS species, exercising
// the transposed prodRev storage: the reverse rate must land at the matrix
// entry for (row=X,col=Y), not get folded into the (row=Y,col=X) entry
// alongside the forward rate.
func coupledReversibleQSSRecords() []reaction.Reaction {
	return []reaction.Reaction{
		{
			Kind:       reaction.Elementary,
			Reversible: false,
			Reactants:  reaction.Stoich{0: 1},
			Products:   reaction.Stoich{1: 1},
		},
		{
			Kind:       reaction.Elementary,
			Reversible: true,
			Reactants:  reaction.Stoich{1: 1},
			Products:   reaction.Stoich{2: 1},
		},
		{
			Kind:       reaction.Elementary,
			Reversible: false,
			Reactants:  reaction.Stoich{2: 1},
			Products:   reaction.Stoich{3: 1},
		},
	}
}

func TestResolveHandlesReversibleLinkBetweenTwoQSSSpecies(tst *testing.T) {
	chk.PrintTitle("qss Resolve: reversible reaction directly coupling two QSS species")
	c, warnings := Build([]int{1, 2}, coupledReversibleQSSRecords())
	if len(warnings) != 0 {
		tst.Fatalf("expected no warnings, got %v", warnings)
	}

	// ropf[0]=8 (A->X), ropf[1]=2/ropr[1]=1 (X<->Y), ropf[2]=4 (Y->P).
	// Steady state: d[Y]/dt=0 gives conc[Y]=ropf0/ropf2=2; substituting into
	// d[X]/dt=0 gives conc[X]=ropf0*(ropf2+ropr1)/(ropf1*ropf2)=5.
	ropf := []float64{8.0, 2.0, 4.0}
	ropr := []float64{0.0, 1.0, 0.0}

	conc, err := c.Resolve(ropf, ropr)
	if err != nil {
		tst.Fatalf("Resolve failed: %v", err)
	}
	chk.IntAssert(len(conc), 2)
	chk.Float64(tst, "QSS concentration of X", 1e-9, conc[0], 5.0)
	chk.Float64(tst, "QSS concentration of Y", 1e-9, conc[1], 2.0)
}

func TestBuildWarnsOnMultipleQSSOnOneSide(tst *testing.T) {
	chk.PrintTitle("qss Build warns when a reaction has >1 QSS species on one side")
	records := []reaction.Reaction{
		{
			Kind:       reaction.Elementary,
			Reversible: false,
			Reactants:  reaction.Stoich{0: 1, 1: 1},
			Products:   reaction.Stoich{2: 1},
		},
	}
	_, warnings := Build([]int{0, 1}, records)
	if len(warnings) == 0 {
		tst.Fatalf("expected a warning for two QSS reactants on one side")
	}
}
