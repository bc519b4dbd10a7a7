// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kinetics

import (
	"math"
	"testing"

	"github.com/cpmech/gochem/config"
	"github.com/cpmech/gochem/critprop"
	"github.com/cpmech/gochem/eos"
	"github.com/cpmech/gochem/reaction"
	"github.com/cpmech/gochem/species"
	"github.com/cpmech/gosl/chk"
)

func twoSpeciesTable() *species.Table {
	mk := func(name string, w, a1, a2, a6, a7 float64) species.Species {
		poly := species.Poly{
			Low:  species.NASA7{A: [7]float64{a1, a2, 0, 0, 0, a6, a7}},
			High: species.NASA7{A: [7]float64{a1, a2, 0, 0, 0, a6, a7}},
			Tmid: 1000,
		}
		return species.Species{Name: name, W: w, Poly: poly}
	}
	return species.NewTable([]species.Species{
		mk("A", 20.0, 3.0, 0, -500, 4.0),
		mk("B", 20.0, 3.2, 0, -700, 5.0),
	})
}

func buildEngine(tst *testing.T) (*Engine, *species.Table) {
	table := twoSpeciesTable()
	cfg := config.Default()
	mixer, err := critprop.NewMixer([]string{"H2", "O2"}, critprop.BuiltinTable(), cfg)
	if err != nil {
		tst.Fatalf("NewMixer failed: %v", err)
	}
	thermo := eos.New(table, mixer, cfg)
	return New(table, thermo), table
}

// S3: a single irreversible elementary reaction's forward rate-of-progress
// is k_f(T) times the reactant concentration product, with zero reverse.
func TestElementaryIrreversibleForwardRate(tst *testing.T) {
	chk.PrintTitle("kinetics S3: elementary forward rate")
	e, _ := buildEngine(tst)
	rate := reaction.Arrhenius{A: 1e8, N: 0, Ea: 1e7}
	_, err := e.AddReaction(reaction.Reaction{
		Kind:       reaction.Elementary,
		Reversible: false,
		Reactants:  reaction.Stoich{0: 1},
		Products:   reaction.Stoich{1: 1},
		Rate:       rate,
	})
	if err != nil {
		tst.Fatalf("AddReaction failed: %v", err)
	}

	T, P := 1000.0, 101325.0
	X := []float64{0.7, 0.3}
	if err := e.UpdateROP(T, P, X); err != nil {
		tst.Fatalf("UpdateROP failed: %v", err)
	}
	net, fwd, rev := e.ROP()

	R := 8314.462618
	kf := rate.A * math.Exp(-rate.Ea/(R*T))
	ctot := P / (R * T)
	concA := X[0] * ctot
	chk.Float64(tst, "forward rate", 1e-6, fwd[0], kf*concA)
	chk.Float64(tst, "reverse rate is zero", 0, rev[0], 0)
	chk.Float64(tst, "net == forward", 1e-6, net[0], fwd[0])
}

// Property 9: determinism — calling UpdateROP twice for the same state
// produces identical net rate-of-progress vectors.
func TestUpdateROPIsDeterministic(tst *testing.T) {
	chk.PrintTitle("kinetics property 9: determinism")
	e, _ := buildEngine(tst)
	_, err := e.AddReaction(reaction.Reaction{
		Kind:       reaction.Elementary,
		Reversible: false,
		Reactants:  reaction.Stoich{0: 1},
		Products:   reaction.Stoich{1: 1},
		Rate:       reaction.Arrhenius{A: 5e9, N: 0.2, Ea: 5e7},
	})
	if err != nil {
		tst.Fatalf("AddReaction failed: %v", err)
	}

	T, P := 900.0, 2e5
	X := []float64{0.4, 0.6}
	if err := e.UpdateROP(T, P, X); err != nil {
		tst.Fatalf("UpdateROP failed: %v", err)
	}
	net1, _, _ := e.ROP()
	want := append([]float64(nil), net1...)

	if err := e.UpdateROP(T, P, X); err != nil {
		tst.Fatalf("second UpdateROP failed: %v", err)
	}
	net2, _, _ := e.ROP()
	chk.Vector(tst, "net ROP repeats", 1e-12, net2, want)
}

// Property 5: stoichiometry mass conservation, Σν·W = 0, for a reaction set
// built over species with real molecular weights.
func TestStoichiometryConservesMass(tst *testing.T) {
	chk.PrintTitle("kinetics property 5: mass conservation")
	e, table := buildEngine(tst)
	_, err := e.AddReaction(reaction.Reaction{
		Kind:       reaction.Elementary,
		Reversible: true,
		Reactants:  reaction.Stoich{0: 2},
		Products:   reaction.Stoich{1: 2},
		Rate:       reaction.Arrhenius{A: 1e8, N: 0, Ea: 1e7},
	})
	if err != nil {
		tst.Fatalf("AddReaction failed: %v", err)
	}
	w := table.MolecularWeights()
	cols := e.SignedStoichColumns()
	var residual float64
	for _, entry := range cols[0] {
		residual += entry.Coeff * w[entry.Idx]
	}
	chk.Float64(tst, "mass residual", 1e-9, residual, 0)
}

// Property 7: reducing with an all-true mask produces an equivalent engine
// (same reaction count, identical net rate-of-progress).
func TestReduceAllTrueIsEquivalent(tst *testing.T) {
	chk.PrintTitle("kinetics property 7 / C8: Reduce with an all-true mask is equivalent")
	e, _ := buildEngine(tst)
	_, err := e.AddReaction(reaction.Reaction{
		Kind:       reaction.Elementary,
		Reversible: false,
		Reactants:  reaction.Stoich{0: 1},
		Products:   reaction.Stoich{1: 1},
		Rate:       reaction.Arrhenius{A: 3e8, N: 0, Ea: 2e7},
	})
	if err != nil {
		tst.Fatalf("AddReaction failed: %v", err)
	}

	T, P := 950.0, 1.5e5
	X := []float64{0.6, 0.4}
	if err := e.UpdateROP(T, P, X); err != nil {
		tst.Fatalf("UpdateROP failed: %v", err)
	}
	netOrig, _, _ := e.ROP()
	wantNet := append([]float64(nil), netOrig...)

	reduced, err := e.Reduce([]bool{true})
	if err != nil {
		tst.Fatalf("Reduce failed: %v", err)
	}
	chk.IntAssert(reduced.NReactions(), e.NReactions())

	if err := reduced.UpdateROP(T, P, X); err != nil {
		tst.Fatalf("UpdateROP on reduced engine failed: %v", err)
	}
	netReduced, _, _ := reduced.ROP()
	chk.Vector(tst, "reduced net ROP matches original", 1e-9, netReduced, wantNet)
}

func TestReduceDropsDeactivatedReaction(tst *testing.T) {
	chk.PrintTitle("kinetics C8: Reduce drops a deactivated reaction")
	e, _ := buildEngine(tst)
	_, err := e.AddReaction(reaction.Reaction{
		Kind:       reaction.Elementary,
		Reversible: false,
		Reactants:  reaction.Stoich{0: 1},
		Products:   reaction.Stoich{1: 1},
		Rate:       reaction.Arrhenius{A: 1e8, N: 0, Ea: 1e7},
	})
	if err != nil {
		tst.Fatalf("AddReaction #0 failed: %v", err)
	}
	_, err = e.AddReaction(reaction.Reaction{
		Kind:       reaction.Elementary,
		Reversible: false,
		Reactants:  reaction.Stoich{1: 1},
		Products:   reaction.Stoich{0: 1},
		Rate:       reaction.Arrhenius{A: 2e8, N: 0, Ea: 1.2e7},
	})
	if err != nil {
		tst.Fatalf("AddReaction #1 failed: %v", err)
	}
	chk.IntAssert(e.NReactions(), 2)

	reduced, err := e.Reduce([]bool{true, false})
	if err != nil {
		tst.Fatalf("Reduce failed: %v", err)
	}
	chk.IntAssert(reduced.NReactions(), 1)

	idMap := e.ActiveIndexMap([]bool{true, false})
	chk.IntAssert(idMap[0], 0)
	chk.IntAssert(idMap[1], -1)
}

func TestReduceMaskLengthMismatch(tst *testing.T) {
	chk.PrintTitle("kinetics C8: Reduce rejects a mismatched mask length")
	e, _ := buildEngine(tst)
	_, err := e.AddReaction(reaction.Reaction{
		Kind:       reaction.Elementary,
		Reversible: false,
		Reactants:  reaction.Stoich{0: 1},
		Products:   reaction.Stoich{1: 1},
		Rate:       reaction.Arrhenius{A: 1e8, N: 0, Ea: 1e7},
	})
	if err != nil {
		tst.Fatalf("AddReaction failed: %v", err)
	}
	_, err = e.Reduce([]bool{true, true})
	if err == nil {
		tst.Fatalf("expected an error for a mismatched mask length")
	}
}

// Property 4: Kc consistency — at a state forced to equilibrium (forward and
// reverse rates equal by construction), ropf and ropr agree to a tight
// tolerance.
func TestReversibleEquilibriumResidual(tst *testing.T) {
	chk.PrintTitle("kinetics property 4: Kc equilibrium residual")
	e, _ := buildEngine(tst)
	_, err := e.AddReaction(reaction.Reaction{
		Kind:       reaction.Elementary,
		Reversible: true,
		Reactants:  reaction.Stoich{0: 1},
		Products:   reaction.Stoich{1: 1},
		Rate:       reaction.Arrhenius{A: 1e8, N: 0, Ea: 1e7},
	})
	if err != nil {
		tst.Fatalf("AddReaction failed: %v", err)
	}
	T, P := 1200.0, 101325.0
	kc, err := e.EquilibriumConstants(T, P)
	if err != nil {
		tst.Fatalf("EquilibriumConstants failed: %v", err)
	}
	// choose X so that concB/concA == Kc, i.e. the reaction is at equilibrium.
	ctot := P / (8314.462618 * T)
	_ = ctot
	fracA := 1.0 / (1.0 + kc[0])
	X := []float64{fracA, 1 - fracA}
	if err := e.UpdateROP(T, P, X); err != nil {
		tst.Fatalf("UpdateROP failed: %v", err)
	}
	net, fwd, rev := e.ROP()
	chk.Float64(tst, "ropf == ropr at equilibrium", 1e-6*fwd[0], fwd[0], rev[0])
	if math.Abs(net[0]) > 1e-6*fwd[0] {
		tst.Fatalf("expected near-zero net rate at equilibrium, got %g (fwd=%g)", net[0], fwd[0])
	}
}
