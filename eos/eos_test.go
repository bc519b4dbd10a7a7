// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eos

import (
	"math"
	"testing"

	"github.com/cpmech/gochem/config"
	"github.com/cpmech/gochem/critprop"
	"github.com/cpmech/gochem/species"
	"github.com/cpmech/gosl/chk"
)

func testSpeciesTable() *species.Table {
	mk := func(name string, w float64, a1, a2, a6, a7 float64) species.Species {
		poly := species.Poly{
			Low:  species.NASA7{A: [7]float64{a1, a2, 0, 0, 0, a6, a7}},
			High: species.NASA7{A: [7]float64{a1, a2, 0, 0, 0, a6, a7}},
			Tmid: 1000,
		}
		return species.Species{Name: name, W: w, Poly: poly}
	}
	return species.NewTable([]species.Species{
		mk("H2", 2.016, 3.5, 0, -950, 2.0),
		mk("O2", 31.998, 3.6, 1e-4, -1100, 6.0),
		mk("N2", 28.014, 3.5, 0, -1050, 3.0),
	})
}

func buildEOS(tst *testing.T, beta float64) *EOS {
	table := testSpeciesTable()
	names := []string{"H2", "O2", "N2"}
	cfg := config.Default()
	cfg.BlendFactor = beta
	mixer, err := critprop.NewMixer(names, critprop.BuiltinTable(), cfg)
	if err != nil {
		tst.Fatalf("NewMixer failed: %v", err)
	}
	return New(table, mixer, cfg)
}

// Property 1: round-trip SetPressure -> Pressure recovers the same P.
func TestRoundTripPressure(tst *testing.T) {
	chk.PrintTitle("eos property 1: SetPressure/Pressure round trip")
	e := buildEOS(tst, 0.3)
	X := []float64{0.5, 0.3, 0.2}
	T := 800.0
	P := 5e6

	rho, err := e.SetPressure(X, T, P)
	if err != nil {
		tst.Fatalf("SetPressure failed: %v", err)
	}
	if rho <= 0 {
		tst.Fatalf("expected positive density, got %g", rho)
	}
	pBack, err := e.Pressure(X, T)
	if err != nil {
		tst.Fatalf("Pressure failed: %v", err)
	}
	chk.Float64(tst, "pressure round trip", 1e-6, pBack, P)
}

// Property 2: at β=0 the EOS reduces to the ideal-gas law to machine precision.
func TestIdealLimitAtBetaZero(tst *testing.T) {
	chk.PrintTitle("eos property 2: beta=0 matches ideal gas exactly")
	e := buildEOS(tst, 0.0)
	X := []float64{0.5, 0.3, 0.2}
	T := 600.0
	P := 2e6

	rho, err := e.SetPressure(X, T, P)
	if err != nil {
		tst.Fatalf("SetPressure failed: %v", err)
	}
	mw := meanMW(testSpeciesTable(), X)
	rhoIdeal := P * mw / (R * T)
	chk.Float64(tst, "ideal density", 1e-12, rho, rhoIdeal)

	cp, err := e.MolarCp(X, T, rho)
	if err != nil {
		tst.Fatalf("MolarCp failed: %v", err)
	}
	props, _ := testSpeciesTable().At(T)
	var cp0r float64
	for i, xi := range X {
		cp0r += xi * props[i].Cp
	}
	chk.Float64(tst, "ideal Cp", 1e-12, cp, R*cp0r)
}

// Property 3: density is affine in β at fixed (T, ρ-independent X, P): the
// β=0.5 density must equal the arithmetic mean of the β=0 and β=1 densities.
func TestBetaAffineBlend(tst *testing.T) {
	chk.PrintTitle("eos property 3: density affine in beta")
	X := []float64{0.4, 0.4, 0.2}
	T := 250.0
	P := 8e6

	e0 := buildEOS(tst, 0.0)
	rho0, err := e0.SetPressure(X, T, P)
	if err != nil {
		tst.Fatalf("SetPressure(beta=0) failed: %v", err)
	}
	e1 := buildEOS(tst, 1.0)
	rho1, err := e1.SetPressure(X, T, P)
	if err != nil {
		tst.Fatalf("SetPressure(beta=1) failed: %v", err)
	}
	eHalf := buildEOS(tst, 0.5)
	rhoHalf, err := eHalf.SetPressure(X, T, P)
	if err != nil {
		tst.Fatalf("SetPressure(beta=0.5) failed: %v", err)
	}
	want := 0.5*rho0 + 0.5*rho1
	chk.Float64(tst, "beta=0.5 density", 1e-9, rhoHalf, want)
}

func TestCubicRootNoDegeneracy(tst *testing.T) {
	chk.PrintTitle("eos cubic root solve stays finite over a P sweep")
	e := buildEOS(tst, 1.0)
	X := []float64{1.0 / 3, 1.0 / 3, 1.0 / 3}
	T := 300.0
	for _, P := range []float64{1e4, 1e5, 1e6, 1e7, 5e7} {
		z, err := e.VolumeFromPressureTemperature(X, P, T)
		if err != nil {
			tst.Fatalf("VolumeFromPressureTemperature(P=%g) failed: %v", P, err)
		}
		if math.IsNaN(z) || math.IsInf(z, 0) || z <= 0 {
			tst.Fatalf("expected finite positive molar volume at P=%g, got %g", P, z)
		}
	}
}

func TestStandardConcentration(tst *testing.T) {
	chk.PrintTitle("eos standard concentration p/RT")
	e := buildEOS(tst, 0.2)
	X := []float64{0.5, 0.3, 0.2}
	T := 400.0
	P := 3e6
	if _, err := e.SetPressure(X, T, P); err != nil {
		tst.Fatalf("SetPressure failed: %v", err)
	}
	c, err := e.StandardConcentration(X, T)
	if err != nil {
		tst.Fatalf("StandardConcentration failed: %v", err)
	}
	chk.Float64(tst, "c0", 1e-9, c, P/(R*T))
}
