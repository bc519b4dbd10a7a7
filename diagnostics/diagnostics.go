// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package diagnostics provides optional gosl/plt-backed plotting helpers for
// sanity-checking the rate library and EOS, in the exact shape of
// mdl/conduct.Plot and mdl/retention's plotting helpers: a free function
// taking (dirout, fname string, ...) plus the data to plot.
package diagnostics

import (
	"math"

	"github.com/cpmech/gochem/eos"
	"github.com/cpmech/gochem/rates"
	"github.com/cpmech/gochem/reaction"

	"github.com/cpmech/gosl/plt"
	"github.com/cpmech/gosl/utl"
)

// PlotArrhenius plots ln k(T) = ln A + n·ln T − Ea/(RT) over [Tmin, Tmax]
// against 1/T, the standard Arrhenius-plot axis pair.
func PlotArrhenius(dirout, fname string, p reaction.Arrhenius, Tmin, Tmax float64, np int) {
	Tv := utl.LinSpace(Tmin, Tmax, np)
	X := make([]float64, np)
	Y := make([]float64, np)
	for i, T := range Tv {
		X[i] = 1.0 / T
		Y[i] = math.Log(rates.EvalArrhenius(p, T))
	}
	plt.Plot(X, Y, "'b-', clip_on=0")
	plt.Gll("$1/T$", "$\\ln k_f(T)$", "")
	plt.SaveD(dirout, fname)
}

// PlotFalloffBlend plots the falloff blending function F(Pr) over
// [prMin, prMax] for the given blend kind and parameters.
func PlotFalloffBlend(dirout, fname string, kind reaction.FalloffKind, troe reaction.Troe, sri reaction.SRI, T, prMin, prMax float64, np int) error {
	blender, err := rates.NewBlender(kind, troe, sri)
	if err != nil {
		return err
	}
	work := make([]float64, blender.WorkSize())
	blender.UpdateTemp(T, work)
	Pr := utl.LinSpace(prMin, prMax, np)
	Y := make([]float64, np)
	for i, pr := range Pr {
		Y[i] = blender.F(pr, work)
	}
	plt.Plot(Pr, Y, "'b-', clip_on=0")
	plt.Gll("$P_r$", "$F(P_r)$", "")
	plt.SaveD(dirout, fname)
	return nil
}

// PlotIsotherm plots density as a function of pressure at fixed composition
// X and temperature T, over [Pmin, Pmax], showing the EOS's blended
// ideal/Peng-Robinson density response.
func PlotIsotherm(dirout, fname string, e *eos.EOS, X []float64, T, Pmin, Pmax float64, np int) error {
	Pv := utl.LinSpace(Pmin, Pmax, np)
	Y := make([]float64, np)
	for i, P := range Pv {
		rho, err := e.SetPressure(X, T, P)
		if err != nil {
			return err
		}
		Y[i] = rho
	}
	plt.Plot(Pv, Y, "'b-', clip_on=0")
	plt.Gll("$p$", "$\\rho(p)$", "")
	plt.SaveD(dirout, fname)
	return nil
}
