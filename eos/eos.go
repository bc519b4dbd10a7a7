// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package eos implements the blended equation of state (C3): an ideal-gas
// law blended with a Peng-Robinson real-fluid departure by a factor
// β∈[0,1], following the mdl/retention.Model shape of a cached, composition-
// and-temperature-gated constitutive model.
package eos

import (
	"errors"
	"math"

	"github.com/cpmech/gosl/io"

	"github.com/cpmech/gochem/config"
	"github.com/cpmech/gochem/critprop"
	"github.com/cpmech/gochem/internal/xerr"
	"github.com/cpmech/gochem/species"
)

// R is the universal gas constant [J/(kmol·K)].
const R = 8314.462618

const cubicEps = 1e-12

// EOS is the blended ideal/Peng-Robinson model for a fixed species set.
type EOS struct {
	table *species.Table
	mixer *critprop.Mixer
	cfg   *config.Config
	n     int

	// constants cache, gated by mole-fraction vector (SetRealFluidConstants)
	cachedX []float64
	bm      float64

	// thermodynamics cache, gated by (T, molar volume) once X is unchanged
	// (SetRealFluidThermodynamics)
	cachedT   float64
	cachedV   float64
	haveCache bool

	am, dAmdT, d2AmdT2 float64
	k1                 float64
	dPdT, dPdV         float64
	dAmdN              []float64
	d2AmdTdN           []float64
	dPdN               []float64
	dVdN               []float64
	dK1dN              []float64

	// ideal-cache (T only), retained so pressure() round-trips setPressure
	idealT   float64
	idealRho float64
}

// New returns an EOS over the given species table and critical-property
// mixer, using cfg for β and binary k_ij.
func New(table *species.Table, mixer *critprop.Mixer, cfg *config.Config) *EOS {
	n := table.Len()
	return &EOS{
		table:    table,
		mixer:    mixer,
		cfg:      cfg,
		n:        n,
		dAmdN:    make([]float64, n),
		d2AmdTdN: make([]float64, n),
		dPdN:     make([]float64, n),
		dVdN:     make([]float64, n),
		dK1dN:    make([]float64, n),
		cachedT:  math.NaN(),
		idealT:   math.NaN(),
	}
}

func sameX(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func meanMW(table *species.Table, X []float64) float64 {
	w := table.MolecularWeights()
	var mw float64
	for i, xi := range X {
		mw += xi * w[i]
	}
	return mw
}

// updateConstants recomputes Bm (and the binary a_ij/c_ij, already cached in
// the mixer) whenever the composition X has changed since the last call.
func (e *EOS) updateConstants(X []float64) {
	if sameX(e.cachedX, X) {
		return
	}
	e.bm = 0
	for i, xi := range X {
		e.bm += xi * e.mixer.B(i)
	}
	e.cachedX = append(e.cachedX[:0], X...)
}

// updateThermodynamics recomputes Am/dAmdT/d2AmdT2/K1/dPdT/dPdV and their
// composition partials, following SetRealFluidThermodynamics exactly. It is
// a no-op if neither X nor (T, V) changed since the last call.
func (e *EOS) updateThermodynamics(X []float64, T, V float64) {
	xChanged := !sameX(e.cachedX, X)
	e.updateConstants(X)
	if !xChanged && e.haveCache && T == e.cachedT && V == e.cachedV {
		return
	}

	bm := e.bm
	temp := V*V + 2*bm*V - bm*bm

	e.am, e.dAmdT, e.d2AmdT2 = 0, 0, 0
	for i := range X {
		e.dAmdN[i] = 0
		e.d2AmdTdN[i] = 0
		for j := range X {
			p := e.mixer.Pair(i, j)
			xx := X[i] * X[j]
			sqrtRatio := math.Sqrt(T / p.Tc)
			bracket := 1 + p.C*(1-sqrtRatio)
			aij := p.A * bracket * bracket
			g := p.C * sqrtRatio / bracket
			d := p.C * (1 + p.C) * p.Tc / p.Pc * math.Sqrt(p.Tc/T)

			e.am += xx * aij
			e.dAmdT -= xx * aij * g
			e.d2AmdT2 += xx * d

			e.dAmdN[i] += X[j] * aij
			e.d2AmdTdN[i] += X[j] * aij * g
		}
		e.dAmdN[i] *= 2
		e.d2AmdTdN[i] *= -2 / T
		e.dPdN[i] = R*T/(V-bm) + R*T*e.mixer.B(i)/((V-bm)*(V-bm)) -
			e.dAmdN[i]/temp + 2*e.am*e.mixer.B(i)*(V-bm)/(temp*temp)
	}
	e.dAmdT /= T
	e.d2AmdT2 *= 0.457236 * R * R / (2 * T)

	e.dPdT = R/(V-bm) - e.dAmdT/(V*V+2*V*bm-bm*bm)
	arg := R * T * (V + bm) * math.Pow(V/(V-bm)+bm/(V+bm), 2)
	e.dPdV = -R * T / ((V - bm) * (V - bm)) * (1 - 2*e.am/arg)
	e.k1 = 1.0 / (math.Sqrt(8) * bm) * math.Log((V+(1-math.Sqrt2)*bm)/(V+(1+math.Sqrt2)*bm))

	for i := range X {
		e.dVdN[i] = -e.dPdN[i] / e.dPdV
		e.dK1dN[i] = 1/temp*e.dVdN[i] - e.mixer.B(i)/bm*(e.k1+V/temp)
	}

	e.cachedT, e.cachedV, e.haveCache = T, V, true
}

// Beta returns the configured blend factor.
func (e *EOS) Beta() float64 { return e.cfg.BlendFactor }

// Verbose reports whether diagnostic printing is enabled for this instance.
func (e *EOS) Verbose() bool { return e.cfg.Verbose }

// VolumeFromPressureTemperature solves the Peng-Robinson cubic in Z for the
// molar volume at (P, T). It refreshes Bm for X and evaluates Am(X, T)
// itself, so no prior state update is needed.
func (e *EOS) VolumeFromPressureTemperature(X []float64, P, T float64) (float64, error) {
	e.updateConstants(X)
	// Am at this (X,T) requires a molar-volume-independent partial: compute
	// it directly (Am does not depend on V), reusing the pair data.
	am := e.amAt(X, T)
	bm := e.bm

	Amat := am * P / (R * T * R * T)
	Bmat := bm * P / (R * T)

	a0 := Bmat*Bmat*Bmat + Bmat*Bmat - Amat*Bmat
	a1 := -3*Bmat*Bmat - 2*Bmat + Amat
	a2 := Bmat - 1

	z, err := cubicRoot(a0, a1, a2)
	if err != nil && !errors.Is(err, xerr.Sentinel(xerr.CubicSolveDegenerate)) {
		return 0, err
	}
	v := R * T * z / P
	if err != nil && e.cfg.Verbose {
		io.Pf("eos: %v (volume=%.6g)\n", err, v)
	}
	return v, nil
}

// amAt computes Am(X,T) without needing a molar volume (Am has no V
// dependence in the Peng-Robinson mixing rule).
func (e *EOS) amAt(X []float64, T float64) float64 {
	var am float64
	for i := range X {
		for j := range X {
			p := e.mixer.Pair(i, j)
			bracket := 1 + p.C*(1-math.Sqrt(T/p.Tc))
			am += X[i] * X[j] * p.A * bracket * bracket
		}
	}
	return am
}

// cubicRoot implements GetCubicRoots: the depressed-cubic discriminant
// branch selection of spec.md §4.3. The |Δ|≤ε branch returns a valid root
// together with a CubicSolveDegenerate error (informational, not a failure
// — the original prints "double root" on this branch and proceeds); callers
// that don't care can ignore it via errors.Is, as VolumeFromPressureTemperature
// does below.
func cubicRoot(a0, a1, a2 float64) (float64, error) {
	p := (3*a1 - a2*a2) / 3
	q := a0 + 2*a2*a2*a2/27 - a2*a1/3
	det := math.Pow(p/3, 3) + math.Pow(q/2, 2)

	signedCbrt := func(x float64) float64 {
		if x < 0 {
			return -math.Cbrt(-x)
		}
		return math.Cbrt(x)
	}

	var z float64
	var degenerate error
	switch {
	case det > 0:
		u := signedCbrt(-q/2 + math.Sqrt(det))
		v := signedCbrt(-q/2 - math.Sqrt(det))
		z = -a2/3 + u + v
	case math.Abs(det) <= cubicEps:
		u := signedCbrt(-q / 2)
		v := signedCbrt(-q / 2)
		z = -a2/3 + u + v
		degenerate = xerr.New(xerr.CubicSolveDegenerate, "eos: discriminant |Δ|=%.3e <= eps, repeated-root branch (a0=%g a1=%g a2=%g)", math.Abs(det), a0, a1, a2)
	default:
		arg := -q / (2 * math.Sqrt(math.Pow(math.Abs(p)/3, 3)))
		arg = math.Max(-1, math.Min(1, arg))
		phi := math.Acos(arg)
		pAbs := math.Abs(p)
		z1 := -a2/3 + 2*math.Sqrt(pAbs/3)*math.Cos(phi/3)
		z2 := -a2/3 - 2*math.Sqrt(pAbs/3)*math.Cos((phi-math.Pi)/3)
		z3 := -a2/3 - 2*math.Sqrt(pAbs/3)*math.Cos((phi+math.Pi)/3)
		z = math.Min(z1, math.Min(z2, z3))
		if z < 0 {
			z = math.Max(z1, math.Max(z2, z3))
		}
	}
	if math.IsNaN(z) || math.IsInf(z, 0) {
		return 0, xerr.New(xerr.NonFinite, "eos: cubic root solve produced a non-finite Z (a0=%g a1=%g a2=%g)", a0, a1, a2)
	}
	return z, degenerate
}

// SetPressure computes the blended density for composition X at temperature
// T and target pressure P, per spec.md §4.3: ρ = (1−β)ρ_I + β·ρ_PR, with
// ρ_I retained for Pressure()'s round-trip.
func (e *EOS) SetPressure(X []float64, T, P float64) (density float64, err error) {
	if T <= 0 {
		return 0, xerr.New(xerr.NonFinite, "eos: non-positive temperature %g", T)
	}
	mw := meanMW(e.table, X)
	rhoIdeal := P * mw / (R * T)

	beta := e.cfg.BlendFactor
	var rho float64
	if beta == 0 {
		rho = rhoIdeal
	} else {
		v, verr := e.VolumeFromPressureTemperature(X, P, T)
		if verr != nil {
			return 0, verr
		}
		rhoPR := mw / v
		rho = (1-beta)*rhoIdeal + beta*rhoPR
	}
	e.idealT, e.idealRho = T, rhoIdeal
	e.updateThermodynamics(X, T, mw/rho)
	return rho, nil
}

// Pressure returns p = R·T·ρ_I/W̄ from the retained ideal-density piece,
// preserving round-trip invariance with the most recent SetPressure call
// for the same T.
func (e *EOS) Pressure(X []float64, T float64) (float64, error) {
	if T != e.idealT {
		return 0, xerr.New(xerr.NotReady, "eos: Pressure called before SetPressure established an ideal cache at T=%g", T)
	}
	mw := meanMW(e.table, X)
	return R * e.idealRho * T / mw, nil
}

// MolarEnthalpy returns the molar enthalpy, ideal part plus β·departure.
func (e *EOS) MolarEnthalpy(X []float64, T, density float64) (float64, error) {
	props, err := e.table.At(T)
	if err != nil {
		return 0, err
	}
	var h0rt float64
	for i, xi := range X {
		h0rt += xi * props[i].H
	}
	h0 := R * T * h0rt

	beta := e.cfg.BlendFactor
	if beta == 0 {
		return h0, nil
	}
	mw := meanMW(e.table, X)
	v := mw / density
	e.updateThermodynamics(X, T, v)
	P := e.pressureFromState(X, T, v)
	departure := -R*T + e.k1*(e.am-T*e.dAmdT) + P*v
	return h0 + beta*departure, nil
}

// pressureFromState evaluates the Peng-Robinson pressure p(T,V) directly
// (not the stored-ideal round-trip accessor), used internally by the
// departure functions which need the actual real-fluid pressure at the
// current state.
func (e *EOS) pressureFromState(X []float64, T, V float64) float64 {
	e.updateThermodynamics(X, T, V)
	bm := e.bm
	return R*T/(V-bm) - e.am/(V*V+2*V*bm-bm*bm)
}

// MolarEntropy returns the molar entropy (ideal-gas value, per spec.md §4.3
// "this is still the ideal gas value").
func (e *EOS) MolarEntropy(X []float64, T, density float64) (float64, error) {
	props, err := e.table.At(T)
	if err != nil {
		return 0, err
	}
	var s0r, sumXlogX float64
	for i, xi := range X {
		s0r += xi * props[i].S
		if xi > 0 {
			sumXlogX += xi * math.Log(xi)
		}
	}
	mw := meanMW(e.table, X)
	v := mw / density
	p := e.pressureFromState(X, T, v)
	p0 := species.RefPressure
	return R * (s0r - sumXlogX - math.Log(p/p0)), nil
}

// MolarCp returns the constant-pressure molar heat capacity, ideal part
// plus β·departure.
func (e *EOS) MolarCp(X []float64, T, density float64) (float64, error) {
	props, err := e.table.At(T)
	if err != nil {
		return 0, err
	}
	var cp0r float64
	for i, xi := range X {
		cp0r += xi * props[i].Cp
	}
	cp0 := R * cp0r

	beta := e.cfg.BlendFactor
	if beta == 0 {
		return cp0, nil
	}
	mw := meanMW(e.table, X)
	v := mw / density
	e.updateThermodynamics(X, T, v)
	departure := -R - e.k1*T*e.d2AmdT2 - T*e.dPdT*e.dPdT/e.dPdV
	return cp0 + beta*departure, nil
}

// MolarCv returns the constant-volume molar heat capacity.
func (e *EOS) MolarCv(X []float64, T, density float64) (float64, error) {
	props, err := e.table.At(T)
	if err != nil {
		return 0, err
	}
	var cp0r float64
	for i, xi := range X {
		cp0r += xi * props[i].Cp
	}
	cv0 := R*cp0r - R

	beta := e.cfg.BlendFactor
	if beta == 0 {
		return cv0, nil
	}
	mw := meanMW(e.table, X)
	v := mw / density
	e.updateThermodynamics(X, T, v)
	departure := -T * e.d2AmdT2 * e.k1
	return cv0 + beta*departure, nil
}

// StandardConcentration returns p/(RT), spec.md §4.3.
func (e *EOS) StandardConcentration(X []float64, T float64) (float64, error) {
	P, err := e.Pressure(X, T)
	if err != nil {
		return 0, err
	}
	return P / (R * T), nil
}

const smallNumber = 1e-300

// ChemPotentials returns μ_k = μ*_k + RT·ln(max(X_k, ε)).
func (e *EOS) ChemPotentials(X []float64, T float64) ([]float64, error) {
	mu, err := e.StandardChemPotentials(X, T)
	if err != nil {
		return nil, err
	}
	rt := R * T
	for k, xk := range X {
		xx := math.Max(smallNumber, xk)
		mu[k] += rt * math.Log(xx)
	}
	return mu, nil
}

// StandardChemPotentials returns μ*_k = g⁰_k + RT·ln(P/P0).
func (e *EOS) StandardChemPotentials(X []float64, T float64) ([]float64, error) {
	props, err := e.table.At(T)
	if err != nil {
		return nil, err
	}
	P, err := e.Pressure(X, T)
	if err != nil {
		return nil, err
	}
	p0 := species.RefPressure
	tmp := R * T * math.Log(P/p0)
	mu := make([]float64, len(X))
	for k := range X {
		mu[k] = props[k].G*R*T + tmp
	}
	return mu, nil
}

// PartialMolarEnthalpies returns hbar_k per spec.md §4.3.
func (e *EOS) PartialMolarEnthalpies(X []float64, T, density float64) ([]float64, error) {
	props, err := e.table.At(T)
	if err != nil {
		return nil, err
	}
	rt := R * T
	hbar := make([]float64, len(X))
	for k := range X {
		hbar[k] = props[k].H * rt
	}
	beta := e.cfg.BlendFactor
	if beta == 0 {
		return hbar, nil
	}
	mw := meanMW(e.table, X)
	v := mw / density
	e.updateThermodynamics(X, T, v)
	temp := e.am - T*e.dAmdT
	for k := range X {
		hbar[k] += beta * (-rt + e.dK1dN[k]*temp + e.k1*(e.dAmdN[k]-T*e.d2AmdTdN[k]) + e.pressureFromState(X, T, v)*e.dVdN[k])
	}
	return hbar, nil
}

// PartialMolarEntropies returns sbar_k per spec.md §4.3.
func (e *EOS) PartialMolarEntropies(X []float64, T, density float64) ([]float64, error) {
	props, err := e.table.At(T)
	if err != nil {
		return nil, err
	}
	mw := meanMW(e.table, X)
	v := mw / density
	p := e.pressureFromState(X, T, v)
	p0 := species.RefPressure
	logp := math.Log(p / p0)
	sbar := make([]float64, len(X))
	for k, xk := range X {
		xx := math.Max(smallNumber, xk)
		sbar[k] = R*props[k].S + R*(-logp-math.Log(xx))
	}
	return sbar, nil
}

// PartialMolarIntEnergies returns ubar_k = RT·(h⁰/RT − 1).
func (e *EOS) PartialMolarIntEnergies(X []float64, T float64) ([]float64, error) {
	props, err := e.table.At(T)
	if err != nil {
		return nil, err
	}
	rt := R * T
	ubar := make([]float64, len(X))
	for k := range X {
		ubar[k] = rt * (props[k].H - 1)
	}
	return ubar, nil
}

// PartialMolarCp returns cpbar_k = R·cp⁰/R (ideal-gas, per species).
func (e *EOS) PartialMolarCp(X []float64, T float64) ([]float64, error) {
	props, err := e.table.At(T)
	if err != nil {
		return nil, err
	}
	cpbar := make([]float64, len(X))
	for k := range X {
		cpbar[k] = R * props[k].Cp
	}
	return cpbar, nil
}

// PartialMolarVolumes returns vbar_k = 1/ρ_molar for every species (the
// ideal-mixture convention retained verbatim from the original model).
func (e *EOS) PartialMolarVolumes(X []float64, density float64) []float64 {
	mw := meanMW(e.table, X)
	molarDensity := density / mw
	vol := 1.0 / molarDensity
	vbar := make([]float64, len(X))
	for k := range vbar {
		vbar[k] = vol
	}
	return vbar
}

// CritTemperature, CritPressure, CritVolume and CritCompressibility return
// the mole-fraction-weighted mixture critical constants, matching
// critTemperature()/critPressure()/critVolume()/critCompressibility() of the
// phase this engine was distilled from.
func (e *EOS) CritTemperature(X []float64) float64     { return e.mixer.MeanTc(X) }
func (e *EOS) CritPressure(X []float64) float64        { return e.mixer.MeanPc(X) }
func (e *EOS) CritVolume(X []float64) float64          { return e.mixer.MeanVc(X) }
func (e *EOS) CritCompressibility(X []float64) float64 { return e.mixer.MeanZc(X) }

// DipoleMoments returns the per-species dipole moment μ_k [Debye], matching
// getDipoleMoment() of the phase this engine was distilled from.
func (e *EOS) DipoleMoments() []float64 { return e.mixer.DipoleMoments() }

// CvTranslational, CvTranslationalRotational, CvRotational and CvVibrational
// are the deprecated per-species heat-capacity-component queries
// (cv_trans/cv_tr/cv_rot/cv_vib) of the phase this engine was distilled
// from. They only have a defined value for a StatMech-parameterized species
// thermo record; this engine's species are NASA-7 polynomials exclusively
// (species.NASA7), so every call returns Unsupported.
func (e *EOS) CvTranslational() (float64, error) {
	return 0, xerr.New(xerr.Unsupported, "eos: CvTranslational is only defined for StatMech-parameterized species")
}

func (e *EOS) CvTranslationalRotational(atomicity float64) (float64, error) {
	return 0, xerr.New(xerr.Unsupported, "eos: CvTranslationalRotational is only defined for StatMech-parameterized species")
}

func (e *EOS) CvRotational(atomicity float64) (float64, error) {
	return 0, xerr.New(xerr.Unsupported, "eos: CvRotational is only defined for StatMech-parameterized species")
}

func (e *EOS) CvVibrational(k int, T float64) (float64, error) {
	return 0, xerr.New(xerr.Unsupported, "eos: CvVibrational is only defined for StatMech-parameterized species")
}

// SetToEquilState computes standard-state partial pressures from μ_k/RT and
// returns the resulting mole-fraction vector and total pressure, with the
// exponent clamping of spec.md §4.3 (< −600 → zero; > 300 → squared-argument
// blow-up).
func (e *EOS) SetToEquilState(X []float64, T float64, muRT []float64) ([]float64, float64, error) {
	props, err := e.table.At(T)
	if err != nil {
		return nil, 0, err
	}
	p0 := species.RefPressure
	pp := make([]float64, len(X))
	var pres float64
	for k := range X {
		tmp := -props[k].G + muRT[k]
		switch {
		case tmp < -600:
			pp[k] = 0
		case tmp > 300:
			tmp2 := tmp / 300
			tmp2 *= tmp2
			pp[k] = p0 * math.Exp(300) * tmp2
		default:
			pp[k] = p0 * math.Exp(tmp)
		}
		pres += pp[k]
	}
	if pres <= 0 {
		return nil, 0, xerr.New(xerr.AssumptionViolated, "eos: equilibrium-state pressure collapsed to zero")
	}
	xout := make([]float64, len(X))
	for k := range X {
		xout[k] = pp[k] / pres
	}
	return xout, pres, nil
}
