// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package critprop implements the critical-property store (C2): per-species
// critical constants and the Peng-Robinson binary mixing rules derived from
// them. It follows the mdl/* Model registry shape (a name-keyed table,
// built fresh by each BuiltinTable call, looked up by name) used throughout
// gofem's constitutive-model packages.
package critprop

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"

	"github.com/cpmech/gochem/config"
)

// R is the universal gas constant [J/(kmol·K)].
const R = 8314.462618

// Props is one species' critical-property tuple, per spec.md §3.
type Props struct {
	Tc  float64 // critical temperature [K]
	Pc  float64 // critical pressure [Pa]
	Vc  float64 // critical volume [m3/kmol]
	Zc  float64 // critical compressibility [-]
	W   float64 // acentric factor ω [-]
	Sig float64 // Lennard-Jones collision diameter σ [Å] (transport hand-off, unused by EOS/kinetics core)
	Mu  float64 // dipole moment μ [Debye] (transport hand-off, unused by EOS/kinetics core)
}

// Table is a species-name-keyed critical-property store.
type Table struct {
	byName map[string]Props
	// Suspect flags entries the literature table copied verbatim from
	// another species with no independent measurement (open question 9.1).
	Suspect map[string]bool
}

// NewTable returns an empty critical-property table.
func NewTable() *Table {
	return &Table{byName: make(map[string]Props), Suspect: make(map[string]bool)}
}

// Set installs or overrides the critical properties for name.
func (t *Table) Set(name string, p Props) { t.byName[name] = p }

// Lookup returns the critical properties for name.
func (t *Table) Lookup(name string) (Props, bool) {
	p, ok := t.byName[name]
	return p, ok
}

// BuiltinTable returns the engine's hard-coded critical-property table
// (spec.md §6: "currently a built-in hard-coded table keyed by species
// name — open question 9.3"). Values are representative literature
// constants; OH and HO2 are flagged Suspect because their entries are copies
// of O's and H2O2's in the source tables this was distilled from (open
// question 9.1) — callers should prefer host-supplied data for these species
// when available (see critprop.Table.Set).
func BuiltinTable() *Table {
	t := NewTable()
	// name: Tc[K], Pc[Pa], Vc[m3/kmol], ω, σ[Å], μ[Debye]
	// Zc is left at the EOS-consistent Zc = Pc*Vc/(R*Tc) rather than an
	// independently tabulated value, matching ReadCriticalProperties().
	t.Set("H2", Props{Tc: 33.0, Pc: 1.284e6, Vc: 64.28e-3, Zc: zc(33.0, 1.284e6, 64.28e-3), W: -0.216, Sig: 2.827, Mu: 0})
	t.Set("O2", Props{Tc: 154.58, Pc: 5.043e6, Vc: 73.37e-3, Zc: zc(154.58, 5.043e6, 73.37e-3), W: 0.0222, Sig: 3.458, Mu: 0})
	t.Set("N2", Props{Tc: 126.19, Pc: 3.3958e6, Vc: 89.41e-3, Zc: zc(126.19, 3.3958e6, 89.41e-3), W: 0.0372, Sig: 3.621, Mu: 0})
	t.Set("H2O", Props{Tc: 647.10, Pc: 22.064e6, Vc: 55.95e-3, Zc: zc(647.10, 22.064e6, 55.95e-3), W: 0.3443, Sig: 2.641, Mu: 1.855})
	t.Set("CO", Props{Tc: 132.9, Pc: 3.499e6, Vc: 0.0930, Zc: zc(132.9, 3.499e6, 0.0930), W: 0.066, Sig: 3.690, Mu: 0.1})
	t.Set("CO2", Props{Tc: 304.1, Pc: 7.377e6, Vc: 0.0940, Zc: zc(304.1, 7.377e6, 0.0940), W: 0.239, Sig: 3.941, Mu: 0})
	t.Set("CH4", Props{Tc: 190.6, Pc: 4.599e6, Vc: 0.0986, Zc: zc(190.6, 4.599e6, 0.0986), W: 0.011, Sig: 3.758, Mu: 0})

	// O and H carry genuine (if old) literature critical constants; OH is
	// tabulated as an exact copy of O's four values and HO2 an exact copy of
	// H2O2's, matching ReadCriticalProperties() in the source this engine's
	// constants were distilled from verbatim (open question 9.1) — these are
	// the two Suspect entries, not O/H/H2O2 themselves.
	oTc, oPc, oVc, oW := 105.28, 7.088e6, 41.21e-3, 0.0
	t.Set("O", Props{Tc: oTc, Pc: oPc, Vc: oVc, Zc: zc(oTc, oPc, oVc), W: oW, Sig: 2.750, Mu: 0})
	t.Set("OH", Props{Tc: oTc, Pc: oPc, Vc: oVc, Zc: zc(oTc, oPc, oVc), W: oW, Sig: 2.750, Mu: 1.66})
	t.Suspect["OH"] = true

	hTc, hPc, hVc, hW := 190.82, 31.013e6, 17.07e-3, 0.0
	t.Set("H", Props{Tc: hTc, Pc: hPc, Vc: hVc, Zc: zc(hTc, hPc, hVc), W: hW, Sig: 2.050, Mu: 0})

	h2o2Tc, h2o2Pc, h2o2Vc, h2o2W := 141.34, 4.786e6, 81.93e-3, 0.0
	t.Set("H2O2", Props{Tc: h2o2Tc, Pc: h2o2Pc, Vc: h2o2Vc, Zc: zc(h2o2Tc, h2o2Pc, h2o2Vc), W: h2o2W, Sig: 4.196, Mu: 2.26})
	t.Set("HO2", Props{Tc: h2o2Tc, Pc: h2o2Pc, Vc: h2o2Vc, Zc: zc(h2o2Tc, h2o2Pc, h2o2Vc), W: h2o2W, Sig: 3.458, Mu: 2.0})
	t.Suspect["HO2"] = true
	return t
}

func zc(tc, pc, vc float64) float64 { return pc * vc / (R * tc) }

// Pair holds the combined (binary) Peng-Robinson constants for species pair
// (i, j), per spec.md §4.2.
type Pair struct {
	Tc, Pc, Vc, Zc, W float64
	A, B              float64 // A = a_ij [Pa·(m3/kmol)²]; B is not set by combine (b_i is Mixer.B)
	C                 float64 // c_ij = 0.37464 + 1.54226ω_ij − 0.26992ω_ij²
}

// Mixer computes and caches binary PR mixing constants for an ordered
// species list, given a critical-property table and a binary k_ij source.
type Mixer struct {
	names []string
	props []Props
	pairs [][]Pair // symmetric; pairs[i][j] == pairs[j][i]
	b     []float64
}

// NewMixer builds binary mixing data for species `names`, pulling critical
// properties from table and interaction coefficients from cfg.
func NewMixer(names []string, table *Table, cfg *config.Config) (*Mixer, error) {
	n := len(names)
	m := &Mixer{names: names, props: make([]Props, n), pairs: make([][]Pair, n), b: make([]float64, n)}
	for i, name := range names {
		p, ok := table.Lookup(name)
		if !ok {
			return nil, chk.Err("critprop: species %q has no critical-property entry", name)
		}
		m.props[i] = p
		m.b[i] = 0.077796 * R * p.Tc / p.Pc
	}
	for i := 0; i < n; i++ {
		m.pairs[i] = make([]Pair, n)
	}
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			kij := cfg.Kij(names[i], names[j])
			pr := combine(m.props[i], m.props[j], kij)
			m.pairs[i][j] = pr
			m.pairs[j][i] = pr
		}
	}
	return m, nil
}

// combine applies the binary mixing rules of spec.md §4.2.
func combine(pi, pj Props, kij float64) Pair {
	TcI, TcJ := pi.Tc, pj.Tc
	Tc := math.Sqrt(TcI*TcJ) * (1 - kij)
	vc13 := math.Cbrt(pi.Vc) + math.Cbrt(pj.Vc)
	Vc := math.Pow(vc13/2, 3)
	Zc := 0.5 * (pi.Zc + pj.Zc)
	Pc := Zc * R * Tc / Vc
	W := 0.5 * (pi.W + pj.W)
	A := 0.457236 * (R * Tc) * (R * Tc) / Pc
	C := 0.37464 + 1.54226*W - 0.26992*W*W
	return Pair{Tc: Tc, Pc: Pc, Vc: Vc, Zc: Zc, W: W, A: A, C: C}
}

// Pair returns the cached binary constants for species indices (i, j).
func (m *Mixer) Pair(i, j int) Pair { return m.pairs[i][j] }

// B returns species i's PR co-volume parameter b_i.
func (m *Mixer) B(i int) float64 { return m.b[i] }

// N returns the number of species the mixer was built for.
func (m *Mixer) N() int { return len(m.names) }

func (m *Mixer) meanX(X []float64, pick func(Props) float64) float64 {
	var s float64
	for i, xi := range X {
		s += xi * pick(m.props[i])
	}
	return s
}

// MeanTc, MeanPc, MeanVc and MeanZc return the mole-fraction-weighted
// mixture critical constants, matching critTemperature()/critPressure()/
// critVolume()/critCompressibility() of the phase this was distilled from.
func (m *Mixer) MeanTc(X []float64) float64 { return m.meanX(X, func(p Props) float64 { return p.Tc }) }
func (m *Mixer) MeanPc(X []float64) float64 { return m.meanX(X, func(p Props) float64 { return p.Pc }) }
func (m *Mixer) MeanVc(X []float64) float64 { return m.meanX(X, func(p Props) float64 { return p.Vc }) }
func (m *Mixer) MeanZc(X []float64) float64 { return m.meanX(X, func(p Props) float64 { return p.Zc }) }

// DipoleMoments returns the per-species dipole moment μ_k [Debye], in table
// index order, matching getDipoleMoment() of the phase this was distilled
// from (a plain per-species copy, not mole-fraction weighted).
func (m *Mixer) DipoleMoments() []float64 {
	out := make([]float64, len(m.props))
	for i, p := range m.props {
		out[i] = p.Mu
	}
	return out
}

// InitSpecies installs species name's critical properties from a parameter
// record ("tc", "pc", "vc", "w", "sig", "mu"; "zc" defaults to the
// EOS-consistent Pc·Vc/(R·Tc) when omitted), mirroring the mdl/*.Model.Init
// contract so a host can override BuiltinTable's entries (spec.md §6, open
// question 9.3) without depending on this package's Go API.
func (t *Table) InitSpecies(name string, prms fun.Params) error {
	p := Props{}
	haveZc := false
	for _, prm := range prms {
		switch strings.ToLower(prm.N) {
		case "tc":
			p.Tc = prm.V
		case "pc":
			p.Pc = prm.V
		case "vc":
			p.Vc = prm.V
		case "zc":
			p.Zc = prm.V
			haveZc = true
		case "w", "omega":
			p.W = prm.V
		case "sig", "sigma":
			p.Sig = prm.V
		case "mu", "dipole":
			p.Mu = prm.V
		default:
			return chk.Err("critprop: parameter named %q is incorrect", prm.N)
		}
	}
	if !haveZc {
		p.Zc = zc(p.Tc, p.Pc, p.Vc)
	}
	t.Set(name, p)
	return nil
}
