// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kinetics implements the kinetics engine (C7) and the reaction-set
// editor (C8): reaction installation/modification, the rate-of-progress
// pipeline, and the index-compacting rebuild used by the adaptive activator.
package kinetics

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/io"

	"github.com/cpmech/gochem/eos"
	"github.com/cpmech/gochem/internal/xerr"
	"github.com/cpmech/gochem/qss"
	"github.com/cpmech/gochem/rates"
	"github.com/cpmech/gochem/reaction"
	"github.com/cpmech/gochem/species"
	"github.com/cpmech/gochem/stoich"
	"github.com/cpmech/gochem/thirdbody"
)

// R is the universal gas constant [J/(kmol·K)].
const R = 8314.462618

const smallNumber = 1e-300
const bigNumber = 1e300

// record retains everything needed to reinstall a reaction into a fresh
// Engine, which is how the reaction-set editor (C8) rebuilds a pruned set
// (Reduce below) without a separate gather/index-map implementation per
// sub-manager.
type record struct {
	r reaction.Reaction
}

// Engine holds one active reaction set over a fixed species table.
type Engine struct {
	table *species.Table
	eos   *eos.EOS

	records []record

	reactant   *stoich.ConcMatrix
	revProduct *stoich.ConcMatrix
	irrProduct *stoich.ConcMatrix
	delta      *stoich.DeltaMatrix // signed net (products - reactants), all reactions

	dn         []float64
	reversible []bool

	arr         *rates.ArrheniusList // elementary + three-body, global-indexed
	plog        *rates.PlogList
	plogLocalOf map[int]int
	cheb        *rates.ChebyshevList
	chebLocalOf map[int]int

	tb3b *thirdbody.Manager // three-body reactions, global-indexed entries

	fallHigh, fallLow *rates.ArrheniusList // local falloff-indexed
	fallTB            *thirdbody.Manager   // local falloff-indexed
	fallBlend         *rates.FalloffList
	fallGlobalIdx     []int       // local -> global
	fallIsChemAct     []bool      // local index: true => CHEMACT_RXN, false => FALLOFF_RXN
	fallLocalOf       map[int]int // global -> local

	// cached state
	temp, pres float64
	ropOK      bool

	rfn    []float64 // k_f per reaction (or k_high/k_low combined result for falloff before processing)
	ropf   []float64
	ropr   []float64
	ropnet []float64
	rkcn   []float64 // 1/Kc, zeroed for irreversible
	perturb []float64

	conc       []float64
	tbValues3b []float64
	tbValuesFO []float64

	fallHighDense []float64
	fallLowDense  []float64

	qssClosure *qss.Closure
}

// New returns an empty engine over table, using thermo for Gibbs/standard
// concentration lookups.
func New(table *species.Table, thermo *eos.EOS) *Engine {
	n := table.Len()
	return &Engine{
		table:       table,
		eos:         thermo,
		reactant:    stoich.NewConcMatrix(0),
		revProduct:  stoich.NewConcMatrix(0),
		irrProduct:  stoich.NewConcMatrix(0),
		delta:       stoich.NewDeltaMatrix(n, 0),
		arr:         rates.NewArrheniusList(),
		plog:        rates.NewPlogList(),
		cheb:        rates.NewChebyshevList(),
		tb3b:        thirdbody.NewManager(),
		fallHigh:    rates.NewArrheniusList(),
		fallLow:     rates.NewArrheniusList(),
		fallTB:      thirdbody.NewManager(),
		fallBlend:   rates.NewFalloffList(),
		fallLocalOf: make(map[int]int),
		plogLocalOf: make(map[int]int),
		chebLocalOf: make(map[int]int),
		temp:        math.NaN(),
		pres:        math.NaN(),
		conc:        make([]float64, n),
	}
}

// NReactions returns the number of installed reactions.
func (e *Engine) NReactions() int { return len(e.records) }

// Thermo returns the equation-of-state instance this engine's Gibbs-energy
// and standard-concentration lookups are grounded on.
func (e *Engine) Thermo() *eos.EOS { return e.eos }

// NSpecies returns the number of species in this engine's table.
func (e *Engine) NSpecies() int { return e.table.Len() }

// SignedStoichColumns returns the net (products - reactants) stoichiometry
// matrix in column-major (by reaction) form, for the adaptive activator (C9)
// to form its W_ij = Σ_ij·q_j contributions.
func (e *Engine) SignedStoichColumns() [][]stoich.Entry { return e.delta.Columns() }

// Reactions returns the installed reaction records in global index order,
// for the QSS closure (C10) builder to classify.
func (e *Engine) Reactions() []reaction.Reaction {
	out := make([]reaction.Reaction, len(e.records))
	for i, rec := range e.records {
		out[i] = rec.r
	}
	return out
}

// SetQSS attaches a QSS closure built over this engine's current reaction
// set (via qss.Build(species, e.Reactions())). UpdateROP then resolves it
// every call, per spec.md §4.10. Pass nil to detach.
func (e *Engine) SetQSS(c *qss.Closure) { e.qssClosure = c; e.ropOK = false }

func grow1(s []float64) []float64 { return append(s, 0) }

// AddReaction installs reaction r, dispatching on its kind, and returns its
// global index. Unknown tags return InvalidKind.
func (e *Engine) AddReaction(r reaction.Reaction) (int, error) {
	switch r.Kind {
	case reaction.Elementary, reaction.ThreeBody, reaction.Falloff, reaction.ChemicallyActivated, reaction.PLOG, reaction.Chebyshev:
	default:
		return 0, xerr.New(xerr.InvalidKind, "kinetics: unknown reaction kind %d", r.Kind)
	}

	i := len(e.records)
	e.records = append(e.records, record{r: r})
	e.reactant.Grow(1)
	e.revProduct.Grow(1)
	e.irrProduct.Grow(1)
	e.delta.GrowReactions(1)

	for sp, coeff := range r.Reactants {
		e.reactant.AddEntry(sp, i, coeff)
		e.delta.AddEntry(sp, i, -coeff)
	}
	if r.Reversible {
		for sp, coeff := range r.Products {
			e.revProduct.AddEntry(sp, i, coeff)
			e.delta.AddEntry(sp, i, coeff)
		}
		e.reversible = append(e.reversible, true)
	} else {
		for sp, coeff := range r.Products {
			e.irrProduct.AddEntry(sp, i, coeff)
			e.delta.AddEntry(sp, i, coeff)
		}
		e.reversible = append(e.reversible, false)
	}
	e.dn = append(e.dn, r.DeltaN())

	e.rfn = grow1(e.rfn)
	e.ropf = grow1(e.ropf)
	e.ropr = grow1(e.ropr)
	e.ropnet = grow1(e.ropnet)
	e.rkcn = grow1(e.rkcn)
	e.perturb = append(e.perturb, 1.0)

	switch r.Kind {
	case reaction.Elementary:
		e.arr.Install(i, r.Rate)
	case reaction.ThreeBody:
		e.arr.Install(i, r.Rate)
		if err := e.installThirdBody(e.tb3b, i, r.ThirdBody); err != nil {
			return 0, err
		}
		e.tbValues3b = append(e.tbValues3b, 0)
	case reaction.Falloff, reaction.ChemicallyActivated:
		local := e.fallHigh.N()
		e.fallHigh.Install(local, r.HighRate)
		e.fallLow.Install(local, r.LowRate)
		if err := e.installThirdBody(e.fallTB, local, r.ThirdBody); err != nil {
			return 0, err
		}
		e.tbValuesFO = append(e.tbValuesFO, 0)
		blender, err := rates.NewBlender(r.FalloffKind, r.Troe, r.SRI)
		if err != nil {
			return 0, err
		}
		e.fallBlend.Install(blender)
		e.fallGlobalIdx = append(e.fallGlobalIdx, i)
		e.fallIsChemAct = append(e.fallIsChemAct, r.Kind == reaction.ChemicallyActivated)
		e.fallLocalOf[i] = local
	case reaction.PLOG:
		e.plogLocalOf[i] = e.plog.N()
		e.plog.Install(i, r.PlogTable)
	case reaction.Chebyshev:
		e.chebLocalOf[i] = e.cheb.N()
		e.cheb.Install(i, r.ChebCoeffs, r.ChebTmin, r.ChebTmax, r.ChebPmin, r.ChebPmax)
	}

	e.invalidate()
	return i, nil
}

func (e *Engine) installThirdBody(mgr *thirdbody.Manager, idx int, eff reaction.ThirdBodyEff) error {
	n := e.table.Len()
	for sp := range eff.Eff {
		if sp < 0 || sp >= n {
			return xerr.New(xerr.UndeclaredSpecies, "kinetics: third-body efficiency references undeclared species index %d", sp)
		}
	}
	mgr.Install(idx, eff)
	return nil
}

// ModifyReaction replaces reaction i in place, preserving its index, and
// invalidates the T/P caches exactly as the original perturbation-sentinel
// scheme does (spec.md §9's "perturbing stored T, P").
func (e *Engine) ModifyReaction(i int, r reaction.Reaction) error {
	if i < 0 || i >= len(e.records) {
		return xerr.New(xerr.InvalidKind, "kinetics: reaction index %d out of range", i)
	}
	old := e.records[i].r
	if r.Kind != old.Kind {
		return xerr.New(xerr.InvalidKind, "kinetics: ModifyReaction cannot change kind (was %v, got %v)", old.Kind, r.Kind)
	}
	e.records[i].r = r

	e.reactant.SetColumn(i, keys(r.Reactants), vals(r.Reactants))
	e.delta.ClearRxn(i)
	for sp, coeff := range r.Reactants {
		e.delta.AddEntry(sp, i, -coeff)
	}
	if r.Reversible {
		e.revProduct.SetColumn(i, keys(r.Products), vals(r.Products))
		e.irrProduct.SetColumn(i, nil, nil)
		for sp, coeff := range r.Products {
			e.delta.AddEntry(sp, i, coeff)
		}
	} else {
		e.irrProduct.SetColumn(i, keys(r.Products), vals(r.Products))
		e.revProduct.SetColumn(i, nil, nil)
		for sp, coeff := range r.Products {
			e.delta.AddEntry(sp, i, coeff)
		}
	}
	e.reversible[i] = r.Reversible
	e.dn[i] = r.DeltaN()

	switch r.Kind {
	case reaction.Elementary, reaction.ThreeBody:
		// arr and tb3b are addressed by install position, not global index.
		arrLocal, tbLocal := 0, 0
		for _, rec := range e.records[:i] {
			switch rec.r.Kind {
			case reaction.Elementary:
				arrLocal++
			case reaction.ThreeBody:
				arrLocal++
				tbLocal++
			}
		}
		e.arr.Replace(arrLocal, r.Rate)
		if r.Kind == reaction.ThreeBody {
			e.tb3b.Replace(tbLocal, r.ThirdBody)
		}
	case reaction.Falloff, reaction.ChemicallyActivated:
		local := e.fallLocalOf[i]
		e.fallHigh.Replace(local, r.HighRate)
		e.fallLow.Replace(local, r.LowRate)
		e.fallTB.Replace(local, r.ThirdBody)
		blender, err := rates.NewBlender(r.FalloffKind, r.Troe, r.SRI)
		if err != nil {
			return err
		}
		e.fallBlend.Replace(local, blender)
		e.fallIsChemAct[local] = r.Kind == reaction.ChemicallyActivated
	case reaction.PLOG:
		e.plog.Replace(e.plogLocalOf[i], r.PlogTable)
	case reaction.Chebyshev:
		e.cheb.Replace(e.chebLocalOf[i], r.ChebCoeffs, r.ChebTmin, r.ChebTmax, r.ChebPmin, r.ChebPmax)
	}

	e.ropOK = false
	e.temp += 0.1234
	e.pres += 0.1234
	return nil
}

func keys(m reaction.Stoich) []int {
	out := make([]int, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// vals returns m's coefficients in the same (sorted) order as keys(m).
func vals(m reaction.Stoich) []float64 {
	ks := keys(m)
	out := make([]float64, 0, len(ks))
	for _, k := range ks {
		out = append(out, m[k])
	}
	return out
}

func (e *Engine) invalidate() {
	e.ropOK = false
	e.pres += 0.13579
}

// updateRatesT recomputes T-dependent (and, for PLOG/Chebyshev, P-dependent)
// rate data, following update_rates_T's two-level gate exactly.
func (e *Engine) updateRatesT(T, P float64) error {
	lnT := math.Log(T)
	if T != e.temp {
		if e.arr.N() > 0 {
			e.arr.Update(T, lnT, e.rfn)
		}
		if e.fallHigh.N() > 0 {
			highDense := make([]float64, e.fallHigh.N())
			lowDense := make([]float64, e.fallLow.N())
			e.fallHigh.UpdateDense(T, lnT, highDense)
			e.fallLow.UpdateDense(T, lnT, lowDense)
			e.fallHighDense, e.fallLowDense = highDense, lowDense
		}
		e.fallBlend.UpdateTemp(T)
		if err := e.updateKc(T, P); err != nil {
			return err
		}
		e.ropOK = false
	}
	if T != e.temp || P != e.pres {
		if e.plog.N() > 0 {
			e.plog.Update(T, lnT, P, e.rfn)
			e.ropOK = false
		}
		if e.cheb.N() > 0 {
			e.cheb.Update(T, lnT, P, e.rfn)
			e.ropOK = false
		}
	}
	e.temp, e.pres = T, P
	return nil
}

// updateRatesC recomputes concentration-dependent third-body boosts.
func (e *Engine) updateRatesC(X []float64, T, P float64) {
	ctot := P / (R * T)
	for i, xi := range X {
		e.conc[i] = xi * ctot
	}
	if e.tb3b.N() > 0 {
		e.tb3b.Update(e.conc, ctot, e.tbValues3b)
	}
	if e.fallTB.N() > 0 {
		e.fallTB.Update(e.conc, ctot, e.tbValuesFO)
	}
	e.ropOK = false
}

// updateKc recomputes the reciprocal equilibrium constant 1/Kc for every
// reaction, zeroing irreversible entries, per spec.md §9's "multiply ropr
// elementwise by Kc⁻¹ (set to zero for irreversible indices)".
func (e *Engine) updateKc(T, P float64) error {
	g, err := e.standardGibbsRT(T, P)
	if err != nil {
		return err
	}
	for i := range e.rkcn {
		e.rkcn[i] = 0
	}
	e.delta.Delta(g, e.rkcn)
	rrt := 1.0 / (R * T)
	logC0 := math.Log(P / (R * T))
	for i, rev := range e.reversible {
		if !rev {
			e.rkcn[i] = 0
			continue
		}
		e.rkcn[i] = math.Min(math.Exp(e.rkcn[i]*rrt-e.dn[i]*logC0), bigNumber)
	}
	return nil
}

// standardGibbsRT returns g0 + RT·ln(P/p0) (absolute, J/kmol) per species,
// i.e. the species standard chemical potential at the current pressure,
// since the stoichiometry contraction needs absolute Gibbs energies.
func (e *Engine) standardGibbsRT(T, P float64) ([]float64, error) {
	props, err := e.tableAt(T)
	if err != nil {
		return nil, err
	}
	p0 := species.RefPressure
	tmp := R * T * math.Log(P/p0)
	g := make([]float64, len(props))
	for k, pr := range props {
		g[k] = pr.G*R*T + tmp
	}
	return g, nil
}

func (e *Engine) tableAt(T float64) ([]species.Props, error) { return e.table.At(T) }

// EquilibriumConstants updates the T-cache and returns the raw (not
// reciprocal) equilibrium constant for every reaction, including
// irreversible ones, per spec.md §4.7.
func (e *Engine) EquilibriumConstants(T, P float64) ([]float64, error) {
	if err := e.updateRatesT(T, P); err != nil {
		return nil, err
	}
	g, err := e.standardGibbsRT(T, P)
	if err != nil {
		return nil, err
	}
	dg := make([]float64, e.NReactions())
	e.delta.Delta(g, dg)
	rrt := 1.0 / (R * T)
	logC0 := math.Log(P / (R * T))
	kc := make([]float64, e.NReactions())
	for i := range kc {
		kc[i] = math.Exp(-dg[i]*rrt + e.dn[i]*logC0)
	}
	e.temp = math.NaN() // force T-dependent re-update on next call
	return kc, nil
}

// processFalloffReactions applies the falloff/chemically-activated blending
// pipeline, scattering results into m_ropf at the falloff reactions' global
// indices, per spec.md §4.7 "Falloff processing."
func (e *Engine) processFalloffReactions() error {
	n := e.fallHigh.N()
	if n == 0 {
		return nil
	}
	pr := e.ropr[:n]
	for i := 0; i < n; i++ {
		pr[i] = e.fallLowDense[i] / (e.fallHighDense[i] + smallNumber)
	}
	e.fallTB.Multiply(pr, e.tbValuesFO)
	for i := 0; i < n; i++ {
		if math.IsNaN(pr[i]) || math.IsInf(pr[i], 0) {
			return xerr.New(xerr.NonFinite, "kinetics: falloff reduced pressure pr[%d] is not finite", i)
		}
	}
	e.fallBlend.PrToFalloff(pr)
	for i := 0; i < n; i++ {
		if e.fallIsChemAct[i] {
			pr[i] *= e.fallLowDense[i]
		} else {
			pr[i] *= e.fallHighDense[i]
		}
		e.ropf[e.fallGlobalIdx[i]] = pr[i]
	}
	return nil
}

// UpdateROP recomputes the rate-of-progress vectors for state (T, P, X) if
// stale, following updateROP's exact pipeline order.
func (e *Engine) UpdateROP(T, P float64, X []float64) error {
	e.updateRatesC(X, T, P)
	if err := e.updateRatesT(T, P); err != nil {
		return err
	}
	if e.ropOK {
		return nil
	}

	copy(e.ropf, e.rfn)
	if e.tb3b.N() > 0 {
		e.tb3b.Multiply(e.ropf, e.tbValues3b)
	}
	if e.fallHigh.N() > 0 {
		if err := e.processFalloffReactions(); err != nil {
			return err
		}
	}
	for i := range e.ropf {
		e.ropf[i] *= e.perturb[i]
	}

	copy(e.ropr, e.ropf)
	for i := range e.ropr {
		e.ropr[i] *= e.rkcn[i]
	}

	if e.qssClosure != nil {
		for _, gsp := range e.qssClosure.QSSSpecies() {
			e.conc[gsp] = 1
		}
	}
	e.reactant.Multiply(e.conc, e.ropf)
	e.revProduct.Multiply(e.conc, e.ropr)
	if e.qssClosure != nil {
		qssConc, err := e.qssClosure.Resolve(e.ropf, e.ropr)
		if err != nil {
			return err
		}
		e.qssClosure.Rescale(e.ropf, e.ropr, qssConc)
	}

	for j := range e.ropnet {
		e.ropnet[j] = e.ropf[j] - e.ropr[j]
		if math.IsNaN(e.ropnet[j]) || math.IsInf(e.ropnet[j], 0) {
			return xerr.New(xerr.NonFinite, "kinetics: ropnet[%d] is not finite", j)
		}
	}
	e.ropOK = true
	if e.eos.Verbose() {
		io.Pf("kinetics: recomputed ROP at T=%.6g K, P=%.6g Pa over %d reactions\n", T, P, len(e.ropnet))
	}
	return nil
}

// ROP returns the net, forward, and reverse rate-of-progress vectors from
// the most recent UpdateROP call.
func (e *Engine) ROP() (net, fwd, rev []float64) { return e.ropnet, e.ropf, e.ropr }

// GetFwdRateConstants recomputes and returns the effective forward rate
// constant for every reaction (k_f · [M] · falloff · perturbation), without
// multiplying by concentration products.
func (e *Engine) GetFwdRateConstants(T, P float64, X []float64) ([]float64, error) {
	e.updateRatesC(X, T, P)
	if err := e.updateRatesT(T, P); err != nil {
		return nil, err
	}
	copy(e.ropf, e.rfn)
	if e.tb3b.N() > 0 {
		e.tb3b.Multiply(e.ropf, e.tbValues3b)
	}
	if e.fallHigh.N() > 0 {
		if err := e.processFalloffReactions(); err != nil {
			return nil, err
		}
	}
	out := make([]float64, len(e.ropf))
	for i := range out {
		out[i] = e.ropf[i] * e.perturb[i]
	}
	return out, nil
}

// SetPerturbation scales reaction i's forward rate constant by factor (a
// sensitivity-analysis hook exposed by every reaction's perturbation slot).
func (e *Engine) SetPerturbation(i int, factor float64) { e.perturb[i] = factor; e.ropOK = false }
