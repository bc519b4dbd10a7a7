// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rates

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/gochem/reaction"
)

// Blender computes the falloff blending function F(T, Pr), following the
// mconduct/mreten Model registry shape: a small closed set of named
// blenders (Lindemann/Troe/SRI), each with a temperature-only precompute
// step and a pressure-dependent evaluation step, matching Cantera's
// FalloffManager::updateTemp / pr_to_falloff split (work buffer carries the
// T-only part between calls).
type Blender interface {
	// WorkSize returns how many float64 slots this blender needs in the
	// per-reaction work buffer.
	WorkSize() int
	// UpdateTemp precomputes the T-only part into work.
	UpdateTemp(T float64, work []float64)
	// F evaluates the blending factor given the reduced pressure pr and the
	// precomputed work slice.
	F(pr float64, work []float64) float64
}

type lindemannBlend struct{}

func (lindemannBlend) WorkSize() int                        { return 0 }
func (lindemannBlend) UpdateTemp(T float64, work []float64) {}
func (lindemannBlend) F(pr float64, work []float64) float64 { return 1 }

type troeBlend struct {
	p reaction.Troe
}

func (b troeBlend) WorkSize() int { return 1 }

func (b troeBlend) UpdateTemp(T float64, work []float64) {
	p := b.p
	fcent := (1-p.A)*math.Exp(-T/p.T3) + p.A*math.Exp(-T/p.T1)
	if p.HasT2 {
		fcent += math.Exp(-p.T2 / T)
	}
	work[0] = math.Log10(fcent)
}

func (b troeBlend) F(pr float64, work []float64) float64 {
	if pr <= 0 {
		return 1
	}
	log10Fcent := work[0]
	log10Pr := math.Log10(pr)
	c := -0.4 - 0.67*log10Fcent
	n := 0.75 - 1.27*log10Fcent
	f1 := (log10Pr + c) / (n - 0.14*(log10Pr+c))
	return math.Pow(10, log10Fcent/(1+f1*f1))
}

// sriBlendStateful stashes the T-dependent bracket [a·exp(-b/T)+exp(-T/c)]
// and T (for the T^e factor) in UpdateTemp, since F only receives pr.
type sriBlendStateful struct {
	p reaction.SRI
}

func (b sriBlendStateful) WorkSize() int { return 3 }

func (b sriBlendStateful) UpdateTemp(T float64, work []float64) {
	p := b.p
	work[0] = T
	work[1] = p.A*math.Exp(-p.B/T) + math.Exp(-T/p.C)
	work[2] = T
}

func (b sriBlendStateful) F(pr float64, work []float64) float64 {
	if pr <= 0 {
		return 1
	}
	p := b.p
	log10Pr := math.Log10(pr)
	X := 1.0 / (1.0 + log10Pr*log10Pr)
	d, e := p.D, p.E
	if !p.HasDE {
		d, e = 1, 0
	}
	return d * math.Pow(work[1], X) * math.Pow(work[2], e)
}

// NewBlender returns the Blender for the given falloff kind and parameters.
func NewBlender(kind reaction.FalloffKind, troe reaction.Troe, sri reaction.SRI) (Blender, error) {
	switch kind {
	case reaction.Lindemann:
		return lindemannBlend{}, nil
	case reaction.TroeBlend:
		return troeBlend{p: troe}, nil
	case reaction.SRIBlend:
		return sriBlendStateful{p: sri}, nil
	}
	return nil, chk.Err("rates: unknown falloff kind %d", kind)
}

// FalloffList manages the falloff-local-indexed blenders and their work
// buffers, and applies pr_to_falloff in place (spec.md §4.4, §4.7).
type FalloffList struct {
	blenders []Blender
	offsets  []int // start offset into the shared work buffer, per local index
	work     []float64
}

// NewFalloffList returns an empty list.
func NewFalloffList() *FalloffList { return &FalloffList{} }

// Install appends a blender at the next local falloff index.
func (l *FalloffList) Install(b Blender) {
	off := len(l.work)
	l.offsets = append(l.offsets, off)
	l.blenders = append(l.blenders, b)
	l.work = append(l.work, make([]float64, b.WorkSize())...)
}

// Replace overwrites the blender at local index i, keeping the work slot
// sized to the new blender's need (grows the shared buffer if necessary).
func (l *FalloffList) Replace(i int, b Blender) {
	l.blenders[i] = b
	need := b.WorkSize()
	have := l.slot(i)
	if len(have) < need {
		// simplest correct approach: rebuild offsets/work from scratch
		blenders := l.blenders
		l.offsets = nil
		l.work = nil
		l.blenders = nil
		for _, bb := range blenders {
			l.Install(bb)
		}
	}
}

func (l *FalloffList) slot(i int) []float64 {
	start := l.offsets[i]
	end := len(l.work)
	if i+1 < len(l.offsets) {
		end = l.offsets[i+1]
	}
	return l.work[start:end]
}

// N returns the number of installed falloff reactions.
func (l *FalloffList) N() int { return len(l.blenders) }

// UpdateTemp precomputes every blender's T-only part.
func (l *FalloffList) UpdateTemp(T float64) {
	for i, b := range l.blenders {
		b.UpdateTemp(T, l.slot(i))
	}
}

// PrToFalloff applies F·pr/(1+pr) in place to pr (local-indexed, length N()).
func (l *FalloffList) PrToFalloff(pr []float64) {
	for i, b := range l.blenders {
		F := b.F(pr[i], l.slot(i))
		pr[i] = F * pr[i] / (1 + pr[i])
	}
}
