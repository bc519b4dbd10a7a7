// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rates

import (
	"math"
	"sort"

	"github.com/cpmech/gochem/reaction"
)

// PlogList evaluates pressure-logarithm reactions: standard Chemkin-style
// PLOG log-linear interpolation between bracketing pressure nodes. Entries
// sharing a pressure node are summed (duplicate-Arrhenius convention).
type PlogList struct {
	globalIdx []int
	tables    [][]reaction.PlogEntry // sorted ascending by P; entries sharing a P are summed at evaluation
}

// NewPlogList returns an empty list.
func NewPlogList() *PlogList { return &PlogList{} }

// Install appends a PLOG table for reaction index gidx. The table is sorted
// by pressure on install.
func (l *PlogList) Install(gidx int, table []reaction.PlogEntry) {
	t := append([]reaction.PlogEntry(nil), table...)
	sort.Slice(t, func(i, j int) bool { return t[i].P < t[j].P })
	l.globalIdx = append(l.globalIdx, gidx)
	l.tables = append(l.tables, t)
}

// Replace overwrites the local-index entry's table.
func (l *PlogList) Replace(localIdx int, table []reaction.PlogEntry) {
	t := append([]reaction.PlogEntry(nil), table...)
	sort.Slice(t, func(i, j int) bool { return t[i].P < t[j].P })
	l.tables[localIdx] = t
}

// N returns the number of installed reactions.
func (l *PlogList) N() int { return len(l.tables) }

// Update evaluates k(T, P) for every installed entry and scatters the
// result into out at the entry's global reaction index.
func (l *PlogList) Update(T, lnT, P float64, out []float64) {
	logP := math.Log(P)
	for i, t := range l.tables {
		out[l.globalIdx[i]] = evalPlog(t, T, lnT, logP)
	}
}

func evalPlog(t []reaction.PlogEntry, T, lnT, logP float64) float64 {
	if len(t) == 0 {
		return 0
	}
	// kAt sums the rates of every entry sharing node i's pressure.
	kAt := func(i int) float64 {
		var k float64
		for _, e := range t {
			if e.P == t[i].P {
				k += evalArrhenius(e.Arrhenius, T, lnT)
			}
		}
		return k
	}
	if len(t) == 1 || logP <= math.Log(t[0].P) {
		return kAt(0)
	}
	last := len(t) - 1
	if logP >= math.Log(t[last].P) {
		return kAt(last)
	}
	// find bracket [lo, hi] with t[lo].P <= P <= t[hi].P
	lo := 0
	for i := 0; i < last; i++ {
		if t[i].P <= math.Exp(logP) && math.Exp(logP) <= t[i+1].P {
			lo = i
			break
		}
	}
	hi := lo + 1
	k1 := kAt(lo)
	k2 := kAt(hi)
	logP1 := math.Log(t[lo].P)
	logP2 := math.Log(t[hi].P)
	if logP2 == logP1 {
		return k1
	}
	frac := (logP - logP1) / (logP2 - logP1)
	logK := math.Log(k1) + frac*(math.Log(k2)-math.Log(k1))
	return math.Exp(logK)
}
