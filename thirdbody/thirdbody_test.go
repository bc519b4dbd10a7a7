// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package thirdbody

import (
	"testing"

	"github.com/cpmech/gochem/reaction"
	"github.com/cpmech/gosl/chk"
)

func TestManagerDefaultEfficiencyOnly(tst *testing.T) {
	chk.PrintTitle("thirdbody manager with no overrides")
	m := NewManager()
	m.Install(3, reaction.ThirdBodyEff{Default: 1.0})
	chk.IntAssert(m.N(), 1)
	chk.IntAssert(m.WorkSize(), 1)

	conc := []float64{1.0, 2.0, 3.0}
	ctot := 6.0
	values := make([]float64, 1)
	m.Update(conc, ctot, values)
	chk.Float64(tst, "[M] default-only", 1e-12, values[0], ctot)
}

func TestManagerOverrideBoost(tst *testing.T) {
	chk.PrintTitle("thirdbody manager with efficiency overrides")
	m := NewManager()
	m.Install(0, reaction.ThirdBodyEff{
		Default: 1.0,
		Eff:     map[int]float64{0: 2.5, 2: 0.0},
	})
	conc := []float64{1.0, 2.0, 3.0}
	ctot := 6.0
	values := make([]float64, 1)
	m.Update(conc, ctot, values)
	want := ctot + (2.5-1.0)*conc[0] + (0.0-1.0)*conc[2]
	chk.Float64(tst, "[M] with overrides", 1e-12, values[0], want)
}

func TestManagerMultiplyScattersByGlobalIndex(tst *testing.T) {
	chk.PrintTitle("thirdbody manager multiply scatters by global index")
	m := NewManager()
	m.Install(2, reaction.ThirdBodyEff{Default: 3.0})
	rate := []float64{1.0, 1.0, 1.0}
	values := []float64{10.0}
	m.Multiply(rate, values)
	chk.Float64(tst, "untouched rate[0]", 0, rate[0], 1.0)
	chk.Float64(tst, "untouched rate[1]", 0, rate[1], 1.0)
	chk.Float64(tst, "boosted rate[2]", 1e-12, rate[2], 10.0)
}

func TestManagerReplace(tst *testing.T) {
	chk.PrintTitle("thirdbody manager replace preserves global index")
	m := NewManager()
	m.Install(5, reaction.ThirdBodyEff{Default: 1.0})
	m.Replace(0, reaction.ThirdBodyEff{Default: 2.0})
	values := make([]float64, 1)
	m.Update([]float64{1, 1}, 2.0, values)
	chk.Float64(tst, "replaced default applied", 1e-12, values[0], 4.0)

	rate := make([]float64, 6)
	for i := range rate {
		rate[i] = 1.0
	}
	m.Multiply(rate, values)
	chk.Float64(tst, "replace keeps original global index", 1e-12, rate[5], 4.0)
}
