// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package config

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

func TestDefaultConfig(tst *testing.T) {
	chk.PrintTitle("config defaults")
	c := Default()
	chk.Float64(tst, "beta", 0, c.BlendFactor, 0)
	chk.Float64(tst, "reltol", 0, c.RelTol, 1e-4)
	chk.Float64(tst, "abstol", 0, c.AbsTol, 1e-8)
	chk.Float64(tst, "qss density scale", 0, c.RelativeQSSDensity, 1e-12)
}

func TestKijSelfIsZero(tst *testing.T) {
	chk.PrintTitle("config Kij(a,a) is zero")
	c := Default()
	chk.Float64(tst, "Kij(H2,H2)", 0, c.Kij("H2", "H2"), 0)
}

func TestKijDefaultAndOverrideOrderIndependent(tst *testing.T) {
	chk.PrintTitle("config Kij default and order-independent override")
	c := Default()
	chk.Float64(tst, "Kij default", 0, c.Kij("H2", "O2"), DefaultBinaryKij)
	chk.Float64(tst, "Kij default reversed", 0, c.Kij("O2", "H2"), DefaultBinaryKij)

	c.SetKij("H2", "O2", 0.05)
	chk.Float64(tst, "Kij override", 0, c.Kij("H2", "O2"), 0.05)
	chk.Float64(tst, "Kij override reversed", 0, c.Kij("O2", "H2"), 0.05)
}

func TestInitFromParams(tst *testing.T) {
	chk.PrintTitle("config Init from parameter record")
	c := &Config{}
	err := c.Init(fun.Params{
		&fun.P{N: "beta", V: 0.4},
		&fun.P{N: "reltol", V: 1e-3},
		&fun.P{N: "abstol", V: 1e-9},
		&fun.P{N: "skipundeclaredthirdbodies", V: 1},
	})
	if err != nil {
		tst.Fatalf("Init failed: %v", err)
	}
	chk.Float64(tst, "beta", 0, c.BlendFactor, 0.4)
	chk.Float64(tst, "reltol", 0, c.RelTol, 1e-3)
	chk.Float64(tst, "abstol", 0, c.AbsTol, 1e-9)
	chk.Float64(tst, "RelativeQSSDensity reset to default", 0, c.RelativeQSSDensity, 1e-12)
	if !c.SkipUndeclaredThirdBodies {
		tst.Fatalf("expected SkipUndeclaredThirdBodies true")
	}
}

func TestInitRejectsOutOfRangeBeta(tst *testing.T) {
	chk.PrintTitle("config Init rejects beta outside [0,1]")
	c := &Config{}
	err := c.Init(fun.Params{&fun.P{N: "beta", V: 1.5}})
	if err == nil {
		tst.Fatalf("expected error for beta=1.5")
	}
}

func TestInitRejectsUnknownParam(tst *testing.T) {
	chk.PrintTitle("config Init rejects an unrecognised parameter name")
	c := &Config{}
	err := c.Init(fun.Params{&fun.P{N: "bogus", V: 1}})
	if err == nil {
		tst.Fatalf("expected error for an unknown parameter name")
	}
}

func TestGetPrmsRoundTrip(tst *testing.T) {
	chk.PrintTitle("config GetPrms/Init round trip")
	c := Default()
	c.BlendFactor = 0.7
	prms := c.GetPrms(false)
	c2 := &Config{}
	if err := c2.Init(prms); err != nil {
		tst.Fatalf("Init failed: %v", err)
	}
	chk.Float64(tst, "beta round trip", 1e-12, c2.BlendFactor, c.BlendFactor)
}
