// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package xerr implements the kind-tagged error values used across gochem.
package xerr

import (
	"github.com/cpmech/gosl/io"
)

// Kind identifies the category of a computational error, per the engine's
// error taxonomy. Kinds are compared with Is, never by formatted message.
type Kind int

const (
	// NotReady: operation requested before phase initialisation
	NotReady Kind = iota
	// InvalidKind: unknown reaction tag at add/modify time
	InvalidKind
	// UndeclaredSpecies: third-body efficiency references an unknown species
	UndeclaredSpecies
	// NonFinite: a computed rate or property is NaN/Inf during updateROP
	NonFinite
	// CubicSolveDegenerate: EOS solve hit the |Δ|≤ε branch
	CubicSolveDegenerate
	// AssumptionViolated: QSS install finds >1 QSS species on one side
	AssumptionViolated
	// Unsupported: deprecated per-species query not defined for this model
	Unsupported
)

func (k Kind) String() string {
	switch k {
	case NotReady:
		return "NotReady"
	case InvalidKind:
		return "InvalidKind"
	case UndeclaredSpecies:
		return "UndeclaredSpecies"
	case NonFinite:
		return "NonFinite"
	case CubicSolveDegenerate:
		return "CubicSolveDegenerate"
	case AssumptionViolated:
		return "AssumptionViolated"
	case Unsupported:
		return "Unsupported"
	}
	return "Unknown"
}

// Error is a kind-tagged error. The message is produced with io.Sf the same
// way the rest of the pack builds chk.Err strings.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string { return e.Kind.String() + ": " + e.Msg }

// Is reports whether target is an *Error with the same Kind, enabling
// errors.Is(err, xerr.Sentinel(kind)).
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// New builds a kind-tagged error with a formatted message.
func New(kind Kind, format string, args ...interface{}) error {
	return &Error{Kind: kind, Msg: io.Sf(format, args...)}
}

// Sentinel returns a bare *Error carrying only a Kind, for errors.Is checks:
//
//	if errors.Is(err, xerr.Sentinel(xerr.NonFinite)) { ... }
func Sentinel(kind Kind) error { return &Error{Kind: kind} }
