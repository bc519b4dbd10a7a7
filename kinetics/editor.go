// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package kinetics

import "github.com/cpmech/gochem/internal/xerr"

// Reduce implements the reaction-set editor (C8): given an active mask of
// length NReactions(), it returns a freshly built Engine containing only the
// reactions flagged active, in their original relative order, with indices
// compacted to 0..k-1, where k is the number of true entries in active.
//
// reduceFrom in the engine this was distilled from gathers each sub-manager's
// arrays in place using a prefix-sum index map built by a dedicated gather
// helper. That helper's internals aren't available to port faithfully, so
// this rebuilds the same net effect by replaying AddReaction against a new
// Engine for each surviving record — every sub-manager's own Install logic
// already knows how to place a reaction at the next compacted index, so no
// separate gather step is needed.
func (e *Engine) Reduce(active []bool) (*Engine, error) {
	if len(active) != len(e.records) {
		return nil, xerr.New(xerr.InvalidKind, "kinetics: Reduce mask length %d does not match reaction count %d", len(active), len(e.records))
	}
	out := New(e.table, e.eos)
	for i, keep := range active {
		if !keep {
			continue
		}
		if _, err := out.AddReaction(e.records[i].r); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ActiveIndexMap returns, for a would-be Reduce(active) call, the mapping
// from old global reaction index to new compacted index (-1 for reactions
// that would be dropped). This mirrors the _idMap a caller needs to
// translate other per-reaction bookkeeping (e.g. the adaptive activator's
// own history) across a reduction.
func (e *Engine) ActiveIndexMap(active []bool) []int {
	idMap := make([]int, len(active))
	next := 0
	for i, keep := range active {
		if keep {
			idMap[i] = next
			next++
		} else {
			idMap[i] = -1
		}
	}
	return idMap
}
