package grid

import (
	"context"
	"fmt"

	"github.com/casthub/catadm/internal/core/domain"
)

// DragSession tracks an in-progress reorder gesture. Source and Target are
// indices into the full canonical collection, never into the rendered
// window, so a drag stays correct while most of the collection is
// virtualized out of view.
type DragSession struct {
	Source int
	Target int
}

// Active reports whether a drag is in progress
func (s DragSession) Active() bool {
	return s.Source >= 0
}

// NoDrag is the idle drag session
var NoDrag = DragSession{Source: -1, Target: -1}

// MoveIndex computes the index permutation of moving the element at from to
// position to in a sequence of length n. Indices are clamped into range.
// The result maps new position -> old index.
func MoveIndex(n, from, to int) []int {
	perm := make([]int, 0, n)
	if n <= 0 {
		return perm
	}
	from = clamp(from, 0, n-1)
	to = clamp(to, 0, n-1)

	for i := 0; i < n; i++ {
		if i != from {
			perm = append(perm, i)
		}
	}
	perm = append(perm[:to], append([]int{from}, perm[to:]...)...)
	return perm
}

// ReorderPlan computes the complete post-drop ordering: the asset at from is
// removed and reinserted at to, then every asset is assigned a dense 1-based
// order in the resulting sequence. The whole list goes to the backend so the
// server never has to reconcile a delta against state it may not share.
func ReorderPlan(assets []domain.Asset, from, to int) []domain.OrderEntry {
	perm := MoveIndex(len(assets), from, to)
	plan := make([]domain.OrderEntry, len(perm))
	for pos, idx := range perm {
		plan[pos] = domain.OrderEntry{ID: assets[idx].ID, Order: pos + 1}
	}
	return plan
}

// ApplyPlan returns the collection rearranged to match a reorder plan,
// with order fields rewritten. Used for the optimistic view between drop
// and the canonical refetch.
func ApplyPlan(assets []domain.Asset, plan []domain.OrderEntry) []domain.Asset {
	byID := make(map[string]domain.Asset, len(assets))
	for _, a := range assets {
		byID[a.ID] = a
	}
	out := make([]domain.Asset, 0, len(plan))
	for _, e := range plan {
		a, ok := byID[e.ID]
		if !ok {
			continue
		}
		a.Order = e.Order
		out = append(out, a)
	}
	return out
}

// ReorderFunc issues the bulk reorder mutation
type ReorderFunc func(ctx context.Context, ordering []domain.OrderEntry) error

// Reorderer commits drag-drop reorders. On failure the optimistic order is
// abandoned and the refresh callback re-fetches canonical order; there is no
// local revert bookkeeping.
type Reorderer struct {
	reorder ReorderFunc
	refresh func()
}

// NewReorderer wires a Reorderer to its mutation and recovery callbacks
func NewReorderer(reorder ReorderFunc, refresh func()) *Reorderer {
	return &Reorderer{reorder: reorder, refresh: refresh}
}

// Commit computes the plan for a finished drag and issues the single bulk
// reorder call. The returned plan lets the caller show the optimistic order
// immediately; on error the canonical refetch has already been requested.
func (r *Reorderer) Commit(ctx context.Context, assets []domain.Asset, session DragSession) ([]domain.OrderEntry, error) {
	if !session.Active() || len(assets) == 0 {
		return nil, nil
	}
	if session.Source == session.Target {
		return nil, nil
	}

	plan := ReorderPlan(assets, session.Source, session.Target)
	if err := r.reorder(ctx, plan); err != nil {
		if r.refresh != nil {
			r.refresh()
		}
		return nil, fmt.Errorf("reorder failed: %w", err)
	}
	return plan, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
