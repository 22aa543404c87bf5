package grid

import (
	"context"
	"sort"

	"github.com/casthub/catadm/internal/core/domain"
)

// Selection is the set of asset ids marked for a bulk action. It belongs to
// one mounted view and is cleared on close, page change and after every
// completed bulk action.
type Selection struct {
	ids map[string]struct{}
}

// NewSelection creates an empty selection
func NewSelection() *Selection {
	return &Selection{ids: make(map[string]struct{})}
}

// Toggle flips membership for one id
func (s *Selection) Toggle(id string) {
	if _, ok := s.ids[id]; ok {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
}

// SelectAll selects every currently-known asset id, visible or not
func (s *Selection) SelectAll(ids []string) {
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
}

// Clear empties the selection
func (s *Selection) Clear() {
	s.ids = make(map[string]struct{})
}

// Has reports membership
func (s *Selection) Has(id string) bool {
	_, ok := s.ids[id]
	return ok
}

// Count returns the selection size
func (s *Selection) Count() int {
	return len(s.ids)
}

// IDs returns the selected ids in stable (sorted) order
func (s *Selection) IDs() []string {
	out := make([]string, 0, len(s.ids))
	for id := range s.ids {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// BulkResult aggregates a fan-out bulk action. Partial failure is a normal
// outcome, reported as counts rather than all-or-nothing.
type BulkResult struct {
	Succeeded int
	Failed    int
	FirstErr  error
}

// Total returns the number of attempted items
func (r BulkResult) Total() int {
	return r.Succeeded + r.Failed
}

// DeleteFunc removes a single asset
type DeleteFunc func(ctx context.Context, assetID string) error

// Bulk fans bulk actions out to per-item mutation calls. Items are
// dispatched sequentially because the backend's per-item bookkeeping
// (order assignment in particular) depends on receipt order. One canonical
// refresh is requested after the whole batch, not one per item.
type Bulk struct {
	deleteOne DeleteFunc
	update    UpdateFunc
	refresh   func()
}

// NewBulk wires the bulk executor to its per-item mutations
func NewBulk(deleteOne DeleteFunc, update UpdateFunc, refresh func()) *Bulk {
	return &Bulk{deleteOne: deleteOne, update: update, refresh: refresh}
}

// Delete removes the given assets one at a time
func (b *Bulk) Delete(ctx context.Context, ids []string) BulkResult {
	var res BulkResult
	for _, id := range ids {
		if err := b.deleteOne(ctx, id); err != nil {
			res.Failed++
			if res.FirstErr == nil {
				res.FirstErr = err
			}
			continue
		}
		res.Succeeded++
	}
	if res.Total() > 0 && b.refresh != nil {
		b.refresh()
	}
	return res
}

// SetField applies the same field change to every given asset
func (b *Bulk) SetField(ctx context.Context, ids []string, change domain.FieldChange) BulkResult {
	var res BulkResult
	if err := change.Validate(); err != nil {
		res.Failed = len(ids)
		res.FirstErr = err
		return res
	}
	for _, id := range ids {
		if err := b.update(ctx, id, change); err != nil {
			res.Failed++
			if res.FirstErr == nil {
				res.FirstErr = err
			}
			continue
		}
		res.Succeeded++
	}
	if res.Total() > 0 && b.refresh != nil {
		b.refresh()
	}
	return res
}
