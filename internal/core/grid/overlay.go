package grid

import (
	"sync"

	"github.com/casthub/catadm/internal/core/domain"
)

// Overlay holds pending field changes that the backend has not confirmed
// yet, keyed by asset id. Projection merges the pending values over the
// canonical record; canonical data itself is never touched.
//
// Entries accumulate per field: a pending prompt edit and a pending country
// edit for the same asset coexist until each settles on its own.
type Overlay struct {
	mu      sync.Mutex
	entries map[string]map[domain.Field]domain.FieldChange
}

// NewOverlay creates an empty overlay store
func NewOverlay() *Overlay {
	return &Overlay{
		entries: make(map[string]map[domain.Field]domain.FieldChange),
	}
}

// Set records a pending change for the asset, replacing any previous
// pending value for the same field and keeping the others
func (o *Overlay) Set(assetID string, change domain.FieldChange) {
	o.mu.Lock()
	defer o.mu.Unlock()

	entry, ok := o.entries[assetID]
	if !ok {
		entry = make(map[domain.Field]domain.FieldChange)
		o.entries[assetID] = entry
	}
	entry[change.Field] = change
}

// Clear drops the pending change for one (asset, field) pair
func (o *Overlay) Clear(assetID string, field domain.Field) {
	o.mu.Lock()
	defer o.mu.Unlock()

	entry, ok := o.entries[assetID]
	if !ok {
		return
	}
	delete(entry, field)
	if len(entry) == 0 {
		delete(o.entries, assetID)
	}
}

// Discard drops every pending change for the asset
func (o *Overlay) Discard(assetID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.entries, assetID)
}

// Reset drops the whole overlay. Called when the owning view goes away so
// stale pending state cannot leak into a later mount.
func (o *Overlay) Reset() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.entries = make(map[string]map[domain.Field]domain.FieldChange)
}

// Project returns the asset with any pending changes merged on top.
// Pure with respect to its input; calling it twice without an intervening
// Set or Clear yields equal results.
func (o *Overlay) Project(a domain.Asset) domain.Asset {
	o.mu.Lock()
	defer o.mu.Unlock()

	entry, ok := o.entries[a.ID]
	if !ok {
		return a
	}
	for _, change := range entry {
		a = change.Apply(a)
	}
	return a
}

// Pending reports whether the asset has any unconfirmed change
func (o *Overlay) Pending(assetID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.entries[assetID]) > 0
}

// PendingField reports whether a specific (asset, field) pair is unconfirmed
func (o *Overlay) PendingField(assetID string, field domain.Field) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	entry, ok := o.entries[assetID]
	if !ok {
		return false
	}
	_, ok = entry[field]
	return ok
}

// Size returns the number of assets with pending changes
func (o *Overlay) Size() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.entries)
}
