package grid

import (
	"context"
	"sync"
	"time"

	"github.com/casthub/catadm/internal/core/domain"
)

const (
	// DefaultDelay is the debounce interval for toggle and numeric fields,
	// which are usually finalized by a single click
	DefaultDelay = 300 * time.Millisecond

	// DefaultPromptDelay is the longer interval for free-text edits, to
	// tolerate continued typing
	DefaultPromptDelay = 500 * time.Millisecond
)

// UpdateFunc issues the remote single-field mutation
type UpdateFunc func(ctx context.Context, assetID string, change domain.FieldChange) error

// SettleEvent reports one settled (asset, field) mutation. Err is nil on
// success; on failure the overlay has already been reverted to canonical.
type SettleEvent struct {
	AssetID string
	Field   domain.Field
	Err     error
}

// DispatcherConfig wires a Dispatcher to its collaborators
type DispatcherConfig struct {
	Update      UpdateFunc
	Delay       time.Duration // zero means DefaultDelay
	PromptDelay time.Duration // zero means DefaultPromptDelay

	// OnSettle is invoked after overlay/in-flight bookkeeping for a settled
	// mutation. Optional. Runs on the dispatcher's goroutine.
	OnSettle func(SettleEvent)

	// Refresh requests a canonical re-fetch after a successful mutation.
	// Optional. Runs on the dispatcher's goroutine.
	Refresh func()
}

type pairKey struct {
	assetID string
	field   domain.Field
}

// pendingMutation tracks one (asset, field) pair between the first edit and
// the settlement of its last outbound request
type pendingMutation struct {
	timer   *time.Timer
	latest  domain.FieldChange
	busy    bool // a request for this pair is on the wire
	queued  bool // the timer fired while busy; redispatch on settle
}

// Dispatcher coalesces bursts of edits into single remote mutations.
//
// Every (asset, field) pair owns a trailing-edge debounce timer: each new
// edit shows up in the overlay immediately and restarts the timer with the
// latest value, so a burst produces exactly one outbound call. The pair's
// timer-plus-busy flag is also what prevents two concurrent requests for
// the same field; edits to other fields or assets proceed independently.
type Dispatcher struct {
	mu       sync.Mutex
	cfg      DispatcherConfig
	ctx      context.Context
	overlay  *Overlay
	pending  map[pairKey]*pendingMutation
	inflight map[string]int // assetID -> live pair count, drives spinners
	closed   bool
}

// NewDispatcher creates a dispatcher writing optimistic state to overlay.
// ctx bounds every remote call the dispatcher issues.
func NewDispatcher(ctx context.Context, overlay *Overlay, cfg DispatcherConfig) *Dispatcher {
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.PromptDelay <= 0 {
		cfg.PromptDelay = DefaultPromptDelay
	}
	return &Dispatcher{
		cfg:      cfg,
		ctx:      ctx,
		overlay:  overlay,
		pending:  make(map[pairKey]*pendingMutation),
		inflight: make(map[string]int),
	}
}

func (d *Dispatcher) delayFor(field domain.Field) time.Duration {
	if field == domain.FieldPrompt {
		return d.cfg.PromptDelay
	}
	return d.cfg.Delay
}

// Submit records an edit: the overlay reflects it immediately, the asset is
// marked in-flight, and the pair's debounce timer restarts with this value.
// Invalid changes are rejected without touching any state.
func (d *Dispatcher) Submit(asset domain.Asset, change domain.FieldChange) error {
	if err := change.Validate(); err != nil {
		return err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}

	d.overlay.Set(asset.ID, change)

	k := pairKey{assetID: asset.ID, field: change.Field}
	p, ok := d.pending[k]
	if !ok {
		p = &pendingMutation{}
		d.pending[k] = p
		d.inflight[asset.ID]++
	}
	p.latest = change

	if p.timer != nil {
		p.timer.Stop()
	}
	p.timer = time.AfterFunc(d.delayFor(change.Field), func() {
		d.fire(k)
	})
	return nil
}

// fire runs when a pair's debounce timer elapses
func (d *Dispatcher) fire(k pairKey) {
	d.mu.Lock()
	p, ok := d.pending[k]
	if !ok || d.closed {
		d.mu.Unlock()
		return
	}
	p.timer = nil
	if p.busy {
		// A request for this pair is still on the wire; remember to send
		// the latest value once it settles instead of dispatching a second
		// concurrent call.
		p.queued = true
		d.mu.Unlock()
		return
	}
	p.busy = true
	change := p.latest
	d.mu.Unlock()

	d.issue(k, change)
}

// issue performs the remote call and settles the pair
func (d *Dispatcher) issue(k pairKey, change domain.FieldChange) {
	err := d.cfg.Update(d.ctx, k.assetID, change)

	d.mu.Lock()
	if d.closed {
		// The view is gone; the response's effect is discarded.
		d.mu.Unlock()
		return
	}

	p := d.pending[k]
	if p == nil {
		d.mu.Unlock()
		return
	}
	p.busy = false

	if p.queued {
		// A newer value is waiting; keep the pair alive and send it now.
		p.queued = false
		p.busy = true
		next := p.latest
		d.mu.Unlock()
		d.notify(SettleEvent{AssetID: k.assetID, Field: k.field, Err: err}, err)
		d.issue(k, next)
		return
	}

	if p.timer == nil {
		// No newer edit owns this pair: clear the overlay entry (on failure
		// this reverts the visible value to canonical) and drop the
		// in-flight marker.
		d.overlay.Clear(k.assetID, k.field)
		delete(d.pending, k)
		d.inflight[k.assetID]--
		if d.inflight[k.assetID] <= 0 {
			delete(d.inflight, k.assetID)
		}
	}
	d.mu.Unlock()

	d.notify(SettleEvent{AssetID: k.assetID, Field: k.field, Err: err}, err)
}

func (d *Dispatcher) notify(ev SettleEvent, err error) {
	if d.cfg.OnSettle != nil {
		d.cfg.OnSettle(ev)
	}
	if err == nil && d.cfg.Refresh != nil {
		d.cfg.Refresh()
	}
}

// InFlight reports whether the asset has any unsettled mutation. Drives the
// per-card disabled/spinner state.
func (d *Dispatcher) InFlight(assetID string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inflight[assetID] > 0
}

// PendingCount returns the number of live (asset, field) pairs
func (d *Dispatcher) PendingCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.pending)
}

// Close cancels all timers and discards the overlay. Responses still on the
// wire settle into nothing. Safe to call more than once.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return
	}
	d.closed = true
	for k, p := range d.pending {
		if p.timer != nil {
			p.timer.Stop()
		}
		delete(d.pending, k)
	}
	d.inflight = make(map[string]int)
	d.overlay.Reset()
}
