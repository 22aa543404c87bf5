package grid

import (
	"context"
	"sync"
)

// CellState is the lifecycle of one lazily-loaded media cell
type CellState int

const (
	CellNotInView CellState = iota
	CellLoading
	CellLoaded
	CellFailed
)

// String returns a short label for status displays
func (s CellState) String() string {
	switch s {
	case CellNotInView:
		return "idle"
	case CellLoading:
		return "loading"
	case CellLoaded:
		return "loaded"
	case CellFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// FetchFunc retrieves the media bytes behind a URL
type FetchFunc func(ctx context.Context, url string) ([]byte, error)

// LazyCell defers fetching a media resource until the cell first enters the
// visible window. The trigger is one-shot per mount: once armed it never
// re-fires when the cell scrolls out and back in, and Loaded/Failed are
// terminal. A remount (new LazyCell) starts over at NotInView.
type LazyCell struct {
	mu     sync.Mutex
	url    string
	state  CellState
	data   []byte
	err    error
	armed  bool
	fetch  FetchFunc
	onDone func()
}

// NewLazyCell creates an idle cell. onDone is invoked (on the fetch
// goroutine) when the load settles, so the UI can repaint; it may be nil.
func NewLazyCell(url string, fetch FetchFunc, onDone func()) *LazyCell {
	return &LazyCell{url: url, fetch: fetch, onDone: onDone}
}

// EnterView notifies the cell that it intersects the visible window.
// The first call starts the fetch; every later call is a no-op.
func (c *LazyCell) EnterView(ctx context.Context) {
	c.mu.Lock()
	if c.armed {
		c.mu.Unlock()
		return
	}
	c.armed = true
	c.state = CellLoading
	c.mu.Unlock()

	go c.load(ctx)
}

func (c *LazyCell) load(ctx context.Context) {
	data, err := c.fetch(ctx, c.url)

	c.mu.Lock()
	if err != nil {
		// Terminal for this mount; the cell renders a placeholder and is
		// never retried automatically.
		c.state = CellFailed
		c.err = err
	} else {
		c.state = CellLoaded
		c.data = data
	}
	done := c.onDone
	c.mu.Unlock()

	if done != nil {
		done()
	}
}

// State returns the cell's current lifecycle state
func (c *LazyCell) State() CellState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Data returns the fetched bytes, nil unless Loaded
func (c *LazyCell) Data() []byte {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data
}

// Err returns the load error, nil unless Failed
func (c *LazyCell) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.err
}

// CellPool owns the lazy cells of one mounted grid view, keyed by asset id.
// Reset drops every cell, which is what gives a re-opened view fresh
// NotInView cells instead of stale terminal states.
type CellPool struct {
	mu     sync.Mutex
	cells  map[string]*LazyCell
	fetch  FetchFunc
	onDone func()
}

// NewCellPool creates an empty pool sharing one fetch function
func NewCellPool(fetch FetchFunc, onDone func()) *CellPool {
	return &CellPool{
		cells:  make(map[string]*LazyCell),
		fetch:  fetch,
		onDone: onDone,
	}
}

// Get returns the cell for an asset, creating it on first use
func (p *CellPool) Get(assetID, url string) *LazyCell {
	p.mu.Lock()
	defer p.mu.Unlock()
	cell, ok := p.cells[assetID]
	if !ok {
		cell = NewLazyCell(url, p.fetch, p.onDone)
		p.cells[assetID] = cell
	}
	return cell
}

// Reset drops all cells (view unmount / collection replaced)
func (p *CellPool) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cells = make(map[string]*LazyCell)
}

// Size returns the number of mounted cells
func (p *CellPool) Size() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.cells)
}
