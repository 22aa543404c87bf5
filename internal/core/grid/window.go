// Package grid implements the asset collection engine behind the interactive
// grid view: viewport windowing over large collections, an optimistic field
// overlay, debounced mutation dispatch, drag reordering and bulk selection.
// It is UI-framework agnostic; the TUI layer in cmd wires it to bubbletea.
package grid

// Layout describes the geometry of a rendered asset grid. Heights are in
// terminal rows; a card spans ItemHeight rows and Columns cards share a row.
type Layout struct {
	ItemHeight     int // rows per card, >= 1
	Columns        int // cards per row, >= 1
	ViewportHeight int // visible rows of the scroll container
	// Collections at or below this size skip windowing entirely and
	// render in full. Zero disables the bypass.
	BypassThreshold int
}

// Window is the computed visible slice of a collection. First/Last are
// flattened item indices (inclusive); a Last of -1 means nothing is visible.
type Window struct {
	FirstRow    int
	LastRow     int
	First       int
	Last        int
	OffsetY     int // rows of content above the window, for scrollbar math
	TotalRows   int
	TotalHeight int // TotalRows * ItemHeight
	Bypass      bool
}

func (l Layout) normalized() Layout {
	if l.ItemHeight < 1 {
		l.ItemHeight = 1
	}
	if l.Columns < 1 {
		l.Columns = 1
	}
	if l.ViewportHeight < 1 {
		l.ViewportHeight = 1
	}
	return l
}

// Compute derives the window for itemCount items at the given scroll offset.
// scrollTop is in rows of content, measured from the top of the collection.
// Out-of-range offsets are clamped; the result always addresses valid items.
func Compute(itemCount, scrollTop int, layout Layout) Window {
	l := layout.normalized()

	if itemCount <= 0 {
		return Window{First: 0, Last: -1, LastRow: -1}
	}

	totalRows := (itemCount + l.Columns - 1) / l.Columns
	totalHeight := totalRows * l.ItemHeight

	if l.BypassThreshold > 0 && itemCount <= l.BypassThreshold {
		return Window{
			FirstRow:    0,
			LastRow:     totalRows - 1,
			First:       0,
			Last:        itemCount - 1,
			TotalRows:   totalRows,
			TotalHeight: totalHeight,
			Bypass:      true,
		}
	}

	if scrollTop < 0 {
		scrollTop = 0
	}
	if max := totalHeight - l.ViewportHeight; scrollTop > max {
		if max < 0 {
			max = 0
		}
		scrollTop = max
	}

	firstRow := scrollTop / l.ItemHeight
	// Last row touched by the viewport, plus one look-ahead row so fast
	// scrolling never shows a blank band. The -1 keeps an exactly aligned
	// viewport bottom from counting the row below it as touched.
	lastRow := (scrollTop+l.ViewportHeight-1)/l.ItemHeight + 1
	if lastRow > totalRows-1 {
		lastRow = totalRows - 1
	}
	if firstRow > lastRow {
		firstRow = lastRow
	}

	first := firstRow * l.Columns
	last := (lastRow+1)*l.Columns - 1
	if last > itemCount-1 {
		last = itemCount - 1
	}

	return Window{
		FirstRow:    firstRow,
		LastRow:     lastRow,
		First:       first,
		Last:        last,
		OffsetY:     firstRow * l.ItemHeight,
		TotalRows:   totalRows,
		TotalHeight: totalHeight,
	}
}

// Len returns the number of items inside the window
func (w Window) Len() int {
	if w.Last < w.First {
		return 0
	}
	return w.Last - w.First + 1
}

// Contains reports whether the flattened item index is inside the window
func (w Window) Contains(index int) bool {
	return index >= w.First && index <= w.Last
}

// ScrollTo returns the scroll offset that brings the item at index into
// view, moving the current offset as little as possible. Used for keyboard
// navigation where the cursor must stay visible.
func ScrollTo(index, scrollTop int, layout Layout) int {
	l := layout.normalized()
	if index < 0 {
		return 0
	}

	row := index / l.Columns
	top := row * l.ItemHeight
	bottom := top + l.ItemHeight

	if top < scrollTop {
		return top
	}
	if bottom > scrollTop+l.ViewportHeight {
		return bottom - l.ViewportHeight
	}
	return scrollTop
}
