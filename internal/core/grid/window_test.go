package grid

import "testing"

func TestComputeSpecScenario(t *testing.T) {
	// 50 assets, item height 320, 3 columns, viewport 960, scrolled to 1280:
	// rows 4..7 visible (incl. look-ahead), flattened items 12..23.
	layout := Layout{ItemHeight: 320, Columns: 3, ViewportHeight: 960}
	w := Compute(50, 1280, layout)

	if w.FirstRow != 4 || w.LastRow != 7 {
		t.Errorf("rows = %d..%d, want 4..7", w.FirstRow, w.LastRow)
	}
	if w.First != 12 || w.Last != 23 {
		t.Errorf("items = %d..%d, want 12..23", w.First, w.Last)
	}
	if w.OffsetY != 4*320 {
		t.Errorf("OffsetY = %d, want %d", w.OffsetY, 4*320)
	}
	if w.TotalRows != 17 {
		t.Errorf("TotalRows = %d, want 17", w.TotalRows)
	}
	if w.TotalHeight != 17*320 {
		t.Errorf("TotalHeight = %d, want %d", w.TotalHeight, 17*320)
	}
}

func TestComputeEmptyCollection(t *testing.T) {
	w := Compute(0, 500, Layout{ItemHeight: 4, Columns: 3, ViewportHeight: 20})
	if w.Len() != 0 {
		t.Errorf("expected empty window, got %d items", w.Len())
	}
	if w.TotalHeight != 0 {
		t.Errorf("TotalHeight = %d, want 0", w.TotalHeight)
	}
}

func TestComputeBypassThreshold(t *testing.T) {
	layout := Layout{ItemHeight: 4, Columns: 3, ViewportHeight: 8, BypassThreshold: 30}

	// At or below the threshold the whole collection renders regardless
	// of scroll position.
	for _, scrollTop := range []int{0, 17, 10_000} {
		w := Compute(30, scrollTop, layout)
		if !w.Bypass {
			t.Fatalf("scrollTop=%d: expected bypass", scrollTop)
		}
		if w.First != 0 || w.Last != 29 {
			t.Errorf("scrollTop=%d: items = %d..%d, want 0..29", scrollTop, w.First, w.Last)
		}
	}

	// One above the threshold, windowing kicks in
	w := Compute(31, 0, layout)
	if w.Bypass {
		t.Error("expected windowed mode above threshold")
	}
	if w.Len() >= 31 {
		t.Errorf("window holds %d of 31 items, expected a strict subset", w.Len())
	}
}

func TestComputeClampsScroll(t *testing.T) {
	layout := Layout{ItemHeight: 4, Columns: 2, ViewportHeight: 8}

	tests := []struct {
		name      string
		scrollTop int
	}{
		{"negative", -50},
		{"past end", 1_000_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := Compute(100, tt.scrollTop, layout)
			if w.First < 0 || w.Last > 99 || w.First > w.Last {
				t.Errorf("window %d..%d out of range", w.First, w.Last)
			}
		})
	}
}

func TestComputeContiguousAndBounded(t *testing.T) {
	layout := Layout{ItemHeight: 3, Columns: 4, ViewportHeight: 12}
	rowsSpanned := (layout.ViewportHeight + layout.ItemHeight - 1) / layout.ItemHeight
	// A row-misaligned viewport touches one extra partial row, and the
	// window adds one look-ahead row on top of what the viewport touches.
	maxItems := layout.Columns * (rowsSpanned + 2)
	alignedMaxItems := layout.Columns * (rowsSpanned + 1)

	for itemCount := 1; itemCount <= 97; itemCount += 8 {
		totalRows := (itemCount + layout.Columns - 1) / layout.Columns
		maxScroll := totalRows*layout.ItemHeight - layout.ViewportHeight
		for scrollTop := 0; scrollTop <= maxScroll; scrollTop += 5 {
			w := Compute(itemCount, scrollTop, layout)
			bound := maxItems
			if scrollTop%layout.ItemHeight == 0 {
				bound = alignedMaxItems
			}
			if w.Len() > bound {
				t.Fatalf("items=%d scroll=%d: window size %d exceeds bound %d",
					itemCount, scrollTop, w.Len(), bound)
			}
			if w.First < 0 || w.Last > itemCount-1 {
				t.Fatalf("items=%d scroll=%d: window %d..%d out of range",
					itemCount, scrollTop, w.First, w.Last)
			}
			// The window must start on a row boundary and stay row-aligned
			if w.First%layout.Columns != 0 {
				t.Fatalf("items=%d scroll=%d: window start %d not row aligned",
					itemCount, scrollTop, w.First)
			}
		}
	}
}

func TestComputeDegenerateLayout(t *testing.T) {
	// Zero geometry must not panic or divide by zero
	w := Compute(10, 0, Layout{})
	if w.First != 0 {
		t.Errorf("First = %d, want 0", w.First)
	}
	if w.Last < 0 {
		t.Error("expected a non-empty window")
	}
}

func TestWindowContains(t *testing.T) {
	w := Window{First: 12, Last: 23}
	if !w.Contains(12) || !w.Contains(23) {
		t.Error("boundary items must be contained")
	}
	if w.Contains(11) || w.Contains(24) {
		t.Error("items outside the range must not be contained")
	}
}

func TestScrollTo(t *testing.T) {
	layout := Layout{ItemHeight: 4, Columns: 3, ViewportHeight: 8}

	tests := []struct {
		name      string
		index     int
		scrollTop int
		want      int
	}{
		{"already visible", 3, 0, 0},
		{"below viewport", 9, 0, 4},  // row 3 bottom edge 16, 16-8=8? see below
		{"above viewport", 0, 20, 0},
		{"negative index", -1, 20, 0},
	}

	// row(9) = 3, top = 12, bottom = 16, want 16-8 = 8
	tests[1].want = 8

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScrollTo(tt.index, tt.scrollTop, layout)
			if got != tt.want {
				t.Errorf("ScrollTo(%d, %d) = %d, want %d", tt.index, tt.scrollTop, got, tt.want)
			}
		})
	}
}
