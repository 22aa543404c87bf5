package grid

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/casthub/catadm/internal/core/domain"
)

func TestSelectionToggleAndQuery(t *testing.T) {
	s := NewSelection()

	s.Toggle("b")
	s.Toggle("a")
	if !s.Has("a") || !s.Has("b") {
		t.Error("toggled ids must be selected")
	}

	s.Toggle("a")
	if s.Has("a") {
		t.Error("second toggle must deselect")
	}
	if s.Count() != 1 {
		t.Errorf("Count = %d, want 1", s.Count())
	}
}

func TestSelectionSelectAllAndClear(t *testing.T) {
	s := NewSelection()
	s.SelectAll([]string{"c", "a", "b"})

	if got := s.IDs(); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("IDs = %v, want sorted a b c", got)
	}

	s.Clear()
	if s.Count() != 0 {
		t.Errorf("Count = %d after Clear, want 0", s.Count())
	}
}

func TestBulkDeleteSequentialFanOut(t *testing.T) {
	var deleted []string
	var refreshes int
	b := NewBulk(
		func(ctx context.Context, assetID string) error {
			deleted = append(deleted, assetID)
			return nil
		},
		nil,
		func() { refreshes++ },
	)

	res := b.Delete(context.Background(), []string{"B", "D"})

	if !reflect.DeepEqual(deleted, []string{"B", "D"}) {
		t.Errorf("deleted = %v, want [B D] in order", deleted)
	}
	if res.Succeeded != 2 || res.Failed != 0 {
		t.Errorf("result = %+v, want 2 succeeded", res)
	}
	if refreshes != 1 {
		t.Errorf("refreshes = %d, want exactly 1 for the whole batch", refreshes)
	}
}

func TestBulkDeletePartialFailure(t *testing.T) {
	boom := errors.New("gone already")
	b := NewBulk(
		func(ctx context.Context, assetID string) error {
			if assetID == "bad" {
				return boom
			}
			return nil
		},
		nil,
		nil,
	)

	res := b.Delete(context.Background(), []string{"ok1", "bad", "ok2"})

	if res.Succeeded != 2 || res.Failed != 1 {
		t.Errorf("result = %+v, want 2/1", res)
	}
	if !errors.Is(res.FirstErr, boom) {
		t.Errorf("FirstErr = %v, want the first failure", res.FirstErr)
	}
	if res.Total() != 3 {
		t.Errorf("Total = %d, want 3", res.Total())
	}
}

func TestBulkSetField(t *testing.T) {
	var updates []string
	var refreshes int
	b := NewBulk(
		nil,
		func(ctx context.Context, assetID string, change domain.FieldChange) error {
			if change.Field != domain.FieldCountry || change.Str != "jp" {
				t.Errorf("unexpected change %+v", change)
			}
			updates = append(updates, assetID)
			return nil
		},
		func() { refreshes++ },
	)

	res := b.SetField(context.Background(), []string{"a", "b", "c"}, domain.CountryOf("jp"))

	if res.Succeeded != 3 {
		t.Errorf("result = %+v, want 3 successes", res)
	}
	if !reflect.DeepEqual(updates, []string{"a", "b", "c"}) {
		t.Errorf("updates = %v, want sequential order preserved", updates)
	}
	if refreshes != 1 {
		t.Errorf("refreshes = %d, want 1", refreshes)
	}
}

func TestBulkSetFieldRejectsInvalidChange(t *testing.T) {
	called := false
	b := NewBulk(nil, func(ctx context.Context, assetID string, change domain.FieldChange) error {
		called = true
		return nil
	}, nil)

	res := b.SetField(context.Background(), []string{"a", "b"}, domain.CountOf(0))

	if called {
		t.Error("invalid change must not reach the backend")
	}
	if res.Failed != 2 || res.FirstErr == nil {
		t.Errorf("result = %+v, want all items failed with an error", res)
	}
}

func TestBulkEmptyBatchDoesNotRefresh(t *testing.T) {
	var refreshes int
	b := NewBulk(
		func(ctx context.Context, assetID string) error { return nil },
		nil,
		func() { refreshes++ },
	)
	b.Delete(context.Background(), nil)
	if refreshes != 0 {
		t.Errorf("refreshes = %d for empty batch, want 0", refreshes)
	}
}
