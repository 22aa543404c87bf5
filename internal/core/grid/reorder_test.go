package grid

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/casthub/catadm/internal/core/domain"
)

func namedAssets(ids ...string) []domain.Asset {
	out := make([]domain.Asset, len(ids))
	for i, id := range ids {
		out[i] = domain.Asset{ID: id, Count: 1, Order: i + 1}
	}
	return out
}

func planIDs(plan []domain.OrderEntry) []string {
	ids := make([]string, len(plan))
	for i, e := range plan {
		ids[i] = e.ID
	}
	return ids
}

func TestReorderPlan(t *testing.T) {
	tests := []struct {
		name     string
		ids      []string
		from, to int
		want     []string
	}{
		{"drag forward", []string{"A", "B", "C", "D"}, 0, 2, []string{"B", "C", "A", "D"}},
		{"drag backward", []string{"A", "B", "C", "D"}, 3, 0, []string{"D", "A", "B", "C"}},
		{"adjacent swap", []string{"A", "B"}, 0, 1, []string{"B", "A"}},
		{"no move", []string{"A", "B", "C"}, 1, 1, []string{"A", "B", "C"}},
		{"clamped source", []string{"A", "B", "C"}, 99, 0, []string{"C", "A", "B"}},
		{"clamped target", []string{"A", "B", "C"}, 0, -5, []string{"A", "B", "C"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan := ReorderPlan(namedAssets(tt.ids...), tt.from, tt.to)
			if got := planIDs(plan); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("order = %v, want %v", got, tt.want)
			}
			// Orders are always dense and 1-based in sequence
			for i, e := range plan {
				if e.Order != i+1 {
					t.Errorf("plan[%d].Order = %d, want %d", i, e.Order, i+1)
				}
			}
		})
	}
}

func TestApplyPlan(t *testing.T) {
	assets := namedAssets("A", "B", "C", "D")
	plan := ReorderPlan(assets, 0, 2)

	got := ApplyPlan(assets, plan)
	wantIDs := []string{"B", "C", "A", "D"}
	for i, a := range got {
		if a.ID != wantIDs[i] {
			t.Fatalf("position %d holds %s, want %s", i, a.ID, wantIDs[i])
		}
		if a.Order != i+1 {
			t.Errorf("%s.Order = %d, want %d", a.ID, a.Order, i+1)
		}
	}
}

func TestReordererCommitIssuesOneBulkCall(t *testing.T) {
	var calls [][]domain.OrderEntry
	r := NewReorderer(func(ctx context.Context, ordering []domain.OrderEntry) error {
		calls = append(calls, ordering)
		return nil
	}, nil)

	plan, err := r.Commit(context.Background(), namedAssets("A", "B", "C", "D"), DragSession{Source: 0, Target: 2})
	if err != nil {
		t.Fatalf("Commit: %v", err)
	}
	if len(calls) != 1 {
		t.Fatalf("reorder calls = %d, want 1", len(calls))
	}
	if got := planIDs(plan); !reflect.DeepEqual(got, []string{"B", "C", "A", "D"}) {
		t.Errorf("plan = %v", got)
	}
	// The payload carries the complete collection
	if len(calls[0]) != 4 {
		t.Errorf("payload holds %d entries, want all 4", len(calls[0]))
	}
}

func TestReordererCommitFailureRefetches(t *testing.T) {
	var refreshed bool
	r := NewReorderer(func(ctx context.Context, ordering []domain.OrderEntry) error {
		return errors.New("backend rejected reorder")
	}, func() { refreshed = true })

	plan, err := r.Commit(context.Background(), namedAssets("A", "B"), DragSession{Source: 0, Target: 1})
	if err == nil {
		t.Fatal("expected error")
	}
	if plan != nil {
		t.Error("failed commit must not hand back an optimistic plan")
	}
	if !refreshed {
		t.Error("failure must trigger a canonical refetch")
	}
}

func TestReordererCommitNoOps(t *testing.T) {
	var calls int
	r := NewReorderer(func(ctx context.Context, ordering []domain.OrderEntry) error {
		calls++
		return nil
	}, nil)

	ctx := context.Background()
	if _, err := r.Commit(ctx, namedAssets("A", "B"), NoDrag); err != nil {
		t.Fatalf("idle session: %v", err)
	}
	if _, err := r.Commit(ctx, namedAssets("A", "B"), DragSession{Source: 1, Target: 1}); err != nil {
		t.Fatalf("same position: %v", err)
	}
	if _, err := r.Commit(ctx, nil, DragSession{Source: 0, Target: 1}); err != nil {
		t.Fatalf("empty collection: %v", err)
	}
	if calls != 0 {
		t.Errorf("reorder calls = %d for no-op drags, want 0", calls)
	}
}
