package cmd

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/casthub/catadm/internal/core/domain"
	"github.com/casthub/catadm/pkg/config"
)

// TestTruncate verifies card text shortening, including multibyte prompts
func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{"short unchanged", "wallpaper", 20, "wallpaper"},
		{"exact fit", "abcde", 5, "abcde"},
		{"ascii shortened", "a very long prompt text", 10, "a very ..."},
		{"multibyte shortened", "日本語のプロンプトです", 6, "日本語..."},
		{"mixed shortened", "café über prompt", 8, "café ..."},
		{"tiny max floored", "abcdefgh", 1, "a..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.max)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) produced invalid UTF-8: %q", tt.in, tt.max, got)
			}
			if len(tt.in) > tt.max && !strings.HasSuffix(got, "...") {
				t.Errorf("truncate(%q, %d) = %q, missing ellipsis", tt.in, tt.max, got)
			}
		})
	}
}

// TestGridNextPageWaitsForPagination verifies paging keys stay put until the
// first asset load reports how many pages exist
func TestGridNextPageWaitsForPagination(t *testing.T) {
	appConfig = config.DefaultConfig()

	m := newGridModel(context.Background(), domain.Category{ID: "cat-1", Name: "Wallpapers"})
	defer m.dispatcher.Close()

	next := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("]")}
	prev := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("[")}

	// Before any load settles TotalPages is 0: both directions are no-ops
	if _, cmd := m.Update(next); cmd != nil {
		t.Error("expected no command before pagination is known")
	}
	if m.page != 1 {
		t.Fatalf("page = %d after next on unloaded grid, want 1", m.page)
	}
	if _, cmd := m.Update(prev); cmd != nil {
		t.Error("expected no command before pagination is known")
	}
	if m.page != 1 {
		t.Fatalf("page = %d after prev on unloaded grid, want 1", m.page)
	}

	// Single page: still no forward movement
	m.pagination = domain.Pagination{Page: 1, PageSize: 50, Total: 3, TotalPages: 1}
	m.Update(next)
	if m.page != 1 {
		t.Fatalf("page = %d on a one-page collection, want 1", m.page)
	}

	// More pages available: next advances
	m.pagination = domain.Pagination{Page: 1, PageSize: 50, Total: 120, TotalPages: 3}
	if _, cmd := m.Update(next); cmd == nil {
		t.Error("expected a page-load command when advancing")
	}
	if m.page != 2 {
		t.Fatalf("page = %d after advancing, want 2", m.page)
	}
}
