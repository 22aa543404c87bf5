package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/casthub/catadm/internal/core/domain"
	"github.com/casthub/catadm/internal/core/ports/mocks"
)

func writeTempMedia(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestUploadExecuteSequential(t *testing.T) {
	catalog := mocks.NewMockCatalog()
	catalog.SeedCategory(domain.Category{ID: "cat-1", Name: "Wallpapers"}, nil)
	svc := NewUploadService(catalog)

	dir := t.TempDir()
	first := writeTempMedia(t, dir, "one.png", "content-1")
	second := writeTempMedia(t, dir, "two.jpg", "content-2")

	resp, err := svc.Execute(context.Background(), UploadRequest{
		CategoryID: "cat-1",
		Files:      []string{first, second},
		Meta:       domain.UploadMeta{Country: "us"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if resp.Succeeded != 2 || resp.Failed != 0 || resp.Skipped != 0 {
		t.Errorf("response = %+v", resp)
	}

	// Receipt order drives backend order assignment, so uploads must be
	// issued in the order given
	calls := catalog.UploadCalls()
	if len(calls) != 2 || calls[0].FilePath != first || calls[1].FilePath != second {
		t.Errorf("upload order = %+v", calls)
	}
	if calls[0].Meta.Country != "us" {
		t.Errorf("meta not forwarded: %+v", calls[0].Meta)
	}
}

func TestUploadSkipsDuplicateContent(t *testing.T) {
	catalog := mocks.NewMockCatalog()
	catalog.SeedCategory(domain.Category{ID: "cat-1"}, nil)
	svc := NewUploadService(catalog)

	dir := t.TempDir()
	original := writeTempMedia(t, dir, "a.png", "same-bytes")
	copyName := writeTempMedia(t, dir, "b.png", "same-bytes")

	resp, err := svc.Execute(context.Background(), UploadRequest{
		CategoryID: "cat-1",
		Files:      []string{original, copyName},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if resp.Succeeded != 1 || resp.Skipped != 1 {
		t.Errorf("response = %+v, want 1 uploaded and 1 skipped", resp)
	}
	if calls := catalog.UploadCalls(); len(calls) != 1 {
		t.Errorf("upload calls = %d, want 1", len(calls))
	}
}

func TestUploadRejectsUnsupportedTypes(t *testing.T) {
	catalog := mocks.NewMockCatalog()
	catalog.SeedCategory(domain.Category{ID: "cat-1"}, nil)
	svc := NewUploadService(catalog)

	dir := t.TempDir()
	text := writeTempMedia(t, dir, "notes.txt", "not media")

	resp, err := svc.Execute(context.Background(), UploadRequest{
		CategoryID: "cat-1",
		Files:      []string{text},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if resp.Failed != 1 {
		t.Errorf("response = %+v, want 1 failure", resp)
	}
	if calls := catalog.UploadCalls(); len(calls) != 0 {
		t.Error("unsupported files must never reach the backend")
	}
}

func TestUploadPartialFailureContinues(t *testing.T) {
	catalog := mocks.NewMockCatalog()
	catalog.SeedCategory(domain.Category{ID: "cat-1"}, nil)
	svc := NewUploadService(catalog)

	dir := t.TempDir()
	missing := filepath.Join(dir, "ghost.png")
	real := writeTempMedia(t, dir, "real.png", "bytes")

	resp, err := svc.Execute(context.Background(), UploadRequest{
		CategoryID: "cat-1",
		Files:      []string{missing, real},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if resp.Failed != 1 || resp.Succeeded != 1 {
		t.Errorf("response = %+v, want the batch to continue past the failure", resp)
	}
}

func TestIsMediaFile(t *testing.T) {
	cases := map[string]bool{
		"photo.JPG":   true,
		"clip.webm":   true,
		"anim.gif":    true,
		"notes.txt":   false,
		"archive.zip": false,
		"no-ext":      false,
	}
	for path, want := range cases {
		if got := IsMediaFile(path); got != want {
			t.Errorf("IsMediaFile(%q) = %v, want %v", path, got, want)
		}
	}
}
