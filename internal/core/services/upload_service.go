package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/casthub/catadm/internal/core/domain"
	"github.com/casthub/catadm/internal/core/ports"
)

// mediaExtensions lists the file types the backend accepts
var mediaExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".mp4":  true,
	".webm": true,
}

// UploadService uploads media files to a category. Files go up one at a
// time, in the order given, because the backend assigns order numbers by
// receipt. A session-scoped hash set skips files whose content was already
// uploaded (watch mode sees the same file twice for create+write events).
type UploadService struct {
	api ports.CatalogAPI

	mu   sync.Mutex
	seen map[string]string // sha256 -> uploaded asset id
}

// NewUploadService creates a new upload service
func NewUploadService(api ports.CatalogAPI) *UploadService {
	return &UploadService{
		api:  api,
		seen: make(map[string]string),
	}
}

// UploadRequest represents a batch of files to upload
type UploadRequest struct {
	CategoryID string
	Files      []string
	Meta       domain.UploadMeta // applied to every file in the batch
}

// FileResult is the outcome for one file
type FileResult struct {
	Path    string
	Asset   *domain.Asset
	Skipped bool // duplicate content, not re-uploaded
	Err     error
}

// UploadResponse represents the batch outcome with per-file results
type UploadResponse struct {
	Results   []FileResult
	Succeeded int
	Skipped   int
	Failed    int
}

// Execute uploads the batch sequentially and reports per-file outcomes.
// A failed file does not abort the rest of the batch.
func (s *UploadService) Execute(ctx context.Context, req UploadRequest) (*UploadResponse, error) {
	if req.CategoryID == "" {
		return nil, fmt.Errorf("category id is required")
	}
	if len(req.Files) == 0 {
		return nil, fmt.Errorf("no files to upload")
	}

	resp := &UploadResponse{}
	for _, path := range req.Files {
		result := s.uploadOne(ctx, req.CategoryID, path, req.Meta)
		resp.Results = append(resp.Results, result)
		switch {
		case result.Err != nil:
			resp.Failed++
		case result.Skipped:
			resp.Skipped++
		default:
			resp.Succeeded++
		}
	}
	return resp, nil
}

func (s *UploadService) uploadOne(ctx context.Context, categoryID, path string, meta domain.UploadMeta) FileResult {
	if !IsMediaFile(path) {
		return FileResult{Path: path, Err: fmt.Errorf("unsupported file type: %s", filepath.Ext(path))}
	}

	hash, err := hashFile(path)
	if err != nil {
		return FileResult{Path: path, Err: fmt.Errorf("failed to hash file: %w", err)}
	}

	s.mu.Lock()
	if _, dup := s.seen[hash]; dup {
		s.mu.Unlock()
		return FileResult{Path: path, Skipped: true}
	}
	s.mu.Unlock()

	asset, err := s.api.UploadAsset(ctx, categoryID, path, meta)
	if err != nil {
		return FileResult{Path: path, Err: err}
	}

	s.mu.Lock()
	s.seen[hash] = asset.ID
	s.mu.Unlock()

	return FileResult{Path: path, Asset: asset}
}

// IsMediaFile reports whether the path has an accepted media extension
func IsMediaFile(path string) bool {
	return mediaExtensions[strings.ToLower(filepath.Ext(path))]
}

func hashFile(path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
