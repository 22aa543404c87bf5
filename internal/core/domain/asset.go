package domain

import (
	"fmt"
	"strings"
)

// Asset represents a single media item in a reorderable collection.
// The backend owns the canonical copy; everything the client shows is
// either this record or this record with a pending overlay applied.
type Asset struct {
	ID        string `json:"id"`
	MediaURL  string `json:"media_url"`
	IsPremium bool   `json:"is_premium"`
	Count     int    `json:"count"`
	Prompt    string `json:"prompt,omitempty"`
	Country   string `json:"country,omitempty"`
	Order     int    `json:"order"`
}

// OrderEntry is one element of a bulk reorder payload.
// Orders are dense 1..N within a collection.
type OrderEntry struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// Pagination describes the server-side page of a listing response
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// AssetPage is one page of a category's asset collection
type AssetPage struct {
	Items      []Asset
	Pagination Pagination
}

// UploadMeta carries per-file metadata for an upload operation
type UploadMeta struct {
	IsPremium bool
	Count     int
	Prompt    string
	Country   string
}

// Validate checks the invariants the client relies on
func (a Asset) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return fmt.Errorf("asset id cannot be empty")
	}
	if a.Count < 1 {
		return fmt.Errorf("asset count must be >= 1, got %d", a.Count)
	}
	return nil
}

// IDs returns the asset identifiers in collection order
func IDs(assets []Asset) []string {
	ids := make([]string, len(assets))
	for i, a := range assets {
		ids[i] = a.ID
	}
	return ids
}
