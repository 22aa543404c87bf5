package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/casthub/catadm/internal/core/domain"
	"github.com/casthub/catadm/internal/core/ports"
)

// CatalogService handles listing and filtering for the non-interactive
// commands. The grid talks to the port directly; these wrappers exist for
// the table-style views.
type CatalogService struct {
	api ports.CatalogAPI
}

// NewCatalogService creates a new catalog service
func NewCatalogService(api ports.CatalogAPI) *CatalogService {
	return &CatalogService{api: api}
}

// ListCategoriesRequest represents a request to list categories
type ListCategoriesRequest struct {
	SortBy  string // "name", "assets" (default: name)
	Reverse bool
}

// ListCategoriesResponse represents the response from listing categories
type ListCategoriesResponse struct {
	Categories []domain.Category
	Total      int
}

// ListCategories lists categories with optional sorting
func (s *CatalogService) ListCategories(ctx context.Context, req ListCategoriesRequest) (*ListCategoriesResponse, error) {
	categories, err := s.api.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	sort.Slice(categories, func(i, j int) bool {
		var less bool
		switch req.SortBy {
		case "assets":
			less = categories[i].AssetCount < categories[j].AssetCount
		default: // "name"
			less = strings.ToLower(categories[i].Name) < strings.ToLower(categories[j].Name)
		}
		if req.Reverse {
			return !less
		}
		return less
	})

	return &ListCategoriesResponse{
		Categories: categories,
		Total:      len(categories),
	}, nil
}

// ListAssetsRequest represents a request for one page of assets
type ListAssetsRequest struct {
	CategoryID string
	Page       int
	PageSize   int
	// CountryFilter keeps only assets with this country code (optional)
	CountryFilter string
	PremiumOnly   bool
}

// ListAssetsResponse represents one filtered page of assets
type ListAssetsResponse struct {
	Assets     []domain.Asset
	Pagination domain.Pagination
}

// ListAssets fetches one page and applies display-side filters
func (s *CatalogService) ListAssets(ctx context.Context, req ListAssetsRequest) (*ListAssetsResponse, error) {
	if req.CategoryID == "" {
		return nil, fmt.Errorf("category id is required")
	}

	page, err := s.api.ListAssets(ctx, req.CategoryID, req.Page, req.PageSize)
	if err != nil {
		return nil, fmt.Errorf("failed to list assets: %w", err)
	}

	assets := page.Items
	if req.CountryFilter != "" || req.PremiumOnly {
		filtered := make([]domain.Asset, 0, len(assets))
		for _, a := range assets {
			if req.CountryFilter != "" && !strings.EqualFold(a.Country, req.CountryFilter) {
				continue
			}
			if req.PremiumOnly && !a.IsPremium {
				continue
			}
			filtered = append(filtered, a)
		}
		assets = filtered
	}

	return &ListAssetsResponse{
		Assets:     assets,
		Pagination: page.Pagination,
	}, nil
}

// FindCategory resolves a category by id, slug or (case-insensitive) name
func (s *CatalogService) FindCategory(ctx context.Context, ref string) (*domain.Category, error) {
	categories, err := s.api.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}

	for _, cat := range categories {
		if cat.ID == ref || cat.Slug == ref || strings.EqualFold(cat.Name, ref) {
			return &cat, nil
		}
	}
	return nil, fmt.Errorf("category not found: %s", ref)
}

// StatsRequest represents a request for per-category statistics
type StatsRequest struct{}

// CategoryStats is one row of the stats report
type CategoryStats struct {
	Category     domain.Category
	PremiumShare float64 // 0..1
}

// StatsResponse represents the aggregated statistics
type StatsResponse struct {
	Rows            []CategoryStats
	TotalAssets     int
	TotalPremium    int
	TotalCategories int
}

// Stats aggregates asset counts across all categories
func (s *CatalogService) Stats(ctx context.Context, req StatsRequest) (*StatsResponse, error) {
	categories, err := s.api.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stats: %w", err)
	}

	resp := &StatsResponse{TotalCategories: len(categories)}
	for _, cat := range categories {
		share := 0.0
		if cat.AssetCount > 0 {
			share = float64(cat.PremiumCount) / float64(cat.AssetCount)
		}
		resp.Rows = append(resp.Rows, CategoryStats{Category: cat, PremiumShare: share})
		resp.TotalAssets += cat.AssetCount
		resp.TotalPremium += cat.PremiumCount
	}

	sort.Slice(resp.Rows, func(i, j int) bool {
		return resp.Rows[i].Category.AssetCount > resp.Rows[j].Category.AssetCount
	})
	return resp, nil
}
