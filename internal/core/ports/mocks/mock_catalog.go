package mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/casthub/catadm/internal/core/domain"
)

// MockCatalog is an in-memory implementation of the CatalogAPI port for
// testing. It records every mutating call and can be told to fail.
type MockCatalog struct {
	mu         sync.Mutex
	categories []domain.Category
	assets     map[string][]domain.Asset // categoryID -> ordered collection

	updateCalls  []UpdateCall
	deleteCalls  []DeleteCall
	reorderCalls []ReorderCall
	uploadCalls  []UploadCall
	listCalls    int

	shouldFail bool
	failError  error
}

// UpdateCall records one UpdateAsset invocation
type UpdateCall struct {
	CategoryID string
	AssetID    string
	Change     domain.FieldChange
}

// DeleteCall records one DeleteAsset invocation
type DeleteCall struct {
	CategoryID string
	AssetID    string
}

// ReorderCall records one ReorderAssets invocation
type ReorderCall struct {
	CategoryID string
	Ordering   []domain.OrderEntry
}

// UploadCall records one UploadAsset invocation
type UploadCall struct {
	CategoryID string
	FilePath   string
	Meta       domain.UploadMeta
}

// NewMockCatalog creates an empty mock catalog
func NewMockCatalog() *MockCatalog {
	return &MockCatalog{
		assets: make(map[string][]domain.Asset),
	}
}

// SeedCategory installs a category and its asset collection
func (m *MockCatalog) SeedCategory(cat domain.Category, assets []domain.Asset) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.categories = append(m.categories, cat)
	m.assets[cat.ID] = append([]domain.Asset(nil), assets...)
}

// SetShouldFail makes every subsequent call fail with err
func (m *MockCatalog) SetShouldFail(fail bool, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.shouldFail = fail
	m.failError = err
}

func (m *MockCatalog) failure() error {
	if !m.shouldFail {
		return nil
	}
	if m.failError != nil {
		return m.failError
	}
	return fmt.Errorf("mock catalog failure")
}

// ListCategories returns the seeded categories
func (m *MockCatalog) ListCategories(ctx context.Context) ([]domain.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.failure(); err != nil {
		return nil, err
	}
	out := make([]domain.Category, len(m.categories))
	copy(out, m.categories)
	return out, nil
}

// ListAssets returns one page of a seeded collection
func (m *MockCatalog) ListAssets(ctx context.Context, categoryID string, page, pageSize int) (*domain.AssetPage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listCalls++
	if err := m.failure(); err != nil {
		return nil, err
	}

	all, ok := m.assets[categoryID]
	if !ok {
		return nil, fmt.Errorf("category not found: %s", categoryID)
	}

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = len(all)
	}

	start := (page - 1) * pageSize
	if start > len(all) {
		start = len(all)
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = (len(all) + pageSize - 1) / pageSize
	}

	items := make([]domain.Asset, end-start)
	copy(items, all[start:end])

	return &domain.AssetPage{
		Items: items,
		Pagination: domain.Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      len(all),
			TotalPages: totalPages,
		},
	}, nil
}

// UpdateAsset applies the change to the stored asset
func (m *MockCatalog) UpdateAsset(ctx context.Context, categoryID, assetID string, change domain.FieldChange) (*domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls = append(m.updateCalls, UpdateCall{CategoryID: categoryID, AssetID: assetID, Change: change})
	if err := m.failure(); err != nil {
		return nil, err
	}

	collection := m.assets[categoryID]
	for i, a := range collection {
		if a.ID == assetID {
			collection[i] = change.Apply(a)
			updated := collection[i]
			return &updated, nil
		}
	}
	return nil, fmt.Errorf("asset not found: %s", assetID)
}

// DeleteAsset removes the asset from the stored collection
func (m *MockCatalog) DeleteAsset(ctx context.Context, categoryID, assetID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleteCalls = append(m.deleteCalls, DeleteCall{CategoryID: categoryID, AssetID: assetID})
	if err := m.failure(); err != nil {
		return err
	}

	collection := m.assets[categoryID]
	for i, a := range collection {
		if a.ID == assetID {
			m.assets[categoryID] = append(collection[:i:i], collection[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("asset not found: %s", assetID)
}

// ReorderAssets re-sorts the stored collection by the given ordering
func (m *MockCatalog) ReorderAssets(ctx context.Context, categoryID string, ordering []domain.OrderEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	entries := make([]domain.OrderEntry, len(ordering))
	copy(entries, ordering)
	m.reorderCalls = append(m.reorderCalls, ReorderCall{CategoryID: categoryID, Ordering: entries})
	if err := m.failure(); err != nil {
		return err
	}

	orderByID := make(map[string]int, len(ordering))
	for _, e := range ordering {
		orderByID[e.ID] = e.Order
	}

	collection := m.assets[categoryID]
	for i := range collection {
		if o, ok := orderByID[collection[i].ID]; ok {
			collection[i].Order = o
		}
	}
	sort.SliceStable(collection, func(i, j int) bool {
		return collection[i].Order < collection[j].Order
	})
	return nil
}

// UploadAsset appends a new asset with the next available order
func (m *MockCatalog) UploadAsset(ctx context.Context, categoryID, filePath string, meta domain.UploadMeta) (*domain.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploadCalls = append(m.uploadCalls, UploadCall{CategoryID: categoryID, FilePath: filePath, Meta: meta})
	if err := m.failure(); err != nil {
		return nil, err
	}

	count := meta.Count
	if count < 1 {
		count = 1
	}
	asset := domain.Asset{
		ID:        fmt.Sprintf("%s-upload-%d", categoryID, len(m.uploadCalls)),
		MediaURL:  "https://cdn.example.com/" + filePath,
		IsPremium: meta.IsPremium,
		Count:     count,
		Prompt:    meta.Prompt,
		Country:   meta.Country,
		Order:     len(m.assets[categoryID]) + 1,
	}
	m.assets[categoryID] = append(m.assets[categoryID], asset)
	return &asset, nil
}

// Assets returns a copy of the stored collection for assertions
func (m *MockCatalog) Assets(categoryID string) []domain.Asset {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Asset, len(m.assets[categoryID]))
	copy(out, m.assets[categoryID])
	return out
}

// UpdateCalls returns the recorded update invocations
func (m *MockCatalog) UpdateCalls() []UpdateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]UpdateCall, len(m.updateCalls))
	copy(calls, m.updateCalls)
	return calls
}

// DeleteCalls returns the recorded delete invocations
func (m *MockCatalog) DeleteCalls() []DeleteCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]DeleteCall, len(m.deleteCalls))
	copy(calls, m.deleteCalls)
	return calls
}

// ReorderCalls returns the recorded reorder invocations
func (m *MockCatalog) ReorderCalls() []ReorderCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]ReorderCall, len(m.reorderCalls))
	copy(calls, m.reorderCalls)
	return calls
}

// UploadCalls returns the recorded upload invocations
func (m *MockCatalog) UploadCalls() []UploadCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	calls := make([]UploadCall, len(m.uploadCalls))
	copy(calls, m.uploadCalls)
	return calls
}

// ListCallCount returns how many times ListAssets was invoked
func (m *MockCatalog) ListCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls
}

// Reset clears recorded calls and failure state
func (m *MockCatalog) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.updateCalls = nil
	m.deleteCalls = nil
	m.reorderCalls = nil
	m.uploadCalls = nil
	m.listCalls = 0
	m.shouldFail = false
	m.failError = nil
}
