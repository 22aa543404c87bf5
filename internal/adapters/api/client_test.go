package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/casthub/catadm/internal/core/domain"
)

func TestListAssetsSendsAuthAndPaging(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret-token" {
			t.Errorf("Authorization = %q", got)
		}
		if r.URL.Path != "/api/categories/cat-1/assets" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.URL.Query().Get("page") != "2" || r.URL.Query().Get("page_size") != "25" {
			t.Errorf("query = %q", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"items": []domain.Asset{
				{ID: "a1", Count: 1, Order: 1},
				{ID: "a2", Count: 3, Order: 2, IsPremium: true},
			},
			"pagination": domain.Pagination{Page: 2, PageSize: 25, Total: 60, TotalPages: 3},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-token")
	page, err := client.ListAssets(context.Background(), "cat-1", 2, 25)
	if err != nil {
		t.Fatalf("ListAssets: %v", err)
	}
	if len(page.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(page.Items))
	}
	if page.Pagination.Total != 60 {
		t.Errorf("Total = %d, want 60", page.Pagination.Total)
	}
}

func TestUpdateAssetPatchBodies(t *testing.T) {
	tests := []struct {
		name   string
		change domain.FieldChange
		want   map[string]interface{}
	}{
		{"premium", domain.Premium(true), map[string]interface{}{"is_premium": true}},
		{"count", domain.CountOf(4), map[string]interface{}{"count": float64(4)}},
		{"prompt", domain.PromptOf("sunset"), map[string]interface{}{"prompt": "sunset"}},
		{"country", domain.CountryOf("de"), map[string]interface{}{"country": "de"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotBody map[string]interface{}
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPatch {
					t.Errorf("method = %s", r.Method)
				}
				json.NewDecoder(r.Body).Decode(&gotBody)
				json.NewEncoder(w).Encode(domain.Asset{ID: "a1", Count: 4})
			}))
			defer server.Close()

			client := NewClient(server.URL, "")
			if _, err := client.UpdateAsset(context.Background(), "cat-1", "a1", tt.change); err != nil {
				t.Fatalf("UpdateAsset: %v", err)
			}
			if len(gotBody) != 1 {
				t.Fatalf("body = %v, want a single-field patch", gotBody)
			}
			for k, v := range tt.want {
				if gotBody[k] != v {
					t.Errorf("body[%s] = %v, want %v", k, gotBody[k], v)
				}
			}
		})
	}
}

func TestErrorEnvelopeMessageSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]string{"message": "count must be at least 1"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	err := client.DeleteAsset(context.Background(), "cat-1", "a1")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := err.Error(); got != "failed to delete asset: count must be at least 1" {
		t.Errorf("error = %q, want the backend message surfaced", got)
	}
}

func TestErrorWithoutEnvelopeFallsBackToStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "plain text panic page", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	_, err := client.ListCategories(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestReorderAssetsSendsCompleteOrdering(t *testing.T) {
	var got struct {
		Ordering []domain.OrderEntry `json:"ordering"`
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/categories/cat-1/assets/reorder" {
			t.Errorf("path = %q", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	ordering := []domain.OrderEntry{{ID: "b", Order: 1}, {ID: "a", Order: 2}}
	client := NewClient(server.URL, "")
	if err := client.ReorderAssets(context.Background(), "cat-1", ordering); err != nil {
		t.Fatalf("ReorderAssets: %v", err)
	}
	if len(got.Ordering) != 2 || got.Ordering[0].ID != "b" || got.Ordering[1].Order != 2 {
		t.Errorf("ordering = %+v", got.Ordering)
	}
}

func TestUploadAssetMultipart(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "hero.png")
	if err := os.WriteFile(path, []byte("png-bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("not multipart: %v", err)
		}
		if r.FormValue("is_premium") != "true" || r.FormValue("count") != "2" {
			t.Errorf("form = %v", r.MultipartForm.Value)
		}
		if r.FormValue("country") != "fr" {
			t.Errorf("country = %q", r.FormValue("country"))
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("no file part: %v", err)
		}
		defer file.Close()
		if header.Filename != "hero.png" {
			t.Errorf("filename = %q", header.Filename)
		}
		json.NewEncoder(w).Encode(domain.Asset{ID: "new-1", Count: 2, Order: 5})
	}))
	defer server.Close()

	client := NewClient(server.URL, "")
	asset, err := client.UploadAsset(context.Background(), "cat-1", path, domain.UploadMeta{
		IsPremium: true,
		Count:     2,
		Country:   "fr",
	})
	if err != nil {
		t.Fatalf("UploadAsset: %v", err)
	}
	if asset.ID != "new-1" || asset.Order != 5 {
		t.Errorf("asset = %+v", asset)
	}
}

func TestFetchMediaSkipsAuthForForeignHosts(t *testing.T) {
	media := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "" {
			t.Error("token must not leak to non-API hosts")
		}
		w.Write([]byte("thumbnail"))
	}))
	defer media.Close()

	client := NewClient("https://api.example.com", "secret")
	data, err := client.FetchMedia(context.Background(), media.URL+"/thumb.jpg")
	if err != nil {
		t.Fatalf("FetchMedia: %v", err)
	}
	if string(data) != "thumbnail" {
		t.Errorf("data = %q", data)
	}
}
