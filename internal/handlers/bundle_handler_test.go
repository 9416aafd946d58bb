package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/athenareborn/pokemyheart-store/internal/models"
	"github.com/athenareborn/pokemyheart-store/internal/service"
	"github.com/athenareborn/pokemyheart-store/pkg/logger"
	"github.com/go-chi/chi/v5"
)

func newBundleRouter(t *testing.T) http.Handler {
	handler := NewBundleHandler(service.NewBundleService(newTestRepo(t)), logger.New("error"))
	r := chi.NewRouter()
	r.Get("/api/bundles", handler.ListBundles)
	r.Get("/api/bundles/{bundleId}", handler.GetBundle)
	return r
}

func TestListBundles(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/bundles", nil)
	w := httptest.NewRecorder()
	newBundleRouter(t).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var bundles []models.Bundle
	decodeBody(t, w, &bundles)
	if len(bundles) != 3 {
		t.Fatalf("expected 3 bundles, got %d", len(bundles))
	}
	if bundles[0].ID != "card-only" || bundles[0].Price != 2395 {
		t.Errorf("unexpected first bundle: %+v", bundles[0])
	}
}

func TestGetBundle(t *testing.T) {
	tests := []struct {
		name           string
		bundleID       string
		expectedStatus int
		expectedPrice  int64
	}{
		{"card only", "card-only", http.StatusOK, 2395},
		{"card and case", "card-case", http.StatusOK, 3495},
		{"deluxe", "deluxe", http.StatusOK, 4995},
		{"unknown bundle", "mystery-box", http.StatusNotFound, 0},
	}

	router := newBundleRouter(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/bundles/"+tt.bundleID, nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus != http.StatusOK {
				var resp map[string]string
				decodeBody(t, w, &resp)
				if resp["error"] != "Bundle not found" {
					t.Errorf("unexpected error body: %v", resp)
				}
				return
			}

			var bundle models.Bundle
			decodeBody(t, w, &bundle)
			if bundle.Price != tt.expectedPrice {
				t.Errorf("expected price %d, got %d", tt.expectedPrice, bundle.Price)
			}
		})
	}
}
