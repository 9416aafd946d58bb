package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/athenareborn/pokemyheart-store/internal/models"
	"github.com/athenareborn/pokemyheart-store/internal/service"
	"github.com/athenareborn/pokemyheart-store/pkg/logger"
	"github.com/go-chi/chi/v5"
)

func TestInventoryHandler(t *testing.T) {
	svc := service.NewInventoryService(newTestRepo(t), newTestStore(t))
	h := NewInventoryHandler(svc, logger.New("error"))

	r := chi.NewRouter()
	r.Get("/api/inventory", h.ListStock)
	r.Put("/api/admin/inventory/{bundleId}", h.SetStock)

	puts := []struct {
		name           string
		bundleID       string
		body           string
		expectedStatus int
	}{
		{"set deluxe", "deluxe", `{"available":4}`, http.StatusOK},
		{"negative", "deluxe", `{"available":-2}`, http.StatusBadRequest},
		{"missing field", "deluxe", `{}`, http.StatusBadRequest},
		{"not a number", "deluxe", `{"available":"lots"}`, http.StatusBadRequest},
		{"unknown bundle", "mystery", `{"available":1}`, http.StatusNotFound},
	}
	for _, tt := range puts {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPut, "/api/admin/inventory/"+tt.bundleID, strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.expectedStatus {
				t.Errorf("expected status %d, got %d: %s", tt.expectedStatus, w.Code, w.Body.String())
			}
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api/inventory", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}

	var levels []models.StockLevel
	decodeBody(t, w, &levels)
	if len(levels) != 3 {
		t.Fatalf("expected 3 stock levels, got %d", len(levels))
	}
	deluxe := levels[2]
	if deluxe.BundleID != "deluxe" || deluxe.Available != 4 || !deluxe.InStock {
		t.Errorf("unexpected deluxe stock: %+v", deluxe)
	}
	if levels[0].InStock {
		t.Errorf("card-only has no stock recorded, got %+v", levels[0])
	}
}
