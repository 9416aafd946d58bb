package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/athenareborn/pokemyheart-store/internal/repository"
	"github.com/athenareborn/pokemyheart-store/internal/store"
	"github.com/redis/go-redis/v9"
)

func newTestRepo(t *testing.T) *repository.InMemoryBundleRepository {
	t.Helper()
	repo, err := repository.NewInMemoryBundleRepository(repository.DefaultBundles)
	if err != nil {
		t.Fatalf("failed to build catalog: %v", err)
	}
	return repo
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return store.New(client)
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(dst); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}
