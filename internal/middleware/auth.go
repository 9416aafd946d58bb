package middleware

import (
	"crypto/subtle"
	"encoding/json"
	"net/http"

	"github.com/athenareborn/pokemyheart-store/internal/config"
)

// APIKeyAuth guards admin routes. The key is passed in the "api_key" header.
func APIKeyAuth(cfg config.AuthConfig) func(next http.Handler) http.Handler {
	keys := make([][]byte, len(cfg.APIKeys))
	for i, k := range cfg.APIKeys {
		keys[i] = []byte(k)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get("api_key")

			if apiKey == "" {
				deny(w, http.StatusUnauthorized, "Unauthorized: API key required")
				return
			}

			if !validKey(keys, []byte(apiKey)) {
				deny(w, http.StatusForbidden, "Forbidden: Invalid API key")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func validKey(keys [][]byte, candidate []byte) bool {
	valid := 0
	for _, k := range keys {
		valid |= subtle.ConstantTimeCompare(k, candidate)
	}
	return valid == 1
}

func deny(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
