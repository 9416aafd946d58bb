package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "status", status, "error", err)
	}
}

// WriteError writes {"error": message}
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, map[string]string{"error": message}, logger)
}

// writeErrorDetails writes {"error": message, "details": details}
func writeErrorDetails(w http.ResponseWriter, status int, message, details string, logger *slog.Logger) {
	WriteJSON(w, status, map[string]string{"error": message, "details": details}, logger)
}
