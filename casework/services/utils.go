package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"casework_platform/casework/schema"

	"github.com/go-chi/chi/v5"
)

func parseRequestBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	dec := json.NewDecoder(r.Body)
	err := dec.Decode(dest)
	if err != nil {
		slog.Error("error parsing request body", "error", err)
		http.Error(w, fmt.Sprintf("error parsing request body: %v", err), http.StatusBadRequest)
		return false
	}
	return true
}

func writeJsonResponse(w http.ResponseWriter, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	err := json.NewEncoder(w).Encode(data)
	if err != nil {
		slog.Error("error serializing response body", "error", err)
		http.Error(w, fmt.Sprintf("error serializing response body: %v", err), http.StatusInternalServerError)
	}
}

func writeNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func idParam(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		http.Error(w, fmt.Sprintf("invalid %v '%v': must be an integer id", name, raw), http.StatusBadRequest)
		return 0, false
	}
	return uint(id), true
}

// mutationStatus maps store errors for mutating endpoints, which report missing
// entities as 400 rather than 404.
func mutationStatus(err error) int {
	if schema.IsNotFound(err) {
		return http.StatusBadRequest
	}
	var dbErr schema.DbError
	if errors.As(err, &dbErr) {
		return http.StatusInternalServerError
	}
	return http.StatusBadRequest
}
