// Package handler contains chi HTTP handlers that translate HTTP
// requests/responses to and from the service layer.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/adilnd/portfolio-api/internal/repository"
	"github.com/adilnd/portfolio-api/internal/service"
)

// response is the JSON envelope every endpoint returns.
type response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Total   *int   `json:"total,omitempty"`
	Message string `json:"message,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respond(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, response{Success: true, Data: data})
}

func respondList(w http.ResponseWriter, data any, total int) {
	writeJSON(w, http.StatusOK, response{Success: true, Data: data, Total: &total})
}

func respondError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, response{Success: false, Message: msg})
}

func decodeJSON(r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(nil, r.Body, 1<<20) // 1 MB limit
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// respondServiceError funnels every service/repository error through one
// status-mapping point so store errors never reach the client verbatim.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		respondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, repository.ErrCapacityExceeded):
		respondError(w, http.StatusConflict, "formation is fully booked")
	case errors.Is(err, repository.ErrDuplicateRegistration):
		respondError(w, http.StatusConflict, "this email is already registered for this formation")
	case errors.Is(err, repository.ErrAlreadyCancelled):
		respondError(w, http.StatusConflict, "registration is already cancelled")
	case errors.Is(err, repository.ErrDuplicateSlug):
		respondError(w, http.StatusConflict, "a project with this slug already exists")
	case errors.Is(err, repository.ErrEmailMismatch):
		respondError(w, http.StatusUnauthorized, "email does not match this registration")
	case errors.Is(err, repository.ErrInvalidToken):
		respondError(w, http.StatusBadRequest, "invalid or expired verification token")
	case errors.Is(err, service.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid credentials")
	default:
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// Query-parameter helpers.

func queryInt(r *http.Request, key string, fallback int) int {
	v := r.URL.Query().Get(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func queryBoolPtr(r *http.Request, key string) *bool {
	v := r.URL.Query().Get(key)
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

// HealthCheck handles GET /health
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
