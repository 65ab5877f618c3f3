// Package response provides shared JSON response helpers for HTTP handlers.
package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/cloudvault/service/internal/backend"
	"github.com/cloudvault/service/internal/catalog"
	"github.com/cloudvault/service/internal/ledger"
	"github.com/cloudvault/service/internal/session"
)

// Envelope is the standard API response envelope.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// JSON writes a JSON-encoded payload with the given HTTP status code.
func JSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// OK writes a 200 response with data.
func OK(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 response with data.
func Created(w http.ResponseWriter, data interface{}) {
	JSON(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

// Error writes an error response with the given status and message.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, Envelope{Success: false, Error: message})
}

// BadRequest writes a 400 response.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, http.StatusBadRequest, message)
}

// Unauthorized writes a 401 response.
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, http.StatusUnauthorized, message)
}

// NotFound writes a 404 response.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, http.StatusNotFound, message)
}

// Conflict writes a 409 response.
func Conflict(w http.ResponseWriter, message string) {
	Error(w, http.StatusConflict, message)
}

// ServiceUnavailable writes a 503 response.
func ServiceUnavailable(w http.ResponseWriter, message string) {
	Error(w, http.StatusServiceUnavailable, message)
}

// InternalError writes a 500 response with a generic message.
func InternalError(w http.ResponseWriter) {
	Error(w, http.StatusInternalServerError, "internal server error")
}

// StatusOf maps a domain error to its HTTP status.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, ledger.ErrUnknownProvider), errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrQuotaExceeded),
		errors.Is(err, ledger.ErrProviderNotLinked),
		errors.Is(err, ledger.ErrNoLinkedProvider):
		return http.StatusConflict
	case errors.Is(err, ledger.ErrInvalidSize),
		errors.Is(err, ledger.ErrProviderRequired),
		errors.Is(err, catalog.ErrInvalidFile):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrAuth), errors.Is(err, session.ErrNoSession):
		return http.StatusUnauthorized
	case errors.Is(err, backend.ErrPersistence):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// FromError writes the response for a domain error. Internal errors get a
// generic message; the rest carry the error text.
func FromError(w http.ResponseWriter, err error) {
	switch status := StatusOf(err); status {
	case http.StatusInternalServerError:
		InternalError(w)
	case http.StatusServiceUnavailable:
		ServiceUnavailable(w, "storage backend unavailable, nothing was changed")
	default:
		Error(w, status, err.Error())
	}
}
