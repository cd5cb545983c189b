package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hariansyahfajrin/mart-api/internal/catalog"
	"github.com/hariansyahfajrin/mart-api/internal/inventory"
	"github.com/hariansyahfajrin/mart-api/internal/orders"
	"github.com/hariansyahfajrin/mart-api/internal/payments"
	"github.com/hariansyahfajrin/mart-api/internal/users"
)

// Response is the envelope every endpoint answers with.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func ok(w http.ResponseWriter, message string, data any) {
	writeJSON(w, http.StatusOK, Response{Success: true, Message: message, Data: data})
}

func fail(w http.ResponseWriter, code int, message string) {
	writeJSON(w, code, Response{Success: false, Message: message})
}

// failErr maps domain errors onto status codes; anything unrecognized is a
// 500 with the raw message surfaced.
func failErr(w http.ResponseWriter, err error) {
	fail(w, statusFor(err), err.Error())
}

func statusFor(err error) int {
	switch {
	case orders.IsValidation(err),
		errors.Is(err, inventory.ErrInsufficientStock),
		errors.Is(err, catalog.ErrCategoryInUse),
		errors.Is(err, users.ErrTokenInvalid):
		return http.StatusBadRequest
	case errors.Is(err, users.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, orders.ErrNotFound),
		errors.Is(err, inventory.ErrProductNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, users.ErrNotFound),
		errors.Is(err, payments.ErrTransactionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
