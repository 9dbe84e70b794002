package web

import (
	"encoding/json"
	"errors"
	"net/http"

	catalogapp "github.com/dwikikusuma/coffeeshop/internal/catalog/app"
	identityapp "github.com/dwikikusuma/coffeeshop/internal/identity/app"
	orderapp "github.com/dwikikusuma/coffeeshop/internal/order/app"
)

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{"code": code, "error": message})
}

// writeAppError maps application errors onto HTTP statuses.
func writeAppError(w http.ResponseWriter, err error) {
	status, code := statusFromErr(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}
	writeError(w, status, code, msg)
}

func statusFromErr(err error) (int, string) {
	switch {
	case errors.Is(err, catalogapp.ErrInvalidInput), errors.Is(err, orderapp.ErrInvalidInput):
		return http.StatusBadRequest, "INVALID_ARGUMENT"
	case errors.Is(err, catalogapp.ErrNotFound), errors.Is(err, identityapp.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}
