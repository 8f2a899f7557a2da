package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/coinforge/gamestore/internal/core/domain"
)

type errorResponse struct {
	Error   string `json:"error"`
	OrderID string `json:"order_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			http.Error(w, "failed to encode response", http.StatusInternalServerError)
		}
	}
}

// writeDomainError maps the service error taxonomy onto HTTP statuses. A
// partial purchase surfaces the order ID so the client can retry completion.
func writeDomainError(w http.ResponseWriter, err error) {
	var partial *domain.PartialPurchaseError
	if errors.As(err, &partial) {
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   "purchase incomplete, retry completion",
			OrderID: partial.OrderID.String(),
		})
		return
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		status = http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.Is(err, domain.ErrInsufficientBalance):
		status = http.StatusPaymentRequired
	case errors.Is(err, domain.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrAlreadyPurchased):
		status = http.StatusConflict
	}

	msg := err.Error()
	if status == http.StatusInternalServerError {
		// Internal details stay in the logs.
		msg = "internal server error"
	}
	writeJSON(w, status, errorResponse{Error: msg})
}
