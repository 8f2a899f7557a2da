package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/coinforge/gamestore/internal/core/domain"
	"github.com/coinforge/gamestore/internal/core/ports"
)

type CardHandler struct {
	cardService ports.CardService
}

func NewCardHandler(cardService ports.CardService) *CardHandler {
	return &CardHandler{cardService: cardService}
}

type registerCardRequest struct {
	Type      string    `json:"type"`
	Number    string    `json:"number"`
	CCV       string    `json:"ccv"`
	ExpiresAt time.Time `json:"expires_at"`
}

func (h *CardHandler) Register(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		writeDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req registerCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	card, err := h.cardService.Register(r.Context(), identity.UserID, ports.RegisterCardInput{
		Type:      req.Type,
		Number:    req.Number,
		CCV:       req.CCV,
		ExpiresAt: req.ExpiresAt,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, card)
}

func (h *CardHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		writeDomainError(w, domain.ErrUnauthorized)
		return
	}

	cards, err := h.cardService.ListMine(r.Context(), identity.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if cards == nil {
		cards = []domain.CardView{}
	}
	writeJSON(w, http.StatusOK, cards)
}
