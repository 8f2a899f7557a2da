package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/coinforge/gamestore/internal/core/domain"
	"github.com/coinforge/gamestore/internal/core/ports"
)

// StoreHandler groups the money-moving endpoints: recharges and purchases.
type StoreHandler struct {
	rechargeService ports.RechargeService
	purchaseService ports.PurchaseService
}

func NewStoreHandler(rechargeService ports.RechargeService, purchaseService ports.PurchaseService) *StoreHandler {
	return &StoreHandler{rechargeService: rechargeService, purchaseService: purchaseService}
}

type rechargeRequest struct {
	CardID uuid.UUID `json:"card_id"`
	Coins  int64     `json:"coins"`
}

func (h *StoreHandler) Recharge(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		writeDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req rechargeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	recharge, err := h.rechargeService.Recharge(r.Context(), identity.UserID, req.CardID, req.Coins)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, recharge)
}

type purchaseRequest struct {
	GameID uuid.UUID `json:"game_id"`
}

func (h *StoreHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		writeDomainError(w, domain.ErrUnauthorized)
		return
	}

	var req purchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	order, err := h.purchaseService.Purchase(r.Context(), identity.UserID, req.GameID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *StoreHandler) CompletePurchase(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		writeDomainError(w, domain.ErrUnauthorized)
		return
	}

	orderID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid order id"})
		return
	}

	if err := h.purchaseService.Complete(r.Context(), orderID, identity); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *StoreHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	identity, ok := identityFrom(r)
	if !ok {
		writeDomainError(w, domain.ErrUnauthorized)
		return
	}

	orders, err := h.purchaseService.ListByUser(r.Context(), identity.UserID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if orders == nil {
		orders = []*domain.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}
