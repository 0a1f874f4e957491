package handlers

import (
	"net/http"
	"strings"

	"service-delivery-agent/internal/domain"
	"service-delivery-agent/internal/logx"
)

// feedPatcher applies optimistic updates to an agent's live feeds.
type feedPatcher interface {
	ApplyClaim(agentID string, o domain.Order)
}

// OrderHandler serves HTTP endpoints for the order lifecycle.
type OrderHandler struct {
	uc     orderUsecase
	feeds  feedPatcher
	logger logx.Logger
}

// NewOrderHandler wires an orderUsecase into HTTP handlers.
func NewOrderHandler(uc orderUsecase, feeds feedPatcher, logger logx.Logger) *OrderHandler {
	return &OrderHandler{uc: uc, feeds: feeds, logger: logger}
}

// List handles GET /orders?agent_id=... and returns the agent's active
// orders plus the available pool.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	agentID := strings.TrimSpace(r.URL.Query().Get("agent_id"))
	if agentID == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "agent_id is required")
		return
	}

	lists, err := h.uc.List(r.Context(), agentID)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, toOrderListsDTO(lists))
}

// GetByID handles GET /orders/{id}.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	o, err := h.uc.Get(r.Context(), id)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, toOrderDTO(o))
}

// Claim handles POST /orders/{id}/claim.
func (h *OrderHandler) Claim(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req claimRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	o, err := h.uc.Claim(r.Context(), id, req.AgentID)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	if h.feeds != nil {
		// move the order into this agent's live view ahead of the
		// change-signal refresh
		h.feeds.ApplyClaim(req.AgentID, *o)
	}
	writeJSON(h.logger, w, r, http.StatusOK, toOrderDTO(o))
}

// StartTransit handles POST /orders/{id}/transit.
func (h *OrderHandler) StartTransit(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req transitRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	o, err := h.uc.StartTransit(r.Context(), id, req.AgentID)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, toOrderDTO(o))
}

// Complete handles POST /orders/{id}/complete.
func (h *OrderHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req completeRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	// scanners and manual entry tend to add stray whitespace
	o, err := h.uc.Complete(r.Context(), id, req.AgentID, strings.TrimSpace(req.DeliveryCode))
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, toOrderDTO(o))
}
