package handlers

import (
	"context"
	"net/http"

	"service-delivery-agent/internal/domain"
	"service-delivery-agent/internal/logx"
	"service-delivery-agent/internal/service/agent"
)

// AgentHandler serves HTTP endpoints for agent profiles.
type AgentHandler struct {
	uc     agentUsecase
	logger logx.Logger
}

// NewAgentHandler wires an agentUsecase into HTTP handlers.
func NewAgentHandler(uc agentUsecase, logger logx.Logger) *AgentHandler {
	return &AgentHandler{uc: uc, logger: logger}
}

// Register handles POST /agents.
func (h *AgentHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerAgentRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	a, err := h.uc.Register(r.Context(), agent.RegisterInput{
		FullName:   req.FullName,
		Phone:      req.Phone,
		NationalID: req.NationalID,
		Location:   req.Location,
	})
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	w.Header().Set("Location", "/agents/"+a.ID)
	writeJSON(h.logger, w, r, http.StatusCreated, toAgentDTO(a))
}

// GetByID handles GET /agents/{id}.
func (h *AgentHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	a, err := h.uc.Get(r.Context(), id)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, toAgentDTO(a))
}

// Update handles PATCH /agents/{id} with partial updates.
func (h *AgentHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req updateAgentRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	err = h.uc.UpdateProfile(r.Context(), domain.PartialAgentUpdate{
		ID:             id,
		FullName:       req.FullName,
		Phone:          req.Phone,
		NationalID:     req.NationalID,
		Location:       req.Location,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// Online handles POST /agents/{id}/online.
func (h *AgentHandler) Online(w http.ResponseWriter, r *http.Request) {
	h.setPresence(w, r, h.uc.SetOnline)
}

// Offline handles POST /agents/{id}/offline.
func (h *AgentHandler) Offline(w http.ResponseWriter, r *http.Request) {
	h.setPresence(w, r, h.uc.SetOffline)
}

func (h *AgentHandler) setPresence(w http.ResponseWriter, r *http.Request, fn func(ctx context.Context, id string) error) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	if err := fn(r.Context(), id); err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
