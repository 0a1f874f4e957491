package handlers

import (
	"net/http"
	"time"

	"service-delivery-agent/internal/domain"
	"service-delivery-agent/internal/logx"
)

// MessageHandler serves HTTP endpoints for order chat threads.
type MessageHandler struct {
	uc     messageUsecase
	logger logx.Logger
}

// NewMessageHandler wires a messageUsecase into HTTP handlers.
func NewMessageHandler(uc messageUsecase, logger logx.Logger) *MessageHandler {
	return &MessageHandler{uc: uc, logger: logger}
}

type messageDTO struct {
	ID         string    `json:"id"`
	OrderID    string    `json:"order_id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Text       string    `json:"text"`
	CreatedAt  time.Time `json:"created_at"`
}

type threadDTO struct {
	Order    orderDTO     `json:"order"`
	Messages []messageDTO `json:"messages"`
}

type sendMessageRequest struct {
	SenderID string `json:"sender_id"`
	Text     string `json:"text"`
}

func toMessageDTO(m domain.Message) messageDTO {
	return messageDTO{
		ID:         m.ID,
		OrderID:    m.OrderID,
		SenderID:   m.SenderID,
		ReceiverID: m.ReceiverID,
		Text:       m.Text,
		CreatedAt:  m.CreatedAt,
	}
}

func toThreadDTO(t domain.MessageThread) threadDTO {
	msgs := make([]messageDTO, 0, len(t.Messages))
	for _, m := range t.Messages {
		msgs = append(msgs, toMessageDTO(m))
	}
	return threadDTO{Order: toOrderDTO(&t.Order), Messages: msgs}
}

// Send handles POST /orders/{id}/messages.
func (h *MessageHandler) Send(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}
	var req sendMessageRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}

	m, err := h.uc.Send(r.Context(), id, req.SenderID, req.Text)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusCreated, toMessageDTO(*m))
}

// Thread handles GET /orders/{id}/messages.
func (h *MessageHandler) Thread(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	t, err := h.uc.Thread(r.Context(), id)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, toThreadDTO(*t))
}

// ListForAgent handles GET /agents/{id}/messages.
func (h *MessageHandler) ListForAgent(w http.ResponseWriter, r *http.Request) {
	id, err := idFromURL(r, "id")
	if err != nil {
		writeError(h.logger, w, r, http.StatusBadRequest, "invalid id")
		return
	}

	threads, err := h.uc.ListForAgent(r.Context(), id)
	if err != nil {
		writeDomainError(h.logger, w, r, err)
		return
	}
	out := make([]threadDTO, 0, len(threads))
	for _, t := range threads {
		out = append(out, toThreadDTO(t))
	}
	writeJSON(h.logger, w, r, http.StatusOK, out)
}
