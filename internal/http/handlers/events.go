package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"service-delivery-agent/internal/domain"
	"service-delivery-agent/internal/logx"
	"service-delivery-agent/internal/service/lifecycle"
)

type feedLister interface {
	List(ctx context.Context, agentID string) (domain.OrderLists, error)
}

// changeListener subscribes to order change signals.
type changeListener interface {
	Listen(ctx context.Context) (<-chan struct{}, func())
}

// feedRegistry tracks live feeds so mutation paths can patch them.
type feedRegistry interface {
	Add(f *lifecycle.Feed) func()
}

// EventsHandler streams an agent's order board over server-sent
// events. Each change signal triggers a refresh and a new snapshot
// frame; when a refresh fails the last good snapshot is resent with
// the stale flag set.
type EventsHandler struct {
	svc    feedLister
	bus    changeListener
	feeds  feedRegistry
	logger logx.Logger
}

// NewEventsHandler wires the lifecycle service, change bus and feed
// registry into an SSE handler.
func NewEventsHandler(svc feedLister, bus changeListener, feeds feedRegistry, logger logx.Logger) *EventsHandler {
	return &EventsHandler{svc: svc, bus: bus, feeds: feeds, logger: logger}
}

type feedFrame struct {
	Active    []orderDTO `json:"active"`
	Available []orderDTO `json:"available"`
	Stale     bool       `json:"stale"`
}

// Stream handles GET /events?agent_id=...
func (h *EventsHandler) Stream(w http.ResponseWriter, r *http.Request) {
	agentID := strings.TrimSpace(r.URL.Query().Get("agent_id"))
	if agentID == "" {
		writeError(h.logger, w, r, http.StatusBadRequest, "agent_id is required")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(h.logger, w, r, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	ctx := r.Context()
	feed := lifecycle.NewFeed(h.svc, agentID, h.logger)
	if h.feeds != nil {
		remove := h.feeds.Add(feed)
		defer remove()
	}
	signals, stop := h.bus.Listen(ctx)
	defer stop()

	feed.Run(ctx, signals, func() {
		h.sendFrame(w, flusher, feed)
	})
}

func (h *EventsHandler) sendFrame(w http.ResponseWriter, flusher http.Flusher, feed *lifecycle.Feed) {
	lists, stale := feed.Snapshot()
	frame := feedFrame{
		Active:    toOrderDTOs(lists.Active),
		Available: toOrderDTOs(lists.Available),
		Stale:     stale,
	}
	data, err := json.Marshal(frame)
	if err != nil {
		h.logger.Error("marshal feed frame", logx.Err(err))
		return
	}
	fmt.Fprintf(w, "data: %s\n\n", data)
	flusher.Flush()
}
