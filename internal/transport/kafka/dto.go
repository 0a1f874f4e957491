package kafka

import (
	"strings"
	"time"

	"service-delivery-agent/internal/service/intake"
)

// EventDTO is the wire form of a marketplace order event.
type EventDTO struct {
	OrderID   string    `json:"order_id"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}

// ToDomain converts EventDTO to intake.Event.
func ToDomain(dto EventDTO) intake.Event {
	return intake.Event{
		OrderID:   strings.TrimSpace(dto.OrderID),
		Action:    strings.TrimSpace(dto.Action),
		CreatedAt: dto.CreatedAt,
	}
}
