package intake

import (
	"time"
)

// Event is a single marketplace order event.
type Event struct {
	OrderID   string    `json:"order_id"`
	Action    string    `json:"action"`
	CreatedAt time.Time `json:"created_at"`
}
