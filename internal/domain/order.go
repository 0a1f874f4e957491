package domain

import "time"

// Order represents a single delivery task with a customer, an optional
// assigned agent and a lifecycle status.
//
// DeliveryCode is assigned by the marketplace at creation, never changes
// for the order's life and is the sole credential for completing delivery.
// It must never be exposed to agents through the API.
type Order struct {
	ID              string
	CustomerID      string
	CustomerName    string
	CustomerContact string
	DeliveryAddress string
	Description     string
	Status          OrderStatus
	DeliveryCode    string
	AgentID         *string
	Amount          *float64
	DeliveryFee     *float64
	Location        *string
	CreatedAt       time.Time
	ConfirmedAt     *time.Time
	DeliveredAt     *time.Time
}

// OwnedBy reports whether the order is currently claimed by the given agent.
func (o *Order) OwnedBy(agentID string) bool {
	return o.AgentID != nil && *o.AgentID == agentID
}

// OrderLists is a snapshot of the two disjoint views an agent works with:
// orders the agent currently owns and orders anyone may still claim.
type OrderLists struct {
	Active    []Order
	Available []Order
}
