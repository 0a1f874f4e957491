package domain

// OrderStatus represents the lifecycle status of an order.
type OrderStatus string

// List of possible order statuses, in lifecycle order.
const (
	StatusPending   OrderStatus = "pending"
	StatusAssigned  OrderStatus = "assigned"
	StatusOnTransit OrderStatus = "on_transit"
	StatusDelivered OrderStatus = "delivered"
)

var statusRank = map[OrderStatus]int{
	StatusPending:   0,
	StatusAssigned:  1,
	StatusOnTransit: 2,
	StatusDelivered: 3,
}

// Valid checks if the OrderStatus is one of the known statuses.
func (s OrderStatus) Valid() bool {
	_, ok := statusRank[s]
	return ok
}

// Terminal reports whether the status ends the lifecycle.
func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered
}

// CanTransition reports whether moving from s to next is allowed.
// Status only moves forward one step at a time and never regresses.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	from, ok := statusRank[s]
	if !ok {
		return false
	}
	to, ok := statusRank[next]
	if !ok {
		return false
	}
	return to == from+1
}
