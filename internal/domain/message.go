package domain

import "time"

// Message is a single chat record attached to an order. Messages are
// append-only and ordered by CreatedAt ascending within an order's thread.
type Message struct {
	ID         string
	OrderID    string
	SenderID   string
	ReceiverID string
	Text       string
	CreatedAt  time.Time
}

// MessageThread groups an order's messages together with the order itself,
// newest thread first when listed per agent.
type MessageThread struct {
	Order    Order
	Messages []Message
}
