package handlers

import (
	"time"

	"service-delivery-agent/internal/domain"
)

// orderDTO is the wire form of an order. The delivery code never
// leaves the server: the agent learns it from the customer at the
// door, not from the API.
type orderDTO struct {
	ID              string     `json:"id"`
	CustomerName    string     `json:"customer_name"`
	CustomerContact string     `json:"customer_contact"`
	DeliveryAddress string     `json:"delivery_address"`
	Description     string     `json:"description,omitempty"`
	Status          string     `json:"status"`
	AgentID         *string    `json:"agent_id,omitempty"`
	Amount          *float64   `json:"amount,omitempty"`
	DeliveryFee     *float64   `json:"delivery_fee,omitempty"`
	Location        *string    `json:"location,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	ConfirmedAt     *time.Time `json:"confirmed_at,omitempty"`
	DeliveredAt     *time.Time `json:"delivered_at,omitempty"`
}

type orderListsDTO struct {
	Active    []orderDTO `json:"active"`
	Available []orderDTO `json:"available"`
}

type claimRequest struct {
	AgentID string `json:"agent_id"`
}

type transitRequest struct {
	AgentID string `json:"agent_id"`
}

type completeRequest struct {
	AgentID      string `json:"agent_id"`
	DeliveryCode string `json:"delivery_code"`
}

func toOrderDTO(o *domain.Order) orderDTO {
	return orderDTO{
		ID:              o.ID,
		CustomerName:    o.CustomerName,
		CustomerContact: o.CustomerContact,
		DeliveryAddress: o.DeliveryAddress,
		Description:     o.Description,
		Status:          string(o.Status),
		AgentID:         o.AgentID,
		Amount:          o.Amount,
		DeliveryFee:     o.DeliveryFee,
		Location:        o.Location,
		CreatedAt:       o.CreatedAt,
		ConfirmedAt:     o.ConfirmedAt,
		DeliveredAt:     o.DeliveredAt,
	}
}

func toOrderDTOs(orders []domain.Order) []orderDTO {
	out := make([]orderDTO, 0, len(orders))
	for i := range orders {
		out = append(out, toOrderDTO(&orders[i]))
	}
	return out
}

func toOrderListsDTO(l domain.OrderLists) orderListsDTO {
	return orderListsDTO{
		Active:    toOrderDTOs(l.Active),
		Available: toOrderDTOs(l.Available),
	}
}
