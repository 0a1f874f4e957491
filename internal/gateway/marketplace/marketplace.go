package marketplace

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Order is the marketplace's view of an order, fetched when an intake
// event references an order the local store has not seen yet.
type Order struct {
	ID              string    `json:"id"`
	CustomerID      string    `json:"customer_id"`
	CustomerName    string    `json:"customer_name"`
	CustomerContact string    `json:"customer_contact"`
	DeliveryAddress string    `json:"delivery_address"`
	Description     string    `json:"description"`
	DeliveryCode    string    `json:"delivery_code"`
	Amount          *float64  `json:"amount,omitempty"`
	DeliveryFee     *float64  `json:"delivery_fee,omitempty"`
	Location        *string   `json:"location,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

// StatusError is a non-2xx response from the marketplace API.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("marketplace responded %d", e.Code)
}

// HTTPGateway fetches orders from the marketplace REST API.
type HTTPGateway struct {
	client  *http.Client
	baseURL string
}

// NewHTTPGateway creates a marketplace gateway over the given base URL.
func NewHTTPGateway(client *http.Client, baseURL string) *HTTPGateway {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPGateway{client: client, baseURL: baseURL}
}

// GetByID fetches an order by ID. A 404 means the order does not exist
// on the marketplace and is reported as (nil, nil).
func (g *HTTPGateway) GetByID(ctx context.Context, id string) (*Order, error) {
	url := fmt.Sprintf("%s/api/orders/%s", g.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("marketplace gateway: build request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("marketplace gateway: GetByID: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("marketplace gateway: GetByID: %w", &StatusError{Code: resp.StatusCode})
	}

	var ord Order
	if err := json.NewDecoder(resp.Body).Decode(&ord); err != nil {
		return nil, fmt.Errorf("marketplace gateway: decode order: %w", err)
	}
	return &ord, nil
}
