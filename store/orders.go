package store

import (
	"context"
	"net/url"
	"time"

	shopkit "github.com/shopkit/go-shopkit"
)

type OrderItem struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
}

type Order struct {
	ID        string      `json:"id,omitempty"`
	UserID    string      `json:"user_id,omitempty"`
	Items     []OrderItem `json:"items"`
	Total     int64       `json:"total"`
	Currency  string      `json:"currency,omitempty"`
	Status    string      `json:"status,omitempty"`
	CreatedAt *time.Time  `json:"created_at,omitempty"`
}

type Orders struct {
	api *shopkit.AuthorizedClient
}

// List returns orders, optionally scoped to one user (admin listings pass "").
func (o *Orders) List(ctx context.Context, userID string) ([]Order, error) {
	var query url.Values
	if userID != "" {
		query = url.Values{"user_id": []string{userID}}
	}

	var orders []Order
	if err := o.api.Do(ctx, shopkit.Get("/orders", query), &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (o *Orders) Get(ctx context.Context, id string) (*Order, error) {
	order := &Order{}
	if err := o.api.Do(ctx, shopkit.Get("/orders/"+id, nil), order); err != nil {
		return nil, err
	}
	return order, nil
}

func (o *Orders) Create(ctx context.Context, order Order) (*Order, error) {
	created := &Order{}
	if err := o.api.Do(ctx, shopkit.Post("/orders", order), created); err != nil {
		return nil, err
	}
	return created, nil
}

func (o *Orders) UpdateStatus(ctx context.Context, id, status string) (*Order, error) {
	updated := &Order{}
	payload := map[string]string{"status": status}
	if err := o.api.Do(ctx, shopkit.Patch("/orders/"+id, payload), updated); err != nil {
		return nil, err
	}
	return updated, nil
}
