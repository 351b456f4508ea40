package store

import (
	"context"

	shopkit "github.com/shopkit/go-shopkit"
)

type ShippingRate struct {
	ID       string `json:"id,omitempty"`
	Region   string `json:"region"`
	Carrier  string `json:"carrier,omitempty"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency,omitempty"`
}

type ShippingRates struct {
	api *shopkit.AuthorizedClient
}

func (s *ShippingRates) List(ctx context.Context) ([]ShippingRate, error) {
	var rates []ShippingRate
	if err := s.api.Do(ctx, shopkit.Get("/shipping-rate", nil), &rates); err != nil {
		return nil, err
	}
	return rates, nil
}

// PublicList is the storefront-facing rate listing. It is explicitly public:
// no bearer token is required or sent.
func (s *ShippingRates) PublicList(ctx context.Context) ([]ShippingRate, error) {
	var rates []ShippingRate
	if err := s.api.Do(ctx, shopkit.Get("/shipping-rate/public", nil).Public(), &rates); err != nil {
		return nil, err
	}
	return rates, nil
}

func (s *ShippingRates) Create(ctx context.Context, rate ShippingRate) (*ShippingRate, error) {
	created := &ShippingRate{}
	if err := s.api.Do(ctx, shopkit.Post("/shipping-rate", rate), created); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *ShippingRates) Update(ctx context.Context, rate ShippingRate) (*ShippingRate, error) {
	updated := &ShippingRate{}
	if err := s.api.Do(ctx, shopkit.Put("/shipping-rate/"+rate.ID, rate), updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *ShippingRates) Delete(ctx context.Context, id string) error {
	return s.api.Do(ctx, shopkit.Delete("/shipping-rate/"+id), nil)
}

// MarketListRequest is a storefront "request this market list" submission.
type MarketListRequest struct {
	ID        string   `json:"id,omitempty"`
	Requester string   `json:"requester,omitempty"`
	Items     []string `json:"items"`
	Notes     string   `json:"notes,omitempty"`
	Status    string   `json:"status,omitempty"`
}

type MarketLists struct {
	api *shopkit.AuthorizedClient
}

func (m *MarketLists) List(ctx context.Context) ([]MarketListRequest, error) {
	var requests []MarketListRequest
	if err := m.api.Do(ctx, shopkit.Get("/market-list-request", nil), &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

func (m *MarketLists) Submit(ctx context.Context, request MarketListRequest) (*MarketListRequest, error) {
	created := &MarketListRequest{}
	if err := m.api.Do(ctx, shopkit.Post("/market-list-request", request), created); err != nil {
		return nil, err
	}
	return created, nil
}

func (m *MarketLists) Delete(ctx context.Context, id string) error {
	return m.api.Do(ctx, shopkit.Delete("/market-list-request/"+id), nil)
}
