// Package store holds the thin resource clients for the commerce backend.
// Everything here is CRUD glue over the authorized fetch wrapper: bearer
// handling, envelope unwrapping, and error classification live in shopkit,
// never in these clients.
package store

import (
	shopkit "github.com/shopkit/go-shopkit"
)

// Client bundles the resource surfaces over one authorized client.
type Client struct {
	Products      *Products
	Categories    *Categories
	Brands        *Brands
	ShippingRates *ShippingRates
	MarketLists   *MarketLists
	Staff         *Staff
	Orders        *Orders
}

func NewClient(api *shopkit.AuthorizedClient) *Client {
	return &Client{
		Products:      &Products{api: api},
		Categories:    &Categories{api: api},
		Brands:        &Brands{api: api},
		ShippingRates: &ShippingRates{api: api},
		MarketLists:   &MarketLists{api: api},
		Staff:         &Staff{api: api},
		Orders:        &Orders{api: api},
	}
}
