package store

import (
	"context"
	"net/url"
	"strconv"

	shopkit "github.com/shopkit/go-shopkit"
)

type Product struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Slug        string   `json:"slug,omitempty"`
	Description string   `json:"description,omitempty"`
	Price       int64    `json:"price"`
	Currency    string   `json:"currency,omitempty"`
	CategoryID  string   `json:"category_id,omitempty"`
	BrandID     string   `json:"brand_id,omitempty"`
	Images      []string `json:"images,omitempty"`
	InStock     bool     `json:"in_stock"`
}

// ProductQuery narrows a product listing. Zero values are omitted.
type ProductQuery struct {
	Search   string
	Category string
	Page     int
	PageSize int
}

func (q ProductQuery) values() url.Values {
	values := url.Values{}
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if q.Category != "" {
		values.Set("category", q.Category)
	}
	if q.Page > 0 {
		values.Set("page", strconv.Itoa(q.Page))
	}
	if q.PageSize > 0 {
		values.Set("page_size", strconv.Itoa(q.PageSize))
	}
	return values
}

type Products struct {
	api *shopkit.AuthorizedClient
}

func (p *Products) List(ctx context.Context, query ProductQuery) ([]Product, error) {
	var products []Product
	if err := p.api.Do(ctx, shopkit.Get("/products", query.values()), &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (p *Products) Get(ctx context.Context, id string) (*Product, error) {
	product := &Product{}
	if err := p.api.Do(ctx, shopkit.Get("/products/"+id, nil), product); err != nil {
		return nil, err
	}
	return product, nil
}

func (p *Products) Create(ctx context.Context, product Product) (*Product, error) {
	created := &Product{}
	if err := p.api.Do(ctx, shopkit.Post("/products", product), created); err != nil {
		return nil, err
	}
	return created, nil
}

func (p *Products) Update(ctx context.Context, product Product) (*Product, error) {
	updated := &Product{}
	if err := p.api.Do(ctx, shopkit.Put("/products/"+product.ID, product), updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (p *Products) Delete(ctx context.Context, id string) error {
	return p.api.Do(ctx, shopkit.Delete("/products/"+id), nil)
}
