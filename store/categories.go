package store

import (
	"context"

	shopkit "github.com/shopkit/go-shopkit"
)

type Category struct {
	ID       string `json:"id,omitempty"`
	Name     string `json:"name"`
	Slug     string `json:"slug,omitempty"`
	ParentID string `json:"parent_id,omitempty"`
}

type Categories struct {
	api *shopkit.AuthorizedClient
}

func (c *Categories) List(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.api.Do(ctx, shopkit.Get("/categories", nil), &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Categories) Create(ctx context.Context, category Category) (*Category, error) {
	created := &Category{}
	if err := c.api.Do(ctx, shopkit.Post("/categories", category), created); err != nil {
		return nil, err
	}
	return created, nil
}

func (c *Categories) Update(ctx context.Context, category Category) (*Category, error) {
	updated := &Category{}
	if err := c.api.Do(ctx, shopkit.Put("/categories/"+category.ID, category), updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (c *Categories) Delete(ctx context.Context, id string) error {
	return c.api.Do(ctx, shopkit.Delete("/categories/"+id), nil)
}

type Brand struct {
	ID   string `json:"id,omitempty"`
	Name string `json:"name"`
	Logo string `json:"logo,omitempty"`
}

type Brands struct {
	api *shopkit.AuthorizedClient
}

func (b *Brands) List(ctx context.Context) ([]Brand, error) {
	var brands []Brand
	if err := b.api.Do(ctx, shopkit.Get("/brands", nil), &brands); err != nil {
		return nil, err
	}
	return brands, nil
}

func (b *Brands) Create(ctx context.Context, brand Brand) (*Brand, error) {
	created := &Brand{}
	if err := b.api.Do(ctx, shopkit.Post("/brands", brand), created); err != nil {
		return nil, err
	}
	return created, nil
}

func (b *Brands) Update(ctx context.Context, brand Brand) (*Brand, error) {
	updated := &Brand{}
	if err := b.api.Do(ctx, shopkit.Put("/brands/"+brand.ID, brand), updated); err != nil {
		return nil, err
	}
	return updated, nil
}

func (b *Brands) Delete(ctx context.Context, id string) error {
	return b.api.Do(ctx, shopkit.Delete("/brands/"+id), nil)
}
