package menu

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/grandplaza/roomvoice/pkg/errhandler"
)

// Source supplies catalog data. The production implementation talks to the
// menu REST collaborator; tests and development mode use StaticSource.
type Source interface {
	FetchCategories(ctx context.Context) ([]Category, error)
	FetchItems(ctx context.Context) ([]Item, error)
}

// Client is the REST menu collaborator client.
type Client struct {
	http *resty.Client
}

// NewClient builds a menu client against the backend base URL. The timeout
// applies to every fetch.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(timeout),
	}
}

// FetchCategories lists the active menu categories.
func (c *Client) FetchCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("is_active", "true").
		SetResult(&categories).
		Get("/api/v1/categories/")
	if err != nil {
		return nil, errhandler.NewTransientError("menu", "fetch categories failed", err)
	}
	if resp.IsError() {
		return nil, errhandler.NewTransientError("menu",
			fmt.Sprintf("fetch categories returned %d", resp.StatusCode()), nil)
	}
	return categories, nil
}

// FetchItems lists the available menu items.
func (c *Client) FetchItems(ctx context.Context) ([]Item, error) {
	var items []Item
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("is_available", "true").
		SetResult(&items).
		Get("/api/v1/menu-items/")
	if err != nil {
		return nil, errhandler.NewTransientError("menu", "fetch items failed", err)
	}
	if resp.IsError() {
		return nil, errhandler.NewTransientError("menu",
			fmt.Sprintf("fetch items returned %d", resp.StatusCode()), nil)
	}
	return items, nil
}
