package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-client/internal/application/dto"
	"github.com/jhoicas/storefront-client/internal/application/ports"
	"github.com/jhoicas/storefront-client/internal/domain"
	"github.com/jhoicas/storefront-client/internal/domain/entity"
)

var _ ports.CatalogService = (*CatalogClient)(nil)

const productsPath = "/api/products"

type productWire struct {
	ID          int64       `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Price       json.Number `json:"price"`
	Available   bool        `json:"available"`
	MenuID      int64       `json:"menuId"`
	Categories  []string    `json:"categories"`
}

func (w productWire) toEntity() (entity.Product, error) {
	price := decimal.Zero
	if w.Price != "" {
		p, err := decimal.NewFromString(w.Price.String())
		if err != nil {
			return entity.Product{}, fmt.Errorf("precio %q: %w", w.Price, err)
		}
		price = p
	}
	return entity.Product{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		Price:       price,
		Available:   w.Available,
		MenuID:      w.MenuID,
		Categories:  w.Categories,
	}, nil
}

type pageWire struct {
	Content       []productWire `json:"content"`
	TotalElements int64         `json:"totalElements"`
	TotalPages    int           `json:"totalPages"`
	Size          int           `json:"size"`
	Number        int           `json:"number"`
}

// CatalogClient adaptador de /api/products.
type CatalogClient struct {
	c *Client
}

// NewCatalogClient construye el adaptador.
func NewCatalogClient(c *Client) *CatalogClient {
	return &CatalogClient{c: c}
}

// GetProduct GET /api/products/{id}; 404 → domain.ErrNotFound.
func (s *CatalogClient) GetProduct(ctx context.Context, id int64) (*entity.Product, error) {
	var w productWire
	err := s.c.do(ctx, "catalog.get", http.MethodGet, productsPath+"/"+strconv.FormatInt(id, 10), nil, nil, &w)
	if statusOf(err) == http.StatusNotFound {
		return nil, fmt.Errorf("%w: producto %d", domain.ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	p, err := w.toEntity()
	if err != nil {
		return nil, fmt.Errorf("catalog.get: %w: %w", domain.ErrNetwork, err)
	}
	return &p, nil
}

// ListProducts GET /api/products paginado.
func (s *CatalogClient) ListProducts(ctx context.Context, page dto.PageRequest) (*entity.ProductPage, error) {
	page.DefaultPage()
	q := pageQuery(page)
	q.Set("sortBy", page.SortBy)
	q.Set("sortDir", page.SortDir)
	return s.fetchPage(ctx, "catalog.list", productsPath, q)
}

// SearchProducts GET /api/products/search; solo se envían los filtros presentes.
func (s *CatalogClient) SearchProducts(ctx context.Context, f dto.ProductFilter, page dto.PageRequest) (*entity.ProductPage, error) {
	page.DefaultPage()
	q := pageQuery(page)
	if f.Name != "" {
		q.Set("name", f.Name)
	}
	if f.Description != "" {
		q.Set("description", f.Description)
	}
	if f.MinPrice != nil {
		q.Set("minPrice", f.MinPrice.String())
	}
	if f.MaxPrice != nil {
		q.Set("maxPrice", f.MaxPrice.String())
	}
	if f.Available != nil {
		q.Set("available", strconv.FormatBool(*f.Available))
	}
	if f.MenuID != 0 {
		q.Set("menuId", strconv.FormatInt(f.MenuID, 10))
	}
	for _, c := range f.Categories {
		q.Add("categories", c)
	}
	return s.fetchPage(ctx, "catalog.search", productsPath+"/search", q)
}

func pageQuery(p dto.PageRequest) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(p.Page))
	q.Set("size", strconv.Itoa(p.Size))
	return q
}

func (s *CatalogClient) fetchPage(ctx context.Context, op, path string, q url.Values) (*entity.ProductPage, error) {
	var w pageWire
	if err := s.c.do(ctx, op, http.MethodGet, path, q, nil, &w); err != nil {
		return nil, err
	}
	out := &entity.ProductPage{
		Content:       make([]entity.Product, 0, len(w.Content)),
		TotalElements: w.TotalElements,
		TotalPages:    w.TotalPages,
		Size:          w.Size,
		Number:        w.Number,
	}
	for _, pw := range w.Content {
		p, err := pw.toEntity()
		if err != nil {
			return nil, fmt.Errorf("%s: %w: %w", op, domain.ErrNetwork, err)
		}
		out.Content = append(out.Content, p)
	}
	return out, nil
}
