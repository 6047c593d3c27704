package ports

import (
	"context"

	"github.com/jhoicas/storefront-client/internal/application/dto"
	"github.com/jhoicas/storefront-client/internal/domain/entity"
)

// CatalogService puerto de salida hacia el catálogo de productos.
// GetProduct devuelve domain.ErrNotFound si el producto no existe.
type CatalogService interface {
	GetProduct(ctx context.Context, id int64) (*entity.Product, error)
	ListProducts(ctx context.Context, page dto.PageRequest) (*entity.ProductPage, error)
	SearchProducts(ctx context.Context, filter dto.ProductFilter, page dto.PageRequest) (*entity.ProductPage, error)
}
