package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-client/internal/domain/entity"
)

// CartResponse vista del carrito para la UI.
type CartResponse struct {
	Items      []entity.CartItem `json:"items"`
	ItemCount  int               `json:"item_count"`
	TotalPrice decimal.Decimal   `json:"total_price"`
	Currency   string            `json:"currency"`
}

// AddItemRequest agregar un producto del catálogo al carrito.
type AddItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// UpdateQuantityRequest fija la cantidad de una línea (<= 0 la elimina).
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}
