package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineView línea de pedido con el nombre del producto resuelto.
type OrderLineView struct {
	ProductID   int64           `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// OrderView pedido para el historial.
type OrderView struct {
	ID          int64           `json:"id"`
	UserID      int64           `json:"user_id"`
	Status      string          `json:"status"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Address     string          `json:"address,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	CreatedAt   *time.Time      `json:"created_at,omitempty"`
	Items       []OrderLineView `json:"items"`
}

// CheckoutRequest datos de envío enviados por la UI. Los vacíos se completan con el perfil del usuario.
type CheckoutRequest struct {
	Address string `json:"address"`
	Phone   string `json:"phone"`
}
