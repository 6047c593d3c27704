package entity

import "github.com/shopspring/decimal"

// CartItem línea del carrito. Quantity >= 1 y una sola línea por producto.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal precio unitario por cantidad.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
