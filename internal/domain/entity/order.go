package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus estados de un pedido.
type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderCancelled OrderStatus = "CANCELLED"
)

// Valid true si el estado es uno de los conocidos.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

// Order pedido enviado al servicio de órdenes (ID y CreatedAt los asigna el servidor).
type Order struct {
	ID          int64
	UserID      int64
	TotalAmount decimal.Decimal
	Status      OrderStatus
	Items       []OrderItem
	Address     string
	Phone       string
	CreatedAt   time.Time
}

// OrderItem línea del pedido con el precio unitario capturado al enviar.
type OrderItem struct {
	ProductID int64
	Quantity  int
	Price     decimal.Decimal
}

// ShippingDetails datos de envío/contacto que pide el diálogo de checkout.
type ShippingDetails struct {
	UserID  int64  `json:"userId"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}
