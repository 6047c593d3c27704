package ports

import (
	"context"

	"github.com/jhoicas/storefront-client/internal/domain/entity"
)

// OrderService puerto de salida hacia el servicio de órdenes.
type OrderService interface {
	// CreateOrder envía el pedido; el servidor asigna ID y fecha.
	CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error)
	ListOrders(ctx context.Context) ([]*entity.Order, error)
	DeleteOrder(ctx context.Context, id int64) error
}

// ReceiptRenderer genera el comprobante de un pedido (PDF).
type ReceiptRenderer interface {
	RenderReceipt(ctx context.Context, order *entity.Order, lines []ReceiptLine) ([]byte, error)
}

// ReceiptLine línea del comprobante con nombre de producto.
type ReceiptLine struct {
	entity.OrderItem
	ProductName string
}
