package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-client/internal/application/ports"
	"github.com/jhoicas/storefront-client/internal/domain"
	"github.com/jhoicas/storefront-client/internal/domain/entity"
)

var _ ports.OrderService = (*OrderClient)(nil)

const ordersPath = "/orders"

type orderItemWire struct {
	ProductID int64       `json:"productId"`
	Quantity  int         `json:"quantity"`
	Price     json.Number `json:"price"`
}

type orderWire struct {
	ID          int64           `json:"id,omitempty"`
	UserID      int64           `json:"userId"`
	TotalAmount json.Number     `json:"totalAmount"`
	Status      string          `json:"status"`
	Items       []orderItemWire `json:"items"`
	Address     string          `json:"address,omitempty"`
	Phone       string          `json:"phone,omitempty"`
	CreatedAt   *time.Time      `json:"createdAt,omitempty"`
}

// Los montos viajan como número JSON exacto (sin pasar por float64).
func number(d decimal.Decimal) json.Number { return json.Number(d.String()) }

func toOrderWire(o *entity.Order) orderWire {
	w := orderWire{
		ID:          o.ID,
		UserID:      o.UserID,
		TotalAmount: number(o.TotalAmount),
		Status:      string(o.Status),
		Items:       make([]orderItemWire, 0, len(o.Items)),
		Address:     o.Address,
		Phone:       o.Phone,
	}
	for _, it := range o.Items {
		w.Items = append(w.Items, orderItemWire{ProductID: it.ProductID, Quantity: it.Quantity, Price: number(it.Price)})
	}
	return w
}

func parseAmount(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(n.String())
}

func (w orderWire) toEntity() (*entity.Order, error) {
	total, err := parseAmount(w.TotalAmount)
	if err != nil {
		return nil, fmt.Errorf("totalAmount %q: %w", w.TotalAmount, err)
	}
	o := &entity.Order{
		ID:          w.ID,
		UserID:      w.UserID,
		TotalAmount: total,
		Status:      entity.OrderStatus(w.Status),
		Items:       make([]entity.OrderItem, 0, len(w.Items)),
		Address:     w.Address,
		Phone:       w.Phone,
	}
	if w.CreatedAt != nil {
		o.CreatedAt = *w.CreatedAt
	}
	for _, it := range w.Items {
		price, err := parseAmount(it.Price)
		if err != nil {
			return nil, fmt.Errorf("price %q: %w", it.Price, err)
		}
		o.Items = append(o.Items, entity.OrderItem{ProductID: it.ProductID, Quantity: it.Quantity, Price: price})
	}
	return o, nil
}

// OrderClient adaptador de /orders.
type OrderClient struct {
	c *Client
}

// NewOrderClient construye el adaptador.
func NewOrderClient(c *Client) *OrderClient {
	return &OrderClient{c: c}
}

// CreateOrder POST /orders; el servidor asigna id y fecha.
func (s *OrderClient) CreateOrder(ctx context.Context, order *entity.Order) (*entity.Order, error) {
	var out orderWire
	if err := s.c.do(ctx, "orders.create", http.MethodPost, ordersPath, nil, toOrderWire(order), &out); err != nil {
		return nil, err
	}
	created, err := out.toEntity()
	if err != nil {
		return nil, fmt.Errorf("orders.create: %w: %w", domain.ErrNetwork, err)
	}
	return created, nil
}

// ListOrders GET /orders.
func (s *OrderClient) ListOrders(ctx context.Context) ([]*entity.Order, error) {
	var out []orderWire
	if err := s.c.do(ctx, "orders.list", http.MethodGet, ordersPath, nil, nil, &out); err != nil {
		return nil, err
	}
	list := make([]*entity.Order, 0, len(out))
	for _, w := range out {
		o, err := w.toEntity()
		if err != nil {
			return nil, fmt.Errorf("orders.list: %w: %w", domain.ErrNetwork, err)
		}
		list = append(list, o)
	}
	return list, nil
}

// DeleteOrder DELETE /orders/{id}; 404 → domain.ErrNotFound.
func (s *OrderClient) DeleteOrder(ctx context.Context, id int64) error {
	err := s.c.do(ctx, "orders.delete", http.MethodDelete, ordersPath+"/"+strconv.FormatInt(id, 10), nil, nil, nil)
	if statusOf(err) == http.StatusNotFound {
		return fmt.Errorf("%w: pedido %d", domain.ErrNotFound, id)
	}
	return err
}
