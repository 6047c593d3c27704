// Package orders historial de pedidos del usuario: listado con nombres de producto,
// cancelación y comprobante PDF.
package orders

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/storefront-client/internal/application/dto"
	"github.com/jhoicas/storefront-client/internal/application/ports"
	"github.com/jhoicas/storefront-client/internal/domain"
	"github.com/jhoicas/storefront-client/internal/domain/entity"
	"github.com/jhoicas/storefront-client/pkg/logger"
)

const lookupConcurrency = 4

// Service casos de uso del historial de pedidos.
type Service struct {
	orders   ports.OrderService
	catalog  ports.CatalogService
	receipts ports.ReceiptRenderer
	log      *logger.Logger
}

// NewService receipts puede ser nil si no se generan comprobantes.
func NewService(orders ports.OrderService, catalog ports.CatalogService, receipts ports.ReceiptRenderer, log *logger.Logger) *Service {
	return &Service{orders: orders, catalog: catalog, receipts: receipts, log: log.Component("orders")}
}

// List pedidos del usuario, más recientes primero, con el nombre de cada producto resuelto.
func (s *Service) List(ctx context.Context) ([]dto.OrderView, error) {
	list, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	names, err := s.productNames(ctx, list)
	if err != nil {
		return nil, err
	}

	views := make([]dto.OrderView, 0, len(list))
	for _, o := range list {
		views = append(views, ToView(o, names))
	}
	slices.SortStableFunc(views, func(a, b dto.OrderView) int { return cmp.Compare(b.ID, a.ID) })
	return views, nil
}

// Cancel elimina el pedido en el servidor.
func (s *Service) Cancel(ctx context.Context, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%w: id de pedido", domain.ErrInvalidInput)
	}
	if err := s.orders.DeleteOrder(ctx, id); err != nil {
		return err
	}
	s.log.Info().Int64("order_id", id).Msg("pedido cancelado")
	return nil
}

// Receipt busca el pedido en el historial y genera su comprobante.
func (s *Service) Receipt(ctx context.Context, id int64) ([]byte, error) {
	if s.receipts == nil {
		return nil, fmt.Errorf("orders: generador de comprobantes no configurado")
	}
	list, err := s.orders.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(list, func(o *entity.Order) bool { return o.ID == id })
	if idx < 0 {
		return nil, fmt.Errorf("%w: pedido %d", domain.ErrNotFound, id)
	}
	order := list[idx]

	names, err := s.productNames(ctx, []*entity.Order{order})
	if err != nil {
		return nil, err
	}
	lines := make([]ports.ReceiptLine, 0, len(order.Items))
	for _, it := range order.Items {
		lines = append(lines, ports.ReceiptLine{OrderItem: it, ProductName: names[it.ProductID]})
	}
	return s.receipts.RenderReceipt(ctx, order, lines)
}

// productNames consulta el catálogo una vez por producto distinto, con concurrencia acotada.
// Un producto que ya no existe se muestra con un nombre genérico.
func (s *Service) productNames(ctx context.Context, list []*entity.Order) (map[int64]string, error) {
	ids := make(map[int64]struct{})
	for _, o := range list {
		for _, it := range o.Items {
			ids[it.ProductID] = struct{}{}
		}
	}

	var mu sync.Mutex
	names := make(map[int64]string, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(lookupConcurrency)
	for id := range ids {
		g.Go(func() error {
			name := fallbackName(id)
			p, err := s.catalog.GetProduct(gctx, id)
			switch {
			case errors.Is(err, domain.ErrNotFound):
				s.log.Debug().Int64("product_id", id).Msg("producto del pedido ya no existe en el catálogo")
			case err != nil:
				return fmt.Errorf("producto %d: %w", id, err)
			case p != nil && p.Name != "":
				name = p.Name
			}
			mu.Lock()
			names[id] = name
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return names, nil
}

func fallbackName(id int64) string {
	return fmt.Sprintf("Producto #%d", id)
}

// ToView vista de un pedido con los nombres de producto dados (faltantes quedan vacíos).
func ToView(o *entity.Order, names map[int64]string) dto.OrderView {
	v := dto.OrderView{
		ID:          o.ID,
		UserID:      o.UserID,
		Status:      string(o.Status),
		TotalAmount: o.TotalAmount,
		Address:     o.Address,
		Phone:       o.Phone,
		Items:       make([]dto.OrderLineView, 0, len(o.Items)),
	}
	if !o.CreatedAt.IsZero() {
		t := o.CreatedAt
		v.CreatedAt = &t
	}
	for _, it := range o.Items {
		v.Items = append(v.Items, dto.OrderLineView{
			ProductID:   it.ProductID,
			ProductName: names[it.ProductID],
			Quantity:    it.Quantity,
			Price:       it.Price,
			Subtotal:    it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))),
		})
	}
	return v
}
