package mockgateway

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-client/internal/domain/entity"
)

var (
	errOrderNotFound = errors.New("pedido no encontrado")
	errInvalidOrder  = errors.New("pedido inválido")
)

// orderBook pedidos por usuario.
type orderBook struct {
	mu      sync.Mutex
	nextID  int64
	orders  []*entity.Order
	catalog *catalog
	now     func() time.Time
}

func newOrderBook(c *catalog, now func() time.Time) *orderBook {
	return &orderBook{catalog: c, now: now}
}

// create valida líneas contra el catálogo y el total contra la suma de líneas.
func (b *orderBook) create(userID int64, o *entity.Order) (*entity.Order, error) {
	if len(o.Items) == 0 {
		return nil, fmt.Errorf("%w: sin líneas", errInvalidOrder)
	}
	sum := decimal.Zero
	for _, it := range o.Items {
		if it.Quantity < 1 {
			return nil, fmt.Errorf("%w: cantidad %d en producto %d", errInvalidOrder, it.Quantity, it.ProductID)
		}
		p, ok := b.catalog.get(it.ProductID)
		if !ok || !p.Available {
			return nil, fmt.Errorf("%w: producto %d no disponible", errInvalidOrder, it.ProductID)
		}
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	if !sum.Equal(o.TotalAmount) {
		return nil, fmt.Errorf("%w: total %s no coincide con %s", errInvalidOrder, o.TotalAmount, sum)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	stored := *o
	stored.ID = b.nextID
	stored.UserID = userID
	stored.Status = entity.OrderPending
	stored.CreatedAt = b.now().UTC()
	stored.Items = slices.Clone(o.Items)
	b.orders = append(b.orders, &stored)

	out := stored
	return &out, nil
}

func (b *orderBook) list(userID int64) []*entity.Order {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]*entity.Order, 0)
	for _, o := range b.orders {
		if o.UserID == userID {
			cp := *o
			out = append(out, &cp)
		}
	}
	return out
}

func (b *orderBook) remove(userID, id int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	i := slices.IndexFunc(b.orders, func(o *entity.Order) bool { return o.ID == id && o.UserID == userID })
	if i < 0 {
		return errOrderNotFound
	}
	b.orders = slices.Delete(b.orders, i, i+1)
	return nil
}
