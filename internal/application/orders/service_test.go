package orders_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jhoicas/storefront-client/internal/application/dto"
	"github.com/jhoicas/storefront-client/internal/application/orders"
	"github.com/jhoicas/storefront-client/internal/application/ports"
	"github.com/jhoicas/storefront-client/internal/domain"
	"github.com/jhoicas/storefront-client/internal/domain/entity"
	"github.com/jhoicas/storefront-client/pkg/logger"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeOrders struct {
	list    []*entity.Order
	err     error
	deleted []int64
}

func (f *fakeOrders) CreateOrder(context.Context, *entity.Order) (*entity.Order, error) {
	return nil, nil
}
func (f *fakeOrders) ListOrders(context.Context) ([]*entity.Order, error) { return f.list, f.err }
func (f *fakeOrders) DeleteOrder(_ context.Context, id int64) error {
	if f.err != nil {
		return f.err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeCatalog struct {
	products map[int64]entity.Product
	err      error
	calls    atomic.Int32
}

func (f *fakeCatalog) GetProduct(_ context.Context, id int64) (*entity.Product, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	p, ok := f.products[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &p, nil
}

func (f *fakeCatalog) ListProducts(context.Context, dto.PageRequest) (*entity.ProductPage, error) {
	return &entity.ProductPage{}, nil
}

func (f *fakeCatalog) SearchProducts(context.Context, dto.ProductFilter, dto.PageRequest) (*entity.ProductPage, error) {
	return &entity.ProductPage{}, nil
}

type fakeRenderer struct {
	mu    sync.Mutex
	lines []ports.ReceiptLine
}

func (f *fakeRenderer) RenderReceipt(_ context.Context, _ *entity.Order, lines []ports.ReceiptLine) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lines = lines
	return []byte("%PDF-fake"), nil
}

func historial() []*entity.Order {
	return []*entity.Order{
		{
			ID: 1, UserID: 7, Status: entity.OrderCompleted, TotalAmount: decimal.RequireFromString("9.00"),
			CreatedAt: time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC),
			Items: []entity.OrderItem{
				{ProductID: 10, Quantity: 2, Price: decimal.RequireFromString("4.50")},
			},
		},
		{
			ID: 2, UserID: 7, Status: entity.OrderPending, TotalAmount: decimal.RequireFromString("7.00"),
			Items: []entity.OrderItem{
				{ProductID: 10, Quantity: 1, Price: decimal.RequireFromString("4.50")},
				{ProductID: 99, Quantity: 2, Price: decimal.RequireFromString("1.25")},
			},
		},
	}
}

func catalogo() *fakeCatalog {
	return &fakeCatalog{products: map[int64]entity.Product{10: {ID: 10, Name: "Café"}}}
}

func TestList_EnriqueceNombresUnaVezPorProducto(t *testing.T) {
	cat := catalogo()
	svc := orders.NewService(&fakeOrders{list: historial()}, cat, nil, logger.Nop())

	views, err := svc.List(context.Background())
	require.NoError(t, err)

	require.Len(t, views, 2)
	assert.Equal(t, int64(2), views[0].ID, "más recientes primero")
	assert.Equal(t, "Café", views[0].Items[0].ProductName)
	assert.Equal(t, "Producto #99", views[0].Items[1].ProductName, "producto inexistente con nombre genérico")
	assert.Equal(t, "2.50", views[0].Items[1].Subtotal.StringFixed(2))
	assert.Nil(t, views[0].CreatedAt)
	require.NotNil(t, views[1].CreatedAt)
	assert.Equal(t, int32(2), cat.calls.Load(), "un GetProduct por producto distinto")
}

func TestList_ErrorDelCatalogoSePropaga(t *testing.T) {
	cat := catalogo()
	cat.err = &domain.ServiceError{Op: "catalog.get", StatusCode: 500}
	svc := orders.NewService(&fakeOrders{list: historial()}, cat, nil, logger.Nop())

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestList_ErrorDelServicioDeOrdenes(t *testing.T) {
	svc := orders.NewService(&fakeOrders{err: &domain.ServiceError{Op: "orders.list", StatusCode: 401}}, catalogo(), nil, logger.Nop())

	_, err := svc.List(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestCancel(t *testing.T) {
	repo := &fakeOrders{}
	svc := orders.NewService(repo, catalogo(), nil, logger.Nop())

	require.NoError(t, svc.Cancel(context.Background(), 2))
	assert.Equal(t, []int64{2}, repo.deleted)

	assert.ErrorIs(t, svc.Cancel(context.Background(), 0), domain.ErrInvalidInput)
}

func TestReceipt_GeneraConNombres(t *testing.T) {
	r := &fakeRenderer{}
	svc := orders.NewService(&fakeOrders{list: historial()}, catalogo(), r, logger.Nop())

	pdf, err := svc.Receipt(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, "%PDF-fake", string(pdf))
	require.Len(t, r.lines, 2)
	assert.Equal(t, "Café", r.lines[0].ProductName)
	assert.Equal(t, int64(99), r.lines[1].ProductID)
}

func TestReceipt_PedidoInexistente(t *testing.T) {
	svc := orders.NewService(&fakeOrders{list: historial()}, catalogo(), &fakeRenderer{}, logger.Nop())

	_, err := svc.Receipt(context.Background(), 404)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
