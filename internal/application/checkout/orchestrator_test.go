package checkout_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/jhoicas/storefront-client/internal/application/cart"
	"github.com/jhoicas/storefront-client/internal/application/checkout"
	"github.com/jhoicas/storefront-client/internal/domain"
	"github.com/jhoicas/storefront-client/internal/domain/entity"
	"github.com/jhoicas/storefront-client/internal/infrastructure/storage"
	"github.com/jhoicas/storefront-client/pkg/logger"
)

type fakeOrders struct {
	mu        sync.Mutex
	submitted []*entity.Order
	err       error
}

func (f *fakeOrders) CreateOrder(_ context.Context, o *entity.Order) (*entity.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *o
	cp.Items = append([]entity.OrderItem(nil), o.Items...)
	f.submitted = append(f.submitted, &cp)
	if f.err != nil {
		return nil, f.err
	}
	created := cp
	created.ID = int64(len(f.submitted))
	return &created, nil
}

func (f *fakeOrders) ListOrders(context.Context) ([]*entity.Order, error) { return nil, nil }
func (f *fakeOrders) DeleteOrder(context.Context, int64) error           { return nil }

type staticUser struct{ u *entity.UserProfile }

func (s staticUser) CurrentUser() *entity.UserProfile { return s.u }

var (
	cafe = entity.Product{ID: 1, Name: "Café", Price: decimal.RequireFromString("4.50"), Available: true}
	pan  = entity.Product{ID: 2, Name: "Pan", Price: decimal.RequireFromString("1.25"), Available: true}

	envio = entity.ShippingDetails{UserID: 7, Address: "Calle 1 # 2-3", Phone: "3001234567"}

	decimalEq = cmp.Comparer(func(x, y decimal.Decimal) bool { return x.Equal(y) })
)

func setup(t *testing.T) (*checkout.Orchestrator, *cart.Manager, *fakeOrders) {
	t.Helper()
	c := cart.NewManager(storage.NewMemoryStore(), logger.Nop())
	require.NoError(t, c.Initialize(context.Background()))
	orders := &fakeOrders{}
	return checkout.NewOrchestrator(c, nil, orders, logger.Nop()), c, orders
}

func fill(t *testing.T, c *cart.Manager) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, c.AddItem(ctx, cafe, 2))
	require.NoError(t, c.AddItem(ctx, pan, 3))
}

func TestCheckout_CarritoVacioNoLlamaALaRed(t *testing.T) {
	o, _, orders := setup(t)
	prompted := false
	prompt := checkout.PromptFunc(func(context.Context, checkout.Summary) (entity.ShippingDetails, bool, error) {
		prompted = true
		return envio, true, nil
	})

	_, err := o.Checkout(context.Background(), prompt)

	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.False(t, prompted)
	assert.Empty(t, orders.submitted)
}

func TestCheckout_ExitoEnviaSnapshotYVaciaElCarrito(t *testing.T) {
	o, c, orders := setup(t)
	fill(t, c)

	created, err := o.Checkout(context.Background(), checkout.FixedDetails(envio))
	require.NoError(t, err)

	require.Len(t, orders.submitted, 1)
	want := &entity.Order{
		UserID:      7,
		TotalAmount: decimal.RequireFromString("12.75"),
		Status:      entity.OrderPending,
		Items: []entity.OrderItem{
			{ProductID: 1, Quantity: 2, Price: decimal.RequireFromString("4.50")},
			{ProductID: 2, Quantity: 3, Price: decimal.RequireFromString("1.25")},
		},
		Address: envio.Address,
		Phone:   envio.Phone,
	}
	assert.Empty(t, cmp.Diff(want, orders.submitted[0], decimalEq))
	assert.Equal(t, int64(1), created.ID)
	assert.Empty(t, c.Items(), "el carrito se vacía tras el éxito")
}

func TestCheckout_FalloDeRedConservaElCarritoYReenviaLoMismo(t *testing.T) {
	o, c, orders := setup(t)
	fill(t, c)
	before := c.Items()

	orders.err = &domain.ServiceError{Op: "orders.create", StatusCode: 503, Message: "mantenimiento"}
	_, err := o.Checkout(context.Background(), checkout.FixedDetails(envio))

	require.ErrorIs(t, err, domain.ErrNetwork)
	assert.Empty(t, cmp.Diff(before, c.Items(), decimalEq), "carrito intacto")
	require.Len(t, orders.submitted, 1, "sin reintentos")

	orders.err = nil
	_, err = o.Checkout(context.Background(), checkout.FixedDetails(envio))
	require.NoError(t, err)

	require.Len(t, orders.submitted, 2)
	assert.Empty(t, cmp.Diff(orders.submitted[0].Items, orders.submitted[1].Items, decimalEq))
	assert.Empty(t, c.Items())
}

func TestCheckout_CancelarNoEnviaNada(t *testing.T) {
	o, c, orders := setup(t)
	fill(t, c)
	prompt := checkout.PromptFunc(func(context.Context, checkout.Summary) (entity.ShippingDetails, bool, error) {
		return entity.ShippingDetails{}, false, nil
	})

	_, err := o.Checkout(context.Background(), prompt)

	assert.ErrorIs(t, err, domain.ErrCheckoutCancelled)
	assert.Empty(t, orders.submitted)
	assert.Len(t, c.Items(), 2)
}

func TestCheckout_DatosDeEnvioInvalidos(t *testing.T) {
	casos := map[string]entity.ShippingDetails{
		"sin cuenta":    {Address: "x", Phone: "1"},
		"sin dirección": {UserID: 1, Address: "  ", Phone: "1"},
		"sin teléfono":  {UserID: 1, Address: "x"},
	}
	for nombre, d := range casos {
		t.Run(nombre, func(t *testing.T) {
			o, c, orders := setup(t)
			fill(t, c)

			_, err := o.Checkout(context.Background(), checkout.FixedDetails(d))

			assert.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, orders.submitted)
		})
	}
}

func TestCheckout_ErrorDelPromptSePropaga(t *testing.T) {
	o, c, orders := setup(t)
	fill(t, c)
	boom := errors.New("diálogo cerrado")
	prompt := checkout.PromptFunc(func(context.Context, checkout.Summary) (entity.ShippingDetails, bool, error) {
		return entity.ShippingDetails{}, false, boom
	})

	_, err := o.Checkout(context.Background(), prompt)

	assert.ErrorIs(t, err, boom)
	assert.Empty(t, orders.submitted)
}

func TestCheckout_ResumenConDatosDelUsuario(t *testing.T) {
	c := cart.NewManager(storage.NewMemoryStore(), logger.Nop())
	require.NoError(t, c.Initialize(context.Background()))
	fill(t, c)
	user := staticUser{u: &entity.UserProfile{ID: "7", Address: "Cra 5", Phone: "555"}}
	o := checkout.NewOrchestrator(c, user, &fakeOrders{}, logger.Nop())

	var got checkout.Summary
	prompt := checkout.PromptFunc(func(_ context.Context, s checkout.Summary) (entity.ShippingDetails, bool, error) {
		got = s
		return s.Defaults, true, nil
	})
	_, err := o.Checkout(context.Background(), prompt)
	require.NoError(t, err)

	assert.Equal(t, entity.ShippingDetails{UserID: 7, Address: "Cra 5", Phone: "555"}, got.Defaults)
	assert.Equal(t, "12.75", got.Total.StringFixed(2))
	assert.Len(t, got.Items, 2)
}

func TestCheckout_UnoALaVez(t *testing.T) {
	defer goleak.VerifyNone(t)

	o, c, _ := setup(t)
	fill(t, c)

	entered := make(chan struct{})
	release := make(chan struct{})
	prompt := checkout.PromptFunc(func(context.Context, checkout.Summary) (entity.ShippingDetails, bool, error) {
		close(entered)
		<-release
		return envio, true, nil
	})

	done := make(chan error, 1)
	go func() {
		_, err := o.Checkout(context.Background(), prompt)
		done <- err
	}()
	<-entered

	_, err := o.Checkout(context.Background(), checkout.FixedDetails(envio))
	assert.ErrorIs(t, err, domain.ErrCheckoutInProgress)

	close(release)
	require.NoError(t, <-done)
}

func TestBuildOrder_UsaPrecioDelSnapshot(t *testing.T) {
	items := []entity.CartItem{{Product: cafe, Quantity: 1}}
	order := checkout.BuildOrder(items, envio)

	items[0].Product.Price = decimal.NewFromInt(100)

	assert.True(t, order.Items[0].Price.Equal(decimal.RequireFromString("4.50")))
	assert.Equal(t, entity.OrderPending, order.Status)
}
