package mockgateway_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/storefront-client/internal/application/cart"
	"github.com/jhoicas/storefront-client/internal/application/checkout"
	"github.com/jhoicas/storefront-client/internal/application/dto"
	"github.com/jhoicas/storefront-client/internal/application/orders"
	"github.com/jhoicas/storefront-client/internal/application/session"
	"github.com/jhoicas/storefront-client/internal/domain"
	"github.com/jhoicas/storefront-client/internal/domain/entity"
	"github.com/jhoicas/storefront-client/internal/infrastructure/api"
	"github.com/jhoicas/storefront-client/internal/infrastructure/storage"
	"github.com/jhoicas/storefront-client/internal/mockgateway"
	"github.com/jhoicas/storefront-client/pkg/config"
	"github.com/jhoicas/storefront-client/pkg/logger"
)

// client piezas del cliente conectadas al gateway en proceso.
type client struct {
	app          *fiber.App
	session      *session.Manager
	cart         *cart.Manager
	catalog      *api.CatalogClient
	orders       *orders.Service
	orchestrator *checkout.Orchestrator
}

func newClient(t *testing.T, products []entity.Product) *client {
	t.Helper()
	log := logger.Nop()
	gw := mockgateway.New(mockgateway.Options{
		JWT:        config.JWTConfig{Secret: "dev-secret", Issuer: "mockgateway", Expiration: 30},
		Products:   products,
		BcryptCost: bcrypt.MinCost,
	}, log)
	app := gw.App()

	var sess *session.Manager
	hc := api.NewClient(
		config.APIConfig{BaseURL: "http://gateway.test"},
		api.TokenFunc(func() string { return sess.Token() }),
		log,
		api.WithTransport(mockgateway.Transport(app)),
	)
	store := storage.NewMemoryStore()
	sess = session.NewManager(store, api.NewAuthClient(hc), log)
	require.NoError(t, sess.Initialize(context.Background()))

	c := cart.NewManager(store, log)
	require.NoError(t, c.Initialize(context.Background()))
	t.Cleanup(func() {
		sess.Close()
		c.Close()
	})

	catalog := api.NewCatalogClient(hc)
	orderClient := api.NewOrderClient(hc)
	return &client{
		app:          app,
		session:      sess,
		cart:         c,
		catalog:      catalog,
		orders:       orders.NewService(orderClient, catalog, nil, log),
		orchestrator: checkout.NewOrchestrator(c, sess, orderClient, log),
	}
}

func registro() dto.RegisterRequest {
	return dto.RegisterRequest{Name: "Ana", Email: "ana@example.com", Password: "secreta123", Phone: "300", Address: "Calle 1"}
}

func TestFlujoCompleto_RegistroCarritoCheckoutHistorial(t *testing.T) {
	ctx := context.Background()
	cl := newClient(t, mockgateway.SeedProducts(12, 42))

	user, err := cl.session.Register(ctx, registro())
	require.NoError(t, err)
	assert.Equal(t, "1", user.ID, "el id numérico del gateway llega como texto")
	require.True(t, cl.session.IsAuthenticated())
	require.NoError(t, cl.session.Revalidate(ctx))

	page, err := cl.catalog.SearchProducts(ctx, dto.ProductFilter{Available: boolPtr(true)}, dto.PageRequest{Page: 0, Size: 50})
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(page.Content), 2)

	require.NoError(t, cl.cart.AddItem(ctx, page.Content[0], 2))
	require.NoError(t, cl.cart.AddItem(ctx, page.Content[1], 1))
	total := cl.cart.TotalPrice()

	created, err := cl.orchestrator.Checkout(ctx, checkout.PromptFunc(func(_ context.Context, s checkout.Summary) (entity.ShippingDetails, bool, error) {
		return s.Defaults, true, nil
	}))
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)
	assert.True(t, created.TotalAmount.Equal(total), "el gateway acepta el total calculado por el carrito")
	assert.False(t, created.CreatedAt.IsZero())
	assert.Empty(t, cl.cart.Items())

	views, err := cl.orders.List(ctx)
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, page.Content[0].Name, views[0].Items[0].ProductName)
	assert.Equal(t, "Calle 1", views[0].Address)

	require.NoError(t, cl.orders.Cancel(ctx, created.ID))
	assert.ErrorIs(t, cl.orders.Cancel(ctx, created.ID), domain.ErrNotFound)
}

func TestRegistro_EmailDuplicado(t *testing.T) {
	ctx := context.Background()
	cl := newClient(t, nil)
	_, err := cl.session.Register(ctx, registro())
	require.NoError(t, err)
	require.NoError(t, cl.session.Logout(ctx))

	_, err = cl.session.Register(ctx, registro())

	var authErr *domain.AuthError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "El email ya está registrado", authErr.Message)
	assert.False(t, cl.session.IsAuthenticated())
}

func TestLogin_PasswordIncorrecto(t *testing.T) {
	ctx := context.Background()
	cl := newClient(t, nil)
	_, err := cl.session.Register(ctx, registro())
	require.NoError(t, err)
	require.NoError(t, cl.session.Logout(ctx))

	_, err = cl.session.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrAuthFailed)

	u, err := cl.session.Login(ctx, dto.LoginRequest{Email: "ANA@example.com", Password: "secreta123"})
	require.NoError(t, err)
	assert.Equal(t, "Ana", u.Name)
}

func TestCatalogo_PaginacionYOrden(t *testing.T) {
	ctx := context.Background()
	cl := newClient(t, mockgateway.SeedProducts(12, 7))

	page, err := cl.catalog.ListProducts(ctx, dto.PageRequest{Page: 2, Size: 5, SortBy: "id", SortDir: "desc"})
	require.NoError(t, err)

	assert.Equal(t, int64(12), page.TotalElements)
	assert.Equal(t, 3, page.TotalPages)
	require.Len(t, page.Content, 2)
	assert.Equal(t, int64(2), page.Content[0].ID)
	assert.Equal(t, int64(1), page.Content[1].ID)

	_, err = cl.catalog.GetProduct(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSeedProducts_Reproducible(t *testing.T) {
	a := mockgateway.SeedProducts(5, 99)
	b := mockgateway.SeedProducts(5, 99)

	require.Len(t, a, 5)
	for i := range a {
		assert.Equal(t, a[i].Name, b[i].Name)
		assert.True(t, a[i].Price.Equal(b[i].Price))
		assert.False(t, a[i].Price.IsNegative())
	}
}

func TestOrders_SinTokenRetorna401(t *testing.T) {
	cl := newClient(t, nil)

	resp, err := cl.app.Test(httptest.NewRequest(http.MethodGet, "/orders", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestOrders_TotalInconsistenteRechazado(t *testing.T) {
	ctx := context.Background()
	cl := newClient(t, mockgateway.SeedProducts(3, 1))
	_, err := cl.session.Register(ctx, registro())
	require.NoError(t, err)

	p, err := cl.catalog.GetProduct(ctx, 1)
	require.NoError(t, err)
	body := `{"userId":1,"totalAmount":123456,"status":"PENDING","items":[{"productId":1,"quantity":1,"price":` + p.Price.String() + `}]}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cl.session.Token())

	resp, err := cl.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func boolPtr(b bool) *bool { return &b }
