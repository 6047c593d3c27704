// Package mockgateway API Gateway de desarrollo en memoria (auth, catálogo y pedidos)
// con los mismos contratos que consume el cliente.
package mockgateway

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/storefront-client/internal/application/dto"
	"github.com/jhoicas/storefront-client/internal/domain/entity"
	"github.com/jhoicas/storefront-client/pkg/config"
	"github.com/jhoicas/storefront-client/pkg/logger"
)

const localAccount = "account"

// Options configuración del gateway.
type Options struct {
	JWT      config.JWTConfig
	Products []entity.Product
	// BcryptCost por defecto bcrypt.DefaultCost; los tests usan bcrypt.MinCost.
	BcryptCost int
	Now        func() time.Time
}

// Gateway estado en memoria más la app fiber que lo expone.
type Gateway struct {
	accounts *accounts
	catalog  *catalog
	orders   *orderBook
	log      *logger.Logger
}

// New construye el gateway. Sin JWT.Secret los tokens no se pueden firmar y el registro falla.
func New(opts Options, log *logger.Logger) *Gateway {
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.JWT.Expiration == 0 {
		opts.JWT.Expiration = 60
	}
	c := newCatalog(opts.Products)
	return &Gateway{
		accounts: newAccounts(opts.JWT, opts.BcryptCost),
		catalog:  c,
		orders:   newOrderBook(c, opts.Now),
		log:      log.Component("mockgateway"),
	}
}

// App registra las rutas del gateway en una app fiber nueva.
func (g *Gateway) App() *fiber.App {
	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(func(c *fiber.Ctx) error {
		err := c.Next()
		g.log.Debug().
			Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", c.Response().StatusCode()).
			Str("request_id", c.Get("X-Request-ID")).
			Msg("gateway")
		return err
	})

	authGroup := app.Group("/api/auth")
	authGroup.Post("/register", g.register)
	authGroup.Post("/login", g.login)
	authGroup.Get("/validate", g.requireToken, g.validate)

	products := app.Group("/api/products")
	products.Get("/", g.listProducts)
	products.Get("/search", g.searchProducts)
	products.Get("/:id", g.getProduct)

	orders := app.Group("/orders", g.requireToken)
	orders.Get("/", g.listOrders)
	orders.Post("/", g.createOrder)
	orders.Delete("/:id", g.deleteOrder)
	return app
}

// Transport http.RoundTripper que atiende las peticiones en proceso con app.Test.
func Transport(app *fiber.App) http.RoundTripper {
	return roundTripFunc(func(r *http.Request) (*http.Response, error) {
		return app.Test(r, -1)
	})
}

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

// requireToken valida el Bearer Token y carga la cuenta en c.Locals.
func (g *Gateway) requireToken(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(messageWire{Message: "token requerido"})
	}
	acc, err := g.accounts.authenticate(strings.TrimSpace(parts[1]))
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(messageWire{Message: "token inválido o expirado"})
	}
	c.Locals(localAccount, acc)
	return c.Next()
}

func currentAccount(c *fiber.Ctx) *account {
	acc, _ := c.Locals(localAccount).(*account)
	return acc
}

func (g *Gateway) register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(messageWire{Message: "cuerpo inválido"})
	}
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return c.Status(fiber.StatusBadRequest).JSON(messageWire{Message: "name, email y password son requeridos"})
	}
	if len(in.Password) < 8 {
		return c.Status(fiber.StatusBadRequest).JSON(messageWire{Message: "password debe tener al menos 8 caracteres"})
	}
	out, err := g.accounts.register(in)
	if errors.Is(err, errEmailExists) {
		return c.Status(fiber.StatusConflict).JSON(messageWire{Message: "El email ya está registrado"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(messageWire{Message: err.Error()})
	}
	g.log.Info().Int64("user_id", out.ID).Msg("cuenta creada")
	return c.Status(fiber.StatusCreated).JSON(out)
}

func (g *Gateway) login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(messageWire{Message: "cuerpo inválido"})
	}
	out, err := g.accounts.login(in)
	if errors.Is(err, errBadCredentials) {
		return c.Status(fiber.StatusUnauthorized).JSON(messageWire{Message: "Usuario o contraseña incorrectos"})
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(messageWire{Message: err.Error()})
	}
	return c.JSON(out)
}

func (g *Gateway) validate(c *fiber.Ctx) error {
	return c.JSON(toAuthWire(currentAccount(c)))
}

func (g *Gateway) listProducts(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(messageWire{Message: "paginación inválida"})
	}
	return c.JSON(g.catalog.search(dto.ProductFilter{}, page))
}

func (g *Gateway) searchProducts(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(messageWire{Message: "paginación inválida"})
	}
	f := dto.ProductFilter{Name: c.Query("name"), Description: c.Query("description")}
	if v := c.Query("minPrice"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(messageWire{Message: "minPrice inválido"})
		}
		f.MinPrice = &d
	}
	if v := c.Query("maxPrice"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(messageWire{Message: "maxPrice inválido"})
		}
		f.MaxPrice = &d
	}
	if v := c.Query("available"); v != "" {
		b := v == "true"
		f.Available = &b
	}
	f.MenuID = int64(c.QueryInt("menuId"))
	for _, v := range c.Context().QueryArgs().PeekMulti("categories") {
		f.Categories = append(f.Categories, string(v))
	}
	return c.JSON(g.catalog.search(f, page))
}

func (g *Gateway) getProduct(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(messageWire{Message: "id inválido"})
	}
	p, ok := g.catalog.get(id)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(messageWire{Message: "Producto no encontrado"})
	}
	return c.JSON(toProductWire(p))
}

func (g *Gateway) listOrders(c *fiber.Ctx) error {
	list := g.orders.list(currentAccount(c).ID)
	out := make([]orderWire, 0, len(list))
	for _, o := range list {
		out = append(out, toOrderWire(o))
	}
	return c.JSON(out)
}

func (g *Gateway) createOrder(c *fiber.Ctx) error {
	var in orderWire
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(messageWire{Message: "cuerpo inválido"})
	}
	acc := currentAccount(c)
	if in.UserID != acc.ID {
		return c.Status(fiber.StatusForbidden).JSON(messageWire{Message: "el pedido no corresponde al usuario"})
	}
	order, err := in.toEntity()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(messageWire{Message: err.Error()})
	}
	created, err := g.orders.create(acc.ID, order)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(messageWire{Message: err.Error()})
	}
	g.log.Info().Int64("order_id", created.ID).Int64("user_id", acc.ID).Msg("pedido creado")
	return c.Status(fiber.StatusCreated).JSON(toOrderWire(created))
}

func (g *Gateway) deleteOrder(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(messageWire{Message: "id inválido"})
	}
	if err := g.orders.remove(currentAccount(c).ID, id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(messageWire{Message: err.Error()})
	}
	return c.SendStatus(fiber.StatusNoContent)
}
