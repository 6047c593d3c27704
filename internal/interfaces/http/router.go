package http

import (
	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/currency"

	"github.com/jhoicas/storefront-client/internal/application/cart"
	"github.com/jhoicas/storefront-client/internal/application/checkout"
	"github.com/jhoicas/storefront-client/internal/application/orders"
	"github.com/jhoicas/storefront-client/internal/application/ports"
	"github.com/jhoicas/storefront-client/internal/application/session"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Session  *session.Manager
	Cart     *cart.Manager
	Checkout *checkout.Orchestrator
	Orders   *orders.Service
	Catalog  ports.CatalogService
	Currency currency.Unit
}

// Router registra las rutas de la API local que consume la UI.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Sesión (público)
	sessionHandler := NewSessionHandler(deps.Session)
	sess := api.Group("/session")
	sess.Post("/login", sessionHandler.Login)
	sess.Post("/register", sessionHandler.Register)
	sess.Delete("/", sessionHandler.Logout)

	// Catálogo (público; el gateway decide si exige token)
	catalogHandler := NewCatalogHandler(deps.Catalog)
	products := api.Group("/products")
	products.Get("/", catalogHandler.List)
	products.Get("/search", catalogHandler.Search)
	products.Get("/:id", catalogHandler.GetByID)

	// Carrito (local, sin sesión)
	cartHandler := NewCartHandler(deps.Cart, deps.Catalog, deps.Currency)
	cartGroup := api.Group("/cart")
	cartGroup.Get("/", cartHandler.Get)
	cartGroup.Delete("/", cartHandler.Clear)
	cartGroup.Post("/items", cartHandler.Add)
	cartGroup.Put("/items/:productId", cartHandler.Update)
	cartGroup.Delete("/items/:productId", cartHandler.Remove)

	// Rutas protegidas (requieren sesión vigente)
	protected := api.Group("/", RequireSession(deps.Session))

	protected.Get("/session/me", sessionHandler.Me)
	protected.Post("/session/revalidate", sessionHandler.Revalidate)

	checkoutHandler := NewCheckoutHandler(deps.Checkout)
	protected.Post("/checkout", checkoutHandler.Checkout)

	orderHandler := NewOrderHandler(deps.Orders)
	ordersGroup := protected.Group("/orders")
	ordersGroup.Get("/", orderHandler.List)
	ordersGroup.Delete("/:id", orderHandler.Cancel)
	ordersGroup.Get("/:id/receipt", orderHandler.Receipt)
}
