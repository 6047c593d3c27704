package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/storefront-client/internal/application/cart"
	"github.com/jhoicas/storefront-client/internal/application/checkout"
	"github.com/jhoicas/storefront-client/internal/application/orders"
	"github.com/jhoicas/storefront-client/internal/application/session"
	"github.com/jhoicas/storefront-client/internal/domain/entity"
	"github.com/jhoicas/storefront-client/internal/infrastructure/api"
	infrapdf "github.com/jhoicas/storefront-client/internal/infrastructure/pdf"
	httpRouter "github.com/jhoicas/storefront-client/internal/interfaces/http"
	"github.com/jhoicas/storefront-client/pkg/config"
	"github.com/jhoicas/storefront-client/pkg/logger"
)

const expiryCheckInterval = time.Minute

// @title        Storefront Client API
// @version      1.0
// @description  API local del cliente de la tienda: sesión, carrito, checkout e historial de pedidos.
// @BasePath     /
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:     cfg.App.Env,
		Level:   cfg.App.LogLevel,
		Service: cfg.App.Name,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("gateway", cfg.API.BaseURL).
		Str("store", cfg.Store.Driver).
		Msg("iniciando cliente")

	ctx := context.Background()
	store, closeStore, err := openStore(ctx, cfg.Store)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer closeStore()

	// El cliente HTTP lee el token de la sesión en cada petición.
	var sess *session.Manager
	hc := api.NewClient(cfg.API, api.TokenFunc(func() string { return sess.Token() }), log)
	authClient := api.NewAuthClient(hc)
	catalogClient := api.NewCatalogClient(hc)
	orderClient := api.NewOrderClient(hc)

	sess = session.NewManager(store, authClient, log)
	if err := sess.Initialize(ctx); err != nil {
		log.Fatal().Err(err).Msg("restaurar sesión")
	}
	defer sess.Close()

	cartManager := cart.NewManager(store, log)
	if err := cartManager.Initialize(ctx); err != nil {
		log.Fatal().Err(err).Msg("restaurar carrito")
	}
	defer cartManager.Close()

	unsubscribe := sess.Subscribe(func(u *entity.UserProfile) {
		if u == nil {
			log.Info().Msg("sesión anónima")
			return
		}
		log.Info().Str("user_id", u.ID).Msg("sesión activa")
	})
	defer unsubscribe()

	orchestrator := checkout.NewOrchestrator(cartManager, sess, orderClient, log)
	receipts := infrapdf.NewReceiptGenerator(cfg.App.Name, cfg.App.Currency)
	orderSvc := orders.NewService(orderClient, catalogClient, receipts, log)

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	go watchExpiry(watchCtx, sess)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: cfg.API.Timeout + 5*time.Second,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Storefront Client API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name, "authenticated": sess.IsAuthenticated()})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Session:  sess,
		Cart:     cartManager,
		Checkout: orchestrator,
		Orders:   orderSvc,
		Catalog:  catalogClient,
		Currency: cfg.App.Currency,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("cliente detenido")
}

// watchExpiry cierra la sesión en cuanto el token expira, aunque la UI no haga peticiones.
func watchExpiry(ctx context.Context, sess *session.Manager) {
	t := time.NewTicker(expiryCheckInterval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			sess.EnforceExpiry(ctx)
		}
	}
}
