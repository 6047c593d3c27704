package main

import (
	"context"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jhoicas/storefront-client/internal/mockgateway"
	"github.com/jhoicas/storefront-client/pkg/config"
	"github.com/jhoicas/storefront-client/pkg/logger"
)

const (
	seedProducts = 40
	seed         = 2024
)

// Gateway de desarrollo: escucha en el host:puerto de API_BASE_URL.
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Service: "mockgateway"})

	u, err := url.Parse(cfg.API.BaseURL)
	if err != nil || u.Host == "" {
		log.Fatal().Str("base_url", cfg.API.BaseURL).Msg("API_BASE_URL inválida")
	}
	if cfg.JWT.Secret == "" {
		cfg.JWT.Secret = "dev-secret"
		log.Warn().Msg("JWT_SECRET vacío, usando secreto de desarrollo")
	}

	gw := mockgateway.New(mockgateway.Options{
		JWT:      cfg.JWT,
		Products: mockgateway.SeedProducts(seedProducts, seed),
	}, log)
	app := gw.App()

	go func() {
		if err := app.Listen(u.Host); err != nil {
			log.Error().Err(err).Msg("gateway finalizado")
		}
	}()
	log.Info().Str("addr", u.Host).Int("products", seedProducts).Msg("gateway de desarrollo escuchando")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del gateway")
	}
}
