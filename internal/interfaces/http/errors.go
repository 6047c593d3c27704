package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storefront-client/internal/application/dto"
	"github.com/jhoicas/storefront-client/internal/domain"
)

// HeaderPersistenceWarning marca respuestas cuyo cambio quedó en memoria pero no en el store.
const HeaderPersistenceWarning = "X-Persistence-Warning"

// writeError traduce errores de dominio a status HTTP + dto.ErrorResponse.
func writeError(c *fiber.Ctx, err error) error {
	var authErr *domain.AuthError
	switch {
	case errors.As(err, &authErr):
		msg := authErr.Message
		if msg == "" {
			msg = "credenciales inválidas"
		}
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "AUTH_FAILED", Message: msg})
	case errors.Is(err, domain.ErrInvalidQuantity):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUANTITY", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrProductUnavailable):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "PRODUCT_UNAVAILABLE", Message: err.Error()})
	case errors.Is(err, domain.ErrEmptyCart):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "EMPTY_CART", Message: err.Error()})
	case errors.Is(err, domain.ErrCheckoutInProgress):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CHECKOUT_IN_PROGRESS", Message: err.Error()})
	case errors.Is(err, domain.ErrCheckoutCancelled):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CHECKOUT_CANCELLED", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized), errors.Is(err, domain.ErrAuthFailed):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, domain.ErrNetwork):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// tolerate convierte un PersistenceWarning en un header y deja pasar la respuesta exitosa.
func tolerate(c *fiber.Ctx, err error) error {
	var warn *domain.PersistenceWarning
	if errors.As(err, &warn) {
		c.Set(HeaderPersistenceWarning, warn.Key)
		return nil
	}
	return err
}
