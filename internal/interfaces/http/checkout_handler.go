package http

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storefront-client/internal/application/checkout"
	"github.com/jhoicas/storefront-client/internal/application/dto"
	"github.com/jhoicas/storefront-client/internal/application/orders"
	"github.com/jhoicas/storefront-client/internal/domain/entity"
)

// CheckoutHandler confirma el carrito como pedido. El cuerpo hace las veces del diálogo de envío.
type CheckoutHandler struct {
	orchestrator *checkout.Orchestrator
}

// NewCheckoutHandler construye el handler.
func NewCheckoutHandler(o *checkout.Orchestrator) *CheckoutHandler {
	return &CheckoutHandler{orchestrator: o}
}

// Checkout godoc
// @Summary      Confirmar pedido
// @Description  Crea el pedido con el carrito actual. Dirección y teléfono omitidos se toman del perfil.
// @Tags         checkout
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CheckoutRequest  false  "address y phone"
// @Success      201   {object}  dto.OrderView
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/checkout [post]
func (h *CheckoutHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
	}

	var names map[int64]string
	prompt := checkout.PromptFunc(func(_ context.Context, s checkout.Summary) (entity.ShippingDetails, bool, error) {
		names = make(map[int64]string, len(s.Items))
		for _, it := range s.Items {
			names[it.Product.ID] = it.Product.Name
		}
		d := s.Defaults
		if in.Address != "" {
			d.Address = in.Address
		}
		if in.Phone != "" {
			d.Phone = in.Phone
		}
		return d, true, nil
	})

	created, err := h.orchestrator.Checkout(c.UserContext(), prompt)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(orders.ToView(created, names))
}
