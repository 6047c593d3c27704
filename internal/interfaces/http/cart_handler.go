package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/currency"

	"github.com/jhoicas/storefront-client/internal/application/cart"
	"github.com/jhoicas/storefront-client/internal/application/dto"
	"github.com/jhoicas/storefront-client/internal/application/ports"
)

// CartHandler carrito local; los productos se resuelven en el catálogo antes de agregarlos.
type CartHandler struct {
	cart    *cart.Manager
	catalog ports.CatalogService
	unit    currency.Unit
}

// NewCartHandler construye el handler.
func NewCartHandler(c *cart.Manager, catalog ports.CatalogService, unit currency.Unit) *CartHandler {
	return &CartHandler{cart: c, catalog: catalog, unit: unit}
}

// Get godoc
// @Summary      Ver carrito
// @Tags         cart
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Router       /api/cart [get]
func (h *CartHandler) Get(c *fiber.Ctx) error {
	return c.JSON(h.view())
}

// Add godoc
// @Summary      Agregar producto al carrito
// @Description  Resuelve el producto en el catálogo; quantity 0 u omitida vale 1.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        body  body      dto.AddItemRequest  true  "product_id y quantity"
// @Success      201   {object}  dto.CartResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/cart/items [post]
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var in dto.AddItemRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.ProductID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id es requerido"})
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	product, err := h.catalog.GetProduct(c.UserContext(), in.ProductID)
	if err != nil {
		return writeError(c, err)
	}
	if err := tolerate(c, h.cart.AddItem(c.UserContext(), *product, in.Quantity)); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.view())
}

// Update godoc
// @Summary      Fijar cantidad
// @Description  quantity <= 0 elimina la línea.
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        productId  path      int                        true  "ID del producto"
// @Param        body       body      dto.UpdateQuantityRequest  true  "quantity"
// @Success      200        {object}  dto.CartResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/cart/items/{productId} [put]
func (h *CartHandler) Update(c *fiber.Ctx) error {
	id, ok := productIDParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id de producto inválido"})
	}
	var in dto.UpdateQuantityRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := tolerate(c, h.cart.UpdateQuantity(c.UserContext(), id, in.Quantity)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.view())
}

// Remove godoc
// @Summary      Quitar producto del carrito
// @Tags         cart
// @Produce      json
// @Param        productId  path      int  true  "ID del producto"
// @Success      200        {object}  dto.CartResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Router       /api/cart/items/{productId} [delete]
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	id, ok := productIDParam(c)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id de producto inválido"})
	}
	if err := tolerate(c, h.cart.RemoveItem(c.UserContext(), id)); err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.view())
}

// Clear godoc
// @Summary      Vaciar carrito
// @Tags         cart
// @Produce      json
// @Success      200  {object}  dto.CartResponse
// @Router       /api/cart [delete]
func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := tolerate(c, h.cart.Clear(c.UserContext())); err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.view())
}

// view cantidad y total salen del mismo snapshot que las líneas.
func (h *CartHandler) view() dto.CartResponse {
	items := h.cart.Items()
	return dto.CartResponse{
		Items:      items,
		ItemCount:  cart.Count(items),
		TotalPrice: cart.Total(items),
		Currency:   h.unit.String(),
	}
}

func productIDParam(c *fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(c.Params("productId"), 10, 64)
	return id, err == nil && id > 0
}
