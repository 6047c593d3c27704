package http

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/storefront-client/internal/application/dto"
	"github.com/jhoicas/storefront-client/internal/application/ports"
)

// CatalogHandler consulta de productos a través del gateway.
type CatalogHandler struct {
	catalog ports.CatalogService
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(catalog ports.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Produce      json
// @Param        page     query     int     false  "página (desde 0)"
// @Param        size     query     int     false  "tamaño de página"
// @Param        sortBy   query     string  false  "id, name o price"
// @Param        sortDir  query     string  false  "asc o desc"
// @Success      200      {object}  entity.ProductPage
// @Failure      400      {object}  dto.ErrorResponse
// @Failure      502      {object}  dto.ErrorResponse
// @Router       /api/products [get]
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de paginación inválidos"})
	}
	page.DefaultPage()
	out, err := h.catalog.ListProducts(c.UserContext(), page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Search godoc
// @Summary      Buscar productos
// @Tags         products
// @Produce      json
// @Param        name         query     string    false  "contiene"
// @Param        description  query     string    false  "contiene"
// @Param        minPrice     query     string    false  "precio mínimo"
// @Param        maxPrice     query     string    false  "precio máximo"
// @Param        available    query     bool      false  "solo disponibles"
// @Param        menuId       query     int       false  "menú"
// @Param        categories   query     []string  false  "categorías"  collectionFormat(multi)
// @Param        page         query     int       false  "página (desde 0)"
// @Param        size         query     int       false  "tamaño de página"
// @Success      200          {object}  entity.ProductPage
// @Failure      400          {object}  dto.ErrorResponse
// @Failure      502          {object}  dto.ErrorResponse
// @Router       /api/products/search [get]
func (h *CatalogHandler) Search(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros de paginación inválidos"})
	}
	page.DefaultPage()
	filter, err := parseFilter(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: err.Error()})
	}
	out, err := h.catalog.SearchProducts(c.UserContext(), filter, page)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener producto
// @Tags         products
// @Produce      json
// @Param        id   path      int  true  "ID del producto"
// @Success      200  {object}  entity.Product
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *CatalogHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_ID", Message: "id de producto inválido"})
	}
	out, err := h.catalog.GetProduct(c.UserContext(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

func parseFilter(c *fiber.Ctx) (dto.ProductFilter, error) {
	f := dto.ProductFilter{
		Name:        strings.TrimSpace(c.Query("name")),
		Description: strings.TrimSpace(c.Query("description")),
	}
	for _, p := range []struct {
		key string
		dst **decimal.Decimal
	}{{"minPrice", &f.MinPrice}, {"maxPrice", &f.MaxPrice}} {
		if raw := c.Query(p.key); raw != "" {
			d, err := decimal.NewFromString(raw)
			if err != nil {
				return f, fiber.NewError(fiber.StatusBadRequest, p.key+" inválido")
			}
			*p.dst = &d
		}
	}
	if raw := c.Query("available"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, "available inválido")
		}
		f.Available = &b
	}
	if raw := c.Query("menuId"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, "menuId inválido")
		}
		f.MenuID = n
	}
	for _, v := range c.Context().QueryArgs().PeekMulti("categories") {
		if s := strings.TrimSpace(string(v)); s != "" {
			f.Categories = append(f.Categories, s)
		}
	}
	return f, nil
}
