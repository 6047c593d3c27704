package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/storefront-client/internal/application/dto"
	"github.com/jhoicas/storefront-client/internal/application/session"
)

// SessionHandler login, registro y cierre de sesión contra el gateway.
type SessionHandler struct {
	sess *session.Manager
}

// NewSessionHandler construye el handler de sesión.
func NewSessionHandler(sess *session.Manager) *SessionHandler {
	return &SessionHandler{sess: sess}
}

// Login godoc
// @Summary      Iniciar sesión
// @Description  Autentica contra el gateway y persiste token y perfil. Si el store falla responde 200 con X-Persistence-Warning.
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      dto.LoginRequest  true  "email y password"
// @Success      200   {object}  entity.UserProfile
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/session/login [post]
func (h *SessionHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	user, err := h.sess.Login(c.UserContext(), in)
	if err = tolerate(c, err); err != nil {
		return writeError(c, err)
	}
	return c.JSON(user)
}

// Register godoc
// @Summary      Registrar cuenta
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      dto.RegisterRequest  true  "name, email, password, phone, address"
// @Success      201   {object}  entity.UserProfile
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      502   {object}  dto.ErrorResponse
// @Router       /api/session/register [post]
func (h *SessionHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	user, err := h.sess.Register(c.UserContext(), in)
	if err = tolerate(c, err); err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// Logout godoc
// @Summary      Cerrar sesión
// @Tags         session
// @Success      204
// @Router       /api/session [delete]
func (h *SessionHandler) Logout(c *fiber.Ctx) error {
	if err := tolerate(c, h.sess.Logout(c.UserContext())); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Me godoc
// @Summary      Usuario de la sesión
// @Tags         session
// @Produce      json
// @Success      200  {object}  entity.UserProfile
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/session/me [get]
func (h *SessionHandler) Me(c *fiber.Ctx) error {
	return c.JSON(GetUser(c))
}

// Revalidate godoc
// @Summary      Revalidar token
// @Description  Consulta al gateway si el token sigue vigente; un rechazo cierra la sesión.
// @Tags         session
// @Produce      json
// @Success      200  {object}  entity.UserProfile
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/session/revalidate [post]
func (h *SessionHandler) Revalidate(c *fiber.Ctx) error {
	if err := h.sess.Revalidate(c.UserContext()); err != nil {
		return writeError(c, err)
	}
	return c.JSON(h.sess.CurrentUser())
}
