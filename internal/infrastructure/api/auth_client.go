package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jhoicas/storefront-client/internal/application/dto"
	"github.com/jhoicas/storefront-client/internal/application/ports"
	"github.com/jhoicas/storefront-client/internal/domain"
)

var _ ports.AuthService = (*AuthClient)(nil)

// authWire respuesta del servicio de usuarios; el id llega como número.
type authWire struct {
	Token   string      `json:"token"`
	ID      json.Number `json:"id"`
	Name    string      `json:"name"`
	Email   string      `json:"email"`
	Phone   string      `json:"phone"`
	Address string      `json:"address"`
	Message string      `json:"message"`
}

func (w authWire) toDTO() *dto.AuthResponse {
	return &dto.AuthResponse{
		Token:   w.Token,
		ID:      w.ID.String(),
		Name:    w.Name,
		Email:   w.Email,
		Phone:   w.Phone,
		Address: w.Address,
		Message: w.Message,
	}
}

// AuthClient adaptador de /api/auth.
type AuthClient struct {
	c *Client
}

// NewAuthClient construye el adaptador.
func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{c: c}
}

// Login POST /api/auth/login. Un 4xx con mensaje es fallo de autenticación (*domain.AuthError).
func (a *AuthClient) Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error) {
	var w authWire
	if err := a.c.do(ctx, "auth.login", http.MethodPost, loginPath, nil, in, &w); err != nil {
		return nil, asAuthError(err)
	}
	return w.toDTO(), nil
}

// Register POST /api/auth/register.
func (a *AuthClient) Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error) {
	var w authWire
	if err := a.c.do(ctx, "auth.register", http.MethodPost, registerPath, nil, in, &w); err != nil {
		return nil, asAuthError(err)
	}
	return w.toDTO(), nil
}

// Validate GET /api/auth/validate con el token actual.
func (a *AuthClient) Validate(ctx context.Context) (*dto.AuthResponse, error) {
	var w authWire
	if err := a.c.do(ctx, "auth.validate", http.MethodGet, "/api/auth/validate", nil, nil, &w); err != nil {
		return nil, err
	}
	return w.toDTO(), nil
}

// asAuthError credenciales rechazadas (400/401/403/409) pasan a AuthError con el mensaje del servidor.
func asAuthError(err error) error {
	var se *domain.ServiceError
	if !errors.As(err, &se) {
		return err
	}
	switch se.StatusCode {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusConflict:
		return &domain.AuthError{Message: se.Message}
	}
	return err
}
