package ports

import (
	"context"

	"github.com/jhoicas/storefront-client/internal/application/dto"
)

// AuthService puerto de salida hacia el servicio de autenticación.
// Las respuestas 2xx sin token se devuelven sin error; el llamador decide.
type AuthService interface {
	Login(ctx context.Context, in dto.LoginRequest) (*dto.AuthResponse, error)
	Register(ctx context.Context, in dto.RegisterRequest) (*dto.AuthResponse, error)
	// Validate consulta al servidor si el token actual (header Bearer) sigue vigente.
	Validate(ctx context.Context) (*dto.AuthResponse, error)
}
