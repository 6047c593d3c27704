package repository

import "context"

// Claves usadas en el almacenamiento persistente del cliente.
const (
	KeyAuthToken   = "auth_token"
	KeyCurrentUser = "current_user"
	KeyCart        = "cart"
)

// KeyValueStore define el puerto de persistencia clave/valor que sobrevive reinicios (DIP).
// Get devuelve (nil, nil) si la clave no existe.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
}
