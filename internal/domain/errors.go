package domain

import (
	"errors"
	"fmt"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrInvalidQuantity    = errors.New("la cantidad debe ser al menos 1")
	ErrProductUnavailable = errors.New("producto no disponible")
	ErrEmptyCart          = errors.New("el carrito está vacío")
	ErrCheckoutCancelled  = errors.New("checkout cancelado por el usuario")
	ErrCheckoutInProgress = errors.New("ya hay un checkout en curso")
	ErrAuthFailed         = errors.New("autenticación fallida")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrCorruptedState     = errors.New("estado persistido corrupto")
	ErrPersistence        = errors.New("no se pudo persistir el estado")
	ErrNetwork            = errors.New("fallo de red con el servicio")
)

// AuthError respuesta del servicio de autenticación sin token; Message es el texto del servidor.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	if e.Message == "" {
		return ErrAuthFailed.Error()
	}
	return fmt.Sprintf("%s: %s", ErrAuthFailed.Error(), e.Message)
}

func (e *AuthError) Unwrap() error { return ErrAuthFailed }

// ServiceError respuesta no exitosa de un colaborador HTTP.
type ServiceError struct {
	Op         string // ej. "orders.create"
	StatusCode int
	Message    string
}

func (e *ServiceError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: HTTP %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: HTTP %d: %s", e.Op, e.StatusCode, e.Message)
}

// Unwrap permite errors.Is(err, ErrNetwork); 401/403 también cumplen ErrUnauthorized.
func (e *ServiceError) Unwrap() []error {
	if e.StatusCode == 401 || e.StatusCode == 403 {
		return []error{ErrNetwork, ErrUnauthorized}
	}
	return []error{ErrNetwork}
}

// PersistenceWarning la mutación quedó confirmada en memoria y notificada, pero la escritura al store falló.
type PersistenceWarning struct {
	Key string
	Err error
}

func (e *PersistenceWarning) Error() string {
	return fmt.Sprintf("%s (clave %q): %v", ErrPersistence.Error(), e.Key, e.Err)
}

func (e *PersistenceWarning) Unwrap() []error { return []error{ErrPersistence, e.Err} }
