package jwt

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMissingExpiry el payload no trae el claim exp.
var ErrMissingExpiry = errors.New("jwt: claim exp ausente")

// Payload datos del segmento de payload que el cliente necesita.
// ExpiresAtMillis es epoch en milisegundos (exp viene en segundos, con fracción opcional).
type Payload struct {
	Subject         string
	Issuer          string
	ExpiresAtMillis int64
}

// ValidAt true si la expiración es estrictamente posterior a now.
func (p Payload) ValidAt(now time.Time) bool {
	return p.ExpiresAtMillis > now.UnixMilli()
}

// ExpiresAt devuelve la expiración como time.Time.
func (p Payload) ExpiresAt() time.Time {
	return time.UnixMilli(p.ExpiresAtMillis)
}

// Inspect decodifica el payload (base64url JSON) sin verificar la firma.
// El cliente no tiene el secreto; la validez real la decide el servidor.
func Inspect(tokenString string) (Payload, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return Payload{}, fmt.Errorf("jwt: token malformado: %w", err)
	}

	var exp float64
	switch v := claims["exp"].(type) {
	case float64:
		exp = v
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return Payload{}, fmt.Errorf("jwt: exp inválido: %w", err)
		}
		exp = f
	case nil:
		return Payload{}, ErrMissingExpiry
	default:
		return Payload{}, fmt.Errorf("jwt: exp de tipo inesperado %T", v)
	}

	p := Payload{ExpiresAtMillis: int64(math.Round(exp * 1000))}
	p.Subject, _ = claims["sub"].(string)
	p.Issuer, _ = claims["iss"].(string)
	return p, nil
}

// Claims claims emitidos por el gateway de desarrollo.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"user_id"`
}

// Generate genera un token HS256 con expiración en minutos (gateway de desarrollo).
func Generate(secret, userID, issuer string, expMinutes int) (string, error) {
	return GenerateWithExpiry(secret, userID, issuer, time.Now().Add(time.Duration(expMinutes)*time.Minute))
}

// GenerateWithExpiry como Generate pero con expiración exacta al milisegundo.
// exp se serializa en segundos con fracción para no perder precisión.
func GenerateWithExpiry(secret, userID, issuer string, expiresAt time.Time) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	claims := jwt.MapClaims{
		"iss":     issuer,
		"sub":     userID,
		"user_id": userID,
		"iat":     time.Now().Unix(),
		"exp":     float64(expiresAt.UnixMilli()) / 1000,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valida firma y expiración y devuelve el userID (lado servidor del gateway de desarrollo).
func Parse(secret, tokenString string) (userID string, err error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vacío")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("método de firma inesperado: %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("claims inválidos")
	}
	return claims.UserID, nil
}
