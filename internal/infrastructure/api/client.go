// Package api adaptadores HTTP de los puertos AuthService, CatalogService y OrderService
// contra el API Gateway de la tienda.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/storefront-client/internal/domain"
	"github.com/jhoicas/storefront-client/pkg/config"
	"github.com/jhoicas/storefront-client/pkg/logger"
)

const (
	loginPath    = "/api/auth/login"
	registerPath = "/api/auth/register"

	// HeaderRequestID correlaciona logs del cliente y del gateway.
	HeaderRequestID = "X-Request-ID"

	maxBody = 1 << 20
)

// TokenSource token actual de la sesión ("" si no hay).
type TokenSource interface {
	Token() string
}

// TokenFunc adapta una función a TokenSource; permite crear el cliente antes que la sesión.
type TokenFunc func() string

// Token implementa TokenSource.
func (f TokenFunc) Token() string { return f() }

// BearerTransport agrega Authorization: Bearer <token> salvo en login y register,
// y un X-Request-ID a cada petición.
type BearerTransport struct {
	Base   http.RoundTripper
	Tokens TokenSource
}

// RoundTrip implementa http.RoundTripper sin modificar la petición original.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	if r.Header.Get(HeaderRequestID) == "" {
		r.Header.Set(HeaderRequestID, uuid.NewString())
	}
	if isPublicPath(r.URL.Path) {
		r.Header.Del("Authorization")
	} else if t.Tokens != nil {
		if tok := t.Tokens.Token(); tok != "" {
			r.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(r)
}

func isPublicPath(p string) bool {
	p = strings.TrimRight(p, "/")
	return strings.HasSuffix(p, loginPath) || strings.HasSuffix(p, registerPath)
}

// Option configura el Client.
type Option func(*Client)

// WithTransport reemplaza el transporte base (tests, gateway en proceso).
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.base = rt }
}

// Client cliente HTTP compartido por los adaptadores.
type Client struct {
	baseURL string
	base    http.RoundTripper
	hc      *http.Client
	log     *logger.Logger
}

// NewClient construye el cliente con el transporte Bearer; el timeout es el de la configuración.
func NewClient(cfg config.APIConfig, tokens TokenSource, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		base:    http.DefaultTransport,
		log:     log.Component("api"),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.hc = &http.Client{
		Timeout:   cfg.Timeout,
		Transport: &BearerTransport{Base: c.base, Tokens: tokens},
	}
	return c
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// do envía in como JSON (si no es nil) y decodifica la respuesta 2xx en out (si no es nil).
// Respuestas no 2xx devuelven *domain.ServiceError; fallos de transporte envuelven domain.ErrNetwork.
func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, in, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: serializar request: %w", op, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("%s: crear HTTP request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	reqID := uuid.NewString()
	req.Header.Set(HeaderRequestID, reqID)

	start := time.Now()
	resp, err := c.hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("%s: %w: cancelado: %w", op, domain.ErrNetwork, ctx.Err())
		}
		return fmt.Errorf("%s: %w: %w", op, domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return fmt.Errorf("%s: %w: leer respuesta: %w", op, domain.ErrNetwork, err)
	}

	c.log.Debug().
		Str("op", op).
		Str("request_id", reqID).
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("llamada al gateway")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &domain.ServiceError{Op: op, StatusCode: resp.StatusCode, Message: errorMessage(raw)}
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: %w: respuesta inválida: %w", op, domain.ErrNetwork, err)
	}
	return nil
}

func errorMessage(raw []byte) string {
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil {
		if eb.Message != "" {
			return eb.Message
		}
		if eb.Error != "" {
			return eb.Error
		}
	}
	msg := strings.TrimSpace(string(raw))
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

// statusOf código HTTP de un *domain.ServiceError, 0 si err no lo es.
func statusOf(err error) int {
	var se *domain.ServiceError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}
