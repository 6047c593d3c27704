// Package session mantiene quién está autenticado en el cliente.
//
// Estados: Anonymous y Authenticated(user). Login/Register exitosos pasan a
// Authenticated (o reemplazan la sesión actual); Logout o una expiración
// detectada vuelven a Anonymous. Cada transición escribe en el store y luego
// notifica a los suscriptores, en ese orden y sin intercalarse con otra.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jhoicas/storefront-client/internal/application/dto"
	"github.com/jhoicas/storefront-client/internal/application/ports"
	"github.com/jhoicas/storefront-client/internal/domain"
	"github.com/jhoicas/storefront-client/internal/domain/entity"
	"github.com/jhoicas/storefront-client/internal/domain/repository"
	"github.com/jhoicas/storefront-client/pkg/jwt"
	"github.com/jhoicas/storefront-client/pkg/logger"
	"github.com/jhoicas/storefront-client/pkg/observable"
)

// Option configura el Manager.
type Option func(*Manager)

// WithClock reemplaza time.Now (tests).
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// Manager dueño del estado de autenticación.
type Manager struct {
	store repository.KeyValueStore
	auth  ports.AuthService
	log   *logger.Logger
	now   func() time.Time

	mu      sync.Mutex // serializa transiciones: persistir → notificar
	session *observable.Subject[entity.Session]
}

// NewManager construye el manager en estado Anonymous; llamar Initialize para rehidratar.
func NewManager(store repository.KeyValueStore, auth ports.AuthService, log *logger.Logger, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		auth:    auth,
		log:     log.Component("session"),
		now:     time.Now,
		session: observable.New(entity.Session{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Initialize rehidrata la sesión desde el store.
// Datos corruptos o incompletos se tratan como ausentes: se registran y se borran las claves.
// Solo devuelve error si el store no se puede leer.
func (m *Manager) Initialize(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	token, err := m.store.Get(ctx, repository.KeyAuthToken)
	if err != nil {
		return fmt.Errorf("session: leer token: %w", err)
	}
	rawUser, err := m.store.Get(ctx, repository.KeyCurrentUser)
	if err != nil {
		return fmt.Errorf("session: leer usuario: %w", err)
	}

	if token == nil && rawUser == nil {
		m.session.Publish(entity.Session{})
		return nil
	}

	user, err := decodeStored(token, rawUser)
	if err != nil {
		m.log.Warn().Err(err).Msg("sesión persistida descartada")
		m.clearStoreLocked(ctx)
		m.session.Publish(entity.Session{})
		return nil
	}

	payload, err := jwt.Inspect(string(token))
	if err != nil {
		m.log.Warn().Err(fmt.Errorf("%w: %v", domain.ErrCorruptedState, err)).Msg("token persistido ilegible")
		m.clearStoreLocked(ctx)
		m.session.Publish(entity.Session{})
		return nil
	}
	if !payload.ValidAt(m.now()) {
		m.log.Info().Time("expired_at", payload.ExpiresAt()).Msg("token persistido expirado")
		m.clearStoreLocked(ctx)
		m.session.Publish(entity.Session{})
		return nil
	}

	m.session.Publish(entity.Session{Token: string(token), User: user})
	m.log.Debug().Str("user_id", user.ID).Msg("sesión rehidratada")
	return nil
}

func decodeStored(token, rawUser []byte) (*entity.UserProfile, error) {
	if len(token) == 0 || rawUser == nil {
		return nil, fmt.Errorf("%w: token y usuario deben existir juntos", domain.ErrCorruptedState)
	}
	var user entity.UserProfile
	if err := json.Unmarshal(rawUser, &user); err != nil {
		return nil, fmt.Errorf("%w: usuario: %v", domain.ErrCorruptedState, err)
	}
	if user.ID == "" {
		return nil, fmt.Errorf("%w: usuario sin identificador", domain.ErrCorruptedState)
	}
	return &user, nil
}

// Login delega en el servicio de autenticación. Si falla, la sesión no cambia y el error
// se devuelve tal cual; no hay reintentos.
// Un error que cumple errors.Is(err, domain.ErrPersistence) indica que la sesión sí quedó
// establecida en memoria pero no se pudo guardar.
func (m *Manager) Login(ctx context.Context, in dto.LoginRequest) (*entity.UserProfile, error) {
	if in.Email == "" || in.Password == "" {
		return nil, fmt.Errorf("%w: email y password son requeridos", domain.ErrInvalidInput)
	}
	resp, err := m.auth.Login(ctx, in)
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, resp)
}

// Register igual que Login pero creando la cuenta.
func (m *Manager) Register(ctx context.Context, in dto.RegisterRequest) (*entity.UserProfile, error) {
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return nil, fmt.Errorf("%w: name, email y password son requeridos", domain.ErrInvalidInput)
	}
	resp, err := m.auth.Register(ctx, in)
	if err != nil {
		return nil, err
	}
	return m.establish(ctx, resp)
}

func (m *Manager) establish(ctx context.Context, resp *dto.AuthResponse) (*entity.UserProfile, error) {
	if resp == nil {
		return nil, &domain.AuthError{}
	}
	if resp.Token == "" {
		return nil, &domain.AuthError{Message: resp.Message}
	}
	payload, err := jwt.Inspect(resp.Token)
	if err != nil {
		return nil, fmt.Errorf("%w: token recibido ilegible: %v", domain.ErrAuthFailed, err)
	}
	if !payload.ValidAt(m.now()) {
		return nil, fmt.Errorf("%w: token recibido ya expirado", domain.ErrAuthFailed)
	}

	user := &entity.UserProfile{
		ID:      resp.ID,
		Name:    resp.Name,
		Email:   resp.Email,
		Phone:   resp.Phone,
		Address: resp.Address,
	}
	if user.ID == "" {
		user.ID = payload.Subject
	}
	if user.ID == "" {
		return nil, fmt.Errorf("%w: respuesta sin identificador de usuario", domain.ErrAuthFailed)
	}
	rawUser, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("session: serializar usuario: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	var warn error
	if err := m.store.Set(ctx, repository.KeyAuthToken, []byte(resp.Token)); err != nil {
		warn = &domain.PersistenceWarning{Key: repository.KeyAuthToken, Err: err}
	} else if err := m.store.Set(ctx, repository.KeyCurrentUser, rawUser); err != nil {
		warn = &domain.PersistenceWarning{Key: repository.KeyCurrentUser, Err: err}
	}
	if warn != nil {
		// token y perfil del store deben ser del mismo usuario
		m.clearStoreLocked(ctx)
	}
	m.session.Publish(entity.Session{Token: resp.Token, User: user})

	out := *user
	if warn != nil {
		m.log.Warn().Err(warn).Str("user_id", user.ID).Msg("sesión establecida solo en memoria")
		return &out, warn
	}
	m.log.Info().Str("user_id", user.ID).Time("expires_at", payload.ExpiresAt()).Msg("sesión iniciada")
	return &out, nil
}

// Logout borra token y usuario del store, pasa a Anonymous y notifica.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.log.Info().Msg("cierre de sesión")
	return m.resetLocked(ctx)
}

// IsAuthenticated true sii hay token y su exp es estrictamente posterior a ahora.
// Un token ilegible cuenta como no autenticado.
func (m *Manager) IsAuthenticated() bool {
	tok := m.session.Value().Token
	if tok == "" {
		return false
	}
	p, err := jwt.Inspect(tok)
	if err != nil {
		return false
	}
	return p.ValidAt(m.now())
}

// EnforceExpiry si el token en memoria expiró, pasa a Anonymous (borra store y notifica).
// Devuelve si la sesión sigue autenticada.
func (m *Manager) EnforceExpiry(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := m.session.Value()
	if s.Token == "" {
		return false
	}
	if p, err := jwt.Inspect(s.Token); err == nil && p.ValidAt(m.now()) {
		return true
	}
	m.log.Info().Msg("token expirado, sesión cerrada")
	if err := m.resetLocked(ctx); err != nil {
		m.log.Warn().Err(err).Msg("no se pudo limpiar la sesión expirada del store")
	}
	return false
}

// Revalidate consulta al servidor si el token sigue vigente. Un 401/403 es un fallo de
// autenticación y la sesión vuelve a Anonymous; otros errores de red no cambian el estado.
func (m *Manager) Revalidate(ctx context.Context) error {
	tok := m.session.Value().Token
	if tok == "" {
		return domain.ErrUnauthorized
	}
	if !m.EnforceExpiry(ctx) {
		return fmt.Errorf("%w: token expirado", domain.ErrAuthFailed)
	}

	_, err := m.auth.Validate(ctx)
	if err == nil {
		return nil
	}
	if !errors.Is(err, domain.ErrUnauthorized) {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	// Solo se descarta la sesión que se validó; un login concurrente no se pisa.
	if m.session.Value().Token == tok {
		m.log.Info().Msg("el servidor rechazó el token, sesión cerrada")
		if rerr := m.resetLocked(ctx); rerr != nil {
			m.log.Warn().Err(rerr).Msg("no se pudo limpiar la sesión rechazada del store")
		}
	}
	return fmt.Errorf("%w: %w", domain.ErrAuthFailed, err)
}

// Token devuelve el token actual ("" si no hay sesión). Lo usa el transporte Bearer.
func (m *Manager) Token() string {
	return m.session.Value().Token
}

// CurrentUser copia del usuario actual o nil si Anonymous.
func (m *Manager) CurrentUser() *entity.UserProfile {
	u := m.session.Value().User
	if u == nil {
		return nil
	}
	out := *u
	return &out
}

// Subscribe entrega el usuario actual (nil = Anonymous) y luego cada cambio.
// El perfil recibido es de solo lectura. fn no debe llamar a Login/Logout de forma síncrona.
func (m *Manager) Subscribe(fn func(*entity.UserProfile)) (unsubscribe func()) {
	return m.session.Subscribe(func(s entity.Session) { fn(s.User) })
}

// Close descarta los suscriptores (teardown del cliente).
func (m *Manager) Close() {
	m.session.Close()
}

func (m *Manager) resetLocked(ctx context.Context) error {
	err := m.clearStoreLocked(ctx)
	m.session.Publish(entity.Session{})
	if err != nil {
		return &domain.PersistenceWarning{Key: repository.KeyAuthToken, Err: err}
	}
	return nil
}

func (m *Manager) clearStoreLocked(ctx context.Context) error {
	err := errors.Join(
		m.store.Remove(ctx, repository.KeyAuthToken),
		m.store.Remove(ctx, repository.KeyCurrentUser),
	)
	if err != nil {
		m.log.Warn().Err(err).Msg("no se pudieron borrar las claves de sesión")
	}
	return err
}
