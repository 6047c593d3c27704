package mockgateway

import (
	"errors"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/storefront-client/internal/application/dto"
	"github.com/jhoicas/storefront-client/pkg/config"
	"github.com/jhoicas/storefront-client/pkg/jwt"
)

var (
	errEmailExists    = errors.New("el email ya está registrado")
	errBadCredentials = errors.New("credenciales inválidas")
)

type account struct {
	ID           int64
	Name         string
	Email        string
	Phone        string
	Address      string
	PasswordHash []byte
}

// accounts usuarios del gateway: registro con bcrypt y login con JWT HS256.
type accounts struct {
	mu     sync.RWMutex
	nextID int64
	byMail map[string]*account
	byID   map[int64]*account
	jwtCfg config.JWTConfig
	cost   int
}

func newAccounts(jwtCfg config.JWTConfig, cost int) *accounts {
	return &accounts{byMail: make(map[string]*account), byID: make(map[int64]*account), jwtCfg: jwtCfg, cost: cost}
}

// register crea la cuenta y devuelve la respuesta de auth con token.
func (a *accounts) register(in dto.RegisterRequest) (*authWire, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), a.cost)
	if err != nil {
		return nil, err
	}

	a.mu.Lock()
	if _, ok := a.byMail[email]; ok {
		a.mu.Unlock()
		return nil, errEmailExists
	}
	a.nextID++
	acc := &account{
		ID:           a.nextID,
		Name:         in.Name,
		Email:        email,
		Phone:        in.Phone,
		Address:      in.Address,
		PasswordHash: hash,
	}
	a.byMail[email] = acc
	a.byID[acc.ID] = acc
	a.mu.Unlock()

	return a.issue(acc)
}

// login verifica email/password y genera un token nuevo.
func (a *accounts) login(in dto.LoginRequest) (*authWire, error) {
	a.mu.RLock()
	acc := a.byMail[strings.ToLower(strings.TrimSpace(in.Email))]
	a.mu.RUnlock()
	if acc == nil {
		return nil, errBadCredentials
	}
	if err := bcrypt.CompareHashAndPassword(acc.PasswordHash, []byte(in.Password)); err != nil {
		return nil, errBadCredentials
	}
	return a.issue(acc)
}

// authenticate valida firma y expiración y devuelve la cuenta del token.
func (a *accounts) authenticate(token string) (*account, error) {
	sub, err := jwt.Parse(a.jwtCfg.Secret, token)
	if err != nil {
		return nil, err
	}
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, acc := range a.byID {
		if formatID(acc.ID) == sub {
			return acc, nil
		}
	}
	return nil, errBadCredentials
}

func (a *accounts) issue(acc *account) (*authWire, error) {
	token, err := jwt.Generate(a.jwtCfg.Secret, formatID(acc.ID), a.jwtCfg.Issuer, a.jwtCfg.Expiration)
	if err != nil {
		return nil, err
	}
	out := toAuthWire(acc)
	out.Token = token
	return out, nil
}
