package jwt_test

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgjwt "github.com/jhoicas/storefront-client/pkg/jwt"
)

const (
	testSecret = "test-secret-key-for-unit-tests"
	testUserID = "42"
	testIssuer = "storefront-test"
)

func TestInspect_ExpiracionAlMilisegundo(t *testing.T) {
	now := time.UnixMilli(1_760_000_000_123)

	pasado, err := pkgjwt.GenerateWithExpiry(testSecret, testUserID, testIssuer, now.Add(-time.Millisecond))
	require.NoError(t, err)
	futuro, err := pkgjwt.GenerateWithExpiry(testSecret, testUserID, testIssuer, now.Add(time.Millisecond))
	require.NoError(t, err)

	p, err := pkgjwt.Inspect(pasado)
	require.NoError(t, err)
	assert.Equal(t, now.UnixMilli()-1, p.ExpiresAtMillis)
	assert.False(t, p.ValidAt(now), "1 ms en el pasado no es válido")

	f, err := pkgjwt.Inspect(futuro)
	require.NoError(t, err)
	assert.True(t, f.ValidAt(now), "1 ms en el futuro es válido")
	assert.Equal(t, testUserID, f.Subject)
	assert.Equal(t, testIssuer, f.Issuer)
}

func TestInspect_ExpiracionIgualAAhoraNoEsValida(t *testing.T) {
	now := time.UnixMilli(1_760_000_000_000)
	tok, err := pkgjwt.GenerateWithExpiry(testSecret, testUserID, testIssuer, now)
	require.NoError(t, err)

	p, err := pkgjwt.Inspect(tok)
	require.NoError(t, err)
	assert.False(t, p.ValidAt(now))
}

func TestInspect_TokenMalformado(t *testing.T) {
	for _, tok := range []string{"", "abc", "a.b", "token.invalido.aqui"} {
		_, err := pkgjwt.Inspect(tok)
		assert.Error(t, err, "token %q debe fallar", tok)
	}
}

func TestInspect_SinExp(t *testing.T) {
	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload := base64.RawURLEncoding.EncodeToString([]byte(`{"sub":"1"}`))

	sig := base64.RawURLEncoding.EncodeToString([]byte("firma"))

	_, err := pkgjwt.Inspect(header + "." + payload + "." + sig)
	assert.ErrorIs(t, err, pkgjwt.ErrMissingExpiry)
}

func TestInspect_NoVerificaFirma(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, testIssuer, 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret", tok)
	require.Error(t, err)
	_, err = pkgjwt.Inspect(tok)
	assert.NoError(t, err, "el cliente solo lee el payload")
}

func TestParse_GenerateYParse(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, testIssuer, 60)
	require.NoError(t, err)

	userID, err := pkgjwt.Parse(testSecret, tok)
	require.NoError(t, err)
	assert.Equal(t, testUserID, userID)
}

func TestParse_TokenExpirado(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, testIssuer, -1)
	require.NoError(t, err)

	_, err = pkgjwt.Parse(testSecret, tok)
	assert.Error(t, err)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	tok, err := pkgjwt.Generate(testSecret, testUserID, testIssuer, 60)
	require.NoError(t, err)

	_, err = pkgjwt.Parse("otro-secret-completamente-distinto", tok)
	assert.Error(t, err)
}
