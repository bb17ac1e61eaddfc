package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_ParseDevuelveElUsuario(t *testing.T) {
	now := time.Now()
	token, exp, err := Generate("secret", "user-1", "facturacion-api", 60, now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), exp, time.Second)

	userID, err := Parse("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestParse_SecretIncorrecto(t *testing.T) {
	token, _, err := Generate("secret", "user-1", "facturacion-api", 60, time.Now())
	require.NoError(t, err)

	_, err = Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_TokenExpirado(t *testing.T) {
	token, _, err := Generate("secret", "user-1", "facturacion-api", 1, time.Now().Add(-time.Hour))
	require.NoError(t, err)

	_, err = Parse("secret", token)
	assert.Error(t, err)
}

func TestGenerate_SecretVacio(t *testing.T) {
	_, _, err := Generate("", "user-1", "x", 1, time.Now())
	assert.Error(t, err)
}
