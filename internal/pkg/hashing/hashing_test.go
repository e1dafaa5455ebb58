package hashing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword_NeverStoresPlaintext(t *testing.T) {
	hash, err := HashPassword("password1")
	require.NoError(t, err)
	assert.NotEqual(t, "password1", hash)
	assert.True(t, VerifyPassword("password1", hash))
}

func TestVerifyPassword_WrongPassword(t *testing.T) {
	hash, err := HashPassword("password1")
	require.NoError(t, err)
	assert.False(t, VerifyPassword("password2", hash))
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	h1, err := HashPassword("password1")
	require.NoError(t, err)
	h2, err := HashPassword("password1")
	require.NoError(t, err)
	assert.NotEqual(t, h1, h2)
}

func TestHashCode_Deterministic(t *testing.T) {
	a := HashCode("123456", "secret")
	b := HashCode("123456", "secret")
	assert.Equal(t, a, b)
}

func TestHashCode_KeyedBySecret(t *testing.T) {
	a := HashCode("123456", "secret-a")
	b := HashCode("123456", "secret-b")
	assert.NotEqual(t, a, b)
}

func TestHashCode_DifferentCodes(t *testing.T) {
	assert.NotEqual(t, HashCode("123456", "secret"), HashCode("654321", "secret"))
}
