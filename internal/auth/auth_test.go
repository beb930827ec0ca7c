package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("segredo123")
	require.NoError(t, err)
	assert.NotEqual(t, "segredo123", hash, "hash must not equal plaintext")

	assert.True(t, CheckPassword("segredo123", hash))
	assert.False(t, CheckPassword("outra-senha", hash))
	assert.False(t, CheckPassword("segredo123", "not-a-hash"))
}

func TestHashPasswordSalted(t *testing.T) {
	a, err := HashPassword("mesma-senha")
	require.NoError(t, err)
	b, err := HashPassword("mesma-senha")
	require.NoError(t, err)
	assert.NotEqual(t, a, b, "two hashes of the same password must differ")
}

func TestGenerateSessionToken(t *testing.T) {
	a, err := GenerateSessionToken()
	require.NoError(t, err)
	b, err := GenerateSessionToken()
	require.NoError(t, err)
	assert.NotEmpty(t, a)
	assert.NotEqual(t, a, b)
}
