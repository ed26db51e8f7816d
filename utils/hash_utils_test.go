package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("Secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret123", hash)

	assert.True(t, CheckPasswordHash("Secret123", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
}

func TestHashVaultPasswordRoundTrip(t *testing.T) {
	encoded, err := HashVaultPassword("vault-pass")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(encoded, "$argon2id$"))
	assert.True(t, CheckVaultPassword("vault-pass", encoded))
	assert.False(t, CheckVaultPassword("wrong-pass", encoded))
}

func TestHashVaultPasswordUniqueSalt(t *testing.T) {
	h1, err := HashVaultPassword("same-pass")
	require.NoError(t, err)
	h2, err := HashVaultPassword("same-pass")
	require.NoError(t, err)

	// 盐随机，同一口令两次哈希结果不同
	assert.NotEqual(t, h1, h2)
	assert.True(t, CheckVaultPassword("same-pass", h1))
	assert.True(t, CheckVaultPassword("same-pass", h2))
}

func TestCheckVaultPasswordMalformed(t *testing.T) {
	assert.False(t, CheckVaultPassword("any", ""))
	assert.False(t, CheckVaultPassword("any", "not-a-phc-string"))
	assert.False(t, CheckVaultPassword("any", "$argon2id$v=19$m=65536,t=1,p=4$bad"))
}

func TestRandomBytes(t *testing.T) {
	b1, err := RandomBytes(12)
	require.NoError(t, err)
	assert.Len(t, b1, 12)

	b2, err := RandomBytes(12)
	require.NoError(t, err)
	assert.NotEqual(t, b1, b2)
}
