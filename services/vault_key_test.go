package services

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ridesafe-http-service/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVaultKeyFromEnv(t *testing.T) {
	raw := strings.Repeat("ab", 32)
	svc, err := NewVaultKeyService(&config.Config{VaultMasterKey: raw})
	require.NoError(t, err)

	expected, _ := hex.DecodeString(raw)
	assert.Equal(t, expected, svc.Key())
}

func TestVaultKeyFromEnvInvalid(t *testing.T) {
	_, err := NewVaultKeyService(&config.Config{VaultMasterKey: "not-hex"})
	assert.Error(t, err)

	// 长度不足
	_, err = NewVaultKeyService(&config.Config{VaultMasterKey: "abcd"})
	assert.Error(t, err)
}

func TestVaultKeyGeneratedAndPersisted(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "vault.key")

	first, err := NewVaultKeyService(&config.Config{VaultKeyFile: keyFile})
	require.NoError(t, err)
	assert.Len(t, first.Key(), 32)

	// 重新加载得到同一密钥，重启后历史密文仍可解
	second, err := NewVaultKeyService(&config.Config{VaultKeyFile: keyFile})
	require.NoError(t, err)
	assert.Equal(t, first.Key(), second.Key())
}

func TestVaultKeyCorruptFile(t *testing.T) {
	keyFile := filepath.Join(t.TempDir(), "vault.key")
	require.NoError(t, os.WriteFile(keyFile, []byte("too short"), 0600))

	_, err := NewVaultKeyService(&config.Config{VaultKeyFile: keyFile})
	assert.Error(t, err)
}
