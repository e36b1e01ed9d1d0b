package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromFileAppliesDefaults(t *testing.T) {
	path := writeConfigFile(t, `
app:
  name: "storefront-gateway"
store:
  domain: "test-store.example.com"
  access_token: "token"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "2024-01", cfg.Store.APIVersion)
	assert.Equal(t, 3, cfg.Store.MaxRetries)
	assert.Equal(t, 300000, cfg.Cache.ProductTTL)
	assert.Equal(t, 60000, cfg.Cache.SearchTTL)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "gemini-2.0-flash", cfg.Assistant.Model)
}

func TestLoadFromFileMissingStoreCredentialsAllowed(t *testing.T) {
	path := writeConfigFile(t, `
app:
  name: "storefront-gateway"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.False(t, cfg.Store.IsConfigured())
}

func TestLoadFromFileExpandsEnvVars(t *testing.T) {
	t.Setenv("TEST_STORE_DOMAIN_VALUE", "env-store.example.com")

	path := writeConfigFile(t, `
store:
  domain: "${TEST_STORE_DOMAIN_VALUE}"
  access_token: "token"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "env-store.example.com", cfg.Store.Domain)
}

func TestLoadFromFileEnvOverrideForEmptyValues(t *testing.T) {
	t.Setenv("STORE_DOMAIN", "override-store.example.com")
	t.Setenv("STOREFRONT_ACCESS_TOKEN", "override-token")

	path := writeConfigFile(t, `
app:
  name: "storefront-gateway"
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "override-store.example.com", cfg.Store.Domain)
	assert.Equal(t, "override-token", cfg.Store.AccessToken)
	assert.True(t, cfg.Store.IsConfigured())
}

func TestLoadFromFileRejectsBadPort(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 99999
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port")
}

func TestLoadFromFileRejectsBadDomain(t *testing.T) {
	path := writeConfigFile(t, `
store:
  domain: "not-a-hostname"
  access_token: "token"
`)

	_, err := LoadFromFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "domain")
}

func TestStoreEndpoint(t *testing.T) {
	cfg := StoreConfig{Domain: "test-store.example.com", APIVersion: "2024-01"}
	assert.Equal(t, "https://test-store.example.com/api/2024-01/graphql.json", cfg.Endpoint())
}

func TestGetDuration(t *testing.T) {
	assert.Equal(t, 5*time.Minute, GetDuration(300000))
	assert.Equal(t, time.Duration(0), GetDuration(0))
}
