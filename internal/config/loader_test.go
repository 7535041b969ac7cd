package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	strerrors "github.com/alexisbeaulieu97/strato/pkg/errors"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "strato.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFileWithDefaults(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://api.example.com
  tenant: acme
  token: t0k3n
defaults:
  region: us-west
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, "us-west", cfg.Defaults.Region)
	assert.Equal(t, 15*time.Second, cfg.Poll.Interval())
	assert.Equal(t, 10, cfg.Poll.MaxAttempts)
	assert.Equal(t, 7, cfg.Quota.CredentialCeiling)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 30*time.Second, cfg.API.Timeout())
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://api.example.com
  tenant: acme
  token: t0k3n
poll:
  max_attempts: 3
`)

	t.Setenv("STRATO_API_TENANT", "globex")
	t.Setenv("STRATO_POLL_MAX_ATTEMPTS", "20")
	t.Setenv("STRATO_REGION", "eu-central")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "globex", cfg.API.Tenant)
	assert.Equal(t, 20, cfg.Poll.MaxAttempts)
	assert.Equal(t, "eu-central", cfg.Defaults.Region)
}

func TestLoadEnvOnlyWhenFileMissing(t *testing.T) {
	t.Setenv("STRATO_API_URL", "https://api.example.com")
	t.Setenv("STRATO_API_TENANT", "acme")
	t.Setenv("STRATO_API_TOKEN", "t0k3n")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "acme", cfg.API.Tenant)
}

func TestLoadRejectsMissingCredentials(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://api.example.com
`)

	_, err := Load(path)
	var validationErr *strerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	path := writeConfig(t, "api: [broken")

	_, err := Load(path)
	var parseErr *strerrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Equal(t, path, parseErr.Path)
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	path := writeConfig(t, `
api:
  base_url: https://api.example.com
  tenant: acme
  token: t0k3n
logging:
  level: shout
`)

	_, err := Load(path)
	var validationErr *strerrors.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Contains(t, validationErr.Field, "Logging")
}
