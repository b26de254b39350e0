package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
[server]
http_port = 9090

[backend]
url = "http://rental.local/api/v1"
timeout = 3

[payment]
poll_interval_seconds = 2
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.HTTPPort)
	assert.Equal(t, "http://rental.local/api/v1", cfg.Backend.URL)
	assert.Equal(t, 3, cfg.Backend.Timeout)
	assert.Equal(t, 2, cfg.Payment.PollIntervalSeconds)

	// Незаданные значения остаются по умолчанию
	assert.Equal(t, 3, cfg.Payment.DirectRedirectDelaySeconds)
	assert.Equal(t, 5, cfg.Payment.PolledRedirectDelaySeconds)
	assert.Equal(t, "/metrics", cfg.Metrics.Path)
}

func TestLoad_InvalidConfig(t *testing.T) {
	path := writeConfig(t, `
[backend]
url = ""
`)

	_, err := Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", DBName: "rental", SSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=rental sslmode=disable", d.DSN())
}

func TestLoad_TrustedProxies(t *testing.T) {
	path := writeConfig(t, `
[rate_limit]
enabled = true
requests_per_minute = 60
trusted_proxies = ["10.0.0.0/8", "127.0.0.1/32"]
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1/32"}, cfg.RateLimit.TrustedProxies)

	path = writeConfig(t, `
[rate_limit]
trusted_proxies = ["10.0.0.1"]
`)
	_, err = Load(path)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
