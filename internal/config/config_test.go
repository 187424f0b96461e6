package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, "0 17 * * *", cfg.EOP.RefreshCron)
	assert.Equal(t, "data/skyplan.db", cfg.EOP.SQLitePath)
	assert.Equal(t, 37.0, cfg.Time.TAIMinusUTC)
	assert.Equal(t, 4, cfg.Stream.MaxPerIP)
	assert.Equal(t, 1000, cfg.Stream.MaxTotal)
	assert.Equal(t, 1.0, cfg.Stream.IntervalSeconds)
	assert.NoError(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := `
server:
  addr: ":9090"
  auth_token: secret
eop:
  source_urls:
    - https://example.com/eop.json
  refresh_cron: "30 6 * * *"
  sqlite_path: /var/lib/skyplan/eop.db
time:
  tai_minus_utc: 38
stream:
  max_per_ip: 8
  max_total: 64
  interval_seconds: 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, "secret", cfg.Server.AuthToken)
	assert.Equal(t, []string{"https://example.com/eop.json"}, cfg.EOP.SourceURLs)
	assert.Equal(t, "30 6 * * *", cfg.EOP.RefreshCron)
	assert.Equal(t, "/var/lib/skyplan/eop.db", cfg.EOP.SQLitePath)
	assert.Equal(t, 38.0, cfg.Time.TAIMinusUTC)
	assert.Equal(t, 8, cfg.Stream.MaxPerIP)
	assert.Equal(t, 64, cfg.Stream.MaxTotal)
	assert.Equal(t, 0.5, cfg.Stream.IntervalSeconds)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":9090\"\n"), 0644))

	t.Setenv("SKYPLAN_ADDR", ":7070")
	t.Setenv("SKYPLAN_AUTH_TOKEN", "tok")
	t.Setenv("SKYPLAN_EOP_URL", "https://override.example/eop")
	t.Setenv("SKYPLAN_TAI_MINUS_UTC", "39")
	t.Setenv("SKYPLAN_STREAM_MAX_PER_IP", "2")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr, "env must beat the file")
	assert.Equal(t, "tok", cfg.Server.AuthToken)
	assert.Equal(t, []string{"https://override.example/eop"}, cfg.EOP.SourceURLs)
	assert.Equal(t, 39.0, cfg.Time.TAIMinusUTC)
	assert.Equal(t, 2, cfg.Stream.MaxPerIP)
}

func TestLoadMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server: [not a map"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"negative tai-utc", func(c *Config) { c.Time.TAIMinusUTC = -1 }},
		{"zero streams per ip", func(c *Config) { c.Stream.MaxPerIP = 0 }},
		{"total cap below per-ip cap", func(c *Config) { c.Stream.MaxTotal = 2 }},
		{"negative stream interval", func(c *Config) { c.Stream.IntervalSeconds = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
