package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, ":8080", cfg.Addr)
	require.Equal(t, "http://localhost:8080", cfg.BaseURL)
	require.Equal(t, "localhost", cfg.Database.Host)
	require.Equal(t, "disable", cfg.Database.SSLMode)
	require.Equal(t, 24*time.Hour, cfg.JWT.TokenTTL.Duration())
	require.Empty(t, cfg.SMTP.Host)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT_ADDR", ":9999")
	t.Setenv("DB_NAME", "portfolio_test")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load("")
	require.NoError(t, err)

	require.Equal(t, ":9999", cfg.Addr)
	require.Equal(t, "portfolio_test", cfg.Database.DBName)
	require.Equal(t, "s3cret", cfg.JWT.Secret)
}

func TestLoadYAMLOverlay(t *testing.T) {
	t.Setenv("DB_HOST", "env-host")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":7070"
database:
  host: yaml-host
  dbname: portfolio_yaml
jwt:
  secret: from-yaml
  token_ttl: 2h
smtp:
  host: smtp.example.com
  admin_email: admin@example.com
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	// YAML wins over env for keys it sets.
	require.Equal(t, ":7070", cfg.Addr)
	require.Equal(t, "yaml-host", cfg.Database.Host)
	require.Equal(t, "portfolio_yaml", cfg.Database.DBName)
	require.Equal(t, "from-yaml", cfg.JWT.Secret)
	require.Equal(t, 2*time.Hour, cfg.JWT.TokenTTL.Duration())
	require.Equal(t, "smtp.example.com", cfg.SMTP.Host)

	// Keys absent from the file keep their env/default values.
	require.Equal(t, "5432", cfg.Database.Port)
	require.Equal(t, "587", cfg.SMTP.Port)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestDSN(t *testing.T) {
	c := DatabaseConfig{
		Host: "db", Port: "5432", User: "u", Password: "p",
		DBName: "portfolio", SSLMode: "disable",
	}
	require.Equal(t,
		"host=db port=5432 user=u password=p dbname=portfolio sslmode=disable",
		c.DSN())
}
