package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.App.HTTPPort)
	assert.Equal(t, 10*time.Second, cfg.App.ShutdownTimeout)
	assert.Equal(t, StoreMemory, cfg.Store.Driver)
	assert.Equal(t, NotifierSimulated, cfg.Notifier.Driver)
	assert.Equal(t, 5*time.Second, cfg.Notifier.Timeout)
	assert.Equal(t, 100*time.Millisecond, cfg.Notifier.SimulatedDelay)
	assert.False(t, cfg.Cache.Enabled)
	assert.Equal(t, 5*time.Minute, cfg.DB.ConnMaxLifetime)
	assert.Equal(t, "console", cfg.Logger.Format)
	assert.Equal(t, "debug", cfg.Logger.Level)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/users.db")
	t.Setenv("CACHE_ENABLED", "true")
	t.Setenv("CACHE_TTL_SECONDS", "30")
	t.Setenv("NOTIFIER_DRIVER", "smtp")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_FROM", "noreply@example.com")
	t.Setenv("NOTIFIER_SIMULATED_DELAY_MS", "250")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.App.HTTPPort)
	assert.Equal(t, StoreSQLite, cfg.Store.Driver)
	assert.Equal(t, "/tmp/users.db", cfg.Store.SQLitePath)
	assert.True(t, cfg.Cache.Enabled)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
	assert.Equal(t, NotifierSMTP, cfg.Notifier.Driver)
	assert.Equal(t, 587, cfg.Notifier.SMTPPort)
	assert.Equal(t, 250*time.Millisecond, cfg.Notifier.SimulatedDelay)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.True(t, cfg.Logger.EnableSampling)
}

func TestLoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	content := "HTTP_PORT=7070\nSTORE_DRIVER=postgres\nDB_NAME=users_test\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.env"), []byte(content), 0o600))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "7070", cfg.App.HTTPPort)
	assert.Equal(t, StorePostgres, cfg.Store.Driver)
	assert.Equal(t, "users_test", cfg.DB.Name)
}

func TestLoadConfig_InvalidDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	_, err := LoadConfig("")
	assert.ErrorContains(t, err, "STORE_DRIVER")
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			App:      AppConfig{HTTPPort: "8080"},
			Store:    StoreConfig{Driver: StoreMemory},
			Notifier: NotifierConfig{Driver: NotifierSimulated},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(*Config) {}},
		{name: "empty port", mutate: func(c *Config) { c.App.HTTPPort = "" }, wantErr: true},
		{name: "sqlite without path", mutate: func(c *Config) { c.Store.Driver = StoreSQLite }, wantErr: true},
		{name: "postgres without host", mutate: func(c *Config) { c.Store.Driver = StorePostgres }, wantErr: true},
		{name: "cache without ttl", mutate: func(c *Config) { c.Cache.Enabled = true }, wantErr: true},
		{name: "rate limit without rate", mutate: func(c *Config) { c.RateLimit.Enabled = true }, wantErr: true},
		{name: "rabbitmq without url", mutate: func(c *Config) { c.Notifier.Driver = NotifierRabbitMQ }, wantErr: true},
		{name: "mailgun without key", mutate: func(c *Config) {
			c.Notifier.Driver = NotifierMailgun
			c.Notifier.MailgunDomain = "mg.example.com"
			c.Notifier.MailgunSender = "noreply@mg.example.com"
		}, wantErr: true},
		{name: "unknown notifier", mutate: func(c *Config) { c.Notifier.Driver = "pigeon" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDSN(t *testing.T) {
	db := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", Name: "n", SSLMode: "disable"}
	assert.Equal(t, "host=db user=u password=p dbname=n port=5432 sslmode=disable", db.DSN())
}
