package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "DB_DSN", "HTTP_ADDR", "STORE_URL", "PSYCHOLOGIST_ID", "TELEGRAM_TOKEN", "TELEGRAM_CHAT_ID", "HTTP_TIMEOUT", "TIMEZONE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "http://localhost:8080", cfg.StoreURL)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.Zero(t, cfg.TelegramChatID)

	assert.Error(t, cfg.RequireDB())
	assert.Error(t, cfg.RequireBot())

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.Local, loc)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("DB_DSN", "postgres://localhost/calendar")
	t.Setenv("PSYCHOLOGIST_ID", "psy-1")
	t.Setenv("TELEGRAM_TOKEN", "token")
	t.Setenv("TELEGRAM_CHAT_ID", "-100123")
	t.Setenv("HTTP_TIMEOUT", "3s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, int64(-100123), cfg.TelegramChatID)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
	assert.NoError(t, cfg.RequireDB())
	assert.NoError(t, cfg.RequireBot())
	assert.Equal(t, "postgres://localhost/calendar", cfg.GetDBDSN())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("TELEGRAM_CHAT_ID", "chat")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("TELEGRAM_CHAT_ID", "")
	t.Setenv("HTTP_TIMEOUT", "soon")
	_, err = Load()
	assert.Error(t, err)
}

func TestLocation(t *testing.T) {
	cfg := &Config{Timezone: "UTC"}
	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	cfg.Timezone = "Mars/Olympus"
	_, err = cfg.Location()
	assert.Error(t, err)
}
