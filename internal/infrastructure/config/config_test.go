package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, ModePolling, cfg.Telegram.Mode)
	assert.Equal(t, 30*time.Second, cfg.Telegram.PollTimeout)
	assert.Equal(t, DriverFile, cfg.Store.Driver)
	assert.Equal(t, "points_data.json", cfg.Store.DataFile)
	assert.Equal(t, DriverLog, cfg.Store.Audit)
	assert.True(t, cfg.Ledger.AllowNegativeBalance)
	assert.Equal(t, 10, cfg.Ledger.LeaderboardLimit)
	assert.Empty(t, cfg.Ledger.AdminIDs)
	assert.False(t, cfg.RedisEnabled())
	assert.False(t, cfg.Production())
}

func TestLoad_AdminIDs(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_IDS", "1, 42,,7")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, IDList{1, 42, 7}, cfg.Ledger.AdminIDs)
}

func TestLoad_InvalidAdminIDs(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("ADMIN_IDS", "1,bob")

	_, err := Load(context.Background())
	require.Error(t, err)
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := Load(context.Background())
	require.Error(t, err)
}

func TestLoad_WebhookRequiresURL(t *testing.T) {
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("TELEGRAM_MODE", ModeWebhook)

	_, err := Load(context.Background())
	require.Error(t, err)

	t.Setenv("TELEGRAM_WEBHOOK_URL", "https://bot.example.com/telegram/webhook")
	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ModeWebhook, cfg.Telegram.Mode)
}

func TestLoad_BotTokenRequiredUnlessOff(t *testing.T) {
	_, err := Load(context.Background())
	require.Error(t, err)

	t.Setenv("TELEGRAM_MODE", ModeOff)
	_, err = Load(context.Background())
	require.NoError(t, err)
}

func TestLoad_RedisDriverRequiresAddr(t *testing.T) {
	t.Setenv("TELEGRAM_MODE", ModeOff)
	t.Setenv("STORE_DRIVER", DriverRedis)

	_, err := Load(context.Background())
	require.Error(t, err)

	t.Setenv("REDIS_ADDR", "localhost:6379")
	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.True(t, cfg.RedisEnabled())
}
