package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("DRAW_SPIN_MS", "")
	t.Setenv("SLOTS_PER_PAGE", "")
	t.Setenv("HTTP_ADDR", "")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 4000*time.Millisecond, cfg.DrawSpinDuration)
	assert.Equal(t, 1200*time.Millisecond, cfg.DrawRevealDuration)
	assert.Equal(t, 50*time.Millisecond, cfg.DrawTickBase)
	assert.Equal(t, 850*time.Millisecond, cfg.DrawTickMax)
	assert.Equal(t, 6*time.Hour, cfg.DrawIdleTimeout)
	assert.Equal(t, 25, cfg.SlotsPerPage)
	assert.False(t, cfg.NATSEnabled)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "test")
	t.Setenv("DRAW_SPIN_MS", "2500")
	t.Setenv("DRAW_REVEAL_MS", "not-a-number")
	t.Setenv("SLOTS_PER_PAGE", "16")
	t.Setenv("NATS_ENABLED", "true")
	t.Setenv("OPERATOR_DISCORD_IDS", "111, 222,,abc")

	cfg, err := load()
	require.NoError(t, err)

	assert.Equal(t, 2500*time.Millisecond, cfg.DrawSpinDuration)
	assert.Equal(t, 1200*time.Millisecond, cfg.DrawRevealDuration)
	assert.Equal(t, 16, cfg.SlotsPerPage)
	assert.True(t, cfg.NATSEnabled)
	assert.Equal(t, []int64{111, 222}, cfg.OperatorDiscordIDs)
	assert.True(t, cfg.IsOperator(222))
	assert.False(t, cfg.IsOperator(333))
}

func TestLoad_RequiresTokenOutsideTest(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("DISCORD_TOKEN", "")
	t.Setenv("DATABASE_URL", "postgres://localhost")

	_, err := load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DISCORD_TOKEN")

	t.Setenv("DISCORD_TOKEN", "token")
	t.Setenv("DATABASE_URL", "")
	_, err = load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
}

func TestGetDatabaseURL(t *testing.T) {
	cfg := &Config{DatabaseURL: "postgres://u:p@db:5432", DatabaseName: "rifa"}
	assert.Equal(t, "postgres://u:p@db:5432/rifa?sslmode=disable", cfg.GetDatabaseURL())
}

func TestSetTestConfig(t *testing.T) {
	t.Cleanup(ResetConfig)

	testCfg := NewTestConfig()
	testCfg.HTTPAddr = ":9999"
	SetTestConfig(testCfg)

	assert.Same(t, testCfg, Get())
	assert.True(t, Get().IsOperator(1), "no operators configured means everyone may operate")
}
