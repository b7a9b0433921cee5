package configs

import (
	"testing"
	"time"

	"planora.app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigDefaults(t *testing.T) {
	t.Setenv("AI_API_KEY", "")

	cfg, err := ParseConfig()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, models.RoleGuest, cfg.DefaultRole)
	assert.Equal(t, 30*time.Second, cfg.DB.MaxConnectElapsed)
	assert.False(t, cfg.AI.Enabled())
	assert.False(t, cfg.IsProduction())
}

func TestParseConfigOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("DEFAULT_ROLE", "MEMBER")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("AI_API_KEY", "sk-test")
	t.Setenv("SESSION_TTL", "2h")

	cfg, err := ParseConfig()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, models.RoleMember, cfg.DefaultRole)
	assert.Contains(t, cfg.DB.DSN(), "host=db.internal")
	assert.True(t, cfg.AI.Enabled())
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
}

func TestParseConfigRejectsUnknownRole(t *testing.T) {
	t.Setenv("DEFAULT_ROLE", "ADMIN")
	_, err := ParseConfig()
	assert.Error(t, err)
}
