package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	for _, key := range []string{"SERVER_ADDRESS", "ENVIRONMENT", "DYNAMODB_TABLE", "TOKEN_TTL", "REQUIRE_AUTH"} {
		t.Setenv(key, "")
	}

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":3001", cfg.ServerAddress)
	assert.Equal(t, "lovelog", cfg.DynamoDBTable)
	assert.Equal(t, 30*24*time.Hour, cfg.TokenTTL)
	assert.False(t, cfg.RequireAuth)
	assert.True(t, cfg.IsDevelopment())
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	t.Setenv("SERVER_ADDRESS", ":8080")
	t.Setenv("TOKEN_TTL", "1h")
	t.Setenv("REQUIRE_AUTH", "true")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ServerAddress)
	assert.Equal(t, time.Hour, cfg.TokenTTL)
	assert.True(t, cfg.RequireAuth)
}

func TestLoadConfigIgnoresBadDuration(t *testing.T) {
	t.Setenv("TOKEN_TTL", "soon")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, 30*24*time.Hour, cfg.TokenTTL)
}

func TestValidateProductionRequiresSecret(t *testing.T) {
	cfg := &Config{Environment: "production", DynamoDBTable: "lovelog"}
	assert.Error(t, cfg.Validate())

	cfg.JWTSecret = "secret"
	assert.NoError(t, cfg.Validate())
}
