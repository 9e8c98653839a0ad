package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := Defaults()
	require.Equal(t, "development", c.Env)
	require.Equal(t, "https://api.platform.dev/v1", c.BaseURL)
	require.Equal(t, 60*time.Second, c.Timeout)
	require.Equal(t, 2, c.MaxRetries)
	require.Equal(t, "info", c.LogLevel)
	require.Equal(t, ":4010", c.MockAddr)
	require.Empty(t, c.APIKey)
	require.True(t, c.IsDevelopment())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("PLATFORM_API_KEY", "sk-env")
	t.Setenv("PLATFORM_BASE_URL", "http://localhost:4010/v1")
	t.Setenv("PLATFORM_TIMEOUT", "5s")
	t.Setenv("PLATFORM_MAX_RETRIES", "0")

	c, err := Load()
	require.NoError(t, err)
	require.False(t, c.IsDevelopment())
	require.Equal(t, "sk-env", c.APIKey)
	require.Equal(t, "http://localhost:4010/v1", c.BaseURL)
	require.Equal(t, 5*time.Second, c.Timeout)
	require.Equal(t, 0, c.MaxRetries)
}

func TestLoadRejectsMalformedValues(t *testing.T) {
	t.Setenv("PLATFORM_TIMEOUT", "soon")

	_, err := Load()
	require.ErrorContains(t, err, "Timeout")
}
