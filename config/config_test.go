package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, "https://devazstg.astrokiran.com/auth/api/v1", cfg.GuideAPIBaseURL)
	assert.Equal(t, "+91", cfg.AreaCode)
	assert.Equal(t, "mobile", cfg.DeviceType)
	assert.Equal(t, "0.1.0", cfg.AppVersion)
	assert.Equal(t, "memory", cfg.SessionStore)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, time.Duration(0), cfg.GatewayTimeout)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Empty(t, cfg.TrustedProxies)
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("SESSION_TTL", "5m")
	t.Setenv("GATEWAY_TIMEOUT", "15s")
	t.Setenv("SESSION_STORE", "redis")

	v := viper.New()
	v.AutomaticEnv()
	SetDefaults(v)

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, 15*time.Second, cfg.GatewayTimeout)
	assert.Equal(t, "redis", cfg.SessionStore)
}

func TestLoadConfigTrustedProxies(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.1,10.0.0.0/24")

	v := viper.New()
	v.AutomaticEnv()
	SetDefaults(v)

	var cfg Config
	require.NoError(t, v.Unmarshal(&cfg))
	assert.Equal(t, []string{"10.0.0.1", "10.0.0.0/24"}, cfg.TrustedProxies)
}

func TestIsProduction(t *testing.T) {
	prev := AppConfig
	t.Cleanup(func() { AppConfig = prev })

	AppConfig.Env = "production"
	assert.True(t, IsProduction())
	AppConfig.Env = "development"
	assert.False(t, IsProduction())
}
