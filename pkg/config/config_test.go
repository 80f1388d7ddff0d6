package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Mantenimiento-api/pkg/config"
)

func TestFromViper_ValoresPorDefecto(t *testing.T) {
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
	assert.Equal(t, "session", cfg.JWT.CookieName)
	assert.Equal(t, "@every 15m", cfg.Scheduler.PMSchedule)
	assert.Equal(t, 15*time.Minute, cfg.Storage.URLTTL())
	assert.False(t, cfg.Storage.Enabled())
	assert.Equal(t, time.Minute, cfg.RoleCache.TTL())
}

func TestFromViper_EnvComoTexto(t *testing.T) {
	v := viper.New()
	v.Set("HTTP_PORT", "9090")
	v.Set("STORAGE_BUCKET", "adjuntos")
	v.Set("ROLE_CACHE_SIZE", "no-numero")

	cfg, err := config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.True(t, cfg.Storage.Enabled())
	assert.Equal(t, 512, cfg.RoleCache.Size, "un valor no numérico usa el defecto")
}

func TestFromViper_ProduccionSinSecreto(t *testing.T) {
	v := viper.New()
	v.Set("APP_ENV", "production")

	_, err := config.FromViper(v)
	assert.Error(t, err)
}

func TestDSN_EscapaPassword(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "cmms", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/cmms?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x"
	assert.Equal(t, "postgres://x", c.ConnectionString())
}

func TestFromViper_PoolDeConexiones(t *testing.T) {
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.True(t, cfg.DB.ForceIPv4)

	v := viper.New()
	v.Set("DB_MIN_CONNS", "30")
	v.Set("DB_MAX_CONNS", "10")
	_, err = config.FromViper(v)
	assert.Error(t, err)
}

func TestFromViper_ProxiesDeConfianza(t *testing.T) {
	cfg, err := config.FromViper(viper.New())
	require.NoError(t, err)
	assert.Empty(t, cfg.HTTP.TrustedProxies)
	assert.Equal(t, "X-Forwarded-For", cfg.HTTP.ProxyHeader)

	v := viper.New()
	v.Set("HTTP_TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.10,,")
	v.Set("HTTP_PROXY_HEADER", "X-Real-Ip")
	cfg, err = config.FromViper(v)
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.10"}, cfg.HTTP.TrustedProxies)
	assert.Equal(t, "X-Real-Ip", cfg.HTTP.ProxyHeader)
}
