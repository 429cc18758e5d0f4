package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeErrorMessage(t *testing.T) {
	fallback := "falha na operação"
	testErr := errors.New("internal database error")

	assert.Equal(t, fallback, SafeErrorMessage(nil, fallback))

	// release não expõe detalhes
	GlobalConfig = &Config{Server: ServerConfig{Mode: "release"}}
	defer func() { GlobalConfig = nil }()
	assert.Equal(t, fallback, SafeErrorMessage(testErr, fallback))

	GlobalConfig = &Config{Server: ServerConfig{Mode: "debug"}}
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))

	// sem configuração carregada vale como desenvolvimento
	GlobalConfig = nil
	assert.Equal(t, "internal database error", SafeErrorMessage(testErr, fallback))
}

func TestLoadConfig_MissingDBPassword(t *testing.T) {
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("OBRAS_DATABASE_PASSWORD", "")
	defer func() { GlobalConfig = nil }()

	_, err := LoadConfig("")
	assert.ErrorIs(t, err, ErrMissingDBPassword)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	t.Setenv("DB_PASSWORD", "s3nha")
	t.Setenv("DB_HOST", "db.interno")
	t.Setenv("DB_NAME", "obras_prod")
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET_KEY", "chave")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")
	defer func() { GlobalConfig = nil }()

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "s3nha", cfg.Database.Password)
	assert.Equal(t, "db.interno", cfg.Database.Host)
	assert.Equal(t, "obras_prod", cfg.Database.DBName)
	assert.Equal(t, ":8080", cfg.Server.Port)
	assert.Equal(t, "chave", cfg.JWT.Secret)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, 280*time.Second, cfg.Database.ConnMaxLifetime)
	assert.Same(t, cfg, GlobalConfig)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("DB_PASSWORD", "x")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("PORT", "")
	defer func() { GlobalConfig = nil }()

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, ":5000", cfg.Server.Port)
	assert.Equal(t, devJWTSecret, cfg.JWT.Secret)
	assert.Equal(t, "mysql", cfg.Database.Driver)
}

func TestLoadConfig_ReleaseRequiresJWTSecret(t *testing.T) {
	t.Setenv("DB_PASSWORD", "x")
	t.Setenv("JWT_SECRET_KEY", "")
	t.Setenv("OBRAS_SERVER_MODE", "release")
	defer func() { GlobalConfig = nil }()

	_, err := LoadConfig("")
	assert.Error(t, err)
}
