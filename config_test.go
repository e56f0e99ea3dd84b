package auth_test

import (
	"testing"

	auth "github.com/SalsaMixLabs/containerized-microservices-pipeline-service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validAppConfig() *auth.AppConfig {
	return &auth.AppConfig{
		HTTPAddr:         ":8080",
		JWTKey:           "test-signing-key-0123456789",
		JWTIssuer:        "test-issuer",
		JWTAudience:      []string{"test-audience"},
		JWTExpireMinutes: 30,
	}
}

func TestAppConfigValidate(t *testing.T) {
	t.Run("complete config passes", func(t *testing.T) {
		assert.NoError(t, validAppConfig().Validate())
	})

	t.Run("missing signing key fails", func(t *testing.T) {
		cfg := validAppConfig()
		cfg.JWTKey = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("short signing key fails", func(t *testing.T) {
		cfg := validAppConfig()
		cfg.JWTKey = "too-short"
		assert.Error(t, cfg.Validate())
	})

	t.Run("missing issuer fails", func(t *testing.T) {
		cfg := validAppConfig()
		cfg.JWTIssuer = ""
		assert.Error(t, cfg.Validate())
	})

	t.Run("zero expiry fails", func(t *testing.T) {
		cfg := validAppConfig()
		cfg.JWTExpireMinutes = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("JWT_KEY", "test-signing-key-0123456789")
	t.Setenv("JWT_ISSUER", "test-issuer")
	t.Setenv("JWT_AUDIENCE", "aud-one,aud-two")
	t.Setenv("JWT_EXPIRE_MINUTES", "45")

	cfg, err := auth.LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "test-signing-key-0123456789", cfg.GetSigningKey())
	assert.Equal(t, "test-issuer", cfg.GetIssuer())
	assert.Equal(t, []string{"aud-one", "aud-two"}, cfg.GetAudience())
	assert.Equal(t, 45, cfg.GetTokenExpiration())
}

func TestLoadConfigRejectsIncomplete(t *testing.T) {
	t.Setenv("JWT_KEY", "")
	t.Setenv("JWT_ISSUER", "")
	t.Setenv("JWT_AUDIENCE", "")

	_, err := auth.LoadConfig()
	assert.Error(t, err)
}
