package auth

import (
	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation"
	goerrors "github.com/goliatone/go-errors"
)

// AppConfig is the service configuration, loaded from the environment.
// Token settings are required: a missing signing key or an unusable
// expiry is a fatal startup error, never a per-request one.
type AppConfig struct {
	HTTPAddr    string `env:"HTTP_ADDR" envDefault:":8080"`
	DatabaseDSN string `env:"DATABASE_DSN" envDefault:"file:login-service.db?cache=shared"`
	CORSOrigins string `env:"CORS_ORIGINS" envDefault:"*"`

	JWTKey           string   `env:"JWT_KEY"`
	JWTIssuer        string   `env:"JWT_ISSUER"`
	JWTAudience      []string `env:"JWT_AUDIENCE" envSeparator:","`
	JWTExpireMinutes int      `env:"JWT_EXPIRE_MINUTES" envDefault:"30"`

	AdminUsername string `env:"ADMIN_USERNAME"`
	AdminEmail    string `env:"ADMIN_EMAIL"`
	AdminPassword string `env:"ADMIN_PASSWORD"`
}

// LoadConfig parses and validates the environment configuration.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	if err := env.Parse(cfg); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to parse configuration")
	}

	if err := cfg.Validate(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "invalid configuration")
	}

	return cfg, nil
}

// Validate will run validation rules
func (c AppConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.HTTPAddr, validation.Required),
		validation.Field(&c.JWTKey, validation.Required, validation.Length(16, 0)),
		validation.Field(&c.JWTIssuer, validation.Required),
		validation.Field(&c.JWTAudience, validation.Required),
		validation.Field(&c.JWTExpireMinutes, validation.Required, validation.Min(1)),
	)
}

// GetSigningKey returns the token signing secret
func (c *AppConfig) GetSigningKey() string {
	return c.JWTKey
}

// GetTokenExpiration returns the token lifetime in minutes
func (c *AppConfig) GetTokenExpiration() int {
	return c.JWTExpireMinutes
}

// GetIssuer returns the token issuer
func (c *AppConfig) GetIssuer() string {
	return c.JWTIssuer
}

// GetAudience returns the token audience
func (c *AppConfig) GetAudience() []string {
	return c.JWTAudience
}

var _ Config = (*AppConfig)(nil)
