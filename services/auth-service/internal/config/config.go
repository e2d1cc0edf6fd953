// Package config loads the auth service configuration from the environment.
// A .env file in the working directory is read first when present.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/vasapolrittideah/account-api/shared/database"
	"github.com/vasapolrittideah/account-api/shared/mailer"
)

// AuthServiceConfig represents the configuration of the auth service.
type AuthServiceConfig struct {
	Environment         string `env:"APP_ENV"                envDefault:"development"`
	AppName             string `env:"APP_NAME"               envDefault:"Account"`
	AppLogoURL          string `env:"APP_LOGO_URL"`
	AppPasswordResetURL string `env:"APP_PASSWORD_RESET_URL" envDefault:"http://localhost:3000/reset-password"`
	ServiceName         string `env:"SERVICE_NAME"           envDefault:"auth-service"`

	HTTP           HTTPConfig `envPrefix:"HTTP_"`
	GRPCHealthPort int        `env:"GRPC_HEALTH_PORT" envDefault:"8889"`

	Mongo    database.Config `envPrefix:"MONGO_"`
	Token    TokenConfig
	OTP      OTPConfig
	Security SecurityConfig
	SMTP     mailer.Config `envPrefix:"SMTP_"`
	Consul   ConsulConfig  `envPrefix:"CONSUL_"`
}

type HTTPConfig struct {
	Host string `env:"HOST" envDefault:"localhost"`
	Port int    `env:"PORT" envDefault:"8888"`
}

// Addr returns the listen address.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type TokenConfig struct {
	Secret                      string        `env:"JWT_SECRET,required,notEmpty"`
	Issuer                      string        `env:"JWT_ISSUER"                envDefault:"auth-service"`
	PasswordResetTokenExpiresIn time.Duration `env:"PASSWORD_RESET_EXPIRES_IN" envDefault:"1h"`
}

type OTPConfig struct {
	StepSeconds int `env:"OTP_STEP_SECONDS" envDefault:"300"`
}

// Step returns the OTP step as a duration.
func (c OTPConfig) Step() time.Duration {
	return time.Duration(c.StepSeconds) * time.Second
}

type SecurityConfig struct {
	RoleBasedAuth            bool `env:"ROLE_BASED_AUTH"                  envDefault:"true"`
	AltAuthCredentialsInBody bool `env:"ALT_AUTH_CREDENTIALS_IN_REQ_BODY" envDefault:"false"`
}

type ConsulConfig struct {
	// Address of the Consul agent. Registration is skipped when empty.
	Address string `env:"ADDRESS"`
}

var (
	ErrInvalidOTPStep        = errors.New("OTP_STEP_SECONDS must be positive")
	ErrInvalidResetExpiry    = errors.New("PASSWORD_RESET_EXPIRES_IN must be positive")
	ErrMissingResetURL       = errors.New("missing APP_PASSWORD_RESET_URL environment variable")
	ErrInvalidHTTPPort       = errors.New("HTTP_PORT must be between 1 and 65535")
	ErrInvalidGRPCHealthPort = errors.New("GRPC_HEALTH_PORT must be between 1 and 65535")
)

// Load reads the configuration from the environment.
func Load() (*AuthServiceConfig, error) {
	// Missing .env files are fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[AuthServiceConfig]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse auth service config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks values env tags cannot express.
func (c *AuthServiceConfig) Validate() error {
	switch {
	case c.OTP.StepSeconds <= 0:
		return ErrInvalidOTPStep
	case c.Token.PasswordResetTokenExpiresIn <= 0:
		return ErrInvalidResetExpiry
	case c.AppPasswordResetURL == "":
		return ErrMissingResetURL
	case c.HTTP.Port <= 0 || c.HTTP.Port > 65535:
		return ErrInvalidHTTPPort
	case c.GRPCHealthPort <= 0 || c.GRPCHealthPort > 65535:
		return ErrInvalidGRPCHealthPort
	}

	return nil
}
