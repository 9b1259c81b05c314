package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

const (
	STORAGE_POSTGRESQL = "postgresql"
	STORAGE_MONGODB    = "mongodb"
)

type Config struct {
	IsTestMode bool   `env:"TEST_MODE" envDefault:"false"`
	Secret     string `env:"SECRET,required"`
	Port       uint16 `env:"PORT" envDefault:"9090"`

	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envDefault:"http://localhost:3000" envSeparator:","`

	Storage         string `env:"STORAGE" envDefault:"postgresql"`
	PostgresqlURL   string `env:"POSTGRESQL_URL"`
	MongodbURL      string `env:"MONGODB_URL"`
	MongodbDatabase string `env:"MONGODB_DATABASE" envDefault:"accounts"`
	RedisURL        string `env:"REDIS_URL,required"`
	RabbitmqURL     string `env:"RABBITMQ_URL"`

	RabbitmqExchange               string `env:"RABBITMQ_EXCHANGE" envDefault:"accounts"`
	RabbitmqTokenNotificationQueue string `env:"RABBITMQ_TOKEN_NOTIFICATION_QUEUE" envDefault:"token-notification"`

	BcryptHasherCost int `env:"BCRYPT_HASHER_COST" envDefault:"10"`

	VerifyEmailTokenTTL   time.Duration `env:"VERIFY_EMAIL_TOKEN_TTL" envDefault:"24h"`
	ResetPasswordTokenTTL time.Duration `env:"RESET_PASSWORD_TOKEN_TTL" envDefault:"1h"`
	SessionTTL            time.Duration `env:"SESSION_TTL" envDefault:"720h"`
	TokenIssuer           string        `env:"TOKEN_ISSUER" envDefault:"accounts"`

	VerifyEmailURL   url.URL `env:"VERIFY_EMAIL_URL" envDefault:"http://localhost:3000/verify"`
	ResetPasswordURL url.URL `env:"RESET_PASSWORD_URL" envDefault:"http://localhost:3000/reset-password"`

	AwsRegion                     string `env:"AWS_REGION"`
	AwsAccessKey                  string `env:"AWS_ACCESS_KEY"`
	AwsSecretKey                  string `env:"AWS_SECRET_KEY"`
	AwsEmailSender                string `env:"AWS_EMAIL_SENDER"`
	AwsEmailVerifyEmailTemplate   string `env:"AWS_EMAIL_VERIFY_EMAIL_TEMPLATE" envDefault:"verify-email"`
	AwsEmailResetPasswordTemplate string `env:"AWS_EMAIL_RESET_PASSWORD_TEMPLATE" envDefault:"reset-password"`

	SentryDsn *url.URL `env:"SENTRY_DSN"`
}

// IsEmailEnabled reports whether tokens are delivered with SES. Otherwise
// they are only logged.
func (c *Config) IsEmailEnabled() bool {
	return c.AwsRegion != "" && c.AwsEmailSender != ""
}

func (c *Config) IsRabbitmqEnabled() bool {
	return c.RabbitmqURL != ""
}

func (c *Config) validate() error {
	switch c.Storage {
	case STORAGE_POSTGRESQL:
		if c.PostgresqlURL == "" {
			return errors.New("POSTGRESQL_URL must be set")
		}
	case STORAGE_MONGODB:
		if c.MongodbURL == "" {
			return errors.New("MONGODB_URL must be set")
		}
	default:
		return fmt.Errorf("invalid STORAGE value %q", c.Storage)
	}
	if c.VerifyEmailTokenTTL <= 0 || c.ResetPasswordTokenTTL <= 0 || c.SessionTTL <= 0 {
		return errors.New("token and session TTLs must be positive")
	}
	return nil
}

// Load reads the configuration from the environment. Variables from a .env
// file in the working directory are loaded first if the file exists, they
// never override the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("could not load .env file: %w", err)
	}
	return Parse()
}

func Parse() (*Config, error) {
	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, err
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}
