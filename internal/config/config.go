package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"github.com/spf13/viper"
)

const (
	IdentityProviderLocal   = "local"
	IdentityProviderCognito = "cognito"

	insecureJWTSecret = "change-me-carmarket-jwt-secret"
)

// Config holds all configuration for the service.
type Config struct {
	ServiceName           string        `mapstructure:"SERVICE_NAME"`
	HTTPPort              string        `mapstructure:"HTTP_PORT"`
	PrometheusMetricsPort string        `mapstructure:"PROMETHEUS_METRICS_PORT"`
	ShutdownTimeout       time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`

	MongoURI      string `mapstructure:"MONGO_URI"`
	MongoDatabase string `mapstructure:"MONGO_DATABASE"`

	RedisAddr       string        `mapstructure:"REDIS_ADDR"`
	RedisPassword   string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB         int           `mapstructure:"REDIS_DB"`
	ListingCacheTTL time.Duration `mapstructure:"LISTING_CACHE_TTL"`

	NATSURL string `mapstructure:"NATS_URL"`

	MinioEndpoint  string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey string `mapstructure:"MINIO_SECRET_KEY"`
	MinioBucket    string `mapstructure:"MINIO_BUCKET"`
	MinioUseSSL    bool   `mapstructure:"MINIO_USE_SSL"`

	ImageMaxDimension int   `mapstructure:"IMAGE_MAX_DIMENSION"`
	ImageMaxBytes     int64 `mapstructure:"IMAGE_MAX_BYTES"`
	ImageMaxPixels    int64 `mapstructure:"IMAGE_MAX_PIXELS"`

	IdentityProvider      string        `mapstructure:"IDENTITY_PROVIDER"`
	JWTSecret             string        `mapstructure:"JWT_SECRET"`
	SessionTTL            time.Duration `mapstructure:"SESSION_TTL"`
	CognitoUserPoolID     string        `mapstructure:"COGNITO_USER_POOL_ID"`
	CognitoClientID       string        `mapstructure:"COGNITO_CLIENT_ID"`
	IdentityAdminDelete   bool          `mapstructure:"IDENTITY_ADMIN_DELETE"`
	AdminRegistrationCode string        `mapstructure:"ADMIN_REGISTRATION_CODE"`

	SMTPHost        string `mapstructure:"SMTP_HOST"`
	SMTPPort        int    `mapstructure:"SMTP_PORT"`
	SMTPUsername    string `mapstructure:"SMTP_USERNAME"`
	SMTPPassword    string `mapstructure:"SMTP_PASSWORD"`
	SMTPSenderEmail string `mapstructure:"SMTP_SENDER_EMAIL"`

	AuthRateLimitRPS   float64 `mapstructure:"AUTH_RATE_LIMIT_RPS"`
	AuthRateLimitBurst int     `mapstructure:"AUTH_RATE_LIMIT_BURST"`

	OTExporterOTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	LogLevel               string `mapstructure:"LOG_LEVEL"`
	LogFormat              string `mapstructure:"LOG_FORMAT"`
	LogOutputFile          string `mapstructure:"LOG_OUTPUT_FILE"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("SERVICE_NAME", "carmarket-service")
	v.SetDefault("HTTP_PORT", "8080")
	v.SetDefault("PROMETHEUS_METRICS_PORT", "9095")
	v.SetDefault("SHUTDOWN_TIMEOUT", "15s")
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DATABASE", "carmarket")
	v.SetDefault("REDIS_ADDR", "localhost:6379")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("LISTING_CACHE_TTL", "1h")
	v.SetDefault("NATS_URL", "nats://localhost:4222")
	v.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	v.SetDefault("MINIO_ACCESS_KEY", "")
	v.SetDefault("MINIO_SECRET_KEY", "")
	v.SetDefault("MINIO_BUCKET", "car-images")
	v.SetDefault("MINIO_USE_SSL", false)
	v.SetDefault("IMAGE_MAX_DIMENSION", 1600)
	v.SetDefault("IMAGE_MAX_BYTES", 10<<20)
	v.SetDefault("IMAGE_MAX_PIXELS", 40_000_000)
	v.SetDefault("IDENTITY_PROVIDER", IdentityProviderLocal)
	v.SetDefault("JWT_SECRET", insecureJWTSecret)
	v.SetDefault("SESSION_TTL", "24h")
	v.SetDefault("COGNITO_USER_POOL_ID", "")
	v.SetDefault("COGNITO_CLIENT_ID", "")
	v.SetDefault("IDENTITY_ADMIN_DELETE", true)
	v.SetDefault("ADMIN_REGISTRATION_CODE", "")
	v.SetDefault("SMTP_HOST", "")
	v.SetDefault("SMTP_PORT", 587)
	v.SetDefault("SMTP_USERNAME", "")
	v.SetDefault("SMTP_PASSWORD", "")
	v.SetDefault("SMTP_SENDER_EMAIL", "")
	v.SetDefault("AUTH_RATE_LIMIT_RPS", 1.0)
	v.SetDefault("AUTH_RATE_LIMIT_BURST", 5)
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("LOG_OUTPUT_FILE", "stdout")
}

// LoadConfig reads configuration from the environment on top of defaults.
// A .env file, if any, is expected to be loaded by the caller first.
func LoadConfig() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	cfg.IdentityProvider = strings.ToLower(strings.TrimSpace(cfg.IdentityProvider))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	if c.MongoURI == "" {
		errs = append(errs, errors.New("MONGO_URI is required"))
	}
	if c.MongoDatabase == "" {
		errs = append(errs, errors.New("MONGO_DATABASE is required"))
	}
	if c.HTTPPort == "" {
		errs = append(errs, errors.New("HTTP_PORT is required"))
	}
	switch c.IdentityProvider {
	case IdentityProviderLocal:
		if c.JWTSecret == "" {
			errs = append(errs, errors.New("JWT_SECRET is required for the local identity provider"))
		}
	case IdentityProviderCognito:
		if c.CognitoUserPoolID == "" || c.CognitoClientID == "" {
			errs = append(errs, errors.New("COGNITO_USER_POOL_ID and COGNITO_CLIENT_ID are required for the cognito identity provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown IDENTITY_PROVIDER %q", c.IdentityProvider))
	}
	if c.ImageMaxDimension <= 0 || c.ImageMaxBytes <= 0 || c.ImageMaxPixels <= 0 {
		errs = append(errs, errors.New("IMAGE_MAX_DIMENSION, IMAGE_MAX_BYTES and IMAGE_MAX_PIXELS must be positive"))
	}
	return errors.Join(errs...)
}

// LoggerConfig builds the logger settings from the loaded configuration.
func (c *Config) LoggerConfig() *logger.LoggerConfig {
	return &logger.LoggerConfig{
		Level:      strings.ToLower(strings.TrimSpace(c.LogLevel)),
		Format:     strings.ToLower(strings.TrimSpace(c.LogFormat)),
		OutputFile: c.LogOutputFile,
	}
}

// InsecureJWTSecret reports whether the JWT secret is still the built-in default.
func (c *Config) InsecureJWTSecret() bool {
	return c.IdentityProvider == IdentityProviderLocal && c.JWTSecret == insecureJWTSecret
}

// MailerEnabled reports whether moderation emails can be sent.
func (c *Config) MailerEnabled() bool {
	return c.SMTPHost != "" && c.SMTPSenderEmail != ""
}
