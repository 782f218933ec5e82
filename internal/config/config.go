package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Environment variable names recognized by the loader.
const (
	EnvConfigPath   = "CONFIG_PATH"
	EnvDBConnection = "DB_CONNECTION"
)

// AppConfig holds resolved application bootstrap values.
type AppConfig struct {
	ConfigPath string
}

// LoadFromEnv loads app bootstrap config from environment variables.
func LoadFromEnv() (AppConfig, error) {
	return AppConfig{ConfigPath: ResolveConfigPath(os.Getenv(EnvConfigPath))}, nil
}

// ResolveConfigPath normalizes the config path and applies defaults.
func ResolveConfigPath(p string) string {
	trimmed := strings.TrimSpace(p)
	if trimmed == "" {
		trimmed = "./config.yaml"
	}
	if abs, err := filepath.Abs(trimmed); err == nil {
		return abs
	}
	return trimmed
}

// DatabaseConfig holds the relational store connection settings.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"`
}

// SMTPConfig holds the verification email relay settings.
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// StripeProducts maps product codes to gateway price identifiers.
type StripeProducts struct {
	Premium string `yaml:"premium"`
}

// StripeConfig holds payment gateway credentials and product mapping.
type StripeConfig struct {
	SecretAPIKey  string         `yaml:"secret-api-key"`
	PublicAPIKey  string         `yaml:"public-api-key"`
	WebhookSecret string         `yaml:"webhook-secret"`
	Products      StripeProducts `yaml:"products"`
}

// S3Config holds object storage credentials, consumed by the asset
// pipeline outside this service core.
type S3Config struct {
	Endpoint        string `yaml:"endpoint"`
	Bucket          string `yaml:"bucket"`
	AccessKey       string `yaml:"access-key"`
	SecretAccessKey string `yaml:"secret-access-key"`
	PublicURL       string `yaml:"public-url"`
}

// AIConfig holds upstream AI endpoint settings, consumed by the model
// proxy outside this service core.
type AIConfig struct {
	BaseURL string `yaml:"base-url"`
	Model   string `yaml:"model"`
}

// Config is the process-wide configuration, loaded once at startup and
// read-only thereafter.
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Stripe   StripeConfig   `yaml:"stripe"`
	S3       S3Config       `yaml:"s3"`
	AI       AIConfig       `yaml:"ai"`
}

// Default returns the documented defaults used when the config file is
// absent or a field is omitted.
func Default() Config {
	return Config{
		Database: DatabaseConfig{DSN: "./uden.db"},
		SMTP:     SMTPConfig{Port: 587},
	}
}

// Load reads the YAML config file, applying defaults when the file is
// absent and the DB_CONNECTION env override for the database DSN. A
// missing file is not an error; a malformed one is.
func Load(configPath string) (Config, error) {
	cfg := Default()

	data, errRead := os.ReadFile(configPath)
	switch {
	case errRead == nil:
		if errUnmarshal := yaml.Unmarshal(data, &cfg); errUnmarshal != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", configPath, errUnmarshal)
		}
	case os.IsNotExist(errRead):
		// Defaults apply.
	default:
		return Config{}, fmt.Errorf("config: read %s: %w", configPath, errRead)
	}

	if dsn := strings.TrimSpace(os.Getenv(EnvDBConnection)); dsn != "" {
		cfg.Database.DSN = dsn
	}
	if cfg.SMTP.Port <= 0 {
		cfg.SMTP.Port = 587
	}
	if strings.TrimSpace(cfg.Database.DSN) == "" {
		cfg.Database.DSN = "./uden.db"
	}
	return cfg, nil
}
