package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Storage drivers
const (
	StorageMongo    = "mongo"
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Port          string `env:"PORT" env-default:"8080"`
	Environment   string `env:"ENVIRONMENT" env-default:"dev"`
	CORSOrigins   string `env:"CORS_ORIGINS" env-default:"http://localhost:3000"`
	StorageDriver string `env:"STORAGE_DRIVER" env-default:"mongo"`

	Mongo    MongoConfig    `env-prefix:"MONGODB_"`
	Postgres PostgresConfig `env-prefix:""`
	Auth     AuthConfig     `env-prefix:""`
	LLM      LLMConfig      `env-prefix:""`
	Webhook  WebhookConfig  `env-prefix:""`
	Logging  LoggingConfig  `env-prefix:""`
	Tracing  TracingConfig  `env-prefix:"OTEL_"`

	// Debug enables debug-level logging
	Debug bool `env:"DEBUG"`
}

type MongoConfig struct {
	URI      string `env:"URI" env-default:"mongodb://localhost:27017"`
	Database string `env:"DATABASE" env-default:"deepchat"`
}

type PostgresConfig struct {
	URL         string `env:"DATABASE_URL"`
	TablePrefix string `env:"TABLE_PREFIX"`
}

type AuthConfig struct {
	// JWKSURL is the identity provider's key set, e.g. https://<frontend-api>/.well-known/jwks.json
	JWKSURL string `env:"CLERK_JWKS_URL"`
	// AuthorizedParties restricts accepted tokens by their azp claim (comma separated, empty = any)
	AuthorizedParties string `env:"CLERK_AUTHORIZED_PARTIES"`
}

type LLMConfig struct {
	Model             string        `env:"COMPLETION_MODEL" env-default:"openrouter/deepseek/deepseek-chat-v3-0324:free"`
	OpenRouterAPIKey  string        `env:"OPENROUTER_API_KEY"`
	OpenRouterBaseURL string        `env:"OPENROUTER_BASE_URL" env-default:"https://openrouter.ai/api/v1"`
	AnthropicAPIKey   string        `env:"ANTHROPIC_API_KEY"`
	Timeout           time.Duration `env:"COMPLETION_TIMEOUT" env-default:"60s"`
}

type WebhookConfig struct {
	// SigningSecret verifies identity webhooks. Empty means the webhook answers 500.
	SigningSecret string        `env:"SIGNING_SECRET"`
	RedisURL      string        `env:"REDIS_URL"`
	DedupeTTL     time.Duration `env:"WEBHOOK_DEDUPE_TTL" env-default:"72h"`
}

type LoggingConfig struct {
	// File enables a rotating JSON log file next to stdout
	File string `env:"LOG_FILE"`
}

type TracingConfig struct {
	Endpoint    string `env:"EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `env:"SERVICE_NAME" env-default:"deepchat"`
}

// Load reads configuration from the environment. Call godotenv.Load first to
// pick up a local .env file.
func Load() (*Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read config from environment: %w", err)
	}

	cfg.Environment = strings.ToLower(cfg.Environment)
	cfg.StorageDriver = strings.ToLower(cfg.StorageDriver)
	if cfg.StorageDriver == "" {
		cfg.StorageDriver = StorageMongo
	}
	if cfg.Postgres.TablePrefix == "" {
		cfg.Postgres.TablePrefix = getTablePrefix(cfg.Environment)
	}
	if _, ok := os.LookupEnv("DEBUG"); !ok {
		cfg.Debug = getDefaultDebug(cfg.Environment)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// AuthorizedParties returns the parsed azp allow-list
func (c *Config) AuthorizedParties() []string {
	return splitList(c.Auth.AuthorizedParties)
}

// CORSOriginList returns the parsed CORS origins
func (c *Config) CORSOriginList() []string {
	return splitList(c.CORSOrigins)
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StorageMongo, StorageMemory:
	case StoragePostgres:
		if c.Postgres.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when STORAGE_DRIVER=postgres")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.Environment == "prod" && c.StorageDriver == StorageMemory {
		return fmt.Errorf("STORAGE_DRIVER=memory is not allowed in prod")
	}
	return nil
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) bool {
	return env != "prod"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
