package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Storage drivers
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	ServerPort string
	ServerHost string
	LogLevel   string

	// Storage backend: mongo, postgres or sqlite
	StorageDriver string

	// MongoDB configuration
	MongoURI      string
	MongoDatabase string

	// Postgres configuration
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// SQLite configuration
	SQLitePath string

	// Redis configuration, rate limiting is disabled when no Redis is configured
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	RateLimitRequests int
	RateLimitWindow   time.Duration

	CORSAllowedOrigins []string

	// TrustedProxies lists the proxy addresses whose forwarding headers are
	// believed when resolving the client IP. Empty trusts none.
	TrustedProxies []string

	// DefaultCommentAuthor is used for comments posted without an author
	DefaultCommentAuthor string

	// Export configuration
	S3BucketName string
	AWSRegion    string
	ExportPrefix string
}

// LoadConfig creates a new Config instance with values from environment variables or secrets
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	cfg := &Config{}

	if err := load(cfg, env); err != nil {
		return nil, fmt.Errorf("failed to load %s configuration: %w", env, err)
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func load(cfg *Config, env Environment) error {
	cfg.ServerHost = getEnv("SERVER_HOST", "0.0.0.0")
	cfg.ServerPort = getEnv("SERVER_PORT", "8080")
	cfg.LogLevel = getEnv("LOG_LEVEL", "info")

	defaultDriver := DriverMongo
	if env == Test {
		defaultDriver = DriverSQLite
	}
	cfg.StorageDriver = strings.ToLower(getEnv("STORAGE_DRIVER", defaultDriver))

	cfg.MongoURI = getSecretOrEnv("MONGO_URI", "mongo_uri", "mongodb://localhost:27017")
	cfg.MongoDatabase = getEnv("MONGO_DATABASE", "recipes")

	cfg.DBHost = getEnv("DB_HOST", "localhost")
	cfg.DBPort = getEnv("DB_PORT", "5432")
	cfg.DBUser = getSecretOrEnv("DB_USER", "db_user", "postgres")
	cfg.DBPassword = getSecretOrEnv("DB_PASSWORD", "db_password", "")
	cfg.DBName = getEnv("DB_NAME", "recipes")
	cfg.DBSSLMode = getEnv("DB_SSL_MODE", "disable")

	cfg.SQLitePath = getEnv("SQLITE_PATH", "recipes.db")

	cfg.RedisURL = getSecretOrEnv("REDIS_URL", "redis_url", "")
	cfg.RedisHost = getEnv("REDIS_HOST", "")
	cfg.RedisPort = getEnv("REDIS_PORT", "6379")
	cfg.RedisPassword = getSecretOrEnv("REDIS_PASSWORD", "redis_password", "")
	cfg.RedisDB = 0 // This is a constant, not a secret

	var err error
	if cfg.RateLimitRequests, err = strconv.Atoi(getEnv("RATE_LIMIT_REQUESTS", "60")); err != nil {
		return fmt.Errorf("invalid RATE_LIMIT_REQUESTS: %w", err)
	}
	if cfg.RateLimitWindow, err = time.ParseDuration(getEnv("RATE_LIMIT_WINDOW", "1m")); err != nil {
		return fmt.Errorf("invalid RATE_LIMIT_WINDOW: %w", err)
	}

	cfg.CORSAllowedOrigins = splitList(getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"))
	cfg.TrustedProxies = splitList(getEnv("TRUSTED_PROXIES", ""))
	cfg.DefaultCommentAuthor = getEnv("DEFAULT_COMMENT_AUTHOR", "anonymous")

	cfg.S3BucketName = getEnv("S3_BUCKET_NAME", "")
	cfg.AWSRegion = getEnv("AWS_REGION", "eu-north-1")
	cfg.ExportPrefix = getEnv("EXPORT_PREFIX", "exports/recipes")

	return nil
}

// PostgresDSN builds the connection string for the Postgres backend.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// RedisEnabled reports whether a Redis server is configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// Addr is the listen address of the HTTP server.
func (c *Config) Addr() string {
	return c.ServerHost + ":" + c.ServerPort
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

// getSecretOrEnv prefers the environment and falls back to the Docker secret file.
func getSecretOrEnv(key, secret, fallback string) string {
	if v := getEnv(key, ""); v != "" {
		return v
	}
	if v := readSecret(secret); v != "" {
		return v
	}
	return fallback
}

// readSecret reads a Docker secret from the secrets directory
func readSecret(name string) string {
	secretsDir := os.Getenv("SECRETS_DIR")
	if secretsDir == "" {
		secretsDir = "/run/secrets"
	}
	secretPath := filepath.Join(secretsDir, name)
	if data, err := os.ReadFile(secretPath); err == nil {
		return strings.TrimSpace(string(data))
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
