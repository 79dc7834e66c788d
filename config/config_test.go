package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"CI", "ENV", "SERVER_HOST", "SERVER_PORT", "STORAGE_DRIVER", "MONGO_URI", "MONGO_DATABASE",
		"DB_HOST", "DB_PORT", "DB_USER", "DB_PASSWORD", "DB_NAME", "DB_SSL_MODE", "SQLITE_PATH",
		"REDIS_URL", "REDIS_HOST", "REDIS_PASSWORD", "RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW",
		"CORS_ALLOWED_ORIGINS", "TRUSTED_PROXIES", "DEFAULT_COMMENT_AUTHOR", "S3_BUCKET_NAME",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Setenv("SECRETS_DIR", t.TempDir())
}

func TestLoadConfigWithDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, DriverMongo, cfg.StorageDriver)
	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "recipes", cfg.MongoDatabase)
	assert.Equal(t, "anonymous", cfg.DefaultCommentAuthor)
	assert.Equal(t, 60, cfg.RateLimitRequests)
	assert.Equal(t, time.Minute, cfg.RateLimitWindow)
	assert.Equal(t, []string{"http://localhost:5173"}, cfg.CORSAllowedOrigins)
	assert.False(t, cfg.RedisEnabled())
}

func TestLoadConfigTestEnvironmentUsesSQLite(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "test")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.StorageDriver)
}

func TestLoadConfigPostgres(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_USER", "recipes")
	t.Setenv("DB_NAME", "recipes")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.True(t, HasField(err, "db_password"))

	secretsDir := os.Getenv("SECRETS_DIR")
	require.NoError(t, os.WriteFile(filepath.Join(secretsDir, "db_password"), []byte("s3cret\n"), 0600))

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "s3cret", cfg.DBPassword)
	assert.Equal(t, "host=db port=5432 user=recipes password=s3cret dbname=recipes sslmode=disable", cfg.PostgresDSN())
}

func TestLoadConfigCIRequiresPasswordFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("CI", "true")
	t.Setenv("STORAGE_DRIVER", "postgres")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.True(t, HasField(err, "DB_PASSWORD"))
}

func TestLoadConfigInvalidValues(t *testing.T) {
	clearEnv(t)
	t.Setenv("RATE_LIMIT_WINDOW", "soon")

	_, err := LoadConfig()
	assert.Error(t, err)
}

func TestValidateConfigUnknownDriver(t *testing.T) {
	cfg := &Config{ServerPort: "8080", StorageDriver: "cassandra", DefaultCommentAuthor: "anonymous"}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.True(t, HasField(err, "STORAGE_DRIVER"))
	assert.False(t, HasField(err, "SERVER_PORT"))
}

func TestValidateConfigRateLimitWithRedis(t *testing.T) {
	cfg := &Config{
		ServerPort:           "8080",
		StorageDriver:        DriverSQLite,
		SQLitePath:           "recipes.db",
		RedisURL:             "redis://localhost:6379",
		DefaultCommentAuthor: "anonymous",
	}
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.True(t, HasField(err, "RATE_LIMIT_REQUESTS"))
	assert.True(t, HasField(err, "RATE_LIMIT_WINDOW"))
}

func TestValidateConfigPostgresFieldsInOrder(t *testing.T) {
	cfg := &Config{ServerPort: "8080", StorageDriver: DriverPostgres, DBPassword: "pw", DefaultCommentAuthor: "anonymous"}

	for i := 0; i < 5; i++ {
		err := ValidateConfig(cfg)
		var errs ValidationErrors
		require.ErrorAs(t, err, &errs)

		fields := make([]string, 0, len(errs))
		for _, e := range errs {
			fields = append(fields, e.Field)
		}
		assert.Equal(t, []string{"DB_HOST", "DB_PORT", "DB_USER", "DB_NAME"}, fields)
	}
}

func TestLoadConfigTrustedProxies(t *testing.T) {
	clearEnv(t)
	t.Setenv("ENV", "test")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.10")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.10"}, cfg.TrustedProxies)

	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/33")
	_, err = LoadConfig()
	require.Error(t, err)
	assert.True(t, HasField(err, "TRUSTED_PROXIES"))
}
