package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
)

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every problem found in a configuration
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, v := range e {
		msgs = append(msgs, v.Error())
	}
	return fmt.Sprintf("configuration validation failed:\n%s", strings.Join(msgs, "\n"))
}

// ValidateConfig checks the settings required by the selected storage driver
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	if cfg.ServerPort == "" {
		errs = append(errs, ValidationError{"SERVER_PORT", "is required"})
	}

	switch cfg.StorageDriver {
	case DriverMongo:
		if cfg.MongoURI == "" {
			errs = append(errs, ValidationError{"MONGO_URI", "is required for the mongo driver"})
		}
		if cfg.MongoDatabase == "" {
			errs = append(errs, ValidationError{"MONGO_DATABASE", "is required for the mongo driver"})
		}
	case DriverPostgres:
		for _, required := range []struct{ field, value string }{
			{"DB_HOST", cfg.DBHost},
			{"DB_PORT", cfg.DBPort},
			{"DB_USER", cfg.DBUser},
			{"DB_NAME", cfg.DBName},
		} {
			if required.value == "" {
				errs = append(errs, ValidationError{required.field, "is required for the postgres driver"})
			}
		}
		// Sensitive values must come from the environment in CI and from secrets elsewhere
		if cfg.DBPassword == "" {
			if GetEnvironment() == CI {
				errs = append(errs, ValidationError{"DB_PASSWORD", "environment variable is required in CI environment"})
			} else {
				errs = append(errs, ValidationError{"db_password", "secret is required for the postgres driver"})
			}
		}
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			errs = append(errs, ValidationError{"SQLITE_PATH", "is required for the sqlite driver"})
		}
	default:
		errs = append(errs, ValidationError{"STORAGE_DRIVER", fmt.Sprintf("unknown driver %q", cfg.StorageDriver)})
	}

	if cfg.RedisEnabled() {
		if cfg.RateLimitRequests < 1 {
			errs = append(errs, ValidationError{"RATE_LIMIT_REQUESTS", "must be at least 1"})
		}
		if cfg.RateLimitWindow <= 0 {
			errs = append(errs, ValidationError{"RATE_LIMIT_WINDOW", "must be positive"})
		}
	}

	for _, proxy := range cfg.TrustedProxies {
		if !validProxy(proxy) {
			errs = append(errs, ValidationError{"TRUSTED_PROXIES", fmt.Sprintf("%q is not an IP address or CIDR", proxy)})
		}
	}

	if strings.TrimSpace(cfg.DefaultCommentAuthor) == "" {
		errs = append(errs, ValidationError{"DEFAULT_COMMENT_AUTHOR", "must not be blank"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// HasField reports whether err is a validation failure for field.
func HasField(err error, field string) bool {
	var errs ValidationErrors
	if !errors.As(err, &errs) {
		return false
	}
	for _, e := range errs {
		if e.Field == field {
			return true
		}
	}
	return false
}

func validProxy(proxy string) bool {
	if strings.Contains(proxy, "/") {
		_, _, err := net.ParseCIDR(proxy)
		return err == nil
	}
	return net.ParseIP(proxy) != nil
}
