package config

import (
	"fmt"
	"strconv"
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

// ValidationErrors collects every problem found in one pass.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	msgs := make([]string, len(errs))
	for i, e := range errs {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

// requiredSecrets lists the sensitive values each environment must provide,
// either as a Docker secret or as an environment variable.
var requiredSecrets = map[Environment][]string{
	Development: {},
	Test:        {},
	CI:          {"jwt_secret"},
	Production:  {"jwt_secret", "gemini_api_key"},
}

// ValidateConfig checks if the configuration meets the requirements for its environment
func ValidateConfig(cfg *Config) error {
	var errs ValidationErrors

	for _, name := range requiredSecrets[cfg.Environment] {
		if secretField(cfg, name) == "" {
			errs = append(errs, ValidationError{Field: name, Message: "required secret is not set"})
		}
	}

	if port, err := strconv.Atoi(cfg.ServerPort); err != nil || port < 1 || port > 65535 {
		errs = append(errs, ValidationError{Field: "SERVER_PORT", Message: fmt.Sprintf("invalid port %q", cfg.ServerPort)})
	}

	switch cfg.DBDriver {
	case "sqlite":
	case "postgres":
		if cfg.DBDSN == "" && (cfg.DBHost == "" || cfg.DBName == "") {
			errs = append(errs, ValidationError{Field: "DB_HOST", Message: "postgres requires DB_DSN or DB_HOST and DB_NAME"})
		}
	default:
		errs = append(errs, ValidationError{Field: "DB_DRIVER", Message: fmt.Sprintf("unsupported driver %q", cfg.DBDriver)})
	}

	if cfg.LogFormat != "json" && cfg.LogFormat != "console" {
		errs = append(errs, ValidationError{Field: "LOG_FORMAT", Message: "must be json or console"})
	}

	if cfg.RecipeRateLimit < 0 {
		errs = append(errs, ValidationError{Field: "RECIPE_RATE_LIMIT", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func secretField(cfg *Config, name string) string {
	switch name {
	case "jwt_secret":
		return cfg.JWTSecret
	case "gemini_api_key":
		return cfg.GeminiAPIKey
	case "db_password":
		return cfg.DBPassword
	case "redis_password":
		return cfg.RedisPassword
	default:
		return ""
	}
}
