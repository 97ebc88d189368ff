package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Environment Environment

	// Server configuration
	ServerHost     string
	ServerPort     string
	FrontendDir    string
	AllowedOrigins []string

	// Database configuration
	DBDriver   string
	DBDSN      string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Redis configuration. An empty RedisURL and RedisHost disables redis.
	RedisURL      string
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int

	// Recipe model
	GeminiAPIKey string
	GeminiModel  string
	GeminiAPIURL string

	JWTSecret string

	LogLevel  string
	LogFormat string

	// RecipeRateLimit is the number of recipe generations allowed per
	// caller per minute; 0 disables limiting.
	RecipeRateLimit int
}

// DatabaseDSN returns the connection string for the configured driver.
func (c *Config) DatabaseDSN() string {
	if c.DBDSN != "" {
		return c.DBDSN
	}
	if c.DBDriver == "sqlite" {
		return "recipeswipe.db"
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode,
	)
}

// RedisEnabled reports whether a redis server was configured.
func (c *Config) RedisEnabled() bool {
	return c.RedisURL != "" || c.RedisHost != ""
}

// LoadConfig creates a new Config instance with values from environment
// variables, an optional config file and Docker secrets.
func LoadConfig() (*Config, error) {
	env := GetEnvironment()
	v := newViper()

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	cfg := &Config{
		Environment:     env,
		ServerHost:      v.GetString("server_host"),
		ServerPort:      v.GetString("server_port"),
		FrontendDir:     v.GetString("frontend_dir"),
		AllowedOrigins:  splitList(v.GetString("allowed_origins")),
		DBDriver:        strings.ToLower(v.GetString("db_driver")),
		DBDSN:           v.GetString("db_dsn"),
		DBHost:          v.GetString("db_host"),
		DBPort:          v.GetString("db_port"),
		DBUser:          v.GetString("db_user"),
		DBName:          v.GetString("db_name"),
		DBSSLMode:       v.GetString("db_ssl_mode"),
		RedisURL:        v.GetString("redis_url"),
		RedisHost:       v.GetString("redis_host"),
		RedisPort:       v.GetString("redis_port"),
		RedisDB:         v.GetInt("redis_db"),
		GeminiModel:     v.GetString("gemini_model"),
		GeminiAPIURL:    v.GetString("gemini_api_url"),
		LogLevel:        v.GetString("log_level"),
		LogFormat:       v.GetString("log_format"),
		RecipeRateLimit: v.GetInt("recipe_rate_limit"),
	}

	// In CI secrets only come from the environment; everywhere else a
	// Docker secret takes precedence over the variable.
	cfg.DBPassword = secretValue(v, env, "db_password")
	cfg.RedisPassword = secretValue(v, env, "redis_password")
	cfg.GeminiAPIKey = secretValue(v, env, "gemini_api_key")
	cfg.JWTSecret = secretValue(v, env, "jwt_secret")

	if cfg.JWTSecret == "" && (env == Development || env == Test) {
		cfg.JWTSecret = "development-only-secret"
	}

	// Validate the configuration
	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault("server_host", "0.0.0.0")
	v.SetDefault("server_port", "5000")
	v.SetDefault("frontend_dir", "")
	v.SetDefault("allowed_origins", "*")

	v.SetDefault("db_driver", "sqlite")
	v.SetDefault("db_dsn", "")
	v.SetDefault("db_host", "localhost")
	v.SetDefault("db_port", "5432")
	v.SetDefault("db_user", "postgres")
	v.SetDefault("db_password", "")
	v.SetDefault("db_name", "recipeswipe")
	v.SetDefault("db_ssl_mode", "disable")

	v.SetDefault("redis_url", "")
	v.SetDefault("redis_host", "")
	v.SetDefault("redis_port", "6379")
	v.SetDefault("redis_password", "")
	v.SetDefault("redis_db", 0)

	v.SetDefault("gemini_api_key", "")
	v.SetDefault("gemini_model", "gemini-1.5-flash-latest")
	v.SetDefault("gemini_api_url", "https://generativelanguage.googleapis.com")

	v.SetDefault("jwt_secret", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("recipe_rate_limit", 10)

	v.AutomaticEnv()
	return v
}

// readConfigFile loads CONFIG_FILE, or config.yaml from the working
// directory or ./config when present.
func readConfigFile(v *viper.Viper) error {
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

func secretValue(v *viper.Viper, env Environment, name string) string {
	if env != CI {
		if s := readSecret(name); s != "" {
			return s
		}
	}
	return v.GetString(name)
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
