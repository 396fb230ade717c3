package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	EnvLocal = "local"
	EnvDev   = "dev"
	EnvProd  = "prod"
)

// Config is read from the environment. A .env file in the working directory
// is loaded first when present; real environment variables win.
type Config struct {
	Env             string        `env:"APP_ENV" env-default:"local" env-description:"Environment: local, dev or prod"`
	Port            string        `env:"PORT" env-default:"8080" env-description:"HTTP listen port"`
	DBPath          string        `env:"DB_PATH" env-default:"expenses.db" env-description:"SQLite database file"`
	TemplateDir     string        `env:"TEMPLATE_DIR" env-default:"web/templates" env-description:"HTML template directory"`
	StaticDir       string        `env:"STATIC_DIR" env-default:"web/static" env-description:"Static asset directory"`
	SecureCookie    bool          `env:"SECURE_COOKIE" env-default:"false" env-description:"Mark the session cookie Secure"`
	LogLevel        string        `env:"LOG_LEVEL" env-default:"info" env-description:"debug, info, warn or error"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"10s" env-description:"Graceful shutdown deadline"`
}

// Load reads .env (if any) and the environment, then validates the result.
func Load(envFiles ...string) (*Config, error) {
	// A missing .env file is not an error.
	_ = godotenv.Load(envFiles...)

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("read env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// Validate returns an error listing every invalid setting.
func (c *Config) Validate() error {
	var errors []string

	switch c.Env {
	case EnvLocal, EnvDev, EnvProd:
	default:
		errors = append(errors, fmt.Sprintf("invalid environment '%s': must be one of local, dev, prod", c.Env))
	}

	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		errors = append(errors, "database path cannot be empty")
	}
	if c.TemplateDir == "" {
		errors = append(errors, "template directory cannot be empty")
	}

	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errors = append(errors, fmt.Sprintf("invalid log level '%s'", c.LogLevel))
	}

	if c.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("invalid shutdown timeout %v: must be positive", c.ShutdownTimeout))
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}
