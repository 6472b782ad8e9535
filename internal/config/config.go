// Package config reads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Port            int
	FrontendDir     string
	AllowedOrigins  []string
	ShutdownTimeout time.Duration
	DB              DBConfig
	Log             LogConfig
}

type DBConfig struct {
	Driver string
	// Path is the JSON file for the file driver and the database file for sqlite.
	Path string
	URL  string
}

type LogConfig struct {
	Level  string
	Format string
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Load builds a Config from environment variables, falling back to defaults.
// Call godotenv.Load first if a .env file should be honoured.
func Load() (Config, error) {
	cfg := Config{
		Port:            8080,
		FrontendDir:     "frontend/dist",
		AllowedOrigins:  []string{"http://localhost:5173"},
		ShutdownTimeout: 5 * time.Second,
		DB: DBConfig{
			Driver: DriverFile,
			Path:   "db.json",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil || port <= 0 || port > 65535 {
			return Config{}, fmt.Errorf("invalid PORT %q", portStr)
		}
		cfg.Port = port
	}
	if dir := os.Getenv("FRONTEND_DIR"); dir != "" {
		cfg.FrontendDir = dir
	}
	if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
		cfg.AllowedOrigins = splitList(origins)
	}
	if timeout := os.Getenv("SHUTDOWN_TIMEOUT"); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
		}
		cfg.ShutdownTimeout = d
	}

	if driver := os.Getenv("DB_DRIVER"); driver != "" {
		cfg.DB.Driver = strings.ToLower(driver)
	}
	if path := os.Getenv("DB_PATH"); path != "" {
		cfg.DB.Path = path
	}
	cfg.DB.URL = os.Getenv("DATABASE_URL")

	switch cfg.DB.Driver {
	case DriverFile, DriverSQLite:
	case DriverPostgres:
		if cfg.DB.URL == "" {
			return Config{}, fmt.Errorf("DB_DRIVER=postgres requires DATABASE_URL")
		}
	default:
		return Config{}, fmt.Errorf("invalid DB_DRIVER %q", cfg.DB.Driver)
	}

	if level := os.Getenv("LOG_LEVEL"); level != "" {
		cfg.Log.Level = strings.ToLower(level)
	}
	if format := os.Getenv("LOG_FORMAT"); format != "" {
		cfg.Log.Format = strings.ToLower(format)
	}

	return cfg, nil
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
