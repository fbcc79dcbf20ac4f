// Package config contains everything related to configuration
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"

	"github.com/j-veylop/token-usage-tui/internal/models"
)

// Config holds the application configuration.
type Config struct {
	// APIBaseURL is the resolved backend origin; requests go to APIBaseURL + "/api".
	APIBaseURL string
	// Environment is "production" or "development".
	Environment string
	// ClientURLBase is the origin used when printing client dashboard links.
	ClientURLBase string

	Locale        string
	Currency      string
	DefaultPeriod models.Period

	RequestTimeout time.Duration

	DatabasePath      string
	SnapshotRetention time.Duration

	LogFile  string
	LogLevel string

	CycleReminderDays    int
	NotificationsEnabled bool

	// EnvFile is the .env file the values were read from, empty when none was found.
	EnvFile string
}

// Default values
const (
	defaultDevAPIBaseURL     = "http://localhost:5000"
	defaultDevClientURLBase  = "http://localhost:3000"
	defaultLocale            = "pt-BR"
	defaultCurrency          = "BRL"
	defaultPeriod            = models.Period7Days
	defaultRequestTimeout    = 15 * time.Second
	defaultSnapshotRetention = 30 * 24 * time.Hour
	defaultCycleReminderDays = 3
	defaultLogLevel          = "info"

	// EnvProduction selects the deployment origin as the API base URL.
	EnvProduction = "production"
	// EnvDevelopment selects the local development backend.
	EnvDevelopment = "development"
)

// Load reads configuration from .env files and environment variables.
func Load() (*Config, error) {
	envFile := ""
	for _, path := range getEnvPaths() {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			envFile = path
			break
		}
	}

	cfg := fromEnv()
	cfg.EnvFile = envFile

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Ensure database directory exists
	if err := ensureDir(filepath.Dir(cfg.DatabasePath)); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Reload re-reads the given .env file, letting its values override the process
// environment, and returns the resulting configuration.
func Reload(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Overload(envFile); err != nil {
			return nil, fmt.Errorf("failed to reload %s: %w", envFile, err)
		}
	}

	cfg := fromEnv()
	cfg.EnvFile = envFile

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func fromEnv() *Config {
	env := strings.ToLower(getEnvString("APP_ENV", EnvDevelopment))

	return &Config{
		APIBaseURL:           resolveBaseURL(env),
		Environment:          env,
		ClientURLBase:        resolveClientURLBase(env),
		Locale:               getEnvString("LOCALE", defaultLocale),
		Currency:             strings.ToUpper(getEnvString("CURRENCY", defaultCurrency)),
		DefaultPeriod:        models.Period(getEnvInt("DEFAULT_PERIOD", int(defaultPeriod))),
		RequestTimeout:       getEnvDuration("REQUEST_TIMEOUT", defaultRequestTimeout),
		DatabasePath:         getEnvString("DATABASE_PATH", getDefaultDatabasePath()),
		SnapshotRetention:    getEnvDuration("SNAPSHOT_RETENTION", defaultSnapshotRetention),
		LogFile:              getEnvString("LOG_FILE", ""),
		LogLevel:             getEnvString("LOG_LEVEL", defaultLogLevel),
		CycleReminderDays:    getEnvInt("CYCLE_REMINDER_DAYS", defaultCycleReminderDays),
		NotificationsEnabled: getEnvBool("NOTIFICATIONS_ENABLED", true),
	}
}

// resolveBaseURL picks the backend origin. An explicit API_BASE_URL always wins;
// production falls back to the deployment origin, development to the local backend.
func resolveBaseURL(env string) string {
	if explicit := getEnvString("API_BASE_URL", ""); explicit != "" {
		return strings.TrimRight(explicit, "/")
	}
	if env == EnvProduction {
		return strings.TrimRight(getEnvString("APP_ORIGIN", ""), "/")
	}
	return strings.TrimRight(getEnvString("DEV_API_BASE_URL", defaultDevAPIBaseURL), "/")
}

func resolveClientURLBase(env string) string {
	if explicit := getEnvString("CLIENT_URL_BASE", ""); explicit != "" {
		return strings.TrimRight(explicit, "/")
	}
	if env == EnvProduction {
		return strings.TrimRight(getEnvString("APP_ORIGIN", ""), "/")
	}
	return defaultDevClientURLBase
}

// Validate checks that the configuration is usable.
func (c *Config) Validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("no API base URL: set API_BASE_URL, or APP_ORIGIN when APP_ENV=%s", EnvProduction)
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid API base URL %q", c.APIBaseURL)
	}

	if _, err := language.Parse(c.Locale); err != nil {
		return fmt.Errorf("invalid LOCALE %q: %w", c.Locale, err)
	}
	if _, err := currency.ParseISO(c.Currency); err != nil {
		return fmt.Errorf("invalid CURRENCY %q: %w", c.Currency, err)
	}
	if err := c.DefaultPeriod.Validate(); err != nil {
		return fmt.Errorf("invalid DEFAULT_PERIOD: %w", err)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive, got %s", c.RequestTimeout)
	}
	if c.CycleReminderDays < 0 {
		return fmt.Errorf("CYCLE_REMINDER_DAYS must not be negative, got %d", c.CycleReminderDays)
	}
	return nil
}

// ClientURL returns the dashboard link for a client.
func (c *Config) ClientURL(clientID string) string {
	return c.ClientURLBase + "/client/" + url.PathEscape(clientID)
}

// getEnvPaths returns a list of paths to check for .env files.
func getEnvPaths() []string {
	var paths []string

	// Current directory
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, filepath.Join(cwd, ".env"))
	}

	// Home directory locations
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths,
			filepath.Join(home, ".config", "token-usage-tui", ".env"),
			filepath.Join(home, ".token-usage", ".env"),
		)
	}

	// Parent directories (useful for development)
	if cwd, err := os.Getwd(); err == nil {
		parent := filepath.Dir(cwd)
		paths = append(paths, filepath.Join(parent, ".env"))
		grandparent := filepath.Dir(parent)
		paths = append(paths, filepath.Join(grandparent, ".env"))
	}

	return paths
}

// getDefaultDatabasePath returns the default path for the SQLite database.
func getDefaultDatabasePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "snapshots.db"
	}
	return filepath.Join(home, ".config", "token-usage-tui", "snapshots.db")
}

// getEnvString retrieves a string environment variable or returns the default.
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvDuration retrieves a duration environment variable or returns the default.
// Accepts values like "30s", "1m", "500ms".
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		// Try parsing as seconds if no unit specified
		if secs, err := strconv.Atoi(value); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return defaultValue
}

// getEnvInt retrieves an integer environment variable or returns the default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(value)); err == nil {
			return n
		}
	}
	return defaultValue
}

// getEnvBool retrieves a boolean environment variable or returns the default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(value)); err == nil {
			return b
		}
	}
	return defaultValue
}

// ensureDir creates a directory and all parent directories if they don't exist.
func ensureDir(path string) error {
	if path == "" || path == "." {
		return nil
	}
	return os.MkdirAll(path, 0o750)
}
