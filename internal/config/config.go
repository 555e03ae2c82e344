// Package config loads and saves budgetdash settings.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const appName = "budgetdash"

// Environment variables that override the config file.
const (
	EnvBaseURL       = "BUDGETDASH_API_URL"
	EnvLegacyBaseURL = "REACT_APP_URL"
	EnvUserID        = "BUDGETDASH_USER_ID"
	EnvEmail         = "BUDGETDASH_EMAIL"
	EnvReporting     = "BUDGETDASH_REPORTING"
	EnvConfigPath    = "BUDGETDASH_CONFIG"
)

// Reporting policy names.
const (
	ReportingOptimistic = "optimistic"
	ReportingStrict     = "strict"
)

var (
	// ErrMissingBaseURL means no API base URL is configured anywhere.
	ErrMissingBaseURL = errors.New("no API base URL configured (set api.base_url or " + EnvBaseURL + ")")
	// ErrMissingUserID means no user id is configured anywhere.
	ErrMissingUserID = errors.New("no user id configured (set user.id or " + EnvUserID + ")")
)

// Config holds all budgetdash configuration.
type Config struct {
	API        APIConfig        `toml:"api"`
	User       UserConfig       `toml:"user"`
	Display    DisplayConfig    `toml:"display"`
	Appearance AppearanceConfig `toml:"appearance"`
	Reporting  ReportingConfig  `toml:"reporting"`
	Log        LogConfig        `toml:"log"`
}

// APIConfig holds the remote budget API settings.
type APIConfig struct {
	BaseURL        string `toml:"base_url,omitempty"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// UserConfig identifies the acting user and where notifications go.
type UserConfig struct {
	ID    string `toml:"id,omitempty"`
	Email string `toml:"email,omitempty"`
}

// DisplayConfig holds formatting preferences.
type DisplayConfig struct {
	CurrencySymbol string `toml:"currency_symbol"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ReportingConfig selects how write failures are reported to the user.
type ReportingConfig struct {
	Policy string `toml:"policy"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string `toml:"level"`
	File  string `toml:"file,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		API: APIConfig{
			TimeoutSeconds: 10,
		},
		Display: DisplayConfig{
			CurrencySymbol: "₹",
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Reporting: ReportingConfig{
			Policy: ReportingOptimistic,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

var pathOverride string

// SetPath points Load/Save at an explicit file. An empty path restores the default.
func SetPath(path string) {
	pathOverride = path
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

// Path returns the full path to the config file.
func Path() string {
	if pathOverride != "" {
		return pathOverride
	}
	if p := os.Getenv(EnvConfigPath); p != "" {
		return p
	}
	return filepath.Join(Dir(), "config.toml")
}

// CacheDir returns the XDG-compliant directory for the journal and logs.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", appName)
}

// JournalPath returns the write-attempt journal database path.
func JournalPath() string {
	return filepath.Join(CacheDir(), "journal.db")
}

// LogPath returns the log file path, honoring log.file.
func LogPath(cfg Config) string {
	if cfg.Log.File != "" {
		return cfg.Log.File
	}
	return filepath.Join(CacheDir(), appName+".log")
}

// Load reads the config file, returning defaults if it doesn't exist.
func Load() (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(Path())
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading config: %w", err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the config to disk.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	return enc.Encode(cfg)
}

// Exists returns true if a config file exists on disk.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}

// LoadDotEnv loads KEY=value pairs from the given files into the process
// environment without overriding variables that are already set. Missing
// files are skipped.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return fmt.Errorf("loading %s: %w", f, err)
		}
	}
	return nil
}

// GetBaseURL returns the API base URL from env vars or config, in that order.
func GetBaseURL(cfg Config) string {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		return v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLegacyBaseURL)); v != "" {
		return v
	}
	return strings.TrimSpace(cfg.API.BaseURL)
}

// GetUserID returns the user id from env var or config, in that order.
func GetUserID(cfg Config) string {
	if v := strings.TrimSpace(os.Getenv(EnvUserID)); v != "" {
		return v
	}
	return strings.TrimSpace(cfg.User.ID)
}

// GetEmail returns the notification address from env var or config, in that order.
func GetEmail(cfg Config) string {
	if v := strings.TrimSpace(os.Getenv(EnvEmail)); v != "" {
		return v
	}
	return strings.TrimSpace(cfg.User.Email)
}

// GetReportingPolicy returns the reporting policy name, defaulting to optimistic.
func GetReportingPolicy(cfg Config) string {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(EnvReporting)))
	if v == "" {
		v = strings.ToLower(strings.TrimSpace(cfg.Reporting.Policy))
	}
	if v == ReportingStrict {
		return ReportingStrict
	}
	return ReportingOptimistic
}

// Validate checks that everything needed to reach the API is present.
func Validate(cfg Config) error {
	if GetBaseURL(cfg) == "" {
		return ErrMissingBaseURL
	}
	if GetUserID(cfg) == "" {
		return ErrMissingUserID
	}
	return nil
}
