package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	appName        = "shotctl"
	envPrefix      = "SHOTCTL"
	DefaultBaseURL = "https://api.allscreenshots.com"

	// EnvAPIKey and LegacyEnvAPIKey are checked, in order, before the config file.
	EnvAPIKey       = "SHOTCTL_API_KEY"
	LegacyEnvAPIKey = "ALLSCREENSHOTS_API_KEY"
)

type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Defaults DefaultsConfig `mapstructure:"defaults"`
	Display  DisplayConfig  `mapstructure:"display"`
	Poll     PollConfig     `mapstructure:"poll"`
	Batch    BatchConfig    `mapstructure:"batch"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Storage  StorageConfig  `mapstructure:"storage"`
	History  HistoryConfig  `mapstructure:"history"`
	Log      LogConfig      `mapstructure:"log"`
}

type APIConfig struct {
	Key     string        `mapstructure:"key"`
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Retries int           `mapstructure:"retries"`
}

type DefaultsConfig struct {
	Device    string `mapstructure:"device"`
	Format    string `mapstructure:"format"`
	OutputDir string `mapstructure:"output_dir"`
	Display   bool   `mapstructure:"display"`
}

// DisplayConfig bounds the terminal preview, in character cells.
type DisplayConfig struct {
	Width  int `mapstructure:"width"`
	Height int `mapstructure:"height"`
}

type PollConfig struct {
	Interval time.Duration `mapstructure:"interval"`
	Timeout  time.Duration `mapstructure:"timeout"` // 0 waits forever
}

type BatchConfig struct {
	PollInterval     time.Duration `mapstructure:"poll_interval"`
	Concurrency      int           `mapstructure:"concurrency"`
	TerminalStatuses []string      `mapstructure:"terminal_statuses"`
}

// WatchConfig keeps the interval as text so it is validated the same way as the flag.
type WatchConfig struct {
	Interval string `mapstructure:"interval"`
}

type StorageConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Type      string `mapstructure:"type"`
	Endpoint  string `mapstructure:"endpoint"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	UseSSL    bool   `mapstructure:"use_ssl"`
	Bucket    string `mapstructure:"bucket"`
	Region    string `mapstructure:"region"`
	PublicURL string `mapstructure:"public_url"`
	Prefix    string `mapstructure:"prefix"`
}

type HistoryConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Driver  string `mapstructure:"driver"`
	Path    string `mapstructure:"path"`
	DSN     string `mapstructure:"dsn"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	File   string `mapstructure:"file"`
}

// defaults lists every known key. File.Set uses the value types to coerce
// user input, so each entry must carry the type of its field.
var defaults = map[string]interface{}{
	"api.key":                 "",
	"api.base_url":            DefaultBaseURL,
	"api.timeout":             60 * time.Second,
	"api.retries":             2,
	"defaults.device":         "Desktop HD",
	"defaults.format":         "png",
	"defaults.output_dir":     "./screenshots",
	"defaults.display":        true,
	"display.width":           80,
	"display.height":          24,
	"poll.interval":           2 * time.Second,
	"poll.timeout":            time.Duration(0),
	"batch.poll_interval":     2 * time.Second,
	"batch.concurrency":       1,
	"batch.terminal_statuses": []string{"COMPLETED", "FAILED", "PARTIAL"},
	"watch.interval":          "5s",
	"storage.enabled":         false,
	"storage.type":            "", // detected from the endpoint
	"storage.endpoint":        "",
	"storage.access_key":      "",
	"storage.secret_key":      "",
	"storage.use_ssl":         true,
	"storage.bucket":          "",
	"storage.region":          "us-east-1",
	"storage.public_url":      "",
	"storage.prefix":          appName,
	"history.enabled":         false,
	"history.driver":          "sqlite",
	"history.path":            "",
	"history.dsn":             "",
	"log.level":               "warn",
	"log.format":              "text",
	"log.file":                "",
}

// Load resolves configuration from defaults, the config file and the
// environment, in increasing order of precedence.
// Parameters:
//   - configPath: explicit file path; empty uses DefaultPath.
// Returns:
//   - *Config: resolved configuration.
//   - error: non-nil when the file exists but cannot be read or decoded.
func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	if configPath == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		configPath = p
	}

	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	// Enable environment variable override
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for key, val := range defaults {
		v.SetDefault(key, val)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Bind environment variables explicitly for sensitive data
	_ = v.BindEnv("api.key", EnvAPIKey, LegacyEnvAPIKey)
	_ = v.BindEnv("api.base_url", "SHOTCTL_API_BASE_URL", "ALLSCREENSHOTS_API_URL")
	_ = v.BindEnv("storage.access_key", "SHOTCTL_STORAGE_ACCESS_KEY", "AWS_ACCESS_KEY_ID")
	_ = v.BindEnv("storage.secret_key", "SHOTCTL_STORAGE_SECRET_KEY", "AWS_SECRET_ACCESS_KEY")
	_ = v.BindEnv("storage.region", "SHOTCTL_STORAGE_REGION", "AWS_REGION")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.History.Path == "" {
		dir, err := configDir()
		if err == nil {
			cfg.History.Path = filepath.Join(dir, "history.db")
		}
	}
	if cfg.Batch.Concurrency < 1 {
		cfg.Batch.Concurrency = 1
	}

	return &cfg, nil
}

// WithAPIKey returns a copy whose key is replaced when explicit is non-empty.
// An explicit key outranks both the environment and the config file.
func (c Config) WithAPIKey(explicit string) Config {
	if explicit != "" {
		c.API.Key = explicit
	}
	return c
}

// APIKeyEnvSource returns the name of the environment variable currently
// supplying the API key, or "" when none is set.
func APIKeyEnvSource() string {
	for _, name := range []string{EnvAPIKey, LegacyEnvAPIKey} {
		if os.Getenv(name) != "" {
			return name
		}
	}
	return ""
}

// DefaultPath returns $XDG_CONFIG_HOME/shotctl/config.yaml or the platform equivalent.
func DefaultPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

func configDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine config directory: %w", err)
	}
	return filepath.Join(base, appName), nil
}

// MaskAPIKey hides the middle of a key for display. Keys of 12 characters
// or fewer are fully masked.
func MaskAPIKey(key string) string {
	if len(key) <= 12 {
		return strings.Repeat("*", len(key))
	}
	return key[:8] + "..." + key[len(key)-4:]
}
