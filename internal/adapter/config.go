package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/mmcdole/pixfind/internal/domain"
	"github.com/mmcdole/pixfind/internal/search"
	"github.com/spf13/viper"
)

// envKeyReplacer maps nested keys to env names: search.mode -> PIXFIND_SEARCH_MODE
var envKeyReplacer = strings.NewReplacer(".", "_")

// Config holds all application configuration
type Config struct {
	Source     SourceConfig     `mapstructure:"source"`
	Cache      CacheConfig      `mapstructure:"cache"`
	Search     SearchConfig     `mapstructure:"search"`
	Thumbnails ThumbnailsConfig `mapstructure:"thumbnails"`
	Opener     OpenerConfig     `mapstructure:"opener"`
	Logging    LoggingConfig    `mapstructure:"logging"`
}

// SourceConfig describes where the picture list and images come from
type SourceConfig struct {
	API              string        `mapstructure:"api"`                // "v1" (/list) or "v2" (/v2/list, paged)
	ListURL          string        `mapstructure:"list_url"`           // Picture list endpoint
	ImageURLTemplate string        `mapstructure:"image_url_template"` // {id} is replaced by the picture id
	Timeout          time.Duration `mapstructure:"timeout"`
}

// CacheConfig holds the picture list cache settings
type CacheConfig struct {
	Dir string        `mapstructure:"dir"` // Empty for memory-only
	TTL time.Duration `mapstructure:"ttl"` // How long a downloaded list is reused
}

// SearchConfig holds search behavior
type SearchConfig struct {
	Mode       string `mapstructure:"mode"` // "substring" or "fuzzy"
	MaxResults int    `mapstructure:"max_results"`
}

// ThumbnailsConfig holds thumbnail rendering settings
type ThumbnailsConfig struct {
	Width     int    `mapstructure:"width"`  // Terminal cells
	Height    int    `mapstructure:"height"` // Terminal rows (two pixels per row)
	Scaler    string `mapstructure:"scaler"` // nearest, bilinear, catmullrom, lanczos
	CacheSize int    `mapstructure:"cache_size"`
}

// OpenerConfig holds the command used to open a picture
type OpenerConfig struct {
	Command string   `mapstructure:"command"` // Empty for the system browser
	Args    []string `mapstructure:"args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			API:              "v1",
			ListURL:          "https://picsum.photos/list",
			ImageURLTemplate: domain.DefaultImageURLTemplate,
			Timeout:          30 * time.Second,
		},
		Cache: CacheConfig{
			Dir: defaultCachePath(),
			TTL: 12 * time.Hour,
		},
		Search: SearchConfig{
			Mode:       search.ModeSubstring,
			MaxResults: 10,
		},
		Thumbnails: ThumbnailsConfig{
			Width:     16,
			Height:    8,
			Scaler:    "bilinear",
			CacheSize: 256,
		},
		Opener: OpenerConfig{
			Args: []string{},
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "pixfind", "pixfind.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "pixfind", "pixfind.log")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "pixfind")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "pixfind")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "pixfind", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "pixfind", "cache")
	}
}

// LoadConfig loads configuration from the default locations and environment
func LoadConfig() (*Config, error) {
	return loadConfig(viper.New(), defaultConfigPath(), ".")
}

// LoadConfigFrom loads configuration from an explicit file
func LoadConfigFrom(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return loadConfig(v)
}

func loadConfig(v *viper.Viper, searchPaths ...string) (*Config, error) {
	cfg := DefaultConfig()

	if len(searchPaths) > 0 {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		for _, p := range searchPaths {
			v.AddConfigPath(p)
		}
	}

	// Environment variable overrides, e.g. PIXFIND_SEARCH_MODE
	v.SetEnvPrefix("PIXFIND")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()
	bindDefaults(v, cfg)

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// bindDefaults registers every key so AutomaticEnv can override it
func bindDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("source.api", cfg.Source.API)
	v.SetDefault("source.list_url", cfg.Source.ListURL)
	v.SetDefault("source.image_url_template", cfg.Source.ImageURLTemplate)
	v.SetDefault("source.timeout", cfg.Source.Timeout)

	v.SetDefault("cache.dir", cfg.Cache.Dir)
	v.SetDefault("cache.ttl", cfg.Cache.TTL)

	v.SetDefault("search.mode", cfg.Search.Mode)
	v.SetDefault("search.max_results", cfg.Search.MaxResults)

	v.SetDefault("thumbnails.width", cfg.Thumbnails.Width)
	v.SetDefault("thumbnails.height", cfg.Thumbnails.Height)
	v.SetDefault("thumbnails.scaler", cfg.Thumbnails.Scaler)
	v.SetDefault("thumbnails.cache_size", cfg.Thumbnails.CacheSize)

	v.SetDefault("opener.command", cfg.Opener.Command)
	v.SetDefault("opener.args", cfg.Opener.Args)

	v.SetDefault("logging.file", cfg.Logging.File)
	v.SetDefault("logging.level", cfg.Logging.Level)
}

// Validate checks values that would otherwise fail later in confusing ways
func (c *Config) Validate() error {
	switch c.Search.Mode {
	case search.ModeSubstring, search.ModeFuzzy:
	default:
		return fmt.Errorf("invalid search.mode %q (want %q or %q)", c.Search.Mode, search.ModeSubstring, search.ModeFuzzy)
	}
	if c.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be positive, got %d", c.Search.MaxResults)
	}
	if c.Thumbnails.Width <= 0 || c.Thumbnails.Height <= 0 {
		return fmt.Errorf("thumbnails.width and thumbnails.height must be positive")
	}
	if c.Thumbnails.CacheSize <= 0 {
		return fmt.Errorf("thumbnails.cache_size must be positive, got %d", c.Thumbnails.CacheSize)
	}
	return nil
}

// SaveConfig writes the configuration to the default config file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()

	// Ensure config directory exists
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	return saveConfigAs(cfg, filepath.Join(configPath, "config.yaml"))
}

func saveConfigAs(cfg *Config, configFile string) error {
	v := viper.New()

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("source.api", cfg.Source.API)
	v.Set("source.list_url", cfg.Source.ListURL)
	v.Set("source.image_url_template", cfg.Source.ImageURLTemplate)
	v.Set("source.timeout", cfg.Source.Timeout.String())

	v.Set("cache.dir", cfg.Cache.Dir)
	v.Set("cache.ttl", cfg.Cache.TTL.String())

	v.Set("search.mode", cfg.Search.Mode)
	v.Set("search.max_results", cfg.Search.MaxResults)

	v.Set("thumbnails.width", cfg.Thumbnails.Width)
	v.Set("thumbnails.height", cfg.Thumbnails.Height)
	v.Set("thumbnails.scaler", cfg.Thumbnails.Scaler)
	v.Set("thumbnails.cache_size", cfg.Thumbnails.CacheSize)

	v.Set("opener.command", cfg.Opener.Command)
	v.Set("opener.args", cfg.Opener.Args)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ClearCache removes all cached data
func ClearCache(cacheDir string) error {
	if cacheDir == "" {
		return nil
	}
	if err := os.RemoveAll(cacheDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
