// Package config loads daemon configuration from file, environment,
// and defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all daemon configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Search    SearchConfig    `mapstructure:"search"`
	Limits    LimitsConfig    `mapstructure:"limits"`
	Matching  MatchingConfig  `mapstructure:"matching"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds the local HTTP API configuration
type ServerConfig struct {
	Listen string `mapstructure:"listen"` // host:port the API binds to
}

// SearchConfig holds the remote title search configuration
type SearchConfig struct {
	BaseURL string `mapstructure:"base_url"` // empty = public endpoint
}

// LimitsConfig bounds outbound traffic to the search API
type LimitsConfig struct {
	MaxConcurrent  int `mapstructure:"max_concurrent"`   // in-flight requests
	RequestDelayMS int `mapstructure:"request_delay_ms"` // spacing between starts
	WindowCap      int `mapstructure:"window_cap"`       // starts per trailing second
}

// MatchingConfig tunes match acceptance
type MatchingConfig struct {
	MinScore float64 `mapstructure:"min_score"` // confidence threshold in [0,1]
}

// CacheConfig holds rating cache configuration
type CacheConfig struct {
	Dir        string `mapstructure:"dir"`          // empty = memory-only
	MaxAgeDays int    `mapstructure:"max_age_days"` // entry TTL
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Listen: "127.0.0.1:8731",
		},
		Search: SearchConfig{
			BaseURL: "",
		},
		Limits: LimitsConfig{
			MaxConcurrent:  5,
			RequestDelayMS: 110,
			WindowCap:      9,
		},
		Matching: MatchingConfig{
			MinScore: 0.7,
		},
		Cache: CacheConfig{
			Dir:        defaultCachePath(),
			MaxAgeDays: 30,
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
		return filepath.Join(os.Getenv("APPDATA"), "ratebadge", "ratebadge.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "ratebadge", "ratebadge.log")
	}
}

// defaultCachePath returns the default cache directory for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "ratebadge", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "ratebadge", "cache")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "ratebadge")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "ratebadge")
	}
}

// LoadConfig loads configuration from file and environment. A missing
// config file is not an error; defaults apply.
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(defaultConfigPath())
	v.AddConfigPath(".")

	v.SetEnvPrefix("RATEBADGE")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}
