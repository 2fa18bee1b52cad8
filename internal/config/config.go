// Package config provides Viper-based hierarchical configuration for the bot:
// defaults, then an optional config file, then environment variables.
package config

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Config is the complete application configuration.
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	Telegram struct {
		Token          string `mapstructure:"token" yaml:"-"` // never serialize the token
		PollTimeoutSec int    `mapstructure:"poll_timeout_seconds" yaml:"poll_timeout_seconds"`
	} `mapstructure:"telegram" yaml:"telegram"`

	AI struct {
		Enabled        bool    `mapstructure:"enabled" yaml:"enabled"`
		Model          string  `mapstructure:"model" yaml:"model"`
		APIKey         string  `mapstructure:"api_key" yaml:"-"` // never serialize the API key
		TimeoutSeconds int     `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
		Temperature    float64 `mapstructure:"temperature" yaml:"temperature"`
		MaxTokens      int     `mapstructure:"max_tokens" yaml:"max_tokens"`
	} `mapstructure:"ai" yaml:"ai"`

	Data struct {
		DatabaseFile string `mapstructure:"database_file" yaml:"database_file"`
		LearnedFile  string `mapstructure:"learned_file" yaml:"learned_file"`
	} `mapstructure:"data" yaml:"data"`

	Web struct {
		Enabled      bool   `mapstructure:"enabled" yaml:"enabled"`
		ListenAddr   string `mapstructure:"listen_addr" yaml:"listen_addr"`
		DashboardURL string `mapstructure:"dashboard_url" yaml:"dashboard_url"`
	} `mapstructure:"web" yaml:"web"`

	Recurring struct {
		SweepIntervalMinutes int `mapstructure:"sweep_interval_minutes" yaml:"sweep_interval_minutes"`
	} `mapstructure:"recurring" yaml:"recurring"`
}

var loadEnvOnce sync.Once

// LoadEnv loads a .env file from the working directory if one exists.
// Missing files are fine; variables already in the environment win.
func LoadEnv() {
	loadEnvOnce.Do(func() {
		if _, err := os.Stat(".env"); err != nil {
			return
		}
		_ = godotenv.Load(".env")
	})
}

// Initialize builds the configuration with hierarchical loading:
// defaults, config file (optional), then HORNERITO_* environment variables.
func Initialize() (*Config, error) {
	LoadEnv()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.hornerito")
	v.AddConfigPath(".hornerito")
	v.AddConfigPath(".")

	v.SetEnvPrefix("HORNERITO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	// Secrets come from the conventional unprefixed variables.
	if err := v.BindEnv("telegram.token", "TELEGRAM_BOT_TOKEN"); err != nil {
		fmt.Printf("Warning: failed to bind TELEGRAM_BOT_TOKEN: %v\n", err)
	}
	if err := v.BindEnv("ai.api_key", "GEMINI_API_KEY"); err != nil {
		fmt.Printf("Warning: failed to bind GEMINI_API_KEY: %v\n", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("telegram.poll_timeout_seconds", 10)

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.timeout_seconds", 15)
	v.SetDefault("ai.temperature", 0.3)
	v.SetDefault("ai.max_tokens", 32)

	v.SetDefault("data.database_file", "data/hornerito.db")
	v.SetDefault("data.learned_file", "data/learned.yaml")

	v.SetDefault("web.enabled", true)
	v.SetDefault("web.listen_addr", ":3000")
	v.SetDefault("web.dashboard_url", "")

	v.SetDefault("recurring.sweep_interval_minutes", 60)
}

func validate(cfg *Config) error {
	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" && cfg.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", cfg.Log.Format)
	}
	if cfg.AI.Enabled {
		if cfg.AI.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
		}
		if cfg.AI.TimeoutSeconds < 1 || cfg.AI.TimeoutSeconds > 300 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", cfg.AI.TimeoutSeconds)
		}
		if cfg.AI.Temperature < 0 || cfg.AI.Temperature > 1 {
			return fmt.Errorf("ai.temperature must be between 0 and 1, got: %f", cfg.AI.Temperature)
		}
	}
	if cfg.Telegram.PollTimeoutSec < 1 {
		return fmt.Errorf("telegram.poll_timeout_seconds must be positive, got: %d", cfg.Telegram.PollTimeoutSec)
	}
	return nil
}
