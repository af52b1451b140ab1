package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type TelegramConfig struct {
	BotToken    string `yaml:"bot_token"`
	PollTimeout int    `yaml:"poll_timeout"`
}

type AuthConfig struct {
	JWTSecret       string `yaml:"jwt_secret"`
	TokenTTLMinutes int    `yaml:"token_ttl_minutes"`
}

// LoginConfig — параметры выдачи кодов. Читаются один раз на старте и
// дальше не меняются.
type LoginConfig struct {
	CodeTTLMinutes int `yaml:"code_ttl_minutes"`
	CodeBytes      int `yaml:"code_bytes"`
	MaxAttempts    int `yaml:"max_attempts"`
}

type CleanupConfig struct {
	Enabled         bool `yaml:"enabled"`
	RetentionHours  int  `yaml:"retention_hours"`
	IntervalMinutes int  `yaml:"interval_minutes"`
}

type Config struct {
	Server struct {
		Port int `yaml:"port"`
	} `yaml:"server"`
	Database struct {
		DSN string `yaml:"url"`
	} `yaml:"database"`
	Telegram TelegramConfig `yaml:"telegram"`
	Auth     AuthConfig     `yaml:"auth"`
	Login    LoginConfig    `yaml:"login"`
	Cleanup  CleanupConfig  `yaml:"cleanup"`
}

func LoadConfig() *Config {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "config/config.yaml"
	}

	f, err := os.Open(path)
	if err != nil {
		panic("Failed to open " + path + ": " + err.Error())
	}
	defer f.Close()

	var cfg Config
	if err := yaml.NewDecoder(f).Decode(&cfg); err != nil {
		panic("Failed to parse " + path + ": " + err.Error())
	}

	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		panic("Invalid config: " + err.Error())
	}
	return &cfg
}

func applyDefaults(cfg *Config) {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Telegram.PollTimeout == 0 {
		cfg.Telegram.PollTimeout = 30
	}
	if cfg.Auth.TokenTTLMinutes == 0 {
		cfg.Auth.TokenTTLMinutes = 15
	}
	if cfg.Login.CodeTTLMinutes == 0 {
		cfg.Login.CodeTTLMinutes = 10
	}
	if cfg.Login.CodeBytes == 0 {
		cfg.Login.CodeBytes = 4
	}
	if cfg.Login.MaxAttempts == 0 {
		cfg.Login.MaxAttempts = 5
	}
	if cfg.Cleanup.RetentionHours == 0 {
		cfg.Cleanup.RetentionHours = 24
	}
	if cfg.Cleanup.IntervalMinutes == 0 {
		cfg.Cleanup.IntervalMinutes = 60
	}
}

// Validate проверяет параметры, без которых процесс не должен стартовать.
func (cfg *Config) Validate() error {
	if cfg.Database.DSN == "" {
		return fmt.Errorf("database.url is required")
	}
	if cfg.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}
	if cfg.Login.CodeTTLMinutes <= 0 {
		return fmt.Errorf("login.code_ttl_minutes must be positive, got %d", cfg.Login.CodeTTLMinutes)
	}
	if cfg.Login.CodeBytes <= 0 {
		return fmt.Errorf("login.code_bytes must be positive, got %d", cfg.Login.CodeBytes)
	}
	if cfg.Login.MaxAttempts <= 0 {
		return fmt.Errorf("login.max_attempts must be positive, got %d", cfg.Login.MaxAttempts)
	}
	return nil
}

func (cfg *Config) CodeTTL() time.Duration {
	return time.Duration(cfg.Login.CodeTTLMinutes) * time.Minute
}

func (cfg *Config) TokenTTL() time.Duration {
	return time.Duration(cfg.Auth.TokenTTLMinutes) * time.Minute
}

func (cfg *Config) CleanupRetention() time.Duration {
	return time.Duration(cfg.Cleanup.RetentionHours) * time.Hour
}

func (cfg *Config) CleanupInterval() time.Duration {
	return time.Duration(cfg.Cleanup.IntervalMinutes) * time.Minute
}
