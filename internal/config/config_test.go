package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	path := writeConfig(t, `
database:
  url: postgres://localhost/test
telegram:
  bot_token: "123:abc"
auth:
  jwt_secret: secret
`)
	t.Setenv("CONFIG_PATH", path)

	cfg := LoadConfig()
	if cfg.Server.Port != 8080 {
		t.Errorf("port = %d, want 8080", cfg.Server.Port)
	}
	if cfg.CodeTTL() != 10*time.Minute {
		t.Errorf("code ttl = %s, want 10m", cfg.CodeTTL())
	}
	if cfg.Login.CodeBytes != 4 {
		t.Errorf("code bytes = %d, want 4", cfg.Login.CodeBytes)
	}
	if cfg.Login.MaxAttempts != 5 {
		t.Errorf("max attempts = %d, want 5", cfg.Login.MaxAttempts)
	}
	if cfg.TokenTTL() != 15*time.Minute {
		t.Errorf("token ttl = %s, want 15m", cfg.TokenTTL())
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
database:
  url: postgres://localhost/test
telegram:
  bot_token: "123:abc"
  poll_timeout: 10
auth:
  jwt_secret: secret
login:
  code_ttl_minutes: 5
  code_bytes: 8
  max_attempts: 3
`)
	t.Setenv("CONFIG_PATH", path)

	cfg := LoadConfig()
	if cfg.Server.Port != 9000 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.CodeTTL() != 5*time.Minute {
		t.Errorf("code ttl = %s", cfg.CodeTTL())
	}
	if cfg.Login.CodeBytes != 8 || cfg.Login.MaxAttempts != 3 {
		t.Errorf("login = %+v", cfg.Login)
	}
	if cfg.Telegram.PollTimeout != 10 {
		t.Errorf("poll timeout = %d", cfg.Telegram.PollTimeout)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := &Config{}
		cfg.Database.DSN = "postgres://localhost/test"
		cfg.Telegram.BotToken = "123:abc"
		cfg.Auth.JWTSecret = "secret"
		applyDefaults(cfg)
		return cfg
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"без DSN", func(c *Config) { c.Database.DSN = "" }},
		{"без токена бота", func(c *Config) { c.Telegram.BotToken = "" }},
		{"без jwt-секрета", func(c *Config) { c.Auth.JWTSecret = "" }},
		{"отрицательный ttl", func(c *Config) { c.Login.CodeTTLMinutes = -1 }},
		{"отрицательная длина", func(c *Config) { c.Login.CodeBytes = -1 }},
		{"отрицательный лимит попыток", func(c *Config) { c.Login.MaxAttempts = -1 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("invalid config accepted")
			}
		})
	}
}

func TestLoadConfig_MissingFilePanics(t *testing.T) {
	t.Setenv("CONFIG_PATH", "/nonexistent/config.yaml")
	defer func() {
		if recover() == nil {
			t.Error("expected panic for missing config file")
		}
	}()
	LoadConfig()
}
