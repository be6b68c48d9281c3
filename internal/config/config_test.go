package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const validYAML = `
port: "8080"
logLevel: info
databaseURL: postgres://localhost/studykart
jwtSecret: file-secret
minioEndpoint: localhost:9000
minioAccessKey: access
minioSecretKey: secret
minioBucket: studykart
redisAddr: localhost:6379
authRateLimit: 10
authRateWindow: 1m
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadValidConfig(t *testing.T) {
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "8080" || cfg.MinioBucket != "studykart" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("DATABASE_URL", "postgres://db:5432/override")
	cfg, err := Load(writeConfig(t, validYAML))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWTSecret != "env-secret" {
		t.Fatalf("expected env secret, got %q", cfg.JWTSecret)
	}
	if cfg.DatabaseURL != "postgres://db:5432/override" {
		t.Fatalf("expected env database url, got %q", cfg.DatabaseURL)
	}
}

func TestLoadRejectsMissingRequired(t *testing.T) {
	body := "port: \"8080\"\n"
	if _, err := Load(writeConfig(t, body)); err == nil {
		t.Fatalf("expected validation error")
	}
}

func TestParseJWTTTL(t *testing.T) {
	d, err := ParseJWTTTL("")
	if err != nil || d != 30*24*time.Hour {
		t.Fatalf("default ttl wrong: %v %v", d, err)
	}
	d, err = ParseJWTTTL("12h")
	if err != nil || d != 12*time.Hour {
		t.Fatalf("parsed ttl wrong: %v %v", d, err)
	}
	if _, err := ParseJWTTTL("notaduration"); err == nil {
		t.Fatalf("expected error for bad ttl")
	}
}
