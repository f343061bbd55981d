package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func baseEnv() map[string]string {
	return map[string]string{
		"JWT_SECRET": "secret",
		"MONGO_URI":  "mongodb://localhost:27017",
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(baseEnv()))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Port != "4000" {
		t.Errorf("expected port 4000, got %q", cfg.Port)
	}
	if cfg.TokenTTL != 48*time.Hour {
		t.Errorf("expected 48h token ttl, got %s", cfg.TokenTTL)
	}
	if cfg.Mongo.Database != "contributions" {
		t.Errorf("unexpected database: %q", cfg.Mongo.Database)
	}
	if cfg.Upload.Backend != StorageLocal {
		t.Errorf("expected local storage, got %q", cfg.Upload.Backend)
	}
	if len(cfg.AllowedOrigins) != 2 {
		t.Errorf("expected 2 default origins, got %v", cfg.AllowedOrigins)
	}
	if len(cfg.Upload.AllowedExts) != 5 {
		t.Errorf("expected 5 default extensions, got %v", cfg.Upload.AllowedExts)
	}
	if cfg.Redis.Addr != "" {
		t.Errorf("redis must be disabled by default, got %q", cfg.Redis.Addr)
	}
	if !cfg.IsDevelopment() {
		t.Error("expected development env by default")
	}
}

func TestLoad_MissingMongoURI(t *testing.T) {
	env := baseEnv()
	delete(env, "MONGO_URI")

	if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
		t.Fatal("expected error when MONGO_URI is missing")
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	env := baseEnv()
	delete(env, "JWT_SECRET")

	if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}

func TestLoad_S3RequiresBucket(t *testing.T) {
	env := baseEnv()
	env["STORAGE_BACKEND"] = "s3"

	if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
		t.Fatal("expected error when S3_BUCKET is missing")
	}

	env["S3_BUCKET"] = "screenshots"
	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.S3.Region != "us-east-1" {
		t.Errorf("unexpected default region %q", cfg.S3.Region)
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	env := baseEnv()
	env["STORAGE_BACKEND"] = "ftp"

	if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
		t.Fatal("expected error for unknown backend")
	}
}

func TestLoad_Overrides(t *testing.T) {
	env := baseEnv()
	env["ALLOWED_ORIGINS"] = "https://app.example.com"
	env["TOKEN_TTL"] = "2h"
	env["ENV"] = "production"

	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.AllowedOrigins) != 1 || cfg.AllowedOrigins[0] != "https://app.example.com" {
		t.Errorf("unexpected origins: %v", cfg.AllowedOrigins)
	}
	if cfg.TokenTTL != 2*time.Hour {
		t.Errorf("unexpected ttl: %s", cfg.TokenTTL)
	}
	if cfg.IsDevelopment() {
		t.Error("production must not be development")
	}
}

func TestLoad_LimiterBoundsWithRedis(t *testing.T) {
	cases := []struct {
		name, key, value string
	}{
		{"zero limit", "LOGIN_RATE_LIMIT", "0"},
		{"negative limit", "LOGIN_RATE_LIMIT", "-1"},
		{"zero window", "LOGIN_RATE_WINDOW", "0s"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env := baseEnv()
			env["REDIS_ADDR"] = "localhost:6379"
			env[tc.key] = tc.value
			if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
				t.Fatalf("expected error for %s=%s", tc.key, tc.value)
			}

			// without redis the limiter is off and the values are ignored
			delete(env, "REDIS_ADDR")
			if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err != nil {
				t.Fatalf("unexpected error without redis: %v", err)
			}
		})
	}
}

func TestLoad_TrustedProxies(t *testing.T) {
	env := baseEnv()
	env["TRUSTED_PROXIES"] = "10.0.0.0/8,192.168.1.10/32"

	cfg, err := LoadWith(context.Background(), envconfig.MapLookuper(env))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(cfg.TrustedProxies) != 2 {
		t.Fatalf("unexpected proxies: %v", cfg.TrustedProxies)
	}

	env["TRUSTED_PROXIES"] = "not-a-cidr"
	if _, err := LoadWith(context.Background(), envconfig.MapLookuper(env)); err == nil {
		t.Fatal("expected error for an invalid CIDR")
	}
}
