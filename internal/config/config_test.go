//go:build !integration

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	// godotenv reads ./.env; keep the test away from the repo root.
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return path
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	path := writeConfig(t, `
bot:
  token: "123:abc"
  admin_ids: [42]
redis:
  url: "localhost:6379"
`)
	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Bot.Token != "123:abc" || len(cfg.Bot.AdminIDs) != 1 || cfg.Bot.AdminIDs[0] != 42 {
		t.Errorf("unexpected bot config: %+v", cfg.Bot)
	}
	if cfg.Bot.Workers != 8 || cfg.Bot.Locale != "ru" {
		t.Errorf("defaults not applied: %+v", cfg.Bot)
	}
	if cfg.Redis.TTL != time.Hour {
		t.Errorf("expected default TTL of 1h, got %v", cfg.Redis.TTL)
	}
	if cfg.Log.Format != "json" || cfg.Log.Level != "info" {
		t.Errorf("unexpected log defaults: %+v", cfg.Log)
	}
}

func TestLoad_EnvironmentOverridesFile(t *testing.T) {
	path := writeConfig(t, `
bot:
  token: "from-file"
database:
  url: "postgres://file/db"
`)
	t.Setenv("SHOP_BOT_TOKEN", "from-env")
	t.Setenv("SHOP_DATABASE_URL", "postgres://env/db")
	t.Setenv("SHOP_ADMIN_IDS", "1,2,3")

	cfg, err := Load(path, false)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Bot.Token != "from-env" {
		t.Errorf("expected token from env, got %q", cfg.Bot.Token)
	}
	if cfg.Database.URL != "postgres://env/db" {
		t.Errorf("expected database url from env, got %q", cfg.Database.URL)
	}
	if len(cfg.Bot.AdminIDs) != 3 || cfg.Bot.AdminIDs[2] != 3 {
		t.Errorf("expected admin ids from env, got %v", cfg.Bot.AdminIDs)
	}
}

func TestLoad_Validation(t *testing.T) {
	cases := map[string]string{
		"missing token": `
log:
  level: info
`,
		"bad log format": `
bot:
  token: "x"
log:
  format: xml
`,
		"api without secret": `
bot:
  token: "x"
http:
  port: 8080
`,
		"short secret": `
bot:
  token: "x"
http:
  port: 8080
  jwt_secret: "short"
`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			path := writeConfig(t, body)
			if _, err := Load(path, false); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	dir := t.TempDir()
	missing := filepath.Join(dir, "nope.yaml")
	wd, _ := os.Getwd()
	_ = os.Chdir(dir)
	t.Cleanup(func() { _ = os.Chdir(wd) })

	if _, err := Load(missing, false); err == nil {
		t.Fatal("expected error for missing file outside dev mode")
	}

	t.Setenv("SHOP_BOT_TOKEN", "dev-token")
	cfg, err := Load(missing, true)
	if err != nil {
		t.Fatalf("dev mode should run from environment only: %v", err)
	}
	if !cfg.Runtime.Dev || cfg.Bot.Token != "dev-token" {
		t.Errorf("unexpected config: %+v", cfg)
	}
}
