package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	os.Unsetenv("MEDSYN_API_URL")
	os.Unsetenv("MEDSYN_ENV")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Env != "development" {
		t.Errorf("expected default env development, got %s", cfg.Env)
	}
	if cfg.APIURL != "http://localhost:3000/medsyn-business/api" {
		t.Errorf("unexpected default API URL: %s", cfg.APIURL)
	}
	if cfg.HTTPTimeout != 30 {
		t.Errorf("expected default timeout 30s, got %d", cfg.HTTPTimeout)
	}
	if cfg.MaxFiles != 5 {
		t.Errorf("expected default max files 5, got %d", cfg.MaxFiles)
	}
	if cfg.SessionDir == "" {
		t.Error("expected session dir to default to a home-relative path")
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	os.Setenv("MEDSYN_API_URL", "https://api.medsyn.example/medsyn-business/api")
	os.Setenv("MEDSYN_HOSPITAL_ID", "st-marys")
	defer os.Unsetenv("MEDSYN_API_URL")
	defer os.Unsetenv("MEDSYN_HOSPITAL_ID")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.APIURL != "https://api.medsyn.example/medsyn-business/api" {
		t.Errorf("expected API URL override, got %s", cfg.APIURL)
	}
	if cfg.HospitalID != "st-marys" {
		t.Errorf("expected hospital id st-marys, got %s", cfg.HospitalID)
	}
}

func TestStorageKeys_NamespacedPerEnv(t *testing.T) {
	c := &Config{Env: "production"}
	keys := c.StorageKeys()

	if keys.Token != "medsyn_production_auth_token" {
		t.Errorf("unexpected token key: %s", keys.Token)
	}
	if keys.RefreshToken != "medsyn_production_refresh_token" {
		t.Errorf("unexpected refresh token key: %s", keys.RefreshToken)
	}
	if keys.UserProfile != "medsyn_production_user_profile" {
		t.Errorf("unexpected profile key: %s", keys.UserProfile)
	}

	staging := (&Config{Env: "staging"}).StorageKeys()
	if staging.Token == keys.Token {
		t.Error("expected storage keys to differ across environments")
	}
}

func TestValidate(t *testing.T) {
	c := &Config{APIURL: "http://localhost:3000", HospitalID: "h1", HTTPTimeout: 30}
	if err := c.Validate(); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	c.HospitalID = ""
	if err := c.Validate(); err == nil {
		t.Error("expected error when HOSPITAL_ID is missing")
	}

	c.HospitalID = "h1"
	c.HTTPTimeout = 0
	if err := c.Validate(); err == nil {
		t.Error("expected error when timeout is non-positive")
	}
}

func TestConfig_IsDev(t *testing.T) {
	c := &Config{Env: "development"}
	if !c.IsDev() {
		t.Error("expected IsDev() to return true for development")
	}

	c.Env = "production"
	if c.IsDev() {
		t.Error("expected IsDev() to return false for production")
	}
}
