package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"heating_controller/internal/models"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" || cfg.DB.Path != "app.db" || cfg.Log.Level != "info" || cfg.Log.Format != "console" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.Controller.Tick != 30*time.Second || cfg.Auth.TokenTTL != time.Hour {
		t.Fatalf("unexpected durations: %+v", cfg)
	}
	if cfg.Settings() != (models.Settings{AwayTemperature: 16, TimezoneOffsetMinutes: 0}) {
		t.Fatalf("unexpected default settings: %+v", cfg.Settings())
	}
	if cfg.MQTT.Broker != "" {
		t.Fatalf("mqtt must be disabled by default, got %q", cfg.MQTT.Broker)
	}
}

func TestLoad_FileValues(t *testing.T) {
	dir := writeConfig(t, `
port: "9090"
db:
  path: "/var/lib/heating/app.db"
auth:
  signing_key: "secret"
  token_ttl: 30m
controller:
  tick: 5s
mqtt:
  broker: "tcp://localhost:1883"
defaults:
  away_temperature: 15.5
  timezone_offset_minutes: 60
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || cfg.DB.Path != "/var/lib/heating/app.db" {
		t.Fatalf("unexpected values: %+v", cfg)
	}
	if cfg.Auth.SigningKey != "secret" || cfg.Auth.TokenTTL != 30*time.Minute || cfg.Controller.Tick != 5*time.Second {
		t.Fatalf("unexpected auth/controller: %+v", cfg)
	}
	if cfg.MQTT.Broker != "tcp://localhost:1883" || cfg.MQTT.Topic != "home/heating/target" {
		t.Fatalf("unexpected mqtt: %+v", cfg.MQTT)
	}
	if cfg.Defaults.AwayTemperature != 15.5 || cfg.Defaults.TimezoneOffsetMinutes != 60 {
		t.Fatalf("unexpected defaults: %+v", cfg.Defaults)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	dir := writeConfig(t, "port: \"9090\"\ncontroller:\n  tick: 5s\n")
	t.Setenv("HEATING_PORT", "7070")
	t.Setenv("HEATING_CONTROLLER_TICK", "2m")
	t.Setenv("HEATING_DEFAULTS_AWAY_TEMPERATURE", "12")

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7070" || cfg.Controller.Tick != 2*time.Minute || cfg.Defaults.AwayTemperature != 12 {
		t.Fatalf("env did not override: %+v", cfg)
	}
}

func TestLoad_RejectsInvalid(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"zero tick", "controller:\n  tick: 0s\n"},
		{"away out of range", "defaults:\n  away_temperature: 40\n"},
		{"offset out of range", "defaults:\n  timezone_offset_minutes: 900\n"},
		{"unknown log format", "log:\n  format: xml\n"},
		{"malformed yaml", "port: [\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, tc.body)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestValidate_WrapsSettingsError(t *testing.T) {
	cfg := &Config{
		Log:        LogConfig{Format: "json"},
		Auth:       AuthConfig{TokenTTL: time.Hour},
		Controller: ControllerConfig{Tick: time.Second},
		Defaults:   DefaultsConfig{AwayTemperature: 2},
	}
	if err := cfg.Validate(); !errors.Is(err, models.ErrInvariantViolation) {
		t.Fatalf("expected ErrInvariantViolation, got %v", err)
	}
}
