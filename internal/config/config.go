// Package config loads application settings from configs/config.yml, an
// optional .env file and HEATING_* environment variables, in rising priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"heating_controller/internal/logger"
	"heating_controller/internal/models"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "HEATING"

type Config struct {
	Port       string           `mapstructure:"port"`
	DB         DBConfig         `mapstructure:"db"`
	Log        LogConfig        `mapstructure:"log"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Controller ControllerConfig `mapstructure:"controller"`
	MQTT       MQTTConfig       `mapstructure:"mqtt"`
	Defaults   DefaultsConfig   `mapstructure:"defaults"`
}

type DBConfig struct {
	Path string `mapstructure:"path"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console or json
}

type AuthConfig struct {
	SigningKey string        `mapstructure:"signing_key"`
	TokenTTL   time.Duration `mapstructure:"token_ttl"`
}

type ControllerConfig struct {
	Tick time.Duration `mapstructure:"tick"`
}

// MQTTConfig leaves Broker empty to disable publishing.
type MQTTConfig struct {
	Broker   string `mapstructure:"broker"`
	Topic    string `mapstructure:"topic"`
	ClientID string `mapstructure:"client_id"`
}

// DefaultsConfig seeds settings until a user saves their own.
type DefaultsConfig struct {
	AwayTemperature       float64 `mapstructure:"away_temperature"`
	TimezoneOffsetMinutes int     `mapstructure:"timezone_offset_minutes"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("port", "8080")
	v.SetDefault("db.path", "app.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("auth.signing_key", "")
	v.SetDefault("auth.token_ttl", time.Hour)
	v.SetDefault("controller.tick", 30*time.Second)
	v.SetDefault("mqtt.broker", "")
	v.SetDefault("mqtt.topic", "home/heating/target")
	v.SetDefault("mqtt.client_id", "heating-controller")
	v.SetDefault("defaults.away_temperature", 16.0)
	v.SetDefault("defaults.timezone_offset_minutes", 0)
}

// Load reads config.yml from dir. A missing file or .env is not an error;
// every key has a default.
func Load(dir string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)
	v.AddConfigPath(dir)
	v.SetConfigName("config")
	v.SetConfigType("yml")
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Controller.Tick <= 0 {
		return fmt.Errorf("controller.tick must be positive, got %s", c.Controller.Tick)
	}
	switch c.Log.Format {
	case logger.ConsoleFormat, logger.JSONFormat:
	default:
		return fmt.Errorf("log.format must be %q or %q, got %q", logger.ConsoleFormat, logger.JSONFormat, c.Log.Format)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %s", c.Auth.TokenTTL)
	}
	if err := c.Settings().Validate(); err != nil {
		return fmt.Errorf("defaults: %w", err)
	}
	return nil
}

// Settings returns the configured default settings.
func (c *Config) Settings() models.Settings {
	return models.Settings{
		AwayTemperature:       c.Defaults.AwayTemperature,
		TimezoneOffsetMinutes: c.Defaults.TimezoneOffsetMinutes,
	}
}
