// Package config loads dashboard settings from defaults, an optional
// YAML file, and environment overrides, in that order.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds every externally meaningful setting. The refresh interval
// and window capacity are the two the core behavior depends on; the rest
// configure logging, the CSV recorder, and the optional MQTT publisher.
type Config struct {
	Interval time.Duration
	Capacity int

	TempLow      float64
	TempHigh     float64
	PressureLow  float64
	PressureHigh float64

	LogLevel slog.Level
	DataDir  string
	Record   bool

	MQTTBroker   string
	MQTTPort     int
	MQTTClientID string
	MQTTTopic    string
}

// fileConfig mirrors the YAML schema. Pointers distinguish "absent"
// from zero values so the file only overrides what it names.
type fileConfig struct {
	IntervalSeconds *int     `yaml:"interval_seconds"`
	Capacity        *int     `yaml:"capacity"`
	TempLow         *float64 `yaml:"temp_low"`
	TempHigh        *float64 `yaml:"temp_high"`
	PressureLow     *float64 `yaml:"pressure_low"`
	PressureHigh    *float64 `yaml:"pressure_high"`
	LogLevel        *string  `yaml:"log_level"`
	DataDir         *string  `yaml:"data_dir"`
	Record          *bool    `yaml:"record"`
	MQTT            struct {
		Broker   *string `yaml:"broker"`
		Port     *int    `yaml:"port"`
		ClientID *string `yaml:"client_id"`
		Topic    *string `yaml:"topic"`
	} `yaml:"mqtt"`
}

// Default returns the reference configuration: one reading every 10
// seconds, a window of 5, Antarctic temperature bounds, sea-level
// pressure bounds.
func Default() Config {
	home, _ := os.UserHomeDir()
	dataDir := filepath.Join(home, ".icewatch-data")
	return Config{
		Interval:     10 * time.Second,
		Capacity:     5,
		TempLow:      -18,
		TempHigh:     -16,
		PressureLow:  990,
		PressureHigh: 1020,
		LogLevel:     slog.LevelInfo,
		DataDir:      dataDir,
		Record:       true,
		MQTTPort:     1883,
		MQTTClientID: "icewatch",
		MQTTTopic:    "icewatch",
	}
}

// Load builds the effective configuration: defaults, then the YAML file
// at path (skipped when path is empty or the file does not exist), then
// ICEWATCH_* environment variables.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := applyFile(&cfg, path); err != nil {
			return Config{}, err
		}
	}
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if fc.IntervalSeconds != nil {
		cfg.Interval = time.Duration(*fc.IntervalSeconds) * time.Second
	}
	if fc.Capacity != nil {
		cfg.Capacity = *fc.Capacity
	}
	if fc.TempLow != nil {
		cfg.TempLow = *fc.TempLow
	}
	if fc.TempHigh != nil {
		cfg.TempHigh = *fc.TempHigh
	}
	if fc.PressureLow != nil {
		cfg.PressureLow = *fc.PressureLow
	}
	if fc.PressureHigh != nil {
		cfg.PressureHigh = *fc.PressureHigh
	}
	if fc.LogLevel != nil {
		level, err := parseLogLevel(*fc.LogLevel)
		if err != nil {
			return err
		}
		cfg.LogLevel = level
	}
	if fc.DataDir != nil {
		cfg.DataDir = *fc.DataDir
	}
	if fc.Record != nil {
		cfg.Record = *fc.Record
	}
	if fc.MQTT.Broker != nil {
		cfg.MQTTBroker = *fc.MQTT.Broker
	}
	if fc.MQTT.Port != nil {
		cfg.MQTTPort = *fc.MQTT.Port
	}
	if fc.MQTT.ClientID != nil {
		cfg.MQTTClientID = *fc.MQTT.ClientID
	}
	if fc.MQTT.Topic != nil {
		cfg.MQTTTopic = *fc.MQTT.Topic
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if v := strings.TrimSpace(os.Getenv("ICEWATCH_INTERVAL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid ICEWATCH_INTERVAL %q: %w", v, err)
		}
		cfg.Interval = d
	}
	if v := strings.TrimSpace(os.Getenv("ICEWATCH_CAPACITY")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ICEWATCH_CAPACITY %q: %w", v, err)
		}
		cfg.Capacity = n
	}
	if err := envFloat("ICEWATCH_TEMP_LOW", &cfg.TempLow); err != nil {
		return err
	}
	if err := envFloat("ICEWATCH_TEMP_HIGH", &cfg.TempHigh); err != nil {
		return err
	}
	if err := envFloat("ICEWATCH_PRESSURE_LOW", &cfg.PressureLow); err != nil {
		return err
	}
	if err := envFloat("ICEWATCH_PRESSURE_HIGH", &cfg.PressureHigh); err != nil {
		return err
	}
	if v := strings.TrimSpace(os.Getenv("ICEWATCH_LOG_LEVEL")); v != "" {
		level, err := parseLogLevel(v)
		if err != nil {
			return err
		}
		cfg.LogLevel = level
	}
	if v := strings.TrimSpace(os.Getenv("ICEWATCH_DATA_DIR")); v != "" {
		cfg.DataDir = v
	}
	if v := strings.TrimSpace(os.Getenv("ICEWATCH_RECORD")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid ICEWATCH_RECORD %q: %w", v, err)
		}
		cfg.Record = b
	}
	if v := strings.TrimSpace(os.Getenv("ICEWATCH_MQTT_BROKER")); v != "" {
		cfg.MQTTBroker = v
	}
	if v := strings.TrimSpace(os.Getenv("ICEWATCH_MQTT_PORT")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ICEWATCH_MQTT_PORT %q: %w", v, err)
		}
		cfg.MQTTPort = n
	}
	if v := strings.TrimSpace(os.Getenv("ICEWATCH_MQTT_CLIENT_ID")); v != "" {
		cfg.MQTTClientID = v
	}
	if v := strings.TrimSpace(os.Getenv("ICEWATCH_MQTT_TOPIC")); v != "" {
		cfg.MQTTTopic = v
	}
	return nil
}

func envFloat(name string, dst *float64) error {
	v := strings.TrimSpace(os.Getenv(name))
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", name, v, err)
	}
	*dst = f
	return nil
}

func (c Config) validate() error {
	if c.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", c.Interval)
	}
	if c.Capacity < 1 {
		return fmt.Errorf("capacity must be at least 1, got %d", c.Capacity)
	}
	if c.TempLow >= c.TempHigh {
		return fmt.Errorf("temp bounds: low %v must be below high %v", c.TempLow, c.TempHigh)
	}
	if c.PressureLow >= c.PressureHigh {
		return fmt.Errorf("pressure bounds: low %v must be below high %v", c.PressureLow, c.PressureHigh)
	}
	if c.MQTTBroker != "" && (c.MQTTPort < 1 || c.MQTTPort > 65535) {
		return fmt.Errorf("mqtt port out of range: %d", c.MQTTPort)
	}
	return nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level %q (allowed: debug, info, warn, error)", s)
	}
}
