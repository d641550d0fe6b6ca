package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Interval != 10*time.Second {
		t.Errorf("Interval: got %s, want 10s", cfg.Interval)
	}
	if cfg.Capacity != 5 {
		t.Errorf("Capacity: got %d, want 5", cfg.Capacity)
	}
	if cfg.TempLow != -18 || cfg.TempHigh != -16 {
		t.Errorf("temp bounds: got [%v,%v], want [-18,-16]", cfg.TempLow, cfg.TempHigh)
	}
	if cfg.PressureLow != 990 || cfg.PressureHigh != 1020 {
		t.Errorf("pressure bounds: got [%v,%v], want [990,1020]", cfg.PressureLow, cfg.PressureHigh)
	}
	if !cfg.Record {
		t.Error("Record: want true by default")
	}
	if cfg.MQTTBroker != "" {
		t.Errorf("MQTTBroker: got %q, want empty (publisher off)", cfg.MQTTBroker)
	}
}

func TestFileOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "icewatch.yaml")
	cfgText := "interval_seconds: 2\ncapacity: 12\nrecord: false\nmqtt:\n  broker: broker.local\n  topic: station/antarctica\n"
	if err := os.WriteFile(path, []byte(cfgText), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Interval != 2*time.Second {
		t.Errorf("Interval: got %s, want 2s", cfg.Interval)
	}
	if cfg.Capacity != 12 {
		t.Errorf("Capacity: got %d, want 12", cfg.Capacity)
	}
	if cfg.Record {
		t.Error("Record: want false")
	}
	if cfg.MQTTBroker != "broker.local" || cfg.MQTTTopic != "station/antarctica" {
		t.Errorf("mqtt: got %q %q", cfg.MQTTBroker, cfg.MQTTTopic)
	}
	// Unnamed keys keep their defaults.
	if cfg.TempLow != -18 {
		t.Errorf("TempLow: got %v, want default -18", cfg.TempLow)
	}
	if cfg.MQTTPort != 1883 {
		t.Errorf("MQTTPort: got %d, want default 1883", cfg.MQTTPort)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "icewatch.yaml")
	if err := os.WriteFile(path, []byte("capacity: 12\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("ICEWATCH_CAPACITY", "7")
	t.Setenv("ICEWATCH_INTERVAL", "500ms")
	t.Setenv("ICEWATCH_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Capacity != 7 {
		t.Errorf("Capacity: got %d, want 7 (env wins)", cfg.Capacity)
	}
	if cfg.Interval != 500*time.Millisecond {
		t.Errorf("Interval: got %s, want 500ms", cfg.Interval)
	}
	if cfg.LogLevel != slog.LevelDebug {
		t.Errorf("LogLevel: got %v, want debug", cfg.LogLevel)
	}
}

func TestMissingFileIsFine(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err != nil {
		t.Fatalf("Load with absent file: %v", err)
	}
}

func TestValidation(t *testing.T) {
	t.Setenv("ICEWATCH_CAPACITY", "0")
	if _, err := Load(""); err == nil {
		t.Error("expected error for capacity 0")
	}

	t.Setenv("ICEWATCH_CAPACITY", "5")
	t.Setenv("ICEWATCH_TEMP_LOW", "-16")
	t.Setenv("ICEWATCH_TEMP_HIGH", "-18")
	if _, err := Load(""); err == nil {
		t.Error("expected error for inverted temp bounds")
	}
}

func TestBadEnvValue(t *testing.T) {
	t.Setenv("ICEWATCH_INTERVAL", "soon")
	if _, err := Load(""); err == nil {
		t.Error("expected error for unparseable interval")
	}
}
