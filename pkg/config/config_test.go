package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/scamshield/scamshield/pkg/schema"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.ListenAddr != ":8080" {
		t.Errorf("listen addr: got %s", cfg.ListenAddr)
	}
	if cfg.Thresholds.Confirmed != 85 || cfg.Thresholds.High != 70 || cfg.Thresholds.Suspicious != 30 {
		t.Errorf("default thresholds: %+v", cfg.Thresholds)
	}
	if len(cfg.Weights) != 5 {
		t.Errorf("expected 5 default weights, got %d", len(cfg.Weights))
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SCAMSHIELD_LISTEN_ADDR", ":9999")
	t.Setenv("SCAMSHIELD_EVENT_HISTORY", "500")

	cfg := NewDefaultConfig()
	if cfg.ListenAddr != ":9999" {
		t.Errorf("listen addr override: got %s", cfg.ListenAddr)
	}
	if cfg.EventHistorySize != 500 {
		t.Errorf("event history override: got %d", cfg.EventHistorySize)
	}
}

func TestLoadTuning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	content := `
detector_weights:
  linguistic: 0.4
  behavioral: 0.1
risk_thresholds:
  confirmed: 90
  high: 75
  suspicious: 40
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	cfg.WeightsPath = path
	if err := cfg.LoadTuning(); err != nil {
		t.Fatalf("LoadTuning: %v", err)
	}

	if cfg.Weights[schema.DetectorLinguistic] != 0.4 {
		t.Errorf("linguistic weight: got %f", cfg.Weights[schema.DetectorLinguistic])
	}
	// Untouched weights keep their defaults.
	if cfg.Weights[schema.DetectorHistorical] != 0.2 {
		t.Errorf("historical weight: got %f", cfg.Weights[schema.DetectorHistorical])
	}
	if cfg.Thresholds.Confirmed != 90 {
		t.Errorf("confirmed threshold: got %f", cfg.Thresholds.Confirmed)
	}
}

func TestLoadTuningRejectsNonMonotonicThresholds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	content := `
risk_thresholds:
  confirmed: 50
  high: 75
  suspicious: 40
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := NewDefaultConfig()
	cfg.WeightsPath = path
	if err := cfg.LoadTuning(); err == nil {
		t.Fatal("inverted thresholds should be rejected")
	}
}

func TestLoadTuningNoFileConfigured(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.WeightsPath = ""
	if err := cfg.LoadTuning(); err != nil {
		t.Errorf("no file configured should be a no-op, got %v", err)
	}
}

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("TEST_STR", "value")
	t.Setenv("TEST_INT", "42")
	t.Setenv("TEST_BOOL", "true")
	t.Setenv("TEST_FLOAT", "0.75")
	t.Setenv("TEST_SLICE", "a, b ,c")

	if got := GetEnv("TEST_STR", "x"); got != "value" {
		t.Errorf("GetEnv: %s", got)
	}
	if got := GetEnv("TEST_MISSING", "fallback"); got != "fallback" {
		t.Errorf("GetEnv default: %s", got)
	}
	if got := GetEnvInt("TEST_INT", 0); got != 42 {
		t.Errorf("GetEnvInt: %d", got)
	}
	if got := GetEnvBool("TEST_BOOL", false); !got {
		t.Error("GetEnvBool should be true")
	}
	if got := GetEnvFloat("TEST_FLOAT", 0); got != 0.75 {
		t.Errorf("GetEnvFloat: %f", got)
	}
	if got := GetEnvSlice("TEST_SLICE", nil); len(got) != 3 || got[1] != "b" {
		t.Errorf("GetEnvSlice: %v", got)
	}
}
