// Package config holds runtime settings for the scam intelligence engine.
// Everything can be set via environment variables; detector weights and
// risk thresholds can additionally be loaded from a YAML file so tuning
// does not require a rebuild.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/scamshield/scamshield/pkg/fusion"
)

// Config holds global settings for the engine. All settings can be
// configured via environment variables or programmatically.
type Config struct {
	// === Core Settings ===
	ListenAddr  string // HTTP listen address (default: ":8080")
	WeightsPath string // Optional YAML file for weights/thresholds

	// === Fusion Tuning ===
	Weights    fusion.Weights
	Thresholds fusion.Thresholds

	// === Session Persistence ===
	RedisAddr     string        // Redis address; empty disables Redis and uses in-memory sessions
	RedisPassword string
	RedisDB       int
	SessionTTL    time.Duration // Idle session expiry (default: 1 hour)

	// === Event Audit Trail ===
	PostgresURL string // Postgres DSN; empty disables the event audit table

	// === Bus ===
	EventHistorySize int // Bounded bus history (default: 10000)
}

// NewDefaultConfig creates a Config with sensible defaults, overridable via
// environment variables.
func NewDefaultConfig() *Config {
	return &Config{
		ListenAddr:  GetEnv("SCAMSHIELD_LISTEN_ADDR", ":8080"),
		WeightsPath: GetEnv("SCAMSHIELD_WEIGHTS_FILE", ""),

		Weights:    fusion.DefaultWeights(),
		Thresholds: fusion.DefaultThresholds(),

		RedisAddr:     GetEnv("SCAMSHIELD_REDIS_ADDR", ""),
		RedisPassword: GetEnv("SCAMSHIELD_REDIS_PASSWORD", ""),
		RedisDB:       GetEnvInt("SCAMSHIELD_REDIS_DB", 0),
		SessionTTL:    time.Duration(GetEnvInt("SCAMSHIELD_SESSION_TTL_SECONDS", 3600)) * time.Second,

		PostgresURL: GetEnv("SCAMSHIELD_POSTGRES_URL", ""),

		EventHistorySize: GetEnvInt("SCAMSHIELD_EVENT_HISTORY", 10000),
	}
}

// tuningFile is the YAML shape of the weights/thresholds file:
//
//	detector_weights:
//	  linguistic: 0.25
//	  behavioral: 0.2
//	risk_thresholds:
//	  confirmed: 85
//	  high: 70
//	  suspicious: 30
type tuningFile struct {
	DetectorWeights map[string]float64 `yaml:"detector_weights"`
	RiskThresholds  fusion.Thresholds  `yaml:"risk_thresholds"`
}

// LoadTuning merges weights and thresholds from the configured YAML file,
// if any. Absent keys keep their current values.
func (c *Config) LoadTuning() error {
	if c.WeightsPath == "" {
		return nil
	}

	data, err := os.ReadFile(c.WeightsPath)
	if err != nil {
		return fmt.Errorf("reading tuning file: %w", err)
	}

	var tf tuningFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return fmt.Errorf("parsing tuning file %s: %w", c.WeightsPath, err)
	}

	for name, weight := range tf.DetectorWeights {
		if weight < 0 {
			return fmt.Errorf("negative weight for detector %q", name)
		}
		c.Weights[name] = weight
	}

	if tf.RiskThresholds != (fusion.Thresholds{}) {
		t := tf.RiskThresholds
		if t.Confirmed < t.High || t.High < t.Suspicious {
			return fmt.Errorf("risk thresholds must be monotonic: confirmed >= high >= suspicious")
		}
		c.Thresholds = t
	}

	return nil
}

// GetEnv returns the value of an environment variable or a default value.
func GetEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

// GetEnvBool returns the boolean value of an environment variable or a default value.
func GetEnvBool(key string, defaultValue bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return defaultValue
}

// GetEnvFloat returns the float64 value of an environment variable or a default value.
func GetEnvFloat(key string, defaultValue float64) float64 {
	if v := os.Getenv(key); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err == nil {
			return f
		}
	}
	return defaultValue
}

// GetEnvInt returns the integer value of an environment variable or a default value.
func GetEnvInt(key string, defaultValue int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return defaultValue
}

// GetEnvSlice returns a comma-separated list from an environment variable or a default value.
func GetEnvSlice(key string, defaultValue []string) []string {
	if v := os.Getenv(key); v != "" {
		var parts []string
		for _, p := range strings.Split(v, ",") {
			trimmed := strings.TrimSpace(p)
			if trimmed != "" {
				parts = append(parts, trimmed)
			}
		}
		if len(parts) > 0 {
			return parts
		}
	}
	return defaultValue
}
