// Package config loads gateway settings from an optional YAML file overlaid
// by process environment variables. Env always wins so deployments can keep
// a checked-in file and tweak single values per host.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Defaults suit a local TWS paper-trading setup: port 7497 on localhost,
// client id 1, API on :8000.
const (
	DefaultHost     = "127.0.0.1"
	DefaultPort     = 7497
	DefaultClientID = 1
	DefaultListen   = ":8000"
	DefaultOrigin   = "http://localhost:3000"
)

// Duration wraps time.Duration so YAML values can use the usual "5s" form.
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return errors.Wrapf(err, "parse duration %q", value.Value)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the wrapped value as a plain time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Endpoint is the brokerage endpoint the session connects to.
type Endpoint struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	ClientID int    `yaml:"client_id"`
}

// Log mirrors the logger package's settings.
type Log struct {
	Level      string `yaml:"level"`
	OutputFile string `yaml:"output_file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// Config is the full gateway configuration.
type Config struct {
	Listen      string   `yaml:"listen"`
	DebugListen string   `yaml:"debug_listen"` // expvar/pprof; empty disables
	CORSOrigin  string   `yaml:"cors_origin"`
	Endpoint    Endpoint `yaml:"endpoint"`
	DryRun      bool     `yaml:"dry_run"`
	AckTimeout  Duration `yaml:"ack_timeout"`

	// Token bucket for order submissions. Burst 0 disables throttling.
	TradeBurst  int `yaml:"trade_burst"`
	TradeRefill int `yaml:"trade_refill_per_sec"`

	Log Log `yaml:"log"`
}

func defaults() Config {
	return Config{
		Listen:     DefaultListen,
		CORSOrigin: DefaultOrigin,
		Endpoint: Endpoint{
			Host:     DefaultHost,
			Port:     DefaultPort,
			ClientID: DefaultClientID,
		},
		AckTimeout:  Duration(5 * time.Second),
		TradeBurst:  10,
		TradeRefill: 5,
		Log: Log{
			Level:      "info",
			MaxSizeMB:  100,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
	}
}

// Load builds the configuration: defaults, then the YAML file at path (if
// path is non-empty and the file exists), then environment overrides.
func Load(path string) (Config, error) {
	cfg := defaults()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return cfg, errors.Wrapf(err, "read config %s", path)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, errors.Wrapf(err, "parse config %s", path)
			}
		}
	}

	cfg.applyEnv()
	if cfg.AckTimeout <= 0 {
		cfg.AckTimeout = Duration(5 * time.Second)
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.Endpoint.Host = envStr("IB_HOST", c.Endpoint.Host)
	c.Endpoint.Port = envInt("IB_PORT", c.Endpoint.Port)
	c.Endpoint.ClientID = envInt("IB_CLIENT_ID", c.Endpoint.ClientID)
	c.Listen = envStr("API_LISTEN", c.Listen)
	c.DebugListen = envStr("GATEWAY_DEBUG_LISTEN", c.DebugListen)
	c.CORSOrigin = envStr("GATEWAY_CORS_ORIGIN", c.CORSOrigin)
	c.DryRun = envBool("GATEWAY_DRY_RUN", c.DryRun)
	c.AckTimeout = Duration(envDuration("GATEWAY_ACK_TIMEOUT", c.AckTimeout.Std()))
	c.TradeBurst = envInt("GATEWAY_TRADE_BURST", c.TradeBurst)
	c.TradeRefill = envInt("GATEWAY_TRADE_REFILL", c.TradeRefill)
	c.Log.Level = envStr("LOG_LEVEL", c.Log.Level)
	c.Log.OutputFile = envStr("LOG_FILE", c.Log.OutputFile)
}

func envStr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
