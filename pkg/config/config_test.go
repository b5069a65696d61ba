package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so host environment never leaks
// into the assertions.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"IB_HOST", "IB_PORT", "IB_CLIENT_ID", "API_LISTEN",
		"GATEWAY_DEBUG_LISTEN", "GATEWAY_CORS_ORIGIN", "GATEWAY_DRY_RUN",
		"GATEWAY_ACK_TIMEOUT", "GATEWAY_TRADE_BURST", "GATEWAY_TRADE_REFILL",
		"LOG_LEVEL", "LOG_FILE",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Endpoint.Host != DefaultHost || cfg.Endpoint.Port != DefaultPort || cfg.Endpoint.ClientID != DefaultClientID {
		t.Errorf("endpoint = %+v", cfg.Endpoint)
	}
	if cfg.Listen != DefaultListen {
		t.Errorf("listen = %q", cfg.Listen)
	}
	if cfg.CORSOrigin != DefaultOrigin {
		t.Errorf("origin = %q", cfg.CORSOrigin)
	}
	if cfg.DryRun {
		t.Error("dry run on by default")
	}
	if cfg.AckTimeout.Std() != 5*time.Second {
		t.Errorf("ack timeout = %v", cfg.AckTimeout.Std())
	}
	if cfg.Log.Level != "info" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	if cfg.TradeBurst != 10 || cfg.TradeRefill != 5 {
		t.Errorf("trade throttle = %d/%d", cfg.TradeBurst, cfg.TradeRefill)
	}
	if cfg.DebugListen != "" {
		t.Errorf("debug listen = %q, want disabled", cfg.DebugListen)
	}
}

func TestLoadYAMLFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "gateway.yaml")
	data := `
listen: ":9100"
cors_origin: "https://trade.example.com"
endpoint:
  host: tws.internal
  port: 4002
  client_id: 9
dry_run: true
ack_timeout: 2s
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Listen != ":9100" {
		t.Errorf("listen = %q", cfg.Listen)
	}
	if cfg.Endpoint.Host != "tws.internal" || cfg.Endpoint.Port != 4002 || cfg.Endpoint.ClientID != 9 {
		t.Errorf("endpoint = %+v", cfg.Endpoint)
	}
	if !cfg.DryRun {
		t.Error("dry_run not applied")
	}
	if cfg.AckTimeout.Std() != 2*time.Second {
		t.Errorf("ack timeout = %v", cfg.AckTimeout.Std())
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log level = %q", cfg.Log.Level)
	}
	// Untouched keys keep their defaults.
	if cfg.Log.MaxBackups != 3 {
		t.Errorf("max backups = %d", cfg.Log.MaxBackups)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "gateway.yaml")
	if err := os.WriteFile(path, []byte("endpoint:\n  host: from-file\n  port: 4002\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("IB_HOST", "from-env")
	t.Setenv("IB_PORT", "7496")
	t.Setenv("IB_CLIENT_ID", "3")
	t.Setenv("GATEWAY_DRY_RUN", "true")
	t.Setenv("GATEWAY_ACK_TIMEOUT", "750ms")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Endpoint.Host != "from-env" {
		t.Errorf("host = %q, env should win over file", cfg.Endpoint.Host)
	}
	if cfg.Endpoint.Port != 7496 || cfg.Endpoint.ClientID != 3 {
		t.Errorf("endpoint = %+v", cfg.Endpoint)
	}
	if !cfg.DryRun {
		t.Error("dry run env override not applied")
	}
	if cfg.AckTimeout.Std() != 750*time.Millisecond {
		t.Errorf("ack timeout = %v", cfg.AckTimeout.Std())
	}
}

func TestLoadMissingFileIsFine(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("missing file should fall back to defaults: %v", err)
	}
	if cfg.Endpoint.Port != DefaultPort {
		t.Errorf("port = %d", cfg.Endpoint.Port)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("listen: [:::"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("malformed yaml accepted")
	}
}

func TestBadEnvValuesIgnored(t *testing.T) {
	clearEnv(t)

	t.Setenv("IB_PORT", "not-a-port")
	t.Setenv("GATEWAY_ACK_TIMEOUT", "soon")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Endpoint.Port != DefaultPort {
		t.Errorf("port = %d, want default on unparsable env", cfg.Endpoint.Port)
	}
	if cfg.AckTimeout.Std() != 5*time.Second {
		t.Errorf("ack timeout = %v", cfg.AckTimeout.Std())
	}
}
