package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
node:
  url: ws://10.0.0.5:7078
relay:
  sink_url: redis://localhost:6379
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Node.URL != "ws://10.0.0.5:7078" {
		t.Errorf("node url = %q", cfg.Node.URL)
	}
	if cfg.Node.PingInterval != 120*time.Second {
		t.Errorf("ping interval default lost: %v", cfg.Node.PingInterval)
	}
	if cfg.Relay.SinkURL != "redis://localhost:6379" {
		t.Errorf("sink url = %q", cfg.Relay.SinkURL)
	}
	if cfg.Relay.QueueName != "confirmations" {
		t.Errorf("queue name default lost: %q", cfg.Relay.QueueName)
	}
}

func TestLoadOverridesLists(t *testing.T) {
	path := writeConfig(t, `
tail:
  topics: [telemetry, vote]
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(cfg.Tail.Topics) != 2 || cfg.Tail.Topics[0] != "telemetry" {
		t.Errorf("topics = %v", cfg.Tail.Topics)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("Load of a missing file succeeded")
	}
}
