// Package config loads the YAML configuration shared by the nanows
// command-line tools.
package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Node  NodeConfig  `yaml:"node"`
	Tail  TailConfig  `yaml:"tail"`
	Relay RelayConfig `yaml:"relay"`
}

type NodeConfig struct {
	URL          string        `yaml:"url"`
	PingInterval time.Duration `yaml:"ping_interval"`
}

type TailConfig struct {
	Topics   []string `yaml:"topics"`
	Accounts []string `yaml:"accounts"`
}

type RelayConfig struct {
	// SinkURL selects where confirmations go: redis:// or mongodb://.
	// Empty logs them to stdout.
	SinkURL   string   `yaml:"sink_url"`
	QueueName string   `yaml:"queue_name"`
	Accounts  []string `yaml:"accounts"`
}

func Default() *Config {
	return &Config{
		Node: NodeConfig{
			URL:          "ws://localhost:7078",
			PingInterval: 120 * time.Second,
		},
		Tail: TailConfig{
			Topics: []string{"confirmation"},
		},
		Relay: RelayConfig{
			QueueName: "confirmations",
		},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
