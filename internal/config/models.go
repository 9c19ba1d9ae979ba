package config

import (
	"fmt"
	"time"

	"github.com/muurk/inels/internal/api"
)

// CurrentVersion is the configuration file format version
const CurrentVersion = 1

// Config represents the entire configuration file
type Config struct {
	Version    int              `yaml:"version"`
	Controller ControllerConfig `yaml:"controller"`
	Rooms      []string         `yaml:"rooms,omitempty"`
	MQTT       MQTTConfig       `yaml:"mqtt"`
}

// ControllerConfig describes how to reach the iNels Connect Server
type ControllerConfig struct {
	Host    string        `yaml:"host"`
	Port    int           `yaml:"port"`
	Version string        `yaml:"version,omitempty"` // API path segment
	Timeout time.Duration `yaml:"timeout"`
}

// MQTTConfig configures the MQTT bridge
type MQTTConfig struct {
	Broker       string        `yaml:"broker"` // e.g. "tcp://localhost:1883"
	ClientID     string        `yaml:"client_id"`
	Username     string        `yaml:"username,omitempty"`
	Password     string        `yaml:"password,omitempty"`
	TopicPrefix  string        `yaml:"topic_prefix"`
	QoS          int           `yaml:"qos"`
	PollInterval time.Duration `yaml:"poll_interval"`
}

// Default returns a configuration with default values and no controller host
func Default() *Config {
	return &Config{
		Version: CurrentVersion,
		Controller: ControllerConfig{
			Port:    api.DefaultPort,
			Timeout: api.DefaultTimeout,
		},
		MQTT: MQTTConfig{
			Broker:       "tcp://localhost:1883",
			ClientID:     "inels-bridge",
			TopicPrefix:  "inels",
			QoS:          1,
			PollInterval: 10 * time.Second,
		},
	}
}

// applyDefaults fills zero values left by a partial file
func (c *Config) applyDefaults() {
	d := Default()
	if c.Controller.Port == 0 {
		c.Controller.Port = d.Controller.Port
	}
	if c.Controller.Timeout == 0 {
		c.Controller.Timeout = d.Controller.Timeout
	}
	if c.MQTT.Broker == "" {
		c.MQTT.Broker = d.MQTT.Broker
	}
	if c.MQTT.ClientID == "" {
		c.MQTT.ClientID = d.MQTT.ClientID
	}
	if c.MQTT.TopicPrefix == "" {
		c.MQTT.TopicPrefix = d.MQTT.TopicPrefix
	}
	if c.MQTT.PollInterval == 0 {
		c.MQTT.PollInterval = d.MQTT.PollInterval
	}
}

// Validate checks the configuration for values the client cannot work with
func (c *Config) Validate() error {
	if c.Version != CurrentVersion {
		return fmt.Errorf("unsupported config version: %d (expected %d)", c.Version, CurrentVersion)
	}
	if c.Controller.Host == "" {
		return fmt.Errorf("controller host is required")
	}
	if c.Controller.Port <= 0 || c.Controller.Port > 65535 {
		return fmt.Errorf("controller port %d out of range", c.Controller.Port)
	}
	if c.Controller.Timeout < 0 {
		return fmt.Errorf("controller timeout must not be negative")
	}
	if c.MQTT.QoS < 0 || c.MQTT.QoS > 2 {
		return fmt.Errorf("mqtt qos %d out of range (0-2)", c.MQTT.QoS)
	}
	if c.MQTT.PollInterval < time.Second {
		return fmt.Errorf("mqtt poll interval %s is below 1s", c.MQTT.PollInterval)
	}
	for i, room := range c.Rooms {
		if room == "" {
			return fmt.Errorf("room %d has an empty name", i)
		}
	}
	return nil
}

// Client builds a controller client from the configuration
func (c *Config) Client() *api.Client {
	client := api.NewClient(c.Controller.Host, c.Controller.Port, c.Controller.Version)
	if c.Controller.Timeout > 0 {
		client.SetTimeout(c.Controller.Timeout)
	}
	return client
}
