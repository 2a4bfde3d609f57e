package config

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

var GlobalConfig *Config

// Config global configuration
type Config struct {
	Service ServiceConfig `yaml:"service"`
	Monitor MonitorConfig `yaml:"monitor"`
	Redis   RedisConfig   `yaml:"redis"`
	Server  ServerConfig  `yaml:"server"`
	Logger  LoggerConfig  `yaml:"logger"`
}

// ServiceConfig identity of this worker within the fleet
type ServiceConfig struct {
	SID string `yaml:"sid"` // Service ID, unique per worker; generated when empty
}

// MonitorConfig endpoints of the external monitor process
type MonitorConfig struct {
	HeartbeatURL   string `yaml:"heartbeat_url"`   // Websocket endpoint for the heartbeat request/ack exchange
	ControlChannel string `yaml:"control_channel"` // Redis channel the monitor broadcasts control commands on
}

// RedisConfig Redis configuration
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ServerConfig local ops HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Mode string `yaml:"mode"` // debug, release
}

// LoggerConfig logger configuration
type LoggerConfig struct {
	Level  string           `yaml:"level"`  // debug, info, warn, error
	Output string           `yaml:"output"` // console, file, both
	File   LoggerFileConfig `yaml:"file"`
}

// LoggerFileConfig logger file configuration
type LoggerFileConfig struct {
	Path string `yaml:"path"`
}

// Init initializes configuration from CONFIG_PATH (or config/config.yaml)
func Init() error {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config/config.yaml"
	}

	cfg, err := Load(configPath)
	if err != nil {
		return err
	}

	GlobalConfig = cfg
	return nil
}

// Load reads and validates a configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	applyDefaults(&cfg)
	return &cfg, nil
}

// applyDefaults fills in the well-known monitor endpoints and a generated sid
func applyDefaults(cfg *Config) {
	if cfg.Service.SID == "" {
		cfg.Service.SID = "worker-" + uuid.NewString()
	}
	if cfg.Monitor.HeartbeatURL == "" {
		cfg.Monitor.HeartbeatURL = "ws://localhost:8810/heartbeat"
	}
	if cfg.Monitor.ControlChannel == "" {
		cfg.Monitor.ControlChannel = "monitor:control"
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8830
	}
	if cfg.Logger.Level == "" {
		cfg.Logger.Level = "info"
	}
}
