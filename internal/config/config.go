// Package config handles configuration loading for the viewer.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the viewer configuration file structure. Every field
// has a working default so running without a file is fine.
type Config struct {
	Addr      string `yaml:"addr,omitempty"`
	Port      int    `yaml:"port,omitempty"`
	Zoom      int    `yaml:"zoom,omitempty"`
	QueueSize int    `yaml:"queue_size,omitempty"`
	LockPath  string `yaml:"lock_path,omitempty"`
	Workers   int    `yaml:"workers,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Addr:      "127.0.0.1",
		Zoom:      4,
		QueueSize: 1024,
	}
}

// Override applies explicitly set CLI values on top of the file config.
// Zero values mean the flag was not given and leave the file value alone,
// so flags always win over the file and the file wins over built-ins.
func (c *Config) Override(addr string, port, zoom int) {
	if addr != "" {
		c.Addr = addr
	}
	if port > 0 {
		c.Port = port
	}
	if zoom > 0 {
		c.Zoom = zoom
	}
}

// Load reads and parses the YAML configuration file from the specified
// path. A missing file yields the defaults; a broken one is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
