package main

import (
	"os"
	"path/filepath"

	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

// Config represents the bds configuration file (~/.config/bds/config.yaml).
// Pointers distinguish "not set" from zero values.
type Config struct {
	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
	Quiet     *bool  `yaml:"quiet"`

	MaxElements *uint64 `yaml:"max_elements"`

	// Server
	ServerAddress string `yaml:"server_address"`
}

// configPath honours $BDS_CONFIG, then the user config dir.
func configPath() string {
	if p := os.Getenv("BDS_CONFIG"); p != "" {
		return p
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "bds", "config.yaml")
}

// applyConfig applies config file defaults to global options when the
// corresponding flag was not explicitly set.
func applyConfig(c *cli.Command, cfg Config, o *options) {
	if cfg.LogLevel != "" && !c.IsSet("log-level") {
		o.logLevel = cfg.LogLevel
	}
	if cfg.LogFormat != "" && !c.IsSet("log-format") {
		o.logFormat = cfg.LogFormat
	}
	if cfg.Quiet != nil && !c.IsSet("quiet") {
		o.quiet = *cfg.Quiet
	}
	if cfg.MaxElements != nil && !c.IsSet("max-elements") {
		o.maxElements = *cfg.MaxElements
	}
}

// applyServeConfig applies config file defaults to serve command variables.
func applyServeConfig(c *cli.Command, cfg Config, addr *string) {
	if cfg.ServerAddress != "" && !c.IsSet("addr") {
		*addr = cfg.ServerAddress
	}
}

// LoadConfig reads the config file. Returns a zero Config if the file doesn't exist.
func LoadConfig(path string) Config {
	if path == "" {
		return Config{}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}
	}
	return cfg
}
