package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Backend names
const (
	BackendDevPort = "devport"
	BackendSim     = "sim"
)

// Config holds the tool configuration.
type Config struct {
	BaseAddress uint32 `yaml:"base_address"`
	SysfsDevice string `yaml:"sysfs_device"`
	Backend     string `yaml:"backend"`
	DevPortPath string `yaml:"devport_path"`
	LogLevel    string `yaml:"log_level"`
	Verify      bool   `yaml:"verify"`
	Format      string `yaml:"format"`
}

func defaultConfig() Config {
	return Config{
		Backend:  BackendDevPort,
		LogLevel: "info",
		Format:   "text",
	}
}

// LoadConfig decodes the YAML file at path over cfg.
func LoadConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks that a device is named and the options are known.
func (c *Config) Validate() error {
	if c.BaseAddress == 0 && c.SysfsDevice == "" {
		return errors.New("no device: set base_address or sysfs_device")
	}
	switch c.Backend {
	case BackendDevPort, BackendSim:
	default:
		return fmt.Errorf("unknown backend %q (want %s or %s)", c.Backend, BackendDevPort, BackendSim)
	}
	switch c.Format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unknown format %q (want text, json or yaml)", c.Format)
	}
	if _, err := parseLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}

// hexFlag accepts 0x-prefixed or decimal addresses.
type hexFlag struct{ v *uint32 }

func (h hexFlag) String() string {
	if h.v == nil {
		return "0"
	}
	return fmt.Sprintf("%#x", *h.v)
}

func (h hexFlag) Set(s string) error {
	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return fmt.Errorf("bad address %q: %w", s, err)
	}
	*h.v = uint32(v)
	return nil
}
