// Package config loads fixture defaults from an optional TOML file.
//
// Everything has a working zero-config default; the file exists so CI
// environments with unusual sshd locations or slow startup can adjust
// without touching test code.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Config contains fixture-wide settings.
type Config struct {
	// SSHDPath is the daemon binary. Empty means probe common locations
	// and PATH.
	SSHDPath string `toml:"sshd_path"`
	// ListenHost is the address the ephemeral port is reserved on and the
	// daemon is told to listen on.
	ListenHost string `toml:"listen_host"`
	// ReadyTimeoutSeconds bounds the poll-until-accepting wait after launch.
	ReadyTimeoutSeconds int `toml:"ready_timeout_seconds"`
	// OutputBacklog is the drained-log-line channel capacity.
	OutputBacklog int    `toml:"output_backlog"`
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
}

// Default returns the baseline configuration.
func Default() Config {
	return Config{
		ListenHost:          "127.0.0.1",
		ReadyTimeoutSeconds: 10,
		OutputBacklog:       256,
		LogLevel:            "info",
		LogFormat:           "text",
	}
}

// ReadyTimeout returns the ready wait as a duration.
func (c Config) ReadyTimeout() time.Duration {
	return time.Duration(c.ReadyTimeoutSeconds) * time.Second
}

// Load reads path over the defaults. A missing file is not an error when
// path is empty; an explicitly named file must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := strings.TrimSpace(path) != ""
	if !explicit {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// DefaultPath returns the conventional config location.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sshdtest.toml"
	}
	return filepath.Join(home, ".config", "sshdtest", "config.toml")
}

// Sample returns the annotated sample configuration file.
func Sample() string {
	return sampleConfig
}

func (c Config) validate() error {
	if strings.TrimSpace(c.ListenHost) == "" {
		return errors.New("listen_host must not be empty")
	}
	if c.ReadyTimeoutSeconds < 0 {
		return errors.New("ready_timeout_seconds must not be negative")
	}
	if c.OutputBacklog < 0 {
		return errors.New("output_backlog must not be negative")
	}
	return nil
}
