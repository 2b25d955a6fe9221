// Package config loads reel's TOML configuration.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"emperror.dev/errors"
	"github.com/adrg/xdg"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const appName = "reel"

// Backend names.
const (
	BackendAuto = "auto"
	BackendBeep = "beep"
	BackendMpv  = "mpv"
)

type Config struct {
	Icons   string   `koanf:"icons"`   // "nerd", "unicode", or "none"
	Backend string   `koanf:"backend"` // "auto", "beep" or "mpv"
	Volume  *float64 `koanf:"volume"`  // 0.0 - 1.0 (default: 1.0)
	Notify  bool     `koanf:"notify"`  // desktop "now playing" notifications

	Wind   WindConfig   `koanf:"wind"`
	Mpv    MpvConfig    `koanf:"mpv"`
	Remote RemoteConfig `koanf:"remote"`
	Theme  ThemeConfig  `koanf:"theme"`
	Log    LogConfig    `koanf:"log"`
}

// WindConfig holds the rewind/fast-forward pacing.
type WindConfig struct {
	Step     string `koanf:"step"`     // jump per tick (default: "3s")
	Interval string `koanf:"interval"` // tick period (default: "200ms")
}

// MpvConfig holds the video backend settings.
type MpvConfig struct {
	Binary  string   `koanf:"binary"`  // default: "mpv"
	Socket  string   `koanf:"socket"`  // IPC socket path (default: XDG runtime dir)
	Timeout string   `koanf:"timeout"` // per-request timeout (default: "2s")
	Args    []string `koanf:"args"`    // extra mpv flags
}

// RemoteConfig holds the web remote settings.
type RemoteConfig struct {
	Enabled bool   `koanf:"enabled"`
	Addr    string `koanf:"addr"` // default: "127.0.0.1:7788"
}

// ThemeConfig holds the accent colors.
type ThemeConfig struct {
	Primary   string `koanf:"primary"`
	Secondary string `koanf:"secondary"`
}

// LogConfig holds the log file settings.
type LogConfig struct {
	Level string `koanf:"level"` // default: "info"
	File  string `koanf:"file"`  // default: $XDG_STATE_HOME/reel/reel.log
}

// Load reads the default config locations, then extra if it is not empty.
// A missing extra file is an error; missing default files are skipped.
func Load(extra string) (*Config, error) {
	k := koanf.New(".")

	// Later files override earlier ones
	for _, path := range getConfigPaths() {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
				return nil, errors.Wrapf(err, "load %s", path)
			}
		}
	}
	if extra != "" {
		extra = expandPath(extra)
		if err := k.Load(file.Provider(extra), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, "load %s", extra)
		}
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	cfg.Backend = strings.ToLower(strings.TrimSpace(cfg.Backend))
	cfg.Mpv.Socket = expandPath(cfg.Mpv.Socket)
	cfg.Log.File = expandPath(cfg.Log.File)

	return cfg, nil
}

func getConfigPaths() []string {
	return []string{
		// 1. $XDG_CONFIG_HOME/reel/config.toml
		filepath.Join(xdg.ConfigHome, appName, "config.toml"),
		// 2. ./config.toml (pwd)
		"config.toml",
	}
}

func expandPath(path string) string {
	if path != "" && path[0] == '~' {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}

// GetBackend returns the configured backend, or BackendAuto when unset or
// unknown.
func (c *Config) GetBackend() string {
	switch c.Backend {
	case BackendBeep, BackendMpv:
		return c.Backend
	}
	return BackendAuto
}

// GetVolume returns the initial volume, clamped to [0, 1].
func (c *Config) GetVolume() float64 {
	if c.Volume == nil {
		return 1
	}
	return min(max(*c.Volume, 0), 1)
}

// WindSettings is WindConfig with durations parsed.
type WindSettings struct {
	Step     time.Duration
	Interval time.Duration
}

// GetWindSettings returns the wind pacing with defaults applied.
func (c *Config) GetWindSettings() WindSettings {
	return WindSettings{
		Step:     parseDuration(c.Wind.Step, 3*time.Second),
		Interval: parseDuration(c.Wind.Interval, 200*time.Millisecond),
	}
}

// MpvSettings is MpvConfig with defaults applied.
type MpvSettings struct {
	Binary  string
	Socket  string
	Timeout time.Duration
	Args    []string
}

// GetMpvSettings returns the mpv settings with defaults applied.
func (c *Config) GetMpvSettings() MpvSettings {
	binary := c.Mpv.Binary
	if binary == "" {
		binary = "mpv"
	}
	return MpvSettings{
		Binary:  binary,
		Socket:  c.Mpv.Socket,
		Timeout: parseDuration(c.Mpv.Timeout, 2*time.Second),
		Args:    c.Mpv.Args,
	}
}

// GetRemoteConfig returns the remote settings with defaults applied.
func (c *Config) GetRemoteConfig() RemoteConfig {
	cfg := c.Remote
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:7788"
	}
	return cfg
}

// GetLogConfig returns the log settings with defaults applied.
func (c *Config) GetLogConfig() LogConfig {
	cfg := c.Log
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	if cfg.File == "" {
		cfg.File = filepath.Join(xdg.StateHome, appName, appName+".log")
	}
	return cfg
}

// parseDuration returns def for empty, invalid or non-positive values.
func parseDuration(s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
