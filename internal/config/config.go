// Package config loads journeymap settings from a TOML file.
package config

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const appName = "journeymap"

type Config struct {
	Canvas  CanvasConfig  `toml:"canvas"`
	Storage StorageConfig `toml:"storage"`
	Export  ExportConfig  `toml:"export"`
	Log     LogConfig     `toml:"log"`
	Server  ServerConfig  `toml:"server"`
}

// CanvasConfig sizes nodes in canvas pixels and maps pixels onto terminal
// cells.
type CanvasConfig struct {
	NodeWidth  float64 `toml:"node_width"`
	NodeHeight float64 `toml:"node_height"`
	CellWidth  float64 `toml:"cell_width"`
	CellHeight float64 `toml:"cell_height"`
	Threshold  float64 `toml:"threshold"`
}

type StorageConfig struct {
	Backend string   `toml:"backend"` // "memory", "file", "bolt", "sqlite", "postgres"
	Path    string   `toml:"path"`
	DSN     string   `toml:"dsn"`
	Timeout Duration `toml:"timeout"`
}

type ExportConfig struct {
	Directory string `toml:"directory"`
}

type LogConfig struct {
	Level       string `toml:"level"`
	File        string `toml:"file"`
	Development bool   `toml:"development"`
}

type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Duration reads TOML strings such as "5s".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func Default() *Config {
	return &Config{
		Canvas: CanvasConfig{
			NodeWidth:  150,
			NodeHeight: 80,
			CellWidth:  10,
			CellHeight: 20,
			Threshold:  35,
		},
		Storage: StorageConfig{
			Backend: "file",
			Path:    filepath.Join(ConfigDir(), "journeys"),
			Timeout: Duration{5 * time.Second},
		},
		Export: ExportConfig{Directory: "."},
		Log: LogConfig{
			Level: "info",
			File:  filepath.Join(ConfigDir(), appName+".log"),
		},
		Server: ServerConfig{Addr: ":3000"},
	}
}

// ConfigDir returns the journeymap config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName)
}

func Path() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file over the defaults, then applies environment
// overrides. A missing file is not an error.
func Load() (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(Path())
	if err != nil && !os.IsNotExist(err) {
		return cfg, err
	}
	if err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return Default(), err
		}
	}
	cfg.Canvas.fill(Default().Canvas)
	cfg.applyEnv()
	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	cfg.Export.Directory = expandHome(cfg.Export.Directory)
	cfg.Log.File = expandHome(cfg.Log.File)
	return cfg, nil
}

// fill replaces non-positive sizes with the defaults; a zero cell size
// would divide by zero when mapping pixels onto cells.
func (c *CanvasConfig) fill(def CanvasConfig) {
	for _, f := range []struct {
		v *float64
		d float64
	}{
		{&c.NodeWidth, def.NodeWidth},
		{&c.NodeHeight, def.NodeHeight},
		{&c.CellWidth, def.CellWidth},
		{&c.CellHeight, def.CellHeight},
		{&c.Threshold, def.Threshold},
	} {
		if *f.v <= 0 || math.IsNaN(*f.v) || math.IsInf(*f.v, 0) {
			*f.v = f.d
		}
	}
}

func (c *Config) applyEnv() {
	if v := os.Getenv("JOURNEYMAP_STORAGE"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("JOURNEYMAP_DSN"); v != "" {
		c.Storage.DSN = v
	}
}

// Save writes cfg to the config file.
func Save(cfg *Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists writes the defaults if there is no config file yet.
func EnsureExists() error {
	if _, err := os.Stat(Path()); err == nil {
		return nil
	}
	return Save(Default())
}

func expandHome(p string) string {
	if !strings.HasPrefix(p, "~") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}
