package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	// InstallRoot holds one immutable directory per fetched version plus
	// the `current` symlink pointing at the active one.
	InstallRoot string `toml:"install_root"`
	// BinDir is the executable search path directory that receives one
	// symlink per regular file under `current`.
	BinDir string `toml:"bin_dir"`

	URLTemplate string `toml:"url_template"`
	// EntryPoint is the file whose presence inside a version directory
	// marks that version as fully fetched.
	EntryPoint string `toml:"entry_point"`

	DaemonName   string `toml:"daemon_name"`
	DaemonBinary string `toml:"daemon_binary"`

	Supervisor Supervisor `toml:"supervisor"`

	Prerequisites    []string `toml:"prerequisites"`
	ConfigureCommand string   `toml:"configure_command"`

	HistoryDB   string   `toml:"history_db"`
	MaxParallel int      `toml:"max_parallel"`
	Timeout     duration `toml:"download_timeout"`
}

// Supervisor describes the process-supervision wrapper the daemon runs
// under, invoked as `<command> -- <daemon-binary>`.
type Supervisor struct {
	Command string `toml:"command"`
	Package string `toml:"package"`
}

type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

func DefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	base := filepath.Join(home, ".stevedore")

	return &Config{
		InstallRoot:  "/opt/docker",
		BinDir:       "/usr/bin",
		URLTemplate:  "https://get.docker.com/builds/Linux/x86_64/docker-{version}.tgz",
		EntryPoint:   "docker",
		DaemonName:   "docker",
		DaemonBinary: "dockerd",
		Supervisor: Supervisor{
			Command: "dumb-init",
			Package: "dumb-init",
		},
		Prerequisites:    []string{"curl", "ca-certificates"},
		ConfigureCommand: "",
		HistoryDB:        filepath.Join(base, "history.db"),
		MaxParallel:      4,
		Timeout:          duration{1 * time.Hour},
	}
}

func Load() (*Config, error) {
	cfg := DefaultConfig()

	home, err := os.UserHomeDir()
	if err != nil {
		return cfg, nil
	}

	configPath := filepath.Join(home, ".stevedore", "config.toml")

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(configPath, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func Save(cfg *Config) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	configPath := filepath.Join(home, ".stevedore", "config.toml")

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return err
	}
	f, err := os.Create(configPath)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// DownloadTimeout returns the configured timeout as a plain duration.
func (c *Config) DownloadTimeout() time.Duration {
	return c.Timeout.Duration
}
