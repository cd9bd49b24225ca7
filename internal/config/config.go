// Package config resolves avance settings from defaults, a global and a
// project config file, and AVANCE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	dirName  = ".avance"
	fileName = "config.yaml"
)

type Config struct {
	DBPath       string `mapstructure:"db_path"`
	SnapshotPath string `mapstructure:"snapshot_path"`
	LogUseCases  bool   `mapstructure:"log_use_cases"`
	Remote       Remote `mapstructure:"remote"`
	Serve        Serve  `mapstructure:"serve"`
}

// Remote is the file-hosting endpoint snapshots are mirrored to. An empty
// URL disables mirroring.
type Remote struct {
	URL     string        `mapstructure:"url"`
	Token   string        `mapstructure:"token"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type Serve struct {
	Addr string `mapstructure:"addr"`
}

// Enabled reports whether a remote store is configured.
func (r Remote) Enabled() bool { return r.URL != "" }

// Paths overrides where config files are looked up. Empty fields fall back
// to the user's home and working directories.
type Paths struct {
	Home string
	Cwd  string
}

func setDefaults(v *viper.Viper, home string) {
	v.SetDefault("db_path", filepath.Join(home, dirName, "avance.db"))
	v.SetDefault("snapshot_path", "")
	v.SetDefault("log_use_cases", false)
	v.SetDefault("remote.url", "")
	v.SetDefault("remote.token", "")
	v.SetDefault("remote.timeout", 30*time.Second)
	v.SetDefault("serve.addr", "127.0.0.1:8080")
}

// Load merges defaults, ~/.avance/config.yaml, ./.avance/config.yaml and the
// environment. Missing files are skipped; unreadable ones are errors.
func Load(paths Paths) (*Config, error) {
	home := paths.Home
	if home == "" {
		h, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("finding home directory: %w", err)
		}
		home = h
	}
	cwd := paths.Cwd
	if cwd == "" {
		c, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("finding working directory: %w", err)
		}
		cwd = c
	}

	v := viper.New()
	v.SetConfigType("yaml")
	setDefaults(v, home)

	for _, path := range []string{GlobalConfigPath(home), ProjectConfigPath(cwd)} {
		if err := mergeFile(v, path); err != nil {
			return nil, err
		}
	}

	v.SetEnvPrefix("AVANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	cfg.DBPath = expandHome(cfg.DBPath, home)
	cfg.SnapshotPath = expandHome(cfg.SnapshotPath, home)
	return &cfg, nil
}

func mergeFile(v *viper.Viper, path string) error {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("opening config %s: %w", path, err)
	}
	defer f.Close()
	if err := v.MergeConfig(f); err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	return nil
}

func expandHome(p, home string) string {
	if p == "~" {
		return home
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(home, p[2:])
	}
	return p
}

// GlobalConfigPath returns the per-user config file path.
func GlobalConfigPath(home string) string {
	return filepath.Join(home, dirName, fileName)
}

// ProjectConfigPath returns the per-directory config file path.
func ProjectConfigPath(cwd string) string {
	return filepath.Join(cwd, dirName, fileName)
}
