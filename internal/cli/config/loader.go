package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/yndnr/hbr-recover/internal/infra/confloader"
)

// DefaultConfigPath returns the default config file path,
// $XDG_CONFIG_HOME/hbr-recover/config.yaml or its platform equivalent.
func DefaultConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = "."
	}
	return filepath.Join(dir, "hbr-recover", "config.yaml")
}

// Load builds the effective configuration.
//
// An empty path uses DefaultConfigPath and tolerates its absence; an explicit
// path must exist. overrides holds flag values keyed by dotted config key,
// e.g. "recover.dry_run". The result is verified.
func Load(path string, overrides map[string]any) (*Config, error) {
	src := confloader.Sources{
		File:         path,
		FileOptional: path == "",
		Overrides:    overrides,
	}
	if src.FileOptional {
		src.File = DefaultConfigPath()
	}

	cfg := Default()
	if err := confloader.NewLoader().Load(cfg, src); err != nil {
		return nil, err
	}
	if err := Verify(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Save writes cfg as YAML to path, creating parent directories. An empty
// path uses DefaultConfigPath.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	return os.WriteFile(path, data, 0640)
}
