package confloader

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the default environment variable prefix.
const DefaultEnvPrefix = "HBR_RECOVER_"

// Sources names what Load reads.
type Sources struct {
	// File is the YAML config file. Empty skips it.
	File string
	// FileOptional tolerates a missing File.
	FileOptional bool
	// Overrides are flag values keyed by dotted path, e.g. "recover.dry_run".
	Overrides map[string]any
}

// Loader accumulates configuration layers.
type Loader struct {
	k         *koanf.Koanf
	envPrefix string
}

// Option configures a Loader.
type Option func(*Loader)

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) {
		l.envPrefix = prefix
	}
}

// NewLoader creates an empty Loader.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		k:         koanf.New("."),
		envPrefix: DefaultEnvPrefix,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load layers src over whatever target already holds and unmarshals the
// result into it. target is normally pre-filled with defaults, so keys no
// source sets keep their default.
func (l *Loader) Load(target any, src Sources) error {
	if src.File != "" {
		if src.FileOptional {
			if _, err := l.LoadOptionalFile(src.File); err != nil {
				return err
			}
		} else if err := l.LoadFile(src.File); err != nil {
			return err
		}
	}
	if err := l.LoadEnv(); err != nil {
		return err
	}
	if err := l.LoadMap(src.Overrides); err != nil {
		return err
	}
	if err := l.Unmarshal(target); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	return nil
}

// LoadFile loads a YAML file, which must exist.
func (l *Loader) LoadFile(path string) error {
	if err := l.k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return fmt.Errorf("load config file %s: %w", path, err)
	}
	return nil
}

// LoadOptionalFile loads a YAML file if it exists and reports whether it did.
func (l *Loader) LoadOptionalFile(path string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("config file: %w", err)
	}
	return true, l.LoadFile(path)
}

// LoadEnv loads HBR_RECOVER_SECTION_KEY variables. The first underscore
// after the prefix ends the section:
// HBR_RECOVER_RECOVER_VOLUME_ROOT sets recover.volume_root.
func (l *Loader) LoadEnv() error {
	provider := env.Provider(l.envPrefix, ".", func(s string) string {
		return EnvKey(l.envPrefix, s)
	})
	if err := l.k.Load(provider, nil); err != nil {
		return fmt.Errorf("load env: %w", err)
	}
	return nil
}

// EnvKey maps an environment variable name to a config key:
// HBR_RECOVER_RECOVER_BACKUP_DIR -> recover.backup_dir.
func EnvKey(prefix, name string) string {
	s := strings.ToLower(strings.TrimPrefix(name, prefix))
	section, key, ok := strings.Cut(s, "_")
	if !ok {
		return section
	}
	return section + "." + key
}

// LoadMap loads dotted-key overrides. A nil or empty map is a no-op.
func (l *Loader) LoadMap(data map[string]any) error {
	if len(data) == 0 {
		return nil
	}
	if err := l.k.Load(mapProvider(data), nil); err != nil {
		return fmt.Errorf("load overrides: %w", err)
	}
	return nil
}

// Unmarshal decodes the merged layers into target using koanf tags.
// Duration fields accept strings such as "30s".
func (l *Loader) Unmarshal(target any) error {
	return l.k.Unmarshal("", target)
}

// Keys returns the keys set by any loaded layer, sorted.
func (l *Loader) Keys() []string {
	return l.k.Keys()
}
