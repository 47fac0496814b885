package config

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/yndnr/hbr-recover/internal/telemetry/logger"
)

// Verify validates the configuration.
func Verify(cfg *Config) error {
	if err := verifyRecover(&cfg.Recover); err != nil {
		return err
	}
	return verifyLog(&cfg.Log)
}

func verifyRecover(cfg *RecoverSection) error {
	if cfg.VolumeRoot == "" || !path.IsAbs(cfg.VolumeRoot) {
		return fmt.Errorf("recover.volume_root must be an absolute path, got %q", cfg.VolumeRoot)
	}
	if err := plainName("recover.backup_dir", cfg.BackupDir); err != nil {
		return err
	}
	if err := plainName("recover.snapshot_extension", strings.TrimPrefix(cfg.SnapshotExtension, ".")); err != nil {
		return err
	}
	if cfg.FilterMarker == "" {
		return errors.New("recover.filter_marker is required")
	}
	if cfg.EmptyBacking == "" {
		return errors.New("recover.empty_backing is required")
	}
	if cfg.Wait < 0 {
		return fmt.Errorf("recover.wait must not be negative, got %s", cfg.Wait)
	}
	return nil
}

func verifyLog(cfg *LogSection) error {
	if !logger.ValidLevel(cfg.Level) {
		return fmt.Errorf("log.level %q is not one of debug, info, warn, error", cfg.Level)
	}
	switch cfg.Format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("log.format %q is not one of text, json", cfg.Format)
	}
}

// plainName rejects empty values and anything that is not a single path
// element.
func plainName(key, v string) error {
	if v == "" {
		return fmt.Errorf("%s is required", key)
	}
	if v == "." || v == ".." || strings.ContainsAny(v, `/\`) {
		return fmt.Errorf("%s must be a plain file name, got %q", key, v)
	}
	return nil
}
