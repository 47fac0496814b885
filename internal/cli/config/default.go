package config

import (
	"github.com/yndnr/hbr-recover/internal/replica"
	"github.com/yndnr/hbr-recover/internal/vmx"
)

// Default configuration values.
const (
	DefaultBackupDir         = "backup"
	DefaultSnapshotExtension = "vmsn"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Recover: RecoverSection{
			VolumeRoot:        replica.DefaultVolumeRoot,
			BackupDir:         DefaultBackupDir,
			FilterMarker:      vmx.DefaultFilterMarker,
			EmptyBacking:      vmx.DefaultEmptyBacking,
			SnapshotExtension: DefaultSnapshotExtension,
		},
		Log: LogSection{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}
