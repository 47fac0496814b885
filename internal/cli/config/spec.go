package config

import "time"

// Config is the complete hbr-recover configuration.
type Config struct {
	Recover RecoverSection `koanf:"recover" yaml:"recover" json:"recover"`
	Log     LogSection     `koanf:"log" yaml:"log" json:"log"`
	Metrics MetricsSection `koanf:"metrics" yaml:"metrics" json:"metrics"`
}

// RecoverSection controls how a replica folder is turned into a VM.
type RecoverSection struct {
	// VolumeRoot is the datastore mount root absolute disk paths are built on.
	VolumeRoot string `koanf:"volume_root" yaml:"volume_root" json:"volume_root"`

	// BackupDir is the folder, inside the replica folder, the replication
	// artifacts are moved to.
	BackupDir string `koanf:"backup_dir" yaml:"backup_dir" json:"backup_dir"`

	FilterMarker      string `koanf:"filter_marker" yaml:"filter_marker" json:"filter_marker"`
	EmptyBacking      string `koanf:"empty_backing" yaml:"empty_backing" json:"empty_backing"`
	SnapshotExtension string `koanf:"snapshot_extension" yaml:"snapshot_extension" json:"snapshot_extension"`

	// Wait is how long to wait for the index to appear. Zero fails at once.
	Wait time.Duration `koanf:"wait" yaml:"wait" json:"wait"`

	DryRun bool `koanf:"dry_run" yaml:"dry_run" json:"dry_run"`
}

// LogSection configures the logger.
type LogSection struct {
	Level  string `koanf:"level" yaml:"level" json:"level"`
	Format string `koanf:"format" yaml:"format" json:"format"` // text or json
}

// MetricsSection configures the Prometheus textfile.
type MetricsSection struct {
	// Textfile is the path metrics are written to after a run. Empty
	// disables metrics.
	Textfile string `koanf:"textfile" yaml:"textfile" json:"textfile"`
}
