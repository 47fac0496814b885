package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/urfave/cli/v2"

	"github.com/yndnr/hbr-recover/internal/cli/config"
	"github.com/yndnr/hbr-recover/internal/cli/output"
	"github.com/yndnr/hbr-recover/internal/core/service"
	"github.com/yndnr/hbr-recover/internal/infra/buildinfo"
	"github.com/yndnr/hbr-recover/internal/infra/shutdown"
	"github.com/yndnr/hbr-recover/internal/replica"
	"github.com/yndnr/hbr-recover/internal/replica/folder"
	"github.com/yndnr/hbr-recover/internal/telemetry/logger"
	"github.com/yndnr/hbr-recover/internal/telemetry/metric"
	"github.com/yndnr/hbr-recover/internal/vmx"
)

// kindIndex is the manifest kind of the archived replication index.
const kindIndex = "index"

// RecoverCommand returns the recover command.
func RecoverCommand() *cli.Command {
	return &cli.Command{
		Name:      "recover",
		Usage:     "Rebuild the VM config and snapshot chain of a replica folder",
		ArgsUsage: "FOLDER",
		Description: "Reads the hbrgrp.*.txt index in FOLDER, writes <vm>.vmx, <vm>.nvram, <vm>.vmsd and one\n" +
			"snapshot-state file per restore point, then moves the replication artifacts into the backup folder.",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "dry-run",
				Usage: "Synthesize and report without writing or moving anything",
			},
			&cli.DurationFlag{
				Name:  "wait",
				Usage: "Wait up to `DURATION` for the index to appear",
			},
			&cli.StringFlag{
				Name:  "volume-root",
				Usage: "Datastore mount root for absolute disk paths",
			},
			&cli.StringFlag{
				Name:  "backup-dir",
				Usage: "Folder name, inside FOLDER, the replication artifacts are moved to",
			},
			&cli.StringFlag{
				Name:  "snapshot-extension",
				Usage: "Snapshot-state file extension",
			},
			&cli.BoolFlag{
				Name:  "progress",
				Usage: "Print one line per committed file to stderr",
			},
		},
		Action: runRecover,
	}
}

// recoverOverrides maps explicitly set recover flags to config keys.
func recoverOverrides(c *cli.Context) map[string]any {
	o := make(map[string]any)
	if c.IsSet("dry-run") {
		o["recover.dry_run"] = c.Bool("dry-run")
	}
	if c.IsSet("wait") {
		o["recover.wait"] = c.Duration("wait")
	}
	if c.IsSet("volume-root") {
		o["recover.volume_root"] = c.String("volume-root")
	}
	if c.IsSet("backup-dir") {
		o["recover.backup_dir"] = c.String("backup-dir")
	}
	if c.IsSet("snapshot-extension") {
		o["recover.snapshot_extension"] = c.String("snapshot-extension")
	}
	return o
}

func runRecover(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("recover takes exactly one replica folder, got %d arguments", c.NArg())
	}

	cfg, err := loadConfig(c, recoverOverrides(c))
	if err != nil {
		return err
	}
	log, err := newLogger(c, cfg)
	if err != nil {
		return err
	}

	parent := c.Context
	if parent == nil {
		parent = context.Background()
	}
	runID := ulid.Make().String()
	ctx := logger.WithLogger(logger.WithRunID(parent, runID), log)
	ctx, stop := shutdown.WithSignals(ctx, logger.L(ctx))
	defer stop()

	r := &recovery{
		cfg:     cfg,
		runID:   runID,
		metrics: metric.NewRegistry(),
	}
	if c.Bool("progress") {
		r.progress = errWriter(c)
	}

	start := time.Now()
	summary, err := r.run(ctx, c.Args().First())
	result := metric.ResultSuccess
	switch {
	case err != nil:
		result = metric.ResultFailure
	case cfg.Recover.DryRun:
		result = metric.ResultDryRun
	}
	r.metrics.Finish(result, start, time.Now())
	if cfg.Metrics.Textfile != "" {
		if werr := r.metrics.WriteTextfile(cfg.Metrics.Textfile); werr != nil {
			logger.L(ctx).Warn("metrics not written", "path", cfg.Metrics.Textfile, "error", werr)
		}
	}

	if err != nil {
		if sig, ok := shutdown.Interrupted(ctx); ok {
			return fmt.Errorf("interrupted by %s, nothing committed: %w", sig, err)
		}
		return err
	}
	return summary.Render(outWriter(c), ParseGlobalFlags(c))
}

// recovery is one recover run over a replica folder.
type recovery struct {
	cfg      *config.Config
	runID    string
	metrics  *metric.Registry
	progress io.Writer
}

// run synthesizes the artifact set of dir and, unless dry-running, commits
// it and archives the replication artifacts.
func (r *recovery) run(ctx context.Context, dir string) (*Summary, error) {
	log := logger.L(ctx)

	f, err := folder.Open(dir, log)
	if err != nil {
		return nil, err
	}
	indexPath, err := f.WaitForIndex(ctx, r.cfg.Recover.Wait)
	if err != nil {
		return nil, err
	}
	indexName := filepath.Base(indexPath)
	log.Info("index found", "folder", f.Dir(), "index", indexName)

	res, err := r.synthesize(ctx, f, indexName)
	if err != nil {
		return nil, err
	}
	r.metrics.RestorePoints.Set(float64(res.Count))

	artifacts := res.Artifacts()
	outputs := make([]string, 0, len(artifacts))
	for _, a := range artifacts {
		outputs = append(outputs, a.Name)
	}
	src := sourceKinds(indexName, res)
	if err := f.Preflight(outputs, src.names, r.cfg.Recover.BackupDir); err != nil {
		return nil, err
	}

	summary := newSummary(r.runID, f, r.cfg, res, src)
	if r.cfg.Recover.DryRun {
		log.Info("dry run, nothing written", "vm", res.VMName, "files", len(artifacts))
		return summary, nil
	}

	if err := r.commit(ctx, f, res, src); err != nil {
		return nil, err
	}
	log.Info("recovery committed",
		"vm", res.VMName,
		"snapshots", res.Count,
		"backup", f.Path(r.cfg.Recover.BackupDir),
	)
	return summary, nil
}

func (r *recovery) synthesize(ctx context.Context, f *folder.Folder, indexName string) (*service.RecoveryResult, error) {
	file, err := os.Open(f.Path(indexName))
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	defer file.Close()

	rc := r.cfg.Recover
	svc := service.NewRecoveryService(f,
		service.WithRewriter(vmx.NewRewriter(
			vmx.WithFilterMarker(rc.FilterMarker),
			vmx.WithEmptyBacking(rc.EmptyBacking),
		)),
		service.WithResolverOptions(replica.WithVolumeRoot(rc.VolumeRoot)),
		service.WithSnapshotExtension(rc.SnapshotExtension),
		service.WithLogger(logger.FromContext(ctx)),
	)
	return svc.Recover(ctx, file)
}

// commit writes the artifacts, archives the sources and records the
// manifest in one transaction.
func (r *recovery) commit(ctx context.Context, f *folder.Folder, res *service.RecoveryResult, src *sourceSet) (err error) {
	log := logger.L(ctx)
	backup := r.cfg.Recover.BackupDir
	artifacts := res.Artifacts()
	progress := output.NewProgress(r.progress, "committed", len(artifacts)+len(src.names))

	txn := f.Begin()
	defer func() {
		if err == nil {
			return
		}
		if rerr := txn.Rollback(); rerr != nil {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rerr))
			return
		}
		log.Warn("recovery rolled back", "error", err)
	}()

	manifest := folder.NewManifest(r.runID, buildinfo.Version, res.VMName, len(res.Snapshots), time.Now())

	for _, a := range artifacts {
		n, err := txn.Write(ctx, a.Name, a.Data)
		if err != nil {
			return err
		}
		r.metrics.BytesWritten.Add(float64(n))
		if a.Kind == service.KindSnapshot {
			r.metrics.SnapshotsWritten.Inc()
		}
		manifest.Add(a.Name, folder.RoleProduced, a.Kind, a.Data)
		progress.File(a.Name, n)
	}

	if err := txn.Mkdir(ctx, backup); err != nil {
		return err
	}
	for _, name := range src.names {
		data, err := f.ReadFile(name)
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if err := txn.Move(ctx, name, backup); err != nil {
			return err
		}
		r.metrics.FilesArchived.Inc()
		manifest.Add(name, folder.RoleArchived, src.kinds[name], data)
		progress.File(name, int64(len(data)))
	}

	if err := txn.WriteManifest(ctx, backup, manifest); err != nil {
		return err
	}
	if err := txn.Commit(); err != nil {
		return err
	}
	progress.Finish()
	return nil
}

// sourceSet holds the replication artifacts a recovery archives.
type sourceSet struct {
	names []string
	kinds map[string]string
}

func sourceKinds(indexName string, res *service.RecoveryResult) *sourceSet {
	s := &sourceSet{
		names: append([]string{indexName}, res.SourceFiles...),
		kinds: map[string]string{indexName: kindIndex},
	}
	for _, inst := range res.Instances {
		s.kinds[inst.ConfigFile] = service.KindConfig
		s.kinds[inst.FirmwareFile] = service.KindFirmware
	}
	return s
}
