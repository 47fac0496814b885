package service

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/yndnr/hbr-recover/internal/core/domain"
	"github.com/yndnr/hbr-recover/internal/replica"
	"github.com/yndnr/hbr-recover/internal/replica/index"
	"github.com/yndnr/hbr-recover/internal/storage/vmsd"
	"github.com/yndnr/hbr-recover/internal/storage/vmsn"
	"github.com/yndnr/hbr-recover/internal/telemetry/logger"
	"github.com/yndnr/hbr-recover/internal/vmx"
)

// Artifact kinds.
const (
	KindSnapshot   = "snapshot"
	KindDescriptor = "descriptor"
	KindConfig     = "config"
	KindFirmware   = "firmware"
)

// Artifact is one output file of a recovery.
type Artifact struct {
	Name string `json:"name" yaml:"name"`
	Kind string `json:"kind" yaml:"kind"`
	Data []byte `json:"-" yaml:"-"`
}

// Size returns the artifact length in bytes.
func (a Artifact) Size() int {
	return len(a.Data)
}

// RecoveryResult is the synthesized artifact set of one replica folder.
type RecoveryResult struct {
	VMName string
	Count  int

	// Snapshots are ordered newest first, the order they were produced in.
	Snapshots  []Artifact
	Descriptor Artifact
	Config     Artifact
	Firmware   Artifact

	// LiveDisks is the disk placement the rewritten config points at.
	LiveDisks []domain.DiskRef

	// SourceFiles are the replica folder files the index references.
	SourceFiles []string

	Instances []*domain.Instance
}

// Artifacts returns every output in write order: snapshots, descriptor,
// config, firmware.
func (r *RecoveryResult) Artifacts() []Artifact {
	out := make([]Artifact, 0, len(r.Snapshots)+3)
	out = append(out, r.Snapshots...)
	return append(out, r.Descriptor, r.Config, r.Firmware)
}

// RecoveryService rebuilds a standalone machine and its snapshot chain from a
// replication index.
type RecoveryService struct {
	source       replica.Source
	rewriter     *vmx.Rewriter
	resolverOpts []replica.ResolverOption
	snapshotExt  string
	logger       logger.Logger
}

// RecoveryOption configures a RecoveryService.
type RecoveryOption func(*RecoveryService)

// WithRewriter sets the machine config rewriter.
func WithRewriter(r *vmx.Rewriter) RecoveryOption {
	return func(s *RecoveryService) {
		if r != nil {
			s.rewriter = r
		}
	}
}

// WithResolverOptions passes options to the disk resolver.
func WithResolverOptions(opts ...replica.ResolverOption) RecoveryOption {
	return func(s *RecoveryService) {
		s.resolverOpts = append(s.resolverOpts, opts...)
	}
}

// WithSnapshotExtension sets the snapshot file extension, "vmsn" by default.
func WithSnapshotExtension(ext string) RecoveryOption {
	return func(s *RecoveryService) {
		if ext != "" {
			s.snapshotExt = ext
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(l logger.Logger) RecoveryOption {
	return func(s *RecoveryService) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewRecoveryService creates a RecoveryService reading restore point files
// from source.
func NewRecoveryService(source replica.Source, opts ...RecoveryOption) *RecoveryService {
	s := &RecoveryService{
		source:      source,
		rewriter:    vmx.NewRewriter(),
		snapshotExt: vmsn.FileExtension,
		logger:      logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Recover parses the index read from r and synthesizes the artifact set.
// Nothing is written; the caller commits the result.
func (s *RecoveryService) Recover(ctx context.Context, r io.Reader) (*RecoveryResult, error) {
	tree, err := index.Parse(r)
	if err != nil {
		return nil, err
	}
	return s.RecoverTree(ctx, tree)
}

// RecoverTree synthesizes the artifact set from a parsed index.
func (s *RecoveryService) RecoverTree(ctx context.Context, tree *index.Tree) (*RecoveryResult, error) {
	log := s.logger.WithContext(ctx)
	if id := logger.RunIDFromContext(ctx); id != "" {
		log = log.With("run_id", id)
	}
	start := time.Now()

	// 1. Load restore points
	loader := replica.NewLoader(tree, s.source, replica.NewResolver(tree, s.resolverOpts...), log)
	instances, err := loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	count := len(instances)
	log.Info("restore points loaded", "count", count)

	// 2. Snapshots, newest first
	chain := vmsd.NewBuilder(count)
	snapshots := make([]Artifact, 0, count)
	for uid := count; uid >= 1; uid-- {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		snap, entry, err := s.snapshot(instances[uid-1], uid)
		if err != nil {
			return nil, err
		}
		if err := chain.Add(entry); err != nil {
			return nil, err
		}
		snapshots = append(snapshots, snap)
		log.Info("snapshot synthesized",
			"uid", uid,
			"file", snap.Name,
			"restore_point", entry.Timestamp,
			"bytes", snap.Size(),
		)
	}

	descriptor, err := chain.Render()
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 3. Live state from the newest restore point
	newest := instances[count-1]
	vmName, err := vmx.Value(newest.ConfigLines, vmx.KeyDisplayName)
	if err != nil {
		return nil, fmt.Errorf("restore point %d: %w", newest.Index, err)
	}
	live, err := loader.LiveDisks(newest, count)
	if err != nil {
		return nil, err
	}
	for _, d := range live {
		log.Debug("live disk", "node", d.Node, "file", d.Filename, "path", d.AbsolutePath)
	}

	result := &RecoveryResult{
		VMName:    vmName,
		Count:     count,
		Snapshots: snapshots,
		Descriptor: Artifact{
			Name: vmName + vmsd.FileExtension,
			Kind: KindDescriptor,
			Data: []byte(descriptor),
		},
		Config: Artifact{
			Name: vmName + ".vmx",
			Kind: KindConfig,
			Data: []byte(s.rewriter.Rewrite(newest.ConfigLines, live)),
		},
		Firmware: Artifact{
			Name: vmName + ".nvram",
			Kind: KindFirmware,
			Data: newest.Firmware,
		},
		LiveDisks:   live,
		SourceFiles: replica.SourceFiles(instances),
		Instances:   instances,
	}

	log.Info("recovery synthesized",
		"vm", vmName,
		"snapshots", count,
		"duration", time.Since(start),
	)
	return result, nil
}

// snapshot encodes one restore point and builds its chain entry.
func (s *RecoveryService) snapshot(inst *domain.Instance, uid int) (Artifact, vmsd.Entry, error) {
	name, err := vmx.Value(inst.ConfigLines, vmx.KeyDisplayName)
	if err != nil {
		return Artifact{}, vmsd.Entry{}, fmt.Errorf("restore point %d: %w", inst.Index, err)
	}
	filename := vmsd.SnapshotFilename(name, uid, s.snapshotExt)

	config := s.rewriter.Rewrite(inst.ConfigLines, inst.Disks)
	data := vmsn.Encode(config, inst.Firmware)

	disks := make([]vmsd.Disk, 0, len(inst.Disks))
	for _, d := range inst.Disks {
		disks = append(disks, vmsd.Disk{FileName: d.Filename, Node: d.Node})
	}

	entry := vmsd.Entry{
		UID:       uid,
		Filename:  filename,
		Timestamp: inst.Timestamp,
		Created:   inst.Created,
		Disks:     disks,
	}
	return Artifact{Name: filename, Kind: KindSnapshot, Data: data}, entry, nil
}
