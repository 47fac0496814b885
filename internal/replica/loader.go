package replica

import (
	"context"
	"fmt"

	"github.com/yndnr/hbr-recover/internal/core/domain"
	"github.com/yndnr/hbr-recover/internal/replica/index"
	"github.com/yndnr/hbr-recover/internal/telemetry/logger"
	"github.com/yndnr/hbr-recover/internal/vmx"
)

// Source reads replica folder files by name.
type Source interface {
	ReadFile(name string) ([]byte, error)
}

// Loader builds restore points from an index tree.
type Loader struct {
	tree     *index.Tree
	source   Source
	resolver *Resolver
	logger   logger.Logger
}

// NewLoader creates a Loader. A nil log discards messages.
func NewLoader(tree *index.Tree, source Source, resolver *Resolver, log logger.Logger) *Loader {
	if log == nil {
		log = logger.Discard()
	}
	return &Loader{
		tree:     tree,
		source:   source,
		resolver: resolver,
		logger:   log,
	}
}

// Count returns the number of restore points, group.instances.
func (l *Loader) Count() (int, error) {
	n, err := l.tree.Int("group.instances")
	if err != nil {
		return 0, err
	}
	if n < 1 {
		return 0, domain.ErrIndexStructure.WithDetailsf("group.instances = %d, need at least 1", n)
	}
	return n, nil
}

// Load builds every restore point, oldest first, with its disks resolved.
func (l *Loader) Load(ctx context.Context) ([]*domain.Instance, error) {
	count, err := l.Count()
	if err != nil {
		return nil, err
	}

	instances := make([]*domain.Instance, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		inst, err := l.LoadInstance(i)
		if err != nil {
			return nil, err
		}
		l.logger.Debug("restore point loaded",
			"index", i,
			"timestamp", inst.Timestamp,
			"disks", inst.DiskCount,
		)
		instances = append(instances, inst)
	}
	return instances, nil
}

// LoadInstance builds restore point i.
func (l *Loader) LoadInstance(i int) (*domain.Instance, error) {
	files, err := Files(l.tree, i)
	if err != nil {
		return nil, err
	}
	cfgRef, err := FileOfType(files, FileTypeConfig, i)
	if err != nil {
		return nil, err
	}
	fwRef, err := FileOfType(files, FileTypeFirmware, i)
	if err != nil {
		return nil, err
	}

	cfg, err := l.source.ReadFile(cfgRef.Name())
	if err != nil {
		return nil, fmt.Errorf("restore point %d: read config: %w", i, err)
	}
	fw, err := l.source.ReadFile(fwRef.Name())
	if err != nil {
		return nil, fmt.Errorf("restore point %d: read firmware: %w", i, err)
	}

	ts, err := l.tree.String(index.Path("instance", i, "snapshot"))
	if err != nil {
		return nil, err
	}
	created, err := domain.ParseTimestamp(ts)
	if err != nil {
		return nil, err
	}

	diskCount, err := l.tree.Int(index.Path("instance", i, "diskCount"))
	if err != nil {
		return nil, err
	}
	if diskCount < 0 {
		return nil, domain.ErrIndexStructure.WithDetailsf("restore point %d: negative diskCount %d", i, diskCount)
	}

	inst := &domain.Instance{
		Index:        i,
		ConfigLines:  vmx.SplitLines(string(cfg)),
		Firmware:     fw,
		Timestamp:    ts,
		Created:      created,
		DiskCount:    diskCount,
		ConfigFile:   cfgRef.Name(),
		FirmwareFile: fwRef.Name(),
	}

	inst.Disks, err = l.resolver.ResolveAll(inst.ConfigLines, diskCount, i)
	if err != nil {
		return nil, err
	}
	return inst, nil
}

// LiveDisks resolves the disks of the newest restore point against index
// count, the live placement.
func (l *Loader) LiveDisks(newest *domain.Instance, count int) ([]domain.DiskRef, error) {
	return l.resolver.ResolveAll(newest.ConfigLines, newest.DiskCount, count)
}

// SourceFiles returns the distinct folder file names referenced by the
// restore points' config and firmware entries, in restore point order.
func SourceFiles(instances []*domain.Instance) []string {
	seen := make(map[string]bool)
	var names []string
	for _, inst := range instances {
		for _, name := range []string{inst.ConfigFile, inst.FirmwareFile} {
			if name == "" || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	return names
}
