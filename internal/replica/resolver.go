package replica

import (
	"path"

	"github.com/yndnr/hbr-recover/internal/core/domain"
	"github.com/yndnr/hbr-recover/internal/replica/index"
	"github.com/yndnr/hbr-recover/internal/vmx"
)

// DefaultVolumeRoot is where datastores are mounted on the host.
const DefaultVolumeRoot = "/vmfs/volumes"

// Resolver maps the disks of a restore point to attachment nodes and files.
type Resolver struct {
	tree       *index.Tree
	volumeRoot string
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithVolumeRoot sets the datastore mount root used for absolute paths.
func WithVolumeRoot(root string) ResolverOption {
	return func(r *Resolver) {
		if root != "" {
			r.volumeRoot = root
		}
	}
}

// NewResolver creates a Resolver over tree.
func NewResolver(tree *index.Tree, opts ...ResolverOption) *Resolver {
	r := &Resolver{
		tree:       tree,
		volumeRoot: DefaultVolumeRoot,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// VolumeRoot returns the configured datastore mount root.
func (r *Resolver) VolumeRoot() string {
	return r.volumeRoot
}

// Resolve resolves disk d for the given restore point. lines is the machine
// config the disk id is looked up in.
func (r *Resolver) Resolve(lines []string, d, point int) (domain.DiskRef, error) {
	id, err := r.tree.String(index.Path("disk", d, "id"))
	if err != nil {
		return domain.DiskRef{}, err
	}

	key, ok := vmx.KeyByValue(lines, id)
	if !ok {
		return domain.DiskRef{}, domain.ErrUnresolvableAttachment.WithDetailsf(
			"disk %d (%s) at restore point %d: no config key carries its id", d, id, point)
	}
	node := vmx.NodeOf(key)
	if node == "" {
		return domain.DiskRef{}, domain.ErrUnresolvableAttachment.WithDetailsf(
			"disk %d (%s) at restore point %d: empty node in key %q", d, id, point, key)
	}

	base := index.Path("disk", d, "instance", point, "path")
	ds, err := r.tree.String(index.Path(base, "ds"))
	if err != nil {
		return domain.DiskRef{}, err
	}
	rel, err := r.tree.String(index.Path(base, "relpath"))
	if err != nil {
		return domain.DiskRef{}, err
	}

	return domain.DiskRef{
		Node:         node,
		Filename:     path.Base(rel),
		Datastore:    ds,
		RelativePath: rel,
		AbsolutePath: path.Join(r.volumeRoot, ds, rel),
	}, nil
}

// ResolveAll resolves disks 0..count-1 for the given restore point.
func (r *Resolver) ResolveAll(lines []string, count, point int) ([]domain.DiskRef, error) {
	disks := make([]domain.DiskRef, 0, count)
	for d := 0; d < count; d++ {
		ref, err := r.Resolve(lines, d, point)
		if err != nil {
			return nil, err
		}
		disks = append(disks, ref)
	}
	return disks, nil
}
