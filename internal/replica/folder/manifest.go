package folder

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"
)

// ManifestName is the manifest file name inside the backup folder.
const ManifestName = "manifest.json"

// Manifest roles.
const (
	RoleProduced = "produced"
	RoleArchived = "archived"
)

// ManifestEntry describes one file touched by a recovery.
type ManifestEntry struct {
	Name    string `json:"name"`
	Role    string `json:"role"`
	Kind    string `json:"kind,omitempty"`
	Size    int64  `json:"size"`
	BLAKE2b string `json:"blake2b_256"`
}

// Manifest records what a recovery produced and archived.
type Manifest struct {
	RunID      string          `json:"run_id"`
	Version    string          `json:"version"`
	VMName     string          `json:"vm_name"`
	CreatedUTC string          `json:"created_utc"`
	Snapshots  int             `json:"snapshots"`
	Files      []ManifestEntry `json:"files"`
}

// NewManifest creates an empty manifest.
func NewManifest(runID, version, vmName string, snapshots int, now time.Time) *Manifest {
	return &Manifest{
		RunID:      runID,
		Version:    version,
		VMName:     vmName,
		CreatedUTC: now.UTC().Format(time.RFC3339),
		Snapshots:  snapshots,
		Files:      make([]ManifestEntry, 0),
	}
}

// Add records a file with its checksum.
func (m *Manifest) Add(name, role, kind string, data []byte) {
	m.Files = append(m.Files, ManifestEntry{
		Name:    name,
		Role:    role,
		Kind:    kind,
		Size:    int64(len(data)),
		BLAKE2b: Checksum(data),
	})
}

// Checksum returns the hex BLAKE2b-256 digest of data.
func Checksum(data []byte) string {
	sum := blake2b.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// WriteManifest stores m as dir/manifest.json within the transaction.
func (t *Txn) WriteManifest(ctx context.Context, dir string, m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("folder: marshal manifest: %w", err)
	}
	data = append(data, '\n')

	sub := &Folder{dir: t.f.Path(dir), logger: t.f.logger}
	st := &Txn{f: sub}
	if _, err := st.Write(ctx, ManifestName, data); err != nil {
		return err
	}
	t.ops = append(t.ops, st.ops...)
	return nil
}
