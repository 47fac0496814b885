package domain

import (
	"strings"
	"time"
)

// TimestampLayout is the restore point timestamp format used by the index,
// e.g. "2019-03-14 09:26:53 UTC".
const TimestampLayout = "2006-01-02 15:04:05 MST"

// DiskRef is one virtual disk of a restore point.
type DiskRef struct {
	// Node is the attachment point in the machine config, e.g. "scsi0:0".
	Node         string `json:"node"`
	Filename     string `json:"filename"`
	Datastore    string `json:"datastore"`
	RelativePath string `json:"relative_path"`
	AbsolutePath string `json:"absolute_path"`
}

// Instance is one replication restore point.
//
// Index runs from 0 (oldest). The live state is not an Instance of its own:
// it reuses the newest Instance with disks resolved against index count.
type Instance struct {
	Index int

	// ConfigLines holds the machine config lines without line terminators.
	ConfigLines []string

	// Firmware is the opaque NVRAM blob.
	Firmware []byte

	// Timestamp is the raw index value; Created is its parsed instant.
	Timestamp string
	Created   time.Time

	DiskCount int
	Disks     []DiskRef

	// ConfigFile and FirmwareFile are the replica folder file names the
	// config and firmware were read from.
	ConfigFile   string
	FirmwareFile string
}

// ParseTimestamp parses a restore point timestamp. The wall clock fields are
// taken as UTC whatever zone abbreviation the string carries.
func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(TimestampLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrTimestampParse.WithDetailsf("%q", s).WithCause(err)
	}
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC), nil
}

// SnapshotNumber returns the one-based snapshot number of the instance.
func (i *Instance) SnapshotNumber() int {
	return i.Index + 1
}

// Nodes returns the attachment nodes of the instance's disks in order.
func (i *Instance) Nodes() []string {
	nodes := make([]string, 0, len(i.Disks))
	for _, d := range i.Disks {
		nodes = append(nodes, d.Node)
	}
	return nodes
}
