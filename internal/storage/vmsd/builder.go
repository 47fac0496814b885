package vmsd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

const (
	// FileExtension is the descriptor file extension.
	FileExtension = ".vmsd"

	// DescriptionPrefix precedes the restore point timestamp in each
	// snapshot description.
	DescriptionPrefix = "vSphere Replication instance created on "
)

// Disk is one disk of a snapshot.
type Disk struct {
	FileName string
	Node     string
}

// Entry describes one snapshot of the chain.
type Entry struct {
	// UID is the one-based snapshot number, oldest = 1.
	UID      int
	Filename string

	// Timestamp is the raw restore point timestamp used for the display
	// name and description; Created is its parsed instant.
	Timestamp string
	Created   time.Time

	Disks []Disk
}

// Builder accumulates chain entries in any order and renders them as one
// descriptor.
type Builder struct {
	count   int
	entries map[int]Entry
}

// NewBuilder creates a Builder for a chain of count snapshots.
func NewBuilder(count int) *Builder {
	return &Builder{
		count:   count,
		entries: make(map[int]Entry, count),
	}
}

// Add records e. UIDs must lie in 1..count and be unique.
func (b *Builder) Add(e Entry) error {
	if e.UID < 1 || e.UID > b.count {
		return fmt.Errorf("vmsd: snapshot uid %d outside 1..%d", e.UID, b.count)
	}
	if _, dup := b.entries[e.UID]; dup {
		return fmt.Errorf("vmsd: duplicate snapshot uid %d", e.UID)
	}
	b.entries[e.UID] = e
	return nil
}

// Len returns the number of entries added so far.
func (b *Builder) Len() int {
	return len(b.entries)
}

// Render returns the descriptor text. Every snapshot 1..count must have been
// added. Entries are rendered oldest first.
func (b *Builder) Render() (string, error) {
	if len(b.entries) != b.count {
		return "", fmt.Errorf("vmsd: %d of %d snapshots added", len(b.entries), b.count)
	}

	uids := make([]int, 0, len(b.entries))
	for uid := range b.entries {
		uids = append(uids, uid)
	}
	sort.Ints(uids)

	var sb strings.Builder
	writeHeader(&sb, b.count)
	for _, uid := range uids {
		writeEntry(&sb, b.entries[uid])
	}
	return sb.String(), nil
}

func writeHeader(sb *strings.Builder, count int) {
	n := strconv.Itoa(count)
	writeKV(sb, ".encoding", "UTF-8")
	writeKV(sb, "snapshot.lastUID", n)
	writeKV(sb, "snapshot.current", n)
	writeKV(sb, "snapshot.numSnapshots", n)
}

func writeEntry(sb *strings.Builder, e Entry) {
	prefix := "snapshot" + strconv.Itoa(e.UID-1) + "."
	kv := func(key, value string) { writeKV(sb, prefix+key, value) }

	kv("uid", strconv.Itoa(e.UID))
	kv("filename", e.Filename)
	if e.UID > 1 {
		kv("parent", strconv.Itoa(e.UID-1))
	}
	kv("displayName", e.Timestamp)
	kv("description", DescriptionPrefix+e.Timestamp)

	high, low := SplitMicros(e.Created)
	kv("createTimeHigh", strconv.FormatInt(int64(high), 10))
	kv("createTimeLow", strconv.FormatUint(uint64(low), 10))

	kv("numDisks", strconv.Itoa(len(e.Disks)))
	for i, d := range e.Disks {
		kv("disk"+strconv.Itoa(i)+".fileName", d.FileName)
		kv("disk"+strconv.Itoa(i)+".node", d.Node)
	}
}

func writeKV(sb *strings.Builder, key, value string) {
	sb.WriteString(key)
	sb.WriteString(` = "`)
	sb.WriteString(value)
	sb.WriteString("\"\n")
}

// SplitMicros splits the Unix time of t in microseconds into its high and
// low 32-bit halves. Sub-second precision is dropped. The high half is signed,
// so instants before 1970 give a negative high and a low in 0..2^32-1.
// Instants must lie within about ±292,000 years of 1970.
func SplitMicros(t time.Time) (high int32, low uint32) {
	us := t.Unix() * 1_000_000
	return int32(us >> 32), uint32(us & 0xFFFFFFFF)
}

// SnapshotFilename returns "<vmName>-Snapshot<uid><ext>".
func SnapshotFilename(vmName string, uid int, ext string) string {
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return vmName + "-Snapshot" + strconv.Itoa(uid) + ext
}
