package command

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/yndnr/hbr-recover/internal/cli/config"
	"github.com/yndnr/hbr-recover/internal/cli/output"
	"github.com/yndnr/hbr-recover/internal/core/service"
	"github.com/yndnr/hbr-recover/internal/replica/folder"
)

// Summary reports one recover run.
type Summary struct {
	RunID     string `json:"run_id" yaml:"run_id"`
	Folder    string `json:"folder" yaml:"folder"`
	VMName    string `json:"vm_name" yaml:"vm_name"`
	DryRun    bool   `json:"dry_run" yaml:"dry_run"`
	BackupDir string `json:"backup_dir" yaml:"backup_dir"`

	RestorePoints []RestorePointRow `json:"restore_points" yaml:"restore_points"`
	LiveDisks     []DiskRow         `json:"live_disks" yaml:"live_disks"`
	Files         []FileRow         `json:"files" yaml:"files"`
}

// RestorePointRow is one restore point and the snapshot synthesized for it.
type RestorePointRow struct {
	UID      int       `json:"uid" yaml:"uid"`
	Created  time.Time `json:"created" yaml:"created"`
	Disks    int       `json:"disks" yaml:"disks"`
	Snapshot string    `json:"snapshot" yaml:"snapshot"`
	Size     int       `json:"size" yaml:"size" table:"bytes"`
	Nodes    []string  `json:"nodes" yaml:"nodes" table:"wide"`
}

// DiskRow is one disk of the recovered machine config.
type DiskRow struct {
	Node string `json:"node" yaml:"node"`
	File string `json:"file" yaml:"file"`
	Path string `json:"path" yaml:"path" table:"wide"`
}

// FileRow is one file the run produces or archives.
type FileRow struct {
	Name string `json:"name" yaml:"name"`
	Role string `json:"role" yaml:"role"`
	Kind string `json:"kind" yaml:"kind"`
	Size int    `json:"size" yaml:"size" table:"bytes"`
}

func newSummary(runID string, f *folder.Folder, cfg *config.Config, res *service.RecoveryResult, src *sourceSet) *Summary {
	s := &Summary{
		RunID:     runID,
		Folder:    f.Dir(),
		VMName:    res.VMName,
		DryRun:    cfg.Recover.DryRun,
		BackupDir: f.Path(cfg.Recover.BackupDir),
	}

	// Snapshots are newest first; snapshot uid n sits at index count-n.
	for _, inst := range res.Instances {
		uid := inst.SnapshotNumber()
		snap := res.Snapshots[res.Count-uid]
		s.RestorePoints = append(s.RestorePoints, RestorePointRow{
			UID:      uid,
			Created:  inst.Created,
			Disks:    len(inst.Disks),
			Snapshot: snap.Name,
			Size:     snap.Size(),
			Nodes:    inst.Nodes(),
		})
	}

	for _, d := range res.LiveDisks {
		s.LiveDisks = append(s.LiveDisks, DiskRow{Node: d.Node, File: d.Filename, Path: d.AbsolutePath})
	}

	for _, a := range res.Artifacts() {
		s.Files = append(s.Files, FileRow{Name: a.Name, Role: folder.RoleProduced, Kind: a.Kind, Size: a.Size()})
	}
	for _, name := range src.names {
		row := FileRow{Name: name, Role: folder.RoleArchived, Kind: src.kinds[name]}
		if fi, err := os.Stat(f.Path(name)); err == nil {
			row.Size = int(fi.Size())
		}
		s.Files = append(s.Files, row)
	}
	return s
}

// Render writes the summary in the selected format. Tables are split into
// one section per row type.
func (s *Summary) Render(w io.Writer, flags *GlobalFlags) error {
	if flags.Output != output.FormatTable {
		return output.NewFormatter(flags.Output, flags.Wide).Format(w, s)
	}

	tf := &output.TableFormatter{Wide: flags.Wide}
	head := &output.Table{Headers: []string{"FIELD", "VALUE"}}
	head.AddRow("vm", s.VMName)
	head.AddRow("folder", s.Folder)
	head.AddRow("restore points", strconv.Itoa(len(s.RestorePoints)))
	head.AddRow("backup", s.BackupDir)
	head.AddRow("dry run", strconv.FormatBool(s.DryRun))
	if flags.Wide {
		head.AddRow("run id", s.RunID)
	}

	sections := []struct {
		title string
		data  any
	}{
		{"", head},
		{"Restore points", s.RestorePoints},
		{"Disks", s.LiveDisks},
		{"Files", s.Files},
	}
	for i, sec := range sections {
		if i > 0 {
			if _, err := fmt.Fprintf(w, "\n%s\n", sec.title); err != nil {
				return err
			}
		}
		if err := tf.Format(w, sec.data); err != nil {
			return err
		}
	}
	return nil
}
