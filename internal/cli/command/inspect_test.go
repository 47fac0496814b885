package command

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/yndnr/hbr-recover/internal/core/domain"
	"github.com/yndnr/hbr-recover/internal/replica/folder"
	"github.com/yndnr/hbr-recover/internal/storage/vmsn"
)

func writeSnapshot(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "web01-Snapshot1.vmsn")
	data := vmsn.Encode("displayName = \"web01\"\n", []byte("nvram-0"))
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestInspect_JSON(t *testing.T) {
	isolate(t)
	path := writeSnapshot(t)

	stdout, _, err := runApp(t, "-o", "json", "inspect", "--show-config", path)
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}

	var in Inspection
	if err := json.Unmarshal([]byte(stdout), &in); err != nil {
		t.Fatalf("unmarshal: %v\n%s", err, stdout)
	}
	if in.File != "web01-Snapshot1.vmsn" || in.Version != vmsn.Version || in.GroupName != vmsn.GroupName {
		t.Errorf("header = %+v", in)
	}
	if len(in.Blocks) != 2 || in.Blocks[0].Name != vmsn.ConfigBlockName || in.Blocks[1].Name != vmsn.FirmwareBlockName {
		t.Fatalf("blocks = %+v", in.Blocks)
	}
	if in.Blocks[0].Flags != "0x3F" || in.Blocks[1].Size != 7 {
		t.Errorf("blocks = %+v", in.Blocks)
	}
	if in.Config != "displayName = \"web01\"\n" {
		t.Errorf("config = %q", in.Config)
	}
	if in.FirmwareBLAKE2b != folder.Checksum([]byte("nvram-0")) {
		t.Errorf("firmware checksum = %q", in.FirmwareBLAKE2b)
	}
}

func TestInspect_Table(t *testing.T) {
	isolate(t)
	stdout, _, err := runApp(t, "inspect", writeSnapshot(t))
	if err != nil {
		t.Fatalf("inspect: %v", err)
	}
	for _, want := range []string{"web01-Snapshot1.vmsn", "0x5C", "Blocks", "cfgFile", "nvramFile", "7 B"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("output missing %q:\n%s", want, stdout)
		}
	}
	if strings.Contains(stdout, "displayName") {
		t.Errorf("config printed without --show-config:\n%s", stdout)
	}
}

func TestInspect_Errors(t *testing.T) {
	isolate(t)

	bad := filepath.Join(t.TempDir(), "bad.vmsn")
	if err := os.WriteFile(bad, []byte("not a snapshot"), 0644); err != nil {
		t.Fatal(err)
	}
	_, _, err := runApp(t, "inspect", bad)
	if got := domain.GetErrorCode(err); got != domain.ErrSnapshotCorrupt.Code {
		t.Errorf("corrupt file: code = %q, want %q (err: %v)", got, domain.ErrSnapshotCorrupt.Code, err)
	}

	if _, _, err := runApp(t, "inspect", filepath.Join(t.TempDir(), "absent.vmsn")); err == nil {
		t.Error("missing file: want error")
	}
	if _, _, err := runApp(t, "inspect"); err == nil {
		t.Error("no argument: want error")
	}
}
