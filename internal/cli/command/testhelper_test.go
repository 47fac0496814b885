package command

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
)

const testIndex = "hbrgrp.GID-1.txt"

// isolate points the default config path and environment at a temp dir.
func isolate(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("HOME", dir)
}

// writeReplica creates a replica folder holding three restore points of a
// one-disk machine named web01 and returns its path.
func writeReplica(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	var idx strings.Builder
	fmt.Fprintf(&idx, "group.instances = \"3\"\n")
	fmt.Fprintf(&idx, "disk.0.id = \"RDID-aaaa\"\n")
	for i := 0; i < 3; i++ {
		cfg := fmt.Sprintf("hbrcfg.GID-1.%d.vmx.%d", i, i+10)
		fw := fmt.Sprintf("hbrcfg.GID-1.%d.nvram.%d", i, i+10)
		fmt.Fprintf(&idx, "instance.%d.snapshot = \"2019-03-1%d 09:26:53 UTC\"\n", i, i+1)
		fmt.Fprintf(&idx, "instance.%d.diskCount = \"1\"\n", i)
		fmt.Fprintf(&idx, "instance.%d.file.0.fileType = \"0\"\n", i)
		fmt.Fprintf(&idx, "instance.%d.file.0.path.relpath = \"web01/%s\"\n", i, cfg)
		fmt.Fprintf(&idx, "instance.%d.file.1.fileType = \"2\"\n", i)
		fmt.Fprintf(&idx, "instance.%d.file.1.path.relpath = \"web01/%s\"\n", i, fw)

		writeFile(t, dir, cfg, strings.Join([]string{
			`displayName = "web01"`,
			`uuid.location = "56 4d 12 34"`,
			`scsi0:0.present = "TRUE"`,
			`scsi0:0.fileName = "web01.vmdk"`,
			`scsi0:0.hbr_filter.rdid = "RDID-aaaa"`,
			`ethernet0.virtualDev = "vmxnet3"`,
		}, "\n")+"\n")
		writeFile(t, dir, fw, fmt.Sprintf("nvram-%d", i))
	}
	for i := 0; i <= 3; i++ {
		fmt.Fprintf(&idx, "disk.0.instance.%d.path.ds = \"ds-replica\"\n", i)
		fmt.Fprintf(&idx, "disk.0.instance.%d.path.relpath = \"web01/hbrdisk.RDID-aaaa.%d.vmdk\"\n", i, i+20)
	}
	writeFile(t, dir, testIndex, idx.String())
	return dir
}

func writeFile(t *testing.T, dir, name, data string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
}

// listDir returns the sorted entry names of dir.
func listDir(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names
}

// runApp runs the application with args and returns its stdout and stderr.
func runApp(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return runAppContext(t, context.Background(), args...)
}

func runAppContext(t *testing.T, ctx context.Context, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	app := App()
	app.Writer = &stdout
	app.ErrWriter = &stderr
	err := app.RunContext(ctx, append([]string{"hbr-recover"}, args...))
	return stdout.String(), stderr.String(), err
}
