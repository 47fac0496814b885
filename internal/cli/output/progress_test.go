package output

import (
	"bytes"
	"strings"
	"testing"
)

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, "recovered", 3)

	p.File("web01-Snapshot1.vmsn", 512)
	p.File("web01.vmx", 2048)
	p.Finish()

	got := buf.String()
	for _, want := range []string{
		"[1/3] web01-Snapshot1.vmsn 512 B\n",
		"[2/3] web01.vmx 2.0 KB\n",
		"recovered: 2 of 3 files, 2.5 KB\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	files, n := p.Done()
	if files != 2 || n != 2560 {
		t.Errorf("Done() = %d, %d; want 2, 2560", files, n)
	}
}

func TestProgress_NilWriter(t *testing.T) {
	p := NewProgress(nil, "x", 1)
	p.File("a", 1)
	p.Finish()
	if files, _ := p.Done(); files != 1 {
		t.Errorf("Done() files = %d, want 1", files)
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{1073741824, "1.0 GB"},
	}
	for _, tt := range tests {
		if got := FormatBytes(tt.in); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
