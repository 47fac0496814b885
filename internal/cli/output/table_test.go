package output

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"
)

func render(t *testing.T, f *TableFormatter, data any) string {
	t.Helper()
	var buf bytes.Buffer
	if err := f.Format(&buf, data); err != nil {
		t.Fatalf("Format: %v", err)
	}
	return buf.String()
}

func TestTableFormatter_Table(t *testing.T) {
	tbl := &Table{Title: "Restore points", Headers: []string{"UID", "FILE"}}
	tbl.AddRow("1", "web01-Snapshot1.vmsn")
	tbl.AddRow("2", "web01-Snapshot2.vmsn")

	got := render(t, &TableFormatter{}, tbl)
	want := "Restore points\nUID  FILE\n1    web01-Snapshot1.vmsn\n2    web01-Snapshot2.vmsn\n"
	if got != want {
		t.Errorf("got:\n%q\nwant:\n%q", got, want)
	}

	got = render(t, &TableFormatter{NoHeaders: true}, *tbl)
	if strings.Contains(got, "Restore points") || strings.Contains(got, "UID") {
		t.Errorf("NoHeaders output still has headers:\n%s", got)
	}
}

func TestTableFormatter_Nil(t *testing.T) {
	if got := render(t, &TableFormatter{}, nil); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestTableFormatter_Slice(t *testing.T) {
	rows := []restorePoint{
		{UID: 1, File: "a.vmsn", Size: 2048, Created: "2024-01-15"},
		{UID: 2, File: "b.vmsn", Size: 10},
	}

	got := render(t, &TableFormatter{}, rows)
	lines := strings.Split(strings.TrimSpace(got), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines:\n%s", len(lines), got)
	}
	if fields := strings.Fields(lines[0]); !reflect.DeepEqual(fields, []string{"UID", "FILE", "SIZE"}) {
		t.Errorf("headers = %v", fields)
	}
	if !strings.Contains(lines[1], "2.0 KB") || !strings.Contains(lines[2], "10 B") {
		t.Errorf("sizes not rendered as bytes:\n%s", got)
	}

	wide := render(t, &TableFormatter{Wide: true}, rows)
	if !strings.Contains(wide, "CREATED") || !strings.Contains(wide, "2024-01-15") {
		t.Errorf("wide output missing created column:\n%s", wide)
	}
}

func TestTableFormatter_PointerSlice(t *testing.T) {
	rows := []*restorePoint{{UID: 3, File: "c.vmsn"}, nil}
	got := render(t, &TableFormatter{}, rows)
	if !strings.Contains(got, "c.vmsn") {
		t.Errorf("output missing row:\n%s", got)
	}
	if n := len(strings.Split(strings.TrimSpace(got), "\n")); n != 2 {
		t.Errorf("got %d lines, want 2 (nil rows skipped)", n)
	}
}

func TestTableFormatter_EmptySlice(t *testing.T) {
	if got := render(t, &TableFormatter{}, []restorePoint{}); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestTableFormatter_StringSlice(t *testing.T) {
	got := render(t, &TableFormatter{}, []string{"web01.vmx", "web01.nvram"})
	want := "VALUE\nweb01.vmx\nweb01.nvram\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestTableFormatter_MapSorted(t *testing.T) {
	got := render(t, &TableFormatter{}, map[string]int{"zeta": 1, "alpha": 2, "mid": 3})
	lines := strings.Split(strings.TrimSpace(got), "\n")
	var keys []string
	for _, l := range lines[1:] {
		keys = append(keys, strings.Fields(l)[0])
	}
	if !reflect.DeepEqual(keys, []string{"alpha", "mid", "zeta"}) {
		t.Errorf("keys = %v, want sorted", keys)
	}
}

func TestTableFormatter_Struct(t *testing.T) {
	type summary struct {
		VMName   string `json:"vm_name"`
		Written  int64  `table:"bytes"`
		DryRun   bool
		Internal string `table:"-"`
		hidden   string
	}
	got := render(t, &TableFormatter{}, summary{VMName: "web01", Written: 4096, DryRun: true, Internal: "x", hidden: "y"})

	for _, want := range []string{"FIELD", "vm_name", "web01", "written", "4.0 KB", "dry_run", "yes"} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
	if strings.Contains(got, "internal") || strings.Contains(got, "hidden") {
		t.Errorf("hidden fields rendered:\n%s", got)
	}
}

func TestTableFormatter_FallbackToJSON(t *testing.T) {
	got := render(t, &TableFormatter{}, 42)
	if strings.TrimSpace(got) != "42" {
		t.Errorf("got %q, want JSON fallback", got)
	}
}

func TestFormatValue(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 5, 0, time.UTC)
	s := "ptr"
	tests := []struct {
		name string
		in   reflect.Value
		want string
	}{
		{"string", reflect.ValueOf("x"), "x"},
		{"empty string", reflect.ValueOf(""), "-"},
		{"int", reflect.ValueOf(-3), "-3"},
		{"uint", reflect.ValueOf(uint32(7)), "7"},
		{"float", reflect.ValueOf(1.5), "1.50"},
		{"bool false", reflect.ValueOf(false), "no"},
		{"time", reflect.ValueOf(ts), "2024-01-15 10:30:05"},
		{"zero time", reflect.ValueOf(time.Time{}), "-"},
		{"duration", reflect.ValueOf(90 * time.Second), "1m30s"},
		{"string slice", reflect.ValueOf([]string{"a", "b"}), "a,b"},
		{"empty slice", reflect.ValueOf([]int{}), "-"},
		{"int slice", reflect.ValueOf([]int{1, 2}), "[2 items]"},
		{"map", reflect.ValueOf(map[string]int{"a": 1}), "{1 keys}"},
		{"pointer", reflect.ValueOf(&s), "ptr"},
		{"nil pointer", reflect.ValueOf((*string)(nil)), ""},
		{"invalid", reflect.Value{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := formatValue(tt.in); got != tt.want {
				t.Errorf("formatValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToSnakeCase(t *testing.T) {
	tests := map[string]string{
		"VMName":    "v_m_name",
		"DryRun":    "dry_run",
		"snapshots": "snapshots",
		"":          "",
	}
	for in, want := range tests {
		if got := toSnakeCase(in); got != want {
			t.Errorf("toSnakeCase(%q) = %q, want %q", in, got, want)
		}
	}
}
