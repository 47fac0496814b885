package vmsn

import (
	"bytes"
	"encoding/binary"
	"errors"
	"strings"
	"testing"

	"github.com/yndnr/hbr-recover/internal/core/domain"
)

func TestEncode_Layout(t *testing.T) {
	config := "displayName = \"web01\"\nmemSize = \"1024\"\n"
	firmware := []byte{0x4D, 0x52, 0x56, 0x4E, 0x01, 0x02, 0x03}
	C, F := len(config), len(firmware)

	data := Encode(config, firmware)
	le := binary.LittleEndian

	if len(data) != EncodedSize(C, F) {
		t.Fatalf("len = %d, want %d", len(data), EncodedSize(C, F))
	}

	// Fixed header.
	if got := le.Uint32(data[0:]); got != 0xBED2BED2 {
		t.Errorf("magic = 0x%X", got)
	}
	if got := le.Uint32(data[4:]); got != 8 {
		t.Errorf("version = %d", got)
	}
	if got := le.Uint32(data[8:]); got != 1 {
		t.Errorf("group count = %d", got)
	}
	wantName := make([]byte, 64)
	copy(wantName, "Snapshot")
	if !bytes.Equal(data[12:76], wantName) {
		t.Errorf("group name = %q", data[12:76])
	}
	if got := le.Uint64(data[76:]); got != 0x5C {
		t.Errorf("first block offset = 0x%X", got)
	}
	wantTotal := uint64(27 + C + 8192 + 29 + F + 2)
	if got := le.Uint64(data[84:]); got != wantTotal {
		t.Errorf("payload size = %d, want %d", got, wantTotal)
	}

	// Config block.
	p := 0x5C
	if data[p] != 0x3F || data[p+1] != 7 || string(data[p+2:p+9]) != "cfgFile" {
		t.Fatalf("config block header = % X", data[p:p+9])
	}
	if s1, s2 := le.Uint64(data[p+9:]), le.Uint64(data[p+17:]); s1 != uint64(C+8192) || s2 != uint64(C+8192) {
		t.Errorf("config sizes = %d, %d; want %d", s1, s2, C+8192)
	}
	if data[p+25] != 0 || data[p+26] != 0 {
		t.Errorf("config header trailer = % X", data[p+25:p+27])
	}
	p += 27
	if string(data[p:p+C]) != config {
		t.Errorf("config text mismatch")
	}
	p += C
	if !bytes.Equal(data[p:p+8192], make([]byte, 8192)) {
		t.Error("config padding is not zero")
	}
	p += 8192

	// Firmware block.
	if data[p] != 0x3F || data[p+1] != 9 || string(data[p+2:p+11]) != "nvramFile" {
		t.Fatalf("firmware block header = % X", data[p:p+11])
	}
	if s1, s2 := le.Uint64(data[p+11:]), le.Uint64(data[p+19:]); s1 != uint64(F) || s2 != uint64(F) {
		t.Errorf("firmware sizes = %d, %d; want %d", s1, s2, F)
	}
	p += 29
	if !bytes.Equal(data[p:p+F], firmware) {
		t.Error("firmware bytes mismatch")
	}
	p += F

	if !bytes.Equal(data[p:], []byte{0, 0, 0, 0}) {
		t.Errorf("terminator = % X", data[p:])
	}
}

func TestEncode_UsesByteLength(t *testing.T) {
	config := "annotation = \"Größe\"\n"
	data := Encode(config, nil)
	got := binary.LittleEndian.Uint64(data[0x5C+9:])
	if want := uint64(len([]byte(config)) + ConfigPadding); got != want {
		t.Errorf("config size = %d, want %d", got, want)
	}
}

func TestWrite_ReturnsCount(t *testing.T) {
	var buf bytes.Buffer
	n, err := Write(&buf, "a = \"b\"\n", []byte{1, 2})
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if n != int64(buf.Len()) || n != int64(EncodedSize(8, 2)) {
		t.Errorf("n = %d, buf = %d, want %d", n, buf.Len(), EncodedSize(8, 2))
	}
}

func TestDecode_RoundTrip(t *testing.T) {
	tests := []struct {
		name     string
		config   string
		firmware []byte
	}{
		{"typical", "displayName = \"web01\"\n", bytes.Repeat([]byte{0xAB}, 8684)},
		{"empty firmware", "x = \"1\"\n", nil},
		{"empty config", "", []byte{1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := Decode(Encode(tt.config, tt.firmware))
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if f.GroupName != GroupName || len(f.Blocks) != 2 {
				t.Fatalf("decoded = %+v", f)
			}
			cfg, err := f.Config()
			if err != nil || cfg != tt.config {
				t.Errorf("Config() = %q, %v", cfg, err)
			}
			fw, err := f.Firmware()
			if err != nil || !bytes.Equal(fw, tt.firmware) {
				t.Errorf("Firmware() = %d bytes, %v", len(fw), err)
			}
		})
	}
}

func TestDecode_Corrupt(t *testing.T) {
	valid := Encode("a = \"b\"\n", []byte{1, 2, 3})

	mutate := func(fn func(b []byte) []byte) []byte {
		b := append([]byte(nil), valid...)
		return fn(b)
	}

	tests := []struct {
		name string
		data []byte
		want string
	}{
		{"too short", valid[:40], "too short"},
		{"bad magic", mutate(func(b []byte) []byte { b[0] = 0; return b }), "magic"},
		{"bad version", mutate(func(b []byte) []byte { b[4] = 9; return b }), "version"},
		{"bad group count", mutate(func(b []byte) []byte { b[8] = 2; return b }), "group count"},
		{"bad offset", mutate(func(b []byte) []byte { b[76] = 0x60; return b }), "first block"},
		{"size mismatch", mutate(func(b []byte) []byte { b[0x5C+17]++; return b }), "differ"},
		{"payload size", mutate(func(b []byte) []byte { b[84]++; return b }), "payload size"},
		{"truncated", valid[:len(valid)-6], "exceeds"},
		{"bad terminator", mutate(func(b []byte) []byte { b[len(b)-1] = 1; return b }), "terminator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.data)
			if !errors.Is(err, domain.ErrSnapshotCorrupt) {
				t.Fatalf("err = %v, want ErrSnapshotCorrupt", err)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("err = %q, want it to mention %q", err, tt.want)
			}
		})
	}
}
