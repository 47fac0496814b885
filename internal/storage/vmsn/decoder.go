package vmsn

import (
	"bytes"
	"encoding/binary"

	"github.com/yndnr/hbr-recover/internal/core/domain"
)

// Block is one named data block of a snapshot-state file.
type Block struct {
	Name  string `json:"name"`
	Flags byte   `json:"flags"`
	Size  uint64 `json:"size"`
	Data  []byte `json:"-"`
}

// File is a decoded snapshot-state file.
type File struct {
	Version          uint32  `json:"version"`
	GroupCount       uint32  `json:"group_count"`
	GroupName        string  `json:"group_name"`
	FirstBlockOffset uint64  `json:"first_block_offset"`
	PayloadSize      uint64  `json:"payload_size"`
	Blocks           []Block `json:"blocks"`
}

// Decode parses a snapshot-state file and validates its fixed fields,
// duplicated block sizes and payload size.
func Decode(data []byte) (*File, error) {
	if len(data) < int(FirstBlockOffset)+terminatorSize {
		return nil, corrupt("file too short: %d bytes", len(data))
	}

	le := binary.LittleEndian
	if m := le.Uint32(data[0:4]); m != Magic {
		return nil, corrupt("bad magic 0x%08X", m)
	}

	f := &File{
		Version:          le.Uint32(data[4:8]),
		GroupCount:       le.Uint32(data[8:12]),
		GroupName:        string(bytes.TrimRight(data[12:12+groupNameSize], "\x00")),
		FirstBlockOffset: le.Uint64(data[12+groupNameSize : payloadSizeOff]),
		PayloadSize:      le.Uint64(data[payloadSizeOff:FirstBlockOffset]),
	}
	if f.Version != Version {
		return nil, corrupt("unsupported version %d", f.Version)
	}
	if f.GroupCount != GroupCount {
		return nil, corrupt("unsupported group count %d", f.GroupCount)
	}
	if f.FirstBlockOffset != FirstBlockOffset {
		return nil, corrupt("first block at 0x%X, want 0x%X", f.FirstBlockOffset, FirstBlockOffset)
	}

	pos := int(FirstBlockOffset)
	for len(data)-pos > terminatorSize {
		b, n, err := decodeBlock(data[pos:])
		if err != nil {
			return nil, err
		}
		f.Blocks = append(f.Blocks, b)
		pos += n
	}

	if tail := data[pos:]; len(tail) != terminatorSize || le.Uint32(tail) != 0 {
		return nil, corrupt("missing terminator at offset 0x%X", pos)
	}
	if want := uint64(pos-int(FirstBlockOffset)) + payloadTrailer; f.PayloadSize != want {
		return nil, corrupt("payload size %d, blocks account for %d", f.PayloadSize, want)
	}
	return f, nil
}

func decodeBlock(data []byte) (Block, int, error) {
	if len(data) < 2 {
		return Block{}, 0, corrupt("truncated block header")
	}
	flags, nameLen := data[0], int(data[1])
	hdrLen := blockFixedSize + nameLen
	if len(data) < hdrLen {
		return Block{}, 0, corrupt("truncated block header")
	}

	name := string(data[2 : 2+nameLen])
	le := binary.LittleEndian
	size := le.Uint64(data[2+nameLen:])
	dup := le.Uint64(data[10+nameLen:])
	if size != dup {
		return Block{}, 0, corrupt("block %q size fields differ: %d != %d", name, size, dup)
	}
	if size > uint64(len(data)-hdrLen) {
		return Block{}, 0, corrupt("block %q size %d exceeds file", name, size)
	}

	end := hdrLen + int(size)
	return Block{
		Name:  name,
		Flags: flags,
		Size:  size,
		Data:  data[hdrLen:end],
	}, end, nil
}

// Block returns the block named name.
func (f *File) Block(name string) (*Block, bool) {
	for i := range f.Blocks {
		if f.Blocks[i].Name == name {
			return &f.Blocks[i], true
		}
	}
	return nil, false
}

// Config returns the config text with its zero padding removed.
func (f *File) Config() (string, error) {
	b, ok := f.Block(ConfigBlockName)
	if !ok {
		return "", corrupt("no %s block", ConfigBlockName)
	}
	if len(b.Data) < ConfigPadding {
		return "", corrupt("%s block shorter than its padding", ConfigBlockName)
	}
	return string(b.Data[:len(b.Data)-ConfigPadding]), nil
}

// Firmware returns the firmware bytes.
func (f *File) Firmware() ([]byte, error) {
	b, ok := f.Block(FirmwareBlockName)
	if !ok {
		return nil, corrupt("no %s block", FirmwareBlockName)
	}
	return b.Data, nil
}

func corrupt(format string, args ...any) error {
	return domain.ErrSnapshotCorrupt.WithDetailsf(format, args...)
}
