package vmsn

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
)

// Encode returns the snapshot-state file for config text and firmware bytes.
func Encode(config string, firmware []byte) []byte {
	var buf bytes.Buffer
	buf.Grow(EncodedSize(len(config), len(firmware)))
	// bytes.Buffer writes do not fail.
	_, _ = Write(&buf, config, firmware)
	return buf.Bytes()
}

// Write encodes a snapshot-state file to w and returns the bytes written.
func Write(w io.Writer, config string, firmware []byte) (int64, error) {
	cw := &countingWriter{w: w}

	if err := writeHeader(cw, payloadSize(len(config), len(firmware))); err != nil {
		return cw.n, err
	}

	configSize := uint64(len(config) + ConfigPadding)
	if err := writeBlockHeader(cw, ConfigBlockName, configSize); err != nil {
		return cw.n, err
	}
	if _, err := io.WriteString(cw, config); err != nil {
		return cw.n, fmt.Errorf("vmsn: write config: %w", err)
	}
	if _, err := cw.Write(make([]byte, ConfigPadding)); err != nil {
		return cw.n, fmt.Errorf("vmsn: write config padding: %w", err)
	}

	if err := writeBlockHeader(cw, FirmwareBlockName, uint64(len(firmware))); err != nil {
		return cw.n, err
	}
	if _, err := cw.Write(firmware); err != nil {
		return cw.n, fmt.Errorf("vmsn: write firmware: %w", err)
	}

	if _, err := cw.Write(make([]byte, terminatorSize)); err != nil {
		return cw.n, fmt.Errorf("vmsn: write terminator: %w", err)
	}
	return cw.n, nil
}

func writeHeader(w io.Writer, payload uint64) error {
	hdr := make([]byte, 0, FirstBlockOffset)
	hdr = binary.LittleEndian.AppendUint32(hdr, Magic)
	hdr = binary.LittleEndian.AppendUint32(hdr, Version)
	hdr = binary.LittleEndian.AppendUint32(hdr, GroupCount)

	var name [groupNameSize]byte
	copy(name[:], GroupName)
	hdr = append(hdr, name[:]...)

	hdr = binary.LittleEndian.AppendUint64(hdr, FirstBlockOffset)
	hdr = binary.LittleEndian.AppendUint64(hdr, payload)

	if _, err := w.Write(hdr); err != nil {
		return fmt.Errorf("vmsn: write header: %w", err)
	}
	return nil
}

func writeBlockHeader(w io.Writer, name string, size uint64) error {
	hdr := make([]byte, 0, blockHeaderSize(name))
	hdr = append(hdr, BlockFlags, byte(len(name)))
	hdr = append(hdr, name...)
	hdr = binary.LittleEndian.AppendUint64(hdr, size)
	hdr = binary.LittleEndian.AppendUint64(hdr, size)
	hdr = append(hdr, 0, 0)

	if _, err := w.Write(hdr); err != nil {
		return fmt.Errorf("vmsn: write %s header: %w", name, err)
	}
	return nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
