// Package vmsn encodes and decodes snapshot-state (.vmsn) files.
//
// File layout (little-endian):
//
//	+0x00  magic        uint32  0xBED2BED2
//	+0x04  version      uint32  8
//	+0x08  group count  uint32  1
//	+0x0C  group name   [64]byte "Snapshot", zero padded
//	+0x4C  first block  uint64  0x5C
//	+0x54  payload size uint64  block headers + block data + 2
//	+0x5C  blocks...
//	       terminator   uint32  0
//
// Each block is:
//
//	flags uint8 (0x3F) | name length uint8 | name | size uint64 | size uint64 | 0x00 0x00 | data
//
// A recovered snapshot carries two blocks: "cfgFile" (config text followed by
// 8192 zero bytes, size counting both) and "nvramFile" (firmware bytes).
package vmsn
