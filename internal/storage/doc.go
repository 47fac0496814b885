// Package storage groups the on-disk formats hbr-recover produces for the
// hypervisor's snapshot subsystem:
//
//   - vmsn: the binary snapshot-state container, encoder and decoder
//   - vmsd: the text snapshot chain descriptor
//
// Both produce bytes only; writing them is left to internal/replica/folder.
package storage
