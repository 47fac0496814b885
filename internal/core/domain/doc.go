// Package domain defines the core domain models for hbr-recover.
//
// Domain models are plain values without IO dependencies. This package
// contains:
//
//   - Instance: one replication restore point and its disk placement
//   - DiskRef: a virtual disk resolved to its attachment node and file
//   - Errors: coded error definitions shared by every stage of a run
package domain
