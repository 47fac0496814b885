// Package main provides the entry point for hbr-recover.
//
// hbr-recover turns a vSphere Replication replica folder into a VM that can
// be registered and powered on at the replica site:
//
//   - <vm>.vmx rewritten for the newest restore point
//   - <vm>.nvram firmware state
//   - one <vm>-Snapshot<n>.vmsn per restore point and a <vm>.vmsd chain
//
// The replication artifacts are moved into a backup folder with a checksum
// manifest.
//
// Usage:
//
//	hbr-recover recover /vmfs/volumes/ds-replica/web01
//	hbr-recover recover --dry-run --wait 10m /vmfs/volumes/ds-replica/web01
//	hbr-recover -o json inspect web01-Snapshot2.vmsn
//	hbr-recover config init
package main
