// Package service provides the recovery service for hbr-recover.
//
// RecoveryService sequences a recovery run:
//
//   - parse the replication index
//   - load every restore point and resolve its disks
//   - encode one snapshot state file per restore point, newest first, and
//     collect its snapshot chain entry
//   - rewrite the newest machine config against the live disk placement
//
// The service only synthesizes; writing and archiving are left to the
// caller so that a failed run leaves the replica folder untouched.
package service
