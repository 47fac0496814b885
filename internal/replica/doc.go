// Package replica turns a parsed replication index into restore points.
//
// Loader reads each restore point's machine config and firmware state through
// a Source (usually the replica folder), and Resolver works out where every
// disk of a restore point sits:
//
//	disk.<d>.id                          -> config key carrying that id -> node
//	disk.<d>.instance.<i>.path.{ds,relpath} -> filename and absolute path
//
// Restore points are numbered 0..count-1. Disk placement is also recorded at
// index count, which describes the live state.
package replica
