// Package index parses the replication index (hbrgrp.<id>.txt).
//
// The index is a flat list of `key.path = "value"` assignments. Parse turns
// it into a Tree keyed by the dot-separated path segments:
//
//	group.instances = "3"
//	instance.0.snapshot = "2019-03-14 09:26:53 UTC"
//	disk.0.instance.2.path.relpath = "vm/hbrdisk.RDID-1.12.vmdk"
//
// Lines that do not match the assignment form are skipped.
//
// Tree.Lookup auto-creates missing interior nodes, which is convenient while
// parsing but says nothing about presence. Readers that need a value use the
// strict accessors (String, Int, Has, Children) instead.
package index
