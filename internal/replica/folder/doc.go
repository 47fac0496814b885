// Package folder is the replica folder: where the index and restore point
// files are read from, where recovered files are written, and where the
// originals are archived.
//
// Writes go through a Txn. Each file is written to a temporary name, synced,
// then renamed into place; Rollback undoes every write, directory and move
// of the transaction in reverse order.
package folder
