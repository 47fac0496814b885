// Package vmsd builds snapshot-chain descriptor (.vmsd) documents.
//
// A recovered chain is linear: snapshot s (one-based, oldest = 1) has parent
// s-1, and the current state sits on top of the newest snapshot.
package vmsd
