// Package vmx reads and rewrites machine configuration (.vmx) text.
//
// A machine config is a list of `key = "value"` lines. Lookups here work on
// the raw lines of one restore point; Rewriter turns a replicated config into
// one that can be powered on at the replica site.
package vmx
