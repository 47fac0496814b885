// Package output provides output formatting for hbr-recover.
//
//   - formatter.go: Formatter interface and factory
//   - table.go: aligned plain-text tables, the default
//   - json.go, yaml.go: machine-readable output for scripting
//   - progress.go: per-file progress while a recovery is committed
//
// Formatters write to stdout; progress goes to stderr alongside the logs.
package output
