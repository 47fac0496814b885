// Package command provides the hbr-recover command line, built on
// urfave/cli/v2:
//
//   - root.go: application, global flags, config and logger setup
//   - recover.go: turns a replica folder into a standalone VM
//   - summary.go: the recover run summary and its rendering
//   - inspect.go: decodes a snapshot-state file
//   - config.go: shows, validates and initializes the config file
//
// Commands load the effective configuration, build their collaborators,
// and render results through internal/cli/output.
package command
