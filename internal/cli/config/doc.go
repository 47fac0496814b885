// Package config defines the hbr-recover configuration.
//
// Values are layered with internal/infra/confloader in the order
// defaults < YAML file < HBR_RECOVER_* environment < command-line flags.
package config
