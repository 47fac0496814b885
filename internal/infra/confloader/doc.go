// Package confloader merges the hbr-recover configuration layers on one
// koanf instance.
//
// Layers, lowest first:
//
//  1. Defaults already held by the target struct
//  2. YAML config file, optional when it is the default path
//  3. HBR_RECOVER_<SECTION>_<KEY> environment variables
//  4. Flag overrides keyed by dotted path
package confloader
