// Package buildinfo provides build information for hbr-recover.
//
// Values are injected via ldflags:
//
//   - Version: Semantic version (e.g., "v1.0.0")
//   - Commit: Git commit hash
//   - BuildTime: Build timestamp
//
// The Go version falls back to the running toolchain's when not injected.
// The version ends up in every archive manifest.
package buildinfo
