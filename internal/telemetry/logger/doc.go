// Package logger provides structured logging for hbr-recover.
//
//   - logger.go: slog-backed Logger, level and format selection
//   - context.go: logger and run ID propagation through context.Context
//
// Logs go to stderr so that stdout stays free for the run summary.
package logger
