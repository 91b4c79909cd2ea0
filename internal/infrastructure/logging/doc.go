// Package logging provides structured logging using uber/zap.
//
// This package offers two modes:
//   - Production: JSON output for machine parsing
//   - Development: Colored console output for human readability
//
// Logs never go to stdout: stdout carries the child's terminal output
// byte for byte, so every sink defaults to stderr. During an interactive
// session stderr shares a raw-mode terminal and multi-line logs render
// stair-stepped; point OutputPaths at a file when that matters.
//
// Example Usage:
//
//	logger := logging.NewDefault()
//	logger.Warn("resize failed", zap.Error(err))
//	logger.Debug("session state", zap.String("state", "draining"))
package logging
