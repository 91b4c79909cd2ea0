// Package main is the entry point for ptyrun, a pseudo-terminal
// session runner.
//
// ptyrun executes a command attached to a fresh pseudo-terminal, relays
// bytes between the invoking terminal and the child, and exits with the
// child's status. The child believes it is on a real terminal: it gets
// a controlling tty, a window size, and SIGWINCH on resize.
//
// The local terminal is switched to raw passthrough for the duration of
// the session and restored on every exit path. Sessions without a real
// terminal (pipes, CI) can answer the child's status queries so
// full-screen programs do not hang waiting for a reply that would never
// come.
//
// Configuration:
//   - TOML file (-config)
//   - PTYRUN_* environment variables (override the file)
//   - CLI flags (override both)
//
// Usage:
//
//	# Interactive session
//	ptyrun vim notes.txt
//
//	# Headless capture: stdin is a pipe, terminal queries get answered
//	echo q | ptyrun less +G big.log > capture.out
//
// Signals:
//   - SIGINT, SIGTERM: kill the child, drain, restore the terminal
package main
