// Package config provides 12-factor configuration for ptyrun.
//
// Configuration is resolved in three layers: code defaults, then an
// optional TOML file, then PTYRUN_* environment variables. Later layers
// win, so an operator can ship a config file and still override a single
// knob per invocation.
//
// Configuration Sections:
//   - Terminal: fallback geometry, read buffer size, headless answering mode
//   - Input: pacing for replayed (non-interactive) input
//   - Shutdown: bounded teardown waits
//   - Logging: level, encoder mode, optional file sink
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	fmt.Println(cfg.Terminal.FallbackCols)
//
// Environment Variables:
//   - PTYRUN_FALLBACK_ROWS, PTYRUN_FALLBACK_COLS, PTYRUN_READ_BUFFER, PTYRUN_HEADLESS
//   - PTYRUN_ESCAPE_DELAY, PTYRUN_REPLAY_RATE, PTYRUN_REPLAY_BURST
//   - PTYRUN_DRAIN_TIMEOUT, PTYRUN_INPUT_TIMEOUT
//   - PTYRUN_LOG_LEVEL, PTYRUN_LOG_DEV, PTYRUN_LOG_FILE
package config
