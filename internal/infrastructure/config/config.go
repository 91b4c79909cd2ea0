package config

import (
	"fmt"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all application configuration.
type Config struct {
	Terminal TerminalConfig `toml:"terminal"`
	Input    InputConfig    `toml:"input"`
	Shutdown ShutdownConfig `toml:"shutdown"`
	Logging  LogConfig      `toml:"logging"`
}

// TerminalConfig holds local endpoint and pty geometry configuration.
type TerminalConfig struct {
	// FallbackRows and FallbackCols apply when the local endpoint has no
	// readable geometry, e.g. when stdin is a pipe.
	FallbackRows uint16 `envconfig:"PTYRUN_FALLBACK_ROWS" toml:"fallback_rows"`
	FallbackCols uint16 `envconfig:"PTYRUN_FALLBACK_COLS" toml:"fallback_cols"`

	// ReadBuffer sizes the transfer buffer of each relay direction.
	ReadBuffer int `envconfig:"PTYRUN_READ_BUFFER" toml:"read_buffer"`

	// Headless controls answering of terminal status queries.
	Headless HeadlessMode `envconfig:"PTYRUN_HEADLESS" toml:"headless"`
}

// InputConfig holds pacing configuration for replayed input. Pacing only
// applies when stdin is not a terminal; interactive input passes through
// untouched.
type InputConfig struct {
	// EscapeDelay is the pause inserted after writing an ESC byte so the
	// child's line discipline can disambiguate escape sequences.
	EscapeDelay Duration `envconfig:"PTYRUN_ESCAPE_DELAY" toml:"escape_delay"`

	// ReplayRate throttles replayed input to this many bytes per second.
	// Zero disables throttling.
	ReplayRate float64 `envconfig:"PTYRUN_REPLAY_RATE" toml:"replay_rate"`

	// ReplayBurst is the limiter burst size when ReplayRate is set.
	ReplayBurst int `envconfig:"PTYRUN_REPLAY_BURST" toml:"replay_burst"`
}

// ShutdownConfig bounds the teardown waits after the child exits.
type ShutdownConfig struct {
	DrainTimeout Duration `envconfig:"PTYRUN_DRAIN_TIMEOUT" toml:"drain_timeout"`
	InputTimeout Duration `envconfig:"PTYRUN_INPUT_TIMEOUT" toml:"input_timeout"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"PTYRUN_LOG_LEVEL" toml:"level"`
	Development bool   `envconfig:"PTYRUN_LOG_DEV" toml:"development"`
	// File redirects logs away from stderr, which shares the raw-mode
	// terminal during interactive sessions.
	File string `envconfig:"PTYRUN_LOG_FILE" toml:"file"`
}

// HeadlessMode controls whether terminal status queries from the child
// are answered on behalf of a missing terminal.
type HeadlessMode string

const (
	// HeadlessAuto answers queries only when stdin is not a terminal.
	HeadlessAuto HeadlessMode = "auto"
	// HeadlessOn always answers queries.
	HeadlessOn HeadlessMode = "on"
	// HeadlessOff never answers queries.
	HeadlessOff HeadlessMode = "off"
)

// Duration is a time.Duration that decodes from strings like "50ms" in
// both environment variables and TOML files.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Load loads configuration from environment variables over defaults.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile loads configuration from the given TOML file, then applies
// environment variables on top. An empty path skips the file layer.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Terminal: TerminalConfig{
			FallbackRows: 24,
			FallbackCols: 80,
			ReadBuffer:   4096,
			Headless:     HeadlessAuto,
		},
		Input: InputConfig{
			EscapeDelay: Duration(50 * time.Millisecond),
			ReplayRate:  0,
			ReplayBurst: 32,
		},
		Shutdown: ShutdownConfig{
			DrainTimeout: Duration(2 * time.Second),
			InputTimeout: Duration(2 * time.Second),
		},
		Logging: LogConfig{
			Level:       "warn",
			Development: false,
		},
	}
}

// Validate rejects values no session could run with.
func (c *Config) Validate() error {
	switch c.Terminal.Headless {
	case HeadlessAuto, HeadlessOn, HeadlessOff:
	default:
		return fmt.Errorf("invalid headless mode %q (want auto, on, or off)", c.Terminal.Headless)
	}
	if c.Terminal.ReadBuffer <= 0 {
		return fmt.Errorf("read buffer must be positive, got %d", c.Terminal.ReadBuffer)
	}
	if c.Terminal.FallbackRows == 0 || c.Terminal.FallbackCols == 0 {
		return fmt.Errorf("fallback geometry must be nonzero, got %dx%d", c.Terminal.FallbackRows, c.Terminal.FallbackCols)
	}
	if c.Input.ReplayRate < 0 {
		return fmt.Errorf("replay rate must not be negative, got %g", c.Input.ReplayRate)
	}
	if c.Input.ReplayRate > 0 && c.Input.ReplayBurst <= 0 {
		return fmt.Errorf("replay burst must be positive when a rate is set, got %d", c.Input.ReplayBurst)
	}
	return nil
}
