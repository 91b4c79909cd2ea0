package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/ptykit/ptyrun/internal/infrastructure/config"
	"github.com/ptykit/ptyrun/internal/infrastructure/logging"
	"github.com/ptykit/ptyrun/internal/session"
)

// version is stamped by the build with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	flag.Usage = usage
	configPath := flag.String("config", "", "Path to a TOML configuration file")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")
	logFile := flag.String("log-file", "", "Write logs to this file instead of stderr")
	headless := flag.String("headless", "", "Answer terminal queries: auto, on, off")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("ptyrun %s\n", version)
		return 0
	}

	argv := flag.Args()
	if len(argv) == 0 {
		usage()
		return 2
	}

	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ptyrun: %v\n", err)
		return 2
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}
	if *logFile != "" {
		cfg.Logging.File = *logFile
	}
	if *headless != "" {
		cfg.Terminal.Headless = config.HeadlessMode(*headless)
		if err := cfg.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "ptyrun: %v\n", err)
			return 2
		}
	}

	log, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ptyrun: logger: %v\n", err)
		return 2
	}
	defer log.Sync()

	// SIGINT and SIGTERM kill the child and let the session drain, so
	// the invoker's terminal is restored even on external termination.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return session.New(cfg, log).Run(ctx, argv)
}

// newLogger builds the session logger. Logs default to stderr, which is
// safe for warnings during interactive use; anything chattier belongs
// in a file so it does not interleave with raw-mode output.
func newLogger(cfg *config.Config) (*logging.Logger, error) {
	lc := logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stderr"},
	}
	if cfg.Logging.File != "" {
		lc.OutputPaths = []string{cfg.Logging.File}
	}
	return logging.New(lc)
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [flags] <command> [args...]\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "\nRuns <command> inside a pseudo-terminal.\n")
	fmt.Fprintf(os.Stderr, "The child thinks it's on a real terminal.\n\n")
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
}
