// Package main is the entry point for the xiterm editor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"runtime/debug"
	"strconv"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/dshills/xiterm/internal/app"
	"github.com/dshills/xiterm/internal/config"
	"github.com/dshills/xiterm/internal/engine"
	"github.com/dshills/xiterm/internal/logger"
	"github.com/dshills/xiterm/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// options are the parsed command line.
type options struct {
	configPath  string
	file        string
	overrides   config.Overrides
	showVersion bool
}

// countFlag counts how often a boolean flag is given, as in -v -v.
type countFlag int

func (c *countFlag) String() string { return strconv.Itoa(int(*c)) }

func (c *countFlag) Set(s string) error {
	v, err := strconv.ParseBool(s)
	if err != nil {
		return err
	}
	if v {
		*c++
	}
	return nil
}

func (c *countFlag) IsBoolFlag() bool { return true }

func main() {
	os.Exit(run())
}

func run() (code int) {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return 2
	}
	if opts.showVersion {
		fmt.Printf("xiterm %s\n", version)
		fmt.Printf("Commit: %s\n", commit)
		fmt.Printf("Built: %s\n", date)
		return 0
	}

	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		fmt.Fprintln(os.Stderr, "Error: xiterm must be run in a terminal")
		return 1
	}

	loader := config.NewLoader(opts.configPath, opts.overrides)
	cfg, err := loader.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	log, closeLog, err := logger.New(cfg.Logger())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	defer closeLog()

	defer func() {
		if r := recover(); r != nil {
			perr := &app.RecoveredPanicError{Value: r, Stack: string(debug.Stack())}
			log.Error("panic", zap.Error(perr))
			fmt.Fprintf(os.Stderr, "Error: panic: %v\n", r)
			code = 2
		}
	}()

	log.Info("starting", zap.String("version", version), zap.String("core", cfg.CorePath))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.NewContext(ctx, log)

	tty, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	client, err := engine.Spawn(cfg.CorePath, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	appOpts := []app.Option{app.WithFile(opts.file)}
	if loader.File() != "" {
		watcher, err := config.NewWatcher(loader, config.WithWatcherLogger(log))
		if err != nil {
			log.Warn("config file not watched", zap.Error(err))
		} else {
			defer watcher.Close()
			log.Info("watching config", zap.String("path", watcher.Path()))
			appOpts = append(appOpts, app.WithConfigSource(watcher))
		}
	}

	application := app.New(client, tty, cfg, appOpts...)
	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("exiting", zap.Error(err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func parseFlags(args []string, output io.Writer) (options, error) {
	var (
		opts      options
		verbosity countFlag
	)
	fs := flag.NewFlagSet("xiterm", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	fs.StringVar(&opts.configPath, "c", "", "Path to configuration file (shorthand)")
	fs.StringVar(&opts.overrides.CorePath, "core", "", "Path to the xi-core executable")
	fs.StringVar(&opts.overrides.LogFile, "log-file", "", "Path to the log file")
	fs.StringVar(&opts.overrides.Theme, "theme", "", "Theme to request at startup")
	fs.Var(&verbosity, "v", "Increase log verbosity (repeatable)")
	fs.BoolVar(&opts.showVersion, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "xiterm - terminal front end for xi-core\n\n")
		fmt.Fprintf(fs.Output(), "Usage: xiterm [options] [file]\n\n")
		fmt.Fprintf(fs.Output(), "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return opts, fmt.Errorf("at most one file may be given")
	}
	opts.file = fs.Arg(0)
	opts.overrides.Verbosity = int(verbosity)
	return opts, nil
}
