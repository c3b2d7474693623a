// Command mdexportd serves Markdown export over HTTP: POST a document path
// to /export/html, /export/pdf, or /export/docx and receive the artifact.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	flag "github.com/spf13/pflag"
	"go.uber.org/automaxprocs/maxprocs"
	"go.uber.org/zap"

	mdexport "github.com/alnah/go-mdexport"
	"github.com/alnah/go-mdexport/internal/config"
	"github.com/alnah/go-mdexport/internal/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// serveFlags holds the command line flags.
type serveFlags struct {
	config  string
	addr    string
	root    string
	engine  string
	verbose bool
	version bool
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	flags, err := parseFlags(args)
	if err != nil {
		return err
	}

	if flags.version {
		fmt.Println("mdexportd " + Version)
		return nil
	}

	logger, err := newLogger(flags.verbose)
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	// Error ignored: maxprocs.Set only fails if GOMAXPROCS env is invalid,
	// in which case Go runtime defaults apply and the program continues safely.
	_, _ = maxprocs.Set(maxprocs.Logger(logger.Sugar().Debugf))

	cfg, err := config.Load(flags.config)
	if err != nil {
		return err
	}
	applyFlagOverrides(cfg, flags)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger.Info("configuration loaded", zap.String("effective", cfg.String()))

	exporter := mdexport.New(cfg.Server.Root,
		mdexport.WithPDFEngine(cfg.PDF.Engine),
		mdexport.WithFontDir(cfg.PDF.FontDir),
		mdexport.WithTimeout(time.Duration(cfg.PDF.TimeoutSeconds)*time.Second),
	)
	defer func() { _ = exporter.Close() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(exporter, logger, cfg.Server.Addr)
	return srv.Run(ctx)
}

// parseFlags parses the command line. Unknown flags are an error.
func parseFlags(args []string) (*serveFlags, error) {
	flags := &serveFlags{}

	fs := flag.NewFlagSet("mdexportd", flag.ContinueOnError)
	fs.StringVarP(&flags.config, "config", "c", "", "config file path (default: search standard locations)")
	fs.StringVar(&flags.addr, "addr", "", "listen address (overrides config)")
	fs.StringVar(&flags.root, "root", "", "document root directory (overrides config)")
	fs.StringVar(&flags.engine, "pdf-engine", "", "PDF engine: auto, chrome, builtin (overrides config)")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "debug logging")
	fs.BoolVar(&flags.version, "version", false, "print version and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return flags, nil
}

// applyFlagOverrides lets command line flags win over the config file.
func applyFlagOverrides(cfg *config.Config, flags *serveFlags) {
	if flags.addr != "" {
		cfg.Server.Addr = flags.addr
	}
	if flags.root != "" {
		cfg.Server.Root = flags.root
	}
	if flags.engine != "" {
		cfg.PDF.Engine = flags.engine
	}
}

// newLogger builds the process logger: production JSON by default,
// human-readable debug output with --verbose.
func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
