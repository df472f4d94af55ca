package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/1broseidon/raylock/internal/config"
	"github.com/1broseidon/raylock/internal/logging"
	"github.com/1broseidon/raylock/internal/pane"
	"github.com/1broseidon/raylock/internal/widget"
)

func main() {
	if len(os.Args) < 2 {
		os.Exit(runLock(nil))
	}

	switch os.Args[1] {
	case "lock":
		os.Exit(runLock(os.Args[2:]))
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "inspect":
		os.Exit(runInspect(os.Args[2:]))
	case "verify":
		os.Exit(runVerify(os.Args[2:]))
	case "layout":
		os.Exit(runLayout(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		if len(os.Args[1]) > 0 && os.Args[1][0] == '-' {
			// Flags without a command belong to lock.
			os.Exit(runLock(os.Args[1:]))
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: raylock [command] [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  lock                Lock the screen (default)")
	fmt.Fprintln(w, "  status              Show the running locker's status")
	fmt.Fprintln(w, "  inspect             Browse a resolved layout in the terminal")
	fmt.Fprintln(w, "  verify              Check a password with the configured verifier")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  layout check        Parse and resolve a layout file")
	fmt.Fprintln(w, "  layout print        Print a layout as normalized JSON")
	fmt.Fprintln(w, "  layout schema       Print the layout JSON Schema")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "  config explain      Explain a config value")
	fmt.Fprintln(w, "  config init         Write a starter config interactively")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'raylock <command> --help' for command-specific options.")
}

func isHelpArg(args []string) bool {
	return len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help")
}

// loadConfig reads path, or the default location when path is empty.
func loadConfig(path string) (*config.LoadResult, error) {
	if path == "" {
		return config.LoadWithSources()
	}
	return config.LoadFromPath(path)
}

// loadLayout returns the layout named by override, else the configured one,
// else the built-in example. The second value names where it came from.
func loadLayout(cfg *config.Config, override string) (*pane.Config, string, error) {
	path := override
	if path == "" && cfg != nil {
		path = cfg.LayoutFile
	}
	layout, err := pane.Load(path)
	if err != nil {
		return nil, "", err
	}
	if path == "" {
		return layout, pane.BuiltinSource, nil
	}
	return layout, path, nil
}

// widgetFactory creates live telemetry widgets styled by theme.
func widgetFactory(theme pane.Theme, logger *slog.Logger) pane.Factory {
	deps := widget.Deps{
		Palette:  theme.Palette,
		TextSize: theme.TextSize,
		Logger:   logger,
	}
	return func(kind widget.Kind) widget.Widget {
		return widget.New(kind, deps)
	}
}

// newLogger builds the process logger. With log_file set, output goes to a
// rotating file; the returned closer must be closed on exit.
func newLogger(cfg *config.Config, verbose bool) (*slog.Logger, io.Closer, error) {
	level := logging.ParseLevel(cfg.LogLevel)
	if verbose {
		level = slog.LevelDebug
	}
	if cfg.LogFile == "" {
		return logging.New(os.Stderr, level), nopCloser{}, nil
	}
	f, err := logging.OpenFile(logging.FileConfig{Path: cfg.LogFile})
	if err != nil {
		return nil, nil, err
	}
	return logging.New(f, level), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func formatSource(src config.Source) string {
	switch src.Kind {
	case config.SourceFile:
		if src.File == "" {
			return "file"
		}
		if src.Line > 0 {
			return fmt.Sprintf("file:%s:%d:%d", src.File, src.Line, src.Column)
		}
		return "file:" + src.File
	case config.SourceBuiltin:
		if src.Name != "" {
			return "builtin:" + src.Name
		}
		return "builtin"
	case config.SourceDefault:
		if src.Name != "" {
			return "default:" + src.Name
		}
		return "default"
	default:
		return string(src.Kind)
	}
}
