package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/1broseidon/raylock/internal/geom"
	"github.com/1broseidon/raylock/internal/pane"
)

func printLayoutUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  raylock layout check [--width W] [--height H] [--config PATH] [layout.json]")
	fmt.Fprintln(w, "  raylock layout print [--config PATH] [layout.json]")
	fmt.Fprintln(w, "  raylock layout schema")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Without a file, the configured layout (or the built-in one) is used.")
}

func runLayout(args []string) int {
	if len(args) == 0 {
		printLayoutUsage(os.Stderr)
		return 2
	}
	if isHelpArg(args) {
		printLayoutUsage(os.Stdout)
		return 0
	}

	switch args[0] {
	case "check":
		fs := flag.NewFlagSet("check", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		width := fs.Int("width", 1920, "Viewport width in pixels")
		height := fs.Int("height", 1080, "Viewport height in pixels")
		configPath := fs.String("config", "", "Config file path (default: ~/.config/raylock/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() > 1 || *width <= 0 || *height <= 0 {
			printLayoutUsage(os.Stderr)
			return 2
		}
		if err := checkLayout(os.Stdout, *configPath, fs.Arg(0), *width, *height); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		configPath := fs.String("config", "", "Config file path (default: ~/.config/raylock/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() > 1 {
			printLayoutUsage(os.Stderr)
			return 2
		}
		res, err := loadConfig(*configPath)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		layout, _, err := loadLayout(res.Config, fs.Arg(0))
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		data, err := json.MarshalIndent(layout, "", "  ")
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(string(data))
		return 0

	case "schema":
		os.Stdout.Write(pane.SchemaJSON())
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown layout command: %s\n\n", args[0])
		printLayoutUsage(os.Stderr)
		return 2
	}
}

// checkLayout parses, builds and resolves a layout, then reports its shape.
func checkLayout(w io.Writer, configPath, layoutPath string, width, height int) error {
	res, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	theme, err := res.Config.PaneTheme()
	if err != nil {
		return err
	}
	layout, source, err := loadLayout(res.Config, layoutPath)
	if err != nil {
		return err
	}
	tree, err := pane.Build(layout, nil)
	if err != nil {
		return err
	}
	if err := tree.Precalc(geom.RectXYWH(0, 0, float64(width), float64(height)), theme); err != nil {
		return err
	}

	leaves, splits := layout.Count()
	fmt.Fprintf(w, "layout: ok (%s, %d leaves, %d splits at %dx%d)\n", source, leaves, splits, width, height)
	for _, leaf := range tree.Leaves() {
		g := leaf.Geometry
		fmt.Fprintf(w, "  %-12s %-9s inner %.0fx%.0f title %s\n", leaf.Path, leaf.PaneType, g.Inner.Width(), g.Inner.Height(), g.Title)
	}
	return nil
}
