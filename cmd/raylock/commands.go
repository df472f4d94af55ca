package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/term"

	"github.com/1broseidon/raylock/internal/auth"
	"github.com/1broseidon/raylock/internal/geom"
	"github.com/1broseidon/raylock/internal/ipc"
	"github.com/1broseidon/raylock/internal/pane"
	"github.com/1broseidon/raylock/internal/tui"
)

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: raylock status [--layout] [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show the running locker's status via IPC.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	showLayout := fs.Bool("layout", false, "Also list the resolved leaves")
	jsonOut := fs.Bool("json", false, "Print the raw status as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	var layout *ipc.LayoutData
	if *showLayout {
		if layout, err = client.GetLayout(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}

	if *jsonOut {
		out := struct {
			Status *ipc.StatusData `json:"status"`
			Layout *ipc.LayoutData `json:"layout,omitempty"`
		}{status, layout}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	printStatus(status, time.Now())
	if layout != nil {
		printLayout(layout)
	}
	return 0
}

func printStatus(s *ipc.StatusData, now time.Time) {
	fmt.Printf("locked_since:    %s (%s)\n", s.LockedSince.Format(time.RFC3339), humanize.RelTime(s.LockedSince, now, "ago", "from now"))
	fmt.Printf("uptime_seconds:  %d\n", s.UptimeSeconds)
	fmt.Printf("failed_attempts: %d\n", s.FailedAttempts)
	fmt.Printf("password_length: %d\n", s.PasswordLength)
	fmt.Printf("verifying:       %v\n", s.Verifying)
	fmt.Printf("leaf_count:      %d\n", s.LeafCount)
	fmt.Printf("viewport:        %.0fx%.0f\n", s.Viewport.Width, s.Viewport.Height)
}

func printLayout(l *ipc.LayoutData) {
	for _, leaf := range l.Leaves {
		fmt.Printf("- %s %s [%s] outer=%.0fx%.0f+%.0f+%.0f inner=%.0fx%.0f title=%s\n",
			leaf.Path, leaf.PaneType, strings.Join(leaf.Corners[:], " "),
			leaf.Outer.Width, leaf.Outer.Height, leaf.Outer.X, leaf.Outer.Y,
			leaf.Inner.Width, leaf.Inner.Height, leaf.Title)
	}
}

func runInspect(args []string) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: raylock inspect [--width W] [--height H] [--config PATH] [layout.json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Resolve a layout at the given size and browse its leaves.")
		fmt.Fprintln(os.Stderr, "Without a file, the configured layout (or the built-in one) is used.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	width := fs.Int("width", 1920, "Viewport width in pixels")
	height := fs.Int("height", 1080, "Viewport height in pixels")
	configPath := fs.String("config", "", "Config file path (default: ~/.config/raylock/config.yaml)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() > 1 || *width <= 0 || *height <= 0 {
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	theme, err := res.Config.PaneTheme()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	layoutCfg, source, err := loadLayout(res.Config, fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	tree, err := pane.Build(layoutCfg, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	viewport := geom.RectXYWH(0, 0, float64(*width), float64(*height))
	if err := tui.Inspect(tree, theme, viewport, source); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runVerify(args []string) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: raylock verify [--config PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Read a password and check it with auth.command.")
		fmt.Fprintln(os.Stderr, "Exits 0 when accepted, 1 when rejected or the check fails.")
	}
	configPath := fs.String("config", "", "Config file path (default: ~/.config/raylock/config.yaml)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	password, err := readPassword()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	ok, err := auth.NewCommandVerifier(res.Config.Auth.Command).Verify(context.Background(), password)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if !ok {
		fmt.Println("rejected")
		return 1
	}
	fmt.Println("accepted")
	return 0
}

// readPassword prompts without echo on a terminal and reads one line from
// stdin otherwise.
func readPassword() (string, error) {
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		fmt.Fprint(os.Stderr, "Password: ")
		data, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(data), nil
	}
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
