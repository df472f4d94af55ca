package config

import (
	"fmt"
	"strings"
)

// Explain returns the effective value at the given YAML-like path and its source.
//
// Supported paths include:
//
//	layout_file
//	display
//	xauthority
//	viewport.width
//	frame_interval_ms
//	auth.command
//	auth.poll_interval_ms
//	lock_backend
//	sway.lock_args
//	lock_memory
//	log_level
//	ipc
//	theme.pane_gap
//	theme.colors.accent
//	theme.colors.lines
func Explain(res *LoadResult, path string) (any, Source, error) {
	if res == nil || res.Config == nil {
		return nil, Source{}, fmt.Errorf("no config loaded")
	}
	if path == "" {
		return nil, Source{}, fmt.Errorf("path is empty")
	}

	value, err := lookupValue(res.Config, path)
	if err != nil {
		return nil, Source{}, err
	}

	// Exact-path file source wins.
	if src, ok := res.Sources[path]; ok {
		return value, src, nil
	}

	if path == "layout_file" && res.Config.LayoutFile == "" {
		return value, Source{Kind: SourceBuiltin, Name: "example layout"}, nil
	}
	return value, Source{Kind: SourceDefault, Name: "defaults"}, nil
}

// Paths lists every path accepted by Explain, in document order.
func Paths() []string {
	return []string{
		"layout_file",
		"display",
		"xauthority",
		"viewport.width",
		"viewport.height",
		"frame_interval_ms",
		"auth.command",
		"auth.poll_interval_ms",
		"lock_backend",
		"sway.lock_args",
		"sway.unlock_args",
		"lock_memory",
		"log_level",
		"log_file",
		"ipc",
		"theme.pane_gap",
		"theme.corner_cut",
		"theme.title_size",
		"theme.text_size",
		"theme.colors.background",
		"theme.colors.dots",
		"theme.colors.pane_fill",
		"theme.colors.stroke",
		"theme.colors.title",
		"theme.colors.text",
		"theme.colors.accent",
		"theme.colors.fail",
		"theme.colors.lines",
	}
}

func lookupValue(cfg *Config, path string) (any, error) {
	t := cfg.Theme
	c := t.Colors
	switch path {
	case "layout_file":
		return cfg.LayoutFile, nil
	case "display":
		return cfg.Display, nil
	case "xauthority":
		return cfg.XAuthority, nil
	case "viewport":
		return cfg.Viewport, nil
	case "viewport.width":
		return cfg.Viewport.Width, nil
	case "viewport.height":
		return cfg.Viewport.Height, nil
	case "frame_interval_ms":
		return cfg.FrameIntervalMS, nil
	case "auth":
		return cfg.Auth, nil
	case "auth.command":
		return strings.Join(cfg.Auth.Command, " "), nil
	case "auth.poll_interval_ms":
		return cfg.Auth.PollIntervalMS, nil
	case "lock_backend":
		return cfg.LockBackend, nil
	case "sway":
		return cfg.Sway, nil
	case "sway.lock_args":
		return strings.Join(cfg.Sway.LockArgs, " "), nil
	case "sway.unlock_args":
		return strings.Join(cfg.Sway.UnlockArgs, " "), nil
	case "lock_memory":
		return cfg.LockMemory, nil
	case "log_level":
		return cfg.LogLevel, nil
	case "log_file":
		return cfg.LogFile, nil
	case "ipc":
		return cfg.IPC, nil
	case "theme":
		return t, nil
	case "theme.pane_gap":
		return t.PaneGap, nil
	case "theme.corner_cut":
		return t.CornerCut, nil
	case "theme.title_size":
		return t.TitleSize, nil
	case "theme.text_size":
		return t.TextSize, nil
	case "theme.colors":
		return c, nil
	case "theme.colors.background":
		return c.Background, nil
	case "theme.colors.dots":
		return c.Dots, nil
	case "theme.colors.pane_fill":
		return c.PaneFill, nil
	case "theme.colors.stroke":
		return c.Stroke, nil
	case "theme.colors.title":
		return c.Title, nil
	case "theme.colors.text":
		return c.Text, nil
	case "theme.colors.accent":
		return c.Accent, nil
	case "theme.colors.fail":
		return c.Fail, nil
	case "theme.colors.lines":
		return strings.Join(c.Lines, " "), nil
	}
	return nil, fmt.Errorf("unknown path: %s", path)
}
