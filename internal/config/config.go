package config

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/1broseidon/raylock/internal/auth"
	"github.com/1broseidon/raylock/internal/pane"
	"github.com/1broseidon/raylock/internal/render"
	"github.com/1broseidon/raylock/internal/session"
	"gopkg.in/yaml.v3"
)

// Viewport overrides the detected screen size. Zero means detect.
type Viewport struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// AuthConfig configures password verification.
type AuthConfig struct {
	// Command receives the password on stdin and must exit 0 to unlock.
	Command        []string `yaml:"command"`
	PollIntervalMS int      `yaml:"poll_interval_ms"`
}

// SwayConfig holds the commands of the sway lock backend.
type SwayConfig struct {
	LockArgs   []string `yaml:"lock_args"`
	UnlockArgs []string `yaml:"unlock_args"`
}

// ThemeColors are hex colors (#rgb, #rrggbb or #rrggbbaa).
type ThemeColors struct {
	Background string   `yaml:"background"`
	Dots       string   `yaml:"dots"`
	PaneFill   string   `yaml:"pane_fill"`
	Stroke     string   `yaml:"stroke"`
	Title      string   `yaml:"title"`
	Text       string   `yaml:"text"`
	Accent     string   `yaml:"accent"`
	Fail       string   `yaml:"fail"`
	Lines      []string `yaml:"lines"`
}

type ThemeConfig struct {
	PaneGap   float64     `yaml:"pane_gap"`
	CornerCut float64     `yaml:"corner_cut"`
	TitleSize float64     `yaml:"title_size"`
	TextSize  float64     `yaml:"text_size"`
	Colors    ThemeColors `yaml:"colors"`
}

type Config struct {
	LayoutFile      string      `yaml:"layout_file,omitempty"`
	Display         string      `yaml:"display,omitempty"`
	XAuthority      string      `yaml:"xauthority,omitempty"`
	Viewport        Viewport    `yaml:"viewport"`
	FrameIntervalMS int         `yaml:"frame_interval_ms"`
	Auth            AuthConfig  `yaml:"auth"`
	LockBackend     string      `yaml:"lock_backend"`
	Sway            SwayConfig  `yaml:"sway"`
	LockMemory      bool        `yaml:"lock_memory"`
	LogLevel        string      `yaml:"log_level"`
	LogFile         string      `yaml:"log_file,omitempty"`
	IPC             bool        `yaml:"ipc"`
	Theme           ThemeConfig `yaml:"theme"`
}

const (
	DefaultFrameIntervalMS = 50
	maxFrameIntervalMS     = 1000
)

func DefaultConfig() *Config {
	pal := render.DefaultPalette()
	lines := make([]string, len(pal.Lines))
	for i, c := range pal.Lines {
		lines[i] = render.FormatColor(c)
	}

	return &Config{
		FrameIntervalMS: DefaultFrameIntervalMS,
		Auth: AuthConfig{
			Command:        append([]string(nil), auth.DefaultCommand...),
			PollIntervalMS: int(auth.DefaultPollInterval / time.Millisecond),
		},
		LockBackend: session.BackendSway,
		Sway: SwayConfig{
			LockArgs:   append([]string(nil), session.DefaultSwayLock...),
			UnlockArgs: append([]string(nil), session.DefaultSwayUnlock...),
		},
		LockMemory: true,
		LogLevel:   "info",
		IPC:        true,
		Theme: ThemeConfig{
			PaneGap:   pane.DefaultGap,
			CornerCut: pane.DefaultCornerCut,
			TitleSize: pane.DefaultTitleSize,
			TextSize:  pane.DefaultTextSize,
			Colors: ThemeColors{
				Background: render.FormatColor(pal.Background),
				Dots:       render.FormatColor(pal.Dots),
				PaneFill:   render.FormatColor(pal.PaneFill),
				Stroke:     render.FormatColor(pal.Stroke),
				Title:      render.FormatColor(pal.Title),
				Text:       render.FormatColor(pal.Text),
				Accent:     render.FormatColor(pal.Accent),
				Fail:       render.FormatColor(pal.Fail),
				Lines:      lines,
			},
		},
	}
}

// FrameInterval is the delay between two rendered frames.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.FrameIntervalMS) * time.Millisecond
}

// PollInterval is how often the auth worker looks for a submission.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.Auth.PollIntervalMS) * time.Millisecond
}

// PaneTheme builds the immutable theme handed to the layout and render
// passes.
func (c *Config) PaneTheme() (pane.Theme, error) {
	pal, err := c.palette()
	if err != nil {
		return pane.Theme{}, err
	}
	return pane.Theme{
		Gap:       c.Theme.PaneGap,
		CornerCut: c.Theme.CornerCut,
		TitleSize: c.Theme.TitleSize,
		TextSize:  c.Theme.TextSize,
		Palette:   pal,
	}, nil
}

func (c *Config) palette() (render.Palette, error) {
	pal := render.DefaultPalette()
	colors := c.Theme.Colors
	for _, f := range []struct {
		name  string
		value string
		dst   *color.Color
	}{
		{"background", colors.Background, &pal.Background},
		{"dots", colors.Dots, &pal.Dots},
		{"pane_fill", colors.PaneFill, &pal.PaneFill},
		{"stroke", colors.Stroke, &pal.Stroke},
		{"title", colors.Title, &pal.Title},
		{"text", colors.Text, &pal.Text},
		{"accent", colors.Accent, &pal.Accent},
		{"fail", colors.Fail, &pal.Fail},
	} {
		if strings.TrimSpace(f.value) == "" {
			continue
		}
		col, err := render.ParseColor(f.value)
		if err != nil {
			return render.Palette{}, &ValidationError{Path: "theme.colors." + f.name, Err: err}
		}
		*f.dst = col
	}

	if len(colors.Lines) > 0 {
		pal.Lines = make([]color.Color, 0, len(colors.Lines))
		for i, v := range colors.Lines {
			col, err := render.ParseColor(v)
			if err != nil {
				return render.Palette{}, &ValidationError{Path: fmt.Sprintf("theme.colors.lines[%d]", i), Err: err}
			}
			pal.Lines = append(pal.Lines, col)
		}
	}
	return pal, nil
}

// Save writes the configuration to path, creating parent directories.
//
// Note: this marshals the effective config and will not preserve comments or
// include structure from the original YAML.
func (c *Config) Save(path string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := c.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// Marshal renders the effective configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}

// Validate performs strict validation of the effective configuration.
func (c *Config) Validate() error {
	if c.Viewport.Width < 0 || c.Viewport.Height < 0 {
		return &ValidationError{Path: "viewport", Err: fmt.Errorf("viewport values must be >= 0")}
	}
	if (c.Viewport.Width == 0) != (c.Viewport.Height == 0) {
		return &ValidationError{Path: "viewport", Err: fmt.Errorf("set both width and height, or neither")}
	}
	if c.FrameIntervalMS <= 0 || c.FrameIntervalMS > maxFrameIntervalMS {
		return &ValidationError{Path: "frame_interval_ms", Err: fmt.Errorf("frame_interval_ms must be between 1 and %d", maxFrameIntervalMS)}
	}
	if len(c.Auth.Command) == 0 || strings.TrimSpace(c.Auth.Command[0]) == "" {
		return &ValidationError{Path: "auth.command", Err: fmt.Errorf("auth.command must name a program")}
	}
	if c.Auth.PollIntervalMS <= 0 {
		return &ValidationError{Path: "auth.poll_interval_ms", Err: fmt.Errorf("poll_interval_ms must be > 0")}
	}

	switch c.LockBackend {
	case session.BackendSway:
		if len(c.Sway.LockArgs) == 0 {
			return &ValidationError{Path: "sway.lock_args", Err: fmt.Errorf("lock_args must not be empty")}
		}
		if len(c.Sway.UnlockArgs) == 0 {
			return &ValidationError{Path: "sway.unlock_args", Err: fmt.Errorf("unlock_args must not be empty")}
		}
	case session.BackendLogind, session.BackendNone:
	default:
		return &ValidationError{Path: "lock_backend", Err: fmt.Errorf("lock_backend must be one of: sway, logind, none")}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warn, error")}
	}

	if c.Theme.PaneGap < 0 {
		return &ValidationError{Path: "theme.pane_gap", Err: fmt.Errorf("pane_gap must be >= 0")}
	}
	if c.Theme.CornerCut < 0 {
		return &ValidationError{Path: "theme.corner_cut", Err: fmt.Errorf("corner_cut must be >= 0")}
	}
	if c.Theme.TitleSize <= 0 {
		return &ValidationError{Path: "theme.title_size", Err: fmt.Errorf("title_size must be > 0")}
	}
	if c.Theme.TextSize <= 0 {
		return &ValidationError{Path: "theme.text_size", Err: fmt.Errorf("text_size must be > 0")}
	}
	if _, err := c.palette(); err != nil {
		return err
	}
	return nil
}
