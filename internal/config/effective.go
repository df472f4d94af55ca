package config

import (
	"fmt"
	"strings"
)

type ValidationError struct {
	Path   string
	Source Source
	Err    error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Source.Kind == SourceFile && e.Source.File != "" && e.Source.Line > 0 {
		return fmt.Sprintf("%s:%d:%d: %s: %v", e.Source.File, e.Source.Line, e.Source.Column, e.Path, e.Err)
	}
	if e.Path != "" {
		return fmt.Sprintf("%s: %v", e.Path, e.Err)
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// BuildEffectiveConfig applies raw over DefaultConfig.
func BuildEffectiveConfig(raw RawConfig) (*Config, error) {
	cfg := DefaultConfig()

	if raw.LayoutFile != nil {
		cfg.LayoutFile = strings.TrimSpace(*raw.LayoutFile)
	}
	if raw.Display != nil {
		cfg.Display = *raw.Display
	}
	if raw.XAuthority != nil {
		cfg.XAuthority = *raw.XAuthority
	}
	if raw.Viewport != nil {
		cfg.Viewport.Width = derefInt(raw.Viewport.Width, cfg.Viewport.Width)
		cfg.Viewport.Height = derefInt(raw.Viewport.Height, cfg.Viewport.Height)
	}
	cfg.FrameIntervalMS = derefInt(raw.FrameIntervalMS, cfg.FrameIntervalMS)
	if raw.Auth != nil {
		if raw.Auth.Command != nil {
			cfg.Auth.Command = append([]string(nil), raw.Auth.Command...)
		}
		cfg.Auth.PollIntervalMS = derefInt(raw.Auth.PollIntervalMS, cfg.Auth.PollIntervalMS)
	}
	if raw.LockBackend != nil {
		cfg.LockBackend = strings.ToLower(strings.TrimSpace(*raw.LockBackend))
	}
	if raw.Sway != nil {
		if raw.Sway.LockArgs != nil {
			cfg.Sway.LockArgs = append([]string(nil), raw.Sway.LockArgs...)
		}
		if raw.Sway.UnlockArgs != nil {
			cfg.Sway.UnlockArgs = append([]string(nil), raw.Sway.UnlockArgs...)
		}
	}
	if raw.LockMemory != nil {
		cfg.LockMemory = *raw.LockMemory
	}
	if raw.LogLevel != nil {
		cfg.LogLevel = strings.ToLower(strings.TrimSpace(*raw.LogLevel))
	}
	if raw.LogFile != nil {
		cfg.LogFile = strings.TrimSpace(*raw.LogFile)
	}
	if raw.IPC != nil {
		cfg.IPC = *raw.IPC
	}
	if raw.Theme != nil {
		applyTheme(&cfg.Theme, *raw.Theme)
	}

	return cfg, nil
}

func applyTheme(theme *ThemeConfig, raw RawTheme) {
	theme.PaneGap = derefFloat(raw.PaneGap, theme.PaneGap)
	theme.CornerCut = derefFloat(raw.CornerCut, theme.CornerCut)
	theme.TitleSize = derefFloat(raw.TitleSize, theme.TitleSize)
	theme.TextSize = derefFloat(raw.TextSize, theme.TextSize)
	if raw.Colors == nil {
		return
	}
	c := raw.Colors
	colors := &theme.Colors
	colors.Background = derefString(c.Background, colors.Background)
	colors.Dots = derefString(c.Dots, colors.Dots)
	colors.PaneFill = derefString(c.PaneFill, colors.PaneFill)
	colors.Stroke = derefString(c.Stroke, colors.Stroke)
	colors.Title = derefString(c.Title, colors.Title)
	colors.Text = derefString(c.Text, colors.Text)
	colors.Accent = derefString(c.Accent, colors.Accent)
	colors.Fail = derefString(c.Fail, colors.Fail)
	if c.Lines != nil {
		colors.Lines = append([]string(nil), c.Lines...)
	}
}

func derefInt(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

func derefFloat(p *float64, def float64) float64 {
	if p == nil {
		return def
	}
	return *p
}

func derefString(p *string, def string) string {
	if p == nil {
		return def
	}
	return strings.TrimSpace(*p)
}
