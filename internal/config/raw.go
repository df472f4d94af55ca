package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// IncludeList supports either:
//
//	include: "/path/to/file.yaml"
//
// or:
//
//	include:
//	  - "/path/to/file.yaml"
//	  - "/path/to/dir"
type IncludeList []string

func (l *IncludeList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case 0:
		// Not present.
		*l = nil
		return nil
	case yaml.ScalarNode:
		if value.Tag != "!!str" {
			return fmt.Errorf("include must be a string or list of strings")
		}
		*l = []string{value.Value}
		return nil
	case yaml.SequenceNode:
		out := make([]string, 0, len(value.Content))
		for _, item := range value.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("include entries must be strings")
			}
			out = append(out, item.Value)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("include must be a string or list of strings")
	}
}

type RawViewport struct {
	Width  *int `yaml:"width"`
	Height *int `yaml:"height"`
}

type RawAuth struct {
	Command        []string `yaml:"command"`
	PollIntervalMS *int     `yaml:"poll_interval_ms"`
}

type RawSway struct {
	LockArgs   []string `yaml:"lock_args"`
	UnlockArgs []string `yaml:"unlock_args"`
}

type RawThemeColors struct {
	Background *string  `yaml:"background"`
	Dots       *string  `yaml:"dots"`
	PaneFill   *string  `yaml:"pane_fill"`
	Stroke     *string  `yaml:"stroke"`
	Title      *string  `yaml:"title"`
	Text       *string  `yaml:"text"`
	Accent     *string  `yaml:"accent"`
	Fail       *string  `yaml:"fail"`
	Lines      []string `yaml:"lines"`
}

type RawTheme struct {
	PaneGap   *float64        `yaml:"pane_gap"`
	CornerCut *float64        `yaml:"corner_cut"`
	TitleSize *float64        `yaml:"title_size"`
	TextSize  *float64        `yaml:"text_size"`
	Colors    *RawThemeColors `yaml:"colors"`
}

type RawConfig struct {
	Include         IncludeList  `yaml:"include"`
	LayoutFile      *string      `yaml:"layout_file"`
	Display         *string      `yaml:"display"`
	XAuthority      *string      `yaml:"xauthority"`
	Viewport        *RawViewport `yaml:"viewport"`
	FrameIntervalMS *int         `yaml:"frame_interval_ms"`
	Auth            *RawAuth     `yaml:"auth"`
	LockBackend     *string      `yaml:"lock_backend"`
	Sway            *RawSway     `yaml:"sway"`
	LockMemory      *bool        `yaml:"lock_memory"`
	LogLevel        *string      `yaml:"log_level"`
	LogFile         *string      `yaml:"log_file"`
	IPC             *bool        `yaml:"ipc"`
	Theme           *RawTheme    `yaml:"theme"`
}

func (c RawConfig) merge(overlay RawConfig) RawConfig {
	out := c

	if overlay.LayoutFile != nil {
		out.LayoutFile = overlay.LayoutFile
	}
	if overlay.Display != nil {
		out.Display = overlay.Display
	}
	if overlay.XAuthority != nil {
		out.XAuthority = overlay.XAuthority
	}
	if overlay.Viewport != nil {
		if out.Viewport == nil {
			out.Viewport = &RawViewport{}
		}
		merged := mergeRawViewport(*out.Viewport, *overlay.Viewport)
		out.Viewport = &merged
	}
	if overlay.FrameIntervalMS != nil {
		out.FrameIntervalMS = overlay.FrameIntervalMS
	}
	if overlay.Auth != nil {
		if out.Auth == nil {
			out.Auth = &RawAuth{}
		}
		merged := *out.Auth
		if overlay.Auth.Command != nil {
			merged.Command = overlay.Auth.Command
		}
		if overlay.Auth.PollIntervalMS != nil {
			merged.PollIntervalMS = overlay.Auth.PollIntervalMS
		}
		out.Auth = &merged
	}
	if overlay.LockBackend != nil {
		out.LockBackend = overlay.LockBackend
	}
	if overlay.Sway != nil {
		if out.Sway == nil {
			out.Sway = &RawSway{}
		}
		merged := *out.Sway
		if overlay.Sway.LockArgs != nil {
			merged.LockArgs = overlay.Sway.LockArgs
		}
		if overlay.Sway.UnlockArgs != nil {
			merged.UnlockArgs = overlay.Sway.UnlockArgs
		}
		out.Sway = &merged
	}
	if overlay.LockMemory != nil {
		out.LockMemory = overlay.LockMemory
	}
	if overlay.LogLevel != nil {
		out.LogLevel = overlay.LogLevel
	}
	if overlay.LogFile != nil {
		out.LogFile = overlay.LogFile
	}
	if overlay.IPC != nil {
		out.IPC = overlay.IPC
	}
	if overlay.Theme != nil {
		if out.Theme == nil {
			out.Theme = &RawTheme{}
		}
		merged := mergeRawTheme(*out.Theme, *overlay.Theme)
		out.Theme = &merged
	}

	return out
}

func mergeRawViewport(base RawViewport, overlay RawViewport) RawViewport {
	out := base
	if overlay.Width != nil {
		out.Width = overlay.Width
	}
	if overlay.Height != nil {
		out.Height = overlay.Height
	}
	return out
}

func mergeRawTheme(base RawTheme, overlay RawTheme) RawTheme {
	out := base
	if overlay.PaneGap != nil {
		out.PaneGap = overlay.PaneGap
	}
	if overlay.CornerCut != nil {
		out.CornerCut = overlay.CornerCut
	}
	if overlay.TitleSize != nil {
		out.TitleSize = overlay.TitleSize
	}
	if overlay.TextSize != nil {
		out.TextSize = overlay.TextSize
	}
	if overlay.Colors != nil {
		if out.Colors == nil {
			out.Colors = &RawThemeColors{}
		}
		merged := mergeRawThemeColors(*out.Colors, *overlay.Colors)
		out.Colors = &merged
	}
	return out
}

func mergeRawThemeColors(base RawThemeColors, overlay RawThemeColors) RawThemeColors {
	out := base
	for _, f := range []struct {
		dst **string
		src *string
	}{
		{&out.Background, overlay.Background},
		{&out.Dots, overlay.Dots},
		{&out.PaneFill, overlay.PaneFill},
		{&out.Stroke, overlay.Stroke},
		{&out.Title, overlay.Title},
		{&out.Text, overlay.Text},
		{&out.Accent, overlay.Accent},
		{&out.Fail, overlay.Fail},
	} {
		if f.src != nil {
			*f.dst = f.src
		}
	}
	if overlay.Lines != nil {
		out.Lines = overlay.Lines
	}
	return out
}
