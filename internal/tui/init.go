package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/1broseidon/raylock/internal/config"
	"github.com/1broseidon/raylock/internal/pane"
	"github.com/1broseidon/raylock/internal/session"
)

// initValues are the form-bound fields of `config init`. huh binds strings,
// so numbers are converted on apply.
type initValues struct {
	LockBackend   string
	LogLevel      string
	FrameInterval string
	LayoutFile    string
	LockMemory    bool
	IPC           bool
}

func valuesFrom(cfg *config.Config) initValues {
	return initValues{
		LockBackend:   cfg.LockBackend,
		LogLevel:      cfg.LogLevel,
		FrameInterval: strconv.Itoa(cfg.FrameIntervalMS),
		LayoutFile:    cfg.LayoutFile,
		LockMemory:    cfg.LockMemory,
		IPC:           cfg.IPC,
	}
}

// apply writes the form values into a copy of base and validates it.
func (v initValues) apply(base *config.Config) (*config.Config, error) {
	cfg := *base
	cfg.LockBackend = v.LockBackend
	cfg.LogLevel = v.LogLevel
	ms, err := strconv.Atoi(strings.TrimSpace(v.FrameInterval))
	if err != nil {
		return nil, fmt.Errorf("frame interval: %w", err)
	}
	cfg.FrameIntervalMS = ms
	cfg.LayoutFile = strings.TrimSpace(v.LayoutFile)
	cfg.LockMemory = v.LockMemory
	cfg.IPC = v.IPC
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func validateFrameInterval(s string) error {
	ms, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a whole number of milliseconds")
	}
	if ms < 1 || ms > 1000 {
		return fmt.Errorf("must be between 1 and 1000")
	}
	return nil
}

// validateLayoutFile accepts an empty path (the built-in layout) or a file
// that parses as a layout tree.
func validateLayoutFile(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	_, err := pane.Load(s)
	return err
}

func newInitForm(v *initValues) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("lock_backend").
				Title("Lock Backend").
				Description("How the session is locked while raylock runs").
				Options(
					huh.NewOption("sway", session.BackendSway),
					huh.NewOption("logind", session.BackendLogind),
					huh.NewOption("none", session.BackendNone),
				).
				Value(&v.LockBackend),

			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(
					huh.NewOption("debug", "debug"),
					huh.NewOption("info", "info"),
					huh.NewOption("warn", "warn"),
					huh.NewOption("error", "error"),
				).
				Value(&v.LogLevel),

			huh.NewInput().
				Key("frame_interval_ms").
				Title("Frame Interval (ms)").
				Description("Delay between two rendered frames").
				Validate(validateFrameInterval).
				Value(&v.FrameInterval),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("layout_file").
				Title("Layout File").
				Description("JSON pane tree; empty uses the built-in layout").
				Validate(validateLayoutFile).
				Value(&v.LayoutFile),

			huh.NewConfirm().
				Key("lock_memory").
				Title("Lock memory?").
				Description("mlockall so the password never reaches swap").
				Value(&v.LockMemory),

			huh.NewConfirm().
				Key("ipc").
				Title("Enable status socket?").
				Value(&v.IPC),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

// InitConfig asks for the main settings, starting from base, and returns the
// resulting config. The caller saves it.
func InitConfig(base *config.Config) (*config.Config, error) {
	if base == nil {
		base = config.DefaultConfig()
	}
	v := valuesFrom(base)
	if err := newInitForm(&v).Run(); err != nil {
		return nil, err
	}
	return v.apply(base)
}
