package session

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
)

// Locker switches the desktop session in and out of its locked state.
type Locker interface {
	Lock(ctx context.Context) error
	Unlock(ctx context.Context) error
}

// Backend names accepted by New.
const (
	BackendSway   = "sway"
	BackendLogind = "logind"
	BackendNone   = "none"
)

var (
	DefaultSwayLock   = []string{"swaymsg", "mode", "lock"}
	DefaultSwayUnlock = []string{"swaymsg", "mode", "default"}
)

// CommandLocker runs one command to lock and another to unlock.
type CommandLocker struct {
	LockArgv   []string
	UnlockArgv []string
	Logger     *slog.Logger
}

func (c *CommandLocker) Lock(ctx context.Context) error {
	return c.run(ctx, c.LockArgv)
}

func (c *CommandLocker) Unlock(ctx context.Context) error {
	return c.run(ctx, c.UnlockArgv)
}

func (c *CommandLocker) run(ctx context.Context, argv []string) error {
	if len(argv) == 0 {
		return nil
	}
	out, err := exec.CommandContext(ctx, argv[0], argv[1:]...).CombinedOutput()
	if err != nil {
		msg := strings.TrimSpace(string(out))
		if msg != "" {
			return fmt.Errorf("%s: %w: %s", strings.Join(argv, " "), err, msg)
		}
		return fmt.Errorf("%s: %w", strings.Join(argv, " "), err)
	}
	if c.Logger != nil {
		c.Logger.Debug("session command", "argv", argv)
	}
	return nil
}

// NopLocker does nothing.
type NopLocker struct{}

func (NopLocker) Lock(context.Context) error   { return nil }
func (NopLocker) Unlock(context.Context) error { return nil }

// Options configures New.
type Options struct {
	Backend    string
	LockArgv   []string
	UnlockArgv []string
	Logger     *slog.Logger
}

// New returns the Locker for opts.Backend.
func New(ctx context.Context, opts Options) (Locker, error) {
	switch opts.Backend {
	case BackendSway, "":
		lock, unlock := opts.LockArgv, opts.UnlockArgv
		if len(lock) == 0 {
			lock = DefaultSwayLock
		}
		if len(unlock) == 0 {
			unlock = DefaultSwayUnlock
		}
		return &CommandLocker{LockArgv: lock, UnlockArgv: unlock, Logger: opts.Logger}, nil
	case BackendLogind:
		return NewLogindLocker(ctx)
	case BackendNone:
		return NopLocker{}, nil
	default:
		return nil, fmt.Errorf("unknown lock backend %q", opts.Backend)
	}
}
