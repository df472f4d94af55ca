package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sys/unix"

	"github.com/1broseidon/raylock/internal/auth"
	"github.com/1broseidon/raylock/internal/config"
	"github.com/1broseidon/raylock/internal/geom"
	"github.com/1broseidon/raylock/internal/ipc"
	"github.com/1broseidon/raylock/internal/locker"
	"github.com/1broseidon/raylock/internal/pane"
	"github.com/1broseidon/raylock/internal/runtimepath"
	"github.com/1broseidon/raylock/internal/session"
	"github.com/1broseidon/raylock/internal/x11"
)

const unlockTimeout = 5 * time.Second

func runLock(args []string) int {
	fs := flag.NewFlagSet("lock", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: raylock lock [--config PATH] [--layout FILE] [--verbose]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Lock the screen until the password is accepted.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	configPath := fs.String("config", "", "Config file path (default: ~/.config/raylock/config.yaml)")
	layoutPath := fs.String("layout", "", "Layout JSON file (overrides layout_file)")
	verbose := fs.Bool("verbose", false, "Log at debug level")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "lock takes no arguments")
		fs.Usage()
		return 2
	}

	res, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	cfg := res.Config

	logger, closer, err := newLogger(cfg, *verbose)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	defer closer.Close()

	if err := lock(cfg, *layoutPath, logger); err != nil {
		logger.Error("lock failed", "err", err)
		if errors.Is(err, session.ErrAlreadyLocked) {
			fmt.Fprintln(os.Stderr, err)
		}
		return 1
	}
	return 0
}

// errInterrupted is returned when a signal ends the lock without a password.
var errInterrupted = errors.New("interrupted before unlock")

func lock(cfg *config.Config, layoutOverride string, logger *slog.Logger) error {
	theme, err := cfg.PaneTheme()
	if err != nil {
		return err
	}
	layoutCfg, source, err := loadLayout(cfg, layoutOverride)
	if err != nil {
		return err
	}
	tree, err := pane.Build(layoutCfg, widgetFactory(theme, logger))
	if err != nil {
		return err
	}
	logger.Debug("layout loaded", "source", source)

	marker := session.NewMarker(runtimepath.LockPath())
	if err := marker.Acquire(); err != nil {
		return err
	}

	conn, err := x11.NewConnection(x11.Options{Display: cfg.Display, XAuthority: cfg.XAuthority})
	if err != nil {
		marker.Release()
		return err
	}
	defer conn.Close()

	var viewport image.Rectangle
	if cfg.Viewport.Width > 0 {
		viewport = image.Rect(0, 0, cfg.Viewport.Width, cfg.Viewport.Height)
	} else {
		viewport = conn.Viewport()
	}
	// Resolve once before the session is locked so a bad layout never
	// leaves the desktop locked with nothing on screen.
	rect := geom.RectXYWH(0, 0, float64(viewport.Dx()), float64(viewport.Dy()))
	if err := tree.Precalc(rect, theme); err != nil {
		marker.Release()
		return err
	}

	if cfg.LockMemory {
		if err := unix.Mlockall(unix.MCL_CURRENT | unix.MCL_FUTURE); err != nil {
			logger.Warn("mlockall failed; password may be swapped", "err", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sess, err := session.New(ctx, session.Options{
		Backend:    cfg.LockBackend,
		LockArgv:   cfg.Sway.LockArgs,
		UnlockArgv: cfg.Sway.UnlockArgs,
		Logger:     logger,
	})
	if err != nil {
		marker.Release()
		return err
	}
	if err := sess.Lock(ctx); err != nil {
		marker.Release()
		return fmt.Errorf("lock session: %w", err)
	}

	cleanup := sync.OnceFunc(func() {
		uctx, cancel := context.WithTimeout(context.Background(), unlockTimeout)
		defer cancel()
		if err := sess.Unlock(uctx); err != nil {
			logger.Error("unlock session failed", "err", err)
		}
		if c, ok := sess.(interface{ Close() error }); ok {
			c.Close()
		}
		if err := marker.Release(); err != nil {
			logger.Error("release marker failed", "err", err)
		}
	})
	defer cleanup()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic while locked", "panic", r)
			cleanup()
			panic(r)
		}
	}()

	state := auth.NewState()
	lk := locker.New(locker.Options{
		Tree:          tree,
		Theme:         theme,
		State:         state,
		FrameInterval: cfg.FrameInterval(),
		Logger:        logger,
	})

	if cfg.IPC {
		if srv, err := startIPC(lk, logger); err != nil {
			logger.Warn("status socket unavailable", "err", err)
		} else {
			defer srv.Stop()
		}
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var unlocked atomic.Bool
	worker := auth.NewWorker(state, auth.NewCommandVerifier(cfg.Auth.Command), auth.WorkerConfig{
		PollInterval: cfg.PollInterval(),
		Logger:       logger,
		OnSuccess: func() {
			unlocked.Store(true)
			cancel()
		},
	})

	logger.Info("locked", "viewport", fmt.Sprintf("%dx%d", viewport.Dx(), viewport.Dy()), "backend", cfg.LockBackend)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(guard(logger, "frame loop", func() error {
		return lk.Run(gctx, conn, viewport)
	}))
	g.Go(guard(logger, "auth worker", func() error {
		return worker.Run(gctx)
	}))
	if err := g.Wait(); err != nil {
		return err
	}
	if !unlocked.Load() {
		return errInterrupted
	}
	logger.Info("unlocked")
	return nil
}

func startIPC(provider ipc.Provider, logger *slog.Logger) (*ipc.Server, error) {
	path, err := runtimepath.SocketPath()
	if err != nil {
		return nil, err
	}
	srv := ipc.NewServer(path, provider, logger)
	if err := srv.Start(); err != nil {
		return nil, err
	}
	return srv, nil
}

// guard turns a panic in fn into an error so the deferred unlock in lock
// still runs.
func guard(logger *slog.Logger, name string, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic", "goroutine", name, "panic", r, "stack", string(debug.Stack()))
				err = fmt.Errorf("%s panicked: %v", name, r)
			}
		}()
		return fn()
	}
}
