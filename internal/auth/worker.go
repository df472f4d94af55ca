package auth

import (
	"context"
	"io"
	"log/slog"
	"time"
)

// DefaultPollInterval is how often the worker looks for a submission.
const DefaultPollInterval = 100 * time.Millisecond

// WorkerConfig holds configuration for the worker.
type WorkerConfig struct {
	PollInterval time.Duration
	Logger       *slog.Logger
	// OnSuccess is called once, from the worker goroutine, when a password
	// is accepted.
	OnSuccess func()
}

// Worker polls the state for submissions and verifies them off the UI
// goroutine.
type Worker struct {
	interval  time.Duration
	state     *State
	verifier  Verifier
	onSuccess func()
	logger    *slog.Logger
}

func NewWorker(state *State, verifier Verifier, cfg WorkerConfig) *Worker {
	interval := cfg.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	onSuccess := cfg.OnSuccess
	if onSuccess == nil {
		onSuccess = func() {}
	}
	return &Worker{
		interval:  interval,
		state:     state,
		verifier:  verifier,
		onSuccess: onSuccess,
		logger:    logger,
	}
}

// Run polls until the context is cancelled or a password is accepted.
func (w *Worker) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.logger.Debug("auth worker started", "interval", w.interval)

	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("auth worker stopped")
			return nil
		case <-ticker.C:
			if w.Check(ctx) {
				return nil
			}
		}
	}
}

// Check handles at most one pending submission and reports whether it was
// accepted.
func (w *Worker) Check(ctx context.Context) bool {
	password, ok := w.state.TakeSubmission()
	if !ok {
		return false
	}

	w.logger.Debug("verifying password", "length", len([]rune(password)))
	accepted, err := w.verifier.Verify(ctx, password)
	switch {
	case err != nil:
		w.logger.Warn("password check failed to run", "error", err)
		w.state.Reset()
		return false
	case !accepted:
		w.state.Fail()
		w.logger.Info("password rejected", "failures", w.state.Snapshot().Failures)
		return false
	}

	w.logger.Info("password accepted")
	w.state.Succeed()
	w.onSuccess()
	return true
}
