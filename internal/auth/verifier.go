package auth

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// DefaultCommand asks sudo for a fresh password check without running
// anything privileged.
var DefaultCommand = []string{"sudo", "-kS", "true"}

// Verifier checks a password. A false result with a nil error is a
// rejection; an error means the check itself could not run.
type Verifier interface {
	Verify(ctx context.Context, password string) (bool, error)
}

// CommandVerifier runs a command, writes the password and a newline to its
// stdin and accepts the password when the command exits 0.
type CommandVerifier struct {
	Argv []string
}

func NewCommandVerifier(argv []string) *CommandVerifier {
	if len(argv) == 0 {
		argv = DefaultCommand
	}
	return &CommandVerifier{Argv: append([]string(nil), argv...)}
}

func (v *CommandVerifier) Verify(ctx context.Context, password string) (bool, error) {
	if len(v.Argv) == 0 {
		return false, errors.New("verifier: empty command")
	}
	cmd := exec.CommandContext(ctx, v.Argv[0], v.Argv[1:]...)
	cmd.Stdin = strings.NewReader(password + "\n")
	// Keep sudo's prompt and diagnostics off the terminal.
	cmd.Stdout = nil
	cmd.Stderr = nil

	err := cmd.Run()
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && ctx.Err() == nil {
		return false, nil
	}
	return false, fmt.Errorf("run %s: %w", v.Argv[0], err)
}

// VerifierFunc adapts a function to Verifier.
type VerifierFunc func(ctx context.Context, password string) (bool, error)

func (f VerifierFunc) Verify(ctx context.Context, password string) (bool, error) {
	return f(ctx, password)
}
