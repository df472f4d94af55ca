package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

// FallbackLockPath is the lock marker used when no XDG runtime directory is
// available. Other tools look for it there.
const FallbackLockPath = "/tmp/.raylock.lock"

// Dir returns the runtime directory used for the IPC socket and the lock
// marker. Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
// 3) /tmp/raylock-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/raylock-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the status IPC socket path.
func SocketPath() (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "raylock.sock"), nil
}

// LockPath returns the lock marker path: raylock.lock in XDG_RUNTIME_DIR,
// or FallbackLockPath when the variable is unset.
func LockPath() string {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return filepath.Join(runtimeDir, "raylock.lock")
	}
	return FallbackLockPath
}
