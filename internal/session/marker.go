// Package session marks a running lock instance and tells the desktop
// session that it is locked.
package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
)

// ErrAlreadyLocked is returned when another instance holds the marker.
var ErrAlreadyLocked = errors.New("raylock is already running")

// Marker is the lock-instance marker file.
type Marker struct {
	path string
	held bool
}

func NewMarker(path string) *Marker {
	return &Marker{path: path}
}

func (m *Marker) Path() string { return m.path }

// Exists reports whether some instance holds the marker.
func (m *Marker) Exists() bool {
	_, err := os.Stat(m.path)
	return err == nil
}

// Acquire creates the marker. It fails with ErrAlreadyLocked when the file
// exists. The file holds the owner's pid.
func (m *Marker) Acquire() error {
	f, err := os.OpenFile(m.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w (marker %s)", ErrAlreadyLocked, m.path)
		}
		return fmt.Errorf("create lock marker: %w", err)
	}
	_, werr := f.WriteString(strconv.Itoa(os.Getpid()) + "\n")
	cerr := f.Close()
	if err := errors.Join(werr, cerr); err != nil {
		os.Remove(m.path)
		return fmt.Errorf("write lock marker: %w", err)
	}
	m.held = true
	return nil
}

// Release removes the marker. A missing file is not an error.
func (m *Marker) Release() error {
	m.held = false
	if err := os.Remove(m.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove lock marker: %w", err)
	}
	return nil
}

// Held reports whether this Marker created the file.
func (m *Marker) Held() bool { return m.held }

// Owner returns the pid recorded in the marker, or 0 if unreadable.
func (m *Marker) Owner() int {
	data, err := os.ReadFile(m.path)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}
