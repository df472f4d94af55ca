package session

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/godbus/dbus/v5"
)

func TestMarker_AcquireTwiceFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raylock.lock")
	first := NewMarker(path)
	if err := first.Acquire(); err != nil {
		t.Fatalf("Acquire() error: %v", err)
	}
	if !first.Exists() || !first.Held() {
		t.Fatal("marker should exist and be held after Acquire")
	}
	if got := first.Owner(); got != os.Getpid() {
		t.Fatalf("Owner() = %d, want %d", got, os.Getpid())
	}

	second := NewMarker(path)
	err := second.Acquire()
	if !errors.Is(err, ErrAlreadyLocked) {
		t.Fatalf("second Acquire() error = %v, want ErrAlreadyLocked", err)
	}
	if second.Held() {
		t.Fatal("second marker must not be held")
	}

	if err := first.Release(); err != nil {
		t.Fatalf("Release() error: %v", err)
	}
	if first.Exists() {
		t.Fatal("marker still exists after Release")
	}
	if err := first.Release(); err != nil {
		t.Fatalf("Release() of missing marker error: %v", err)
	}
	if err := second.Acquire(); err != nil {
		t.Fatalf("Acquire() after release error: %v", err)
	}
}

func TestMarker_AcquireInMissingDirFails(t *testing.T) {
	m := NewMarker(filepath.Join(t.TempDir(), "missing", "raylock.lock"))
	err := m.Acquire()
	if err == nil {
		t.Fatal("Acquire() succeeded in a missing directory")
	}
	if errors.Is(err, ErrAlreadyLocked) {
		t.Fatalf("Acquire() error = %v, should not be ErrAlreadyLocked", err)
	}
}

func TestCommandLocker_RunsConfiguredCommands(t *testing.T) {
	dir := t.TempDir()
	log := filepath.Join(dir, "log")
	l := &CommandLocker{
		LockArgv:   []string{"sh", "-c", "echo lock >> " + log},
		UnlockArgv: []string{"sh", "-c", "echo unlock >> " + log},
	}
	ctx := context.Background()
	if err := l.Lock(ctx); err != nil {
		t.Fatalf("Lock() error: %v", err)
	}
	if err := l.Unlock(ctx); err != nil {
		t.Fatalf("Unlock() error: %v", err)
	}

	data, err := os.ReadFile(log)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if got := string(data); got != "lock\nunlock\n" {
		t.Fatalf("log = %q", got)
	}
}

func TestCommandLocker_ReportsFailureOutput(t *testing.T) {
	l := &CommandLocker{LockArgv: []string{"sh", "-c", "echo no compositor >&2; exit 3"}}
	err := l.Lock(context.Background())
	if err == nil {
		t.Fatal("Lock() succeeded")
	}
	if !strings.Contains(err.Error(), "no compositor") {
		t.Fatalf("Lock() error = %q, want command output", err)
	}
}

func TestNew_SelectsBackend(t *testing.T) {
	ctx := context.Background()

	l, err := New(ctx, Options{Backend: BackendSway})
	if err != nil {
		t.Fatalf("New(sway) error: %v", err)
	}
	cl, ok := l.(*CommandLocker)
	if !ok {
		t.Fatalf("New(sway) = %T, want *CommandLocker", l)
	}
	if strings.Join(cl.LockArgv, " ") != "swaymsg mode lock" || strings.Join(cl.UnlockArgv, " ") != "swaymsg mode default" {
		t.Fatalf("sway argv = %v / %v", cl.LockArgv, cl.UnlockArgv)
	}

	l, err = New(ctx, Options{Backend: BackendNone})
	if err != nil {
		t.Fatalf("New(none) error: %v", err)
	}
	if _, ok := l.(NopLocker); !ok {
		t.Fatalf("New(none) = %T, want NopLocker", l)
	}

	if _, err := New(ctx, Options{Backend: "gnome"}); err == nil {
		t.Fatal("New(gnome) succeeded")
	}
}

type fakeSession struct {
	dbus.BusObject
	methods []string
	args    []any
	err     error
}

func (f *fakeSession) CallWithContext(_ context.Context, method string, _ dbus.Flags, args ...any) *dbus.Call {
	f.methods = append(f.methods, method)
	f.args = append(f.args, args...)
	return &dbus.Call{Err: f.err}
}

func TestLogindLocker_SetsLockedHint(t *testing.T) {
	fake := &fakeSession{}
	l := newLogindLocker(fake, nil)
	ctx := context.Background()

	if err := l.Lock(ctx); err != nil {
		t.Fatalf("Lock() error: %v", err)
	}
	if err := l.Unlock(ctx); err != nil {
		t.Fatalf("Unlock() error: %v", err)
	}
	if len(fake.methods) != 2 || fake.methods[0] != "org.freedesktop.login1.Session.SetLockedHint" {
		t.Fatalf("methods = %v", fake.methods)
	}
	if fake.args[0] != true || fake.args[1] != false {
		t.Fatalf("args = %v, want [true false]", fake.args)
	}
	if err := l.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}

	fake.err = errors.New("access denied")
	if err := l.Lock(ctx); err == nil || !strings.Contains(err.Error(), "access denied") {
		t.Fatalf("Lock() error = %v", err)
	}
}
