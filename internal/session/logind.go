package session

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/godbus/dbus/v5"
)

const (
	login1Dest    = "org.freedesktop.login1"
	login1Path    = "/org/freedesktop/login1"
	login1Manager = "org.freedesktop.login1.Manager"
	login1Session = "org.freedesktop.login1.Session"
)

// LogindLocker sets the LockedHint of the caller's logind session over the
// system bus.
type LogindLocker struct {
	session dbus.BusObject
	closer  io.Closer
}

// NewLogindLocker connects to the system bus and resolves the session of
// XDG_SESSION_ID, or of this process when the variable is unset.
func NewLogindLocker(ctx context.Context) (*LogindLocker, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect system bus: %w", err)
	}

	manager := conn.Object(login1Dest, login1Path)
	var path dbus.ObjectPath
	if id := os.Getenv("XDG_SESSION_ID"); id != "" {
		err = manager.CallWithContext(ctx, login1Manager+".GetSession", 0, id).Store(&path)
	} else {
		err = manager.CallWithContext(ctx, login1Manager+".GetSessionByPID", 0, uint32(os.Getpid())).Store(&path)
	}
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("resolve logind session: %w", err)
	}

	return newLogindLocker(conn.Object(login1Dest, path), conn), nil
}

func newLogindLocker(session dbus.BusObject, closer io.Closer) *LogindLocker {
	return &LogindLocker{session: session, closer: closer}
}

func (l *LogindLocker) Lock(ctx context.Context) error {
	return l.setLockedHint(ctx, true)
}

func (l *LogindLocker) Unlock(ctx context.Context) error {
	return l.setLockedHint(ctx, false)
}

func (l *LogindLocker) setLockedHint(ctx context.Context, locked bool) error {
	if err := l.session.CallWithContext(ctx, login1Session+".SetLockedHint", 0, locked).Err; err != nil {
		return fmt.Errorf("set locked hint to %t: %w", locked, err)
	}
	return nil
}

// Close releases the bus connection.
func (l *LogindLocker) Close() error {
	if l.closer == nil {
		return nil
	}
	return l.closer.Close()
}
