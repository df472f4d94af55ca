// Package x11 hosts the lock screen on an X server: the connection, the
// monitor query, the full-screen overlay window and keyboard translation.
package x11

import (
	"fmt"
	"image"
	"os"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// Options selects the X server. Empty fields fall back to the environment.
type Options struct {
	Display    string
	XAuthority string
}

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window
}

// NewConnection establishes a connection to the X11 server and initializes required extensions
func NewConnection(opts Options) (*Connection, error) {
	if opts.XAuthority != "" {
		// xgb reads the cookie file from the environment.
		if err := os.Setenv("XAUTHORITY", opts.XAuthority); err != nil {
			return nil, fmt.Errorf("set XAUTHORITY: %w", err)
		}
	}

	var (
		xu  *xgbutil.XUtil
		err error
	)
	if opts.Display != "" {
		xu, err = xgbutil.NewConnDisplay(opts.Display)
	} else {
		xu, err = xgbutil.NewConn()
	}
	if err != nil {
		return nil, fmt.Errorf("connect to X server: %w", err)
	}

	// Required before any keysym lookup.
	keybind.Initialize(xu)

	return &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}, nil
}

// ScreenSize is the size of the root window in pixels.
func (c *Connection) ScreenSize() (int, int) {
	screen := c.XUtil.Screen()
	return int(screen.WidthInPixels), int(screen.HeightInPixels)
}

// Viewport returns the union of the active monitors, or the screen when
// RandR reports none.
func (c *Connection) Viewport() image.Rectangle {
	if monitors, err := c.GetMonitors(); err == nil && len(monitors) > 0 {
		if r := UnionMonitors(monitors); !r.Empty() {
			return r
		}
	}
	w, h := c.ScreenSize()
	return image.Rect(0, 0, w, h)
}

// WatchRoot calls fn with the new root size whenever it changes.
func (c *Connection) WatchRoot(fn func(width, height int)) error {
	err := xproto.ChangeWindowAttributesChecked(
		c.XUtil.Conn(),
		c.Root,
		xproto.CwEventMask,
		[]uint32{uint32(xproto.EventMaskStructureNotify)},
	).Check()
	if err != nil {
		return fmt.Errorf("watch root window: %w", err)
	}

	w, h := c.ScreenSize()
	xevent.ConfigureNotifyFun(func(xu *xgbutil.XUtil, ev xevent.ConfigureNotifyEvent) {
		nw, nh := int(ev.Width), int(ev.Height)
		if nw == w && nh == h {
			return
		}
		w, h = nw, nh
		fn(nw, nh)
	}).Connect(c.XUtil, c.Root)
	return nil
}

// Ping starts the X event loop in its own goroutine. Every batch of event
// callbacks runs between a receive on before and a send on after, so a
// caller that waits on after never runs concurrently with a callback.
func (c *Connection) Ping() (before, after, quit chan struct{}) {
	return xevent.MainPing(c.XUtil)
}

// Quit stops the event loop started by Ping.
func (c *Connection) Quit() {
	xevent.Quit(c.XUtil)
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
