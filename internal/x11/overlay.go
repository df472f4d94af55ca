package x11

import (
	"fmt"
	"image"
	"log/slog"
	"time"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/xevent"
	"github.com/BurntSushi/xgbutil/xgraphics"
	"github.com/BurntSushi/xgbutil/xwindow"
)

const (
	// DefaultGrabTimeout bounds how long another client may hold the
	// keyboard before the overlay gives up.
	DefaultGrabTimeout = time.Second
	grabRetryInterval  = 50 * time.Millisecond
)

// Overlay is the full-screen lock window. It bypasses the window manager,
// owns the keyboard and pointer while mapped and shows frames pushed with
// Blit.
type Overlay struct {
	conn   *Connection
	win    *xwindow.Window
	ximg   *xgraphics.Image
	logger *slog.Logger
	bounds image.Rectangle

	grabbed bool
}

// NewOverlay creates and maps an override-redirect window covering bounds.
func NewOverlay(conn *Connection, bounds image.Rectangle, logger *slog.Logger) (*Overlay, error) {
	if logger == nil {
		logger = slog.Default()
	}
	win, err := xwindow.Generate(conn.XUtil)
	if err != nil {
		return nil, fmt.Errorf("generate window id: %w", err)
	}

	// Value list order follows the bit positions of the mask (low -> high).
	err = win.CreateChecked(
		conn.Root,
		bounds.Min.X, bounds.Min.Y,
		bounds.Dx(), bounds.Dy(),
		xproto.CwBackPixel|xproto.CwOverrideRedirect|xproto.CwEventMask,
		0, // back_pixel=black
		1, // override_redirect=true
		uint32(xproto.EventMaskKeyPress|xproto.EventMaskExposure),
	)
	if err != nil {
		return nil, fmt.Errorf("create lock window: %w", err)
	}
	_ = ewmh.WmNameSet(conn.XUtil, win.Id, "raylock")

	win.Map()
	win.Stack(xproto.StackModeAbove)

	return &Overlay{
		conn:   conn,
		win:    win,
		logger: logger,
		bounds: bounds,
	}, nil
}

// Window is the X id of the overlay.
func (o *Overlay) Window() xproto.Window { return o.win.Id }

// Grab takes the keyboard and pointer. While another client holds the
// keyboard the grab is retried until timeout.
func (o *Overlay) Grab(timeout time.Duration) error {
	if timeout <= 0 {
		timeout = DefaultGrabTimeout
	}
	conn := o.conn.XUtil.Conn()
	deadline := time.Now().Add(timeout)

	for {
		reply, err := xproto.GrabKeyboard(
			conn,
			false,                  // owner_events
			o.win.Id,               // grab_window
			xproto.TimeCurrentTime, // time
			xproto.GrabModeAsync,   // pointer_mode
			xproto.GrabModeAsync,   // keyboard_mode
		).Reply()
		if err != nil {
			return fmt.Errorf("grab keyboard: %w", err)
		}
		if reply.Status == xproto.GrabStatusSuccess {
			break
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("keyboard grab failed with status %d", reply.Status)
		}
		o.logger.Debug("keyboard busy, retrying grab", "status", reply.Status)
		time.Sleep(grabRetryInterval)
	}

	pointer, err := xproto.GrabPointer(
		conn,
		false,
		o.win.Id,
		0,
		xproto.GrabModeAsync,
		xproto.GrabModeAsync,
		o.win.Id, // confine_to
		xproto.CursorNone,
		xproto.TimeCurrentTime,
	).Reply()
	if err != nil || pointer.Status != xproto.GrabStatusSuccess {
		o.logger.Warn("pointer grab failed; continuing with keyboard only")
	}

	o.grabbed = true
	o.logger.Debug("keyboard grabbed", "window", o.win.Id)
	return nil
}

// OnKey connects fn to key presses on the overlay.
func (o *Overlay) OnKey(fn func(Key)) {
	xevent.KeyPressFun(func(xu *xgbutil.XUtil, ev xevent.KeyPressEvent) {
		key := keyFromEvent(xu, ev)
		if key.Action == KeyIgnore {
			return
		}
		fn(key)
	}).Connect(o.conn.XUtil, o.win.Id)
}

// Resize moves the window to cover bounds.
func (o *Overlay) Resize(bounds image.Rectangle) {
	o.bounds = bounds
	o.win.MoveResize(bounds.Min.X, bounds.Min.Y, bounds.Dx(), bounds.Dy())
	o.win.Stack(xproto.StackModeAbove)
}

// Blit shows img on the overlay. img is RGBA; the X image is BGRA.
func (o *Overlay) Blit(img *image.RGBA) error {
	rect := image.Rect(0, 0, img.Rect.Dx(), img.Rect.Dy())
	if o.ximg == nil || !o.ximg.Rect.Eq(rect) {
		if o.ximg != nil {
			o.ximg.Destroy()
		}
		o.ximg = xgraphics.New(o.conn.XUtil, rect)
		if err := o.ximg.XSurfaceSet(o.win.Id); err != nil {
			o.ximg.Destroy()
			o.ximg = nil
			return fmt.Errorf("create frame surface: %w", err)
		}
	}

	CopyBGRA(o.ximg.Pix, o.ximg.Stride, img)
	o.ximg.XDraw()
	o.ximg.XPaint(o.win.Id)
	return nil
}

// CopyBGRA converts src into a BGRA buffer with the given stride.
func CopyBGRA(dst []uint8, stride int, src *image.RGBA) {
	w, h := src.Rect.Dx(), src.Rect.Dy()
	for y := 0; y < h; y++ {
		s := src.Pix[y*src.Stride : y*src.Stride+w*4]
		d := dst[y*stride : y*stride+w*4]
		for i := 0; i < len(s); i += 4 {
			d[i+0] = s[i+2]
			d[i+1] = s[i+1]
			d[i+2] = s[i+0]
			d[i+3] = s[i+3]
		}
	}
}

// Close releases the grabs and destroys the window.
func (o *Overlay) Close() {
	conn := o.conn.XUtil.Conn()
	if o.grabbed {
		xproto.UngrabKeyboard(conn, xproto.TimeCurrentTime)
		xproto.UngrabPointer(conn, xproto.TimeCurrentTime)
		o.grabbed = false
	}
	xevent.Detach(o.conn.XUtil, o.win.Id)
	if o.ximg != nil {
		o.ximg.Destroy()
		o.ximg = nil
	}
	o.win.Destroy()
	o.conn.XUtil.Sync()
}
