package ipc

import (
	"errors"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

type fakeProvider struct {
	status      StatusData
	layout      LayoutData
	monitors    []MonitorInfo
	monitorsErr error
}

func (f *fakeProvider) Status() StatusData               { return f.status }
func (f *fakeProvider) Layout() LayoutData               { return f.layout }
func (f *fakeProvider) Monitors() ([]MonitorInfo, error) { return f.monitors, f.monitorsErr }

func startServer(t *testing.T, p Provider) (*Server, *Client) {
	t.Helper()
	dir, err := os.MkdirTemp("", "raylock-ipc")
	if err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })

	// Short path: unix socket names are limited to ~108 bytes.
	path := filepath.Join(dir, "s.sock")
	srv := NewServer(path, p, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := srv.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	t.Cleanup(srv.Stop)
	return srv, NewClientAt(path)
}

func TestRoundTrip_Status(t *testing.T) {
	since := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	p := &fakeProvider{status: StatusData{
		LockedSince:    since,
		UptimeSeconds:  42,
		FailedAttempts: 2,
		PasswordLength: 5,
		Verifying:      true,
		LeafCount:      6,
		Viewport:       RectData{Width: 1920, Height: 1080},
	}}
	_, client := startServer(t, p)

	status, err := client.GetStatus()
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !status.LockedSince.Equal(since) {
		t.Fatalf("expected locked_since %v, got %v", since, status.LockedSince)
	}
	if status.FailedAttempts != 2 || status.PasswordLength != 5 || !status.Verifying || status.LeafCount != 6 {
		t.Fatalf("unexpected status %+v", status)
	}
	if status.Viewport.Width != 1920 {
		t.Fatalf("expected viewport width 1920, got %v", status.Viewport.Width)
	}
	if err := client.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestRoundTrip_Layout(t *testing.T) {
	p := &fakeProvider{layout: LayoutData{
		Viewport: RectData{Width: 200, Height: 100},
		Leaves: []LeafData{
			{Path: "root.a", PaneType: "CpuGraph", Corners: [4]string{"SQUARE", "SQUARE", "SQUARE", "SQUARE"}, Title: "top", Computed: true},
			{Path: "root.b", PaneType: "MemGraph", Corners: [4]string{"Ang45", "SQUARE", "SQUARE", "SQUARE"}, Title: "side", Computed: true},
		},
	}}
	_, client := startServer(t, p)

	layout, err := client.GetLayout()
	if err != nil {
		t.Fatalf("layout: %v", err)
	}
	if len(layout.Leaves) != 2 {
		t.Fatalf("expected 2 leaves, got %d", len(layout.Leaves))
	}
	if layout.Leaves[1].Corners[0] != "Ang45" || layout.Leaves[1].Title != "side" {
		t.Fatalf("unexpected leaf %+v", layout.Leaves[1])
	}
}

func TestRoundTrip_MonitorsError(t *testing.T) {
	p := &fakeProvider{monitorsErr: errors.New("randr unavailable")}
	_, client := startServer(t, p)

	_, err := client.GetMonitors()
	if err == nil || !strings.Contains(err.Error(), "randr unavailable") {
		t.Fatalf("expected monitors error, got %v", err)
	}
}

func TestServer_UnknownCommand(t *testing.T) {
	srv, _ := startServer(t, &fakeProvider{})

	conn, err := net.Dial("unix", srv.SocketPath())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	if _, err := conn.Write([]byte(`{"command":"UNLOCK"}` + "\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	buf := make([]byte, 512)
	n, err := conn.Read(buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(buf[:n]), "Unknown command: UNLOCK") {
		t.Fatalf("unexpected response %q", buf[:n])
	}
}

func TestServer_SocketPermissionsAndCleanup(t *testing.T) {
	srv, _ := startServer(t, &fakeProvider{})

	info, err := os.Stat(srv.SocketPath())
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Fatalf("expected 0600 socket, got %v", info.Mode().Perm())
	}

	srv.Stop()
	if _, err := os.Stat(srv.SocketPath()); !os.IsNotExist(err) {
		t.Fatalf("expected socket removed after stop, got %v", err)
	}
}

func TestClient_NoServer(t *testing.T) {
	client := NewClientAt(filepath.Join(t.TempDir(), "missing.sock"))
	if err := client.Ping(); err == nil {
		t.Fatalf("expected connection error")
	}
}
