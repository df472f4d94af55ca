package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/raylock/internal/config"
	"github.com/1broseidon/raylock/internal/logging"
	"github.com/1broseidon/raylock/internal/pane"
)

func TestFormatSource(t *testing.T) {
	tests := []struct {
		src  config.Source
		want string
	}{
		{config.Source{Kind: config.SourceFile, File: "/a.yaml", Line: 3, Column: 5}, "file:/a.yaml:3:5"},
		{config.Source{Kind: config.SourceFile, File: "/a.yaml"}, "file:/a.yaml"},
		{config.Source{Kind: config.SourceBuiltin, Name: "example layout"}, "builtin:example layout"},
		{config.Source{Kind: config.SourceDefault}, "default"},
	}
	for _, tt := range tests {
		if got := formatSource(tt.src); got != tt.want {
			t.Fatalf("formatSource(%+v) = %q, want %q", tt.src, got, tt.want)
		}
	}
}

func TestLoadLayout_FallsBackToBuiltin(t *testing.T) {
	layout, source, err := loadLayout(config.DefaultConfig(), "")
	if err != nil {
		t.Fatalf("loadLayout: %v", err)
	}
	if source != pane.BuiltinSource {
		t.Fatalf("source = %q, want %q", source, pane.BuiltinSource)
	}
	if leaves, _ := layout.Count(); leaves == 0 {
		t.Fatalf("builtin layout has no leaves")
	}
}

func TestLoadLayout_OverrideWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.json")
	doc := `{"kind":"Leaf","pane_type":"Info","corners":["SQUARE","SQUARE","SQUARE","SQUARE"]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := config.DefaultConfig()
	cfg.LayoutFile = filepath.Join(dir, "missing.json")
	layout, source, err := loadLayout(cfg, path)
	if err != nil {
		t.Fatalf("loadLayout: %v", err)
	}
	if source != path {
		t.Fatalf("source = %q, want %q", source, path)
	}
	if leaves, splits := layout.Count(); leaves != 1 || splits != 0 {
		t.Fatalf("count = %d/%d, want 1/0", leaves, splits)
	}
}

func TestCheckLayout_ReportsLeaves(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.yaml")

	var out bytes.Buffer
	if err := checkLayout(&out, configPath, "", 1920, 1080); err != nil {
		t.Fatalf("checkLayout: %v", err)
	}
	if !strings.HasPrefix(out.String(), "layout: ok (<builtin>") {
		t.Fatalf("unexpected output:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "root.a") {
		t.Fatalf("leaves missing from output:\n%s", out.String())
	}
}

func TestCheckLayout_DegenerateLeafFails(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "layout.json")
	doc := `{"kind":"Leaf","pane_type":"Info","corners":["SQUARE","Ang45","SQUARE","Ang45"]}`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	err := checkLayout(&out, filepath.Join(dir, "config.yaml"), path, 800, 600)
	if !errors.Is(err, pane.ErrDegenerateOutline) {
		t.Fatalf("err = %v, want ErrDegenerateOutline", err)
	}
}

func TestGuard_RecoversPanic(t *testing.T) {
	fn := guard(logging.Discard(), "worker", func() error { panic("boom") })
	err := fn()
	if err == nil || !strings.Contains(err.Error(), "worker panicked: boom") {
		t.Fatalf("err = %v", err)
	}

	want := errors.New("plain")
	if got := guard(logging.Discard(), "worker", func() error { return want })(); got != want {
		t.Fatalf("err = %v, want %v", got, want)
	}
}

func TestNewLogger_WritesToRotatingFile(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.LogFile = filepath.Join(t.TempDir(), "raylock.log")

	logger, closer, err := newLogger(cfg, false)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	logger.Info("hello", "n", 1)
	if err := closer.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(cfg.LogFile)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Fatalf("log file missing message: %q", data)
	}
}
