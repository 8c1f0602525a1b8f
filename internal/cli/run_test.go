package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"mousewatch/internal/config"
)

func TestRunOptionsResolve(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mousewatch.yml")
	body := "debug: true\ntray: true\nreport_interval: 2s\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	tests := []struct {
		name     string
		args     []string
		debug    bool
		tray     bool
		logMoves bool
		interval time.Duration
		receiver bool
		wantErr  bool
	}{
		{name: "file only", args: nil, debug: true, tray: true, interval: 2 * time.Second},
		{name: "flags override", args: []string{"--tray=false", "--log-moves", "--report-interval=100ms"}, debug: true, logMoves: true, interval: 100 * time.Millisecond},
		{name: "switch receiver", args: []string{"--switch-receiver"}, debug: true, tray: true, interval: 2 * time.Second, receiver: true},
		{name: "invalid interval", args: []string{"--report-interval=0s"}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			opts := &runOptions{}
			cmd := newRunCommand(opts)
			args := append([]string{"--config", path}, tc.args...)
			if err := cmd.ParseFlags(args); err != nil {
				t.Fatalf("parse flags: %v", err)
			}

			cfg, err := opts.resolve(cmd)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %+v", cfg)
				}
				return
			}
			if err != nil {
				t.Fatalf("resolve: %v", err)
			}
			if cfg.Debug != tc.debug || cfg.Tray != tc.tray || cfg.LogMoves != tc.logMoves || cfg.ReportInterval != tc.interval || cfg.Receiver.Enabled != tc.receiver {
				t.Fatalf("unexpected config %+v", cfg)
			}
		})
	}
}

func TestVersionCommand(t *testing.T) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"version"})

	if err := root.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.HasPrefix(out.String(), "mousewatch ") {
		t.Fatalf("unexpected version output %q", out.String())
	}
}

func TestQuitWhenReadyWaitsForTray(t *testing.T) {
	ready := make(chan struct{})
	errCh := make(chan error, 1)
	quit := make(chan struct{}, 1)

	done := quitWhenReady(ready, errCh, func() { quit <- struct{}{} })
	errCh <- errors.New("hook install failed")

	select {
	case <-quit:
		t.Fatalf("tray quit before it was ready")
	case <-done:
		t.Fatalf("returned before the tray was ready")
	case <-time.After(30 * time.Millisecond):
	}

	close(ready)
	select {
	case <-quit:
	case <-time.After(2 * time.Second):
		t.Fatalf("tray never quit")
	}
	select {
	case err := <-done:
		if err == nil || err.Error() != "hook install failed" {
			t.Fatalf("expected the watcher error, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("watcher error never delivered")
	}
}

func TestOpenSwitcherDisabled(t *testing.T) {
	switcher, closeReceiver, err := openSwitcher(config.Receiver{})
	if err != nil {
		t.Fatalf("open switcher: %v", err)
	}
	if switcher != nil {
		t.Fatalf("expected no switcher when disabled")
	}
	closeReceiver()
}
