package flow

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

var switchReport = []byte{0x10, 0x04, 0x0a, 0x1d, 0x00, 0x00, 0x00}

type fakeDevice struct {
	mu     sync.Mutex
	writes [][]byte
	err    error
	wrote  chan struct{}
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{wrote: make(chan struct{}, 16)}
}

func (d *fakeDevice) Write(p []byte) (int, error) {
	d.mu.Lock()
	d.writes = append(d.writes, append([]byte(nil), p...))
	d.mu.Unlock()
	d.wrote <- struct{}{}
	return len(p), d.err
}

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newTestSwitcher(t *testing.T, dev *fakeDevice, clock *fakeClock) *Switcher {
	t.Helper()
	s, err := NewSwitcher(Options{
		Device:   dev,
		Report:   switchReport,
		Debounce: time.Second,
		Clock:    clock.Now,
	})
	if err != nil {
		t.Fatalf("new switcher: %v", err)
	}
	return s
}

func pending(s *Switcher) int { return len(s.switches) }

func TestNewSwitcherValidation(t *testing.T) {
	dev := newFakeDevice()
	if _, err := NewSwitcher(Options{Report: switchReport}); err == nil {
		t.Fatalf("expected error for nil device")
	}
	if _, err := NewSwitcher(Options{Device: dev}); err == nil {
		t.Fatalf("expected error for empty report")
	}
	if _, err := NewSwitcher(Options{Device: dev, Report: switchReport, Debounce: -time.Second}); err == nil {
		t.Fatalf("expected error for negative debounce")
	}
}

func TestOnMoveTriggersOnlyOnNegativeX(t *testing.T) {
	tests := []struct {
		name string
		x, y int
		want int
	}{
		{name: "left of edge", x: -1, y: 300, want: 1},
		{name: "far left", x: -1920, y: 0, want: 1},
		{name: "edge", x: 0, y: 300},
		{name: "on screen", x: 800, y: -20},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			clock := &fakeClock{now: time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)}
			s := newTestSwitcher(t, newFakeDevice(), clock)
			clock.now = clock.now.Add(2 * time.Second)

			s.OnMove(tc.x, tc.y)

			if got := pending(s); got != tc.want {
				t.Fatalf("expected %d queued switches, got %d", tc.want, got)
			}
		})
	}
}

func TestOnMoveDebounce(t *testing.T) {
	start := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start}
	s := newTestSwitcher(t, newFakeDevice(), clock)

	s.OnMove(-5, 0)
	if pending(s) != 0 {
		t.Fatalf("switched inside the startup window")
	}

	clock.now = start.Add(time.Second)
	s.OnMove(-5, 0)
	if pending(s) != 0 {
		t.Fatalf("switched exactly at the window boundary")
	}

	clock.now = start.Add(time.Second + time.Millisecond)
	s.OnMove(-5, 0)
	if pending(s) != 1 {
		t.Fatalf("expected a switch after the window")
	}
	<-s.switches

	clock.now = clock.now.Add(500 * time.Millisecond)
	s.OnMove(-5, 0)
	if pending(s) != 0 {
		t.Fatalf("switched again inside the debounce window")
	}

	clock.now = clock.now.Add(600 * time.Millisecond)
	s.OnMove(-5, 0)
	if pending(s) != 1 {
		t.Fatalf("expected a second switch once the window passed")
	}
}

func TestOnMoveDoesNotBlockWhenPending(t *testing.T) {
	start := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start}
	s := newTestSwitcher(t, newFakeDevice(), clock)

	for i := 1; i <= 5; i++ {
		clock.now = start.Add(time.Duration(i) * 2 * time.Second)
		s.OnMove(-1, 0)
	}
	if got := pending(s); got != 1 {
		t.Fatalf("expected a single pending switch, got %d", got)
	}
}

func TestRunWritesReport(t *testing.T) {
	start := time.Date(2024, 3, 14, 9, 0, 0, 0, time.UTC)
	clock := &fakeClock{now: start}
	dev := newFakeDevice()
	dev.err = errors.New("device unplugged")
	s := newTestSwitcher(t, dev, clock)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()

	clock.now = start.Add(2 * time.Second)
	s.OnMove(-1, 10)

	select {
	case <-dev.wrote:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for switch report")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("run did not stop on cancel")
	}

	dev.mu.Lock()
	defer dev.mu.Unlock()
	if len(dev.writes) != 1 || !bytes.Equal(dev.writes[0], switchReport) {
		t.Fatalf("unexpected writes %x", dev.writes)
	}
}
