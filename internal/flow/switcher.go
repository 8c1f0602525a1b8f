// Package flow switches a multi-host receiver to the next computer when the
// cursor is pushed past the left edge of the screen.
package flow

import (
	"context"
	"errors"
	"io"
	"time"

	"mousewatch/internal/log"
)

// Options configures a Switcher.
type Options struct {
	// Device receives Report on every switch.
	Device   io.Writer
	Report   []byte
	Debounce time.Duration
	Clock    func() time.Time
}

// Switcher turns left-edge cursor positions into receiver switch reports.
//
// OnMove runs on the hook thread and never performs I/O: a switch is queued
// and written by Run.
type Switcher struct {
	dev      io.Writer
	report   []byte
	debounce time.Duration
	clock    func() time.Time

	// last is only touched by OnMove, which the hook calls sequentially.
	last     time.Time
	switches chan struct{}
}

// NewSwitcher validates opts. The debounce window starts at construction, so
// the first switch can happen only after it has elapsed.
func NewSwitcher(opts Options) (*Switcher, error) {
	if opts.Device == nil {
		return nil, errors.New("switch device must not be nil")
	}
	if len(opts.Report) == 0 {
		return nil, errors.New("switch report must not be empty")
	}
	if opts.Debounce < 0 {
		return nil, errors.New("debounce must not be negative")
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	report := make([]byte, len(opts.Report))
	copy(report, opts.Report)
	return &Switcher{
		dev:      opts.Device,
		report:   report,
		debounce: opts.Debounce,
		clock:    clock,
		last:     clock(),
		switches: make(chan struct{}, 1),
	}, nil
}

// OnMove queues a switch when x is negative and the debounce window since
// the previous switch has passed. It matches the watcher listener signature.
func (s *Switcher) OnMove(x, y int) {
	if x >= 0 {
		return
	}
	now := s.clock()
	if !s.last.Add(s.debounce).Before(now) {
		return
	}
	s.last = now
	select {
	case s.switches <- struct{}{}:
		log.Debugf("switching receiver at X=%d, Y=%d", x, y)
	default:
		// A switch is already pending.
	}
}

// Run writes queued switch reports to the device until ctx is done.
func (s *Switcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.switches:
			if _, err := s.dev.Write(s.report); err != nil {
				log.Errorf("write switch report: %v", err)
			}
		}
	}
}
