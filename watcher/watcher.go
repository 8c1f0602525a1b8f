package watcher

import (
	"context"
	"fmt"
	"log"
	"runtime"
	"sync"
)

// Logger receives diagnostics the watcher cannot return as errors.
type Logger interface {
	Printf(format string, args ...interface{})
}

// Options configures a Watcher.
type Options struct {
	// OnMove is called on the hook thread for every mouse move. It must
	// return quickly: mouse input for the whole desktop waits on it.
	OnMove func(x, y int)
	System System
	Logger Logger
}

// Watcher relays low-level mouse movement to a listener.
type Watcher struct {
	onMove func(x, y int)
	sys    System
	logger Logger

	// hook is only touched from the locked thread inside Run.
	hook Handle

	mu       sync.Mutex
	running  bool
	pumping  bool
	stopped  bool
	threadID uint32
}

// New constructs a watcher. A nil System selects DefaultSystem.
func New(opts Options) *Watcher {
	sys := opts.System
	if sys == nil {
		sys = DefaultSystem()
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Watcher{
		onMove: opts.OnMove,
		sys:    sys,
		logger: logger,
	}
}

// Run installs the hook and pumps messages on the calling goroutine's OS
// thread until a quit message arrives, ctx is cancelled, or Stop is called.
//
// If the hook cannot be installed Run returns an error matching
// ErrHookInstallFailed without starting the loop. A cancelled ctx yields
// ctx.Err(); any other orderly stop yields nil.
func (w *Watcher) Run(ctx context.Context) (err error) {
	if ctx == nil {
		ctx = context.Background()
	}

	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return ErrAlreadyRunning
	}
	w.running = true
	w.pumping = false
	w.stopped = false
	w.mu.Unlock()
	defer func() {
		w.mu.Lock()
		w.running = false
		w.pumping = false
		w.threadID = 0
		w.mu.Unlock()
	}()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	hook, err := w.sys.Install(w.hookProc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrHookInstallFailed, err)
	}
	w.hook = hook
	defer func() {
		uerr := w.sys.Uninstall(hook)
		w.hook = 0
		if uerr == nil {
			return
		}
		uerr = fmt.Errorf("%w: %w", ErrHookUninstallFailed, uerr)
		if err == nil {
			err = uerr
			return
		}
		w.logger.Printf("watcher: %v", uerr)
	}()

	queue := w.sys.Queue()

	w.mu.Lock()
	if w.stopped || ctx.Err() != nil {
		w.mu.Unlock()
		return ctx.Err()
	}
	w.threadID = w.sys.ThreadID()
	w.pumping = true
	w.mu.Unlock()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			if err := w.Stop(); err != nil {
				w.logger.Printf("watcher: stop on cancel: %v", err)
			}
		case <-done:
		}
	}()

	perr := pump(queue)
	// No quit may be posted once the loop is gone: it would outlive the run
	// in the thread's queue.
	w.mu.Lock()
	w.pumping = false
	w.mu.Unlock()
	if perr != nil {
		return perr
	}
	return ctx.Err()
}

// Stop ends a running loop. Before the loop starts it prevents it from
// starting; on an idle watcher it does nothing.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running || w.stopped {
		return nil
	}
	w.stopped = true
	if !w.pumping {
		return nil
	}
	return w.sys.PostQuit(w.threadID)
}

// Running reports whether Run is in progress.
func (w *Watcher) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func pump(q MessageQueue) error {
	for {
		ok, err := q.Next()
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMessageLoop, err)
		}
		if !ok {
			return nil
		}
		q.Translate()
		q.Dispatch()
	}
}

// hookProc is invoked by the OS for every low-level mouse event. The event
// is passed down the chain on every path.
func (w *Watcher) hookProc(ev RawEvent) uintptr {
	if ev.Code >= 0 && ev.Kind == KindMouseMove && w.onMove != nil {
		w.notify(w.sys.Decode(ev))
	}
	return w.sys.CallNext(w.hook, ev)
}

func (w *Watcher) notify(pos Position) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Printf("watcher: mouse move listener panicked: %v", r)
		}
	}()
	w.onMove(int(pos.X), int(pos.Y))
}
