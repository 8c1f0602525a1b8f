package watcher

// KindMouseMove is the event kind (WM_MOUSEMOVE) carried by pointer movement.
const KindMouseMove uintptr = 0x0200

// Handle is an opaque reference to an installed hook.
type Handle uintptr

// Position is an absolute cursor position in screen coordinates.
type Position struct {
	X, Y int32
}

// RawEvent is a single hook invocation as delivered by the OS.
type RawEvent struct {
	Code int     // negative codes must be passed on untouched
	Kind uintptr // message identifier, e.g. KindMouseMove
	Data uintptr // pointer to the platform's event record
}

// Proc receives raw hook events and returns the result of the hook chain.
type Proc func(ev RawEvent) uintptr

// System is the OS input-hook facility a Watcher runs on.
//
// Install, Uninstall, CallNext, Decode and Queue are only called from the
// thread running the watcher. PostQuit may be called from any goroutine.
type System interface {
	// Install registers proc as a global low-level mouse hook.
	Install(proc Proc) (Handle, error)
	Uninstall(h Handle) error
	// CallNext forwards ev to the next hook in the chain and returns its result.
	CallNext(h Handle, ev RawEvent) uintptr
	// Decode reads the cursor position out of a mouse-move event.
	Decode(ev RawEvent) Position
	// Queue returns the message queue of the calling thread.
	Queue() MessageQueue
	ThreadID() uint32
	// PostQuit asks the queue owned by threadID to stop.
	PostQuit(threadID uint32) error
}

// MessageQueue retrieves and dispatches messages for one thread. The current
// message is held by the queue and replaced on every call to Next.
type MessageQueue interface {
	// Next blocks until a message arrives. It returns false once a quit
	// message has been retrieved.
	Next() (bool, error)
	Translate()
	Dispatch()
}
