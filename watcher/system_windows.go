//go:build windows

package watcher

import (
	"errors"
	"fmt"
	"sync"
	"unsafe"

	"github.com/AllenDang/w32"
	"golang.org/x/sys/windows"
)

var (
	user32DLL                 = windows.NewLazyDLL("user32.dll")
	setWindowsHookEx          = user32DLL.NewProc("SetWindowsHookExW")
	peekMessage               = user32DLL.NewProc("PeekMessageW")
	postThreadMessage         = user32DLL.NewProc("PostThreadMessageW")
	errHookOnThread           = errors.New("a mouse hook is already installed on this thread")
	lowLevelMouseHookCallback = windows.NewCallback(lowLevelMouseProc)
)

// The OS calls a low-level hook on the thread that installed it, so the
// active procedure is looked up by thread id. Every hook shares the one
// callback above.
var (
	procsMu sync.Mutex
	procs   = make(map[uint32]Proc)
)

func lowLevelMouseProc(nCode int, wParam w32.WPARAM, lParam w32.LPARAM) w32.LRESULT {
	procsMu.Lock()
	proc := procs[windows.GetCurrentThreadId()]
	procsMu.Unlock()
	if proc == nil {
		return w32.CallNextHookEx(0, nCode, wParam, lParam)
	}
	return w32.LRESULT(proc(RawEvent{Code: nCode, Kind: uintptr(wParam), Data: uintptr(lParam)}))
}

type user32System struct{}

// DefaultSystem returns the WH_MOUSE_LL implementation backed by user32.dll.
func DefaultSystem() System {
	return user32System{}
}

func (user32System) Install(proc Proc) (Handle, error) {
	tid := windows.GetCurrentThreadId()

	procsMu.Lock()
	if _, ok := procs[tid]; ok {
		procsMu.Unlock()
		return 0, errHookOnThread
	}
	procs[tid] = proc
	procsMu.Unlock()

	hook, _, callErr := setWindowsHookEx.Call(
		uintptr(w32.WH_MOUSE_LL),
		lowLevelMouseHookCallback,
		uintptr(w32.GetModuleHandle("")),
		0,
	)
	if hook == 0 {
		forgetProc(tid)
		return 0, fmt.Errorf("SetWindowsHookExW: %w", callErr)
	}
	return Handle(hook), nil
}

func (user32System) Uninstall(h Handle) error {
	forgetProc(windows.GetCurrentThreadId())
	drainQuit()
	if !w32.UnhookWindowsHookEx(w32.HHOOK(h)) {
		return fmt.Errorf("UnhookWindowsHookEx failed: %d", w32.GetLastError())
	}
	return nil
}

func (user32System) CallNext(h Handle, ev RawEvent) uintptr {
	return uintptr(w32.CallNextHookEx(w32.HHOOK(h), ev.Code, w32.WPARAM(ev.Kind), w32.LPARAM(ev.Data)))
}

func (user32System) Decode(ev RawEvent) Position {
	info := (*msllHookStruct)(unsafe.Pointer(ev.Data))
	return Position{X: info.Pt.X, Y: info.Pt.Y}
}

func (user32System) Queue() MessageQueue {
	q := &threadQueue{}
	// Peeking creates the thread's queue, so a quit posted before the first
	// GetMessage is not lost.
	peekMessage.Call(uintptr(unsafe.Pointer(&q.msg)), 0, 0, 0, pmNoRemove)
	return q
}

func (user32System) ThreadID() uint32 {
	return windows.GetCurrentThreadId()
}

func (user32System) PostQuit(threadID uint32) error {
	ok, _, callErr := postThreadMessage.Call(uintptr(threadID), uintptr(w32.WM_QUIT), 0, 0)
	if ok == 0 {
		return fmt.Errorf("PostThreadMessageW: %w", callErr)
	}
	return nil
}

// drainQuit removes quit messages still queued on the calling thread, such
// as one posted by Stop after the loop had already ended. Left in place they
// would end the next run on this thread at once.
func drainQuit() {
	var msg w32.MSG
	for {
		r, _, _ := peekMessage.Call(uintptr(unsafe.Pointer(&msg)), 0, w32.WM_QUIT, w32.WM_QUIT, pmRemove)
		if r == 0 {
			return
		}
	}
}

func forgetProc(tid uint32) {
	procsMu.Lock()
	delete(procs, tid)
	procsMu.Unlock()
}

// threadQueue reuses one MSG for every retrieval.
type threadQueue struct {
	msg w32.MSG
}

func (q *threadQueue) Next() (bool, error) {
	switch w32.GetMessage(&q.msg, 0, 0, 0) {
	case -1:
		return false, fmt.Errorf("GetMessage failed: %d", w32.GetLastError())
	case 0:
		return false, nil
	}
	return true, nil
}

func (q *threadQueue) Translate() {
	w32.TranslateMessage(&q.msg)
}

func (q *threadQueue) Dispatch() {
	w32.DispatchMessage(&q.msg)
}
