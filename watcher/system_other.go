//go:build !windows

package watcher

type unsupportedSystem struct{}

// DefaultSystem returns a System whose Install always fails with
// ErrUnsupportedPlatform.
func DefaultSystem() System {
	return unsupportedSystem{}
}

func (unsupportedSystem) Install(Proc) (Handle, error) { return 0, ErrUnsupportedPlatform }
func (unsupportedSystem) Uninstall(Handle) error       { return nil }
func (unsupportedSystem) CallNext(Handle, RawEvent) uintptr {
	return 0
}
func (unsupportedSystem) Decode(RawEvent) Position { return Position{} }
func (unsupportedSystem) Queue() MessageQueue      { return closedQueue{} }
func (unsupportedSystem) ThreadID() uint32         { return 0 }
func (unsupportedSystem) PostQuit(uint32) error    { return nil }

type closedQueue struct{}

func (closedQueue) Next() (bool, error) { return false, nil }
func (closedQueue) Translate()          {}
func (closedQueue) Dispatch()           {}
