// Package position keeps the latest cursor position reported by the hook.
package position

import (
	"context"
	"sync/atomic"
	"time"
)

// Snapshot is the last reported position and the number of moves seen.
type Snapshot struct {
	X, Y  int
	Moves uint64
}

// Tracker records cursor positions without blocking the hook thread.
type Tracker struct {
	// packed holds x in the high and y in the low 32 bits, so a reader never
	// sees coordinates from two different events.
	packed atomic.Uint64
	moves  atomic.Uint64
}

// OnMove stores the position. It matches the watcher listener signature.
func (t *Tracker) OnMove(x, y int) {
	t.packed.Store(uint64(uint32(int32(x)))<<32 | uint64(uint32(int32(y))))
	t.moves.Add(1)
}

func (t *Tracker) Snapshot() Snapshot {
	moves := t.moves.Load()
	p := t.packed.Load()
	return Snapshot{
		X:     int(int32(uint32(p >> 32))),
		Y:     int(int32(uint32(p))),
		Moves: moves,
	}
}

// Report calls fn every interval while new moves have arrived since the
// previous call. It returns when ctx is done.
func (t *Tracker) Report(ctx context.Context, interval time.Duration, fn func(Snapshot)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var last uint64
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap := t.Snapshot()
			if snap.Moves == last {
				continue
			}
			last = snap.Moves
			fn(snap)
		}
	}
}
