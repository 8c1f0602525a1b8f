// Package tray shows the watcher in the system notification area.
package tray

import (
	"fmt"
	"sync"

	"fyne.io/systray"
	"fyne.io/systray/example/icon"
)

const title = "Mouse Watch"

// Options configures the tray menu.
type Options struct {
	LogMoves bool
	// OnReady is called once the icon and menu exist. Quit has no effect
	// before then.
	OnReady func()
	// OnLogMoves is called when the "log moves" item is toggled.
	OnLogMoves func(enabled bool)
	// OnQuit is called once when the user picks Quit or the tray exits.
	OnQuit func()
}

var (
	mu     sync.Mutex
	status *systray.MenuItem
)

// Run shows the tray icon and blocks until Quit is called. It must run on
// the main goroutine.
func Run(opts Options) {
	var once sync.Once
	quit := func() {
		once.Do(func() {
			if opts.OnQuit != nil {
				opts.OnQuit()
			}
		})
	}
	systray.Run(func() { onReady(opts, quit) }, quit)
}

// SetPosition shows the latest cursor position in the tooltip and menu.
func SetPosition(x, y int, moves uint64) {
	text := fmt.Sprintf("X=%d Y=%d (%d moves)", x, y, moves)
	systray.SetTooltip(title + ": " + text)
	mu.Lock()
	if status != nil {
		status.SetTitle(text)
	}
	mu.Unlock()
}

// Quit removes the tray icon and makes Run return.
func Quit() {
	systray.Quit()
}

func onReady(opts Options, quit func()) {
	systray.SetIcon(icon.Data)
	systray.SetTitle(title)
	systray.SetTooltip(title)

	mStatus := systray.AddMenuItem("No movement yet", "latest cursor position")
	mStatus.Disable()
	mu.Lock()
	status = mStatus
	mu.Unlock()

	systray.AddSeparator()
	mLogMoves := systray.AddMenuItemCheckbox("Log Moves", "log every cursor movement at debug level", opts.LogMoves)
	mQuit := systray.AddMenuItem("Quit", "Stop watching and quit")

	go func() {
		for {
			select {
			case <-mLogMoves.ClickedCh:
				if mLogMoves.Checked() {
					mLogMoves.Uncheck()
				} else {
					mLogMoves.Check()
				}
				if opts.OnLogMoves != nil {
					opts.OnLogMoves(mLogMoves.Checked())
				}
			case <-mQuit.ClickedCh:
				quit()
				systray.Quit()
				return
			}
		}
	}()

	if opts.OnReady != nil {
		opts.OnReady()
	}
}
