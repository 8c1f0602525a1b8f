//go:build windows

package watcher

import "github.com/AllenDang/w32"

// msllHookStruct mirrors MSLLHOOKSTRUCT, the lParam of a WH_MOUSE_LL event.
type msllHookStruct struct {
	Pt          w32.POINT
	MouseData   uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

const (
	pmNoRemove = 0x0000
	pmRemove   = 0x0001
)
