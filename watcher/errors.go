package watcher

import "errors"

var (
	// ErrHookInstallFailed indicates the OS refused to install the mouse hook.
	// No message loop is started when it is returned.
	ErrHookInstallFailed = errors.New("mouse hook install failed")

	// ErrHookUninstallFailed indicates the hook could not be removed after the loop ended.
	ErrHookUninstallFailed = errors.New("mouse hook uninstall failed")

	// ErrMessageLoop indicates message retrieval failed while the hook was installed.
	ErrMessageLoop = errors.New("message loop failed")

	// ErrAlreadyRunning is returned by Run while another Run on the same
	// Watcher is in progress.
	ErrAlreadyRunning = errors.New("watcher is already running")

	// ErrUnsupportedPlatform is wrapped by ErrHookInstallFailed on platforms
	// without a low-level mouse hook.
	ErrUnsupportedPlatform = errors.New("low-level mouse hooks are not supported on this platform")
)
