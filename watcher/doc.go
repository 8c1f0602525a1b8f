// Package watcher installs a global low-level mouse hook and relays every
// cursor movement to a listener.
//
// A Watcher owns its hook handle and runs the hook together with the message
// pump on a single locked OS thread. Run blocks until the pump receives a quit
// message, the context is cancelled, or Stop is called. The hook is removed
// before Run returns.
//
// Only Windows (WH_MOUSE_LL) is supported. On other platforms Run reports
// ErrHookInstallFailed wrapping ErrUnsupportedPlatform.
package watcher
