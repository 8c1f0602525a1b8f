package main

import (
	"os"
	"runtime"

	"mousewatch/internal/cli"
	"mousewatch/internal/log"
)

func main() {
	// The tray, when enabled, needs the main thread.
	runtime.LockOSThread()

	if err := cli.NewRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
