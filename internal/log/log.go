// Package log is a small leveled logger used by the mousewatch host.
package log

import (
	"fmt"
	"io"
	glog "log"
	"os"
	"path"
	"runtime"
	"sync/atomic"
)

var infoLogger, warningLogger, errorLogger, debugLogger *glog.Logger

var debug atomic.Bool

func init() {
	SetOutput(os.Stderr)
}

// SetOutput redirects every level to w.
func SetOutput(w io.Writer) {
	infoLogger = glog.New(w, "INFO: ", glog.Ldate|glog.Ltime)
	warningLogger = glog.New(w, "WARNING: ", glog.Ldate|glog.Ltime)
	errorLogger = glog.New(w, "ERROR: ", glog.Ldate|glog.Ltime)
	debugLogger = glog.New(w, "DEBUG: ", glog.Ldate|glog.Ltime)
}

// SetDebug toggles the debug level. Safe to call while logging.
func SetDebug(enabled bool) { debug.Store(enabled) }

// WarningLogger exposes the warning level as a standard logger, for
// components that take a Printf sink.
func WarningLogger() *glog.Logger { return warningLogger }

func formatNormal(args ...interface{}) string {
	_, file, line, _ := runtime.Caller(2)
	out := fmt.Sprintf("%s:%d: ", path.Base(file), line)
	out += fmt.Sprint(args...)
	return out
}

func formatFormat(fstr string, args ...interface{}) string {
	_, file, line, _ := runtime.Caller(2)
	out := fmt.Sprintf("%s:%d: ", path.Base(file), line)
	out += fmt.Sprintf(fstr, args...)
	return out
}

func Info(args ...interface{}) { infoLogger.Println(formatNormal(args...)) }
func Infof(f string, args ...interface{}) {
	infoLogger.Println(formatFormat(f, args...))
}
func Warningf(f string, args ...interface{}) {
	warningLogger.Println(formatFormat(f, args...))
}
func Error(args ...interface{}) { errorLogger.Println(formatNormal(args...)) }
func Errorf(f string, args ...interface{}) {
	errorLogger.Println(formatFormat(f, args...))
}
func Debugf(f string, args ...interface{}) {
	if debug.Load() {
		debugLogger.Println(formatFormat(f, args...))
	}
}
