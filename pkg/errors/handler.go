package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync/atomic"
	"time"
)

// handlerBox lets atomic.Pointer hold an interface value.
type handlerBox struct{ h ErrorHandler }

var current atomic.Pointer[handlerBox]

func init() {
	current.Store(&handlerBox{h: &LogHandler{}})
}

// SetHandler installs h as the global handler and returns the one it
// replaced. Nil restores a LogHandler writing to stderr.
func SetHandler(h ErrorHandler) ErrorHandler {
	if h == nil {
		h = &LogHandler{}
	}
	return current.Swap(&handlerBox{h: h}).h
}

// Handler returns the installed global handler.
func Handler() ErrorHandler {
	return current.Load().h
}

// Report stamps err and sends it to the global handler.
func Report(err *PerchError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleError(err)
}

// ReportPanic sends a recovered panic to the global handler.
func ReportPanic(err *PanicError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandlePanic(err)
}

// ReportDeclareError stamps err and sends it to the global handler.
func ReportDeclareError(err *DeclareError) {
	if err == nil {
		return
	}
	if err.Timestamp.IsZero() {
		err.Timestamp = time.Now()
	}
	Handler().HandleDeclareError(err)
}

// Recover reports a panic in progress as a PanicError for op. It must be
// deferred directly:
//
//	defer errors.Recover("scene.Load")
func Recover(op string) {
	if r := recover(); r != nil {
		ReportPanic(&PanicError{Op: op, Value: r, StackTrace: CaptureStack()})
	}
}

// Guard runs fn. If fn panics, the panic is stopped and handed to onPanic
// together with the stack at the panic site, and Guard returns true.
// onPanic decides how the failure is reported.
func Guard(fn func(), onPanic func(value any, stack string)) (panicked bool) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		panicked = true
		stack := CaptureStack()
		if onPanic != nil {
			onPanic(r, stack)
			return
		}
		ReportPanic(&PanicError{Value: r, StackTrace: stack})
	}()
	fn()
	return false
}

// CaptureStack formats the caller's stack, one "function\n\tfile:line" entry
// per frame. Runtime frames and the recovery helpers are left out, so a stack
// captured during a recover starts at the panicking code.
func CaptureStack() string {
	var pcs [48]uintptr
	n := runtime.Callers(2, pcs[:])
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		if !internalFrame(f.Function) {
			fmt.Fprintf(&sb, "%s\n\t%s:%d\n", f.Function, f.File, f.Line)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

func internalFrame(fn string) bool {
	if strings.HasPrefix(fn, "runtime.") {
		return true
	}
	const pkg = "github.com/go-drift/perch/pkg/errors."
	return strings.HasPrefix(fn, pkg+"Guard") || strings.HasPrefix(fn, pkg+"Recover")
}
