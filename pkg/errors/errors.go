// Package errors provides structured error reporting for the perch runtime.
//
// The layout core never returns errors to declaration code. Conditions worth
// surfacing (an asset that fails to decode, a panic inside widget code, a scene
// file that cannot be parsed) are reported to a global ErrorHandler instead.
package errors

import (
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindMeasure           // intrinsic-size measurement failed
	KindSolve             // the box solver panicked
	KindScene             // a scene file could not be loaded
	KindConfig            // invalid perch.yaml
	KindPanic             // recovered panic outside declaration
	KindDeclare           // widget declaration failed
)

var kindNames = [...]string{
	KindUnknown: "unknown",
	KindMeasure: "measure",
	KindSolve:   "solve",
	KindScene:   "scene",
	KindConfig:  "config",
	KindPanic:   "panic",
	KindDeclare: "declare",
}

func (k ErrorKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[KindUnknown]
	}
	return kindNames[k]
}

// PerchError is a failure inside the runtime, tagged with the operation
// ("content.MeasureImage") and, when one applies, the node handle it concerns.
type PerchError struct {
	Op         string
	Kind       ErrorKind
	Node       string
	Err        error
	StackTrace string
	Timestamp  time.Time
}

func (e *PerchError) Error() string {
	where := e.Op + " [" + e.Kind.String() + "]"
	if e.Node != "" {
		where += " node=" + e.Node
	}
	return fmt.Sprintf("%s: %v", where, e.Err)
}

func (e *PerchError) Unwrap() error { return e.Err }

// PanicError is a panic recovered outside widget declaration.
type PanicError struct {
	Op         string
	Value      any
	StackTrace string
	Timestamp  time.Time
}

func (e *PanicError) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("panic: %v", e.Value)
	}
	return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
}

// DeclareError is a failure while a widget declared its children. Exactly one
// of Recovered (a panic value) and Err is normally set.
type DeclareError struct {
	Widget     string
	Node       string
	Recovered  any
	Err        error
	StackTrace string
	Timestamp  time.Time
}

func (e *DeclareError) Error() string {
	switch {
	case e.Recovered != nil:
		return fmt.Sprintf("panic declaring %s: %v", e.Widget, e.Recovered)
	case e.Err != nil:
		return fmt.Sprintf("error declaring %s: %v", e.Widget, e.Err)
	}
	return "unknown error declaring " + e.Widget
}

func (e *DeclareError) Unwrap() error { return e.Err }

// ErrorHandler receives everything reported through this package. Calls may
// arrive from any goroutine that ticks a runtime or serves an inspection.
type ErrorHandler interface {
	HandleError(err *PerchError)
	HandlePanic(err *PanicError)
	HandleDeclareError(err *DeclareError)
}
