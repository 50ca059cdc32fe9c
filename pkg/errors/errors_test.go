package errors

import (
	stderrors "errors"
	"strings"
	"testing"
	"time"
)

type testHandler struct {
	onError   func(*PerchError)
	onPanic   func(*PanicError)
	onDeclare func(*DeclareError)
}

func (h *testHandler) HandleError(err *PerchError) {
	if h.onError != nil {
		h.onError(err)
	}
}

func (h *testHandler) HandlePanic(err *PanicError) {
	if h.onPanic != nil {
		h.onPanic(err)
	}
}

func (h *testHandler) HandleDeclareError(err *DeclareError) {
	if h.onDeclare != nil {
		h.onDeclare(err)
	}
}

func TestPerchErrorWithNode(t *testing.T) {
	err := &PerchError{
		Op:   "content.MeasureImage",
		Kind: KindMeasure,
		Node: "7v2",
		Err:  stderrors.New("bad header"),
	}
	got := err.Error()
	want := "content.MeasureImage [measure] node=7v2: bad header"
	if got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestPerchErrorUnwrap(t *testing.T) {
	inner := stderrors.New("inner")
	err := &PerchError{Op: "x", Err: inner}
	if !stderrors.Is(err, inner) {
		t.Error("expected errors.Is to see wrapped error")
	}
}

func TestErrorKindString(t *testing.T) {
	tests := []struct {
		kind ErrorKind
		want string
	}{
		{KindUnknown, "unknown"},
		{KindMeasure, "measure"},
		{KindSolve, "solve"},
		{KindScene, "scene"},
		{KindConfig, "config"},
		{KindPanic, "panic"},
		{KindDeclare, "declare"},
		{ErrorKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("ErrorKind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}

func TestPanicErrorString(t *testing.T) {
	err := &PanicError{Value: "boom", Timestamp: time.Now()}
	if got := err.Error(); got != "panic: boom" {
		t.Errorf("Error() = %q", got)
	}
	err.Op = "ui.Runtime.Tick"
	if got := err.Error(); got != "panic in ui.Runtime.Tick: boom" {
		t.Errorf("Error() = %q", got)
	}
}

func TestDeclareErrorString(t *testing.T) {
	err := &DeclareError{Widget: "Button", Recovered: "nil map"}
	if got := err.Error(); got != "panic declaring Button: nil map" {
		t.Errorf("Error() = %q", got)
	}
	err = &DeclareError{Widget: "Button", Err: stderrors.New("bad")}
	if got := err.Error(); got != "error declaring Button: bad" {
		t.Errorf("Error() = %q", got)
	}
	err = &DeclareError{Widget: "Button"}
	if got := err.Error(); got != "unknown error declaring Button" {
		t.Errorf("Error() = %q", got)
	}
}

func TestReport(t *testing.T) {
	var captured *PerchError
	SetHandler(&testHandler{onError: func(err *PerchError) { captured = err }})
	defer SetHandler(nil)

	Report(&PerchError{Op: "test.op", Kind: KindScene, Err: stderrors.New("x")})

	if captured == nil {
		t.Fatal("expected error to be captured")
	}
	if captured.Op != "test.op" {
		t.Errorf("Op = %q, want %q", captured.Op, "test.op")
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestReportDeclareError(t *testing.T) {
	var captured *DeclareError
	SetHandler(&testHandler{onDeclare: func(err *DeclareError) { captured = err }})
	defer SetHandler(nil)

	ReportDeclareError(&DeclareError{Widget: "Row"})
	if captured == nil || captured.Widget != "Row" {
		t.Fatalf("expected declare error for Row, got %+v", captured)
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func TestRecover(t *testing.T) {
	var captured *PanicError
	SetHandler(&testHandler{onPanic: func(err *PanicError) { captured = err }})
	defer SetHandler(nil)

	func() {
		defer Recover("test.recover")
		panic("intentional test panic")
	}()

	if captured == nil {
		t.Fatal("expected panic to be recovered and captured")
	}
	if captured.Value != "intentional test panic" {
		t.Errorf("Value = %v", captured.Value)
	}
	if captured.Op != "test.recover" {
		t.Errorf("Op = %q", captured.Op)
	}
}

func TestGuard(t *testing.T) {
	var value any
	var stack string
	panicked := Guard(func() { explode() }, func(v any, s string) {
		value, stack = v, s
	})
	if !panicked {
		t.Fatal("Guard should report the panic")
	}
	if value != "kaboom" {
		t.Errorf("value = %v, want kaboom", value)
	}
	if !strings.HasPrefix(stack, "github.com/go-drift/perch/pkg/errors.explode") {
		t.Errorf("stack should start at the panic site, got:\n%s", stack)
	}

	if Guard(func() {}, func(any, string) { t.Error("onPanic called without a panic") }) {
		t.Error("Guard reported a panic for a clean run")
	}
}

func TestGuardDefaultsToReportPanic(t *testing.T) {
	var captured *PanicError
	prev := SetHandler(&testHandler{onPanic: func(err *PanicError) { captured = err }})
	defer SetHandler(prev)

	Guard(func() { panic(42) }, nil)
	if captured == nil || captured.Value != 42 {
		t.Fatalf("captured = %+v", captured)
	}
	if captured.Timestamp.IsZero() {
		t.Error("expected Timestamp to be set")
	}
}

func explode() {
	panic("kaboom")
}

func TestCaptureStack(t *testing.T) {
	stack := CaptureStack()
	if !strings.HasPrefix(stack, "github.com/go-drift/perch/pkg/errors.TestCaptureStack") {
		t.Errorf("stack should start at the caller, got:\n%s", stack)
	}
	if strings.Contains(stack, "runtime.") {
		t.Errorf("runtime frames should be filtered:\n%s", stack)
	}
}

func TestSetHandler(t *testing.T) {
	h := &testHandler{}
	prev := SetHandler(h)
	if Handler() != h {
		t.Errorf("Handler() = %T, want the installed handler", Handler())
	}
	if got := SetHandler(nil); got != h {
		t.Errorf("SetHandler returned %T, want the replaced handler", got)
	}
	if _, ok := Handler().(*LogHandler); !ok {
		t.Errorf("SetHandler(nil) should install a LogHandler, got %T", Handler())
	}
	SetHandler(prev)
}
