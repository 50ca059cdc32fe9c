package errors

import (
	"bytes"
	stderrors "errors"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestLogHandler_WritesStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	h := &LogHandler{Logger: log.NewWithOptions(&buf, log.Options{Level: log.DebugLevel})}

	h.HandleError(&PerchError{Op: "content.MeasureImage", Kind: KindMeasure, Node: "3v1", Err: stderrors.New("truncated")})

	out := buf.String()
	for _, want := range []string{"content.MeasureImage", "measure", "3v1", "truncated"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}

func TestLogHandler_StackOnlyWhenVerbose(t *testing.T) {
	var buf bytes.Buffer
	h := &LogHandler{Logger: log.NewWithOptions(&buf, log.Options{})}
	h.HandlePanic(&PanicError{Op: "op", Value: "v", StackTrace: "frame-marker"})
	if strings.Contains(buf.String(), "frame-marker") {
		t.Error("stack trace logged without Verbose")
	}

	buf.Reset()
	h.Verbose = true
	h.HandlePanic(&PanicError{Op: "op", Value: "v", StackTrace: "frame-marker"})
	if !strings.Contains(buf.String(), "frame-marker") {
		t.Error("expected stack trace with Verbose")
	}
}

func TestLogHandler_NilSafe(t *testing.T) {
	h := &LogHandler{}
	h.HandleError(nil)
	h.HandlePanic(nil)
	h.HandleDeclareError(nil)
}
