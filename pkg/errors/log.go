package errors

import (
	"os"

	"github.com/charmbracelet/log"
)

// LogHandler is an ErrorHandler that writes through a charmbracelet logger.
type LogHandler struct {
	// Logger receives the records. Nil means a stderr logger at warn level.
	Logger *log.Logger
	// Verbose enables detailed output including stack traces.
	Verbose bool
}

func (h *LogHandler) logger() *log.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return defaultLogger
}

var defaultLogger = log.NewWithOptions(os.Stderr, log.Options{
	Prefix: "perch",
	Level:  log.WarnLevel,
})

// HandleError logs a PerchError.
func (h *LogHandler) HandleError(err *PerchError) {
	if err == nil {
		return
	}
	kv := []any{"op", err.Op, "kind", err.Kind.String()}
	if err.Node != "" {
		kv = append(kv, "node", err.Node)
	}
	kv = append(kv, "err", err.Err)
	if h.Verbose && err.StackTrace != "" {
		kv = append(kv, "stack", err.StackTrace)
	}
	h.logger().Warn("perch error", kv...)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	kv := []any{"value", err.Value}
	if err.Op != "" {
		kv = append([]any{"op", err.Op}, kv...)
	}
	if h.Verbose && err.StackTrace != "" {
		kv = append(kv, "stack", err.StackTrace)
	}
	h.logger().Error("perch panic", kv...)
}

// HandleDeclareError logs a DeclareError.
func (h *LogHandler) HandleDeclareError(err *DeclareError) {
	if err == nil {
		return
	}
	kv := []any{"widget", err.Widget}
	if err.Node != "" {
		kv = append(kv, "node", err.Node)
	}
	if h.Verbose && err.StackTrace != "" {
		kv = append(kv, "stack", err.StackTrace)
	}
	h.logger().Error(err.Error(), kv...)
}
