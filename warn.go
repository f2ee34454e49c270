package modelir

import (
	"fmt"
	"runtime"
	"sync"

	"go.uber.org/zap"
)

// Warnings reports non-fatal diagnostics (deprecated option translations,
// lossy metadata merges). Each distinct warning is logged at most once per
// call site so repeated compilation of the same declaration stays quiet.
type Warnings struct {
	log   *zap.Logger
	mu    sync.Mutex
	seen  map[string]struct{}
	codes map[string]struct{}
}

// NewWarnings wraps a zap logger. A nil logger behaves like NopWarnings.
func NewWarnings(log *zap.Logger) *Warnings {
	if log == nil {
		log = zap.NewNop()
	}
	return &Warnings{log: log, seen: make(map[string]struct{}), codes: make(map[string]struct{})}
}

// NopWarnings returns a reporter that records deduplication state but emits
// nothing. Useful as the library default.
func NopWarnings() *Warnings { return NewWarnings(zap.NewNop()) }

// Warn logs a warning once per (code, message, call site). The site is the
// caller `skip` frames above Warn, so wrappers can attribute the warning to
// user code rather than to themselves.
func (w *Warnings) Warn(skip int, code, msg string, fields ...zap.Field) {
	if w == nil {
		return
	}
	key := code + "|" + msg + "|" + callSite(skip+1)
	w.mu.Lock()
	_, dup := w.seen[key]
	if !dup {
		w.seen[key] = struct{}{}
		w.codes[code] = struct{}{}
	}
	w.mu.Unlock()
	if dup {
		return
	}
	w.log.Warn(msg, append([]zap.Field{zap.String("code", code)}, fields...)...)
}

// Count returns how many distinct warnings have been recorded, whether or
// not the wrapped logger actually wrote them. Intended for tests.
func (w *Warnings) Count() int {
	if w == nil {
		return 0
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.seen)
}

// Has reports whether a warning with the given code has been recorded.
func (w *Warnings) Has(code string) bool {
	if w == nil {
		return false
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	_, ok := w.codes[code]
	return ok
}

func callSite(skip int) string {
	_, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown"
	}
	return fmt.Sprintf("%s:%d", file, line)
}
