// Package logger is the small stderr logger used across askdocs.
// Debug, Info and Section output is gated behind the --verbose flag so
// the ingestion and retrieval pipeline can be traced on demand.
// Warnings always print.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

type level string

const (
	levelDebug level = "debug"
	levelInfo  level = "info"
	levelWarn  level = "warn"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput redirects log output. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// logf writes one tagged line. Gated lines are dropped unless verbose
// mode is on.
func logf(lv level, gated bool, format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if gated && !verbose {
		return
	}
	fmt.Fprintf(output, string(lv)+": "+format+"\n", args...)
}

// Debug traces pipeline internals. Verbose only.
func Debug(format string, args ...any) {
	logf(levelDebug, true, format, args...)
}

// Info reports pipeline milestones. Verbose only.
func Info(format string, args ...any) {
	logf(levelInfo, true, format, args...)
}

// Warn reports recoverable problems, such as a failed manifest write or
// an unextractable page. Warnings print regardless of the verbose flag.
func Warn(format string, args ...any) {
	logf(levelWarn, false, format, args...)
}

// Section prints a named divider between pipeline phases. Verbose only.
func Section(name string) {
	mu.RLock()
	defer mu.RUnlock()
	if !verbose {
		return
	}
	fmt.Fprintf(output, "\n-- %s --\n", name)
}
