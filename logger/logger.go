// Package logger provides a small, dependency-free tagged log used by the
// CORE to report recoverable conditions (unknown opcodes, unknown
// softswitches) without forcing a logging framework choice on the host.
// Entries accumulate in a fixed-capacity ring buffer and can be read out
// with Write or Tail.
package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// capacity is the maximum number of entries retained. Once full, the oldest
// entry is discarded to make room for the newest.
const capacity = 4096

type entry struct {
	tag     string
	message string
}

var (
	mu      sync.Mutex
	entries []entry
)

// Log appends a single log entry tagged with tag.
func Log(tag string, message string) {
	mu.Lock()
	defer mu.Unlock()

	entries = append(entries, entry{tag: tag, message: message})
	if len(entries) > capacity {
		entries = entries[len(entries)-capacity:]
	}
}

// Logf appends a single log entry tagged with tag, formatting message
// according to format.
func Logf(tag string, format string, args ...interface{}) {
	Log(tag, fmt.Sprintf(format, args...))
}

// Write writes every retained entry to w, formatted as "tag: message\n".
// The entries stay in the log.
func Write(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	var b strings.Builder
	for _, e := range entries {
		b.WriteString(e.tag)
		b.WriteString(": ")
		b.WriteString(e.message)
		b.WriteString("\n")
	}
	io.WriteString(w, b.String())
}

// Tail writes the most recent n entries to w. If n is larger than the
// number of retained entries, every entry is written.
func Tail(w io.Writer, n int) {
	mu.Lock()
	defer mu.Unlock()

	if n > len(entries) {
		n = len(entries)
	}
	if n <= 0 {
		return
	}

	var b strings.Builder
	for _, e := range entries[len(entries)-n:] {
		b.WriteString(e.tag)
		b.WriteString(": ")
		b.WriteString(e.message)
		b.WriteString("\n")
	}
	io.WriteString(w, b.String())
}

// Clear empties the log. Intended for tests.
func Clear() {
	mu.Lock()
	defer mu.Unlock()
	entries = nil
}
