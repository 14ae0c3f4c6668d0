// This file is part of pcmem.
//
// pcmem is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// pcmem is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with pcmem.  If not, see <https://www.gnu.org/licenses/>.

package logger

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// Entry represents a single line in the log.
type Entry struct {
	Timestamp time.Time
	Tag       string
	Detail    string
	repeated  int
}

func (e *Entry) String() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s: %s", e.Tag, e.Detail))
	if e.repeated > 0 {
		s.WriteString(fmt.Sprintf(" (repeat x%d)", e.repeated+1))
	}
	s.WriteString("\n")
	return s.String()
}

// Log is an independent instance of the logger. The memory subsystem holds
// one Log per instance.Instance rather than relying on a package-global, but
// a package-level Default is provided for callers that don't need more than
// one.
type Log struct {
	mu      sync.Mutex
	entries []Entry
	echo    io.Writer

	// rateLimit caps the number of Log calls accepted for a given tag
	// (repeats of the previous entry included) before further entries for
	// that tag are silently dropped. Zero
	// means unlimited. Used by the Illegal page handler (see memory/handlers)
	// to avoid a runaway guest flooding the log.
	rateLimit map[string]int
	rateSeen  map[string]int
}

// New returns a Log with room for maxEntries before the oldest entries are
// discarded.
func New(maxEntries int) *Log {
	return &Log{
		entries:   make([]Entry, 0, maxEntries),
		rateLimit: make(map[string]int),
		rateSeen:  make(map[string]int),
	}
}

const defaultMaxEntries = 1024

// Default is a ready-to-use Log for callers that don't construct their own
// instance.Instance.
var Default = New(defaultMaxEntries)

// SetRateLimit caps how many log entries with the given tag will be
// accepted before they are dropped. A limit of zero removes any existing
// cap for that tag.
func (l *Log) SetRateLimit(tag string, limit int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if limit == 0 {
		delete(l.rateLimit, tag)
		delete(l.rateSeen, tag)
		return
	}
	l.rateLimit[tag] = limit
}

// Logf adds a formatted entry to the log.
func (l *Log) Logf(tag, format string, args ...interface{}) {
	l.Log(tag, fmt.Sprintf(format, args...))
}

// Log adds an entry to the log.
func (l *Log) Log(tag, detail string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if limit, ok := l.rateLimit[tag]; ok {
		if l.rateSeen[tag] >= limit {
			return
		}
		l.rateSeen[tag]++
	}

	tag = strings.ReplaceAll(tag, "\n", "")
	detail = strings.ReplaceAll(detail, "\n", "")

	if n := len(l.entries); n > 0 && l.entries[n-1].Tag == tag && l.entries[n-1].Detail == detail {
		l.entries[n-1].repeated++
		l.entries[n-1].Timestamp = time.Now()
	} else {
		if cap(l.entries) > 0 && len(l.entries) == cap(l.entries) {
			l.entries = append(l.entries[:0], l.entries[1:]...)
		}
		l.entries = append(l.entries, Entry{Timestamp: time.Now(), Tag: tag, Detail: detail})
	}

	if l.echo != nil {
		io.WriteString(l.echo, l.entries[len(l.entries)-1].String())
	}
}

// SetEcho causes every subsequent entry to also be written to w immediately.
// Passing nil disables echoing.
func (l *Log) SetEcho(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.echo = w
}

// Clear removes every entry from the log.
func (l *Log) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
}

// Write dumps every entry currently held to w.
func (l *Log) Write(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		io.WriteString(w, e.String())
	}
}

// Tail writes the most recent n entries to w.
func (l *Log) Tail(w io.Writer, n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if n > len(l.entries) {
		n = len(l.entries)
	}
	for _, e := range l.entries[len(l.entries)-n:] {
		io.WriteString(w, e.String())
	}
}

// LogDefault adds an entry to the Default log.
func LogDefault(tag, detail string) { Default.Log(tag, detail) }

// LogfDefault adds a formatted entry to the Default log.
func LogfDefault(tag, format string, args ...interface{}) { Default.Logf(tag, format, args...) }
