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

// Package instance defines the shared, non-owning context passed to every
// part of the memory subsystem (handlers, the table, the allocator, ...)
// instead of reaching for package-level globals. Handlers hold a reference
// to an Instance; they never own one.
package instance

import (
	"github.com/retropc/pcmem/assert"
	"github.com/retropc/pcmem/logger"
)

// Label distinguishes independent subsystem instances, useful when more
// than one memory subsystem runs in the same process (for example a
// regression harness comparing two configurations side by side).
type Label string

// Defined Label values.
const (
	Main       Label = ""
	Comparison Label = "comparison"
)

// Instance holds the state that is shared, by reference, across every
// package of a single running memory subsystem: its log and its TLB flush
// callback. It is constructed once by memory.NewSubsystem and threaded
// through every handler and helper that needs it.
type Instance struct {
	Label Label

	Log *logger.Log

	// FlushTLB is invoked at least once between any mutation of the handler
	// table, A20 mask, or LFB mapping and the next guest memory access
	// (spec.md §5). The CPU core supplies the real implementation; tests and
	// headless callers may supply a no-op.
	FlushTLB func()

	// owner is the goroutine ID New() was called from. The memory subsystem
	// is not safe for concurrent access from more than one goroutine; this
	// is used by CheckGoroutine to flag a caller that forgot.
	owner uint64
}

// New creates an Instance. A nil flush function is replaced with a no-op so
// callers never need to nil-check it.
func New(label Label, log *logger.Log, flushTLB func()) *Instance {
	if log == nil {
		log = logger.New(1024)
	}
	if flushTLB == nil {
		flushTLB = func() {}
	}
	return &Instance{
		Label:    label,
		Log:      log,
		FlushTLB: flushTLB,
		owner:    assert.GetGoRoutineID(),
	}
}

// CheckGoroutine logs a warning if called from a different goroutine than
// the one that built this Instance. The memory subsystem has no internal
// locking; every access is expected to happen from the same emulation
// goroutine, the same way gopher2600's debugger documents which of its own
// calls must stay on the emulation goroutine rather than enforcing it.
func (inst *Instance) CheckGoroutine(where string) {
	if got := assert.GetGoRoutineID(); got != inst.owner {
		inst.Log.Logf("pcmem: goroutine", "pcmem: %s called from goroutine %d, want owner goroutine %d", where, got, inst.owner)
	}
}
