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

// Package memerr collects the curated.Errorf patterns for every error kind
// in spec.md §7, so callers can test for a specific kind with curated.Is /
// curated.Has instead of string-matching fmt.Errorf output.
package memerr

// Pattern constants, one per spec.md §7 error kind that is actually
// surfaced as a Go error. Each is passed to curated.Errorf to build the
// error and to curated.Is/Has to recognise it.
//
// Three of the eight kinds named in spec.md §7 are deliberately absent:
// allocator exhaustion is returned as a zero handle rather than an error
// (alloc.Handle's zero value is already "no allocation"), a handler-table
// conflict at install time is reported as a plain bool so callers can
// decide without importing curated, and a CPU reset is modelled as the
// ExecutionRedirected sentinel in package reset, not as an error value at
// all, matching memory.cpp's throw int(3)/int(4) non-local exit.
const (
	ConfigurationRejected = "pcmem: configuration rejected: %s"
	AllocationFailed      = "pcmem: allocation failed: %s"
	OutOfRange            = "pcmem: %s is out of range of the handler table"
	CalloutBadMask        = "pcmem: callout page mask %#x is invalid"
	IllegalAccess         = "pcmem: illegal access at physical address %#x"
)
