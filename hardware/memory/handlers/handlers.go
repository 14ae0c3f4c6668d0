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

// Package handlers defines the PageHandler contract (spec.md §4.1) and the
// built-in handlers every memory subsystem installs before any device
// callout runs: RAM, ROM, the BIOS ROM alias, the unmapped sentinel, and
// the rate-limited illegal-access sentinel.
//
// Grounded on _examples/JetSetIlly-Gopher2600/hardware/memory/bus (the
// CPUBus/DebuggerBus interface shape: small method sets, no shared base
// struct) and on _examples/original_source/src/hardware/memory.cpp
// (PageHandler and its UnmappedPageHandler/IllegalPageHandler/
// RAMPageHandler/ROMPageHandler/ROMAliasPageHandler subclasses).
//
// Unlike bus.CPUBus, reads and writes here never return an error: spec.md
// §4.1 makes out-of-range and ROM-write access soft failures (a sentinel
// byte, a dropped write, a rate-limited log line) rather than propagated
// errors, matching the original's readb/writeb which never fail either.
package handlers

// Flags describes the static properties of a PageHandler, mirroring
// memory.cpp's PFLAG_* bitmask (spec.md §4.1 invariant 2).
type Flags uint8

// Flag bits.
const (
	Readable Flags = 1 << iota
	Writeable
	HasROM
	NoCode
	Init
)

// Has reports whether f includes all bits of want.
func (f Flags) Has(want Flags) bool { return f&want == want }

// PageHandler is the contract every installed or callout-resolved handler
// implements. All methods take the full guest physical address (up to 40
// bits, spec.md §3 invariant 1) rather than a page-relative offset: a
// handler is free to use as much or as little of the page number as it
// needs, and the above-4GiB file window needs the high bits the table
// itself has already stopped tracking per-page.
type PageHandler interface {
	// Flags returns this handler's static capability bits.
	Flags() Flags

	Read8(phys uint64) uint8
	Read16(phys uint64) uint16
	Read32(phys uint64) uint32

	Write8(phys uint64, v uint8)
	Write16(phys uint64, v uint16)
	Write32(phys uint64, v uint32)

	// HostPage returns the backing byte slice for direct (TLB fast-path)
	// access to the page containing phys (the caller derives the offset
	// of phys within it), and false if this handler has no host-memory backing
	// (spec.md §4.1 invariant 3 — a handler that returns false here forces
	// every access through the slow Read/Write path).
	HostPage(phys uint64) (page []byte, ok bool)
}

// base provides the Flags() accessor shared by the built-in handlers; their
// 16/32-bit accessors are built from Read8/Write8 with the helpers below
// (spec.md §4.1: "16- and 32-bit accesses that straddle a page boundary
// are split by the caller; within a page they decompose to the 8-bit
// path unless a handler overrides it").
type base struct {
	flags Flags
}

func (b base) Flags() Flags { return b.flags }

// composeRead16/32 and splitWrite16/32 give handlers correct little-endian
// multi-byte behaviour from their own Read8/Write8; each handler's
// Read16/Read32/Write16/Write32 calls them explicitly, matching how memory.cpp's PageHandler base
// class provides readw/readd/writew/writed in terms of readb/writeb.
func composeRead16(h interface{ Read8(uint64) uint8 }, phys uint64) uint16 {
	lo := uint16(h.Read8(phys))
	hi := uint16(h.Read8(phys + 1))
	return lo | hi<<8
}

func composeRead32(h interface{ Read8(uint64) uint8 }, phys uint64) uint32 {
	b0 := uint32(h.Read8(phys))
	b1 := uint32(h.Read8(phys + 1))
	b2 := uint32(h.Read8(phys + 2))
	b3 := uint32(h.Read8(phys + 3))
	return b0 | b1<<8 | b2<<16 | b3<<24
}

func splitWrite16(h interface{ Write8(uint64, uint8) }, phys uint64, v uint16) {
	h.Write8(phys, uint8(v))
	h.Write8(phys+1, uint8(v>>8))
}

func splitWrite32(h interface{ Write8(uint64, uint8) }, phys uint64, v uint32) {
	h.Write8(phys, uint8(v))
	h.Write8(phys+1, uint8(v>>8))
	h.Write8(phys+2, uint8(v>>16))
	h.Write8(phys+3, uint8(v>>24))
}
