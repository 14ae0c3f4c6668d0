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

// Package savestate defines the data a memory-subsystem snapshot must
// carry (spec.md §6 "Save state"); it is not a general serialisation
// framework, only the shape of what gets captured and how it is put
// back. This package never touches disk or a wire format itself — that
// machinery lives with whatever save-state system the rest of the
// emulator uses.
//
// Grounded on the Snapshot/Plumb pattern used throughout
// _examples/JetSetIlly-Gopher2600/hardware (hardware/rewind.go,
// hardware/memory/cartridge/mapper_atari.go): a Snapshot is a plain
// struct holding copied data, and restoring one is a separate "plumb"
// step that re-threads the copy back into a live, already-constructed
// object rather than deserialising a fresh one from scratch.
package savestate

import (
	"github.com/retropc/pcmem/hardware/memory/handlers"
	"github.com/retropc/pcmem/hardware/memory/table"
)

// Registry maps the live handler objects that stand in for RAM, ROM, the
// ROM alias, and each VGA slot to/from their handlers.WellKnownIndex, so a
// snapshot can be taken and restored without ever serialising a handler
// directly. The orchestrator that owns those handler instances supplies a
// Registry and rebuilds it whenever one of those handlers is replaced.
type Registry struct {
	ram, rom, romAlias handlers.PageHandler
	vga                [16]handlers.PageHandler
}

// NewRegistry returns a Registry. Any argument may be nil, including
// entries of vga, if the subsystem doesn't use that handler.
func NewRegistry(ram, rom, romAlias handlers.PageHandler, vga [16]handlers.PageHandler) *Registry {
	return &Registry{ram: ram, rom: rom, romAlias: romAlias, vga: vga}
}

func (r *Registry) identify(h handlers.PageHandler) handlers.WellKnownIndex {
	switch {
	case h == nil:
		return handlers.WellKnownNone
	case h == r.ram:
		return handlers.WellKnownRAM
	case h == r.rom:
		return handlers.WellKnownROM
	case h == r.romAlias:
		return handlers.WellKnownROMAlias
	}
	for i, v := range r.vga {
		if v != nil && h == v {
			return handlers.WellKnownVGA(i)
		}
	}
	return handlers.WellKnownNone
}

func (r *Registry) lookup(id handlers.WellKnownIndex) (handlers.PageHandler, bool) {
	switch {
	case id == handlers.WellKnownRAM:
		return r.ram, r.ram != nil
	case id == handlers.WellKnownROM:
		return r.rom, r.rom != nil
	case id == handlers.WellKnownROMAlias:
		return r.romAlias, r.romAlias != nil
	case id >= handlers.WellKnownVGA0 && int(id-handlers.WellKnownVGA0) < len(r.vga):
		h := r.vga[id-handlers.WellKnownVGA0]
		return h, h != nil
	}
	return nil, false
}

// State is a snapshot of everything spec.md §6 requires: a full copy of
// RAM, the EMS/XMS handle chain array (or zeros, when the DOS kernel that
// owns it isn't active), and a per-page handler-identity index.
type State struct {
	RAM          []byte
	MHandles     []int32
	HandlerIndex []handlers.WellKnownIndex
}

// Capture builds a State from the live subsystem. ram is the full
// below-4GiB backing slice; mhandles is the allocator's handle array,
// passed only when dosActive is true (otherwise a zeroed array of the
// same length is recorded, preserving layout without exposing allocator
// state the DOS kernel doesn't currently own); tbl and reg resolve each
// page's handler to a stable WellKnownIndex.
func Capture(ram []byte, mhandles []int32, dosActive bool, tbl *table.Table, reg *Registry) *State {
	s := &State{
		RAM:          append([]byte(nil), ram...),
		MHandles:     make([]int32, len(mhandles)),
		HandlerIndex: make([]handlers.WellKnownIndex, tbl.HandlerPages()),
	}

	if dosActive {
		copy(s.MHandles, mhandles)
	}

	for page := uint32(0); page < tbl.HandlerPages(); page++ {
		s.HandlerIndex[page] = reg.identify(tbl.CachedAt(page))
	}

	return s
}

// Restore plumbs a previously captured State back into a live, already
// constructed subsystem: ram and mhandles are overwritten in place (their
// lengths must match what Capture recorded), and tbl's cache is
// repopulated for every page whose identity resolved against reg,
// leaving every other page to fall through the slow path again on next
// access (spec.md §6: "preserves the handler table's owning pointer
// rather than deserialising it directly").
func Restore(s *State, ram []byte, mhandles []int32, tbl *table.Table, reg *Registry) {
	copy(ram, s.RAM)
	copy(mhandles, s.MHandles)

	for page, id := range s.HandlerIndex {
		if h, ok := reg.lookup(id); ok {
			tbl.SetStatic(uint32(page), 1, h)
		} else {
			tbl.Invalidate(uint32(page), 1)
		}
	}
}
