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

// Package hwassign hands out non-overlapping, naturally-aligned physical
// address ranges above the end of RAM for devices that need an MMIO
// window but don't care exactly where it lands, such as a PCI BAR during
// enumeration (spec.md §4.9).
//
// Grounded on _examples/original_source/src/hardware/memory.cpp
// (MEM_HardwareAllocate, the memory.hw_next_assign bump allocator).
package hwassign

import "github.com/retropc/pcmem/hardware/memory/memorymap"

// Assigner is a bump allocator over the physical address space above RAM:
// each call to Allocate carves off the next naturally-aligned slot of the
// requested size and never reuses one, mirroring the original's
// "assign once at boot, never free" device address model.
type Assigner struct {
	next uint32
}

// New returns an Assigner that begins handing out addresses immediately
// above the last page of installed RAM.
func New(reportedPages uint32) *Assigner {
	return &Assigner{next: uint32(memorymap.Addr(reportedPages))}
}

// Allocate reserves a size-byte window, which must be a power of two, and
// returns its base address. It returns 0 if size is not a power of two,
// is zero, or the assigner has run out of room below the hardware
// assignment ceiling (spec.md §4.9, memory.cpp: MEM_HardwareAllocate).
func (a *Assigner) Allocate(size uint32) uint32 {
	if size == 0 || size&(size-1) != 0 {
		return 0
	}

	if a.next < memorymap.HWAssignCeiling<<memorymap.PageShift {
		a.next += size - 1
		a.next &^= size - 1
	}

	if a.next >= memorymap.HWAssignCeiling<<memorymap.PageShift {
		return 0
	}

	assign := a.next
	a.next += size
	return assign
}
