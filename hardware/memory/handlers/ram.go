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

package handlers

import "github.com/retropc/pcmem/hardware/memory/memorymap"

// masker supplies the A20 page mask a RAM/ROM handler applies before
// indexing its backing store (spec.md §4.1 RAM handler note). Implemented
// by *a20.Gate; kept as a narrow interface here so handlers does not
// depend on package a20.
type masker interface {
	Mask(page uint32) uint32
}

// RAM backs conventional and extended memory directly with a Go byte
// slice: MemBase sliced to one page per access (memory.cpp:
// RAMPageHandler). The host pointer path and the A20 masking it applies
// are identical for reads and writes.
type RAM struct {
	base
	mem []byte
	a20 masker
}

// NewRAM returns a RAM handler backed by mem (typically the whole
// below-4GiB arena) and masked through a20.
func NewRAM(mem []byte, a20 masker) *RAM {
	return &RAM{base: base{flags: Readable | Writeable}, mem: mem, a20: a20}
}

func (r *RAM) pageBytes(phys uint64) []byte {
	page := memorymap.Page(phys)
	masked := r.a20.Mask(page)
	start := uint64(masked) * memorymap.PageSize
	if start+memorymap.PageSize > uint64(len(r.mem)) {
		return nil
	}
	return r.mem[start : start+memorymap.PageSize]
}

func offsetInPage(phys uint64) uint64 { return phys & (memorymap.PageSize - 1) }

func (r *RAM) Read8(phys uint64) uint8 {
	pg := r.pageBytes(phys)
	if pg == nil {
		return 0xFF
	}
	return pg[offsetInPage(phys)]
}

func (r *RAM) Read16(phys uint64) uint16 { return composeRead16(r, phys) }
func (r *RAM) Read32(phys uint64) uint32 { return composeRead32(r, phys) }

func (r *RAM) Write8(phys uint64, v uint8) {
	pg := r.pageBytes(phys)
	if pg == nil {
		return
	}
	pg[offsetInPage(phys)] = v
}

func (r *RAM) Write16(phys uint64, v uint16) { splitWrite16(r, phys, v) }
func (r *RAM) Write32(phys uint64, v uint32) { splitWrite32(r, phys, v) }

func (r *RAM) HostPage(phys uint64) ([]byte, bool) {
	pg := r.pageBytes(phys)
	if pg == nil {
		return nil, false
	}
	return pg, true
}
