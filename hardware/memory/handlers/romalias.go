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

// romAliasBase is the page number (0xF0) the BIOS ROM alias window remaps
// every page of its 16-page range onto (memory.cpp: ROMAliasPageHandler,
// "(phys_page&0xF)+0xF0").
const romAliasBase = uint32(0xF0)

// ROMAlias remaps a 16-page window onto the last 16 pages of the system
// BIOS ROM regardless of which page within the window is addressed,
// reproducing the classic F0000-FFFFF BIOS mirroring some chipsets expose
// at other physical addresses for real-mode compatibility.
type ROMAlias struct {
	base
	mem []byte
}

// NewROMAlias returns a ROMAlias handler backed by the system BIOS area of
// mem.
func NewROMAlias(mem []byte) *ROMAlias {
	return &ROMAlias{base: base{flags: Readable | HasROM}, mem: mem}
}

func (r *ROMAlias) targetPage(phys uint64) uint32 {
	page := memorymap.Page(phys)
	return (page & 0xF) + romAliasBase
}

func (r *ROMAlias) pageBytes(phys uint64) []byte {
	start := uint64(r.targetPage(phys)) * memorymap.PageSize
	if start+memorymap.PageSize > uint64(len(r.mem)) {
		return nil
	}
	return r.mem[start : start+memorymap.PageSize]
}

func (r *ROMAlias) Read8(phys uint64) uint8 {
	pg := r.pageBytes(phys)
	if pg == nil {
		return 0xFF
	}
	return pg[offsetInPage(phys)]
}

func (r *ROMAlias) Read16(phys uint64) uint16 { return composeRead16(r, phys) }
func (r *ROMAlias) Read32(phys uint64) uint32 { return composeRead32(r, phys) }

func (r *ROMAlias) Write8(uint64, uint8)    {}
func (r *ROMAlias) Write16(uint64, uint16)  {}
func (r *ROMAlias) Write32(uint64, uint32)  {}

func (r *ROMAlias) HostPage(phys uint64) ([]byte, bool) {
	pg := r.pageBytes(phys)
	if pg == nil {
		return nil, false
	}
	return pg, true
}
