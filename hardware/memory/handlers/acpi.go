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

// ACPI backs a power-of-two-sized window just below the top of 32-bit
// memory where generated ACPI tables live (memory.cpp: ACPIPageHandler).
// The buffer is smaller than the window it is installed over is allowed to
// be, so every out-of-range page clamps to the buffer's last page rather
// than faulting — tables that overrun their declared region degrade
// instead of crashing the guest.
type ACPI struct {
	base
	regionBase uint32 // page number
	regionSize uint32 // pages, power of two
	buf        []byte
}

// NewACPI returns an ACPI handler covering regionSize pages (must be a
// power of two) starting at regionBase, backed by buf.
func NewACPI(regionBase, regionSize uint32, buf []byte) *ACPI {
	return &ACPI{
		base:       base{flags: Readable | Writeable | NoCode},
		regionBase: regionBase,
		regionSize: regionSize,
		buf:        buf,
	}
}

func (a *ACPI) pageBytes(phys uint64) []byte {
	page := memorymap.Page(phys) - a.regionBase
	page &= a.regionSize - 1

	lastBufPage := uint32(len(a.buf)/memorymap.PageSize) - 1
	if page > lastBufPage {
		page = lastBufPage
	}

	start := uint64(page) * memorymap.PageSize
	if start+memorymap.PageSize > uint64(len(a.buf)) {
		return nil
	}
	return a.buf[start : start+memorymap.PageSize]
}

func (a *ACPI) Read8(phys uint64) uint8 {
	pg := a.pageBytes(phys)
	if pg == nil {
		return 0xFF
	}
	return pg[offsetInPage(phys)]
}
func (a *ACPI) Read16(phys uint64) uint16 { return composeRead16(a, phys) }
func (a *ACPI) Read32(phys uint64) uint32 { return composeRead32(a, phys) }

func (a *ACPI) Write8(phys uint64, v uint8) {
	pg := a.pageBytes(phys)
	if pg == nil {
		return
	}
	pg[offsetInPage(phys)] = v
}
func (a *ACPI) Write16(phys uint64, v uint16) { splitWrite16(a, phys, v) }
func (a *ACPI) Write32(phys uint64, v uint32) { splitWrite32(a, phys, v) }

func (a *ACPI) HostPage(phys uint64) ([]byte, bool) {
	pg := a.pageBytes(phys)
	if pg == nil {
		return nil, false
	}
	return pg, true
}
