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

// FileWindow serves the optional above-4GiB RAM extension: pages starting
// at memorymap.FourGB are backed by a separate host mapping (typically a
// sparse file, see package backing) rather than the below-4GiB arena, so
// that the 64MiB+ gap left for PCI/ROM BIOS below 4GiB never has to be
// allocated (memory.cpp: Mem4GBPageHandler / memory_file_base).
type FileWindow struct {
	base
	mem []byte // mapping of the above-4GiB file, indexed from page 0
}

// NewFileWindow returns a FileWindow handler backed by mem, the host
// mapping of the above-4GiB file.
func NewFileWindow(mem []byte) *FileWindow {
	return &FileWindow{base: base{flags: Readable | Writeable}, mem: mem}
}

func (f *FileWindow) pageBytes(phys uint64) []byte {
	page := memorymap.Page(phys) - memorymap.FourGB
	start := uint64(page) * memorymap.PageSize
	if start+memorymap.PageSize > uint64(len(f.mem)) {
		return nil
	}
	return f.mem[start : start+memorymap.PageSize]
}

func (f *FileWindow) Read8(phys uint64) uint8 {
	pg := f.pageBytes(phys)
	if pg == nil {
		return 0xFF
	}
	return pg[offsetInPage(phys)]
}
func (f *FileWindow) Read16(phys uint64) uint16 { return composeRead16(f, phys) }
func (f *FileWindow) Read32(phys uint64) uint32 { return composeRead32(f, phys) }

func (f *FileWindow) Write8(phys uint64, v uint8) {
	pg := f.pageBytes(phys)
	if pg == nil {
		return
	}
	pg[offsetInPage(phys)] = v
}
func (f *FileWindow) Write16(phys uint64, v uint16) { splitWrite16(f, phys, v) }
func (f *FileWindow) Write32(phys uint64, v uint32) { splitWrite32(f, phys, v) }

func (f *FileWindow) HostPage(phys uint64) ([]byte, bool) {
	pg := f.pageBytes(phys)
	if pg == nil {
		return nil, false
	}
	return pg, true
}
