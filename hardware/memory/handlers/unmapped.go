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

// Unmapped is installed over every page the handler table covers that no
// device has claimed. Reads return 0xFF (real hardware floats high on an
// open bus), writes are silently dropped (memory.cpp: UnmappedPageHandler).
type Unmapped struct{ base }

// NewUnmapped returns the shared Unmapped handler.
func NewUnmapped() *Unmapped {
	return &Unmapped{base: base{flags: Init | NoCode}}
}

func (u *Unmapped) Read8(uint64) uint8          { return 0xFF }
func (u *Unmapped) Read16(phys uint64) uint16   { return composeRead16(u, phys) }
func (u *Unmapped) Read32(phys uint64) uint32   { return composeRead32(u, phys) }

func (u *Unmapped) Write8(uint64, uint8)          {}
func (u *Unmapped) Write16(phys uint64, v uint16) {}
func (u *Unmapped) Write32(phys uint64, v uint32) {}

func (u *Unmapped) HostPage(uint64) ([]byte, bool) { return nil, false }
