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

import "github.com/retropc/pcmem/logger"

const romWriteTag = "pcmem: rom write"

// ROM behaves like RAM for reads but rejects writes: they are dropped and
// logged rather than applied (memory.cpp: ROMPageHandler). quirkStart/End
// names an optional address band, inclusive/exclusive, within which
// writes are dropped silently rather than logged — carried over from
// memory.cpp's ROMPageHandler special case for the fourth video plane some
// adapter BIOSes zero unconditionally on startup regardless of whether it
// is actually mapped.
type ROM struct {
	*RAM
	log                    *logger.Log
	quirkStart, quirkEnd   uint64
}

// NewROM returns a ROM handler backed by mem and masked through a20, with
// writes reported through log. A zero quirkStart/quirkEnd disables the
// silent-write band.
func NewROM(mem []byte, a20 masker, log *logger.Log, quirkStart, quirkEnd uint64) *ROM {
	r := &ROM{RAM: NewRAM(mem, a20), log: log, quirkStart: quirkStart, quirkEnd: quirkEnd}
	r.RAM.base = base{flags: Readable | HasROM}
	return r
}

func (r *ROM) inQuirkBand(phys uint64) bool {
	return r.quirkEnd > r.quirkStart && phys >= r.quirkStart && phys < r.quirkEnd
}

func (r *ROM) Write8(phys uint64, v uint8) { r.rejectWrite(phys) }
func (r *ROM) Write16(phys uint64, v uint16) { r.rejectWrite(phys) }
func (r *ROM) Write32(phys uint64, v uint32) { r.rejectWrite(phys) }

func (r *ROM) rejectWrite(phys uint64) {
	if r.inQuirkBand(phys) {
		return
	}
	if r.log != nil {
		r.log.Logf(romWriteTag, "pcmem: rejected write to rom at physical address %#x", phys)
	}
}
