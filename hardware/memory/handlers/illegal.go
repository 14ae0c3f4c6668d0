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

import (
	"github.com/retropc/pcmem/hardware/memory/memerr"
	"github.com/retropc/pcmem/logger"
)

// illegalTag is the logger tag used for rate-limiting illegal-access
// reports; memory.cpp caps these at 1000 lines per run with a static
// counter, which logger.Log.SetRateLimit reproduces generically.
const illegalTag = "pcmem: illegal access"

// illegalRateLimit matches the "lcount<1000" cap in memory.cpp's
// IllegalPageHandler.
const illegalRateLimit = 1000

// Illegal is installed over pages beyond the end of the handler table:
// addresses the guest has no business touching at all (spec.md §4.1,
// §7 IllegalAccess). Like Unmapped it returns 0xFF and drops writes, but
// additionally logs each access, rate-limited.
type Illegal struct {
	base
	log *logger.Log
}

// NewIllegal returns an Illegal handler that reports through log.
func NewIllegal(log *logger.Log) *Illegal {
	if log != nil {
		log.SetRateLimit(illegalTag, illegalRateLimit)
	}
	return &Illegal{base: base{flags: Init | NoCode}, log: log}
}

func (h *Illegal) report(phys uint64) {
	if h.log == nil {
		return
	}
	h.log.Logf(illegalTag, memerr.IllegalAccess, phys)
}

func (h *Illegal) Read8(phys uint64) uint8 {
	h.report(phys)
	return 0xFF
}
func (h *Illegal) Read16(phys uint64) uint16 { return composeRead16(h, phys) }
func (h *Illegal) Read32(phys uint64) uint32 { return composeRead32(h, phys) }

func (h *Illegal) Write8(phys uint64, v uint8) {
	h.report(phys)
}
func (h *Illegal) Write16(phys uint64, v uint16) { h.report(phys) }
func (h *Illegal) Write32(phys uint64, v uint32) { h.report(phys) }

func (h *Illegal) HostPage(uint64) ([]byte, bool) { return nil, false }
