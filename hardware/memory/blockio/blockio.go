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

// Package blockio implements the bulk guest-memory helpers built on top
// of the handler table: byte-at-a-time fallbacks that take the host
// pointer fast path whenever a page's handler offers one (spec.md §4.7).
//
// Grounded on _examples/original_source/src/hardware/memory.cpp
// (MEM_BlockRead, MEM_BlockWrite, MEM_BlockCopy, MEM_StrCopy, mem_memcpy).
package blockio

import (
	"github.com/retropc/pcmem/hardware/memory/handlers"
	"github.com/retropc/pcmem/hardware/memory/memorymap"
)

// Resolver is the subset of table.Table that blockio needs: resolving a
// physical address to its PageHandler. Kept as a narrow interface so
// blockio does not import package table directly.
type Resolver interface {
	Resolve(phys uint64) handlers.PageHandler
}

// IO performs bulk reads, writes, and copies across the guest physical
// address space.
type IO struct {
	mem Resolver
}

// New returns an IO bound to mem.
func New(mem Resolver) *IO {
	return &IO{mem: mem}
}

func (io *IO) readByte(phys uint64) uint8 {
	h := io.mem.Resolve(phys)
	if page, ok := h.HostPage(phys); ok {
		return page[phys&(memorymap.PageSize-1)]
	}
	return h.Read8(phys)
}

func (io *IO) writeByte(phys uint64, v uint8) {
	h := io.mem.Resolve(phys)
	if page, ok := h.HostPage(phys); ok {
		page[phys&(memorymap.PageSize-1)] = v
		return
	}
	h.Write8(phys, v)
}

// BlockRead copies len(dst) bytes starting at phys into dst.
func (io *IO) BlockRead(phys uint64, dst []byte) {
	for i := range dst {
		dst[i] = io.readByte(phys)
		phys++
	}
}

// BlockWrite copies every byte of src to guest memory starting at phys.
// Runs of bytes landing in the same page as a handler offering a host
// pointer are copied in one go rather than byte by byte (spec.md §4.7
// fast path), mirroring MEM_BlockWrite's "always same TLB entry" special
// case.
func (io *IO) BlockWrite(phys uint64, src []byte) {
	for len(src) > 0 {
		pageEnd := (phys &^ (memorymap.PageSize - 1)) + memorymap.PageSize
		run := pageEnd - phys
		if run > uint64(len(src)) {
			run = uint64(len(src))
		}

		h := io.mem.Resolve(phys)
		if page, ok := h.HostPage(phys); ok {
			off := phys & (memorymap.PageSize - 1)
			copy(page[off:off+run], src[:run])
		} else {
			for i := uint64(0); i < run; i++ {
				h.Write8(phys+i, src[i])
			}
		}

		src = src[run:]
		phys += run
	}
}

// BlockCopy copies size bytes from src to dst within guest memory.
func (io *IO) BlockCopy(dst, src uint64, size uint64) {
	buf := make([]byte, size)
	io.BlockRead(src, buf)
	io.BlockWrite(dst, buf)
}

// StrCopy reads bytes starting at phys until a NUL or until max bytes have
// been read, returning them without the terminator
// (spec.md §4.7, memory.cpp: MEM_StrCopy).
func (io *IO) StrCopy(phys uint64, max int) []byte {
	out := make([]byte, 0, max)
	for i := 0; i < max; i++ {
		b := io.readByte(phys)
		if b == 0 {
			break
		}
		out = append(out, b)
		phys++
	}
	return out
}
