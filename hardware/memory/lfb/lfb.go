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

// Package lfb manages the linear framebuffer and its companion MMIO
// window: the one pair of device memory regions large and
// graphics-card-specific enough that the handler table treats them as a
// single reconfigurable callout rather than a built-in handler (spec.md
// §4.6).
//
// Grounded on _examples/original_source/src/hardware/memory.cpp
// (lfb_mem_cb/lfb_mmio_cb, lfb_memio_cb, lfb_mem_cb_init/_free,
// MEM_SetLFB).
package lfb

import (
	"github.com/retropc/pcmem/hardware/instance"
	"github.com/retropc/pcmem/hardware/memory/callout"
	"github.com/retropc/pcmem/hardware/memory/handlers"
	"github.com/retropc/pcmem/hardware/memory/memorymap"
	"github.com/retropc/pcmem/hardware/memory/table"
)

const lfbSetTag = "pcmem: linear framebuffer"

type window struct {
	startPage, endPage, pages uint32
	handler                   handlers.PageHandler
}

func (w window) covers(page uint32) bool {
	return w.pages != 0 && page >= w.startPage && page < w.endPage
}

// Manager owns the two callout slots (framebuffer and MMIO) and the
// window geometry of whichever graphics device currently claims them.
// Only one device may hold the LFB at a time; Set replaces whatever was
// there before.
type Manager struct {
	inst     *instance.Instance
	registry *callout.Registry
	table    *table.Table
	pci      bool

	memCallout, mmioCallout callout.Handle
	fb, mmio                window
}

// New returns a Manager. pciEnabled selects which callout bucket the LFB
// windows register in, matching the rest of the chipset's device wiring.
func New(inst *instance.Instance, registry *callout.Registry, tbl *table.Table, pciEnabled bool) *Manager {
	return &Manager{inst: inst, registry: registry, table: tbl, pci: pciEnabled}
}

func (m *Manager) bucket() callout.Bucket {
	if m.pci {
		return callout.PCI
	}
	return callout.ISA
}

func (m *Manager) resolve(page uint32) (handlers.PageHandler, bool) {
	if m.fb.covers(page) {
		return m.fb.handler, true
	}
	if m.mmio.covers(page) {
		return m.mmio.handler, true
	}
	return nil, false
}

func (m *Manager) ensureCallouts() bool {
	if m.memCallout == (callout.Handle{}) {
		h, ok := m.registry.Allocate(m.bucket())
		if !ok {
			return false
		}
		m.memCallout = h
	}
	if m.mmioCallout == (callout.Handle{}) {
		h, ok := m.registry.Allocate(m.bucket())
		if !ok {
			return false
		}
		m.mmioCallout = h
	}
	return true
}

// nextPowerOfTwo is used to size the callout's alias mask: the installed
// mask must cover the whole window with a power-of-two period
// (memory.cpp: "make p2sz the largest power of 2 that covers the LFB").
func nextPowerOfTwo(pages uint32) uint32 {
	p := uint32(2)
	for p < pages {
		p <<= 1
	}
	return p
}

// Set installs (or clears, if handler is nil) the framebuffer window at
// [page, page+pages) backed by handler, and the companion MMIO window at
// [mmioPage, mmioPage+mmioPages) backed by mmioHandler. Unlike the
// original's hard-coded "MMIO always 16 pages at +16MiB" placement, the
// MMIO window's location and size are parameters: callers model their own
// device's BAR layout instead of inheriting one vendor's.
func (m *Manager) Set(page, pages uint32, handler handlers.PageHandler, mmioPage, mmioPages uint32, mmioHandler handlers.PageHandler) bool {
	oldFB, oldMMIO := m.fb, m.mmio

	if handler != nil {
		m.fb = window{startPage: page, endPage: page + pages, pages: pages, handler: handler}
	} else {
		m.fb = window{}
	}
	if mmioHandler != nil {
		m.mmio = window{startPage: mmioPage, endPage: mmioPage + mmioPages, pages: mmioPages, handler: mmioHandler}
	} else {
		m.mmio = window{}
	}

	if m.fb == oldFB && m.mmio == oldMMIO {
		return true
	}

	if pages == 0 || page == 0 {
		m.free()
		if m.inst != nil && m.inst.Log != nil {
			m.inst.Log.Log(lfbSetTag, "pcmem: linear framebuffer disabled")
		}
	} else {
		if !m.ensureCallouts() {
			return false
		}
		m.registry.Uninstall(m.memCallout)
		if m.fb.pages != 0 {
			p2sz := nextPowerOfTwo(m.fb.pages)
			m.registry.Install(m.memCallout, m.fb.startPage, p2sz-1, m.resolve)
		}

		m.registry.Uninstall(m.mmioCallout)
		if m.mmio.pages != 0 {
			p2sz := nextPowerOfTwo(m.mmio.pages)
			m.registry.Install(m.mmioCallout, m.mmio.startPage, p2sz-1, m.resolve)
		}

		if m.inst != nil && m.inst.Log != nil {
			m.inst.Log.Logf(lfbSetTag, "pcmem: linear framebuffer set to %#x-%#x",
				memorymap.Addr(page), memorymap.Addr(page+pages)-1)
		}
	}

	if m.table != nil {
		m.table.Invalidate(0, m.table.HandlerPages())
	}
	if m.inst != nil && m.inst.FlushTLB != nil {
		m.inst.FlushTLB()
	}
	return true
}

func (m *Manager) free() {
	if m.memCallout != (callout.Handle{}) {
		m.registry.Uninstall(m.memCallout)
	}
	if m.mmioCallout != (callout.Handle{}) {
		m.registry.Uninstall(m.mmioCallout)
	}
}
