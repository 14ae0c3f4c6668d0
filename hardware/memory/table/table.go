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

// Package table implements the handler table: a per-page cache of the
// PageHandler responsible for each page, with a slow path that consults
// package callout the first time a page is touched (spec.md §4.2,
// §4.3).
//
// Grounded on _examples/original_source/src/hardware/memory.cpp
// (MEM_GetPageHandler, MEM_SlowPath, MEM_RegisterHandler,
// MEM_InvalidateCachedHandler).
package table

import (
	"github.com/retropc/pcmem/hardware/instance"
	"github.com/retropc/pcmem/hardware/memory/callout"
	"github.com/retropc/pcmem/hardware/memory/handlers"
	"github.com/retropc/pcmem/hardware/memory/memorymap"
)

const slowPathTag = "pcmem: memory slow path"

// Table is the per-page handler cache plus slow path. One Table exists per
// running memory subsystem.
type Table struct {
	inst *instance.Instance

	pages         []handlers.PageHandler // nil entry => needs the slow path
	reportedPages uint32                 // pages actually backed by RAM, below handler_pages

	registry   *callout.Registry
	pciEnabled bool

	// isaHoleStart/End name the 15MiB-16MiB range a strict-ISA chipset
	// never decodes at all; pages within it degrade straight to Unmapped
	// without consulting any callout (memory.cpp: isa_memory_hole_15mb).
	isaHoleEnabled      bool
	isaHoleStart, isaHoleEnd uint32

	// glideEnabled marks a fixed passthrough window some 3dfx Voodoo
	// wrappers install directly over the LFB aperture, bypassing both the
	// cache and the callout buckets entirely (spec.md §4.2 step 2).
	glideEnabled    bool
	glideStart, glideEnd uint32
	glideHandler    handlers.PageHandler

	// above4G serves addresses at or above the 4GiB boundary, a region the
	// cache and the callout buckets never cover: handler_pages itself is
	// capped at MaxHandlerPages (4GiB worth of pages), so the optional
	// above-4GiB RAM window is dispatched here instead of through the
	// normal per-page array (spec.md §9 "above-4GiB RAM").
	above4G handlers.PageHandler

	// ram is the handler responsible for reported RAM, consulted by
	// slowPath as the last-resort default for a reported page no callout
	// claimed (spec.md §4.2: this indicates the page should already have
	// been pre-populated, and is logged as a bug rather than silently
	// left Unmapped).
	ram handlers.PageHandler

	unmapped *handlers.Unmapped
	illegal  *handlers.Illegal
}

// New returns a Table sized to handlerPages (spec.md §3 invariant 1: must
// already be a power of two in [MinHandlerPages, MaxHandlerPages], which
// the caller is responsible for enforcing before calling New).
func New(inst *instance.Instance, handlerPages, reportedPages uint32, registry *callout.Registry, pciEnabled bool) *Table {
	return &Table{
		inst:          inst,
		pages:         make([]handlers.PageHandler, handlerPages),
		reportedPages: reportedPages,
		registry:      registry,
		pciEnabled:    pciEnabled,
		unmapped:      handlers.NewUnmapped(),
		illegal:       handlers.NewIllegal(inst.Log),
	}
}

// HandlerPages returns the table's fixed size in pages.
func (t *Table) HandlerPages() uint32 { return uint32(len(t.pages)) }

// EnableISAHole marks [start,end] (inclusive) as the 15MiB-16MiB hole some
// strict ISA chipsets leave permanently unmapped.
func (t *Table) EnableISAHole(start, end uint32) {
	t.isaHoleEnabled = true
	t.isaHoleStart, t.isaHoleEnd = start, end
}

// SetGlidePassthrough installs a fixed short-circuit handler for
// [page, page+pages): Resolve returns it directly, ahead of the cache and
// the slow path, for as long as it is enabled. Passing a nil handler
// disables the passthrough again. This never touches the page cache, so
// disabling it requires no TLB flush of its own beyond what the caller
// already does when it changes the LFB mapping underneath.
func (t *Table) SetGlidePassthrough(page, pages uint32, handler handlers.PageHandler) {
	if handler == nil {
		t.glideEnabled = false
		return
	}
	t.glideEnabled = true
	t.glideStart = page
	t.glideEnd = page + pages
	t.glideHandler = handler
}

// SetRAMHandler records the handler responsible for reported RAM, used by
// slowPath as the pre-populated-bug fallback for a reported page with no
// cached handler and no matching callout.
func (t *Table) SetRAMHandler(handler handlers.PageHandler) {
	t.ram = handler
}

// SetAboveFourGBHandler installs the handler that serves every address at
// or above the 4GiB boundary. A nil handler (the default) leaves that
// region illegal, matching a Config with no above-4GiB RAM configured.
func (t *Table) SetAboveFourGBHandler(handler handlers.PageHandler) {
	t.above4G = handler
}

// SetStatic installs handler over [page, page+pages) unconditionally,
// bypassing the callout mechanism entirely (memory.cpp:
// MEM_RegisterHandler). Used for RAM, the BIOS ROM image, and other
// regions that exist for the life of the machine.
func (t *Table) SetStatic(page, pages uint32, handler handlers.PageHandler) {
	t.inst.CheckGoroutine("table.SetStatic")
	end := page + pages
	if end > uint32(len(t.pages)) {
		end = uint32(len(t.pages))
	}
	for p := page; p < end; p++ {
		t.pages[p] = handler
	}
}

// Invalidate clears the cached handler for [page, page+pages), forcing the
// next access to re-run the slow path (memory.cpp:
// MEM_InvalidateCachedHandler). Call this whenever a callout is
// installed, uninstalled, or its answer for a given page could have
// changed, then flush the TLB.
func (t *Table) Invalidate(page, pages uint32) {
	end := page + pages
	if end > uint32(len(t.pages)) {
		end = uint32(len(t.pages))
	}
	for p := page; p < end; p++ {
		t.pages[p] = nil
	}
}

// CachedAt returns the handler currently cached for page, or nil if the
// slow path has not resolved it yet. Used by package savestate to capture
// per-page handler identity without disturbing cache state.
func (t *Table) CachedAt(page uint32) handlers.PageHandler {
	if page >= uint32(len(t.pages)) {
		return nil
	}
	return t.pages[page]
}

// Resolve returns the PageHandler responsible for the page containing
// phys, consulting the cache first and only falling to the slow path on a
// miss (spec.md §4.2 invariant 3).
func (t *Table) Resolve(phys uint64) handlers.PageHandler {
	page := memorymap.Page(phys)
	if t.glideEnabled && page >= t.glideStart && page < t.glideEnd {
		return t.glideHandler
	}
	if page >= memorymap.FourGB {
		if t.above4G != nil {
			return t.above4G
		}
		return t.illegal
	}
	if page >= uint32(len(t.pages)) {
		return t.illegal
	}
	if h := t.pages[page]; h != nil {
		return h
	}
	return t.slowPath(page)
}

func (t *Table) slowPath(page uint32) handlers.PageHandler {
	if t.isaHoleEnabled && page >= t.isaHoleStart && page <= t.isaHoleEnd {
		t.pages[page] = t.unmapped
		return t.unmapped
	}

	f, matches := t.registry.Resolve(callout.Motherboard, page)
	if matches == 0 {
		if t.pciEnabled {
			f, matches = t.registry.Resolve(callout.PCI, page)
		}
		if matches == 0 {
			f, matches = t.registry.Resolve(callout.ISA, page)
		}
	}

	if matches == 0 {
		if page < t.reportedPages && t.ram != nil {
			if t.inst != nil && t.inst.Log != nil {
				t.inst.Log.Logf(slowPathTag, "pcmem: page %#x is within reported RAM but was not pre-populated; defaulting to RAM", page)
			}
			f = t.ram
		} else {
			f = t.unmapped
		}
	}

	if t.inst != nil && t.inst.Log != nil {
		t.inst.Log.Logf(slowPathTag, "pcmem: slow path resolved page %#x with %d device matches", page, matches)
	}

	// only cache the result when zero or one device responded: two (or
	// more) conflicting devices must be re-resolved every access so a
	// transient answer is never pinned in place (spec.md §4.2 invariant 4).
	if matches <= 1 {
		t.pages[page] = f
	}

	return f
}
