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

package memory

import (
	"fmt"

	"github.com/retropc/pcmem/hardware/memory/handlers"
	"github.com/retropc/pcmem/hardware/memory/memorymap"
)

const physmemTag = "pcmem: physical memory map"

// alignedRange turns a byte address range into a page range, reporting
// whether start was page-aligned and end was one below a page boundary
// (spec.md §4.6: "start must be page-aligned; end must be one below a
// page boundary").
func alignedRange(start, end uint64) (first, last uint32, aligned bool) {
	first = memorymap.Page(start)
	last = memorymap.Page(end)
	aligned = memorymap.Addr(first) == start && memorymap.Addr(last+1) == end+1
	return
}

// checkRange validates a physmem helper's [start,end] argument: it must
// decode to a range wholly inside the handler table (spec.md §4.6: a range
// beyond handler_pages is a fatal configuration error, not a silently
// clamped one). A range that is not page-aligned is logged and then used
// as decoded.
func (s *Subsystem) checkRange(start, end uint64) (first, last uint32, err error) {
	first, last, aligned := alignedRange(start, end)
	if !aligned {
		s.inst.Log.Logf(physmemTag, "pcmem: physmem range %#x-%#x is not page-aligned", start, end)
	}
	if last >= s.table.HandlerPages() {
		return 0, 0, fmt.Errorf("pcmem: physmem range %#x-%#x extends beyond the %d-page handler table",
			start, end, s.table.HandlerPages())
	}
	return first, last, nil
}

// overwriteAllowed reports whether the page currently installed at h may
// be silently replaced: spec.md §4.6 permits this only when the existing
// slot is empty (nil, meaning unresolved), the Illegal or Unmapped
// sentinel, or already the same kind of handler being installed.
func overwriteAllowed(h handlers.PageHandler, sameKind func(handlers.PageHandler) bool) bool {
	if h == nil {
		return true
	}
	switch h.(type) {
	case *handlers.Illegal, *handlers.Unmapped:
		return true
	}
	return sameKind(h)
}

// UnmapPhysmem clears [start,end] to the Unmapped sentinel (spec.md §4.6
// unmap_physmem).
func (s *Subsystem) UnmapPhysmem(start, end uint64) error {
	first, last, err := s.checkRange(start, end)
	if err != nil {
		return err
	}
	s.table.SetStatic(first, last-first+1, handlers.NewUnmapped())
	s.inst.FlushTLB()
	return nil
}

// MapRAMPhysmem installs a RAM handler over [start,end], backed by
// region, unless an existing, incompatible handler already occupies part
// of the range (spec.md §4.6 map_RAM_physmem).
func (s *Subsystem) MapRAMPhysmem(start, end uint64, region *handlers.RAM) error {
	first, last, err := s.checkRange(start, end)
	if err != nil {
		return err
	}
	sameKind := func(h handlers.PageHandler) bool { _, ok := h.(*handlers.RAM); return ok }
	for page := first; page <= last; page++ {
		if !overwriteAllowed(s.table.CachedAt(page), sameKind) {
			return fmt.Errorf("pcmem: physmem page %#x already holds an incompatible handler", memorymap.Addr(page))
		}
	}
	s.table.SetStatic(first, last-first+1, region)
	s.inst.FlushTLB()
	return nil
}

// MapROMPhysmem installs a ROM handler over [start,end] (spec.md §4.6
// map_ROM_physmem).
func (s *Subsystem) MapROMPhysmem(start, end uint64, region *handlers.ROM) error {
	first, last, err := s.checkRange(start, end)
	if err != nil {
		return err
	}
	sameKind := func(h handlers.PageHandler) bool { _, ok := h.(*handlers.ROM); return ok }
	for page := first; page <= last; page++ {
		if !overwriteAllowed(s.table.CachedAt(page), sameKind) {
			return fmt.Errorf("pcmem: physmem page %#x already holds an incompatible handler", memorymap.Addr(page))
		}
	}
	s.table.SetStatic(first, last-first+1, region)
	s.inst.FlushTLB()
	return nil
}

// EnableACPI installs an ACPI table-region handler over [start,end],
// backed by buf (memory.cpp: ACPI_init). Calling it again with a
// different range replaces the region, mirroring ACPI_mem_enable's resize
// behaviour; DisableACPI removes it.
func (s *Subsystem) EnableACPI(start, end uint64, buf []byte) error {
	first, last, err := s.checkRange(start, end)
	if err != nil {
		return err
	}
	if s.acpi != nil {
		s.table.SetStatic(s.acpiFirst, s.acpiLast-s.acpiFirst+1, handlers.NewUnmapped())
	}
	regionSize := last - first + 1
	region := handlers.NewACPI(first, regionSize, buf)
	s.table.SetStatic(first, regionSize, region)
	s.acpi = region
	s.acpiFirst, s.acpiLast = first, last
	s.inst.FlushTLB()
	return nil
}

// DisableACPI removes a previously installed ACPI region, restoring
// Unmapped over its pages (memory.cpp: ACPI_free).
func (s *Subsystem) DisableACPI() error {
	if s.acpi == nil {
		return nil
	}
	s.table.SetStatic(s.acpiFirst, s.acpiLast-s.acpiFirst+1, handlers.NewUnmapped())
	s.acpi = nil
	s.inst.FlushTLB()
	return nil
}

// MapROMAliasPhysmem installs a ROM-alias handler over [start,end]
// (spec.md §4.6 map_ROM_alias_physmem): reads are remapped into the last
// 16 pages of the system BIOS ROM image, writes are silently dropped.
func (s *Subsystem) MapROMAliasPhysmem(start, end uint64, alias *handlers.ROMAlias) error {
	first, last, err := s.checkRange(start, end)
	if err != nil {
		return err
	}
	sameKind := func(h handlers.PageHandler) bool { _, ok := h.(*handlers.ROMAlias); return ok }
	for page := first; page <= last; page++ {
		if !overwriteAllowed(s.table.CachedAt(page), sameKind) {
			return fmt.Errorf("pcmem: physmem page %#x already holds an incompatible handler", memorymap.Addr(page))
		}
	}
	s.table.SetStatic(first, last-first+1, alias)
	s.inst.FlushTLB()
	return nil
}
