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

// Package alloc implements the EMS/XMS extended-memory page allocator
// (spec.md §4.5): a best-fit allocator over the page range starting at
// memorymap.XMSStart, with an A20-friendly variant that never crosses a
// 1MiB boundary so the allocation stays reachable regardless of A20 gate
// state.
//
// Grounded on _examples/original_source/src/hardware/memory.cpp
// (BestMatch, BestMatch_A20_friendly, MEM_AllocatePages,
// MEM_AllocatePages_A20_friendly, MEM_ReleasePages, MEM_ReAllocatePages).
package alloc

import "github.com/retropc/pcmem/hardware/memory/memorymap"

// Handle identifies an allocation by the page number of its first page.
// The zero Handle means "no allocation" — spec.md §7 models allocator
// exhaustion this way rather than as an error.
type Handle uint32

// megabyte is the number of pages in 1MiB, used by the A20-friendly
// search to avoid straddling an odd/even megabyte boundary.
const megabyte = 0x100

// end marks the final page of an allocation chain; the allocator never
// hands it out as a real page number, so the sentinel is unambiguous.
const end = int32(-1)

// Allocator owns the per-page handle table for one memory subsystem's
// extended-memory region: mhandles[page] is 0 if page is free, end if
// page is the last page of its allocation, or the page number of the
// next page in the chain otherwise.
type Allocator struct {
	mhandles      []int32
	reportedPages uint32
	start         uint32
}

// New returns an Allocator covering [memorymap.XMSStart, reportedPages).
func New(reportedPages uint32) *Allocator {
	return &Allocator{
		mhandles:      make([]int32, reportedPages),
		reportedPages: reportedPages,
		start:         memorymap.XMSStart,
	}
}

func (a *Allocator) bestMatch(size uint32) uint32 {
	index := a.start
	var first, best, bestFirst uint32
	best = 0xFFFFFFF

	for index < a.reportedPages {
		if first == 0 {
			if a.mhandles[index] == 0 {
				first = index
			}
		} else if a.mhandles[index] != 0 {
			pages := index - first
			switch {
			case pages == size:
				return first
			case pages > size && pages < best:
				best = pages
				bestFirst = first
			}
			first = 0
		}
		index++
	}

	if first != 0 && index-first >= size && index-first < best {
		return first
	}
	return bestFirst
}

// bestMatchA20Friendly behaves like bestMatch but only ever considers
// runs that start on an even megabyte and never straddle into the next
// one, so the resulting allocation is reachable with A20 masked off.
func (a *Allocator) bestMatchA20Friendly(size uint32) uint32 {
	if size > megabyte {
		return 0
	}

	index := a.start
	var first, best, bestFirst uint32
	best = 0xFFFFFFF

	for index < a.reportedPages {
		if first == 0 {
			if index&megabyte != 0 {
				index = (index | (megabyte - 1)) + 1
				continue
			}
			if a.mhandles[index] == 0 {
				first = index
			}
		} else if a.mhandles[index] != 0 || index&megabyte != 0 {
			pages := index - first
			switch {
			case pages == size:
				return first
			case pages > size && pages < best:
				best = pages
				bestFirst = first
			}
			first = 0
		}
		index++
	}

	if first != 0 && index-first >= size && index-first < best {
		return first
	}
	return bestFirst
}

// Handles returns a copy of the raw per-page handle chain array, for
// save-state capture (spec.md §6 "Save state"). Callers should treat the
// values as opaque outside package alloc.
func (a *Allocator) Handles() []int32 {
	return append([]int32(nil), a.mhandles...)
}

// SetHandles overwrites the raw per-page handle chain array from a
// previously captured one, for save-state restore. h must be the same
// length Handles returned.
func (a *Allocator) SetHandles(h []int32) {
	copy(a.mhandles, h)
}

// FreeTotal returns the number of free pages in the managed range.
func (a *Allocator) FreeTotal() uint32 {
	var free uint32
	for i := a.start; i < a.reportedPages; i++ {
		if a.mhandles[i] == 0 {
			free++
		}
	}
	return free
}

// FreeLargest returns the size in pages of the largest contiguous free
// run in the managed range, the same quantity EMS/XMS drivers query
// before attempting a large contiguous allocation (memory.cpp:
// BestMatch's "best" tracking, exposed here as its own query).
func (a *Allocator) FreeLargest() uint32 {
	var largest, run uint32
	for i := a.start; i < a.reportedPages; i++ {
		if a.mhandles[i] == 0 {
			run++
			if run > largest {
				largest = run
			}
		} else {
			run = 0
		}
	}
	return largest
}

// allocate mirrors MEM_AllocatePages's use of a pointer-to-pointer to
// build the chain as it goes: next always points at the slot (either ret
// itself, or some earlier page's forward link) that should receive the
// next page number.
func (a *Allocator) allocate(pages uint32, sequence bool, match func(uint32) uint32) Handle {
	if pages == 0 {
		return 0
	}

	var ret int32
	next := &ret

	if sequence {
		index := match(pages)
		if index == 0 {
			return 0
		}
		for pages > 0 {
			*next = int32(index)
			next = &a.mhandles[index]
			index++
			pages--
		}
		*next = end
		return Handle(ret)
	}

	if a.FreeTotal() < pages {
		return 0
	}
	for pages > 0 {
		index := match(1)
		if index == 0 {
			// the free-total check above guarantees this cannot happen;
			// treat it as allocator corruption rather than panicking.
			return 0
		}
		for pages > 0 && a.mhandles[index] == 0 {
			*next = int32(index)
			next = &a.mhandles[index]
			index++
			pages--
		}
		*next = end
	}
	return Handle(ret)
}

// Allocate reserves pages pages. When sequence is true the pages are
// contiguous; otherwise they may be scattered across multiple best-fit
// runs linked together. Returns the zero Handle if the request cannot be
// satisfied (spec.md §7: allocator exhaustion is never an error value).
func (a *Allocator) Allocate(pages uint32, sequence bool) Handle {
	return a.allocate(pages, sequence, a.bestMatch)
}

// AllocateA20Friendly is Allocate's variant guaranteeing every page of the
// result has bit 20 (the 1MiB bit) clear, so the allocation stays
// reachable with A20 disabled (spec.md §4.5).
func (a *Allocator) AllocateA20Friendly(pages uint32, sequence bool) Handle {
	return a.allocate(pages, sequence, a.bestMatchA20Friendly)
}

// Release frees every page in h's chain.
func (a *Allocator) Release(h Handle) {
	index := int32(h)
	for index > 0 {
		next := a.mhandles[index]
		a.mhandles[index] = 0
		index = next
	}
}

// AllocatedPages counts the pages in h's chain.
func (a *Allocator) AllocatedPages(h Handle) uint32 {
	var pages uint32
	index := int32(h)
	for index > 0 {
		pages++
		index = a.mhandles[index]
	}
	return pages
}

// Next returns the page following h's first page in its chain, or the
// zero Handle at the end of the chain.
func (a *Allocator) Next(h Handle) Handle {
	if h == 0 {
		return 0
	}
	n := a.mhandles[h]
	if n <= 0 {
		return 0
	}
	return Handle(n)
}

// NextAt walks n steps forward from h along its chain.
func (a *Allocator) NextAt(h Handle, n uint32) Handle {
	for ; n > 0; n-- {
		h = a.Next(h)
	}
	return h
}

// CopyFunc copies pages pages from src's first page to dst's first page;
// supplied by the caller (typically package blockio) so alloc does not
// need to depend on the backing memory store itself.
type CopyFunc func(dst, src Handle, pages uint32)

// ReAllocate grows or shrinks h to hold pages pages, moving the
// allocation (and copying its old content via copy) if it must grow past
// the free space immediately following it. Passing pages == 0 releases h
// entirely. Returns false only if growth was required and no space could
// be found anywhere.
func (a *Allocator) ReAllocate(h *Handle, pages uint32, sequence bool, copy CopyFunc) bool {
	if *h == 0 {
		if pages == 0 {
			return true
		}
		*h = a.Allocate(pages, sequence)
		return *h != 0
	}
	if pages == 0 {
		a.Release(*h)
		*h = 0
		return true
	}

	var oldPages uint32
	var last uint32
	index := uint32(*h)
	for index > 0 {
		oldPages++
		last = index
		index = uint32(a.mhandles[index])
	}

	if oldPages == pages {
		return true
	}

	if oldPages > pages {
		shrinkTo := pages
		index = uint32(*h)
		for shrinkTo > 1 {
			index = uint32(a.mhandles[index])
			shrinkTo--
		}
		freed := a.mhandles[index]
		a.mhandles[index] = end
		for idx := freed; idx > 0; {
			next := a.mhandles[idx]
			a.mhandles[idx] = 0
			idx = next
		}
		return true
	}

	need := pages - oldPages
	if sequence {
		free := uint32(0)
		scan := last + 1
		for scan < a.reportedPages && a.mhandles[scan] == 0 {
			scan++
			free++
		}
		if free >= need {
			idx := last
			for n := need; n > 0; n-- {
				a.mhandles[idx] = int32(idx + 1)
				idx++
			}
			a.mhandles[idx] = end
			return true
		}

		newHandle := a.Allocate(pages, true)
		if newHandle == 0 {
			return false
		}
		if copy != nil {
			copy(newHandle, *h, oldPages)
		}
		a.Release(*h)
		*h = newHandle
		return true
	}

	rem := a.Allocate(need, false)
	if rem == 0 {
		return false
	}
	a.mhandles[last] = int32(rem)
	return true
}
