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

// Package callout implements the device callout registry the slow path
// consults before falling back to Unmapped (spec.md §4.2). Devices never
// hold a handler table slot directly: they register a callout in one of
// three buckets (Motherboard, PCI, ISA) and are only asked for a handler
// the first time their page range is actually touched.
//
// Grounded on _examples/original_source/src/hardware/memory.cpp
// (MEM_CalloutObject, MEM_callout_vector, MEM_Gen_Callout,
// MEM_AllocateCallout/MEM_FreeCallout/MEM_GetCallout/MEM_PutCallout).
package callout

import "github.com/retropc/pcmem/hardware/memory/handlers"

// Bucket is one of the three callout search buckets, consulted by the slow
// path in this order: Motherboard always first, then PCI (only if the
// machine has a PCI bus), then ISA.
type Bucket int

// Defined buckets.
const (
	Motherboard Bucket = iota
	PCI
	ISA
	bucketCount
)

// Handler is asked for a PageHandler covering page. It returns ok=false if,
// despite matching the callout's installed mask, the device has nothing to
// offer for this particular page (for example, a conditionally-disabled
// region).
type Handler func(page uint32) (h handlers.PageHandler, ok bool)

// Handle identifies one allocated callout slot. The zero Handle is never
// valid; Registry.Allocate always returns a non-zero one on success.
type Handle struct {
	bucket Bucket
	index  int
	valid  bool
}

type entry struct {
	alloc     bool
	installed bool
	base      uint32
	rangeMask uint32
	aliasMask uint32
	handler   Handler
}

type vector struct {
	entries    []entry
	getcounter uint
	allocFrom  int
}

// maxEntriesPerBucket caps how large any one bucket may grow
// (memory.cpp: "if (vec.size() < 4096 ...)").
const maxEntriesPerBucket = 4096

const initialBucketSize = 64

// Registry owns the three callout buckets. One Registry is shared by the
// whole memory subsystem.
type Registry struct {
	buckets [bucketCount]*vector
}

// New returns a Registry with each bucket pre-sized the way memory.cpp's
// MEM_Init sizes MEM_TYPE_ISA/PCI/MB (64 entries each).
func New() *Registry {
	r := &Registry{}
	for b := range r.buckets {
		r.buckets[b] = &vector{entries: make([]entry, initialBucketSize)}
	}
	return r
}

// Allocate reserves a free slot in bucket, growing it (up to
// maxEntriesPerBucket, and only while no handle is currently borrowed via
// Get) if none is free. It returns ok=false if the bucket is both full and
// cannot grow.
func (r *Registry) Allocate(bucket Bucket) (Handle, bool) {
	v := r.buckets[bucket]

	for {
		for v.allocFrom < len(v.entries) {
			if !v.entries[v.allocFrom].alloc {
				v.entries[v.allocFrom].alloc = true
				h := Handle{bucket: bucket, index: v.allocFrom, valid: true}
				v.allocFrom++
				return h, true
			}
			v.allocFrom++
		}

		if len(v.entries) >= maxEntriesPerBucket || v.getcounter != 0 {
			return Handle{}, false
		}

		grown := make([]entry, len(v.entries)*2)
		copy(grown, v.entries)
		v.allocFrom = len(v.entries)
		v.entries = grown
	}
}

// Free releases h, uninstalling it first if still installed.
func (r *Registry) Free(h Handle) {
	if !h.valid {
		return
	}
	v := r.buckets[h.bucket]
	if h.index >= len(v.entries) {
		return
	}
	e := &v.entries[h.index]
	if !e.alloc {
		return
	}
	if e.installed {
		r.uninstall(h.bucket, e)
	}
	*e = entry{}
	if v.allocFrom > h.index {
		v.allocFrom = h.index
	}
}

// Get pins h so the bucket it belongs to cannot be resized out from under a
// caller holding a reference, mirroring getcounter in memory.cpp. Every Get
// must be matched by a Put.
func (r *Registry) Get(h Handle) bool {
	if !h.valid {
		return false
	}
	v := r.buckets[h.bucket]
	if h.index >= len(v.entries) || !v.entries[h.index].alloc {
		return false
	}
	v.getcounter++
	return true
}

// Put releases a pin taken by Get.
func (r *Registry) Put(h Handle) {
	if !h.valid {
		return
	}
	v := r.buckets[h.bucket]
	if v.getcounter > 0 {
		v.getcounter--
	}
}

// Install decomposes mask into a range mask (the device's own port/page
// count) and an alias mask (the period at which the device mirrors),
// exactly as MEM_CalloutObject::Install does, and reports false without
// installing if mask is malformed or page is not aligned to it.
func (r *Registry) Install(h Handle, page uint32, mask uint32, fn Handler) bool {
	if !h.valid {
		return false
	}
	v := r.buckets[h.bucket]
	if h.index >= len(v.entries) || !v.entries[h.index].alloc {
		return false
	}
	e := &v.entries[h.index]
	if e.installed {
		return false
	}

	rangeMask, aliasMask, ok := decomposeMask(mask)
	if !ok || page&rangeMask != 0 {
		return false
	}

	e.installed = true
	e.base = page
	e.rangeMask = rangeMask
	e.aliasMask = aliasMask
	e.handler = fn
	return true
}

// Uninstall removes the callout's installed mapping without freeing its
// slot; the slot may be re-installed later.
func (r *Registry) Uninstall(h Handle) {
	if !h.valid {
		return
	}
	v := r.buckets[h.bucket]
	if h.index >= len(v.entries) {
		return
	}
	e := &v.entries[h.index]
	if !e.installed {
		return
	}
	r.uninstall(h.bucket, e)
}

func (r *Registry) uninstall(bucket Bucket, e *entry) {
	e.installed = false
}

// decomposeMask splits a MEMMASK-style combined mask into its range and
// alias components (memory.cpp: the bit-scanning loop inside
// MEM_CalloutObject::Install). mask must have zero or more leading zero
// bits, one or more middle one bits, and zero or more trailing zero bits;
// anything else is rejected.
func decomposeMask(mask uint32) (rangeMask, aliasMask uint32, ok bool) {
	const bound = 0xFFFFFFF
	if mask == 0 || mask&^uint32(bound) != 0 {
		return 0, 0, false
	}

	m := uint32(1)
	test := mask ^ uint32(bound)
	for test&m == m {
		rangeMask = m
		m = (m << 1) + 1
	}
	if mask&rangeMask != 0 || (rangeMask+1)&rangeMask != 0 {
		return 0, 0, false
	}

	aliasMask = rangeMask
	test = mask + rangeMask
	for test&m == m {
		aliasMask = m
		m = (m << 1) + 1
	}
	if mask^rangeMask^aliasMask != 0 || (aliasMask+1)&aliasMask != 0 {
		return 0, 0, false
	}

	return rangeMask, aliasMask, true
}

func matchPage(e *entry, page uint32) bool {
	return (page^e.base)&^e.aliasMask == 0
}

// Resolve asks every installed, matching callout in bucket for a handler
// covering page, in slot order (freed slots are reused, so this is not
// necessarily installation order). It returns the first handler
// offered and the total number of callouts that offered one: the slow
// path only caches the result (spec.md §4.2 invariant 4) when that count
// is 0 or 1, since two devices racing for the same page is a
// configuration conflict no cache entry should paper over.
func (r *Registry) Resolve(bucket Bucket, page uint32) (handlers.PageHandler, int) {
	v := r.buckets[bucket]
	var found handlers.PageHandler
	matches := 0

	for i := range v.entries {
		e := &v.entries[i]
		if !e.installed || e.handler == nil || !matchPage(e, page) {
			continue
		}
		h, ok := e.handler(page)
		if !ok || h == nil {
			continue
		}
		if matches == 0 {
			found = h
		}
		matches++
	}

	return found, matches
}
