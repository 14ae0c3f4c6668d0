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

// Package backing owns the actual host storage behind guest RAM: an
// ordinary byte slice for everything below 4GiB, and an optional
// file-backed mapping for the memory a guest addresses above 4GiB
// through the PCI64/4GB window (spec.md §4.5, §9 "above-4GiB RAM").
//
// Grounded on _examples/original_source/src/hardware/memory.cpp
// (MemBase, memory_file_base/alloc_mem_file/free_mem_file, the
// DO_MEMORY_FILE mmap path).
package backing

import (
	"fmt"

	"github.com/retropc/pcmem/hardware/memory/memorymap"
)

// Store holds the two host memory regions backing guest RAM: a plain
// slice for conventional/extended memory below 4GiB, and, if requested,
// a file-backed mapping for memory above 4GiB.
type Store struct {
	low  []byte
	high *fileWindow
}

// New allocates the below-4GiB region sized to reportedPages and, if
// aboveFourGBPages is non-zero, maps a backing file for the above-4GiB
// window. path names the backing file; it is created if it does not
// exist and truncated to the right size, mirroring alloc_mem_file's use
// of a sparse file so unused pages cost no disk space until touched.
func New(reportedPages uint32, aboveFourGBPages uint32, path string) (*Store, error) {
	s := &Store{low: make([]byte, memorymap.Addr(reportedPages))}

	if aboveFourGBPages == 0 {
		return s, nil
	}
	if path == "" {
		return nil, fmt.Errorf("pcmem: above-4GiB RAM requested but no backing file given")
	}

	size := int64(aboveFourGBPages) * memorymap.PageSize
	high, err := openFileWindow(path, size)
	if err != nil {
		return nil, fmt.Errorf("pcmem: mapping above-4GiB backing file: %w", err)
	}
	s.high = high
	return s, nil
}

// Low returns the below-4GiB backing slice.
func (s *Store) Low() []byte {
	return s.low
}

// High returns the above-4GiB backing slice, and whether one was mapped.
func (s *Store) High() ([]byte, bool) {
	if s.high == nil {
		return nil, false
	}
	return s.high.mem, true
}

// Close releases the above-4GiB mapping, if any. The below-4GiB slice
// needs no explicit release; it is reclaimed by the garbage collector.
func (s *Store) Close() error {
	if s.high == nil {
		return nil
	}
	return s.high.close()
}
