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

//go:build !windows

package backing

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// fileWindow is a shared mmap of a regular file, used as the backing
// store for guest memory above 4GiB.
type fileWindow struct {
	f   *os.File
	mem []byte
}

// openFileWindow creates (if needed) and truncates path to size, then
// maps it MAP_SHARED so writes land on disk the way MemBase's mmap does
// for the below-4GiB case on platforms with C_HAVE_MMAP. Truncating
// rather than writing leaves the file sparse: unallocated pages cost no
// disk space until the guest actually touches them.
func openFileWindow(path string, size int64) (*fileWindow, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, err
	}

	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, fmt.Errorf("truncating to %d bytes: %w", size, err)
	}

	mem, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("mmap: %w", err)
	}

	return &fileWindow{f: f, mem: mem}, nil
}

func (w *fileWindow) close() error {
	if err := unix.Munmap(w.mem); err != nil {
		w.f.Close()
		return err
	}
	return w.f.Close()
}
