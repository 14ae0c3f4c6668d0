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

//go:build windows

package backing

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

const fsctlSetSparse = 0x000900C4

// fileWindow is a Windows file mapping used as the backing store for
// guest memory above 4GiB.
type fileWindow struct {
	handle windows.Handle
	mapping windows.Handle
	mem    []byte
}

// openFileWindow creates (or opens) path, marks it sparse so unallocated
// pages cost no disk space, extends it to size, and maps it for shared
// read/write access (memory.cpp: alloc_mem_file's Windows branch, using
// FSCTL_SET_SPARSE and MapViewOfFile).
func openFileWindow(path string, size int64) (*fileWindow, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}

	handle, err := windows.CreateFile(p,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE,
		nil, windows.OPEN_ALWAYS, windows.FILE_ATTRIBUTE_NORMAL, 0)
	if err != nil {
		return nil, fmt.Errorf("CreateFile: %w", err)
	}

	var bytesReturned uint32
	_ = windows.DeviceIoControl(handle, fsctlSetSparse, nil, 0, nil, 0, &bytesReturned, nil)

	if _, err := windows.SetFilePointer(handle, 0, nil, windows.FILE_BEGIN); err != nil {
		windows.CloseHandle(handle)
		return nil, fmt.Errorf("SetFilePointer: %w", err)
	}
	if err := windows.SetEndOfFile(handle); err != nil {
		windows.CloseHandle(handle)
		return nil, fmt.Errorf("SetEndOfFile (truncate to 0): %w", err)
	}

	hi := int32(size >> 32)
	if _, err := windows.SetFilePointer(handle, int32(size), &hi, windows.FILE_BEGIN); err != nil {
		windows.CloseHandle(handle)
		return nil, fmt.Errorf("SetFilePointer (extend): %w", err)
	}
	if err := windows.SetEndOfFile(handle); err != nil {
		windows.CloseHandle(handle)
		return nil, fmt.Errorf("SetEndOfFile (extend): %w", err)
	}

	mapping, err := windows.CreateFileMapping(handle, nil, windows.PAGE_READWRITE,
		uint32(size>>32), uint32(size), nil)
	if err != nil {
		windows.CloseHandle(handle)
		return nil, fmt.Errorf("CreateFileMapping: %w", err)
	}

	addr, err := windows.MapViewOfFile(mapping, windows.FILE_MAP_ALL_ACCESS, 0, 0, uintptr(size))
	if err != nil {
		windows.CloseHandle(mapping)
		windows.CloseHandle(handle)
		return nil, fmt.Errorf("MapViewOfFile: %w", err)
	}

	mem := unsafe.Slice((*byte)(unsafe.Pointer(addr)), int(size))
	return &fileWindow{handle: handle, mapping: mapping, mem: mem}, nil
}

func (w *fileWindow) close() error {
	if err := windows.UnmapViewOfFile(uintptr(unsafe.Pointer(&w.mem[0]))); err != nil {
		return err
	}
	if err := windows.CloseHandle(w.mapping); err != nil {
		return err
	}
	return windows.CloseHandle(w.handle)
}
