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

package memorymap_test

import (
	"testing"

	"github.com/retropc/pcmem/hardware/memory/memorymap"
)

func TestPageAddrRoundTrip(t *testing.T) {
	for _, page := range []uint32{0, 1, 0xF0, 0x100000, 0xFFFFF} {
		addr := memorymap.Addr(page)
		if got := memorymap.Page(addr); got != page {
			t.Fatalf("round trip failed: page %x -> addr %x -> page %x", page, addr, got)
		}
	}
}

func TestNextPowerOfTwo(t *testing.T) {
	cases := map[uint32]uint32{
		0:    1,
		1:    1,
		2:    2,
		3:    4,
		1023: 1024,
		1024: 1024,
	}
	for in, want := range cases {
		if got := memorymap.NextPowerOfTwo(in); got != want {
			t.Fatalf("NextPowerOfTwo(%d) = %d, want %d", in, got, want)
		}
	}
}
