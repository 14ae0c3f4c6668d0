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

package hwassign_test

import (
	"testing"

	"github.com/retropc/pcmem/hardware/memory/hwassign"
)

func TestAllocateAlignsToSize(t *testing.T) {
	a := hwassign.New(0x1001) // RAM ends mid-page-boundary-aligned region

	first := a.Allocate(0x1000)
	if first == 0 {
		t.Fatal("expected non-zero assignment")
	}
	if first&(0x1000-1) != 0 {
		t.Fatalf("assignment %#x is not aligned to size", first)
	}

	second := a.Allocate(0x1000)
	if second <= first {
		t.Fatalf("second assignment %#x did not advance past first %#x", second, first)
	}
	if second != first+0x1000 {
		t.Fatalf("got %#x, want %#x", second, first+0x1000)
	}
}

func TestAllocateRejectsNonPowerOfTwo(t *testing.T) {
	a := hwassign.New(0x100)
	if got := a.Allocate(3); got != 0 {
		t.Fatalf("got %#x, want 0 for non-power-of-two size", got)
	}
}

func TestAllocateExhaustsAtCeiling(t *testing.T) {
	a := hwassign.New(0xFDF00)
	if got := a.Allocate(1 << 20); got == 0 {
		t.Fatal("expected an assignment near the ceiling to still succeed")
	}
	if got := a.Allocate(1 << 28); got != 0 {
		t.Fatalf("got %#x, want 0 once past the ceiling", got)
	}
}
