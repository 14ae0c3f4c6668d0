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

package reset_test

import (
	"testing"

	"github.com/retropc/pcmem/hardware/memory/reset"
)

func wordsAt(values map[uint64]uint16) func(uint64) uint16 {
	return func(phys uint64) uint16 { return values[phys] }
}

func TestDispatchCustomBIOSIsNoOp(t *testing.T) {
	outcome, redirect := reset.Dispatch(0x09, true, wordsAt(nil))
	if outcome != reset.NoOp || redirect != nil {
		t.Fatalf("got (%v, %v), want (NoOp, nil)", outcome, redirect)
	}
}

func TestDispatchUnknownByteIsFullReset(t *testing.T) {
	outcome, redirect := reset.Dispatch(0x00, false, wordsAt(nil))
	if outcome != reset.FullReset || redirect != nil {
		t.Fatalf("got (%v, %v), want (FullReset, nil)", outcome, redirect)
	}
}

func TestDispatchResetVectorReadsBIOSDataArea(t *testing.T) {
	words := wordsAt(map[uint64]uint16{
		0x467: 0x1234,
		0x469: 0xF000,
	})

	for _, code := range []uint8{reset.ShutdownJumpWithEOI, reset.ShutdownJumpWithoutEOI} {
		outcome, redirect := reset.Dispatch(code, false, words)
		if outcome != reset.Redirected {
			t.Fatalf("code %#x: got %v, want Redirected", code, outcome)
		}
		if redirect.Mode != reset.ModeResetVector {
			t.Fatalf("code %#x: got mode %v, want ModeResetVector", code, redirect.Mode)
		}
		if redirect.CS != 0xF000 || redirect.IP != 0x1234 {
			t.Fatalf("code %#x: got CS:IP %#x:%#x, want F000:1234", code, redirect.CS, redirect.IP)
		}
	}
}

func TestDispatchINT15BlockMoveUsesStackVector(t *testing.T) {
	words := wordsAt(map[uint64]uint16{
		0x467: 0x00F8,
		0x469: 0x0050,
	})

	outcome, redirect := reset.Dispatch(reset.ShutdownINT15BlockMove, false, words)
	if outcome != reset.Redirected {
		t.Fatalf("got %v, want Redirected", outcome)
	}
	if redirect.Mode != reset.ModeINT15BlockMove {
		t.Fatalf("got mode %v, want ModeINT15BlockMove", redirect.Mode)
	}
	if redirect.CS != 0xF000 {
		t.Fatalf("got CS %#x, want F000", redirect.CS)
	}
	if redirect.SS != 0x0050 || redirect.SP != 0x00F8 {
		t.Fatalf("got SS:SP %#x:%#x, want 0050:00F8", redirect.SS, redirect.SP)
	}
}

func TestExecutionRedirectedSatisfiesError(t *testing.T) {
	var err error = &reset.ExecutionRedirected{Mode: reset.ModeResetVector}
	if err.Error() == "" {
		t.Fatal("Error() should not be empty")
	}
}
