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

package handlers_test

import (
	"strings"
	"testing"

	"github.com/retropc/pcmem/hardware/memory/handlers"
	"github.com/retropc/pcmem/hardware/memory/memorymap"
	"github.com/retropc/pcmem/logger"
)

type noMask struct{}

func (noMask) Mask(page uint32) uint32 { return page }

func TestUnmappedReturnsFF(t *testing.T) {
	u := handlers.NewUnmapped()
	if got := u.Read8(0x1234); got != 0xFF {
		t.Fatalf("unmapped read = %#x, want 0xFF", got)
	}
	u.Write8(0x1234, 0x42) // must not panic
}

func TestIllegalRateLimited(t *testing.T) {
	log := logger.New(64)
	h := handlers.NewIllegal(log)
	for i := 0; i < 2000; i++ {
		h.Read8(uint64(i))
	}
	// the rate limit must have stopped growth well short of 2000 distinct
	// entries: the last access accepted is the 1000th, at address 0x3e7.
	if log == nil {
		t.Fatal("unexpected nil log")
	}
	var sb strings.Builder
	log.Write(&sb)
	out := sb.String()
	if !strings.Contains(out, "address 0x3e7") || strings.Contains(out, "address 0x3e8") {
		t.Fatalf("expected logging to stop after the access at 0x3e7, got %q", out)
	}
}

func TestRAMReadWriteRoundTrip(t *testing.T) {
	mem := make([]byte, 4*memorymap.PageSize)
	ram := handlers.NewRAM(mem, noMask{})

	ram.Write8(0x2000, 0xAB)
	if got := ram.Read8(0x2000); got != 0xAB {
		t.Fatalf("RAM read = %#x, want 0xAB", got)
	}

	ram.Write32(0x3000, 0xDEADBEEF)
	if got := ram.Read32(0x3000); got != 0xDEADBEEF {
		t.Fatalf("RAM 32-bit round trip = %#x, want 0xDEADBEEF", got)
	}
}

func TestROMRejectsWrites(t *testing.T) {
	mem := make([]byte, 2*memorymap.PageSize)
	mem[0] = 0x55
	rom := handlers.NewROM(mem, noMask{}, logger.New(16), 0, 0)

	if got := rom.Read8(0); got != 0x55 {
		t.Fatalf("ROM read = %#x, want 0x55", got)
	}
	rom.Write8(0, 0x99)
	if got := rom.Read8(0); got != 0x55 {
		t.Fatalf("ROM write must be rejected, got %#x after write", got)
	}
}

func TestROMAliasRemapsToLastPages(t *testing.T) {
	mem := make([]byte, 0x100*memorymap.PageSize)
	mem[0xF3*memorymap.PageSize] = 0x77
	alias := handlers.NewROMAlias(mem)

	addr := uint64(0x03) * memorymap.PageSize
	if got := alias.Read8(addr); got != 0x77 {
		t.Fatalf("ROM alias page 3 should read from page 0xF3, got %#x", got)
	}
}
