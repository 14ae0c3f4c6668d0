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

package blockio_test

import (
	"bytes"
	"testing"

	"github.com/retropc/pcmem/hardware/memory/blockio"
	"github.com/retropc/pcmem/hardware/memory/handlers"
	"github.com/retropc/pcmem/hardware/memory/memorymap"
)

type noMask struct{}

func (noMask) Mask(page uint32) uint32 { return page }

type flatResolver struct {
	h handlers.PageHandler
}

func (f flatResolver) Resolve(uint64) handlers.PageHandler { return f.h }

func TestBlockWriteReadRoundTrip(t *testing.T) {
	mem := make([]byte, 4*memorymap.PageSize)
	ram := handlers.NewRAM(mem, noMask{})
	io := blockio.New(flatResolver{ram})

	payload := []byte("hello, guest memory")
	io.BlockWrite(0x1000, payload)

	out := make([]byte, len(payload))
	io.BlockRead(0x1000, out)
	if !bytes.Equal(out, payload) {
		t.Fatalf("round trip mismatch: got %q, want %q", out, payload)
	}
}

func TestBlockWriteCrossesPageBoundary(t *testing.T) {
	mem := make([]byte, 4*memorymap.PageSize)
	ram := handlers.NewRAM(mem, noMask{})
	io := blockio.New(flatResolver{ram})

	payload := make([]byte, 16)
	for i := range payload {
		payload[i] = byte(i)
	}
	start := uint64(memorymap.PageSize - 8)
	io.BlockWrite(start, payload)

	out := make([]byte, 16)
	io.BlockRead(start, out)
	if !bytes.Equal(out, payload) {
		t.Fatalf("cross-page round trip mismatch: got %v, want %v", out, payload)
	}
}

func TestStrCopyStopsAtNUL(t *testing.T) {
	mem := make([]byte, memorymap.PageSize)
	copy(mem, "abc\x00def")
	ram := handlers.NewRAM(mem, noMask{})
	io := blockio.New(flatResolver{ram})

	s := io.StrCopy(0, 16)
	if string(s) != "abc" {
		t.Fatalf("StrCopy = %q, want %q", s, "abc")
	}
}
