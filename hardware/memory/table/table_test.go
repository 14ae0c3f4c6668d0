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

package table_test

import (
	"testing"

	"github.com/retropc/pcmem/hardware/instance"
	"github.com/retropc/pcmem/hardware/memory/callout"
	"github.com/retropc/pcmem/hardware/memory/handlers"
	"github.com/retropc/pcmem/hardware/memory/memorymap"
	"github.com/retropc/pcmem/hardware/memory/table"
)

func TestResolveFallsBackToUnmapped(t *testing.T) {
	inst := instance.New(instance.Main, nil, nil)
	reg := callout.New()
	tbl := table.New(inst, 0x1000, 0x1000, reg, false)

	h := tbl.Resolve(0x12345)
	if _, ok := h.(*handlers.Unmapped); !ok {
		t.Fatalf("expected Unmapped for a page with no handler, got %T", h)
	}
}

func TestResolveBeyondHandlerPagesIsIllegal(t *testing.T) {
	inst := instance.New(instance.Main, nil, nil)
	reg := callout.New()
	tbl := table.New(inst, 0x100, 0x100, reg, false)

	h := tbl.Resolve(memorymap.Addr(0x200))
	if _, ok := h.(*handlers.Illegal); !ok {
		t.Fatalf("expected Illegal beyond the handler table, got %T", h)
	}
}

func TestSlowPathCachesSingleCalloutMatch(t *testing.T) {
	inst := instance.New(instance.Main, nil, nil)
	reg := callout.New()
	hdl, _ := reg.Allocate(callout.ISA)
	ram := handlers.NewRAM(make([]byte, memorymap.PageSize), constMask{})
	reg.Install(hdl, 0x300, 0xFFF, func(uint32) (handlers.PageHandler, bool) { return ram, true })

	tbl := table.New(inst, 0x1000, 0x1000, reg, false)
	first := tbl.Resolve(memorymap.Addr(0x300))
	if first != handlers.PageHandler(ram) {
		t.Fatalf("expected ram handler, got %T", first)
	}

	// uninstall the callout: since the first answer should have been
	// cached, a second resolve must still return the stale cached handler
	// rather than re-running the slow path.
	reg.Uninstall(hdl)
	second := tbl.Resolve(memorymap.Addr(0x300))
	if second != handlers.PageHandler(ram) {
		t.Fatalf("expected cached ram handler to survive uninstall, got %T", second)
	}
}

func TestInvalidateForcesSlowPathRerun(t *testing.T) {
	inst := instance.New(instance.Main, nil, nil)
	reg := callout.New()
	hdl, _ := reg.Allocate(callout.ISA)
	ram := handlers.NewRAM(make([]byte, memorymap.PageSize), constMask{})
	reg.Install(hdl, 0x300, 0xFFF, func(uint32) (handlers.PageHandler, bool) { return ram, true })

	tbl := table.New(inst, 0x1000, 0x1000, reg, false)
	tbl.Resolve(memorymap.Addr(0x300))

	reg.Uninstall(hdl)
	tbl.Invalidate(0x300, 1)

	third := tbl.Resolve(memorymap.Addr(0x300))
	if _, ok := third.(*handlers.Unmapped); !ok {
		t.Fatalf("expected Unmapped after invalidate + uninstall, got %T", third)
	}
}

func TestResolveDispatchesAboveFourGBToInstalledHandler(t *testing.T) {
	inst := instance.New(instance.Main, nil, nil)
	reg := callout.New()
	tbl := table.New(inst, 0x100, 0x100, reg, false)

	above := handlers.NewFileWindow(make([]byte, memorymap.PageSize))
	tbl.SetAboveFourGBHandler(above)

	phys := memorymap.Addr(memorymap.FourGB)
	if h := tbl.Resolve(phys); h != handlers.PageHandler(above) {
		t.Fatalf("expected the above-4GiB handler at the 4GiB boundary, got %T", h)
	}
}

func TestResolveAboveFourGBWithoutHandlerIsIllegal(t *testing.T) {
	inst := instance.New(instance.Main, nil, nil)
	reg := callout.New()
	tbl := table.New(inst, 0x100, 0x100, reg, false)

	phys := memorymap.Addr(memorymap.FourGB)
	if _, ok := tbl.Resolve(phys).(*handlers.Illegal); !ok {
		t.Fatal("expected Illegal above 4GiB with no handler installed")
	}
}

type constMask struct{}

func (constMask) Mask(page uint32) uint32 { return page }
