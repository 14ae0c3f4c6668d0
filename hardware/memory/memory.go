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

// Package memory is the guest physical memory subsystem: it wires
// together the handler table, the callout registry, the EMS/XMS
// allocator, the A20 gate, the linear framebuffer manager, block I/O, and
// the backing store into one Subsystem, the single object the rest of the
// emulator talks to (spec.md overview).
//
// Grounded on _examples/JetSetIlly-Gopher2600/hardware/memory/vcs.go
// (VCSMemory: a monolithic orchestrator built once at construction,
// presenting Read/Write to the CPU while each sub-area is privately
// owned) and on _examples/original_source/src/hardware/memory.cpp
// (MEM_Init, the single global "memory" struct it populates).
package memory

import (
	"github.com/retropc/pcmem/hardware/instance"
	"github.com/retropc/pcmem/hardware/memory/a20"
	"github.com/retropc/pcmem/hardware/memory/alloc"
	"github.com/retropc/pcmem/hardware/memory/backing"
	"github.com/retropc/pcmem/hardware/memory/blockio"
	"github.com/retropc/pcmem/hardware/memory/builtins"
	"github.com/retropc/pcmem/hardware/memory/callout"
	"github.com/retropc/pcmem/hardware/memory/handlers"
	"github.com/retropc/pcmem/hardware/memory/hwassign"
	"github.com/retropc/pcmem/hardware/memory/lfb"
	"github.com/retropc/pcmem/hardware/memory/memorymap"
	"github.com/retropc/pcmem/hardware/memory/reset"
	"github.com/retropc/pcmem/hardware/memory/savestate"
	"github.com/retropc/pcmem/hardware/memory/table"
	"github.com/retropc/pcmem/logger"
)

// TLBFlusher is supplied by whatever CPU core sits in front of the
// subsystem; FlushTLB is called at least once between any mutation of the
// handler table, A20 mask, or LFB mapping and the next guest memory
// access (spec.md §5). A Subsystem built without one gets a no-op,
// suitable for headless use and tests.
type TLBFlusher interface {
	FlushTLB()
}

type noopFlusher struct{}

func (noopFlusher) FlushTLB() {}

// Subsystem is the whole guest physical memory model for one running
// machine.
type Subsystem struct {
	inst   *instance.Instance
	cfg    Config
	sizing DerivedSizing

	store    *backing.Store
	gate     *a20.Gate
	registry *callout.Registry
	table    *table.Table
	alloc    *alloc.Allocator
	lfb      *lfb.Manager
	io       *blockio.IO
	hw       *hwassign.Assigner

	ram      *handlers.RAM
	rom      *handlers.ROM
	romAlias *handlers.ROMAlias
	vga      [16]handlers.PageHandler
	snapReg  *savestate.Registry

	acpi             *handlers.ACPI
	acpiFirst, acpiLast uint32

	shutdownByte uint8
	customBIOS   bool
	dosActive    bool
}

// NewSubsystem builds a Subsystem from cfg. log receives every diagnostic
// message the subsystem logs (a nil log gets a private ring buffer); flush
// is invoked on every TLB-invalidating mutation (a nil flush is replaced
// with a no-op).
func NewSubsystem(cfg Config, log *logger.Log, flush TLBFlusher) (*Subsystem, error) {
	sizing, err := cfg.Derive()
	if err != nil {
		return nil, err
	}

	if flush == nil {
		flush = noopFlusher{}
	}
	inst := instance.New(instance.Main, log, flush.FlushTLB)

	store, err := backing.New(sizing.ReportedPages, sizing.AboveFourGBPages, cfg.MemoryFile)
	if err != nil {
		return nil, err
	}

	mode, err := resolveA20Mode(cfg.A20Mode)
	if err != nil {
		return nil, err
	}
	gate := a20.New(sizing.AddressBits, mode.policy, inst.FlushTLB)
	gate.SetPolicy(mode.policy, mode.enabled)

	registry := callout.New()
	tbl := table.New(inst, sizing.HandlerPages, sizing.ReportedPages, registry, cfg.PCIEnabled)
	if cfg.StrictISAHole {
		tbl.EnableISAHole(memorymap.ISAHoleStart, memorymap.ISAHoleEnd)
	}

	ram := handlers.NewRAM(store.Low(), gate)
	tbl.SetRAMHandler(ram)
	tbl.SetStatic(0, sizing.ReportedPages, ram)

	if high, ok := store.High(); ok {
		tbl.SetAboveFourGBHandler(handlers.NewFileWindow(high))
	}

	s := &Subsystem{
		inst:     inst,
		cfg:      cfg,
		sizing:   sizing,
		store:    store,
		gate:     gate,
		registry: registry,
		table:    tbl,
		alloc:    alloc.New(sizing.ReportedPages),
		lfb:      lfb.New(inst, registry, tbl, cfg.PCIEnabled),
		io:       blockio.New(tbl),
		hw:       hwassign.New(sizing.ReportedPages),
		ram:      ram,
	}
	s.rebuildSnapshotRegistry()
	return s, nil
}

// rebuildSnapshotRegistry refreshes the savestate.Registry after any of
// the well-known handlers (ROM, ROM alias, VGA slots) changes identity.
func (s *Subsystem) rebuildSnapshotRegistry() {
	var romAlias handlers.PageHandler
	if s.romAlias != nil {
		romAlias = s.romAlias
	}
	var rom handlers.PageHandler
	if s.rom != nil {
		rom = s.rom
	}
	s.snapReg = savestate.NewRegistry(s.ram, rom, romAlias, s.vga)
}

// Sizing returns the derived address-space sizing this Subsystem was
// built with.
func (s *Subsystem) Sizing() DerivedSizing { return s.sizing }

// Table returns the handler table, for callers (the CPU core, debuggers)
// that need to resolve an address directly rather than through BlockIO.
func (s *Subsystem) Table() *table.Table { return s.table }

// Allocator returns the EMS/XMS extended-memory allocator.
func (s *Subsystem) Allocator() *alloc.Allocator { return s.alloc }

// Callouts returns the device callout registry, for device drivers that
// install their own handlers at their own addresses.
func (s *Subsystem) Callouts() *callout.Registry { return s.registry }

// A20 returns the A20 gate.
func (s *Subsystem) A20() *a20.Gate { return s.gate }

// BlockIO returns the block I/O helper (BlockRead/BlockWrite/BlockCopy/
// StrCopy).
func (s *Subsystem) BlockIO() *blockio.IO { return s.io }

// HardwareAssign reserves a naturally-aligned, power-of-two MMIO window
// of size bytes above the end of installed RAM (spec.md §4.9). It returns
// 0 if size is invalid or no room remains.
func (s *Subsystem) HardwareAssign(size uint32) uint32 {
	addr := s.hw.Allocate(size)
	if addr == 0 {
		s.inst.Log.Logf("pcmem: hardware assignment", "pcmem: hardware MMIO assignment of %d bytes failed", size)
	}
	return addr
}

// SetLFB installs or clears the linear framebuffer and its companion MMIO
// window.
func (s *Subsystem) SetLFB(page, pages uint32, handler handlers.PageHandler, mmioPage, mmioPages uint32, mmioHandler handlers.PageHandler) bool {
	return s.lfb.Set(page, pages, handler, mmioPage, mmioPages, mmioHandler)
}

// SetGlidePassthrough installs the fixed 3dfx Voodoo passthrough window
// ahead of the handler table's cache and callouts (spec.md §4.2 step 2).
// Passing a nil handler disables it again.
func (s *Subsystem) SetGlidePassthrough(page, pages uint32, handler handlers.PageHandler) {
	s.table.SetGlidePassthrough(page, pages, handler)
	s.inst.FlushTLB()
}

// SetVGAHandler installs the handler responsible for VGA slot n (n in
// [0,16)), used both to map 0xA0000-0xBFFFF and to give save-state a
// stable identity for it.
func (s *Subsystem) SetVGAHandler(n int, handler handlers.PageHandler) {
	s.vga[n] = handler
	s.rebuildSnapshotRegistry()
}

// SetROMIdentity records region as the canonical system BIOS ROM handler
// for save-state purposes; it does not itself install region anywhere —
// callers map it with MapROMPhysmem first.
func (s *Subsystem) SetROMIdentity(region *handlers.ROM) {
	s.rom = region
	s.rebuildSnapshotRegistry()
}

// SetROMAliasIdentity records region as the canonical ROM-alias handler
// for save-state purposes; like SetROMIdentity, mapping it is a separate
// step via MapROMAliasPhysmem.
func (s *Subsystem) SetROMAliasIdentity(region *handlers.ROMAlias) {
	s.romAlias = region
	s.rebuildSnapshotRegistry()
}

// SetCustomBIOS records whether a BIOS image claims responsibility for
// its own reset handling (spec.md §4.8).
func (s *Subsystem) SetCustomBIOS(v bool) { s.customBIOS = v }

// SetShutdownByte records the CMOS shutdown byte (offset 0x0F) the next
// Reset call will decode.
func (s *Subsystem) SetShutdownByte(b uint8) { s.shutdownByte = b }

// SetDOSActive records whether the DOS kernel owning the EMS/XMS handle
// chain is currently loaded; it gates whether Capture records that chain
// or zeroes it out (spec.md §6 "Save state").
func (s *Subsystem) SetDOSActive(v bool) { s.dosActive = v }

func (s *Subsystem) readWord(phys uint64) uint16 {
	var buf [2]byte
	s.io.BlockRead(phys, buf[:])
	return uint16(buf[0]) | uint16(buf[1])<<8
}

// Reset dispatches a software CPU reset using the last-recorded shutdown
// byte (spec.md §4.8). The CPU core checks the returned
// *reset.ExecutionRedirected and, if non-nil, performs the described
// non-local jump instead of continuing normal decode.
func (s *Subsystem) Reset() (reset.Outcome, *reset.ExecutionRedirected) {
	return reset.Dispatch(s.shutdownByte, s.customBIOS, s.readWord)
}

// ReadPort92 returns the current state of I/O port 92h: bit 1 mirrors the
// A20 gate, the remaining bits (bit 0 included) are whatever was last
// latched by WritePort92.
func (s *Subsystem) ReadPort92() uint8 {
	v := s.gate.ControlPort()
	if s.gate.Enabled() {
		v |= 0x02
	}
	return v
}

// WritePort92 applies a guest write to I/O port 92h: bit 1 sets the A20
// gate (subject to the gate's policy), bit 0 triggers a software CPU
// reset if Config.EnablePort92 allows it.
func (s *Subsystem) WritePort92(v uint8) (reset.Outcome, *reset.ExecutionRedirected) {
	s.gate.SetControlPort(v)
	s.gate.Enable(v&0x02 != 0)
	if v&0x01 != 0 && s.cfg.EnablePort92 {
		return s.Reset()
	}
	return reset.NoOp, nil
}

// A20Gate runs the A20GATE.COM built-in command.
func (s *Subsystem) A20Gate(args []string) (string, error) {
	return builtins.A20Gate(s.gate, args)
}

// Redos runs the REDOS built-in command.
func (s *Subsystem) Redos() (string, error) {
	return builtins.Redos()
}

// Capture snapshots the subsystem's mutable state: RAM, the allocator's
// handle chain (or zeros, if DOS isn't active), and a per-page
// handler-identity index.
func (s *Subsystem) Capture() *savestate.State {
	return savestate.Capture(s.store.Low(), s.alloc.Handles(), s.dosActive, s.table, s.snapReg)
}

// Restore plumbs a previously captured State back into the live
// subsystem.
func (s *Subsystem) Restore(state *savestate.State) {
	handles := s.alloc.Handles()
	savestate.Restore(state, s.store.Low(), handles, s.table, s.snapReg)
	s.alloc.SetHandles(handles)
}

// Close releases any host resources the Subsystem holds open, currently
// just the above-4GiB backing file mapping, if one exists.
func (s *Subsystem) Close() error {
	return s.store.Close()
}
