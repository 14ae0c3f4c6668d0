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

// Command pcmemdemo builds a memory subsystem from memory.prefs, with the
// memsize, memalias, a20 and enable-port92 flags always overriding the
// file's values, and exercises it enough to show the
// pieces fitting together: RAM read/write through BlockIO, the A20GATE
// and REDOS built-ins, a software CPU reset, and a save-state round trip.
// It is not a PC emulator; it is a harness for this one subsystem.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/retropc/pcmem/hardware/memory"
	"github.com/retropc/pcmem/hardware/memory/memorymap"
	"github.com/retropc/pcmem/hardware/memory/reset"
	"github.com/retropc/pcmem/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	memSizeMB := flag.Int("memsize", 16, "guest RAM in MiB")
	memAlias := flag.Uint("memalias", 0, "address_bits (0 selects the default for the Pentium II-class CPU this demo configures)")
	a20Mode := flag.String("a20", "mask", "a20 gate mode: mask, on, off, on_fake, off_fake, fast")
	enablePort92 := flag.Bool("enable-port92", true, "allow port 92h bit 0 to trigger a software reset")
	save := flag.Bool("save-prefs", false, "write the memory.prefs values loaded at startup back on exit (flag values are not saved)")
	flag.Parse()

	cg, err := memory.NewConfigGroup()
	if err != nil {
		return fmt.Errorf("pcmem: loading configuration group: %w", err)
	}
	cfg, err := cg.Load(memory.CPUPentiumIIPlus, false, false)
	if err != nil {
		return fmt.Errorf("pcmem: loading memory.prefs: %w", err)
	}

	cfg.MemSizeMB = uint32(*memSizeMB)
	cfg.MemAliasBits = uint32(*memAlias)
	cfg.A20Mode = *a20Mode
	cfg.EnablePort92 = *enablePort92

	log := logger.New(256)
	log.SetEcho(os.Stdout)

	sub, err := memory.NewSubsystem(cfg, log, nil)
	if err != nil {
		return fmt.Errorf("pcmem: building memory subsystem: %w", err)
	}
	defer sub.Close()

	sizing := sub.Sizing()
	fmt.Printf("address_bits=%d handler_pages=%#x reported_pages=%#x above_4gib_pages=%#x\n",
		sizing.AddressBits, sizing.HandlerPages, sizing.ReportedPages, sizing.AboveFourGBPages)

	demoRAMRoundTrip(sub)
	demoA20Builtin(sub)
	demoRedosBuiltin(sub)
	demoSoftwareReset(sub)
	demoSaveState(sub)

	if *save {
		if err := cg.Save(); err != nil {
			return fmt.Errorf("pcmem: saving memory.prefs: %w", err)
		}
	}
	return nil
}

func demoRAMRoundTrip(sub *memory.Subsystem) {
	io := sub.BlockIO()
	io.BlockWrite(0, []byte("pcmem"))
	got := make([]byte, 5)
	io.BlockRead(0, got)
	fmt.Printf("RAM round trip at 0x00000000: %q\n", got)
}

func demoA20Builtin(sub *memory.Subsystem) {
	out, err := sub.A20Gate(nil)
	if err != nil {
		fmt.Printf("A20GATE: %v\n", err)
		return
	}
	fmt.Print(out)
}

func demoRedosBuiltin(sub *memory.Subsystem) {
	out, err := sub.Redos()
	fmt.Print(out)
	if err != nil {
		fmt.Printf("REDOS signalled: %v\n", err)
	}
}

func demoSoftwareReset(sub *memory.Subsystem) {
	sub.SetShutdownByte(reset.ShutdownJumpWithEOI)
	outcome, redirect := sub.Reset()
	switch outcome {
	case reset.FullReset:
		fmt.Println("software reset: full reset requested")
	case reset.Redirected:
		fmt.Printf("software reset: redirected to %04x:%04x\n", redirect.CS, redirect.IP)
	case reset.NoOp:
		fmt.Println("software reset: no-op (custom BIOS)")
	}
}

func demoSaveState(sub *memory.Subsystem) {
	io := sub.BlockIO()
	io.BlockWrite(memorymap.PageSize, []byte{0x11, 0x22, 0x33})

	state := sub.Capture()

	io.BlockWrite(memorymap.PageSize, []byte{0x00, 0x00, 0x00})
	sub.Restore(state)

	got := make([]byte, 3)
	io.BlockRead(memorymap.PageSize, got)
	fmt.Printf("save state round trip at page 1: % x\n", got)
}

