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

package memory

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/retropc/pcmem/curated"
	"github.com/retropc/pcmem/hardware/memory/a20"
	"github.com/retropc/pcmem/hardware/memory/memerr"
	"github.com/retropc/pcmem/hardware/memory/memorymap"
)

// CPUClass stands in for the out-of-scope CPU core's model detection,
// used only to auto-select address_bits when Config.MemAliasBits is zero
// (spec.md §6 "Derived sizing rules").
type CPUClass int

// Defined classes, ordered the way the original auto-selection checks
// them (Pentium II+ first).
const (
	CPUOther CPUClass = iota
	CPU286
	CPU386
	CPUPentiumIIPlus
)

func (c CPUClass) defaultAddressBits() uint32 {
	switch c {
	case CPUPentiumIIPlus:
		return 36
	case CPU386:
		return 32
	case CPU286:
		return 24
	default:
		return 20
	}
}

// a20Mode pairs the policy and initial enabled state the original program
// selects for each "a20" configuration value (memory.cpp:
// Init_AddressLimitAndGateMask / A20Gate_TakeUserSetting).
type a20Mode struct {
	policy  a20.Policy
	enabled bool
}

var a20Modes = map[string]a20Mode{
	"mask":     {a20.PolicyMask, true},
	"on":       {a20.PolicyOn, true},
	"off":      {a20.PolicyOff, false},
	"on_fake":  {a20.PolicyOnFake, true},
	"off_fake": {a20.PolicyOffFake, false},
	"fast":     {a20.PolicyFast, false},
}

// belowFourGBCeiling is the address above which configured RAM is
// redirected to the above-4GiB file-backed window instead of being
// clamped away (spec.md §6: "RAM above 0xF8000000 is redirected to the
// above-4 GiB file-backed region").
const belowFourGBCeiling = uint64(0xF8000000)

// Config holds the memory subsystem's configuration surface (spec.md §6),
// one field per key, loaded from a prefs.Group by the caller.
type Config struct {
	// MemSizeMB and MemSizeKB together give total RAM in KiB: MemSizeMB*1024
	// + MemSizeKB ("memsize" is additive with "memsizekb").
	MemSizeMB uint32
	MemSizeKB uint32

	// MemAliasBits is address_bits; 0 selects CPUClass's default.
	MemAliasBits uint32
	CPUClass     CPUClass

	// MemoryFile is the backing file path for above-4GiB RAM; required
	// only if the derived sizing needs an above-4GiB window.
	MemoryFile string

	// A20Mode is one of "mask", "on", "off", "on_fake", "off_fake", "fast".
	A20Mode string

	// EnablePort92 gates whether port 92h bit 0 is allowed to trigger a
	// software CPU reset.
	EnablePort92 bool

	// PCIEnabled selects whether the handler table's slow path and the LFB
	// manager consult the PCI callout bucket.
	PCIEnabled bool

	// StrictISAHole enables the 15MiB-16MiB hole some ISA-only chipsets
	// never decode (memory.cpp: isa_memory_hole_15mb).
	StrictISAHole bool
}

// DerivedSizing is the result of applying spec.md §6's sizing rules to a
// Config.
type DerivedSizing struct {
	AddressBits      uint32
	HandlerPages     uint32
	ReportedPages    uint32
	AboveFourGBPages uint32
}

// Derive computes DerivedSizing from c, or a memerr.ConfigurationRejected
// error if a value is unusable.
func (c Config) Derive() (DerivedSizing, error) {
	addressBits := c.MemAliasBits
	if addressBits == 0 {
		addressBits = c.CPUClass.defaultAddressBits()
	}
	if addressBits < 20 || addressBits > 40 {
		return DerivedSizing{}, curated.Errorf(memerr.ConfigurationRejected, "memalias out of range [20,40]")
	}

	totalKB := uint64(c.MemSizeMB)*1024 + uint64(c.MemSizeKB)
	if totalKB == 0 {
		return DerivedSizing{}, curated.Errorf(memerr.ConfigurationRejected, "memsizekb resolves to zero")
	}
	totalBytes := totalKB * 1024

	// reserve the top of the addressable range for BIOS/MMIO.
	var reserve uint64
	switch {
	case addressBits <= 20:
		reserve = 64 * 1024
	case addressBits <= 24:
		reserve = 1024 * 1024
	default:
		reserve = 64 * 1024 * 1024
	}
	ceiling := (uint64(1) << addressBits) - reserve
	if totalBytes > ceiling {
		totalBytes = ceiling
	}

	// 32-bit hosts cap total RAM at 1GiB, 64-bit hosts at 1TiB.
	var buildCap uint64 = 1 << 40
	if bits.UintSize == 32 {
		buildCap = 1 << 30
	}
	if totalBytes > buildCap {
		totalBytes = buildCap
	}

	var reportedPages, aboveFourGBPages uint32
	if totalBytes > belowFourGBCeiling {
		reportedPages = uint32(belowFourGBCeiling / memorymap.PageSize)
		aboveFourGBPages = uint32((totalBytes - belowFourGBCeiling) / memorymap.PageSize)
	} else {
		reportedPages = uint32(totalBytes / memorymap.PageSize)
	}

	pageMask := uint32((uint64(1)<<uint64(addressBits) - 1) >> memorymap.PageShift)
	handlerPages := pageMask + 1
	if handlerPages < memorymap.MinHandlerPages {
		handlerPages = memorymap.MinHandlerPages
	}
	if handlerPages > memorymap.MaxHandlerPages {
		handlerPages = memorymap.MaxHandlerPages
	}

	return DerivedSizing{
		AddressBits:      addressBits,
		HandlerPages:     handlerPages,
		ReportedPages:    reportedPages,
		AboveFourGBPages: aboveFourGBPages,
	}, nil
}

// resolveA20Mode looks up the policy and initial enabled state for a
// config "a20" value.
func resolveA20Mode(mode string) (a20Mode, error) {
	m, ok := a20Modes[strings.ToLower(strings.TrimSpace(mode))]
	if !ok {
		return a20Mode{}, curated.Errorf(memerr.ConfigurationRejected, fmt.Sprintf("unrecognised a20 mode %q", mode))
	}
	return m, nil
}
