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

import "testing"

func TestDeriveAutoSelectsAddressBitsByCPUClass(t *testing.T) {
	cfg := Config{MemSizeMB: 1, CPUClass: CPUPentiumIIPlus}
	d, err := cfg.Derive()
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if d.AddressBits != 36 {
		t.Fatalf("AddressBits = %d, want 36", d.AddressBits)
	}
}

func TestDeriveExplicitMemAliasOverridesCPUClass(t *testing.T) {
	cfg := Config{MemSizeMB: 1, MemAliasBits: 24, CPUClass: CPUPentiumIIPlus}
	d, err := cfg.Derive()
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if d.AddressBits != 24 {
		t.Fatalf("AddressBits = %d, want 24 (explicit override)", d.AddressBits)
	}
}

func TestDeriveRejectsOutOfRangeMemAlias(t *testing.T) {
	cfg := Config{MemSizeMB: 1, MemAliasBits: 41}
	if _, err := cfg.Derive(); err == nil {
		t.Fatal("expected an error for memalias out of [20,40]")
	}
}

func TestDeriveRedirectsRAMAboveFourGBCeilingToFileWindow(t *testing.T) {
	cfg := Config{MemSizeMB: 4096, MemAliasBits: 36}
	d, err := cfg.Derive()
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if d.AboveFourGBPages == 0 {
		t.Fatal("expected some RAM redirected above the 4GiB ceiling")
	}
	if d.ReportedPages != uint32(belowFourGBCeiling/4096) {
		t.Fatalf("ReportedPages = %#x, want the full below-4GiB ceiling", d.ReportedPages)
	}
}

func TestDeriveHandlerPagesClampedToMinimum(t *testing.T) {
	cfg := Config{MemSizeMB: 1, MemAliasBits: 20}
	d, err := cfg.Derive()
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}
	if d.HandlerPages != 0x100 {
		t.Fatalf("HandlerPages = %#x, want the 0x100 minimum", d.HandlerPages)
	}
}

func TestResolveA20ModeKnownAndUnknown(t *testing.T) {
	if _, err := resolveA20Mode("MASK"); err != nil {
		t.Fatalf("resolveA20Mode(MASK): %v", err)
	}
	if _, err := resolveA20Mode("nonsense"); err == nil {
		t.Fatal("expected an error for an unrecognised a20 mode")
	}
}
