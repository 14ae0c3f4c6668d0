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

package prefs_test

import (
	"path/filepath"
	"testing"

	"github.com/retropc/pcmem/prefs"
)

func TestGroupSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "pcmem.pref")

	memsize := prefs.NewInt(16)
	a20 := prefs.NewString("mask")
	port92 := prefs.NewBool(true)

	g := prefs.NewDisk(path)
	if err := g.Add("memsize", memsize); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Add("a20", a20); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Add("enable port 92", port92); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	memsize.Set(64)
	a20.Set("fast")
	port92.Set(false)

	if err := g.Save(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	memsize2 := prefs.NewInt(16)
	a202 := prefs.NewString("mask")
	port922 := prefs.NewBool(true)

	g2 := prefs.NewDisk(path)
	g2.Add("memsize", memsize2)
	g2.Add("a20", a202)
	g2.Add("enable port 92", port922)

	if err := g2.Load(true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if memsize2.Get() != 64 {
		t.Fatalf("memsize = %v, want 64", memsize2.Get())
	}
	if a202.Get() != "fast" {
		t.Fatalf("a20 = %v, want fast", a202.Get())
	}
	if port922.Get() != false {
		t.Fatalf("enable port 92 = %v, want false", port922.Get())
	}
}

func TestGroupLoadMissingFileIgnored(t *testing.T) {
	g := prefs.NewDisk(filepath.Join(t.TempDir(), "does-not-exist.pref"))
	if err := g.Load(true); err != nil {
		t.Fatalf("unexpected error for missing file: %v", err)
	}
}
