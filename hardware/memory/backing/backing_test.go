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

package backing_test

import (
	"path/filepath"
	"testing"

	"github.com/retropc/pcmem/hardware/memory/backing"
)

func TestNewWithoutAboveFourGBOmitsHighWindow(t *testing.T) {
	s, err := backing.New(0x1000, 0, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer s.Close()

	if len(s.Low()) != 0x1000*4096 {
		t.Fatalf("got low region of %d bytes, want %d", len(s.Low()), 0x1000*4096)
	}
	if _, ok := s.High(); ok {
		t.Fatal("expected no above-4GiB window")
	}
}

func TestNewRequiresPathForAboveFourGB(t *testing.T) {
	if _, err := backing.New(0x1000, 0x100, ""); err == nil {
		t.Fatal("expected an error when above-4GiB pages are requested without a path")
	}
}

func TestNewMapsAndPersistsAboveFourGBWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "above4gb.bin")

	s, err := backing.New(0x10, 4, path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	high, ok := s.High()
	if !ok {
		t.Fatal("expected an above-4GiB window")
	}
	if len(high) != 4*4096 {
		t.Fatalf("got %d bytes, want %d", len(high), 4*4096)
	}

	high[0] = 0xAB
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := backing.New(0x10, 4, path)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	defer s2.Close()

	high2, _ := s2.High()
	if high2[0] != 0xAB {
		t.Fatalf("got %#x, want the byte written before Close to have persisted", high2[0])
	}
}
