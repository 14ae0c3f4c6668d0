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

package curated_test

import (
	"testing"

	"github.com/retropc/pcmem/curated"
)

const patternA = "pcmem: out of range: %d"

func TestIsAndHas(t *testing.T) {
	a := curated.Errorf(patternA, 40)
	b := curated.Errorf("fatal: %v", a)

	if !curated.Is(a, patternA) {
		t.Fatalf("expected Is(a, patternA) to be true")
	}
	if curated.Is(b, patternA) {
		t.Fatalf("expected Is(b, patternA) to be false, pattern is wrapped")
	}
	if !curated.Has(b, patternA) {
		t.Fatalf("expected Has(b, patternA) to be true")
	}
	if !curated.IsAny(a) {
		t.Fatalf("expected IsAny(a) to be true")
	}
	if curated.IsAny(nil) {
		t.Fatalf("expected IsAny(nil) to be false")
	}
}

func TestNormalisation(t *testing.T) {
	c := curated.Errorf("not yet implemented")
	b := curated.Errorf("error: %v", c)

	if got, want := b.Error(), "error: not yet implemented"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}

	a := curated.Errorf("error: %v", b)
	if got, want := a.Error(), "error: not yet implemented"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
