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

package builtins_test

import (
	"strings"
	"testing"

	"github.com/retropc/pcmem/curated"
	"github.com/retropc/pcmem/hardware/memory/a20"
	"github.com/retropc/pcmem/hardware/memory/builtins"
)

func TestA20GateNoArgsReportsState(t *testing.T) {
	gate := a20.New(24, a20.PolicyOn, nil)
	out, err := builtins.A20Gate(gate, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "currently ON") {
		t.Fatalf("got %q, want a report of the current state", out)
	}
}

func TestA20GateOnOff(t *testing.T) {
	gate := a20.New(24, a20.PolicyMask, nil)

	if _, err := builtins.A20Gate(gate, []string{"OFF"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gate.Enabled() {
		t.Fatal("OFF should disable the gate")
	}

	if _, err := builtins.A20Gate(gate, []string{"on"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !gate.Enabled() {
		t.Fatal("ON should enable the gate")
	}
}

func TestA20GateSetFast(t *testing.T) {
	gate := a20.New(24, a20.PolicyOn, nil)

	out, err := builtins.A20Gate(gate, []string{"SET", "fast"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gate.Policy() != a20.PolicyFast {
		t.Fatalf("got policy %+v, want PolicyFast", gate.Policy())
	}
	if !strings.Contains(out, "fast mode") {
		t.Fatalf("got %q, want a fast-mode confirmation", out)
	}
}

func TestA20GateUnknownSetting(t *testing.T) {
	gate := a20.New(24, a20.PolicyOn, nil)
	out, err := builtins.A20Gate(gate, []string{"bogus"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Unknown setting") {
		t.Fatalf("got %q, want an unknown-setting message", out)
	}
}

func TestRedosSignalsRestart(t *testing.T) {
	_, err := builtins.Redos()
	if !curated.Is(err, builtins.RedosRequested) {
		t.Fatalf("got %v, want the RedosRequested pattern", err)
	}
}
