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

package a20_test

import (
	"testing"

	"github.com/retropc/pcmem/hardware/memory/a20"
)

func TestOnPolicyIgnoresGuestWrites(t *testing.T) {
	g := a20.New(24, a20.PolicyOn, nil)
	g.Enable(false)
	if !g.Enabled() {
		t.Fatalf("PolicyOn must ignore guest-requested disable")
	}
}

func TestMaskPolicyHonoursGuestWrites(t *testing.T) {
	g := a20.New(24, a20.PolicyMask, nil)
	g.Enable(false)
	if g.Enabled() {
		t.Fatalf("PolicyMask must honour guest-requested disable")
	}
	if g.ActiveMask(0x105)&0x100 != 0 {
		t.Fatalf("disabling A20 must clear bit 8 of the active mask")
	}
}

func TestFlushTLBCalledOnMaskChange(t *testing.T) {
	calls := 0
	g := a20.New(24, a20.PolicyMask, func() { calls++ })
	g.Enable(false)
	g.Enable(false)
	if calls != 1 {
		t.Fatalf("FlushTLB should fire exactly once per effective change, got %d calls", calls)
	}
	g.Enable(true)
	if calls != 2 {
		t.Fatalf("FlushTLB should fire again when state changes back, got %d calls", calls)
	}
}

func TestFastPolicyBypassesMaskOutsideAliasBand(t *testing.T) {
	g := a20.New(20, a20.PolicyFast, nil)
	g.Enable(false)

	if mask := g.ActiveMask(0x50); mask != ^uint32(0) {
		t.Fatalf("fast policy should bypass masking outside the alias band, got mask %#x", mask)
	}
	if mask := g.ActiveMask(0x108); mask == ^uint32(0) {
		t.Fatalf("fast policy must still mask pages inside the 1MiB alias band")
	}
}

func TestSetPolicySwitchesModeAndFlushesOnce(t *testing.T) {
	calls := 0
	g := a20.New(24, a20.PolicyOn, func() { calls++ })

	g.SetPolicy(a20.PolicyOffFake, false)
	if g.Enabled() {
		t.Fatal("SetPolicy(..., false) should disable A20")
	}
	if g.Policy() != a20.PolicyOffFake {
		t.Fatal("SetPolicy should replace the active policy")
	}
	if calls != 1 {
		t.Fatalf("expected exactly one flush from the policy switch, got %d", calls)
	}

	g.SetPolicy(a20.PolicyOffFake, false)
	if calls != 1 {
		t.Fatalf("re-applying the same policy/state should not flush again, got %d calls", calls)
	}
}
