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

// Package a20 implements the address-line-20 gate (spec.md §4.4): the
// address-masking policy applied to every physical page lookup, plus the
// three independently-configurable compatibility modes (guest-changeable,
// fake-changeable, fast-changeable).
//
// Grounded on _examples/original_source/src/hardware/memory.cpp
// (MEM_A20_Enable, mem_alias_pagemask / mem_alias_pagemask_active,
// Init_AddressLimitAndGateMask).
package a20

// aliasBandStart/End bound the 1MiB..1MiB+64KiB page range inside which A20
// fast-mode masking still applies (spec.md §4.1 RAM handler note).
const (
	aliasBandStart = uint32(0x100)
	aliasBandEnd   = uint32(0x110)
)

// Policy selects which of the three compatible A20 behaviours apply to
// guest-initiated changes (spec.md §3 "A20 state").
type Policy struct {
	GuestChangeable bool
	FakeChangeable  bool
	FastChangeable  bool
}

// Policies named in spec.md §6 ("a20" config values).
var (
	PolicyMask    = Policy{GuestChangeable: true}
	PolicyOn      = Policy{}
	PolicyOff     = Policy{}
	PolicyOnFake  = Policy{FakeChangeable: true}
	PolicyOffFake = Policy{FakeChangeable: true}
	PolicyFast    = Policy{FastChangeable: true}
)

// Gate holds the runtime A20 state: whether the line is enabled, the raw
// port 92h control byte, the active policy, and the two masks derived from
// address_bits (spec.md §4.4).
type Gate struct {
	policy Policy

	enabled     bool
	controlPort uint8

	// pageMask is the static mask derived from address_bits
	// (mem_alias_pagemask). pageMaskActive additionally clears bit 8 when
	// A20 is disabled under non-fake policies (mem_alias_pagemask_active).
	pageMask       uint32
	pageMaskActive uint32

	flushTLB func()
}

// New creates a Gate for the given address_bits (spec.md §6 "memalias"),
// already clamped to [20,40] by the caller, and policy.
func New(addressBits uint32, policy Policy, flushTLB func()) *Gate {
	if flushTLB == nil {
		flushTLB = func() {}
	}
	g := &Gate{
		policy:   policy,
		enabled:  true,
		flushTLB: flushTLB,
	}
	g.configureMask(addressBits)
	return g
}

func (g *Gate) configureMask(addressBits uint32) {
	// mem_alias_pagemask = ((1 << address_bits) - 1) >> 12
	g.pageMask = uint32((uint64(1)<<uint64(addressBits) - 1) >> 12)
	g.pageMaskActive = g.pageMask
	if g.policy.FakeChangeable && !g.enabled {
		g.pageMaskActive &^= 0x100
	}
}

// Enabled reports the guest-visible A20 state.
func (g *Gate) Enabled() bool { return g.enabled }

// ControlPort returns the raw port 92h control byte as last stored by
// SetControlPort: bit 1 (A20) is always clear, since port 92h synthesises
// it from the gate state; bit 0 keeps the last value written.
func (g *Gate) ControlPort() uint8 { return g.controlPort }

// SetControlPort stores the non-A20 bits of a port 92h write.
func (g *Gate) SetControlPort(v uint8) { g.controlPort = v &^ 0x02 }

// Enable implements MEM_A20_Enable: honours guest writes only if the policy
// allows them, and invalidates the TLB whenever the effective mapping
// changed (spec.md §4.4, testable property 6).
func (g *Gate) Enable(on bool) {
	if g.policy.GuestChangeable || g.policy.FakeChangeable {
		g.enabled = on
	}

	if !g.policy.FakeChangeable && (g.pageMask&0x100) != 0 {
		before := g.pageMaskActive
		if g.enabled {
			g.pageMaskActive |= 0x100
		} else {
			g.pageMaskActive &^= 0x100
		}
		if before != g.pageMaskActive {
			g.flushTLB()
		}
	}
}

// ActiveMask returns the mask to apply to a page number for the given page,
// implementing the fast-mode exception: when fast-changeable and the page
// lies outside the 1MiB alias band, no masking is applied at all (spec.md
// §4.1 RAM handler note).
func (g *Gate) ActiveMask(page uint32) uint32 {
	if g.policy.FastChangeable && (page < aliasBandStart || page >= aliasBandEnd) {
		return ^uint32(0)
	}
	return g.pageMaskActive
}

// Mask applies ActiveMask to page.
func (g *Gate) Mask(page uint32) uint32 {
	return page & g.ActiveMask(page)
}

// IsFast reports whether the fast-changeable policy is in effect.
func (g *Gate) IsFast() bool { return g.policy.FastChangeable }

// Policy returns the configured policy.
func (g *Gate) Policy() Policy { return g.policy }

// SetPolicy replaces the active policy and recomputes pageMaskActive
// under it, matching A20GATE.COM's "SET" subcommand which reconfigures
// the three compatibility flags and re-applies MEM_A20_Enable in one
// step (memory.cpp: the A20GATE Run() SET branch).
func (g *Gate) SetPolicy(policy Policy, enabled bool) {
	before := g.pageMaskActive

	g.policy = policy
	g.enabled = enabled
	g.pageMaskActive = g.pageMask
	if g.policy.FakeChangeable && !g.enabled {
		g.pageMaskActive &^= 0x100
	}

	if before != g.pageMaskActive {
		g.flushTLB()
	}
}
