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

package handlers

// WellKnownIndex names a handler drawn from a fixed, small set
// (spec.md §6 "Save state": "a per-page handler-identity index resolved
// against a fixed table of well-known handlers (RAM, ROM, VGA slots
// 0..15)"). It exists only for save-state serialisation (package
// savestate); the hot dispatch path never consults it.
type WellKnownIndex uint8

// Defined indices. A page whose cached handler isn't one of these is
// recorded as WellKnownNone and left to the slow path to re-resolve.
const (
	WellKnownNone WellKnownIndex = iota
	WellKnownRAM
	WellKnownROM
	WellKnownROMAlias
	WellKnownVGA0
	// WellKnownVGA1..WellKnownVGA15 follow WellKnownVGA0 consecutively.
)

// WellKnownVGA returns the index for VGA slot n, n in [0,16).
func WellKnownVGA(n int) WellKnownIndex {
	return WellKnownVGA0 + WellKnownIndex(n)
}
