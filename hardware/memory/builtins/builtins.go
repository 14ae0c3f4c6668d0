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

// Package builtins implements the two memory-subsystem commands exposed
// on the emulator's virtual drive (spec.md §6 "CLI built-ins"): A20GATE,
// which reports or changes A20 gate state, and REDOS, which only raises
// a signal the DOS kernel (out of this subsystem's scope) reacts to. Both
// are plain functions returning their textual output and an error rather
// than wired to any real shell, since the shell itself is out of scope.
//
// Grounded on _examples/original_source/src/hardware/memory.cpp's A20GATE
// Program class.
package builtins

import (
	"fmt"
	"strings"

	"github.com/retropc/pcmem/curated"
	"github.com/retropc/pcmem/hardware/memory/a20"
)

// RedosRequested is the curated error pattern Redos returns to signal that
// a DOS kernel restart was requested; this package only recognises the
// command, it does not carry one out.
const RedosRequested = "pcmem: DOS kernel restart requested"

// Redos implements the REDOS built-in: out of scope beyond raising the
// signal the caller (the DOS kernel, not part of this subsystem) must act
// on.
func Redos() (string, error) {
	return "Restarting DOS kernel...\n", curated.Errorf(RedosRequested)
}

// A20Gate implements the A20GATE built-in against gate. args are the
// command's arguments, not including the program name itself.
func A20Gate(gate *a20.Gate, args []string) (string, error) {
	switch {
	case len(args) == 0:
		return fmt.Sprintf("A20 gate is currently %s.\n", onOff(gate.Enabled())), nil

	case strings.EqualFold(args[0], "ON"):
		var sb strings.Builder
		sb.WriteString("Enabling A20 gate...\n")
		gate.Enable(true)
		if !gate.Enabled() {
			sb.WriteString("Error: A20 gate cannot be enabled.\n")
		}
		return sb.String(), nil

	case strings.EqualFold(args[0], "OFF"):
		var sb strings.Builder
		sb.WriteString("Disabling A20 gate...\n")
		gate.Enable(false)
		if gate.Enabled() {
			sb.WriteString("Error: A20 gate cannot be disabled.\n")
		}
		return sb.String(), nil

	case strings.EqualFold(args[0], "SET") && len(args) > 1:
		return setMode(gate, args[1]), nil

	default:
		return fmt.Sprintf("Unknown setting - %s\n", strings.Join(args, " ")), nil
	}
}

func onOff(enabled bool) string {
	if enabled {
		return "ON"
	}
	return "OFF"
}

// setMode implements the "A20GATE SET <mode>" subcommand, one branch per
// mode name the original recognises.
func setMode(gate *a20.Gate, mode string) string {
	switch strings.ToLower(mode) {
	case "off_fake":
		gate.SetPolicy(a20.PolicyOffFake, false)
		return "A20 gate is now in off_fake mode.\n"
	case "off":
		gate.SetPolicy(a20.PolicyOff, false)
		return "A20 gate is now in off mode.\n"
	case "on_fake":
		gate.SetPolicy(a20.PolicyOnFake, true)
		return "A20 gate is now in on_fake mode.\n"
	case "on":
		gate.SetPolicy(a20.PolicyOn, true)
		return "A20 gate is now in on mode.\n"
	case "mask":
		gate.SetPolicy(a20.PolicyMask, false)
		return "A20 gate is now in mask mode.\n"
	case "fast":
		gate.SetPolicy(a20.PolicyFast, false)
		return "A20 gate is now in fast mode\n"
	default:
		return fmt.Sprintf("Unknown setting - %s\n", mode)
	}
}
