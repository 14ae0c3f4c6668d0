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

// Package prefs implements a small typed key/value preferences system
// backed by a flat "key = value" disk file, one entry per line. Configured
// values (memsize, memalias, a20, ...) are registered with a Group as typed
// cells (Bool, Int, String) and loaded/saved as a unit.
package prefs
