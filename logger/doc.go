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

// Package logger implements a small in-process ring-buffer log used in
// place of the standard library's log package. Entries are tagged and
// de-duplicated: a tag/detail pair identical to the previous entry bumps a
// repeat counter on that entry rather than growing the buffer, which keeps a misbehaving
// slow-path or illegal-access loop from flooding the log.
package logger
