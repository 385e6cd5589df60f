// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

package errors

// error messages
const (
	// thumb interpreter
	UnimplementedOpcode = "thumb error: unimplemented opcode (%#04x) at (%#08x)"
	UnpredictableOpcode = "thumb error: unpredictable opcode (%#04x)"

	// memory map
	UnmappedRead  = "memory error: read from unmapped address (%#08x)"
	UnmappedWrite = "memory error: write to unmapped address (%#08x)"
	ROMOversize   = "memory error: rom image truncated to region capacity (%d bytes dropped)"

	// trace / conformance
	TraceParseError  = "trace error: %v"
	TraceMismatch    = "trace error: state mismatch at record %d: %v"
	TraceFileMissing = "trace error: cannot open reference log (%v)"

	// config
	ConfigError = "config error: %v"
)
