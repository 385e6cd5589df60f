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

// Package trace parses reference CPU-state logs and replays them against a
// cpu.CPU to verify conformance (P-LOG-CONFORMANCE). The idea is the same
// one the source's digest package uses for regression testing - record an
// expected value once, then fail loudly the moment a later run disagrees -
// applied to CPU register state instead of a rendered frame's hash.
package trace

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/GhostRain0/GameBeanAdvance/cpu"
	"github.com/GhostRain0/GameBeanAdvance/errors"
)

// Record is one parsed line of a reference log: the CPU state before
// executing the instruction at regs[15], in the line format described at
// parseLine.
type Record struct {
	Mode cpu.Mode
	Regs [16]uint32
}

// line format: "THUMB r0 r1 ... r15", registers as bare hex without a 0x
// prefix, fields separated by whitespace. An ARM mode line is never emitted
// by this core (ARM decoding is out of scope) but is still parsed so that a
// log spanning both modes doesn't abort early.
func parseLine(s string) (Record, error) {
	fields := strings.Fields(s)
	if len(fields) != 17 {
		return Record{}, errors.Errorf(errors.TraceParseError, fmt.Errorf("expected 17 fields, got %d", len(fields)))
	}

	var rec Record
	switch fields[0] {
	case "THUMB":
		rec.Mode = cpu.ModeThumb
	case "ARM":
		rec.Mode = cpu.ModeARM
	default:
		return Record{}, errors.Errorf(errors.TraceParseError, fmt.Errorf("unknown mode %q", fields[0]))
	}

	for i := 0; i < 16; i++ {
		v, err := strconv.ParseUint(fields[i+1], 16, 32)
		if err != nil {
			return Record{}, errors.Errorf(errors.TraceParseError, err)
		}
		rec.Regs[i] = uint32(v)
	}

	return rec, nil
}

// ParseLog reads a reference log, one record per line. Blank lines and
// lines beginning with '#' are ignored.
func ParseLog(r io.Reader) ([]Record, error) {
	var records []Record

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rec, err := parseLine(line)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Errorf(errors.TraceParseError, err)
	}

	return records, nil
}

// State converts a Record to a cpu.State suitable for set_cpu_state.
func (r Record) State() cpu.State {
	return cpu.State{Mode: r.Mode, Regs: r.Regs}
}
