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

package trace

import (
	"fmt"

	"github.com/GhostRain0/GameBeanAdvance/cpu"
	"github.com/GhostRain0/GameBeanAdvance/errors"
	"github.com/GhostRain0/GameBeanAdvance/logger"
)

// Mismatch describes one disagreement between a stepped CPU and the
// reference log's expected successor state.
type Mismatch struct {
	Record int
	Reg    int // -1 for a mode mismatch
	Got    uint32
	Want   uint32
}

func (m Mismatch) String() string {
	if m.Reg < 0 {
		return fmt.Sprintf("record %d: mode mismatch", m.Record)
	}
	return fmt.Sprintf("record %d: r%d = %#08x, want %#08x", m.Record, m.Reg, m.Got, m.Want)
}

// Verify implements P-LOG-CONFORMANCE: for every consecutive pair of
// records (Si, Si+1) where Si is in THUMB mode, it seeds c with Si, steps
// once, and compares the result against Si+1. It stops at the first record
// whose mode is not THUMB, since ARM decoding is out of scope.
//
// It returns every mismatch found - not just the first - so a single run
// reports the full extent of a regression instead of one opcode at a time.
func Verify(c *cpu.CPU, records []Record) ([]Mismatch, error) {
	var mismatches []Mismatch

	for i := 0; i < len(records)-1; i++ {
		pre := records[i]
		if pre.Mode != cpu.ModeThumb {
			break
		}
		want := records[i+1]

		c.SetState(pre.State())
		opcode, err := c.Step()
		if err != nil {
			return mismatches, errors.Errorf(errors.TraceMismatch, i, err)
		}
		logger.Logf("TRACE", "record %d: executed opcode %#04x", i, opcode)

		got := c.GetState()
		if got.Mode != want.Mode {
			mismatches = append(mismatches, Mismatch{Record: i, Reg: -1})
		}
		for r := 0; r < 16; r++ {
			if got.Regs[r] != want.Regs[r] {
				mismatches = append(mismatches, Mismatch{Record: i, Reg: r, Got: got.Regs[r], Want: want.Regs[r]})
			}
		}
	}

	return mismatches, nil
}
