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

// Package cpu implements the ARM7TDMI register file, condition flags, and
// THUMB instruction interpreter. The source modeled memory and the register
// file as a process-wide singleton; here both live in an explicit CPU
// value passed around by the caller, per the "eliminate the global" design
// note, so that multiple cores (or a core under test) can coexist.
package cpu

import (
	"github.com/GhostRain0/GameBeanAdvance/errors"
	"github.com/GhostRain0/GameBeanAdvance/memory"
)

// Mode is the CPU's instruction-set mode, selected by the CPSR T bit.
type Mode int

const (
	ModeThumb Mode = iota
	ModeARM
)

// State is the externally observable snapshot used by get_cpu_state /
// set_cpu_state: the test harness diffs this against reference log records.
type State struct {
	Mode   Mode
	Opcode uint16
	Regs   [16]uint32
	Cpsr   Cpsr
}

// CPU is the ARM7TDMI register file, flags, and THUMB interpreter, bound to
// a particular memory map. There is no pipeline model: PC writes take
// effect immediately and fetch/execute run to completion before returning.
type CPU struct {
	Regs Registers
	Cpsr Cpsr
	Mem  *memory.Map

	// ModeSwitch latches when BX, or a POP into PC, clears T. ARM decoding
	// is out of scope here, so the interpreter simply stops issuing THUMB
	// decodes and lets the driver notice this flag and take over.
	ModeSwitch bool
}

// New returns a CPU bound to mem, starting in THUMB mode with all
// registers and flags zeroed.
func New(mem *memory.Map) *CPU {
	return &CPU{
		Mem:  mem,
		Cpsr: NewCpsr(),
	}
}

// Fetch reads the halfword at PC & ~1, advances PC by 2, and returns the
// opcode. Only valid while in THUMB mode.
func (c *CPU) Fetch() uint16 {
	pc := c.Regs.PC() &^ 1
	opcode := c.Mem.Read16(pc)
	c.Regs.SetPC(pc + 2)
	return opcode
}

// Execute dispatches opcode through the THUMB decode table and runs the
// selected routine. It returns a non-nil error only for an unrecognized
// encoding (errors.UnimplementedOpcode); everything else - including a
// mode-switch to ARM - is reported through c.ModeSwitch rather than as an
// error, since it is not a failure.
func (c *CPU) Execute(opcode uint16) error {
	if !c.decodeAndExecuteThumb(opcode) {
		return errors.Errorf(errors.UnimplementedOpcode, opcode, c.Regs.PC())
	}
	return nil
}

// GetState captures the introspectable CPU state for conformance checking.
func (c *CPU) GetState() State {
	mode := ModeThumb
	if !c.Cpsr.T() {
		mode = ModeARM
	}
	return State{
		Mode: mode,
		Regs: c.Regs.Snapshot(),
		Cpsr: c.Cpsr,
	}
}

// SetState overwrites registers and flags from s, with the T bit taken from
// s.Mode. Used by the test harness to seed the CPU with a reference log's
// predecessor state before stepping.
func (c *CPU) SetState(s State) {
	c.Regs.Restore(s.Regs)
	c.Cpsr = s.Cpsr
	c.Cpsr.SetT(s.Mode == ModeThumb)
	c.ModeSwitch = false
}

// Step performs one fetch/execute cycle: fetch the opcode at PC, then
// execute it. This is the convenience entry point a driver uses once
// per instruction; fetch() and execute() remain separately callable for
// the test harness, which needs to record the fetched opcode.
func (c *CPU) Step() (opcode uint16, err error) {
	opcode = c.Fetch()
	err = c.Execute(opcode)
	return opcode, err
}
