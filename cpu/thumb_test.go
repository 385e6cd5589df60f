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

package cpu_test

import (
	"testing"

	"github.com/GhostRain0/GameBeanAdvance/cpu"
	"github.com/GhostRain0/GameBeanAdvance/memory"
	"github.com/GhostRain0/GameBeanAdvance/test"
)

func newCPU() *cpu.CPU {
	return cpu.New(memory.NewMap())
}

// scenario 1: ADD reg+reg, no flags.
func TestAddRegNoFlags(t *testing.T) {
	c := newCPU()
	c.Regs.Set(1, 1)
	c.Regs.Set(2, 1)
	test.ExpectSuccess(t, c.Execute(0x1853))
	test.ExpectEquality(t, c.Regs.Get(3), uint32(2))
	test.ExpectEquality(t, c.Cpsr.String(), "nzcvT")
}

// scenario 2: ADD imm, overflow into negative.
func TestAddImmOverflow(t *testing.T) {
	c := newCPU()
	c.Regs.Set(2, 0x7fffffff)
	test.ExpectSuccess(t, c.Execute(0x3201))
	test.ExpectEquality(t, c.Regs.Get(2), uint32(0x80000000))
	test.ExpectEquality(t, c.Cpsr.N(), true)
	test.ExpectEquality(t, c.Cpsr.Z(), false)
	test.ExpectEquality(t, c.Cpsr.C(), false)
	test.ExpectEquality(t, c.Cpsr.V(), true)
}

// scenario 3: LSL by 32 via register (Form 4).
func TestLSLBy32ViaRegister(t *testing.T) {
	c := newCPU()
	c.Regs.Set(2, 0x20)
	c.Regs.Set(3, 0x1f345679)
	test.ExpectSuccess(t, c.Execute(0b0100000010010011))
	test.ExpectEquality(t, c.Regs.Get(3), uint32(0))
	test.ExpectEquality(t, c.Cpsr.N(), false)
	test.ExpectEquality(t, c.Cpsr.Z(), true)
	test.ExpectEquality(t, c.Cpsr.C(), true)
}

// scenario 5: BX to a THUMB-tagged address.
func TestBXToThumbTaggedAddress(t *testing.T) {
	c := newCPU()
	c.Regs.SetPC(0)
	c.Regs.SetLR(0x01234567)
	test.ExpectSuccess(t, c.Execute(0b0100011101110000))
	test.ExpectEquality(t, c.Regs.PC(), uint32(0x01234566))
	test.ExpectEquality(t, c.Cpsr.T(), true)
	test.ExpectEquality(t, c.ModeSwitch, false)
}

// P-BX-MODE: BX to an ARM-tagged address clears T and signals the mode
// switch without masking the target address.
func TestBXToARMTaggedAddress(t *testing.T) {
	c := newCPU()
	c.Regs.SetLR(0x08000124)
	test.ExpectSuccess(t, c.Execute(0b0100011101110000))
	test.ExpectEquality(t, c.Regs.PC(), uint32(0x08000124))
	test.ExpectEquality(t, c.Cpsr.T(), false)
	test.ExpectEquality(t, c.ModeSwitch, true)
}

// scenario 4: BEQ forward with Z=1. The interpreter follows the
// architecturally literal formula (instruction address + 4 + offset); the
// worked arithmetic in the source example does not itself sum correctly, a
// discrepancy recorded in DESIGN.md.
func TestBEQForward(t *testing.T) {
	c := newCPU()
	c.Cpsr.SetZ(true)
	// PC already reflects fetch()'s post-increment by the time execute runs.
	c.Regs.SetPC(0x10000002)
	test.ExpectSuccess(t, c.Execute(0xd002))
	test.ExpectEquality(t, c.Regs.PC(), uint32(0x10000008))
}

func TestBNENotTaken(t *testing.T) {
	c := newCPU()
	c.Regs.SetPC(0x10000002)
	c.Cpsr.SetZ(true)
	test.ExpectSuccess(t, c.Execute(0xd102)) // BNE, condition false
	test.ExpectEquality(t, c.Regs.PC(), uint32(0x10000002))
}

// scenario 6: PUSH {r0,r1,r2,r4,r5,r7}.
func TestPushRegisterSet(t *testing.T) {
	c := newCPU()
	c.Regs.Set(0, 0xa03b4523)
	c.Regs.Set(1, 0x928847ff)
	c.Regs.Set(2, 0xc38297de)
	c.Regs.Set(4, 0x883729b4)
	c.Regs.Set(5, 0xa98dc823)
	c.Regs.Set(7, 0x000f383d)
	c.Regs.SetSP(0x05000018)

	test.ExpectSuccess(t, c.Execute(0b1011010010110111))

	test.ExpectEquality(t, c.Regs.SP(), uint32(0x05000000))
	test.ExpectEquality(t, c.Mem.Read32(0x05000000), uint32(0xa03b4523))
	test.ExpectEquality(t, c.Mem.Read32(0x05000004), uint32(0x928847ff))
	test.ExpectEquality(t, c.Mem.Read32(0x05000008), uint32(0xc38297de))
	test.ExpectEquality(t, c.Mem.Read32(0x0500000c), uint32(0x883729b4))
	test.ExpectEquality(t, c.Mem.Read32(0x05000010), uint32(0xa98dc823))
	test.ExpectEquality(t, c.Mem.Read32(0x05000014), uint32(0x000f383d))
}

// P-PUSH-POP: POP restores exactly what an immediately preceding PUSH
// saved, and SP returns to its pre-PUSH value.
func TestPushThenPopRoundTrip(t *testing.T) {
	c := newCPU()
	c.Regs.Set(0, 0x11111111)
	c.Regs.Set(1, 0x22222222)
	c.Regs.Set(7, 0x33333333)
	c.Regs.SetLR(0x44444444)
	c.Regs.SetSP(0x03007f00)
	originalSP := c.Regs.SP()

	test.ExpectSuccess(t, c.Execute(0b1011010110000011)) // PUSH {r0,r1,r7,LR}

	c.Regs.Set(0, 0)
	c.Regs.Set(1, 0)
	c.Regs.Set(7, 0)
	c.Regs.SetLR(0)

	test.ExpectSuccess(t, c.Execute(0b1011110110000011)) // POP {r0,r1,r7,PC}

	test.ExpectEquality(t, c.Regs.Get(0), uint32(0x11111111))
	test.ExpectEquality(t, c.Regs.Get(1), uint32(0x22222222))
	test.ExpectEquality(t, c.Regs.Get(7), uint32(0x33333333))
	test.ExpectEquality(t, c.Regs.PC(), uint32(0x44444444))
	test.ExpectEquality(t, c.Regs.SP(), originalSP)
}

// scenario 7: LDMIA with the base register in the list (base wins).
func TestLDMIABaseInList(t *testing.T) {
	c := newCPU()
	// ROM drops Write32, so the three words are placed with LoadROM.
	c.Mem.LoadROM([]byte{
		0x00, 0x4e, 0xc5, 0xf5,
		0xab, 0xcd, 0xef, 0x01,
		0x83, 0x92, 0xc8, 0xd1,
	})
	c.Regs.Set(6, 0x08000000)

	test.ExpectSuccess(t, c.Execute(0b1100111001000101))

	test.ExpectEquality(t, c.Regs.Get(0), uint32(0xf5c54e00))
	test.ExpectEquality(t, c.Regs.Get(2), uint32(0x01efcdab))
	test.ExpectEquality(t, c.Regs.Get(6), uint32(0xd1c89283))
}

// P-STMIA-LDMIA: a store-multiple followed by a load-multiple from the
// same base and register set round-trips, when the base is not itself in
// the list.
func TestSTMIALDMIARoundTrip(t *testing.T) {
	c := newCPU()
	c.Regs.Set(0, 0xaaaaaaaa)
	c.Regs.Set(1, 0xbbbbbbbb)
	c.Regs.Set(2, 0xcccccccc)
	c.Regs.Set(5, 0x02000000)

	test.ExpectSuccess(t, c.Execute(0b1100010100000111)) // STMIA r5!, {r0,r1,r2}
	test.ExpectEquality(t, c.Regs.Get(5), uint32(0x0200000c))

	c.Regs.Set(0, 0)
	c.Regs.Set(1, 0)
	c.Regs.Set(2, 0)
	c.Regs.Set(5, 0x02000000)

	test.ExpectSuccess(t, c.Execute(0b1100110100000111)) // LDMIA r5!, {r0,r1,r2}
	test.ExpectEquality(t, c.Regs.Get(0), uint32(0xaaaaaaaa))
	test.ExpectEquality(t, c.Regs.Get(1), uint32(0xbbbbbbbb))
	test.ExpectEquality(t, c.Regs.Get(2), uint32(0xcccccccc))
	test.ExpectEquality(t, c.Regs.Get(5), uint32(0x0200000c))
}

// P-FLAG1: operations whose table entry marks a flag "preserved" leave it
// untouched.
func TestANDPreservesCarryAndOverflow(t *testing.T) {
	c := newCPU()
	c.Cpsr.SetC(true)
	c.Cpsr.SetV(true)
	c.Regs.Set(0, 0xff00ff00)
	c.Regs.Set(1, 0x0f0f0f0f)
	test.ExpectSuccess(t, c.Execute(0b0100000000001000)) // AND r0, r1
	test.ExpectEquality(t, c.Cpsr.C(), true)
	test.ExpectEquality(t, c.Cpsr.V(), true)
}

// unrecognized encodings report errors.UnimplementedOpcode rather than
// panicking.
func TestUnimplementedOpcode(t *testing.T) {
	c := newCPU()
	err := c.Execute(0b1110100000000000)
	test.ExpectFailure(t, err)
}

func TestUnconditionalBranch(t *testing.T) {
	c := newCPU()
	c.Regs.SetPC(0x10000002)
	test.ExpectSuccess(t, c.Execute(0b11100_00000000010)) // B +4
	test.ExpectEquality(t, c.Regs.PC(), uint32(0x10000008))
}

// BL: the first halfword sets LR, the second uses it to compute PC and
// leaves LR holding the pipelined PC (the second halfword's address plus 4)
// with bit 0 set.
func TestBranchWithLink(t *testing.T) {
	c := newCPU()
	c.Regs.SetPC(0x08000000)

	first := uint16(0b11110_00000000001)
	second := uint16(0b11111_00000000010)

	test.ExpectSuccess(t, c.Execute(first))
	c.Regs.SetPC(0x08000002)
	test.ExpectSuccess(t, c.Execute(second))

	test.ExpectEquality(t, c.Regs.LR()&0x1, uint32(1))
}
