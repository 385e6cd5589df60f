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

// Package memory implements the GBA's flat, segmented address space: a
// fixed set of named regions (BIOS, WRAM, I/O, palette, VRAM, OAM, ROM,
// SRAM), each backed by its own byte array, with typed little-endian
// load/store primitives.
package memory

import (
	"encoding/binary"

	"github.com/GhostRain0/GameBeanAdvance/logger"
)

// Map is the GBA address space. The zero value is not usable; construct one
// with NewMap.
type Map struct {
	backing [regionCount][]byte

	// warnedUnmapped latches so that an unmapped-access warning is only
	// logged once per run, per the "one-shot warning" policy in the error
	// taxonomy.
	warnedUnmapped bool
}

// NewMap allocates the backing storage for every fixed region.
func NewMap() *Map {
	m := &Map{}
	for i, l := range regions {
		m.backing[i] = make([]byte, l.size)
	}
	return m
}

// mapAddress resolves addr to its backing byte slice and the offset within
// it, or ok=false if addr is not owned by any region. This mirrors the
// source's "mem, origin := MapAddress(addr, write)" indirection: callers
// that fail the lookup fall through to the unmapped-access policy rather
// than being handed a slice.
func (m *Map) mapAddress(addr uint32) (region []byte, offset uint32, ok bool) {
	l, found := find(addr)
	if !found {
		return nil, 0, false
	}
	return m.backing[l.region], addr - l.base, true
}

func (m *Map) warnUnmapped(msg string) {
	if m.warnedUnmapped {
		return
	}
	m.warnedUnmapped = true
	logger.Log("MEM", msg)
}

// Read8 returns the byte at addr, or 0 if addr is unmapped.
func (m *Map) Read8(addr uint32) uint8 {
	region, off, ok := m.mapAddress(addr)
	if !ok {
		m.warnUnmapped("read from unmapped address")
		return 0
	}
	return region[off]
}

// Read16 returns the little-endian halfword at addr with bit 0 masked off
// (natural alignment for 16-bit accesses).
func (m *Map) Read16(addr uint32) uint16 {
	addr &^= 0x1
	region, off, ok := m.mapAddress(addr)
	if !ok {
		m.warnUnmapped("read from unmapped address")
		return 0
	}
	if int(off)+2 > len(region) {
		return uint16(region[off])
	}
	return binary.LittleEndian.Uint16(region[off:])
}

// Read32 returns the little-endian word at addr with bits 0-1 masked off
// (natural alignment for 32-bit accesses).
func (m *Map) Read32(addr uint32) uint32 {
	addr &^= 0x3
	region, off, ok := m.mapAddress(addr)
	if !ok {
		m.warnUnmapped("read from unmapped address")
		return 0
	}
	if int(off)+4 > len(region) {
		var b [4]byte
		copy(b[:], region[off:])
		return binary.LittleEndian.Uint32(b[:])
	}
	return binary.LittleEndian.Uint32(region[off:])
}

// Write8 stores v at addr. Writes into read-only regions (BIOS, ROM) and
// writes to unmapped addresses are silently dropped.
func (m *Map) Write8(addr uint32, v uint8) {
	l, found := find(addr)
	if !found {
		m.warnUnmapped("write to unmapped address")
		return
	}
	if l.readOnly {
		return
	}
	m.backing[l.region][addr-l.base] = v
}

// Write16 stores the little-endian halfword v at addr with bit 0 masked off.
func (m *Map) Write16(addr uint32, v uint16) {
	addr &^= 0x1
	l, found := find(addr)
	if !found {
		m.warnUnmapped("write to unmapped address")
		return
	}
	if l.readOnly {
		return
	}
	off := addr - l.base
	region := m.backing[l.region]
	if int(off)+2 > len(region) {
		return
	}
	binary.LittleEndian.PutUint16(region[off:], v)
}

// Write32 stores the little-endian word v at addr with bits 0-1 masked off.
func (m *Map) Write32(addr uint32, v uint32) {
	addr &^= 0x3
	l, found := find(addr)
	if !found {
		m.warnUnmapped("write to unmapped address")
		return
	}
	if l.readOnly {
		return
	}
	off := addr - l.base
	region := m.backing[l.region]
	if int(off)+4 > len(region) {
		return
	}
	binary.LittleEndian.PutUint32(region[off:], v)
}

// LoadROM copies data into the ROM region, starting at its base address.
// Bytes beyond the region's capacity are truncated, and the truncation is
// logged as a warning rather than treated as fatal.
func (m *Map) LoadROM(data []byte) {
	l, _ := find(0x08000000)
	dst := m.backing[l.region]
	n := copy(dst, data)
	if n < len(data) {
		logger.Logf("MEM", "rom image truncated: %d bytes dropped", len(data)-n)
	}
}

// Title returns the 12-character uppercase ASCII game title embedded at
// bytes 0xA0..0xAB of the ROM header.
func (m *Map) Title() string {
	l, _ := find(0x08000000)
	region := m.backing[l.region]
	if len(region) < 0xac {
		return ""
	}
	return string(region[0xa0:0xac])
}
