// Package bus defines the byte level interface between the CPU and the
// rest of a machine, plus the default Machine: a 16 bit address space
// split into 256 pages and decoded through a fixed page map onto RAM
// and ROM segments.
package bus

import (
	"fmt"

	"github.com/JForte05/Steel6502/memory"
)

// Operation distinguishes the two bus access types in errors.
type Operation int

const (
	OpRead Operation = iota
	OpWrite
)

// String implements fmt.Stringer for Operation.
func (o Operation) String() string {
	if o == OpRead {
		return "read"
	}
	return "write"
}

// UnmappedAddress is returned for any access to a page the map does
// not route anywhere.
type UnmappedAddress struct {
	Addr uint16
}

// Error implements the interface for error types.
func (e UnmappedAddress) Error() string {
	return fmt.Sprintf("access to unmapped address 0x%.4X", e.Addr)
}

// UnsupportedOperation is returned when a mapped page cannot service
// the requested access, i.e. a write aimed at ROM.
type UnsupportedOperation struct {
	Addr uint16
	Op   Operation
}

// Error implements the interface for error types.
func (e UnsupportedOperation) Error() string {
	return fmt.Sprintf("unsupported %s at address 0x%.4X", e.Op, e.Addr)
}

// Bus is the boundary the CPU drives. Any implementation honoring this
// contract can stand in for a Machine, which test harnesses use to
// trap specific addresses.
type Bus interface {
	// Read returns the data byte stored at addr.
	Read(addr uint16) (uint8, error)
	// Write updates addr with a new value.
	Write(addr uint16, val uint8) error
}

// mappingKind says what backs a page.
type mappingKind int

const (
	mapNone mappingKind = iota
	mapRAM
	mapROM
)

// pageMapping routes one page of the address space to a page relative
// index within a segment.
type pageMapping struct {
	kind mappingKind
	page int
}

const (
	// RAMPages and ROMPages give the default 32K/32K split.
	RAMPages = 128
	ROMPages = 128

	// ROMBase is the first page the ROM segment is mapped at.
	ROMBase = 0x80

	// RAMSize is the byte size of the writable half of the map.
	RAMSize = RAMPages * memory.PageSize
	// ROMSize is the byte size of the ROM image the machine accepts.
	ROMSize = ROMPages * memory.PageSize
)

// Machine is the default bus implementation: pages 0x00-0x7F are RAM,
// pages 0x80-0xFF are ROM, covering the full 64K. The page map is
// fixed at construction and never mutated afterwards.
type Machine struct {
	rom *memory.ROM
	ram *memory.RAM

	pages [256]pageMapping
}

// New creates a Machine with the default map and the given ROM image
// loaded at CPU address 0x8000. The image may be at most 32 KiB;
// shorter images leave the remainder of ROM zeroed.
func New(rom []byte) (*Machine, error) {
	romSeg, err := memory.NewROM(ROMPages)
	if err != nil {
		return nil, err
	}
	if err := romSeg.Load(rom); err != nil {
		return nil, err
	}
	ramSeg, err := memory.NewRAM(RAMPages)
	if err != nil {
		return nil, err
	}

	m := &Machine{rom: romSeg, ram: ramSeg}
	for pg := 0; pg < RAMPages; pg++ {
		m.pages[pg] = pageMapping{kind: mapRAM, page: pg}
	}
	for pg := 0; pg < ROMPages; pg++ {
		m.pages[ROMBase+pg] = pageMapping{kind: mapROM, page: pg}
	}
	return m, nil
}

// decode splits addr into its page mapping and page offset.
func (m *Machine) decode(addr uint16) (pageMapping, uint8) {
	return m.pages[addr>>8], uint8(addr & 0xFF)
}

// Read implements the interface for Bus.
func (m *Machine) Read(addr uint16) (uint8, error) {
	pm, offset := m.decode(addr)
	switch pm.kind {
	case mapRAM:
		return m.ram.ReadPageOffset(pm.page, offset), nil
	case mapROM:
		return m.rom.ReadPageOffset(pm.page, offset), nil
	}
	return 0, UnmappedAddress{addr}
}

// Write implements the interface for Bus. Only RAM pages accept
// writes; ROM and unmapped pages fail.
func (m *Machine) Write(addr uint16, val uint8) error {
	pm, offset := m.decode(addr)
	switch pm.kind {
	case mapRAM:
		m.ram.WritePageOffset(pm.page, offset, val)
		return nil
	case mapROM:
		return UnsupportedOperation{addr, OpWrite}
	}
	return UnmappedAddress{addr}
}

// Peek reads addr with no side effects, for debuggers and
// disassemblers that must not disturb machine state.
func (m *Machine) Peek(addr uint16) (uint8, error) {
	return m.Read(addr)
}

// RAMContents returns a copy of the writable half of the address
// space, pages 0x00-0x7F concatenated in ascending order. This is the
// post run artifact the driver persists.
func (m *Machine) RAMContents() []byte {
	return m.ram.Contents()
}
