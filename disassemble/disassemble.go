// Package disassemble implements a disassembler for W65C02S opcodes.
package disassemble

import (
	"fmt"

	"github.com/JForte05/Steel6502/bus"
	"github.com/JForte05/Steel6502/cpu"
)

// peek reads addr treating any bus fault as 0x00. The disassembler
// routinely reads one or two bytes past the current instruction and
// must not disturb or stop the machine doing so.
func peek(b bus.Bus, addr uint16) uint8 {
	val, err := b.Read(addr)
	if err != nil {
		return 0x00
	}
	return val
}

// Step disassembles the instruction at pc, returning the text and the
// number of bytes the PC should move forward to reach the next
// instruction. It does not interpret the instructions, so a branch
// disassembles in place rather than being followed.
func Step(pc uint16, b bus.Bus) (string, int) {
	o := peek(b, pc)
	// Reads below may run past the real instruction; unused bytes are
	// simply not printed.
	pc1 := peek(b, pc+1)
	pc2 := peek(b, pc+2)
	// Sign extended for branch target computation.
	pc116 := uint16(int16(int8(pc1)))
	pc216 := uint16(int16(int8(pc2)))

	op, ok := cpu.Decode(o)
	if !ok {
		return fmt.Sprintf("%.4X %.2X      invalid     ", pc, o), 1
	}

	name := op.Mnemonic.String()
	switch op.Mnemonic {
	case cpu.BBR, cpu.BBS, cpu.RMB, cpu.SMB:
		name = fmt.Sprintf("%s%d", name, op.Bit)
	}

	count := 1 + op.Mode.OperandBytes()
	out := fmt.Sprintf("%.4X %.2X ", pc, o)
	switch op.Mode {
	case cpu.ModeImmediate:
		out += fmt.Sprintf("%.2X      %s #%.2X      ", pc1, name, pc1)
	case cpu.ModeZeroPage:
		out += fmt.Sprintf("%.2X      %s %.2X       ", pc1, name, pc1)
	case cpu.ModeZeroPageIndexedX:
		out += fmt.Sprintf("%.2X      %s %.2X,X     ", pc1, name, pc1)
	case cpu.ModeZeroPageIndexedY:
		out += fmt.Sprintf("%.2X      %s %.2X,Y     ", pc1, name, pc1)
	case cpu.ModeZeroPageIndexedIndirect:
		out += fmt.Sprintf("%.2X      %s (%.2X,X)   ", pc1, name, pc1)
	case cpu.ModeZeroPageIndirect:
		out += fmt.Sprintf("%.2X      %s (%.2X)     ", pc1, name, pc1)
	case cpu.ModeZeroPageIndirectIndexedY:
		out += fmt.Sprintf("%.2X      %s (%.2X),Y   ", pc1, name, pc1)
	case cpu.ModeAbsolute:
		out += fmt.Sprintf("%.2X %.2X   %s %.2X%.2X     ", pc1, pc2, name, pc2, pc1)
	case cpu.ModeAbsoluteIndexedX:
		out += fmt.Sprintf("%.2X %.2X   %s %.2X%.2X,X   ", pc1, pc2, name, pc2, pc1)
	case cpu.ModeAbsoluteIndexedY:
		out += fmt.Sprintf("%.2X %.2X   %s %.2X%.2X,Y   ", pc1, pc2, name, pc2, pc1)
	case cpu.ModeAbsoluteIndirect:
		out += fmt.Sprintf("%.2X %.2X   %s (%.2X%.2X)   ", pc1, pc2, name, pc2, pc1)
	case cpu.ModeAbsoluteIndexedIndirect:
		out += fmt.Sprintf("%.2X %.2X   %s (%.2X%.2X,X) ", pc1, pc2, name, pc2, pc1)
	case cpu.ModeRelative:
		out += fmt.Sprintf("%.2X      %s %.2X (%.4X)", pc1, name, pc1, pc+pc116+2)
	case cpu.ModeZeroPageRelative:
		out += fmt.Sprintf("%.2X %.2X   %s %.2X,%.2X (%.4X)", pc1, pc2, name, pc1, pc2, pc+pc216+3)
	default:
		// Implied, Stack, Accumulator.
		out += fmt.Sprintf("        %s          ", name)
	}
	return out, count
}
