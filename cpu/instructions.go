package cpu

import (
	"github.com/JForte05/Steel6502/bus"
)

// The handlers below implement the datasheet semantics for each
// mnemonic against a resolved operand. They are pure byte arithmetic;
// anything touching memory goes through the operand or the stack
// primitives so bus faults propagate out of Step.

// addWithCarry is the shared ADC/SBC core: A + val + C in binary mode.
// The D flag is not honored.
func (p *Chip) addWithCarry(val uint8) {
	carry := p.P & P_CARRY
	sum := p.A + val + carry
	p.overflowCheck(p.A, val, sum)
	p.carryCheck(uint16(p.A) + uint16(val) + uint16(carry))
	p.loadRegister(&p.A, sum)
}

// branch moves PC by the signed offset, wrapping within 16 bits.
func (p *Chip) branch(offset int8) {
	p.PC += uint16(int16(offset))
}

// compare implements the shared CMP/CPX/CPY core.
func (p *Chip) compare(reg uint8, val uint8) {
	res := reg - val
	p.zeroCheck(res)
	p.negativeCheck(res)
	p.P &^= P_CARRY
	if reg >= val {
		p.P |= P_CARRY
	}
}

func opADC(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := r.op.read(p, b)
	if err != nil {
		return err
	}
	p.addWithCarry(val)
	return nil
}

func opSBC(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := r.op.read(p, b)
	if err != nil {
		return err
	}
	// SBC is ADC with the argument complemented: A + ^M + C, where C
	// going in represents no borrow.
	p.addWithCarry(^val)
	return nil
}

func opAND(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := r.op.read(p, b)
	if err != nil {
		return err
	}
	p.loadRegister(&p.A, p.A&val)
	return nil
}

func opORA(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := r.op.read(p, b)
	if err != nil {
		return err
	}
	p.loadRegister(&p.A, p.A|val)
	return nil
}

func opEOR(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := r.op.read(p, b)
	if err != nil {
		return err
	}
	p.loadRegister(&p.A, p.A^val)
	return nil
}

func opASL(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := r.op.read(p, b)
	if err != nil {
		return err
	}
	res := val << 1
	if err := r.op.write(p, b, res); err != nil {
		return err
	}
	p.carryCheck(uint16(val) << 1)
	p.zeroCheck(res)
	p.negativeCheck(res)
	return nil
}

func opLSR(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := r.op.read(p, b)
	if err != nil {
		return err
	}
	res := val >> 1
	if err := r.op.write(p, b, res); err != nil {
		return err
	}
	p.P &^= P_CARRY
	if val&0x01 != 0x00 {
		p.P |= P_CARRY
	}
	p.zeroCheck(res)
	p.negativeCheck(res)
	return nil
}

func opROL(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := r.op.read(p, b)
	if err != nil {
		return err
	}
	res := (val << 1) | (p.P & P_CARRY)
	if err := r.op.write(p, b, res); err != nil {
		return err
	}
	p.carryCheck(uint16(val) << 1)
	p.zeroCheck(res)
	p.negativeCheck(res)
	return nil
}

func opROR(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := r.op.read(p, b)
	if err != nil {
		return err
	}
	res := (val >> 1) | ((p.P & P_CARRY) << 7)
	if err := r.op.write(p, b, res); err != nil {
		return err
	}
	p.P &^= P_CARRY
	if val&0x01 != 0x00 {
		p.P |= P_CARRY
	}
	p.zeroCheck(res)
	p.negativeCheck(res)
	return nil
}

func opBIT(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := r.op.read(p, b)
	if err != nil {
		return err
	}
	p.zeroCheck(p.A & val)
	// Immediate BIT (a CMOS addition) only tests Z; the memory forms
	// also copy bits 7/6 of the operand into N/V.
	if r.op.kind != operandValue {
		p.negativeCheck(val)
		p.P &^= P_OVERFLOW
		if val&P_OVERFLOW != 0x00 {
			p.P |= P_OVERFLOW
		}
	}
	return nil
}

func opTRB(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := r.op.read(p, b)
	if err != nil {
		return err
	}
	p.zeroCheck(p.A & val)
	return r.op.write(p, b, val&^p.A)
}

func opTSB(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := r.op.read(p, b)
	if err != nil {
		return err
	}
	p.zeroCheck(p.A & val)
	return r.op.write(p, b, val|p.A)
}

func opCMP(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := r.op.read(p, b)
	if err != nil {
		return err
	}
	p.compare(p.A, val)
	return nil
}

func opCPX(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := r.op.read(p, b)
	if err != nil {
		return err
	}
	p.compare(p.X, val)
	return nil
}

func opCPY(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := r.op.read(p, b)
	if err != nil {
		return err
	}
	p.compare(p.Y, val)
	return nil
}

func opINC(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := r.op.read(p, b)
	if err != nil {
		return err
	}
	res := val + 1
	if err := r.op.write(p, b, res); err != nil {
		return err
	}
	p.zeroCheck(res)
	p.negativeCheck(res)
	return nil
}

func opDEC(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := r.op.read(p, b)
	if err != nil {
		return err
	}
	res := val - 1
	if err := r.op.write(p, b, res); err != nil {
		return err
	}
	p.zeroCheck(res)
	p.negativeCheck(res)
	return nil
}

func opINX(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	p.loadRegister(&p.X, p.X+1)
	return nil
}

func opINY(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	p.loadRegister(&p.Y, p.Y+1)
	return nil
}

func opDEX(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	p.loadRegister(&p.X, p.X-1)
	return nil
}

func opDEY(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	p.loadRegister(&p.Y, p.Y-1)
	return nil
}

func opLDA(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := r.op.read(p, b)
	if err != nil {
		return err
	}
	p.loadRegister(&p.A, val)
	return nil
}

func opLDX(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := r.op.read(p, b)
	if err != nil {
		return err
	}
	p.loadRegister(&p.X, val)
	return nil
}

func opLDY(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := r.op.read(p, b)
	if err != nil {
		return err
	}
	p.loadRegister(&p.Y, val)
	return nil
}

func opSTA(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	return r.op.write(p, b, p.A)
}

func opSTX(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	return r.op.write(p, b, p.X)
}

func opSTY(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	return r.op.write(p, b, p.Y)
}

func opSTZ(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	return r.op.write(p, b, 0x00)
}

func opTAX(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	p.loadRegister(&p.X, p.A)
	return nil
}

func opTAY(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	p.loadRegister(&p.Y, p.A)
	return nil
}

func opTSX(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	p.loadRegister(&p.X, p.S)
	return nil
}

func opTXA(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	p.loadRegister(&p.A, p.X)
	return nil
}

func opTYA(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	p.loadRegister(&p.A, p.Y)
	return nil
}

func opTXS(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	// The only transfer that does not touch flags.
	p.S = p.X
	return nil
}

func opPHA(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	return p.push8(b, p.A)
}

func opPHX(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	return p.push8(b, p.X)
}

func opPHY(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	return p.push8(b, p.Y)
}

func opPHP(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	// B and S1 always read as 1 in a pushed copy of P.
	return p.push8(b, p.P|P_B|P_S1)
}

func opPLA(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := p.pull8(b)
	if err != nil {
		return err
	}
	p.loadRegister(&p.A, val)
	return nil
}

func opPLX(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := p.pull8(b)
	if err != nil {
		return err
	}
	p.loadRegister(&p.X, val)
	return nil
}

func opPLY(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := p.pull8(b)
	if err != nil {
		return err
	}
	p.loadRegister(&p.Y, val)
	return nil
}

func opPLP(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := p.pull8(b)
	if err != nil {
		return err
	}
	// S1 is forced on and B off; neither exists as real state.
	p.P = (val | P_S1) &^ P_B
	return nil
}

func opBCC(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	if p.P&P_CARRY == 0x00 {
		p.branch(r.op.rel)
	}
	return nil
}

func opBCS(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	if p.P&P_CARRY != 0x00 {
		p.branch(r.op.rel)
	}
	return nil
}

func opBEQ(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	if p.P&P_ZERO != 0x00 {
		p.branch(r.op.rel)
	}
	return nil
}

func opBNE(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	if p.P&P_ZERO == 0x00 {
		p.branch(r.op.rel)
	}
	return nil
}

func opBMI(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	if p.P&P_NEGATIVE != 0x00 {
		p.branch(r.op.rel)
	}
	return nil
}

func opBPL(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	if p.P&P_NEGATIVE == 0x00 {
		p.branch(r.op.rel)
	}
	return nil
}

func opBVC(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	if p.P&P_OVERFLOW == 0x00 {
		p.branch(r.op.rel)
	}
	return nil
}

func opBVS(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	if p.P&P_OVERFLOW != 0x00 {
		p.branch(r.op.rel)
	}
	return nil
}

func opBRA(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	p.branch(r.op.rel)
	return nil
}

func opBBR(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := r.op.read(p, b)
	if err != nil {
		return err
	}
	if val&(1<<op.Bit) == 0x00 {
		p.branch(r.op.rel)
	}
	return nil
}

func opBBS(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := r.op.read(p, b)
	if err != nil {
		return err
	}
	if val&(1<<op.Bit) != 0x00 {
		p.branch(r.op.rel)
	}
	return nil
}

func opRMB(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := r.op.read(p, b)
	if err != nil {
		return err
	}
	return r.op.write(p, b, val&^(1<<op.Bit))
}

func opSMB(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := r.op.read(p, b)
	if err != nil {
		return err
	}
	return r.op.write(p, b, val|(1<<op.Bit))
}

func opJMP(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	if r.op.kind != operandAddress {
		return InvalidOperand{r.op}
	}
	p.PC = r.op.addr
	return nil
}

func opJSR(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	if r.op.kind != operandAddress {
		return InvalidOperand{r.op}
	}
	// PC already sits past the 16 bit operand so PC-1 is the address
	// of the last byte of the JSR; RTS adds the 1 back.
	ret := p.PC - 1
	if err := p.push8(b, uint8(ret>>8)); err != nil {
		return err
	}
	if err := p.push8(b, uint8(ret&0xFF)); err != nil {
		return err
	}
	p.PC = r.op.addr
	return nil
}

func opRTS(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	low, err := p.pull8(b)
	if err != nil {
		return err
	}
	high, err := p.pull8(b)
	if err != nil {
		return err
	}
	p.PC = ((uint16(high) << 8) | uint16(low)) + 1
	return nil
}

func opBRK(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	// BRK is a 2 byte instruction: the byte after the opcode is a
	// padding byte the return address skips.
	ret := p.PC + 1
	if err := p.push8(b, uint8(ret>>8)); err != nil {
		return err
	}
	if err := p.push8(b, uint8(ret&0xFF)); err != nil {
		return err
	}
	if err := p.push8(b, p.P|P_B|P_S1); err != nil {
		return err
	}
	p.P |= P_INTERRUPT
	target, err := p.read16(b, IRQ_VECTOR)
	if err != nil {
		return err
	}
	p.PC = target
	return nil
}

func opRTI(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	val, err := p.pull8(b)
	if err != nil {
		return err
	}
	p.P = (val | P_S1) &^ P_B
	low, err := p.pull8(b)
	if err != nil {
		return err
	}
	high, err := p.pull8(b)
	if err != nil {
		return err
	}
	// Unlike RTS the pushed address is the resume point itself.
	p.PC = (uint16(high) << 8) | uint16(low)
	return nil
}

func opCLC(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	p.P &^= P_CARRY
	return nil
}

func opSEC(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	p.P |= P_CARRY
	return nil
}

func opCLD(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	p.P &^= P_DECIMAL
	return nil
}

func opSED(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	p.P |= P_DECIMAL
	return nil
}

func opCLI(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	p.P &^= P_INTERRUPT
	return nil
}

func opSEI(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	p.P |= P_INTERRUPT
	return nil
}

func opCLV(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	p.P &^= P_OVERFLOW
	return nil
}

func opNOP(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	return nil
}

func opWAI(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	// Halt-until-interrupt needs the delivery paths; see irq.
	return Unimplemented{WAI}
}

func opSTP(p *Chip, b bus.Bus, op *Operation, r resolvedOperand) error {
	return Unimplemented{STP}
}
