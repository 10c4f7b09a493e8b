package cpu

// One body per mnemonic; the opcode table in opcodes.go pairs each body with
// the addressing modes it is reachable under. Bodies read their operands
// through the mode, perform their effects, and advance PC past the operand
// bytes -- except control-flow instructions (JMP, JSR, RTS, RTI, BRK, taken
// branches), which set PC directly.
//
// how to read the obelisk guide:
// A,Z,N = A&M
// [target],[flags...] = [op]
//
// http://www.6502.org/tutorials/6502opcodes.html
// https://www.nesdev.org/obelisk-6502-guide/reference.html (best)

// compare implements CMP/CPX/CPY against the given register. The register is
// not modified.
func (c *Cpu) compare(a AddressingMode, reg byte) error {
	m, err := c.operand(a)
	if err != nil {
		return err
	}
	c.setFlag(FlagCarry, reg >= m)
	c.setZN(reg - m)
	c.advance(a)
	return nil
}

// branch implements the eight conditional branches. A taken branch jumps to
// the resolved target; an untaken one just steps over the offset byte.
func (c *Cpu) branch(a AddressingMode, taken bool) error {
	target, err := c.resolve(a)
	if err != nil {
		return err
	}
	if taken {
		c.PC = target
	} else {
		c.advance(a)
	}
	return nil
}

// ADC - Add with Carry
func (c *Cpu) ADC(a AddressingMode) error {
	// V is set when both inputs share a sign bit that differs from the
	// result's, i.e. the signed sum fell outside [-128, 127]
	// https://www.righto.com/2012/12/the-6502-overflow-flag-explained.html
	m, err := c.operand(a)
	if err != nil {
		return err
	}
	carry := uint16(0)
	if c.flag(FlagCarry) {
		carry = 1
	}
	sum := uint16(c.A) + uint16(m) + carry
	r := byte(sum)
	c.setFlag(FlagCarry, sum > 0xff)
	c.setFlag(FlagOverflow, (c.A^r)&(m^r)&0x80 != 0)
	c.A = r
	c.setZN(r)
	c.advance(a)
	return nil
}

// AND - Logical AND
func (c *Cpu) AND(a AddressingMode) error {
	m, err := c.operand(a)
	if err != nil {
		return err
	}
	c.A &= m
	c.setZN(c.A)
	c.advance(a)
	return nil
}

// ASL - Arithmetic Shift Left
func (c *Cpu) ASL(a AddressingMode) error {
	r, err := c.modify(a, func(v byte) byte {
		c.setFlag(FlagCarry, v&0x80 != 0) // old bit 7
		return v << 1
	})
	if err != nil {
		return err
	}
	c.setZN(r)
	c.advance(a)
	return nil
}

// BCC - Branch if Carry Clear
func (c *Cpu) BCC(a AddressingMode) error { return c.branch(a, !c.flag(FlagCarry)) }

// BCS - Branch if Carry Set
func (c *Cpu) BCS(a AddressingMode) error { return c.branch(a, c.flag(FlagCarry)) }

// BEQ - Branch if Equal
func (c *Cpu) BEQ(a AddressingMode) error { return c.branch(a, c.flag(FlagZero)) }

// BIT - Bit Test
func (c *Cpu) BIT(a AddressingMode) error {
	// A is only used to compute Z; N and V come straight from the operand
	m, err := c.operand(a)
	if err != nil {
		return err
	}
	c.setFlag(FlagZero, c.A&m == 0)
	c.setFlag(FlagNegative, m&0x80 != 0)
	c.setFlag(FlagOverflow, m&0x40 != 0)
	c.advance(a)
	return nil
}

// BMI - Branch if Minus
func (c *Cpu) BMI(a AddressingMode) error { return c.branch(a, c.flag(FlagNegative)) }

// BNE - Branch if Not Equal
func (c *Cpu) BNE(a AddressingMode) error { return c.branch(a, !c.flag(FlagZero)) }

// BPL - Branch if Positive
func (c *Cpu) BPL(a AddressingMode) error { return c.branch(a, !c.flag(FlagNegative)) }

// BRK - Force Interrupt
func (c *Cpu) BRK(a AddressingMode) error {
	// the pushed return address skips the byte after the BRK, and the
	// pushed status has B set to mark a software interrupt
	// https://www.nesdev.org/wiki/Status_flags#The_B_flag
	c.PC++
	if err := c.pushWord(c.PC); err != nil {
		return err
	}
	if err := c.push(c.P | FlagB); err != nil {
		return err
	}
	target, err := c.ReadWord(0xfffe)
	if err != nil {
		return err
	}
	c.PC = target
	return nil
}

// BVC - Branch if Overflow Clear
func (c *Cpu) BVC(a AddressingMode) error { return c.branch(a, !c.flag(FlagOverflow)) }

// BVS - Branch if Overflow Set
func (c *Cpu) BVS(a AddressingMode) error { return c.branch(a, c.flag(FlagOverflow)) }

// CLC - Clear Carry Flag
func (c *Cpu) CLC(a AddressingMode) error {
	c.P &^= FlagCarry
	return nil
}

// CLD - Clear Decimal Mode
func (c *Cpu) CLD(a AddressingMode) error {
	c.P &^= FlagDecimal
	return nil
}

// CLI - Clear Interrupt Disable
func (c *Cpu) CLI(a AddressingMode) error {
	c.P &^= FlagDisableInterrupt
	return nil
}

// CLV - Clear Overflow Flag
func (c *Cpu) CLV(a AddressingMode) error {
	c.P &^= FlagOverflow
	return nil
}

// CMP - Compare
func (c *Cpu) CMP(a AddressingMode) error { return c.compare(a, c.A) }

// CPX - Compare X Register
func (c *Cpu) CPX(a AddressingMode) error { return c.compare(a, c.X) }

// CPY - Compare Y Register
func (c *Cpu) CPY(a AddressingMode) error { return c.compare(a, c.Y) }

// DEC - Decrement Memory
func (c *Cpu) DEC(a AddressingMode) error {
	r, err := c.modify(a, func(v byte) byte { return v - 1 })
	if err != nil {
		return err
	}
	c.setZN(r)
	c.advance(a)
	return nil
}

// DEX - Decrement X Register
func (c *Cpu) DEX(a AddressingMode) error {
	c.X--
	c.setZN(c.X)
	return nil
}

// DEY - Decrement Y Register
func (c *Cpu) DEY(a AddressingMode) error {
	c.Y--
	c.setZN(c.Y)
	return nil
}

// EOR - Exclusive OR
func (c *Cpu) EOR(a AddressingMode) error {
	m, err := c.operand(a)
	if err != nil {
		return err
	}
	c.A ^= m
	c.setZN(c.A)
	c.advance(a)
	return nil
}

// INC - Increment Memory
func (c *Cpu) INC(a AddressingMode) error {
	r, err := c.modify(a, func(v byte) byte { return v + 1 })
	if err != nil {
		return err
	}
	c.setZN(r)
	c.advance(a)
	return nil
}

// INX - Increment X Register
func (c *Cpu) INX(a AddressingMode) error {
	c.X++
	c.setZN(c.X)
	return nil
}

// INY - Increment Y Register
func (c *Cpu) INY(a AddressingMode) error {
	c.Y++
	c.setZN(c.Y)
	return nil
}

// JMP - Jump
func (c *Cpu) JMP(a AddressingMode) error {
	target, err := c.resolve(a)
	if err != nil {
		return err
	}
	c.PC = target
	return nil
}

// JSR - Jump to Subroutine
func (c *Cpu) JSR(a AddressingMode) error {
	// the pushed return address is one byte short of the next
	// instruction; RTS compensates
	target, err := c.resolve(a)
	if err != nil {
		return err
	}
	if err := c.pushWord(c.PC + 1); err != nil {
		return err
	}
	c.PC = target
	return nil
}

// LDA - Load Accumulator
func (c *Cpu) LDA(a AddressingMode) error {
	m, err := c.operand(a)
	if err != nil {
		return err
	}
	c.A = m
	c.setZN(m)
	c.advance(a)
	return nil
}

// LDX - Load X Register
func (c *Cpu) LDX(a AddressingMode) error {
	m, err := c.operand(a)
	if err != nil {
		return err
	}
	c.X = m
	c.setZN(m)
	c.advance(a)
	return nil
}

// LDY - Load Y Register
func (c *Cpu) LDY(a AddressingMode) error {
	m, err := c.operand(a)
	if err != nil {
		return err
	}
	c.Y = m
	c.setZN(m)
	c.advance(a)
	return nil
}

// LSR - Logical Shift Right
func (c *Cpu) LSR(a AddressingMode) error {
	r, err := c.modify(a, func(v byte) byte {
		c.setFlag(FlagCarry, v&0x01 != 0) // old bit 0
		return v >> 1
	})
	if err != nil {
		return err
	}
	c.setZN(r) // bit 7 of the result is always 0, so N always clears
	c.advance(a)
	return nil
}

// NOP - No Operation
func (c *Cpu) NOP(a AddressingMode) error {
	return nil
}

// ORA - Logical Inclusive OR
func (c *Cpu) ORA(a AddressingMode) error {
	m, err := c.operand(a)
	if err != nil {
		return err
	}
	c.A |= m
	c.setZN(c.A)
	c.advance(a)
	return nil
}

// PHA - Push Accumulator
func (c *Cpu) PHA(a AddressingMode) error {
	return c.push(c.A)
}

// PHP - Push Processor Status
func (c *Cpu) PHP(a AddressingMode) error {
	// B is set in the pushed copy only
	return c.push(c.P | FlagB)
}

// PLA - Pull Accumulator
func (c *Cpu) PLA(a AddressingMode) error {
	v, err := c.pull()
	if err != nil {
		return err
	}
	c.A = v
	c.setZN(v)
	return nil
}

// PLP - Pull Processor Status
func (c *Cpu) PLP(a AddressingMode) error {
	v, err := c.pull()
	if err != nil {
		return err
	}
	c.P = v&^FlagB | FlagUnused
	return nil
}

// ROL - Rotate Left
func (c *Cpu) ROL(a AddressingMode) error {
	carryIn := byte(0)
	if c.flag(FlagCarry) {
		carryIn = 0x01
	}
	r, err := c.modify(a, func(v byte) byte {
		c.setFlag(FlagCarry, v&0x80 != 0) // old bit 7
		return v<<1 | carryIn
	})
	if err != nil {
		return err
	}
	c.setZN(r)
	c.advance(a)
	return nil
}

// ROR - Rotate Right
func (c *Cpu) ROR(a AddressingMode) error {
	carryIn := byte(0)
	if c.flag(FlagCarry) {
		carryIn = 0x80
	}
	r, err := c.modify(a, func(v byte) byte {
		c.setFlag(FlagCarry, v&0x01 != 0) // old bit 0
		return v>>1 | carryIn
	})
	if err != nil {
		return err
	}
	c.setZN(r)
	c.advance(a)
	return nil
}

// RTI - Return from Interrupt
func (c *Cpu) RTI(a AddressingMode) error {
	// pull flags, then PC; unlike RTS there is no +1 correction
	v, err := c.pull()
	if err != nil {
		return err
	}
	c.P = v&^FlagB | FlagUnused
	target, err := c.pullWord()
	if err != nil {
		return err
	}
	c.PC = target
	return nil
}

// RTS - Return from Subroutine
func (c *Cpu) RTS(a AddressingMode) error {
	// JSR pushed the return address minus one
	target, err := c.pullWord()
	if err != nil {
		return err
	}
	c.PC = target + 1
	return nil
}

// SBC - Subtract with Carry
func (c *Cpu) SBC(a AddressingMode) error {
	// carry doubles as NOT borrow: set when A >= M + (1-C), i.e. the
	// unsigned subtraction did not wrap
	m, err := c.operand(a)
	if err != nil {
		return err
	}
	borrow := 1
	if c.flag(FlagCarry) {
		borrow = 0
	}
	d := int(c.A) - int(m) - borrow
	r := byte(d)
	c.setFlag(FlagCarry, d >= 0)
	c.setFlag(FlagOverflow, (c.A^m)&(c.A^r)&0x80 != 0)
	c.A = r
	c.setZN(r)
	c.advance(a)
	return nil
}

// SEC - Set Carry Flag
func (c *Cpu) SEC(a AddressingMode) error {
	c.P |= FlagCarry
	return nil
}

// SED - Set Decimal Flag
func (c *Cpu) SED(a AddressingMode) error {
	// the flag itself is honored; decimal arithmetic is not (NES)
	c.P |= FlagDecimal
	return nil
}

// SEI - Set Interrupt Disable
func (c *Cpu) SEI(a AddressingMode) error {
	c.P |= FlagDisableInterrupt
	return nil
}

// STA - Store Accumulator
func (c *Cpu) STA(a AddressingMode) error {
	if err := c.store(a, c.A); err != nil {
		return err
	}
	c.advance(a)
	return nil
}

// STX - Store X Register
func (c *Cpu) STX(a AddressingMode) error {
	if err := c.store(a, c.X); err != nil {
		return err
	}
	c.advance(a)
	return nil
}

// STY - Store Y Register
func (c *Cpu) STY(a AddressingMode) error {
	if err := c.store(a, c.Y); err != nil {
		return err
	}
	c.advance(a)
	return nil
}

// TAX - Transfer Accumulator to X
func (c *Cpu) TAX(a AddressingMode) error {
	c.X = c.A
	c.setZN(c.X)
	return nil
}

// TAY - Transfer Accumulator to Y
func (c *Cpu) TAY(a AddressingMode) error {
	c.Y = c.A
	c.setZN(c.Y)
	return nil
}

// TSX - Transfer Stack Pointer to X
func (c *Cpu) TSX(a AddressingMode) error {
	c.X = c.SP
	c.setZN(c.X)
	return nil
}

// TXA - Transfer X to Accumulator
func (c *Cpu) TXA(a AddressingMode) error {
	c.A = c.X
	c.setZN(c.A)
	return nil
}

// TXS - Transfer X to Stack Pointer
func (c *Cpu) TXS(a AddressingMode) error {
	// the only transfer that leaves the flags alone
	c.SP = c.X
	return nil
}

// TYA - Transfer Y to Accumulator
func (c *Cpu) TYA(a AddressingMode) error {
	c.A = c.Y
	c.setZN(c.A)
	return nil
}
