package cpu

import (
	"fmt"

	"github.com/akiellor/clones/mask"
)

// An AddressingMode tells the Cpu where to look for an instruction's operand.
// There are 13 possible modes.
//
// Most instructions can index the full 64 kB range of memory, that is, 256
// pages of 256 bytes. The exception is the ZeroPage family, which is confined
// to the first page of 256 bytes.
//
// Each mode knows three things: how many operand bytes it consumes from the
// instruction stream (OperandSize), how to turn those bytes into an effective
// address (resolve), and how to read or write through that address (operand,
// store). Implied and Accumulator are the special cases: Implied has no
// operand at all, and Accumulator reads and writes the A register rather than
// memory.
type AddressingMode int

// https://problemkaputt.de/everynes.htm#cpumemoryaddressing
// https://www.nesdev.org/wiki/CPU_addressing_modes

const (
	// 0 operand bytes

	Implied     AddressingMode = iota // no operand; reads and writes are errors
	Accumulator                       // use Cpu.A

	// 1 operand byte

	Immediate // the operand is the byte at PC itself
	ZeroPage  // 0x0000-0x00ff
	ZeroPageX
	ZeroPageY // LDX, STX
	Relative  // branches; sign-extended offset from the next instruction
	IndirectX // indexed indirect; rarely used
	IndirectY // indirect indexed

	// 2 operand bytes

	Absolute
	AbsoluteX
	AbsoluteY
	Indirect // JMP only
)

// OperandSize is the number of bytes the mode consumes from the instruction
// stream after the opcode. After an instruction executes, PC advances by this
// amount -- except for control-flow instructions, which set PC directly.
func (a AddressingMode) OperandSize() uint16 {
	switch a {
	case Implied, Accumulator:
		return 0
	case Immediate, ZeroPage, ZeroPageX, ZeroPageY, Relative, IndirectX, IndirectY:
		return 1
	default: // Absolute, AbsoluteX, AbsoluteY, Indirect
		return 2
	}
}

// advance moves PC past the operand bytes of the current instruction. The
// opcode byte itself was already consumed by Step.
func (c *Cpu) advance(a AddressingMode) {
	c.PC += a.OperandSize()
}

// resolve computes the effective address for the mode, reading operand bytes
// at PC. PC is not moved; advance does that once the instruction is done.
//
// Implied and Accumulator have no effective address and return an error.
func (c *Cpu) resolve(a AddressingMode) (uint16, error) { // {{{
	switch a {

	case Immediate:
		// the operand -is- the byte at PC
		return c.PC, nil

	case ZeroPage:
		v, err := c.Read(c.PC)
		return uint16(v), err

	case ZeroPageX:
		// the byte addition wraps within page 0
		v, err := c.Read(c.PC)
		return uint16(v + c.X), err

	case ZeroPageY:
		v, err := c.Read(c.PC)
		return uint16(v + c.Y), err

	case Relative:
		// fetch a signed offset reaching up to half a page away from
		// the next instruction (in either direction)
		rel, err := c.Read(c.PC)
		if err != nil {
			return 0, err
		}
		target := c.PC + 1 + uint16(rel)
		if rel&0x80 != 0 {
			target -= 0x0100
		}
		return target, nil

	case Absolute:
		return c.ReadWord(c.PC)

	case AbsoluteX:
		w, err := c.ReadWord(c.PC)
		return w + uint16(c.X), err

	case AbsoluteY:
		w, err := c.ReadWord(c.PC)
		return w + uint16(c.Y), err

	case Indirect:
		// the word at PC is not the target but a pointer to it
		ptr, err := c.ReadWord(c.PC)
		if err != nil {
			return 0, err
		}
		if mask.Lo(ptr) == 0xff {
			// 6502 bug: the pointer never crosses a page, so a
			// pointer ending in 0xff reads its target from the
			// base of its own page
			// http://www.6502.org/tutorials/6502opcodes.html#JMP
			return c.ReadWord(ptr & 0xff00)
		}
		return c.ReadWord(ptr)

	case IndirectX:
		// the X offset is applied -before- the indirection, wrapping
		// within page 0
		v, err := c.Read(c.PC)
		if err != nil {
			return 0, err
		}
		return c.ReadWord(uint16(v + c.X))

	case IndirectY:
		// unlike IndirectX, the Y offset is applied -after- the
		// indirection
		v, err := c.Read(c.PC)
		if err != nil {
			return 0, err
		}
		w, err := c.ReadWord(uint16(v))
		return w + uint16(c.Y), err

	default: // Implied, Accumulator
		return 0, fmt.Errorf("addressing mode %d has no effective address", a)
	}
} // }}}

// operand reads the byte the instruction should act on: the A register in
// Accumulator mode, memory through the effective address otherwise. Implied
// mode has no operand and errors.
func (c *Cpu) operand(a AddressingMode) (byte, error) {
	switch a {
	case Implied:
		return 0, fmt.Errorf("addressing mode %d has no operand", a)
	case Accumulator:
		return c.A, nil
	default:
		addr, err := c.resolve(a)
		if err != nil {
			return 0, err
		}
		return c.Read(addr)
	}
}

// store writes v where the mode points: the A register in Accumulator mode,
// memory otherwise. Implied, Immediate and Relative are not writable.
func (c *Cpu) store(a AddressingMode, v byte) error {
	switch a {
	case Implied, Immediate, Relative:
		return fmt.Errorf("addressing mode %d is not writable", a)
	case Accumulator:
		c.A = v
		return nil
	default:
		addr, err := c.resolve(a)
		if err != nil {
			return err
		}
		return c.Write(addr, v)
	}
}

// modify applies f to the operand in place, returning the new value. The
// effective address is resolved once, so side-effectful devices observe
// exactly one operand fetch, one data read and one write, in that order.
func (c *Cpu) modify(a AddressingMode, f func(byte) byte) (byte, error) {
	if a == Accumulator {
		c.A = f(c.A)
		return c.A, nil
	}
	addr, err := c.resolve(a)
	if err != nil {
		return 0, err
	}
	v, err := c.Read(addr)
	if err != nil {
		return 0, err
	}
	v = f(v)
	return v, c.Write(addr, v)
}
