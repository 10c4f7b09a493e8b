// Package cpu implements the MOS Technology 6502 microprocessor, as used in
// the NES.
//
// The core is instruction accurate, not cycle accurate: Step performs all the
// work of one instruction at once, and no per-instruction cycle counter or
// page-crossing penalty is tracked. Hosts that need cycle timing must layer
// it on top.

package cpu

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/akiellor/clones/mask"
	"github.com/akiellor/clones/mem"
)

// https://problemkaputt.de/everynes.htm#cpuregistersandflags
// https://www.nesdev.org/wiki/Status_flags#Flags

// Flag bits of the status register (P). Bit 5 is unused and conventionally
// held set; bit 4 (B) only exists in pushed copies of P, distinguishing
// BRK/PHP pushes (set) from hardware interrupt pushes (clear).
//
// 7654 3210
// NV1B DIZC
const (
	FlagCarry            byte = 1 << iota // C
	FlagZero                              // Z
	FlagDisableInterrupt                  // I
	FlagDecimal                           // D; inherited from the 6502, ignored by the NES
	FlagB                                 // B; meaningful on the stack only
	FlagUnused                            // always 1
	FlagOverflow                          // V
	FlagNegative                          // N
)

// The Cpu has no memory of its own (aside from a handful of small registers
// which amount to about 7 bytes). Instead, the Cpu interfaces with a Bus that
// provides memory; every operand fetch, stack access and vector read goes
// through it.
type Cpu struct {
	Bus *mem.Bus

	A byte // the accumulator, a byte value for immediate use
	X byte
	Y byte

	// Stack instructions (PHA, PLA, PHP, PLP, JSR, RTS, BRK, RTI) always
	// access the 01 page (0x0100-0x01ff). SP holds the low byte of the
	// next free slot.
	SP byte

	// The status register, packing the Flag* bits.
	P byte

	// The PC is a 2-byte (word) memory address that increments (almost)
	// continuously. The byte located at this address provides the Cpu
	// with an opcode specifying the next instruction to execute.
	PC uint16
}

// RamSize is the amount of addressable RAM mounted at power on. The NES
// mirrors 0x0000-0x07ff three times over this range; the core treats the
// whole 8 kB as raw bytes and leaves mirroring to a host mapper.
const RamSize = 0x2000

// New returns a Cpu in its power-on state (SP=0xfd, I and the unused bit
// set), with RamSize bytes of zeroed RAM mounted at [0x0000, 0x1fff]. The PC
// is left at zero; hosts that want the reset vector must set it themselves.
func New() *Cpu {
	bus := &mem.Bus{}
	read, write := mem.Ram(RamSize)
	if err := bus.Mount(0x0000, RamSize-1, read, write); err != nil {
		panic(err)
	}
	return &Cpu{
		Bus: bus,
		SP:  0xfd,
		P:   FlagDisableInterrupt | FlagUnused,
	}
}

// Read reads one byte from the given addr. The addr is typically supplied by
// the program.
func (c *Cpu) Read(addr uint16) (byte, error) {
	return c.Bus.Read(addr)
}

// Write passes data to the Bus, which actually performs the write.
func (c *Cpu) Write(addr uint16, data byte) error {
	return c.Bus.Write(addr, data)
}

// ReadWord reads a little-endian word: the low byte from addr, the high byte
// from addr+1. Devices observe the two reads in that order.
func (c *Cpu) ReadWord(addr uint16) (uint16, error) {
	lo, err := c.Read(addr)
	if err != nil {
		return 0, err
	}
	hi, err := c.Read(addr + 1)
	if err != nil {
		return 0, err
	}
	return mask.Word(hi, lo), nil
}

// flag reports whether f is set in the status register.
func (c *Cpu) flag(f byte) bool { return c.P&f != 0 }

func (c *Cpu) setFlag(f byte, on bool) {
	if on {
		c.P |= f
	} else {
		c.P &^= f
	}
}

// setZN sets Z and N from a result byte: Z iff the result is zero, N iff its
// bit 7 is set.
func (c *Cpu) setZN(v byte) {
	c.setFlag(FlagZero, v == 0)
	c.setFlag(FlagNegative, v&0x80 != 0)
}

// push writes v to the stack page at 0x0100|SP, then decrements SP.
func (c *Cpu) push(v byte) error {
	if err := c.Write(0x0100|uint16(c.SP), v); err != nil {
		return err
	}
	c.SP--
	return nil
}

// pull increments SP, then reads from 0x0100|SP.
func (c *Cpu) pull() (byte, error) {
	c.SP++
	return c.Read(0x0100 | uint16(c.SP))
}

// pushWord pushes the high byte first, so the word reads back low-then-high.
func (c *Cpu) pushWord(w uint16) error {
	if err := c.push(mask.Hi(w)); err != nil {
		return err
	}
	return c.push(mask.Lo(w))
}

func (c *Cpu) pullWord() (uint16, error) {
	lo, err := c.pull()
	if err != nil {
		return 0, err
	}
	hi, err := c.pull()
	if err != nil {
		return 0, err
	}
	return mask.Word(hi, lo), nil
}

// Step runs a single fetch/decode/execute cycle: it reads the opcode at PC,
// advances PC past it, and invokes the instruction with its addressing mode.
// The instruction is responsible for consuming its operand bytes.
//
// Unknown opcodes, unmapped memory and illegal addressing-mode operations
// abort the step with an error; the Cpu makes no attempt to continue.
func (c *Cpu) Step() error {
	b, err := c.Read(c.PC)
	if err != nil {
		return err
	}
	op, legal := Opcodes[b]
	if !legal {
		return fmt.Errorf("illegal opcode %#02x at %#04x", b, c.PC)
	}
	c.PC++
	return op.Instruction(c, op.Mode)
}

// LoadProgram parses a whitespace-separated hex dump (e.g. "A9 05 AA E8")
// and writes it to memory starting at addr.
func (c *Cpu) LoadProgram(program []byte, addr uint16) {
	for i, s := range strings.Fields(string(program)) {
		b, err := strconv.ParseInt(s, 16, 16)
		if err != nil {
			panic(err)
		}
		if err := c.Write(addr+uint16(i), byte(b)); err != nil {
			panic(err)
		}
	}
}
