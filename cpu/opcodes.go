package cpu

// An Opcode is associated with a unique byte value (0x00-0xff). There are 256
// possible opcodes (16x16), but only 151 correspond to a documented Cpu
// instruction; the rest are absent from the table and fatal to execute.
//
// The Opcode carries with it the AddressingMode under which its Instruction
// runs. Multiple Opcodes may execute the same Instruction, differing only in
// how the operand is retrieved; that is handled by the mode, not the
// Instruction itself.
type Opcode struct {
	Mode AddressingMode

	// An Instruction usually modifies or copies register(s). It reads its
	// operand through the mode and reports illegal mode operations, table
	// bugs and unmapped memory as errors.
	Instruction func(c *Cpu, a AddressingMode) error

	Name string // mnemonic, for the debugger
}

// The Opcodes table lists all 151 byte values recognised by the Cpu, mapped
// to 56 unique instructions. The mapping is fixed by the 6502; only the
// mnemonic is metadata.
var Opcodes = map[byte]Opcode{
	// Generated from http://www.6502.org/tutorials/6502opcodes.html

	0x69: {Instruction: (*Cpu).ADC, Name: "ADC", Mode: Immediate},
	0x65: {Instruction: (*Cpu).ADC, Name: "ADC", Mode: ZeroPage},
	0x75: {Instruction: (*Cpu).ADC, Name: "ADC", Mode: ZeroPageX},
	0x6D: {Instruction: (*Cpu).ADC, Name: "ADC", Mode: Absolute},
	0x7D: {Instruction: (*Cpu).ADC, Name: "ADC", Mode: AbsoluteX},
	0x79: {Instruction: (*Cpu).ADC, Name: "ADC", Mode: AbsoluteY},
	0x61: {Instruction: (*Cpu).ADC, Name: "ADC", Mode: IndirectX},
	0x71: {Instruction: (*Cpu).ADC, Name: "ADC", Mode: IndirectY},
	0x29: {Instruction: (*Cpu).AND, Name: "AND", Mode: Immediate},
	0x25: {Instruction: (*Cpu).AND, Name: "AND", Mode: ZeroPage},
	0x35: {Instruction: (*Cpu).AND, Name: "AND", Mode: ZeroPageX},
	0x2D: {Instruction: (*Cpu).AND, Name: "AND", Mode: Absolute},
	0x3D: {Instruction: (*Cpu).AND, Name: "AND", Mode: AbsoluteX},
	0x39: {Instruction: (*Cpu).AND, Name: "AND", Mode: AbsoluteY},
	0x21: {Instruction: (*Cpu).AND, Name: "AND", Mode: IndirectX},
	0x31: {Instruction: (*Cpu).AND, Name: "AND", Mode: IndirectY},
	0x0A: {Instruction: (*Cpu).ASL, Name: "ASL", Mode: Accumulator},
	0x06: {Instruction: (*Cpu).ASL, Name: "ASL", Mode: ZeroPage},
	0x16: {Instruction: (*Cpu).ASL, Name: "ASL", Mode: ZeroPageX},
	0x0E: {Instruction: (*Cpu).ASL, Name: "ASL", Mode: Absolute},
	0x1E: {Instruction: (*Cpu).ASL, Name: "ASL", Mode: AbsoluteX},
	0x24: {Instruction: (*Cpu).BIT, Name: "BIT", Mode: ZeroPage},
	0x2C: {Instruction: (*Cpu).BIT, Name: "BIT", Mode: Absolute},
	0x00: {Instruction: (*Cpu).BRK, Name: "BRK", Mode: Implied},
	0xC9: {Instruction: (*Cpu).CMP, Name: "CMP", Mode: Immediate},
	0xC5: {Instruction: (*Cpu).CMP, Name: "CMP", Mode: ZeroPage},
	0xD5: {Instruction: (*Cpu).CMP, Name: "CMP", Mode: ZeroPageX},
	0xCD: {Instruction: (*Cpu).CMP, Name: "CMP", Mode: Absolute},
	0xDD: {Instruction: (*Cpu).CMP, Name: "CMP", Mode: AbsoluteX},
	0xD9: {Instruction: (*Cpu).CMP, Name: "CMP", Mode: AbsoluteY},
	0xC1: {Instruction: (*Cpu).CMP, Name: "CMP", Mode: IndirectX},
	0xD1: {Instruction: (*Cpu).CMP, Name: "CMP", Mode: IndirectY},
	0xE0: {Instruction: (*Cpu).CPX, Name: "CPX", Mode: Immediate},
	0xE4: {Instruction: (*Cpu).CPX, Name: "CPX", Mode: ZeroPage},
	0xEC: {Instruction: (*Cpu).CPX, Name: "CPX", Mode: Absolute},
	0xC0: {Instruction: (*Cpu).CPY, Name: "CPY", Mode: Immediate},
	0xC4: {Instruction: (*Cpu).CPY, Name: "CPY", Mode: ZeroPage},
	0xCC: {Instruction: (*Cpu).CPY, Name: "CPY", Mode: Absolute},
	0xC6: {Instruction: (*Cpu).DEC, Name: "DEC", Mode: ZeroPage},
	0xD6: {Instruction: (*Cpu).DEC, Name: "DEC", Mode: ZeroPageX},
	0xCE: {Instruction: (*Cpu).DEC, Name: "DEC", Mode: Absolute},
	0xDE: {Instruction: (*Cpu).DEC, Name: "DEC", Mode: AbsoluteX},
	0x49: {Instruction: (*Cpu).EOR, Name: "EOR", Mode: Immediate},
	0x45: {Instruction: (*Cpu).EOR, Name: "EOR", Mode: ZeroPage},
	0x55: {Instruction: (*Cpu).EOR, Name: "EOR", Mode: ZeroPageX},
	0x4D: {Instruction: (*Cpu).EOR, Name: "EOR", Mode: Absolute},
	0x5D: {Instruction: (*Cpu).EOR, Name: "EOR", Mode: AbsoluteX},
	0x59: {Instruction: (*Cpu).EOR, Name: "EOR", Mode: AbsoluteY},
	0x41: {Instruction: (*Cpu).EOR, Name: "EOR", Mode: IndirectX},
	0x51: {Instruction: (*Cpu).EOR, Name: "EOR", Mode: IndirectY},
	0xE6: {Instruction: (*Cpu).INC, Name: "INC", Mode: ZeroPage},
	0xF6: {Instruction: (*Cpu).INC, Name: "INC", Mode: ZeroPageX},
	0xEE: {Instruction: (*Cpu).INC, Name: "INC", Mode: Absolute},
	0xFE: {Instruction: (*Cpu).INC, Name: "INC", Mode: AbsoluteX},
	0x4C: {Instruction: (*Cpu).JMP, Name: "JMP", Mode: Absolute},
	0x6C: {Instruction: (*Cpu).JMP, Name: "JMP", Mode: Indirect},
	0x20: {Instruction: (*Cpu).JSR, Name: "JSR", Mode: Absolute},
	0xA9: {Instruction: (*Cpu).LDA, Name: "LDA", Mode: Immediate},
	0xA5: {Instruction: (*Cpu).LDA, Name: "LDA", Mode: ZeroPage},
	0xB5: {Instruction: (*Cpu).LDA, Name: "LDA", Mode: ZeroPageX},
	0xAD: {Instruction: (*Cpu).LDA, Name: "LDA", Mode: Absolute},
	0xBD: {Instruction: (*Cpu).LDA, Name: "LDA", Mode: AbsoluteX},
	0xB9: {Instruction: (*Cpu).LDA, Name: "LDA", Mode: AbsoluteY},
	0xA1: {Instruction: (*Cpu).LDA, Name: "LDA", Mode: IndirectX},
	0xB1: {Instruction: (*Cpu).LDA, Name: "LDA", Mode: IndirectY},
	0xA2: {Instruction: (*Cpu).LDX, Name: "LDX", Mode: Immediate},
	0xA6: {Instruction: (*Cpu).LDX, Name: "LDX", Mode: ZeroPage},
	0xB6: {Instruction: (*Cpu).LDX, Name: "LDX", Mode: ZeroPageY},
	0xAE: {Instruction: (*Cpu).LDX, Name: "LDX", Mode: Absolute},
	0xBE: {Instruction: (*Cpu).LDX, Name: "LDX", Mode: AbsoluteY},
	0xA0: {Instruction: (*Cpu).LDY, Name: "LDY", Mode: Immediate},
	0xA4: {Instruction: (*Cpu).LDY, Name: "LDY", Mode: ZeroPage},
	0xB4: {Instruction: (*Cpu).LDY, Name: "LDY", Mode: ZeroPageX},
	0xAC: {Instruction: (*Cpu).LDY, Name: "LDY", Mode: Absolute},
	0xBC: {Instruction: (*Cpu).LDY, Name: "LDY", Mode: AbsoluteX},
	0x4A: {Instruction: (*Cpu).LSR, Name: "LSR", Mode: Accumulator},
	0x46: {Instruction: (*Cpu).LSR, Name: "LSR", Mode: ZeroPage},
	0x56: {Instruction: (*Cpu).LSR, Name: "LSR", Mode: ZeroPageX},
	0x4E: {Instruction: (*Cpu).LSR, Name: "LSR", Mode: Absolute},
	0x5E: {Instruction: (*Cpu).LSR, Name: "LSR", Mode: AbsoluteX},
	0xEA: {Instruction: (*Cpu).NOP, Name: "NOP", Mode: Implied},
	0x09: {Instruction: (*Cpu).ORA, Name: "ORA", Mode: Immediate},
	0x05: {Instruction: (*Cpu).ORA, Name: "ORA", Mode: ZeroPage},
	0x15: {Instruction: (*Cpu).ORA, Name: "ORA", Mode: ZeroPageX},
	0x0D: {Instruction: (*Cpu).ORA, Name: "ORA", Mode: Absolute},
	0x1D: {Instruction: (*Cpu).ORA, Name: "ORA", Mode: AbsoluteX},
	0x19: {Instruction: (*Cpu).ORA, Name: "ORA", Mode: AbsoluteY},
	0x01: {Instruction: (*Cpu).ORA, Name: "ORA", Mode: IndirectX},
	0x11: {Instruction: (*Cpu).ORA, Name: "ORA", Mode: IndirectY},
	0x2A: {Instruction: (*Cpu).ROL, Name: "ROL", Mode: Accumulator},
	0x26: {Instruction: (*Cpu).ROL, Name: "ROL", Mode: ZeroPage},
	0x36: {Instruction: (*Cpu).ROL, Name: "ROL", Mode: ZeroPageX},
	0x2E: {Instruction: (*Cpu).ROL, Name: "ROL", Mode: Absolute},
	0x3E: {Instruction: (*Cpu).ROL, Name: "ROL", Mode: AbsoluteX},
	0x6A: {Instruction: (*Cpu).ROR, Name: "ROR", Mode: Accumulator},
	0x66: {Instruction: (*Cpu).ROR, Name: "ROR", Mode: ZeroPage},
	0x76: {Instruction: (*Cpu).ROR, Name: "ROR", Mode: ZeroPageX},
	0x6E: {Instruction: (*Cpu).ROR, Name: "ROR", Mode: Absolute},
	0x7E: {Instruction: (*Cpu).ROR, Name: "ROR", Mode: AbsoluteX},
	0x40: {Instruction: (*Cpu).RTI, Name: "RTI", Mode: Implied},
	0x60: {Instruction: (*Cpu).RTS, Name: "RTS", Mode: Implied},
	0xE9: {Instruction: (*Cpu).SBC, Name: "SBC", Mode: Immediate},
	0xE5: {Instruction: (*Cpu).SBC, Name: "SBC", Mode: ZeroPage},
	0xF5: {Instruction: (*Cpu).SBC, Name: "SBC", Mode: ZeroPageX},
	0xED: {Instruction: (*Cpu).SBC, Name: "SBC", Mode: Absolute},
	0xFD: {Instruction: (*Cpu).SBC, Name: "SBC", Mode: AbsoluteX},
	0xF9: {Instruction: (*Cpu).SBC, Name: "SBC", Mode: AbsoluteY},
	0xE1: {Instruction: (*Cpu).SBC, Name: "SBC", Mode: IndirectX},
	0xF1: {Instruction: (*Cpu).SBC, Name: "SBC", Mode: IndirectY},
	0x85: {Instruction: (*Cpu).STA, Name: "STA", Mode: ZeroPage},
	0x95: {Instruction: (*Cpu).STA, Name: "STA", Mode: ZeroPageX},
	0x8D: {Instruction: (*Cpu).STA, Name: "STA", Mode: Absolute},
	0x9D: {Instruction: (*Cpu).STA, Name: "STA", Mode: AbsoluteX},
	0x99: {Instruction: (*Cpu).STA, Name: "STA", Mode: AbsoluteY},
	0x81: {Instruction: (*Cpu).STA, Name: "STA", Mode: IndirectX},
	0x91: {Instruction: (*Cpu).STA, Name: "STA", Mode: IndirectY},
	0x86: {Instruction: (*Cpu).STX, Name: "STX", Mode: ZeroPage},
	0x96: {Instruction: (*Cpu).STX, Name: "STX", Mode: ZeroPageY},
	0x8E: {Instruction: (*Cpu).STX, Name: "STX", Mode: Absolute},
	0x84: {Instruction: (*Cpu).STY, Name: "STY", Mode: ZeroPage},
	0x94: {Instruction: (*Cpu).STY, Name: "STY", Mode: ZeroPageX},
	0x8C: {Instruction: (*Cpu).STY, Name: "STY", Mode: Absolute},

	// clear, set
	0x18: {Instruction: (*Cpu).CLC, Name: "CLC", Mode: Implied},
	0x38: {Instruction: (*Cpu).SEC, Name: "SEC", Mode: Implied},
	0x58: {Instruction: (*Cpu).CLI, Name: "CLI", Mode: Implied},
	0x78: {Instruction: (*Cpu).SEI, Name: "SEI", Mode: Implied},
	0xB8: {Instruction: (*Cpu).CLV, Name: "CLV", Mode: Implied},
	0xD8: {Instruction: (*Cpu).CLD, Name: "CLD", Mode: Implied},
	0xF8: {Instruction: (*Cpu).SED, Name: "SED", Mode: Implied},

	// increment, decrement, transfer
	0xAA: {Instruction: (*Cpu).TAX, Name: "TAX", Mode: Implied},
	0x8A: {Instruction: (*Cpu).TXA, Name: "TXA", Mode: Implied},
	0xCA: {Instruction: (*Cpu).DEX, Name: "DEX", Mode: Implied},
	0xE8: {Instruction: (*Cpu).INX, Name: "INX", Mode: Implied},
	0xA8: {Instruction: (*Cpu).TAY, Name: "TAY", Mode: Implied},
	0x98: {Instruction: (*Cpu).TYA, Name: "TYA", Mode: Implied},
	0x88: {Instruction: (*Cpu).DEY, Name: "DEY", Mode: Implied},
	0xC8: {Instruction: (*Cpu).INY, Name: "INY", Mode: Implied},

	// branch
	0x10: {Instruction: (*Cpu).BPL, Name: "BPL", Mode: Relative},
	0x30: {Instruction: (*Cpu).BMI, Name: "BMI", Mode: Relative},
	0x50: {Instruction: (*Cpu).BVC, Name: "BVC", Mode: Relative},
	0x70: {Instruction: (*Cpu).BVS, Name: "BVS", Mode: Relative},
	0x90: {Instruction: (*Cpu).BCC, Name: "BCC", Mode: Relative},
	0xB0: {Instruction: (*Cpu).BCS, Name: "BCS", Mode: Relative},
	0xD0: {Instruction: (*Cpu).BNE, Name: "BNE", Mode: Relative},
	0xF0: {Instruction: (*Cpu).BEQ, Name: "BEQ", Mode: Relative},

	// stack
	0x9A: {Instruction: (*Cpu).TXS, Name: "TXS", Mode: Implied},
	0xBA: {Instruction: (*Cpu).TSX, Name: "TSX", Mode: Implied},
	0x48: {Instruction: (*Cpu).PHA, Name: "PHA", Mode: Implied},
	0x68: {Instruction: (*Cpu).PLA, Name: "PLA", Mode: Implied},
	0x08: {Instruction: (*Cpu).PHP, Name: "PHP", Mode: Implied},
	0x28: {Instruction: (*Cpu).PLP, Name: "PLP", Mode: Implied},
}
