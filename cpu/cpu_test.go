package cpu

import (
	"testing"

	"github.com/go-test/deep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// registers is a plain snapshot of the register file, for whole-state
// comparisons.
type registers struct {
	A, X, Y, SP, P byte
	PC             uint16
}

func snapshot(c *Cpu) registers {
	return registers{A: c.A, X: c.X, Y: c.Y, SP: c.SP, P: c.P, PC: c.PC}
}

func TestPowerOnState(t *testing.T) {
	c := New()

	if diff := deep.Equal(snapshot(c), registers{SP: 0xfd, P: 0x24}); diff != nil {
		t.Error(diff)
	}

	// 8 kB of zeroed RAM is mounted
	for _, addr := range []uint16{0x0000, 0x1fff} {
		v, err := c.Read(addr)
		require.NoError(t, err)
		assert.Equal(t, v, byte(0))
	}
	_, err := c.Read(0x2000)
	assert.Error(t, err)
}

func TestReadWord(t *testing.T) {
	c := New()
	write(t, c, 0x0010, 0xcd)
	write(t, c, 0x0011, 0xab)

	w, err := c.ReadWord(0x0010)
	require.NoError(t, err)
	assert.Equal(t, w, uint16(0xabcd))
}

func TestLoadProgram(t *testing.T) {
	program := "A2 0A 8E 00 00 A2 03 8E 01 00 AC 00 00 A9 00 18 6D 01 00 88 D0 FA 8D 02 00 EA EA EA" // 28 bytes

	c := New()
	c.LoadProgram([]byte(program), 0x0600)

	for addr, want := range map[uint16]byte{
		0x0600: 0xa2,
		0x0601: 0x0a,
		0x0602: 0x8e,
		0x061b: 0xea,
		0x061c: 0x00,
	} {
		v, err := c.Read(addr)
		require.NoError(t, err)
		assert.Equal(t, v, want)
	}

	assert.Equal(t, Opcodes[0xa2].Name, "LDX")
	assert.Equal(t, Opcodes[0x8e].Name, "STX")
	assert.Equal(t, Opcodes[0xea].Name, "NOP")
	assert.Equal(t, Opcodes[0x00].Name, "BRK")
}

func TestStepIllegalOpcode(t *testing.T) {
	c := New()
	write(t, c, 0x0200, 0xff) // not a documented opcode
	c.PC = 0x0200

	err := c.Step()
	assert.Error(t, err)
	assert.Equal(t, c.PC, uint16(0x0200)) // nothing was executed
}

func TestStepUnmappedPC(t *testing.T) {
	c := New()
	c.PC = 0x4000
	assert.Error(t, c.Step())
}

func TestOpcodeTable(t *testing.T) {
	// the documented 6502 ISA: 151 opcodes over 56 mnemonics
	assert.Equal(t, len(Opcodes), 151)

	names := map[string]bool{}
	for _, op := range Opcodes {
		require.NotNil(t, op.Instruction)
		require.NotEmpty(t, op.Name)
		names[op.Name] = true
	}
	assert.Equal(t, len(names), 56)
}

// The multiply-by-repeated-addition program: 10 * 3 via a DEY/BNE loop.
//
// LDX #$0A; STX $0000; LDX #$03; STX $0001; LDY $0000; LDA #$00; CLC
// loop: ADC $0001; DEY; BNE loop
// STA $0002; NOP; NOP; NOP
func TestMultiplyProgram(t *testing.T) {
	program := "A2 0A 8E 00 00 A2 03 8E 01 00 AC 00 00 A9 00 18 6D 01 00 88 D0 FA 8D 02 00 EA EA EA"

	c := New()
	c.LoadProgram([]byte(program), 0x0600)
	c.PC = 0x0600

	// 7 setup instructions, 10 trips around the loop, store, 3 NOPs
	for range 7 + 10*3 + 1 + 3 {
		require.NoError(t, c.Step())
	}

	assert.Equal(t, c.A, byte(30))
	assert.Equal(t, c.X, byte(3))
	assert.Equal(t, c.Y, byte(0))

	for addr, want := range map[uint16]byte{0x0000: 10, 0x0001: 3, 0x0002: 30} {
		v, err := c.Read(addr)
		require.NoError(t, err)
		assert.Equal(t, v, want)
	}
}

func TestScenarioLoadTransferIncrement(t *testing.T) {
	// LDA #$05; TAX; INX
	c := New()
	run(t, c, "A9 05 AA E8", 0x0200, 3)

	assert.Equal(t, c.A, byte(5))
	assert.Equal(t, c.X, byte(6))
	assert.False(t, c.flag(FlagZero))
	assert.False(t, c.flag(FlagNegative))
}

func TestScenarioShiftOut(t *testing.T) {
	// LDA #$80; ASL A
	c := New()
	run(t, c, "A9 80 0A", 0x0200, 2)

	if diff := deep.Equal(snapshot(c), registers{
		A:  0x00,
		SP: 0xfd,
		P:  FlagCarry | FlagZero | FlagDisableInterrupt | FlagUnused,
		PC: 0x0203,
	}); diff != nil {
		t.Error(diff)
	}
}

func TestScenarioStoreIncrementLoad(t *testing.T) {
	// LDA #$00; STA $10; INC $10; LDA $10
	c := New()
	run(t, c, "A9 00 85 10 E6 10 A5 10", 0x0200, 4)

	assert.Equal(t, c.A, byte(1))
	v, err := c.Read(0x0010)
	require.NoError(t, err)
	assert.Equal(t, v, byte(1))
}

func TestScenarioSubroutineCall(t *testing.T) {
	// JSR $1234 at 0x0600
	c := New()
	run(t, c, "20 34 12", 0x0600, 1)

	assert.Equal(t, c.PC, uint16(0x1234))
	assert.Equal(t, c.SP, byte(0xfb))

	// return address minus one, low byte on top
	v, err := c.Read(0x01fc)
	require.NoError(t, err)
	assert.Equal(t, v, byte(0x02))
	v, err = c.Read(0x01fd)
	require.NoError(t, err)
	assert.Equal(t, v, byte(0x06))
}

func TestStepKeepsRegistersInRange(t *testing.T) {
	// run a program that exercises wrapping in every register; byte and
	// uint16 arithmetic cannot leave [0,255]/[0,65535] by construction,
	// so this mostly documents the invariant
	c := New()
	run(t, c, "A2 FF E8 A0 00 88 A9 FF 69 FF", 0x0200, 6)
	assert.Equal(t, c.X, byte(0x00))
	assert.Equal(t, c.Y, byte(0xff))
	assert.Equal(t, c.A, byte(0xfe))
	assert.True(t, c.flag(FlagCarry))
}
