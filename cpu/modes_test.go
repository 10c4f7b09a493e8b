package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, c *Cpu, addr uint16, data byte) {
	t.Helper()
	require.NoError(t, c.Write(addr, data))
}

func TestOperandSize(t *testing.T) {
	assert.Equal(t, Implied.OperandSize(), uint16(0))
	assert.Equal(t, Accumulator.OperandSize(), uint16(0))

	assert.Equal(t, Immediate.OperandSize(), uint16(1))
	assert.Equal(t, ZeroPage.OperandSize(), uint16(1))
	assert.Equal(t, ZeroPageX.OperandSize(), uint16(1))
	assert.Equal(t, ZeroPageY.OperandSize(), uint16(1))
	assert.Equal(t, Relative.OperandSize(), uint16(1))
	assert.Equal(t, IndirectX.OperandSize(), uint16(1))
	assert.Equal(t, IndirectY.OperandSize(), uint16(1))

	assert.Equal(t, Absolute.OperandSize(), uint16(2))
	assert.Equal(t, AbsoluteX.OperandSize(), uint16(2))
	assert.Equal(t, AbsoluteY.OperandSize(), uint16(2))
	assert.Equal(t, Indirect.OperandSize(), uint16(2))
}

func TestResolveImmediate(t *testing.T) {
	c := New()
	c.PC = 0x0123

	addr, err := c.resolve(Immediate)
	require.NoError(t, err)
	assert.Equal(t, addr, uint16(0x0123))
}

func TestResolveZeroPage(t *testing.T) {
	c := New()
	write(t, c, 0x0000, 0x42)

	addr, err := c.resolve(ZeroPage)
	require.NoError(t, err)
	assert.Equal(t, addr, uint16(0x0042))
}

func TestResolveZeroPageIndexedWraps(t *testing.T) {
	c := New()
	write(t, c, 0x0000, 0xff)

	c.X = 0x02
	addr, err := c.resolve(ZeroPageX)
	require.NoError(t, err)
	assert.Equal(t, addr, uint16(0x0001)) // 0xff+2 wraps within page 0

	c.Y = 0x05
	addr, err = c.resolve(ZeroPageY)
	require.NoError(t, err)
	assert.Equal(t, addr, uint16(0x0004))
}

func TestResolveRelative(t *testing.T) {
	c := New()

	// offsets >= 0x80 reach backwards
	c.PC = 0x1000
	write(t, c, 0x1000, 0x80)
	addr, err := c.resolve(Relative)
	require.NoError(t, err)
	assert.Equal(t, addr, uint16(0x0f81))

	write(t, c, 0x1000, 0x79)
	addr, err = c.resolve(Relative)
	require.NoError(t, err)
	assert.Equal(t, addr, uint16(0x107a))
}

func TestResolveAbsolute(t *testing.T) {
	c := New()
	write(t, c, 0x0000, 0xcd)
	write(t, c, 0x0001, 0x0a)

	addr, err := c.resolve(Absolute)
	require.NoError(t, err)
	assert.Equal(t, addr, uint16(0x0acd))

	c.X = 0x10
	addr, err = c.resolve(AbsoluteX)
	require.NoError(t, err)
	assert.Equal(t, addr, uint16(0x0add))

	c.Y = 0x01
	addr, err = c.resolve(AbsoluteY)
	require.NoError(t, err)
	assert.Equal(t, addr, uint16(0x0ace))
}

func TestResolveIndirectIndexed(t *testing.T) {
	c := New()
	write(t, c, 0x0000, 0x02)
	write(t, c, 0x0002, 0xfd)
	write(t, c, 0x0003, 0x05)

	c.Y = 0x02
	addr, err := c.resolve(IndirectY)
	require.NoError(t, err)
	assert.Equal(t, addr, uint16(0x05ff))
}

func TestResolveIndexedIndirect(t *testing.T) {
	c := New()
	write(t, c, 0x0000, 0x02)
	write(t, c, 0x0004, 0x05)
	write(t, c, 0x0005, 0x10)

	c.X = 0x02
	addr, err := c.resolve(IndirectX)
	require.NoError(t, err)
	assert.Equal(t, addr, uint16(0x1005))
}

func TestResolveIndirect(t *testing.T) {
	c := New()
	write(t, c, 0x0000, 0xfd)
	write(t, c, 0x0001, 0x01)
	write(t, c, 0x01fd, 0x34)
	write(t, c, 0x01fe, 0x12)

	addr, err := c.resolve(Indirect)
	require.NoError(t, err)
	assert.Equal(t, addr, uint16(0x1234))
}

func TestResolveIndirectPageWrapBug(t *testing.T) {
	// a pointer whose low byte is 0xff reads its target from the base of
	// its own page instead of crossing into the next one
	c := New()
	write(t, c, 0x0000, 0xff)
	write(t, c, 0x0001, 0x01)
	write(t, c, 0x0100, 0x00)
	write(t, c, 0x0101, 0x02)

	addr, err := c.resolve(Indirect)
	require.NoError(t, err)
	assert.Equal(t, addr, uint16(0x0200))
}

func TestResolveErrors(t *testing.T) {
	c := New()

	_, err := c.resolve(Implied)
	assert.Error(t, err)
	_, err = c.resolve(Accumulator)
	assert.Error(t, err)
}

func TestOperand(t *testing.T) {
	c := New()
	write(t, c, 0x0000, 0x10)
	write(t, c, 0x0010, 0x99)

	// Immediate reads the byte at PC itself
	v, err := c.operand(Immediate)
	require.NoError(t, err)
	assert.Equal(t, v, byte(0x10))

	v, err = c.operand(ZeroPage)
	require.NoError(t, err)
	assert.Equal(t, v, byte(0x99))

	// Accumulator reads the register, not memory
	c.A = 0x55
	v, err = c.operand(Accumulator)
	require.NoError(t, err)
	assert.Equal(t, v, byte(0x55))

	_, err = c.operand(Implied)
	assert.Error(t, err)
}

func TestStore(t *testing.T) {
	c := New()
	write(t, c, 0x0000, 0x10)

	require.NoError(t, c.store(ZeroPage, 0x77))
	v, err := c.Read(0x0010)
	require.NoError(t, err)
	assert.Equal(t, v, byte(0x77))

	require.NoError(t, c.store(Accumulator, 0x42))
	assert.Equal(t, c.A, byte(0x42))

	assert.Error(t, c.store(Implied, 0x00))
	assert.Error(t, c.store(Immediate, 0x00))
	assert.Error(t, c.store(Relative, 0x00))
}

func TestModifyResolvesOnce(t *testing.T) {
	// a read-modify-write instruction must fetch its operand bytes once,
	// then read and write the target in that order
	c := New()

	var events []string
	read := func(offset uint16) byte {
		events = append(events, "read")
		return 0x0f
	}
	writeFn := func(offset uint16, data byte) {
		events = append(events, "write")
	}
	require.NoError(t, c.Bus.Mount(0x4000, 0x40ff, read, writeFn))

	write(t, c, 0x0000, 0x10)
	write(t, c, 0x0001, 0x40)

	v, err := c.modify(Absolute, func(v byte) byte { return v + 1 })
	require.NoError(t, err)
	assert.Equal(t, v, byte(0x10))
	assert.Equal(t, events, []string{"read", "write"})
}
