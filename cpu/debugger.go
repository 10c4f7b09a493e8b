package cpu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/akiellor/clones/mask"
)

type model struct {
	cpu     *Cpu
	program []byte

	offset uint16 // load address and starting PC; also drawn by pageTable
	prevPC uint16
	error  error
}

// Init is the first function that will be called. It returns an optional
// initial command. To not perform an initial command return nil.
func (m model) Init() tea.Cmd {
	m.cpu.LoadProgram(m.program, m.offset)
	m.cpu.PC = m.offset
	return nil
}

// Update is called when a message is received. Use it to inspect messages
// and, in response, update the model and/or send a command.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q":
			return m, tea.Quit

		case " ", "j":
			m.prevPC = m.cpu.PC
			if err := m.cpu.Step(); err != nil {
				m.error = err
				return m, tea.Quit
			}
		}
	}
	return m, nil
}

// peek reads a byte for display only; unmapped addresses are not an error
// here, just a gap in the view.
func (m model) peek(addr uint16) (byte, bool) {
	b, err := m.cpu.Read(addr)
	return b, err == nil
}

// renderRow renders 16 consecutive bytes as a line. The current PC is
// highlighted; unmapped bytes render as dots.
func (m model) renderRow(start uint16) string {
	if start%16 != 0 {
		panic("start must be a multiple of 16")
	}
	s := fmt.Sprintf("%04x | ", start)
	for i := uint16(0); i < 16; i++ {
		b, mapped := m.peek(start + i)
		switch {
		case !mapped:
			s += " ..  "
		case start+i == m.cpu.PC:
			s += fmt.Sprintf("[%02x] ", b)
		default:
			s += fmt.Sprintf(" %02x  ", b)
		}
	}
	return s
}

func (m model) status() string {
	var flags string
	for _, pos := range []byte{7, 6, 5, 4, 3, 2, 1, 0} { // N V _ B D I Z C
		if mask.IsSet(m.cpu.P, pos) {
			flags += "/ "
		} else {
			flags += "  "
		}
	}
	return fmt.Sprintf(`
PC: %x (%x)
SP: %x
 A: %x
 X: %x
 Y: %x
N V _ B D I Z C
`,
		m.cpu.PC,
		m.prevPC,
		m.cpu.SP,
		m.cpu.A,
		m.cpu.X,
		m.cpu.Y,
	) + flags
}

func (m model) pageTable() string {
	header := "addr | "
	for b := range 16 {
		header += fmt.Sprintf("  %01x  ", b)
	}

	rows := []string{header}

	offsets := []int{
		0, 16, 32, 48, 64,
		int(m.offset),
		int(m.offset + 16*1),
		int(m.offset + 16*2),
		int(m.offset + 16*3),
		int(m.offset + 16*4),
	}
	for _, i := range offsets {
		rows = append(rows, m.renderRow(uint16(i)))
	}
	return strings.Join(rows, "\n")
}

// View renders the program's UI, which is just a string. The view is
// rendered after every Update.
func (m model) View() string {
	next := spew.Sdump(nil)
	if b, mapped := m.peek(m.cpu.PC); mapped {
		next = spew.Sdump(Opcodes[b])
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(
			lipgloss.Top,
			m.pageTable(),
			m.status(),
		),
		"",
		next,
	)
}

// Debug loads the program into memory at the given offset, then starts an
// interactive TUI that single-steps it.
func (c *Cpu) Debug(program []byte, offset uint16) {
	m, err := tea.NewProgram(model{
		cpu:     c,
		program: program,
		offset:  offset,
	}).Run()
	if err != nil {
		panic(err)
	}
	x := m.(model)
	if x.error != nil {
		fmt.Println("Error:", x.error)
	}
}
