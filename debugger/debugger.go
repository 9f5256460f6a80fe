// Package debugger provides an interactive terminal UI for stepping a
// machine one instruction at a time: memory pages, registers, flags
// and a live disassembly of the code around the program counter.
package debugger

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/davecgh/go-spew/spew"

	"github.com/JForte05/Steel6502/bus"
	"github.com/JForte05/Steel6502/cpu"
	"github.com/JForte05/Steel6502/disassemble"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	dimStyle   = lipgloss.NewStyle().Faint(true)
	pcStyle    = lipgloss.NewStyle().Reverse(true)
)

type model struct {
	cpu     *cpu.Chip
	machine *bus.Machine

	last   cpu.Mnemonic
	halted bool
	err    error
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit

		case " ", "j":
			if m.halted {
				return m, nil
			}
			mn, err := m.cpu.Step(m.machine)
			m.last = mn
			if err != nil {
				m.err = err
				m.halted = true
				return m, nil
			}
			if mn == cpu.BRK {
				m.halted = true
			}

		case "r":
			if err := m.cpu.Reset(m.machine); err != nil {
				m.err = err
				return m, tea.Quit
			}
			m.halted = false
			m.err = nil
			m.last = cpu.UNKNOWN
		}
	}
	return m, nil
}

// renderMem renders rows 16 byte lines starting at start. The byte at
// the current PC is highlighted.
func (m model) renderMem(start uint16, rows int) string {
	sb := &strings.Builder{}
	addr := start
	for row := 0; row < rows; row++ {
		fmt.Fprintf(sb, "%.4X |", addr)
		for col := 0; col < 16; col++ {
			val, err := m.machine.Peek(addr)
			cell := fmt.Sprintf(" %.2X", val)
			if err != nil {
				cell = " --"
			}
			if addr == m.cpu.PC {
				cell = " " + pcStyle.Render(fmt.Sprintf("%.2X", val))
			}
			sb.WriteString(cell)
			addr++
		}
		sb.WriteRune('\n')
	}
	return sb.String()
}

func (m model) status() string {
	sb := &strings.Builder{}
	fmt.Fprintf(sb, "PC: %.4X  S: %.2X\n", m.cpu.PC, m.cpu.S)
	fmt.Fprintf(sb, " A: %.2X  X: %.2X  Y: %.2X\n\n", m.cpu.A, m.cpu.X, m.cpu.Y)

	sb.WriteString("N V 1 B D I Z C\n")
	for _, mask := range []uint8{
		cpu.P_NEGATIVE,
		cpu.P_OVERFLOW,
		cpu.P_S1,
		cpu.P_B,
		cpu.P_DECIMAL,
		cpu.P_INTERRUPT,
		cpu.P_ZERO,
		cpu.P_CARRY,
	} {
		if m.cpu.P&mask != 0x00 {
			sb.WriteString("* ")
		} else {
			sb.WriteString(". ")
		}
	}
	sb.WriteRune('\n')
	if m.last != cpu.UNKNOWN {
		fmt.Fprintf(sb, "\nlast: %s", m.last)
	}
	if m.halted {
		sb.WriteString("\n" + titleStyle.Render("halted"))
	}
	if m.err != nil {
		fmt.Fprintf(sb, "\nerror: %v", m.err)
	}
	return sb.String()
}

// code disassembles forward from the PC. Disassembly past a flow
// change is speculative but that is inherent to listing ahead.
func (m model) code() string {
	sb := &strings.Builder{}
	pc := m.cpu.PC
	for i := 0; i < 12; i++ {
		line, count := disassemble.Step(pc, m.machine)
		if i == 0 {
			line = pcStyle.Render(line)
		}
		sb.WriteString(line)
		sb.WriteRune('\n')
		pc += uint16(count)
	}
	return sb.String()
}

func (m model) opDump() string {
	val, err := m.machine.Peek(m.cpu.PC)
	if err != nil {
		return dimStyle.Render(err.Error())
	}
	op, ok := cpu.Decode(val)
	if !ok {
		return dimStyle.Render(fmt.Sprintf("invalid opcode 0x%.2X", val))
	}
	return dimStyle.Render(spew.Sdump(op))
}

// View implements tea.Model.
func (m model) View() string {
	mem := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("zero page"),
		m.renderMem(0x0000, 8),
		titleStyle.Render("stack"),
		m.renderMem(0x01C0, 4),
		titleStyle.Render("code"),
		m.renderMem(m.cpu.PC&0xFFF0, 4),
	)
	right := lipgloss.JoinVertical(
		lipgloss.Left,
		titleStyle.Render("cpu"),
		m.status(),
		"",
		titleStyle.Render("disassembly"),
		m.code(),
	)
	return lipgloss.JoinVertical(
		lipgloss.Left,
		lipgloss.JoinHorizontal(lipgloss.Top, mem, "   ", right),
		m.opDump(),
		dimStyle.Render("space/j step    r reset    q quit"),
	)
}

// Run starts the interactive session and blocks until the user quits.
func Run(c *cpu.Chip, m *bus.Machine) error {
	final, err := tea.NewProgram(model{cpu: c, machine: m}).Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}
