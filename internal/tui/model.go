// Package tui is the interactive step-through inspector: it shows the
// circuit, the state after the selected step and every qubit's Bloch vector,
// and lets the user edit the circuit as QASM and re-run it.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qevolve/internal/circuitio"
	"qevolve/internal/quantum"
)

// focus represents which panel has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusQASM
)

type keyMap struct {
	Prev   key.Binding
	Next   key.Binding
	First  key.Binding
	Last   key.Binding
	Edit   key.Binding
	Apply  key.Binding
	Legend key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Prev, k.Next, k.Edit, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Prev, k.Next, k.First, k.Last},
		{k.Edit, k.Apply, k.Legend},
		{k.Help, k.Quit},
	}
}

var defaultKeys = keyMap{
	Prev:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous step")),
	Next:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next step")),
	First:  key.NewBinding(key.WithKeys("home", "0"), key.WithHelp("home/0", "initial state")),
	Last:   key.NewBinding(key.WithKeys("end", "$"), key.WithHelp("end/$", "final state")),
	Edit:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "edit qasm")),
	Apply:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("^R", "re-run qasm")),
	Legend: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "gate legend")),
	Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Model is the inspector state. cursor is the selected step index, with -1
// selecting the initial state.
type Model struct {
	circuit    *quantum.Circuit
	trace      []quantum.StepRecord
	cursor     int
	maxQubits  int
	width      int
	height     int
	focus      focus
	qasmEditor textarea.Model
	keys       keyMap
	help       help.Model
	showLegend bool
	statusMsg  string // transient status message (e.g. parse error)
}

// Options configure a Model.
type Options struct {
	// MaxQubits rejects edited circuits above this size. Zero means no limit.
	MaxQubits int
}

// New evolves c and returns a model positioned on the final state.
func New(c *quantum.Circuit, opts Options) (Model, error) {
	trace, err := quantum.Evolve(c)
	if err != nil {
		return Model{}, err
	}

	ta := textarea.New()
	ta.Placeholder = "OPENQASM 2.0;"
	ta.SetWidth(36)
	ta.SetHeight(12)
	ta.ShowLineNumbers = true
	ta.SetValue(circuitio.ToQASM(c))
	ta.Blur()

	return Model{
		circuit:    c,
		trace:      trace,
		cursor:     len(trace) - 1,
		maxQubits:  opts.MaxQubits,
		qasmEditor: ta,
		keys:       defaultKeys,
		help:       help.New(),
	}, nil
}

// Cursor returns the selected step, -1 for the initial state.
func (m Model) Cursor() int { return m.cursor }

// Circuit returns the circuit being inspected.
func (m Model) Circuit() *quantum.Circuit { return m.circuit }

func (m Model) currentState() *quantum.StateVector {
	if m.cursor < 0 {
		return quantum.InitialState(m.circuit)
	}
	return m.trace[m.cursor].State
}

// applyQASM re-parses the editor contents and re-runs the circuit. On any
// error the previous circuit stays in place and the error is shown.
func (m *Model) applyQASM() {
	c, err := circuitio.ParseQASM(m.qasmEditor.Value())
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	if m.maxQubits > 0 && c.NumQubits() > m.maxQubits {
		m.statusMsg = fmt.Sprintf("circuit needs %d qubits, limit is %d", c.NumQubits(), m.maxQubits)
		return
	}
	trace, err := quantum.Evolve(c)
	if err != nil {
		m.statusMsg = err.Error()
		return
	}
	m.circuit = c
	m.trace = trace
	m.cursor = len(trace) - 1
	m.statusMsg = ""
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.qasmEditor.SetWidth(max(msg.Width/3-6, 20))
		m.qasmEditor.SetHeight(max(msg.Height/2-4, 4))

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusCircuit:
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.Prev):
				if m.cursor >= 0 {
					m.cursor--
				}
			case key.Matches(msg, m.keys.Next):
				if m.cursor < len(m.trace)-1 {
					m.cursor++
				}
			case key.Matches(msg, m.keys.First):
				m.cursor = -1
			case key.Matches(msg, m.keys.Last):
				m.cursor = len(m.trace) - 1
			case key.Matches(msg, m.keys.Edit):
				m.focus = focusQASM
				cmds = append(cmds, m.qasmEditor.Focus())
			case key.Matches(msg, m.keys.Legend):
				m.showLegend = !m.showLegend
			case key.Matches(msg, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll
			}

		case focusQASM:
			switch {
			case key.Matches(msg, m.keys.Edit), msg.Type == tea.KeyEsc:
				m.focus = focusCircuit
				m.qasmEditor.Blur()
			case key.Matches(msg, m.keys.Apply):
				m.applyQASM()
			default:
				var cmd tea.Cmd
				m.qasmEditor, cmd = m.qasmEditor.Update(msg)
				cmds = append(cmds, cmd)
			}
		}
	}

	return m, tea.Batch(cmds...)
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sideWidth := m.width / 3
	mainWidth := m.width - sideWidth - 4

	circuitPanel := m.renderCircuitPanel(mainWidth)
	stateRows := max(m.height-lipgloss.Height(circuitPanel)-m.circuit.NumQubits()-8, 4)
	statePanel := m.renderStatePanel(mainWidth, stateRows)

	side := m.renderQASMPanel(sideWidth)
	if m.showLegend {
		side = lipgloss.JoinVertical(lipgloss.Left, side, m.renderLegend())
	}

	left := lipgloss.JoinVertical(lipgloss.Left, circuitPanel, statePanel)
	frame := lipgloss.JoinHorizontal(lipgloss.Top, left, side)
	return lipgloss.JoinVertical(lipgloss.Left, frame, m.help.View(m.keys))
}
