package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qevolve/internal/quantum"
)

func bellModel(t *testing.T) Model {
	t.Helper()
	c, err := quantum.NewCircuit(quantum.Single(quantum.GateH, 0), quantum.CNOT(0, 1))
	require.NoError(t, err)
	m, err := New(c, Options{MaxQubits: 4})
	require.NoError(t, err)
	return m
}

func send(t *testing.T, m Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewStartsOnFinalState(t *testing.T) {
	m := bellModel(t)
	assert.Equal(t, 1, m.Cursor())
	assert.Equal(t, []int{0, 3}, supportOf(m.currentState()))
}

func TestStepNavigation(t *testing.T) {
	m := bellModel(t)

	m = send(t, m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 0, m.Cursor())
	assert.Equal(t, []int{0, 1}, supportOf(m.currentState()))

	m = send(t, m, runes("h"))
	assert.Equal(t, -1, m.Cursor())
	assert.Equal(t, []int{0}, supportOf(m.currentState()))

	m = send(t, m, runes("h"))
	assert.Equal(t, -1, m.Cursor(), "cursor stops at the initial state")

	m = send(t, m, runes("l"), runes("l"), runes("l"))
	assert.Equal(t, 1, m.Cursor(), "cursor stops at the last step")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyHome})
	assert.Equal(t, -1, m.Cursor())
	m = send(t, m, tea.KeyMsg{Type: tea.KeyEnd})
	assert.Equal(t, 1, m.Cursor())
}

func TestQuit(t *testing.T) {
	m := bellModel(t)
	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestViewShowsPanels(t *testing.T) {
	m := send(t, bellModel(t), tea.WindowSizeMsg{Width: 140, Height: 50})

	view := m.View()
	assert.Contains(t, view, "Circuit")
	assert.Contains(t, view, "After step 1: CNOT(0→1)")
	assert.Contains(t, view, "|00>")
	assert.Contains(t, view, "|11>")
	assert.Contains(t, view, "Bloch")
	assert.Contains(t, view, "purity=0.5000")
	assert.Contains(t, view, "qreg q[2];")
	assert.NotContains(t, view, "Pauli-Y")

	m = send(t, m, tea.KeyMsg{Type: tea.KeyHome}, runes("g"))
	view = m.View()
	assert.Contains(t, view, "Initial state")
	assert.Contains(t, view, "Pauli-Y")
}

func TestViewBeforeResize(t *testing.T) {
	assert.Equal(t, "Loading...", bellModel(t).View())
}

func TestApplyQASM(t *testing.T) {
	m := bellModel(t)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	require.Equal(t, focusQASM, m.focus)

	m.qasmEditor.SetValue("OPENQASM 2.0;\nqreg q[1];\nx q[0];\n")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Empty(t, m.statusMsg)
	assert.Equal(t, 1, m.Circuit().NumQubits())
	assert.Equal(t, 0, m.Cursor())
	assert.Equal(t, []int{1}, supportOf(m.currentState()))

	m = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, focusCircuit, m.focus)
}

func TestApplyQASMKeepsCircuitOnError(t *testing.T) {
	m := send(t, bellModel(t), tea.KeyMsg{Type: tea.KeyTab})

	m.qasmEditor.SetValue("qreg q[2];\nswap q[0], q[1];\n")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Contains(t, m.statusMsg, "unsupported gate")
	assert.Equal(t, 2, m.Circuit().Len())

	m.qasmEditor.SetValue("qreg q[6];\nh q[5];\n")
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlR})
	assert.Contains(t, m.statusMsg, "limit is 4")
	assert.Equal(t, 2, m.Circuit().NumQubits())
}

func TestEmptyCircuit(t *testing.T) {
	c, err := quantum.NewCircuit()
	require.NoError(t, err)
	m, err := New(c, Options{})
	require.NoError(t, err)
	assert.Equal(t, -1, m.Cursor())

	m = send(t, m, runes("l"), tea.WindowSizeMsg{Width: 100, Height: 30})
	assert.Equal(t, -1, m.Cursor())
	assert.Contains(t, m.View(), "Initial state")
}

func TestCellAt(t *testing.T) {
	op := quantum.CNOT(2, 0)
	assert.True(t, cellAt(op, 2).isControl)
	assert.True(t, cellAt(op, 2).vertAbove)
	assert.False(t, cellAt(op, 2).vertBelow)
	assert.True(t, cellAt(op, 0).isTarget)
	assert.True(t, cellAt(op, 0).vertBelow)
	assert.True(t, cellAt(op, 1).passThrough)
	assert.Nil(t, cellAt(op, 3).op)

	single := quantum.Single(quantum.GateT, 1)
	assert.NotNil(t, cellAt(single, 1).op)
	assert.Nil(t, cellAt(single, 0).op)
}

func supportOf(s *quantum.StateVector) []int {
	var out []int
	for _, b := range s.Support() {
		out = append(out, b.BasisState)
	}
	return out
}
