package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"qevolve/internal/quantum"
	"qevolve/internal/report"
)

// ──────────────────────────── Rendering helpers ────────────────────────────

// padCenter centres a string within the given width.
func padCenter(s string, width int) string {
	n := lipgloss.Width(s)
	if n >= width {
		return s
	}
	total := width - n
	left := total / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", total-left)
}

// cellInfo is what one operation looks like on one qubit wire.
type cellInfo struct {
	op          *quantum.GateOperation
	isControl   bool
	isTarget    bool
	passThrough bool // a CNOT connector crosses this wire
	vertAbove   bool
	vertBelow   bool
}

func cellAt(op quantum.GateOperation, qubit int) cellInfo {
	if op.Kind != quantum.GateCNOT {
		if op.Qubit == qubit {
			return cellInfo{op: &op}
		}
		return cellInfo{}
	}
	lo, hi := min(op.Control, op.Target), max(op.Control, op.Target)
	info := cellInfo{
		isControl: op.Control == qubit,
		isTarget:  op.Target == qubit,
	}
	switch {
	case info.isControl || info.isTarget:
		info.op = &op
		info.vertAbove = qubit > lo
		info.vertBelow = qubit < hi
	case qubit > lo && qubit < hi:
		info.passThrough = true
		info.vertAbove = true
		info.vertBelow = true
	}
	return info
}

// renderCell returns 3 lines (top, mid, bot) for a single cell, each cellW
// visual characters wide. style colors the gate glyphs.
func renderCell(info cellInfo, style lipgloss.Style) (top, mid, bot string) {
	emptyRow := strings.Repeat(" ", cellW)
	halfW := cellW / 2
	vertRow := strings.Repeat(" ", halfW) + "│" + strings.Repeat(" ", cellW-halfW-1)
	dashL := (cellW - 1) / 2
	dashR := cellW - dashL - 1

	top, bot = emptyRow, emptyRow
	if info.vertAbove {
		top = vertRow
	}
	if info.vertBelow {
		bot = vertRow
	}

	switch {
	case info.isControl:
		mid = strings.Repeat("─", dashL) + style.Render("●") + strings.Repeat("─", dashR)
	case info.isTarget:
		mid = strings.Repeat("─", dashL) + style.Render("⊕") + strings.Repeat("─", dashR)
	case info.op != nil:
		margin := (cellW - gateBoxW) / 2
		rightMargin := cellW - margin - gateBoxW
		name := padCenter(info.op.Kind.String(), gateNameW)
		top = strings.Repeat(" ", margin) + style.Render("┌"+strings.Repeat("─", gateNameW)+"┐") + strings.Repeat(" ", rightMargin)
		mid = strings.Repeat("─", margin) + style.Render("┤"+name+"├") + strings.Repeat("─", rightMargin)
		bot = strings.Repeat(" ", margin) + style.Render("└"+strings.Repeat("─", gateNameW)+"┘") + strings.Repeat(" ", rightMargin)
	case info.passThrough:
		mid = strings.Repeat("─", dashL) + "┼" + strings.Repeat("─", dashR)
	default:
		mid = strings.Repeat("─", cellW)
	}
	return top, mid, bot
}

// ──────────────────────────── Panel rendering ────────────────────────────

// visibleSteps returns the first step shown and how many fit in width.
func (m Model) visibleSteps(width int) (start, count int) {
	count = max((width-labelVisualW-4)/cellW, 1)
	if m.cursor >= count {
		start = m.cursor - count + 1
	}
	return start, min(count, max(m.circuit.Len()-start, 0))
}

// renderCircuitPanel renders the wire diagram. Steps already applied are
// drawn normally, the current step is highlighted and later steps are dimmed.
func (m Model) renderCircuitPanel(width int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Circuit"))
	fmt.Fprintf(&sb, "  %s\n", dimStyle.Render(fmt.Sprintf("%d qubits, %d operations, depth %d",
		m.circuit.NumQubits(), m.circuit.Len(), m.circuit.Depth())))

	start, count := m.visibleSteps(width)
	if start > 0 {
		fmt.Fprintf(&sb, "  ◀ showing steps %d–%d\n", start, start+count-1)
	}

	header := strings.Repeat(" ", labelVisualW)
	for step := start; step < start+count; step++ {
		label := padCenter(fmt.Sprintf("%d", step), cellW)
		if step == m.cursor {
			header += cursorStyle.Render(label)
		} else {
			header += dimStyle.Render(label)
		}
	}
	sb.WriteString(header + "\n")

	for qubit := 0; qubit < m.circuit.NumQubits(); qubit++ {
		topLine := strings.Repeat(" ", labelVisualW)
		midLine := qubitLabelStyle.Render(fmt.Sprintf("%-5s", fmt.Sprintf("q[%d]", qubit))) + "──"
		botLine := strings.Repeat(" ", labelVisualW)

		for step := start; step < start+count; step++ {
			style := gateStyle
			switch {
			case step == m.cursor:
				style = cursorStyle
			case step > m.cursor:
				style = dimStyle
			}
			top, mid, bot := renderCell(cellAt(m.circuit.At(step), qubit), style)
			topLine += top
			midLine += mid
			botLine += bot
		}

		sb.WriteString(topLine + "\n")
		sb.WriteString(midLine + "\n")
		sb.WriteString(botLine + "\n")
	}

	if m.cursor < 0 {
		fmt.Fprintf(&sb, "\n  Position: initial state |%s>", quantum.BasisLabel(0, m.circuit.NumQubits()))
	} else {
		fmt.Fprintf(&sb, "\n  Position: step %d of %d  %s", m.cursor, m.circuit.Len()-1,
			activeGateStyle.Render(m.circuit.At(m.cursor).String()))
	}
	if m.statusMsg != "" {
		fmt.Fprintf(&sb, "  │  %s", errorStyle.Render(m.statusMsg))
	}

	return circuitStyle.Width(width).Render(sb.String())
}

// renderStatePanel renders the amplitudes of the current state and the
// Bloch data of every qubit.
func (m Model) renderStatePanel(width, maxRows int) string {
	state := m.currentState()
	var sb strings.Builder

	if m.cursor < 0 {
		sb.WriteString(titleStyle.Render("Initial state"))
	} else {
		sb.WriteString(titleStyle.Render(fmt.Sprintf("After step %d: %s", m.cursor, m.trace[m.cursor].Op)))
	}
	sb.WriteString("\n")

	support := state.Support()
	shown := support
	if maxRows > 0 && len(shown) > maxRows {
		shown = shown[:maxRows]
	}
	for _, b := range shown {
		amp := report.Amplitude{Re: real(b.Amplitude), Im: imag(b.Amplitude)}
		bar := int(math.Round(b.Prob * probBarW))
		fmt.Fprintf(&sb, "%s  %s  %s%s %.4f\n",
			qubitLabelStyle.Render("|"+quantum.BasisLabel(b.BasisState, state.NumQubits)+">"),
			report.FormatComplex(amp),
			barStyle.Render(strings.Repeat("█", bar)),
			dimStyle.Render(strings.Repeat("·", probBarW-bar)),
			b.Prob)
	}
	if hidden := len(support) - len(shown); hidden > 0 {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("… %d more basis states", hidden)))
		sb.WriteString("\n")
	}

	sb.WriteString("\n")
	sb.WriteString(titleStyle.Render("Bloch"))
	sb.WriteString("\n")
	for _, b := range report.BlochVectors(state) {
		fmt.Fprintf(&sb, "q%d  x=%s  y=%s  z=%s  %s\n",
			b.Qubit, report.FormatSigned(b.X), report.FormatSigned(b.Y), report.FormatSigned(b.Z),
			dimStyle.Render(fmt.Sprintf("purity=%.4f", b.Purity)))
	}

	return stateStyle.Width(width).Render(strings.TrimRight(sb.String(), "\n"))
}

// renderQASMPanel renders the QASM editor panel.
func (m Model) renderQASMPanel(width int) string {
	var sb strings.Builder

	title := "QASM"
	if m.focus == focusQASM {
		title += " [EDITING]"
	}
	sb.WriteString(titleStyle.Render(title))
	sb.WriteString("\n")
	sb.WriteString(m.qasmEditor.View())

	return qasmStyle.Width(width).Render(sb.String())
}
