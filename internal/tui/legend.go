package tui

import (
	"fmt"
	"strings"

	"qevolve/internal/quantum"
)

// legendItem describes one supported gate.
type legendItem struct {
	name   string
	kind   quantum.GateKind
	symbol string
}

// gateLegend lists the supported gate set in display order.
var gateLegend = []legendItem{
	{name: "Hadamard", kind: quantum.GateH, symbol: "H"},
	{name: "Pauli-X (NOT)", kind: quantum.GateX, symbol: "X"},
	{name: "Pauli-Y", kind: quantum.GateY, symbol: "Y"},
	{name: "Pauli-Z", kind: quantum.GateZ, symbol: "Z"},
	{name: "Phase (S)", kind: quantum.GateS, symbol: "S"},
	{name: "T Gate", kind: quantum.GateT, symbol: "T"},
	{name: "CNOT", kind: quantum.GateCNOT, symbol: "●─⊕"},
}

// renderLegend renders the gate legend panel with the gates used by the
// current circuit highlighted.
func (m Model) renderLegend() string {
	used := make(map[quantum.GateKind]bool)
	for _, op := range m.circuit.Ops() {
		used[op.Kind] = true
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Gates"))
	sb.WriteString("\n")
	for _, item := range gateLegend {
		name := fmt.Sprintf("%-15s", item.name)
		if used[item.kind] {
			sb.WriteString(activeGateStyle.Render(" ▸ " + name))
			sb.WriteString(gateStyle.Render(item.symbol))
		} else {
			sb.WriteString("   " + dimStyle.Render(name) + dimStyle.Render(item.symbol))
		}
		sb.WriteString("\n")
	}
	return legendStyle.Render(strings.TrimRight(sb.String(), "\n"))
}
