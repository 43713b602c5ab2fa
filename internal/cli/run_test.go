package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qevolve/internal/report"
)

func TestRunText(t *testing.T) {
	path := writeFile(t, "bell.json", bellJSON)

	out, err := execute(t, "", "run", path)
	require.NoError(t, err)
	assert.Contains(t, out, "circuit 2 qubits, 2 operations, depth 2")
	assert.Contains(t, out, "step 0 H(0)")
	assert.Contains(t, out, "step 1 CNOT(0→1)")
	assert.Contains(t, out, "|11>")
	assert.Contains(t, out, "purity=0.5000")
}

func TestRunFinalJSONFromStdin(t *testing.T) {
	out, err := execute(t, `[{"gate":"H","qubit":0},{"gate":"S","qubit":0}]`, "run", "--final", "--format", "json")
	require.NoError(t, err)

	var resp struct {
		Status string            `json:"status"`
		RunID  string            `json:"run_id"`
		Data   report.FinalState `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.NotEmpty(t, resp.RunID)
	assert.Equal(t, 1, resp.Data.NumQubits)
	require.Len(t, resp.Data.Bloch, 1)
	assert.InDelta(t, 1.0, resp.Data.Bloch[0].Y, 1e-9)
	assert.Equal(t, 0.0, resp.Data.Bloch[0].X)
}

func TestRunStepsJSONWithBloch(t *testing.T) {
	out, err := execute(t, bellJSON, "run", "--format", "json", "--bloch")
	require.NoError(t, err)

	var resp struct {
		Data report.Evolution `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Steps, 2)
	assert.Len(t, resp.Data.Steps[1].Bloch, 2)
	assert.Equal(t, 0.5, resp.Data.Steps[1].Bloch[0].Purity)
}

func TestRunYAMLAndQASMInputs(t *testing.T) {
	yamlPath := writeFile(t, "bell.yaml", `
circuit:
  - gate: H
    qubit: 0
  - gate: CNOT
    control: 0
    target: 1
`)
	out, err := execute(t, "", "run", yamlPath)
	require.NoError(t, err)
	assert.Contains(t, out, "step 1 CNOT(0→1)")

	qasmPath := writeFile(t, "bell.qasm", "OPENQASM 2.0;\nqreg q[3];\nh q[0];\ncx q[0], q[2];\n")
	out, err = execute(t, "", "run", qasmPath)
	require.NoError(t, err)
	assert.Contains(t, out, "circuit 3 qubits")
	assert.Contains(t, out, "|101>")
}

func TestRunCircuitErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		args  []string
		want  string
	}{
		{"unsupported gate", `[{"gate":"SWAP","qubit":0}]`, nil, `error UNSUPPORTED_GATE: step 0: unsupported gate "SWAP"`},
		{"missing control", `[{"gate":"CNOT","target":1}]`, nil, "error INVALID_OPERAND: step 0: CNOT control: missing"},
		{"too many qubits", `[{"gate":"H","qubit":3}]`, []string{"--max-qubits", "2"}, "error CIRCUIT_TOO_LARGE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"run"}, tt.args...)
			out, err := execute(t, tt.input, args...)
			require.Error(t, err)
			assert.Equal(t, ExitFailure, GetExitCode(err))
			assert.True(t, IsReported(err))
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestRunMissingFile(t *testing.T) {
	_, err := execute(t, "", "run", "/nonexistent/circuit.json")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestBlochCommand(t *testing.T) {
	out, err := execute(t, bellJSON, "bloch", "--per-step")
	require.NoError(t, err)
	assert.Contains(t, out, "step 0 H(0)")
	assert.Contains(t, out, "  q0  x=+1.0000  y=+0.0000  z=+0.0000  purity=1.0000")
	assert.Contains(t, out, "final")

	out, err = execute(t, bellJSON, "bloch", "--qubit", "1", "--format", "json")
	require.NoError(t, err)
	var resp struct {
		Data report.BlochReport `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &resp))
	require.Len(t, resp.Data.Qubits, 1)
	assert.Equal(t, 1, resp.Data.Qubits[0].Qubit)
	assert.Equal(t, 0.5, resp.Data.Qubits[0].Purity)
	assert.Empty(t, resp.Data.Steps)
}

func TestBlochQubitOutOfRange(t *testing.T) {
	out, err := execute(t, bellJSON, "bloch", "-q", "5")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "error RANGE_VIOLATION: qubit 5 out of range [0, 2)")
}

func TestQASMCommand(t *testing.T) {
	out, err := execute(t, bellJSON, "qasm")
	require.NoError(t, err)
	assert.Contains(t, out, "OPENQASM 2.0;")
	assert.Contains(t, out, "qreg q[2];")
	assert.Contains(t, out, "cx q[0], q[1];")

	qasmPath := writeFile(t, "bell.qasm", out)
	out, err = execute(t, "", "qasm", "--to", "yaml", qasmPath)
	require.NoError(t, err)
	assert.Contains(t, out, "gate: CNOT")
	assert.Contains(t, out, "control: 0")

	_, err = execute(t, bellJSON, "qasm", "--to", "latex")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}

func TestInspectDump(t *testing.T) {
	out, err := execute(t, bellJSON, "inspect", "--dump")
	require.NoError(t, err)
	assert.Contains(t, out, "H(0)")
	assert.Contains(t, out, "CNOT(0→1)")
	assert.Contains(t, out, "NumQubits: (int) 2")
}
