package server

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qevolve/internal/logging"
	"qevolve/internal/report"
)

const bell = `{"circuit":[{"gate":"H","qubit":0},{"gate":"CNOT","control":0,"target":1}]}`

func newTestServer(t *testing.T, maxQubits int) *httptest.Server {
	t.Helper()
	s := New(logging.NewNop(), Options{MaxQubits: maxQubits, Registry: prometheus.NewRegistry()})
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	return ts
}

func post(t *testing.T, ts *httptest.Server, path, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(ts.URL+path, "application/json", strings.NewReader(body))
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, 0)
	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestSimulateBell(t *testing.T) {
	ts := newTestServer(t, 0)
	resp := post(t, ts, "/simulate", bell)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Run-ID"))

	out := decode[report.FinalState](t, resp)
	assert.Equal(t, 2, out.NumQubits)
	require.Len(t, out.Amplitudes, 4)
	assert.InDelta(t, 0.70710678, out.Amplitudes[0].Re, 1e-6)
	assert.Equal(t, 0.0, out.Amplitudes[1].Re)
	assert.Equal(t, 0.0, out.Amplitudes[2].Re)
	assert.InDelta(t, 0.70710678, out.Amplitudes[3].Re, 1e-6)

	require.Len(t, out.Bloch, 2)
	for _, b := range out.Bloch {
		assert.Equal(t, 0.0, b.X)
		assert.Equal(t, 0.0, b.Y)
		assert.Equal(t, 0.0, b.Z)
		assert.Equal(t, 0.5, b.Purity)
	}
}

func TestStateEvolution(t *testing.T) {
	ts := newTestServer(t, 0)
	resp := post(t, ts, "/state-evolution", `{"circuit":[{"gate":"H","qubit":0},{"gate":"CNOT","control":0,"target":1}],"per_step":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[report.Evolution](t, resp)
	assert.Equal(t, 2, out.NumQubits)
	assert.Equal(t, 2, out.Depth)
	require.Len(t, out.Steps, 2)
	assert.Equal(t, "H", out.Steps[0].Gate.Gate)
	assert.Equal(t, "CNOT", out.Steps[1].Gate.Gate)
	assert.Len(t, out.Steps[0].Bloch, 2)
	assert.Equal(t, report.Amplitude{Re: 1}, out.Initial[0])
}

func TestBlochPerStep(t *testing.T) {
	ts := newTestServer(t, 0)
	resp := post(t, ts, "/bloch", `{"circuit":[{"gate":"H","qubit":0},{"gate":"S","qubit":0}],"per_step":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[report.BlochReport](t, resp)
	require.Len(t, out.Qubits, 1)
	assert.InDelta(t, 1.0, out.Qubits[0].Y, 1e-9)
	require.Len(t, out.Steps, 2)
	assert.InDelta(t, 1.0, out.Steps[0].Qubits[0].X, 1e-9)
}

func TestQASMExport(t *testing.T) {
	ts := newTestServer(t, 0)
	resp := post(t, ts, "/qasm", bell)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[map[string]string](t, resp)
	assert.Contains(t, out["qasm"], "qreg q[2];")
	assert.Contains(t, out["qasm"], "cx q[0], q[1];")
}

func TestEmptyCircuit(t *testing.T) {
	ts := newTestServer(t, 0)
	resp := post(t, ts, "/state-evolution", `{"circuit":[]}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	out := decode[report.Evolution](t, resp)
	assert.Equal(t, 1, out.NumQubits)
	assert.Empty(t, out.Steps)
}

func TestCircuitErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		code   string
	}{
		{"bad json", `{"circuit":`, http.StatusBadRequest, "BAD_REQUEST"},
		{"unsupported gate", `{"circuit":[{"gate":"SWAP","qubit":0}]}`, http.StatusUnprocessableEntity, "UNSUPPORTED_GATE"},
		{"missing target", `{"circuit":[{"gate":"CNOT","control":0}]}`, http.StatusUnprocessableEntity, "INVALID_OPERAND"},
		{"negative qubit", `{"circuit":[{"gate":"X","qubit":-1}]}`, http.StatusUnprocessableEntity, "INVALID_OPERAND"},
		{"control equals target", `{"circuit":[{"gate":"CNOT","control":1,"target":1}]}`, http.StatusUnprocessableEntity, "INVALID_OPERAND"},
		{"qubit beyond declared register", `{"circuit":[{"gate":"H","qubit":3}],"qubits":2}`, http.StatusUnprocessableEntity, "INVALID_OPERAND"},
		{"too many qubits", `{"circuit":[{"gate":"H","qubit":9}]}`, http.StatusRequestEntityTooLarge, "CIRCUIT_TOO_LARGE"},
	}
	ts := newTestServer(t, 8)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := post(t, ts, "/simulate", tt.body)
			assert.Equal(t, tt.status, resp.StatusCode)
			out := decode[ErrorBody](t, resp)
			assert.Equal(t, tt.code, out.Error.Code)
			assert.NotEmpty(t, out.Error.Message)
		})
	}
}

func TestUnsupportedGateMessageNamesStep(t *testing.T) {
	ts := newTestServer(t, 0)
	resp := post(t, ts, "/simulate", `{"circuit":[{"gate":"H","qubit":0},{"gate":"RX","qubit":0}]}`)
	require.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	out := decode[ErrorBody](t, resp)
	assert.Equal(t, `step 1: unsupported gate "RX"`, out.Error.Message)
}

func TestMetricsExposed(t *testing.T) {
	ts := newTestServer(t, 0)
	post(t, ts, "/simulate", bell)
	post(t, ts, "/simulate", `{"circuit":[{"gate":"SWAP","qubit":0}]}`)

	resp, err := http.Get(ts.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `qevolve_http_requests_total{code="200",route="simulate"} 1`)
	assert.Contains(t, text, `qevolve_circuit_errors_total{code="UNSUPPORTED_GATE"} 1`)
	assert.Contains(t, text, "qevolve_evolution_duration_seconds_count 1")
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, 0)
	resp, err := http.Get(ts.URL + "/simulate")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
