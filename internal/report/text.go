package report

import (
	"fmt"
	"io"
	"math"
	"math/cmplx"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"qevolve/internal/quantum"
)

// TextWriter renders results for terminals.
type TextWriter struct {
	w      io.Writer
	styles styles
}

type styles struct {
	title lipgloss.Style
	step  lipgloss.Style
	gate  lipgloss.Style
	ket   lipgloss.Style
	dim   lipgloss.Style
}

// NewTextWriter returns a writer whose colors follow the capabilities of w.
// plain forces uncolored output.
func NewTextWriter(w io.Writer, plain bool) *TextWriter {
	r := lipgloss.NewRenderer(w)
	if plain {
		r.SetColorProfile(termenv.Ascii)
	}
	return &TextWriter{
		w: w,
		styles: styles{
			title: r.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff9e64")),
			step:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7aa2f7")),
			gate:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#73daca")),
			ket:   r.NewStyle().Foreground(lipgloss.Color("#7dcfff")),
			dim:   r.NewStyle().Foreground(lipgloss.Color("#565f89")),
		},
	}
}

// Summary writes the one-line circuit header.
func (t *TextWriter) Summary(c *quantum.Circuit) {
	fmt.Fprintf(t.w, "%s %d qubits, %d operations, depth %d\n",
		t.styles.title.Render("circuit"), c.NumQubits(), c.Len(), c.Depth())
}

// Evolution writes the header and the support of the state after each step.
func (t *TextWriter) Evolution(c *quantum.Circuit, trace []quantum.StepRecord) {
	t.Summary(c)
	fmt.Fprintf(t.w, "%s\n", t.styles.step.Render("initial"))
	t.support(quantum.InitialState(c))
	for _, rec := range trace {
		fmt.Fprintf(t.w, "%s %s\n",
			t.styles.step.Render(fmt.Sprintf("step %d", rec.Index)),
			t.styles.gate.Render(rec.Op.String()))
		t.support(rec.State)
	}
}

// FinalState writes the final support and per-qubit probabilities.
func (t *TextWriter) FinalState(c *quantum.Circuit, final *quantum.StateVector) {
	t.Summary(c)
	fmt.Fprintf(t.w, "%s\n", t.styles.step.Render("state"))
	t.support(final)
	fmt.Fprintf(t.w, "%s\n", t.styles.step.Render("probabilities"))
	for _, p := range Probabilities(final) {
		fmt.Fprintf(t.w, "  q%d  P(0)=%.4f  P(1)=%.4f\n", p.Qubit, p.P0, p.P1)
	}
}

// Bloch writes one line per qubit.
func (t *TextWriter) Bloch(title string, vectors []Bloch) {
	fmt.Fprintf(t.w, "%s\n", t.styles.step.Render(title))
	for _, b := range vectors {
		fmt.Fprintf(t.w, "  q%d  x=%s  y=%s  z=%s  purity=%.4f  %s\n",
			b.Qubit, FormatSigned(b.X), FormatSigned(b.Y), FormatSigned(b.Z), b.Purity,
			t.styles.dim.Render(fmt.Sprintf("theta=%s phi=%s", FormatPhase(b.Theta), FormatPhase(b.Phi))))
	}
}

// Error writes a failure line coded by the engine's error taxonomy.
func (t *TextWriter) Error(err error) {
	t.Failure(quantum.ErrorCode(err), err)
}

// Failure writes a failure line with an explicit code.
func (t *TextWriter) Failure(code string, err error) {
	fmt.Fprintf(t.w, "%s %s: %v\n", t.styles.title.Render("error"), code, err)
}

func (t *TextWriter) support(s *quantum.StateVector) {
	for _, b := range s.Support() {
		amp := Amplitude{Re: real(b.Amplitude), Im: imag(b.Amplitude)}
		fmt.Fprintf(t.w, "    %s  %s  p=%.4f  phase=%s\n",
			t.styles.ket.Render("|"+quantum.BasisLabel(b.BasisState, s.NumQubits)+">"),
			FormatComplex(amp), b.Prob, FormatPhase(phase(b.Amplitude)))
	}
}

func phase(a quantum.Complex) float64 {
	if cmplx.Abs(a) < quantum.Tolerance {
		return 0
	}
	p := cmplx.Phase(a)
	if math.Abs(p) < 1e-12 {
		return 0
	}
	return p
}
