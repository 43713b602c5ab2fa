package circuitio

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"qevolve/internal/quantum"
)

// Input formats accepted by Load.
const (
	FormatAuto = "auto"
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatQASM = "qasm"
)

// ValidFormats lists the accepted --input-format values.
var ValidFormats = []string{FormatAuto, FormatJSON, FormatYAML, FormatQASM}

// Load reads a circuit from path, or from stdin when path is "-" or empty.
// With FormatAuto the extension picks QASM (.qasm) or records (anything else).
func Load(path, format string, stdin io.Reader) (*quantum.Circuit, error) {
	var r io.Reader = stdin
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("circuitio: %w", err)
		}
		defer f.Close()
		r = f
	}
	return Read(r, resolveFormat(path, format))
}

// Read parses r in the given concrete format.
func Read(r io.Reader, format string) (*quantum.Circuit, error) {
	switch format {
	case FormatQASM:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("circuitio: read: %w", err)
		}
		return ParseQASM(string(data))
	case FormatJSON, FormatYAML, FormatAuto, "":
		doc, err := Decode(r)
		if err != nil {
			return nil, err
		}
		return doc.Build()
	}
	return nil, fmt.Errorf("circuitio: unknown input format %q (want one of %v)", format, ValidFormats)
}

func resolveFormat(path, format string) string {
	if format != "" && format != FormatAuto {
		return format
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".qasm":
		return FormatQASM
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}
