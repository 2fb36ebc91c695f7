// Package report renders a diagnostics.Sink for a human reading a
// terminal, separate from the core so the core itself stays free of any
// output format.
package report

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/nuxleus/closure-compiler/internal/config"
	"github.com/nuxleus/closure-compiler/internal/diagnostics"
)

const (
	ansiRed    = "\x1b[31m"
	ansiYellow = "\x1b[33m"
	ansiDim    = "\x1b[2m"
	ansiReset  = "\x1b[0m"
)

// Printer writes a sink's diagnostics to w, coloring by severity when w
// is a real terminal.
type Printer struct {
	Out    io.Writer
	Color  bool
	Config config.AnalysisConfig
}

// NewPrinter builds a Printer that auto-detects color support: isatty on
// the output file descriptor, also accepting a Windows Cygwin pty.
func NewPrinter(out *os.File, cfg config.AnalysisConfig) *Printer {
	color := isatty.IsTerminal(out.Fd()) || isatty.IsCygwinTerminal(out.Fd())
	return &Printer{Out: out, Color: color, Config: cfg}
}

// Print writes every non-suppressed diagnostic in sink, one per line.
func (p *Printer) Print(sink *diagnostics.Sink) {
	for _, d := range sink.All() {
		if p.Config.Suppressed(string(d.Code)) {
			continue
		}
		fmt.Fprintln(p.Out, p.format(d))
	}
}

func (p *Printer) format(d *diagnostics.DiagnosticError) string {
	if !p.Color {
		return d.Error()
	}
	color := ansiYellow
	switch d.Code {
	case diagnostics.ConstructorExpected, diagnostics.ObjectlitExpected, diagnostics.TypeMismatch:
		color = ansiRed
	}
	return fmt.Sprintf("%s%s%s %s[%s]%s", color, d.Error(), ansiReset, ansiDim, d.ID, ansiReset)
}
