package output

import (
	"fmt"
	"io"

	"github.com/torosent/reqbench/internal/runner"
)

// Printer receives reports as runs complete. Text output is written
// immediately; the other formats are rendered as one document by Flush.
type Printer struct {
	w       io.Writer
	format  string
	verbose bool
	reports []runner.Report
}

func NewPrinter(w io.Writer, format string, verbose bool) (*Printer, error) {
	switch format {
	case "":
		format = FormatText
	case FormatText, FormatTable, FormatJSON, FormatYAML:
	default:
		return nil, fmt.Errorf("unsupported output format %q", format)
	}
	return &Printer{w: w, format: format, verbose: verbose}, nil
}

// Streaming reports whether reports appear before Flush.
func (p *Printer) Streaming() bool {
	return p.format == FormatText
}

func (p *Printer) Print(rep runner.Report) {
	if p.Streaming() {
		PrintLine(p.w, rep, p.verbose)
		return
	}
	p.reports = append(p.reports, rep)
}

func (p *Printer) Flush() error {
	reports := p.reports
	p.reports = nil
	switch p.format {
	case FormatTable:
		if len(reports) > 0 {
			PrintTable(p.w, reports, p.verbose)
		}
	case FormatJSON:
		if reports == nil {
			reports = []runner.Report{}
		}
		return PrintJSONReport(p.w, reports)
	case FormatYAML:
		if reports == nil {
			reports = []runner.Report{}
		}
		return PrintYAMLReport(p.w, reports)
	}
	return nil
}
