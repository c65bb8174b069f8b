// Package output renders benchmark reports.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/torosent/reqbench/internal/history"
	"github.com/torosent/reqbench/internal/httpclient"
	"github.com/torosent/reqbench/internal/runner"
	"github.com/torosent/reqbench/internal/threshold"
)

// Language is the first column of every text result line.
const Language = "Go"

const (
	FormatText  = "text"
	FormatTable = "table"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
)

// PrintLine writes one result line: language, variant, mean, p99, p99.9 and
// max in milliseconds. verbose appends the mean worker loop span and the
// whole run time.
func PrintLine(w io.Writer, rep runner.Report, verbose bool) {
	s := rep.Summary
	fmt.Fprintf(w, "%10s\t%10s\t%8.2f\t%8.2f\t%8.2f\t%8.2f", Language, rep.Variant, s.Mean, s.P99, s.P999, s.Max)
	if verbose {
		fmt.Fprintf(w, "\t%8.2f\t%8.2f", s.LoopMean, s.Elapsed)
	}
	fmt.Fprintln(w)
}

// PrintTable renders reports as an aligned table.
func PrintTable(w io.Writer, reports []runner.Report, verbose bool) {
	table := tablewriter.NewWriter(w)
	header := []string{"Variant", "Kind", "Samples", "Mean ms", "P99 ms", "P99.9 ms", "Max ms"}
	if verbose {
		header = append(header, "P50 ms", "P90 ms", "StdDev ms", "Loop ms", "Bench ms")
	}
	table.SetHeader(header)
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	table.SetAutoFormatHeaders(false)

	for _, rep := range reports {
		s := rep.Summary
		row := []string{
			rep.Variant,
			string(rep.Kind),
			strconv.Itoa(s.Count),
			ms(s.Mean), ms(s.P99), ms(s.P999), ms(s.Max),
		}
		if verbose {
			row = append(row, ms(s.P50), ms(s.P90), ms(s.StdDev), ms(s.LoopMean), ms(s.Elapsed))
		}
		table.Append(row)
	}
	table.Render()
}

// PrintJSONReport outputs a JSON-formatted report list.
func PrintJSONReport(w io.Writer, reports []runner.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(reports)
}

// PrintYAMLReport outputs a YAML-formatted report list.
func PrintYAMLReport(w io.Writer, reports []runner.Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(reports); err != nil {
		return err
	}
	return enc.Close()
}

// PrintThresholdResults writes one line per gate, colored when w is a
// terminal.
func PrintThresholdResults(w io.Writer, variant string, results []threshold.Result) {
	if len(results) == 0 {
		return
	}
	pass := color.New(color.FgGreen)
	fail := color.New(color.FgRed, color.Bold)
	if IsTerminal(w) {
		pass.EnableColor()
		fail.EnableColor()
	} else {
		pass.DisableColor()
		fail.DisableColor()
	}

	fmt.Fprintf(w, "Thresholds (%s):\n", variant)
	for _, r := range results {
		c := pass
		if !r.Pass {
			c = fail
		}
		c.Fprintf(w, "  %s\n", r.Message)
	}
}

// IsTerminal reports whether w is an interactive terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func ms(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// PrintHistory renders stored runs as a table, oldest first.
func PrintHistory(w io.Writer, entries []history.Entry) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Run ID", "Started", "Language", "Variant", "Kind", "Workers", "Requests", "Mean ms", "P99 ms", "P99.9 ms", "Max ms"})
	table.SetAutoFormatHeaders(false)
	for _, e := range entries {
		table.Append([]string{
			e.RunID,
			e.Started.Local().Format("2006-01-02 15:04:05"),
			e.Language,
			e.Variant,
			e.Kind,
			strconv.Itoa(e.Workers),
			strconv.Itoa(e.RequestsPerWorker),
			ms(e.Mean), ms(e.P99), ms(e.P999), ms(e.Max),
		})
	}
	table.Render()
}

// PrintAdapters lists registered client adapters.
func PrintAdapters(w io.Writer, adapters []httpclient.Adapter) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Adapter", "Default kind", "Description"})
	table.SetAutoFormatHeaders(false)
	for _, a := range adapters {
		table.Append([]string{a.Name, string(a.Kind), a.Description})
	}
	table.Render()
}
