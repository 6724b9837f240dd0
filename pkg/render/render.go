// Package render prints the tool's results. The plain format is line
// oriented and stable for scripts; the table format is meant for terminals.
package render

import (
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

type Format string

const (
	FormatAuto  Format = "auto"
	FormatPlain Format = "plain"
	FormatTable Format = "table"
)

// Span is an interval with its keys already formatted.
type Span struct {
	Start string
	End   string
}

func (s Span) String() string { return fmt.Sprintf("(%s, %s)", s.Start, s.End) }

type ClusterRow struct {
	Members []Span
	Window  Span
	Length  *big.Int
	Running *big.Int
	// Note is an optional description of the window, e.g. its CIDR prefixes.
	Note string
}

type Printer struct {
	w        io.Writer
	format   Format
	emphasis *color.Color
	clusters []ClusterRow
}

// NewPrinter resolves FormatAuto to the table format on terminals and to
// the plain format otherwise. Color is only used on terminals.
func NewPrinter(w io.Writer, format Format, terminal bool) *Printer {
	if format == FormatAuto || format == "" {
		format = FormatPlain
		if terminal {
			format = FormatTable
		}
	}
	emphasis := color.New(color.Bold, color.FgGreen)
	if !terminal {
		emphasis.DisableColor()
	}
	return &Printer{w: w, format: format, emphasis: emphasis}
}

func (p *Printer) Format() Format { return p.format }

// ScanBounds echoes explicitly requested scan bounds.
func (p *Printer) ScanBounds(start, end string) {
	if start != "" {
		fmt.Fprintf(p.w, "start: %s\n", start)
	}
	if end != "" {
		fmt.Fprintf(p.w, "end: %s\n", end)
	}
}

// Nodes lists the intervals found in the scan range.
func (p *Printer) Nodes(spans []Span) {
	if p.format == FormatTable {
		t := p.newTable()
		t.SetTitle("Tree nodes")
		t.AppendHeader(table.Row{"#", "Start", "End"})
		for i, s := range spans {
			t.AppendRow(table.Row{i + 1, s.Start, s.End})
		}
		t.Render()
		fmt.Fprintln(p.w)
		return
	}

	var b strings.Builder
	b.WriteString("Tree nodes:")
	for _, s := range spans {
		b.WriteString(" ")
		b.WriteString(s.String())
	}
	fmt.Fprintf(p.w, "%s\n\n", b.String())
}

// Cluster reports one closed cluster. The table format buffers rows until
// Total.
func (p *Printer) Cluster(row ClusterRow) {
	if p.format == FormatTable {
		p.clusters = append(p.clusters, row)
		return
	}

	var b strings.Builder
	b.WriteString("Count overlaps:")
	for _, m := range row.Members {
		b.WriteString(" ")
		b.WriteString(m.String())
	}
	fmt.Fprintf(p.w, "%s; wstart: %s wend: %s total: %s\n", b.String(), row.Window.Start, row.Window.End, row.Length)
}

func (p *Printer) Total(total *big.Int) {
	if p.format == FormatTable {
		t := p.newTable()
		t.SetTitle("Clusters")
		t.AppendHeader(table.Row{"#", "Start", "End", "Members", "Length", "Running total", "Note"})
		for i, c := range p.clusters {
			t.AppendRow(table.Row{i + 1, c.Window.Start, c.Window.End, len(c.Members),
				humanize.BigComma(c.Length), humanize.BigComma(c.Running), c.Note})
		}
		t.Render()
		p.clusters = nil
		p.emphasis.Fprintf(p.w, "Total nonoverlapping space: %s\n", humanize.BigComma(total))
		return
	}
	fmt.Fprintf(p.w, "Total nonoverapping space is %s\n", total)
}

// Verified reports the result of the independent sort-and-merge check.
func (p *Printer) Verified(tree, merged *big.Int) {
	if tree.Cmp(merged) == 0 {
		fmt.Fprintf(p.w, "Verified: sort-merge total %s matches\n", merged)
		return
	}
	fmt.Fprintf(p.w, "MISMATCH: tree total %s, sort-merge total %s\n", tree, merged)
}

func (p *Printer) newTable() table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(p.w)
	t.SetStyle(table.StyleLight)
	return t
}
