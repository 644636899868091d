// Package diagfmt renders diagnostics for terminals and machines.
package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"enumgen/internal/diag"
	"enumgen/internal/source"
)

var (
	errColor  = color.New(color.FgRed, color.Bold)
	warnColor = color.New(color.FgYellow, color.Bold)
	infoColor = color.New(color.FgCyan, color.Bold)
	codeColor = color.New(color.FgWhite, color.Bold)
	gutter    = color.New(color.FgBlue)
	underline = color.New(color.FgRed, color.Bold)
)

// Pretty renders diagnostics in a human-readable form. Call bag.Sort()
// beforehand for deterministic output. Each diagnostic prints as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <message>
//
// followed by the offending line with a ^~~~ underline and optional context
// lines, then its notes in the same layout.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	items := bag.Items()
	for i := range items {
		prettyOne(w, &items[i], fs, opts)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts) {
	printHeading(w, fs, d.Primary, d.Severity, d.Code, d.Message, opts)
	printSource(w, fs, d.Primary, opts)

	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		printHeading(w, fs, n.Span, diag.SevInfo, d.Code, "note: "+n.Msg, opts)
	}
}

func printHeading(w io.Writer, fs *source.FileSet, span source.Span, sev diag.Severity, code diag.Code, msg string, opts PrettyOpts) {
	file := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	path := file.FormatPath(opts.PathMode.mode(), fs.BaseDir())

	sevLabel := sev.String()
	codeLabel := code.ID()
	if opts.Color {
		sevLabel = sevColor(sev).Sprint(sevLabel)
		codeLabel = codeColor.Sprint(codeLabel)
	}
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n", path, start.Line, start.Col, sevLabel, codeLabel, msg)
}

// printSource prints context lines around the span and underlines the
// spanned text on its first line.
func printSource(w io.Writer, fs *source.FileSet, span source.Span, opts PrettyOpts) {
	file := fs.Get(span.File)
	start, end := fs.Resolve(span)

	first := int(start.Line) - opts.Context
	if first < 1 {
		first = 1
	}
	last := int(start.Line) + opts.Context

	for lineNum := first; lineNum <= last; lineNum++ {
		line := file.GetLine(uint32(lineNum))
		if line == "" && uint32(lineNum) != start.Line {
			continue
		}
		prefix := fmt.Sprintf("%5d | ", lineNum)
		if opts.Color {
			prefix = gutter.Sprint(prefix)
		}
		fmt.Fprintf(w, "%s%s\n", prefix, line)

		if uint32(lineNum) != start.Line {
			continue
		}
		marks := underlineFor(line, start, end)
		if marks == "" {
			continue
		}
		if opts.Color {
			marks = underline.Sprint(marks)
		}
		pad := strings.Repeat(" ", 5)
		bar := " | "
		if opts.Color {
			bar = gutter.Sprint(bar)
		}
		fmt.Fprintf(w, "%s%s%s\n", pad, bar, marks)
	}
}

// underlineFor builds the ^~~~ marker for the span's first line, accounting
// for wide runes in the prefix and in the spanned text.
func underlineFor(line string, start, end source.LineCol) string {
	col := int(start.Col)
	if col < 1 || col > len(line)+1 {
		return ""
	}
	prefixWidth := runewidth.StringWidth(line[:col-1])

	spanLen := 1
	if end.Line == start.Line && end.Col > start.Col {
		to := int(end.Col) - 1
		if to > len(line) {
			to = len(line)
		}
		spanLen = runewidth.StringWidth(line[col-1 : to])
		if spanLen < 1 {
			spanLen = 1
		}
	}

	return strings.Repeat(" ", prefixWidth) + "^" + strings.Repeat("~", spanLen-1)
}

func sevColor(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return errColor
	case diag.SevWarning:
		return warnColor
	default:
		return infoColor
	}
}
