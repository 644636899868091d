package diagfmt

import (
	"encoding/json"
	"io"

	"enumgen/internal/diag"
	"enumgen/internal/source"
)

// DiagnosticJSON is the wire shape of one diagnostic.
type DiagnosticJSON struct {
	Severity string     `json:"severity"`
	Code     string     `json:"code"`
	Path     string     `json:"path"`
	Line     uint32     `json:"line"`
	Column   uint32     `json:"column"`
	Message  string     `json:"message"`
	Notes    []NoteJSON `json:"notes,omitempty"`
}

// NoteJSON is the wire shape of a diagnostic note.
type NoteJSON struct {
	Path    string `json:"path"`
	Line    uint32 `json:"line"`
	Column  uint32 `json:"column"`
	Message string `json:"message"`
}

// BuildJSON converts diagnostics into their wire shape.
func BuildJSON(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) []DiagnosticJSON {
	items := bag.Items()
	out := make([]DiagnosticJSON, 0, len(items))
	for i := range items {
		d := &items[i]
		path, pos := locate(fs, d.Primary, opts.PathMode)
		dj := DiagnosticJSON{
			Severity: d.Severity.String(),
			Code:     d.Code.ID(),
			Path:     path,
			Line:     pos.Line,
			Column:   pos.Col,
			Message:  d.Message,
		}
		if opts.IncludeNotes {
			for _, n := range d.Notes {
				npath, npos := locate(fs, n.Span, opts.PathMode)
				dj.Notes = append(dj.Notes, NoteJSON{
					Path:    npath,
					Line:    npos.Line,
					Column:  npos.Col,
					Message: n.Msg,
				})
			}
		}
		out = append(out, dj)
	}
	return out
}

// JSON writes diagnostics as an indented JSON array.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildJSON(bag, fs, opts))
}

func locate(fs *source.FileSet, span source.Span, mode PathMode) (string, source.LineCol) {
	file := fs.Get(span.File)
	start, _ := fs.Resolve(span)
	return file.FormatPath(mode.mode(), fs.BaseDir()), start
}
