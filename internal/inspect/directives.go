package inspect

import (
	"go/ast"
	"go/token"
	"strings"

	"enumgen/internal/descriptor"
)

const directivePrefix = "//enumgen:"

type unknownDirective struct {
	Name string
	Pos  token.Pos
	End  token.Pos
}

// parseDirectives extracts enumgen markers from a doc comment. A directive
// is a comment line of the form //enumgen:<name>, no space after the
// slashes, mirroring the go:generate convention. Unrecognized names are
// returned so the caller can warn about them.
func parseDirectives(doc *ast.CommentGroup) (descriptor.Markers, []unknownDirective) {
	if doc == nil {
		return 0, nil
	}

	var markers descriptor.Markers
	var unknown []unknownDirective
	for _, c := range doc.List {
		if !strings.HasPrefix(c.Text, directivePrefix) {
			continue
		}
		rest := strings.TrimPrefix(c.Text, directivePrefix)
		name := rest
		if i := strings.IndexAny(rest, " \t"); i >= 0 {
			name = rest[:i]
		}
		switch name {
		case "derive":
			markers |= descriptor.MarkerDerive
		case "open":
			markers |= descriptor.MarkerOpen
		default:
			unknown = append(unknown, unknownDirective{
				Name: name,
				Pos:  c.Pos(),
				End:  c.End(),
			})
		}
	}
	return markers, unknown
}

// docFor resolves the effective doc comment of a type spec: the spec's own
// doc wins, otherwise the enclosing declaration's doc applies when the decl
// holds a single spec.
func docFor(decl *ast.GenDecl, spec *ast.TypeSpec) *ast.CommentGroup {
	if spec.Doc != nil {
		return spec.Doc
	}
	if len(decl.Specs) == 1 {
		return decl.Doc
	}
	return nil
}
