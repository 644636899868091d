// Package synth renders the generated artifacts for a validated enum:
// a count constant and a fixed-size variants array (or, for generic enums, a
// generic function returning that array). Rendering is deterministic: the
// same descriptor always produces byte-identical output.
package synth

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"

	"enumgen/internal/validate"
)

// Options controls the envelope around the rendered artifacts.
type Options struct {
	// PackageName is the package clause of the emitted file.
	PackageName string
	// Header is an optional comment line placed under the generated marker.
	Header string
}

// Fragment renders a complete gofmt'd Go source file holding the two
// artifacts for vt. It never fails on validated input; an error here means
// the renderer itself produced malformed Go and is a bug.
func Fragment(vt *validate.ValidatedType, opts Options) ([]byte, error) {
	var b bytes.Buffer

	b.WriteString("// Code generated by enumgen. DO NOT EDIT.\n")
	if opts.Header != "" {
		for _, line := range strings.Split(opts.Header, "\n") {
			fmt.Fprintf(&b, "// %s\n", line)
		}
	}
	fmt.Fprintf(&b, "\npackage %s\n\n", opts.PackageName)

	name := vt.Name
	count := len(vt.Variants)

	fmt.Fprintf(&b, "// %sCount is the number of variants of %s.\n", name, name)
	fmt.Fprintf(&b, "const %sCount = %d\n\n", name, count)

	if !vt.IsGeneric() {
		fmt.Fprintf(&b, "// %sVariants lists every variant of %s in declaration order.\n", name, name)
		fmt.Fprintf(&b, "var %sVariants = [%sCount]%s{%s}\n",
			name, name, name, variantValues(vt, nil))
	} else {
		params := make([]string, len(vt.Generics))
		args := make([]string, len(vt.Generics))
		for i, p := range vt.Generics {
			params[i] = p.Name + " " + p.Constraint
			args[i] = p.Name
		}
		instArgs := "[" + strings.Join(args, ", ") + "]"
		fmt.Fprintf(&b, "// %sVariantsOf lists every variant of %s in declaration order.\n", name, name)
		fmt.Fprintf(&b, "func %sVariantsOf[%s]() [%sCount]%s%s {\n",
			name, strings.Join(params, ", "), name, name, instArgs)
		fmt.Fprintf(&b, "\treturn [%sCount]%s%s{%s}\n",
			name, name, instArgs, variantValues(vt, args))
		b.WriteString("}\n")
	}

	out, err := format.Source(b.Bytes())
	if err != nil {
		return nil, fmt.Errorf("synth: generated fragment for %s does not parse: %w", name, err)
	}
	return out, nil
}

// variantValues renders the composite-literal entries, one per variant in
// declaration order. typeArgs instantiates generic variant types.
func variantValues(vt *validate.ValidatedType, typeArgs []string) string {
	if len(vt.Variants) == 0 {
		return ""
	}
	parts := make([]string, len(vt.Variants))
	for i, v := range vt.Variants {
		if v.Generic && len(typeArgs) > 0 {
			parts[i] = v.Name + "[" + strings.Join(typeArgs, ", ") + "]{}"
		} else {
			parts[i] = v.Name + "{}"
		}
	}
	return strings.Join(parts, ", ")
}
