// Package validate gates descriptors before synthesis. It is a total
// function: a descriptor either comes back wrapped as a ValidatedType or is
// rejected with exactly one diagnostic for the first violated rule. Synthesis
// only accepts ValidatedType, so it never has to fail.
package validate

import (
	"fmt"

	"enumgen/internal/descriptor"
	"enumgen/internal/diag"
)

// ValidatedType wraps a descriptor that passed every check: the target is an
// interface-based enum, no open-extension marker is present anywhere, and
// every variant is unit-shaped.
type ValidatedType struct {
	descriptor.TypeDescriptor
}

// Type checks a descriptor against the rules synthesis relies on, in fixed
// order, stopping at the first violation:
//
//  1. the target must be an interface-based enum
//  2. the type must not carry the open-extension marker
//  3. no variant may carry the open-extension marker (checked before that
//     variant's shape)
//  4. every variant must be unit-shaped
func Type(td *descriptor.TypeDescriptor) (*ValidatedType, *diag.Diagnostic) {
	if td.Kind != descriptor.KindEnum {
		d := diag.NewError(diag.EnumInvalidTarget, td.Span,
			fmt.Sprintf("cannot derive variants for %s: %s is not an interface-based enum", td.Name, td.Kind))
		return nil, &d
	}

	if td.Markers.Has(descriptor.MarkerOpen) {
		d := diag.NewError(diag.EnumOpenExtension, td.Span,
			fmt.Sprintf("enum %s is marked open for extension", td.Name)).
			WithNote(td.Span, "a compile-time count and variant list cannot account for variants added elsewhere")
		return nil, &d
	}

	for i := range td.Variants {
		v := &td.Variants[i]
		if v.Markers.Has(descriptor.MarkerOpen) {
			d := diag.NewError(diag.EnumOpenExtension, v.Span,
				fmt.Sprintf("variant %s is marked open for extension", v.Name))
			return nil, &d
		}
		if v.Shape != descriptor.ShapeUnit {
			d := diag.NewError(diag.EnumNonUnitVariant, v.Span,
				fmt.Sprintf("variant %s carries %s data; only unit variants are supported", v.Name, v.Shape))
			return nil, &d
		}
	}

	return &ValidatedType{TypeDescriptor: *td}, nil
}
