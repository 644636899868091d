// Package descriptor holds the parsed description of a marked type as the
// front end hands it to validation. Descriptors are constructed once during
// inspection and never mutated afterwards.
package descriptor

import (
	"enumgen/internal/source"
)

// Shape classifies the data a variant carries.
type Shape uint8

const (
	// ShapeUnit is a variant with no data (an empty struct).
	ShapeUnit Shape = iota
	// ShapePositional is a variant whose underlying type carries unnamed
	// data (array, slice, basic type, ...).
	ShapePositional
	// ShapeLabeled is a variant declared as a struct with named fields.
	ShapeLabeled
)

func (s Shape) String() string {
	switch s {
	case ShapeUnit:
		return "unit"
	case ShapePositional:
		return "positional"
	case ShapeLabeled:
		return "labeled"
	}
	return "unknown"
}

// Markers is the set of enumgen directives attached to a declaration.
type Markers uint8

const (
	// MarkerDerive selects a type for artifact generation (//enumgen:derive).
	MarkerDerive Markers = 1 << iota
	// MarkerOpen flags a type or variant as open for extension
	// (//enumgen:open).
	MarkerOpen
)

func (m Markers) Has(flag Markers) bool {
	return m&flag != 0
}

// TargetKind tells what kind of type declaration carried the derive marker.
type TargetKind uint8

const (
	// KindEnum is an interface-based sum type, the only valid target.
	KindEnum TargetKind = iota
	KindStruct
	KindAlias
	KindFunc
	KindOther
)

func (k TargetKind) String() string {
	switch k {
	case KindEnum:
		return "enum"
	case KindStruct:
		return "struct"
	case KindAlias:
		return "alias"
	case KindFunc:
		return "func"
	}
	return "non-enum type"
}

// TypeParam is one generic parameter of the marked type.
type TypeParam struct {
	Name       string
	Constraint string
}

// VariantDescriptor describes one member of the enum.
type VariantDescriptor struct {
	Name    string
	Shape   Shape
	Markers Markers
	// Generic is set when the variant type declares its own type
	// parameters and must be instantiated with the enum's parameters.
	Generic bool
	Span    source.Span
}

// TypeDescriptor describes the marked type under transformation.
// Variants preserve declaration order end-to-end; an empty Variants slice is
// legal and yields a count of zero.
type TypeDescriptor struct {
	Name     string
	Kind     TargetKind
	Generics []TypeParam
	Variants []VariantDescriptor
	Markers  Markers
	Span     source.Span
}

// IsGeneric reports whether the type declares type parameters.
func (td *TypeDescriptor) IsGeneric() bool {
	return len(td.Generics) > 0
}
