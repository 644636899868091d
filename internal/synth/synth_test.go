package synth

import (
	"bytes"
	"testing"

	"enumgen/internal/descriptor"
	"enumgen/internal/validate"
)

func validated(t *testing.T, td descriptor.TypeDescriptor) *validate.ValidatedType {
	t.Helper()
	vt, d := validate.Type(&td)
	if d != nil {
		t.Fatalf("descriptor failed validation: %s", d.Message)
	}
	return vt
}

func unitVariant(name string) descriptor.VariantDescriptor {
	return descriptor.VariantDescriptor{Name: name, Shape: descriptor.ShapeUnit}
}

func TestFragmentUnitEnum(t *testing.T) {
	vt := validated(t, descriptor.TypeDescriptor{
		Name: "Color",
		Kind: descriptor.KindEnum,
		Variants: []descriptor.VariantDescriptor{
			unitVariant("Red"), unitVariant("Green"), unitVariant("Blue"),
		},
	})

	got, err := Fragment(vt, Options{PackageName: "paint"})
	if err != nil {
		t.Fatalf("Fragment: %v", err)
	}

	want := `// Code generated by enumgen. DO NOT EDIT.

package paint

// ColorCount is the number of variants of Color.
const ColorCount = 3

// ColorVariants lists every variant of Color in declaration order.
var ColorVariants = [ColorCount]Color{Red{}, Green{}, Blue{}}
`
	if string(got) != want {
		t.Errorf("Fragment mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestFragmentEmptyEnum(t *testing.T) {
	vt := validated(t, descriptor.TypeDescriptor{
		Name: "Never",
		Kind: descriptor.KindEnum,
	})

	got, err := Fragment(vt, Options{PackageName: "void"})
	if err != nil {
		t.Fatalf("Fragment: %v", err)
	}

	want := `// Code generated by enumgen. DO NOT EDIT.

package void

// NeverCount is the number of variants of Never.
const NeverCount = 0

// NeverVariants lists every variant of Never in declaration order.
var NeverVariants = [NeverCount]Never{}
`
	if string(got) != want {
		t.Errorf("Fragment mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestFragmentGenericEnum(t *testing.T) {
	some := unitVariant("Some")
	some.Generic = true
	vt := validated(t, descriptor.TypeDescriptor{
		Name:     "Option",
		Kind:     descriptor.KindEnum,
		Generics: []descriptor.TypeParam{{Name: "T", Constraint: "any"}},
		Variants: []descriptor.VariantDescriptor{unitVariant("None"), some},
	})

	got, err := Fragment(vt, Options{PackageName: "opt"})
	if err != nil {
		t.Fatalf("Fragment: %v", err)
	}

	want := `// Code generated by enumgen. DO NOT EDIT.

package opt

// OptionCount is the number of variants of Option.
const OptionCount = 2

// OptionVariantsOf lists every variant of Option in declaration order.
func OptionVariantsOf[T any]() [OptionCount]Option[T] {
	return [OptionCount]Option[T]{None{}, Some[T]{}}
}
`
	if string(got) != want {
		t.Errorf("Fragment mismatch:\n--- got ---\n%s\n--- want ---\n%s", got, want)
	}
}

func TestFragmentHeader(t *testing.T) {
	vt := validated(t, descriptor.TypeDescriptor{
		Name:     "Mode",
		Kind:     descriptor.KindEnum,
		Variants: []descriptor.VariantDescriptor{unitVariant("On")},
	})

	got, err := Fragment(vt, Options{PackageName: "m", Header: "first line\nsecond line"})
	if err != nil {
		t.Fatalf("Fragment: %v", err)
	}
	if !bytes.Contains(got, []byte("// first line\n// second line\n")) {
		t.Errorf("header lines missing from fragment:\n%s", got)
	}
	if !bytes.HasPrefix(got, []byte("// Code generated by enumgen. DO NOT EDIT.\n")) {
		t.Errorf("generated marker must stay the first line:\n%s", got)
	}
}

func TestFragmentDeterministic(t *testing.T) {
	vt := validated(t, descriptor.TypeDescriptor{
		Name: "State",
		Kind: descriptor.KindEnum,
		Variants: []descriptor.VariantDescriptor{
			unitVariant("Idle"), unitVariant("Running"), unitVariant("Stopped"),
		},
	})

	first, err := Fragment(vt, Options{PackageName: "fsm"})
	if err != nil {
		t.Fatalf("Fragment: %v", err)
	}
	second, err := Fragment(vt, Options{PackageName: "fsm"})
	if err != nil {
		t.Fatalf("Fragment: %v", err)
	}
	if !bytes.Equal(first, second) {
		t.Error("repeated rendering produced different output")
	}
}

func TestFragmentPreservesDeclarationOrder(t *testing.T) {
	vt := validated(t, descriptor.TypeDescriptor{
		Name: "Suit",
		Kind: descriptor.KindEnum,
		Variants: []descriptor.VariantDescriptor{
			unitVariant("Spades"), unitVariant("Hearts"),
			unitVariant("Diamonds"), unitVariant("Clubs"),
		},
	})

	got, err := Fragment(vt, Options{PackageName: "cards"})
	if err != nil {
		t.Fatalf("Fragment: %v", err)
	}
	want := "{Spades{}, Hearts{}, Diamonds{}, Clubs{}}"
	if !bytes.Contains(got, []byte(want)) {
		t.Errorf("expected literal %q in fragment:\n%s", want, got)
	}
}
