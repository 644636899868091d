package diag

import "testing"

func TestCodeID(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{EnumInvalidTarget, "ENUM1001"},
		{EnumOpenExtension, "ENUM1002"},
		{EnumNonUnitVariant, "ENUM1003"},
		{InsPackageBroken, "INS2001"},
		{InsDirectiveUnknown, "INS2002"},
		{IOLoadFileError, "IO4001"},
		{IOWriteFileError, "IO4002"},
		{UnknownCode, "E0000"},
		{Code(9999), "E0000"},
	}
	for _, tt := range tests {
		if got := tt.code.ID(); got != tt.want {
			t.Errorf("Code(%d).ID() = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestCodeTitle(t *testing.T) {
	if got := EnumNonUnitVariant.Title(); got != "Only unit variants are supported" {
		t.Errorf("unexpected title %q", got)
	}
	// Unmapped codes fall back to the unknown description.
	if got := Code(1234).Title(); got != "Unknown error" {
		t.Errorf("unexpected fallback title %q", got)
	}
}

func TestCodeString(t *testing.T) {
	want := "[ENUM1001]: Target is not an interface-based enum"
	if got := EnumInvalidTarget.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
