package source

import (
	"bytes"
	"testing"
)

func TestNormalizeCRLF(t *testing.T) {
	tests := []struct {
		name        string
		in          string
		want        string
		wantChanged bool
	}{
		{"no carriage returns", "a\nb\n", "a\nb\n", false},
		{"crlf pairs", "a\r\nb\r\n", "a\nb\n", true},
		{"lone cr kept", "a\rb", "a\rb", false},
		{"mixed", "a\r\nb\rc\n", "a\nb\rc\n", true},
		{"trailing cr", "a\r", "a\r", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, changed := normalizeCRLF([]byte(tt.in))
			if string(got) != tt.want {
				t.Errorf("normalizeCRLF(%q) = %q, want %q", tt.in, got, tt.want)
			}
			if changed != tt.wantChanged {
				t.Errorf("normalizeCRLF(%q) changed = %v, want %v", tt.in, changed, tt.wantChanged)
			}
		})
	}
}

func TestRemoveBOM(t *testing.T) {
	withBOM := []byte{0xEF, 0xBB, 0xBF, 'h', 'i'}
	got, had := removeBOM(withBOM)
	if !had {
		t.Error("expected BOM to be detected")
	}
	if !bytes.Equal(got, []byte("hi")) {
		t.Errorf("expected %q, got %q", "hi", got)
	}

	plain := []byte("hi")
	got, had = removeBOM(plain)
	if had {
		t.Error("did not expect BOM in plain content")
	}
	if !bytes.Equal(got, plain) {
		t.Errorf("content changed: %q", got)
	}

	short := []byte{0xEF, 0xBB}
	if _, had := removeBOM(short); had {
		t.Error("partial BOM must not be stripped")
	}
}

func TestBuildLineIndex(t *testing.T) {
	idx := buildLineIndex([]byte("ab\nc\n\nd"))
	want := []uint32{2, 4, 5}
	if len(idx) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(idx))
	}
	for i, v := range want {
		if idx[i] != v {
			t.Errorf("idx[%d] = %d, want %d", i, idx[i], v)
		}
	}

	if got := buildLineIndex([]byte("no newline")); len(got) != 0 {
		t.Errorf("expected empty index, got %v", got)
	}
}

func TestToLineCol(t *testing.T) {
	// Content "ab\ncd\nef": newlines at offsets 2 and 5.
	idx := []uint32{2, 5}

	tests := []struct {
		off  uint32
		line uint32
		col  uint32
	}{
		{0, 1, 1},
		{1, 1, 2},
		{3, 2, 1},
		{4, 2, 2},
		{6, 3, 1},
		{7, 3, 2},
	}
	for _, tt := range tests {
		got := toLineCol(idx, tt.off)
		if got.Line != tt.line || got.Col != tt.col {
			t.Errorf("toLineCol(%d) = %d:%d, want %d:%d", tt.off, got.Line, got.Col, tt.line, tt.col)
		}
	}

	// Single-line file.
	got := toLineCol(nil, 7)
	if got.Line != 1 || got.Col != 8 {
		t.Errorf("toLineCol(nil, 7) = %d:%d, want 1:8", got.Line, got.Col)
	}
}

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"a/b/c.go", "a/b/c.go"},
		{"a/./b.go", "a/b.go"},
		{"a//b.go", "a/b.go"},
		{"a/x/../b.go", "a/b.go"},
	}
	for _, tt := range tests {
		if got := normalizePath(tt.in); got != tt.want {
			t.Errorf("normalizePath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
