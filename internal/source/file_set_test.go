package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetAdd(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("a.go", []byte("package a\n"), 0)
	if id1 != 0 {
		t.Errorf("expected first FileID to be 0, got %d", id1)
	}
	id2 := fs.Add("b.go", []byte("package b\n"), 0)
	if id2 != 1 {
		t.Errorf("expected second FileID to be 1, got %d", id2)
	}
	if fs.Len() != 2 {
		t.Errorf("expected 2 files, got %d", fs.Len())
	}

	f := fs.Get(id1)
	if string(f.Content) != "package a\n" {
		t.Errorf("unexpected content %q", f.Content)
	}
	if f.Path != "a.go" {
		t.Errorf("unexpected path %q", f.Path)
	}
}

func TestFileSetGetByPath(t *testing.T) {
	fs := NewFileSet()
	fs.Add("pkg/x.go", []byte("package x\n"), 0)

	if _, ok := fs.GetByPath("pkg/x.go"); !ok {
		t.Error("expected to find pkg/x.go")
	}
	// Lookup normalizes the path first.
	if _, ok := fs.GetByPath("pkg/./x.go"); !ok {
		t.Error("expected normalized lookup to find pkg/x.go")
	}
	if _, ok := fs.GetByPath("pkg/y.go"); ok {
		t.Error("did not expect to find pkg/y.go")
	}
}

func TestFileSetAddVirtual(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("mem.go", []byte("a\nb\n"))
	f := fs.Get(id)

	if f.Flags&FileVirtual == 0 {
		t.Error("expected FileVirtual flag to be set")
	}
	want := []uint32{1, 3}
	if len(f.LineIdx) != len(want) {
		t.Fatalf("expected line index length %d, got %d", len(want), len(f.LineIdx))
	}
	for i, v := range want {
		if f.LineIdx[i] != v {
			t.Errorf("LineIdx[%d] = %d, want %d", i, f.LineIdx[i], v)
		}
	}
}

func TestFileSetLoadNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "crlf.go")
	raw := []byte{0xEF, 0xBB, 0xBF}
	raw = append(raw, []byte("package a\r\nvar X = 1\r\n")...)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)

	if f.Flags&FileHadBOM == 0 {
		t.Error("expected FileHadBOM flag")
	}
	if f.Flags&FileNormalizedCRLF == 0 {
		t.Error("expected FileNormalizedCRLF flag")
	}
	if string(f.Content) != "package a\nvar X = 1\n" {
		t.Errorf("unexpected normalized content %q", f.Content)
	}
}

func TestNormalizeOffset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "win.go")
	// Raw layout: BOM(3) "abc\r\n"(5) "de\r\n"(4) "f"
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("abc\r\nde\r\nf")...)
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if string(f.Content) != "abc\nde\nf" {
		t.Fatalf("unexpected normalized content %q", f.Content)
	}

	tests := []struct {
		raw  uint32
		want uint32
	}{
		{0, 0},  // inside the BOM
		{3, 0},  // 'a'
		{5, 2},  // 'c'
		{8, 4},  // 'd', past the first CR
		{12, 7}, // 'f', past both CRs
	}
	for _, tt := range tests {
		if got := f.NormalizeOffset(tt.raw); got != tt.want {
			t.Errorf("NormalizeOffset(%d) = %d, want %d", tt.raw, got, tt.want)
		}
	}

	// A translated offset lands on the right line and column.
	start, _ := fs.Resolve(Span{File: id, Start: f.NormalizeOffset(12), End: f.NormalizeOffset(13)})
	if start.Line != 3 || start.Col != 1 {
		t.Errorf("resolved %d:%d, want 3:1", start.Line, start.Col)
	}
}

func TestNormalizeOffsetPlainFile(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("plain.go", []byte("ab\ncd\n"))
	f := fs.Get(id)
	for _, off := range []uint32{0, 3, 5} {
		if got := f.NormalizeOffset(off); got != off {
			t.Errorf("NormalizeOffset(%d) = %d, want identity", off, got)
		}
	}
}

func TestFileSetResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("r.go", []byte("one\ntwo\nthree\n"))

	// "two" occupies bytes 4..7 on line 2.
	start, end := fs.Resolve(Span{File: id, Start: 4, End: 7})
	if start.Line != 2 || start.Col != 1 {
		t.Errorf("start = %d:%d, want 2:1", start.Line, start.Col)
	}
	if end.Line != 2 || end.Col != 4 {
		t.Errorf("end = %d:%d, want 2:4", end.Line, end.Col)
	}
}

func TestFileGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("l.go", []byte("first\nsecond\nlast"))
	f := fs.Get(id)

	tests := []struct {
		line uint32
		want string
	}{
		{0, ""},
		{1, "first"},
		{2, "second"},
		{3, "last"},
		{4, ""},
	}
	for _, tt := range tests {
		if got := f.GetLine(tt.line); got != tt.want {
			t.Errorf("GetLine(%d) = %q, want %q", tt.line, got, tt.want)
		}
	}
}

func TestFormatPath(t *testing.T) {
	f := &File{Path: "sub/file.go"}

	if got := f.FormatPath("basename", ""); got != "file.go" {
		t.Errorf("basename = %q, want file.go", got)
	}
	if got := f.FormatPath("auto", ""); got != "sub/file.go" {
		t.Errorf("auto = %q, want sub/file.go", got)
	}

	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	abs := filepath.ToSlash(filepath.Join(wd, "sub", "file.go"))
	if got := f.FormatPath("absolute", ""); got != abs {
		t.Errorf("absolute = %q, want %q", got, abs)
	}
	if got := f.FormatPath("relative", wd); got != "sub/file.go" {
		t.Errorf("relative = %q, want sub/file.go", got)
	}
}

func TestFileSetBaseDir(t *testing.T) {
	fs := NewFileSet()
	fs.SetBaseDir("/tmp/project")
	if got := fs.BaseDir(); got != "/tmp/project" {
		t.Errorf("BaseDir() = %q, want /tmp/project", got)
	}
}
