package inspect

import (
	"go/ast"
	"go/parser"
	"go/token"
	"path/filepath"
	"testing"

	"golang.org/x/tools/go/packages"

	"enumgen/internal/diag"
	"enumgen/internal/source"
)

func TestInspectPackageReportsUnreadableFile(t *testing.T) {
	// The syntax tree names a file that does not exist on disk, so spans
	// cannot be anchored and inspection must give up on the package.
	fset := token.NewFileSet()
	path := filepath.Join(t.TempDir(), "missing.go")
	astFile, err := parser.ParseFile(fset, path, "package p\n", 0)
	if err != nil {
		t.Fatal(err)
	}
	pkg := &packages.Package{
		PkgPath: "example.com/p",
		Name:    "p",
		Fset:    fset,
		Syntax:  []*ast.File{astFile},
	}

	ins, err := inspectPackage(source.NewFileSet(), pkg, 10)
	if err != nil {
		t.Fatalf("inspectPackage: %v", err)
	}
	if len(ins.LoadErrors) == 0 {
		t.Error("expected the read failure to be recorded")
	}

	found := false
	for _, d := range ins.Bag.Items() {
		if d.Code == diag.IOLoadFileError {
			found = true
		}
	}
	if !found {
		t.Error("expected an IOLoadFileError diagnostic")
	}
	if len(ins.Types) != 0 {
		t.Errorf("expected no descriptors, got %d", len(ins.Types))
	}
}
