// Package inspect is the front end of the generator: it loads Go packages,
// finds type declarations carrying the //enumgen:derive directive, collects
// their variants in declaration order, and hands validation a descriptor per
// marked type. Inspection trusts the Go type checker for name resolution but
// leaves every enum rule to the validate package.
package inspect

import (
	"context"
	"fmt"
	"go/ast"
	"go/token"
	"go/types"
	"path/filepath"
	"sort"

	"golang.org/x/tools/go/packages"

	"enumgen/internal/descriptor"
	"enumgen/internal/diag"
	"enumgen/internal/source"
)

// Options configures package loading.
type Options struct {
	// Dir is the working directory for pattern resolution ("" = cwd).
	Dir string
	// BuildFlags are passed through to the underlying build system.
	BuildFlags []string
	// MaxDiagnostics caps each package's diagnostic bag.
	MaxDiagnostics int
}

// Package is the inspection result for one loaded package.
type Package struct {
	PkgPath string
	Name    string
	Dir     string
	// GoFiles are the package's source files in the deterministic order
	// inspection walked them.
	GoFiles []string
	// FileIDs are the FileSet ids for GoFiles, index-aligned.
	FileIDs []source.FileID
	// Types are the descriptors of every marked type, in declaration order.
	Types []descriptor.TypeDescriptor
	// Bag collects this package's diagnostics; inspection seeds it with
	// directive warnings and later stages keep adding to it.
	Bag *diag.Bag
	// LoadErrors carries loader/type-checker messages. Inspection still
	// proceeds on partial type information; the driver surfaces these.
	LoadErrors []string
}

// Digest folds the package's file hashes into a single content digest,
// usable as a cache key component. Files matched by skip are left out, so a
// generator can keep its own outputs from feeding the key.
func (p *Package) Digest(fs *source.FileSet, skip func(path string) bool) [32]byte {
	var out [32]byte
	for i, id := range p.FileIDs {
		if skip != nil && skip(p.GoFiles[i]) {
			continue
		}
		h := fs.Get(id).Hash
		for i := range out {
			out[i] ^= h[i]
		}
		// Rotate so ordering matters.
		carry := out[31]
		copy(out[1:], out[:31])
		out[0] = carry
	}
	return out
}

// Load resolves patterns into packages and inspects each of them. Loaded
// file contents are registered in fs so diagnostic spans resolve to
// line/column positions.
func Load(ctx context.Context, fs *source.FileSet, patterns []string, opts Options) ([]*Package, error) {
	if opts.MaxDiagnostics <= 0 {
		opts.MaxDiagnostics = 100
	}
	cfg := &packages.Config{
		Context: ctx,
		Mode: packages.NeedName | packages.NeedFiles | packages.NeedCompiledGoFiles |
			packages.NeedSyntax | packages.NeedTypes | packages.NeedTypesInfo,
		Dir:        opts.Dir,
		BuildFlags: opts.BuildFlags,
	}
	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("load packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages matched %v", patterns)
	}

	out := make([]*Package, 0, len(pkgs))
	for _, pkg := range pkgs {
		ins, err := inspectPackage(fs, pkg, opts.MaxDiagnostics)
		if err != nil {
			return nil, err
		}
		out = append(out, ins)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PkgPath < out[j].PkgPath })
	return out, nil
}

type syntaxFile struct {
	path string
	ast  *ast.File
	id   source.FileID
}

func inspectPackage(fs *source.FileSet, pkg *packages.Package, maxDiagnostics int) (*Package, error) {
	ins := &Package{
		PkgPath: pkg.PkgPath,
		Name:    pkg.Name,
		Bag:     diag.NewBag(maxDiagnostics),
	}
	for _, e := range pkg.Errors {
		ins.LoadErrors = append(ins.LoadErrors, e.Error())
	}

	files := make([]syntaxFile, 0, len(pkg.Syntax))
	for _, f := range pkg.Syntax {
		tf := pkg.Fset.File(f.Pos())
		if tf == nil {
			continue
		}
		files = append(files, syntaxFile{path: tf.Name(), ast: f})
	}
	// Declaration order across files follows file-name order, matching how
	// the go tool presents a package.
	sort.Slice(files, func(i, j int) bool { return files[i].path < files[j].path })

	for i := range files {
		id, ok := fileID(fs, files[i].path)
		if !ok {
			loaded, err := fs.Load(files[i].path)
			if err != nil {
				// Descriptors built from files we cannot anchor spans
				// into would misplace every later diagnostic; give up
				// on the package instead.
				ins.LoadErrors = append(ins.LoadErrors, err.Error())
				ins.Bag.Add(diag.NewError(diag.IOLoadFileError,
					source.Span{File: fs.AddVirtual(files[i].path, nil)},
					fmt.Sprintf("read %s: %v", files[i].path, err)))
				return ins, nil
			}
			id = loaded
		}
		files[i].id = id
		ins.GoFiles = append(ins.GoFiles, files[i].path)
		ins.FileIDs = append(ins.FileIDs, id)
	}
	if len(ins.GoFiles) > 0 {
		ins.Dir = filepath.Dir(ins.GoFiles[0])
	}
	if len(ins.LoadErrors) > 0 && len(ins.FileIDs) > 0 {
		ins.Bag.Add(diag.NewError(diag.InsPackageBroken,
			source.Span{File: ins.FileIDs[0]},
			fmt.Sprintf("package %s did not load cleanly; generated output may be incomplete", pkg.PkgPath)))
	}

	w := walker{
		fs:       fs,
		reporter: diag.BagReporter{Bag: ins.Bag},
		pkg:      pkg,
		files:    files,
	}
	w.collect()
	ins.Types = w.buildDescriptors()
	return ins, nil
}

func fileID(fs *source.FileSet, path string) (source.FileID, bool) {
	if f, ok := fs.GetByPath(path); ok {
		return f.ID, true
	}
	return 0, false
}

// typeDecl is one package-level type spec in declaration order.
type typeDecl struct {
	file    *syntaxFile
	decl    *ast.GenDecl
	spec    *ast.TypeSpec
	markers descriptor.Markers
}

type walker struct {
	fs       *source.FileSet
	reporter diag.Reporter
	pkg      *packages.Package
	files    []syntaxFile

	decls []typeDecl
}

func (w *walker) collect() {
	for i := range w.files {
		file := &w.files[i]
		for _, d := range file.ast.Decls {
			gd, ok := d.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, s := range gd.Specs {
				spec, ok := s.(*ast.TypeSpec)
				if !ok {
					continue
				}
				markers, unknown := parseDirectives(docFor(gd, spec))
				for _, u := range unknown {
					w.reporter.Report(diag.InsDirectiveUnknown, diag.SevWarning,
						w.span(file, u.Pos, u.End),
						fmt.Sprintf("unknown enumgen directive %q", u.Name), nil)
				}
				w.decls = append(w.decls, typeDecl{
					file:    file,
					decl:    gd,
					spec:    spec,
					markers: markers,
				})
			}
		}
	}
}

func (w *walker) buildDescriptors() []descriptor.TypeDescriptor {
	var out []descriptor.TypeDescriptor
	for _, td := range w.decls {
		if !td.markers.Has(descriptor.MarkerDerive) {
			continue
		}
		out = append(out, w.describe(td))
	}
	return out
}

func (w *walker) describe(td typeDecl) descriptor.TypeDescriptor {
	desc := descriptor.TypeDescriptor{
		Name:    td.spec.Name.Name,
		Kind:    targetKind(td.spec),
		Markers: td.markers,
		Span:    w.span(td.file, td.spec.Name.Pos(), td.spec.Name.End()),
	}
	desc.Generics = typeParams(td.spec)
	if desc.Kind == descriptor.KindEnum {
		desc.Variants = w.variantsOf(td)
	}
	return desc
}

func targetKind(spec *ast.TypeSpec) descriptor.TargetKind {
	if spec.Assign.IsValid() {
		return descriptor.KindAlias
	}
	switch spec.Type.(type) {
	case *ast.InterfaceType:
		return descriptor.KindEnum
	case *ast.StructType:
		return descriptor.KindStruct
	case *ast.FuncType:
		return descriptor.KindFunc
	default:
		return descriptor.KindOther
	}
}

func typeParams(spec *ast.TypeSpec) []descriptor.TypeParam {
	if spec.TypeParams == nil {
		return nil
	}
	var out []descriptor.TypeParam
	for _, field := range spec.TypeParams.List {
		constraint := types.ExprString(field.Type)
		for _, name := range field.Names {
			out = append(out, descriptor.TypeParam{
				Name:       name.Name,
				Constraint: constraint,
			})
		}
	}
	return out
}

// variantsOf walks every package-level type spec in declaration order and
// keeps the ones whose value type satisfies the marked interface. Interface
// and alias declarations are never variants: they cannot appear as
// composite-literal values.
func (w *walker) variantsOf(enum typeDecl) []descriptor.VariantDescriptor {
	iface := w.lookupInterface(enum.spec.Name.Name)

	var out []descriptor.VariantDescriptor
	for _, cand := range w.decls {
		if cand.spec == enum.spec || cand.spec.Assign.IsValid() {
			continue
		}
		if _, isIface := cand.spec.Type.(*ast.InterfaceType); isIface {
			continue
		}
		if !w.satisfies(cand, enum, iface) {
			continue
		}
		out = append(out, descriptor.VariantDescriptor{
			Name:    cand.spec.Name.Name,
			Shape:   variantShape(cand.spec),
			Markers: cand.markers,
			Generic: cand.spec.TypeParams != nil,
			Span:    w.span(cand.file, cand.spec.Name.Pos(), cand.spec.Name.End()),
		})
	}
	return out
}

func (w *walker) lookupInterface(name string) *types.Interface {
	scope := w.pkg.Types.Scope()
	obj := scope.Lookup(name)
	if obj == nil {
		return nil
	}
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return nil
	}
	iface, ok := named.Underlying().(*types.Interface)
	if !ok {
		return nil
	}
	return iface
}

// satisfies reports whether the candidate's value type implements the enum
// interface. Non-generic pairs go through the type checker; once type
// parameters are involved, instantiation-free method-name matching is used
// (sealed enums use unexported marker methods, so names are decisive within
// the package). Pointer-receiver-only implementations are rejected: their
// array entry could not be a unit value.
func (w *walker) satisfies(cand, enum typeDecl, iface *types.Interface) bool {
	obj := w.pkg.Types.Scope().Lookup(cand.spec.Name.Name)
	if obj == nil {
		return false
	}
	named, ok := obj.Type().(*types.Named)
	if !ok {
		return false
	}

	generic := cand.spec.TypeParams != nil || enum.spec.TypeParams != nil
	if !generic && iface != nil {
		if iface.NumMethods() == 0 {
			// Every type implements interface{}; an empty marker
			// interface selects nothing.
			return false
		}
		return types.Implements(named, iface)
	}

	want := explicitMethodNames(enum.spec)
	if len(want) == 0 {
		return false
	}
	have := valueMethodNames(named)
	for _, m := range want {
		if !have[m] {
			return false
		}
	}
	return true
}

func explicitMethodNames(spec *ast.TypeSpec) []string {
	it, ok := spec.Type.(*ast.InterfaceType)
	if !ok || it.Methods == nil {
		return nil
	}
	var out []string
	for _, field := range it.Methods.List {
		for _, name := range field.Names {
			out = append(out, name.Name)
		}
	}
	return out
}

func valueMethodNames(named *types.Named) map[string]bool {
	out := make(map[string]bool, named.NumMethods())
	for i := 0; i < named.NumMethods(); i++ {
		m := named.Method(i)
		sig, ok := m.Type().(*types.Signature)
		if !ok || sig.Recv() == nil {
			continue
		}
		if _, isPtr := sig.Recv().Type().(*types.Pointer); isPtr {
			continue
		}
		out[m.Name()] = true
	}
	return out
}

func variantShape(spec *ast.TypeSpec) descriptor.Shape {
	st, ok := spec.Type.(*ast.StructType)
	if !ok {
		return descriptor.ShapePositional
	}
	if st.Fields == nil || len(st.Fields.List) == 0 {
		return descriptor.ShapeUnit
	}
	return descriptor.ShapeLabeled
}

// span converts go/token positions into a FileSet span. Token offsets count
// the raw on-disk bytes; the stored content is BOM-stripped and CRLF-folded,
// so offsets go through NormalizeOffset.
func (w *walker) span(file *syntaxFile, pos, end token.Pos) source.Span {
	tf := w.pkg.Fset.File(pos)
	if tf == nil {
		return source.Span{File: file.id}
	}
	f := w.fs.Get(file.id)
	return source.Span{
		File:  file.id,
		Start: f.NormalizeOffset(uint32(tf.Offset(pos))),
		End:   f.NormalizeOffset(uint32(tf.Offset(end))),
	}
}
