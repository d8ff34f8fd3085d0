// Package goscan discovers exported declarations in Go source.
//
// Declarations are selected by a marker in their doc comment:
//
//	// Point is a location on the board.
//	// @ts-export
//	type Point struct {
//	    X int `json:"x"`
//	    Y int `json:"y"`
//	}
//
// A marker on a grouped declaration (const (...) or type (...)) marks every
// spec in the group. A file whose package doc carries the module marker is
// translated as one Module named after the file, holding every exported
// top-level declaration of that file.
package goscan

import (
	"context"
	"go/ast"
	"go/token"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"github.com/iancoleman/strcase"
	"golang.org/x/tools/go/packages"

	"github.com/teranos/decl2ts/decl"
	"github.com/teranos/decl2ts/errors"
)

const (
	DefaultMarker       = "@ts-export"
	DefaultModuleMarker = "@ts-module"
)

// FieldCase controls how untagged struct field names are rendered
type FieldCase string

const (
	CasePreserve FieldCase = "preserve"
	CaseCamel    FieldCase = "camel"
	CaseSnake    FieldCase = "snake"
)

// ParseFieldCase parses a case name; "" means preserve
func ParseFieldCase(s string) (FieldCase, error) {
	switch c := FieldCase(strings.ToLower(strings.TrimSpace(s))); c {
	case "", CasePreserve:
		return CasePreserve, nil
	case CaseCamel, CaseSnake:
		return c, nil
	default:
		return CasePreserve, errors.Newf("unknown field case %q (want preserve, camel or snake)", s)
	}
}

func (c FieldCase) apply(name string) string {
	switch c {
	case CaseCamel:
		return strcase.ToLowerCamel(name)
	case CaseSnake:
		return strcase.ToSnake(name)
	default:
		return name
	}
}

// Options configures a scan
type Options struct {
	// Dir is the working directory for package loading; "" means the current directory
	Dir          string
	Marker       string
	ModuleMarker string
	FieldCase    FieldCase
}

func (o Options) withDefaults() Options {
	if o.Marker == "" {
		o.Marker = DefaultMarker
	}
	if o.ModuleMarker == "" {
		o.ModuleMarker = DefaultModuleMarker
	}
	if o.FieldCase == "" {
		o.FieldCase = CasePreserve
	}
	return o
}

// Scan loads the packages matching patterns and returns their marked
// declarations. Packages are visited in import path order, files in name
// order, declarations in source order.
func Scan(ctx context.Context, opts Options, patterns ...string) ([]decl.Declaration, error) {
	opts = opts.withDefaults()
	if len(patterns) == 0 {
		patterns = []string{"."}
	}

	cfg := &packages.Config{
		Context: ctx,
		Dir:     opts.Dir,
		Mode:    packages.NeedName | packages.NeedFiles | packages.NeedSyntax,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load packages %s", strings.Join(patterns, " "))
	}
	if len(pkgs) == 0 {
		return nil, errors.Newf("no packages found for %s", strings.Join(patterns, " "))
	}

	var loadErrs error
	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			loadErrs = errors.CombineErrors(loadErrs, errors.Newf("%s: %s", pkg.PkgPath, e.Error()))
		}
	}
	if loadErrs != nil {
		return nil, errors.Wrap(loadErrs, "package errors")
	}

	sort.Slice(pkgs, func(i, j int) bool { return pkgs[i].PkgPath < pkgs[j].PkgPath })

	s := &scanner{opts: opts}
	var decls []decl.Declaration
	for _, pkg := range pkgs {
		files := make([]*ast.File, len(pkg.Syntax))
		copy(files, pkg.Syntax)
		sort.SliceStable(files, func(i, j int) bool {
			return filename(pkg.Fset, files[i]) < filename(pkg.Fset, files[j])
		})

		for _, f := range files {
			decls = append(decls, s.scanFile(filename(pkg.Fset, f), f)...)
		}
	}
	return decls, nil
}

// ScanFile extracts declarations from one parsed file. Exposed for callers
// that already hold an AST.
func ScanFile(opts Options, path string, f *ast.File) []decl.Declaration {
	s := &scanner{opts: opts.withDefaults()}
	return s.scanFile(path, f)
}

func filename(fset *token.FileSet, f *ast.File) string {
	return fset.Position(f.Package).Filename
}

type scanner struct {
	opts Options
}

func (s *scanner) scanFile(path string, f *ast.File) []decl.Declaration {
	if hasMarker(f.Doc, s.opts.ModuleMarker) {
		name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		return []decl.Declaration{&decl.Module{Name: name, Decls: s.collect(f, true)}}
	}
	return s.collect(f, false)
}

// collect returns the file's declarations in source order. With all set,
// every exported declaration is taken; otherwise only marked ones.
func (s *scanner) collect(f *ast.File, all bool) []decl.Declaration {
	var out []decl.Declaration

	for _, d := range f.Decls {
		switch d := d.(type) {
		case *ast.FuncDecl:
			if d.Recv != nil || !d.Name.IsExported() {
				continue
			}
			if all || hasMarker(d.Doc, s.opts.Marker) {
				out = append(out, s.function(d))
			}

		case *ast.GenDecl:
			groupMarked := all || hasMarker(d.Doc, s.opts.Marker)
			switch d.Tok {
			case token.TYPE:
				for _, spec := range d.Specs {
					ts := spec.(*ast.TypeSpec)
					if ts.Name.IsExported() && (groupMarked || hasMarker(ts.Doc, s.opts.Marker)) {
						out = append(out, s.typeSpec(ts))
					}
				}
			case token.CONST:
				out = append(out, s.constGroup(d, groupMarked)...)
			}
		}
	}
	return out
}

func (s *scanner) typeSpec(ts *ast.TypeSpec) decl.Declaration {
	name := ts.Name.Name
	if ts.TypeParams != nil && len(ts.TypeParams.List) > 0 {
		return &decl.Other{Name: name, What: "generic type"}
	}
	if ts.Assign.IsValid() {
		return &decl.Other{Name: name, What: "type alias"}
	}

	switch t := ts.Type.(type) {
	case *ast.StructType:
		return s.structType(name, t)
	case *ast.InterfaceType:
		return &decl.Other{Name: name, What: "interface"}
	default:
		return &decl.Other{Name: name, What: "type"}
	}
}

func (s *scanner) structType(name string, st *ast.StructType) *decl.Struct {
	m := newTypeMapper(nil)
	out := &decl.Struct{Name: name}

	for _, field := range st.Fields.List {
		// Embedded fields have no name of their own
		if len(field.Names) == 0 {
			continue
		}
		tag := parseTag(field.Tag)
		if tag.skip {
			continue
		}
		for _, n := range field.Names {
			if !n.IsExported() {
				continue
			}
			fieldName := s.opts.FieldCase.apply(n.Name)
			if tag.name != "" {
				fieldName = tag.name
			}
			out.Fields = append(out.Fields, decl.Field{Name: fieldName, Type: m.mapType(field.Type)})
		}
	}
	return out
}

type fieldTag struct {
	name string
	skip bool
}

func parseTag(lit *ast.BasicLit) fieldTag {
	if lit == nil {
		return fieldTag{}
	}
	st := reflect.StructTag(strings.Trim(lit.Value, "`"))

	if st.Get("tstype") == "-" {
		return fieldTag{skip: true}
	}
	name, _, _ := strings.Cut(st.Get("json"), ",")
	if name == "-" {
		return fieldTag{skip: true}
	}
	return fieldTag{name: name}
}

func (s *scanner) function(fd *ast.FuncDecl) *decl.Function {
	m := newTypeMapper(fd.Type.TypeParams)
	out := &decl.Function{Name: fd.Name.Name}

	if fd.Type.Params != nil {
		for _, p := range fd.Type.Params.List {
			t := m.mapType(p.Type)
			if len(p.Names) == 0 {
				out.Params = append(out.Params, decl.Param{Type: t})
				continue
			}
			for _, n := range p.Names {
				name := n.Name
				if name == "_" {
					name = ""
				}
				out.Params = append(out.Params, decl.Param{Name: name, Type: t})
			}
		}
	}

	out.Return = s.results(m, fd.Type.Results)
	return out
}

// results maps a result list, dropping a trailing error. Several remaining
// results have no single target type.
func (s *scanner) results(m *typeMapper, list *ast.FieldList) decl.TypeExpr {
	if list == nil {
		return nil
	}

	var exprs []ast.Expr
	for _, r := range list.List {
		n := len(r.Names)
		if n == 0 {
			n = 1
		}
		for i := 0; i < n; i++ {
			exprs = append(exprs, r.Type)
		}
	}
	if len(exprs) > 0 {
		if id, ok := exprs[len(exprs)-1].(*ast.Ident); ok && id.Name == "error" {
			exprs = exprs[:len(exprs)-1]
		}
	}

	switch len(exprs) {
	case 0:
		return nil
	case 1:
		return m.mapType(exprs[0])
	default:
		parts := make([]string, len(exprs))
		for i, e := range exprs {
			parts[i] = unsupported(e).Desc
		}
		return &decl.Unsupported{Desc: "(" + strings.Join(parts, ", ") + ")"}
	}
}

// constGroup maps a const block. Specs without a type or value repeat the
// previous spec, as iota sequences do.
func (s *scanner) constGroup(gd *ast.GenDecl, groupMarked bool) []decl.Declaration {
	m := newTypeMapper(nil)
	var out []decl.Declaration

	var lastType ast.Expr
	var lastValues []ast.Expr
	for _, spec := range gd.Specs {
		vs := spec.(*ast.ValueSpec)
		if vs.Type != nil || len(vs.Values) > 0 {
			lastType, lastValues = vs.Type, vs.Values
		}
		if !groupMarked && !hasMarker(vs.Doc, s.opts.Marker) {
			continue
		}

		for i, n := range vs.Names {
			if n.Name == "_" || !n.IsExported() {
				continue
			}
			var t decl.TypeExpr
			switch {
			case lastType != nil:
				t = m.mapType(lastType)
			case i < len(lastValues):
				t = m.constType(lastValues[i])
			default:
				t = &decl.Unsupported{Desc: "untyped " + n.Name}
			}
			out = append(out, &decl.Constant{Name: n.Name, Type: t})
		}
	}
	return out
}

func hasMarker(doc *ast.CommentGroup, marker string) bool {
	if doc == nil || marker == "" {
		return false
	}
	for _, c := range doc.List {
		if strings.Contains(c.Text, marker) {
			return true
		}
	}
	return false
}
