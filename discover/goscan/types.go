package goscan

import (
	"go/ast"
	"go/token"
	"go/types"
	"strconv"

	"github.com/teranos/decl2ts/decl"
)

// builtins maps Go predeclared types to their translation class
var builtins = map[string]decl.PrimitiveClass{
	"int":        decl.ClassInt,
	"int8":       decl.ClassInt,
	"int16":      decl.ClassInt,
	"int32":      decl.ClassInt,
	"int64":      decl.ClassInt,
	"rune":       decl.ClassInt,
	"uint":       decl.ClassUint,
	"uint8":      decl.ClassUint,
	"uint16":     decl.ClassUint,
	"uint32":     decl.ClassUint,
	"uint64":     decl.ClassUint,
	"uintptr":    decl.ClassUint,
	"byte":       decl.ClassUint,
	"float32":    decl.ClassFloat,
	"float64":    decl.ClassFloat,
	"bool":       decl.ClassBool,
	"string":     decl.ClassString,
	"complex64":  decl.ClassOther,
	"complex128": decl.ClassOther,
}

// qualified maps well-known package types to the shape they serialize as
var qualified = map[string]*decl.Primitive{
	"time.Time":     {Name: "time.Time", Class: decl.ClassString},
	"time.Duration": {Name: "time.Duration", Class: decl.ClassInt},
	"json.Number":   {Name: "json.Number", Class: decl.ClassString},
}

// typeMapper converts Go AST type expressions. typeParams holds the type
// parameter names in scope, which never resolve to a concrete shape.
type typeMapper struct {
	typeParams map[string]bool
}

func newTypeMapper(params *ast.FieldList) *typeMapper {
	m := &typeMapper{typeParams: make(map[string]bool)}
	if params != nil {
		for _, f := range params.List {
			for _, n := range f.Names {
				m.typeParams[n.Name] = true
			}
		}
	}
	return m
}

func (m *typeMapper) mapType(expr ast.Expr) decl.TypeExpr {
	switch t := expr.(type) {
	case nil:
		return nil

	case *ast.Ident:
		if m.typeParams[t.Name] {
			return unsupported(t)
		}
		if class, ok := builtins[t.Name]; ok {
			return &decl.Primitive{Name: t.Name, Class: class}
		}
		switch t.Name {
		case "any", "error", "comparable":
			return unsupported(t)
		}
		return &decl.Alias{Name: t.Name}

	case *ast.SelectorExpr:
		if pkg, ok := t.X.(*ast.Ident); ok {
			if p, ok := qualified[pkg.Name+"."+t.Sel.Name]; ok {
				return &decl.Primitive{Name: p.Name, Class: p.Class}
			}
		}
		return &decl.Alias{Name: t.Sel.Name}

	case *ast.ParenExpr:
		return m.mapType(t.X)

	case *ast.StarExpr:
		return &decl.Reference{Inner: m.mapType(t.X), Mutable: true}

	case *ast.ArrayType:
		elem := m.mapType(t.Elt)
		if t.Len == nil {
			return &decl.Slice{Elem: elem}
		}
		return &decl.Array{Elem: elem, Len: arrayLen(t.Len)}

	case *ast.Ellipsis:
		// Variadic parameter
		return &decl.Slice{Elem: m.mapType(t.Elt)}

	case *ast.MapType:
		return &decl.Map{Key: m.mapType(t.Key), Value: m.mapType(t.Value)}

	default:
		// interface{...}, func, chan, struct literals and generic instantiations
		return unsupported(expr)
	}
}

func arrayLen(expr ast.Expr) int {
	if lit, ok := expr.(*ast.BasicLit); ok && lit.Kind == token.INT {
		if n, err := strconv.ParseInt(lit.Value, 0, 64); err == nil {
			return int(n)
		}
	}
	// [...]T or a named constant length
	return -1
}

// constType infers the type of an untyped constant from its value expression
func (m *typeMapper) constType(value ast.Expr) decl.TypeExpr {
	switch v := value.(type) {
	case *ast.BasicLit:
		switch v.Kind {
		case token.INT:
			return decl.Int("int")
		case token.FLOAT:
			return decl.Float("float64")
		case token.CHAR:
			return decl.Int("rune")
		case token.STRING:
			return decl.Text("string")
		default:
			return &decl.Primitive{Name: "complex128", Class: decl.ClassOther}
		}
	case *ast.Ident:
		switch v.Name {
		case "true", "false":
			return decl.Bool("bool")
		case "iota":
			return decl.Int("int")
		}
	case *ast.ParenExpr:
		return m.constType(v.X)
	case *ast.UnaryExpr:
		if v.Op == token.NOT {
			return decl.Bool("bool")
		}
		return m.constType(v.X)
	case *ast.BinaryExpr:
		switch v.Op {
		case token.EQL, token.NEQ, token.LSS, token.LEQ, token.GTR, token.GEQ, token.LAND, token.LOR:
			return decl.Bool("bool")
		case token.SHL, token.SHR:
			return m.constType(v.X)
		}
		if t := m.constType(v.X); t != nil && t.Kind() != decl.KindUnsupported {
			return t
		}
		return m.constType(v.Y)
	case *ast.CallExpr:
		// Conversion such as time.Duration(5) or uint8(1)
		if len(v.Args) == 1 {
			return m.mapType(v.Fun)
		}
	}
	return unsupported(value)
}

func unsupported(expr ast.Expr) *decl.Unsupported {
	return &decl.Unsupported{Desc: types.ExprString(expr)}
}
