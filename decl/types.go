// Package decl is the language-neutral model of exported declarations.
//
// Front-ends (discover/manifest, discover/goscan) build these values from host
// source; typegen renders them. Values are treated as immutable once built.
package decl

import "fmt"

// TypeKind identifies a TypeExpr variant.
type TypeKind int

const (
	KindPrimitive TypeKind = iota
	KindArray
	KindAlias
	KindReference
	KindSlice
	KindMap
	KindUnsupported
)

func (k TypeKind) String() string {
	switch k {
	case KindPrimitive:
		return "primitive"
	case KindArray:
		return "array"
	case KindAlias:
		return "alias"
	case KindReference:
		return "reference"
	case KindSlice:
		return "slice"
	case KindMap:
		return "map"
	case KindUnsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("TypeKind(%d)", int(k))
	}
}

// TypeExpr is a host type expression.
type TypeExpr interface {
	Kind() TypeKind
	String() string
}

// PrimitiveClass groups host primitives by how they translate.
type PrimitiveClass int

const (
	ClassOther  PrimitiveClass = iota // host primitive with no structural equivalent (char, complex128)
	ClassInt                          // signed integers of any width
	ClassUint                         // unsigned integers of any width
	ClassFloat                        // floating point
	ClassBool                         // boolean
	ClassString                       // owned text
	ClassStr                          // borrowed text slice, only meaningful behind a Reference
)

// Primitive is a builtin host type. Name keeps the host spelling for diagnostics.
type Primitive struct {
	Name  string
	Class PrimitiveClass
}

func (p *Primitive) Kind() TypeKind { return KindPrimitive }
func (p *Primitive) String() string { return p.Name }

// Array is a fixed-size array.
type Array struct {
	Elem TypeExpr
	Len  int
}

func (a *Array) Kind() TypeKind { return KindArray }
func (a *Array) String() string { return fmt.Sprintf("[%s; %d]", str(a.Elem), a.Len) }

// Alias is an unresolved user-defined type, passed through by name.
type Alias struct {
	Name string
}

func (a *Alias) Kind() TypeKind { return KindAlias }
func (a *Alias) String() string { return a.Name }

// Reference is a borrow or pointer wrapper.
type Reference struct {
	Inner   TypeExpr
	Mutable bool
}

func (r *Reference) Kind() TypeKind { return KindReference }
func (r *Reference) String() string {
	if r.Mutable {
		return "&mut " + str(r.Inner)
	}
	return "&" + str(r.Inner)
}

// Slice is a dynamically sized sequence.
type Slice struct {
	Elem TypeExpr
}

func (s *Slice) Kind() TypeKind { return KindSlice }
func (s *Slice) String() string { return "[" + str(s.Elem) + "]" }

// Map is a keyed collection.
type Map struct {
	Key   TypeExpr
	Value TypeExpr
}

func (m *Map) Kind() TypeKind { return KindMap }
func (m *Map) String() string { return "map[" + str(m.Key) + "]" + str(m.Value) }

// Unsupported is any shape without a structural mapping: generics, trait
// objects, tuples, function pointers, channels. Desc is the host spelling.
type Unsupported struct {
	Desc string
}

func (u *Unsupported) Kind() TypeKind { return KindUnsupported }
func (u *Unsupported) String() string { return u.Desc }

func str(t TypeExpr) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

// Inspect walks t depth-first, calling fn for every node. If fn returns false
// the children of that node are skipped. A nil t is not visited.
func Inspect(t TypeExpr, fn func(TypeExpr) bool) {
	if t == nil || !fn(t) {
		return
	}
	switch v := t.(type) {
	case *Array:
		Inspect(v.Elem, fn)
	case *Reference:
		Inspect(v.Inner, fn)
	case *Slice:
		Inspect(v.Elem, fn)
	case *Map:
		Inspect(v.Key, fn)
		Inspect(v.Value, fn)
	}
}

// Convenience constructors, mostly used by tests and front-ends.

func Int(name string) *Primitive   { return &Primitive{Name: name, Class: ClassInt} }
func Uint(name string) *Primitive  { return &Primitive{Name: name, Class: ClassUint} }
func Float(name string) *Primitive { return &Primitive{Name: name, Class: ClassFloat} }
func Bool(name string) *Primitive  { return &Primitive{Name: name, Class: ClassBool} }
func Text(name string) *Primitive  { return &Primitive{Name: name, Class: ClassString} }
func Str() *Primitive              { return &Primitive{Name: "str", Class: ClassStr} }

func ArrayOf(elem TypeExpr, n int) *Array { return &Array{Elem: elem, Len: n} }
func Ref(inner TypeExpr) *Reference       { return &Reference{Inner: inner} }
func Named(name string) *Alias            { return &Alias{Name: name} }
