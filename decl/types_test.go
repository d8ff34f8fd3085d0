package decl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInspect_VisitsDepthFirst(t *testing.T) {
	typ := &Map{
		Key:   Text("String"),
		Value: ArrayOf(Ref(Named("Board")), 2),
	}

	var kinds []TypeKind
	Inspect(typ, func(t TypeExpr) bool {
		kinds = append(kinds, t.Kind())
		return true
	})

	assert.Equal(t, []TypeKind{KindMap, KindPrimitive, KindArray, KindReference, KindAlias}, kinds)
}

func TestInspect_PrunesChildren(t *testing.T) {
	typ := ArrayOf(ArrayOf(Int("i32"), 8), 8)

	visited := 0
	Inspect(typ, func(t TypeExpr) bool {
		visited++
		return false
	})

	assert.Equal(t, 1, visited)
}

func TestInspect_Nil(t *testing.T) {
	Inspect(nil, func(TypeExpr) bool {
		t.Fatal("nil type must not be visited")
		return true
	})
}

func TestTypeExprString(t *testing.T) {
	assert.Equal(t, "[[i32; 8]; 8]", ArrayOf(ArrayOf(Int("i32"), 8), 8).String())
	assert.Equal(t, "&str", Ref(Str()).String())
	assert.Equal(t, "&mut Board", (&Reference{Inner: Named("Board"), Mutable: true}).String())
	assert.Equal(t, "[<nil>]", (&Slice{}).String())
}

func TestStructNamedFields(t *testing.T) {
	s := &Struct{
		Name: "Pair",
		Fields: []Field{
			{Name: "", Type: Int("i32")},
			{Name: "label", Type: Text("String")},
			{Name: "", Type: Int("i32")},
		},
	}

	named := s.NamedFields()
	assert.Len(t, named, 1)
	assert.Equal(t, "label", named[0].Name)
	assert.Len(t, s.Fields, 3, "NamedFields must not mutate the struct")
}

func TestFunctionNamedParams(t *testing.T) {
	f := &Function{
		Name: "area",
		Params: []Param{
			{Name: "", Type: Named("Point")},
			{Name: "radius", Type: Float("f64")},
			{Name: "scale", Type: nil},
		},
	}

	named := f.NamedParams()
	assert.Equal(t, []Param{{Name: "radius", Type: Float("f64")}}, named)
}

func TestDeclKindString(t *testing.T) {
	assert.Equal(t, "struct", (&Struct{}).Kind().String())
	assert.Equal(t, "function", (&Function{}).Kind().String())
	assert.Equal(t, "const", (&Constant{}).Kind().String())
	assert.Equal(t, "module", (&Module{}).Kind().String())
	assert.Equal(t, "other", (&Other{}).Kind().String())
}
