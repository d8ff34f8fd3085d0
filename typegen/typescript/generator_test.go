package typescript

import (
	"testing"

	"github.com/teranos/decl2ts/decl"
	"github.com/teranos/decl2ts/typegen"
)

// Compile-time check that Generator satisfies the shared interface
var _ typegen.Generator = (*Generator)(nil)

func TestMapType_Primitives(t *testing.T) {
	tests := []struct {
		name string
		typ  decl.TypeExpr
		want string
	}{
		{"signed integer", decl.Int("i32"), "number"},
		{"wide signed integer", decl.Int("i128"), "number"},
		{"unsigned integer", decl.Uint("u8"), "number"},
		{"pointer-sized", decl.Uint("usize"), "number"},
		{"float", decl.Float("f64"), "number"},
		{"bool", decl.Bool("bool"), "boolean"},
		{"owned text", decl.Text("String"), "string"},
		{"text slice reference", decl.Ref(decl.Str()), "string"},
		{"bare text slice", decl.Str(), "string"},
		{"mutable text slice reference", &decl.Reference{Inner: decl.Str(), Mutable: true}, "string"},
		{"primitive with no equivalent", &decl.Primitive{Name: "char", Class: decl.ClassOther}, "any"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapType(tt.typ); got != tt.want {
				t.Errorf("MapType(%s) = %q, want %q", tt.typ, got, tt.want)
			}
		})
	}
}

func TestMapType_Arrays(t *testing.T) {
	one := decl.ArrayOf(decl.Int("i32"), 8)
	two := decl.ArrayOf(one, 8)
	three := decl.ArrayOf(two, 2)

	if got := MapType(one); got != "number[]" {
		t.Errorf("depth 1: got %q", got)
	}
	if got := MapType(two); got != "number[][]" {
		t.Errorf("depth 2: got %q", got)
	}
	if got := MapType(three); got != "number[][][]" {
		t.Errorf("depth 3: got %q", got)
	}
	if got := MapType(decl.ArrayOf(decl.Named("Board"), 0)); got != "Board[]" {
		t.Errorf("alias element: got %q", got)
	}
}

func TestMapType_ArrayEqualsElementWithSuffix(t *testing.T) {
	elems := []decl.TypeExpr{
		decl.Int("i64"),
		decl.Bool("bool"),
		decl.Ref(decl.Str()),
		decl.Named("Piece"),
		&decl.Unsupported{Desc: "Vec<i32>"},
		decl.ArrayOf(decl.Float("f32"), 3),
	}

	for _, elem := range elems {
		want := MapType(elem) + "[]"
		if got := MapType(decl.ArrayOf(elem, 4)); got != want {
			t.Errorf("MapType([%s; 4]) = %q, want %q", elem, got, want)
		}
	}
}

func TestMapType_ReferenceIsTransparent(t *testing.T) {
	tests := []struct {
		typ  decl.TypeExpr
		want string
	}{
		{decl.Ref(decl.Int("i32")), "number"},
		{decl.Ref(decl.Named("Board")), "Board"},
		{decl.Ref(decl.Ref(decl.Bool("bool"))), "boolean"},
		{decl.Ref(decl.ArrayOf(decl.Int("u8"), 4)), "number[]"},
		{decl.Ref(decl.Text("String")), "string"},
	}

	for _, tt := range tests {
		if got := MapType(tt.typ); got != tt.want {
			t.Errorf("MapType(%s) = %q, want %q", tt.typ, got, tt.want)
		}
	}
}

func TestMapType_AliasPassesThrough(t *testing.T) {
	if got := MapType(decl.Named("Circle")); got != "Circle" {
		t.Errorf("got %q", got)
	}
	if got := MapType(decl.Named("")); got != UnknownType {
		t.Errorf("empty alias: got %q", got)
	}
}

func TestMapType_SliceAndMap(t *testing.T) {
	if got := MapType(&decl.Slice{Elem: decl.Text("string")}); got != "string[]" {
		t.Errorf("slice: got %q", got)
	}
	if got := MapType(&decl.Map{Key: decl.Text("string"), Value: decl.Int("int")}); got != "Record<string, number>" {
		t.Errorf("map: got %q", got)
	}
	unknownValues := &decl.Map{Key: decl.Text("string"), Value: &decl.Unsupported{Desc: "interface{}"}}
	if got := MapType(unknownValues); got != "Record<string, unknown>" {
		t.Errorf("map of unknown: got %q", got)
	}
}

func TestMapType_UnknownShapesDegrade(t *testing.T) {
	shapes := []decl.TypeExpr{
		&decl.Unsupported{Desc: "Vec<i32>"},
		&decl.Unsupported{Desc: "(i32, i32)"},
		&decl.Unsupported{Desc: "fn(i32) -> i32"},
		&decl.Unsupported{Desc: "dyn Display"},
		&decl.Unsupported{},
		nil,
		decl.ArrayOf(nil, 3),
		decl.Ref(nil),
	}

	for _, s := range shapes {
		got := MapType(s)
		if got != UnknownType && got != UnknownType+"[]" {
			t.Errorf("MapType(%v) = %q, want the unknown type", s, got)
		}
	}
}

func TestGenerateInterface_Point(t *testing.T) {
	s := &decl.Struct{
		Name: "Point",
		Fields: []decl.Field{
			{Name: "x", Type: decl.Int("i32")},
			{Name: "y", Type: decl.Int("i32")},
		},
	}

	want := "export interface Point {\n    x: number;\n    y: number;\n}\n\n"
	if got := GenerateInterface(s); got != want {
		t.Errorf("GenerateInterface() =\n%q\nwant\n%q", got, want)
	}
}

func TestGenerateInterface_PreservesFieldOrder(t *testing.T) {
	s := &decl.Struct{
		Name: "Board",
		Fields: []decl.Field{
			{Name: "squares", Type: decl.ArrayOf(decl.ArrayOf(decl.Int("i32"), 8), 8)},
			{Name: "turn", Type: decl.Int("i32")},
		},
	}

	want := "export interface Board {\n    squares: number[][];\n    turn: number;\n}\n\n"
	if got := GenerateInterface(s); got != want {
		t.Errorf("GenerateInterface() =\n%q\nwant\n%q", got, want)
	}
}

func TestGenerateInterface_SkipsUnnamedFields(t *testing.T) {
	tuple := &decl.Struct{
		Name: "Meters",
		Fields: []decl.Field{
			{Type: decl.Float("f64")},
		},
	}
	if got := GenerateInterface(tuple); got != "" {
		t.Errorf("tuple struct should render empty, got %q", got)
	}

	empty := &decl.Struct{Name: "Marker"}
	if got := GenerateInterface(empty); got != "" {
		t.Errorf("empty struct should render empty, got %q", got)
	}

	mixed := &decl.Struct{
		Name: "Mixed",
		Fields: []decl.Field{
			{Type: decl.Int("i32")},
			{Name: "label", Type: decl.Text("String")},
		},
	}
	want := "export interface Mixed {\n    label: string;\n}\n\n"
	if got := GenerateInterface(mixed); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestGenerateFunction(t *testing.T) {
	tests := []struct {
		name string
		fn   *decl.Function
		want string
	}{
		{
			name: "add",
			fn: &decl.Function{
				Name:   "add",
				Params: []decl.Param{{Name: "a", Type: decl.Int("i32")}, {Name: "b", Type: decl.Int("i32")}},
				Return: decl.Int("i32"),
			},
			want: "export function add(a: number, b: number): number;\n\n",
		},
		{
			name: "no return type is void",
			fn: &decl.Function{
				Name:   "reset",
				Params: []decl.Param{{Name: "board", Type: decl.Ref(decl.Named("Board"))}},
			},
			want: "export function reset(board: Board): void;\n\n",
		},
		{
			name: "no parameters",
			fn:   &decl.Function{Name: "now", Return: decl.Uint("u64")},
			want: "export function now(): number;\n\n",
		},
		{
			name: "pattern parameters skipped",
			fn: &decl.Function{
				Name: "greet",
				Params: []decl.Param{
					{Type: &decl.Unsupported{Desc: "(i32, i32)"}},
					{Name: "name", Type: decl.Ref(decl.Str())},
				},
				Return: decl.Text("String"),
			},
			want: "export function greet(name: string): string;\n\n",
		},
		{
			name: "unknown return degrades",
			fn:   &decl.Function{Name: "items", Return: &decl.Unsupported{Desc: "Vec<Piece>"}},
			want: "export function items(): any;\n\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GenerateFunction(tt.fn); got != tt.want {
				t.Errorf("GenerateFunction() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateConstant(t *testing.T) {
	tests := []struct {
		c    *decl.Constant
		want string
	}{
		{&decl.Constant{Name: "PI", Type: decl.Float("f64")}, "export const PI: number;\n\n"},
		{&decl.Constant{Name: "PIECE_PAWN", Type: decl.Int("i32")}, "export const PIECE_PAWN: number;\n\n"},
		{&decl.Constant{Name: "GREETING", Type: decl.Ref(decl.Str())}, "export const GREETING: string;\n\n"},
		{&decl.Constant{Name: "UNTYPED"}, "export const UNTYPED: any;\n\n"},
	}

	for _, tt := range tests {
		if got := GenerateConstant(tt.c); got != tt.want {
			t.Errorf("GenerateConstant(%s) = %q, want %q", tt.c.Name, got, tt.want)
		}
	}
}

func TestGenerator_Metadata(t *testing.T) {
	g := NewGenerator()
	if g.Language() != "typescript" {
		t.Errorf("Language() = %q", g.Language())
	}
	if g.FileExtension() != "ts" {
		t.Errorf("FileExtension() = %q", g.FileExtension())
	}
}
