package typescript

import (
	"fmt"
	"strings"

	"github.com/teranos/decl2ts/decl"
	"github.com/teranos/decl2ts/typegen/util"
)

// UnknownType is the universal type every unmappable expression degrades to
const UnknownType = "any"

// VoidType is the return type of a function that declares none
const VoidType = "void"

// indent is the member indentation inside an interface body
const indent = "    "

// typeConfig maps host type classes onto TypeScript
var typeConfig = &util.TypeConverterConfig{
	NumberType: "number",
	BoolType:   "boolean",
	StringType: "string",
	ArrayFormat: func(elemType string) string {
		return elemType + "[]"
	},
	MapFormat: func(keyType, valType string) string {
		return fmt.Sprintf("Record<%s, %s>", keyType, valType)
	},
	StringMapUnknownType: "Record<string, unknown>",
	UnknownType:          UnknownType,
}

// Generator implements typegen.Generator for TypeScript
type Generator struct{}

// NewGenerator creates a new TypeScript generator
func NewGenerator() *Generator {
	return &Generator{}
}

// Language returns "typescript"
func (g *Generator) Language() string {
	return "typescript"
}

// FileExtension returns "ts"
func (g *Generator) FileExtension() string {
	return "ts"
}

// MapType converts a host type expression (implements typegen.Generator)
func (g *Generator) MapType(t decl.TypeExpr) string {
	return MapType(t)
}

// GenerateStruct renders an interface (implements typegen.Generator)
func (g *Generator) GenerateStruct(s *decl.Struct) string {
	return GenerateInterface(s)
}

// GenerateFunction renders a function signature (implements typegen.Generator)
func (g *Generator) GenerateFunction(f *decl.Function) string {
	return GenerateFunction(f)
}

// GenerateConstant renders a constant declaration (implements typegen.Generator)
func (g *Generator) GenerateConstant(c *decl.Constant) string {
	return GenerateConstant(c)
}

// MapType converts a host type expression to a TypeScript type expression.
//
//	integers, floats      -> number
//	bool                  -> boolean
//	String, str, &str     -> string
//	[T; N], [T]           -> T[]
//	&T                    -> T
//	Name                  -> Name
//	map                   -> Record<K, V>
//	anything else         -> any
func MapType(t decl.TypeExpr) string {
	return util.ConvertType(t, typeConfig)
}

// GenerateInterface creates a TypeScript interface from a struct.
// A struct without named fields is not worth exporting and yields "".
func GenerateInterface(s *decl.Struct) string {
	fields := s.NamedFields()
	if len(fields) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("export interface %s {\n", s.Name))
	for _, f := range fields {
		sb.WriteString(fmt.Sprintf("%s%s: %s;\n", indent, f.Name, MapType(f.Type)))
	}
	sb.WriteString("}\n\n")

	return sb.String()
}

// GenerateFunction creates a TypeScript function signature. Bodies are never rendered.
func GenerateFunction(f *decl.Function) string {
	params := f.NamedParams()
	parts := make([]string, 0, len(params))
	for _, p := range params {
		parts = append(parts, fmt.Sprintf("%s: %s", p.Name, MapType(p.Type)))
	}

	ret := VoidType
	if f.Return != nil {
		ret = MapType(f.Return)
	}

	return fmt.Sprintf("export function %s(%s): %s;\n\n", f.Name, strings.Join(parts, ", "), ret)
}

// GenerateConstant creates a type-only TypeScript constant declaration
func GenerateConstant(c *decl.Constant) string {
	return fmt.Sprintf("export const %s: %s;\n\n", c.Name, MapType(c.Type))
}
