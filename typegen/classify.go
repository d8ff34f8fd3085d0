package typegen

import (
	"strings"

	"github.com/teranos/decl2ts/decl"
)

// Classify dispatches one declaration to the generator for its kind.
// Unsupported kinds yield "".
func Classify(gen Generator, d decl.Declaration) string {
	switch v := d.(type) {
	case *decl.Struct:
		return gen.GenerateStruct(v)
	case *decl.Function:
		return gen.GenerateFunction(v)
	case *decl.Constant:
		return gen.GenerateConstant(v)
	case *decl.Module:
		return GenerateModule(gen, v)
	default:
		return ""
	}
}

// GenerateModule concatenates the rendered direct children of m in source order.
// Children that render empty leave no trace; nested modules are not traversed.
func GenerateModule(gen Generator, m *decl.Module) string {
	var sb strings.Builder
	for _, d := range m.Decls {
		if _, nested := d.(*decl.Module); nested {
			continue
		}
		sb.WriteString(Classify(gen, d))
	}
	return sb.String()
}
