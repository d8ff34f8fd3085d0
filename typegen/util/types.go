package util

import (
	"github.com/teranos/decl2ts/decl"
)

// TypeConverterConfig configures how host types are converted to target language types.
type TypeConverterConfig struct {
	// NumberType is the target type for every integer and floating point primitive
	NumberType string

	// BoolType is the target boolean type
	BoolType string

	// StringType is the target string type, used for owned text and borrowed text slices
	StringType string

	// ArrayFormat formats an array or slice type given the element type
	// e.g., TypeScript: "%s[]"
	ArrayFormat func(elemType string) string

	// MapFormat formats a map type given key and value types
	// e.g., TypeScript: "Record<%s, %s>"
	MapFormat func(keyType, valType string) string

	// StringMapUnknownType is the special type for a string-keyed map of unknown values
	// e.g., TypeScript: "Record<string, unknown>"
	StringMapUnknownType string

	// UnknownType is returned for unsupported and unrecognized types
	// e.g., TypeScript: "any"
	UnknownType string
}

// ConvertType converts a host type expression to a target language type string.
// It is total: every variant, including nil, yields a type.
func ConvertType(t decl.TypeExpr, config *TypeConverterConfig) string {
	switch v := t.(type) {
	case *decl.Primitive:
		return convertPrimitive(v, config)

	case *decl.Array:
		return config.ArrayFormat(ConvertType(v.Elem, config))

	case *decl.Slice:
		return config.ArrayFormat(ConvertType(v.Elem, config))

	case *decl.Reference:
		// Borrowed text slice is the one reference with its own mapping
		if p, ok := v.Inner.(*decl.Primitive); ok && p.Class == decl.ClassStr {
			return config.StringType
		}
		// Otherwise the wrapper is transparent
		return ConvertType(v.Inner, config)

	case *decl.Alias:
		if v.Name == "" {
			return config.UnknownType
		}
		// Assume the target defines an identically named type
		return v.Name

	case *decl.Map:
		keyType := ConvertType(v.Key, config)
		valType := ConvertType(v.Value, config)

		if keyType == config.StringType && valType == config.UnknownType {
			return config.StringMapUnknownType
		}
		return config.MapFormat(keyType, valType)

	default:
		// Unsupported, nil, or a variant this converter does not know
		return config.UnknownType
	}
}

func convertPrimitive(p *decl.Primitive, config *TypeConverterConfig) string {
	switch p.Class {
	case decl.ClassInt, decl.ClassUint, decl.ClassFloat:
		return config.NumberType
	case decl.ClassBool:
		return config.BoolType
	case decl.ClassString, decl.ClassStr:
		return config.StringType
	default:
		return config.UnknownType
	}
}
