// Package typegen renders exported declarations as target-language declaration text.
//
// # Architecture
//
// The package uses a two-layer design:
//  1. Language-agnostic dispatch (Classify, GenerateModule, Translator) over the decl model
//  2. Language-specific generators (typescript/) that map types and render one declaration kind each
//
// Discovery of which declarations are exported happens upstream (discover/manifest,
// discover/goscan); writing the result happens downstream (sink). Nothing in this
// package performs I/O.
//
// # Design Decisions
//
//   - Unrecognized type shapes degrade to the target's unknown type and unsupported
//     declaration kinds render as empty text; generation never fails in Lenient mode
//   - Strict mode renders the same text but reports every degradation as an Issue
//   - Modules are aggregated one level deep; nested modules render empty
package typegen

import "github.com/teranos/decl2ts/decl"

// Generator defines the interface for language-specific declaration generators.
type Generator interface {
	// Language returns the language name (e.g., "typescript")
	Language() string

	// FileExtension returns the file extension for this language (e.g., "ts")
	FileExtension() string

	// MapType converts a host type expression to a target type expression. Total.
	MapType(t decl.TypeExpr) string

	// GenerateStruct renders a struct, or "" when it has no named fields
	GenerateStruct(s *decl.Struct) string

	// GenerateFunction renders a function signature
	GenerateFunction(f *decl.Function) string

	// GenerateConstant renders a type-only constant declaration
	GenerateConstant(c *decl.Constant) string
}
