// Package manifest reads an explicit list of exported declarations.
//
// A manifest replaces annotation-driven discovery: instead of scanning host
// source for export markers, the build lists what to translate. Host type
// expressions are written in Rust-flavoured syntax and parsed by ParseType.
//
// Example (YAML):
//
//	declarations:
//	  - kind: struct
//	    name: Point
//	    fields:
//	      - {name: x, type: i32}
//	      - {name: y, type: i32}
//	  - kind: module
//	    name: math
//	    declarations:
//	      - {kind: const, name: PI, type: f64}
//	      - kind: function
//	        name: circle_area
//	        params: [{name: radius, type: f64}]
//	        returns: f64
//
// JSON manifests are decoded by the YAML decoder; TOML uses [[declarations]] tables.
package manifest

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/teranos/decl2ts/decl"
	"github.com/teranos/decl2ts/errors"
)

// Format is a manifest encoding
type Format int

const (
	FormatYAML Format = iota // also accepts JSON
	FormatTOML
)

// FormatForPath picks the format from a file extension
func FormatForPath(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml", ".json":
		return FormatYAML, true
	case ".toml":
		return FormatTOML, true
	default:
		return FormatYAML, false
	}
}

// IsManifestPath reports whether path looks like a manifest file
func IsManifestPath(path string) bool {
	_, ok := FormatForPath(path)
	return ok
}

// File is the on-disk manifest document
type File struct {
	Declarations []Entry `yaml:"declarations" toml:"declarations"`
}

// Entry is one declaration in the manifest
type Entry struct {
	Kind         string   `yaml:"kind" toml:"kind"`
	Name         string   `yaml:"name" toml:"name"`
	Fields       []Member `yaml:"fields,omitempty" toml:"fields,omitempty"`
	Params       []Member `yaml:"params,omitempty" toml:"params,omitempty"`
	Returns      string   `yaml:"returns,omitempty" toml:"returns,omitempty"`
	Type         string   `yaml:"type,omitempty" toml:"type,omitempty"`
	Declarations []Entry  `yaml:"declarations,omitempty" toml:"declarations,omitempty"`
}

// Member is a struct field or function parameter.
// A member without a name (tuple field) or with a pattern is kept unnamed.
type Member struct {
	Name    string `yaml:"name,omitempty" toml:"name,omitempty"`
	Pattern string `yaml:"pattern,omitempty" toml:"pattern,omitempty"`
	Type    string `yaml:"type" toml:"type"`
}

// Load reads and converts the manifest at path
func Load(path string) ([]decl.Declaration, error) {
	format, ok := FormatForPath(path)
	if !ok {
		return nil, errors.WithHint(
			errors.NewInvalidManifestError("unrecognized manifest extension %q", filepath.Ext(path)),
			"use .yaml, .yml, .json or .toml")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read manifest %s", path)
	}

	decls, err := Decode(bytes.NewReader(data), format)
	if err != nil {
		return nil, errors.Wrapf(err, "manifest %s", path)
	}
	return decls, nil
}

// Decode parses a manifest document and converts it to declarations in document order
func Decode(r io.Reader, format Format) ([]decl.Declaration, error) {
	var f File

	switch format {
	case FormatTOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&f); err != nil {
			return nil, errors.Mark(errors.Wrap(err, "failed to decode TOML"), errors.ErrInvalidManifest)
		}
	default:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&f); err != nil && err != io.EOF {
			return nil, errors.Mark(errors.Wrap(err, "failed to decode YAML"), errors.ErrInvalidManifest)
		}
	}

	return f.Convert()
}

// Convert turns the document into declarations
func (f *File) Convert() ([]decl.Declaration, error) {
	decls := make([]decl.Declaration, 0, len(f.Declarations))
	for i, e := range f.Declarations {
		d, err := e.convert()
		if err != nil {
			return nil, errors.Wrapf(err, "declaration %d", i)
		}
		decls = append(decls, d)
	}
	return decls, nil
}

func (e Entry) convert() (decl.Declaration, error) {
	kind := strings.ToLower(strings.TrimSpace(e.Kind))
	if kind == "" {
		return nil, errors.NewInvalidManifestError("missing kind")
	}
	if strings.TrimSpace(e.Name) == "" {
		return nil, errors.NewInvalidManifestError("%s without a name", kind)
	}

	switch kind {
	case "struct":
		s := &decl.Struct{Name: e.Name}
		for i, m := range e.Fields {
			t := ParseType(m.Type)
			if t == nil {
				return nil, errors.NewInvalidManifestError("struct %s: field %d has no type", e.Name, i)
			}
			s.Fields = append(s.Fields, decl.Field{Name: memberName(m), Type: t})
		}
		return s, nil

	case "fn", "function":
		f := &decl.Function{Name: e.Name, Return: ParseReturn(e.Returns)}
		for i, m := range e.Params {
			t := ParseType(m.Type)
			if t == nil {
				return nil, errors.NewInvalidManifestError("function %s: parameter %d has no type", e.Name, i)
			}
			f.Params = append(f.Params, decl.Param{Name: memberName(m), Type: t})
		}
		return f, nil

	case "const", "constant":
		t := ParseType(e.Type)
		if t == nil {
			return nil, errors.NewInvalidManifestError("const %s has no type", e.Name)
		}
		return &decl.Constant{Name: e.Name, Type: t}, nil

	case "mod", "module":
		m := &decl.Module{Name: e.Name}
		for i, child := range e.Declarations {
			d, err := child.convert()
			if err != nil {
				return nil, errors.Wrapf(err, "module %s: declaration %d", e.Name, i)
			}
			m.Decls = append(m.Decls, d)
		}
		return m, nil

	default:
		// enum, trait, union, static, type alias...: kept so policies can see them
		return &decl.Other{Name: e.Name, What: kind}, nil
	}
}

// memberName returns "" for tuple fields and destructuring patterns
func memberName(m Member) string {
	if m.Pattern != "" {
		return ""
	}
	name := strings.TrimSpace(m.Name)
	if name == "_" || !isIdentifier(name) {
		return ""
	}
	return name
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !isIdentByte(c) || (i == 0 && c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}
