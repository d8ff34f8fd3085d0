package typegen

import (
	"fmt"
	"strings"

	"github.com/teranos/decl2ts/decl"
	"github.com/teranos/decl2ts/errors"
)

// Policy decides whether degraded translations are reported.
type Policy int

const (
	// Lenient silently degrades unknown types and skips unsupported declarations
	Lenient Policy = iota
	// Strict produces the same text but reports each degradation as an error
	Strict
)

func (p Policy) String() string {
	if p == Strict {
		return "strict"
	}
	return "lenient"
}

// ParsePolicy parses "lenient" or "strict" (case-insensitive). Empty means Lenient.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lenient":
		return Lenient, nil
	case "strict":
		return Strict, nil
	default:
		return Lenient, errors.Newf("unknown policy %q (supported: lenient, strict)", s)
	}
}

// Issue describes one degradation found during translation.
type Issue struct {
	Declaration string // name of the top-level or module-level declaration
	Kind        decl.DeclKind
	What        string // e.g. "field squares: unsupported type Vec<i32>"
}

func (i *Issue) Error() string {
	return fmt.Sprintf("%s %s: %s", i.Kind, i.Declaration, i.What)
}

// Translator applies a Generator under a Policy.
// It holds no per-call state and is safe for concurrent use.
type Translator struct {
	gen    Generator
	policy Policy
}

// NewTranslator creates a translator for gen
func NewTranslator(gen Generator, policy Policy) *Translator {
	return &Translator{gen: gen, policy: policy}
}

// Generator returns the underlying generator
func (t *Translator) Generator() Generator { return t.gen }

// Policy returns the configured policy
func (t *Translator) Policy() Policy { return t.policy }

// Translate renders d. In Strict mode the returned error combines every Issue
// found in d (each marked with errors.ErrUnsupported); the text is returned either way.
func (t *Translator) Translate(d decl.Declaration) (string, error) {
	text := Classify(t.gen, d)
	if t.policy != Strict {
		return text, nil
	}

	var combined error
	for _, issue := range FindIssues(d) {
		combined = errors.CombineErrors(combined, errors.Mark(issue, errors.ErrUnsupported))
	}
	return text, combined
}

// FindIssues lists every degradation in d: unsupported or missing types,
// declarations with no translation, and nested modules.
func FindIssues(d decl.Declaration) []*Issue {
	var issues []*Issue
	add := func(what string) {
		issues = append(issues, &Issue{Declaration: d.DeclName(), Kind: d.Kind(), What: what})
	}

	switch v := d.(type) {
	case *decl.Struct:
		for _, f := range v.NamedFields() {
			if desc, bad := unsupportedIn(f.Type); bad {
				add(fmt.Sprintf("field %s: %s", f.Name, desc))
			}
		}
		if len(v.NamedFields()) == 0 {
			add("no named fields, struct skipped")
		}
	case *decl.Function:
		for _, p := range v.Params {
			if p.Name == "" || p.Type == nil {
				add("unnamed parameter skipped")
				continue
			}
			if desc, bad := unsupportedIn(p.Type); bad {
				add(fmt.Sprintf("parameter %s: %s", p.Name, desc))
			}
		}
		if v.Return != nil {
			if desc, bad := unsupportedIn(v.Return); bad {
				add("return: " + desc)
			}
		}
	case *decl.Constant:
		if desc, bad := unsupportedIn(v.Type); bad {
			add(desc)
		}
	case *decl.Module:
		for _, child := range v.Decls {
			if nested, ok := child.(*decl.Module); ok {
				add(fmt.Sprintf("nested module %s not traversed", nested.Name))
				continue
			}
			issues = append(issues, FindIssues(child)...)
		}
	default:
		add(fmt.Sprintf("unsupported declaration kind %s", describeOther(d)))
	}

	return issues
}

func describeOther(d decl.Declaration) string {
	if o, ok := d.(*decl.Other); ok && o.What != "" {
		return o.What
	}
	return d.Kind().String()
}

// unsupportedIn reports the first node of t that degrades to the unknown type
func unsupportedIn(t decl.TypeExpr) (string, bool) {
	if t == nil {
		return "missing type", true
	}

	var desc string
	decl.Inspect(t, func(n decl.TypeExpr) bool {
		if desc != "" {
			return false
		}
		switch v := n.(type) {
		case *decl.Unsupported:
			desc = "unsupported type " + v.Desc
		case *decl.Primitive:
			if v.Class == decl.ClassOther {
				desc = "unsupported primitive " + v.Name
			}
		case *decl.Alias:
			if v.Name == "" {
				desc = "empty type name"
			}
		case *decl.Array:
			if v.Elem == nil {
				desc = "array without element type"
			}
		case *decl.Slice:
			if v.Elem == nil {
				desc = "slice without element type"
			}
		case *decl.Reference:
			if v.Inner == nil {
				desc = "reference without inner type"
			}
		case *decl.Map:
			if v.Key == nil || v.Value == nil {
				desc = "map without key or value type"
			}
		}
		return desc == ""
	})
	return desc, desc != ""
}
