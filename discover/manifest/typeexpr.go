package manifest

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/teranos/decl2ts/decl"
)

// primitives maps host builtin names to their translation class
var primitives = map[string]decl.PrimitiveClass{
	"i8":     decl.ClassInt,
	"i16":    decl.ClassInt,
	"i32":    decl.ClassInt,
	"i64":    decl.ClassInt,
	"i128":   decl.ClassInt,
	"isize":  decl.ClassInt,
	"u8":     decl.ClassUint,
	"u16":    decl.ClassUint,
	"u32":    decl.ClassUint,
	"u64":    decl.ClassUint,
	"u128":   decl.ClassUint,
	"usize":  decl.ClassUint,
	"f32":    decl.ClassFloat,
	"f64":    decl.ClassFloat,
	"bool":   decl.ClassBool,
	"String": decl.ClassString,
	"str":    decl.ClassStr,
	"char":   decl.ClassOther,
}

// ParseType parses a host type expression such as "i32", "&'a str",
// "[[i32; 8]; 8]" or "crate::chess::Board".
//
// Shapes without a structural mapping (generics, tuples, function pointers,
// trait objects) and malformed input become *decl.Unsupported carrying the
// original text; ParseType never fails. It returns nil for blank input.
func ParseType(s string) decl.TypeExpr {
	src := strings.TrimSpace(s)
	if src == "" {
		return nil
	}

	p := &typeParser{src: src}
	t, ok := p.parseType()
	p.skipSpace()
	if !ok || p.pos != len(p.src) {
		return &decl.Unsupported{Desc: src}
	}
	return t
}

// ParseReturn parses a return type. Blank input and the unit type "()" mean no value.
func ParseReturn(s string) decl.TypeExpr {
	src := strings.TrimSpace(s)
	if src == "" || strings.ReplaceAll(src, " ", "") == "()" {
		return nil
	}
	return ParseType(src)
}

type typeParser struct {
	src string
	pos int
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && unicode.IsSpace(rune(p.src[p.pos])) {
		p.pos++
	}
}

func (p *typeParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *typeParser) consume(b byte) bool {
	p.skipSpace()
	if p.peek() == b {
		p.pos++
		return true
	}
	return false
}

// keyword consumes word if it appears next as a whole identifier
func (p *typeParser) keyword(word string) bool {
	p.skipSpace()
	if !strings.HasPrefix(p.src[p.pos:], word) {
		return false
	}
	end := p.pos + len(word)
	if end < len(p.src) && isIdentByte(p.src[end]) {
		return false
	}
	p.pos = end
	return true
}

func (p *typeParser) parseType() (decl.TypeExpr, bool) {
	p.skipSpace()
	start := p.pos

	switch c := p.peek(); {
	case c == '&':
		p.pos++
		if p.consume('&') {
			// "&&T" is a reference to a reference
			inner, ok := p.parseReferent()
			return &decl.Reference{Inner: &decl.Reference{Inner: inner}}, ok
		}
		return p.parseReferentWrapped()

	case c == '*':
		// Raw pointers behave like references for shape purposes
		p.pos++
		mutable := p.keyword("mut")
		if !mutable && !p.keyword("const") {
			return nil, false
		}
		inner, ok := p.parseType()
		return &decl.Reference{Inner: inner, Mutable: mutable}, ok

	case c == '[':
		p.pos++
		elem, ok := p.parseType()
		if !ok {
			return nil, false
		}
		if p.consume(']') {
			return &decl.Slice{Elem: elem}, true
		}
		if !p.consume(';') {
			return nil, false
		}
		n, ok := p.parseLength()
		if !ok || !p.consume(']') {
			return nil, false
		}
		return &decl.Array{Elem: elem, Len: n}, true

	case c == '(':
		// Tuples and the unit type
		if !p.skipBalanced('(', ')') {
			return nil, false
		}
		return &decl.Unsupported{Desc: strings.TrimSpace(p.src[start:p.pos])}, true

	case c == '!' || c == '_':
		p.pos++
		if c == '_' && p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
			p.pos = start
			return p.parsePath()
		}
		return &decl.Unsupported{Desc: string(c)}, true

	default:
		if p.keyword("dyn") || p.keyword("impl") || p.keyword("fn") ||
			p.keyword("unsafe") || p.keyword("extern") {
			// These never map structurally; consume up to the enclosing delimiter
			p.skipOperand()
			return &decl.Unsupported{Desc: strings.TrimSpace(p.src[start:p.pos])}, true
		}
		return p.parsePath()
	}
}

// parseReferentWrapped parses what follows a single '&': optional lifetime, optional mut, type
func (p *typeParser) parseReferentWrapped() (decl.TypeExpr, bool) {
	p.skipSpace()
	if p.peek() == '\'' {
		p.pos++
		if !p.skipIdent() {
			return nil, false
		}
	}
	mutable := p.keyword("mut")
	inner, ok := p.parseType()
	return &decl.Reference{Inner: inner, Mutable: mutable}, ok
}

func (p *typeParser) parseReferent() (decl.TypeExpr, bool) {
	ref, ok := p.parseReferentWrapped()
	if !ok {
		return nil, false
	}
	return ref.(*decl.Reference).Inner, true
}

func (p *typeParser) parseLength() (int, bool) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] != ']' {
		p.pos++
	}
	raw := strings.TrimSpace(p.src[start:p.pos])
	if raw == "" {
		return 0, false
	}
	// Strip integer suffixes like 8usize
	digits := strings.TrimRightFunc(raw, unicode.IsLetter)
	n, err := strconv.Atoi(strings.ReplaceAll(digits, "_", ""))
	if err != nil {
		// Const-generic or expression length: shape is still an array
		return -1, true
	}
	return n, true
}

// parsePath parses a::b::Name with optional generic arguments
func (p *typeParser) parsePath() (decl.TypeExpr, bool) {
	p.skipSpace()
	start := p.pos

	var last string
	for {
		p.skipSpace()
		segStart := p.pos
		if !p.skipIdent() {
			return nil, false
		}
		last = p.src[segStart:p.pos]
		p.skipSpace()
		if strings.HasPrefix(p.src[p.pos:], "::") {
			p.pos += 2
			p.skipSpace()
			if p.peek() == '<' {
				// Turbofish: a::<T>
				break
			}
			continue
		}
		break
	}

	p.skipSpace()
	if p.peek() == '<' {
		if !p.skipBalanced('<', '>') {
			return nil, false
		}
		return &decl.Unsupported{Desc: strings.TrimSpace(p.src[start:p.pos])}, true
	}

	if class, ok := primitives[last]; ok {
		return &decl.Primitive{Name: last, Class: class}, true
	}
	if last == "Self" {
		return &decl.Unsupported{Desc: last}, true
	}
	return &decl.Alias{Name: last}, true
}

func (p *typeParser) skipIdent() bool {
	start := p.pos
	for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
		p.pos++
	}
	if p.pos == start {
		return false
	}
	c := p.src[start]
	return c == '_' || c >= 0x80 || unicode.IsLetter(rune(c))
}

// skipBalanced consumes a bracketed group, nested brackets of the same kind
// included. The '>' of a "->" arrow never closes a group.
func (p *typeParser) skipBalanced(open, close byte) bool {
	if p.peek() != open {
		return false
	}
	depth := 0
	for p.pos < len(p.src) {
		if p.arrow() {
			p.pos += 2
			continue
		}
		c := p.src[p.pos]
		p.pos++
		switch c {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return true
			}
		}
	}
	return false
}

// skipOperand advances to the first ';', ',' or closing bracket outside any
// nested group, or to the end of input
func (p *typeParser) skipOperand() {
	depth := 0
	for p.pos < len(p.src) {
		if p.arrow() {
			p.pos += 2
			continue
		}
		switch p.src[p.pos] {
		case '(', '[', '<':
			depth++
		case ')', ']', '>':
			if depth == 0 {
				return
			}
			depth--
		case ';', ',':
			if depth == 0 {
				return
			}
		}
		p.pos++
	}
}

func (p *typeParser) arrow() bool {
	return strings.HasPrefix(p.src[p.pos:], "->")
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= 0x80 || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
