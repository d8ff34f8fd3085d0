package decl

// DeclKind identifies a Declaration variant.
type DeclKind int

const (
	DeclStruct DeclKind = iota
	DeclFunction
	DeclConstant
	DeclModule
	DeclOther
)

func (k DeclKind) String() string {
	switch k {
	case DeclStruct:
		return "struct"
	case DeclFunction:
		return "function"
	case DeclConstant:
		return "const"
	case DeclModule:
		return "module"
	default:
		return "other"
	}
}

// Declaration is one exported host item.
type Declaration interface {
	Kind() DeclKind
	DeclName() string
}

// Field is a struct member. An empty Name marks a tuple-style field.
type Field struct {
	Name string
	Type TypeExpr
}

// Struct owns its fields in declaration order.
type Struct struct {
	Name   string
	Fields []Field
}

func (s *Struct) Kind() DeclKind   { return DeclStruct }
func (s *Struct) DeclName() string { return s.Name }

// NamedFields returns the fields that carry a name, in order.
func (s *Struct) NamedFields() []Field {
	named := make([]Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		if f.Name != "" {
			named = append(named, f)
		}
	}
	return named
}

// Param is a function parameter. An empty Name marks a pattern or
// otherwise unnamed parameter.
type Param struct {
	Name string
	Type TypeExpr
}

// Function is a signature. A nil Return means no value.
type Function struct {
	Name   string
	Params []Param
	Return TypeExpr
}

func (f *Function) Kind() DeclKind   { return DeclFunction }
func (f *Function) DeclName() string { return f.Name }

// NamedParams returns the parameters that carry both a name and a type.
func (f *Function) NamedParams() []Param {
	named := make([]Param, 0, len(f.Params))
	for _, p := range f.Params {
		if p.Name != "" && p.Type != nil {
			named = append(named, p)
		}
	}
	return named
}

// Constant is a typed constant. Its value is never modelled.
type Constant struct {
	Name string
	Type TypeExpr
}

func (c *Constant) Kind() DeclKind   { return DeclConstant }
func (c *Constant) DeclName() string { return c.Name }

// Module groups declarations one level deep.
type Module struct {
	Name  string
	Decls []Declaration
}

func (m *Module) Kind() DeclKind   { return DeclModule }
func (m *Module) DeclName() string { return m.Name }

// Other is a declaration kind with no translation (enum, trait, interface...).
type Other struct {
	Name string
	What string
}

func (o *Other) Kind() DeclKind   { return DeclOther }
func (o *Other) DeclName() string { return o.Name }

// Fragment is generated text paired with its emission position.
type Fragment struct {
	Seq  int
	Text string
}

// Empty reports whether the fragment carries no text.
func (f Fragment) Empty() bool { return f.Text == "" }
