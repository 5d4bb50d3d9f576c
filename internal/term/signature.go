package term

import "sort"

// Builtin is a reduction implemented in Go. Reduce receives exactly Arity
// arguments, unevaluated, and reports whether it made progress.
type Builtin struct {
	Arity  int
	Reduce func(r *Reducer, args []Term) (Term, bool)
}

// Decl declares a constant. Every field but Name is optional.
type Decl struct {
	Name    string
	Type    Term
	Value   Term
	Builtin *Builtin
}

// Signature is a scoped table of constant declarations.
// Declarations in a child shadow those of its parent.
type Signature struct {
	decls  map[string]*Decl
	parent *Signature
}

// NewSignature creates an empty signature.
func NewSignature() *Signature {
	return &Signature{
		decls: make(map[string]*Decl),
	}
}

// NewChildSignature creates a signature that falls back to parent.
func NewChildSignature(parent *Signature) *Signature {
	return &Signature{
		decls:  make(map[string]*Decl),
		parent: parent,
	}
}

// Lookup finds the declaration of name.
func (s *Signature) Lookup(name string) (*Decl, bool) {
	if d, ok := s.decls[name]; ok {
		return d, true
	}
	if s.parent != nil {
		return s.parent.Lookup(name)
	}
	return nil, false
}

// Declare adds or replaces a declaration in the current scope.
func (s *Signature) Declare(d Decl) {
	s.decls[d.Name] = &d
}

// DeclareBuiltin declares a constant reduced by fn.
func (s *Signature) DeclareBuiltin(name string, arity int, fn func(r *Reducer, args []Term) (Term, bool)) {
	s.Declare(Decl{Name: name, Builtin: &Builtin{Arity: arity, Reduce: fn}})
}

// TypeOf returns the declared type of name, if any.
func (s *Signature) TypeOf(name string) (Term, bool) {
	d, ok := s.Lookup(name)
	if !ok || d.Type == nil {
		return nil, false
	}
	return d.Type, true
}

// Clone copies the current scope. The parent is shared.
func (s *Signature) Clone() *Signature {
	out := &Signature{
		decls:  make(map[string]*Decl, len(s.decls)),
		parent: s.parent,
	}
	for k, v := range s.decls {
		d := *v
		out.decls[k] = &d
	}
	return out
}

// Names returns every visible constant name, sorted.
func (s *Signature) Names() []string {
	seen := make(map[string]struct{})
	for sig := s; sig != nil; sig = sig.parent {
		for k := range sig.decls {
			seen[k] = struct{}{}
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
