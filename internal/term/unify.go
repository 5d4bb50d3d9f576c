package term

import (
	"sort"
	"strings"
)

// Bindings assigns terms to metavariables.
type Bindings map[string]Term

// Clone copies the assignment map.
func (b Bindings) Clone() Bindings {
	out := make(Bindings, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// Apply replaces assigned metavariables in t, following chains of
// assignments.
func (b Bindings) Apply(t Term) Term {
	if len(b) == 0 {
		return t
	}
	return ReplaceMetas(t, func(name string) (Term, bool) {
		v, ok := b[name]
		if !ok {
			return nil, false
		}
		return b.Apply(v), true
	})
}

func (b Bindings) String() string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = "?" + k + " := " + b[k].String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// Unify solves a = b syntactically by assigning metavariables on either
// side. It returns the extended assignment; the input is never modified.
// Metavariables cannot capture variables bound inside a or b.
func Unify(a, b Term, binds Bindings) (Bindings, bool) {
	u := unifier{binds: binds.Clone()}
	if !u.unify(a, b, nil, nil) {
		return binds, false
	}
	return u.binds, true
}

type unifier struct {
	binds Bindings
}

func (u *unifier) resolve(t Term) Term {
	for {
		m, ok := t.(Meta)
		if !ok {
			return t
		}
		v, ok := u.binds[m.Name]
		if !ok {
			return t
		}
		t = v
	}
}

func (u *unifier) assign(name string, value Term, s *scope) bool {
	for fv := range FreeVars(value) {
		if s.index(fv) >= 0 {
			return false
		}
	}
	for _, m := range Metas(u.binds.Apply(value)) {
		if m == name {
			return false
		}
	}
	u.binds[name] = value
	return true
}

func (u *unifier) unify(a, b Term, sa, sb *scope) bool {
	if a == nil || b == nil {
		return true
	}
	a, b = u.resolve(a), u.resolve(b)

	if am, ok := a.(Meta); ok {
		if bm, ok := b.(Meta); ok && bm.Name == am.Name {
			return true
		}
		return u.assign(am.Name, b, sb)
	}
	if bm, ok := b.(Meta); ok {
		return u.assign(bm.Name, a, sa)
	}

	switch a := a.(type) {
	case App:
		ba, ok := b.(App)
		return ok && u.unify(a.Fn, ba.Fn, sa, sb) && u.unify(a.Arg, ba.Arg, sa, sb)
	case Binding:
		bb, ok := b.(Binding)
		if !ok || a.Kind != bb.Kind {
			return false
		}
		if !u.unify(a.Type, bb.Type, sa, sb) {
			return false
		}
		return u.unify(a.Body, bb.Body, &scope{name: a.Name, next: sa}, &scope{name: bb.Name, next: sb})
	default:
		return alphaEqual(a, b, sa, sb)
	}
}
