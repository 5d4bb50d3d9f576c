package term

import "strconv"

// FreshName returns base if it is not taken, otherwise the first of
// base_1, base_2, ... that is not. The result only depends on its inputs.
func FreshName(base string, taken map[string]bool) string {
	if base == "" {
		base = "x"
	}
	if !taken[base] {
		return base
	}
	for i := 1; ; i++ {
		candidate := base + "_" + strconv.Itoa(i)
		if !taken[candidate] {
			return candidate
		}
	}
}

// FreeVars returns the names of the free variables of t.
func FreeVars(t Term) map[string]bool {
	fv := make(map[string]bool)
	collectFree(t, make(map[string]int), fv)
	return fv
}

func collectFree(t Term, bound map[string]int, fv map[string]bool) {
	switch t := t.(type) {
	case Var:
		if bound[t.Name] == 0 {
			fv[t.Name] = true
		}
	case App:
		collectFree(t.Fn, bound, fv)
		collectFree(t.Arg, bound, fv)
	case Binding:
		if t.Type != nil {
			collectFree(t.Type, bound, fv)
		}
		bound[t.Name]++
		collectFree(t.Body, bound, fv)
		bound[t.Name]--
	}
}

// Occurs reports whether the variable name occurs free in t.
func Occurs(name string, t Term) bool {
	switch t := t.(type) {
	case Var:
		return t.Name == name
	case App:
		return Occurs(name, t.Fn) || Occurs(name, t.Arg)
	case Binding:
		if t.Type != nil && Occurs(name, t.Type) {
			return true
		}
		if t.Name == name {
			return false
		}
		return Occurs(name, t.Body)
	default:
		return false
	}
}

// OccursAny reports whether any of the names occurs free in t.
func OccursAny(names map[string]bool, t Term) bool {
	for name := range FreeVars(t) {
		if names[name] {
			return true
		}
	}
	return false
}

// Subst replaces the free occurrences of the variable name in t by repl,
// renaming binders that would capture free variables of repl.
func Subst(t Term, name string, repl Term) Term {
	return subst(t, name, repl, FreeVars(repl))
}

func subst(t Term, name string, repl Term, replFree map[string]bool) Term {
	switch t := t.(type) {
	case Var:
		if t.Name == name {
			return repl
		}
		return t
	case App:
		return App{Fn: subst(t.Fn, name, repl, replFree), Arg: subst(t.Arg, name, repl, replFree)}
	case Binding:
		if t.Type != nil {
			t.Type = subst(t.Type, name, repl, replFree)
		}
		if t.Name == name || !Occurs(name, t.Body) {
			return t
		}
		if replFree[t.Name] {
			taken := FreeVars(t.Body)
			for v := range replFree {
				taken[v] = true
			}
			taken[name] = true
			fresh := FreshName(t.Name, taken)
			t.Body = Subst(t.Body, t.Name, Var{Name: fresh})
			t.Name = fresh
		}
		t.Body = subst(t.Body, name, repl, replFree)
		return t
	default:
		return t
	}
}

// Instantiate substitutes arg for the bound variable of b in its body.
func Instantiate(b Binding, arg Term) Term {
	return Subst(b.Body, b.Name, arg)
}

// Rename renames the free variable from to the variable to.
func Rename(t Term, from, to string) Term {
	if from == to {
		return t
	}
	return Subst(t, from, Var{Name: to})
}

// Metas returns the names of the metavariables of t in order of first
// appearance.
func Metas(t Term) []string {
	var names []string
	seen := make(map[string]bool)
	Walk(t, func(sub Term) bool {
		if m, ok := sub.(Meta); ok && !seen[m.Name] {
			seen[m.Name] = true
			names = append(names, m.Name)
		}
		return true
	})
	return names
}

// ReplaceMetas replaces every assigned metavariable by its value. Values
// are inserted as they are, so they see the binders around the hole.
func ReplaceMetas(t Term, assign func(name string) (Term, bool)) Term {
	return Transform(t, func(sub Term) (Term, bool) {
		if m, ok := sub.(Meta); ok {
			if v, ok := assign(m.Name); ok {
				return v, true
			}
		}
		return nil, false
	})
}

// Walk visits t and its subterms in pre-order. Returning false from visit
// skips the children of the current node.
func Walk(t Term, visit func(Term) bool) {
	if t == nil || !visit(t) {
		return
	}
	switch t := t.(type) {
	case App:
		Walk(t.Fn, visit)
		Walk(t.Arg, visit)
	case Binding:
		Walk(t.Type, visit)
		Walk(t.Body, visit)
	}
}

// Transform rebuilds t top-down. When f returns true its result replaces
// the node and is not visited further; otherwise children are transformed.
// Binders are not renamed.
func Transform(t Term, f func(Term) (Term, bool)) Term {
	if t == nil {
		return nil
	}
	if r, ok := f(t); ok {
		return r
	}
	switch t := t.(type) {
	case App:
		return App{Fn: Transform(t.Fn, f), Arg: Transform(t.Arg, f)}
	case Binding:
		t.Type = Transform(t.Type, f)
		t.Body = Transform(t.Body, f)
		return t
	default:
		return t
	}
}
