package term

// Matcher finds the occurrences of one term inside others.
type Matcher struct {
	target     Term
	normTarget Term
	targetFree map[string]bool
	reducer    *Reducer
	tr         Transparency
}

// NewMatcher creates a matcher for target. With TransparencyFull a subterm
// matches when its normal form equals the normal form of target.
func NewMatcher(target Term, reducer *Reducer, tr Transparency) *Matcher {
	m := &Matcher{
		target:     target,
		targetFree: FreeVars(target),
		reducer:    reducer,
		tr:         tr,
	}
	if tr == TransparencyFull && reducer != nil {
		m.normTarget = reducer.Normalize(target)
	}
	return m
}

// Matches reports whether t is an occurrence of the target.
func (m *Matcher) Matches(t Term) bool {
	if Equal(t, m.target) {
		return true
	}
	if m.normTarget == nil {
		return false
	}
	if _, ok := t.(App); !ok {
		return false
	}
	return Equal(m.reducer.Normalize(t), m.normTarget)
}

// Count returns the number of occurrences of the target in t.
func (m *Matcher) Count(t Term) int {
	_, n := m.Abstract(t, "")
	return n
}

// Abstract replaces every occurrence of the target in t by the variable
// name and reports how many were replaced. Occurrences below a binder that
// shadows a free variable of the target are not occurrences.
func (m *Matcher) Abstract(t Term, name string) (Term, int) {
	n := 0
	out := m.abstract(t, name, &n)
	return out, n
}

func (m *Matcher) abstract(t Term, name string, n *int) Term {
	if t == nil {
		return nil
	}
	if m.Matches(t) {
		*n++
		return Var{Name: name}
	}
	switch t := t.(type) {
	case App:
		return App{Fn: m.abstract(t.Fn, name, n), Arg: m.abstract(t.Arg, name, n)}
	case Binding:
		t.Type = m.abstract(t.Type, name, n)
		if m.targetFree[t.Name] {
			return t
		}
		t.Body = m.abstract(t.Body, name, n)
		return t
	default:
		return t
	}
}

// Names collects every variable name of t, free or bound.
func Names(t Term, into map[string]bool) map[string]bool {
	if into == nil {
		into = make(map[string]bool)
	}
	Walk(t, func(sub Term) bool {
		switch sub := sub.(type) {
		case Var:
			into[sub.Name] = true
		case Binding:
			into[sub.Name] = true
		}
		return true
	})
	return into
}
