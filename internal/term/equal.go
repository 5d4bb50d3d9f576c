package term

// scope is a linked list of binder names, innermost first.
type scope struct {
	name string
	next *scope
}

func (s *scope) index(name string) int {
	for i := 0; s != nil; s, i = s.next, i+1 {
		if s.name == name {
			return i
		}
	}
	return -1
}

// Equal reports whether a and b are equal up to renaming of bound
// variables.
func Equal(a, b Term) bool {
	return alphaEqual(a, b, nil, nil)
}

func alphaEqual(a, b Term, sa, sb *scope) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch a := a.(type) {
	case Var:
		bv, ok := b.(Var)
		if !ok {
			return false
		}
		ia, ib := sa.index(a.Name), sb.index(bv.Name)
		if ia != ib {
			return false
		}
		return ia >= 0 || a.Name == bv.Name
	case Const:
		bc, ok := b.(Const)
		return ok && a.Name == bc.Name
	case Meta:
		bm, ok := b.(Meta)
		return ok && a.Name == bm.Name
	case Lit:
		bl, ok := b.(Lit)
		return ok && a.Val == bl.Val
	case Sort:
		bs, ok := b.(Sort)
		return ok && a.Kind == bs.Kind
	case App:
		ba, ok := b.(App)
		return ok && alphaEqual(a.Fn, ba.Fn, sa, sb) && alphaEqual(a.Arg, ba.Arg, sa, sb)
	case Binding:
		bb, ok := b.(Binding)
		if !ok || a.Kind != bb.Kind {
			return false
		}
		// an annotation on one side only is not a difference
		if a.Type != nil && bb.Type != nil && !alphaEqual(a.Type, bb.Type, sa, sb) {
			return false
		}
		return alphaEqual(a.Body, bb.Body, &scope{name: a.Name, next: sa}, &scope{name: bb.Name, next: sb})
	default:
		return false
	}
}

// Size counts the nodes of t.
func Size(t Term) int {
	n := 0
	Walk(t, func(Term) bool {
		n++
		return true
	})
	return n
}
