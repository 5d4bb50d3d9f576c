package prelude

import (
	"github.com/gnoswap-labs/equivrw/internal/term"
)

type reduceFunc = func(r *term.Reducer, args []term.Term) (term.Term, bool)

func declareBuiltins(sig *term.Signature) {
	builtins := []struct {
		name  string
		arity int
		fn    reduceFunc
	}{
		{"Nat.add", 2, natOp(func(a, b int64) (int64, bool) { return a + b, true })},
		{"Nat.mod", 2, natOp(func(a, b int64) (int64, bool) { return a % b, b != 0 })},
		{"Nat.succ", 1, func(r *term.Reducer, args []term.Term) (term.Term, bool) {
			n, ok := r.Whnf(args[0]).(term.Lit)
			if !ok {
				return nil, false
			}
			return term.N(n.Val + 1), true
		}},
		{"Fin.val", 1, field("Fin.mk", 1, 0)},
		{"Bool.not", 1, func(r *term.Reducer, args []term.Term) (term.Term, bool) {
			switch constName(r.Whnf(args[0])) {
			case "true":
				return term.C("false"), true
			case "false":
				return term.C("true"), true
			}
			return nil, false
		}},
		{"Bool.toOption", 1, func(r *term.Reducer, args []term.Term) (term.Term, bool) {
			switch constName(r.Whnf(args[0])) {
			case "true":
				return term.Apps(term.C("some"), term.C("unit")), true
			case "false":
				return term.C("none"), true
			}
			return nil, false
		}},
		{"Option.isSome", 1, func(r *term.Reducer, args []term.Term) (term.Term, bool) {
			v := r.Whnf(args[0])
			if constName(v) == "none" {
				return term.C("false"), true
			}
			if _, ok := term.IsApp(v, "some", 1); ok {
				return term.C("true"), true
			}
			return nil, false
		}},
		{"List.map", 2, listMap},
		{"List.length", 1, listLength},
		{"Option.map", 2, func(r *term.Reducer, args []term.Term) (term.Term, bool) {
			v := r.Whnf(args[1])
			if constName(v) == "none" {
				return v, true
			}
			if x, ok := term.IsApp(v, "some", 1); ok {
				return term.Apps(term.C("some"), term.App{Fn: args[0], Arg: x[0]}), true
			}
			return nil, false
		}},
		{"Prod.map", 3, func(r *term.Reducer, args []term.Term) (term.Term, bool) {
			p, ok := term.IsApp(r.Whnf(args[2]), "Prod.mk", 2)
			if !ok {
				return nil, false
			}
			return term.Apps(term.C("Prod.mk"), term.App{Fn: args[0], Arg: p[0]}, term.App{Fn: args[1], Arg: p[1]}), true
		}},
		{"Sum.map", 3, func(r *term.Reducer, args []term.Term) (term.Term, bool) {
			v := r.Whnf(args[2])
			if x, ok := term.IsApp(v, "Sum.inl", 1); ok {
				return term.Apps(term.C("Sum.inl"), term.App{Fn: args[0], Arg: x[0]}), true
			}
			if x, ok := term.IsApp(v, "Sum.inr", 1); ok {
				return term.Apps(term.C("Sum.inr"), term.App{Fn: args[1], Arg: x[0]}), true
			}
			return nil, false
		}},
		{"Prod.fst", 1, field("Prod.mk", 2, 0)},
		{"Prod.snd", 1, field("Prod.mk", 2, 1)},
		{"Subtype.val", 1, field("Subtype.mk", 2, 0)},
		{"Subtype.property", 1, field("Subtype.mk", 2, 1)},
		{"Sigma.fst", 1, field("Sigma.mk", 2, 0)},
		{"Sigma.snd", 1, field("Sigma.mk", 2, 1)},
		// proofs carry no computational content
		{"cast", 1, func(_ *term.Reducer, args []term.Term) (term.Term, bool) { return args[0], true }},
		{"Eq.mpr", 2, second},
		{"Eq.mp", 2, second},
	}
	for _, b := range builtins {
		sig.DeclareBuiltin(b.name, b.arity, b.fn)
	}
}

func second(_ *term.Reducer, args []term.Term) (term.Term, bool) {
	return args[1], true
}

func constName(t term.Term) string {
	if c, ok := t.(term.Const); ok {
		return c.Name
	}
	return ""
}

func natOp(op func(a, b int64) (int64, bool)) reduceFunc {
	return func(r *term.Reducer, args []term.Term) (term.Term, bool) {
		a, ok := r.Whnf(args[0]).(term.Lit)
		if !ok {
			return nil, false
		}
		b, ok := r.Whnf(args[1]).(term.Lit)
		if !ok {
			return nil, false
		}
		v, ok := op(a.Val, b.Val)
		if !ok {
			return nil, false
		}
		return term.N(v), true
	}
}

// field projects argument i out of the constructor ctor of the given
// arity.
func field(ctor string, arity, i int) reduceFunc {
	return func(r *term.Reducer, args []term.Term) (term.Term, bool) {
		fields, ok := term.IsApp(r.Whnf(args[0]), ctor, arity)
		if !ok {
			return nil, false
		}
		return fields[i], true
	}
}

func listMap(r *term.Reducer, args []term.Term) (term.Term, bool) {
	f, l := args[0], r.Whnf(args[1])
	if constName(l) == term.ListNil {
		return l, true
	}
	cell, ok := term.IsApp(l, term.ListCons, 2)
	if !ok {
		return nil, false
	}
	return term.Apps(term.C(term.ListCons),
		term.App{Fn: f, Arg: cell[0]},
		term.Apps(term.C("List.map"), f, cell[1]),
	), true
}

func listLength(r *term.Reducer, args []term.Term) (term.Term, bool) {
	n := int64(0)
	l := r.Whnf(args[0])
	for {
		if constName(l) == term.ListNil {
			return term.N(n), true
		}
		cell, ok := term.IsApp(l, term.ListCons, 2)
		if !ok {
			return nil, false
		}
		n++
		l = r.Whnf(cell[1])
	}
}
