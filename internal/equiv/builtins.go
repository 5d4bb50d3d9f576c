package equiv

import (
	"github.com/gnoswap-labs/equivrw/internal/term"
)

// Mk builds Equiv.mk fwd bwd leftInv rightInv.
func Mk(fwd, bwd, leftInv, rightInv term.Term) term.Term {
	return term.Apps(term.C(term.EquivMk), fwd, bwd, leftInv, rightInv)
}

// Declare installs the reductions of the Equiv projections and of
// Equiv.symm, Equiv.trans and Equiv.refl into sig.
func Declare(sig *term.Signature) {
	sig.Declare(term.Decl{Name: term.EquivName, Type: term.Arrow(typ, term.Arrow(typ, typ))})
	sig.DeclareBuiltin(term.EquivToFun, 1, func(r *term.Reducer, args []term.Term) (term.Term, bool) {
		return project(r, args[0], 0)
	})
	sig.DeclareBuiltin(term.EquivInv, 1, func(r *term.Reducer, args []term.Term) (term.Term, bool) {
		return project(r, args[0], 1)
	})
	sig.DeclareBuiltin(term.EquivSymm, 1, reduceSymm)
	sig.DeclareBuiltin(term.EquivTrans, 2, reduceTrans)

	// Equiv.refl A = Equiv.mk id id (fun x => Eq.refl x) (fun x => Eq.refl x)
	id := term.Lam("x", term.V("A"), term.V("x"))
	rfl := term.Lam("x", term.V("A"), term.Apps(term.C("Eq.refl"), term.V("x")))
	sig.Declare(term.Decl{
		Name:  term.EquivRefl,
		Type:  term.Pi("A", typ, term.EquivType(term.V("A"), term.V("A"))),
		Value: term.Lam("A", typ, Mk(id, id, rfl, rfl)),
	})
}

var typ = term.Sort{Kind: term.SortType}

// project returns field i of an Equiv.mk. The maps of symm e are the
// swapped maps of e, even when e itself does not reduce.
func project(r *term.Reducer, e term.Term, i int) (term.Term, bool) {
	if inner, ok := unSymm(e); ok {
		if i == 0 {
			return InvFun(inner), true
		}
		return ToFun(inner), true
	}
	if args, ok := term.IsApp(r.Whnf(e), term.EquivMk, 4); ok {
		return args[i], true
	}
	return nil, false
}

func reduceSymm(r *term.Reducer, args []term.Term) (term.Term, bool) {
	if inner, ok := unSymm(args[0]); ok {
		return inner, true
	}
	mk, ok := term.IsApp(r.Whnf(args[0]), term.EquivMk, 4)
	if !ok {
		return nil, false
	}
	return Mk(mk[1], mk[0], mk[3], mk[2]), true
}

func reduceTrans(_ *term.Reducer, args []term.Term) (term.Term, bool) {
	s, t := args[0], args[1]
	taken := term.FreeVars(s)
	for v := range term.FreeVars(t) {
		taken[v] = true
	}
	x := term.FreshName("x", taken)
	fwd := term.Lam(x, nil, term.App{Fn: ToFun(t), Arg: term.App{Fn: ToFun(s), Arg: term.V(x)}})
	bwd := term.Lam(x, nil, term.App{Fn: InvFun(s), Arg: term.App{Fn: InvFun(t), Arg: term.V(x)}})
	return Mk(fwd, bwd,
		term.Apps(term.C(term.EquivTrans+".left_inv"), s, t),
		term.Apps(term.C(term.EquivTrans+".right_inv"), s, t),
	), true
}
