package congr

import (
	"github.com/gnoswap-labs/equivrw/internal/equiv"
	"github.com/gnoswap-labs/equivrw/internal/term"
)

// Combinator constants of the structural rules.
const (
	EquivCongr     = "Equiv.equivCongr"
	ArrowCongr     = "Equiv.arrowCongr"
	SubtypeCongr   = "Equiv.subtypeCongr"
	SigmaCongrLeft = "Equiv.sigmaCongrLeft"
	ForallCongr    = "Equiv.forallCongr"
	PiCongrLeft    = "Equiv.piCongrLeft"
)

const (
	castName    = "cast"
	subtypeMk   = "Subtype.mk"
	subtypeVal  = "Subtype.val"
	subtypeProp = "Subtype.property"
	sigmaMk     = "Sigma.mk"
	sigmaFst    = "Sigma.fst"
	sigmaSnd    = "Sigma.snd"
)

func cast(t term.Term) term.Term {
	return term.App{Fn: term.C(castName), Arg: t}
}

// pairMatch is a match of a former with two independent components.
type pairMatch struct {
	env     *Env
	name    string
	prefix  []term.Term
	left    term.Term
	parts   [2]term.Term
	rebuild func(a, b term.Term) term.Term
}

func (m *pairMatch) Obligation(i int, _ []Solution) term.Term {
	return m.env.Goal(m.parts[i])
}

func (m *pairMatch) Combine(solved []Solution) (*equiv.Relation, error) {
	a, b := solved[0].Rel, solved[1].Rel
	args := append(append([]term.Term(nil), m.prefix...), a.Term, b.Term)
	return build(m.name, args, m.left, m.rebuild(a.Right, b.Right))
}

type equivCongrRule struct{}

// NewEquivCongr returns the rule for Equiv α β.
func NewEquivCongr() Rule { return equivCongrRule{} }

func (equivCongrRule) Name() string  { return "equivCongr" }
func (equivCongrRule) Shape() string { return "Equiv α β" }
func (equivCongrRule) Arity() int    { return 2 }

func (equivCongrRule) Match(env *Env, p term.Term) (Match, bool) {
	args, ok := term.IsApp(p, term.EquivName, 2)
	if !ok {
		return nil, false
	}
	return &pairMatch{
		env:     env,
		name:    EquivCongr,
		left:    p,
		parts:   [2]term.Term{args[0], args[1]},
		rebuild: term.EquivType,
	}, true
}

func (equivCongrRule) Declare(sig *term.Signature) {
	declareCombinator(sig, EquivCongr, 2, func(args []term.Term) (term.Term, term.Term) {
		e1, e2 := args[0], args[1]
		trans := func(a, b term.Term) term.Term { return term.Apps(term.C(term.EquivTrans), a, b) }
		fwd := lam("f", args, func(f term.Term) term.Term {
			return trans(equiv.Symm(e1), trans(f, e2))
		})
		bwd := lam("g", args, func(g term.Term) term.Term {
			return trans(e1, trans(g, equiv.Symm(e2)))
		})
		return fwd, bwd
	})
}

type arrowCongrRule struct{}

// NewArrowCongr returns the rule for non-dependent functions α -> β.
func NewArrowCongr() Rule { return arrowCongrRule{} }

func (arrowCongrRule) Name() string  { return "arrowCongr" }
func (arrowCongrRule) Shape() string { return "α -> β" }
func (arrowCongrRule) Arity() int    { return 2 }

func (arrowCongrRule) Match(env *Env, p term.Term) (Match, bool) {
	b, ok := p.(term.Binding)
	if !ok || !term.IsArrow(b) {
		return nil, false
	}
	return &pairMatch{
		env:     env,
		name:    ArrowCongr,
		left:    p,
		parts:   [2]term.Term{b.Type, b.Body},
		rebuild: term.Arrow,
	}, true
}

func (arrowCongrRule) Declare(sig *term.Signature) {
	declareCombinator(sig, ArrowCongr, 2, func(args []term.Term) (term.Term, term.Term) {
		e1, e2 := args[0], args[1]
		fwd := lam("f", args, func(f term.Term) term.Term {
			return lam("a", append(args, f), func(a term.Term) term.Term {
				return term.App{Fn: equiv.ToFun(e2), Arg: term.App{Fn: f, Arg: term.App{Fn: equiv.InvFun(e1), Arg: a}}}
			})
		})
		bwd := lam("g", args, func(g term.Term) term.Term {
			return lam("a", append(args, g), func(a term.Term) term.Term {
				return term.App{Fn: equiv.InvFun(e2), Arg: term.App{Fn: g, Arg: term.App{Fn: equiv.ToFun(e1), Arg: a}}}
			})
		})
		return fwd, bwd
	})
}

// domainMatch is a match of a binder whose domain is transported and
// whose body is rewritten through the backward map.
type domainMatch struct {
	env  *Env
	name string
	kind term.BinderKind
	left term.Term
	b    term.Binding
}

func (m *domainMatch) Obligation(int, []Solution) term.Term {
	return m.env.Goal(m.b.Type)
}

func (m *domainMatch) Combine(solved []Solution) (*equiv.Relation, error) {
	e := solved[0].Rel
	y := rebind(m.b.Name, m.b.Body, e.Term, e.Right)
	body := term.Subst(m.b.Body, m.b.Name, e.Unapply(term.V(y)))
	right := term.Binding{Kind: m.kind, Name: y, Type: e.Right, Body: body}
	family := term.Lam(m.b.Name, m.b.Type, m.b.Body)
	return build(m.name, []term.Term{e.Term, family}, m.left, right)
}

type subtypeCongrRule struct{}

// NewSubtypeCongr returns the rule for {x : α // P x}.
func NewSubtypeCongr() Rule { return subtypeCongrRule{} }

func (subtypeCongrRule) Name() string  { return "subtypeCongr" }
func (subtypeCongrRule) Shape() string { return "{x : α // P x}" }
func (subtypeCongrRule) Arity() int    { return 1 }

func (subtypeCongrRule) Match(env *Env, p term.Term) (Match, bool) {
	b, ok := p.(term.Binding)
	if !ok || b.Kind != term.KindSubtype {
		return nil, false
	}
	return &domainMatch{env: env, name: SubtypeCongr, kind: term.KindSubtype, left: p, b: b}, true
}

func (subtypeCongrRule) Declare(sig *term.Signature) {
	declareCombinator(sig, SubtypeCongr, 2, func(args []term.Term) (term.Term, term.Term) {
		e := args[0]
		via := func(m term.Term) term.Term {
			return lam("s", args, func(s term.Term) term.Term {
				val := term.App{Fn: term.C(subtypeVal), Arg: s}
				prop := term.App{Fn: term.C(subtypeProp), Arg: s}
				return term.Apps(term.C(subtypeMk), term.App{Fn: m, Arg: val}, cast(prop))
			})
		}
		return via(equiv.ToFun(e)), via(equiv.InvFun(e))
	})
}

type sigmaCongrLeftRule struct{}

// NewSigmaCongrLeft returns the rule for Σ x : α, F x.
func NewSigmaCongrLeft() Rule { return sigmaCongrLeftRule{} }

func (sigmaCongrLeftRule) Name() string  { return "sigmaCongrLeft" }
func (sigmaCongrLeftRule) Shape() string { return "Sigma (x : α), F x" }
func (sigmaCongrLeftRule) Arity() int    { return 1 }

func (sigmaCongrLeftRule) Match(env *Env, p term.Term) (Match, bool) {
	b, ok := p.(term.Binding)
	if !ok || b.Kind != term.KindSigma {
		return nil, false
	}
	return &domainMatch{env: env, name: SigmaCongrLeft, kind: term.KindSigma, left: p, b: b}, true
}

func (sigmaCongrLeftRule) Declare(sig *term.Signature) {
	declareCombinator(sig, SigmaCongrLeft, 2, func(args []term.Term) (term.Term, term.Term) {
		e := args[0]
		via := func(m term.Term) term.Term {
			return lam("p", args, func(p term.Term) term.Term {
				fst := term.App{Fn: term.C(sigmaFst), Arg: p}
				snd := term.App{Fn: term.C(sigmaSnd), Arg: p}
				return term.Apps(term.C(sigmaMk), term.App{Fn: m, Arg: fst}, cast(snd))
			})
		}
		return via(equiv.ToFun(e)), via(equiv.InvFun(e))
	})
}

type piCongrLeftRule struct{}

// NewPiCongrLeft returns the rule for Pi (x : α), F x. Only the domain is
// transported.
func NewPiCongrLeft() Rule { return piCongrLeftRule{} }

func (piCongrLeftRule) Name() string  { return "piCongrLeft" }
func (piCongrLeftRule) Shape() string { return "Pi (x : α), F x" }
func (piCongrLeftRule) Arity() int    { return 1 }

func (piCongrLeftRule) Match(env *Env, p term.Term) (Match, bool) {
	b, ok := p.(term.Binding)
	if !ok || b.Kind != term.KindPi {
		return nil, false
	}
	return &domainMatch{env: env, name: PiCongrLeft, kind: term.KindPi, left: p, b: b}, true
}

func (piCongrLeftRule) Declare(sig *term.Signature) {
	declareCombinator(sig, PiCongrLeft, 2, func(args []term.Term) (term.Term, term.Term) {
		e := args[0]
		fwd := lam("f", args, func(f term.Term) term.Term {
			return lam("y", append(args, f), func(y term.Term) term.Term {
				return term.App{Fn: f, Arg: term.App{Fn: equiv.InvFun(e), Arg: y}}
			})
		})
		bwd := lam("g", args, func(g term.Term) term.Term {
			return lam("x", append(args, g), func(x term.Term) term.Term {
				return cast(term.App{Fn: g, Arg: term.App{Fn: equiv.ToFun(e), Arg: x}})
			})
		})
		return fwd, bwd
	})
}

type forallCongrRule struct{}

// NewForallCongr returns the rule for forall (x : α), P x. The body is
// solved under a binder of the new domain, so nested quantifiers are
// handled by applying the rule again.
func NewForallCongr() Rule { return forallCongrRule{} }

func (forallCongrRule) Name() string  { return "forallCongr" }
func (forallCongrRule) Shape() string { return "forall (x : α), P x" }
func (forallCongrRule) Arity() int    { return 2 }

func (forallCongrRule) Match(env *Env, p term.Term) (Match, bool) {
	b, ok := p.(term.Binding)
	if !ok || b.Kind != term.KindForall {
		return nil, false
	}
	return &forallMatch{env: env, left: p, b: b}, true
}

type forallMatch struct {
	env  *Env
	left term.Term
	b    term.Binding
}

func (m *forallMatch) Obligation(i int, solved []Solution) term.Term {
	if i == 0 {
		return m.env.Goal(m.b.Type)
	}
	e := solved[0].Rel
	y := rebind(m.b.Name, m.b.Body, e.Term, e.Right)
	body := term.Subst(m.b.Body, m.b.Name, e.Unapply(term.V(y)))
	return term.Pi(y, e.Right, m.env.Goal(body))
}

func (m *forallMatch) Combine(solved []Solution) (*equiv.Relation, error) {
	e, h := solved[0].Rel, solved[1]
	y := h.Binders[0]
	family := term.Lam(y.Name, y.Type, h.Rel.Term)
	right := term.Forall(y.Name, y.Type, h.Rel.Right)
	return build(ForallCongr, []term.Term{e.Term, family}, m.left, right)
}

func (forallCongrRule) Declare(sig *term.Signature) {
	declareCombinator(sig, ForallCongr, 2, func(args []term.Term) (term.Term, term.Term) {
		e, h := args[0], args[1]
		fwd := lam("f", args, func(f term.Term) term.Term {
			return lam("y", append(args, f), func(y term.Term) term.Term {
				hy := term.App{Fn: h, Arg: y}
				return term.App{Fn: equiv.ToFun(hy), Arg: term.App{Fn: f, Arg: term.App{Fn: equiv.InvFun(e), Arg: y}}}
			})
		})
		bwd := lam("g", args, func(g term.Term) term.Term {
			return lam("x", append(args, g), func(x term.Term) term.Term {
				ex := term.App{Fn: equiv.ToFun(e), Arg: x}
				hx := term.App{Fn: h, Arg: ex}
				return cast(term.App{Fn: equiv.InvFun(hx), Arg: term.App{Fn: g, Arg: ex}})
			})
		})
		return fwd, bwd
	})
}
