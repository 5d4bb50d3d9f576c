package tactic

import (
	"github.com/gnoswap-labs/equivrw/internal/equiv"
	"github.com/gnoswap-labs/equivrw/internal/search"
	"github.com/gnoswap-labs/equivrw/internal/term"
)

// Adapter checks that a seed term is an equivalence and asks the engine
// for a relation shaped like a pattern. It keeps no state between calls.
type Adapter struct {
	engine *search.Engine
}

// NewAdapter creates an adapter over engine.
func NewAdapter(engine *search.Engine) *Adapter {
	return &Adapter{engine: engine}
}

// Seed builds the relation of seed, whose type is inferred in ctx.
func (a *Adapter) Seed(ctx Context, seed term.Term) (*equiv.Relation, error) {
	ty, err := a.infer(ctx, seed)
	if err != nil {
		return nil, err
	}
	left, right, ok := a.sides(ty)
	if !ok {
		return nil, equiv.Errorf(equiv.NotAnEquivalence, "%s has type %s", seed, ty)
	}
	return equiv.FromTerm(seed, left, right), nil
}

// Relation derives a relation from pattern that uses seed.
func (a *Adapter) Relation(ctx Context, seed, pattern term.Term) (*search.Derivation, error) {
	rel, err := a.Seed(ctx, seed)
	if err != nil {
		return nil, err
	}
	return a.engine.Derive(rel, pattern)
}

func (a *Adapter) sides(ty term.Term) (left, right term.Term, ok bool) {
	if args, ok := term.IsApp(ty, term.EquivName, 2); ok {
		return args[0], args[1], true
	}
	w := a.engine.Reducer().Whnf(ty)
	if args, ok := term.IsApp(w, term.EquivName, 2); ok {
		return args[0], args[1], true
	}
	return nil, nil, false
}

// infer computes the type of a seed term. Only the forms a seed is
// written in are supported.
func (a *Adapter) infer(ctx Context, t term.Term) (term.Term, error) {
	switch t := t.(type) {
	case term.Var:
		h, _, ok := ctx.Lookup(t.Name)
		if !ok {
			return nil, equiv.Errorf(equiv.NotAnEquivalence, "unknown hypothesis %s", t.Name)
		}
		return h.Type, nil
	case term.Const:
		ty, ok := a.engine.Reducer().Signature().TypeOf(t.Name)
		if !ok {
			return nil, equiv.Errorf(equiv.NotAnEquivalence, "%s has no declared type", t.Name)
		}
		return ty, nil
	}

	if args, ok := term.IsApp(t, term.EquivSymm, 1); ok {
		l, r, err := a.inferSides(ctx, args[0])
		if err != nil {
			return nil, err
		}
		return term.EquivType(r, l), nil
	}
	if args, ok := term.IsApp(t, term.EquivTrans, 2); ok {
		l, m, err := a.inferSides(ctx, args[0])
		if err != nil {
			return nil, err
		}
		m2, r, err := a.inferSides(ctx, args[1])
		if err != nil {
			return nil, err
		}
		if !a.engine.Reducer().Convertible(m, m2, term.TransparencyFull) {
			return nil, equiv.Errorf(equiv.NotAnEquivalence, "cannot compose %s ≃ %s with %s ≃ %s", l, m, m2, r)
		}
		return term.EquivType(l, r), nil
	}
	if args, ok := term.IsApp(t, term.EquivRefl, 1); ok {
		return term.EquivType(args[0], args[0]), nil
	}
	return nil, equiv.Errorf(equiv.NotAnEquivalence, "cannot infer the type of %s", t)
}

func (a *Adapter) inferSides(ctx Context, t term.Term) (left, right term.Term, err error) {
	ty, err := a.infer(ctx, t)
	if err != nil {
		return nil, nil, err
	}
	left, right, ok := a.sides(ty)
	if !ok {
		return nil, nil, equiv.Errorf(equiv.NotAnEquivalence, "%s has type %s", t, ty)
	}
	return left, right, nil
}
