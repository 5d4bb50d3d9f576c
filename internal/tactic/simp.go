package tactic

import (
	"github.com/gnoswap-labs/equivrw/internal/equiv"
	"github.com/gnoswap-labs/equivrw/internal/term"
)

const simpProof = "Equiv.simp"

// collapse rewrites t with the round-trip laws of rel until nothing
// changes: Forward (Backward t) and Backward (Forward t) become t, after
// projections and double inverses of Equiv.symm are normalized.
func collapse(rel *equiv.Relation, t term.Term) term.Term {
	for {
		next := simpStep(rel, t)
		if term.Equal(next, t) {
			return next
		}
		t = next
	}
}

func simpStep(rel *equiv.Relation, t term.Term) term.Term {
	switch t := t.(type) {
	case term.App:
		t = term.App{Fn: simpStep(rel, t.Fn), Arg: simpStep(rel, t.Arg)}
		return simpNode(rel, t)
	case term.Binding:
		if t.Type != nil {
			t.Type = simpStep(rel, t.Type)
		}
		t.Body = simpStep(rel, t.Body)
		return t
	default:
		return t
	}
}

func simpNode(rel *equiv.Relation, a term.App) term.Term {
	if args, ok := term.IsApp(a, term.EquivToFun, 1); ok {
		return equiv.ToFun(args[0])
	}
	if args, ok := term.IsApp(a, term.EquivInv, 1); ok {
		return equiv.InvFun(args[0])
	}
	if args, ok := term.IsApp(a, term.EquivSymm, 1); ok {
		return equiv.Symm(args[0])
	}
	if inner, ok := a.Arg.(term.App); ok {
		if term.Equal(a.Fn, rel.Forward) && term.Equal(inner.Fn, rel.Backward) {
			return inner.Arg
		}
		if term.Equal(a.Fn, rel.Backward) && term.Equal(inner.Fn, rel.Forward) {
			return inner.Arg
		}
	}
	return a
}

// simp collapses round trips of rel in the main goal. It reports whether
// anything changed; when nothing did the goal is kept.
func simp(s *State, rel *equiv.Relation) (bool, error) {
	g, err := s.MainGoal()
	if err != nil {
		return false, err
	}
	changed := false
	ctx := g.Context.Clone()
	for i, h := range ctx {
		ctx[i] = h.mapTerms(func(t term.Term) term.Term {
			out := collapse(rel, t)
			changed = changed || !term.Equal(out, t)
			return out
		})
	}
	target := collapse(rel, g.Target)
	changed = changed || !term.Equal(target, g.Target)
	if !changed {
		return false, nil
	}
	_, err = s.replaceMain(ctx, target, func(next term.Term) term.Term {
		laws := term.Apps(term.C(simpProof), rel.LeftInv, rel.RightInv)
		return term.Apps(term.C(eqMpr), laws, next)
	})
	return true, err
}
