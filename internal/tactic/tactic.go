package tactic

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gnoswap-labs/equivrw/internal/congr"
	"github.com/gnoswap-labs/equivrw/internal/equiv"
	"github.com/gnoswap-labs/equivrw/internal/search"
	"github.com/gnoswap-labs/equivrw/internal/term"
)

// Options configure a Tactic. The zero value is usable.
type Options struct {
	MaxSteps     int
	Transparency term.Transparency
	Logger       *zap.Logger
	Tracer       search.Tracer
}

// Tactic rewrites the goals of a proof state along equivalences. Every
// operation works on a copy of the state and only commits it on success.
type Tactic struct {
	state   *State
	engine  *search.Engine
	adapter *Adapter
	tr      term.Transparency
	logger  *zap.Logger
}

// New creates a tactic over state using the rules of registry.
func New(state *State, registry *congr.Registry, opts Options) *Tactic {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	engine := search.NewEngine(registry, term.NewReducer(state.Signature()), search.Options{
		MaxSteps:     opts.MaxSteps,
		Transparency: opts.Transparency,
		Logger:       logger,
		Tracer:       opts.Tracer,
	})
	return &Tactic{
		state:   state,
		engine:  engine,
		adapter: NewAdapter(engine),
		tr:      opts.Transparency,
		logger:  logger,
	}
}

// State returns the current proof state.
func (t *Tactic) State() *State {
	return t.state
}

// Engine returns the search engine the rewrites use.
func (t *Tactic) Engine() *search.Engine {
	return t.engine
}

func (t *Tactic) commit(op string, fn func(st *State) error) error {
	st := t.state.Clone()
	if err := fn(st); err != nil {
		t.logger.Debug("rolled back", zap.String("op", op), zap.Error(err))
		return err
	}
	t.state = st
	return nil
}

// RewriteGoal replaces the main goal G by G' for the relation G ≃ G'
// derived from seed. The old goal is closed by the backward map applied
// to the proof of the new one.
func (t *Tactic) RewriteGoal(seed term.Term) error {
	return t.commit("rewrite goal", func(st *State) error {
		g, err := st.MainGoal()
		if err != nil {
			return err
		}
		d, err := t.adapter.Relation(g.Context, seed, g.Target)
		if err != nil {
			return err
		}
		rel := d.Relation
		_, err = st.replaceMain(g.Context.Clone(), rel.Right, func(next term.Term) term.Term {
			return rel.Unapply(next)
		})
		if err != nil {
			return err
		}
		t.logger.Debug("rewrote goal",
			zap.Stringer("relation", rel),
			zap.Stringer("target", rel.Right))
		return nil
	})
}

// RewriteHypothesis changes the type of the hypothesis name from A to B'
// for the relation A ≃ B' derived from seed. Every use of the old
// hypothesis becomes the backward map applied to the new one.
func (t *Tactic) RewriteHypothesis(name string, seed term.Term) error {
	return t.commit("rewrite hypothesis", func(st *State) error {
		return t.rewriteHypothesis(st, name, seed)
	})
}

func (t *Tactic) rewriteHypothesis(st *State, name string, seed term.Term) error {
	g, err := st.MainGoal()
	if err != nil {
		return err
	}
	x, xi, ok := g.Context.Lookup(name)
	if !ok {
		return fmt.Errorf("unknown hypothesis %s", name)
	}
	d, err := t.adapter.Relation(g.Context, seed, x.Type)
	if err != nil {
		return err
	}
	rel := d.Relation
	xv := term.V(name)
	if rel.Mentions(xv) {
		return equiv.Errorf(equiv.GeneralizeFailure, "relation %s depends on %s", rel.Term, name)
	}
	occurrence := rel.Apply(xv)
	t.logger.Debug("rewrite hypothesis",
		zap.String("hyp", name),
		zap.Stringer("relation", rel),
		zap.Stringer("occurrence", occurrence))

	// k : x = Backward (Forward x)
	k := g.fresh("k")
	if err := have(st, k, term.Eq(xv, rel.Unapply(occurrence)), term.App{Fn: rel.LeftInv, Arg: xv}); err != nil {
		return err
	}

	m := term.NewMatcher(occurrence, t.engine.Reducer(), t.tr)
	reverted, err := t.revertOccurrences(st, m, occurrence, xi, k)
	if err != nil {
		return err
	}

	g, _ = st.MainGoal()
	y := g.fresh("y")
	if _, err := generalize(st, m, y, rel.Right, occurrence); err != nil {
		return &equiv.Error{Kind: equiv.GeneralizeFailure, Reason: "abstracting " + occurrence.String(), Err: err}
	}

	g, _ = st.MainGoal()
	hidden := g.fresh(name)
	if err := rename(st, name, hidden); err != nil {
		return err
	}
	for _, n := range append([]string{name}, reverted...) {
		if err := intro(st, n); err != nil {
			return err
		}
	}

	moved, err := subst(st, k, false)
	if err != nil {
		t.logger.Debug("relaxing frozen hypotheses", zap.String("hyp", name), zap.Error(err))
		moved, err = subst(st, k, true)
		if err != nil {
			return &equiv.Error{Kind: equiv.SubstitutionFailure, Reason: "eliminating " + hidden, Err: err}
		}
	}

	changed, err := simp(st, rel)
	if err != nil {
		return err
	}
	g, _ = st.MainGoal()
	h, _, _ := g.Context.Lookup(name)
	t.logger.Debug("rewrote hypothesis",
		zap.String("hyp", name),
		zap.Stringer("type", h.Type),
		zap.Strings("reverted", reverted),
		zap.Strings("moved", moved),
		zap.Bool("simp", changed))
	return nil
}

// revertOccurrences reverts k together with the hypotheses after
// position from whose types contain an occurrence, and everything that
// depends on them. It returns the reverted names in context order.
// Occurrences in let values can not be abstracted.
func (t *Tactic) revertOccurrences(st *State, m *term.Matcher, occurrence term.Term, from int, k string) ([]string, error) {
	g, err := st.MainGoal()
	if err != nil {
		return nil, err
	}
	seeds := map[string]bool{k: true}
	for i, h := range g.Context {
		if h.Value != nil && m.Count(h.Value) > 0 {
			return nil, equiv.Errorf(equiv.GeneralizeFailure, "%s occurs in the value of %s", occurrence, h.Name)
		}
		if i > from && m.Count(h.Type) > 0 {
			seeds[h.Name] = true
		}
	}
	names := dependents(g.Context, from+1, seeds)
	for _, name := range names {
		if h, _, _ := g.Context.Lookup(name); h.Value != nil {
			return nil, equiv.Errorf(equiv.GeneralizeFailure, "let-bound %s depends on an occurrence", name)
		}
	}
	if err := revert(st, names); err != nil {
		return nil, &equiv.Error{Kind: equiv.GeneralizeFailure, Reason: "reverting dependents", Err: err}
	}
	return names, nil
}

// Exact closes the main goal with proof.
func (t *Tactic) Exact(proof term.Term) error {
	return t.commit("exact", func(st *State) error {
		return st.Exact(proof)
	})
}
