package search

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gnoswap-labs/equivrw/internal/congr"
	"github.com/gnoswap-labs/equivrw/internal/equiv"
	"github.com/gnoswap-labs/equivrw/internal/term"
)

// DefaultMaxSteps bounds the candidate applications of one derivation.
const DefaultMaxSteps = 6

// Options configure an Engine. The zero value is usable.
type Options struct {
	MaxSteps     int
	Transparency term.Transparency
	Logger       *zap.Logger
	Tracer       Tracer
}

// Engine derives relations shaped like a pattern from a seed relation by
// bounded depth-first search over the rules of a registry.
type Engine struct {
	registry *congr.Registry
	reducer  *term.Reducer
	maxSteps int
	tr       term.Transparency
	logger   *zap.Logger
	tracer   Tracer
}

// NewEngine creates an engine. The reducer is used for matching at full
// transparency.
func NewEngine(registry *congr.Registry, reducer *term.Reducer, opts Options) *Engine {
	e := &Engine{
		registry: registry,
		reducer:  reducer,
		maxSteps: opts.MaxSteps,
		tr:       opts.Transparency,
		logger:   opts.Logger,
		tracer:   opts.Tracer,
	}
	if e.maxSteps <= 0 {
		e.maxSteps = DefaultMaxSteps
	}
	if e.logger == nil {
		e.logger = zap.NewNop()
	}
	if e.tracer == nil {
		e.tracer = nopTracer{}
	}
	return e
}

// MaxSteps returns the step budget of a derivation.
func (e *Engine) MaxSteps() int { return e.maxSteps }

// Transparency returns the strength used to match the seed.
func (e *Engine) Transparency() term.Transparency { return e.tr }

// Reducer returns the reducer of the engine.
func (e *Engine) Reducer() *term.Reducer { return e.reducer }

// Registry returns the rules the engine tries.
func (e *Engine) Registry() *congr.Registry { return e.registry }

// Derive finds a relation whose left side is pattern and that uses seed.
// The first closed derivation in candidate order wins. On failure the
// most significant failure met is returned.
func (e *Engine) Derive(seed *equiv.Relation, pattern term.Term) (*Derivation, error) {
	if seed == nil || pattern == nil {
		return nil, fmt.Errorf("derive needs a seed and a pattern")
	}

	s := &search{
		Engine: e,
		seed:   seed,
		env:    congr.NewEnv(pattern, seed.Term, seed.Left, seed.Right),
		taken:  make(map[string]bool),
	}
	for _, t := range []term.Term{pattern, seed.Term, seed.Left, seed.Right} {
		for name := range term.FreeVars(t) {
			s.taken[name] = true
		}
	}

	e.logger.Debug("derive",
		zap.Stringer("seed", seed),
		zap.Stringer("pattern", pattern),
		zap.Int("max_steps", e.maxSteps),
		zap.Stringer("transparency", e.tr))

	root := obligation{left: pattern, right: s.env.Hole()}
	start := progress{open: 1, binds: term.Bindings{}}
	ok := s.solve(root, start, func(p progress, r solved) bool {
		s.result = &Derivation{Relation: r.sol.Rel, Root: r.node, Steps: p.steps}
		return true
	})
	if !ok {
		err := s.failure
		if err == nil {
			err = equiv.Errorf(equiv.NoRuleApplies, "no candidate for %s", pattern)
		}
		e.logger.Debug("derive failed", zap.Stringer("pattern", pattern), zap.Error(err))
		return nil, err
	}

	e.logger.Debug("derived",
		zap.Stringer("relation", s.result.Relation),
		zap.Int("steps", s.result.Steps),
		zap.Strings("rules", s.result.Rules()))
	return s.result, nil
}

// search is the state of one Derive call.
type search struct {
	*Engine
	seed    *equiv.Relation
	env     *congr.Env
	taken   map[string]bool
	failure *equiv.Error
	result  *Derivation
}

// progress is the part of the search state that is restored on
// backtrack: it is passed by value along the current derivation.
type progress struct {
	steps    int
	open     int
	seedUses int
	binds    term.Bindings
}

type obligation struct {
	locals  []term.Local
	binders []term.Local
	left    term.Term
	right   term.Term
	depth   int
}

type solved struct {
	sol  congr.Solution
	node *Node
}

// cont receives a closed obligation and continues with the rest of the
// derivation. It returns true when the whole derivation closes.
type cont func(p progress, r solved) bool

func rank(k equiv.Kind) int {
	switch k {
	case equiv.StepBoundExceeded:
		return 3
	case equiv.VacuousDerivation:
		return 2
	case equiv.NoRuleApplies:
		return 1
	default:
		return 0
	}
}

func (s *search) fail(err *equiv.Error) {
	if s.failure == nil || rank(err.Kind) > rank(s.failure.Kind) {
		s.failure = err
	}
}

func (s *search) trace(kind EventKind, ob obligation, candidate string, p progress, err error) {
	ev := Event{
		Kind:      kind,
		Depth:     ob.depth,
		Candidate: candidate,
		Pattern:   p.binds.Apply(ob.left),
		Steps:     p.steps,
		Err:       err,
	}
	s.tracer.Trace(ev)
	if ce := s.logger.Check(zap.DebugLevel, "search"); ce != nil {
		fields := []zap.Field{
			zap.Stringer("event", kind),
			zap.Int("depth", ev.Depth),
			zap.String("candidate", candidate),
			zap.Stringer("pattern", ev.Pattern),
			zap.Int("steps", ev.Steps),
		}
		if err != nil {
			fields = append(fields, zap.Error(err))
		}
		ce.Write(fields...)
	}
}

// solve tries the seed and then every rule on ob, calling k on each way
// to close it until k succeeds.
func (s *search) solve(ob obligation, p progress, k cont) bool {
	left := p.binds.Apply(ob.left)
	if p.steps >= s.maxSteps {
		err := equiv.Errorf(equiv.StepBoundExceeded, "%s needs more than %d steps", left, s.maxSteps)
		s.fail(err)
		s.trace(EventReject, ob, "", p, err)
		return false
	}

	matched := false
	if binds, ok := s.matchSeed(left, p.binds); ok {
		matched = true
		next := p
		next.steps++
		next.open--
		next.seedUses++
		next.binds = binds
		s.trace(EventAttempt, ob, SeedName, p, nil)
		rel := *s.seed
		if s.close(ob, next, SeedName, &rel, nil, k) {
			return true
		}
	}

	for _, rule := range s.registry.Rules() {
		m, ok := s.match(rule, left)
		if !ok {
			continue
		}
		matched = true
		next := p
		next.steps++
		next.open += rule.Arity() - 1
		s.trace(EventAttempt, ob, rule.Name(), p, nil)

		done := func(p progress, subs []congr.Solution, children []*Node) bool {
			for i := range subs {
				subs[i].Rel = subs[i].Rel.Map(p.binds.Apply)
			}
			rel, err := m.Combine(subs)
			if err != nil {
				s.fail(&equiv.Error{Kind: equiv.NoRuleApplies, Reason: "rule " + rule.Name(), Err: err})
				return false
			}
			return s.close(ob, p, rule.Name(), rel, children, k)
		}
		if s.subgoals(ob, m, rule.Arity(), nil, nil, next, done) {
			return true
		}
	}

	if !matched {
		err := equiv.Errorf(equiv.NoRuleApplies, "no candidate matches %s", left)
		s.fail(err)
		s.trace(EventReject, ob, "", p, err)
	}
	return false
}

// subgoals solves the obligations of m from the len(subs)-th on, in
// order, then calls done with all of them.
func (s *search) subgoals(ob obligation, m congr.Match, arity int, subs []congr.Solution, children []*Node, p progress,
	done func(p progress, subs []congr.Solution, children []*Node) bool,
) bool {
	i := len(subs)
	if i == arity {
		return done(p, append([]congr.Solution(nil), subs...), children)
	}

	resolved := make([]congr.Solution, len(subs))
	for j, sub := range subs {
		resolved[j] = congr.Solution{Binders: sub.Binders, Rel: sub.Rel.Map(p.binds.Apply)}
	}
	stmt := p.binds.Apply(m.Obligation(i, resolved))
	child, err := s.strip(stmt, ob)
	if err != nil {
		s.fail(err)
		return false
	}
	return s.solve(child, p, func(p progress, r solved) bool {
		return s.subgoals(ob, m, arity, append(subs[:i:i], r.sol), append(children[:i:i], r.node), p, done)
	})
}

// close finishes an obligation with rel: it applies the acceptance
// predicate, binds the right side and continues.
func (s *search) close(ob obligation, p progress, candidate string, rel *equiv.Relation, children []*Node, k cont) bool {
	if p.open == 0 && p.seedUses == 0 {
		err := equiv.Errorf(equiv.VacuousDerivation, "%s closes %s without the seed", candidate, p.binds.Apply(ob.left))
		s.fail(err)
		s.trace(EventReject, ob, candidate, p, err)
		return false
	}

	binds, ok := term.Unify(ob.right, rel.Right, p.binds)
	if !ok {
		err := equiv.Errorf(equiv.NoRuleApplies, "%s gives %s, expected %s", candidate, rel.Right, p.binds.Apply(ob.right))
		s.fail(err)
		s.trace(EventReject, ob, candidate, p, err)
		return false
	}
	p.binds = binds

	rel = rel.Map(binds.Apply)
	rel.Left = binds.Apply(ob.left)
	node := &Node{
		Rule:     candidate,
		Binders:  ob.binders,
		Left:     rel.Left,
		Right:    rel.Right,
		Children: children,
	}
	s.trace(EventClose, ob, candidate, p, nil)
	return k(p, solved{sol: congr.Solution{Binders: ob.binders, Rel: rel}, node: node})
}

// strip turns a statement Pi (y : B), ..., Equiv L ?r into an obligation
// for L under the new locals y, ...
func (s *search) strip(stmt term.Term, parent obligation) (obligation, *equiv.Error) {
	ob := obligation{
		locals: append([]term.Local(nil), parent.locals...),
		depth:  parent.depth + 1,
	}
	for {
		b, ok := stmt.(term.Binding)
		if !ok || (b.Kind != term.KindPi && b.Kind != term.KindForall) {
			break
		}
		taken := make(map[string]bool, len(s.taken)+len(ob.locals))
		for name := range s.taken {
			taken[name] = true
		}
		for _, l := range ob.locals {
			taken[l.Name] = true
		}
		name := term.FreshName(b.Name, taken)
		local := term.Local{Name: name, Type: b.Type}
		ob.locals = append(ob.locals, local)
		ob.binders = append(ob.binders, local)
		stmt = term.Rename(b.Body, b.Name, name)
	}

	args, ok := term.IsApp(stmt, term.EquivName, 2)
	if !ok {
		return ob, equiv.Errorf(equiv.NoRuleApplies, "obligation %s is not an equivalence", stmt)
	}
	ob.left, ob.right = args[0], args[1]
	return ob, nil
}

func (s *search) matchSeed(left term.Term, binds term.Bindings) (term.Bindings, bool) {
	if b, ok := term.Unify(left, s.seed.Left, binds); ok {
		return b, true
	}
	if s.tr != term.TransparencyFull {
		return binds, false
	}
	if w := s.reducer.Whnf(left); !term.Equal(w, left) {
		if b, ok := term.Unify(w, s.seed.Left, binds); ok {
			return b, true
		}
	}
	if len(term.Metas(left)) == 0 && s.reducer.Convertible(left, s.seed.Left, s.tr) {
		return binds, true
	}
	return binds, false
}

func (s *search) match(rule congr.Rule, left term.Term) (congr.Match, bool) {
	if m, ok := rule.Match(s.env, left); ok {
		return m, true
	}
	if s.tr != term.TransparencyFull {
		return nil, false
	}
	if w := s.reducer.Whnf(left); !term.Equal(w, left) {
		return rule.Match(s.env, w)
	}
	return nil, false
}
