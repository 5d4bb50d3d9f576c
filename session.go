// Package equivrw transports goals and hypotheses along equivalences.
//
// A Session holds a proof state built from a Problem. RewriteGoal and
// RewriteHypothesis extend a seed equivalence through the shape of a type
// and rewrite with the result; terms are written in the surface syntax of
// the internal parser.
package equivrw

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/gnoswap-labs/equivrw/internal/congr"
	"github.com/gnoswap-labs/equivrw/internal/parser"
	"github.com/gnoswap-labs/equivrw/internal/prelude"
	"github.com/gnoswap-labs/equivrw/internal/search"
	"github.com/gnoswap-labs/equivrw/internal/tactic"
	"github.com/gnoswap-labs/equivrw/internal/term"
	"github.com/gnoswap-labs/equivrw/internal/trie"
)

// Session is a proof state together with the rules used to rewrite it.
type Session struct {
	config   Config
	problem  *Problem
	registry *congr.Registry
	tactic   *tactic.Tactic
	logger   *zap.Logger
}

// Option customizes a Session.
type Option func(*sessionOptions)

type sessionOptions struct {
	logger *zap.Logger
	tracer search.Tracer
}

// WithLogger sets the logger search and rewrite events go to.
func WithLogger(logger *zap.Logger) Option {
	return func(o *sessionOptions) { o.logger = logger }
}

// WithTracer receives every search event.
func WithTracer(tracer search.Tracer) Option {
	return func(o *sessionOptions) { o.tracer = tracer }
}

// NewSession builds the proof state of p. A nil p starts from the goal
// True in an empty context, which is enough for Derive and Eval.
func NewSession(config Config, p *Problem, opts ...Option) (*Session, error) {
	o := sessionOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if p == nil {
		p = &Problem{Target: "True"}
	}

	reg, err := config.registry()
	if err != nil {
		return nil, err
	}
	sig := prelude.New(reg)
	declareFormers(sig, config.Functors)
	if err := p.declare(sig); err != nil {
		return nil, err
	}
	st, err := p.state(sig)
	if err != nil {
		return nil, err
	}

	tac := tactic.New(st, reg, tactic.Options{
		MaxSteps:     config.MaxSteps,
		Transparency: config.transparency(),
		Logger:       o.logger,
		Tracer:       o.tracer,
	})
	return &Session{
		config:   config,
		problem:  p,
		registry: reg,
		tactic:   tac,
		logger:   o.logger,
	}, nil
}

// declareFormers declares the configured containers that the prelude
// does not know, with opaque map functions.
func declareFormers(sig *term.Signature, formers []FormerConfig) {
	typ := term.Sort{Kind: term.SortType}
	for _, f := range formers {
		if _, ok := sig.Lookup(f.Name); !ok {
			var ty term.Term = typ
			for i := 0; i < f.Params; i++ {
				ty = term.Arrow(typ, ty)
			}
			sig.Declare(term.Decl{Name: f.Name, Type: ty})
		}
		if _, ok := sig.Lookup(f.Map); !ok {
			sig.Declare(term.Decl{Name: f.Map})
		}
	}
}

// State returns the current proof state.
func (s *Session) State() *tactic.State {
	return s.tactic.State()
}

// Problem returns the problem the session started from.
func (s *Session) Problem() *Problem {
	return s.problem
}

// Registry returns the rules the session searches with.
func (s *Session) Registry() *congr.Registry {
	return s.registry
}

// Proof returns the proof of the initial goal built so far, with open
// goals left as metavariables.
func (s *Session) Proof() term.Term {
	return s.State().Proof()
}

// NormalProof is Proof in normal form.
func (s *Session) NormalProof() term.Term {
	return s.tactic.Engine().Reducer().Normalize(s.Proof())
}

// locals are the hypothesis names in scope of the main goal.
func (s *Session) locals() []string {
	g, err := s.State().MainGoal()
	if err != nil {
		return nil
	}
	return g.Context.Names()
}

func (s *Session) parse(src string) (term.Term, error) {
	return parser.ParseWithLocals(src, s.locals())
}

// RewriteGoal rewrites the main goal along the equivalence seed.
func (s *Session) RewriteGoal(seed string) error {
	t, err := s.parse(seed)
	if err != nil {
		return err
	}
	return s.tactic.RewriteGoal(t)
}

// RewriteHypothesis rewrites the type of the hypothesis name along the
// equivalence seed.
func (s *Session) RewriteHypothesis(name, seed string) error {
	t, err := s.parse(seed)
	if err != nil {
		return err
	}
	return s.tactic.RewriteHypothesis(name, t)
}

// Exact closes the main goal with proof.
func (s *Session) Exact(proof string) error {
	t, err := s.parse(proof)
	if err != nil {
		return err
	}
	return s.tactic.Exact(t)
}

// Apply runs one step.
func (s *Session) Apply(step Step) error {
	if err := step.validate(); err != nil {
		return err
	}
	switch {
	case step.Exact != "":
		return s.Exact(step.Exact)
	case step.Hyp != "":
		return s.RewriteHypothesis(step.Hyp, step.Seed)
	default:
		return s.RewriteGoal(step.Seed)
	}
}

// StepResult is the state left by a successful step.
type StepResult struct {
	Step  Step
	State string
}

// Run applies the steps of the problem in order and stops at the first
// failure, returning the results of the steps before it.
func (s *Session) Run() ([]StepResult, error) {
	results := make([]StepResult, 0, len(s.problem.Steps))
	for i, step := range s.problem.Steps {
		if err := s.Apply(step); err != nil {
			s.logger.Debug("step failed", zap.Int("step", i+1), zap.Stringer("tactic", step), zap.Error(err))
			return results, fmt.Errorf("step %d (%s): %w", i+1, step, err)
		}
		s.logger.Debug("step done", zap.Int("step", i+1), zap.Stringer("tactic", step))
		results = append(results, StepResult{Step: step, State: s.State().String()})
	}
	return results, nil
}

// Derive searches for a relation shaped like pattern that uses seed,
// without touching the proof state.
func (s *Session) Derive(seed, pattern string) (*search.Derivation, error) {
	seedTerm, err := s.parse(seed)
	if err != nil {
		return nil, err
	}
	patternTerm, err := s.parse(pattern)
	if err != nil {
		return nil, err
	}
	var ctx tactic.Context
	if g, err := s.State().MainGoal(); err == nil {
		ctx = g.Context
	}
	return tactic.NewAdapter(s.tactic.Engine()).Relation(ctx, seedTerm, patternTerm)
}

// Eval parses src and returns its normal form.
func (s *Session) Eval(src string) (term.Term, error) {
	t, err := s.parse(src)
	if err != nil {
		return nil, err
	}
	return s.tactic.Engine().Reducer().Normalize(t), nil
}

// RuleInfo describes a congruence rule.
type RuleInfo struct {
	Name    string
	Shape   string
	Arity   int
	Enabled bool
}

// Rules lists every rule of the registry in search order.
func (s *Session) Rules() []RuleInfo {
	rules := s.registry.All()
	out := make([]RuleInfo, len(rules))
	for i, r := range rules {
		out[i] = RuleInfo{
			Name:    r.Name(),
			Shape:   r.Shape(),
			Arity:   r.Arity(),
			Enabled: s.registry.Enabled(r.Name()),
		}
	}
	return out
}

// ConstInfo describes a declared constant.
type ConstInfo struct {
	Name    string
	Type    string
	Defined bool
	Builtin bool
}

// Constants lists the constants of the namespace ns in lexical order of
// their dotted segments. The empty namespace lists every constant.
func (s *Session) Constants(ns string) []ConstInfo {
	sig := s.State().Signature()
	names := trie.NewNames(sig.Names()...)
	var out []ConstInfo
	for _, name := range names.Under(ns) {
		d, _ := sig.Lookup(name)
		info := ConstInfo{Name: name, Defined: d.Value != nil, Builtin: d.Builtin != nil}
		if d.Type != nil {
			info.Type = d.Type.String()
		}
		out = append(out, info)
	}
	return out
}
