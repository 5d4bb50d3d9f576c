package tactic

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gnoswap-labs/equivrw/internal/term"
)

// ErrNoGoals is returned by operations that need an open goal.
var ErrNoGoals = errors.New("no goals")

// Hyp is one entry of a goal context. A hypothesis with a Value is
// let-bound. Frozen hypotheses keep their position in the context.
type Hyp struct {
	Name   string
	Type   term.Term
	Value  term.Term
	Frozen bool
}

func (h Hyp) String() string {
	var sb strings.Builder
	sb.WriteString(h.Name)
	sb.WriteString(" : ")
	sb.WriteString(h.Type.String())
	if h.Value != nil {
		sb.WriteString(" := ")
		sb.WriteString(h.Value.String())
	}
	return sb.String()
}

// mentions reports whether the type or value of h has name free.
func (h Hyp) mentions(name string) bool {
	return term.Occurs(name, h.Type) || (h.Value != nil && term.Occurs(name, h.Value))
}

func (h Hyp) mapTerms(f func(term.Term) term.Term) Hyp {
	h.Type = f(h.Type)
	if h.Value != nil {
		h.Value = f(h.Value)
	}
	return h
}

// Context is the ordered list of hypotheses of a goal. Later entries may
// mention earlier ones.
type Context []Hyp

// Lookup finds the hypothesis called name and its position.
func (c Context) Lookup(name string) (Hyp, int, bool) {
	for i := len(c) - 1; i >= 0; i-- {
		if c[i].Name == name {
			return c[i], i, true
		}
	}
	return Hyp{}, -1, false
}

// Clone copies the context.
func (c Context) Clone() Context {
	return append(Context(nil), c...)
}

// Names returns the names of the hypotheses.
func (c Context) Names() []string {
	out := make([]string, len(c))
	for i, h := range c {
		out[i] = h.Name
	}
	return out
}

// Goal is an open proof obligation: prove Target from Context. ID names
// the metavariable that stands for its proof.
type Goal struct {
	ID      string
	Context Context
	Target  term.Term
}

// taken collects every variable name visible in the goal.
func (g *Goal) taken() map[string]bool {
	names := term.FreeVars(g.Target)
	for _, h := range g.Context {
		names[h.Name] = true
		for v := range term.FreeVars(h.Type) {
			names[v] = true
		}
		if h.Value != nil {
			for v := range term.FreeVars(h.Value) {
				names[v] = true
			}
		}
	}
	return names
}

// fresh returns a variable name based on base that is not visible in g.
func (g *Goal) fresh(base string) string {
	return term.FreshName(base, g.taken())
}

func (g *Goal) String() string {
	var sb strings.Builder
	for _, h := range g.Context {
		sb.WriteString(h.String())
		sb.WriteByte('\n')
	}
	sb.WriteString("⊢ ")
	sb.WriteString(g.Target.String())
	return sb.String()
}

// State is a proof in progress: the open goals, the main one first, and
// the proofs assigned to the goals closed so far.
type State struct {
	sig    *term.Signature
	goals  []*Goal
	assign term.Bindings
	root   string
	next   int
}

// NewState starts a proof of target in ctx.
func NewState(sig *term.Signature, ctx Context, target term.Term) *State {
	s := &State{sig: sig, assign: term.Bindings{}}
	g := s.newGoal(ctx.Clone(), target)
	s.root = g.ID
	s.goals = []*Goal{g}
	return s
}

func (s *State) newGoal(ctx Context, target term.Term) *Goal {
	s.next++
	return &Goal{ID: "g" + strconv.Itoa(s.next), Context: ctx, Target: target}
}

// Signature returns the constants the proof is checked against.
func (s *State) Signature() *term.Signature {
	return s.sig
}

// Goals returns the open goals, the main one first.
func (s *State) Goals() []*Goal {
	return append([]*Goal(nil), s.goals...)
}

// Done reports whether every goal is closed.
func (s *State) Done() bool {
	return len(s.goals) == 0
}

// MainGoal returns the goal operations act on.
func (s *State) MainGoal() (*Goal, error) {
	if len(s.goals) == 0 {
		return nil, ErrNoGoals
	}
	return s.goals[0], nil
}

// Clone copies the state so that it can be changed without touching s.
// Terms are immutable and shared.
func (s *State) Clone() *State {
	out := &State{
		sig:    s.sig,
		goals:  make([]*Goal, len(s.goals)),
		assign: s.assign.Clone(),
		root:   s.root,
		next:   s.next,
	}
	for i, g := range s.goals {
		out.goals[i] = &Goal{ID: g.ID, Context: g.Context.Clone(), Target: g.Target}
	}
	return out
}

// replaceMain closes the main goal with proof(?new), where ?new is a goal
// for target in ctx that takes its place.
func (s *State) replaceMain(ctx Context, target term.Term, proof func(next term.Term) term.Term) (*Goal, error) {
	old, err := s.MainGoal()
	if err != nil {
		return nil, err
	}
	g := s.newGoal(ctx, target)
	s.assign[old.ID] = proof(term.Meta{Name: g.ID})
	s.goals[0] = g
	return g, nil
}

// Exact closes the main goal with proof. Free variables of proof must be
// hypotheses of the goal.
func (s *State) Exact(proof term.Term) error {
	g, err := s.MainGoal()
	if err != nil {
		return err
	}
	for v := range term.FreeVars(proof) {
		if _, _, ok := g.Context.Lookup(v); !ok {
			return fmt.Errorf("unknown variable %s in %s", v, proof)
		}
	}
	s.assign[g.ID] = proof
	s.goals = s.goals[1:]
	return nil
}

// Instantiate replaces the assigned goal metavariables of t.
func (s *State) Instantiate(t term.Term) term.Term {
	return s.assign.Apply(t)
}

// Proof returns the proof of the initial goal as far as it is known.
// Open goals show up as metavariables.
func (s *State) Proof() term.Term {
	return s.Instantiate(term.Meta{Name: s.root})
}

func (s *State) String() string {
	if len(s.goals) == 0 {
		return "no goals"
	}
	parts := make([]string, len(s.goals))
	for i, g := range s.goals {
		parts[i] = g.String()
	}
	return strings.Join(parts, "\n\n")
}
