package congr

import (
	"strconv"

	"github.com/gnoswap-labs/equivrw/internal/equiv"
	"github.com/gnoswap-labs/equivrw/internal/term"
)

// Rule is a congruence law: it recognizes a type former and builds the
// relation of the composite from one relation per component.
type Rule interface {
	// Name identifies the rule in traces and configuration.
	Name() string
	// Shape describes the patterns the rule matches.
	Shape() string
	// Arity is the number of sub-relations the rule needs.
	Arity() int
	// Match recognizes pattern. The returned Match is used for a single
	// application of the rule.
	Match(env *Env, pattern term.Term) (Match, bool)
	// Declare installs the reductions of the rule's combinator.
	Declare(sig *term.Signature)
}

// Match is one application of a rule to a pattern.
type Match interface {
	// Obligation returns the statement of the i-th sub-relation, given the
	// ones solved before it. It has the form Equiv L ?r, possibly below
	// Pi binders the sub-relation may depend on.
	Obligation(i int, solved []Solution) term.Term
	// Combine assembles the relation of the pattern from all the solved
	// sub-relations.
	Combine(solved []Solution) (*equiv.Relation, error)
}

// Solution is a solved sub-obligation: the binders stripped from its
// statement, in order, and the relation found under them.
type Solution struct {
	Binders []term.Local
	Rel     *equiv.Relation
}

// Env hands out fresh holes for the right sides of obligations.
type Env struct {
	taken map[string]bool
	holes int
}

// NewEnv creates an Env whose holes never clash with those of avoid.
func NewEnv(avoid ...term.Term) *Env {
	e := &Env{taken: make(map[string]bool)}
	for _, t := range avoid {
		for _, m := range term.Metas(t) {
			e.taken[m] = true
		}
	}
	return e
}

// Hole returns a metavariable not used before.
func (e *Env) Hole() term.Term {
	for {
		e.holes++
		name := "r" + strconv.Itoa(e.holes)
		if !e.taken[name] {
			e.taken[name] = true
			return term.Meta{Name: name}
		}
	}
}

// Goal states "find a relation from left": Equiv left ?r.
func (e *Env) Goal(left term.Term) term.Term {
	return term.EquivType(left, e.Hole())
}

func law(name, which string, args []term.Term) term.Term {
	return term.Apps(term.C(name+"."+which), args...)
}

// build creates the relation name args : left ≃ right with the laws
// name.left_inv args and name.right_inv args.
func build(name string, args []term.Term, left, right term.Term) (*equiv.Relation, error) {
	e := term.Apps(term.C(name), args...)
	return equiv.New(e, left, right, law(name, "left_inv", args), law(name, "right_inv", args))
}

// declareCombinator declares name as a builtin of the given arity that
// reduces to the Equiv.mk of the maps computed from its arguments.
func declareCombinator(sig *term.Signature, name string, arity int, maps func(args []term.Term) (fwd, bwd term.Term)) {
	sig.DeclareBuiltin(name, arity, func(_ *term.Reducer, args []term.Term) (term.Term, bool) {
		args = append([]term.Term(nil), args...)
		fwd, bwd := maps(args)
		return equiv.Mk(fwd, bwd, law(name, "left_inv", args), law(name, "right_inv", args)), true
	})
}

// lam builds fun v => body(v) with v named after base and fresh for the
// free variables of avoid.
func lam(base string, avoid []term.Term, body func(v term.Term) term.Term) term.Term {
	taken := make(map[string]bool)
	for _, t := range avoid {
		for name := range term.FreeVars(t) {
			taken[name] = true
		}
	}
	name := term.FreshName(base, taken)
	return term.Lam(name, nil, body(term.V(name)))
}

// rebind picks the name of a binder that replaces x over body, keeping x
// when nothing else is called x.
func rebind(x string, body term.Term, avoid ...term.Term) string {
	taken := term.FreeVars(body)
	delete(taken, x)
	for _, t := range avoid {
		for name := range term.FreeVars(t) {
			taken[name] = true
		}
	}
	return term.FreshName(x, taken)
}
