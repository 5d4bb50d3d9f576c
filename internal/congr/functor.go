package congr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gnoswap-labs/equivrw/internal/equiv"
	"github.com/gnoswap-labs/equivrw/internal/term"
)

// Combinators of the functor rules. Their first argument is the map of
// the former.
const (
	MapCongr   = "Equiv.mapCongr"
	BimapCongr = "Equiv.bimapCongr"
)

// Former is a type former with a map over its parameters:
// List with List.map, Prod with Prod.map.
type Former struct {
	Name string
	Map  string
}

// FunctorRule transports along every registered former of one arity:
// F α for functors, F α β for bifunctors.
type FunctorRule struct {
	name    string
	comb    string
	params  int
	formers map[string]Former
}

// NewFunctor returns the rule for unary formers F α.
func NewFunctor(formers ...Former) *FunctorRule {
	return newFunctorRule("functor", MapCongr, 1, formers)
}

// NewBifunctor returns the rule for binary formers F α β.
func NewBifunctor(formers ...Former) *FunctorRule {
	return newFunctorRule("bifunctor", BimapCongr, 2, formers)
}

func newFunctorRule(name, comb string, params int, formers []Former) *FunctorRule {
	r := &FunctorRule{
		name:    name,
		comb:    comb,
		params:  params,
		formers: make(map[string]Former),
	}
	for _, f := range formers {
		r.Add(f)
	}
	return r
}

// Add registers a former, replacing one of the same name.
func (r *FunctorRule) Add(f Former) {
	r.formers[f.Name] = f
}

// Formers returns the registered formers sorted by name.
func (r *FunctorRule) Formers() []Former {
	out := make([]Former, 0, len(r.formers))
	for _, f := range r.formers {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (r *FunctorRule) Name() string { return r.name }

func (r *FunctorRule) Shape() string {
	names := make([]string, 0, len(r.formers))
	for _, f := range r.Formers() {
		names = append(names, f.Name)
	}
	params := "α"
	if r.params == 2 {
		params = "α β"
	}
	return fmt.Sprintf("F %s for F in {%s}", params, strings.Join(names, ", "))
}

func (r *FunctorRule) Arity() int { return r.params }

func (r *FunctorRule) Match(env *Env, p term.Term) (Match, bool) {
	head, args, ok := term.HeadConst(p)
	if !ok || len(args) != r.params {
		return nil, false
	}
	f, ok := r.formers[head]
	if !ok {
		return nil, false
	}
	return &functorMatch{env: env, rule: r, former: f, left: p, parts: args}, true
}

func (r *FunctorRule) Declare(sig *term.Signature) {
	sig.DeclareBuiltin(r.comb, r.params+1, func(_ *term.Reducer, args []term.Term) (term.Term, bool) {
		m, subs := args[0], args[1:]
		fwd, bwd := m, m
		for _, e := range subs {
			fwd = term.App{Fn: fwd, Arg: equiv.ToFun(e)}
			bwd = term.App{Fn: bwd, Arg: equiv.InvFun(e)}
		}
		args = append([]term.Term(nil), args...)
		return equiv.Mk(fwd, bwd, law(r.comb, "left_inv", args), law(r.comb, "right_inv", args)), true
	})
}

type functorMatch struct {
	env    *Env
	rule   *FunctorRule
	former Former
	left   term.Term
	parts  []term.Term
}

func (m *functorMatch) Obligation(i int, _ []Solution) term.Term {
	return m.env.Goal(m.parts[i])
}

func (m *functorMatch) Combine(solved []Solution) (*equiv.Relation, error) {
	args := []term.Term{term.C(m.former.Map)}
	rights := make([]term.Term, len(solved))
	for i, s := range solved {
		args = append(args, s.Rel.Term)
		rights[i] = s.Rel.Right
	}
	right := term.Apps(term.C(m.former.Name), rights...)
	return build(m.rule.comb, args, m.left, right)
}

type reflRule struct{}

// NewRefl returns the rule relating any pattern to itself. It matches
// everything and belongs at the end of a registry.
func NewRefl() Rule { return reflRule{} }

func (reflRule) Name() string  { return ReflName }
func (reflRule) Shape() string { return "α" }
func (reflRule) Arity() int    { return 0 }

func (reflRule) Match(_ *Env, p term.Term) (Match, bool) {
	return reflMatch{left: p}, true
}

// Equiv.refl reduces through its definition in the signature.
func (reflRule) Declare(*term.Signature) {}

type reflMatch struct {
	left term.Term
}

func (reflMatch) Obligation(int, []Solution) term.Term { return nil }

func (m reflMatch) Combine([]Solution) (*equiv.Relation, error) {
	return build(term.EquivRefl, []term.Term{m.left}, m.left, m.left)
}
