package congr

import (
	"fmt"

	"github.com/gnoswap-labs/equivrw/internal/term"
)

// ReflName is the name of the reflexivity rule, always the last rule of a
// registry that has it.
const ReflName = "refl"

// Registry holds the congruence rules in the order the search tries them.
type Registry struct {
	rules    []Rule
	disabled map[string]bool
}

// NewRegistry creates a registry trying rules in the given order.
func NewRegistry(rules ...Rule) *Registry {
	return &Registry{
		rules:    append([]Rule(nil), rules...),
		disabled: make(map[string]bool),
	}
}

// Default returns the standard library of rules: structural formers
// first, then bifunctors and functors, then reflexivity.
func Default() *Registry {
	return NewRegistry(
		NewEquivCongr(),
		NewArrowCongr(),
		NewSubtypeCongr(),
		NewSigmaCongrLeft(),
		NewForallCongr(),
		NewPiCongrLeft(),
		NewBifunctor(
			Former{Name: "Prod", Map: "Prod.map"},
			Former{Name: "Sum", Map: "Sum.map"},
		),
		NewFunctor(
			Former{Name: "List", Map: "List.map"},
			Former{Name: "Option", Map: "Option.map"},
		),
		NewRefl(),
	)
}

// Register adds rule after every rule but reflexivity.
func (r *Registry) Register(rule Rule) error {
	if i := r.index(ReflName); i >= 0 {
		return r.insertAt(i, rule)
	}
	return r.insertAt(len(r.rules), rule)
}

// Insert adds rule right before the rule named before.
func (r *Registry) Insert(before string, rule Rule) error {
	i := r.index(before)
	if i < 0 {
		return fmt.Errorf("unknown rule %q", before)
	}
	return r.insertAt(i, rule)
}

func (r *Registry) insertAt(i int, rule Rule) error {
	if r.index(rule.Name()) >= 0 {
		return fmt.Errorf("rule %q already registered", rule.Name())
	}
	r.rules = append(r.rules, nil)
	copy(r.rules[i+1:], r.rules[i:])
	r.rules[i] = rule
	return nil
}

func (r *Registry) index(name string) int {
	for i, rule := range r.rules {
		if rule.Name() == name {
			return i
		}
	}
	return -1
}

// Lookup finds a rule by name, disabled or not.
func (r *Registry) Lookup(name string) (Rule, bool) {
	if i := r.index(name); i >= 0 {
		return r.rules[i], true
	}
	return nil, false
}

// Disable removes the named rules from the search order.
func (r *Registry) Disable(names ...string) error {
	for _, name := range names {
		if r.index(name) < 0 {
			return fmt.Errorf("unknown rule %q", name)
		}
		r.disabled[name] = true
	}
	return nil
}

// Enabled reports whether the named rule takes part in the search.
func (r *Registry) Enabled(name string) bool {
	return r.index(name) >= 0 && !r.disabled[name]
}

// Rules returns the enabled rules in search order.
func (r *Registry) Rules() []Rule {
	out := make([]Rule, 0, len(r.rules))
	for _, rule := range r.rules {
		if !r.disabled[rule.Name()] {
			out = append(out, rule)
		}
	}
	return out
}

// All returns every rule, disabled ones included, in search order.
func (r *Registry) All() []Rule {
	return append([]Rule(nil), r.rules...)
}

// AddFormer registers a container with its map on the functor rule
// (params 1) or the bifunctor rule (params 2).
func (r *Registry) AddFormer(params int, f Former) error {
	for _, rule := range r.rules {
		if fr, ok := rule.(*FunctorRule); ok && fr.params == params {
			fr.Add(f)
			return nil
		}
	}
	return fmt.Errorf("no rule for formers of %d parameters", params)
}

// Install declares the combinators of every rule in sig.
func (r *Registry) Install(sig *term.Signature) {
	for _, rule := range r.rules {
		rule.Declare(sig)
	}
}
