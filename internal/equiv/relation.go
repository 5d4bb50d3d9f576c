package equiv

import (
	"fmt"

	"github.com/gnoswap-labs/equivrw/internal/term"
)

// Relation is an equivalence witness Left ≃ Right: the equivalence term
// itself, its two maps and proofs that the maps are mutually inverse.
type Relation struct {
	Term     term.Term
	Left     term.Term
	Right    term.Term
	Forward  term.Term
	Backward term.Term
	// LeftInv proves forall a, Backward (Forward a) = a.
	LeftInv term.Term
	// RightInv proves forall b, Forward (Backward b) = b.
	RightInv term.Term
}

// New builds the relation carried by e : Equiv left right. Both round-trip
// proofs are required.
func New(e, left, right, leftInv, rightInv term.Term) (*Relation, error) {
	if e == nil || left == nil || right == nil {
		return nil, fmt.Errorf("relation needs an equivalence term and both sides")
	}
	if leftInv == nil || rightInv == nil {
		return nil, fmt.Errorf("relation %s is missing a round-trip proof", e)
	}
	return &Relation{
		Term:     e,
		Left:     left,
		Right:    right,
		Forward:  ToFun(e),
		Backward: InvFun(e),
		LeftInv:  leftInv,
		RightInv: rightInv,
	}, nil
}

// FromTerm builds the relation of an opaque equivalence term; its laws
// are the projections Equiv.left_inv e and Equiv.right_inv e.
func FromTerm(e, left, right term.Term) *Relation {
	return &Relation{
		Term:     e,
		Left:     left,
		Right:    right,
		Forward:  ToFun(e),
		Backward: InvFun(e),
		LeftInv:  LawOf(term.LeftInv, e),
		RightInv: LawOf(term.RightInv, e),
	}
}

// LawOf projects a round-trip law out of e, rewriting through symm so that
// left_inv (symm e) is right_inv e.
func LawOf(law string, e term.Term) term.Term {
	if inner, ok := unSymm(e); ok {
		if law == term.LeftInv {
			return LawOf(term.RightInv, inner)
		}
		return LawOf(term.LeftInv, inner)
	}
	return term.Apps(term.C(law), e)
}

func unSymm(e term.Term) (term.Term, bool) {
	args, ok := term.IsApp(e, term.EquivSymm, 1)
	if !ok {
		return nil, false
	}
	return args[0], true
}

// ToFun returns the forward map of e. The forward map of symm e is the
// backward map of e.
func ToFun(e term.Term) term.Term {
	if inner, ok := unSymm(e); ok {
		return InvFun(inner)
	}
	return term.Apps(term.C(term.EquivToFun), e)
}

// InvFun returns the backward map of e.
func InvFun(e term.Term) term.Term {
	if inner, ok := unSymm(e); ok {
		return ToFun(inner)
	}
	return term.Apps(term.C(term.EquivInv), e)
}

// Symm returns the inverse equivalence term, cancelling double inverses.
func Symm(e term.Term) term.Term {
	if inner, ok := unSymm(e); ok {
		return inner
	}
	return term.Apps(term.C(term.EquivSymm), e)
}

// Symm returns the inverse relation Right ≃ Left.
func (r *Relation) Symm() *Relation {
	return &Relation{
		Term:     Symm(r.Term),
		Left:     r.Right,
		Right:    r.Left,
		Forward:  r.Backward,
		Backward: r.Forward,
		LeftInv:  r.RightInv,
		RightInv: r.LeftInv,
	}
}

// Map applies f to every component of the relation.
func (r *Relation) Map(f func(term.Term) term.Term) *Relation {
	return &Relation{
		Term:     f(r.Term),
		Left:     f(r.Left),
		Right:    f(r.Right),
		Forward:  f(r.Forward),
		Backward: f(r.Backward),
		LeftInv:  f(r.LeftInv),
		RightInv: f(r.RightInv),
	}
}

// Type returns Equiv Left Right.
func (r *Relation) Type() term.Term {
	return term.EquivType(r.Left, r.Right)
}

// Apply returns Forward x.
func (r *Relation) Apply(x term.Term) term.Term {
	return term.App{Fn: r.Forward, Arg: x}
}

// Unapply returns Backward y.
func (r *Relation) Unapply(y term.Term) term.Term {
	return term.App{Fn: r.Backward, Arg: y}
}

// Laws states the round-trip laws as propositions.
func (r *Relation) Laws() (leftInv, rightInv term.Term) {
	a := term.FreshName("a", term.FreeVars(r.Term))
	leftInv = term.Forall(a, r.Left, term.Eq(r.Unapply(r.Apply(term.V(a))), term.V(a)))
	rightInv = term.Forall(a, r.Right, term.Eq(r.Apply(r.Unapply(term.V(a))), term.V(a)))
	return leftInv, rightInv
}

// Mentions reports whether sub occurs as a subterm of the relation's term.
func (r *Relation) Mentions(sub term.Term) bool {
	found := false
	term.Walk(r.Term, func(t term.Term) bool {
		if found {
			return false
		}
		if term.Equal(t, sub) {
			found = true
			return false
		}
		return true
	})
	return found
}

// RoundTrip evaluates Backward (Forward v) and reports whether it is v
// again after normalization.
func (r *Relation) RoundTrip(red *term.Reducer, v term.Term) (term.Term, bool) {
	got := red.Normalize(r.Unapply(r.Apply(v)))
	return got, term.Equal(got, red.Normalize(v))
}

func (r *Relation) String() string {
	return fmt.Sprintf("%s : %s ≃ %s", r.Term, r.Left, r.Right)
}
