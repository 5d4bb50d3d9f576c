package equiv

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/equivrw/internal/term"
)

func negSignature() *term.Signature {
	sig := term.NewSignature()
	Declare(sig)
	sig.DeclareBuiltin("neg", 1, func(r *term.Reducer, args []term.Term) (term.Term, bool) {
		l, ok := r.Whnf(args[0]).(term.Lit)
		if !ok {
			return nil, false
		}
		return term.N(-l.Val), true
	})
	sig.Declare(term.Decl{
		Name:  "negEquiv",
		Type:  term.EquivType(term.C("Int"), term.C("Int")),
		Value: Mk(term.C("neg"), term.C("neg"), term.C("neg_neg"), term.C("neg_neg")),
	})
	return sig
}

func TestNew_RequiresLaws(t *testing.T) {
	e := term.C("e")
	_, err := New(e, term.C("A"), term.C("B"), nil, term.C("r"))
	assert.Error(t, err)

	_, err = New(nil, term.C("A"), term.C("B"), term.C("l"), term.C("r"))
	assert.Error(t, err)

	rel, err := New(e, term.C("A"), term.C("B"), term.C("l"), term.C("r"))
	require.NoError(t, err)
	assert.Equal(t, "Equiv.toFun e", rel.Forward.String())
	assert.Equal(t, "Equiv.invFun e", rel.Backward.String())
}

func TestFromTerm_SymmNormalization(t *testing.T) {
	e := term.C("e")
	rel := FromTerm(term.Apps(term.C(term.EquivSymm), e), term.C("B"), term.C("A"))

	assert.Equal(t, "Equiv.invFun e", rel.Forward.String())
	assert.Equal(t, "Equiv.toFun e", rel.Backward.String())
	assert.Equal(t, "Equiv.right_inv e", rel.LeftInv.String())
	assert.Equal(t, "Equiv.left_inv e", rel.RightInv.String())
}

func TestRelation_Symm(t *testing.T) {
	rel := FromTerm(term.C("e"), term.C("A"), term.C("B"))
	inv := rel.Symm()

	assert.Equal(t, "Equiv.symm e", inv.Term.String())
	assert.True(t, term.Equal(inv.Left, rel.Right))
	assert.True(t, term.Equal(inv.Forward, rel.Backward))
	assert.True(t, term.Equal(inv.LeftInv, rel.RightInv))

	back := inv.Symm()
	assert.Equal(t, "e", back.Term.String())
	assert.Equal(t, rel.String(), back.String())
}

func TestRelation_Laws(t *testing.T) {
	rel := FromTerm(term.C("e"), term.C("A"), term.C("B"))
	l, r := rel.Laws()
	assert.Equal(t, "forall (a : A), Equiv.invFun e (Equiv.toFun e a) = a", l.String())
	assert.Equal(t, "forall (a : B), Equiv.toFun e (Equiv.invFun e a) = a", r.String())
}

func TestRelation_Mentions(t *testing.T) {
	rel := FromTerm(term.Apps(term.C("Equiv.mapCongr"), term.C("List.map"), term.C("e")),
		term.C("A"), term.C("B"))
	assert.True(t, rel.Mentions(term.C("e")))
	assert.False(t, rel.Mentions(term.C("f")))
}

func TestRelation_RoundTrip(t *testing.T) {
	sig := negSignature()
	red := term.NewReducer(sig)

	tests := []struct {
		name string
		rel  *Relation
	}{
		{"direct", FromTerm(term.C("negEquiv"), term.C("Int"), term.C("Int"))},
		{"symm", FromTerm(Symm(term.C("negEquiv")), term.C("Int"), term.C("Int"))},
		{"trans", FromTerm(term.Apps(term.C(term.EquivTrans), term.C("negEquiv"), term.C("negEquiv")),
			term.C("Int"), term.C("Int"))},
		{"refl", FromTerm(term.Apps(term.C(term.EquivRefl), term.C("Int")), term.C("Int"), term.C("Int"))},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, v := range []int64{0, 3, 42} {
				got, ok := tt.rel.RoundTrip(red, term.N(v))
				assert.True(t, ok, "round trip of %d gave %s", v, got)
			}
		})
	}

	fwd := red.Normalize(FromTerm(term.C("negEquiv"), term.C("Int"), term.C("Int")).Apply(term.N(7)))
	assert.Equal(t, "-7", fwd.String())
}

func TestProjectionStuckOnOpaque(t *testing.T) {
	red := term.NewReducer(negSignature())
	got := red.Normalize(term.Apps(term.C(term.EquivToFun), term.C("opaque"), term.N(1)))
	assert.Equal(t, "Equiv.toFun opaque 1", got.String())

	got = red.Normalize(term.Apps(term.C(term.EquivToFun), Symm(term.C("opaque"))))
	assert.Equal(t, "Equiv.invFun opaque", got.String())
}

func TestErrors(t *testing.T) {
	err := Errorf(StepBoundExceeded, "pattern %s needs more than %d steps", "List Nat", 6)
	assert.True(t, errors.Is(err, ErrStepBoundExceeded))
	assert.False(t, errors.Is(err, ErrNoRuleApplies))
	assert.Equal(t, "step bound exceeded: pattern List Nat needs more than 6 steps", err.Error())

	wrapped := fmt.Errorf("rewrite h: %w", err)
	assert.True(t, errors.Is(wrapped, ErrStepBoundExceeded))
	assert.Equal(t, StepBoundExceeded, KindOf(wrapped))
	assert.Equal(t, Kind(0), KindOf(errors.New("plain")))

	inner := errors.New("occurs check")
	withCause := &Error{Kind: SubstitutionFailure, Reason: "x", Err: inner}
	assert.True(t, errors.Is(withCause, inner))
	assert.Equal(t, "substitution failed: x: occurs check", withCause.Error())
}
