package term

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSignature() *Signature {
	sig := NewSignature()
	sig.DeclareBuiltin("Nat.add", 2, func(r *Reducer, args []Term) (Term, bool) {
		a, ok1 := r.Whnf(args[0]).(Lit)
		b, ok2 := r.Whnf(args[1]).(Lit)
		if !ok1 || !ok2 {
			return nil, false
		}
		return Lit{Val: a.Val + b.Val}, true
	})
	sig.Declare(Decl{Name: "double", Value: Lam("n", C("Nat"), Apps(C("Nat.add"), V("n"), V("n")))})
	return sig
}

func TestReducerWhnf(t *testing.T) {
	r := NewReducer(testSignature())

	got := r.Whnf(Apps(C("double"), N(21)))
	assert.Equal(t, N(42), got)

	// beta
	got = r.Whnf(Apps(Lam("x", nil, Apps(C("Nat.add"), V("x"), N(1))), N(1)))
	assert.Equal(t, N(2), got)

	// stuck on a variable
	stuck := Apps(C("Nat.add"), V("x"), N(1))
	assert.Equal(t, stuck, r.Whnf(stuck))
}

func TestReducerNormalizeUnderBinders(t *testing.T) {
	r := NewReducer(testSignature())
	tm := Lam("x", nil, Apps(C("g"), Apps(C("double"), N(2))))
	got := r.Normalize(tm)
	assert.Equal(t, "fun x => g 4", got.String())
}

func TestReducerConvertible(t *testing.T) {
	r := NewReducer(testSignature())
	a := Apps(C("double"), N(2))
	b := N(4)
	assert.False(t, r.Convertible(a, b, TransparencyNone))
	assert.True(t, r.Convertible(a, b, TransparencyFull))
}

func TestReducerFuel(t *testing.T) {
	sig := NewSignature()
	// loop := loop
	sig.Declare(Decl{Name: "loop", Value: C("loop")})
	r := NewReducer(sig)
	assert.Equal(t, C("loop"), r.Whnf(C("loop")))
}

func TestParseTransparency(t *testing.T) {
	tr, err := ParseTransparency("full")
	require.NoError(t, err)
	assert.Equal(t, TransparencyFull, tr)

	tr, err = ParseTransparency("")
	require.NoError(t, err)
	assert.Equal(t, TransparencyNone, tr)

	_, err = ParseTransparency("reducible")
	assert.Error(t, err)
}

func TestMatcherFullTransparency(t *testing.T) {
	r := NewReducer(testSignature())
	m := NewMatcher(Apps(C("double"), V("x")), r, TransparencyFull)

	assert.True(t, m.Matches(Apps(C("Nat.add"), V("x"), V("x"))))
	assert.False(t, NewMatcher(Apps(C("double"), V("x")), r, TransparencyNone).Matches(Apps(C("Nat.add"), V("x"), V("x"))))
}

func TestSignatureScopes(t *testing.T) {
	parent := NewSignature()
	parent.Declare(Decl{Name: "Nat", Type: Sort{Kind: SortType}})
	child := NewChildSignature(parent)
	child.Declare(Decl{Name: "Fin5", Type: Sort{Kind: SortType}})

	_, ok := child.Lookup("Nat")
	assert.True(t, ok)
	_, ok = parent.Lookup("Fin5")
	assert.False(t, ok)
	assert.Equal(t, []string{"Fin5", "Nat"}, child.Names())

	clone := child.Clone()
	clone.Declare(Decl{Name: "Bool"})
	_, ok = child.Lookup("Bool")
	assert.False(t, ok)
}
