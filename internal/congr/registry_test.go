package congr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/equivrw/internal/equiv"
	"github.com/gnoswap-labs/equivrw/internal/term"
)

func names(rules []Rule) []string {
	out := make([]string, len(rules))
	for i, r := range rules {
		out[i] = r.Name()
	}
	return out
}

func TestDefaultOrder(t *testing.T) {
	want := []string{
		"equivCongr", "arrowCongr", "subtypeCongr", "sigmaCongrLeft",
		"forallCongr", "piCongrLeft", "bifunctor", "functor", ReflName,
	}
	assert.Equal(t, want, names(Default().Rules()))
}

type tagRule struct {
	reflRule
	name string
}

func (r tagRule) Name() string { return r.name }

func TestRegistry_Register(t *testing.T) {
	reg := Default()
	require.NoError(t, reg.Register(tagRule{name: "funext"}))

	got := names(reg.Rules())
	assert.Equal(t, "funext", got[len(got)-2])
	assert.Equal(t, ReflName, got[len(got)-1])

	assert.Error(t, reg.Register(tagRule{name: "funext"}))

	require.NoError(t, reg.Insert("functor", tagRule{name: "tree"}))
	got = names(reg.Rules())
	assert.Equal(t, []string{"bifunctor", "tree", "functor"}, got[6:9])

	assert.Error(t, reg.Insert("missing", tagRule{name: "x"}))
}

func TestRegistry_RegisterWithoutRefl(t *testing.T) {
	reg := NewRegistry(NewFunctor())
	require.NoError(t, reg.Register(NewArrowCongr()))
	assert.Equal(t, []string{"functor", "arrowCongr"}, names(reg.Rules()))
}

func TestRegistry_Disable(t *testing.T) {
	reg := Default()
	require.NoError(t, reg.Disable("arrowCongr", ReflName))
	assert.False(t, reg.Enabled("arrowCongr"))
	assert.True(t, reg.Enabled("functor"))
	assert.NotContains(t, names(reg.Rules()), "arrowCongr")
	assert.Len(t, reg.All(), 9)

	_, ok := reg.Lookup("arrowCongr")
	assert.True(t, ok)

	assert.Error(t, reg.Disable("nope"))
}

func TestRegistry_AddFormer(t *testing.T) {
	reg := Default()
	require.NoError(t, reg.AddFormer(1, Former{Name: "Tree", Map: "Tree.map"}))
	require.NoError(t, reg.AddFormer(2, Former{Name: "Either", Map: "Either.map"}))
	assert.Error(t, reg.AddFormer(3, Former{Name: "Triple", Map: "Triple.map"}))

	rule, ok := reg.Lookup("functor")
	require.True(t, ok)
	assert.Equal(t, "F α for F in {List, Option, Tree}", rule.Shape())

	rule, ok = reg.Lookup("bifunctor")
	require.True(t, ok)
	assert.Equal(t, "F α β for F in {Either, Prod, Sum}", rule.Shape())
}

func TestEnv_Hole(t *testing.T) {
	env := NewEnv(term.Apps(term.C("List"), term.Hole("r1")))
	assert.Equal(t, "?r2", env.Hole().String())
	assert.Equal(t, "?r3", env.Hole().String())
	assert.Equal(t, "Equiv Nat ?r4", env.Goal(term.C("Nat")).String())
}

func TestFunctorMatch(t *testing.T) {
	rule := NewFunctor(Former{Name: "List", Map: "List.map"})
	env := NewEnv()

	_, ok := rule.Match(env, term.Apps(term.C("Option"), term.C("Nat")))
	assert.False(t, ok)
	_, ok = rule.Match(env, term.Apps(term.C("List"), term.C("Nat"), term.C("Nat")))
	assert.False(t, ok)

	left := term.Apps(term.C("List"), term.C("Nat"))
	m, ok := rule.Match(env, left)
	require.True(t, ok)
	assert.Equal(t, "Equiv Nat ?r1", m.Obligation(0, nil).String())

	seed := equiv.FromTerm(term.C("e"), term.C("Nat"), term.C("Fin5"))
	rel, err := m.Combine([]Solution{{Rel: seed}})
	require.NoError(t, err)
	assert.Equal(t, "Equiv.mapCongr List.map e : List Nat ≃ List Fin5", rel.String())
	assert.Equal(t, "Equiv.mapCongr.left_inv List.map e", rel.LeftInv.String())
}

func TestForallMatch(t *testing.T) {
	env := NewEnv()
	p := term.Forall("x", term.C("Nat"), term.Apps(term.C("P"), term.V("x"), term.V("y")))
	m, ok := NewForallCongr().Match(env, p)
	require.True(t, ok)

	seed := equiv.FromTerm(term.V("y"), term.C("Nat"), term.C("Fin5"))
	ob := m.Obligation(1, []Solution{{Rel: seed}})
	// x is kept, y is free in the body and in the seed
	assert.Equal(t, "Pi (x : Fin5), Equiv (P (Equiv.invFun y x) y) ?r1", ob.String())

	h := equiv.FromTerm(term.C("h"), term.C("A"), term.C("B"))
	rel, err := m.Combine([]Solution{{Rel: seed}, {Binders: []term.Local{{Name: "z", Type: term.C("Fin5")}}, Rel: h}})
	require.NoError(t, err)
	assert.Equal(t, "forall (z : Fin5), B", rel.Right.String())
	assert.Equal(t, "Equiv.forallCongr y (fun (z : Fin5) => h)", rel.Term.String())
}

func TestDomainMatchRenames(t *testing.T) {
	env := NewEnv()
	// the seed mentions a free x, so the new binder can not be called x
	p := term.Subtype("x", term.C("Nat"), term.Apps(term.C("P"), term.V("x")))
	m, ok := NewSubtypeCongr().Match(env, p)
	require.True(t, ok)

	seed := equiv.FromTerm(term.Apps(term.C("e"), term.V("x")), term.C("Nat"), term.C("Fin5"))
	rel, err := m.Combine([]Solution{{Rel: seed}})
	require.NoError(t, err)
	assert.Equal(t, "{x_1 : Fin5 // P (Equiv.invFun (e x) x_1)}", rel.Right.String())
}

func TestReflMatchesAnything(t *testing.T) {
	for _, p := range []term.Term{term.C("Nat"), term.Hole("a"), term.Arrow(term.C("A"), term.C("B"))} {
		m, ok := NewRefl().Match(NewEnv(), p)
		require.True(t, ok)
		rel, err := m.Combine(nil)
		require.NoError(t, err)
		assert.True(t, term.Equal(rel.Left, rel.Right))
	}
}

func TestInstallDeclaresCombinators(t *testing.T) {
	sig := term.NewSignature()
	Default().Install(sig)
	for _, name := range []string{EquivCongr, ArrowCongr, SubtypeCongr, SigmaCongrLeft, ForallCongr, PiCongrLeft, MapCongr, BimapCongr} {
		d, ok := sig.Lookup(name)
		require.True(t, ok, name)
		assert.NotNil(t, d.Builtin, name)
	}
}
