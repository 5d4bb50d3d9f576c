package prelude

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/equivrw/internal/congr"
	"github.com/gnoswap-labs/equivrw/internal/equiv"
	"github.com/gnoswap-labs/equivrw/internal/parser"
	"github.com/gnoswap-labs/equivrw/internal/term"
)

func TestBuiltins(t *testing.T) {
	red := term.NewReducer(New(congr.Default()))

	tests := []struct {
		input string
		want  string
	}{
		{"Nat.add 2 3", "5"},
		{"Nat.mod 12 5", "2"},
		{"Nat.succ (Nat.succ 0)", "2"},
		{"Fin.val (Fin.mk 4)", "4"},
		{"Bool.not true", "false"},
		{"List.map Nat.succ [1, 2]", "[2, 3]"},
		{"List.length [true, false, true]", "3"},
		{"Option.map Bool.not (some true)", "some false"},
		{"Option.map Bool.not none", "none"},
		{"Prod.map Nat.succ Bool.not (Prod.mk 1 false)", "Prod.mk 2 true"},
		{"Sum.map Nat.succ Bool.not (Sum.inr true)", "Sum.inr false"},
		{"Prod.snd (Prod.mk 1 2)", "2"},
		{"Subtype.val (Subtype.mk 3 h)", "3"},
		{"Sigma.snd (Sigma.mk 1 v)", "v"},
		{"Eq.mpr h (cast 7)", "7"},
		{"Equiv.toFun natFin5 8", "Fin.mk 3"},
		{"Equiv.invFun natFin5 (Fin.mk 2)", "2"},
		{"Equiv.toFun (Equiv.symm boolOptUnit) (some unit)", "true"},
		{"Equiv.toFun (Equiv.refl Nat) 4", "4"},
		{"Equiv.toFun (Equiv.trans boolNot boolOptUnit) false", "some unit"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := red.Normalize(parser.MustParse(tt.input))
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestBuiltinsStuckOnOpenTerms(t *testing.T) {
	red := term.NewReducer(New(congr.Default()))

	got := red.Normalize(parser.MustParse("Equiv.toFun natFin5 n", "n"))
	assert.Equal(t, "Fin.mk (Nat.mod n 5)", got.String())

	got = red.Normalize(parser.MustParse("Fin.val (Equiv.toFun natFin5 n)", "n"))
	assert.Equal(t, "Nat.mod n 5", got.String())

	got = red.Normalize(parser.MustParse("Nat.mod 3 0"))
	assert.Equal(t, "Nat.mod 3 0", got.String())
}

func TestSeedsRoundTrip(t *testing.T) {
	sig := New(congr.Default())
	red := term.NewReducer(sig)

	for _, name := range []string{NatFin5, BoolNot, BoolOptUnit} {
		t.Run(name, func(t *testing.T) {
			ty, ok := sig.TypeOf(name)
			require.True(t, ok)
			sides, ok := term.IsApp(ty, term.EquivName, 2)
			require.True(t, ok)

			rel := equiv.FromTerm(term.C(name), sides[0], sides[1])
			values := Samples(sides[0])
			require.NotEmpty(t, values)
			for _, v := range values {
				got, ok := rel.RoundTrip(red, v)
				assert.True(t, ok, "%s came back as %s", v, got)
			}

			inv := rel.Symm()
			for _, v := range Samples(sides[1]) {
				got, ok := inv.RoundTrip(red, v)
				assert.True(t, ok, "%s came back as %s", v, got)
			}
		})
	}
}

func TestCombinatorsReduce(t *testing.T) {
	red := term.NewReducer(New(congr.Default()))

	tests := []struct {
		input string
		want  string
	}{
		{"Equiv.toFun (Equiv.mapCongr List.map natFin5) [1, 7]", "[Fin.mk 1, Fin.mk 2]"},
		{"Equiv.invFun (Equiv.mapCongr Option.map natFin5) (some (Fin.mk 3))", "some 3"},
		{"Equiv.toFun (Equiv.bimapCongr Prod.map natFin5 boolNot) (Prod.mk 6 true)", "Prod.mk (Fin.mk 1) false"},
		{"Equiv.toFun (Equiv.arrowCongr natFin5 boolNot) (fun (n : Nat) => true) (Fin.mk 2)", "false"},
		{"Subtype.val (Equiv.toFun (Equiv.subtypeCongr natFin5 (fun (n : Nat) => P n)) (Subtype.mk 2 h))", "Fin.mk 2"},
		{"Sigma.fst (Equiv.invFun (Equiv.sigmaCongrLeft natFin5 (fun (n : Nat) => F n)) (Sigma.mk (Fin.mk 4) v))", "4"},
		{"Equiv.toFun (Equiv.piCongrLeft natFin5 (fun (n : Nat) => F n)) (fun (n : Nat) => Nat.add n 1) (Fin.mk 2)", "3"},
		{"Equiv.toFun (Equiv.toFun (Equiv.equivCongr natFin5 (Equiv.refl Bool)) boolNotNat) (Fin.mk 1)", "Equiv.toFun boolNotNat 1"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := red.Normalize(parser.MustParse(tt.input))
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestSamples(t *testing.T) {
	assert.Len(t, Samples(term.C("Bool")), 2)
	assert.Len(t, Samples(parser.MustParse("List Nat")), 3)
	assert.Len(t, Samples(parser.MustParse("Prod Bool Unit")), 2)
	assert.Equal(t, "[[], [[]], [[], [0], [0, 1, 3]]]", term.List(Samples(parser.MustParse("List (List Nat)"))...).String())
	assert.Nil(t, Samples(term.C("Real")))
	assert.Nil(t, Samples(parser.MustParse("List Real")))
}
