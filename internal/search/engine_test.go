package search

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/gnoswap-labs/equivrw/internal/congr"
	"github.com/gnoswap-labs/equivrw/internal/equiv"
	"github.com/gnoswap-labs/equivrw/internal/parser"
	"github.com/gnoswap-labs/equivrw/internal/prelude"
	"github.com/gnoswap-labs/equivrw/internal/term"
)

// the engine never starts goroutines
func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fixture struct {
	registry *congr.Registry
	sig      *term.Signature
	reducer  *term.Reducer
	seed     *equiv.Relation
}

func newFixture() *fixture {
	reg := congr.Default()
	sig := prelude.New(reg)
	return &fixture{
		registry: reg,
		sig:      sig,
		reducer:  term.NewReducer(sig),
		seed:     equiv.FromTerm(term.C(prelude.NatFin5), term.C("Nat"), term.C("Fin5")),
	}
}

func (f *fixture) engine(opts Options) *Engine {
	return NewEngine(f.registry, f.reducer, opts)
}

func TestDerive_Identity(t *testing.T) {
	f := newFixture()
	d, err := f.engine(Options{}).Derive(f.seed, term.C("Nat"))
	require.NoError(t, err)

	assert.Equal(t, 1, d.Steps)
	assert.Equal(t, []string{SeedName}, d.Rules())
	assert.Equal(t, f.seed.String(), d.Relation.String())
	assert.True(t, term.Equal(d.Relation.Forward, f.seed.Forward))
}

func TestDerive_Structural(t *testing.T) {
	tests := []struct {
		pattern string
		rules   []string
		right   string
		term    string
	}{
		{
			pattern: "List Nat",
			rules:   []string{"functor", SeedName},
			right:   "List Fin5",
			term:    "Equiv.mapCongr List.map natFin5",
		},
		{
			pattern: "Option (List Nat)",
			rules:   []string{"functor", "functor", SeedName},
			right:   "Option (List Fin5)",
			term:    "Equiv.mapCongr Option.map (Equiv.mapCongr List.map natFin5)",
		},
		{
			pattern: "Prod Nat Bool",
			rules:   []string{"bifunctor", SeedName, "refl"},
			right:   "Prod Fin5 Bool",
			term:    "Equiv.bimapCongr Prod.map natFin5 (Equiv.refl Bool)",
		},
		{
			pattern: "Sum Bool Nat",
			rules:   []string{"bifunctor", "refl", SeedName},
			right:   "Sum Bool Fin5",
			term:    "Equiv.bimapCongr Sum.map (Equiv.refl Bool) natFin5",
		},
		{
			pattern: "Nat -> Nat",
			rules:   []string{"arrowCongr", SeedName, SeedName},
			right:   "Fin5 -> Fin5",
			term:    "Equiv.arrowCongr natFin5 natFin5",
		},
		{
			pattern: "Equiv Nat Bool",
			rules:   []string{"equivCongr", SeedName, "refl"},
			right:   "Equiv Fin5 Bool",
			term:    "Equiv.equivCongr natFin5 (Equiv.refl Bool)",
		},
		{
			pattern: "{n : Nat // P n}",
			rules:   []string{"subtypeCongr", SeedName},
			right:   "{n : Fin5 // P (Equiv.invFun natFin5 n)}",
			term:    "Equiv.subtypeCongr natFin5 (fun (n : Nat) => P n)",
		},
		{
			pattern: "Sigma (n : Nat), Vec n",
			rules:   []string{"sigmaCongrLeft", SeedName},
			right:   "Sigma (n : Fin5), Vec (Equiv.invFun natFin5 n)",
			term:    "Equiv.sigmaCongrLeft natFin5 (fun (n : Nat) => Vec n)",
		},
		{
			pattern: "Pi (n : Nat), Vec n",
			rules:   []string{"piCongrLeft", SeedName},
			right:   "Pi (n : Fin5), Vec (Equiv.invFun natFin5 n)",
			term:    "Equiv.piCongrLeft natFin5 (fun (n : Nat) => Vec n)",
		},
		{
			pattern: "forall (n : Nat), P n",
			rules:   []string{"forallCongr", SeedName, "refl"},
			right:   "forall (n : Fin5), P (Equiv.invFun natFin5 n)",
			term:    "Equiv.forallCongr natFin5 (fun (n : Fin5) => Equiv.refl (P (Equiv.invFun natFin5 n)))",
		},
		{
			pattern: "forall (a : Nat), forall (b : Nat), R a b",
			rules:   []string{"forallCongr", SeedName, "forallCongr", SeedName, "refl"},
			right:   "forall (a : Fin5), forall (b : Fin5), R (Equiv.invFun natFin5 a) (Equiv.invFun natFin5 b)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			f := newFixture()
			d, err := f.engine(Options{}).Derive(f.seed, parser.MustParse(tt.pattern))
			require.NoError(t, err)

			if diff := cmp.Diff(tt.rules, d.Rules()); diff != "" {
				t.Errorf("rules mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.pattern, d.Relation.Left.String())
			assert.Equal(t, tt.right, d.Relation.Right.String())
			if tt.term != "" {
				assert.Equal(t, tt.term, d.Relation.Term.String())
			}
			assert.Equal(t, len(tt.rules), d.Steps)
			assert.Positive(t, d.SeedUses())
		})
	}
}

func TestDerive_ListRoundTrip(t *testing.T) {
	f := newFixture()
	d, err := f.engine(Options{}).Derive(f.seed, parser.MustParse("List Nat"))
	require.NoError(t, err)
	rel := d.Relation

	v := parser.MustParse("[1, 2, 3]")
	forward := f.reducer.Normalize(rel.Apply(v))
	assert.Equal(t, "[Fin.mk 1, Fin.mk 2, Fin.mk 3]", forward.String())

	back, ok := rel.RoundTrip(f.reducer, v)
	assert.True(t, ok)
	assert.Equal(t, "[1, 2, 3]", back.String())

	for _, sample := range prelude.Samples(rel.Left) {
		got, ok := rel.RoundTrip(f.reducer, sample)
		assert.True(t, ok, "%s came back as %s", sample, got)
	}
}

func TestDerive_OptionForward(t *testing.T) {
	f := newFixture()
	d, err := f.engine(Options{}).Derive(f.seed, parser.MustParse("Option Nat"))
	require.NoError(t, err)

	got := f.reducer.Normalize(d.Relation.Apply(parser.MustParse("some 3")))
	want := f.reducer.Normalize(term.Apps(term.C("some"), f.seed.Apply(term.N(3))))
	assert.True(t, term.Equal(want, got), "got %s, want %s", got, want)
	assert.Equal(t, "some (Fin.mk 3)", got.String())
}

func TestDerive_NonVacuity(t *testing.T) {
	for _, pattern := range []string{"Bool", "List Bool", "Prod Bool Unit", "forall (b : Bool), P b"} {
		t.Run(pattern, func(t *testing.T) {
			f := newFixture()
			d, err := f.engine(Options{}).Derive(f.seed, parser.MustParse(pattern))
			assert.Nil(t, d)
			require.Error(t, err)
			assert.True(t, errors.Is(err, equiv.ErrVacuousDerivation), "got %v", err)
		})
	}
}

func TestDerive_StepBound(t *testing.T) {
	f := newFixture()
	e := f.engine(Options{})

	five := parser.MustParse("List (List (List (List (List Nat))))")
	d, err := e.Derive(f.seed, five)
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxSteps, d.Steps)

	six := parser.MustParse("List (List (List (List (List (List Nat)))))")
	_, err = e.Derive(f.seed, six)
	require.Error(t, err)
	assert.True(t, errors.Is(err, equiv.ErrStepBoundExceeded), "got %v", err)

	_, err = f.engine(Options{MaxSteps: 1}).Derive(f.seed, parser.MustParse("List Nat"))
	assert.True(t, errors.Is(err, equiv.ErrStepBoundExceeded), "got %v", err)
}

func TestDerive_Holes(t *testing.T) {
	f := newFixture()
	d, err := f.engine(Options{}).Derive(f.seed, parser.MustParse("List ?a"))
	require.NoError(t, err)
	assert.Equal(t, "List Nat", d.Relation.Left.String())
	assert.Equal(t, "List Fin5", d.Relation.Right.String())
}

func TestDerive_SymmSeed(t *testing.T) {
	f := newFixture()
	d, err := f.engine(Options{}).Derive(f.seed.Symm(), parser.MustParse("Option Fin5"))
	require.NoError(t, err)
	assert.Equal(t, "Option Nat", d.Relation.Right.String())
	assert.Equal(t, "Equiv.mapCongr Option.map (Equiv.symm natFin5)", d.Relation.Term.String())

	got := f.reducer.Normalize(d.Relation.Apply(parser.MustParse("some (Fin.mk 2)")))
	assert.Equal(t, "some 2", got.String())
}

func TestDerive_Deterministic(t *testing.T) {
	f := newFixture()
	e := f.engine(Options{})
	pattern := parser.MustParse("Prod (List Nat) (Nat -> Bool)")

	first, err := e.Derive(f.seed, pattern)
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		again, err := e.Derive(f.seed, pattern)
		require.NoError(t, err)
		assert.Equal(t, first.Relation.String(), again.Relation.String())
		assert.Equal(t, first.Root.String(), again.Root.String())
	}
}

func TestDerive_DisabledRules(t *testing.T) {
	f := newFixture()
	require.NoError(t, f.registry.Disable("functor"))
	_, err := f.engine(Options{}).Derive(f.seed, parser.MustParse("List Nat"))
	assert.True(t, errors.Is(err, equiv.ErrVacuousDerivation), "got %v", err)

	require.NoError(t, f.registry.Disable(congr.ReflName))
	_, err = f.engine(Options{}).Derive(f.seed, parser.MustParse("Bool"))
	assert.True(t, errors.Is(err, equiv.ErrNoRuleApplies), "got %v", err)
}

func TestDerive_Transparency(t *testing.T) {
	f := newFixture()
	sig := term.NewChildSignature(f.sig)
	sig.Declare(term.Decl{Name: "MyNat", Type: term.Sort{Kind: term.SortType}, Value: term.C("Nat")})
	red := term.NewReducer(sig)
	pattern := parser.MustParse("List MyNat")

	_, err := NewEngine(f.registry, red, Options{}).Derive(f.seed, pattern)
	assert.True(t, errors.Is(err, equiv.ErrVacuousDerivation), "got %v", err)

	d, err := NewEngine(f.registry, red, Options{Transparency: term.TransparencyFull}).Derive(f.seed, pattern)
	require.NoError(t, err)
	assert.Equal(t, "List MyNat", d.Relation.Left.String())
	assert.Equal(t, "List Fin5", d.Relation.Right.String())
}

func TestDerive_Tracer(t *testing.T) {
	f := newFixture()
	rec := &Recorder{}
	_, err := f.engine(Options{Tracer: rec}).Derive(f.seed, parser.MustParse("List Nat"))
	require.NoError(t, err)

	assert.Equal(t, []string{"functor", SeedName}, rec.Candidates(EventAttempt))
	assert.Equal(t, []string{SeedName, "functor"}, rec.Candidates(EventClose))
	assert.Empty(t, rec.Candidates(EventReject))

	rec = &Recorder{}
	_, err = f.engine(Options{Tracer: rec}).Derive(f.seed, term.C("Bool"))
	require.Error(t, err)
	assert.Equal(t, []string{"refl"}, rec.Candidates(EventReject))
}

func TestDerive_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	f := newFixture()
	_, err := f.engine(Options{Logger: zap.New(core)}).Derive(f.seed, parser.MustParse("Option Nat"))
	require.NoError(t, err)

	assert.Equal(t, 1, logs.FilterMessage("derive").Len())
	assert.Equal(t, 1, logs.FilterMessage("derived").Len())
	assert.NotZero(t, logs.FilterMessage("search").Len())

	derived := logs.FilterMessage("derived").All()[0]
	assert.Equal(t, "Equiv.mapCongr Option.map natFin5 : Option Nat ≃ Option Fin5", derived.ContextMap()["relation"])
}

func TestDerive_TracingDoesNotChangeResult(t *testing.T) {
	f := newFixture()
	pattern := parser.MustParse("forall (n : Nat), P n")

	plain, err := f.engine(Options{}).Derive(f.seed, pattern)
	require.NoError(t, err)

	core, _ := observer.New(zapcore.DebugLevel)
	traced, err := f.engine(Options{Logger: zap.New(core), Tracer: &Recorder{}}).Derive(f.seed, pattern)
	require.NoError(t, err)
	assert.Equal(t, plain.Root.String(), traced.Root.String())
}

func TestNode_String(t *testing.T) {
	f := newFixture()
	d, err := f.engine(Options{}).Derive(f.seed, parser.MustParse("forall (n : Nat), P n"))
	require.NoError(t, err)

	want := "forallCongr: forall (n : Nat), P n ≃ forall (n : Fin5), P (Equiv.invFun natFin5 n)\n" +
		"  seed: Nat ≃ Fin5\n" +
		"  refl: (n : Fin5) P (Equiv.invFun natFin5 n) ≃ P (Equiv.invFun natFin5 n)"
	assert.Equal(t, want, d.Root.String())
}
