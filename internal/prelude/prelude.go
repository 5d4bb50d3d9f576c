// Package prelude declares the standard signature: base types and
// containers, their functions as Go builtins, the Equiv combinators and a
// few sample equivalences.
package prelude

import (
	"github.com/gnoswap-labs/equivrw/internal/congr"
	"github.com/gnoswap-labs/equivrw/internal/equiv"
	"github.com/gnoswap-labs/equivrw/internal/parser"
	"github.com/gnoswap-labs/equivrw/internal/term"
)

// Names of the sample equivalences.
const (
	NatFin5     = "natFin5"
	BoolNot     = "boolNot"
	BoolOptUnit = "boolOptUnit"
)

var typ = term.Sort{Kind: term.SortType}

// New returns a fresh signature with the prelude and the combinators of
// registry.
func New(registry *congr.Registry) *term.Signature {
	sig := term.NewSignature()
	equiv.Declare(sig)
	registry.Install(sig)
	declareTypes(sig)
	declareBuiltins(sig)
	declareSeeds(sig)
	return sig
}

func declareTypes(sig *term.Signature) {
	for _, name := range []string{"Nat", "Bool", "Unit", "Fin5"} {
		sig.Declare(term.Decl{Name: name, Type: typ})
	}
	for _, name := range []string{"List", "Option"} {
		sig.Declare(term.Decl{Name: name, Type: term.Arrow(typ, typ)})
	}
	for _, name := range []string{"Prod", "Sum"} {
		sig.Declare(term.Decl{Name: name, Type: term.Arrow(typ, term.Arrow(typ, typ))})
	}
	sig.Declare(term.Decl{Name: term.EqName})

	constructors := map[string]string{
		"true":  "Bool",
		"false": "Bool",
		"unit":  "Unit",
	}
	for name, ty := range constructors {
		sig.Declare(term.Decl{Name: name, Type: term.C(ty)})
	}
	sig.Declare(term.Decl{Name: "Fin.mk", Type: term.Arrow(term.C("Nat"), term.C("Fin5"))})
	for _, name := range []string{
		term.ListNil, term.ListCons, "none", "some", "Prod.mk", "Sum.inl", "Sum.inr",
		"Subtype.mk", "Sigma.mk", "Eq.refl", term.EquivMk,
	} {
		sig.Declare(term.Decl{Name: name})
	}
}

func declareSeeds(sig *term.Signature) {
	seeds := []struct {
		name  string
		ty    string
		value string
	}{
		{
			name:  NatFin5,
			ty:    "Equiv Nat Fin5",
			value: "Equiv.mk (fun (n : Nat) => Fin.mk (Nat.mod n 5)) (fun (i : Fin5) => Fin.val i) natFin5.left_inv natFin5.right_inv",
		},
		{
			name:  BoolNot,
			ty:    "Equiv Bool Bool",
			value: "Equiv.mk Bool.not Bool.not Bool.not_not Bool.not_not",
		},
		{
			name:  BoolOptUnit,
			ty:    "Equiv Bool (Option Unit)",
			value: "Equiv.mk Bool.toOption Option.isSome boolOptUnit.left_inv boolOptUnit.right_inv",
		},
	}
	for _, s := range seeds {
		sig.Declare(term.Decl{
			Name:  s.name,
			Type:  parser.MustParse(s.ty),
			Value: parser.MustParse(s.value),
		})
	}
}
