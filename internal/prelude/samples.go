package prelude

import (
	"github.com/gnoswap-labs/equivrw/internal/term"
)

// Samples returns a few closed values of ty, or nil when ty is not built
// from the prelude types. Nat samples stay below 5 so that they survive
// a round trip through natFin5.
func Samples(ty term.Term) []term.Term {
	return samples(ty, 2)
}

func samples(ty term.Term, depth int) []term.Term {
	head, args, ok := term.HeadConst(ty)
	if !ok {
		return nil
	}
	switch {
	case head == "Nat" && len(args) == 0:
		return []term.Term{term.N(0), term.N(1), term.N(3)}
	case head == "Bool" && len(args) == 0:
		return []term.Term{term.C("true"), term.C("false")}
	case head == "Unit" && len(args) == 0:
		return []term.Term{term.C("unit")}
	case head == "Fin5" && len(args) == 0:
		return []term.Term{term.Apps(term.C("Fin.mk"), term.N(0)), term.Apps(term.C("Fin.mk"), term.N(4))}
	case depth == 0:
		return nil
	case head == "List" && len(args) == 1:
		elems := samples(args[0], depth-1)
		if elems == nil {
			return nil
		}
		out := []term.Term{term.List()}
		out = append(out, term.List(elems[0]))
		out = append(out, term.List(elems...))
		return out
	case head == "Option" && len(args) == 1:
		elems := samples(args[0], depth-1)
		if elems == nil {
			return nil
		}
		out := []term.Term{term.C("none")}
		for _, e := range elems {
			out = append(out, term.Apps(term.C("some"), e))
		}
		return out
	case head == "Prod" && len(args) == 2:
		as, bs := samples(args[0], depth-1), samples(args[1], depth-1)
		if as == nil || bs == nil {
			return nil
		}
		var out []term.Term
		for _, a := range as {
			for _, b := range bs {
				out = append(out, term.Apps(term.C("Prod.mk"), a, b))
			}
		}
		return out
	case head == "Sum" && len(args) == 2:
		as, bs := samples(args[0], depth-1), samples(args[1], depth-1)
		if as == nil || bs == nil {
			return nil
		}
		var out []term.Term
		for _, a := range as {
			out = append(out, term.Apps(term.C("Sum.inl"), a))
		}
		for _, b := range bs {
			out = append(out, term.Apps(term.C("Sum.inr"), b))
		}
		return out
	default:
		return nil
	}
}
