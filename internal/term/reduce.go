package term

import "fmt"

// Transparency is how aggressively terms are unfolded before two of them
// are compared.
type Transparency int

const (
	// TransparencyNone compares terms syntactically, up to bound names.
	TransparencyNone Transparency = iota
	// TransparencyFull compares full normal forms.
	TransparencyFull
)

func (t Transparency) String() string {
	switch t {
	case TransparencyNone:
		return "none"
	case TransparencyFull:
		return "full"
	default:
		return "?"
	}
}

// ParseTransparency parses "none" or "full". The empty string is "none".
func ParseTransparency(s string) (Transparency, error) {
	switch s {
	case "", "none":
		return TransparencyNone, nil
	case "full":
		return TransparencyFull, nil
	default:
		return TransparencyNone, fmt.Errorf("unknown transparency %q", s)
	}
}

// maxFuel bounds the reduction steps of one top-level call.
const maxFuel = 200000

// Reducer evaluates terms against a signature: beta reduction, unfolding
// of defined constants and builtin reductions.
type Reducer struct {
	sig   *Signature
	fuel  int
	depth int
}

// NewReducer creates a reducer over sig.
func NewReducer(sig *Signature) *Reducer {
	return &Reducer{sig: sig}
}

// Signature returns the signature the reducer unfolds against.
func (r *Reducer) Signature() *Signature {
	return r.sig
}

func (r *Reducer) enter() func() {
	if r.depth == 0 {
		r.fuel = maxFuel
	}
	r.depth++
	return func() { r.depth-- }
}

// Whnf reduces t until its head can not be reduced further.
func (r *Reducer) Whnf(t Term) Term {
	defer r.enter()()
	return r.whnf(t)
}

func (r *Reducer) whnf(t Term) Term {
	for r.fuel > 0 {
		r.fuel--
		head, args := Spine(t)
		switch h := head.(type) {
		case Binding:
			if h.Kind != KindLam || len(args) == 0 {
				return t
			}
			t = Apps(Instantiate(h, args[0]), args[1:]...)
		case Const:
			d, ok := r.sig.Lookup(h.Name)
			if !ok {
				return t
			}
			if d.Builtin != nil && len(args) >= d.Builtin.Arity {
				res, ok := d.Builtin.Reduce(r, args[:d.Builtin.Arity])
				if ok {
					t = Apps(res, args[d.Builtin.Arity:]...)
					continue
				}
			}
			if d.Value == nil {
				return t
			}
			t = Apps(d.Value, args...)
		default:
			return t
		}
	}
	return t
}

// Normalize reduces t everywhere, including under binders.
func (r *Reducer) Normalize(t Term) Term {
	defer r.enter()()
	return r.normalize(t)
}

func (r *Reducer) normalize(t Term) Term {
	if t == nil {
		return nil
	}
	t = r.whnf(t)
	switch t := t.(type) {
	case App:
		head, args := Spine(t)
		if b, ok := head.(Binding); ok {
			head = r.normalize(b)
		}
		for i, arg := range args {
			args[i] = r.normalize(arg)
		}
		return Apps(head, args...)
	case Binding:
		t.Type = r.normalize(t.Type)
		t.Body = r.normalize(t.Body)
		return t
	default:
		return t
	}
}

// Convertible reports whether a and b are equal at the given transparency.
func (r *Reducer) Convertible(a, b Term, tr Transparency) bool {
	if Equal(a, b) {
		return true
	}
	if tr == TransparencyNone {
		return false
	}
	return Equal(r.Normalize(a), r.Normalize(b))
}
