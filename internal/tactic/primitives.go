package tactic

import (
	"fmt"

	"github.com/gnoswap-labs/equivrw/internal/term"
)

// The primitives below act on the main goal. Each one replaces it by a
// single new goal and closes the old one with a proof built around the
// new goal's metavariable. A primitive that fails leaves the state as it
// was.

const eqMpr = "Eq.mpr"

// have adds name : ty, proved by proof, at the end of the context.
func have(s *State, name string, ty, proof term.Term) error {
	g, err := s.MainGoal()
	if err != nil {
		return err
	}
	if _, _, ok := g.Context.Lookup(name); ok {
		return fmt.Errorf("hypothesis %s already exists", name)
	}
	ctx := append(g.Context.Clone(), Hyp{Name: name, Type: ty})
	_, err = s.replaceMain(ctx, g.Target, func(next term.Term) term.Term {
		return term.App{Fn: term.Lam(name, ty, next), Arg: proof}
	})
	return err
}

// dependents closes seeds under dependency: it returns, in context order,
// the hypotheses from position from on that are seeds or mention one of
// the hypotheses returned before them.
func dependents(ctx Context, from int, seeds map[string]bool) []string {
	picked := make(map[string]bool)
	var out []string
	for _, h := range ctx[from:] {
		if seeds[h.Name] || mentionsAny(h, picked) {
			picked[h.Name] = true
			out = append(out, h.Name)
		}
	}
	return out
}

func mentionsAny(h Hyp, names map[string]bool) bool {
	if len(names) == 0 {
		return false
	}
	return term.OccursAny(names, h.Type) || (h.Value != nil && term.OccursAny(names, h.Value))
}

// revert moves the named hypotheses into the target as Pi binders. No
// remaining hypothesis may mention them.
func revert(s *State, names []string) error {
	g, err := s.MainGoal()
	if err != nil {
		return err
	}
	set := make(map[string]bool, len(names))
	for _, name := range names {
		h, _, ok := g.Context.Lookup(name)
		if !ok {
			return fmt.Errorf("unknown hypothesis %s", name)
		}
		if h.Value != nil {
			return fmt.Errorf("cannot revert let-bound %s", name)
		}
		set[name] = true
	}

	var ctx Context
	var order []term.Term
	for _, h := range g.Context {
		switch {
		case set[h.Name]:
			order = append(order, term.V(h.Name))
		case mentionsAny(h, set):
			return fmt.Errorf("%s depends on a reverted hypothesis", h.Name)
		default:
			ctx = append(ctx, h)
		}
	}

	target := g.Target
	for i := len(g.Context) - 1; i >= 0; i-- {
		if h := g.Context[i]; set[h.Name] {
			target = term.Pi(h.Name, h.Type, target)
		}
	}
	_, err = s.replaceMain(ctx, target, func(next term.Term) term.Term {
		return term.Apps(next, order...)
	})
	return err
}

// generalize abstracts the occurrences m finds in the target into a new
// binder name : ty, closing the old goal by applying the new one to
// value. It returns the number of occurrences.
func generalize(s *State, m *term.Matcher, name string, ty, value term.Term) (int, error) {
	g, err := s.MainGoal()
	if err != nil {
		return 0, err
	}
	body, n := m.Abstract(g.Target, name)
	if n == 0 {
		return 0, fmt.Errorf("%s does not occur in %s", value, g.Target)
	}
	_, err = s.replaceMain(g.Context.Clone(), term.Pi(name, ty, body), func(next term.Term) term.Term {
		return term.App{Fn: next, Arg: value}
	})
	return n, err
}

// rename gives the hypothesis from the name to, in the context and the
// target.
func rename(s *State, from, to string) error {
	g, err := s.MainGoal()
	if err != nil {
		return err
	}
	h, i, ok := g.Context.Lookup(from)
	if !ok {
		return fmt.Errorf("unknown hypothesis %s", from)
	}
	if g.taken()[to] {
		return fmt.Errorf("name %s is taken", to)
	}

	ctx := g.Context.Clone()
	ctx[i].Name = to
	for j := i + 1; j < len(ctx); j++ {
		ctx[j] = ctx[j].mapTerms(func(t term.Term) term.Term { return term.Rename(t, from, to) })
	}
	target := term.Rename(g.Target, from, to)
	_, err = s.replaceMain(ctx, target, func(next term.Term) term.Term {
		return term.App{Fn: term.Lam(to, h.Type, next), Arg: term.V(from)}
	})
	return err
}

// intro turns the leading binder of the target into the hypothesis name.
func intro(s *State, name string) error {
	g, err := s.MainGoal()
	if err != nil {
		return err
	}
	b, ok := g.Target.(term.Binding)
	if !ok || (b.Kind != term.KindPi && b.Kind != term.KindForall) {
		return fmt.Errorf("nothing to introduce in %s", g.Target)
	}
	if g.taken()[name] {
		return fmt.Errorf("name %s is taken", name)
	}
	ctx := append(g.Context.Clone(), Hyp{Name: name, Type: b.Type})
	_, err = s.replaceMain(ctx, term.Rename(b.Body, b.Name, name), func(next term.Term) term.Term {
		return term.Lam(name, b.Type, next)
	})
	return err
}

// frozenError reports frozen hypotheses that would have to move.
type frozenError struct {
	names []string
}

func (e *frozenError) Error() string {
	return fmt.Sprintf("frozen hypotheses %v would have to move", e.names)
}

// subst eliminates the equation eq : v = e, where v is a hypothesis not
// occurring in e: v is replaced by e everywhere, then v and eq are
// removed. Hypotheses that come to mention later ones are moved after
// them. Frozen hypotheses are only moved when relaxed is set. It returns
// the names of the moved hypotheses.
func subst(s *State, eq string, relaxed bool) ([]string, error) {
	g, err := s.MainGoal()
	if err != nil {
		return nil, err
	}
	h, _, ok := g.Context.Lookup(eq)
	if !ok {
		return nil, fmt.Errorf("unknown hypothesis %s", eq)
	}
	sides, ok := term.IsApp(h.Type, term.EqName, 2)
	if !ok {
		return nil, fmt.Errorf("%s is not an equation", eq)
	}
	v, ok := sides[0].(term.Var)
	if !ok {
		return nil, fmt.Errorf("left side of %s is not a variable", eq)
	}
	vh, _, ok := g.Context.Lookup(v.Name)
	if !ok {
		return nil, fmt.Errorf("unknown hypothesis %s", v.Name)
	}
	if vh.Value != nil {
		return nil, fmt.Errorf("cannot substitute let-bound %s", v.Name)
	}
	repl := sides[1]
	if term.Occurs(v.Name, repl) {
		return nil, fmt.Errorf("%s occurs in %s", v.Name, repl)
	}

	var rest Context
	for _, hyp := range g.Context {
		if hyp.Name == v.Name || hyp.Name == eq {
			continue
		}
		rest = append(rest, hyp.mapTerms(func(t term.Term) term.Term { return term.Subst(t, v.Name, repl) }))
	}
	ctx, moved, err := reorder(rest)
	if err != nil {
		return nil, err
	}
	if !relaxed {
		var frozen []string
		for _, name := range moved {
			if hyp, _, _ := ctx.Lookup(name); hyp.Frozen {
				frozen = append(frozen, name)
			}
		}
		if len(frozen) > 0 {
			return nil, &frozenError{names: frozen}
		}
	}

	target := term.Subst(g.Target, v.Name, repl)
	_, err = s.replaceMain(ctx, target, func(next term.Term) term.Term {
		return term.Apps(term.C(eqMpr), term.V(eq), next)
	})
	return moved, err
}

// reorder sorts ctx stably so that every hypothesis comes after the
// hypotheses it mentions. It returns the names of the hypotheses that had
// to move.
func reorder(ctx Context) (Context, []string, error) {
	known := make(map[string]bool, len(ctx))
	for _, h := range ctx {
		known[h.Name] = true
	}
	placed := make(map[string]bool, len(ctx))
	ready := func(h Hyp) bool {
		for v := range freeVars(h) {
			if known[v] && !placed[v] && v != h.Name {
				return false
			}
		}
		return true
	}

	out := make(Context, 0, len(ctx))
	var pending Context
	var moved []string
	for _, h := range ctx {
		if !ready(h) {
			pending = append(pending, h)
			moved = append(moved, h.Name)
			continue
		}
		out = append(out, h)
		placed[h.Name] = true
		for progress := true; progress; {
			progress = false
			for i, p := range pending {
				if ready(p) {
					out = append(out, p)
					placed[p.Name] = true
					pending = append(pending[:i:i], pending[i+1:]...)
					progress = true
					break
				}
			}
		}
	}
	if len(pending) > 0 {
		return nil, nil, fmt.Errorf("cannot order hypotheses %v", Context(pending).Names())
	}
	return out, moved, nil
}

func freeVars(h Hyp) map[string]bool {
	fv := term.FreeVars(h.Type)
	if h.Value != nil {
		for v := range term.FreeVars(h.Value) {
			fv[v] = true
		}
	}
	return fv
}
