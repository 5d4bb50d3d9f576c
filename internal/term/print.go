package term

import (
	"strconv"
	"strings"
)

// precedence levels used by the printer, lowest first
const (
	precBinder = iota
	precEq
	precArrow
	precApp
	precAtom
)

func (s Sort) String() string {
	if s.Kind == SortProp {
		return "Prop"
	}
	return "Type"
}

func (c Const) String() string { return c.Name }

func (v Var) String() string { return v.Name }

func (m Meta) String() string { return "?" + m.Name }

func (l Lit) String() string { return strconv.FormatInt(l.Val, 10) }

func (a App) String() string { return format(a, precBinder) }

func (b Binding) String() string { return format(b, precBinder) }

func format(t Term, prec int) string {
	switch t := t.(type) {
	case App:
		return formatApp(t, prec)
	case Binding:
		return formatBinding(t, prec)
	case nil:
		return "<nil>"
	default:
		return t.String()
	}
}

func paren(s string, wrap bool) string {
	if wrap {
		return "(" + s + ")"
	}
	return s
}

func formatApp(a App, prec int) string {
	if elems, ok := listElems(a); ok {
		parts := make([]string, len(elems))
		for i, e := range elems {
			parts[i] = format(e, precBinder)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}

	if args, ok := IsApp(a, EqName, 2); ok {
		s := format(args[0], precArrow) + " = " + format(args[1], precArrow)
		return paren(s, prec > precEq)
	}

	head, args := Spine(a)
	var sb strings.Builder
	sb.WriteString(format(head, precAtom))
	for _, arg := range args {
		sb.WriteByte(' ')
		sb.WriteString(format(arg, precAtom))
	}
	return paren(sb.String(), prec > precApp)
}

func formatBinding(b Binding, prec int) string {
	if IsArrow(b) {
		s := format(b.Type, precApp) + " -> " + format(b.Body, precArrow)
		return paren(s, prec > precArrow)
	}

	var s string
	switch b.Kind {
	case KindSubtype:
		return "{" + b.Name + " : " + format(b.Type, precBinder) + " // " + format(b.Body, precBinder) + "}"
	case KindLam:
		if b.Type == nil {
			s = "fun " + b.Name + " => " + format(b.Body, precBinder)
		} else {
			s = "fun (" + b.Name + " : " + format(b.Type, precBinder) + ") => " + format(b.Body, precBinder)
		}
	default:
		s = b.Kind.String() + " (" + b.Name + " : " + format(b.Type, precBinder) + "), " + format(b.Body, precBinder)
	}
	return paren(s, prec > precBinder)
}

// listElems recognizes a List.cons chain that ends in List.nil.
func listElems(t Term) ([]Term, bool) {
	var elems []Term
	for {
		if c, ok := t.(Const); ok && c.Name == ListNil {
			return elems, true
		}
		args, ok := IsApp(t, ListCons, 2)
		if !ok {
			return nil, false
		}
		elems = append(elems, args[0])
		t = args[1]
	}
}
