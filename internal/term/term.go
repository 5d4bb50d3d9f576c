package term

// Term is a node of the term language. Types, values and proofs share one AST.
type Term interface {
	isTerm()
	String() string
}

// SortKind distinguishes propositions from data types.
type SortKind int

const (
	// SortProp is the sort of propositions.
	SortProp SortKind = iota
	// SortType is the sort of data types.
	SortType
)

// Sort is a universe: Prop or Type.
type Sort struct {
	Kind SortKind
}

func (Sort) isTerm() {}

// Const refers to a declaration of the signature.
type Const struct {
	Name string
}

func (Const) isTerm() {}

// Var refers to a hypothesis of the context or to an enclosing binder.
type Var struct {
	Name string
}

func (Var) isTerm() {}

// Meta is an open position (a hole) written ?name.
type Meta struct {
	Name string
}

func (Meta) isTerm() {}

// Lit is a natural number literal.
type Lit struct {
	Val int64
}

func (Lit) isTerm() {}

// App applies Fn to a single argument. Multi-argument applications are
// left nested spines.
type App struct {
	Fn  Term
	Arg Term
}

func (App) isTerm() {}

// BinderKind tells what a Binding binds.
type BinderKind int

const (
	// KindLam is a lambda abstraction: fun (x : A) => b.
	KindLam BinderKind = iota
	// KindPi is a dependent function type: Pi (x : A), B. When x does not
	// occur in B it is printed as A -> B.
	KindPi
	// KindForall is a universally quantified proposition.
	KindForall
	// KindSigma is a dependent pair type.
	KindSigma
	// KindSubtype is {x : A // P}.
	KindSubtype
)

func (k BinderKind) String() string {
	switch k {
	case KindLam:
		return "fun"
	case KindPi:
		return "Pi"
	case KindForall:
		return "forall"
	case KindSigma:
		return "Sigma"
	case KindSubtype:
		return "subtype"
	default:
		return "?"
	}
}

// Binding is every node that binds one variable.
// Type may be nil for lambdas written without an annotation.
type Binding struct {
	Kind BinderKind
	Name string
	Type Term
	Body Term
}

func (Binding) isTerm() {}

// Local is a variable in scope together with its type.
type Local struct {
	Name string
	Type Term
}

// Helper functions to construct terms

// C creates a constant reference.
func C(name string) Term {
	return Const{Name: name}
}

// V creates a variable reference.
func V(name string) Term {
	return Var{Name: name}
}

// Hole creates a metavariable.
func Hole(name string) Term {
	return Meta{Name: name}
}

// N creates a numeral.
func N(v int64) Term {
	return Lit{Val: v}
}

// Apps applies fn to args left to right.
func Apps(fn Term, args ...Term) Term {
	result := fn
	for _, arg := range args {
		result = App{Fn: result, Arg: arg}
	}
	return result
}

// Lam creates a lambda abstraction.
func Lam(name string, ty, body Term) Term {
	return Binding{Kind: KindLam, Name: name, Type: ty, Body: body}
}

// Pi creates a dependent function type.
func Pi(name string, ty, body Term) Term {
	return Binding{Kind: KindPi, Name: name, Type: ty, Body: body}
}

// Arrow creates the non-dependent function type a -> b.
func Arrow(a, b Term) Term {
	return Binding{Kind: KindPi, Name: FreshName("a", FreeVars(b)), Type: a, Body: b}
}

// Forall creates a universally quantified proposition.
func Forall(name string, ty, body Term) Term {
	return Binding{Kind: KindForall, Name: name, Type: ty, Body: body}
}

// Sigma creates a dependent pair type.
func Sigma(name string, ty, body Term) Term {
	return Binding{Kind: KindSigma, Name: name, Type: ty, Body: body}
}

// Subtype creates {name : ty // pred}.
func Subtype(name string, ty, pred Term) Term {
	return Binding{Kind: KindSubtype, Name: name, Type: ty, Body: pred}
}

// Eq creates the proposition l = r.
func Eq(l, r Term) Term {
	return Apps(Const{Name: EqName}, l, r)
}

// EquivType creates the type of equivalences between a and b.
func EquivType(a, b Term) Term {
	return Apps(Const{Name: EquivName}, a, b)
}

// List builds a list literal out of List.cons and List.nil.
func List(elems ...Term) Term {
	var result Term = Const{Name: ListNil}
	for i := len(elems) - 1; i >= 0; i-- {
		result = Apps(Const{Name: ListCons}, elems[i], result)
	}
	return result
}

// Names of the constants the core itself relies on.
const (
	EqName     = "Eq"
	EquivName  = "Equiv"
	EquivMk    = "Equiv.mk"
	EquivToFun = "Equiv.toFun"
	EquivInv   = "Equiv.invFun"
	EquivSymm  = "Equiv.symm"
	EquivTrans = "Equiv.trans"
	EquivRefl  = "Equiv.refl"
	LeftInv    = "Equiv.left_inv"
	RightInv   = "Equiv.right_inv"
	ListNil    = "List.nil"
	ListCons   = "List.cons"
)

// Spine splits an application into its head and arguments.
func Spine(t Term) (Term, []Term) {
	var args []Term
	for {
		app, ok := t.(App)
		if !ok {
			break
		}
		args = append(args, app.Arg)
		t = app.Fn
	}
	for i, j := 0, len(args)-1; i < j; i, j = i+1, j-1 {
		args[i], args[j] = args[j], args[i]
	}
	return t, args
}

// HeadConst reports the head constant of an application spine and its
// arguments. ok is false when the head is not a constant.
func HeadConst(t Term) (name string, args []Term, ok bool) {
	head, args := Spine(t)
	c, ok := head.(Const)
	if !ok {
		return "", nil, false
	}
	return c.Name, args, true
}

// IsApp reports whether t is the constant name applied to exactly n arguments.
func IsApp(t Term, name string, n int) ([]Term, bool) {
	head, args, ok := HeadConst(t)
	if !ok || head != name || len(args) != n {
		return nil, false
	}
	return args, true
}

// IsArrow reports whether a Pi binding is non-dependent.
func IsArrow(b Binding) bool {
	return b.Kind == KindPi && !Occurs(b.Name, b.Body)
}
