package equiv

import (
	"errors"
	"fmt"
)

// Kind classifies why a search or rewrite failed.
type Kind int

const (
	_ Kind = iota
	// NotAnEquivalence means the seed term is not Relation-kind.
	NotAnEquivalence
	// NoRuleApplies means an obligation matched no candidate.
	NoRuleApplies
	// StepBoundExceeded means the search ran out of rule applications.
	StepBoundExceeded
	// VacuousDerivation means a closed derivation never used the seed.
	VacuousDerivation
	// GeneralizeFailure means the target term could not be abstracted.
	GeneralizeFailure
	// SubstitutionFailure means the auxiliary equation could not be
	// eliminated, even after relaxing frozen hypotheses once.
	SubstitutionFailure
)

func (k Kind) String() string {
	switch k {
	case NotAnEquivalence:
		return "not an equivalence"
	case NoRuleApplies:
		return "no rule applies"
	case StepBoundExceeded:
		return "step bound exceeded"
	case VacuousDerivation:
		return "vacuous derivation"
	case GeneralizeFailure:
		return "generalize failed"
	case SubstitutionFailure:
		return "substitution failed"
	default:
		return "unknown"
	}
}

// Error is the single error type surfaced by the search and the rewriters.
type Error struct {
	Kind   Kind
	Reason string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below work
// with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Reason == "" && t.Err == nil
}

// Errorf creates an *Error of the given kind.
func Errorf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Reason: fmt.Sprintf(format, args...)}
}

// Sentinels for errors.Is.
var (
	ErrNotAnEquivalence    = &Error{Kind: NotAnEquivalence}
	ErrNoRuleApplies       = &Error{Kind: NoRuleApplies}
	ErrStepBoundExceeded   = &Error{Kind: StepBoundExceeded}
	ErrVacuousDerivation   = &Error{Kind: VacuousDerivation}
	ErrGeneralizeFailure   = &Error{Kind: GeneralizeFailure}
	ErrSubstitutionFailure = &Error{Kind: SubstitutionFailure}
)

// KindOf returns the kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
