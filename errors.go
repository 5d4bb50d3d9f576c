package equivrw

import "github.com/gnoswap-labs/equivrw/internal/equiv"

// Kind classifies the failures of a rewrite.
type Kind = equiv.Kind

const (
	NotAnEquivalence    = equiv.NotAnEquivalence
	NoRuleApplies       = equiv.NoRuleApplies
	StepBoundExceeded   = equiv.StepBoundExceeded
	VacuousDerivation   = equiv.VacuousDerivation
	GeneralizeFailure   = equiv.GeneralizeFailure
	SubstitutionFailure = equiv.SubstitutionFailure
)

// Sentinels for errors.Is.
var (
	ErrNotAnEquivalence    = equiv.ErrNotAnEquivalence
	ErrNoRuleApplies       = equiv.ErrNoRuleApplies
	ErrStepBoundExceeded   = equiv.ErrStepBoundExceeded
	ErrVacuousDerivation   = equiv.ErrVacuousDerivation
	ErrGeneralizeFailure   = equiv.ErrGeneralizeFailure
	ErrSubstitutionFailure = equiv.ErrSubstitutionFailure
)

// KindOf returns the kind of err, or 0 when err did not come from a
// rewrite.
func KindOf(err error) Kind {
	return equiv.KindOf(err)
}
