package services

import (
	"strings"

	"github.com/Devarsh-42/InsureBuddy/internal/models"
)

const (
	MinAge        = 18
	MaxAge        = 80
	MaxDependents = 4

	MinAnnualIncome = 300_000
	MaxAnnualIncome = 5_000_000
)

// DefaultProfileForm is the analyzer form as first shown.
func DefaultProfileForm() models.ProfileForm {
	return models.ProfileForm{
		Age:              "30",
		Dependents:       "0",
		AnnualIncome:     1_000_000,
		ExistingCoverage: "no",
	}
}

// parseLeadingInt reads an optional sign and the leading digits of raw,
// ignoring leading whitespace and anything after the digits. ok is false
// when no digit is found.
func parseLeadingInt(raw string) (n int, ok bool) {
	s := strings.TrimLeft(raw, " \t\n\r\v\f")
	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		n = n*10 + int(s[i]-'0')
		i++
	}
	if i == 0 {
		return 0, false
	}
	if neg {
		n = -n
	}
	return n, true
}

// ParseIntField coerces a numeric text box. Anything that does not start
// with a number becomes 0.
func ParseIntField(raw string) int {
	n, _ := parseLeadingInt(raw)
	return n
}

// AcceptAge reports whether an edit to the age box should be kept: the
// box may be cleared, otherwise the value must be within [MinAge, MaxAge].
func AcceptAge(raw string) bool {
	if raw == "" {
		return true
	}
	n, ok := parseLeadingInt(raw)
	return ok && n >= MinAge && n <= MaxAge
}

// NormalizeDependents maps the selector value to a count, "4" meaning 4+.
func NormalizeDependents(raw string) int {
	n := ParseIntField(raw)
	switch {
	case n < 0:
		return 0
	case n > MaxDependents:
		return MaxDependents
	}
	return n
}

// ApplyProfilePatch applies a form update with the same rules the inputs
// enforce. A rejected age edit keeps the previous age.
func ApplyProfilePatch(form models.ProfileForm, patch models.ProfileFormPatch) models.ProfileForm {
	if patch.Age != nil && AcceptAge(*patch.Age) {
		form.Age = *patch.Age
	}
	if patch.Dependents != nil {
		form.Dependents = *patch.Dependents
	}
	if patch.AnnualIncome != nil {
		form.AnnualIncome = ParseIntField(*patch.AnnualIncome)
	}
	if patch.PreExistingConditions != nil {
		form.PreExistingConditions = *patch.PreExistingConditions
	}
	if patch.ExistingCoverage != nil {
		form.ExistingCoverage = *patch.ExistingCoverage
	}
	if patch.ExistingInsurance != nil {
		form.ExistingInsurance = ParseIntField(*patch.ExistingInsurance)
	}
	return form
}

// ProfileFromForm converts the form into calculator input. A cleared age
// counts as 0.
func ProfileFromForm(form models.ProfileForm) models.ProfileInput {
	return models.ProfileInput{
		Age:                    ParseIntField(form.Age),
		Dependents:             NormalizeDependents(form.Dependents),
		AnnualIncome:           form.AnnualIncome,
		PreExistingConditions:  form.PreExistingConditions,
		HasExistingCoverage:    form.ExistingCoverage == "yes",
		ExistingCoverageAmount: form.ExistingInsurance,
	}
}
