package services

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Devarsh-42/InsureBuddy/internal/models"
)

const (
	incomeMultiplier   = 10
	perDependentCover  = 2_000_000
	baseFamilyCover    = 3_000_000
	preExistingLoading = 1.2
	premiumBaseRate    = 0.2
	premiumDivisor     = 12000
	ageRateDivisor     = 100
)

// ComputeCoverage derives the recommended sum assured and the monthly
// premium estimate. Every input is accepted; out-of-range values simply
// flow through the arithmetic.
func ComputeCoverage(p models.ProfileInput) models.CoverageResult {
	recommended := max(p.AnnualIncome*incomeMultiplier, p.Dependents*perDependentCover+baseFamilyCover)

	adjusted := recommended
	if p.PreExistingConditions {
		adjusted = roundHalfUp(float64(recommended) * preExistingLoading)
	}

	final := adjusted
	if p.HasExistingCoverage {
		final = max(0, adjusted-p.ExistingCoverageAmount)
	}

	rate := premiumBaseRate + float64(p.Age)/ageRateDivisor
	premium := roundHalfUp(float64(final) * rate / premiumDivisor)

	return models.CoverageResult{
		RecommendedCoverage: recommended,
		AdjustedCoverage:    adjusted,
		FinalCoverage:       final,
		MonthlyPremium:      premium,
	}
}

// roundHalfUp rounds .5 toward positive infinity, so -2.5 becomes -2.
func roundHalfUp(x float64) int {
	return int(math.Floor(x + 0.5))
}

// ExplainCoverage builds the text for the "standard" and "explain like I'm
// 5" result tabs.
func ExplainCoverage(p models.ProfileInput, r models.CoverageResult) models.CoverageExplanation {
	standard := []string{
		"Your recommended coverage is based on several factors:",
		"Income Replacement: 10x your annual income (" + FormatRupees(p.AnnualIncome*incomeMultiplier) + ")",
		"Family Protection: " + FormatRupees(perDependentCover) + " per dependent",
	}
	if p.PreExistingConditions {
		standard = append(standard, "Additional 20% buffer for pre-existing conditions")
	}
	if p.HasExistingCoverage {
		standard = append(standard, "Adjusted for your existing coverage ("+FormatRupees(p.ExistingCoverageAmount)+")")
	}

	eli5 := []string{
		"Think of insurance like a big piggy bank that someone else fills up for your family if something happens to you.",
		"We recommend a piggy bank of " + FormatRupees(r.FinalCoverage) + " because:",
		"Your family would need money to replace your income",
		"Each person who depends on you needs extra protection",
	}
	if p.PreExistingConditions {
		eli5 = append(eli5, "Your health conditions might mean more medical expenses")
	}
	eli5 = append(eli5, "To keep this piggy bank ready, you'd put in about "+FormatRupees(r.MonthlyPremium)+" each month.")

	return models.CoverageExplanation{Standard: standard, ELI5: eli5}
}

// FormatRupees renders an amount with thousands separators, e.g. ₹10,000,000.
func FormatRupees(amount int) string {
	// message.Printer keeps per-call state, so one per call.
	return message.NewPrinter(language.English).Sprintf("₹%d", amount)
}
