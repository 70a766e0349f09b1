package services

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/Devarsh-42/InsureBuddy/internal/models"
)

func TestComputeCoverage(t *testing.T) {
	tests := []struct {
		name    string
		profile models.ProfileInput
		want    models.CoverageResult
	}{
		{
			name:    "default form",
			profile: models.ProfileInput{Age: 30, AnnualIncome: 1_000_000},
			want: models.CoverageResult{
				RecommendedCoverage: 10_000_000,
				AdjustedCoverage:    10_000_000,
				FinalCoverage:       10_000_000,
				MonthlyPremium:      417,
			},
		},
		{
			name:    "dependents outweigh income",
			profile: models.ProfileInput{Age: 40, Dependents: 2, AnnualIncome: 500_000, PreExistingConditions: true},
			want: models.CoverageResult{
				RecommendedCoverage: 7_000_000,
				AdjustedCoverage:    8_400_000,
				FinalCoverage:       8_400_000,
				MonthlyPremium:      420,
			},
		},
		{
			name: "existing cover is subtracted",
			profile: models.ProfileInput{
				Age: 30, AnnualIncome: 1_000_000,
				HasExistingCoverage: true, ExistingCoverageAmount: 4_000_000,
			},
			want: models.CoverageResult{
				RecommendedCoverage: 10_000_000,
				AdjustedCoverage:    10_000_000,
				FinalCoverage:       6_000_000,
				MonthlyPremium:      250,
			},
		},
		{
			name: "existing cover above need clamps to zero",
			profile: models.ProfileInput{
				Age: 30, AnnualIncome: 1_000_000,
				HasExistingCoverage: true, ExistingCoverageAmount: 15_000_000,
			},
			want: models.CoverageResult{
				RecommendedCoverage: 10_000_000,
				AdjustedCoverage:    10_000_000,
				FinalCoverage:       0,
				MonthlyPremium:      0,
			},
		},
		{
			name: "amount ignored without existing cover",
			profile: models.ProfileInput{
				Age: 30, AnnualIncome: 1_000_000,
				ExistingCoverageAmount: 4_000_000,
			},
			want: models.CoverageResult{
				RecommendedCoverage: 10_000_000,
				AdjustedCoverage:    10_000_000,
				FinalCoverage:       10_000_000,
				MonthlyPremium:      417,
			},
		},
		{
			name:    "negative income falls back to family floor",
			profile: models.ProfileInput{Age: 0, AnnualIncome: -100},
			want: models.CoverageResult{
				RecommendedCoverage: 3_000_000,
				AdjustedCoverage:    3_000_000,
				FinalCoverage:       3_000_000,
				MonthlyPremium:      50,
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := ComputeCoverage(tc.profile)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("ComputeCoverage() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComputeCoverage_Properties(t *testing.T) {
	for age := MinAge; age <= MaxAge; age += 7 {
		for deps := 0; deps <= MaxDependents; deps++ {
			for _, income := range []int{MinAnnualIncome, 1_250_000, MaxAnnualIncome} {
				p := models.ProfileInput{Age: age, Dependents: deps, AnnualIncome: income}
				plain := ComputeCoverage(p)

				if plain.RecommendedCoverage < income*10 || plain.RecommendedCoverage < deps*2_000_000+3_000_000 {
					t.Fatalf("%+v: recommended %d below a floor", p, plain.RecommendedCoverage)
				}
				if plain.AdjustedCoverage != plain.RecommendedCoverage {
					t.Fatalf("%+v: adjusted changed without pre-existing conditions", p)
				}

				p.PreExistingConditions = true
				loaded := ComputeCoverage(p)
				if loaded.RecommendedCoverage != plain.RecommendedCoverage {
					t.Fatalf("%+v: pre-existing flag changed recommended coverage", p)
				}
				// Recommended is always a multiple of 10 so the loading is exact.
				if loaded.AdjustedCoverage*10 != plain.RecommendedCoverage*12 {
					t.Fatalf("%+v: adjusted %d is not 1.2x %d", p, loaded.AdjustedCoverage, plain.RecommendedCoverage)
				}

				p.HasExistingCoverage = true
				p.ExistingCoverageAmount = loaded.AdjustedCoverage + 1
				if got := ComputeCoverage(p); got.FinalCoverage != 0 || got.MonthlyPremium != 0 {
					t.Fatalf("%+v: expected zero final coverage, got %+v", p, got)
				}
			}
		}
	}
}

func TestRoundHalfUp(t *testing.T) {
	tests := map[float64]int{
		416.6: 417,
		2.5:   3,
		2.4:   2,
		-2.5:  -2,
		-2.6:  -3,
		0:     0,
	}
	for in, want := range tests {
		if got := roundHalfUp(in); got != want {
			t.Errorf("roundHalfUp(%v) = %d, want %d", in, got, want)
		}
	}
}

func TestFormatRupees(t *testing.T) {
	tests := map[int]string{
		0:          "₹0",
		417:        "₹417",
		2_000_000:  "₹2,000,000",
		10_000_000: "₹10,000,000",
	}
	for in, want := range tests {
		if got := FormatRupees(in); got != want {
			t.Errorf("FormatRupees(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestExplainCoverage(t *testing.T) {
	t.Run("default profile", func(t *testing.T) {
		p := models.ProfileInput{Age: 30, AnnualIncome: 1_000_000}
		got := ExplainCoverage(p, ComputeCoverage(p))

		want := models.CoverageExplanation{
			Standard: []string{
				"Your recommended coverage is based on several factors:",
				"Income Replacement: 10x your annual income (₹10,000,000)",
				"Family Protection: ₹2,000,000 per dependent",
			},
			ELI5: []string{
				"Think of insurance like a big piggy bank that someone else fills up for your family if something happens to you.",
				"We recommend a piggy bank of ₹10,000,000 because:",
				"Your family would need money to replace your income",
				"Each person who depends on you needs extra protection",
				"To keep this piggy bank ready, you'd put in about ₹417 each month.",
			},
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("ExplainCoverage() mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("conditional lines", func(t *testing.T) {
		p := models.ProfileInput{
			Age: 30, AnnualIncome: 1_000_000,
			PreExistingConditions: true,
			HasExistingCoverage:   true, ExistingCoverageAmount: 4_000_000,
		}
		got := ExplainCoverage(p, ComputeCoverage(p))

		if len(got.Standard) != 5 {
			t.Fatalf("expected 5 standard lines, got %d: %q", len(got.Standard), got.Standard)
		}
		if got.Standard[3] != "Additional 20% buffer for pre-existing conditions" {
			t.Errorf("unexpected loading line %q", got.Standard[3])
		}
		if got.Standard[4] != "Adjusted for your existing coverage (₹4,000,000)" {
			t.Errorf("unexpected existing coverage line %q", got.Standard[4])
		}
		if len(got.ELI5) != 6 || got.ELI5[4] != "Your health conditions might mean more medical expenses" {
			t.Errorf("expected health conditions line in eli5, got %q", got.ELI5)
		}
	})
}
