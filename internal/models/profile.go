package models

import (
	"time"

	"github.com/google/uuid"
)

// ProfileInput is the needs-analyzer input. Values outside the documented
// ranges are accepted as-is.
type ProfileInput struct {
	Age                    int  `json:"age"`        // 18-80
	Dependents             int  `json:"dependents"` // 0-4, 4 means "4+"
	AnnualIncome           int  `json:"annual_income"`
	PreExistingConditions  bool `json:"pre_existing_conditions"`
	HasExistingCoverage    bool `json:"has_existing_coverage"`
	ExistingCoverageAmount int  `json:"existing_coverage_amount"`
}

// CoverageResult is derived from a ProfileInput and never stored.
type CoverageResult struct {
	RecommendedCoverage int `json:"recommended_coverage"`
	AdjustedCoverage    int `json:"adjusted_coverage"`
	FinalCoverage       int `json:"final_coverage"`
	MonthlyPremium      int `json:"monthly_premium"`
}

// CoverageExplanation carries the text of both result tabs.
type CoverageExplanation struct {
	Standard []string `json:"standard"`
	ELI5     []string `json:"eli5"`
}

type QuoteResponse struct {
	Profile     ProfileInput        `json:"profile"`
	Result      CoverageResult      `json:"result"`
	Explanation CoverageExplanation `json:"explanation"`
}

// ProfileForm mirrors the analyzer form as the browser holds it: the text
// boxes and selects are strings, the switch is a bool.
type ProfileForm struct {
	Age                   string `json:"age"`
	Dependents            string `json:"dependents"`
	AnnualIncome          int    `json:"annual_income"`
	PreExistingConditions bool   `json:"pre_existing_conditions"`
	ExistingCoverage      string `json:"existing_coverage"` // "yes" | "no"
	ExistingInsurance     int    `json:"existing_insurance"`
}

// ProfileFormPatch is the body of a form update. Nil fields are left alone.
// Numeric fields arrive as raw text and go through the same coercion the
// form inputs apply.
type ProfileFormPatch struct {
	Age                   *string `json:"age"`
	Dependents            *string `json:"dependents"`
	AnnualIncome          *string `json:"annual_income"`
	PreExistingConditions *bool   `json:"pre_existing_conditions"`
	ExistingCoverage      *string `json:"existing_coverage"`
	ExistingInsurance     *string `json:"existing_insurance"`
}

const (
	TabStandard = "standard"
	TabELI5     = "eli5"
)

type AnalyzerSession struct {
	ID         uuid.UUID   `json:"id"`
	Step       int         `json:"step"`
	StepName   string      `json:"step_name"`
	Progress   int         `json:"progress"`
	ActiveTab  string      `json:"active_tab"`
	Form       ProfileForm `json:"form"`
	CreatedAt  time.Time   `json:"created_at"`
	LastSeenAt time.Time   `json:"last_seen_at"`
}

type AnalyzerView struct {
	Session     *AnalyzerSession    `json:"session"`
	Result      CoverageResult      `json:"result"`
	Explanation CoverageExplanation `json:"explanation"`
}
