package handlers

import (
	"net/http"

	"github.com/Devarsh-42/InsureBuddy/internal/models"
	"github.com/Devarsh-42/InsureBuddy/internal/services"
)

type CoverageHandler struct{}

func NewCoverageHandler() *CoverageHandler {
	return &CoverageHandler{}
}

// Quote computes a recommendation for a complete profile. Out-of-range
// values are not rejected; they just produce the arithmetic result.
func (h *CoverageHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var profile models.ProfileInput
	if err := decodeJSON(r, &profile); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResp("VALIDATION_ERROR", "Invalid request body", r))
		return
	}

	result := services.ComputeCoverage(profile)
	writeJSON(w, http.StatusOK, models.QuoteResponse{
		Profile:     profile,
		Result:      result,
		Explanation: services.ExplainCoverage(profile, result),
	})
}
