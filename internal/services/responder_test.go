package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	healthPlanReply = "Based on your profile, I recommend a comprehensive health insurance plan with at least ₹10 Lakh coverage. Would you like me to explain the benefits or show you some options?"
	claimsReply     = "To file a claim, you'll need your policy number and supporting documents. I can guide you through the process step by step. Would you like to start a claim now?"
	premiumReply    = "Insurance premiums depend on several factors including your age, medical history, and coverage amount. Would you like me to calculate an estimate for you?"
	fallbackReply   = "I understand you're interested in insurance. Could you share more details about what you're looking for? I can help with health, life, auto, or home insurance."
)

func TestDefaultResponder_SelectResponse(t *testing.T) {
	r, err := NewDefaultResponder()
	require.NoError(t, err)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"health plan", "I need health insurance", healthPlanReply},
		{"case insensitive", "Tell me about HEALTH INSURANCE", healthPlanReply},
		{"health wins over claim", "how do I claim my health insurance?", healthPlanReply},
		{"claim", "I want to file a claim", claimsReply},
		{"claim substring", "what about claims?", claimsReply},
		{"claim wins over premium", "claim vs premium", claimsReply},
		{"premium", "What is my premium?", premiumReply},
		{"cost", "How much does it COST", premiumReply},
		{"health alone does not match", "is health covered", fallbackReply},
		{"fallback", "hello there", fallbackReply},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, r.SelectResponse(tc.text))
		})
	}
}

func TestDefaultResponder_Greeting(t *testing.T) {
	r, err := NewDefaultResponder()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(r.Greeting(), "👋 Hello!"), "greeting was %q", r.Greeting())
}

func TestNewResponder_CustomCatalog(t *testing.T) {
	catalog := []byte(`
greeting: hi
rules:
  - name: short
    when: 'text.size() < 4'
    reply: too short
  - name: life
    when: 'text.startsWith("life")'
    reply: life cover
fallback: dunno
`)
	r, err := NewResponder(catalog)
	require.NoError(t, err)

	assert.Equal(t, "too short", r.SelectResponse("ok"))
	assert.Equal(t, "life cover", r.SelectResponse("Life insurance please"))
	assert.Equal(t, "dunno", r.SelectResponse("motor insurance"))
}

func TestNewResponder_InvalidCatalog(t *testing.T) {
	tests := []struct {
		name    string
		catalog string
		errPart string
	}{
		{"not yaml", "rules: [", "parse response catalog"},
		{"no fallback", "greeting: hi\n", "no fallback"},
		{"bad expression", "fallback: x\nrules:\n  - name: broken\n    when: 'text.contains('\n    reply: y\n", "compile error"},
		{"non boolean", "fallback: x\nrules:\n  - name: size\n    when: 'text.size()'\n    reply: y\n", "must be boolean"},
		{"unknown variable", "fallback: x\nrules:\n  - name: other\n    when: 'message == \"a\"'\n    reply: y\n", "compile error"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewResponder([]byte(tc.catalog))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.errPart)
		})
	}
}
