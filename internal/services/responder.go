package services

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"
	"gopkg.in/yaml.v3"
)

//go:embed responses.yaml
var defaultCatalog []byte

// ResponseCatalog is the YAML form of the canned replies.
type ResponseCatalog struct {
	Greeting string         `yaml:"greeting"`
	Rules    []ResponseRule `yaml:"rules"`
	Fallback string         `yaml:"fallback"`
}

type ResponseRule struct {
	Name  string `yaml:"name"`
	When  string `yaml:"when"`
	Reply string `yaml:"reply"`
}

type compiledRule struct {
	name  string
	reply string
	prog  cel.Program
}

// Responder picks a canned reply by keyword. Rules are evaluated in
// catalog order and the first match wins, so "claim" questions that also
// mention "health insurance" get the health plan reply.
type Responder struct {
	greeting string
	fallback string
	rules    []compiledRule
}

// NewDefaultResponder loads the embedded catalog.
func NewDefaultResponder() (*Responder, error) {
	return NewResponder(defaultCatalog)
}

// NewResponder parses a YAML catalog and compiles every rule condition.
func NewResponder(catalog []byte) (*Responder, error) {
	var c ResponseCatalog
	if err := yaml.Unmarshal(catalog, &c); err != nil {
		return nil, fmt.Errorf("failed to parse response catalog: %w", err)
	}
	if c.Fallback == "" {
		return nil, fmt.Errorf("response catalog has no fallback reply")
	}

	env, err := cel.NewEnv(cel.Variable("text", cel.StringType))
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	r := &Responder{greeting: c.Greeting, fallback: c.Fallback}
	for _, rule := range c.Rules {
		ast, issues := env.Compile(rule.When)
		if issues != nil && issues.Err() != nil {
			return nil, fmt.Errorf("rule %q: compile error: %w", rule.Name, issues.Err())
		}
		if !ast.OutputType().IsExactType(cel.BoolType) {
			return nil, fmt.Errorf("rule %q: condition must be boolean, got %s", rule.Name, ast.OutputType())
		}
		prog, err := env.Program(ast)
		if err != nil {
			return nil, fmt.Errorf("rule %q: program creation error: %w", rule.Name, err)
		}
		r.rules = append(r.rules, compiledRule{name: rule.Name, reply: rule.Reply, prog: prog})
	}

	return r, nil
}

// Greeting is the assistant's opening message.
func (r *Responder) Greeting() string {
	return r.greeting
}

// SelectResponse returns the reply for userText. It never fails; a rule
// that cannot be evaluated counts as not matching.
func (r *Responder) SelectResponse(userText string) string {
	vars := map[string]any{"text": strings.ToLower(userText)}
	for _, rule := range r.rules {
		out, _, err := rule.prog.Eval(vars)
		if err != nil {
			continue
		}
		if matched, ok := out.Value().(bool); ok && matched {
			return rule.reply
		}
	}
	return r.fallback
}
