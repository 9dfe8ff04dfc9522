package suggestion

import (
	"github.com/spring-sisters/spring-backend/internal/catalog"
	"github.com/spring-sisters/spring-backend/internal/cycle"
)

// Input is everything the engine looks at. It never reads the clock.
type Input struct {
	Owned    catalog.Owned
	Phase    cycle.Phase
	Day      int
	Concerns []catalog.Concern
}

type Suggestion struct {
	Rule           string `json:"rule"`
	Title          string `json:"title"`
	Message        string `json:"message"`
	CallToActionID string `json:"call_to_action_id"`
}

// Rule is one row of the priority table.
type Rule struct {
	ID    string
	Match func(in Input) bool
	Build func(in Input) Suggestion
}

type Engine struct {
	rules []Rule
}

// NewEngine uses the default rule table.
func NewEngine() *Engine {
	return &Engine{rules: defaultRules()}
}

// NewEngineWithRules is used by tests to evaluate a custom table. The table
// must end with a rule that always matches.
func NewEngineWithRules(rules []Rule) *Engine {
	return &Engine{rules: rules}
}

// Suggest walks the table top-down and returns the first match.
func (e *Engine) Suggest(in Input) Suggestion {
	for _, r := range e.rules {
		if r.Match(in) {
			s := r.Build(in)
			s.Rule = r.ID
			return s
		}
	}
	// unreachable with the default table: the last rule always matches
	s := layeringTip(in)
	s.Rule = RuleLayeringTip
	return s
}

// Rules returns the rule ids in evaluation order.
func (e *Engine) Rules() []string {
	out := make([]string, len(e.rules))
	for i, r := range e.rules {
		out[i] = r.ID
	}
	return out
}
