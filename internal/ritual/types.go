package ritual

import (
	"fmt"

	"github.com/spring-sisters/spring-backend/internal/catalog"
)

type TimeOfDay string

const (
	Morning TimeOfDay = "morning"
	Evening TimeOfDay = "evening"
)

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	switch TimeOfDay(s) {
	case Morning, Evening:
		return TimeOfDay(s), nil
	}
	return "", fmt.Errorf("unknown time of day %q", s)
}

type StepKind string

const (
	KindProduct  StepKind = "product"
	KindWellness StepKind = "wellness"
)

// Step is one entry of a ritual. Unowned product steps carry a call to
// action instead of instructions.
type Step struct {
	Order          int               `json:"order"`
	Name           string            `json:"name"`
	Purpose        string            `json:"purpose"`
	Owned          bool              `json:"owned"`
	ProductID      catalog.ProductID `json:"product_id,omitempty"`
	IsPhaseVariant bool              `json:"is_phase_variant"`
	Kind           StepKind          `json:"kind"`
	Instructions   *catalog.HowTo    `json:"instructions,omitempty"`
	CallToAction   string            `json:"call_to_action,omitempty"`
}

// Custom is a user or assistant authored override. A non-empty sequence
// replaces the default steps for that time of day.
type Custom struct {
	Morning []catalog.ProductID `json:"morning"`
	Evening []catalog.ProductID `json:"evening"`
	Note    string              `json:"note,omitempty"`
}

// For returns the override sequence for tod, nil when none applies.
func (c *Custom) For(tod TimeOfDay) []catalog.ProductID {
	if c == nil {
		return nil
	}
	switch tod {
	case Morning:
		return c.Morning
	case Evening:
		return c.Evening
	}
	return nil
}

// Ritual bundles both sequences for a day.
type Ritual struct {
	Morning []Step `json:"morning"`
	Evening []Step `json:"evening"`
	Custom  bool   `json:"custom"`
	Note    string `json:"note,omitempty"`
}
