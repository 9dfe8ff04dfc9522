package cycle

import (
	"encoding/json"
	"fmt"
)

// Phase is the skin-relevant segment of the hormonal cycle.
type Phase string

const (
	PhaseCalm    Phase = "calm"
	PhaseGlow    Phase = "glow"
	PhaseBalance Phase = "balance"
)

// Phases lists the phases in cycle order.
var Phases = []Phase{PhaseCalm, PhaseGlow, PhaseBalance}

func (p Phase) Valid() bool {
	switch p {
	case PhaseCalm, PhaseGlow, PhaseBalance:
		return true
	}
	return false
}

// Next returns the phase that follows p: calm → glow → balance → calm.
func (p Phase) Next() Phase {
	switch p {
	case PhaseCalm:
		return PhaseGlow
	case PhaseGlow:
		return PhaseBalance
	default:
		return PhaseCalm
	}
}

func (p Phase) String() string { return string(p) }

func ParsePhase(s string) (Phase, error) {
	p := Phase(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown phase %q", s)
	}
	return p, nil
}

func (p *Phase) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParsePhase(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
