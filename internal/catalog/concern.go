package catalog

import "fmt"

// Concern is a declared skin concern tag.
type Concern string

const (
	ConcernBreakouts   Concern = "breakouts"
	ConcernDryness     Concern = "dryness"
	ConcernDarkSpots   Concern = "darkSpots"
	ConcernSensitivity Concern = "sensitivity"
	ConcernDullness    Concern = "dullness"
)

var Concerns = []Concern{ConcernBreakouts, ConcernDryness, ConcernDarkSpots, ConcernSensitivity, ConcernDullness}

func (c Concern) Valid() bool {
	for _, k := range Concerns {
		if k == c {
			return true
		}
	}
	return false
}

func ParseConcern(s string) (Concern, error) {
	c := Concern(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown skin concern %q", s)
	}
	return c, nil
}

// HasConcern reports whether c appears in list.
func HasConcern(list []Concern, c Concern) bool {
	for _, k := range list {
		if k == c {
			return true
		}
	}
	return false
}
