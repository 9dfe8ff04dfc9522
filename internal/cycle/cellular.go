package cycle

import "time"

// CellularRhythmDays is the length of the training rhythm used instead of a
// hormonal cycle when cellular mode is enabled.
const CellularRhythmDays = 7

type CellularLabel string

const (
	CellularRecovery    CellularLabel = "Recovery"
	CellularExfoliation CellularLabel = "Exfoliation"
	CellularActivation  CellularLabel = "Activation"
	CellularFlex        CellularLabel = "Flex"
)

// CellularDay is the display block shown to users without a hormonal cycle.
type CellularDay struct {
	Day   int           `json:"day"`
	Label CellularLabel `json:"label"`
}

// ComputeCellularDay places now on the fixed 7-day rhythm anchored at the
// reference date. It ignores the declared cycle length.
func ComputeCellularDay(referenceDate *time.Time, now time.Time) CellularDay {
	day := ComputeDay(referenceDate, CellularRhythmDays, now)
	return CellularDay{Day: day, Label: CellularLabelFor(day)}
}

func CellularLabelFor(day int) CellularLabel {
	switch day {
	case 3:
		return CellularExfoliation
	case 4:
		return CellularActivation
	case 7:
		return CellularFlex
	default:
		return CellularRecovery
	}
}
