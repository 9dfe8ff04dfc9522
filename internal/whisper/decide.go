package whisper

import (
	"fmt"
	"time"

	"github.com/spring-sisters/spring-backend/internal/cycle"
	"github.com/spring-sisters/spring-backend/internal/reorder"
)

type Category string

const (
	CategoryReorder    Category = "reorder"
	CategoryPhaseShift Category = "phase_shift"
	CategoryWeeklyMask Category = "weekly_mask"
)

// Categories in priority order.
var Categories = []Category{CategoryReorder, CategoryPhaseShift, CategoryWeeklyMask}

// DateKeyLayout is the calendar-date format used for "shown today" markers.
const DateKeyLayout = "2006-01-02"

func DateKey(t time.Time) string { return t.Format(DateKeyLayout) }

// Whisper is a one-shot notification.
type Whisper struct {
	Category Category `json:"category"`
	Title    string   `json:"title"`
	Message  string   `json:"message"`
	DateKey  string   `json:"date_key"`
}

// Input is the state the scheduler looks at. Shown maps a category to the
// date key it was last surfaced on.
type Input struct {
	Today           string
	Day             int
	Phase           cycle.Phase
	CycleLengthDays int
	HasWeeklyMask   bool
	// Onboarded is false until the user sets a reference date. Day and
	// Phase then describe a placeholder day 1, so there is no shift to announce.
	Onboarded bool
	Candidates      []reorder.Candidate
	Shown           map[Category]string
	// Active is true while another whisper is on screen. There is no queue:
	// checks made while one is active are dropped.
	Active bool
}

// Decide returns the highest priority whisper not yet shown today, or nil.
func Decide(in Input) *Whisper {
	if in.Active {
		return nil
	}
	for _, c := range Categories {
		if in.Shown[c] == in.Today {
			continue
		}
		if w := build(c, in); w != nil {
			w.DateKey = in.Today
			return w
		}
	}
	return nil
}

func build(c Category, in Input) *Whisper {
	switch c {
	case CategoryReorder:
		if len(in.Candidates) == 0 {
			return nil
		}
		first := in.Candidates[0]
		return &Whisper{
			Category: c,
			Title:    "Running low",
			Message:  fmt.Sprintf("Your %s has about %s left. Reorder now so your ritual never skips a beat.", first.ProductName, daysText(first.DaysRemaining)),
		}
	case CategoryPhaseShift:
		if !in.Onboarded {
			return nil
		}
		if in.Day <= 1 && in.Phase == cycle.PhaseCalm {
			// day 1 of a new cycle
			return phaseShift(in.Phase)
		}
		if in.Day > 1 && cycle.PhaseStart(in.Phase, in.CycleLengthDays) == in.Day {
			return phaseShift(in.Phase)
		}
		return nil
	case CategoryWeeklyMask:
		if in.HasWeeklyMask && in.Day > 0 && in.Day%7 == 0 {
			return &Whisper{
				Category: c,
				Title:    "Mask night",
				Message:  "Tonight is your weekly treatment. Ten minutes, then rinse and glow.",
			}
		}
	}
	return nil
}

func phaseShift(p cycle.Phase) *Whisper {
	return &Whisper{
		Category: CategoryPhaseShift,
		Title:    fmt.Sprintf("Welcome to your %s phase", p),
		Message:  phaseMessages[p],
	}
}

var phaseMessages = map[cycle.Phase]string{
	cycle.PhaseCalm:    "Your skin may feel more sensitive. Your ritual has switched to soothing mode.",
	cycle.PhaseGlow:    "Rising estrogen brings radiance. Your ritual now focuses on brightening.",
	cycle.PhaseBalance: "Oil production picks up. Your ritual now focuses on keeping pores clear.",
}

func daysText(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
