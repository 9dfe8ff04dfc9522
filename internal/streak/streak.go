package streak

import (
	"time"

	"github.com/spring-sisters/spring-backend/internal/cycle"
)

// Streak counts consecutive calendar days with at least one visit.
type Streak struct {
	UserID   string     `json:"user_id"`
	Current  int        `json:"current"`
	Longest  int        `json:"longest"`
	LastDate *time.Time `json:"last_date,omitempty"`
}

// Advance records a visit on today's calendar date. A second visit on the
// same day changes nothing; a missed day restarts the count at 1.
func Advance(s Streak, today time.Time) (next Streak, changed bool) {
	day := dateOf(today)
	next = s
	next.LastDate = &day

	if s.LastDate == nil {
		next.Current = 1
	} else {
		switch gap := cycle.CalendarDaysBetween(dateOf(*s.LastDate), day); {
		case gap == 0:
			return s, false
		case gap == 1:
			next.Current = s.Current + 1
		case gap < 0:
			// clock moved backwards; keep the stored streak
			return s, false
		default:
			next.Current = 1
		}
	}
	if next.Current > next.Longest {
		next.Longest = next.Current
	}
	return next, true
}

func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
