package today

import (
	"context"
	"time"

	"github.com/spring-sisters/spring-backend/internal/catalog"
	"github.com/spring-sisters/spring-backend/internal/cycle"
	"github.com/spring-sisters/spring-backend/internal/profile/domain"
	"github.com/spring-sisters/spring-backend/internal/reorder"
	"github.com/spring-sisters/spring-backend/internal/ritual"
	"github.com/spring-sisters/spring-backend/internal/suggestion"
	"github.com/spring-sisters/spring-backend/internal/whisper"
)

type Profiles interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
}

type Reorders interface {
	ReorderCandidates(ctx context.Context, userID string, now time.Time) ([]reorder.Candidate, error)
}

type Whispers interface {
	Next(ctx context.Context, userID string, in whisper.Input) (*whisper.Whisper, error)
}

// Dashboard is everything the home screen renders for one day.
type Dashboard struct {
	Date            string                `json:"date"`
	Day             int                   `json:"day"`
	Phase           cycle.Phase           `json:"phase"`
	CycleLengthDays int                   `json:"cycle_length_days"`
	Onboarded       bool                  `json:"onboarded"`
	Cellular        *cycle.CellularDay    `json:"cellular,omitempty"`
	Ritual          ritual.Ritual         `json:"ritual"`
	Suggestion      suggestion.Suggestion `json:"suggestion"`
	Reorder         []reorder.Candidate   `json:"reorder"`
}

type Service struct {
	profiles Profiles
	reorders Reorders
	whispers Whispers
	engine   *suggestion.Engine
}

func NewService(profiles Profiles, reorders Reorders, whispers Whispers, engine *suggestion.Engine) *Service {
	if engine == nil {
		engine = suggestion.NewEngine()
	}
	return &Service{profiles: profiles, reorders: reorders, whispers: whispers, engine: engine}
}

// Today builds the dashboard for now's calendar date in now's location.
func (s *Service) Today(ctx context.Context, userID string, now time.Time) (*Dashboard, error) {
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.reorders.ReorderCandidates(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	return Assemble(p, candidates, now, s.engine), nil
}

// Whisper returns at most one notification to surface now. active is true
// while the client is still showing a previous one.
func (s *Service) Whisper(ctx context.Context, userID string, now time.Time, active bool) (*whisper.Whisper, error) {
	if active {
		return nil, nil
	}
	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	candidates, err := s.reorders.ReorderCandidates(ctx, userID, now)
	if err != nil {
		return nil, err
	}

	day, phase, length := clock(p, now)
	return s.whispers.Next(ctx, userID, whisper.Input{
		Today:           whisper.DateKey(now),
		Day:             day,
		Phase:           phase,
		CycleLengthDays: length,
		HasWeeklyMask:   p.Owned().Has(catalog.WeeklyMask),
		Onboarded:       p.ReferenceDate != nil,
		Candidates:      candidates,
	})
}

// Assemble is the pure part of Today.
func Assemble(p *domain.Profile, candidates []reorder.Candidate, now time.Time, engine *suggestion.Engine) *Dashboard {
	day, phase, length := clock(p, now)
	owned := p.Owned()

	d := &Dashboard{
		Date:            whisper.DateKey(now),
		Day:             day,
		Phase:           phase,
		CycleLengthDays: length,
		Onboarded:       p.ReferenceDate != nil,
		Ritual:          ritual.BuildDay(phase, day, owned, p.CustomRituals),
		Suggestion: engine.Suggest(suggestion.Input{
			Owned:    owned,
			Phase:    phase,
			Day:      day,
			Concerns: p.SkinConcerns,
		}),
		Reorder: candidates,
	}
	if d.Reorder == nil {
		d.Reorder = []reorder.Candidate{}
	}
	// Cellular mode only changes what is displayed; the ritual and the
	// suggestion stay on the hormonal phase.
	if p.CellularMode {
		c := cycle.ComputeCellularDay(referenceIn(p.ReferenceDate, now.Location()), now)
		d.Cellular = &c
	}
	return d
}

func clock(p *domain.Profile, now time.Time) (day int, phase cycle.Phase, length int) {
	length = cycle.NormalizeCycleLength(p.CycleLengthDays)
	day = cycle.ComputeDay(referenceIn(p.ReferenceDate, now.Location()), length, now)
	return day, cycle.ComputePhase(day, length), length
}

// referenceIn pins the stored calendar date to midnight in loc so the day
// count does not shift for users west of UTC.
func referenceIn(ref *time.Time, loc *time.Location) *time.Time {
	if ref == nil {
		return nil
	}
	y, m, d := ref.Date()
	t := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return &t
}
