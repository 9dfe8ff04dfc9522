package today

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spring-sisters/spring-backend/internal/auth"
	"github.com/spring-sisters/spring-backend/internal/catalog"
	"github.com/spring-sisters/spring-backend/internal/cycle"
	"github.com/spring-sisters/spring-backend/internal/profile/domain"
	profilerepo "github.com/spring-sisters/spring-backend/internal/profile/repository"
	profilesvc "github.com/spring-sisters/spring-backend/internal/profile/service"
	"github.com/spring-sisters/spring-backend/internal/streak"
	"github.com/spring-sisters/spring-backend/internal/suggestion"
	trackingrepo "github.com/spring-sisters/spring-backend/internal/tracking/repository"
	trackingsvc "github.com/spring-sisters/spring-backend/internal/tracking/service"
	"github.com/spring-sisters/spring-backend/internal/whisper"
)

type fixture struct {
	profiles *profilesvc.ProfileService
	tracking *trackingsvc.TrackingService
	svc      *Service
}

func newFixture(t *testing.T) fixture {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	profiles := profilesvc.NewProfileService(profilerepo.NewMemoryRepo())
	tracking := trackingsvc.NewTrackingService(trackingrepo.NewTrackedRepository(client))
	whispers := whisper.NewService(whisper.NewMarkerStore(client))
	return fixture{
		profiles: profiles,
		tracking: tracking,
		svc:      NewService(profiles, tracking, whispers, suggestion.NewEngine()),
	}
}

func ptr[T any](v T) *T { return &v }

func TestAssemble_NotOnboarded(t *testing.T) {
	now := time.Date(2026, 10, 15, 8, 0, 0, 0, time.UTC)
	d := Assemble(domain.Default("u"), nil, now, suggestion.NewEngine())

	assert.False(t, d.Onboarded)
	assert.Equal(t, 1, d.Day)
	assert.Equal(t, cycle.PhaseCalm, d.Phase)
	assert.Equal(t, "2026-10-15", d.Date)
	assert.Len(t, d.Ritual.Morning, 5)
	assert.Len(t, d.Ritual.Evening, 6)
	assert.Equal(t, suggestion.RuleCompleteSerum, d.Suggestion.Rule)
	assert.NotNil(t, d.Reorder)
	assert.Nil(t, d.Cellular)
}

func TestAssemble_ReferenceDateWestOfUTC(t *testing.T) {
	// stored as a calendar date; late evening in UTC-7 must still be day 15
	ref := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	p := domain.Default("u")
	p.ReferenceDate = &ref

	la := time.FixedZone("UTC-7", -7*3600)
	now := time.Date(2026, 10, 15, 22, 0, 0, 0, la)
	d := Assemble(p, nil, now, suggestion.NewEngine())
	assert.Equal(t, 15, d.Day)
	assert.Equal(t, cycle.PhaseBalance, d.Phase)
}

func TestAssemble_CellularModeKeepsHormonalRitual(t *testing.T) {
	ref := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	p := domain.Default("u")
	p.ReferenceDate = &ref
	p.Inventory[catalog.SerumTrio] = 1
	now := time.Date(2026, 10, 10, 9, 0, 0, 0, time.UTC) // day 10

	plain := Assemble(p, nil, now, suggestion.NewEngine())
	p.CellularMode = true
	cellular := Assemble(p, nil, now, suggestion.NewEngine())

	require.NotNil(t, cellular.Cellular)
	assert.Equal(t, 3, cellular.Cellular.Day)
	assert.Equal(t, cycle.CellularExfoliation, cellular.Cellular.Label)

	assert.Equal(t, cycle.PhaseGlow, cellular.Phase)
	assert.Equal(t, plain.Ritual, cellular.Ritual)
	assert.Equal(t, plain.Suggestion, cellular.Suggestion)
}

func TestToday_EndToEnd(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	ref := time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC)

	_, err := f.profiles.Update(ctx, "u", domain.UpdateRequest{
		ReferenceDate: &ref,
		Inventory: map[catalog.ProductID]int{
			catalog.SerumTrio: 1, catalog.Cleanser: 1, catalog.Moisturizer: 1,
			catalog.EyeCream: 1, catalog.WeeklyMask: 1,
		},
	})
	require.NoError(t, err)

	serum := catalog.Lifespan(catalog.SerumTrio)
	_, err = f.tracking.Start(ctx, "u", catalog.SerumTrio, now.AddDate(0, 0, -(serum-3)))
	require.NoError(t, err)

	d, err := f.svc.Today(ctx, "u", now)
	require.NoError(t, err)
	assert.Equal(t, 8, d.Day)
	assert.Equal(t, cycle.PhaseGlow, d.Phase)
	assert.True(t, d.Onboarded)
	require.Len(t, d.Reorder, 1)
	assert.Equal(t, 3, d.Reorder[0].DaysRemaining)
	assert.Equal(t, suggestion.RulePhaseGlow, d.Suggestion.Rule)
	for _, s := range d.Ritual.Morning {
		assert.True(t, s.Owned, s.Name)
	}
}

func TestWhisper_OneAtATime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	ref := time.Date(2026, 10, 8, 0, 0, 0, 0, time.UTC) // day 8: glow starts

	_, err := f.profiles.Update(ctx, "u", domain.UpdateRequest{ReferenceDate: &ref, CycleLengthDays: ptr(28)})
	require.NoError(t, err)
	_, err = f.tracking.Start(ctx, "u", catalog.Cleanser, now.AddDate(0, 0, -(catalog.Lifespan(catalog.Cleanser)-2)))
	require.NoError(t, err)

	w, err := f.svc.Whisper(ctx, "u", now, true)
	require.NoError(t, err)
	assert.Nil(t, w, "another whisper is on screen")

	w, err = f.svc.Whisper(ctx, "u", now, false)
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, whisper.CategoryReorder, w.Category)

	w, err = f.svc.Whisper(ctx, "u", now, false)
	require.NoError(t, err)
	require.NotNil(t, w)
	assert.Equal(t, whisper.CategoryPhaseShift, w.Category)

	w, err = f.svc.Whisper(ctx, "u", now, false)
	require.NoError(t, err)
	assert.Nil(t, w)
}

func TestWhisper_NoneBeforeOnboarding(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	start := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

	for i := 0; i < 3; i++ {
		w, err := f.svc.Whisper(ctx, "fresh", start.AddDate(0, 0, i), false)
		require.NoError(t, err)
		assert.Nil(t, w, "day %d", i)
	}
}

type countingVisits struct{ n int }

func (c *countingVisits) Touch(_ context.Context, userID string, _ time.Time) (streak.Streak, error) {
	c.n++
	return streak.Streak{UserID: userID, Current: c.n, Longest: c.n}, nil
}

func TestHandler_TouchesStreak(t *testing.T) {
	f := newFixture(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1/today")
	g.Use(auth.DevUser())
	visits := &countingVisits{}
	NewHandler(f.svc, visits).Register(g)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/today", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, visits.n)
	assert.Contains(t, w.Body.String(), `"streak":{"user_id":"demo-user","current":1,"longest":1}`)
}

func TestHandler_NowParam(t *testing.T) {
	f := newFixture(t)
	gin.SetMode(gin.TestMode)
	r := gin.New()
	g := r.Group("/api/v1/today")
	g.Use(auth.DevUser())
	h := NewHandler(f.svc, nil)
	h.now = func() time.Time { return time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC) }
	h.Register(g)

	for path, want := range map[string]int{
		"/api/v1/today":                               http.StatusOK,
		"/api/v1/today?now=2026-10-20":                http.StatusOK,
		"/api/v1/today?now=2026-10-20T23:30:00-07:00": http.StatusOK,
		"/api/v1/today?now=yesterday":                 http.StatusBadRequest,
		"/api/v1/today/whisper?active=true":           http.StatusOK,
	} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, w.Code, path)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/today/whisper?active=true", nil))
	assert.JSONEq(t, `{"ok":true,"whisper":null}`, w.Body.String())
}
