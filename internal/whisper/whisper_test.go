package whisper

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/spring-sisters/spring-backend/internal/cycle"
	"github.com/spring-sisters/spring-backend/internal/reorder"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const today = "2026-10-15"

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	ctx := context.Background()
	err = client.Ping(ctx).Err()
	require.NoError(t, err)

	return client, mr
}

func candidate(name string, days int) reorder.Candidate {
	return reorder.Candidate{ProductName: name, DaysRemaining: days}
}

func TestDecide_Priority(t *testing.T) {
	in := Input{
		Today:           today,
		Day:             8,
		Phase:           cycle.PhaseGlow,
		CycleLengthDays: 28,
		Onboarded:       true,
		Candidates:      []reorder.Candidate{candidate("Gentle Gel Cleanser", 3)},
	}

	w := Decide(in)
	require.NotNil(t, w)
	assert.Equal(t, CategoryReorder, w.Category)
	assert.Contains(t, w.Message, "Gentle Gel Cleanser")
	assert.Contains(t, w.Message, "3 days")
	assert.Equal(t, today, w.DateKey)

	in.Shown = map[Category]string{CategoryReorder: today}
	w = Decide(in)
	require.NotNil(t, w)
	assert.Equal(t, CategoryPhaseShift, w.Category)
	assert.Equal(t, "Welcome to your glow phase", w.Title)

	in.Shown[CategoryPhaseShift] = today
	assert.Nil(t, Decide(in))
}

func TestDecide_ShownYesterdayDoesNotBlock(t *testing.T) {
	in := Input{
		Today:      today,
		Day:        3,
		Phase:      cycle.PhaseCalm,
		Candidates: []reorder.Candidate{candidate("Bright Eyes Cream", 1)},
		Shown:      map[Category]string{CategoryReorder: "2026-10-14"},
	}
	w := Decide(in)
	require.NotNil(t, w)
	assert.Equal(t, CategoryReorder, w.Category)
	assert.Contains(t, w.Message, "1 day ")
}

func TestDecide_ActiveSkips(t *testing.T) {
	in := Input{Today: today, Day: 1, Phase: cycle.PhaseCalm, Active: true}
	assert.Nil(t, Decide(in))
}

func TestDecide_PhaseShiftDays(t *testing.T) {
	cases := []struct {
		day   int
		phase cycle.Phase
		want  bool
	}{
		{1, cycle.PhaseCalm, true},
		{2, cycle.PhaseCalm, false},
		{8, cycle.PhaseGlow, true},
		{9, cycle.PhaseGlow, false},
		{15, cycle.PhaseBalance, true},
		{16, cycle.PhaseBalance, false},
	}
	for _, tc := range cases {
		w := Decide(Input{Today: today, Day: tc.day, Phase: tc.phase, CycleLengthDays: 28, Onboarded: true})
		if tc.want {
			require.NotNil(t, w, "day %d", tc.day)
			assert.Equal(t, CategoryPhaseShift, w.Category)
		} else {
			assert.Nil(t, w, "day %d", tc.day)
		}
	}
}

func TestDecide_NoPhaseShiftBeforeOnboarding(t *testing.T) {
	start := time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		now := start.AddDate(0, 0, i)
		day := cycle.ComputeDay(nil, 28, now)
		in := Input{
			Today:           DateKey(now),
			Day:             day,
			Phase:           cycle.ComputePhase(day, 28),
			CycleLengthDays: 28,
		}
		assert.Nil(t, Decide(in), "day %s", in.Today)

		in.Onboarded = true
		w := Decide(in)
		require.NotNil(t, w)
		assert.Equal(t, CategoryPhaseShift, w.Category)
	}
}

func TestDecide_WeeklyMask(t *testing.T) {
	w := Decide(Input{Today: today, Day: 21, Phase: cycle.PhaseBalance, CycleLengthDays: 28, HasWeeklyMask: true})
	require.NotNil(t, w)
	assert.Equal(t, CategoryWeeklyMask, w.Category)

	assert.Nil(t, Decide(Input{Today: today, Day: 21, Phase: cycle.PhaseBalance, CycleLengthDays: 28}))
}

func TestMarkerStore(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	store := NewMarkerStore(client)
	ctx := context.Background()

	shown, err := store.Shown(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, shown)

	require.NoError(t, store.Mark(ctx, "user-1", CategoryReorder, today))
	shown, err = store.Shown(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, map[Category]string{CategoryReorder: today}, shown)

	ttl := mr.TTL("spring:whisper:user-1:reorder")
	assert.Equal(t, 48*time.Hour, ttl)

	other, err := store.Shown(ctx, "user-2")
	require.NoError(t, err)
	assert.Empty(t, other)

	require.NoError(t, store.Clear(ctx, "user-1"))
	shown, err = store.Shown(ctx, "user-1")
	require.NoError(t, err)
	assert.Empty(t, shown)
}

func TestService_NextIsOneShotPerDay(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	svc := NewService(NewMarkerStore(client))
	ctx := context.Background()

	in := Input{
		Today:           today,
		Day:             15,
		Phase:           cycle.PhaseBalance,
		CycleLengthDays: 28,
		Onboarded:       true,
		Candidates:      []reorder.Candidate{candidate("Barrier Moisturizer", 6)},
		// caller-provided markers are ignored in favour of the store
		Shown: map[Category]string{CategoryReorder: today},
	}

	first, err := svc.Next(ctx, "user-1", in)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, CategoryReorder, first.Category)

	second, err := svc.Next(ctx, "user-1", in)
	require.NoError(t, err)
	require.NotNil(t, second)
	assert.Equal(t, CategoryPhaseShift, second.Category)

	third, err := svc.Next(ctx, "user-1", in)
	require.NoError(t, err)
	assert.Nil(t, third)

	// the next day everything is eligible again
	in.Today = "2026-10-16"
	in.Day = 16
	fourth, err := svc.Next(ctx, "user-1", in)
	require.NoError(t, err)
	require.NotNil(t, fourth)
	assert.Equal(t, CategoryReorder, fourth.Category)
}

func TestService_ActiveShortCircuits(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	svc := NewService(NewMarkerStore(client))
	w, err := svc.Next(context.Background(), "user-1", Input{Today: today, Day: 1, Phase: cycle.PhaseCalm, Active: true})
	require.NoError(t, err)
	assert.Nil(t, w)
	assert.False(t, mr.Exists("spring:whisper:user-1:phase_shift"))
}

func TestService_PeekThenMarkShown(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	svc := NewService(NewMarkerStore(client))
	ctx := context.Background()
	in := Input{Today: today, Candidates: []reorder.Candidate{candidate("Adaptive Serum Trio", 2)}}

	for i := 0; i < 2; i++ {
		w, err := svc.Peek(ctx, "user-1", in)
		require.NoError(t, err)
		require.NotNil(t, w)
		assert.Equal(t, CategoryReorder, w.Category)
	}
	assert.False(t, mr.Exists("spring:whisper:user-1:reorder"))

	require.NoError(t, svc.MarkShown(ctx, "user-1", CategoryReorder, today))
	w, err := svc.Peek(ctx, "user-1", in)
	require.NoError(t, err)
	assert.Nil(t, w)
}
