package reorder

import (
	"testing"
	"time"

	"github.com/spring-sisters/spring-backend/internal/catalog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC)

func trackedFor(id catalog.ProductID, lifespan, daysAgo int) Tracked {
	return Tracked{
		ID:           "t-" + string(id),
		ProductID:    id,
		StartDate:    now.AddDate(0, 0, -daysAgo),
		LifespanDays: lifespan,
	}
}

func TestDaysRemaining(t *testing.T) {
	tr := trackedFor(catalog.SerumTrio, 30, 25)
	assert.Equal(t, 5, DaysRemaining(tr, now))
	assert.True(t, NeedsReorder(tr, now))

	// partial days do not count
	tr.StartDate = now.Add(-(25*24 + 23) * time.Hour)
	assert.Equal(t, 5, DaysRemaining(tr, now))

	// started in the future: nothing used yet, floor rounds toward the past
	tr.StartDate = now.Add(12 * time.Hour)
	assert.Equal(t, 31, DaysRemaining(tr, now))
}

func TestNeedsReorder_Boundaries(t *testing.T) {
	cases := []struct {
		remaining int
		want      bool
	}{
		{-1, false},
		{0, true},
		{1, true},
		{7, true},
		{8, false},
		{30, false},
	}
	for _, tc := range cases {
		tr := trackedFor(catalog.Moisturizer, 45, 45-tc.remaining)
		require.Equal(t, tc.remaining, DaysRemaining(tr, now))
		assert.Equal(t, tc.want, NeedsReorder(tr, now), "remaining=%d", tc.remaining)
	}
}

func TestListCandidates_KeepsInsertionOrder(t *testing.T) {
	all := []Tracked{
		trackedFor(catalog.Cleanser, 60, 55),            // 5 left
		trackedFor(catalog.SerumTrio, 30, 10),           // 20 left
		trackedFor(catalog.EyeCream, 60, 59),            // 1 left
		trackedFor(catalog.Moisturizer, 45, 50),         // -5, stale
		trackedFor(catalog.CeramideConcentrate, 30, 23), // 7 left
	}

	got := ListCandidates(all, now)
	require.Len(t, got, 3)
	assert.Equal(t, catalog.Cleanser, got[0].Tracked.ProductID)
	assert.Equal(t, catalog.EyeCream, got[1].Tracked.ProductID)
	assert.Equal(t, catalog.CeramideConcentrate, got[2].Tracked.ProductID)
	assert.Equal(t, []int{5, 1, 7}, []int{got[0].DaysRemaining, got[1].DaysRemaining, got[2].DaysRemaining})
	assert.Equal(t, "Gentle Gel Cleanser", got[0].ProductName)

	sorted := SortByUrgency(got)
	assert.Equal(t, catalog.EyeCream, sorted[0].Tracked.ProductID)
	assert.Equal(t, catalog.Cleanser, sorted[1].Tracked.ProductID)
	assert.Equal(t, catalog.Cleanser, got[0].Tracked.ProductID, "input slice untouched")
}

func TestListCandidates_Empty(t *testing.T) {
	assert.Empty(t, ListCandidates(nil, now))
	assert.NotNil(t, ListCandidates(nil, now), "encodes as [] not null")

	unknown := Tracked{ProductID: "retired", StartDate: now, LifespanDays: 3}
	got := ListCandidates([]Tracked{unknown}, now)
	require.Len(t, got, 1)
	assert.Equal(t, "retired", got[0].ProductName)
}
