package cycle

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 15, 14, 30, 0, 0, time.UTC)

func daysAgo(n int) *time.Time {
	t := now.AddDate(0, 0, -n)
	return &t
}

func TestComputeDay_Examples(t *testing.T) {
	t.Run("13 days ago on a 28 day cycle is day 14 in glow", func(t *testing.T) {
		day := ComputeDay(daysAgo(13), 28, now)
		assert.Equal(t, 14, day)
		assert.Equal(t, PhaseGlow, ComputePhase(day, 28))
	})

	t.Run("27 days ago on a 28 day cycle is day 28 in balance", func(t *testing.T) {
		day := ComputeDay(daysAgo(27), 28, now)
		assert.Equal(t, 28, day)
		assert.Equal(t, PhaseBalance, ComputePhase(day, 28))
	})

	t.Run("reference date today is day 1", func(t *testing.T) {
		assert.Equal(t, 1, ComputeDay(daysAgo(0), 28, now))
	})

	t.Run("wraps into the next cycle", func(t *testing.T) {
		assert.Equal(t, 1, ComputeDay(daysAgo(28), 28, now))
		assert.Equal(t, 3, ComputeDay(daysAgo(58), 28, now))
	})
}

func TestComputeDay_Defaults(t *testing.T) {
	assert.Equal(t, 1, ComputeDay(nil, 28, now), "missing reference")
	assert.Equal(t, 1, ComputeDay(&time.Time{}, 28, now), "zero reference")

	future := now.AddDate(0, 0, 5)
	assert.Equal(t, 1, ComputeDay(&future, 28, now), "future reference clamps to day 1")

	assert.Equal(t, 14, ComputeDay(daysAgo(13), 0, now), "zero length falls back to 28")
}

func TestComputeDay_IgnoresTimeOfDay(t *testing.T) {
	ref := time.Date(2026, 10, 2, 23, 59, 0, 0, time.UTC)
	early := time.Date(2026, 10, 15, 0, 1, 0, 0, time.UTC)
	assert.Equal(t, 14, ComputeDay(&ref, 28, early))
}

func TestComputeDay_UsesNowLocation(t *testing.T) {
	loc := time.FixedZone("UTC+9", 9*3600)
	// 20:00 UTC on Oct 1 is already Oct 2 in UTC+9.
	ref := time.Date(2026, 10, 1, 20, 0, 0, 0, time.UTC)
	local := time.Date(2026, 10, 15, 10, 0, 0, 0, loc)
	assert.Equal(t, 14, ComputeDay(&ref, 28, local))
}

func TestComputeDay_Bounds(t *testing.T) {
	for length := MinCycleLength; length <= MaxCycleLength; length++ {
		for offset := 0; offset <= 3*length+1; offset++ {
			day := ComputeDay(daysAgo(offset), length, now)
			if day < 1 || day > length {
				t.Fatalf("length=%d offset=%d: day %d out of range", length, offset, day)
			}
		}
	}
}

func TestComputePhase_Totality(t *testing.T) {
	for length := MinCycleLength; length <= MaxCycleLength; length++ {
		counts := map[Phase]int{}
		prev := PhaseCalm
		for day := 1; day <= length; day++ {
			p := ComputePhase(day, length)
			require.True(t, p.Valid(), "length=%d day=%d", length, day)
			// phases never go backwards inside one cycle
			if p != prev {
				require.Equal(t, prev.Next(), p, "length=%d day=%d", length, day)
			}
			prev = p
			counts[p]++
		}
		assert.Equal(t, 7, counts[PhaseCalm])
		assert.Equal(t, length/2-7, counts[PhaseGlow])
		assert.Equal(t, length-length/2, counts[PhaseBalance])
		assert.Equal(t, length, counts[PhaseCalm]+counts[PhaseGlow]+counts[PhaseBalance])
	}
}

func TestComputePhase_Boundaries(t *testing.T) {
	assert.Equal(t, PhaseCalm, ComputePhase(7, 28))
	assert.Equal(t, PhaseGlow, ComputePhase(8, 28))
	assert.Equal(t, PhaseGlow, ComputePhase(14, 28))
	assert.Equal(t, PhaseBalance, ComputePhase(15, 28))

	// changing the length moves the glow/balance split
	assert.Equal(t, PhaseGlow, ComputePhase(17, 35))
	assert.Equal(t, PhaseBalance, ComputePhase(17, 33))
}

func TestComputePhase_ShortCycleHasEmptyGlow(t *testing.T) {
	for _, length := range []int{8, 10, 14, 15} {
		for day := 1; day <= length; day++ {
			p := ComputePhase(day, length)
			assert.NotEqual(t, PhaseGlow, p, "length=%d day=%d", length, day)
			if day <= 7 {
				assert.Equal(t, PhaseCalm, p)
			} else {
				assert.Equal(t, PhaseBalance, p)
			}
		}
	}
	assert.Equal(t, PhaseGlow, ComputePhase(8, 16), "16 is the shortest cycle with a glow day")
	assert.Equal(t, PhaseCalm, ComputePhase(5, 5))
}

func TestComputePhase_ClampsDay(t *testing.T) {
	assert.Equal(t, PhaseCalm, ComputePhase(0, 28))
	assert.Equal(t, PhaseCalm, ComputePhase(-3, 28))
	assert.Equal(t, PhaseBalance, ComputePhase(99, 28))
	assert.Equal(t, PhaseGlow, ComputePhase(10, 0))
}

func TestPhaseStart(t *testing.T) {
	assert.Equal(t, 1, PhaseStart(PhaseCalm, 28))
	assert.Equal(t, 8, PhaseStart(PhaseGlow, 28))
	assert.Equal(t, 15, PhaseStart(PhaseBalance, 28))
	assert.Equal(t, 18, PhaseStart(PhaseBalance, 35))

	assert.Equal(t, 0, PhaseStart(PhaseGlow, 14))
	assert.Equal(t, 8, PhaseStart(PhaseBalance, 14))
	assert.Equal(t, 0, PhaseStart(PhaseBalance, 6))

	for length := MinCycleLength; length <= MaxCycleLength; length++ {
		for _, p := range Phases {
			start := PhaseStart(p, length)
			assert.Equal(t, p, ComputePhase(start, length))
			if start > 1 {
				assert.NotEqual(t, p, ComputePhase(start-1, length))
			}
		}
	}
}

func TestNormalizeCycleLength(t *testing.T) {
	assert.Equal(t, 28, NormalizeCycleLength(0))
	assert.Equal(t, 28, NormalizeCycleLength(-4))
	assert.Equal(t, 21, NormalizeCycleLength(12))
	assert.Equal(t, 40, NormalizeCycleLength(90))
	assert.Equal(t, 33, NormalizeCycleLength(33))
}

func TestPhase_NextAndJSON(t *testing.T) {
	assert.Equal(t, PhaseGlow, PhaseCalm.Next())
	assert.Equal(t, PhaseBalance, PhaseGlow.Next())
	assert.Equal(t, PhaseCalm, PhaseBalance.Next())

	var p Phase
	require.NoError(t, json.Unmarshal([]byte(`"glow"`), &p))
	assert.Equal(t, PhaseGlow, p)
	assert.Error(t, json.Unmarshal([]byte(`"luteal"`), &p))

	b, err := json.Marshal(PhaseBalance)
	require.NoError(t, err)
	assert.Equal(t, `"balance"`, string(b))
}

func TestComputeCellularDay(t *testing.T) {
	cases := []struct {
		ago   int
		day   int
		label CellularLabel
	}{
		{0, 1, CellularRecovery},
		{1, 2, CellularRecovery},
		{2, 3, CellularExfoliation},
		{3, 4, CellularActivation},
		{4, 5, CellularRecovery},
		{5, 6, CellularRecovery},
		{6, 7, CellularFlex},
		{7, 1, CellularRecovery},
		{23, 3, CellularExfoliation},
	}
	for _, tc := range cases {
		got := ComputeCellularDay(daysAgo(tc.ago), now)
		assert.Equal(t, tc.day, got.Day, "ago=%d", tc.ago)
		assert.Equal(t, tc.label, got.Label, "ago=%d", tc.ago)
	}

	assert.Equal(t, CellularDay{Day: 1, Label: CellularRecovery}, ComputeCellularDay(nil, now))
}
