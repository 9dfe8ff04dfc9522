package reorder

import (
	"math"
	"sort"
	"time"

	"github.com/spring-sisters/spring-backend/internal/catalog"
)

// Threshold is the number of remaining days at or below which a product
// should be reordered.
const Threshold = 7

// Tracked is one product the user started using on StartDate.
type Tracked struct {
	ID           string            `json:"id"`
	ProductID    catalog.ProductID `json:"product_id"`
	StartDate    time.Time         `json:"start_date"`
	LifespanDays int               `json:"lifespan_days"`
}

type Candidate struct {
	Tracked       Tracked `json:"tracked"`
	ProductName   string  `json:"product_name"`
	DaysRemaining int     `json:"days_remaining"`
}

// DaysRemaining is the lifespan minus the number of whole days elapsed since
// the start date. It goes negative once the product should have run out.
func DaysRemaining(t Tracked, now time.Time) int {
	elapsed := int(math.Floor(now.Sub(t.StartDate).Hours() / 24))
	return t.LifespanDays - elapsed
}

// NeedsReorder is true for 0..Threshold remaining days. Negative values mean
// stale tracking rather than urgency.
func NeedsReorder(t Tracked, now time.Time) bool {
	r := DaysRemaining(t, now)
	return r >= 0 && r <= Threshold
}

// ListCandidates keeps the input (insertion) order.
func ListCandidates(all []Tracked, now time.Time) []Candidate {
	out := make([]Candidate, 0)
	for _, t := range all {
		if !NeedsReorder(t, now) {
			continue
		}
		out = append(out, Candidate{
			Tracked:       t,
			ProductName:   productName(t.ProductID),
			DaysRemaining: DaysRemaining(t, now),
		})
	}
	return out
}

// SortByUrgency orders candidates by ascending days remaining, stable on ties.
func SortByUrgency(cs []Candidate) []Candidate {
	out := append([]Candidate(nil), cs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].DaysRemaining < out[j].DaysRemaining })
	return out
}

func productName(id catalog.ProductID) string {
	if p, ok := catalog.Get(id); ok {
		return p.Name
	}
	return string(id)
}
