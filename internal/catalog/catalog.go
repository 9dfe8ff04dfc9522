package catalog

import "github.com/spring-sisters/spring-backend/internal/cycle"

type ProductID string

const (
	SerumTrio           ProductID = "serum-trio"
	Cleanser            ProductID = "cleanser"
	CleansingBalm       ProductID = "cleansing-balm"
	Moisturizer         ProductID = "moisturizer"
	EyeCream            ProductID = "eye-cream"
	CeramideConcentrate ProductID = "ceramide-concentrate"
	VitaminCConcentrate ProductID = "vitamin-c-concentrate"
	BHAConcentrate      ProductID = "bha-concentrate"
	WeeklyMask          ProductID = "weekly-mask"
)

type Category string

const (
	CategoryCore      Category = "core"
	CategoryPrecision Category = "precision"
	CategoryTreatment Category = "treatment"
)

// HowTo is the instructional payload attached to owned ritual steps.
type HowTo struct {
	Amount    string   `json:"amount"`
	Technique string   `json:"technique"`
	Tips      []string `json:"tips,omitempty"`
}

type Product struct {
	ID       ProductID `json:"id"`
	Name     string    `json:"name"`
	Category Category  `json:"category"`
	Purpose  string    `json:"purpose"`
	// PhaseNames is set for products whose identity follows the phase.
	PhaseNames map[cycle.Phase]string `json:"phase_names,omitempty"`
	// PhasePurposes overrides Purpose per phase when set.
	PhasePurposes map[cycle.Phase]string `json:"phase_purposes,omitempty"`
	// LifespanDays is how long one unit lasts in daily use; 0 means untracked.
	LifespanDays int    `json:"lifespan_days,omitempty"`
	PriceCents   int    `json:"price_cents"`
	HowTo        *HowTo `json:"how_to,omitempty"`
}

func (p Product) IsPhaseVariant() bool { return len(p.PhaseNames) > 0 }

// NameFor resolves the display name for the given phase.
func (p Product) NameFor(phase cycle.Phase) string {
	if name, ok := p.PhaseNames[phase]; ok {
		return name
	}
	return p.Name
}

func (p Product) PurposeFor(phase cycle.Phase) string {
	if purpose, ok := p.PhasePurposes[phase]; ok {
		return purpose
	}
	return p.Purpose
}

var products = []Product{
	{
		ID:       SerumTrio,
		Name:     "Adaptive Serum Trio",
		Category: CategoryCore,
		Purpose:  "Cycle-synced active that changes with your phase",
		PhaseNames: map[cycle.Phase]string{
			cycle.PhaseCalm:    "Calm Serum",
			cycle.PhaseGlow:    "Glow Serum",
			cycle.PhaseBalance: "Balance Serum",
		},
		PhasePurposes: map[cycle.Phase]string{
			cycle.PhaseCalm:    "Soothes and replenishes while estrogen is low",
			cycle.PhaseGlow:    "Brightens and boosts radiance at your peak",
			cycle.PhaseBalance: "Regulates oil and keeps pores clear as progesterone rises",
		},
		LifespanDays: 30,
		PriceCents:   8900,
		HowTo: &HowTo{
			Amount:    "3-4 drops",
			Technique: "Press into damp skin with flat palms, starting at the center of the face",
			Tips:      []string{"Wait 60 seconds before the next layer"},
		},
	},
	{
		ID:           Cleanser,
		Name:         "Gentle Gel Cleanser",
		Category:     CategoryCore,
		Purpose:      "Removes impurities without stripping the barrier",
		LifespanDays: 60,
		PriceCents:   3200,
		HowTo: &HowTo{
			Amount:    "1 pump",
			Technique: "Massage onto wet skin in small circles for 30 seconds, rinse with lukewarm water",
		},
	},
	{
		ID:           CleansingBalm,
		Name:         "Melting Cleansing Balm",
		Category:     CategoryCore,
		Purpose:      "Dissolves sunscreen and makeup as a first cleanse",
		LifespanDays: 90,
		PriceCents:   3600,
		HowTo: &HowTo{
			Amount:    "Almond-sized scoop",
			Technique: "Warm between fingers, massage onto dry skin, emulsify with water and rinse",
		},
	},
	{
		ID:           Moisturizer,
		Name:         "Barrier Moisturizer",
		Category:     CategoryCore,
		Purpose:      "Locks in hydration and supports the skin barrier",
		LifespanDays: 45,
		PriceCents:   4800,
		HowTo: &HowTo{
			Amount:    "Pea-sized amount",
			Technique: "Warm between fingertips and sweep upward and outward",
		},
	},
	{
		ID:           EyeCream,
		Name:         "Bright Eyes Cream",
		Category:     CategoryCore,
		Purpose:      "Depuffs and hydrates the delicate eye area",
		LifespanDays: 60,
		PriceCents:   4200,
		HowTo: &HowTo{
			Amount:    "Rice-grain amount per eye",
			Technique: "Tap gently along the orbital bone with your ring finger",
		},
	},
	{
		ID:           CeramideConcentrate,
		Name:         "Ceramide Barrier Concentrate",
		Category:     CategoryPrecision,
		Purpose:      "Intensive overnight barrier repair",
		LifespanDays: 30,
		PriceCents:   6400,
		HowTo: &HowTo{
			Amount:    "2 pumps",
			Technique: "Smooth over the whole face as the last layer of the night",
			Tips:      []string{"Replaces your moisturizer in the evening"},
		},
	},
	{
		ID:           VitaminCConcentrate,
		Name:         "Vitamin C Concentrate",
		Category:     CategoryPrecision,
		Purpose:      "Fades dark spots and amplifies glow",
		LifespanDays: 30,
		PriceCents:   5900,
		HowTo: &HowTo{
			Amount:    "2-3 drops",
			Technique: "Apply after cleansing in the morning, before serum",
		},
	},
	{
		ID:           BHAConcentrate,
		Name:         "Clarifying BHA Concentrate",
		Category:     CategoryPrecision,
		Purpose:      "Unclogs pores during breakout-prone days",
		LifespanDays: 30,
		PriceCents:   4900,
		HowTo: &HowTo{
			Amount:    "1-2 drops",
			Technique: "Spot-apply on congested areas in the evening",
		},
	},
	{
		ID:       WeeklyMask,
		Name:     "Weekly Phase Mask",
		Category: CategoryTreatment,
		Purpose:  "A weekly treatment matched to your phase",
		PhaseNames: map[cycle.Phase]string{
			cycle.PhaseCalm:    "Calm Cream Mask",
			cycle.PhaseGlow:    "Glow Enzyme Mask",
			cycle.PhaseBalance: "Balance Clay Mask",
		},
		PriceCents: 5200,
		HowTo: &HowTo{
			Amount:    "Even, opaque layer",
			Technique: "Leave on for 10 minutes after cleansing, then rinse",
		},
	},
}

var byID = func() map[ProductID]Product {
	m := make(map[ProductID]Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return m
}()

// All returns the catalog in display order.
func All() []Product {
	out := make([]Product, len(products))
	copy(out, products)
	return out
}

func Get(id ProductID) (Product, bool) {
	p, ok := byID[id]
	return p, ok
}

func Known(id ProductID) bool {
	_, ok := byID[id]
	return ok
}

// Lifespan returns the tracked lifespan of a product, 0 when untracked.
func Lifespan(id ProductID) int {
	return byID[id].LifespanDays
}
