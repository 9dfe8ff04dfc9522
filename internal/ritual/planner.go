package ritual

import (
	"fmt"

	"github.com/spring-sisters/spring-backend/internal/catalog"
	"github.com/spring-sisters/spring-backend/internal/cycle"
)

// slot is one position of a default sequence: either a product, optionally
// upgraded to a higher-tier product when owned, or a wellness step.
type slot struct {
	product  catalog.ProductID
	upgrade  catalog.ProductID
	wellness *wellnessStep
}

type wellnessStep struct {
	name    string
	purpose string
	howTo   catalog.HowTo
}

var morningWellness = wellnessStep{
	name:    "Morning Light & Water",
	purpose: "Hydrates from within and anchors your daily rhythm",
	howTo: catalog.HowTo{
		Amount:    "1 glass of water",
		Technique: "Drink a full glass of water and spend two minutes in daylight before screens",
	},
}

var eveningWellness = wellnessStep{
	name:    "Wind-Down Breath",
	purpose: "Lowers evening cortisol so skin can repair overnight",
	howTo: catalog.HowTo{
		Amount:    "2 minutes",
		Technique: "Breathe in for 4, hold for 4, out for 6 while your last layer absorbs",
	},
}

var defaultSequences = map[TimeOfDay][]slot{
	Morning: {
		{product: catalog.Cleanser},
		{product: catalog.SerumTrio},
		{product: catalog.EyeCream},
		{product: catalog.Moisturizer},
		{wellness: &morningWellness},
	},
	Evening: {
		{product: catalog.CleansingBalm},
		{product: catalog.Cleanser},
		{product: catalog.SerumTrio},
		{product: catalog.EyeCream},
		{product: catalog.Moisturizer, upgrade: catalog.CeramideConcentrate},
		{wellness: &eveningWellness},
	},
}

// DefaultLength is the number of steps of the default sequence for tod.
func DefaultLength(tod TimeOfDay) int {
	return len(defaultSequences[tod])
}

// Build assembles the ordered ritual for one time of day. A custom override
// for tod fully replaces the default sequence unless none of its ids are
// catalog products.
func Build(tod TimeOfDay, phase cycle.Phase, day int, owned catalog.Owned, override *Custom) []Step {
	if ids := override.For(tod); len(ids) > 0 {
		if steps := buildCustom(ids, phase, owned); len(steps) > 0 {
			return steps
		}
	}

	slots := defaultSequences[tod]
	steps := make([]Step, 0, len(slots))
	for i, s := range slots {
		var st Step
		if s.wellness != nil {
			st = wellnessFor(s.wellness, tod, phase, day, owned)
		} else {
			id := s.product
			if s.upgrade != "" && owned.Has(s.upgrade) {
				id = s.upgrade
			}
			st = productStep(id, phase, owned)
		}
		st.Order = i + 1
		steps = append(steps, st)
	}
	return steps
}

// BuildDay assembles both sequences.
func BuildDay(phase cycle.Phase, day int, owned catalog.Owned, override *Custom) Ritual {
	r := Ritual{
		Morning: Build(Morning, phase, day, owned, override),
		Evening: Build(Evening, phase, day, owned, override),
	}
	if !override.Empty() {
		r.Custom = true
		r.Note = override.Note
	}
	return r
}

func buildCustom(ids []catalog.ProductID, phase cycle.Phase, owned catalog.Owned) []Step {
	steps := make([]Step, 0, len(ids))
	for _, id := range ids {
		if !catalog.Known(id) {
			continue
		}
		st := productStep(id, phase, owned)
		st.Order = len(steps) + 1
		steps = append(steps, st)
	}
	return steps
}

func productStep(id catalog.ProductID, phase cycle.Phase, owned catalog.Owned) Step {
	p, _ := catalog.Get(id)
	st := Step{
		Name:           p.NameFor(phase),
		Purpose:        p.PurposeFor(phase),
		Owned:          owned.Has(id),
		ProductID:      id,
		IsPhaseVariant: p.IsPhaseVariant(),
		Kind:           KindProduct,
	}
	if st.Owned {
		st.Instructions = copyHowTo(p.HowTo)
	} else {
		st.CallToAction = CallToActionFor(id)
	}
	return st
}

func wellnessFor(w *wellnessStep, tod TimeOfDay, phase cycle.Phase, day int, owned catalog.Owned) Step {
	howTo := w.howTo
	howTo.Tips = append([]string(nil), w.howTo.Tips...)
	if tod == Evening && day > 0 && day%7 == 0 && owned.Has(catalog.WeeklyMask) {
		mask, _ := catalog.Get(catalog.WeeklyMask)
		howTo.Tips = append(howTo.Tips, fmt.Sprintf("Mask night: apply your %s after cleansing", mask.NameFor(phase)))
	}
	return Step{
		Name:         w.name,
		Purpose:      w.purpose,
		Owned:        true,
		Kind:         KindWellness,
		Instructions: &howTo,
	}
}

// CallToActionFor is the payload unowned steps carry instead of instructions.
func CallToActionFor(id catalog.ProductID) string {
	return "shop:" + string(id)
}

func copyHowTo(h *catalog.HowTo) *catalog.HowTo {
	if h == nil {
		return nil
	}
	c := *h
	c.Tips = append([]string(nil), h.Tips...)
	return &c
}
