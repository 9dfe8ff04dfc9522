package suggestion

import (
	"fmt"

	"github.com/spring-sisters/spring-backend/internal/catalog"
	"github.com/spring-sisters/spring-backend/internal/cycle"
)

const (
	RuleCalendarAlert       = "calendar_alert"
	RuleCompleteSerum       = "complete_serum"
	RuleCompleteCleanser    = "complete_cleanser"
	RuleCompleteMoisturizer = "complete_moisturizer"
	RuleAddEyeCream         = "add_eye_cream"
	RuleWeeklyMask          = "weekly_mask"
	RuleBreakoutsBalance    = "concern_breakouts_balance"
	RuleDrynessCalm         = "concern_dryness_calm"
	RuleDarkSpotsGlow       = "concern_dark_spots_glow"
	RulePhaseCalm           = "phase_calm"
	RulePhaseGlow           = "phase_glow"
	RuleLayeringTip         = "layering_tip"
)

func defaultRules() []Rule {
	return []Rule{
		// No calendar integration yet; kept so travel alerts slot in first.
		{ID: RuleCalendarAlert, Match: never, Build: layeringTip},
		{ID: RuleCompleteSerum, Match: missing(catalog.SerumTrio), Build: completeSerum},
		{ID: RuleCompleteCleanser, Match: both(owns(catalog.SerumTrio), missing(catalog.Cleanser)), Build: completeRitual(catalog.Cleanser)},
		{ID: RuleCompleteMoisturizer, Match: both(owns(catalog.SerumTrio), missing(catalog.Moisturizer)), Build: completeRitual(catalog.Moisturizer)},
		{ID: RuleAddEyeCream, Match: coreOwnedAnd(missing(catalog.EyeCream)), Build: addEyeCream},
		{ID: RuleWeeklyMask, Match: coreOwnedAnd(maskNight), Build: weeklyMask},
		{ID: RuleBreakoutsBalance, Match: coreOwnedAnd(concernIn(catalog.ConcernBreakouts, cycle.PhaseBalance)), Build: targeted(catalog.BHAConcentrate, "Clear the balance-phase breakouts", "unclogs pores before breakouts take hold")},
		{ID: RuleDrynessCalm, Match: coreOwnedAnd(concernIn(catalog.ConcernDryness, cycle.PhaseCalm)), Build: targeted(catalog.CeramideConcentrate, "Quench calm-phase dryness", "repairs your barrier overnight so dryness can't settle in")},
		{ID: RuleDarkSpotsGlow, Match: coreOwnedAnd(concernIn(catalog.ConcernDarkSpots, cycle.PhaseGlow)), Build: targeted(catalog.VitaminCConcentrate, "Fade dark spots while you glow", "fades dark spots while your skin is at its most radiant")},
		{ID: RulePhaseCalm, Match: coreOwnedAnd(inPhase(cycle.PhaseCalm)), Build: targeted(catalog.CeramideConcentrate, "Extra comfort for your calm phase", "soothes and strengthens skin while it is more sensitive")},
		{ID: RulePhaseGlow, Match: coreOwnedAnd(inPhase(cycle.PhaseGlow)), Build: targeted(catalog.VitaminCConcentrate, "Amplify your glow phase", "amplifies the radiance rising estrogen brings")},
		{ID: RuleLayeringTip, Match: always, Build: layeringTip},
	}
}

func never(Input) bool  { return false }
func always(Input) bool { return true }

func missing(id catalog.ProductID) func(Input) bool {
	return func(in Input) bool { return !in.Owned.Has(id) }
}

func owns(id catalog.ProductID) func(Input) bool {
	return func(in Input) bool { return in.Owned.Has(id) }
}

func both(a, b func(Input) bool) func(Input) bool {
	return func(in Input) bool { return a(in) && b(in) }
}

func coreOwned(in Input) bool {
	return in.Owned.CountOf(catalog.SerumTrio, catalog.Cleanser, catalog.Moisturizer) == 3
}

func coreOwnedAnd(pred func(Input) bool) func(Input) bool {
	return both(coreOwned, pred)
}

func maskNight(in Input) bool {
	return in.Owned.Has(catalog.WeeklyMask) && in.Day > 0 && in.Day%7 == 0
}

func concernIn(c catalog.Concern, p cycle.Phase) func(Input) bool {
	return func(in Input) bool { return in.Phase == p && catalog.HasConcern(in.Concerns, c) }
}

func inPhase(p cycle.Phase) func(Input) bool {
	return func(in Input) bool { return in.Phase == p }
}

func completeSerum(in Input) Suggestion {
	serum, _ := catalog.Get(catalog.SerumTrio)
	s := Suggestion{
		Title:          "Meet your adaptive serum",
		CallToActionID: string(catalog.SerumTrio),
	}

	complements := []catalog.ProductID{catalog.Cleanser, catalog.Moisturizer, catalog.EyeCream}
	if in.Owned.CountOf(complements...) != 1 {
		s.Message = fmt.Sprintf("The %s is the heart of the ritual: one formula for each phase of your cycle.", serum.Name)
		return s
	}

	switch {
	case in.Owned.Has(catalog.Cleanser):
		s.Message = "Your skin is clean and ready. Follow your cleanser with the serum that adapts to your phase."
	case in.Owned.Has(catalog.Moisturizer):
		s.Message = "Your moisturizer seals in whatever sits beneath it. Give it a phase-matched serum to lock in."
	default:
		s.Message = "You are caring for your eyes already. Bring the same attention to the rest of your face with the serum trio."
	}
	return s
}

func completeRitual(id catalog.ProductID) func(Input) Suggestion {
	return func(in Input) Suggestion {
		p, _ := catalog.Get(id)
		return Suggestion{
			Title:          "Complete your ritual",
			Message:        fmt.Sprintf("Your serum works best on a full ritual. Add the %s: %s.", p.Name, lower(p.Purpose)),
			CallToActionID: string(id),
		}
	}
}

func addEyeCream(in Input) Suggestion {
	p, _ := catalog.Get(catalog.EyeCream)
	return Suggestion{
		Title:          "Don't forget your eyes",
		Message:        fmt.Sprintf("Your core ritual is complete. The %s is the finishing touch for the thinnest skin on your face.", p.Name),
		CallToActionID: string(catalog.EyeCream),
	}
}

func weeklyMask(in Input) Suggestion {
	mask, _ := catalog.Get(catalog.WeeklyMask)
	return Suggestion{
		Title:          "It's mask night",
		Message:        fmt.Sprintf("Day %d marks your weekly treatment. Tonight, apply the %s after cleansing.", in.Day, mask.NameFor(in.Phase)),
		CallToActionID: string(catalog.WeeklyMask),
	}
}

// targeted recommends a precision product. pitch is a verb phrase whose
// subject is the product ("unclogs pores ...").
func targeted(id catalog.ProductID, title, pitch string) func(Input) Suggestion {
	return func(in Input) Suggestion {
		p, _ := catalog.Get(id)
		msg := fmt.Sprintf("In your %s phase, the %s %s.", in.Phase, p.Name, pitch)
		if in.Owned.Has(id) {
			msg = fmt.Sprintf("In your %s phase, reach for your %s tonight. It %s.", in.Phase, p.Name, pitch)
		}
		return Suggestion{
			Title:          title,
			Message:        msg,
			CallToActionID: string(id),
		}
	}
}

func layeringTip(Input) Suggestion {
	return Suggestion{
		Title:          "Layering pro-tip",
		Message:        "Apply from thinnest to thickest texture and give each layer a minute to settle before the next.",
		CallToActionID: "ritual",
	}
}

func lower(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'A' && b[0] <= 'Z' {
		b[0] += 'a' - 'A'
	}
	return string(b)
}
