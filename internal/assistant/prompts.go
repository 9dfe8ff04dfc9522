package assistant

import (
	"fmt"
	"strings"

	"github.com/spring-sisters/spring-backend/internal/catalog"
)

func chatSystemPrompt(req AskRequest, owned catalog.Owned) string {
	var b strings.Builder
	b.WriteString("You are Aura, the Spring Sisters skincare guide. Answer warmly and briefly.\n")
	fmt.Fprintf(&b, "The user is on day %d of their cycle, in the %s phase.\n", req.CurrentDay, req.CurrentPhase)
	if req.CheckIn != nil {
		fmt.Fprintf(&b, "Today's check-in: energy %q, skin %q.\n", req.CheckIn.Energy, req.CheckIn.Skin)
	}

	b.WriteString("Products the user owns: ")
	if ids := owned.IDs(); len(ids) > 0 {
		for i, id := range ids {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(string(id))
		}
	} else {
		b.WriteString("none yet")
	}
	b.WriteString(".\nKnown product ids: ")
	for i, p := range catalog.All() {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(string(p.ID))
	}
	b.WriteString(".\n")
	b.WriteString(`If and only if the user asks to change their routine, reply with JSON only:
{"ritualUpdate":{"morning":[ids],"evening":[ids],"auraNote":"..."},"message":"..."}
Otherwise reply with plain text.`)
	return b.String()
}

const ingredientPrompt = `Read the ingredient label in this photo. Reply with JSON only:
{"productName":"...","theGood":["..."],"thingsToWatch":["..."],"auraSuggestion":"..."}`

func skinPrompt(req SkinRequest) string {
	return fmt.Sprintf(`Analyze this skin photo for %s (phase: %s, main concern: %s, recent products: %s).
Reply with JSON only:
{"metrics":{"red_spots_count":0,"dark_spots_area":0,"texture_score":0,"brightness_score":0,"primary_observation":"..."},"auraInsight":"..."}
dark_spots_area, texture_score and brightness_score are 0-100.`,
		orDefault(req.UserName, "the user"), orDefault(string(req.CurrentPhase), "unknown"),
		orDefault(req.PrimaryConcern, "none"), orDefault(strings.Join(req.RecentProducts, ", "), "none"))
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
