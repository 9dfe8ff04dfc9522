package assistant

import (
	"github.com/spring-sisters/spring-backend/internal/catalog"
	"github.com/spring-sisters/spring-backend/internal/cycle"
)

type CheckIn struct {
	Energy string `json:"energy"`
	Skin   string `json:"skin"`
}

type AskRequest struct {
	Message      string      `json:"message"`
	CheckIn      *CheckIn    `json:"checkIn,omitempty"`
	CurrentPhase cycle.Phase `json:"currentPhase"`
	CurrentDay   int         `json:"currentDay"`
}

// RitualUpdate is the structured override the assistant may return.
type RitualUpdate struct {
	Morning  []catalog.ProductID `json:"morning"`
	Evening  []catalog.ProductID `json:"evening"`
	AuraNote string              `json:"auraNote"`
}

// AskResponse carries either a plain answer (Response) or an applied ritual
// update with its accompanying Message.
type AskResponse struct {
	Response     string        `json:"response,omitempty"`
	Message      string        `json:"message,omitempty"`
	RitualUpdate *RitualUpdate `json:"ritualUpdate,omitempty"`
}

type IngredientAnalysis struct {
	ProductName    string   `json:"productName"`
	TheGood        []string `json:"theGood"`
	ThingsToWatch  []string `json:"thingsToWatch"`
	AuraSuggestion string   `json:"auraSuggestion"`
}

type SkinRequest struct {
	ImageData      string      `json:"imageData"`
	UserName       string      `json:"userName"`
	CurrentPhase   cycle.Phase `json:"currentPhase"`
	PrimaryConcern string      `json:"primaryConcern"`
	RecentProducts []string    `json:"recentProducts"`
}

type SkinMetrics struct {
	RedSpotsCount      int    `json:"red_spots_count"`
	DarkSpotsArea      int    `json:"dark_spots_area"`
	TextureScore       int    `json:"texture_score"`
	BrightnessScore    int    `json:"brightness_score"`
	PrimaryObservation string `json:"primary_observation"`
}

type SkinAnalysis struct {
	Metrics     SkinMetrics `json:"metrics"`
	AuraInsight string      `json:"auraInsight"`
}

// genericAnalysis is returned when the ingredient scan cannot be parsed.
var genericAnalysis = IngredientAnalysis{
	ProductName:    "Unrecognized product",
	TheGood:        []string{"We could not read every ingredient on this label."},
	ThingsToWatch:  []string{"Patch test anything new for 24 hours before adding it to your ritual."},
	AuraSuggestion: "Try another photo in good light with the full ingredient list in frame.",
}
