package assistant

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spring-sisters/spring-backend/internal/logger"
	"github.com/spring-sisters/spring-backend/internal/profile/domain"
	"github.com/spring-sisters/spring-backend/internal/ritual"
)

const (
	maxMessageLen = 2000
	maxImageBytes = 8 << 20

	fallbackAskReply = "Sorry, I couldn't read that answer. Please ask me again."
)

// Completer is the gateway call; *Client implements it.
type Completer interface {
	Complete(ctx context.Context, model string, messages []Message, jsonMode bool) (string, error)
}

// Profiles is the slice of the profile service the assistant touches.
type Profiles interface {
	Get(ctx context.Context, userID string) (*domain.Profile, error)
	ApplyRitualUpdate(ctx context.Context, userID string, c ritual.Custom) (*domain.Profile, bool, error)
}

type Service struct {
	gateway     Completer
	profiles    Profiles
	model       string
	visionModel string
}

func NewService(gateway Completer, profiles Profiles, model, visionModel string) *Service {
	if visionModel == "" {
		visionModel = model
	}
	return &Service{gateway: gateway, profiles: profiles, model: model, visionModel: visionModel}
}

// Ask answers a chat message. When the gateway returns a ritual update it
// is sanitized and written in one step; an unusable update is dropped and
// only its message is returned. Upstream errors leave the profile untouched.
func (s *Service) Ask(ctx context.Context, userID string, req AskRequest) (*AskResponse, error) {
	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" || len(req.Message) > maxMessageLen {
		return nil, fmt.Errorf("%w: message must be 1-%d characters", ErrInvalidInput, maxMessageLen)
	}
	if req.CurrentPhase != "" && !req.CurrentPhase.Valid() {
		return nil, fmt.Errorf("%w: unknown phase %q", ErrInvalidInput, req.CurrentPhase)
	}

	p, err := s.profiles.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	content, err := s.gateway.Complete(ctx, s.model, []Message{
		{Role: "system", Content: chatSystemPrompt(req, p.Owned())},
		{Role: "user", Content: req.Message},
	}, false)
	if err != nil {
		return nil, err
	}

	reply, ok := parseRitualReply(content)
	if !ok {
		if body := stripFences(content); strings.HasPrefix(body, "{") {
			logger.NewLogger(ctx).LogWarnf("assistant_ask", "malformed structured reply for user_id=%s", userID)
			return &AskResponse{Response: looseReplyText(body)}, nil
		}
		return &AskResponse{Response: strings.TrimSpace(content)}, nil
	}

	log := logger.NewLogger(ctx)
	if reply.RitualUpdate == nil {
		return &AskResponse{Response: reply.text()}, nil
	}

	updated, applied, err := s.profiles.ApplyRitualUpdate(ctx, userID, ritual.Custom{
		Morning: reply.RitualUpdate.Morning,
		Evening: reply.RitualUpdate.Evening,
		Note:    strings.TrimSpace(reply.RitualUpdate.AuraNote),
	})
	if err != nil {
		return nil, err
	}
	if !applied {
		log.LogWarnf("assistant_ask", "discarded unusable ritual update for user_id=%s", userID)
		return &AskResponse{Response: reply.text()}, nil
	}

	log.LogInfof("assistant_ask", "applied ritual update for user_id=%s", userID)
	c := updated.CustomRituals
	return &AskResponse{
		Message: reply.text(),
		RitualUpdate: &RitualUpdate{
			Morning:  c.Morning,
			Evening:  c.Evening,
			AuraNote: c.Note,
		},
	}, nil
}

// ScanIngredients reads a product label. A reply that cannot be parsed
// yields a fixed generic analysis.
func (s *Service) ScanIngredients(ctx context.Context, imageData string) (*IngredientAnalysis, error) {
	url, err := imageURL(imageData)
	if err != nil {
		return nil, err
	}

	content, err := s.gateway.Complete(ctx, s.visionModel, visionMessages(ingredientPrompt, url), true)
	if err != nil {
		return nil, err
	}

	var wrapped struct {
		Analysis *IngredientAnalysis `json:"analysis"`
		IngredientAnalysis
	}
	if err := json.Unmarshal([]byte(stripFences(content)), &wrapped); err != nil {
		logger.NewLogger(ctx).LogWarnf("assistant_scan", "unparseable analysis: %v", err)
		return fallbackAnalysis(), nil
	}
	a := wrapped.IngredientAnalysis
	if wrapped.Analysis != nil {
		a = *wrapped.Analysis
	}
	if strings.TrimSpace(a.ProductName) == "" && len(a.TheGood) == 0 && len(a.ThingsToWatch) == 0 {
		return fallbackAnalysis(), nil
	}
	if a.TheGood == nil {
		a.TheGood = []string{}
	}
	if a.ThingsToWatch == nil {
		a.ThingsToWatch = []string{}
	}
	return &a, nil
}

// AnalyzeSkin scores a skin photo. Metrics are clamped to their ranges.
func (s *Service) AnalyzeSkin(ctx context.Context, req SkinRequest) (*SkinAnalysis, error) {
	url, err := imageURL(req.ImageData)
	if err != nil {
		return nil, err
	}

	content, err := s.gateway.Complete(ctx, s.visionModel, visionMessages(skinPrompt(req), url), true)
	if err != nil {
		return nil, err
	}

	var out struct {
		Metrics *struct {
			RedSpotsCount      *float64 `json:"red_spots_count"`
			DarkSpotsArea      *float64 `json:"dark_spots_area"`
			TextureScore       *float64 `json:"texture_score"`
			BrightnessScore    *float64 `json:"brightness_score"`
			PrimaryObservation string   `json:"primary_observation"`
		} `json:"metrics"`
		AuraInsight string `json:"auraInsight"`
	}
	if err := json.Unmarshal([]byte(stripFences(content)), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	m := out.Metrics
	if m == nil || m.RedSpotsCount == nil || m.DarkSpotsArea == nil || m.TextureScore == nil || m.BrightnessScore == nil {
		return nil, fmt.Errorf("%w: missing metrics", ErrMalformedPayload)
	}

	return &SkinAnalysis{
		Metrics: SkinMetrics{
			RedSpotsCount:      clamp(*m.RedSpotsCount, 0, 1000),
			DarkSpotsArea:      clamp(*m.DarkSpotsArea, 0, 100),
			TextureScore:       clamp(*m.TextureScore, 0, 100),
			BrightnessScore:    clamp(*m.BrightnessScore, 0, 100),
			PrimaryObservation: strings.TrimSpace(m.PrimaryObservation),
		},
		AuraInsight: strings.TrimSpace(out.AuraInsight),
	}, nil
}

type ritualReply struct {
	Response     string        `json:"response"`
	Message      string        `json:"message"`
	RitualUpdate *RitualUpdate `json:"ritualUpdate"`
}

func (r ritualReply) text() string {
	if strings.TrimSpace(r.Message) != "" {
		return strings.TrimSpace(r.Message)
	}
	return strings.TrimSpace(r.Response)
}

// parseRitualReply reports ok only for a JSON object carrying one of the
// known fields; anything else is treated as plain text.
func parseRitualReply(content string) (ritualReply, bool) {
	body := stripFences(content)
	if !strings.HasPrefix(body, "{") {
		return ritualReply{}, false
	}
	var r ritualReply
	if err := json.Unmarshal([]byte(body), &r); err != nil {
		return ritualReply{}, false
	}
	if r.RitualUpdate == nil && r.text() == "" {
		return ritualReply{}, false
	}
	return r, true
}

// looseReplyText pulls message or response out of an object whose other
// fields did not decode. Unreadable bodies get fallbackAskReply.
func looseReplyText(body string) string {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &fields); err != nil {
		return fallbackAskReply
	}
	for _, key := range []string{"message", "response"} {
		var text string
		if raw, ok := fields[key]; ok && json.Unmarshal(raw, &text) == nil && strings.TrimSpace(text) != "" {
			return strings.TrimSpace(text)
		}
	}
	return fallbackAskReply
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func visionMessages(prompt, url string) []Message {
	return []Message{{
		Role: "user",
		Content: []ContentPart{
			{Type: "text", Text: prompt},
			{Type: "image_url", ImageURL: &ImageURL{URL: url}},
		},
	}}
}

// imageURL validates base64 image data and returns it as a data URL.
func imageURL(data string) (string, error) {
	data = strings.TrimSpace(data)
	mime := "image/jpeg"
	if strings.HasPrefix(data, "data:") {
		header, payload, ok := strings.Cut(data, ",")
		if !ok {
			return "", fmt.Errorf("%w: malformed data url", ErrInvalidInput)
		}
		mime = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		data = payload
	}
	if data == "" {
		return "", fmt.Errorf("%w: imageData is required", ErrInvalidInput)
	}
	if base64.StdEncoding.DecodedLen(len(data)) > maxImageBytes {
		return "", fmt.Errorf("%w: image too large", ErrInvalidInput)
	}
	if _, err := base64.StdEncoding.DecodeString(data); err != nil {
		return "", fmt.Errorf("%w: imageData is not base64", ErrInvalidInput)
	}
	return "data:" + mime + ";base64," + data, nil
}

func clamp(v float64, lo, hi int) int {
	n := int(v + 0.5)
	if v < 0 {
		n = 0
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

func fallbackAnalysis() *IngredientAnalysis {
	a := genericAnalysis
	a.TheGood = append([]string(nil), genericAnalysis.TheGood...)
	a.ThingsToWatch = append([]string(nil), genericAnalysis.ThingsToWatch...)
	return &a
}

