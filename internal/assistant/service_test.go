package assistant

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spring-sisters/spring-backend/internal/catalog"
	"github.com/spring-sisters/spring-backend/internal/cycle"
	"github.com/spring-sisters/spring-backend/internal/profile/repository"
	profilesvc "github.com/spring-sisters/spring-backend/internal/profile/service"
	"github.com/spring-sisters/spring-backend/internal/ritual"
)

type fakeGateway struct {
	reply string
	err   error
	calls []fakeCall
}

type fakeCall struct {
	model    string
	messages []Message
	jsonMode bool
}

func (f *fakeGateway) Complete(_ context.Context, model string, messages []Message, jsonMode bool) (string, error) {
	f.calls = append(f.calls, fakeCall{model: model, messages: messages, jsonMode: jsonMode})
	return f.reply, f.err
}

func newTestService(gw *fakeGateway) (*Service, *profilesvc.ProfileService) {
	profiles := profilesvc.NewProfileService(repository.NewMemoryRepo())
	return NewService(gw, profiles, "chat-model", "vision-model"), profiles
}

var testImage = base64.StdEncoding.EncodeToString([]byte("fake jpeg bytes"))

func TestAsk_PlainText(t *testing.T) {
	gw := &fakeGateway{reply: "  Drink water and keep it gentle.  "}
	svc, profiles := newTestService(gw)
	ctx := context.Background()

	_, err := profiles.SetQuantity(ctx, "user-1", catalog.Cleanser, 1)
	require.NoError(t, err)

	out, err := svc.Ask(ctx, "user-1", AskRequest{Message: "any tips?", CurrentPhase: cycle.PhaseCalm, CurrentDay: 2})
	require.NoError(t, err)
	assert.Equal(t, "Drink water and keep it gentle.", out.Response)
	assert.Nil(t, out.RitualUpdate)

	require.Len(t, gw.calls, 1)
	assert.Equal(t, "chat-model", gw.calls[0].model)
	system := gw.calls[0].messages[0].Content.(string)
	assert.Contains(t, system, "day 2")
	assert.Contains(t, system, "cleanser")
}

func TestAsk_AppliesRitualUpdate(t *testing.T) {
	gw := &fakeGateway{reply: "```json\n" + `{"message":"Simplified for you.","ritualUpdate":{"morning":["cleanser","nope","cleanser","moisturizer"],"evening":["cleansing-balm"],"auraNote":"less is more"}}` + "\n```"}
	svc, profiles := newTestService(gw)
	ctx := context.Background()

	out, err := svc.Ask(ctx, "user-1", AskRequest{Message: "make my routine simpler"})
	require.NoError(t, err)
	assert.Equal(t, "Simplified for you.", out.Message)
	assert.Empty(t, out.Response)
	require.NotNil(t, out.RitualUpdate)
	assert.Equal(t, []catalog.ProductID{catalog.Cleanser, catalog.Moisturizer}, out.RitualUpdate.Morning)
	assert.Equal(t, "less is more", out.RitualUpdate.AuraNote)

	p, err := profiles.Get(ctx, "user-1")
	require.NoError(t, err)
	require.NotNil(t, p.CustomRituals)
	assert.Equal(t, []catalog.ProductID{catalog.CleansingBalm}, p.CustomRituals.Evening)
}

func TestAsk_DiscardsUnusableUpdate(t *testing.T) {
	gw := &fakeGateway{reply: `{"message":"Here you go.","ritualUpdate":{"morning":["unknown"],"evening":[]}}`}
	svc, profiles := newTestService(gw)
	ctx := context.Background()

	_, err := profiles.SetCustomRituals(ctx, "user-1", ritual.Custom{Morning: []catalog.ProductID{catalog.Cleanser}})
	require.NoError(t, err)

	out, err := svc.Ask(ctx, "user-1", AskRequest{Message: "change it"})
	require.NoError(t, err)
	assert.Equal(t, "Here you go.", out.Response)
	assert.Nil(t, out.RitualUpdate)

	p, err := profiles.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, []catalog.ProductID{catalog.Cleanser}, p.CustomRituals.Morning, "previous override kept")
}

func TestAsk_MalformedStructuredReply(t *testing.T) {
	cases := []struct {
		name, reply, want string
	}{
		{"bad update type", `{"message":"Done.","ritualUpdate":"oops"}`, "Done."},
		{"response field only", "```json\n" + `{"response":"Keep it light today.","ritualUpdate":[1]}` + "\n```", "Keep it light today."},
		{"truncated", `{"message":"Simplified for y`, fallbackAskReply},
		{"no text", `{}`, fallbackAskReply},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, profiles := newTestService(&fakeGateway{reply: tc.reply})
			ctx := context.Background()

			out, err := svc.Ask(ctx, "user-1", AskRequest{Message: "simplify my routine"})
			require.NoError(t, err)
			assert.Equal(t, tc.want, out.Response)
			assert.Nil(t, out.RitualUpdate)

			p, err := profiles.Get(ctx, "user-1")
			require.NoError(t, err)
			assert.Nil(t, p.CustomRituals)
		})
	}
}

func TestAsk_UpstreamErrorLeavesProfile(t *testing.T) {
	gw := &fakeGateway{err: ErrCreditsExhausted}
	svc, profiles := newTestService(gw)
	ctx := context.Background()

	_, err := svc.Ask(ctx, "user-1", AskRequest{Message: "hello"})
	assert.ErrorIs(t, err, ErrCreditsExhausted)

	p, err := profiles.Get(ctx, "user-1")
	require.NoError(t, err)
	assert.Nil(t, p.CustomRituals)
}

func TestAsk_InvalidInput(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newTestService(gw)

	_, err := svc.Ask(context.Background(), "user-1", AskRequest{Message: "   "})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Ask(context.Background(), "user-1", AskRequest{Message: strings.Repeat("a", maxMessageLen+1)})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Empty(t, gw.calls)
}

func TestScanIngredients(t *testing.T) {
	gw := &fakeGateway{reply: `{"productName":"Night Oil","theGood":["squalane"],"thingsToWatch":[],"auraSuggestion":"Evening only."}`}
	svc, _ := newTestService(gw)

	a, err := svc.ScanIngredients(context.Background(), testImage)
	require.NoError(t, err)
	assert.Equal(t, "Night Oil", a.ProductName)
	assert.Equal(t, []string{"squalane"}, a.TheGood)

	require.Len(t, gw.calls, 1)
	call := gw.calls[0]
	assert.Equal(t, "vision-model", call.model)
	assert.True(t, call.jsonMode)
	parts := call.messages[0].Content.([]ContentPart)
	require.Len(t, parts, 2)
	assert.Equal(t, "data:image/jpeg;base64,"+testImage, parts[1].ImageURL.URL)
}

func TestScanIngredients_FallbackOnMalformed(t *testing.T) {
	svc, _ := newTestService(&fakeGateway{reply: "I think it's a moisturizer?"})

	a, err := svc.ScanIngredients(context.Background(), "data:image/png;base64,"+testImage)
	require.NoError(t, err)
	assert.Equal(t, genericAnalysis.ProductName, a.ProductName)

	a.TheGood[0] = "mutated"
	assert.NotEqual(t, "mutated", genericAnalysis.TheGood[0])
}

func TestScanIngredients_BadImage(t *testing.T) {
	gw := &fakeGateway{}
	svc, _ := newTestService(gw)

	for _, img := range []string{"", "%%%not-base64", "data:image/png;base64"} {
		_, err := svc.ScanIngredients(context.Background(), img)
		assert.ErrorIs(t, err, ErrInvalidInput, img)
	}
	assert.Empty(t, gw.calls)
}

func TestAnalyzeSkin_Clamps(t *testing.T) {
	gw := &fakeGateway{reply: `{"metrics":{"red_spots_count":-3,"dark_spots_area":140,"texture_score":72.6,"brightness_score":55,"primary_observation":" even tone "},"auraInsight":"Looking calm."}`}
	svc, _ := newTestService(gw)

	out, err := svc.AnalyzeSkin(context.Background(), SkinRequest{ImageData: testImage, CurrentPhase: cycle.PhaseGlow})
	require.NoError(t, err)
	assert.Equal(t, SkinMetrics{
		RedSpotsCount:      0,
		DarkSpotsArea:      100,
		TextureScore:       73,
		BrightnessScore:    55,
		PrimaryObservation: "even tone",
	}, out.Metrics)
	assert.Equal(t, "Looking calm.", out.AuraInsight)
}

func TestAnalyzeSkin_Malformed(t *testing.T) {
	for _, reply := range []string{"nope", `{"metrics":{"texture_score":10}}`, `{"auraInsight":"x"}`} {
		svc, _ := newTestService(&fakeGateway{reply: reply})
		_, err := svc.AnalyzeSkin(context.Background(), SkinRequest{ImageData: testImage})
		assert.True(t, errors.Is(err, ErrMalformedPayload), reply)
	}
}
