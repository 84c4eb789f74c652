package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/forkcast/internal/config"
	"github.com/agenthands/forkcast/internal/core/model"
	"github.com/agenthands/forkcast/internal/core/present"
	"github.com/agenthands/forkcast/internal/maps"
)

const intakeTwoMembers = `{
	"members": [
		{"name": "Annie", "location": "Midtown NYC"},
		{"name": "Bob", "location": "SoHo NYC"}
	],
	"preferences": "cheap Thai food",
	"budget": 25
}`

const intakeNobody = `{"members": [], "preferences": "", "budget": 25}`

const discoveryTwoRestaurants = `{
	"top_recommendations": [
		{"name": "Tofu Town", "coordinates": [40.74, -73.99], "rating": 4.5, "user_ratings_total": 900, "cuisine_types": ["thai"], "price_level": "PRICE_LEVEL_INEXPENSIVE", "recommendation_reason": "cheap Thai"},
		{"name": "Siam Spot", "coordinates": [40.73, -74.0], "rating": 4.1, "user_ratings_total": 300, "cuisine_types": ["thai"], "price_level": "PRICE_LEVEL_MODERATE", "recommendation_reason": "well rated"}
	]
}`

const fairnessTwoScores = `{
	"scores": [
		{"restaurant_id": 1, "restaurant_name": "Tofu Town", "fairness_score": 92, "travel_times": {"Annie": 10, "Bob": 11}},
		{"restaurant_id": 2, "restaurant_name": "Siam Spot", "fairness_score": 55, "travel_times": {"Annie": 8, "Bob": 27}}
	]
}`

func testMaps() *MockMaps {
	return &MockMaps{
		Geocoded: map[string]maps.LatLng{
			"Midtown NYC": {Lat: 40.75, Lng: -73.98},
			"SoHo NYC":    {Lat: 40.72, Lng: -74.0},
			"Brooklyn":    {Lat: 40.68, Lng: -73.94},
		},
		Cells: []maps.RouteCell{
			{OriginIndex: 0, DestinationIndex: 0, DurationSeconds: 600, OK: true},
			{OriginIndex: 0, DestinationIndex: 1, DurationSeconds: 480, OK: true},
			{OriginIndex: 1, DestinationIndex: 0, DurationSeconds: 660, OK: true},
			{OriginIndex: 1, DestinationIndex: 1, DurationSeconds: 1620, OK: true},
		},
	}
}

func newTestPipeline(mockLLM *MockLLM, mockMaps *MockMaps) *Pipeline {
	return NewPipeline(mockLLM, mockMaps, config.Default())
}

func TestInitialTurnRunsFullSearch(t *testing.T) {
	mockLLM := &MockLLM{ResponseQueue: []string{
		intakeTwoMembers,
		discoveryTwoRestaurants,
		fairnessTwoScores,
		"RENDERED TABLE",
	}}
	p := newTestPipeline(mockLLM, testMaps())

	out := p.RunTurn(context.Background(), model.NewTurnState(),
		"Annie is in Midtown NYC and likes cheap Thai food, Bob is in SoHo NYC and likes Thai food too")

	assert.Equal(t, []string{"Annie", "Bob"}, out.Members.Names())
	assert.Equal(t, "cheap Thai food", out.Preferences)
	assert.Equal(t, "25", out.Budget)

	require.Len(t, out.CandidateRestaurants, 2)
	require.Len(t, out.TransportationScores, 2)
	assert.Equal(t, "RENDERED TABLE", out.FinalSuggestions)

	// exactly one new assistant entry
	require.Len(t, out.Messages, 2)
	assert.Equal(t, model.RoleUser, out.Messages[0].Role)
	assert.Equal(t, model.RoleAssistant, out.Messages[1].Role)
	assert.Equal(t, "RENDERED TABLE", out.Messages[1].Content)

	// follow-ups derive a non-initial turn from the transcript
	assert.False(t, out.IsInitialRequest)
}

func TestFollowupDirectAnswerLeavesSearchStateUntouched(t *testing.T) {
	mockLLM := &MockLLM{ResponseQueue: []string{
		intakeTwoMembers,
		discoveryTwoRestaurants,
		fairnessTwoScores,
		"RENDERED TABLE",
	}}
	p := newTestPipeline(mockLLM, testMaps())

	st := p.RunTurn(context.Background(), model.NewTurnState(),
		"Annie is in Midtown NYC and likes cheap Thai food, Bob is in SoHo NYC and likes Thai food too")

	mockLLM.ResponseQueue = []string{
		intakeNobody,
		`{
			"needs_new_search": false,
			"modified_preferences": "",
			"modified_budget": "",
			"direct_answer": "Tofu Town is open 11am to 10pm.",
			"reasoning": "Question about an existing recommendation.",
			"members_to_add": [],
			"members_to_remove": []
		}`,
	}

	out := p.RunTurn(context.Background(), st, "What are the hours for the first restaurant?")

	assert.False(t, out.NeedsNewSearch)
	assert.Equal(t, "Tofu Town is open 11am to 10pm.", out.FinalSuggestions)
	assert.Equal(t, "Tofu Town is open 11am to 10pm.", out.FollowupResponse)

	// prior search results carry forward untouched
	assert.Equal(t, st.CandidateRestaurants, out.CandidateRestaurants)
	assert.Equal(t, st.TransportationScores, out.TransportationScores)
	assert.Equal(t, []string{"Annie", "Bob"}, out.Members.Names())

	require.Len(t, out.Messages, 4)
	assert.Equal(t, "Tofu Town is open 11am to 10pm.", out.Messages[3].Content)
}

func TestFollowupMemberChangeTriggersNewSearch(t *testing.T) {
	mockLLM := &MockLLM{ResponseQueue: []string{
		intakeTwoMembers,
		discoveryTwoRestaurants,
		fairnessTwoScores,
		"RENDERED TABLE",
	}}
	p := newTestPipeline(mockLLM, testMaps())

	st := p.RunTurn(context.Background(), model.NewTurnState(),
		"Annie is in Midtown NYC and likes cheap Thai food, Bob is in SoHo NYC and likes Thai food too")

	mockLLM.ResponseQueue = []string{
		`{"members": [{"name": "Sarah", "location": "Brooklyn"}], "preferences": "", "budget": 25}`,
		`{
			"needs_new_search": true,
			"modified_preferences": "",
			"modified_budget": "",
			"direct_answer": "",
			"reasoning": "The group changed.",
			"members_to_add": [],
			"members_to_remove": ["Bob"]
		}`,
		discoveryTwoRestaurants,
		fairnessTwoScores,
		"SECOND TABLE",
	}

	out := p.RunTurn(context.Background(), st, "Add Sarah from Brooklyn, remove Bob")

	assert.True(t, out.NeedsNewSearch)
	assert.Equal(t, []string{"Annie", "Sarah"}, out.Members.Names())
	assert.False(t, out.Members.Contains("bob"))

	sarah := out.Members[1]
	assert.Equal(t, "Brooklyn", sarah.Location)
	assert.Equal(t, "none", sarah.Diet)
	assert.Equal(t, []string{"driving"}, sarah.TravelPreferences)

	// preferences and budget carried forward from the prior turn
	assert.Equal(t, "cheap Thai food", out.Preferences)
	assert.Equal(t, "25", out.Budget)

	assert.Equal(t, "SECOND TABLE", out.FinalSuggestions)
}

func TestUnparseableDiscoveryDegradesGracefully(t *testing.T) {
	mockLLM := &MockLLM{ResponseQueue: []string{
		intakeTwoMembers,
		"I'm sorry, I could not find anything.",
	}}
	p := newTestPipeline(mockLLM, testMaps())

	out := p.RunTurn(context.Background(), model.NewTurnState(),
		"Annie is in Midtown NYC and likes cheap Thai food, Bob is in SoHo NYC and likes Thai food too")

	assert.Empty(t, out.CandidateRestaurants)
	assert.Empty(t, out.TransportationScores)
	assert.Equal(t, present.NoRecommendations, out.FinalSuggestions)

	require.Len(t, out.Messages, 2)
	assert.Equal(t, model.RoleAssistant, out.Messages[1].Role)
}

func TestIntakeFailureStillReachesTerminalState(t *testing.T) {
	mockLLM := &MockLLM{ResponseQueue: []string{
		"not json at all",
	}}
	p := newTestPipeline(mockLLM, testMaps())

	out := p.RunTurn(context.Background(), model.NewTurnState(), "plan dinner for us")

	// no members guessed, no search possible, yet the turn still answers
	assert.Empty(t, out.Members)
	assert.Equal(t, present.NoRecommendations, out.FinalSuggestions)
	require.Len(t, out.Messages, 2)
}

func TestPriorStateIsNotMutated(t *testing.T) {
	mockLLM := &MockLLM{ResponseQueue: []string{
		intakeTwoMembers,
		discoveryTwoRestaurants,
		fairnessTwoScores,
		"RENDERED TABLE",
	}}
	p := newTestPipeline(mockLLM, testMaps())

	prior := model.NewTurnState()
	p.RunTurn(context.Background(), prior, "Annie is in Midtown NYC, Bob is in SoHo NYC, Thai food")

	assert.Empty(t, prior.Messages)
	assert.Empty(t, prior.Members)
	assert.True(t, prior.IsInitialRequest)
}
