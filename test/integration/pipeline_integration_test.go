//go:build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/forkcast/internal/config"
	"github.com/agenthands/forkcast/internal/core"
	"github.com/agenthands/forkcast/internal/core/model"
	"github.com/agenthands/forkcast/internal/llm"
	"github.com/agenthands/forkcast/internal/maps"
)

// TestFullConversation runs a real two-turn conversation against live LLM and
// Google Maps APIs. Requires LLM_API_KEY and GOOGLE_MAPS_API_KEY.
func TestFullConversation(t *testing.T) {
	_ = godotenv.Load("../../.env")

	if os.Getenv("LLM_API_KEY") == "" {
		t.Skip("Skipping integration test: LLM_API_KEY not set")
	}
	if os.Getenv("GOOGLE_MAPS_API_KEY") == "" {
		t.Skip("Skipping integration test: GOOGLE_MAPS_API_KEY not set")
	}

	cfg := config.Default()
	cfg.ApplyEnv()

	client, err := llm.NewClient(context.Background(), cfg.LLM)
	require.NoError(t, err)

	pipeline := core.NewPipeline(client, maps.NewGoogleClient(cfg.Maps.APIKey), cfg)

	ctx := context.Background()
	st := pipeline.RunTurn(ctx, model.NewTurnState(),
		"Annie is in Midtown NYC and likes cheap Thai food, Bob is in SoHo NYC and likes Thai food too")

	assert.Len(t, st.Members, 2)
	assert.NotEmpty(t, st.FinalSuggestions)
	assert.NotEmpty(t, st.CandidateRestaurants)
	assert.False(t, st.IsInitialRequest)

	for _, score := range st.TransportationScores {
		assert.GreaterOrEqual(t, score.Fairness, 0.0)
		assert.LessOrEqual(t, score.Fairness, 100.0)
	}

	st = pipeline.RunTurn(ctx, st, "What are the hours for the first restaurant?")
	assert.NotEmpty(t, st.FinalSuggestions)
}
