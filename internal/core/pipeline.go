package core

import (
	"context"
	"log/slog"

	"github.com/agenthands/forkcast/internal/config"
	"github.com/agenthands/forkcast/internal/core/discovery"
	"github.com/agenthands/forkcast/internal/core/fairness"
	"github.com/agenthands/forkcast/internal/core/followup"
	"github.com/agenthands/forkcast/internal/core/intake"
	"github.com/agenthands/forkcast/internal/core/model"
	"github.com/agenthands/forkcast/internal/core/present"
	"github.com/agenthands/forkcast/internal/llm"
	"github.com/agenthands/forkcast/internal/maps"
)

// Pipeline wires the conversational stages into one directed flow:
//
//	Intake -> FollowupClassify -> {Discovery -> Fairness -> Presentation} | {DirectAnswer}
//
// The search branch is taken on the first turn of a conversation or whenever
// the follow-up classifier asks for a new search. Both terminals populate
// FinalSuggestions and append exactly one assistant message.
type Pipeline struct {
	Intake    *intake.Parser
	Followup  *followup.Classifier
	Discovery *discovery.Finder
	Fairness  *fairness.Scorer
	Presenter *present.Renderer
}

// NewPipeline builds the stages against shared LLM and maps collaborators.
// Both are injected so tests can substitute doubles.
func NewPipeline(llmClient llm.LLMClient, mapsClient maps.Service, cfg *config.Config) *Pipeline {
	return &Pipeline{
		Intake:    intake.NewParser(llmClient, cfg.Prompts.Intake),
		Followup:  followup.NewClassifier(llmClient, cfg.Prompts.Followup),
		Discovery: discovery.NewFinder(llmClient, mapsClient, cfg.Prompts.Discovery, cfg.Maps.SearchRadiusMeters),
		Fairness:  fairness.NewScorer(llmClient, mapsClient, cfg.Prompts.Fairness),
		Presenter: present.NewRenderer(llmClient, cfg.Prompts.Presentation),
	}
}

// RunTurn executes one user-message-in, assistant-message-out cycle. The
// prior state is copied, never mutated; the caller replaces its persisted
// record wholesale with the returned state.
//
// The pipeline always reaches a terminal state: external-call failures
// degrade to empty results and the turn still ends with populated
// suggestions.
func (p *Pipeline) RunTurn(ctx context.Context, prior model.TurnState, userMessage string) model.TurnState {
	st := prior.Clone()
	if st.Members == nil {
		st.Members = model.Directory{}
	}

	// Initial iff the conversation has no history yet. Deriving this from the
	// transcript removes the possibility of a contradictory flag.
	st.IsInitialRequest = len(st.Messages) == 0
	st.AppendMessage(model.RoleUser, userMessage)

	parsed, err := p.Intake.Parse(ctx, userMessage)
	if err != nil {
		// Fail closed: no members are guessed from the raw text.
		slog.Warn("intake failed", "error", err)
		parsed = intake.Result{Budget: intake.DefaultBudget}
	}

	if st.IsInitialRequest {
		// First turn: the parsed member list replaces the directory outright.
		dir := model.Directory{}
		for _, m := range parsed.Members {
			dir = dir.Upsert(m)
		}
		st.Members = dir
		st.Preferences = parsed.Preferences
		st.Budget = parsed.Budget
		st.NeedsNewSearch = false
	} else {
		// Prior preferences and budget carry forward as defaults; only the
		// classifier may override them.
		st, err = p.Followup.Classify(ctx, st, parsed.Members)
		if err != nil {
			slog.Warn("followup classification failed", "error", err)
		}
	}

	if st.IsInitialRequest || st.NeedsNewSearch {
		st = p.runSearch(ctx, st)
	} else {
		// Direct-answer terminal: the classifier already filled
		// FinalSuggestions with its answer.
		st.FinalSuggestions = st.FollowupResponse
		st.AppendMessage(model.RoleAssistant, st.FinalSuggestions)
	}

	st.IsInitialRequest = false
	return st
}

func (p *Pipeline) runSearch(ctx context.Context, st model.TurnState) model.TurnState {
	candidates, err := p.Discovery.Find(ctx, st.Members, st.Preferences, st.Budget)
	if err != nil {
		slog.Warn("discovery failed", "error", err)
		candidates = []model.Restaurant{}
	}
	st.CandidateRestaurants = candidates

	scores, err := p.Fairness.Score(ctx, st.Members, candidates)
	if err != nil {
		slog.Warn("fairness scoring failed", "error", err)
		scores = []model.FairnessScore{}
	}
	st.TransportationScores = scores

	st.FinalSuggestions = p.Presenter.Render(ctx, candidates, scores)
	st.AppendMessage(model.RoleAssistant, st.FinalSuggestions)
	return st
}
