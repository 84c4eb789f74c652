package followup

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agenthands/forkcast/internal/core/common"
	"github.com/agenthands/forkcast/internal/core/model"
	"github.com/agenthands/forkcast/internal/llm"
)

const defaultPrompt = `You are a followup assistant for a restaurant recommendation system.

Your job is to analyze the user's followup question and determine if a new restaurant search is needed, or if you can provide a direct answer based on existing information.

SCENARIOS THAT NEED A NEW SEARCH:
- User wants to change preferences (cuisine, dietary restrictions)
- User wants to change budget
- User wants to add or remove group members
- User wants restaurants in a different location or area
- User wants to see more or different restaurant options

SCENARIOS THAT DO NOT NEED A NEW SEARCH:
- Questions about the recommended restaurants (hours, menu, phone number)
- Questions about travel directions to a specific restaurant
- General questions about the recommendations
- Clarification about the scoring or selection process

MEMBER MANAGEMENT:
- If adding new members, extract their name, location, dietary preferences, and travel preferences
- If removing members, list their names in members_to_remove

If no new search is needed, provide a helpful direct answer based on the context.

Respond with ONLY a JSON object of this exact shape:
{
  "needs_new_search": false,
  "modified_preferences": "",
  "modified_budget": "",
  "direct_answer": "answer text when no new search is needed",
  "reasoning": "why a new search is or isn't needed",
  "members_to_add": [
    {"name": "Name", "location": "Location", "diet": "none", "travel_preferences": ["driving"]}
  ],
  "members_to_remove": ["Name"]
}
Use an empty string for modified_preferences or modified_budget when they are unchanged.

Previous restaurant recommendations:
%s

Current group members: %s
Current preferences: %s
Current budget: %s

User's followup question: %s`

// Classifier decides whether a follow-up turn needs a fresh restaurant search
// or can be answered directly, and owns all member-directory reconciliation.
type Classifier struct {
	LLM    llm.LLMClient
	Prompt string
}

func NewClassifier(llmClient llm.LLMClient, prompt string) *Classifier {
	if prompt == "" {
		prompt = defaultPrompt
	}
	return &Classifier{LLM: llmClient, Prompt: prompt}
}

type response struct {
	NeedsNewSearch      bool                `json:"needs_new_search"`
	ModifiedPreferences string              `json:"modified_preferences"`
	ModifiedBudget      string              `json:"modified_budget"`
	DirectAnswer        string              `json:"direct_answer"`
	Reasoning           string              `json:"reasoning"`
	MembersToAdd        []model.GroupMember `json:"members_to_add"`
	MembersToRemove     []string            `json:"members_to_remove"`
}

// Classify runs the follow-up decision for one turn and returns the updated
// state. intakeMembers are the people the intake stage found in the current
// message; they are merged here, not in intake.
//
// When the model call fails the stage degrades to a fresh search with the
// reconciled directory, so the turn still reaches a terminal state.
func (c *Classifier) Classify(ctx context.Context, st model.TurnState, intakeMembers []model.GroupMember) (model.TurnState, error) {
	// No followup is possible without a prior message.
	if len(st.Messages) == 0 {
		return st, nil
	}

	question := st.LastUserMessage()

	prompt := fmt.Sprintf(c.Prompt,
		st.FinalSuggestions,
		strings.Join(st.Members.Names(), ", "),
		st.Preferences,
		st.Budget,
		question,
	)

	raw, err := c.LLM.Generate(ctx, prompt)
	if err == nil {
		parsed, perr := common.ParseJSON[response](raw)
		if perr == nil {
			return c.apply(st, parsed, intakeMembers), nil
		}
		err = perr
	}

	slog.Warn("followup classification failed, defaulting to new search", "error", err)
	st.Members = reconcile(st.Members, intakeMembers, nil, nil)
	st.NeedsNewSearch = true
	st.FollowupResponse = "Let me run a fresh search for you."
	return st, nil
}

func (c *Classifier) apply(st model.TurnState, resp response, intakeMembers []model.GroupMember) model.TurnState {
	slog.Info("followup analysis",
		"needs_new_search", resp.NeedsNewSearch,
		"reasoning", resp.Reasoning,
	)

	if !resp.NeedsNewSearch {
		// Direct answer terminates the pipeline; the directory stays as-is.
		st.NeedsNewSearch = false
		st.FollowupResponse = resp.DirectAnswer
		st.FinalSuggestions = resp.DirectAnswer
		return st
	}

	if resp.ModifiedPreferences != "" {
		st.Preferences = resp.ModifiedPreferences
	}
	if resp.ModifiedBudget != "" {
		st.Budget = resp.ModifiedBudget
	}

	st.Members = reconcile(st.Members, intakeMembers, resp.MembersToRemove, resp.MembersToAdd)
	slog.Info("group reconciled", "members", st.Members.Names())

	st.NeedsNewSearch = true
	st.FollowupResponse = fmt.Sprintf(
		"I understand you want to modify your search. %s Let me find new recommendations for you.",
		resp.Reasoning,
	)
	return st
}

// reconcile applies the member delta in a fixed order: newly mentioned
// members join first, then removals, then the classifier's own additions.
// Upsert backfills diet/travel/coordinate defaults on every entry.
func reconcile(existing model.Directory, intakeMembers []model.GroupMember, remove []string, add []model.GroupMember) model.Directory {
	dir := existing.Clone()
	if dir == nil {
		dir = model.Directory{}
	}
	for _, m := range intakeMembers {
		dir = dir.Upsert(m)
	}
	for _, name := range remove {
		dir = dir.Remove(name)
	}
	for _, m := range add {
		dir = dir.Upsert(m)
	}
	return dir
}
