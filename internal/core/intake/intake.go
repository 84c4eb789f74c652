package intake

import (
	"context"
	"fmt"

	"github.com/agenthands/forkcast/internal/core/common"
	"github.com/agenthands/forkcast/internal/core/model"
	"github.com/agenthands/forkcast/internal/llm"
)

// DefaultBudget is the per-person budget in dollars assumed when the user
// does not state one.
const DefaultBudget = "25"

const defaultPrompt = `You are a helpful assistant that parses user input into a structured format.

Extract the following information from the user's message:
1. Members: list of people with their name, location, dietary preferences, and travel preferences (driving, walking, biking, etc. Assume driving if not specified)
2. Preferences: short description of the group's preferences
3. Budget: budget per person in dollars (if not mentioned, use 25)

Only include people actually mentioned in this message. If the message mentions no people, return an empty members list.

Respond with ONLY a JSON object of this exact shape:
{
  "members": [
    {"name": "Annie", "location": "Midtown NYC", "diet": "none", "travel_preferences": ["driving"]}
  ],
  "preferences": "Thai, Indian, or Japanese food",
  "budget": 25
}

User's message:
%s`

// Parser turns free-text user input into a partial turn-state update. The
// actual extraction is one structured LLM call; this stage only supplies
// defaults and fails closed when the model produces nothing usable.
type Parser struct {
	LLM    llm.LLMClient
	Prompt string
}

// Result is the partial update produced from one message. Members holds only
// the people mentioned in this message; scope (replace vs. delta) is decided
// by the caller.
type Result struct {
	Members     []model.GroupMember
	Preferences string
	Budget      string
}

func NewParser(llmClient llm.LLMClient, prompt string) *Parser {
	if prompt == "" {
		prompt = defaultPrompt
	}
	return &Parser{LLM: llmClient, Prompt: prompt}
}

type response struct {
	Members     []model.GroupMember `json:"members"`
	Preferences string              `json:"preferences"`
	Budget      float64             `json:"budget"`
}

// Parse extracts members, preferences and budget from one user message.
// A failed model call or unparseable output is an error; no members are ever
// guessed from the raw text.
func (p *Parser) Parse(ctx context.Context, message string) (Result, error) {
	raw, err := p.LLM.Generate(ctx, fmt.Sprintf(p.Prompt, message))
	if err != nil {
		return Result{}, fmt.Errorf("intake model call failed: %w", err)
	}

	parsed, err := common.ParseJSON[response](raw)
	if err != nil {
		return Result{}, fmt.Errorf("intake parse failed: %w", err)
	}

	members := make([]model.GroupMember, 0, len(parsed.Members))
	for _, m := range parsed.Members {
		m.ApplyDefaults()
		members = append(members, m)
	}

	budget := DefaultBudget
	if parsed.Budget > 0 {
		budget = fmt.Sprintf("%g", parsed.Budget)
	}

	return Result{
		Members:     members,
		Preferences: parsed.Preferences,
		Budget:      budget,
	}, nil
}
