package followup

import (
	"context"

	"github.com/agenthands/forkcast/internal/llm"
)

type MockLLM struct {
	Response string
	Err      error
	Prompts  []string
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func (m *MockLLM) GenerateWithTools(ctx context.Context, prompt string, tools []llm.Tool) (string, error) {
	return m.Generate(ctx, prompt)
}
