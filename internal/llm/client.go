package llm

import (
	"context"
	"encoding/json"
)

// LLMClient is the provider-agnostic surface the pipeline stages depend on.
// Generate is a plain prompt-in, text-out call. GenerateWithTools additionally
// offers the model an allow-list of invocable tools; the model may call zero
// or more of them before producing its final text.
type LLMClient interface {
	Generate(ctx context.Context, prompt string) (string, error)
	GenerateWithTools(ctx context.Context, prompt string, tools []Tool) (string, error)
}

// ToolParam describes one typed parameter of a tool. Type is a JSON schema
// primitive ("string", "number", "integer", "boolean", "array"); Items names
// the element type when Type is "array".
type ToolParam struct {
	Name        string
	Type        string
	Description string
	Required    bool
	Items       string
}

// Tool is a named function the model may invoke during GenerateWithTools.
// Invoke receives the model-supplied arguments as a JSON object and returns
// the tool result serialized for the model.
type Tool struct {
	Name        string
	Description string
	Params      []ToolParam
	Invoke      func(ctx context.Context, input json.RawMessage) (string, error)
}

// maxToolRounds bounds the tool loop so a misbehaving model cannot spin the
// turn forever.
const maxToolRounds = 5

// InputSchema renders the tool's parameters as a JSON schema object, the
// shape both the Anthropic and OpenAI APIs accept directly.
func (t Tool) InputSchema() map[string]any {
	props := map[string]any{}
	var required []string
	for _, p := range t.Params {
		prop := map[string]any{
			"type":        p.Type,
			"description": p.Description,
		}
		if p.Type == "array" && p.Items != "" {
			prop["items"] = map[string]any{"type": p.Items}
		}
		props[p.Name] = prop
		if p.Required {
			required = append(required, p.Name)
		}
	}
	schema := map[string]any{
		"type":       "object",
		"properties": props,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
