package llm

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(ctx context.Context, apiKey string, model string) (*GeminiClient, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, err
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Generate(ctx context.Context, prompt string) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.1)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}
	return firstText(resp)
}

func (c *GeminiClient) GenerateWithTools(ctx context.Context, prompt string, tools []Tool) (string, error) {
	model := c.client.GenerativeModel(c.model)
	model.SetTemperature(0.1)

	byName := map[string]Tool{}
	decls := make([]*genai.FunctionDeclaration, 0, len(tools))
	for _, t := range tools {
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        t.Name,
			Description: t.Description,
			Parameters:  geminiSchema(t),
		})
		byName[t.Name] = t
	}
	model.Tools = []*genai.Tool{{FunctionDeclarations: decls}}

	session := model.StartChat()
	resp, err := session.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		return "", err
	}

	for round := 0; round < maxToolRounds; round++ {
		call := firstFunctionCall(resp)
		if call == nil {
			return firstText(resp)
		}

		tool, ok := byName[call.Name]
		var result string
		if !ok {
			result = fmt.Sprintf("unknown tool: %s", call.Name)
		} else {
			args, merr := json.Marshal(call.Args)
			if merr != nil {
				return "", fmt.Errorf("failed to encode tool args: %w", merr)
			}
			out, terr := tool.Invoke(ctx, args)
			if terr != nil {
				result = fmt.Sprintf("tool error: %v", terr)
			} else {
				result = out
			}
		}

		resp, err = session.SendMessage(ctx, genai.FunctionResponse{
			Name:     call.Name,
			Response: map[string]any{"result": result},
		})
		if err != nil {
			return "", err
		}
	}

	return "", fmt.Errorf("tool loop exceeded %d rounds", maxToolRounds)
}

func firstText(resp *genai.GenerateContentResponse) (string, error) {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				return string(txt), nil
			}
		}
	}
	return "", fmt.Errorf("no response candidates or content")
}

func firstFunctionCall(resp *genai.GenerateContentResponse) *genai.FunctionCall {
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if fc, ok := part.(genai.FunctionCall); ok {
				return &fc
			}
		}
	}
	return nil
}

// geminiSchema maps the generic tool parameter list onto genai's typed schema.
func geminiSchema(t Tool) *genai.Schema {
	props := map[string]*genai.Schema{}
	var required []string
	for _, p := range t.Params {
		s := &genai.Schema{
			Type:        geminiType(p.Type),
			Description: p.Description,
		}
		if p.Type == "array" {
			s.Items = &genai.Schema{Type: geminiType(p.Items)}
		}
		props[p.Name] = s
		if p.Required {
			required = append(required, p.Name)
		}
	}
	return &genai.Schema{
		Type:       genai.TypeObject,
		Properties: props,
		Required:   required,
	}
}

func geminiType(t string) genai.Type {
	switch t {
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	default:
		return genai.TypeString
	}
}
