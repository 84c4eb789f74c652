package core

import (
	"context"

	"github.com/agenthands/forkcast/internal/llm"
	"github.com/agenthands/forkcast/internal/maps"
)

// MockLLM pops scripted responses in call order, shared across Generate and
// GenerateWithTools so a whole turn can be scripted as one queue.
type MockLLM struct {
	Response      string
	ResponseQueue []string
	Err           error
	Prompts       []string
}

func (m *MockLLM) next() (string, error) {
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.ResponseQueue) > 0 {
		resp := m.ResponseQueue[0]
		m.ResponseQueue = m.ResponseQueue[1:]
		return resp, nil
	}
	return m.Response, nil
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	return m.next()
}

func (m *MockLLM) GenerateWithTools(ctx context.Context, prompt string, tools []llm.Tool) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	return m.next()
}

type MockMaps struct {
	Geocoded map[string]maps.LatLng
	Places   []maps.Place
	Cells    []maps.RouteCell
}

func (m *MockMaps) Geocode(ctx context.Context, address string) (maps.LatLng, bool, error) {
	loc, ok := m.Geocoded[address]
	return loc, ok, nil
}

func (m *MockMaps) SearchNearby(ctx context.Context, center maps.LatLng, query string, radiusMeters float64) ([]maps.Place, error) {
	return m.Places, nil
}

func (m *MockMaps) RouteMatrix(ctx context.Context, origins, destinations []maps.LatLng, mode string) ([]maps.RouteCell, error) {
	return m.Cells, nil
}
