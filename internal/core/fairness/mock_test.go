package fairness

import (
	"context"

	"github.com/agenthands/forkcast/internal/llm"
	"github.com/agenthands/forkcast/internal/maps"
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

type MockMaps struct {
	// CellsByMode maps a Routes API travel mode to the matrix returned for it.
	CellsByMode map[string][]maps.RouteCell
	RoutesErr   error
	Calls       []string
	Origins     map[string][]maps.LatLng
}

func (m *MockMaps) Geocode(ctx context.Context, address string) (maps.LatLng, bool, error) {
	return maps.LatLng{}, false, nil
}

func (m *MockMaps) SearchNearby(ctx context.Context, center maps.LatLng, query string, radiusMeters float64) ([]maps.Place, error) {
	return nil, nil
}

func (m *MockMaps) RouteMatrix(ctx context.Context, origins, destinations []maps.LatLng, mode string) ([]maps.RouteCell, error) {
	m.Calls = append(m.Calls, mode)
	if m.Origins == nil {
		m.Origins = map[string][]maps.LatLng{}
	}
	m.Origins[mode] = origins
	if m.RoutesErr != nil {
		return nil, m.RoutesErr
	}
	return m.CellsByMode[mode], nil
}
