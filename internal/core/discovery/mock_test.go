package discovery

import (
	"context"
	"encoding/json"

	"github.com/agenthands/forkcast/internal/llm"
	"github.com/agenthands/forkcast/internal/maps"
)

type MockLLM struct {
	Response string
	Err      error
	Prompts  []string

	// ToolInput, when set, is passed to the first offered tool before the
	// response is returned, mimicking a model that searches once.
	ToolInput  string
	ToolOutput string
}

func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

func (m *MockLLM) GenerateWithTools(ctx context.Context, prompt string, tools []llm.Tool) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return "", m.Err
	}
	if m.ToolInput != "" && len(tools) > 0 {
		out, err := tools[0].Invoke(ctx, json.RawMessage(m.ToolInput))
		if err != nil {
			return "", err
		}
		m.ToolOutput = out
	}
	return m.Response, nil
}

type MockMaps struct {
	Geocoded   map[string]maps.LatLng
	GeocodeErr error

	Places    []maps.Place
	PlacesErr error

	SearchQueries []string
	SearchRadii   []float64

	Cells     []maps.RouteCell
	RoutesErr error
	Modes     []string
}

func (m *MockMaps) Geocode(ctx context.Context, address string) (maps.LatLng, bool, error) {
	if m.GeocodeErr != nil {
		return maps.LatLng{}, false, m.GeocodeErr
	}
	loc, ok := m.Geocoded[address]
	return loc, ok, nil
}

func (m *MockMaps) SearchNearby(ctx context.Context, center maps.LatLng, query string, radiusMeters float64) ([]maps.Place, error) {
	m.SearchQueries = append(m.SearchQueries, query)
	m.SearchRadii = append(m.SearchRadii, radiusMeters)
	if m.PlacesErr != nil {
		return nil, m.PlacesErr
	}
	return m.Places, nil
}

func (m *MockMaps) RouteMatrix(ctx context.Context, origins, destinations []maps.LatLng, mode string) ([]maps.RouteCell, error) {
	m.Modes = append(m.Modes, mode)
	if m.RoutesErr != nil {
		return nil, m.RoutesErr
	}
	return m.Cells, nil
}
