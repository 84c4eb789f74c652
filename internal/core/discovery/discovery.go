package discovery

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/agenthands/forkcast/internal/core/common"
	"github.com/agenthands/forkcast/internal/core/model"
	"github.com/agenthands/forkcast/internal/llm"
	"github.com/agenthands/forkcast/internal/maps"
)

// DefaultRadiusMeters bounds the nearby search around the group centroid.
const DefaultRadiusMeters = 5000

const defaultPrompt = `You are a restaurant recommendation specialist that helps groups find the perfect dining experience.
Your goal is to analyze restaurant options and provide fair, well-reasoned recommendations.

INSTRUCTIONS:
1. Use the search_places_nearby tool to find restaurants near the center location
2. Match restaurant options to the top 3 most frequent stated cuisine preferences
3. Respect the specified budget constraints
4. Prioritize restaurants with good ratings and reviews
5. Provide clear reasoning for your recommendations

When making recommendations:
- Rank restaurants by how well they satisfy the group's collective needs
- Consider factors like cuisine match, location fairness, price level, and ratings
- Explain why each recommendation works well for the group

When you are done searching, respond with ONLY a JSON object of this exact shape:
{
  "top_recommendations": [
    {
      "name": "Restaurant Name",
      "coordinates": [40.7128, -74.0060],
      "rating": 4.5,
      "user_ratings_total": 1200,
      "cuisine_types": ["thai_restaurant"],
      "price_level": "PRICE_LEVEL_INEXPENSIVE",
      "recommendation_reason": "why this works for the group"
    }
  ]
}

Find restaurants for a group with the following preferences: %s, budget: %s per person, center location: (%.4f, %.4f). Search for restaurants using the tool and recommend the top 3 that best serve this group.`

// Finder runs the candidate-discovery stage: geocode the group, compute the
// centroid, and let a tool-calling model search and rank nearby restaurants.
type Finder struct {
	LLM          llm.LLMClient
	Maps         maps.Service
	Prompt       string
	RadiusMeters float64
}

func NewFinder(llmClient llm.LLMClient, mapsClient maps.Service, prompt string, radiusMeters float64) *Finder {
	if prompt == "" {
		prompt = defaultPrompt
	}
	if radiusMeters <= 0 {
		radiusMeters = DefaultRadiusMeters
	}
	return &Finder{LLM: llmClient, Maps: mapsClient, Prompt: prompt, RadiusMeters: radiusMeters}
}

type response struct {
	TopRecommendations []model.Restaurant `json:"top_recommendations"`
}

// Find geocodes members as needed and returns a ranked shortlist. An agent
// that produces no parseable output yields an empty list, never an error;
// downstream stages tolerate the empty shortlist.
func (f *Finder) Find(ctx context.Context, members model.Directory, preferences, budget string) ([]model.Restaurant, error) {
	center, ok := f.centroid(ctx, members)
	if !ok {
		slog.Warn("no member could be geocoded, skipping restaurant search")
		return []model.Restaurant{}, nil
	}

	prompt := fmt.Sprintf(f.Prompt, preferences, budget, center.Lat, center.Lng)

	raw, err := f.LLM.GenerateWithTools(ctx, prompt, []llm.Tool{f.searchTool()})
	if err != nil {
		slog.Warn("restaurant agent call failed", "error", err)
		return []model.Restaurant{}, nil
	}

	parsed, err := common.ParseJSON[response](raw)
	if err != nil {
		slog.Warn("restaurant agent returned unparseable output", "error", err)
		return []model.Restaurant{}, nil
	}

	// Synthetic per-turn IDs; name stays a display field.
	candidates := parsed.TopRecommendations
	for i := range candidates {
		candidates[i].ID = i + 1
		if candidates[i].Coordinates == nil {
			candidates[i].Coordinates = []float64{}
		}
	}
	return candidates, nil
}

// centroid geocodes every member that is missing coordinates and returns the
// arithmetic mean position. A member whose address cannot be resolved is
// excluded with a warning, not a failure.
func (f *Finder) centroid(ctx context.Context, members model.Directory) (maps.LatLng, bool) {
	var sum maps.LatLng
	count := 0

	for i := range members {
		if !members[i].HasCoordinates() {
			loc, found, err := f.Maps.Geocode(ctx, members[i].Location)
			if err != nil || !found {
				slog.Warn("could not geocode member location",
					"member", members[i].Name,
					"location", members[i].Location,
					"error", err,
				)
				continue
			}
			members[i].Coordinates = []float64{loc.Lat, loc.Lng}
		}
		sum.Lat += members[i].Coordinates[0]
		sum.Lng += members[i].Coordinates[1]
		count++
	}

	if count == 0 {
		return maps.LatLng{}, false
	}
	return maps.LatLng{Lat: sum.Lat / float64(count), Lng: sum.Lng / float64(count)}, true
}

func (f *Finder) searchTool() llm.Tool {
	return llm.Tool{
		Name:        "search_places_nearby",
		Description: "Search for restaurants near a given location using the Google Places API.",
		Params: []llm.ToolParam{
			{Name: "latitude", Type: "number", Description: "Latitude of the search center", Required: true},
			{Name: "longitude", Type: "number", Description: "Longitude of the search center", Required: true},
			{Name: "preferences", Type: "string", Description: "Describes the group's preferences", Required: true},
			{Name: "radius", Type: "number", Description: "Search radius in meters"},
		},
		Invoke: func(ctx context.Context, input json.RawMessage) (string, error) {
			var args struct {
				Latitude    float64 `json:"latitude"`
				Longitude   float64 `json:"longitude"`
				Preferences string  `json:"preferences"`
				Radius      float64 `json:"radius"`
			}
			if err := json.Unmarshal(input, &args); err != nil {
				return "", fmt.Errorf("invalid search arguments: %w", err)
			}
			radius := args.Radius
			if radius <= 0 {
				radius = f.RadiusMeters
			}
			places, err := f.Maps.SearchNearby(ctx,
				maps.LatLng{Lat: args.Latitude, Lng: args.Longitude},
				args.Preferences, radius)
			if err != nil {
				return "", err
			}
			out, err := json.Marshal(places)
			if err != nil {
				return "", err
			}
			return string(out), nil
		},
	}
}
