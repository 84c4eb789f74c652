package fairness

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/agenthands/forkcast/internal/core/common"
	"github.com/agenthands/forkcast/internal/core/model"
	"github.com/agenthands/forkcast/internal/llm"
	"github.com/agenthands/forkcast/internal/maps"
)

const defaultPrompt = `You are a transportation fairness analyst for group dining.

Below is a travel time matrix: for each candidate restaurant, the travel time in minutes for every group member using their own preferred transport mode.

%s

Score each restaurant for fairness on a 0-100 scale:
- 100 means all members' travel times are nearly equal (most fair)
- 0 means travel times are maximally divergent
- Lower average travel time is a secondary tie-breaker only; fairness (low dispersion) dominates

Respond with ONLY a JSON object of this exact shape:
{
  "scores": [
    {
      "restaurant_id": 1,
      "restaurant_name": "Restaurant Name",
      "fairness_score": 87,
      "travel_times": {"Annie": 12, "Bob": 14}
    }
  ]
}
Include every restaurant exactly once and echo the travel times from the matrix.`

// Scorer computes per-member travel times through the route-matrix
// collaborator and delegates the fairness judgment to the model.
type Scorer struct {
	LLM    llm.LLMClient
	Maps   maps.Service
	Prompt string
}

func NewScorer(llmClient llm.LLMClient, mapsClient maps.Service, prompt string) *Scorer {
	if prompt == "" {
		prompt = defaultPrompt
	}
	return &Scorer{LLM: llmClient, Maps: mapsClient, Prompt: prompt}
}

type response struct {
	Scores []model.FairnessScore `json:"scores"`
}

// Score returns one FairnessScore per restaurant, joined by synthetic ID.
// An empty candidate list short-circuits to an empty score list; so does any
// failure to obtain travel times or parseable model output.
func (s *Scorer) Score(ctx context.Context, members model.Directory, restaurants []model.Restaurant) ([]model.FairnessScore, error) {
	if len(restaurants) == 0 {
		return []model.FairnessScore{}, nil
	}

	times := s.travelTimes(ctx, members, restaurants)
	if len(times) == 0 {
		slog.Warn("no travel times available, skipping fairness scoring")
		return []model.FairnessScore{}, nil
	}

	raw, err := s.LLM.Generate(ctx, fmt.Sprintf(s.Prompt, formatMatrix(restaurants, times)))
	if err != nil {
		slog.Warn("fairness scoring call failed", "error", err)
		return []model.FairnessScore{}, nil
	}

	parsed, err := common.ParseJSON[response](raw)
	if err != nil {
		slog.Warn("fairness scoring returned unparseable output", "error", err)
		return []model.FairnessScore{}, nil
	}

	byID := map[int]string{}
	for _, r := range restaurants {
		byID[r.ID] = r.Name
	}
	scores := parsed.Scores
	for i := range scores {
		scores[i].ClampFairness()
		if scores[i].RestaurantName == "" {
			scores[i].RestaurantName = byID[scores[i].RestaurantID]
		}
	}
	return scores, nil
}

// travelTimes batches one route-matrix call per distinct travel mode present
// in the directory, so each member's row comes from the matrix of their own
// mode. Returns member name -> per-restaurant minutes (indexed like the
// restaurants slice).
func (s *Scorer) travelTimes(ctx context.Context, members model.Directory, restaurants []model.Restaurant) map[string][]int {
	destinations := make([]maps.LatLng, 0, len(restaurants))
	for _, r := range restaurants {
		if len(r.Coordinates) != 2 {
			slog.Warn("restaurant missing coordinates", "restaurant", r.Name)
			return nil
		}
		destinations = append(destinations, maps.LatLng{Lat: r.Coordinates[0], Lng: r.Coordinates[1]})
	}

	// Group geocoded members by Routes API mode.
	byMode := map[string][]model.GroupMember{}
	for _, m := range members {
		if !m.HasCoordinates() {
			slog.Warn("member has no coordinates, excluded from travel scoring", "member", m.Name)
			continue
		}
		mode := maps.TravelMode(m.TravelMode())
		byMode[mode] = append(byMode[mode], m)
	}

	times := map[string][]int{}
	for mode, group := range byMode {
		origins := make([]maps.LatLng, 0, len(group))
		for _, m := range group {
			origins = append(origins, maps.LatLng{Lat: m.Coordinates[0], Lng: m.Coordinates[1]})
		}

		cells, err := s.Maps.RouteMatrix(ctx, origins, destinations, mode)
		if err != nil {
			slog.Warn("route matrix call failed", "mode", mode, "error", err)
			continue
		}

		for _, cell := range cells {
			if !cell.OK {
				continue
			}
			if cell.OriginIndex < 0 || cell.OriginIndex >= len(group) ||
				cell.DestinationIndex < 0 || cell.DestinationIndex >= len(destinations) {
				continue
			}
			name := group[cell.OriginIndex].Name
			if times[name] == nil {
				times[name] = make([]int, len(destinations))
			}
			times[name][cell.DestinationIndex] = (cell.DurationSeconds + 30) / 60
		}
	}
	return times
}

func formatMatrix(restaurants []model.Restaurant, times map[string][]int) string {
	var b strings.Builder
	for i, r := range restaurants {
		fmt.Fprintf(&b, "Restaurant %d: %s\n", r.ID, r.Name)
		for member, perRestaurant := range times {
			if i < len(perRestaurant) {
				fmt.Fprintf(&b, "  %s: %d min\n", member, perRestaurant[i])
			}
		}
	}
	return b.String()
}
