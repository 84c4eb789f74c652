package present

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/agenthands/forkcast/internal/core/model"
	"github.com/agenthands/forkcast/internal/llm"
)

// MapSearchBase prefixes every restaurant hyperlink; the restaurant name with
// spaces replaced by '+' is appended to it.
const MapSearchBase = "https://www.google.com/maps/search/"

// NoRecommendations is the terminal text for a turn whose search produced
// nothing.
const NoRecommendations = "Sorry, I couldn't find any restaurant recommendations for your group this time. You could try different preferences or a wider budget."

const defaultPrompt = `You are a presentation assistant for a restaurant recommendation system.

Render the restaurants below as a clean markdown table with EXACTLY these columns, in this order:
Restaurant (as a markdown hyperlink using the provided map link), Rating, Reviews, Cuisine, Price, then one travel time column per group member (minutes).

Keep the rows in the order given. After the table add one short sentence per restaurant summarizing why it suits the group. Do not add any other commentary.

Restaurants:
%s`

// Renderer builds the final user-visible message from the scored shortlist.
type Renderer struct {
	LLM    llm.LLMClient
	Prompt string
}

func NewRenderer(llmClient llm.LLMClient, prompt string) *Renderer {
	if prompt == "" {
		prompt = defaultPrompt
	}
	return &Renderer{LLM: llmClient, Prompt: prompt}
}

// MapLink builds the map-search hyperlink for a restaurant name.
func MapLink(name string) string {
	return MapSearchBase + strings.ReplaceAll(name, " ", "+")
}

// Ranked pairs a restaurant with its score for selection and rendering.
type Ranked struct {
	Restaurant model.Restaurant
	Score      *model.FairnessScore
}

// Render selects the top 3 candidates and delegates table rendering to the
// model. It always returns usable text: empty candidates produce a fixed
// message and a failed model call falls back to a plain table.
func (r *Renderer) Render(ctx context.Context, restaurants []model.Restaurant, scores []model.FairnessScore) string {
	if len(restaurants) == 0 {
		return NoRecommendations
	}

	top := SelectTop(restaurants, scores, 3)

	text, err := r.LLM.Generate(ctx, fmt.Sprintf(r.Prompt, describe(top)))
	if err != nil || strings.TrimSpace(text) == "" {
		slog.Warn("presentation call failed, using fallback table", "error", err)
		return fallbackTable(top)
	}
	return text
}

// SelectTop orders candidates by fairness score descending, breaking ties by
// rating then review count, and returns at most n. Unscored restaurants sort
// after scored ones.
func SelectTop(restaurants []model.Restaurant, scores []model.FairnessScore, n int) []Ranked {
	byID := map[int]*model.FairnessScore{}
	byName := map[string]*model.FairnessScore{}
	for i := range scores {
		byID[scores[i].RestaurantID] = &scores[i]
		byName[strings.ToLower(scores[i].RestaurantName)] = &scores[i]
	}

	out := make([]Ranked, 0, len(restaurants))
	for _, rest := range restaurants {
		score := byID[rest.ID]
		if score == nil {
			score = byName[strings.ToLower(rest.Name)]
		}
		out = append(out, Ranked{Restaurant: rest, Score: score})
	}

	sort.SliceStable(out, func(i, j int) bool {
		si, sj := fairnessOf(out[i]), fairnessOf(out[j])
		if si != sj {
			return si > sj
		}
		if out[i].Restaurant.Rating != out[j].Restaurant.Rating {
			return out[i].Restaurant.Rating > out[j].Restaurant.Rating
		}
		return out[i].Restaurant.UserRatingsTotal > out[j].Restaurant.UserRatingsTotal
	})

	if len(out) > n {
		out = out[:n]
	}
	return out
}

func fairnessOf(r Ranked) float64 {
	if r.Score == nil {
		return -1
	}
	return r.Score.Fairness
}

// PriceSymbol maps a Places price-level category to a display symbol.
func PriceSymbol(priceLevel string) string {
	switch priceLevel {
	case "PRICE_LEVEL_FREE", "PRICE_LEVEL_INEXPENSIVE":
		return "$"
	case "PRICE_LEVEL_MODERATE":
		return "$$"
	case "PRICE_LEVEL_EXPENSIVE":
		return "$$$"
	case "PRICE_LEVEL_VERY_EXPENSIVE":
		return "$$$$"
	default:
		return "$$"
	}
}

func describe(top []Ranked) string {
	var b strings.Builder
	for i, t := range top {
		rest := t.Restaurant
		fmt.Fprintf(&b, "%d. %s\n", i+1, rest.Name)
		fmt.Fprintf(&b, "   map link: %s\n", MapLink(rest.Name))
		fmt.Fprintf(&b, "   rating: %.1f (%d reviews)\n", rest.Rating, rest.UserRatingsTotal)
		fmt.Fprintf(&b, "   cuisine: %s\n", strings.Join(rest.CuisineTypes, ", "))
		fmt.Fprintf(&b, "   price: %s\n", PriceSymbol(rest.PriceLevel))
		if t.Score != nil {
			fmt.Fprintf(&b, "   fairness: %.0f/100\n", t.Score.Fairness)
			for member, minutes := range t.Score.TravelTimes {
				fmt.Fprintf(&b, "   travel %s: %d min\n", member, minutes)
			}
		}
		if rest.RecommendationReason != "" {
			fmt.Fprintf(&b, "   reason: %s\n", rest.RecommendationReason)
		}
	}
	return b.String()
}

// fallbackTable renders the shortlist without the model so the turn always
// ends with populated suggestions.
func fallbackTable(top []Ranked) string {
	var b strings.Builder
	b.WriteString("| Restaurant | Rating | Reviews | Cuisine | Price |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, t := range top {
		rest := t.Restaurant
		fmt.Fprintf(&b, "| [%s](%s) | %.1f | %d | %s | %s |\n",
			rest.Name, MapLink(rest.Name), rest.Rating, rest.UserRatingsTotal,
			strings.Join(rest.CuisineTypes, ", "), PriceSymbol(rest.PriceLevel))
	}
	return b.String()
}
