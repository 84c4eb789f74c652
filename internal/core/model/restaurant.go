package model

// Restaurant is one candidate produced by discovery. Immutable once built.
// ID is a per-turn sequence number assigned at creation; downstream records
// join on it rather than on the display name.
type Restaurant struct {
	ID                   int       `json:"id"`
	Name                 string    `json:"name"`
	Coordinates          []float64 `json:"coordinates"`
	Rating               float64   `json:"rating"`
	UserRatingsTotal     int       `json:"user_ratings_total"`
	CuisineTypes         []string  `json:"cuisine_types"`
	PriceLevel           string    `json:"price_level"`
	RecommendationReason string    `json:"recommendation_reason"`
}

// FairnessScore is the scored travel outcome for one restaurant. Fairness is
// in [0, 100]; 100 means all member travel times are nearly equal.
type FairnessScore struct {
	RestaurantID   int            `json:"restaurant_id"`
	RestaurantName string         `json:"restaurant_name"`
	Fairness       float64        `json:"fairness_score"`
	TravelTimes    map[string]int `json:"travel_times"`
}

// ClampFairness pins the score into the documented [0, 100] range.
func (s *FairnessScore) ClampFairness() {
	if s.Fairness < 0 {
		s.Fairness = 0
	}
	if s.Fairness > 100 {
		s.Fairness = 100
	}
}
