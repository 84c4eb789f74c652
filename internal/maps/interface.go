package maps

import "context"

type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Place is one nearby-search result.
type Place struct {
	Name             string   `json:"name"`
	Address          string   `json:"address"`
	Rating           float64  `json:"rating"`
	UserRatingsTotal int      `json:"user_ratings_total"`
	Types            []string `json:"types"`
	PriceLevel       string   `json:"price_level"`
	Location         LatLng   `json:"location"`
}

// RouteCell is one origin×destination entry of a route matrix. OK is false
// when the API could not produce a route for that pair.
type RouteCell struct {
	OriginIndex      int  `json:"origin_index"`
	DestinationIndex int  `json:"destination_index"`
	DurationSeconds  int  `json:"duration_seconds"`
	DistanceMeters   int  `json:"distance_meters"`
	OK               bool `json:"ok"`
}

// Service is the mapping collaborator the pipeline depends on. Geocode
// reports found=false for an unresolvable address instead of an error so a
// single bad member location never fails a turn.
type Service interface {
	Geocode(ctx context.Context, address string) (LatLng, bool, error)
	SearchNearby(ctx context.Context, center LatLng, query string, radiusMeters float64) ([]Place, error)
	RouteMatrix(ctx context.Context, origins, destinations []LatLng, mode string) ([]RouteCell, error)
}

// TravelMode maps a member's stated travel preference onto the Routes API
// vocabulary. Unknown preferences fall back to driving.
func TravelMode(preference string) string {
	switch preference {
	case "walking", "walk":
		return "WALK"
	case "biking", "bicycling", "bike":
		return "BICYCLE"
	case "transit", "public transit":
		return "TRANSIT"
	default:
		return "DRIVE"
	}
}
