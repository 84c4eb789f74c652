package maps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	defaultGeocodeURL = "https://maps.googleapis.com/maps/api/geocode/json"
	defaultPlacesURL  = "https://places.googleapis.com/v1/places:searchText"
	defaultRoutesURL  = "https://routes.googleapis.com/distanceMatrix/v2:computeRouteMatrix"

	placesFieldMask = "places.displayName,places.rating,places.userRatingCount,places.formattedAddress,places.types,places.priceLevel,places.location"
	routesFieldMask = "originIndex,destinationIndex,duration,distanceMeters,status,condition"
)

// GoogleClient talks to the Google Geocoding, Places (New) and Routes APIs.
type GoogleClient struct {
	apiKey     string
	httpClient *http.Client

	// endpoint overrides, used by tests
	geocodeURL string
	placesURL  string
	routesURL  string
}

func NewGoogleClient(apiKey string) *GoogleClient {
	return &GoogleClient{
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		geocodeURL: defaultGeocodeURL,
		placesURL:  defaultPlacesURL,
		routesURL:  defaultRoutesURL,
	}
}

func (c *GoogleClient) Geocode(ctx context.Context, address string) (LatLng, bool, error) {
	q := url.Values{}
	q.Set("address", address)
	q.Set("key", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.geocodeURL+"?"+q.Encode(), nil)
	if err != nil {
		return LatLng{}, false, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return LatLng{}, false, fmt.Errorf("geocode request failed: %w", err)
	}
	defer resp.Body.Close()

	var body struct {
		Results []struct {
			Geometry struct {
				Location struct {
					Lat float64 `json:"lat"`
					Lng float64 `json:"lng"`
				} `json:"location"`
			} `json:"geometry"`
		} `json:"results"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return LatLng{}, false, fmt.Errorf("geocode decode failed: %w", err)
	}
	if len(body.Results) == 0 {
		return LatLng{}, false, nil
	}
	loc := body.Results[0].Geometry.Location
	return LatLng{Lat: loc.Lat, Lng: loc.Lng}, true, nil
}

func (c *GoogleClient) SearchNearby(ctx context.Context, center LatLng, query string, radiusMeters float64) ([]Place, error) {
	reqBody := map[string]any{
		"textQuery":      query,
		"includedType":   "restaurant",
		"maxResultCount": 20,
		"locationBias": map[string]any{
			"circle": map[string]any{
				"center": map[string]any{
					"latitude":  center.Lat,
					"longitude": center.Lng,
				},
				"radius": radiusMeters,
			},
		},
	}

	data, err := c.post(ctx, c.placesURL, reqBody, placesFieldMask)
	if err != nil {
		return nil, err
	}

	var body struct {
		Places []struct {
			DisplayName struct {
				Text string `json:"text"`
			} `json:"displayName"`
			FormattedAddress string   `json:"formattedAddress"`
			Rating           float64  `json:"rating"`
			UserRatingCount  int      `json:"userRatingCount"`
			Types            []string `json:"types"`
			PriceLevel       string   `json:"priceLevel"`
			Location         struct {
				Latitude  float64 `json:"latitude"`
				Longitude float64 `json:"longitude"`
			} `json:"location"`
		} `json:"places"`
	}
	if err := json.Unmarshal(data, &body); err != nil {
		return nil, fmt.Errorf("places decode failed: %w", err)
	}

	places := make([]Place, 0, len(body.Places))
	for _, p := range body.Places {
		name := p.DisplayName.Text
		if name == "" {
			name = "Unknown"
		}
		priceLevel := p.PriceLevel
		if priceLevel == "" {
			priceLevel = "PRICE_LEVEL_MODERATE"
		}
		places = append(places, Place{
			Name:             name,
			Address:          p.FormattedAddress,
			Rating:           p.Rating,
			UserRatingsTotal: p.UserRatingCount,
			Types:            p.Types,
			PriceLevel:       priceLevel,
			Location:         LatLng{Lat: p.Location.Latitude, Lng: p.Location.Longitude},
		})
	}
	return places, nil
}

func (c *GoogleClient) RouteMatrix(ctx context.Context, origins, destinations []LatLng, mode string) ([]RouteCell, error) {
	waypoint := func(p LatLng) map[string]any {
		return map[string]any{
			"waypoint": map[string]any{
				"location": map[string]any{
					"latLng": map[string]any{
						"latitude":  p.Lat,
						"longitude": p.Lng,
					},
				},
			},
		}
	}

	origin := func(p LatLng) map[string]any {
		w := waypoint(p)
		w["routeModifiers"] = map[string]any{"avoid_ferries": true}
		return w
	}

	originList := make([]map[string]any, 0, len(origins))
	for _, o := range origins {
		originList = append(originList, origin(o))
	}
	destList := make([]map[string]any, 0, len(destinations))
	for _, d := range destinations {
		destList = append(destList, waypoint(d))
	}

	reqBody := map[string]any{
		"origins":      originList,
		"destinations": destList,
		"travelMode":   mode,
	}
	// Traffic-aware routing is only valid for driving.
	if mode == "DRIVE" {
		reqBody["routingPreference"] = "TRAFFIC_AWARE"
	}

	data, err := c.post(ctx, c.routesURL, reqBody, routesFieldMask)
	if err != nil {
		return nil, err
	}

	var cells []struct {
		OriginIndex      int    `json:"originIndex"`
		DestinationIndex int    `json:"destinationIndex"`
		Duration         string `json:"duration"`
		DistanceMeters   int    `json:"distanceMeters"`
		Condition        string `json:"condition"`
	}
	if err := json.Unmarshal(data, &cells); err != nil {
		return nil, fmt.Errorf("route matrix decode failed: %w", err)
	}

	out := make([]RouteCell, 0, len(cells))
	for _, cell := range cells {
		out = append(out, RouteCell{
			OriginIndex:      cell.OriginIndex,
			DestinationIndex: cell.DestinationIndex,
			DurationSeconds:  parseDuration(cell.Duration),
			DistanceMeters:   cell.DistanceMeters,
			OK:               cell.Condition == "ROUTE_EXISTS",
		})
	}
	return out, nil
}

func (c *GoogleClient) post(ctx context.Context, endpoint string, reqBody map[string]any, fieldMask string) ([]byte, error) {
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Goog-Api-Key", c.apiKey)
	req.Header.Set("X-Goog-FieldMask", fieldMask)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, data)
	}
	return data, nil
}

// parseDuration converts the Routes API duration string ("160s") to seconds.
func parseDuration(d string) int {
	d = strings.TrimSuffix(d, "s")
	secs, err := strconv.ParseFloat(d, 64)
	if err != nil {
		return 0
	}
	return int(secs)
}
