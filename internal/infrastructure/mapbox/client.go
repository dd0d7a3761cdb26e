package mapbox

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/route-planner/internal/config"
	"github.com/route-planner/internal/domain"
	"github.com/route-planner/internal/domain/repository"
	"github.com/route-planner/internal/pkg/errors"
	"go.uber.org/zap"
)

const (
	// Coordinate limits per request
	maxOptimizationPoints = 12
	maxDirectionsPoints   = 25
)

// Mapbox codes meaning the service could not connect the points
var noRouteCodes = map[string]bool{
	"NoRoute":   true,
	"NoTrips":   true,
	"NoSegment": true,
}

type client struct {
	httpClient  *http.Client
	baseURL     string
	accessToken string
	profile     string
	logger      *zap.Logger
}

// NewMapboxClient создает новый клиент для Mapbox API
func NewMapboxClient(cfg *config.MapboxConfig, logger *zap.Logger) repository.MapboxRepository {
	return &client{
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.RequestTimeout) * time.Second,
		},
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		accessToken: cfg.AccessToken,
		profile:     cfg.Profile,
		logger:      logger,
	}
}

type geocodingResponse struct {
	Features []struct {
		PlaceName string    `json:"place_name"`
		Center    []float64 `json:"center"` // [lon, lat]
	} `json:"features"`
}

// Geocode - прямое геокодирование через Geocoding API v5
func (c *client) Geocode(ctx context.Context, address string) (*domain.GeocodeResponse, error) {
	q := url.Values{}
	q.Set("access_token", c.accessToken)
	q.Set("limit", "1")

	endpoint := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?%s",
		c.baseURL, url.PathEscape(address), q.Encode())

	c.logger.Debug("Calling Mapbox Geocoding API", zap.String("address", address))

	var geoResp geocodingResponse
	if err := c.get(ctx, endpoint, &geoResp); err != nil {
		return nil, err
	}

	if len(geoResp.Features) == 0 {
		return &domain.GeocodeResponse{Status: domain.GeocodeStatusZeroResults}, nil
	}

	feature := geoResp.Features[0]
	if len(feature.Center) != 2 {
		c.logger.Warn("Mapbox feature without center", zap.String("place_name", feature.PlaceName))
		return &domain.GeocodeResponse{Status: domain.GeocodeStatusError}, nil
	}

	return &domain.GeocodeResponse{
		Status:    domain.GeocodeStatusOK,
		Location:  &domain.GeoPoint{Lat: feature.Center[1], Lng: feature.Center[0]},
		PlaceName: feature.PlaceName,
	}, nil
}

type routeLeg struct {
	Distance float64 `json:"distance"`
	Duration float64 `json:"duration"`
	Summary  string  `json:"summary"`
}

type route struct {
	Geometry json.RawMessage `json:"geometry"`
	Legs     []routeLeg      `json:"legs"`
	Distance float64         `json:"distance"`
	Duration float64         `json:"duration"`
}

type optimizationResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Waypoints []struct {
		WaypointIndex int `json:"waypoint_index"`
		TripsIndex    int `json:"trips_index"`
	} `json:"waypoints"`
	Trips []route `json:"trips"`
}

type directionsResponse struct {
	Code    string  `json:"code"`
	Message string  `json:"message"`
	Routes  []route `json:"routes"`
}

// Route - построение маршрута. Optimization API v1 when waypoint
// optimisation is requested, Directions API v5 otherwise.
func (c *client) Route(ctx context.Context, req domain.RouteRequest) (*domain.RouteResponse, error) {
	if req.OptimizeWaypoints {
		return c.optimizedTrip(ctx, req)
	}
	return c.directions(ctx, req)
}

func (c *client) optimizedTrip(ctx context.Context, req domain.RouteRequest) (*domain.RouteResponse, error) {
	roundtrip := req.Origin == req.Destination

	coords := make([]domain.GeoPoint, 0, len(req.Waypoints)+2)
	coords = append(coords, req.Origin)
	for _, wp := range req.Waypoints {
		coords = append(coords, wp.Location)
	}
	if !roundtrip {
		coords = append(coords, req.Destination)
	}

	if len(coords) > maxOptimizationPoints {
		return nil, errors.ErrTooManyWaypoints.WithDetails(map[string]interface{}{
			"coordinates": len(coords),
			"limit":       maxOptimizationPoints,
		})
	}

	q := c.routeQuery()
	q.Set("source", "first")
	if roundtrip {
		q.Set("roundtrip", "true")
	} else {
		q.Set("roundtrip", "false")
		q.Set("destination", "last")
	}

	endpoint := fmt.Sprintf("%s/optimized-trips/v1/%s/%s?%s",
		c.baseURL, c.profileFor(req.TravelMode), encodeCoordinates(coords), q.Encode())

	c.logger.Debug("Calling Mapbox Optimization API",
		zap.Int("coordinates", len(coords)),
		zap.Bool("roundtrip", roundtrip))

	var optResp optimizationResponse
	if err := c.get(ctx, endpoint, &optResp); err != nil {
		return nil, err
	}

	if err := checkCode(optResp.Code, optResp.Message); err != nil {
		return nil, err
	}
	if len(optResp.Trips) == 0 {
		return nil, errors.ErrRouteNotFound
	}
	if len(optResp.Waypoints) != len(coords) {
		return nil, fmt.Errorf("mapbox API returned %d waypoints for %d coordinates", len(optResp.Waypoints), len(coords))
	}

	// waypoints[k].waypoint_index is the visiting position of input coordinate k
	n := len(req.Waypoints)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return optResp.Waypoints[order[a]+1].WaypointIndex < optResp.Waypoints[order[b]+1].WaypointIndex
	})

	resp := toRouteResponse(optResp.Trips[0])
	resp.WaypointOrder = order

	c.logger.Debug("Mapbox Optimization API call successful",
		zap.Ints("waypoint_order", order),
		zap.Float64("distance", resp.DistanceMeters))

	return resp, nil
}

func (c *client) directions(ctx context.Context, req domain.RouteRequest) (*domain.RouteResponse, error) {
	coords := make([]domain.GeoPoint, 0, len(req.Waypoints)+2)
	coords = append(coords, req.Origin)
	for _, wp := range req.Waypoints {
		coords = append(coords, wp.Location)
	}
	coords = append(coords, req.Destination)

	if len(coords) > maxDirectionsPoints {
		return nil, errors.ErrTooManyWaypoints.WithDetails(map[string]interface{}{
			"coordinates": len(coords),
			"limit":       maxDirectionsPoints,
		})
	}

	q := c.routeQuery()
	endpoint := fmt.Sprintf("%s/directions/v5/%s/%s?%s",
		c.baseURL, c.profileFor(req.TravelMode), encodeCoordinates(coords), q.Encode())

	c.logger.Debug("Calling Mapbox Directions API", zap.Int("coordinates", len(coords)))

	var dirResp directionsResponse
	if err := c.get(ctx, endpoint, &dirResp); err != nil {
		return nil, err
	}

	if err := checkCode(dirResp.Code, dirResp.Message); err != nil {
		return nil, err
	}
	if len(dirResp.Routes) == 0 {
		return nil, errors.ErrRouteNotFound
	}

	resp := toRouteResponse(dirResp.Routes[0])
	resp.WaypointOrder = make([]int, len(req.Waypoints))
	for i := range resp.WaypointOrder {
		resp.WaypointOrder[i] = i
	}
	return resp, nil
}

func (c *client) routeQuery() url.Values {
	q := url.Values{}
	q.Set("access_token", c.accessToken)
	q.Set("geometries", "geojson")
	q.Set("overview", "full")
	return q
}

func (c *client) profileFor(mode domain.TravelMode) string {
	switch mode {
	case domain.TravelModeWalking:
		return "mapbox/walking"
	case domain.TravelModeCycling:
		return "mapbox/cycling"
	case domain.TravelModeDriving:
		return "mapbox/driving"
	}
	return c.profile
}

// get performs a GET and decodes a JSON body. Mapbox reports NoRoute-style
// failures with a non-200 status, so those bodies are still inspected.
func (c *client) get(ctx context.Context, endpoint string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		c.logger.Error("Failed to create request", zap.Error(err))
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// url.Error carries the full URL, access token included
		var urlErr *url.Error
		if stderrors.As(err, &urlErr) {
			err = fmt.Errorf("%s %s: %w", urlErr.Op, req.URL.Path, urlErr.Err)
		}
		c.logger.Error("Failed to execute request", zap.Error(err))
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)

		var coded struct {
			Code string `json:"code"`
		}
		if json.Unmarshal(body, &coded) == nil && noRouteCodes[coded.Code] {
			return errors.ErrRouteNotFound.WithDetails(map[string]interface{}{"code": coded.Code})
		}

		c.logger.Error("Mapbox API returned error",
			zap.Int("status_code", resp.StatusCode),
			zap.String("body", string(body)))
		return fmt.Errorf("mapbox API error: status %d, body: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.logger.Error("Failed to decode response", zap.Error(err))
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func checkCode(code, message string) error {
	if code == "Ok" {
		return nil
	}
	if noRouteCodes[code] {
		return errors.ErrRouteNotFound.WithDetails(map[string]interface{}{"code": code})
	}
	return fmt.Errorf("mapbox API returned code: %s (%s)", code, message)
}

func encodeCoordinates(points []domain.GeoPoint) string {
	parts := make([]string, len(points))
	for i, p := range points {
		parts[i] = fmt.Sprintf("%f,%f", p.Lng, p.Lat)
	}
	return strings.Join(parts, ";")
}

func toRouteResponse(r route) *domain.RouteResponse {
	legs := make([]domain.RouteLeg, len(r.Legs))
	for i, l := range r.Legs {
		legs[i] = domain.RouteLeg{
			DistanceMeters:  l.Distance,
			DurationSeconds: l.Duration,
			Summary:         l.Summary,
		}
	}
	return &domain.RouteResponse{
		Legs:            legs,
		DistanceMeters:  r.Distance,
		DurationSeconds: r.Duration,
		Geometry:        r.Geometry,
	}
}
