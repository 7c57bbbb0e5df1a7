// Package geo resolves coordinates into place names and route geometries.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Point is a WGS84 coordinate pair.
type Point struct {
	Lat float64
	Lng float64
}

// Place is a named coordinate returned by a forward search.
type Place struct {
	Name  string
	Point Point
}

// Geocoder resolves free-text queries and coordinates into places.
type Geocoder interface {
	Search(ctx context.Context, query string) ([]Place, error)
	ReverseGeocode(ctx context.Context, p Point) (string, error)
}

// GeometrySource produces the polyline drawn between two stops. A nil
// polyline means no geometry is available, not an error.
type GeometrySource interface {
	Geometry(ctx context.Context, from, to Point, transport string) ([]Point, error)
}

// FallbackLabel is the name used when reverse geocoding fails or is
// unavailable.
func FallbackLabel(p Point) string {
	return fmt.Sprintf("Location at %.4f, %.4f", p.Lat, p.Lng)
}

// Nominatim is a Geocoder backed by a Nominatim-compatible HTTP API.
type Nominatim struct {
	baseURL string
	client  *http.Client
}

// NewNominatim creates a Nominatim client against the given base URL.
func NewNominatim(baseURL string, timeout time.Duration) *Nominatim {
	return &Nominatim{
		baseURL: baseURL,
		client:  &http.Client{Timeout: timeout},
	}
}

type nominatimSearchResult struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

// Search resolves a free-text query via the /search endpoint.
func (n *Nominatim) Search(ctx context.Context, query string) ([]Place, error) {
	endpoint, err := url.Parse(n.baseURL + "/search")
	if err != nil {
		return nil, fmt.Errorf("parsing geocoder url: %w", err)
	}

	q := endpoint.Query()
	q.Set("format", "jsonv2")
	q.Set("q", query)
	q.Set("limit", "5")
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building geocoder request: %w", err)
	}
	req.Header.Set("User-Agent", "tripline")

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("searching places: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("searching places: unexpected status %d", resp.StatusCode)
	}

	var results []nominatimSearchResult
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("decoding geocoder response: %w", err)
	}

	places := make([]Place, 0, len(results))
	for _, r := range results {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lng, lngErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lngErr != nil {
			continue
		}
		name := r.Name
		if name == "" {
			name = r.DisplayName
		}
		places = append(places, Place{Name: name, Point: Point{Lat: lat, Lng: lng}})
	}
	return places, nil
}

type nominatimResponse struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name"`
	Address     struct {
		Attraction string `json:"attraction"`
		Road       string `json:"road"`
		Suburb     string `json:"suburb"`
		City       string `json:"city"`
		Town       string `json:"town"`
		Village    string `json:"village"`
	} `json:"address"`
}

// ReverseGeocode resolves the coordinate via the /reverse endpoint. It
// prefers the most specific named feature and falls back to coarser
// address parts.
func (n *Nominatim) ReverseGeocode(ctx context.Context, p Point) (string, error) {
	endpoint, err := url.Parse(n.baseURL + "/reverse")
	if err != nil {
		return "", fmt.Errorf("parsing geocoder url: %w", err)
	}

	q := endpoint.Query()
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(p.Lng, 'f', -1, 64))
	endpoint.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("building geocoder request: %w", err)
	}
	req.Header.Set("User-Agent", "tripline")

	resp, err := n.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("reverse geocoding: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("reverse geocoding: unexpected status %d", resp.StatusCode)
	}

	var body nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("decoding geocoder response: %w", err)
	}

	for _, candidate := range []string{
		body.Name,
		body.Address.Attraction,
		body.Address.Road,
		body.Address.Suburb,
		body.Address.City,
		body.Address.Town,
		body.Address.Village,
		body.DisplayName,
	} {
		if candidate != "" {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("reverse geocoding: empty response")
}

// Label resolves a name for the coordinate, falling back to a
// coordinate label when the geocoder errors out.
func Label(ctx context.Context, g Geocoder, p Point) string {
	if g != nil {
		if name, err := g.ReverseGeocode(ctx, p); err == nil {
			return name
		}
	}
	return FallbackLabel(p)
}

// StraightLine is a GeometrySource that connects two stops directly,
// regardless of transport. It is the fallback when no routing backend
// is configured.
type StraightLine struct{}

// Geometry returns the two endpoints as-is.
func (StraightLine) Geometry(_ context.Context, from, to Point, _ string) ([]Point, error) {
	return []Point{from, to}, nil
}
