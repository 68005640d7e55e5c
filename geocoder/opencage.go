package geocoder

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"time"

	"cat_connect/domain"

	"github.com/sony/gobreaker"
)

// Forward geocoding through the OpenCage API, guarded by a circuit breaker so
// a flapping upstream cannot pile up requests.
type OpenCageGeocoder struct {
	apiKey     string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
}

func New(apiKey string, httpClient *http.Client) *OpenCageGeocoder {
	return &OpenCageGeocoder{
		apiKey:     apiKey,
		httpClient: httpClient,
		cb:         circuitBreaker("geocoder"),
	}
}

type openCageResponse struct {
	Results []struct {
		Geometry struct {
			Lat float64 `json:"lat"`
			Lng float64 `json:"lng"`
		} `json:"geometry"`
	} `json:"results"`
}

func (g *OpenCageGeocoder) Geocode(ctx context.Context, postalCode, countryCode string) (*domain.GeoPoint, error) {
	result, breakerErr := g.cb.Execute(func() (interface{}, error) {
		return g.lookup(ctx, postalCode, countryCode)
	})
	if breakerErr != nil {
		return nil, breakerErr
	}

	point, ok := result.(*domain.GeoPoint)
	if !ok {
		return nil, fmt.Errorf("Internal server error: Unexpected result type")
	}
	return point, nil
}

func (g *OpenCageGeocoder) lookup(ctx context.Context, postalCode, countryCode string) (*domain.GeoPoint, error) {
	query := url.Values{}
	query.Set("q", fmt.Sprintf("%s,%s", postalCode, countryCode))
	query.Set("key", g.apiKey)
	query.Set("limit", "1")

	endpoint := fmt.Sprintf("https://api.opencagedata.com/geocode/v1/json?%s", query.Encode())
	request, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, err
	}

	response, err := g.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("GeocoderError: %v", err)
	}
	defer response.Body.Close()

	if response.StatusCode != 200 {
		return nil, fmt.Errorf("geocoder returned status %d", response.StatusCode)
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, err
	}

	var decoded openCageResponse
	err = json.Unmarshal(body, &decoded)
	if err != nil {
		fmt.Println("Error unmarshaling JSON:", err)
		return nil, err
	}

	if len(decoded.Results) == 0 {
		return nil, fmt.Errorf("no geocoding result for %s,%s", postalCode, countryCode)
	}

	geometry := decoded.Results[0].Geometry
	return domain.NewGeoPoint(geometry.Lng, geometry.Lat), nil
}

func circuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(
		gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     10 * time.Second,
			Interval:    0,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 2
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				log.Printf("Circuit Breaker '%s' changed from '%s' to '%s'\n", name, from, to)
			},
		},
	)
}
