package source

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/realakshayk/good-eats/internal"
)

// VenueSearcher finds restaurants near a point.
type VenueSearcher interface {
	Search(ctx context.Context, lat, lon float64, radiusMeters int, keyword string) ([]internal.Venue, error)
}

// PlacesClient searches the Google Places nearby-search endpoint.
// Quota rejections are retried with exponential backoff before giving up.
type PlacesClient struct {
	client  *http.Client
	apiKey  string
	baseURL string
	logger  internal.Logger
	backoff func() retry.Backoff
}

var _ VenueSearcher = (*PlacesClient)(nil)

func NewPlacesClient(apiKey, baseURL string, logger internal.Logger) *PlacesClient {
	return &PlacesClient{
		client:  &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: baseURL,
		logger:  logger,
		backoff: func() retry.Backoff { return retry.WithMaxRetries(3, retry.NewExponential(time.Second)) },
	}
}

type placesResponse struct {
	Status  string `json:"status"`
	Results []struct {
		PlaceID  string `json:"place_id"`
		Name     string `json:"name"`
		Vicinity string `json:"vicinity"`
		Geometry struct {
			Location struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"location"`
		} `json:"geometry"`
		Rating  float64 `json:"rating"`
		Website string  `json:"website"`
	} `json:"results"`
}

func (p *PlacesClient) Search(ctx context.Context, lat, lon float64, radiusMeters int, keyword string) ([]internal.Venue, error) {
	q := url.Values{}
	q.Set("location", fmt.Sprintf("%f,%f", lat, lon))
	q.Set("radius", fmt.Sprintf("%d", radiusMeters))
	q.Set("type", "restaurant")
	if keyword != "" {
		q.Set("keyword", keyword)
	}
	q.Set("key", p.apiKey)
	endpoint := p.baseURL + "/nearbysearch/json?" + q.Encode()

	var venues []internal.Venue
	err := retry.Do(ctx, p.backoff(), func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		resp, err := p.client.Do(req)
		if err != nil {
			p.logger.Warnf("places: request failed: %v", err)
			return retry.RetryableError(err)
		}
		defer resp.Body.Close()

		var body placesResponse
		if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
			return fmt.Errorf("places: decode response: %w", err)
		}
		switch body.Status {
		case "OK", "ZERO_RESULTS":
		case "OVER_QUERY_LIMIT":
			p.logger.Warnf("places: over query limit, backing off")
			return retry.RetryableError(fmt.Errorf("places: over query limit"))
		default:
			return fmt.Errorf("places: status %s", body.Status)
		}

		venues = make([]internal.Venue, 0, len(body.Results))
		for _, r := range body.Results {
			venues = append(venues, internal.Venue{
				ID:      r.PlaceID,
				Name:    r.Name,
				Address: r.Vicinity,
				Lat:     r.Geometry.Location.Lat,
				Lon:     r.Geometry.Location.Lng,
				Website: r.Website,
				Rating:  r.Rating,
			})
		}
		return nil
	})
	if err != nil {
		return nil, &internal.MealDiscoveryError{Message: "venue search failed", Details: err.Error()}
	}
	return venues, nil
}
