// Package nasa is a client for the NASA Open APIs used by the site:
// Astronomy Picture of the Day, the Near Earth Object feed, and the
// archived InSight Mars weather feed.
package nasa

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/astroriga/skywatch/internal/observability"
)

const defaultBaseURL = "https://api.nasa.gov"

// APOD is the Astronomy Picture of the Day.
type APOD struct {
	Title       string `json:"title"`
	Explanation string `json:"explanation"`
	URL         string `json:"url"`
	Date        string `json:"date"`
	MediaType   string `json:"media_type"`
}

// NEO is one near-Earth object close approach, flattened from the feed's
// nested per-date structure.
type NEO struct {
	Name        string  `json:"name"`
	Date        string  `json:"date"`
	DiameterKm  float64 `json:"diameter_km"` // estimated maximum
	IsHazardous bool    `json:"is_hazardous"`
	VelocityKPH string  `json:"velocity_kph"`
}

// Client calls the NASA Open APIs.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
	metrics    *observability.Metrics
}

// NewClient creates a NASA API client. metrics may be nil.
func NewClient(apiKey string, timeout time.Duration, log zerolog.Logger, metrics *observability.Metrics) *Client {
	return &Client{
		apiKey:     apiKey,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        log,
		metrics:    metrics,
	}
}

// SetBaseURL overrides the API host; used by tests.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

// APOD fetches the Astronomy Picture of the Day. date is YYYY-MM-DD or
// empty for today's picture.
func (c *Client) APOD(ctx context.Context, date string) (*APOD, error) {
	params := url.Values{"api_key": {c.apiKey}}
	if date != "" {
		params.Set("date", date)
	}

	var apod APOD
	if err := c.get(ctx, "/planetary/apod", params, "apod", &apod); err != nil {
		return nil, err
	}
	if apod.MediaType == "" {
		apod.MediaType = "image"
	}
	return &apod, nil
}

// neoFeedResponse mirrors the nested NeoWs feed shape.
type neoFeedResponse struct {
	NearEarthObjects map[string][]struct {
		Name              string `json:"name"`
		EstimatedDiameter struct {
			Kilometers struct {
				EstimatedDiameterMax float64 `json:"estimated_diameter_max"`
			} `json:"kilometers"`
		} `json:"estimated_diameter"`
		IsPotentiallyHazardous bool `json:"is_potentially_hazardous_asteroid"`
		CloseApproachData      []struct {
			RelativeVelocity struct {
				KilometersPerHour string `json:"kilometers_per_hour"`
			} `json:"relative_velocity"`
		} `json:"close_approach_data"`
	} `json:"near_earth_objects"`
}

// NEOFeed fetches near-Earth objects between two YYYY-MM-DD dates and
// flattens the per-date map into a single list.
func (c *Client) NEOFeed(ctx context.Context, startDate, endDate string) ([]NEO, error) {
	params := url.Values{
		"api_key":    {c.apiKey},
		"start_date": {startDate},
		"end_date":   {endDate},
	}

	var feed neoFeedResponse
	if err := c.get(ctx, "/neo/rest/v1/feed", params, "neo", &feed); err != nil {
		return nil, err
	}

	var neos []NEO
	for date, objects := range feed.NearEarthObjects {
		for _, obj := range objects {
			neo := NEO{
				Name:        obj.Name,
				Date:        date,
				DiameterKm:  obj.EstimatedDiameter.Kilometers.EstimatedDiameterMax,
				IsHazardous: obj.IsPotentiallyHazardous,
			}
			if len(obj.CloseApproachData) > 0 {
				neo.VelocityKPH = obj.CloseApproachData[0].RelativeVelocity.KilometersPerHour
			}
			neos = append(neos, neo)
		}
	}
	return neos, nil
}

// MarsWeather fetches the InSight Mars weather feed. The mission is over
// and the feed is archival, so the payload is passed through unshaped.
func (c *Client) MarsWeather(ctx context.Context) (json.RawMessage, error) {
	params := url.Values{
		"api_key":  {c.apiKey},
		"feedtype": {"json"},
		"ver":      {"1.0"},
	}

	var raw json.RawMessage
	if err := c.get(ctx, "/insight_weather/", params, "mars_weather", &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, endpoint string, dest any) error {
	reqURL := c.baseURL + path + "?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("nasa: create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.observe(endpoint, time.Since(start))
	if err != nil {
		c.count(endpoint, "error")
		return fmt.Errorf("nasa: %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.count(endpoint, "error")
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("nasa: %s returned %d: %s", endpoint, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		c.count(endpoint, "error")
		return fmt.Errorf("nasa: decode %s response: %w", endpoint, err)
	}

	c.count(endpoint, "success")
	return nil
}

func (c *Client) count(endpoint, outcome string) {
	if c.metrics != nil {
		c.metrics.NASARequests.WithLabelValues(endpoint, outcome).Inc()
	}
}

func (c *Client) observe(endpoint string, d time.Duration) {
	if c.metrics != nil {
		c.metrics.NASADuration.WithLabelValues(endpoint).Observe(d.Seconds())
	}
}
