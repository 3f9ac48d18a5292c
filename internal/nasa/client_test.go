package nasa

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astroriga/skywatch/internal/logging"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := NewClient("demo-key", 5*time.Second, logging.Discard(), nil)
	client.SetBaseURL(srv.URL)
	return client
}

func TestAPOD(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/planetary/apod", r.URL.Path)
		assert.Equal(t, "demo-key", r.URL.Query().Get("api_key"))
		assert.Equal(t, "2024-03-20", r.URL.Query().Get("date"))

		w.Write([]byte(`{
			"title": "Equinox Moon",
			"explanation": "text",
			"url": "https://apod.nasa.gov/image.jpg",
			"date": "2024-03-20",
			"media_type": "image"
		}`))
	})

	apod, err := client.APOD(context.Background(), "2024-03-20")
	require.NoError(t, err)
	assert.Equal(t, "Equinox Moon", apod.Title)
	assert.Equal(t, "image", apod.MediaType)
}

func TestAPODDefaultsMediaType(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("date"))
		w.Write([]byte(`{"title": "t", "url": "u", "date": "d"}`))
	})

	apod, err := client.APOD(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "image", apod.MediaType)
}

func TestNEOFeedFlattens(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/neo/rest/v1/feed", r.URL.Path)
		assert.Equal(t, "2024-03-20", r.URL.Query().Get("start_date"))
		assert.Equal(t, "2024-03-24", r.URL.Query().Get("end_date"))

		w.Write([]byte(`{
			"near_earth_objects": {
				"2024-03-20": [{
					"name": "(2024 AA)",
					"estimated_diameter": {"kilometers": {"estimated_diameter_max": 0.31}},
					"is_potentially_hazardous_asteroid": true,
					"close_approach_data": [{"relative_velocity": {"kilometers_per_hour": "45000.5"}}]
				}],
				"2024-03-21": [{
					"name": "(2024 BB)",
					"estimated_diameter": {"kilometers": {"estimated_diameter_max": 0.02}},
					"is_potentially_hazardous_asteroid": false,
					"close_approach_data": []
				}]
			}
		}`))
	})

	neos, err := client.NEOFeed(context.Background(), "2024-03-20", "2024-03-24")
	require.NoError(t, err)
	require.Len(t, neos, 2)

	byName := map[string]NEO{}
	for _, n := range neos {
		byName[n.Name] = n
	}

	aa := byName["(2024 AA)"]
	assert.Equal(t, "2024-03-20", aa.Date)
	assert.Equal(t, 0.31, aa.DiameterKm)
	assert.True(t, aa.IsHazardous)
	assert.Equal(t, "45000.5", aa.VelocityKPH)

	bb := byName["(2024 BB)"]
	assert.False(t, bb.IsHazardous)
	assert.Empty(t, bb.VelocityKPH)
}

func TestMarsWeatherPassesThrough(t *testing.T) {
	raw := `{"sol_keys": ["675"], "675": {"AT": {"av": -62.3}}}`
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/insight_weather/", r.URL.Path)
		w.Write([]byte(raw))
	})

	got, err := client.MarsWeather(context.Background())
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(got))
}

func TestErrorStatus(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error": "rate limited"}`))
	})

	_, err := client.APOD(context.Background(), "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}
