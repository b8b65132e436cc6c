// Package feeds holds the boundary clients for the three upstream data
// contracts the engine consumes: the airport directory, the live weather
// feed, and the NOTAM/alert feed. All retries, timeouts, and caching live
// here; the engine itself performs no I/O.
package feeds

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"

	"github.com/aeroops/divert/internal/cache"
	"github.com/aeroops/divert/internal/model"
)

// Region is a lat/lon bounding box, OpenSky parameter style.
type Region struct {
	LatMin float64
	LatMax float64
	LonMin float64
	LonMax float64
}

// RegionAround returns a box extending radiusNm from the position in every
// direction, with latitude clamped to the poles.
func RegionAround(pos model.Position, radiusNm float64) Region {
	latDelta := radiusNm / 60
	lonDelta := latDelta
	if c := math.Cos(pos.Lat * math.Pi / 180); c > 0.05 {
		lonDelta = latDelta / c
	}
	return Region{
		LatMin: math.Max(pos.Lat-latDelta, -90),
		LatMax: math.Min(pos.Lat+latDelta, 90),
		LonMin: pos.Lon - lonDelta,
		LonMax: pos.Lon + lonDelta,
	}
}

func (r Region) query() string {
	return fmt.Sprintf("lamin=%.4f&lamax=%.4f&lomin=%.4f&lomax=%.4f",
		r.LatMin, r.LatMax, r.LonMin, r.LonMax)
}

// AirportDataProvider supplies candidate alternates for a region. The
// scorer is tested against fixed fixtures behind this interface.
type AirportDataProvider interface {
	Airports(ctx context.Context, region Region) ([]model.AlternateAirport, error)
}

// WeatherProvider supplies live weather keyed by ICAO code.
type WeatherProvider interface {
	Weather(ctx context.Context, icaos []string) (map[string]model.AirportWeather, error)
}

// AlertProvider supplies the active airspace alert list for a region.
type AlertProvider interface {
	Alerts(ctx context.Context, region Region) ([]model.AirspaceAlert, error)
}

// Options configures the HTTP feed client.
type Options struct {
	AirportDirectoryURL string
	WeatherURL          string
	AlertURL            string
	Timeout             time.Duration
	CacheTTL            time.Duration
	CacheSize           int
}

// Client implements all three providers over HTTP with a shared client and
// a TTL/LRU response cache per feed.
type Client struct {
	http *http.Client
	opts Options

	airports *cache.Cache[[]model.AlternateAirport]
	weather  *cache.Cache[map[string]model.AirportWeather]
	alerts   *cache.Cache[[]model.AirspaceAlert]
}

func NewClient(opts Options) (*Client, error) {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 256
	}

	airports, err := cache.New[[]model.AlternateAirport](opts.CacheSize, opts.CacheTTL, nil)
	if err != nil {
		return nil, err
	}
	weather, err := cache.New[map[string]model.AirportWeather](opts.CacheSize, opts.CacheTTL, nil)
	if err != nil {
		return nil, err
	}
	alerts, err := cache.New[[]model.AirspaceAlert](opts.CacheSize, opts.CacheTTL, nil)
	if err != nil {
		return nil, err
	}

	return &Client{
		http:     &http.Client{Timeout: opts.Timeout},
		opts:     opts,
		airports: airports,
		weather:  weather,
		alerts:   alerts,
	}, nil
}

// getJSON performs a GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("GET %s: status %d: %s", url, resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", url, err)
	}
	return nil
}
