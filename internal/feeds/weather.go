package feeds

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/aeroops/divert/internal/model"
)

// Weather fetches live weather for the given ICAO codes. The result is
// keyed by ICAO; stations the provider has no observation for are simply
// absent from the map.
func (c *Client) Weather(ctx context.Context, icaos []string) (map[string]model.AirportWeather, error) {
	if len(icaos) == 0 {
		return map[string]model.AirportWeather{}, nil
	}

	// stable key regardless of candidate ordering
	sorted := make([]string, len(icaos))
	copy(sorted, icaos)
	sort.Strings(sorted)
	key := "wx:" + strings.Join(sorted, ",")

	if cached, ok := c.weather.Get(key); ok {
		return cached, nil
	}

	var payload struct {
		Stations map[string]model.AirportWeather `json:"stations"`
	}
	url := fmt.Sprintf("%s?icao=%s", c.opts.WeatherURL, strings.Join(sorted, ","))
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, fmt.Errorf("weather feed: %w", err)
	}
	if payload.Stations == nil {
		payload.Stations = map[string]model.AirportWeather{}
	}

	c.weather.Set(key, payload.Stations)
	return payload.Stations, nil
}
