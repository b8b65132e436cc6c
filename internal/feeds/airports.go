package feeds

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/aeroops/divert/internal/model"
)

var titleCaser = cases.Title(language.English)

// Airports fetches the alternate-airport records for a region from the
// airport intelligence directory. Records must carry all provider fields or
// mark them absent; absent descriptors arrive as nulls and stay nil.
func (c *Client) Airports(ctx context.Context, region Region) ([]model.AlternateAirport, error) {
	key := "airports:" + region.query()
	if cached, ok := c.airports.Get(key); ok {
		return cached, nil
	}

	var payload struct {
		Airports []model.AlternateAirport `json:"airports"`
	}
	url := fmt.Sprintf("%s?%s", c.opts.AirportDirectoryURL, region.query())
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, fmt.Errorf("airport directory: %w", err)
	}

	for i := range payload.Airports {
		payload.Airports[i].ICAO = strings.ToUpper(strings.TrimSpace(payload.Airports[i].ICAO))
		payload.Airports[i].Name = normalizeName(payload.Airports[i].Name)
	}

	c.airports.Set(key, payload.Airports)
	return payload.Airports, nil
}

// normalizeName title-cases the shouty all-caps names most directories
// publish, and leaves mixed-case names alone.
func normalizeName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || name != strings.ToUpper(name) {
		return name
	}
	return titleCaser.String(strings.ToLower(name))
}
