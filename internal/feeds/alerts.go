package feeds

import (
	"context"
	"fmt"

	"github.com/aeroops/divert/internal/model"
)

// Alerts fetches the active NOTAM/TFR/warning list for a region. The feed
// is the source of truth for alert lifecycle; this client never creates or
// closes alerts.
func (c *Client) Alerts(ctx context.Context, region Region) ([]model.AirspaceAlert, error) {
	key := "alerts:" + region.query()
	if cached, ok := c.alerts.Get(key); ok {
		return cached, nil
	}

	var payload struct {
		Alerts []model.AirspaceAlert `json:"alerts"`
	}
	url := fmt.Sprintf("%s?%s", c.opts.AlertURL, region.query())
	if err := c.getJSON(ctx, url, &payload); err != nil {
		return nil, fmt.Errorf("alert feed: %w", err)
	}

	c.alerts.Set(key, payload.Alerts)
	return payload.Alerts, nil
}
