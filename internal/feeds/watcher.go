package feeds

import (
	"context"
	"log"
	"time"

	"github.com/aeroops/divert/internal/model"
)

// Watcher polls the alert feed for a fixed watch region on an interval and
// hands each refreshed list to the notify callback (the server pushes it to
// connected operator consoles).
type Watcher struct {
	provider AlertProvider
	region   Region
	interval time.Duration
	notify   func([]model.AirspaceAlert)
	stop     chan struct{}
}

func NewWatcher(p AlertProvider, region Region, interval time.Duration, notify func([]model.AirspaceAlert)) *Watcher {
	return &Watcher{
		provider: p,
		region:   region,
		interval: interval,
		notify:   notify,
		stop:     make(chan struct{}),
	}
}

// Start blocks, refreshing until Stop is called or the context ends.
func (w *Watcher) Start(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.Printf("alert watcher started (interval %v)", w.interval)
	w.refresh(ctx)

	for {
		select {
		case <-ticker.C:
			w.refresh(ctx)
		case <-w.stop:
			log.Println("alert watcher stopped")
			return
		case <-ctx.Done():
			log.Println("alert watcher context cancelled")
			return
		}
	}
}

func (w *Watcher) Stop() {
	close(w.stop)
}

func (w *Watcher) refresh(ctx context.Context) {
	alerts, err := w.provider.Alerts(ctx, w.region)
	if err != nil {
		log.Printf("alert watcher refresh failed: %v", err)
		return
	}
	w.notify(alerts)
}
