package offlinequeue

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
)

// Monitor watches connectivity to the record store and drains the queue
// whenever the store is reachable and mutations are pending. Reachability is
// probed against healthURL once per interval.
type Monitor struct {
	queue     *Queue
	sender    Sender
	healthURL string
	interval  time.Duration
	client    *http.Client
}

// NewMonitor creates a monitor draining queue through sender
func NewMonitor(queue *Queue, sender Sender, healthURL string, interval time.Duration) *Monitor {
	return &Monitor{
		queue:     queue,
		sender:    sender,
		healthURL: healthURL,
		interval:  interval,
		client:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (m *Monitor) online(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, m.healthURL, nil)
	if err != nil {
		return false
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// Run blocks until ctx is cancelled, probing and draining on each tick
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	wasOnline := false
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		if !m.online(ctx) {
			if wasOnline {
				log.Warn().Str("health_url", m.healthURL).Msg("record store unreachable")
			}
			wasOnline = false
			continue
		}
		if !wasOnline {
			log.Info().Str("health_url", m.healthURL).Msg("record store reachable")
		}
		wasOnline = true

		count, err := m.queue.PendingCount(ctx)
		if err != nil {
			log.Error().Err(err).Msg("failed to read pending count")
			continue
		}
		if count == 0 {
			continue
		}

		sent, err := m.queue.Drain(ctx, m.sender)
		if err != nil {
			log.Warn().Err(err).Int("sent", sent).Msg("drain finished with failures")
			continue
		}
		log.Info().Int("sent", sent).Msg("offline queue drained")
	}
}
