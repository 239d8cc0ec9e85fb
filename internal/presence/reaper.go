package presence

import (
	"log/slog"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/Solid7731/flowclient-api/internal/domain"
	"github.com/Solid7731/flowclient-api/internal/metrics"
)

// Reaper periodically sweeps the registry, evicting records whose last
// heartbeat is older than the staleness timeout. It holds no record data
// itself; between ticks it is idle.
type Reaper struct {
	registry *Registry
	clock    clockwork.Clock
	interval time.Duration
	timeout  time.Duration
	feed     domain.CountPublisher
}

// NewReaper creates a reaper sweeping registry every interval with the
// given staleness timeout. feed may be nil when no live feed is attached.
func NewReaper(registry *Registry, clock clockwork.Clock, interval, timeout time.Duration, feed domain.CountPublisher) *Reaper {
	return &Reaper{
		registry: registry,
		clock:    clock,
		interval: interval,
		timeout:  timeout,
		feed:     feed,
	}
}

// Start launches the background sweep loop and returns a stop function
// that cancels the ticker and ends the goroutine.
func (p *Reaper) Start() func() {
	ticker := p.clock.NewTicker(p.interval)
	done := make(chan struct{})

	go func() {
		for {
			select {
			case <-ticker.Chan():
				p.sweepOnce()
			case <-done:
				ticker.Stop()
				return
			}
		}
	}()

	return func() {
		close(done)
	}
}

// sweepOnce runs a single sweep pass. Silent when nothing expired.
func (p *Reaper) sweepOnce() {
	removed := p.registry.Sweep(p.clock.Now(), p.timeout)
	metrics.SweepsTotal.Inc()

	if removed == 0 {
		return
	}

	remaining := p.registry.Count()
	metrics.ReapedTotal.Add(float64(removed))
	slog.Info("Expired stale presence records",
		"removed", removed,
		"online", remaining,
	)

	if p.feed != nil {
		p.feed.Publish(remaining)
	}
}
