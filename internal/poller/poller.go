package poller

import (
	"context"
	"log/slog"
	"time"

	"github.com/tmorgan318/ravenshade/internal/logger"
	"github.com/tmorgan318/ravenshade/internal/store"
)

// StatusClient is the slice of the gateway the poller needs.
type StatusClient interface {
	PollStatus(ctx context.Context) (bool, error)
}

// Poller drives the visible processing indicator from the backend's
// self-reported status, independent of action-triggered requests. Its
// writes land in the store's serverProcessing input, so they combine
// with, rather than race, the controller's own busy toggling.
type Poller struct {
	gw       StatusClient
	store    *store.Store
	interval time.Duration
	logger   *slog.Logger
}

func New(gw StatusClient, st *store.Store, interval time.Duration, log *slog.Logger) *Poller {
	return &Poller{
		gw:       gw,
		store:    st,
		interval: interval,
		logger:   log,
	}
}

// PollOnce performs a single status query. Errors are absorbed: a failed
// poll leaves the indicator as it was and the next tick tries again.
func (p *Poller) PollOnce(ctx context.Context) {
	processing, err := p.gw.PollStatus(ctx)
	if err != nil {
		logger.WithError(p.logger, err).Debug("status poll failed")
		return
	}
	p.store.SetServerProcessing(processing)
}

// Run polls on a fixed period until the context is cancelled. The
// console embeds PollOnce in its own tick loop instead; Run exists for
// headless embedding.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.PollOnce(ctx)
		}
	}
}
