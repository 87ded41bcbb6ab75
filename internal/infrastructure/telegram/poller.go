package telegram

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/bountyboard/points-ledger/internal/api/metrics"
)

// UpdateSource is the part of Client the poller needs.
type UpdateSource interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error)
}

// Enqueuer accepts updates for asynchronous handling.
type Enqueuer interface {
	Enqueue(u Update)
}

// Poller feeds long-polled updates into an Enqueuer.
type Poller struct {
	source  UpdateSource
	sink    Enqueuer
	timeout time.Duration
	backoff time.Duration
	log     zerolog.Logger
}

func NewPoller(source UpdateSource, sink Enqueuer, timeout time.Duration, log zerolog.Logger) *Poller {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Poller{source: source, sink: sink, timeout: timeout, backoff: time.Second, log: log}
}

// Run polls until ctx is cancelled. Each batch is acknowledged by asking for
// the next offset on the following call.
func (p *Poller) Run(ctx context.Context) {
	var offset int64
	for {
		if ctx.Err() != nil {
			return
		}

		updates, err := p.source.GetUpdates(ctx, offset, p.timeout)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.log.Warn().Err(err).Dur("backoff", p.backoff).Msg("getUpdates failed")
			select {
			case <-ctx.Done():
				return
			case <-time.After(p.backoff):
			}
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			metrics.UpdatesTotal.WithLabelValues("polling", "accepted").Inc()
			p.sink.Enqueue(u)
		}
	}
}
