package queue

import (
	"context"
	"encoding/binary"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/bountyboard/points-ledger/internal/api/metrics"
	"github.com/bountyboard/points-ledger/internal/infrastructure/telegram"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// UpdateHandler processes one update.
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, u telegram.Update) error
}

// Dispatcher routes updates to a fixed set of workers by chat ID, so updates
// from one chat are handled in arrival order.
type Dispatcher struct {
	workers []chan telegram.Update
	labels  []string
	handler UpdateHandler
	log     zerolog.Logger
	wg      sync.WaitGroup
	stopped chan struct{}
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, handler UpdateHandler, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan telegram.Update, numWorkers),
		labels:  make([]string, numWorkers),
		handler: handler,
		log:     log,
		stopped: make(chan struct{}),
	}
	for i := range d.workers {
		d.workers[i] = make(chan telegram.Update, channelBuffer)
		d.labels[i] = strconv.Itoa(i)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled,
// and from then on Enqueue drops updates instead of blocking.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
	go func() {
		<-ctx.Done()
		close(d.stopped)
	}()
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands u to the worker owning its chat. It blocks while that
// worker's buffer is full, until the dispatcher is stopped.
func (d *Dispatcher) Enqueue(u telegram.Update) {
	i := d.shardIndex(u.ChatID())
	select {
	case <-d.stopped:
		d.dropped(u, i)
		return
	default:
	}
	select {
	case d.workers[i] <- u:
		metrics.QueueDepth.WithLabelValues(d.labels[i]).Set(float64(len(d.workers[i])))
	case <-d.stopped:
		d.dropped(u, i)
	}
}

func (d *Dispatcher) dropped(u telegram.Update, worker int) {
	d.log.Warn().
		Int64("update_id", u.UpdateID).
		Int64("chat_id", u.ChatID()).
		Int("worker_id", worker).
		Msg("dispatcher stopped, update dropped")
}

// shardIndex maps a chat ID deterministically to a worker index.
func (d *Dispatcher) shardIndex(chatID int64) int {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(chatID))
	h := fnv.New32a()
	_, _ = h.Write(b[:])
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan telegram.Update) {
	defer d.wg.Done()
	label := d.labels[id]
	for {
		select {
		case <-ctx.Done():
			if n := len(ch); n > 0 {
				d.log.Warn().Int("worker_id", id).Int("pending", n).Msg("worker stopped with unhandled updates")
			}
			return
		case u, ok := <-ch:
			if !ok {
				return
			}
			metrics.QueueDepth.WithLabelValues(label).Set(float64(len(ch)))

			start := time.Now()
			if err := d.handler.HandleUpdate(ctx, u); err != nil {
				d.log.Error().Err(err).
					Int64("update_id", u.UpdateID).
					Int64("chat_id", u.ChatID()).
					Int("worker_id", id).
					Msg("update handling failed")
			}
			metrics.UpdateProcessingDuration.Observe(time.Since(start).Seconds())
		}
	}
}
