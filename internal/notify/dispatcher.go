package notify

import (
	"context"
	"sync"
	"time"

	"github.com/go-petr/pet-economy/internal/metrics"
	"github.com/rs/zerolog"
)

const deliverTimeout = 5 * time.Second

// Dispatcher queues notifications and delivers them from a single worker goroutine.
// A full queue drops the notification. Failed deliveries are logged and not retried.
type Dispatcher struct {
	sink   Sink
	queue  chan Notification
	logger zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher returns Dispatcher with a queue of the given size.
func NewDispatcher(sink Sink, size int, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		sink:   sink,
		queue:  make(chan Notification, size),
		logger: logger,
	}
}

// Start runs the delivery worker.
func (d *Dispatcher) Start() {
	d.wg.Add(1)

	go func() {
		defer d.wg.Done()

		for n := range d.queue {
			d.deliver(n)
		}
	}()
}

func (d *Dispatcher) deliver(n Notification) {
	ctx, cancel := context.WithTimeout(d.logger.WithContext(context.Background()), deliverTimeout)
	defer cancel()

	if err := d.sink.Deliver(ctx, n); err != nil {
		d.logger.Warn().Err(err).Int64("recipient", n.Recipient).Str("kind", string(n.Kind)).Msg("notification not delivered")
		metrics.RecordNotification(metrics.ResultFailed)

		return
	}

	metrics.RecordNotification(metrics.ResultOK)
}

// Notify implements Notifier.
func (d *Dispatcher) Notify(ctx context.Context, n Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		return
	}

	if n.At.IsZero() {
		n.At = time.Now()
	}

	select {
	case d.queue <- n:
	default:
		zerolog.Ctx(ctx).Warn().Int64("recipient", n.Recipient).Str("kind", string(n.Kind)).Msg("notification queue full")
		metrics.RecordNotification(metrics.ResultDropped)
	}
}

// Stop stops accepting notifications and waits until the queued ones are delivered.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.queue)
	}
	d.mu.Unlock()

	d.wg.Wait()
}
