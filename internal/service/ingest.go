package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/utsavjain246/shortify/internal/domain"
)

var (
	clicksEnqueuedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortify_clicks_enqueued_total",
		Help: "Click events accepted into the ingest buffer.",
	})

	clicksDroppedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortify_clicks_dropped_total",
		Help: "Click events dropped because the ingest buffer was full or closed.",
	})

	clickWriteFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "shortify_click_write_failures_total",
		Help: "Click events that failed to persist.",
	})
)

// ClickWriter persists one click event.
type ClickWriter interface {
	Insert(ctx context.Context, click *domain.ClickEvent) error
}

// ClickIngest decouples click persistence from the redirect path: Record
// is a non-blocking enqueue into a bounded buffer, and background workers
// drain it into the writer. A full buffer drops the event — losing an
// occasional click is acceptable, slowing a redirect is not — and no
// backpressure ever reaches redirect traffic.
type ClickIngest struct {
	writer       ClickWriter
	events       chan domain.ClickEvent
	done         chan struct{}
	workers      int
	writeTimeout time.Duration
	wg           sync.WaitGroup
	closeOnce    sync.Once
	log          *slog.Logger
}

func NewClickIngest(writer ClickWriter, bufferSize, workers int, writeTimeout time.Duration, log *slog.Logger) *ClickIngest {
	if bufferSize < 1 {
		bufferSize = 1
	}
	if workers < 1 {
		workers = 1
	}
	if log == nil {
		log = slog.Default()
	}
	return &ClickIngest{
		writer:       writer,
		events:       make(chan domain.ClickEvent, bufferSize),
		done:         make(chan struct{}),
		workers:      workers,
		writeTimeout: writeTimeout,
		log:          log,
	}
}

// Start launches the background writers.
func (i *ClickIngest) Start() {
	for n := 0; n < i.workers; n++ {
		i.wg.Add(1)
		go i.run()
	}
}

// Record enqueues an event without blocking. Returns false when the event
// was dropped (buffer full or ingest shut down); the drop is metered and
// logged but never surfaced to the redirect caller.
func (i *ClickIngest) Record(event domain.ClickEvent) bool {
	select {
	case <-i.done:
		clicksDroppedTotal.Inc()
		return false
	default:
	}

	select {
	case i.events <- event:
		clicksEnqueuedTotal.Inc()
		return true
	default:
		clicksDroppedTotal.Inc()
		i.log.Warn("click ingest buffer full, dropping event", "link_id", event.LinkID)
		return false
	}
}

// Close stops intake and drains whatever is already buffered. Each pending
// write is still bounded by the per-write timeout.
func (i *ClickIngest) Close() {
	i.closeOnce.Do(func() {
		close(i.done)
	})
	i.wg.Wait()
}

func (i *ClickIngest) run() {
	defer i.wg.Done()

	for {
		select {
		case event := <-i.events:
			i.write(event)
		case <-i.done:
			for {
				select {
				case event := <-i.events:
					i.write(event)
				default:
					return
				}
			}
		}
	}
}

func (i *ClickIngest) write(event domain.ClickEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), i.writeTimeout)
	defer cancel()

	if err := i.writer.Insert(ctx, &event); err != nil {
		clickWriteFailuresTotal.Inc()
		i.log.Error("click event write failed", "link_id", event.LinkID, "error", err)
	}
}
