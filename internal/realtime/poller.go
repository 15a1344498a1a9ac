package realtime

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// ChangeSource is a pull-style change feed, typically the backend's changes
// endpoint. Events must come back ordered by At.
type ChangeSource interface {
	Changes(ctx context.Context, since time.Time) ([]Event, error)
}

// Poller adapts a ChangeSource into the push-style Feed contract by polling
// on an interval and publishing into a Broker. Poll failures are logged and
// retried on the next tick; the backend being briefly unreachable must not
// tear down the feed.
type Poller struct {
	source   ChangeSource
	broker   *Broker
	interval time.Duration
	log      *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewPoller creates a stopped poller publishing into broker
func NewPoller(source ChangeSource, broker *Broker, interval time.Duration, log *slog.Logger) *Poller {
	if log == nil {
		log = slog.Default()
	}
	return &Poller{
		source:   source,
		broker:   broker,
		interval: interval,
		log:      log,
	}
}

// Subscribe delegates to the underlying broker, so a Poller can be handed
// out as a Feed directly.
func (p *Poller) Subscribe(topic string, fn Handler) (Subscription, error) {
	return p.broker.Subscribe(topic, fn)
}

// Start begins polling in the background. Calling Start on a running poller
// is a no-op.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	p.cancel = cancel
	p.done = make(chan struct{})

	go p.run(ctx, p.done)
}

// Stop halts polling and waits for the loop to exit. Idempotent.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

func (p *Poller) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	cursor := time.Now()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		events, err := p.source.Changes(ctx, cursor)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			p.log.Warn("change feed poll failed", slog.Any("error", err))
			continue
		}

		for _, ev := range events {
			if ev.At.After(cursor) {
				cursor = ev.At
			}
			p.broker.Publish(ev)
		}
	}
}

var _ Feed = (*Poller)(nil)
