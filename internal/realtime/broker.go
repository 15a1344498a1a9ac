package realtime

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Broker is an in-process Feed with fan-out delivery. The polling feed
// publishes into it, and tests drive it directly.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[string]Handler // topic -> subscription id -> handler
}

// NewBroker creates an empty broker
func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[string]Handler),
	}
}

// Subscribe registers fn for every event published on topic
func (b *Broker) Subscribe(topic string, fn Handler) (Subscription, error) {
	id := uuid.NewString()

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.subs[topic] == nil {
		b.subs[topic] = make(map[string]Handler)
	}
	b.subs[topic][id] = fn

	return &brokerSubscription{broker: b, topic: topic, id: id}, nil
}

// Publish delivers ev to every subscriber of its topic. Missing ID and
// timestamp fields are filled in. Delivery is synchronous; handlers that
// need isolation run their own goroutines.
func (b *Broker) Publish(ev Event) {
	if ev.ID == "" {
		ev.ID = uuid.NewString()
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[ev.Topic]))
	for _, fn := range b.subs[ev.Topic] {
		handlers = append(handlers, fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(ev)
	}
}

// SubscriberCount reports how many handlers are registered on topic
func (b *Broker) SubscriberCount(topic string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs[topic])
}

type brokerSubscription struct {
	broker *Broker
	topic  string
	id     string
	once   sync.Once
}

func (s *brokerSubscription) Unsubscribe() {
	s.once.Do(func() {
		s.broker.mu.Lock()
		defer s.broker.mu.Unlock()

		delete(s.broker.subs[s.topic], s.id)
		if len(s.broker.subs[s.topic]) == 0 {
			delete(s.broker.subs, s.topic)
		}
	})
}
