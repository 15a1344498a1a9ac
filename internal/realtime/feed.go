// Package realtime delivers backend change notifications to interested
// screens and keeps their cached reads coherent: every notification
// invalidates the dependent cache keys and triggers a full reload of the
// dependent query.
package realtime

import (
	"encoding/json"
	"time"
)

// Op is the kind of mutation an event describes
type Op string

const (
	OpInsert Op = "insert"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Event is an opaque change notification. Consumers never patch state from
// the payload; they reload their query instead.
type Event struct {
	ID      string          `json:"id"`
	Topic   string          `json:"topic"`
	Op      Op              `json:"op"`
	Payload json.RawMessage `json:"payload,omitempty"`
	At      time.Time       `json:"at"`
}

// Handler receives events for a subscription
type Handler func(Event)

// Subscription is the release handle returned by Subscribe. Unsubscribe is
// idempotent and safe to call from any goroutine.
type Subscription interface {
	Unsubscribe()
}

// Feed is a source of change notifications
type Feed interface {
	Subscribe(topic string, fn Handler) (Subscription, error)
}
