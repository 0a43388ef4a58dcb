// Package queue publishes change notifications to an event stream so
// other systems can follow translation activity.
package queue

import (
	"context"
	"time"
)

// Event kinds published to the stream.
const (
	EventTranslationChanged = "translation.changed"
	EventGlossaryChanged    = "glossary.changed"
	EventRepositoryUpdated  = "repository.updated"
	EventRepositoryPushed   = "repository.pushed"
)

// Event is one change notification.
type Event struct {
	Kind      string    `json:"kind"`
	Project   string    `json:"project"`
	Component string    `json:"component,omitempty"`
	Language  string    `json:"language,omitempty"`
	Author    string    `json:"author,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Events is the change notification publisher.
type Events interface {
	// Publish sends an event to the stream.
	Publish(ctx context.Context, event *Event) error
	// Close flushes pending events and releases the publisher.
	Close()
}

var _ Events = (*Noop)(nil)

// Noop drops all events. Used when no broker is configured.
type Noop struct {
}

func NewNoop() *Noop {
	return &Noop{}
}

func (n *Noop) Publish(ctx context.Context, event *Event) error {
	return nil
}

func (n *Noop) Close() {
}
