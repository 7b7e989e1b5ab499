package tracking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ClickEvent is emitted after a click has been recorded against a
// newsletter. Subscribers receive it fire-and-forget; no return value is
// observed.
type ClickEvent struct {
	ID           uuid.UUID `json:"id"`
	NewsletterID int64     `json:"newsletter_id"`
	Email        string    `json:"email"`
	URL          string    `json:"url"`
	Timestamp    time.Time `json:"timestamp"`
}

// Subscriber consumes click events. Implementations must tolerate
// concurrent invocation.
type Subscriber func(ctx context.Context, evt ClickEvent)

// Bus fans click events out to registered subscribers. Registration is
// explicit; there is no implicit lifecycle ordering between subscribers.
type Bus struct {
	mu          sync.RWMutex
	subscribers []Subscriber
}

// NewBus creates an event bus with no subscribers.
func NewBus() *Bus { return &Bus{} }

// Subscribe registers a subscriber for all future events.
func (b *Bus) Subscribe(s Subscriber) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, s)
}

// Publish delivers the event to every subscriber asynchronously. The
// request that produced the event never waits on delivery.
func (b *Bus) Publish(evt ClickEvent) {
	b.mu.RLock()
	subscribers := make([]Subscriber, len(b.subscribers))
	copy(subscribers, b.subscribers)
	b.mu.RUnlock()

	for _, s := range subscribers {
		go func(s Subscriber) {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			s(ctx, evt)
		}(s)
	}
}
