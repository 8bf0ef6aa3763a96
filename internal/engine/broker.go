package engine

import (
	"sync"

	"github.com/seantiz/rssd/internal/model"
)

// subscriberBufferSize is the channel buffer for each event subscriber.
// Events are dropped if a subscriber falls this far behind.
const subscriberBufferSize = 64

// EventBroker fans engine events out to subscribers. It is safe for
// concurrent use.
type EventBroker struct {
	mu     sync.Mutex
	subs   map[int]chan model.Event
	nextID int
	closed bool
}

// NewEventBroker creates a new event broker.
func NewEventBroker() *EventBroker {
	return &EventBroker{
		subs: make(map[int]chan model.Event),
	}
}

// Subscribe returns a channel that receives every event published from now
// on and an unsubscribe function. After Close the returned channel is
// already closed.
func (b *EventBroker) Subscribe() (<-chan model.Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan model.Event, subscriberBufferSize)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	return ch, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}
}

// Publish sends an event to all subscribers. Events are dropped for
// subscribers whose buffers are full.
func (b *EventBroker) Publish(e model.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			// Drop the event rather than stall the render loop.
		}
	}
}

// Subscribers returns the number of active subscribers.
func (b *EventBroker) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close closes every subscriber channel. Later Subscribe calls return a
// closed channel and Publish becomes a no-op.
func (b *EventBroker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
}
