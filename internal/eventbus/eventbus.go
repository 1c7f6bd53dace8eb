// Package eventbus is the Data Store's multi-producer/multi-consumer
// broadcast channel of StoreEvent (spec §4.8). Grounded on codeNERD's
// internal/world file-change notification fan-out, generalized here to a
// bounded per-subscriber channel with lossy-on-overflow semantics instead
// of an unbounded slice of listeners: a consumer that falls behind must
// lag, never stall a producer.
package eventbus

import (
	"sync"

	"ccboard/internal/logging"
)

// EventKind names a StoreEvent variant.
type EventKind string

const (
	LoadStarted     EventKind = "load_started"
	LoadCompleted   EventKind = "load_completed"
	StatsUpdated    EventKind = "stats_updated"
	SessionCreated  EventKind = "session_created"
	SessionUpdated  EventKind = "session_updated"
	SessionRemoved  EventKind = "session_removed"
	ConfigChanged   EventKind = "config_changed"
	AnalyticsUpdated EventKind = "analytics_updated"
	WatcherError    EventKind = "watcher_error"
)

// Event is one published StoreEvent. Only the fields relevant to Kind are
// populated; the rest are left at their zero value.
type Event struct {
	Kind    EventKind
	Path    string // SessionCreated/Updated/Removed
	Scope   string // ConfigChanged
	Message string // WatcherError
	Report  interface{} // LoadCompleted: *datastore.LoadReport, untyped to avoid an import cycle
}

// defaultCapacity is the per-subscriber buffer depth (spec §4.8).
const defaultCapacity = 256

// Subscription is a consumer's view of the bus. Lagged reports how many
// events were dropped before the oldest one still buffered, mirroring the
// spec's "Lagged(count) indication on next receive".
type Subscription struct {
	events <-chan Event
	lagged <-chan int
	cancel func()
}

// Events returns the channel of in-order events for this subscriber.
func (s *Subscription) Events() <-chan Event { return s.events }

// Lagged emits the number of events dropped since the last delivery,
// whenever an overflow occurs. Reading this is optional.
func (s *Subscription) Lagged() <-chan int { return s.lagged }

// Close unregisters the subscription. Safe to call more than once.
func (s *Subscription) Close() { s.cancel() }

type subscriber struct {
	events chan Event
	lagged chan int
	// dropped counts overflow drops not yet reported; it is sent on
	// lagged as soon as lagged has room, then reset.
	dropped int
}

// Bus is the broadcast channel. Publishers never block: a full
// subscriber buffer causes the oldest buffered event for that subscriber
// to be dropped to make room for the new one (spec §4.8 buffer policy).
type Bus struct {
	mu          sync.Mutex
	subscribers map[int]*subscriber
	nextID      int
	capacity    int
}

// New creates a Bus with the given per-subscriber buffer capacity. A
// capacity of 0 selects the spec default of 256.
func New(capacity int) *Bus {
	if capacity <= 0 {
		capacity = defaultCapacity
	}
	return &Bus{subscribers: make(map[int]*subscriber), capacity: capacity}
}

// Subscribe returns a fresh receiver handle (spec §4.9 subscribe_events).
func (b *Bus) Subscribe() *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	sub := &subscriber{
		events: make(chan Event, b.capacity),
		lagged: make(chan int, 1),
	}
	b.subscribers[id] = sub

	return &Subscription{
		events: sub.events,
		lagged: sub.lagged,
		cancel: func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			if s, ok := b.subscribers[id]; ok {
				close(s.events)
				delete(b.subscribers, id)
			}
		},
	}
}

// Publish delivers ev to every current subscriber. Per-publisher FIFO is
// preserved per subscriber channel; there is no ordering guarantee across
// distinct Publish callers (spec §4.8 ordering).
func (b *Bus) Publish(ev Event) {
	log := logging.Get(logging.CategoryEventBus)

	b.mu.Lock()
	defer b.mu.Unlock()

	for _, sub := range b.subscribers {
		select {
		case sub.events <- ev:
			if sub.dropped > 0 {
				select {
				case sub.lagged <- sub.dropped:
					sub.dropped = 0
				default:
				}
			}
		default:
			// Buffer full: drop the oldest buffered event to make room,
			// then retry the send. The consumer lags rather than the
			// publisher blocking.
			select {
			case <-sub.events:
				sub.dropped++
			default:
			}
			select {
			case sub.events <- ev:
			default:
				log.Warnw("dropping event for saturated subscriber", "kind", ev.Kind)
			}
			if sub.dropped > 0 {
				select {
				case sub.lagged <- sub.dropped:
					sub.dropped = 0
				default:
				}
			}
		}
	}
}

// SubscriberCount reports the number of active subscriptions, for tests
// and diagnostics.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subscribers)
}
