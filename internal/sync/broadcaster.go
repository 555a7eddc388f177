package sync

import "sync"

// broadcaster fans a snapshot out to a reference-counted subscriber set.
// Subscriber channels hold one pending snapshot; a newer snapshot replaces
// an unconsumed older one, so a slow subscriber never blocks the publisher
// and always observes the latest state next time it reads.
type broadcaster[T any] struct {
	mu   sync.Mutex
	subs map[uint64]chan T
	next uint64
}

func newBroadcaster[T any]() *broadcaster[T] {
	return &broadcaster[T]{subs: make(map[uint64]chan T)}
}

// subscribe registers a new subscriber. The returned cancel func removes it;
// cancel is idempotent.
func (b *broadcaster[T]) subscribe() (<-chan T, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.next
	b.next++
	ch := make(chan T, 1)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
		})
	}
	return ch, cancel
}

// publish delivers snapshot to every subscriber, replacing any unconsumed
// previous snapshot.
func (b *broadcaster[T]) publish(snapshot T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.subs {
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			ch <- snapshot
		}
	}
}

// count returns the current subscriber count.
func (b *broadcaster[T]) count() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
