package service

import "sync"

// subscriberBuffer is the capacity of every subscription channel. A slow
// subscriber misses events instead of blocking the publisher.
const subscriberBuffer = 16

// broadcaster fans out values to any number of subscribers.
type broadcaster[T any] struct {
	mu   sync.Mutex
	subs map[chan T]struct{}
}

func newBroadcaster[T any]() *broadcaster[T] {
	return &broadcaster[T]{subs: make(map[chan T]struct{})}
}

// subscribe returns a receive channel and a function that cancels the
// subscription and closes the channel.
func (b *broadcaster[T]) subscribe() (<-chan T, func()) {
	ch := make(chan T, subscriberBuffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
}

func (b *broadcaster[T]) publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for ch := range b.subs {
		select {
		case ch <- v:
		default:
		}
	}
}
