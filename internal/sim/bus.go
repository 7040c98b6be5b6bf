package sim

import (
	"sync"
	"time"
)

// Bus is the in-memory event bus. Emit is called from inside the tick
// (or a command) while the engine lock is held; Drain is called after
// the lock is released and hands the pending batch to subscribers in
// emission order. Because subscribers run outside the engine's critical
// section, a subscriber calling back into the engine cannot invalidate
// a collection mid-iteration.
type Bus struct {
	mu          sync.Mutex
	pending     []Event
	subscribers []func(Event)
	seq         uint64
}

func NewBus() *Bus {
	return &Bus{}
}

// Subscribe registers a callback for every future event. Callbacks run
// on the ticking goroutine; keep them fast or hand off to a channel.
func (b *Bus) Subscribe(fn func(Event)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subscribers = append(b.subscribers, fn)
}

// Emit queues an event. Sequence and timestamp are assigned here so
// ordering reflects emission order even across tick and command paths.
func (b *Bus) Emit(t EventType, tick uint64, payload any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.seq++
	b.pending = append(b.pending, Event{
		Version:   eventVersion,
		Sequence:  b.seq,
		Type:      t,
		TypeName:  t.String(),
		Tick:      tick,
		Timestamp: time.Now().UnixNano(),
		Payload:   encodePayload(payload),
	})
}

// Drain delivers all pending events to every subscriber, in order, and
// returns the batch. Safe to call with no subscribers.
func (b *Bus) Drain() []Event {
	b.mu.Lock()
	if len(b.pending) == 0 {
		b.mu.Unlock()
		return nil
	}
	batch := b.pending
	b.pending = nil
	subs := b.subscribers
	b.mu.Unlock()

	for _, ev := range batch {
		for _, fn := range subs {
			fn(ev)
		}
	}
	return batch
}

// Pending returns the number of queued, undelivered events.
func (b *Bus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.pending)
}
