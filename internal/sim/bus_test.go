package sim

import (
	"encoding/json"
	"testing"
)

// TestBusDeliversInEmissionOrder verifies Drain hands subscribers the
// exact emission order with increasing sequence numbers.
func TestBusDeliversInEmissionOrder(t *testing.T) {
	b := NewBus()

	var got []Event
	b.Subscribe(func(ev Event) { got = append(got, ev) })

	b.Emit(EventGameStarted, 1, nil)
	b.Emit(EventHarmonyIncreased, 2, nil)
	b.Emit(EventGameEnded, 3, nil)

	if b.Pending() != 3 {
		t.Fatalf("expected 3 pending, got %d", b.Pending())
	}
	batch := b.Drain()
	if len(batch) != 3 || len(got) != 3 {
		t.Fatalf("expected 3 delivered, batch=%d subscribers=%d", len(batch), len(got))
	}
	want := []EventType{EventGameStarted, EventHarmonyIncreased, EventGameEnded}
	for i, ev := range got {
		if ev.Type != want[i] {
			t.Errorf("position %d: got %s, want %s", i, ev.TypeName, want[i])
		}
		if i > 0 && ev.Sequence <= got[i-1].Sequence {
			t.Errorf("sequence not increasing at %d", i)
		}
	}
	if b.Pending() != 0 {
		t.Errorf("pending should be empty after drain, got %d", b.Pending())
	}
}

// TestBusDrainEmpty verifies draining an empty bus is a safe no-op.
func TestBusDrainEmpty(t *testing.T) {
	b := NewBus()
	if batch := b.Drain(); batch != nil {
		t.Errorf("expected nil batch, got %d events", len(batch))
	}
}

// TestBusFanOut verifies every subscriber sees every event.
func TestBusFanOut(t *testing.T) {
	b := NewBus()
	a, c := 0, 0
	b.Subscribe(func(Event) { a++ })
	b.Subscribe(func(Event) { c++ })

	b.Emit(EventGamePaused, 0, nil)
	b.Emit(EventGameResumed, 0, nil)
	b.Drain()

	if a != 2 || c != 2 {
		t.Errorf("fan-out incomplete: %d, %d", a, c)
	}
}

// TestBusPayloadRoundTrip verifies a typed payload survives encoding.
func TestBusPayloadRoundTrip(t *testing.T) {
	b := NewBus()
	b.Emit(EventGameEnded, 9, EndedPayload{Reason: "manual", Score: 12.5, Harmony: 2, Patterns: 7})

	batch := b.Drain()
	if len(batch) != 1 {
		t.Fatalf("expected 1 event, got %d", len(batch))
	}
	ev := batch[0]
	if ev.Tick != 9 || ev.TypeName != "GAME_ENDED" {
		t.Errorf("envelope wrong: tick=%d type=%s", ev.Tick, ev.TypeName)
	}
	var p EndedPayload
	if err := json.Unmarshal(ev.Payload, &p); err != nil {
		t.Fatalf("payload decode: %v", err)
	}
	if p.Reason != "manual" || p.Score != 12.5 || p.Harmony != 2 || p.Patterns != 7 {
		t.Errorf("payload mismatch: %+v", p)
	}
}

// TestBusSubscriberReentrancy verifies a subscriber can emit into the
// bus without deadlocking; the new event waits for the next drain.
func TestBusSubscriberReentrancy(t *testing.T) {
	b := NewBus()
	b.Subscribe(func(ev Event) {
		if ev.Type == EventGameStarted {
			b.Emit(EventHarmonyIncreased, ev.Tick, nil)
		}
	})

	b.Emit(EventGameStarted, 0, nil)
	first := b.Drain()
	if len(first) != 1 {
		t.Fatalf("expected 1 event in first batch, got %d", len(first))
	}
	second := b.Drain()
	if len(second) != 1 || second[0].Type != EventHarmonyIncreased {
		t.Fatalf("re-emitted event lost: %d", len(second))
	}
}
