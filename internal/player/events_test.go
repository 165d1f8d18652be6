package player

import (
	"errors"
	"testing"
)

func TestChannelListenerDropsWhenFull(t *testing.T) {
	l := NewChannelListener(2)
	l.StatusChanged(Idle, Loading)
	l.UnknownSource("x")
	l.FinishedAll("x", true)

	first := <-l.Events()
	if first.Kind != EventStatusChanged || first.From != Idle || first.To != Loading {
		t.Errorf("first event = %+v", first)
	}
	second := <-l.Events()
	if second.Kind != EventUnknownSource || !errors.Is(second.Err, ErrUnknownSource) {
		t.Errorf("second event = %+v", second)
	}
	select {
	case e := <-l.Events():
		t.Errorf("overflow event delivered: %+v", e)
	default:
	}
}

func TestChannelListenerWithPlayer(t *testing.T) {
	l := NewChannelListener(16)
	d := &fakeDecoder{}
	p := New(d, newRenderer(), DefaultConfig(), WithListener(l))

	p.Play("a")
	d.last().done(newEntity(10, 10), nil)

	var kinds []EventKind
	for len(l.Events()) > 0 {
		kinds = append(kinds, (<-l.Events()).Kind)
	}
	want := []EventKind{EventStatusChanged, EventParseDone, EventReadyForPlay, EventStatusChanged}
	if len(kinds) != len(want) {
		t.Fatalf("events = %v, want %v", kinds, want)
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestMultiListener(t *testing.T) {
	a, b := &recorder{}, &recorder{}
	m := MultiListener{a, nil, b}

	m.ReadyForPlay("x", true)
	m.FinishedOnce("x", 2)

	for i, r := range []*recorder{a, b} {
		if len(r.events) != 2 {
			t.Fatalf("listener %d got %d events, want 2", i, len(r.events))
		}
		if r.events[1].LoopCount != 2 {
			t.Errorf("listener %d loop count = %d", i, r.events[1].LoopCount)
		}
	}
}

func TestEventKindString(t *testing.T) {
	tests := []struct {
		kind EventKind
		want string
	}{
		{EventStatusChanged, "status-changed"},
		{EventEntityInvalid, "entity-invalid"},
		{EventFinishedAll, "finished-all"},
		{EventKind(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
