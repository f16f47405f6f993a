package bus

import (
	"context"
	"testing"
)

type testEvent struct {
	n int
}

func TestHubBroadcast(t *testing.T) {
	h := NewHub[testEvent]()
	c1, unsub1 := h.Subscribe(context.Background())
	c2, unsub2 := h.Subscribe(context.Background())
	defer unsub2()

	if err := h.Broadcast(context.Background(), testEvent{n: 1}); err != nil {
		t.Fatal(err)
	}
	if got := <-c1; got.n != 1 {
		t.Fatalf("c1 got %d", got.n)
	}
	if got := <-c2; got.n != 1 {
		t.Fatalf("c2 got %d", got.n)
	}

	unsub1()
	if h.Len() != 1 {
		t.Fatalf("Len = %d, want 1", h.Len())
	}
	h.Broadcast(context.Background(), testEvent{n: 2})
	if len(c1) != 0 {
		t.Fatal("unsubscribed channel received an event")
	}
}

func TestHubDropsForSlowSubscriber(t *testing.T) {
	h := NewHub[testEvent]()
	c, unsub := h.Subscribe(context.Background())
	defer unsub()

	for i := 0; i < HubBuffer+10; i++ {
		h.Broadcast(context.Background(), testEvent{n: i})
	}
	if len(c) != HubBuffer {
		t.Fatalf("buffered = %d, want %d", len(c), HubBuffer)
	}
	if got := <-c; got.n != 0 {
		t.Fatalf("first event = %d, want 0", got.n)
	}
}

type publishedEvent struct {
	name string
}

func TestPublishReachesRegisteredHub(t *testing.T) {
	h := NewHub[publishedEvent]().Register()
	c, unsub := h.Subscribe(context.Background())
	defer unsub()

	Publish(publishedEvent{name: "configure"})
	if got := <-c; got.name != "configure" {
		t.Fatalf("got %q", got.name)
	}
}
