package sse

import (
	"sync"
	"testing"
)

func connect(s *Service) *client {
	c := &client{events: make(chan Event, 1), done: make(chan struct{})}
	s.addClient(c)
	return c
}

func TestBroadcastDuringDisconnectDoesNotPanic(t *testing.T) {
	s := New()

	clients := make([]*client, 500)
	for i := range clients {
		clients[i] = connect(s)
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 200; i++ {
			s.Broadcast(Event{Type: EventBulkProgress})
		}
	}()
	go func() {
		defer wg.Done()
		for _, c := range clients {
			s.removeClient(c)
		}
	}()
	wg.Wait()

	// A send racing a disconnect may be dropped, never crash the publisher.
	s.Broadcast(Event{Type: EventBulkCompleted})
}

func TestRemoveClientSignalsDoneAndIsIdempotent(t *testing.T) {
	s := New()
	c := connect(s)

	s.removeClient(c)
	select {
	case <-c.done:
	default:
		t.Fatal("removed client must be signalled on done")
	}

	// Removing again must not close done a second time.
	s.removeClient(c)
}

func TestCloseSignalsAllClients(t *testing.T) {
	s := New()
	a := connect(s)
	b := connect(s)

	s.Close()
	s.Close()

	for _, c := range []*client{a, b} {
		select {
		case <-c.done:
		default:
			t.Fatal("Close must signal every connected client")
		}
	}
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	s := New()
	c := connect(s)

	s.Broadcast(Event{Type: EventBulkStarted})
	s.Broadcast(Event{Type: EventBulkProgress})

	got := <-c.events
	if got.Type != EventBulkStarted {
		t.Errorf("event = %q, want %q", got.Type, EventBulkStarted)
	}
	select {
	case e := <-c.events:
		t.Errorf("unexpected buffered event %q", e.Type)
	default:
	}
}
