// Package sse provides Server-Sent Events support for real-time dashboard
// updates (bulk run progress, pipeline changes).
package sse

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gin-gonic/gin"
)

// EventType represents different types of SSE events
type EventType string

const (
	EventLeadsDiscovered   EventType = "leads_discovered"
	EventLeadStatusChanged EventType = "lead_status_changed"
	EventLeadDraftFailed   EventType = "lead_draft_failed"
	EventLeadDeleted       EventType = "lead_deleted"

	// Bulk run events (pushed while a batch is processing)
	EventBulkStarted   EventType = "bulk_started"
	EventBulkProgress  EventType = "bulk_progress"
	EventBulkCompleted EventType = "bulk_completed"
)

// Event represents an SSE event payload
type Event struct {
	Type EventType   `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// client represents a connected SSE client. The events channel is never
// closed: Broadcast may still hold a reference to a removed client, so
// disconnection is signalled through done and the channel is left for GC.
type client struct {
	events chan Event
	done   chan struct{}
}

// Service manages SSE connections and event broadcasting. The dashboard is
// single-user, so every event is broadcast to all connections.
type Service struct {
	mu      sync.RWMutex
	clients map[*client]struct{}
	closed  bool
}

// New creates a new SSE service
func New() *Service {
	return &Service{
		clients: make(map[*client]struct{}),
	}
}

func (s *Service) addClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clients[c] = struct{}{}
}

func (s *Service) removeClient(c *client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.clients[c]; !ok {
		return
	}
	delete(s.clients, c)
	close(c.done)
}

// Broadcast sends an event to every connected client. Slow clients drop
// events rather than blocking the publisher.
func (s *Service) Broadcast(event Event) {
	s.mu.RLock()
	clients := make([]*client, 0, len(s.clients))
	for c := range s.clients {
		clients = append(clients, c)
	}
	s.mu.RUnlock()

	for _, c := range clients {
		select {
		case c.events <- event:
		default:
			log.Printf("SSE: Event buffer full, dropping %s", event.Type)
		}
	}
}

// Handler returns a Gin handler for SSE connections
func (s *Service) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "text/event-stream")
		c.Writer.Header().Set("Cache-Control", "no-cache")
		c.Writer.Header().Set("Connection", "keep-alive")
		c.Writer.Header().Set("X-Accel-Buffering", "no")

		cl := &client{events: make(chan Event, 32), done: make(chan struct{})}
		s.addClient(cl)
		defer s.removeClient(cl)

		c.SSEvent("connected", gin.H{})
		c.Writer.Flush()

		clientGone := c.Request.Context().Done()
		for {
			select {
			case <-clientGone:
				return
			case <-cl.done:
				return
			case event := <-cl.events:
				data, _ := json.Marshal(event)
				c.SSEvent(string(event.Type), string(data))
				c.Writer.Flush()
			}
		}
	}
}

// Close shuts down the SSE service
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	for c := range s.clients {
		close(c.done)
	}
	s.clients = make(map[*client]struct{})
}
