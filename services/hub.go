package services

import (
	"encoding/json"
	"log"
	"sync"

	"tennis-tournament-api/metrics"
)

// Event is the envelope written to WebSocket clients.
type Event struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Subscriber receives encoded events on C until it is unsubscribed or the hub closes.
type Subscriber struct {
	C    chan []byte
	once sync.Once
}

func (s *Subscriber) close() {
	s.once.Do(func() { close(s.C) })
}

// Hub fans events out to every subscriber. A subscriber whose buffer is
// full is dropped rather than blocking the publisher.
type Hub struct {
	mu      sync.RWMutex
	clients map[*Subscriber]struct{}
	buffer  int
	closed  bool
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{clients: map[*Subscriber]struct{}{}, buffer: buffer}
}

func (h *Hub) Subscribe() *Subscriber {
	s := &Subscriber{C: make(chan []byte, h.buffer)}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		s.close()
		return s
	}
	h.clients[s] = struct{}{}
	metrics.WebSocketClients.Set(float64(len(h.clients)))
	return s
}

func (h *Hub) Unsubscribe(s *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[s]; ok {
		delete(h.clients, s)
		s.close()
		metrics.WebSocketClients.Set(float64(len(h.clients)))
	}
}

// Publish encodes {event, data} once and delivers it to every subscriber.
func (h *Hub) Publish(event string, data interface{}) {
	payload, err := json.Marshal(Event{Event: event, Data: data})
	if err != nil {
		log.Printf("❌ [Hub] failed to encode %s event: %v", event, err)
		return
	}

	var slow []*Subscriber
	h.mu.RLock()
	for s := range h.clients {
		select {
		case s.C <- payload:
		default:
			slow = append(slow, s)
		}
	}
	delivered := len(h.clients) - len(slow)
	h.mu.RUnlock()

	for _, s := range slow {
		log.Printf("⚠️ [Hub] dropping slow subscriber on %s event", event)
		h.Unsubscribe(s)
	}
	log.Printf("[Hub] %s delivered to %d client(s)", event, delivered)
}

// Count is the number of connected subscribers.
func (h *Hub) Count() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every subscriber; later subscriptions are closed immediately.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for s := range h.clients {
		s.close()
		delete(h.clients, s)
	}
	h.closed = true
	metrics.WebSocketClients.Set(0)
}
