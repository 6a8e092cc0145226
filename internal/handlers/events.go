package handlers

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"slideshow-viewer/internal/logging"
	"slideshow-viewer/internal/metrics"
)

// Event is a server-sent event pushed to connected playback clients.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Event types pushed over the SSE stream.
const (
	EventIndexChanged   = "index"
	EventPlayingChanged = "playing"
	EventEntryFailed    = "entry_failed"
	EventReload         = "reload"
	EventPlaylist       = "playlist"
)

const clientBuffer = 16

// Hub fans scheduler events out to connected SSE clients. A client that
// cannot keep up has events dropped rather than blocking the scheduler;
// clients resynchronize from the state endpoint.
type Hub struct {
	mu      sync.Mutex
	clients map[chan Event]struct{}
}

func NewHub() *Hub {
	return &Hub{clients: make(map[chan Event]struct{})}
}

// Broadcast sends an event to every connected client without blocking.
func (hub *Hub) Broadcast(e Event) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	for ch := range hub.clients {
		select {
		case ch <- e:
		default:
			logging.Debug("dropping %s event for slow SSE client", e.Type)
		}
	}
}

// ClientCount returns the number of connected clients.
func (hub *Hub) ClientCount() int {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	return len(hub.clients)
}

func (hub *Hub) subscribe() chan Event {
	ch := make(chan Event, clientBuffer)
	hub.mu.Lock()
	hub.clients[ch] = struct{}{}
	hub.mu.Unlock()
	metrics.SSEClientsConnected.Inc()
	return ch
}

func (hub *Hub) unsubscribe(ch chan Event) {
	hub.mu.Lock()
	delete(hub.clients, ch)
	hub.mu.Unlock()
	metrics.SSEClientsConnected.Dec()
}

// heartbeatInterval keeps idle SSE connections alive through proxies.
const heartbeatInterval = 30 * time.Second

// Events streams playback events to the client as server-sent events.
// The stream opens with a state snapshot so clients need no separate
// initial fetch.
func (h *Handlers) Events(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeJSONError(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	ch := h.hub.subscribe()
	defer h.hub.unsubscribe(ch)

	writeEvent(w, Event{Type: "state", Data: h.sched.Status()})
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case e := <-ch:
			if err := writeEvent(w, e); err != nil {
				return
			}
			flusher.Flush()
		case <-heartbeat.C:
			if _, err := w.Write([]byte(": keepalive\n\n")); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

func writeEvent(w http.ResponseWriter, e Event) error {
	data, err := json.Marshal(e.Data)
	if err != nil {
		return err
	}
	if _, err := w.Write([]byte("event: " + e.Type + "\n")); err != nil {
		return err
	}
	_, err = w.Write([]byte("data: " + string(data) + "\n\n"))
	return err
}
