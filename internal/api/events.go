package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"tabstat/internal"
	"tabstat/internal/present"
)

// DefaultChannel is used when a client does not name one
const DefaultChannel = "default"

// OutcomeEvent reports a finished statistics request to stream clients
type OutcomeEvent struct {
	Channel    string         `json:"channel"`
	RequestID  string         `json:"request_id"`
	Superseded bool           `json:"superseded"`
	Error      string         `json:"error,omitempty"`
	Views      []present.View `json:"views,omitempty"`
	ElapsedMS  int64          `json:"elapsed_ms"`
	Timestamp  time.Time      `json:"timestamp"`
}

type eventClient struct {
	channel string
	events  chan OutcomeEvent
}

// EventHub fans outcome events out to Server-Sent Events clients
type EventHub struct {
	clients    map[string]map[chan OutcomeEvent]bool
	clientsMu  sync.RWMutex
	register   chan eventClient
	unregister chan eventClient
	broadcast  chan OutcomeEvent
	done       chan struct{}
	keepAlive  time.Duration
	logger     *internal.Logger
}

// NewEventHub creates and starts a hub
func NewEventHub(logger *internal.Logger) *EventHub {
	h := &EventHub{
		clients:    make(map[string]map[chan OutcomeEvent]bool),
		register:   make(chan eventClient, 10),
		unregister: make(chan eventClient, 10),
		broadcast:  make(chan OutcomeEvent, 100),
		done:       make(chan struct{}),
		keepAlive:  30 * time.Second,
		logger:     logger.WithComponent("Events"),
	}
	go h.run()
	return h
}

func (h *EventHub) run() {
	for {
		select {
		case <-h.done:
			return

		case c := <-h.register:
			h.clientsMu.Lock()
			if h.clients[c.channel] == nil {
				h.clients[c.channel] = make(map[chan OutcomeEvent]bool)
			}
			h.clients[c.channel][c.events] = true
			h.logger.Debug("Client registered on %s (total clients: %d)", c.channel, len(h.clients[c.channel]))
			h.clientsMu.Unlock()

		case c := <-h.unregister:
			h.clientsMu.Lock()
			if clients, ok := h.clients[c.channel]; ok {
				delete(clients, c.events)
				close(c.events)
				if len(clients) == 0 {
					delete(h.clients, c.channel)
				}
			}
			h.clientsMu.Unlock()

		case ev := <-h.broadcast:
			h.clientsMu.RLock()
			for events := range h.clients[ev.Channel] {
				select {
				case events <- ev:
				default:
					h.logger.Warn("Client channel full on %s, skipping request %s", ev.Channel, ev.RequestID)
				}
			}
			h.clientsMu.RUnlock()
		}
	}
}

// Close stops the hub loop
func (h *EventHub) Close() {
	close(h.done)
}

// Broadcast queues ev for every client on its channel
func (h *EventHub) Broadcast(ev OutcomeEvent) {
	select {
	case h.broadcast <- ev:
	default:
		h.logger.Warn("Broadcast queue full, dropping request %s", ev.RequestID)
	}
}

// ClientCount returns the number of clients listening on channel
func (h *EventHub) ClientCount(channel string) int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients[channel])
}

// ServeHTTP streams events for the channel named by ?channel=
func (h *EventHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	channel := r.URL.Query().Get("channel")
	if channel == "" {
		channel = DefaultChannel
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	c := eventClient{channel: channel, events: make(chan OutcomeEvent, 10)}
	select {
	case h.register <- c:
	default:
		http.Error(w, "event hub registration failed", http.StatusServiceUnavailable)
		return
	}
	defer func() {
		select {
		case h.unregister <- c:
		case <-h.done:
		}
	}()

	fmt.Fprintf(w, "event: ready\ndata: {\"channel\":%q}\n\n", channel)
	flusher.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()
	for {
		select {
		case ev, open := <-c.events:
			if !open {
				return
			}
			b, err := json.Marshal(ev)
			if err != nil {
				h.logger.Error("Failed to marshal event: %v", err)
				continue
			}
			fmt.Fprintf(w, "event: outcome\ndata: %s\n\n", b)
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%q}\n\n", time.Now().Format(time.RFC3339))
			flusher.Flush()
		case <-r.Context().Done():
			return
		}
	}
}
