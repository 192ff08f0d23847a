// Package hub streams live queue/statistics snapshots and voice
// announcements to connected dashboard pages over SSE. The refresh
// poller only runs while at least one page is subscribed, so a panel
// sitting on another page costs nothing.
package hub

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/turnosuite/turnos-panel/internal/models"
	"github.com/turnosuite/turnos-panel/internal/queueview"
)

// DefaultInterval matches the dashboard's historical 30s auto-refresh.
const DefaultInterval = 30 * time.Second

const sendBuffer = 8

// Snapshot is one combined queue + statistics refresh.
type Snapshot struct {
	Cola  []queueview.Entry   `json:"cola"`
	Stats models.Estadisticas `json:"estadisticas"`
	At    time.Time           `json:"at"`
}

// Event is the SSE wire envelope.
type Event struct {
	Tipo string          `json:"tipo"`
	Data json.RawMessage `json:"data"`
}

// Source produces a fresh snapshot on each poll tick.
type Source func(ctx context.Context) (Snapshot, error)

// Client is one subscribed dashboard page.
type Client struct {
	ID   string
	Send chan []byte
}

// Hub fans events out to subscribers and owns the poll timer.
type Hub struct {
	mu       sync.Mutex
	clients  map[string]*Client
	source   Source
	interval time.Duration
	log      zerolog.Logger
	stop     chan struct{}
}

func New(source Source, interval time.Duration, logger zerolog.Logger) *Hub {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Hub{
		clients:  make(map[string]*Client),
		source:   source,
		interval: interval,
		log:      logger.With().Str("component", "hub").Logger(),
	}
}

// Subscribe registers a page. The first subscriber starts the poller.
func (h *Hub) Subscribe() *Client {
	client := &Client{
		ID:   uuid.NewString(),
		Send: make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	h.clients[client.ID] = client
	if len(h.clients) == 1 {
		h.stop = make(chan struct{})
		go h.poll(h.stop)
	}
	h.mu.Unlock()

	return client
}

// Unsubscribe drops a page. The last subscriber stops the poller.
func (h *Hub) Unsubscribe(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.ID]; !ok {
		return
	}
	delete(h.clients, client.ID)
	close(client.Send)

	if len(h.clients) == 0 && h.stop != nil {
		close(h.stop)
		h.stop = nil
	}
}

// Subscribers returns the current subscriber count.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Publish fans an event out to every subscriber. Slow clients drop the
// event rather than stall the hub.
func (h *Hub) Publish(tipo string, data any) {
	raw, err := json.Marshal(data)
	if err != nil {
		return
	}
	payload, err := json.Marshal(Event{Tipo: tipo, Data: raw})
	if err != nil {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for _, client := range h.clients {
		select {
		case client.Send <- payload:
		default:
			h.log.Debug().Str("client", client.ID).Msg("suscriptor lento, evento descartado")
		}
	}
}

// poll refreshes snapshots on the tick until stopped. A late result
// simply overwrites whatever an earlier tick showed: last response wins,
// exactly like the page it replaces.
func (h *Hub) poll(stop <-chan struct{}) {
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), h.interval)
			snapshot, err := h.source(ctx)
			cancel()
			if err != nil {
				h.log.Warn().Err(err).Msg("refresco periódico fallido")
				continue
			}
			h.Publish("snapshot", snapshot)
		}
	}
}
