package realtime

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	portssvc "github.com/kursboard/kursboard/internal/core/ports/services"
	"github.com/kursboard/kursboard/internal/dto"
	"github.com/gorilla/websocket"
)

// EventRateChanged is the event name pushed after every committed write.
const EventRateChanged = "rateChanged"

// Envelope is the wire format of one pushed event.
type Envelope struct {
	Event   string                  `json:"event"`
	Payload map[string]dto.RateView `json:"payload"`
}

// Hub fans committed rate changes out to every connected subscriber.
// Delivery is at-most-once and best-effort: a subscriber whose send buffer
// is full is dropped and must re-fetch via the read path after reconnecting.
// The subscriber set is mutated only on connect/disconnect and read at
// publish time.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*client]struct{}
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHub creates a new broadcast hub. checkOrigin decides which browser
// origins may subscribe; nil allows all (public rates are not secret).
func NewHub(logger *slog.Logger, checkOrigin func(r *http.Request) bool) *Hub {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		clients: make(map[*client]struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		logger: logger.With(slog.String("component", "realtime")),
	}
}

// ServeWS upgrades the request to a websocket subscription. Admin
// subscriptions additionally receive the full, including-hidden, map.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, isAdmin bool) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", slog.String("error", err.Error()))
		return
	}
	c := newClient(h, conn, isAdmin)
	h.register(c)
	go c.writePump()
	go c.readPump()
}

// PublishRateChanged pushes the canonical maps to every subscriber: the
// public-safe view to everyone, the full view to admin subscriptions.
// Must only be called after the triggering mutation committed.
func (h *Hub) PublishRateChanged(publicView, adminView map[string]dto.RateView) {
	publicMsg, err := json.Marshal(Envelope{Event: EventRateChanged, Payload: publicView})
	if err != nil {
		h.logger.Error("Failed to encode public broadcast payload", slog.String("error", err.Error()))
		return
	}
	adminMsg, err := json.Marshal(Envelope{Event: EventRateChanged, Payload: adminView})
	if err != nil {
		h.logger.Error("Failed to encode admin broadcast payload", slog.String("error", err.Error()))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		msg := publicMsg
		if c.isAdmin {
			msg = adminMsg
		}
		select {
		case c.send <- msg:
		default:
			// Slow consumer: never block the publish path.
			go c.close()
		}
	}
}

// SubscriberCount reports the current number of live subscriptions.
func (h *Hub) SubscriberCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
	h.logger.Info("Subscriber connected", slog.Bool("admin", c.isAdmin), slog.Int("subscribers", h.SubscriberCount()))
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	delete(h.clients, c)
	h.mu.Unlock()
}

var _ portssvc.Broadcaster = (*Hub)(nil)
