package api

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"nayaplay/events"
	"nayaplay/models"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// FeedHub pushes settled wagers to connected websocket clients. It carries
// the same bounded projection as the HTTP feed; clients reconnecting simply
// miss whatever settled while they were away.
type FeedHub struct {
	upgrader websocket.Upgrader
	mu       sync.RWMutex
	conns    map[*websocket.Conn]struct{}

	// serializes broadcasts; the event bus dispatches each event on its own
	// goroutine and gorilla connections allow a single concurrent writer
	writeMu sync.Mutex
}

// NewFeedHub creates a hub and subscribes it to settlement events
func NewFeedHub(bus *events.Bus) *FeedHub {
	h := &FeedHub{
		upgrader: websocket.Upgrader{
			// The feed is public read-only data, any origin may subscribe
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		conns: make(map[*websocket.Conn]struct{}),
	}

	bus.Subscribe(events.EventTypeWagerSettled, func(ctx context.Context, event events.Event) {
		settled, ok := event.(events.WagerSettledEvent)
		if !ok {
			return
		}
		h.broadcast(models.FeedEntry{
			WagerRef:    settled.WagerRef,
			DisplayName: settled.DisplayName,
			Game:        settled.Game,
			Stake:       settled.Stake,
			Multiplier:  settled.Multiplier,
			Payout:      settled.Payout,
			Won:         settled.Won,
			SettledAt:   settled.SettledAt,
		})
	})

	return h
}

// HandleWS handles GET /ws, upgrading the connection and keeping it until
// the client disconnects.
func (h *FeedHub) HandleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.WithError(err).Debug("Websocket upgrade failed")
		return
	}

	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.conns, conn)
		h.mu.Unlock()
		conn.Close()
	}()

	// Drain client frames; the feed is push-only, but reads detect the close
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *FeedHub) broadcast(entry models.FeedEntry) {
	payload, err := json.Marshal(entry)
	if err != nil {
		log.WithError(err).Error("Failed to marshal feed entry")
		return
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.conns))
	for conn := range h.conns {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			log.WithError(err).Debug("Dropping websocket client after write failure")
			h.mu.Lock()
			delete(h.conns, conn)
			h.mu.Unlock()
			conn.Close()
		}
	}
}
