package infrastructure

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/goccy/go-json"

	"poiharvest/internal/modules/stores/application/port"
	"poiharvest/internal/modules/stores/domain"
)

// Hub fans harvest messages out to websocket subscribers. Clients either follow a set of
// sources or, with no sources, every message.
type Hub struct {
	sources map[string]map[*Client]struct{}
	global  map[*Client]struct{}
	mu      sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		sources: make(map[string]map[*Client]struct{}),
		global:  make(map[*Client]struct{}),
	}
}

// AttachClient registers c for the given sources, or for everything when none are given.
func (h *Hub) AttachClient(c *Client, sources []string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subscribed := 0
	for _, source := range sources {
		trimmed := strings.ToLower(strings.TrimSpace(source))
		if trimmed == "" {
			continue
		}
		if h.sources[trimmed] == nil {
			h.sources[trimmed] = make(map[*Client]struct{})
		}
		h.sources[trimmed][c] = struct{}{}
		c.subscribed[trimmed] = struct{}{}
		subscribed++
	}
	if subscribed == 0 {
		h.global[c] = struct{}{}
	}
	slog.Info("ws client attached", slog.String("userId", c.userID), slog.String("sessionId", c.sessionID), slog.Any("sources", sources))
}

func (h *Hub) detachClient(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.detachLocked(c)
}

func (h *Hub) detachLocked(c *Client) {
	if c == nil || c.detached {
		return
	}
	for source := range c.subscribed {
		if subs, ok := h.sources[source]; ok {
			delete(subs, c)
			if len(subs) == 0 {
				delete(h.sources, source)
			}
		}
	}
	delete(h.global, c)
	c.detached = true
	c.close()
	slog.Info("ws client detached", slog.String("userId", c.userID), slog.String("sessionId", c.sessionID))
}

// ClientCount reports the number of attached clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	seen := make(map[*Client]struct{}, len(h.global))
	for c := range h.global {
		seen[c] = struct{}{}
	}
	for _, subs := range h.sources {
		for c := range subs {
			seen[c] = struct{}{}
		}
	}
	return len(seen)
}

func (h *Hub) Broadcast(_ context.Context, msg *domain.Message) {
	data, err := json.Marshal(msg)
	if err != nil {
		slog.Error("broadcast marshal error", slog.Any("error", err))
		return
	}

	source := ""
	if msg.Metadata != nil {
		source = strings.ToLower(strings.TrimSpace(msg.Metadata["source"]))
	}

	// Sends happen under the read lock so detach cannot close a queue mid-send.
	h.mu.RLock()
	defer h.mu.RUnlock()
	clientsMap := h.sources[source]
	for c := range clientsMap {
		h.deliver(c, data)
	}
	for c := range h.global {
		if _, dup := clientsMap[c]; dup {
			continue
		}
		h.deliver(c, data)
	}
}

func (h *Hub) deliver(c *Client, data []byte) {
	select {
	case c.send <- data:
	default:
		slog.Warn("websocket send buffer full", slog.String("userId", c.userID), slog.String("sessionId", c.sessionID))
		go h.detachClient(c)
	}
}

var _ port.Broadcaster = (*Hub)(nil)
