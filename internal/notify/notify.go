// Package notify buffers store notifications for the UI layer, the way
// the dashboard's snackbar surfaced them transiently.
package notify

import (
	"context"
	"log/slog"
	"sync"

	"github.com/FACorreiaa/go-admin-dashboard/internal/types"
)

const defaultCapacity = 20

var _ types.Notifier = (*Hub)(nil)

// Hub keeps the most recent notifications in memory.
type Hub struct {
	mu      sync.Mutex
	entries []types.Notification
	cap     int
	logger  *slog.Logger
}

func NewHub(logger *slog.Logger) *Hub {
	return &Hub{cap: defaultCapacity, logger: logger}
}

func (h *Hub) Notify(ctx context.Context, n types.Notification) {
	h.logger.DebugContext(ctx, "Store notification",
		slog.String("kind", string(n.Kind)), slog.String("message", n.Message))

	h.mu.Lock()
	defer h.mu.Unlock()
	h.entries = append(h.entries, n)
	if len(h.entries) > h.cap {
		h.entries = h.entries[len(h.entries)-h.cap:]
	}
}

// Latest returns the most recent notification, or nil if none.
func (h *Hub) Latest() *types.Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.entries) == 0 {
		return nil
	}
	n := h.entries[len(h.entries)-1]
	return &n
}

// Recent returns up to limit notifications, newest last.
func (h *Hub) Recent(limit int) []types.Notification {
	h.mu.Lock()
	defer h.mu.Unlock()
	if limit <= 0 || limit > len(h.entries) {
		limit = len(h.entries)
	}
	out := make([]types.Notification, limit)
	copy(out, h.entries[len(h.entries)-limit:])
	return out
}
