package server

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ayusman/flaphand/internal/game"
)

// Hub holds the most recent game snapshot. The game loop publishes, HTTP
// handlers read; neither side blocks the other for longer than a copy.
type Hub struct {
	mu    sync.RWMutex
	snap  game.Snapshot
	data  []byte
	seq   uint64
	ready bool
}

func NewHub() *Hub {
	return &Hub{}
}

// Publish replaces the current snapshot.
func (h *Hub) Publish(snap game.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	h.snap = snap
	h.data = data
	h.seq++
	h.ready = true
	return nil
}

// Latest returns the encoded snapshot and its sequence number. ok is false
// until the first Publish.
func (h *Hub) Latest() (data []byte, seq uint64, ok bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.data, h.seq, h.ready
}

// Snapshot returns the decoded current snapshot.
func (h *Hub) Snapshot() (game.Snapshot, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.snap, h.ready
}
