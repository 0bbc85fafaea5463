package task

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/Gregos2215/gestapp-sub000/internal/model"
)

// Feed pushes complete task snapshots to console clients over
// Server-Sent Events. Delivery is at-least-once and snapshot-complete:
// every event carries the full current task set, never a diff, so
// clients recompute their views from scratch on each message.
type Feed struct {
	mu      sync.RWMutex
	clients map[chan []model.Task]struct{}
}

func NewFeed() *Feed {
	return &Feed{clients: map[chan []model.Task]struct{}{}}
}

// Publish fans a snapshot out to every subscriber. Slow clients are
// skipped rather than blocking the publisher; they catch up on the next
// snapshot.
func (f *Feed) Publish(snapshot []model.Task) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for ch := range f.clients {
		select {
		case ch <- snapshot:
		default:
		}
	}
}

func (f *Feed) subscribe() chan []model.Task {
	ch := make(chan []model.Task, 8)
	f.mu.Lock()
	f.clients[ch] = struct{}{}
	f.mu.Unlock()
	return ch
}

func (f *Feed) unsubscribe(ch chan []model.Task) {
	f.mu.Lock()
	delete(f.clients, ch)
	f.mu.Unlock()
	close(ch)
}

// ServeHTTP streams snapshots until the client disconnects.
func (f *Feed) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := f.subscribe()
	defer f.unsubscribe(ch)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, ok := <-ch:
			if !ok {
				return
			}
			b, err := json.Marshal(snapshot)
			if err != nil {
				continue
			}
			_, _ = fmt.Fprintf(w, "event: tasks\ndata: %s\n\n", b)
			flusher.Flush()
		}
	}
}
