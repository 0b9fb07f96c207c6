package sim

import (
	"sync"
	"time"

	"partfail-sim/internal/vessel"
)

const defaultBroadcastLimit = 200

// Broadcast is one on-screen operator message.
type Broadcast struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"ts"`
}

// BroadcastWriter receives operator messages as they are raised.
type BroadcastWriter interface {
	WriteBroadcast(Broadcast) error
}

// Notifier keeps the most recent broadcasts and a redraw counter per part.
type Notifier struct {
	mu         sync.Mutex
	limit      int
	now        func() time.Time
	broadcasts []Broadcast
	revisions  map[string]int
	forward    []BroadcastWriter
}

// NewNotifier keeps at most limit broadcasts.
func NewNotifier(limit int, now func() time.Time) *Notifier {
	if limit <= 0 {
		limit = defaultBroadcastLimit
	}
	if now == nil {
		now = time.Now
	}
	return &Notifier{limit: limit, now: now, revisions: make(map[string]int)}
}

// Forward registers a writer that sees every later broadcast.
func (n *Notifier) Forward(w BroadcastWriter) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.forward = append(n.forward, w)
}

// Broadcast records msg and hands it to the forwarded writers.
func (n *Notifier) Broadcast(msg string) {
	b := Broadcast{Message: msg, Timestamp: n.now().UTC()}
	n.mu.Lock()
	n.broadcasts = append(n.broadcasts, b)
	if len(n.broadcasts) > n.limit {
		n.broadcasts = n.broadcasts[len(n.broadcasts)-n.limit:]
	}
	forward := append([]BroadcastWriter(nil), n.forward...)
	n.mu.Unlock()

	for _, w := range forward {
		_ = w.WriteBroadcast(b)
	}
}

// InvalidateDisplay bumps the redraw counter of p.
func (n *Notifier) InvalidateDisplay(p *vessel.Part) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.revisions[p.ID]++
}

// Broadcasts returns a copy of the retained messages.
func (n *Notifier) Broadcasts() []Broadcast {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]Broadcast, len(n.broadcasts))
	copy(out, n.broadcasts)
	return out
}

// Revision reports how often the display of partID was invalidated.
func (n *Notifier) Revision(partID string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.revisions[partID]
}
