package wallpaper

import (
	"sync"

	"github.com/charmbracelet/log"

	"github.com/bnema/wallhub/internal/logger"
)

// DefaultQueueCapacity bounds the number of undelivered events
const DefaultQueueCapacity = 1024

// DeferredQueue is a Source that records events arriving on any goroutine and
// replays them, in arrival order, when DispatchEvents is called.
type DeferredQueue struct {
	mu       sync.Mutex
	listener Listener
	pending  []func(Listener)
	capacity int
	dropped  int
	log      *log.Logger
}

// NewDeferredQueue creates a queue holding at most capacity undelivered events.
// A capacity <= 0 uses DefaultQueueCapacity.
func NewDeferredQueue(capacity int) *DeferredQueue {
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}

	return &DeferredQueue{
		capacity: capacity,
		log:      logger.WithPrefix("queue"),
	}
}

// Register sets the listener that receives dispatched events
func (q *DeferredQueue) Register(l Listener) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.listener = l
}

// DispatchEvents delivers the pending batch to the listener on the calling goroutine.
// Events recorded by the listener's own handlers are delivered on the next call.
func (q *DeferredQueue) DispatchEvents() {
	q.mu.Lock()
	batch := q.pending
	q.pending = nil
	l := q.listener
	q.mu.Unlock()

	if l == nil {
		return
	}

	for _, ev := range batch {
		ev(l)
	}
}

// Pending returns the number of undelivered events
func (q *DeferredQueue) Pending() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}

// Dropped returns the number of events discarded so far
func (q *DeferredQueue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}

func (q *DeferredQueue) push(ev func(Listener)) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.listener == nil {
		q.dropped++
		q.log.Debug("No listener registered, dropping event")
		return
	}

	if len(q.pending) >= q.capacity {
		q.pending = q.pending[1:]
		q.dropped++
		q.log.Warn("Event queue full, dropping oldest event", "capacity", q.capacity)
	}

	q.pending = append(q.pending, ev)
}

func (q *DeferredQueue) VisibilityChanged(visible bool) {
	q.push(func(l Listener) { l.VisibilityChanged(visible) })
}

func (q *DeferredQueue) IsPreviewChanged(preview bool) {
	q.push(func(l Listener) { l.IsPreviewChanged(preview) })
}

func (q *DeferredQueue) DesiredSizeChanged(width, height int) {
	q.push(func(l Listener) { l.DesiredSizeChanged(width, height) })
}

func (q *DeferredQueue) OffsetsChanged(xOffset, yOffset, xOffsetStep, yOffsetStep float64, xPixelOffset, yPixelOffset int) {
	q.push(func(l Listener) {
		l.OffsetsChanged(xOffset, yOffset, xOffsetStep, yOffsetStep, xPixelOffset, yPixelOffset)
	})
}

func (q *DeferredQueue) PreferenceChanged(key string) {
	q.push(func(l Listener) { l.PreferenceChanged(key) })
}

func (q *DeferredQueue) PreferencesActivityTriggered() {
	q.push(func(l Listener) { l.PreferencesActivityTriggered() })
}

func (q *DeferredQueue) MultiTapDetected(x, y float64) {
	q.push(func(l Listener) { l.MultiTapDetected(x, y) })
}

func (q *DeferredQueue) CustomEventReceived(eventName, eventData string) {
	q.push(func(l Listener) { l.CustomEventReceived(eventName, eventData) })
}
