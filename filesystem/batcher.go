package filesystem

import (
	"slices"
	"sync"
	"time"

	"github.com/bridgefs/bridgefs"
	"github.com/bridgefs/bridgefs/internal/util"
)

// Batcher absorbs a high-frequency stream of path-level and wholesale change
// signals and delivers coalesced notifications to the single registered
// listener. The first signal after idle arms a timer for one window; further
// signals within the window are recorded into the pending set (deduplicated by
// path) and flushed together when the window elapses.
//
// The original design kept the pending set and timer as ambient
// single-threaded state; here signals may arrive from any goroutine, so both
// live behind one mutex.
type Batcher struct {
	window time.Duration
	logger util.Logger

	mu        sync.Mutex
	listener  bridgefs.ChangeListener
	pending   map[string]struct{}
	wholesale bool
	timer     *time.Timer
	stopped   bool
}

// NewBatcher creates a Batcher flushing at most once per window.
func NewBatcher(window time.Duration) *Batcher {
	return &Batcher{
		window:  window,
		pending: make(map[string]struct{}),
		logger:  util.GetLogger("batcher"),
	}
}

// SetListener registers the listener. Only the first registration takes
// effect; the listener is process-wide and set once at initialization.
func (b *Batcher) SetListener(l bridgefs.ChangeListener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.listener != nil {
		b.logger.Warn().Msg("Change listener already registered, ignoring")
		return
	}
	b.listener = l
}

// Signal records a change for path and opens a batching window if none is
// open. Repeat signals for the same path within one window collapse into a
// single delivery.
func (b *Batcher) Signal(path string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.pending[path] = struct{}{}
	b.arm()
}

// SignalWholesale records a tree-wide staleness marker. Pending specific-path
// signals are kept; both are delivered at flush.
func (b *Batcher) SignalWholesale() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.wholesale = true
	b.arm()
}

// arm starts the window timer if no window is currently open. Caller holds mu.
func (b *Batcher) arm() {
	if b.timer == nil && !b.stopped {
		b.timer = time.AfterFunc(b.window, b.flush)
	}
}

// flush delivers one event per distinct pending path (sorted, so delivery
// order is deterministic), then at most one wholesale event, and returns the
// batcher to idle. The listener runs outside the lock: a signal arriving
// mid-flush opens a fresh window instead of being lost.
func (b *Batcher) flush() {
	b.mu.Lock()
	pending := b.pending
	wholesale := b.wholesale
	listener := b.listener
	b.pending = make(map[string]struct{})
	b.wholesale = false
	b.timer = nil
	b.mu.Unlock()

	if listener == nil {
		b.logger.Warn().Int("dropped", len(pending)).Msg("No change listener registered, dropping signals")
		return
	}

	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	slices.Sort(paths)

	b.logger.Trace().Int("paths", len(paths)).Bool("wholesale", wholesale).Msg("Flushing change notifications")
	for _, p := range paths {
		listener(bridgefs.ChangeEvent{Path: p})
	}
	if wholesale {
		listener(bridgefs.ChangeEvent{Wholesale: true})
	}
}

// Stop cancels any open window and rejects further signals. Signals recorded
// but not yet flushed are dropped.
func (b *Batcher) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stopped = true
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}
