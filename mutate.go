package wordseed

import (
	"log/slog"
	"sync"
	"time"

	"golang.org/x/net/html"
)

// DefaultDebounce is the window used to coalesce a burst of document
// mutations into a single rewriter pass. A few hundred milliseconds covers
// typical streaming UI updates without visible annotation lag.
const DefaultDebounce = 250 * time.Millisecond

// Coordinator batches newly-inserted subtrees and feeds them to a Rewriter
// after a debounce window, so a burst of mutations costs one pass.
//
// Each Enqueue cancels and re-arms the single pending timer (coalescing,
// not queuing). Firing drains the batch atomically before processing:
// roots enqueued while a pass runs start a fresh batch rather than being
// lost or double-counted. After Stop returns no further pass will run.
//
// The coordinator never reacts to the rewriter's own output: generated
// units and processed nodes are recognized by the rewriter's traversal
// and skip rules, so re-enqueueing them is a no-op rather than a loop.
type Coordinator struct {
	mu       sync.Mutex
	rewriter *Rewriter
	debounce time.Duration
	logger   *slog.Logger

	pending []*html.Node
	timer   *time.Timer
	gen     uint64
	stopped bool

	// onPass, when set, observes the stats of every flush. Used by the
	// subtitle overlay to surface per-burst counters.
	onPass func(Stats)
}

// CoordinatorOption configures a Coordinator.
type CoordinatorOption func(*Coordinator)

// WithDebounce sets the coalescing window (default DefaultDebounce).
func WithDebounce(d time.Duration) CoordinatorOption {
	return func(co *Coordinator) {
		if d > 0 {
			co.debounce = d
		}
	}
}

// WithCoordinatorLogger sets the logger for lifecycle diagnostics.
func WithCoordinatorLogger(l *slog.Logger) CoordinatorOption {
	return func(co *Coordinator) {
		if l != nil {
			co.logger = l
		}
	}
}

// WithPassObserver registers fn to receive the stats of every completed
// debounce pass.
func WithPassObserver(fn func(Stats)) CoordinatorOption {
	return func(co *Coordinator) {
		co.onPass = fn
	}
}

// NewCoordinator creates a coordinator feeding the given rewriter.
func NewCoordinator(rw *Rewriter, opts ...CoordinatorOption) *Coordinator {
	co := &Coordinator{
		rewriter: rw,
		debounce: DefaultDebounce,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(co)
	}
	return co
}

// Enqueue reports newly-inserted subtree roots. Roots are processed in the
// order captured, once the debounce window elapses without further
// mutations. Enqueueing on a stopped coordinator is a no-op.
func (co *Coordinator) Enqueue(roots ...*html.Node) {
	co.mu.Lock()
	defer co.mu.Unlock()

	if co.stopped {
		return
	}

	for _, root := range roots {
		if root == nil || isGenerated(root) {
			continue
		}
		co.pending = append(co.pending, root)
	}
	if len(co.pending) == 0 {
		return
	}

	// Stop is not enough on its own: a timer that has already fired but is
	// blocked on co.mu returns false from Stop and would drain this batch
	// before the fresh window elapses. Bumping the generation makes that
	// stale callback a no-op.
	if co.timer != nil {
		co.timer.Stop()
	}
	co.gen++
	gen := co.gen
	co.timer = time.AfterFunc(co.debounce, func() { co.fire(gen) })
}

// Flush synchronously drains and processes the current batch, cancelling
// any pending timer. Returns the accumulated stats of the pass.
func (co *Coordinator) Flush() Stats {
	co.mu.Lock()
	if co.timer != nil {
		co.timer.Stop()
		co.timer = nil
	}
	co.gen++
	batch := co.drainLocked()
	co.mu.Unlock()

	return co.process(batch)
}

// Stop cancels observation. Any pending batch is discarded and no pass
// will run after Stop returns.
func (co *Coordinator) Stop() {
	co.mu.Lock()
	defer co.mu.Unlock()

	co.stopped = true
	if co.timer != nil {
		co.timer.Stop()
		co.timer = nil
	}
	co.pending = nil
	co.logger.Debug("coordinator stopped")
}

// Pending returns the number of roots waiting for the next pass.
func (co *Coordinator) Pending() int {
	co.mu.Lock()
	defer co.mu.Unlock()
	return len(co.pending)
}

// fire runs on timer expiry: drain the batch under the lock, then process
// outside it so late Enqueue calls open a fresh batch. gen identifies the
// arming Enqueue; a mismatch means the window was re-armed or flushed while
// this callback waited for the lock.
func (co *Coordinator) fire(gen uint64) {
	co.mu.Lock()
	if co.stopped || gen != co.gen {
		co.mu.Unlock()
		return
	}
	co.timer = nil
	batch := co.drainLocked()
	co.mu.Unlock()

	co.process(batch)
}

// drainLocked consumes the pending batch. Must be called with co.mu held.
func (co *Coordinator) drainLocked() []*html.Node {
	batch := co.pending
	co.pending = nil
	return batch
}

func (co *Coordinator) process(batch []*html.Node) Stats {
	var stats Stats
	for _, root := range batch {
		stats.Add(co.rewriter.ProcessSubtree(root))
	}
	if len(batch) > 0 {
		co.logger.Debug("mutation batch processed",
			"roots", len(batch), "units", stats.Units, "skipped", stats.Skipped)
		if co.onPass != nil {
			co.onPass(stats)
		}
	}
	return stats
}

// isGenerated reports whether a node is (or sits inside) engine output.
func isGenerated(n *html.Node) bool {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		for _, attr := range cur.Attr {
			if attr.Key == AttrUnit {
				return true
			}
		}
	}
	return false
}
