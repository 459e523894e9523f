// Package filesystem implements the bridgefs adapter core: the public
// operation surface, the async composition combinators that join independent
// driver calls into single results, and the change notification batcher that
// synthesizes a coalesced change stream on top of a driver with no native
// watch support.
package filesystem

import (
	"context"
	"io/fs"
	"path"

	"github.com/bridgefs/bridgefs"
	"github.com/bridgefs/bridgefs/config"
	"github.com/bridgefs/bridgefs/internal/util"
)

// EntryResult is one slot of a ReadDir result: either the entry's Stats or the
// canonical error its stat resolved to. Exactly one of the two is set.
type EntryResult struct {
	Stats *bridgefs.Stats
	Err   error
}

// Adapter composes primitive driver calls into the uniform path-based surface.
// It holds no durable state of its own; everything persistent lives in the
// driver. Paths are absolute and slash-delimited. The adapter does not lock
// paths: concurrent operations on the same path may observe each other's
// partial effects, which is accepted rather than corrected.
type Adapter struct {
	drv     bridgefs.Driver
	cfg     *config.Config
	batcher *Batcher
	logger  util.Logger
}

// New creates an Adapter over drv. A nil cfg uses defaults.
func New(drv bridgefs.Driver, cfg *config.Config) *Adapter {
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	return &Adapter{
		drv:     drv,
		cfg:     cfg,
		batcher: NewBatcher(cfg.BatchWindow),
		logger:  util.GetLogger("adapter"),
	}
}

// Stat returns the metadata snapshot for path.
func (a *Adapter) Stat(ctx context.Context, p string) (*bridgefs.Stats, error) {
	st, err := a.drv.Stat(ctx, p)
	if cerr := bridgefs.Translate(err); cerr != nil {
		return nil, cerr
	}
	return st, nil
}

// Exists reports whether path exists. It never fails: any stat error,
// including driver-internal faults, reports false.
func (a *Adapter) Exists(ctx context.Context, p string) bool {
	_, err := a.drv.Stat(ctx, p)
	return err == nil
}

// ReadDir enumerates path's children and stats each one concurrently.
// results[i] always corresponds to names[i]. The call itself fails only if
// enumeration fails; individual stat failures land in their slot and never
// abort siblings.
func (a *Adapter) ReadDir(ctx context.Context, p string) (names []string, results []EntryResult, err error) {
	names, derr := a.drv.ReadDir(ctx, p)
	if cerr := bridgefs.Translate(derr); cerr != nil {
		return nil, nil, cerr
	}
	return names, a.statEach(ctx, p, names), nil
}

// ReadFile fetches path's contents and metadata concurrently and returns both.
// Success requires both halves; a content failure takes priority over the
// stat's outcome. The two calls are unsequenced, so if the file mutates
// between them the returned data and stats may disagree. That race is
// documented, not corrected.
func (a *Adapter) ReadFile(ctx context.Context, p string) ([]byte, *bridgefs.Stats, error) {
	out := a.joinReadStat(ctx, p)
	if cerr := bridgefs.Translate(out.dataErr); cerr != nil {
		return nil, nil, cerr
	}
	if cerr := bridgefs.Translate(out.statErr); cerr != nil {
		return nil, nil, cerr
	}
	return out.data, out.stats, nil
}

// InitWatchers registers the single process-wide change listener. Only the
// first registration takes effect. The focus-triggered wholesale fallback
// ([Adapter.FocusGained]) delivers through the same listener.
func (a *Adapter) InitWatchers(l bridgefs.ChangeListener) {
	a.batcher.SetListener(l)
}

// FocusGained injects a wholesale signal, telling the listener to treat the
// entire tree as possibly stale. Hosts call this when their UI regains focus
// to compensate for changes made outside the adapter's visibility while
// unfocused.
func (a *Adapter) FocusGained() {
	a.logger.Debug().Msg("Focus regained, scheduling wholesale notification")
	a.batcher.SignalWholesale()
}

// WatchPath is accepted as a no-op: no per-path subscription list exists; the
// registered listener already receives every batched signal.
func (a *Adapter) WatchPath(p string) {}

// UnwatchPath is accepted as a no-op, see [Adapter.WatchPath].
func (a *Adapter) UnwatchPath(p string) {}

// UnwatchAll is accepted as a no-op, see [Adapter.WatchPath].
func (a *Adapter) UnwatchAll() {}

// Close stops the batcher. Signals recorded but not yet flushed are dropped.
func (a *Adapter) Close() {
	a.batcher.Stop()
}

// dirMode resolves the directory creation mode, falling back to the configured
// default when the caller passes 0.
func (a *Adapter) dirMode(mode fs.FileMode) fs.FileMode {
	if mode == 0 {
		return a.cfg.DirMode
	}
	return mode
}

// parentOf returns the slash-delimited parent directory of p.
func parentOf(p string) string {
	return path.Dir(p)
}
