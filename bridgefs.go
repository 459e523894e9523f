// Package bridgefs contains core domain types and the driver contract for the
// bridgefs storage adapter: a uniform path-based surface (stat, read, write,
// list, create, delete, rename, watch) composed on top of a storage driver
// that has its own error semantics and no native change notification.
package bridgefs

import "time"

// Stats is an immutable metadata snapshot produced by a successful stat.
// It is attached to read/write/mkdir results whenever available.
type Stats struct {
	IsFile bool
	Mtime  time.Time
	Size   int64
}

// ChangeEvent is delivered to the registered [ChangeListener] when a batching
// window flushes. A Wholesale event carries no path and means the caller
// should treat the entire tree as possibly stale.
type ChangeEvent struct {
	Path      string
	Wholesale bool
}

// ChangeListener receives coalesced change notifications. Exactly one listener
// is registered process-wide, at initialization.
type ChangeListener func(ChangeEvent)
