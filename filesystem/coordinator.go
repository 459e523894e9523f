package filesystem

import (
	"context"
	"io/fs"

	"github.com/google/uuid"

	"github.com/bridgefs/bridgefs"
	"github.com/bridgefs/bridgefs/internal/util"
)

// WriteFile sequences existence-check, raw write, re-stat, and change-signal
// synthesis for a single path. A failed write returns immediately and notifies
// nobody. On write success exactly one signal is enqueued after the result is
// computed: a pre-existing path signals itself, a newly created path signals
// its parent directory (the create is visible as a new child of the parent
// listing). Emission is deferred so it survives any panic between write and
// return.
func (a *Adapter) WriteFile(ctx context.Context, p string, data []byte) (*bridgefs.Stats, error) {
	logger := a.opLogger("WriteFile", p)

	existed := a.Exists(ctx, p) // stat failure means "does not exist"

	if err := a.drv.WriteFile(ctx, p, data); err != nil {
		cerr := bridgefs.Translate(err)
		logger.Debug().Err(cerr).Msg("Write failed")
		return nil, cerr
	}

	defer func() {
		if existed {
			a.batcher.Signal(p)
		} else {
			a.batcher.Signal(parentOf(p))
		}
	}()

	st, serr := a.drv.Stat(ctx, p)
	if cerr := bridgefs.Translate(serr); cerr != nil {
		logger.Debug().Err(cerr).Msg("Post-write stat failed")
		return nil, cerr
	}
	logger.Trace().Int("size", len(data)).Bool("existed", existed).Msg("Write complete")
	return st, nil
}

// Mkdir creates a directory and returns its stats. A zero mode uses the
// configured default. The parent-directory signal is enqueued on every exit
// path, including failure: downstream listeners may see a change for an
// operation the caller was told failed, which is accepted and documented.
func (a *Adapter) Mkdir(ctx context.Context, p string, mode fs.FileMode) (*bridgefs.Stats, error) {
	logger := a.opLogger("Mkdir", p)
	defer a.batcher.Signal(parentOf(p))

	if err := a.drv.Mkdir(ctx, p, a.dirMode(mode)); err != nil {
		cerr := bridgefs.Translate(err)
		logger.Debug().Err(cerr).Msg("Mkdir failed")
		return nil, cerr
	}

	st, serr := a.drv.Stat(ctx, p)
	if cerr := bridgefs.Translate(serr); cerr != nil {
		logger.Debug().Err(cerr).Msg("Post-mkdir stat failed")
		return nil, cerr
	}
	return st, nil
}

// Unlink deletes the file at path. No stat follows (the path no longer
// exists). As with Mkdir, the parent-directory signal is enqueued on every
// exit path.
func (a *Adapter) Unlink(ctx context.Context, p string) error {
	logger := a.opLogger("Unlink", p)
	defer a.batcher.Signal(parentOf(p))

	if err := a.drv.Remove(ctx, p); err != nil {
		cerr := bridgefs.Translate(err)
		logger.Debug().Err(cerr).Msg("Unlink failed")
		return cerr
	}
	return nil
}

// MoveToTrash moves the path into the driver's trash area. It removes a child
// from its parent's listing, so it signals like Unlink.
func (a *Adapter) MoveToTrash(ctx context.Context, p string) error {
	logger := a.opLogger("MoveToTrash", p)
	defer a.batcher.Signal(parentOf(p))

	if err := a.drv.Trash(ctx, p); err != nil {
		cerr := bridgefs.Translate(err)
		logger.Debug().Err(cerr).Msg("Trash failed")
		return cerr
	}
	return nil
}

// Rename moves oldPath to newPath. No synthetic change signal is emitted: the
// owning index is assumed to account for the rename itself.
func (a *Adapter) Rename(ctx context.Context, oldPath, newPath string) error {
	logger := a.opLogger("Rename", oldPath)

	if err := a.drv.Rename(ctx, oldPath, newPath); err != nil {
		cerr := bridgefs.Translate(err)
		logger.Debug().Err(cerr).Str("new_path", newPath).Msg("Rename failed")
		return cerr
	}
	return nil
}

// opLogger returns a logger tagged with a correlation id for one mutating
// operation.
func (a *Adapter) opLogger(op, p string) util.Logger {
	return a.logger.With().Str("op", op).Str("op_id", uuid.NewString()).Str("path", p).Logger()
}
