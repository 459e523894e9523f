package filesystem

import (
	"context"
	"path"
	"sync"

	"github.com/bridgefs/bridgefs"
)

// statEach issues one stat per entry concurrently and resolves only after all
// of them complete. Each outcome is stored at its original index, so
// results[i] corresponds to names[i] regardless of completion order. A failed
// slot records its canonical error in place and never aborts its siblings.
// An empty names slice resolves immediately.
func (a *Adapter) statEach(ctx context.Context, dir string, names []string) []EntryResult {
	results := make([]EntryResult, len(names))
	if len(names) == 0 {
		return results
	}

	var wg sync.WaitGroup
	for i, name := range names {
		wg.Go(func() {
			st, err := a.drv.Stat(ctx, path.Join(dir, name))
			if cerr := bridgefs.Translate(err); cerr != nil {
				results[i] = EntryResult{Err: cerr}
				return
			}
			results[i] = EntryResult{Stats: st}
		})
	}
	wg.Wait()
	return results
}
