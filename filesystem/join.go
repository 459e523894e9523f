package filesystem

import (
	"context"
	"sync"

	"github.com/bridgefs/bridgefs"
)

// joinOutcome is the explicit two-slot record of a concurrent data+metadata
// pair. Each half fills exactly one slot pair; the caller applies the
// failure-priority rule after both are present.
type joinOutcome struct {
	data    []byte
	dataErr error
	stats   *bridgefs.Stats
	statErr error
}

// joinReadStat issues the content fetch and the stat for p immediately,
// without sequencing between them, and returns once both have completed. The
// single return gives the exactly-once guarantee for every interleaving of the
// two completions. If one primitive never returns, neither does this call;
// combinators carry no timeout of their own.
func (a *Adapter) joinReadStat(ctx context.Context, p string) joinOutcome {
	var (
		out joinOutcome
		wg  sync.WaitGroup
	)
	wg.Go(func() {
		out.data, out.dataErr = a.drv.ReadFile(ctx, p)
	})
	wg.Go(func() {
		out.stats, out.statErr = a.drv.Stat(ctx, p)
	})
	wg.Wait()
	return out
}
