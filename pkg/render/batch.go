package render

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// RenderAll renders patches concurrently, one oscillator chain per
// goroutine. Results are in patch order. The first error cancels the rest.
func RenderAll(ctx context.Context, patches []*Patch) ([]*Result, error) {
	results := make([]*Result, len(patches))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range patches {
		i, p := i, p
		g.Go(func() error {
			r, err := Render(ctx, p)
			if err != nil {
				return err
			}
			results[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
