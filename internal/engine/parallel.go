package engine

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/goliatone/go-nbaudit/pkg/interfaces"
)

// validateParallel fans paths out over a bounded worker pool. Documents are
// independent read-only inputs, so the only shared state is the immutable
// configuration; results are written to their input slot to preserve order.
func (e *Engine) validateParallel(ctx context.Context, paths []string, workers int) ([]interfaces.ValidationReport, error) {
	if workers > len(paths) {
		workers = len(paths)
	}

	reports := make([]interfaces.ValidationReport, len(paths))

	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for i, path := range paths {
		eg.Go(func() error {
			report, err := e.ValidateOne(egCtx, path)
			if err != nil {
				return err
			}
			reports[i] = report
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return reports, nil
}
