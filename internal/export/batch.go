package export

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/site"
	"github.com/Deutsche-Digitale-Bibliothek/ddblabs-statistics/internal/table"
)

// BatchResult reports one exported table.
type BatchResult struct {
	Page  string
	Index int
	Path  string
}

// Site exports every marked table of every page into outDir, running pages
// through a bounded worker pool. Pages without tables are skipped.
func Site(ctx context.Context, s *site.Site, e Exporter, markerClass, outDir string, workers int) ([]BatchResult, error) {
	if workers <= 0 {
		workers = 4
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	results := make(chan BatchResult)
	for _, page := range s.Pages {
		page := page
		g.Go(func() error {
			for _, snap := range table.Extract(page.Doc, page.Rel, markerClass) {
				path, err := ToFile(e, snap, outDir)
				if err != nil {
					return fmt.Errorf("export %s table %d: %w", page.Rel, snap.Index, err)
				}
				select {
				case results <- BatchResult{Page: page.Rel, Index: snap.Index, Path: path}:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}

	go func() {
		g.Wait()
		close(results)
	}()

	var all []BatchResult
	for r := range results {
		all = append(all, r)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return all, nil
}
