package normalize

import (
	"context"
	"errors"

	"github.com/GoldenInvestBI/FUSION-BEEF/internal/catalog"
	"golang.org/x/sync/errgroup"
)

// Result holds the outcome of normalizing a whole batch, in input order
type Result struct {
	Items      []catalog.Item
	Rejections []*catalog.ExtractionError
}

// All normalizes records on at most workers goroutines. Items and rejections
// keep the order of records.
func (n *Normalizer) All(ctx context.Context, records []catalog.RawRecord, workers int) (Result, error) {
	if workers < 1 {
		workers = 1
	}

	items := make([]catalog.Item, len(records))
	rejections := make([]*catalog.ExtractionError, len(records))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := range records {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			item, err := n.Normalize(i, records[i])
			if err != nil {
				var extraction *catalog.ExtractionError
				if !errors.As(err, &extraction) {
					return err
				}
				rejections[i] = extraction
				return nil
			}
			items[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var res Result
	for i := range records {
		if rejections[i] != nil {
			res.Rejections = append(res.Rejections, rejections[i])
			continue
		}
		res.Items = append(res.Items, items[i])
	}
	return res, nil
}
