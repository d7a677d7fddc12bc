package usecase

import (
	"context"
	"log"
	"runtime"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/listinglens/resolver/internal/domain"
)

// DefaultChunkSize is the number of listings handed to a worker as one
// unit of work.
const DefaultChunkSize = 2048

// ListingSource yields listings one at a time. Next reports ok=false
// when the stream is exhausted; a non-nil error aborts the run.
type ListingSource interface {
	Next() (domain.Listing, bool, error)
}

// chunkResult is one worker's local grouping for a single chunk. The ""
// key collects listings that matched nothing.
type chunkResult struct {
	groups map[string][]domain.Listing
	count  int
}

// Aggregator partitions the listing stream into fixed-size chunks,
// matches each chunk on a worker pool, and folds the chunk-local
// groupings into the final per-product groups. The fold is a key-merge
// with list concatenation, associative and commutative, so workers may
// finish in any order.
type Aggregator struct {
	pipeline  *MatchPipeline
	chunkSize int
	workers   int
	progress  *rate.Limiter
}

// NewAggregator creates an aggregator over a bound pipeline. A
// non-positive chunk size falls back to DefaultChunkSize; non-positive
// workers falls back to the CPU count.
func NewAggregator(pipeline *MatchPipeline, chunkSize, workers int) *Aggregator {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Aggregator{
		pipeline:  pipeline,
		chunkSize: chunkSize,
		workers:   workers,
		// Throttle progress lines so huge inputs don't flood the log
		progress: rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
}

// Run consumes the source to exhaustion and returns the matched groups
// plus run totals. Unmatched listings are counted in the summary but
// never appear in a group. Group order is unspecified.
func (a *Aggregator) Run(ctx context.Context, source ListingSource) ([]domain.ResultGroup, domain.Summary, error) {
	chunks := make(chan []domain.Listing, a.workers)
	partials := make(chan chunkResult, a.workers)

	group, ctx := errgroup.WithContext(ctx)

	// Dispatcher: slice the stream into fixed-size chunks.
	group.Go(func() error {
		defer close(chunks)
		chunk := make([]domain.Listing, 0, a.chunkSize)
		for {
			listing, ok, err := source.Next()
			if err != nil {
				return err
			}
			if !ok {
				break
			}
			chunk = append(chunk, listing)
			if len(chunk) == a.chunkSize {
				select {
				case chunks <- chunk:
				case <-ctx.Done():
					return ctx.Err()
				}
				chunk = make([]domain.Listing, 0, a.chunkSize)
			}
		}
		if len(chunk) > 0 {
			select {
			case chunks <- chunk:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	// Workers: match every listing in a chunk and group locally.
	for i := 0; i < a.workers; i++ {
		group.Go(func() error {
			for chunk := range chunks {
				local := chunkResult{
					groups: make(map[string][]domain.Listing),
					count:  len(chunk),
				}
				for _, listing := range chunk {
					result := a.pipeline.Match(listing)
					local.groups[result.ProductName] = append(local.groups[result.ProductName], result.Listing)
				}
				select {
				case partials <- local:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
			return nil
		})
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- group.Wait()
		close(partials)
	}()

	// Combiner: fold partial groupings by key-merge.
	merged := make(map[string][]domain.Listing)
	total := 0
	for partial := range partials {
		total += partial.count
		for name, listings := range partial.groups {
			merged[name] = append(merged[name], listings...)
		}
		if a.progress.Allow() {
			log.Printf("[AGG] processed %d listings", total)
		}
	}
	if err := <-waitErr; err != nil {
		return nil, domain.Summary{}, err
	}

	unmatched := len(merged[""])
	delete(merged, "")

	groups := make([]domain.ResultGroup, 0, len(merged))
	matched := 0
	for name, listings := range merged {
		matched += len(listings)
		groups = append(groups, domain.ResultGroup{ProductName: name, Listings: listings})
	}

	summary := domain.Summary{
		TotalListings:     total,
		MatchedListings:   matched,
		UnmatchedListings: unmatched,
		MatchedProducts:   len(groups),
		TotalProducts:     a.pipeline.ProductCount(),
	}
	return groups, summary, nil
}
