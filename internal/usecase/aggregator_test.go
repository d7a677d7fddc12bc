package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/listinglens/resolver/internal/domain"
)

// sliceSource serves a fixed set of listings, optionally failing after a
// given number of records.
type sliceSource struct {
	listings []domain.Listing
	pos      int
	failAt   int
	err      error
}

func (s *sliceSource) Next() (domain.Listing, bool, error) {
	if s.err != nil && s.pos == s.failAt {
		return domain.Listing{}, false, s.err
	}
	if s.pos >= len(s.listings) {
		return domain.Listing{}, false, nil
	}
	l := s.listings[s.pos]
	s.pos++
	return l, true, nil
}

// endlessSource never runs dry; used to exercise cancellation.
type endlessSource struct{ n int }

func (s *endlessSource) Next() (domain.Listing, bool, error) {
	s.n++
	return domain.Listing{
		ID:           fmt.Sprintf("endless-%d", s.n),
		Title:        "Sony Cybershot DSCW310",
		Manufacturer: "Sony",
	}, true, nil
}

func testListings() []domain.Listing {
	return []domain.Listing{
		{ID: "l1", Title: "Sony Cybershot DSCW310 12MP", Manufacturer: "Sony"},
		{ID: "l2", Title: "Canon PowerShot SX220 HS", Manufacturer: "Canon"},
		{ID: "l3", Title: "Sony DSC-W310 silver"},
		{ID: "l4", Title: "Garden hose 20ft", Manufacturer: "HoseCo"},
		{ID: "l5", Title: "Olympus PEN E-P2 body", Manufacturer: "OPYMPUS"},
		{ID: "l6", Title: "USB cable", Manufacturer: ""},
		{ID: "l7", Title: "Canon IXUS 220 HS compact", Manufacturer: "Canon"},
	}
}

// normalize reduces a run's output to productName -> sorted listing ids,
// the order-independent view of a grouping.
func normalize(groups []domain.ResultGroup) map[string][]string {
	out := make(map[string][]string)
	for _, g := range groups {
		for _, l := range g.Listings {
			out[g.ProductName] = append(out[g.ProductName], l.ID)
		}
		sort.Strings(out[g.ProductName])
	}
	return out
}

func TestAggregatorRun(t *testing.T) {
	pipeline := NewMatchPipeline(testCatalog(), false)

	t.Run("totals invariant holds", func(t *testing.T) {
		agg := NewAggregator(pipeline, 2, 4)
		groups, summary, err := agg.Run(context.Background(), &sliceSource{listings: testListings()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if summary.TotalListings != 7 {
			t.Errorf("TotalListings = %d, want 7", summary.TotalListings)
		}
		if summary.MatchedListings+summary.UnmatchedListings != summary.TotalListings {
			t.Errorf("matched %d + unmatched %d != total %d",
				summary.MatchedListings, summary.UnmatchedListings, summary.TotalListings)
		}
		grouped := 0
		for _, g := range groups {
			grouped += len(g.Listings)
		}
		if grouped != summary.MatchedListings {
			t.Errorf("sum of group sizes = %d, want MatchedListings %d", grouped, summary.MatchedListings)
		}
		if summary.MatchedProducts != len(groups) {
			t.Errorf("MatchedProducts = %d, want %d", summary.MatchedProducts, len(groups))
		}
		if summary.TotalProducts != 5 {
			t.Errorf("TotalProducts = %d, want 5", summary.TotalProducts)
		}
	})

	t.Run("unmatched listings are counted but never grouped", func(t *testing.T) {
		agg := NewAggregator(pipeline, 3, 2)
		groups, summary, err := agg.Run(context.Background(), &sliceSource{listings: testListings()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if summary.UnmatchedListings != 2 {
			t.Errorf("UnmatchedListings = %d, want 2 (garden hose, usb cable)", summary.UnmatchedListings)
		}
		for _, g := range groups {
			if g.ProductName == "" {
				t.Error("output contains a group for the unmatched key")
			}
		}
	})

	t.Run("grouping membership is correct", func(t *testing.T) {
		agg := NewAggregator(pipeline, 2, 3)
		groups, _, err := agg.Run(context.Background(), &sliceSource{listings: testListings()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := map[string][]string{
			"Sony Cyber-shot DSC-W310": {"l1", "l3"},
			"Canon PowerShot SX220 HS": {"l2"},
			"Olympus PEN E-P2":         {"l5"},
			"Canon IXUS 220 HS":        {"l7"},
		}
		got := normalize(groups)
		if len(got) != len(want) {
			t.Fatalf("got %d groups %v, want %d", len(got), got, len(want))
		}
		for name, ids := range want {
			gotIDs := got[name]
			if len(gotIDs) != len(ids) {
				t.Errorf("group %q = %v, want %v", name, gotIDs, ids)
				continue
			}
			for i := range ids {
				if gotIDs[i] != ids[i] {
					t.Errorf("group %q = %v, want %v", name, gotIDs, ids)
					break
				}
			}
		}
	})

	t.Run("result set is independent of chunking and worker count", func(t *testing.T) {
		var reference map[string][]string
		for _, shape := range []struct{ chunk, workers int }{
			{1, 1}, {1, 8}, {3, 2}, {1000, 4},
		} {
			agg := NewAggregator(pipeline, shape.chunk, shape.workers)
			groups, _, err := agg.Run(context.Background(), &sliceSource{listings: testListings()})
			if err != nil {
				t.Fatalf("chunk=%d workers=%d: unexpected error: %v", shape.chunk, shape.workers, err)
			}
			got := normalize(groups)
			if reference == nil {
				reference = got
				continue
			}
			if len(got) != len(reference) {
				t.Fatalf("chunk=%d workers=%d: %d groups, want %d", shape.chunk, shape.workers, len(got), len(reference))
			}
			for name, ids := range reference {
				gotIDs := got[name]
				if len(gotIDs) != len(ids) {
					t.Errorf("chunk=%d workers=%d: group %q = %v, want %v", shape.chunk, shape.workers, name, gotIDs, ids)
					continue
				}
				for i := range ids {
					if gotIDs[i] != ids[i] {
						t.Errorf("chunk=%d workers=%d: group %q = %v, want %v", shape.chunk, shape.workers, name, gotIDs, ids)
						break
					}
				}
			}
		}
	})

	t.Run("empty source yields empty result", func(t *testing.T) {
		agg := NewAggregator(pipeline, 0, 0) // defaults kick in
		groups, summary, err := agg.Run(context.Background(), &sliceSource{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(groups) != 0 || summary.TotalListings != 0 {
			t.Errorf("got %d groups, total %d, want empty run", len(groups), summary.TotalListings)
		}
	})

	t.Run("source errors abort the run", func(t *testing.T) {
		sourceErr := errors.New("disk gone")
		agg := NewAggregator(pipeline, 2, 2)
		_, _, err := agg.Run(context.Background(), &sliceSource{
			listings: testListings(),
			failAt:   5,
			err:      sourceErr,
		})
		if !errors.Is(err, sourceErr) {
			t.Errorf("error = %v, want wrapped source error", err)
		}
	})

	t.Run("cancellation stops an endless stream", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		agg := NewAggregator(pipeline, 64, 2)

		done := make(chan error, 1)
		go func() {
			_, _, err := agg.Run(ctx, &endlessSource{})
			done <- err
		}()

		time.Sleep(20 * time.Millisecond)
		cancel()

		select {
		case err := <-done:
			if !errors.Is(err, context.Canceled) {
				t.Errorf("error = %v, want context.Canceled", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatal("aggregator did not stop after cancellation")
		}
	})
}
