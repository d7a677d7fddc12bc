package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/listinglens/resolver/internal/domain"
)

// Sink writes result groups as JSON lines, one group per line, mirroring
// the shape of the input feeds.
type Sink struct {
	writer io.Writer
}

// NewSink creates a sink over the given writer.
func NewSink(w io.Writer) *Sink {
	return &Sink{writer: w}
}

// WriteGroups encodes every group on its own line.
func (s *Sink) WriteGroups(groups []domain.ResultGroup) error {
	encoder := json.NewEncoder(s.writer)
	for _, group := range groups {
		if err := encoder.Encode(group); err != nil {
			return fmt.Errorf("writing result group %q: %w", group.ProductName, err)
		}
	}
	return nil
}

// FormatSummary renders run totals for the log.
func FormatSummary(summary domain.Summary) string {
	return fmt.Sprintf(
		"matched %d of %d listings (%d unmatched) across %d of %d products",
		summary.MatchedListings,
		summary.TotalListings,
		summary.UnmatchedListings,
		summary.MatchedProducts,
		summary.TotalProducts,
	)
}
