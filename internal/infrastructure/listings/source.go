package listings

import (
	"bufio"
	"bytes"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"

	"github.com/oklog/ulid/v2"

	"github.com/listinglens/resolver/internal/domain"
)

// maxLineBytes bounds a single listing line; titles are short but some
// feeds pad records with description text.
const maxLineBytes = 1 << 20

// Source streams listings from a JSON-lines file without loading the
// whole file into memory. Each decoded listing is tagged with a
// monotonic ULID so logs and tests can refer to individual records.
// Source implements the matching engine's ListingSource; it is consumed
// once and is not safe for concurrent use.
type Source struct {
	file    *os.File
	scanner *bufio.Scanner
	entropy *ulid.MonotonicEntropy
	line    int
}

// Open opens the listings file at path for streaming.
func Open(path string) (*Source, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNoListings, err)
	}

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	return &Source{
		file:    file,
		scanner: scanner,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}, nil
}

// Next yields the next listing. It reports ok=false at end of stream and
// fails fast on a line that cannot be decoded.
func (s *Source) Next() (domain.Listing, bool, error) {
	for s.scanner.Scan() {
		s.line++
		raw := bytes.TrimSpace(s.scanner.Bytes())
		if len(raw) == 0 {
			continue
		}
		var listing domain.Listing
		if err := json.Unmarshal(raw, &listing); err != nil {
			return domain.Listing{}, false, fmt.Errorf("%w: %s line %d: %v", domain.ErrMalformedRecord, s.file.Name(), s.line, err)
		}
		listing.ID = ulid.MustNew(ulid.Now(), s.entropy).String()
		return listing, true, nil
	}
	if err := s.scanner.Err(); err != nil {
		return domain.Listing{}, false, fmt.Errorf("reading listings %s: %w", s.file.Name(), err)
	}
	return domain.Listing{}, false, nil
}

// Close releases the underlying file.
func (s *Source) Close() error {
	return s.file.Close()
}
