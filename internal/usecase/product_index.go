package usecase

import (
	"regexp"
	"strings"

	"github.com/listinglens/resolver/internal/domain"
)

// preparedProduct is a catalog product plus the compiled patterns derived
// from its family and model. Preparation happens exactly once, during
// index construction, before any listing is matched.
type preparedProduct struct {
	product      domain.Product
	modelPattern *regexp.Regexp
	fullPattern  *regexp.Regexp
}

// productIndex groups prepared products by manufacturer key for O(1)
// candidate lookup. Buckets preserve catalog order so that "first
// matching candidate" is deterministic per build. Immutable once built.
type productIndex struct {
	buckets map[string][]*preparedProduct
	keys    []string // distinct manufacturer keys in first-seen order
	total   int
}

// manufacturerKey is the lowercase first whitespace-delimited token of a
// manufacturer string. Products with no manufacturer group under "".
// The key is not guaranteed unique per real-world manufacturer; that is
// an accepted trade-off for constant-time candidate lookup.
func manufacturerKey(manufacturer string) string {
	return firstWord(strings.ToLower(manufacturer))
}

// buildProductIndex prepares every product and buckets it under its
// manufacturer key.
func buildProductIndex(products []domain.Product) *productIndex {
	idx := &productIndex{
		buckets: make(map[string][]*preparedProduct),
		total:   len(products),
	}
	for _, p := range products {
		key := manufacturerKey(p.Manufacturer)
		if _, ok := idx.buckets[key]; !ok {
			idx.keys = append(idx.keys, key)
		}
		modelPattern, fullPattern := synthesizePatterns(p.Family, p.Model)
		idx.buckets[key] = append(idx.buckets[key], &preparedProduct{
			product:      p,
			modelPattern: modelPattern,
			fullPattern:  fullPattern,
		})
	}
	return idx
}

// candidatesFor returns the prepared products sharing the manufacturer
// key, or nil when the key is unknown.
func (idx *productIndex) candidatesFor(key string) []*preparedProduct {
	return idx.buckets[key]
}

// manufacturerKeys returns the distinct keys in catalog order, the seed
// set for manufacturer resolution.
func (idx *productIndex) manufacturerKeys() []string {
	return idx.keys
}
