package usecase

import (
	"regexp"
	"strings"
	"sync"
)

// Fuzzy-resolution thresholds
const (
	maxManufacturerDistance = 2 // accept a fuzzy match up to this edit distance
	maxLengthDelta          = 3 // skip keys whose length differs by more than this
	minFuzzyCandidateLength = 4 // shorter candidates are too ambiguous to correct
)

// Corporate spellings seen in listing feeds that the catalog abbreviates
var (
	kodakPrefixPattern = regexp.MustCompile(`^eastman kodak( company)?`)
	hpPrefixPattern    = regexp.MustCompile(`^hewlett packard`)
)

// normalizeManufacturer lowercases a raw manufacturer string and folds
// verbose corporate spellings onto the catalog names ("Eastman Kodak
// Company" becomes "kodak", "Hewlett Packard" becomes "hp"). The same
// normalization is applied to listings and to resolver probes so the two
// sides always agree.
func normalizeManufacturer(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	s = kodakPrefixPattern.ReplaceAllString(s, "kodak")
	s = hpPrefixPattern.ReplaceAllString(s, "hp")
	return s
}

// firstWord returns the first whitespace-delimited token of s.
func firstWord(s string) string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// ManufacturerResolver maps noisy listing manufacturer strings onto
// canonical catalog manufacturer keys. An exact first-word match always
// wins; otherwise a bounded edit-distance fallback corrects typos like
// "OPYMPUS" for "olympus". Resolution is memoized per distinct candidate
// string and safe for concurrent use.
type ManufacturerResolver struct {
	keys       []string // catalog order, drives deterministic tie-breaks
	keySet     map[string]bool
	firstChars map[byte]bool

	mutex sync.RWMutex
	memo  map[string]string // candidate -> key, "" meaning no match
}

// NewManufacturerResolver builds a resolver over the given manufacturer
// keys, preserving their first-seen order so that fuzzy ties always
// break toward the earlier catalog entry.
func NewManufacturerResolver(keys []string) *ManufacturerResolver {
	r := &ManufacturerResolver{
		keySet:     make(map[string]bool, len(keys)),
		firstChars: make(map[byte]bool, len(keys)),
		memo:       make(map[string]string),
	}
	for _, key := range keys {
		if key == "" || r.keySet[key] {
			continue
		}
		r.keys = append(r.keys, key)
		r.keySet[key] = true
		r.firstChars[key[0]] = true
	}
	return r
}

// Resolve maps a raw candidate string to a canonical manufacturer key.
// The second return value is false when nothing resolves.
func (r *ManufacturerResolver) Resolve(raw string) (string, bool) {
	candidate := normalizeManufacturer(raw)
	if candidate == "" {
		return "", false
	}

	r.mutex.RLock()
	key, seen := r.memo[candidate]
	r.mutex.RUnlock()
	if seen {
		return key, key != ""
	}

	key = r.resolve(candidate)

	r.mutex.Lock()
	r.memo[candidate] = key
	r.mutex.Unlock()

	return key, key != ""
}

func (r *ManufacturerResolver) resolve(candidate string) string {
	word := firstWord(candidate)
	if r.keySet[word] {
		return word
	}

	// Fuzzy fallback. The length and first-character checks are cheap
	// filters that keep the edit-distance computation off the hot path
	// for candidates that cannot possibly resolve.
	if len(word) < minFuzzyCandidateLength || !r.firstChars[word[0]] {
		return ""
	}

	best := ""
	bestDistance := maxManufacturerDistance + 1
	for _, key := range r.keys {
		delta := len(word) - len(key)
		if delta < 0 {
			delta = -delta
		}
		if delta > maxLengthDelta {
			continue
		}
		if d := stringDistance(word, key); d < bestDistance {
			bestDistance = d
			best = key
		}
	}
	if bestDistance > maxManufacturerDistance {
		return ""
	}
	return best
}
